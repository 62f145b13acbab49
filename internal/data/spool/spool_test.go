package spool

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-worktime-tracker/internal/core/recorder"
)

type fakeSink struct {
	mu       sync.Mutex
	reports  []Report
	failing  bool
	attempts int
}

func (f *fakeSink) ReportBrowsing(url string, durationSeconds int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempts++
	if f.failing {
		return fmt.Errorf("storage down")
	}
	if !strings.Contains(url, "://") && strings.HasPrefix(url, "/") {
		// Mirrors the browsing reporter rejecting a URL with no host.
		return fmt.Errorf("%w: no host in url %q", recorder.ErrInvalidReport, url)
	}
	f.reports = append(f.reports, Report{URL: url, DurationSeconds: durationSeconds})
	return nil
}

func (f *fakeSink) attemptCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.attempts
}

func (f *fakeSink) all() []Report {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Report, len(f.reports))
	copy(out, f.reports)
	return out
}

func writeReport(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDrainIngestsExistingReports(t *testing.T) {
	dir := t.TempDir()
	sink := &fakeSink{}

	good := writeReport(t, dir, "a.json", `{"url":"https://ihr.local/page","duration":90}`)
	writeReport(t, dir, "notes.txt", "not a report")

	w, err := NewWatcher(dir, sink)
	require.NoError(t, err)
	require.NoError(t, w.drain())

	reports := sink.all()
	require.Len(t, reports, 1)
	assert.Equal(t, "https://ihr.local/page", reports[0].URL)
	assert.Equal(t, int64(90), reports[0].DurationSeconds)

	_, err = os.Stat(good)
	assert.True(t, os.IsNotExist(err), "ingested report file is removed")
}

func TestDrainSkipsMalformedReports(t *testing.T) {
	dir := t.TempDir()
	sink := &fakeSink{}

	writeReport(t, dir, "broken.json", `{"url": `)
	writeReport(t, dir, "nourl.json", `{"duration":90}`)
	writeReport(t, dir, "zero.json", `{"url":"https://ihr.local","duration":0}`)

	w, err := NewWatcher(dir, sink)
	require.NoError(t, err)
	require.NoError(t, w.drain())

	assert.Empty(t, sink.all(), "malformed reports never reach the sink")
}

func TestSinkRejectIsNotRetried(t *testing.T) {
	dir := t.TempDir()
	sink := &fakeSink{}

	// Passes spool validation (url non-empty, duration positive) but the
	// reporter rejects it for having no host.
	writeReport(t, dir, "hostless.json", `{"url":"/page","duration":30}`)

	w, err := NewWatcher(dir, sink)
	require.NoError(t, err)

	require.NoError(t, w.drain())
	require.NoError(t, w.drain())

	assert.Equal(t, 1, sink.attemptCount(), "rejected report is attempted once, never retried")
	assert.Empty(t, sink.all())
}

func TestSinkFailureLeavesFileForRetry(t *testing.T) {
	dir := t.TempDir()
	sink := &fakeSink{failing: true}

	path := writeReport(t, dir, "a.json", `{"url":"https://ihr.local/page","duration":90}`)

	w, err := NewWatcher(dir, sink)
	require.NoError(t, err)
	require.NoError(t, w.drain())

	_, statErr := os.Stat(path)
	assert.NoError(t, statErr, "file stays in the spool when the sink fails")

	sink.mu.Lock()
	sink.failing = false
	sink.mu.Unlock()

	require.NoError(t, w.drain())
	assert.Len(t, sink.all(), 1)
}

func TestProcessedFilesAreNotIngestedTwice(t *testing.T) {
	dir := t.TempDir()
	sink := &fakeSink{}

	path := writeReport(t, dir, "a.json", `{"url":"https://ihr.local/page","duration":90}`)

	w, err := NewWatcher(dir, sink)
	require.NoError(t, err)

	w.ingestFile(path)
	w.ingestFile(path)

	assert.Len(t, sink.all(), 1)
}

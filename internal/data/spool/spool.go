// Package spool ingests browsing reports dropped as JSON files into a
// spool directory. The browser extension falls back to the spool when the
// tracker's HTTP port is unreachable; the daemon drains existing files at
// startup and watches for new ones.
package spool

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/fsnotify/fsnotify"

	"github.com/penwyp/go-worktime-tracker/internal/core/recorder"
	"github.com/penwyp/go-worktime-tracker/internal/util"
)

// Report is one spooled browsing report file.
type Report struct {
	URL             string `json:"url"`
	DurationSeconds int64  `json:"duration"`
	ReportedAt      string `json:"reportedAt,omitempty"`
}

// BrowsingSink consumes parsed reports, normally the browsing reporter.
type BrowsingSink interface {
	ReportBrowsing(url string, durationSeconds int64) error
}

// Watcher drains and then watches a spool directory. Files are identified
// by inode+size so a rename or editor rewrite cannot make one report count
// twice; successfully ingested files are removed.
type Watcher struct {
	dir     string
	sink    BrowsingSink
	watcher *fsnotify.Watcher

	mu        sync.Mutex
	processed map[uint64]int64 // inode -> size

	stop chan struct{}
	done chan struct{}
}

// NewWatcher creates a watcher for the given spool directory, creating the
// directory if needed.
func NewWatcher(dir string, sink BrowsingSink) (*Watcher, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create spool directory: %w", err)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fs watcher: %w", err)
	}
	if err := fsWatcher.Add(dir); err != nil {
		_ = fsWatcher.Close()
		return nil, fmt.Errorf("watch spool directory: %w", err)
	}

	return &Watcher{
		dir:       dir,
		sink:      sink,
		watcher:   fsWatcher,
		processed: make(map[uint64]int64),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}, nil
}

// Start drains reports already in the spool, then processes events until
// Stop is called.
func (w *Watcher) Start() error {
	if err := w.drain(); err != nil {
		return err
	}
	go w.processEvents()
	return nil
}

// Stop shuts the watcher down.
func (w *Watcher) Stop() {
	close(w.stop)
	<-w.done
	_ = w.watcher.Close()
}

// drain ingests every report file currently in the spool directory.
func (w *Watcher) drain() error {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return fmt.Errorf("scan spool directory: %w", err)
	}

	count := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".json") {
			continue
		}
		w.ingestFile(filepath.Join(w.dir, entry.Name()))
		count++
	}

	if count > 0 {
		util.LogInfof("Drained %d spooled browsing reports from %s", count, w.dir)
	}
	return nil
}

func (w *Watcher) processEvents() {
	defer close(w.done)

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if !strings.HasSuffix(strings.ToLower(event.Name), ".json") {
				continue
			}
			// Writers create then write; a short settle keeps us from
			// reading a half-written report.
			time.Sleep(50 * time.Millisecond)
			w.ingestFile(event.Name)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			util.LogWarnf("Spool watcher error: %v", err)
		case <-w.stop:
			return
		}
	}
}

// ingestFile parses and forwards one report file. Malformed files are
// logged and remembered so they are skipped, not retried forever; only a
// sink failure (e.g. storage down) leaves the file for a later pass.
func (w *Watcher) ingestFile(path string) {
	info, err := util.GetFileInfo(path)
	if err != nil {
		// Already removed or unreadable; nothing to do.
		util.LogDebugf("Skipping spool file %s: %v", path, err)
		return
	}

	w.mu.Lock()
	if size, seen := w.processed[info.Inode]; seen && size == info.Size {
		w.mu.Unlock()
		return
	}
	w.mu.Unlock()

	report, err := parseReport(path)
	if err != nil {
		util.LogWarnf("Dropping malformed spool file %s: %v", path, err)
		w.markProcessed(info)
		return
	}

	if err := w.sink.ReportBrowsing(report.URL, report.DurationSeconds); err != nil {
		if errors.Is(err, recorder.ErrInvalidReport) {
			// Validation rejects are as final as parse failures; retrying
			// the same bytes cannot succeed.
			util.LogWarnf("Dropping rejected spool file %s: %v", path, err)
			w.markProcessed(info)
			return
		}
		util.LogErrorf("Failed to ingest spool file %s, leaving for retry: %v", path, err)
		return
	}

	w.markProcessed(info)
	if err := os.Remove(path); err != nil {
		util.LogWarnf("Failed to remove ingested spool file %s: %v", path, err)
	}
}

func (w *Watcher) markProcessed(info *util.FileInfo) {
	w.mu.Lock()
	w.processed[info.Inode] = info.Size
	w.mu.Unlock()
}

// parseReport reads and validates one spooled report.
func parseReport(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}

	var report Report
	if err := sonic.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("parse report: %w", err)
	}

	if report.URL == "" {
		return nil, fmt.Errorf("report has no url")
	}
	if report.DurationSeconds <= 0 {
		return nil, fmt.Errorf("report has non-positive duration %d", report.DurationSeconds)
	}
	return &report, nil
}

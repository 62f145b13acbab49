package recorder

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/penwyp/go-worktime-tracker/internal/core/model"
	"github.com/penwyp/go-worktime-tracker/internal/util"
)

// ErrInvalidReport marks a browsing report rejected on validation (bad URL,
// non-positive duration). Callers retrying on storage failures must not
// retry these; check with errors.Is.
var ErrInvalidReport = errors.New("invalid browsing report")

// BrowsingStore is the slice of the store browsing ingestion needs.
type BrowsingStore interface {
	Appender
	ResolveRoute(host string) (string, bool, error)
}

// BrowsingReporter ingests externally reported URL visits. Unlike the
// ticking recorder it receives whole intervals and synthesizes one session
// per report.
type BrowsingReporter struct {
	store BrowsingStore
	now   func() time.Time
}

// NewBrowsingReporter wires browsing ingestion to the store.
func NewBrowsingReporter(store BrowsingStore) *BrowsingReporter {
	return &BrowsingReporter{store: store, now: time.Now}
}

// ReportBrowsing records a visit of durationSeconds to rawURL, ending now.
// A URL that routes to no project is dropped and logged; that is the
// expected outcome for unrelated browsing, not an error. Malformed input
// (bad URL, non-positive duration) is rejected with an error.
func (b *BrowsingReporter) ReportBrowsing(rawURL string, durationSeconds int64) error {
	if durationSeconds <= 0 {
		return fmt.Errorf("%w: non-positive duration %d for %q", ErrInvalidReport, durationSeconds, rawURL)
	}

	host, err := hostOf(rawURL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidReport, err)
	}

	project, ok, err := b.store.ResolveRoute(host)
	if err != nil {
		return fmt.Errorf("route lookup for %s: %w", host, err)
	}
	if !ok {
		util.LogDebugf("No route matches host %s, dropping %ds browsing report", host, durationSeconds)
		return nil
	}

	end := b.now()
	session := model.Session{
		Project: project,
		Start:   end.Add(-time.Duration(durationSeconds) * time.Second),
		End:     end,
		Type:    model.TypeBrowsing,
		Host:    host,
		URL:     rawURL,
	}
	if err := b.store.AppendSession(session); err != nil {
		return fmt.Errorf("append browsing session: %w", err)
	}

	util.LogDebugf("Recorded %ds browsing session for %s (host=%s)", durationSeconds, project, host)
	return nil
}

// hostOf normalizes a raw URL to its host. Bare hosts without a scheme are
// accepted as-is.
func hostOf(rawURL string) (string, error) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return "", fmt.Errorf("empty url")
	}

	u, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("unparseable url %q: %w", rawURL, err)
	}
	if u.Hostname() != "" {
		return u.Hostname(), nil
	}

	// "ihr.local/page" parses as a path; retry with a scheme.
	u, err = url.Parse("http://" + trimmed)
	if err != nil || u.Hostname() == "" {
		return "", fmt.Errorf("no host in url %q", rawURL)
	}
	return u.Hostname(), nil
}

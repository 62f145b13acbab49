package model

import (
	"fmt"
	"time"
)

// SessionType distinguishes how the active time was spent.
type SessionType string

const (
	TypeCoding   SessionType = "coding"
	TypeBrowsing SessionType = "browsing"
)

// Session is a single block of active time attributed to a project.
// Immutable once persisted: the store never updates or deletes rows.
type Session struct {
	ID      string      `json:"id,omitempty"`
	Project string      `json:"project,omitempty"`
	Start   time.Time   `json:"start"`
	End     time.Time   `json:"end"`
	Type    SessionType `json:"type"`
	File    string      `json:"file,omitempty"` // relative path, coding sessions only
	Host    string      `json:"host,omitempty"` // browsing sessions only
	URL     string      `json:"url,omitempty"`  // browsing sessions only
}

// Identity is the tuple that must match exactly for two sessions to be
// merge-eligible. Empty optional fields only equal other empty fields.
type Identity struct {
	Type SessionType
	File string
	Host string
	URL  string
}

// Identity returns the merge identity of the session.
func (s Session) Identity() Identity {
	return Identity{Type: s.Type, File: s.File, Host: s.Host, URL: s.URL}
}

// Duration returns the covered wall-clock time.
func (s Session) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// DurationSeconds returns the covered time in whole seconds.
func (s Session) DurationSeconds() int64 {
	return int64(s.Duration() / time.Second)
}

// Validate reports whether the session is well-formed enough to persist
// or aggregate. Malformed sessions are skipped, never fatal.
func (s Session) Validate() error {
	if s.Project == "" {
		return fmt.Errorf("session has empty project name")
	}
	if s.Start.IsZero() || s.End.IsZero() {
		return fmt.Errorf("session for %s has zero timestamp", s.Project)
	}
	if !s.Start.Before(s.End) {
		return fmt.Errorf("session for %s has non-positive duration (start=%s end=%s)",
			s.Project, s.Start.Format(time.RFC3339), s.End.Format(time.RFC3339))
	}
	switch s.Type {
	case TypeCoding, TypeBrowsing:
	default:
		return fmt.Errorf("session for %s has unknown type %q", s.Project, s.Type)
	}
	return nil
}

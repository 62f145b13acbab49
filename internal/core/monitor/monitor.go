// Package monitor tracks process-wide input activity and editor focus.
// It holds no persistent state; the recorder polls it once per second.
package monitor

import (
	"sync"
	"time"
)

// ActivityMonitor records the last observed input event and which project's
// editor window currently has focus. Many goroutines report events; the
// per-project recorders read it on every tick.
type ActivityMonitor struct {
	mu        sync.RWMutex
	lastInput time.Time
	focused   string
	now       func() time.Time
}

// NewActivityMonitor creates a monitor whose idle clock starts at creation
// time, so a freshly started process is not immediately considered idle.
func NewActivityMonitor() *ActivityMonitor {
	m := &ActivityMonitor{now: time.Now}
	m.lastInput = m.now()
	return m
}

// RecordInput notes that an input event (keystroke, mouse move) occurred.
func (m *ActivityMonitor) RecordInput() {
	m.mu.Lock()
	m.lastInput = m.now()
	m.mu.Unlock()
}

// ReportFocus sets the project whose editor window is focused.
// An empty project means no tracked window has focus.
func (m *ActivityMonitor) ReportFocus(project string) {
	m.mu.Lock()
	m.focused = project
	m.mu.Unlock()
}

// FocusedProject returns the currently focused project, or "".
func (m *ActivityMonitor) FocusedProject() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.focused
}

// LastInput returns the timestamp of the most recent input event.
func (m *ActivityMonitor) LastInput() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastInput
}

// IsIdle reports whether the user is idle with respect to the given project:
// either no input has been seen within the threshold, or the project's
// window is not the focused one.
func (m *ActivityMonitor) IsIdle(project string, threshold time.Duration) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.focused != project {
		return true
	}
	return m.now().Sub(m.lastInput) > threshold
}

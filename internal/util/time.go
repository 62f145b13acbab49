package util

import (
	"fmt"
	"sync"
	"time"
)

// DateLayout is the calendar-date layout used for session dates and query parameters.
const DateLayout = "2006-01-02"

// TimeProvider is a global time utility that handles timezone-aware time operations
type TimeProvider struct {
	location *time.Location
	mu       sync.RWMutex
}

var (
	globalTimeProvider *TimeProvider
	mu                 sync.Mutex
)

// InitializeTimeProvider initializes the global time provider with the specified timezone
func InitializeTimeProvider(timezone string) error {
	mu.Lock()
	defer mu.Unlock()

	provider := &TimeProvider{}
	if err := provider.SetTimezone(timezone); err != nil {
		return err
	}

	globalTimeProvider = provider
	return nil
}

// GetTimeProvider returns the global time provider instance
// If not initialized, it defaults to Local timezone
func GetTimeProvider() *TimeProvider {
	if globalTimeProvider == nil {
		InitializeTimeProvider("Local")
	}
	return globalTimeProvider
}

// SetTimezone updates the timezone for the time provider
func (tp *TimeProvider) SetTimezone(timezone string) error {
	tp.mu.Lock()
	defer tp.mu.Unlock()

	loc := time.Local
	if timezone != "" && timezone != "Local" {
		l, err := time.LoadLocation(timezone)
		if err != nil {
			return fmt.Errorf("invalid timezone '%s': %w\nValid examples: Local, UTC, America/New_York, Asia/Shanghai, Europe/London", timezone, err)
		}
		loc = l
	}
	tp.location = loc
	return nil
}

// Now returns the current time in the configured timezone
func (tp *TimeProvider) Now() time.Time {
	tp.mu.RLock()
	defer tp.mu.RUnlock()
	return time.Now().In(tp.location)
}

// In converts a time to the configured timezone
func (tp *TimeProvider) In(t time.Time) time.Time {
	tp.mu.RLock()
	defer tp.mu.RUnlock()
	return t.In(tp.location)
}

// Format formats a time according to the layout in the configured timezone
func (tp *TimeProvider) Format(t time.Time, layout string) string {
	tp.mu.RLock()
	defer tp.mu.RUnlock()
	return t.In(tp.location).Format(layout)
}

// DateOf returns the calendar date of t in the configured timezone
func (tp *TimeProvider) DateOf(t time.Time) string {
	return tp.Format(t, DateLayout)
}

// ParseDate parses a YYYY-MM-DD string as midnight in the configured timezone
func (tp *TimeProvider) ParseDate(date string) (time.Time, error) {
	tp.mu.RLock()
	defer tp.mu.RUnlock()
	return time.ParseInLocation(DateLayout, date, tp.location)
}

// StartOfDay truncates t to midnight in the configured timezone
func (tp *TimeProvider) StartOfDay(t time.Time) time.Time {
	local := tp.In(t)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, local.Location())
}

// StartOfWeek returns the Monday midnight starting the ISO week containing t
func (tp *TimeProvider) StartOfWeek(t time.Time) time.Time {
	day := tp.StartOfDay(t)
	// Monday is weekday 1; Sunday wraps to 6 days back.
	offset := int(day.Weekday()) - 1
	if offset < 0 {
		offset = 6
	}
	return day.AddDate(0, 0, -offset)
}

// ISOWeekOf returns the ISO week label (e.g. "2025-W03") for t
func (tp *TimeProvider) ISOWeekOf(t time.Time) string {
	year, week := tp.In(t).ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

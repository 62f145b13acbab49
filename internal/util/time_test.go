package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func utcProvider(t *testing.T) *TimeProvider {
	t.Helper()
	tp := &TimeProvider{}
	require.NoError(t, tp.SetTimezone("UTC"))
	return tp
}

func TestSetTimezone(t *testing.T) {
	tp := &TimeProvider{}

	assert.NoError(t, tp.SetTimezone("UTC"))
	assert.NoError(t, tp.SetTimezone("Asia/Shanghai"))
	assert.NoError(t, tp.SetTimezone("Local"))
	assert.NoError(t, tp.SetTimezone(""))
	assert.Error(t, tp.SetTimezone("Not/AZone"))
}

func TestDateOfRespectsTimezone(t *testing.T) {
	// 23:30 UTC on the 10th is already the 11th in Shanghai.
	instant := time.Date(2025, 3, 10, 23, 30, 0, 0, time.UTC)

	tp := utcProvider(t)
	assert.Equal(t, "2025-03-10", tp.DateOf(instant))

	require.NoError(t, tp.SetTimezone("Asia/Shanghai"))
	assert.Equal(t, "2025-03-11", tp.DateOf(instant))
}

func TestParseDateRoundTrip(t *testing.T) {
	tp := utcProvider(t)

	parsed, err := tp.ParseDate("2025-03-10")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), parsed)
	assert.Equal(t, "2025-03-10", tp.DateOf(parsed))

	_, err = tp.ParseDate("10/03/2025")
	assert.Error(t, err)
}

func TestStartOfWeek(t *testing.T) {
	tp := utcProvider(t)

	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{
			name: "wednesday maps to preceding monday",
			in:   time.Date(2025, 3, 12, 14, 30, 0, 0, time.UTC),
			want: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "monday maps to itself",
			in:   time.Date(2025, 3, 10, 0, 0, 1, 0, time.UTC),
			want: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "sunday belongs to the week started six days earlier",
			in:   time.Date(2025, 3, 16, 23, 59, 0, 0, time.UTC),
			want: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tp.StartOfWeek(tt.in))
		})
	}
}

func TestISOWeekOf(t *testing.T) {
	tp := utcProvider(t)

	assert.Equal(t, "2025-W11", tp.ISOWeekOf(time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)))
	// December 29th 2025 already belongs to week 1 of 2026.
	assert.Equal(t, "2026-W01", tp.ISOWeekOf(time.Date(2025, 12, 29, 12, 0, 0, 0, time.UTC)))
}

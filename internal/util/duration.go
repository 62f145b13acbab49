package util

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var lookbackRe = regexp.MustCompile(`(\d+)([hymwd])`)

// ParseLookback converts a compound lookback string (e.g. "12h", "7d", "2w3d")
// into the point in time that far before now in the given location.
func ParseLookback(durationStr string, loc *time.Location) (time.Time, error) {
	if durationStr == "" {
		return time.Time{}, nil
	}

	now := time.Now().In(loc)

	matches := lookbackRe.FindAllStringSubmatch(durationStr, -1)
	if len(matches) == 0 {
		return time.Time{}, fmt.Errorf("invalid duration format: %s", durationStr)
	}

	var totalDuration time.Duration
	for _, match := range matches {
		value, err := strconv.Atoi(match[1])
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid number in duration: %s", match[1])
		}

		switch match[2] {
		case "h":
			totalDuration += time.Duration(value) * time.Hour
		case "d":
			totalDuration += time.Duration(value) * 24 * time.Hour
		case "w":
			totalDuration += time.Duration(value) * 7 * 24 * time.Hour
		case "m":
			// Months approximated as 30 days
			totalDuration += time.Duration(value) * 30 * 24 * time.Hour
		case "y":
			// Years approximated as 365 days
			totalDuration += time.Duration(value) * 365 * 24 * time.Hour
		default:
			return time.Time{}, fmt.Errorf("unsupported time unit: %s", match[2])
		}
	}

	return now.Add(-totalDuration), nil
}

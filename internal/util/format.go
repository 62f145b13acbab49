package util

import (
	"fmt"
	"time"
)

// FormatDuration renders a duration as a compact h/m string
func FormatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

// FormatSeconds renders a second count as a compact h/m/s string
func FormatSeconds(seconds int64) string {
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}
	return FormatDuration(time.Duration(seconds) * time.Second)
}

// FormatPercent renders a ratio as a percentage capped at 100
func FormatPercent(value, total float64) string {
	if total <= 0 {
		return "0%"
	}
	percentage := value / total * 100
	if percentage > 100 {
		percentage = 100
	}
	return fmt.Sprintf("%.0f%%", percentage)
}

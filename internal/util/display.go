package util

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// GetDisplayWidth calculates the actual display width of a string, accounting for wide runes
func GetDisplayWidth(text string) int {
	return runewidth.StringWidth(text)
}

// CreateProgressBar creates a progress bar with the given percentage and width
func CreateProgressBar(percentage float64, width int) string {
	if width < 10 {
		width = 12
	}
	barWidth := width - 12
	if barWidth < 0 {
		barWidth = 0
	}
	filled := int((percentage / 100) * float64(barWidth))
	if filled > barWidth {
		filled = barWidth
	}
	if filled < 0 {
		filled = 0
	}

	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled) + "]"
}

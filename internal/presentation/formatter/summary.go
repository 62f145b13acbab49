package formatter

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"golang.org/x/term"

	"github.com/penwyp/go-worktime-tracker/internal/util"
)

// SummaryFormatter renders a human-oriented overview: totals, per-bucket
// activity bars, and progress against the daily goal.
type SummaryFormatter struct {
	dailyGoalHours float64
}

func NewSummaryFormatter(dailyGoalHours float64) *SummaryFormatter {
	return &SummaryFormatter{dailyGoalHours: dailyGoalHours}
}

func (f *SummaryFormatter) Format(keyHeader string, data []GroupedData) error {
	width := terminalWidth()

	fmt.Println(strings.Repeat("=", width))
	fmt.Println("Worktime Summary Report")
	fmt.Println(strings.Repeat("=", width))
	fmt.Println()

	if len(data) == 0 {
		fmt.Println("No activity recorded")
		fmt.Println()
		fmt.Println(strings.Repeat("=", width))
		return nil
	}

	first := data[0].Key
	last := data[len(data)-1].Key
	if first == last {
		fmt.Printf("%s: %s\n", keyHeader, first)
	} else {
		fmt.Printf("%s Range: %s to %s\n", keyHeader, first, last)
	}
	fmt.Println()

	var totalCoding, totalBrowsing, totalActive int64
	maxActive := int64(1)
	projects := make(map[string]bool)
	for _, row := range data {
		totalCoding += row.CodingSeconds
		totalBrowsing += row.BrowsingSeconds
		totalActive += row.TotalSeconds
		if row.TotalSeconds > maxActive {
			maxActive = row.TotalSeconds
		}
		for _, p := range row.Projects {
			projects[p] = true
		}
	}

	fmt.Println("Activity Breakdown:")
	fmt.Printf("  Coding:   %s\n", util.FormatSeconds(totalCoding))
	fmt.Printf("  Browsing: %s\n", util.FormatSeconds(totalBrowsing))
	fmt.Printf("  Total:    %s across %d projects\n", util.FormatSeconds(totalActive), len(projects))
	fmt.Println()

	fmt.Printf("%s Activity:\n", keyHeader)
	for _, row := range data {
		percentage := float64(row.TotalSeconds) / float64(maxActive) * 100
		bar := util.CreateProgressBar(percentage, width/2)
		fmt.Printf("  %-12s %s %s\n", row.Key, bar, util.FormatSeconds(row.TotalSeconds))
	}
	fmt.Println()

	if f.dailyGoalHours > 0 && keyHeader == "Date" {
		goalSeconds := int64(f.dailyGoalHours * 3600)
		fmt.Printf("Daily Goal (%.1fh):\n", f.dailyGoalHours)

		keys := make([]string, 0, len(data))
		byKey := make(map[string]int64, len(data))
		for _, row := range data {
			keys = append(keys, row.Key)
			byKey[row.Key] += row.TotalSeconds
		}
		sort.Strings(keys)

		for _, key := range keys {
			fmt.Printf("  %s: %s of %s (%s)\n",
				key,
				util.FormatSeconds(byKey[key]),
				util.FormatSeconds(goalSeconds),
				util.FormatPercent(float64(byKey[key]), float64(goalSeconds)))
		}
		fmt.Println()
	}

	fmt.Println(strings.Repeat("=", width))
	return nil
}

// terminalWidth returns the stdout width, falling back to 60 columns when
// stdout is not a terminal.
func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 || width > 120 {
		return 60
	}
	return width
}

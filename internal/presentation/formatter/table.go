package formatter

import (
	"fmt"
	"strings"

	"github.com/penwyp/go-worktime-tracker/internal/util"
)

type TableFormatter struct {
	headers []string
}

func NewTableFormatter() *TableFormatter {
	return &TableFormatter{
		headers: []string{
			"", "Projects", "Coding", "Browsing", "Active", "Sessions",
		},
	}
}

func (f *TableFormatter) Format(keyHeader string, data []GroupedData) error {
	headers := make([]string, len(f.headers))
	copy(headers, f.headers)
	headers[0] = keyHeader

	widths := f.calculateColumnWidths(headers, data)

	f.printBorder(widths, "top")
	f.printRow(headers, widths)
	f.printBorder(widths, "middle")

	var totalCoding, totalBrowsing, totalActive int64
	var totalSessions int

	for _, row := range data {
		f.printRow(rowValues(row.Key, row), widths)

		totalCoding += row.CodingSeconds
		totalBrowsing += row.BrowsingSeconds
		totalActive += row.TotalSeconds
		totalSessions += row.Sessions
	}

	f.printBorder(widths, "middle")
	f.printRow(totalValues(totalCoding, totalBrowsing, totalActive, totalSessions), widths)
	f.printBorder(widths, "bottom")

	return nil
}

func rowValues(key string, row GroupedData) []string {
	return []string{
		key,
		strings.Join(row.Projects, ", "),
		util.FormatSeconds(row.CodingSeconds),
		util.FormatSeconds(row.BrowsingSeconds),
		util.FormatSeconds(row.TotalSeconds),
		fmt.Sprintf("%d", row.Sessions),
	}
}

func totalValues(coding, browsing, active int64, sessions int) []string {
	return []string{
		"Total",
		"",
		util.FormatSeconds(coding),
		util.FormatSeconds(browsing),
		util.FormatSeconds(active),
		fmt.Sprintf("%d", sessions),
	}
}

// calculateColumnWidths determines optimal width for each column based on content
func (f *TableFormatter) calculateColumnWidths(headers []string, data []GroupedData) []int {
	widths := make([]int, len(headers))
	for i, header := range headers {
		widths[i] = util.GetDisplayWidth(header)
	}

	var totalCoding, totalBrowsing, totalActive int64
	var totalSessions int

	for _, row := range data {
		for i, value := range rowValues(row.Key, row) {
			if w := util.GetDisplayWidth(value); w > widths[i] {
				widths[i] = w
			}
		}
		totalCoding += row.CodingSeconds
		totalBrowsing += row.BrowsingSeconds
		totalActive += row.TotalSeconds
		totalSessions += row.Sessions
	}

	for i, value := range totalValues(totalCoding, totalBrowsing, totalActive, totalSessions) {
		if w := util.GetDisplayWidth(value); w > widths[i] {
			widths[i] = w
		}
	}

	// Minimum widths for readability
	for i := range widths {
		if widths[i] < 8 {
			widths[i] = 8
		}
	}

	return widths
}

// printBorder prints table borders (top, middle, bottom)
func (f *TableFormatter) printBorder(widths []int, borderType string) {
	var left, middle, right, separator string

	switch borderType {
	case "top":
		left, middle, right, separator = "┌", "┬", "┐", "─"
	case "middle":
		left, middle, right, separator = "├", "┼", "┤", "─"
	case "bottom":
		left, middle, right, separator = "└", "┴", "┘", "─"
	}

	fmt.Print(left)
	for i, width := range widths {
		fmt.Print(strings.Repeat(separator, width+2))
		if i < len(widths)-1 {
			fmt.Print(middle)
		}
	}
	fmt.Println(right)
}

// printRow prints a data row with proper alignment
func (f *TableFormatter) printRow(values []string, widths []int) {
	fmt.Print("│")
	for i, value := range values {
		pad := widths[i] - util.GetDisplayWidth(value)
		if pad < 0 {
			pad = 0
		}
		if i <= 1 {
			// Key and Projects columns are left-aligned
			fmt.Printf(" %s%s │", value, strings.Repeat(" ", pad))
		} else {
			// Numeric columns are right-aligned
			fmt.Printf(" %s%s │", strings.Repeat(" ", pad), value)
		}
	}
	fmt.Println()
}

package formatter

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
)

type CSVFormatter struct{}

func NewCSVFormatter() *CSVFormatter {
	return &CSVFormatter{}
}

func (f *CSVFormatter) Format(keyHeader string, data []GroupedData) error {
	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	headers := []string{keyHeader, "Projects", "Coding Seconds", "Browsing Seconds", "Total Seconds", "Sessions"}
	if err := w.Write(headers); err != nil {
		return err
	}

	for _, row := range data {
		record := []string{
			row.Key,
			strings.Join(row.Projects, ", "),
			fmt.Sprintf("%d", row.CodingSeconds),
			fmt.Sprintf("%d", row.BrowsingSeconds),
			fmt.Sprintf("%d", row.TotalSeconds),
			fmt.Sprintf("%d", row.Sessions),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	return nil
}

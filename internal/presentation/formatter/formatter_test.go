package formatter

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"strings"
	"testing"
)

func sampleData() []GroupedData {
	return []GroupedData{
		{
			Key:             "2025-03-10",
			Projects:        []string{"docs", "tracker"},
			CodingSeconds:   5400,
			BrowsingSeconds: 600,
			TotalSeconds:    6000,
			Sessions:        3,
		},
		{
			Key:             "2025-03-11",
			Projects:        []string{"tracker"},
			CodingSeconds:   900,
			BrowsingSeconds: 0,
			TotalSeconds:    900,
			Sessions:        1,
		},
	}
}

// captureOutput runs fn with stdout redirected into a buffer.
func captureOutput(t *testing.T, fn func() error) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	os.Stdout = w

	fnErr := fn()

	w.Close()
	buf := new(bytes.Buffer)
	io.Copy(buf, r)
	os.Stdout = old

	if fnErr != nil {
		t.Fatalf("Format returned error: %v", fnErr)
	}
	return buf.String()
}

func TestTableFormatterFormat(t *testing.T) {
	formatter := NewTableFormatter()

	tests := []struct {
		name       string
		keyHeader  string
		data       []GroupedData
		wantInBody []string
	}{
		{
			name:      "basic_grouped_data",
			keyHeader: "Date",
			data:      sampleData(),
			wantInBody: []string{
				"Date",
				"2025-03-10",
				"docs, tracker",
				"1h 30m", // 5400s coding
				"10m",    // 600s browsing
				"1h 40m", // 6000s active
				"Total",
				"1h 45m", // 5400+900 coding total
			},
		},
		{
			name:      "empty_data_still_renders_frame",
			keyHeader: "Week",
			data:      []GroupedData{},
			wantInBody: []string{
				"Week",
				"Sessions",
				"Total",
				"┌",
				"└",
			},
		},
		{
			name:      "project_grouping_header",
			keyHeader: "Project",
			data: []GroupedData{
				{Key: "tracker", CodingSeconds: 90, TotalSeconds: 90, Sessions: 1},
			},
			wantInBody: []string{
				"Project",
				"tracker",
				"1m",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := captureOutput(t, func() error {
				return formatter.Format(tt.keyHeader, tt.data)
			})
			for _, want := range tt.wantInBody {
				if !strings.Contains(output, want) {
					t.Errorf("output missing %q\noutput:\n%s", want, output)
				}
			}
		})
	}
}

func TestCSVFormatterFormat(t *testing.T) {
	formatter := NewCSVFormatter()

	output := captureOutput(t, func() error {
		return formatter.Format("Date", sampleData())
	})

	records, err := csv.NewReader(strings.NewReader(output)).ReadAll()
	if err != nil {
		t.Fatalf("parse CSV output: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d records", len(records))
	}

	wantHeader := []string{"Date", "Projects", "Coding Seconds", "Browsing Seconds", "Total Seconds", "Sessions"}
	for i, h := range wantHeader {
		if records[0][i] != h {
			t.Errorf("header[%d] = %q, want %q", i, records[0][i], h)
		}
	}

	wantRow := []string{"2025-03-10", "docs, tracker", "5400", "600", "6000", "3"}
	for i, v := range wantRow {
		if records[1][i] != v {
			t.Errorf("row[0][%d] = %q, want %q", i, records[1][i], v)
		}
	}
}

func TestJSONFormatterFormat(t *testing.T) {
	formatter := NewJSONFormatter()

	output := captureOutput(t, func() error {
		return formatter.Format("Date", sampleData())
	})

	for _, want := range []string{
		`"key": "2025-03-10"`,
		`"codingSeconds": 5400`,
		`"browsingSeconds": 600`,
		`"totalSeconds": 6000`,
		`"sessions": 3`,
	} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q\noutput:\n%s", want, output)
		}
	}
}

func TestSummaryFormatterFormat(t *testing.T) {
	formatter := NewSummaryFormatter(6)

	output := captureOutput(t, func() error {
		return formatter.Format("Date", sampleData())
	})

	for _, want := range []string{
		"2025-03-10",
		"Coding",
		"Browsing",
		"Daily Goal",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q\noutput:\n%s", want, output)
		}
	}
}

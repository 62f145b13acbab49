package formatter

// GroupedData is one output row of a report: a bucket (date, ISO week, or
// project) with its merged activity totals.
type GroupedData struct {
	Key             string   `json:"key"`
	Projects        []string `json:"projects,omitempty"`
	CodingSeconds   int64    `json:"codingSeconds"`
	BrowsingSeconds int64    `json:"browsingSeconds"`
	TotalSeconds    int64    `json:"totalSeconds"`
	Sessions        int      `json:"sessions"`
}

// Formatter renders report rows to stdout.
type Formatter interface {
	Format(keyHeader string, data []GroupedData) error
}

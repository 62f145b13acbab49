// Package report drives the offline reporting pipeline: open the store,
// roll sessions up, group the aggregates, and hand rows to a formatter.
package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/penwyp/go-worktime-tracker/internal/core/model"
	"github.com/penwyp/go-worktime-tracker/internal/data/aggregator"
	"github.com/penwyp/go-worktime-tracker/internal/data/store"
	"github.com/penwyp/go-worktime-tracker/internal/presentation/formatter"
	"github.com/penwyp/go-worktime-tracker/internal/util"
)

type Config struct {
	DBPath         string
	OutputFormat   string // table, json, csv, summary
	Timezone       string
	Duration       string // lookback window, e.g. "7d"; empty means everything
	GroupBy        string // day, week, project
	Limit          int
	ShowHidden     bool
	GapTolerance   time.Duration
	DailyGoalHours float64
}

type Report struct {
	config *Config
}

func New(config *Config) *Report {
	return &Report{config: config}
}

func (r *Report) Run() error {
	startTime := time.Now()
	util.LogInfo("Starting worktime report...")

	db, err := store.NewStore(r.config.DBPath)
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	defer db.Close()

	tp := util.GetTimeProvider()

	// Phase 1: Resolve the query window
	from := time.Unix(0, 0)
	to := tp.Now().Add(24 * time.Hour)
	if r.config.Duration != "" {
		parsed, err := util.ParseLookback(r.config.Duration, tp.Now().Location())
		if err != nil {
			return fmt.Errorf("parse duration: %w", err)
		}
		from = parsed
	}
	util.LogDebugf("Phase 1 - Query window: %s to %s", from.Format(time.RFC3339), to.Format(time.RFC3339))

	// Phase 2: Roll up sessions
	rollupStart := time.Now()
	agg := aggregator.New(db, r.config.GapTolerance)
	days, err := agg.Rollup(from, to, r.config.ShowHidden)
	if err != nil {
		return fmt.Errorf("rollup: %w", err)
	}
	util.LogDebugf("Phase 2 - Rollup duration: %v, days: %d", time.Since(rollupStart), len(days))

	// Phase 3: Apply display-name overrides
	displayNames := make(map[string]string)
	displays, err := db.ListProjectDisplays()
	if err != nil {
		util.LogWarnf("Failed to load project display overrides: %v", err)
	} else {
		for _, d := range displays {
			if d.CustomName != "" {
				displayNames[d.Project] = d.CustomName
			}
		}
	}

	// Phase 4: Group into report rows
	groupStart := time.Now()
	rows := r.groupData(days, displayNames)
	util.LogDebugf("Phase 4 - Grouping duration: %v, rows: %d", time.Since(groupStart), len(rows))

	if r.config.Limit > 0 && len(rows) > r.config.Limit {
		rows = rows[:r.config.Limit]
	}

	// Phase 5: Format and output
	if err := r.formatAndOutput(rows); err != nil {
		return err
	}

	util.LogDebugf("Report completed in %v", time.Since(startTime))
	return nil
}

// groupData folds the day/project aggregate into rows keyed by the
// configured grouping.
func (r *Report) groupData(days aggregator.DayAggregate, displayNames map[string]string) []formatter.GroupedData {
	tp := util.GetTimeProvider()

	displayName := func(project string) string {
		if name, ok := displayNames[project]; ok {
			return name
		}
		return project
	}

	rows := make(map[string]*formatter.GroupedData)
	projectSets := make(map[string]map[string]bool)

	for date, projects := range days {
		for project, stat := range projects {
			key := date
			switch r.config.GroupBy {
			case "week":
				if day, err := tp.ParseDate(date); err == nil {
					key = tp.ISOWeekOf(day)
				}
			case "project":
				key = displayName(project)
			}

			row, ok := rows[key]
			if !ok {
				row = &formatter.GroupedData{Key: key}
				rows[key] = row
				projectSets[key] = make(map[string]bool)
			}

			for _, s := range stat.Sessions {
				if s.Type == model.TypeBrowsing {
					row.BrowsingSeconds += s.DurationSeconds()
				} else {
					row.CodingSeconds += s.DurationSeconds()
				}
			}
			row.TotalSeconds += stat.DurationSeconds
			row.Sessions += len(stat.Sessions)
			if r.config.GroupBy != "project" {
				projectSets[key][displayName(project)] = true
			}
		}
	}

	result := make([]formatter.GroupedData, 0, len(rows))
	for key, row := range rows {
		for project := range projectSets[key] {
			row.Projects = append(row.Projects, project)
		}
		sort.Strings(row.Projects)
		result = append(result, *row)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Key < result[j].Key
	})
	return result
}

func (r *Report) formatAndOutput(rows []formatter.GroupedData) error {
	keyHeader := "Date"
	switch r.config.GroupBy {
	case "week":
		keyHeader = "Week"
	case "project":
		keyHeader = "Project"
	}

	var f formatter.Formatter
	switch r.config.OutputFormat {
	case "json":
		f = formatter.NewJSONFormatter()
	case "csv":
		f = formatter.NewCSVFormatter()
	case "summary":
		f = formatter.NewSummaryFormatter(r.config.DailyGoalHours)
	case "table", "":
		f = formatter.NewTableFormatter()
	default:
		return fmt.Errorf("unknown output format: %s", r.config.OutputFormat)
	}

	return f.Format(keyHeader, rows)
}

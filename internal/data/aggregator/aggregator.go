// Package aggregator builds per-day and per-week rollups from stored
// sessions. It owns no state: every rollup is recomputed from a store
// snapshot, which keeps the output deterministic and safe to rebuild on
// each API call.
package aggregator

import (
	"fmt"
	"time"

	"github.com/penwyp/go-worktime-tracker/internal/core/merge"
	"github.com/penwyp/go-worktime-tracker/internal/core/model"
	"github.com/penwyp/go-worktime-tracker/internal/util"
)

// SessionSource is the slice of the store the aggregator reads.
type SessionSource interface {
	QueryByDateRange(from, to time.Time) ([]model.Session, error)
	ListIgnoredProjects() ([]model.IgnoredProject, error)
}

// ProjectStat is one project's share of a day: total merged duration plus
// the merged session list for drill-down display.
type ProjectStat struct {
	DurationSeconds int64           `json:"duration"`
	Sessions        []model.Session `json:"sessions"`
}

// DayAggregate maps date -> project -> stat. Derived, never stored;
// duration math always goes back to the session log.
type DayAggregate map[string]map[string]*ProjectStat

// Aggregator rolls stored sessions up into display aggregates. Merging is
// applied per (date, project, identity) group before summation, so totals
// reflect real elapsed time rather than tick-accounting artifacts.
type Aggregator struct {
	source       SessionSource
	gapTolerance int64 // seconds
}

// DefaultGapTolerance is the merge gap tolerance applied when rolling up.
const DefaultGapTolerance = 600 * time.Second

// New creates an aggregator reading from the given source.
func New(source SessionSource, gapTolerance time.Duration) *Aggregator {
	if gapTolerance <= 0 {
		gapTolerance = DefaultGapTolerance
	}
	return &Aggregator{
		source:       source,
		gapTolerance: int64(gapTolerance / time.Second),
	}
}

// Rollup aggregates sessions with start in [from, to) into a
// date -> project -> stat map. Hidden projects are excluded unless
// includeHidden is set; their sessions remain in the store regardless.
func (a *Aggregator) Rollup(from, to time.Time, includeHidden bool) (DayAggregate, error) {
	sessions, err := a.source.QueryByDateRange(from, to)
	if err != nil {
		return nil, fmt.Errorf("fetch sessions: %w", err)
	}

	hidden := make(map[string]bool)
	if !includeHidden {
		ignored, err := a.source.ListIgnoredProjects()
		if err != nil {
			return nil, fmt.Errorf("fetch ignored projects: %w", err)
		}
		for _, p := range ignored {
			hidden[p.Project] = true
		}
	}

	tp := util.GetTimeProvider()

	type groupKey struct {
		date    string
		project string
	}
	groups := make(map[groupKey][]model.Session)
	for _, s := range sessions {
		if hidden[s.Project] {
			continue
		}
		key := groupKey{date: tp.DateOf(s.Start), project: s.Project}
		groups[key] = append(groups[key], s)
	}

	result := make(DayAggregate)
	for key, group := range groups {
		merged := merge.Merge(group, a.gapTolerance)
		if len(merged) == 0 {
			continue
		}

		var total int64
		for _, s := range merged {
			total += s.DurationSeconds()
		}

		day, ok := result[key.date]
		if !ok {
			day = make(map[string]*ProjectStat)
			result[key.date] = day
		}
		day[key.project] = &ProjectStat{
			DurationSeconds: total,
			Sessions:        merged,
		}
	}
	return result, nil
}

// WeeklyTotal sums merged durations per project across the seven days of
// the ISO week containing weekOf.
func (a *Aggregator) WeeklyTotal(weekOf time.Time, includeHidden bool) (map[string]int64, error) {
	tp := util.GetTimeProvider()
	weekStart := tp.StartOfWeek(weekOf)
	weekEnd := weekStart.AddDate(0, 0, 7)

	days, err := a.Rollup(weekStart, weekEnd, includeHidden)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]int64)
	for _, projects := range days {
		for project, stat := range projects {
			totals[project] += stat.DurationSeconds
		}
	}
	return totals, nil
}

// Package merge collapses adjacent raw sessions into continuous blocks.
// Raw session rows are one flush interval each; read-time merging turns
// tick-accounting artifacts back into real elapsed time.
package merge

import (
	"fmt"
	"sort"

	"github.com/penwyp/go-worktime-tracker/internal/core/model"
	"github.com/penwyp/go-worktime-tracker/internal/util"
)

// Merge collapses sessions whose gap is within the tolerance into single
// blocks. Sessions only merge with sessions of the exact same identity
// (type plus file/host/url); groups are never combined across identities
// even when time-adjacent. Malformed sessions are skipped with a warning.
//
// The result is sorted by start time and is idempotent:
// Merge(Merge(x, g), g) == Merge(x, g).
func Merge(sessions []model.Session, gapTolerance int64) []model.Session {
	type groupKey struct {
		project  string
		identity model.Identity
	}

	groups := make(map[groupKey][]model.Session)
	for _, s := range sessions {
		if err := s.Validate(); err != nil {
			util.LogWarn(fmt.Sprintf("Excluding malformed session from merge: %v", err))
			continue
		}
		key := groupKey{project: s.Project, identity: s.Identity()}
		groups[key] = append(groups[key], s)
	}

	merged := make([]model.Session, 0, len(sessions))
	for _, group := range groups {
		merged = append(merged, mergeGroup(group, gapTolerance)...)
	}

	sort.Slice(merged, func(i, j int) bool {
		if !merged[i].Start.Equal(merged[j].Start) {
			return merged[i].Start.Before(merged[j].Start)
		}
		if !merged[i].End.Equal(merged[j].End) {
			return merged[i].End.Before(merged[j].End)
		}
		return identityLess(merged[i].Identity(), merged[j].Identity())
	})
	return merged
}

// mergeGroup merges a single identity group.
func mergeGroup(group []model.Session, gapTolerance int64) []model.Session {
	sort.Slice(group, func(i, j int) bool {
		return group[i].Start.Before(group[j].Start)
	})

	result := make([]model.Session, 0, len(group))
	current := group[0]
	for _, r := range group[1:] {
		gap := r.Start.Unix() - current.End.Unix()
		if gap <= gapTolerance {
			if r.End.After(current.End) {
				current.End = r.End
			}
			continue
		}
		result = append(result, current)
		current = r
	}
	return append(result, current)
}

// identityLess gives merged output a stable order when sessions of
// different identities start and end at the same instant.
func identityLess(a, b model.Identity) bool {
	if a.Type != b.Type {
		return a.Type < b.Type
	}
	if a.File != b.File {
		return a.File < b.File
	}
	if a.Host != b.Host {
		return a.Host < b.Host
	}
	return a.URL < b.URL
}

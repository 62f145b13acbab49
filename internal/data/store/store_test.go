package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-worktime-tracker/internal/core/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "worktime.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func session(project string, start time.Time, d time.Duration) model.Session {
	return model.Session{
		Project: project,
		Start:   start,
		End:     start.Add(d),
		Type:    model.TypeCoding,
		File:    "src/main.go",
	}
}

func TestAppendAndQuery(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)

	require.NoError(t, s.AppendSession(session("alpha", base, time.Minute)))
	require.NoError(t, s.AppendSession(session("beta", base.Add(2*time.Minute), time.Minute)))
	require.NoError(t, s.AppendSession(session("alpha", base.Add(24*time.Hour), time.Minute)))

	got, err := s.QueryByDateRange(base, base.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Ordered by start ascending.
	assert.Equal(t, "alpha", got[0].Project)
	assert.Equal(t, "beta", got[1].Project)
	assert.True(t, got[0].Start.Before(got[1].Start))
	assert.NotEmpty(t, got[0].ID)
	assert.Equal(t, "src/main.go", got[0].File)

	all, err := s.QueryAll()
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestAppendRejectsMalformed(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)

	assert.Error(t, s.AppendSession(model.Session{Start: base, End: base.Add(time.Minute), Type: model.TypeCoding}))
	assert.Error(t, s.AppendSession(model.Session{Project: "p", Start: base, End: base, Type: model.TypeCoding}))

	all, err := s.QueryAll()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestDateColumnMatchesStart(t *testing.T) {
	s := newTestStore(t)
	start := time.Date(2025, 1, 15, 23, 59, 0, 0, time.UTC)
	require.NoError(t, s.AppendSession(session("alpha", start, time.Minute)))

	var date string
	require.NoError(t, s.db.QueryRow(`SELECT date FROM sessions LIMIT 1`).Scan(&date))
	assert.Equal(t, start.In(time.Local).Format("2006-01-02"), date)
}

func TestRouteResolution(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.UpsertUrlRoute("ihr", "ihr.local"))
	require.NoError(t, s.UpsertUrlRoute("docs", "docs.ihr.local"))

	project, ok, err := s.ResolveRoute("ihr.local")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "ihr", project)

	// Both patterns match this host; the lexicographically greatest
	// pattern ("ihr.local" > "docs.ihr.local") wins the tie-break.
	project, ok, err = s.ResolveRoute("docs.ihr.local")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "ihr", project)

	_, ok, err = s.ResolveRoute("unrelated.example.com")
	require.NoError(t, err)
	assert.False(t, ok, "unmatched host is a no-op, not an error")
}

func TestRouteUpsertMovesPattern(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.UpsertUrlRoute("old", "tracker.local"))
	require.NoError(t, s.UpsertUrlRoute("new", "tracker.local"))

	project, ok, err := s.ResolveRoute("tracker.local")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "new", project)

	routes, err := s.ListUrlRoutes("")
	require.NoError(t, err)
	assert.Len(t, routes, 1)

	require.NoError(t, s.RemoveUrlRoute("tracker.local"))
	_, ok, err = s.ResolveRoute("tracker.local")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIgnoredProjects(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.IgnoreProject("secret"))
	require.NoError(t, s.IgnoreProject("secret")) // idempotent

	ignored, err := s.ListIgnoredProjects()
	require.NoError(t, err)
	require.Len(t, ignored, 1)
	assert.Equal(t, "secret", ignored[0].Project)
	assert.False(t, ignored[0].IgnoredAt.IsZero())

	require.NoError(t, s.UnignoreProject("secret"))
	ignored, err = s.ListIgnoredProjects()
	require.NoError(t, err)
	assert.Empty(t, ignored)
}

func TestProjectDisplay(t *testing.T) {
	s := newTestStore(t)

	d, err := s.GetProjectDisplay("alpha")
	require.NoError(t, err)
	assert.Nil(t, d)

	require.NoError(t, s.SetProjectDisplay("alpha", "Alpha Client", "https://cdn.local/alpha.png"))
	require.NoError(t, s.SetProjectDisplay("alpha", "Alpha", ""))

	d, err = s.GetProjectDisplay("alpha")
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, "Alpha", d.CustomName)
	assert.Equal(t, "", d.LogoURL)

	displays, err := s.ListProjectDisplays()
	require.NoError(t, err)
	assert.Len(t, displays, 1)

	require.NoError(t, s.RemoveProjectDisplay("alpha"))
	d, err = s.GetProjectDisplay("alpha")
	require.NoError(t, err)
	assert.Nil(t, d)
}

package recorder

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-worktime-tracker/internal/core/model"
	"github.com/penwyp/go-worktime-tracker/internal/core/monitor"
)

// fakeStore records appended sessions and can be told to fail.
type fakeStore struct {
	mu       sync.Mutex
	sessions []model.Session
	failing  bool
	routes   map[string]string
}

func (f *fakeStore) AppendSession(s model.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return fmt.Errorf("store unavailable")
	}
	f.sessions = append(f.sessions, s)
	return nil
}

func (f *fakeStore) ResolveRoute(host string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for pattern, project := range f.routes {
		if strings.Contains(host, pattern) {
			return project, true, nil
		}
	}
	return "", false, nil
}

func (f *fakeStore) all() []model.Session {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Session, len(f.sessions))
	copy(out, f.sessions)
	return out
}

func (f *fakeStore) setFailing(failing bool) {
	f.mu.Lock()
	f.failing = failing
	f.mu.Unlock()
}

func activeRecorder(t *testing.T, store Appender, granularity time.Duration) (*Recorder, *monitor.ActivityMonitor) {
	t.Helper()
	m := monitor.NewActivityMonitor()
	m.ReportFocus("myproject")
	m.RecordInput()
	r := NewRecorder("myproject", m, store, time.Hour, granularity)
	return r, m
}

func TestAccumulateAndFlush(t *testing.T) {
	store := &fakeStore{}
	r, _ := activeRecorder(t, store, 3*time.Second)
	r.SetResource("src/main.go")

	flushAt := time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return flushAt }

	r.tick()
	r.tick()
	assert.Equal(t, int64(2), r.Accumulated())
	assert.Equal(t, StateAccumulating, r.State())
	assert.Empty(t, store.all())

	r.tick()

	sessions := store.all()
	require.Len(t, sessions, 1)
	assert.Equal(t, "myproject", sessions[0].Project)
	assert.Equal(t, model.TypeCoding, sessions[0].Type)
	assert.Equal(t, "src/main.go", sessions[0].File)
	assert.Equal(t, flushAt, sessions[0].End)
	assert.Equal(t, flushAt.Add(-3*time.Second), sessions[0].Start)
	assert.Equal(t, int64(0), r.Accumulated())
}

func TestIdleTicksDoNotAccumulate(t *testing.T) {
	store := &fakeStore{}
	m := monitor.NewActivityMonitor()
	m.ReportFocus("elsewhere")
	m.RecordInput()

	r := NewRecorder("myproject", m, store, time.Hour, 2*time.Second)
	for i := 0; i < 10; i++ {
		r.tick()
	}

	assert.Equal(t, StateIdle, r.State())
	assert.Equal(t, int64(0), r.Accumulated())
	assert.Empty(t, store.all())
}

func TestIdleThresholdBlocksFlush(t *testing.T) {
	// A zero idle threshold makes every tick see stale input, the same
	// shape as 121s of silence against a 120s threshold.
	store := &fakeStore{}
	m := monitor.NewActivityMonitor()
	m.ReportFocus("myproject")
	m.RecordInput()

	r := NewRecorder("myproject", m, store, 0, 2*time.Second)
	for i := 0; i < 10; i++ {
		r.tick()
	}

	assert.Empty(t, store.all(), "idle interval must not produce a session")
}

func TestFlushFailureKeepsAccumulator(t *testing.T) {
	store := &fakeStore{failing: true}
	r, _ := activeRecorder(t, store, 3*time.Second)

	flushAt := time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return flushAt }

	r.tick()
	r.tick()
	r.tick() // flush attempt fails
	assert.Equal(t, int64(3), r.Accumulated(), "failed flush must not drop confirmed seconds")
	assert.Empty(t, store.all())

	store.setFailing(false)
	r.tick() // 4 accumulated >= 3, flush succeeds and absorbs the lost interval

	sessions := store.all()
	require.Len(t, sessions, 1)
	assert.Equal(t, int64(4), sessions[0].DurationSeconds())
	assert.Equal(t, int64(0), r.Accumulated())
}

func TestResourceSwitchMidInterval(t *testing.T) {
	// The resource current at flush time wins; the interval is not split.
	store := &fakeStore{}
	r, _ := activeRecorder(t, store, 2*time.Second)
	r.now = func() time.Time { return time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC) }

	r.SetResource("a.go")
	r.tick()
	r.SetResource("b.go")
	r.tick()

	sessions := store.all()
	require.Len(t, sessions, 1)
	assert.Equal(t, "b.go", sessions[0].File)
}

func TestStopDiscardsPartialAccumulator(t *testing.T) {
	store := &fakeStore{}
	r, _ := activeRecorder(t, store, time.Hour)

	r.Start()
	r.tick()
	r.Stop()

	assert.Empty(t, store.all(), "partial accumulator below granularity is dropped, not flushed")
	assert.Equal(t, int64(0), r.Accumulated())
}

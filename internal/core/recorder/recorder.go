// Package recorder turns per-second activity ticks into persisted sessions.
// One recorder runs per open project; a registry owns their lifecycle.
package recorder

import (
	"fmt"
	"sync"
	"time"

	"github.com/penwyp/go-worktime-tracker/internal/core/model"
	"github.com/penwyp/go-worktime-tracker/internal/core/monitor"
	"github.com/penwyp/go-worktime-tracker/internal/util"
)

// State is the recorder's tick state.
type State int

const (
	StateIdle State = iota
	StateAccumulating
)

// Appender is the slice of the store the recorder needs.
type Appender interface {
	AppendSession(session model.Session) error
}

// Recorder accumulates active seconds for a single project and flushes a
// session record whenever the accumulator reaches the flush granularity.
// All accumulator mutation happens on the recorder's own ticker goroutine
// (or the caller's goroutine in tests); the mutex only guards the
// asynchronously updated current resource and state snapshots.
type Recorder struct {
	project       string
	monitor       *monitor.ActivityMonitor
	store         Appender
	idleThreshold time.Duration
	granularity   time.Duration

	mu          sync.Mutex
	state       State
	accumulated int64 // active seconds since the last successful flush
	resource    string

	now  func() time.Time
	stop chan struct{}
	done chan struct{}
}

// NewRecorder creates a recorder for the given project. It does not start
// ticking until Start is called.
func NewRecorder(project string, m *monitor.ActivityMonitor, store Appender, idleThreshold, granularity time.Duration) *Recorder {
	return &Recorder{
		project:       project,
		monitor:       m,
		store:         store,
		idleThreshold: idleThreshold,
		granularity:   granularity,
		state:         StateIdle,
		now:           time.Now,
		stop:          make(chan struct{}),
		done:          make(chan struct{}),
	}
}

// Start launches the 1s ticker loop.
func (r *Recorder) Start() {
	go r.run()
}

func (r *Recorder) run() {
	defer close(r.done)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.tick()
		case <-r.stop:
			return
		}
	}
}

// Stop cancels the ticker. Seconds accumulated below the flush granularity
// are dropped, not flushed; the loss is logged so it stays visible.
func (r *Recorder) Stop() {
	close(r.stop)
	<-r.done

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.accumulated > 0 {
		util.LogDebugf("Recorder %s stopped, discarding %d accumulated seconds below granularity",
			r.project, r.accumulated)
		r.accumulated = 0
	}
}

// SetResource updates the resource (file path) attributed to the next flush.
// A switch mid-interval does not retroactively split the interval.
func (r *Recorder) SetResource(resource string) {
	r.mu.Lock()
	r.resource = resource
	r.mu.Unlock()
}

// State returns the current tick state.
func (r *Recorder) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Accumulated returns the active seconds awaiting flush.
func (r *Recorder) Accumulated() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.accumulated
}

// tick advances the state machine by one second of wall time.
func (r *Recorder) tick() {
	if r.monitor.IsIdle(r.project, r.idleThreshold) {
		r.mu.Lock()
		r.state = StateIdle
		r.mu.Unlock()
		util.LogDebugf("Recorder %s: user idle, skipping increment", r.project)
		return
	}

	r.mu.Lock()
	r.state = StateAccumulating
	r.accumulated++
	shouldFlush := r.accumulated >= int64(r.granularity/time.Second)
	r.mu.Unlock()

	if shouldFlush {
		r.flush()
	}
}

// flush converts the accumulator into a persisted session ending now. On a
// storage failure the accumulator is kept, so the next successful flush
// absorbs the lost interval (at-least-once delivery).
func (r *Recorder) flush() {
	r.mu.Lock()
	seconds := r.accumulated
	resource := r.resource
	r.mu.Unlock()

	end := r.now()
	session := model.Session{
		Project: r.project,
		Start:   end.Add(-time.Duration(seconds) * time.Second),
		End:     end,
		Type:    model.TypeCoding,
		File:    resource,
	}

	if err := r.store.AppendSession(session); err != nil {
		util.LogError(fmt.Sprintf("Recorder %s: flush failed, will retry with next interval: %v", r.project, err))
		return
	}

	r.mu.Lock()
	r.accumulated -= seconds
	r.mu.Unlock()

	util.LogDebugf("Recorder %s: flushed %ds session ending %s (file=%s)",
		r.project, seconds, end.Format(time.RFC3339), resource)
}

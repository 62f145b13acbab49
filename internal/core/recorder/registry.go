package recorder

import (
	"fmt"
	"time"

	"sync"

	"github.com/penwyp/go-worktime-tracker/internal/core/monitor"
	"github.com/penwyp/go-worktime-tracker/internal/util"
)

// Config carries the tracking knobs shared by all recorders.
type Config struct {
	IdleThreshold time.Duration // no input for this long means idle (default 120s)
	Granularity   time.Duration // accumulated seconds per flushed session (default 60s)
}

// DefaultConfig returns the stock tracking configuration.
func DefaultConfig() Config {
	return Config{
		IdleThreshold: 120 * time.Second,
		Granularity:   60 * time.Second,
	}
}

// Registry owns one recorder per tracked project, keyed by the stable
// project name. Host callbacks (focus changes, input events) route through
// here so recorder lifecycle stays explicit.
type Registry struct {
	mu        sync.Mutex
	recorders map[string]*Recorder
	monitor   *monitor.ActivityMonitor
	store     Appender
	cfg       Config
}

// NewRegistry creates an empty registry.
func NewRegistry(m *monitor.ActivityMonitor, store Appender, cfg Config) *Registry {
	if cfg.IdleThreshold <= 0 {
		cfg.IdleThreshold = DefaultConfig().IdleThreshold
	}
	if cfg.Granularity <= 0 {
		cfg.Granularity = DefaultConfig().Granularity
	}
	return &Registry{
		recorders: make(map[string]*Recorder),
		monitor:   m,
		store:     store,
		cfg:       cfg,
	}
}

// Register starts tracking a project. Registering an already tracked
// project is a no-op.
func (g *Registry) Register(project string) error {
	if project == "" {
		return fmt.Errorf("cannot track a project with an empty name")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.recorders[project]; exists {
		return nil
	}

	r := NewRecorder(project, g.monitor, g.store, g.cfg.IdleThreshold, g.cfg.Granularity)
	g.recorders[project] = r
	r.Start()

	util.LogInfof("Started tracking project %s", project)
	return nil
}

// Deregister stops tracking a project and drops any partial accumulator.
func (g *Registry) Deregister(project string) {
	g.mu.Lock()
	r, exists := g.recorders[project]
	delete(g.recorders, project)
	g.mu.Unlock()

	if !exists {
		return
	}
	r.Stop()
	util.LogInfof("Stopped tracking project %s", project)
}

// ReportEditorFocus records that a project's editor gained focus on the
// given resource. Unknown projects are registered on the fly so a focus
// event from a freshly opened project is never lost.
func (g *Registry) ReportEditorFocus(project, resourcePath string) error {
	if err := g.Register(project); err != nil {
		return err
	}

	g.monitor.ReportFocus(project)

	g.mu.Lock()
	r := g.recorders[project]
	g.mu.Unlock()
	if r == nil {
		// Deregistered between Register and here, e.g. a focus request
		// racing daemon shutdown. Nothing left to update.
		return nil
	}
	r.SetResource(resourcePath)
	return nil
}

// ReportInputEvent forwards an input event to the activity monitor.
func (g *Registry) ReportInputEvent() {
	g.monitor.RecordInput()
}

// Tracked returns the names of all tracked projects.
func (g *Registry) Tracked() []string {
	g.mu.Lock()
	defer g.mu.Unlock()

	names := make([]string, 0, len(g.recorders))
	for name := range g.recorders {
		names = append(names, name)
	}
	return names
}

// StopAll deregisters every tracked project, for daemon shutdown.
func (g *Registry) StopAll() {
	g.mu.Lock()
	recorders := make([]*Recorder, 0, len(g.recorders))
	for _, r := range g.recorders {
		recorders = append(recorders, r)
	}
	g.recorders = make(map[string]*Recorder)
	g.mu.Unlock()

	for _, r := range recorders {
		r.Stop()
	}
}

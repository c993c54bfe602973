// Package runinfo tracks the state of the run currently in progress so
// that the status monitor and log handlers can report on it without
// reaching into the simulation loop.
package runinfo

import (
	"log/slog"
	"sync"

	"github.com/marisim/marisim/internal/model/core"
)

// Snapshot is a point-in-time view of the active run.
type Snapshot struct {
	Run     core.Run
	Active  bool
	Step    int
	MaxRisk float64
}

// Context holds the current run state. It satisfies the simulation
// observer contract, so registering it with the runner keeps it fresh.
type Context struct {
	mu      sync.RWMutex
	run     core.Run
	active  bool
	step    int
	maxRisk float64
}

// NewContext creates an empty Context.
func NewContext() *Context {
	return &Context{}
}

// OnStart marks the run active.
func (c *Context) OnStart(run core.Run) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.run = run
	c.active = true
	c.step = 0
	c.maxRisk = 0
}

// OnStep advances the tracked step and running risk maximum.
func (c *Context) OnStep(rec *core.StepRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.step = rec.Step
	if r := rec.MaxRisk(); r > c.maxRisk {
		c.maxRisk = r
	}
}

// OnFinish marks the run inactive.
func (c *Context) OnFinish(sum core.RunSummary) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = false
}

// Snapshot returns the current run state.
func (c *Context) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Snapshot{
		Run:     c.run,
		Active:  c.active,
		Step:    c.step,
		MaxRisk: c.maxRisk,
	}
}

// LogAttrs returns attributes identifying the active run, for use with
// a context-injecting log handler. Returns nil when no run is active.
func (c *Context) LogAttrs() []slog.Attr {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.active {
		return nil
	}
	return []slog.Attr{
		slog.Int("case", c.run.Case),
		slog.Uint64("run", uint64(c.run.ID)),
	}
}

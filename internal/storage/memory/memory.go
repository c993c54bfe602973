// internal/storage/memory/memory.go
package memory

import (
	"fmt"
	"sync"

	"github.com/marisim/marisim/internal/model/core"
)

// Config holds in-memory/JSON storage backend settings.
type Config struct {
	OutputDir      string
	CompressOutput bool
}

// Backend stores run data in memory and exports to JSON when the run
// ends.
type Backend struct {
	cfg Config

	run     *core.Run
	params  any
	steps   []core.StepRecord
	summary *core.RunSummary

	exportedPath string
	mu           sync.RWMutex
}

// New creates a new memory backend
func New(cfg Config) *Backend {
	return &Backend{cfg: cfg}
}

// Init initializes the backend
func (b *Backend) Init() error {
	return nil
}

// Close cleans up resources
func (b *Backend) Close() error {
	return nil
}

// StartRun begins recording a new run
func (b *Backend) StartRun(run *core.Run, params any) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	run.ID = 1
	b.run = run
	b.params = params
	b.steps = make([]core.StepRecord, 0, run.Steps)
	b.summary = nil
	b.exportedPath = ""

	return nil
}

// RecordStep appends one step to the run history
func (b *Backend) RecordStep(rec *core.StepRecord) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.run == nil {
		return fmt.Errorf("no run in progress")
	}
	b.steps = append(b.steps, *rec)
	return nil
}

// EndRun finalizes the run and exports it to JSON
func (b *Backend) EndRun(sum core.RunSummary) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.run == nil {
		return fmt.Errorf("no run in progress")
	}
	b.summary = &sum

	path, err := b.exportJSON()
	if err != nil {
		return err
	}
	b.exportedPath = path
	return nil
}

// ExportedFilePath returns the path of the last exported run file.
func (b *Backend) ExportedFilePath() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.exportedPath
}

// Steps returns the recorded step history.
func (b *Backend) Steps() []core.StepRecord {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.steps
}

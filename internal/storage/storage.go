// internal/storage/storage.go
package storage

import (
	"log/slog"

	"github.com/marisim/marisim/internal/model/core"
)

// Backend is the interface all storage implementations must satisfy
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// Run management. StartRun assigns the backend's run ID to the
	// passed pointer; params is the full parameter snapshot persisted
	// alongside the run header.
	StartRun(run *core.Run, params any) error
	EndRun(sum core.RunSummary) error

	// State recording
	RecordStep(rec *core.StepRecord) error
}

// Exportable is an optional interface for storage backends that produce
// a file artifact when the run ends.
type Exportable interface {
	ExportedFilePath() string
}

// Recorder adapts a Backend to the simulation observer callbacks.
// Storage errors do not stop the run; the first one is kept and logged.
type Recorder struct {
	backend Backend
	params  any
	log     *slog.Logger
	err     error
}

// NewRecorder wraps a backend for observer registration. params is the
// parameter snapshot stored with the run header.
func NewRecorder(backend Backend, params any, log *slog.Logger) *Recorder {
	if log == nil {
		log = slog.Default()
	}
	return &Recorder{backend: backend, params: params, log: log}
}

// Err returns the first storage error seen during the run, if any.
func (r *Recorder) Err() error {
	return r.err
}

func (r *Recorder) OnStart(run core.Run) {
	if err := r.backend.StartRun(&run, r.params); err != nil {
		r.fail("failed to start run", err)
	}
}

func (r *Recorder) OnStep(rec *core.StepRecord) {
	if r.err != nil {
		return
	}
	if err := r.backend.RecordStep(rec); err != nil {
		r.fail("failed to record step", err)
	}
}

func (r *Recorder) OnFinish(sum core.RunSummary) {
	if r.err != nil {
		return
	}
	if err := r.backend.EndRun(sum); err != nil {
		r.fail("failed to end run", err)
	}
}

func (r *Recorder) fail(msg string, err error) {
	if r.err == nil {
		r.err = err
	}
	r.log.Error(msg, "error", err)
}

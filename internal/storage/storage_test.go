// internal/storage/storage_test.go
package storage

import (
	"errors"
	"testing"

	"github.com/marisim/marisim/internal/config"
	"github.com/marisim/marisim/internal/model/core"
)

func TestNewBackend_Memory(t *testing.T) {
	cfg := config.StorageConfig{Type: "memory"}
	cfg.Memory.OutputDir = t.TempDir()

	b, err := NewBackend(cfg, nil)
	if err != nil {
		t.Fatalf("NewBackend failed: %v", err)
	}
	if b == nil {
		t.Fatal("expected a backend")
	}
}

func TestNewBackend_Unknown(t *testing.T) {
	if _, err := NewBackend(config.StorageConfig{Type: "carrier-pigeon"}, nil); err == nil {
		t.Error("expected error for unknown storage type")
	}
}

// fakeBackend scripts failures for Recorder tests.
type fakeBackend struct {
	starts, steps, ends int
	stepErr             error
}

func (f *fakeBackend) Init() error  { return nil }
func (f *fakeBackend) Close() error { return nil }

func (f *fakeBackend) StartRun(run *core.Run, _ any) error {
	f.starts++
	run.ID = 9
	return nil
}

func (f *fakeBackend) RecordStep(*core.StepRecord) error {
	f.steps++
	return f.stepErr
}

func (f *fakeBackend) EndRun(core.RunSummary) error {
	f.ends++
	return nil
}

func TestRecorder_Lifecycle(t *testing.T) {
	fake := &fakeBackend{}
	rec := NewRecorder(fake, map[string]int{"satAmp": 20}, nil)

	rec.OnStart(core.Run{Case: 1})
	for i := 0; i < 5; i++ {
		rec.OnStep(&core.StepRecord{Step: i})
	}
	rec.OnFinish(core.RunSummary{})

	if fake.starts != 1 || fake.steps != 5 || fake.ends != 1 {
		t.Errorf("backend calls = %+v", fake)
	}
	if rec.Err() != nil {
		t.Errorf("unexpected recorder error: %v", rec.Err())
	}
}

func TestRecorder_StopsAfterError(t *testing.T) {
	wantErr := errors.New("disk full")
	fake := &fakeBackend{stepErr: wantErr}
	rec := NewRecorder(fake, nil, nil)

	rec.OnStart(core.Run{})
	rec.OnStep(&core.StepRecord{Step: 0})
	rec.OnStep(&core.StepRecord{Step: 1})
	rec.OnFinish(core.RunSummary{})

	if fake.steps != 1 {
		t.Errorf("steps after failure = %d, want 1", fake.steps)
	}
	if fake.ends != 0 {
		t.Error("EndRun must be skipped after a storage failure")
	}
	if !errors.Is(rec.Err(), wantErr) {
		t.Errorf("Err() = %v, want %v", rec.Err(), wantErr)
	}
}

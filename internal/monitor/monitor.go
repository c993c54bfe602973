// Package monitor reports run progress while a simulation is active.
package monitor

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/marisim/marisim/internal/logging"
	"github.com/marisim/marisim/internal/runinfo"
	"github.com/marisim/marisim/internal/worker"
)

// Dependencies holds all dependencies for the monitor service
type Dependencies struct {
	LogManager *logging.SlogManager
	RunContext *runinfo.Context
	Recorder   *worker.AsyncRecorder // optional, nil when writes are synchronous
	StatusDir  string                // optional, status file skipped when empty
}

// Status is the progress snapshot written to the status file and logged.
type Status struct {
	Time          time.Time `json:"time"`
	Case          int       `json:"case"`
	RunID         uint      `json:"runId"`
	Step          int       `json:"step"`
	TotalSteps    int       `json:"totalSteps"`
	Percent       float64   `json:"percent"`
	MaxRisk       float64   `json:"maxRisk"`
	WriteQueueLen int       `json:"writeQueueLen"`
	LastWriteMs   float64   `json:"lastWriteMs"`
}

// Service manages status monitoring
type Service struct {
	deps      Dependencies
	interval  time.Duration
	isRunning bool
	mu        sync.RWMutex
	stopChan  chan struct{}
}

// NewService creates a new monitor service
func NewService(deps Dependencies) *Service {
	return &Service{
		deps:     deps,
		interval: time.Second,
		stopChan: make(chan struct{}),
	}
}

// SetInterval overrides the reporting interval. Must be called before Start.
func (s *Service) SetInterval(d time.Duration) {
	if d > 0 {
		s.interval = d
	}
}

// IsRunning returns whether the status monitor is running
func (s *Service) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetStatus returns the current progress snapshot.
func (s *Service) GetStatus() Status {
	snap := s.deps.RunContext.Snapshot()

	status := Status{
		Time:       time.Now(),
		Case:       snap.Run.Case,
		RunID:      snap.Run.ID,
		Step:       snap.Step,
		TotalSteps: snap.Run.Steps,
		MaxRisk:    snap.MaxRisk,
	}
	if snap.Run.Steps > 0 {
		status.Percent = 100 * float64(snap.Step+1) / float64(snap.Run.Steps)
	}
	if s.deps.Recorder != nil {
		status.WriteQueueLen = s.deps.Recorder.QueueLen()
		status.LastWriteMs = float64(s.deps.Recorder.GetLastDBWriteDuration().Milliseconds())
	}
	return status
}

// Start starts the status monitor goroutine
func (s *Service) Start() error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.stopChan = make(chan struct{})
	s.mu.Unlock()

	go func() {
		defer func() {
			s.mu.Lock()
			s.isRunning = false
			s.mu.Unlock()
		}()

		logger := s.deps.LogManager.Logger()
		logger.Debug("Starting status monitor goroutine")

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.stopChan:
				return
			case <-ticker.C:
				snap := s.deps.RunContext.Snapshot()
				if !snap.Active {
					continue
				}

				status := s.GetStatus()
				logger.Info("Run progress",
					"case", status.Case,
					"step", status.Step,
					"totalSteps", status.TotalSteps,
					"percent", status.Percent,
					"maxRisk", status.MaxRisk,
					"writeQueueLen", status.WriteQueueLen,
					"lastWriteMs", status.LastWriteMs,
				)

				if err := s.writeStatusFile(status); err != nil {
					logger.Error("Error writing status file", "error", err)
				}
			}
		}
	}()

	return nil
}

// Stop stops the status monitor goroutine
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isRunning {
		return
	}
	close(s.stopChan)
}

func (s *Service) writeStatusFile(status Status) error {
	if s.deps.StatusDir == "" {
		return nil
	}
	data, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.deps.StatusDir, "status.json"), data, 0644)
}

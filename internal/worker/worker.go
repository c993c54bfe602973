// Package worker decouples storage writes from the simulation loop.
// Step records are queued as they are produced and drained to the
// storage backend from a background goroutine.
package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/marisim/marisim/internal/model/core"
	"github.com/marisim/marisim/internal/queue"
	"github.com/marisim/marisim/internal/storage"
)

const instrumentationName = "github.com/marisim/marisim/internal/worker"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// DefaultFlushInterval is how often the drain goroutine wakes up when
// no explicit interval is configured.
const DefaultFlushInterval = 250 * time.Millisecond

// AsyncRecorder buffers step records and writes them to a storage
// backend off the simulation loop. It satisfies the simulation
// observer contract.
type AsyncRecorder struct {
	backend storage.Backend
	params  any
	log     *slog.Logger

	queue         *queue.Queue[*core.StepRecord]
	flushInterval time.Duration

	stop chan struct{}
	done chan struct{}

	mu        sync.Mutex
	err       error
	started   bool
	lastWrite time.Duration

	queuedCounter  metric.Int64Counter
	writtenCounter metric.Int64Counter
}

// NewAsyncRecorder creates a recorder draining into backend. Params are
// stored alongside the run row the same way the synchronous recorder
// does it.
func NewAsyncRecorder(backend storage.Backend, params any, log *slog.Logger) *AsyncRecorder {
	if log == nil {
		log = slog.Default()
	}
	queued, _ := meter().Int64Counter("marisim.worker.steps_queued")
	written, _ := meter().Int64Counter("marisim.worker.steps_written")

	return &AsyncRecorder{
		backend:        backend,
		params:         params,
		log:            log,
		queue:          queue.New[*core.StepRecord](),
		flushInterval:  DefaultFlushInterval,
		stop:           make(chan struct{}),
		done:           make(chan struct{}),
		queuedCounter:  queued,
		writtenCounter: written,
	}
}

// SetFlushInterval overrides the drain wake-up interval. Must be called
// before OnStart.
func (r *AsyncRecorder) SetFlushInterval(d time.Duration) {
	if d > 0 {
		r.flushInterval = d
	}
}

// Err returns the first backend error encountered, if any.
func (r *AsyncRecorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// GetLastDBWriteDuration returns the duration of the last drain cycle.
func (r *AsyncRecorder) GetLastDBWriteDuration() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastWrite
}

// QueueLen returns the number of records waiting to be written.
func (r *AsyncRecorder) QueueLen() int {
	return r.queue.Len()
}

func (r *AsyncRecorder) setErr(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err == nil {
		r.err = err
	}
}

// OnStart opens the run on the backend and starts the drain goroutine.
func (r *AsyncRecorder) OnStart(run core.Run) {
	if err := r.backend.StartRun(&run, r.params); err != nil {
		r.log.Error("Failed to start run on backend", "error", err)
		r.setErr(err)
		return
	}

	r.mu.Lock()
	r.started = true
	r.mu.Unlock()

	go r.drain()
}

// OnStep queues a copy of the record for the drain goroutine.
func (r *AsyncRecorder) OnStep(rec *core.StepRecord) {
	if r.Err() != nil {
		return
	}
	cp := *rec
	r.queue.Push(&cp)
	r.queuedCounter.Add(context.Background(), 1)
}

// OnFinish stops the drain goroutine, flushes what is left and closes
// the run on the backend.
func (r *AsyncRecorder) OnFinish(sum core.RunSummary) {
	r.mu.Lock()
	started := r.started
	r.mu.Unlock()
	if !started {
		return
	}

	close(r.stop)
	<-r.done

	if err := r.backend.EndRun(sum); err != nil {
		r.log.Error("Failed to end run on backend", "error", err)
		r.setErr(err)
	}
}

// drain runs until stopped, writing queued records in batches.
func (r *AsyncRecorder) drain() {
	defer close(r.done)

	ticker := time.NewTicker(r.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.flush()
		case <-r.stop:
			// final flush picks up everything still queued
			r.flush()
			return
		}
	}
}

func (r *AsyncRecorder) flush() {
	batch := r.queue.Drain()
	if len(batch) == 0 {
		return
	}

	start := time.Now()
	for _, rec := range batch {
		if err := r.backend.RecordStep(rec); err != nil {
			r.log.Error("Failed to record step", "step", rec.Step, "error", err)
			r.setErr(err)
			return
		}
	}
	elapsed := time.Since(start)

	r.mu.Lock()
	r.lastWrite = elapsed
	r.mu.Unlock()

	r.writtenCounter.Add(context.Background(), int64(len(batch)))
}

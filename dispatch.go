package mapper

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
)

// Job is one unit of out-of-band work, typically a batch execution followed
// by callback delivery.
type Job func(ctx context.Context)

// JobHandle lets callers observe completion of a submitted job. The async
// HTTP path never waits on it; tests and shutdown logic do.
type JobHandle struct {
	done chan struct{}
}

func (h *JobHandle) Done() <-chan struct{} {
	return h.done
}

// Wait blocks until the job finishes or the context is cancelled.
func (h *JobHandle) Wait(ctx context.Context) error {
	select {
	case <-h.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

var ErrDispatcherStopped = errors.New("dispatcher is stopped")

type dispatchJob struct {
	run    Job
	handle *JobHandle
}

// Dispatcher is a fixed-size worker pool that owns every background batch
// goroutine. Submitting replaces fire-and-forget task spawning: the pool
// supervises execution, logs panics, and drains on shutdown.
type Dispatcher struct {
	jobs    chan dispatchJob
	workers int

	mu      sync.RWMutex
	stopped bool
	wg      sync.WaitGroup
}

const dispatchBacklog = 256

func NewDispatcher(workers int) *Dispatcher {
	if workers <= 0 {
		workers = 1
	}
	return &Dispatcher{
		jobs:    make(chan dispatchJob, dispatchBacklog),
		workers: workers,
	}
}

func (d *Dispatcher) Start() {
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for job := range d.jobs {
		d.runJob(job)
	}
}

func (d *Dispatcher) runJob(job dispatchJob) {
	defer close(job.handle.done)
	defer func() {
		if rec := recover(); rec != nil {
			logrus.Errorf("dispatch job panicked: %v", rec)
		}
	}()
	job.run(context.Background())
}

// Submit schedules the job on the pool and returns immediately with a handle.
func (d *Dispatcher) Submit(job Job) (*JobHandle, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped {
		return nil, ErrDispatcherStopped
	}
	handle := &JobHandle{done: make(chan struct{})}
	d.jobs <- dispatchJob{run: job, handle: handle}
	return handle, nil
}

// Shutdown stops accepting jobs and waits for in-flight work until the
// context expires.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return nil
	}
	d.stopped = true
	close(d.jobs)
	d.mu.Unlock()

	drained := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(drained)
	}()

	select {
	case <-drained:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

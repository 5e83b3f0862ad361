package core

// coordinator.go runs extraction jobs one at a time.
//
// The coordinator owns the only shared mutable state of the extractor: the
// id, state, progress and failure of the current (or last) job. Every read
// and write goes through one mutex. Start performs the "is a job running"
// check and the "mark running" write under the same lock hold, so two
// concurrent requests can never both start a job.
//
// Lifecycle:
//
//	idle ──Start──▶ running ──▶ done
//	                   │
//	                   └──────▶ failed(kind)
//
// A finished job's state stays readable until the next Start.

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// State is the coordinator's job state.
type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
	StateDone    State = "done"
	StateFailed  State = "failed"
)

// LoadFunc parses the data and configuration tables of a job.
type LoadFunc func(ctx context.Context) (data, config *Table, err error)

// PersistFunc stores the finished result table.
type PersistFunc func(ctx context.Context, result *Table) error

// Job describes one extraction run.
type Job struct {
	ID      string
	Load    LoadFunc
	Persist PersistFunc // optional
}

// Status is a snapshot of the coordinator state.
type Status struct {
	JobID      string
	State      State
	Progress   int
	Failure    *Failure
	Rows       int
	Attributes int
	StartedAt  time.Time
	FinishedAt time.Time
}

// Running reports whether a job is in flight.
func (s Status) Running() bool { return s.State == StateRunning }

// Observer receives job lifecycle events. Implementations must not block.
type Observer interface {
	JobStarted(jobID string)
	JobRejected()
	JobFinished(status Status)
}

// Coordinator enforces a single in-flight extraction job.
type Coordinator struct {
	mu     sync.Mutex
	status Status
	result *Table
	done   chan struct{}

	observer Observer
	logger   *slog.Logger
	now      func() time.Time
}

// CoordinatorOption configures a Coordinator.
type CoordinatorOption func(*Coordinator)

// WithObserver registers an observer for job lifecycle events.
func WithObserver(o Observer) CoordinatorOption {
	return func(c *Coordinator) { c.observer = o }
}

// WithLogger sets the logger used for job lifecycle messages.
func WithLogger(l *slog.Logger) CoordinatorOption {
	return func(c *Coordinator) { c.logger = l }
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) CoordinatorOption {
	return func(c *Coordinator) { c.now = now }
}

// NewCoordinator returns an idle coordinator.
func NewCoordinator(opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		status: Status{State: StateIdle},
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start launches job in the background. It returns ErrJobInProgress,
// leaving the running job untouched, when another job has not finished.
//
// The job does not inherit cancellation from ctx: once accepted it runs to
// completion or failure. Values carried by ctx (request id) are kept.
func (c *Coordinator) Start(ctx context.Context, job Job) error {
	if job.Load == nil {
		return ErrInvalidJob
	}

	c.mu.Lock()
	if c.status.State == StateRunning {
		running := c.status.JobID
		c.mu.Unlock()
		c.logger.Warn("job rejected", "job_id", job.ID, "running_job_id", running)
		if c.observer != nil {
			c.observer.JobRejected()
		}
		return ErrJobInProgress
	}
	c.status = Status{
		JobID:     job.ID,
		State:     StateRunning,
		StartedAt: c.now(),
	}
	c.result = nil
	done := make(chan struct{})
	c.done = done
	c.mu.Unlock()

	c.logger.Info("job started", "job_id", job.ID)
	if c.observer != nil {
		c.observer.JobStarted(job.ID)
	}

	go c.run(context.WithoutCancel(ctx), job, done)
	return nil
}

// run executes the job stages and records the terminal state.
func (c *Coordinator) run(ctx context.Context, job Job, done chan struct{}) {
	defer close(done)
	defer func() {
		if r := recover(); r != nil {
			c.fail(&Failure{Kind: FailureExtraction, Err: fmt.Errorf("panic: %v", r)})
		}
	}()

	data, config, err := job.Load(ctx)
	if err != nil {
		c.fail(&Failure{Kind: FailureInputParse, Err: err})
		return
	}

	if _, ok := DescriptionColumn(data); !ok {
		c.fail(&Failure{Kind: FailureMissingDescription, Err: ErrMissingDescriptionColumn})
		return
	}

	rows, err := ConfigRowsFromTable(config)
	if err != nil {
		c.fail(&Failure{Kind: classify(err), Err: err})
		return
	}
	rules := CompileRules(rows)

	c.mu.Lock()
	c.status.Rows = data.Len()
	c.status.Attributes = rules.Len()
	c.mu.Unlock()

	result, err := Extract(data, rules, c.setProgress)
	if err != nil {
		c.fail(&Failure{Kind: classify(err), Err: err})
		return
	}

	if job.Persist != nil {
		if err := job.Persist(ctx, result); err != nil {
			c.fail(&Failure{Kind: FailureExtraction, Err: fmt.Errorf("persist result: %w", err)})
			return
		}
	}

	c.finish(result)
}

// setProgress is the ProgressSink handed to Extract.
func (c *Coordinator) setProgress(percent int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status.State == StateRunning && percent > c.status.Progress {
		c.status.Progress = percent
	}
}

func (c *Coordinator) finish(result *Table) {
	c.mu.Lock()
	c.status.State = StateDone
	c.status.Progress = 100
	c.status.FinishedAt = c.now()
	c.result = result
	snapshot := c.status
	c.mu.Unlock()

	c.logger.Info("job completed",
		"job_id", snapshot.JobID,
		"rows", snapshot.Rows,
		"attributes", snapshot.Attributes,
		"duration_ms", snapshot.FinishedAt.Sub(snapshot.StartedAt).Milliseconds(),
	)
	if c.observer != nil {
		c.observer.JobFinished(snapshot)
	}
}

func (c *Coordinator) fail(f *Failure) {
	c.mu.Lock()
	c.status.State = StateFailed
	c.status.Failure = f
	c.status.FinishedAt = c.now()
	c.result = nil
	snapshot := c.status
	c.mu.Unlock()

	c.logger.Error("job failed",
		"job_id", snapshot.JobID,
		"kind", string(f.Kind),
		"error", f.Error(),
	)
	if c.observer != nil {
		c.observer.JobFinished(snapshot)
	}
}

// Status returns a snapshot of the current or last job.
func (c *Coordinator) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Result returns the table produced by the last successful job.
func (c *Coordinator) Result() (*Table, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status.State != StateDone || c.result == nil {
		return nil, false
	}
	return c.result, true
}

// Wait blocks until no job is running or ctx is done. Used for graceful
// shutdown so a job is not abandoned halfway.
func (c *Coordinator) Wait(ctx context.Context) error {
	c.mu.Lock()
	running := c.status.State == StateRunning
	done := c.done
	c.mu.Unlock()

	if !running {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

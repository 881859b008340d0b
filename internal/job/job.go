package job

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/pyldin601/long-long-job/internal/log"
	"github.com/pyldin601/long-long-job/internal/metrics"
	"github.com/pyldin601/long-long-job/internal/model"
	"github.com/pyldin601/long-long-job/internal/storage"
)

// Status is the lifecycle state of a job instance.
type Status int32

const (
	StatusIdle Status = iota
	StatusRunning
	StatusCompleted
	StatusTerminated
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusRunning:
		return "running"
	case StatusCompleted:
		return "completed"
	case StatusTerminated:
		return "terminated"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// InitialStateFunc returns the state of a fresh run. It's only called when
// there is no checkpoint to resume from.
type InitialStateFunc[S any] func(ctx context.Context) (S, error)

// JobConfig is the configuration of a job.
type JobConfig[S any] struct {
	// ID identifies the job, it's used verbatim as the checkpoint key.
	ID string
	// Units is the job definition, tasks and labels in execution order.
	Units []Unit
	// Repository stores the job checkpoints.
	Repository storage.CheckpointRepository
	// Codec encodes the state on checkpoints, defaults to JSON.
	Codec Codec[S]
	// StrictLabels makes a repeated label a configuration error, by default
	// the last occurrence of the label wins.
	StrictLabels    bool
	MetricsRecorder metrics.Recorder
	Logger          log.Logger
}

func (c *JobConfig[S]) defaults() error {
	if c.ID == "" {
		return fmt.Errorf("id is required: %w", model.ErrNotValid)
	}

	if c.Repository == nil {
		return fmt.Errorf("repository is required: %w", model.ErrNotValid)
	}

	if c.Codec == nil {
		c.Codec = JSONCodec[S]{}
	}

	if c.MetricsRecorder == nil {
		c.MetricsRecorder = metrics.Noop
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "job.Job", "job-id": c.ID})

	return nil
}

// Job is a resumable chain of tasks. A Job runs one chain at a time, but can
// be started again once a run has finished.
type Job[S any] struct {
	id      string
	chain   chain[S]
	repo    storage.CheckpointRepository
	codec   Codec[S]
	metrics metrics.Recorder
	logger  log.Logger
	events  notifier[S]

	status     atomic.Int32
	terminated atomic.Bool
}

// NewJob creates a new job, the units are resolved and validated once here.
func NewJob[S any](cfg JobConfig[S]) (*Job[S], error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	c, err := resolve[S](cfg.Units, cfg.StrictLabels)
	if err != nil {
		return nil, fmt.Errorf("invalid units: %w", err)
	}

	return &Job[S]{
		id:      cfg.ID,
		chain:   c,
		repo:    cfg.Repository,
		codec:   cfg.Codec,
		metrics: cfg.MetricsRecorder,
		logger:  cfg.Logger,
	}, nil
}

// ID returns the job identifier.
func (j *Job[S]) ID() string { return j.id }

// Status returns the lifecycle state of the job.
func (j *Job[S]) Status() Status { return Status(j.status.Load()) }

// Running returns true while a run is in progress.
func (j *Job[S]) Running() bool { return j.Status() == StatusRunning }

// On registers a handler for a lifecycle event type.
func (j *Job[S]) On(t EventType, h Handler[S]) {
	j.events.on(t, h)
}

// Terminate asks the running chain to stop before its next task. A task that is
// already running finishes and its checkpoint is stored. It doesn't block.
func (j *Job[S]) Terminate() {
	j.terminated.Store(true)
	j.logger.Debugf("Termination requested")
}

// Start runs the job with initial as the state of a fresh run. If a checkpoint
// exists the run resumes from it and initial is ignored.
func (j *Job[S]) Start(ctx context.Context, initial S) (S, error) {
	return j.StartWith(ctx, func(context.Context) (S, error) { return initial, nil })
}

// StartWith is like Start, but the initial state is only computed when there is
// no checkpoint to resume from.
func (j *Job[S]) StartWith(ctx context.Context, initial InitialStateFunc[S]) (S, error) {
	var zero S

	if initial == nil {
		return zero, fmt.Errorf("initial state func is required: %w", model.ErrNotValid)
	}

	if !j.markRunning() {
		return zero, fmt.Errorf("job %s: %w", j.id, model.ErrAlreadyStarted)
	}

	// Failed unless the run says otherwise, this also covers panicking handlers.
	status := StatusFailed
	defer func() { j.status.Store(int32(status)) }()
	j.terminated.Store(false)

	runID := ulid.Make().String()
	logger := j.logger.WithValues(log.Kv{"run-id": runID})

	state, resumed, err := j.run(ctx, runID, logger, initial)
	switch {
	case err == nil:
		status = StatusCompleted
		j.metrics.IncJobRun(ctx, j.id, metrics.OutcomeCompleted, resumed)
		logger.Infof("Job finished")
		return state, nil
	case errors.Is(err, model.ErrTerminated):
		status = StatusTerminated
		j.metrics.IncJobRun(ctx, j.id, metrics.OutcomeTerminated, resumed)
		logger.Warningf("Job terminated, progress is kept on the last checkpoint")
	default:
		j.metrics.IncJobRun(ctx, j.id, metrics.OutcomeFailed, resumed)
		logger.Errorf("Job failed: %s", err)
	}

	return zero, err
}

func (j *Job[S]) markRunning() bool {
	for {
		current := j.status.Load()
		if Status(current) == StatusRunning {
			return false
		}
		if j.status.CompareAndSwap(current, int32(StatusRunning)) {
			return true
		}
	}
}

func (j *Job[S]) run(ctx context.Context, runID string, logger log.Logger, initial InitialStateFunc[S]) (state S, resumed bool, err error) {
	resumed, err = j.repo.HasCheckpoint(ctx, j.id)
	if err != nil {
		return state, false, fmt.Errorf("could not check job checkpoint: %w", err)
	}

	if resumed {
		j.events.notify(ctx, Event[S]{Type: EventResume, JobID: j.id, RunID: runID})
	} else {
		j.events.notify(ctx, Event[S]{Type: EventStart, JobID: j.id, RunID: runID})
	}

	cursor, state, err := j.loadState(ctx, resumed, initial)
	if err != nil {
		return state, resumed, err
	}

	if resumed {
		logger.Infof("Resuming job at task %d of %d", cursor, len(j.chain.tasks))
	} else {
		logger.Infof("Starting job with %d tasks", len(j.chain.tasks))
	}

	// A finished step is always stored, even if the run context was cancelled meanwhile.
	storeCtx := context.WithoutCancel(ctx)

	for cursor < len(j.chain.tasks) {
		if j.terminated.Load() {
			return state, resumed, fmt.Errorf("job %s stopped before task %d: %w", j.id, cursor, model.ErrTerminated)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return state, resumed, fmt.Errorf("job %s stopped before task %d: %w: %w", j.id, cursor, model.ErrTerminated, ctxErr)
		}

		j.events.notify(ctx, Event[S]{Type: EventTask, JobID: j.id, RunID: runID, Cursor: cursor, State: state})

		nextCursor, nextState, err := j.step(ctx, cursor, state)
		if err != nil {
			return state, resumed, err
		}

		if err := j.storeCheckpoint(storeCtx, nextCursor, nextState); err != nil {
			return state, resumed, err
		}
		logger.Debugf("Task %d done, next task: %d", cursor, nextCursor)

		cursor, state = nextCursor, nextState
	}

	j.events.notify(ctx, Event[S]{Type: EventDone, JobID: j.id, RunID: runID, State: state})

	if err := j.repo.DeleteCheckpoint(storeCtx, j.id); err != nil {
		return state, resumed, fmt.Errorf("could not clean job checkpoint: %w", err)
	}

	return state, resumed, nil
}

func (j *Job[S]) loadState(ctx context.Context, resumed bool, initial InitialStateFunc[S]) (int, S, error) {
	if !resumed {
		state, err := initial(ctx)
		if err != nil {
			return 0, state, fmt.Errorf("could not get initial state: %w", err)
		}
		return 0, state, nil
	}

	var zero S
	cp, err := j.repo.GetCheckpoint(ctx, j.id)
	if err != nil {
		return 0, zero, fmt.Errorf("could not get job checkpoint: %w", err)
	}

	if cp.JobID != j.id {
		return 0, zero, fmt.Errorf("stored checkpoint belongs to job %q: %w", cp.JobID, model.ErrNotValid)
	}

	if err := cp.ValidateFor(len(j.chain.tasks)); err != nil {
		return 0, zero, fmt.Errorf("stored checkpoint doesn't match the job: %w", err)
	}

	state, err := j.codec.Decode(cp.State)
	if err != nil {
		return 0, zero, fmt.Errorf("could not decode checkpoint state: %w", err)
	}

	return cp.Cursor, state, nil
}

// step runs the task at cursor and interprets its action.
func (j *Job[S]) step(ctx context.Context, cursor int, state S) (int, S, error) {
	start := time.Now()
	action, err := j.chain.tasks[cursor](ctx, state)
	if err != nil {
		j.metrics.ObserveTaskExecution(ctx, j.id, action.kind.String(), false, time.Since(start))
		return cursor, state, fmt.Errorf("task %d failed: %w", cursor, err)
	}
	j.metrics.ObserveTaskExecution(ctx, j.id, action.kind.String(), true, time.Since(start))

	switch action.kind {
	case ActionNext:
		return cursor + 1, action.state, nil
	case ActionRepeat:
		return cursor, action.state, nil
	case ActionGoto:
		next, ok := j.chain.labels[action.label]
		if !ok {
			return cursor, state, fmt.Errorf("task %d jumped to label %q: %w", cursor, action.label, model.ErrUnknownLabel)
		}
		return next, action.state, nil
	case ActionDone:
		return len(j.chain.tasks), action.state, nil
	}

	return cursor, state, fmt.Errorf("task %d: %w", cursor, model.ErrNoAction)
}

func (j *Job[S]) storeCheckpoint(ctx context.Context, cursor int, state S) error {
	data, err := j.codec.Encode(state)
	if err != nil {
		return fmt.Errorf("could not encode state: %w", err)
	}

	start := time.Now()
	err = j.repo.SetCheckpoint(ctx, model.Checkpoint{
		JobID:  j.id,
		Cursor: cursor,
		State:  data,
	})
	j.metrics.ObserveCheckpointWrite(ctx, j.id, err == nil, time.Since(start))
	if err != nil {
		return fmt.Errorf("could not store job checkpoint: %w", err)
	}

	return nil
}

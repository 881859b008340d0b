package longjob

import (
	"github.com/pyldin601/long-long-job/internal/job"
	"github.com/pyldin601/long-long-job/internal/metrics"
	"github.com/pyldin601/long-long-job/internal/model"
	"github.com/pyldin601/long-long-job/internal/storage"
)

// Job is a resumable chain of tasks, create it with [New].
type Job[S any] = job.Job[S]

// Action is what a task returns, build it with [Next], [Repeat], [Goto] or [Done].
type Action[S any] = job.Action[S]

// Task is a step of a job.
type Task[S any] = job.Task[S]

// Unit is a job definition element, a [Task] or a [Label].
type Unit = job.Unit

// Label names the position of the task that follows it.
type Label = job.Label

// InitialStateFunc lazily returns the state of a fresh run, see [Job.StartWith].
type InitialStateFunc[S any] = job.InitialStateFunc[S]

// Event is a job lifecycle notification, register handlers with [Job.On].
type Event[S any] = job.Event[S]

// EventType is the kind of an [Event].
type EventType = job.EventType

// Handler receives job events synchronously.
type Handler[S any] = job.Handler[S]

// Event types.
const (
	EventStart  = job.EventStart
	EventResume = job.EventResume
	EventTask   = job.EventTask
	EventDone   = job.EventDone
)

// Status is the lifecycle state of a job.
type Status = job.Status

// Job statuses.
const (
	StatusIdle       = job.StatusIdle
	StatusRunning    = job.StatusRunning
	StatusCompleted  = job.StatusCompleted
	StatusTerminated = job.StatusTerminated
	StatusFailed     = job.StatusFailed
)

// Codec converts states to the bytes stored on checkpoints.
type Codec[S any] = job.Codec[S]

// JSONCodec stores states as JSON, it's the default.
type JSONCodec[S any] = job.JSONCodec[S]

// YAMLCodec stores states as YAML.
type YAMLCodec[S any] = job.YAMLCodec[S]

// Checkpoint is the stored progress of a job.
type Checkpoint = model.Checkpoint

// Store persists job checkpoints.
type Store = storage.CheckpointRepository

// MetricsRecorder records job metrics, see [NewPrometheusRecorder].
type MetricsRecorder = metrics.Recorder

// Errors returned by jobs, check them with errors.Is.
var (
	// ErrAlreadyStarted is returned when starting a job that is running.
	ErrAlreadyStarted = model.ErrAlreadyStarted
	// ErrUnknownLabel is returned when a task jumps to a label that doesn't exist.
	ErrUnknownLabel = model.ErrUnknownLabel
	// ErrNoAction is returned when a task returns the zero Action.
	ErrNoAction = model.ErrNoAction
	// ErrTerminated is returned when a job stops because it was asked to.
	ErrTerminated = model.ErrTerminated
	// ErrNotValid is returned on invalid configuration or stored data.
	ErrNotValid = model.ErrNotValid
	// ErrNotFound is returned by stores for missing checkpoints.
	ErrNotFound = model.ErrNotFound
)

// Config configures a job.
type Config[S any] struct {
	// ID identifies the job and is the checkpoint key. Required.
	ID string
	// Units is the job definition.
	Units []Unit
	// Store keeps the checkpoints. Required.
	Store Store
	// Codec encodes states. Default: JSON.
	Codec Codec[S]
	// StrictLabels fails the creation of jobs with repeated labels. By
	// default the last occurrence of a label wins.
	StrictLabels bool
	// MetricsRecorder. Default: noop.
	MetricsRecorder MetricsRecorder
	// Logger. Default: noop, see the log sub-package.
	Logger Logger
}

// New creates a job. Units are validated here, a unit that is not a [Label] or
// a [Task] of the job state type fails with [ErrNotValid].
func New[S any](cfg Config[S]) (*Job[S], error) {
	return job.NewJob(job.JobConfig[S]{
		ID:              cfg.ID,
		Units:           cfg.Units,
		Repository:      cfg.Store,
		Codec:           cfg.Codec,
		StrictLabels:    cfg.StrictLabels,
		MetricsRecorder: cfg.MetricsRecorder,
		Logger:          cfg.Logger,
	})
}

// Next runs the following task with state.
func Next[S any](state S) Action[S] { return job.Next(state) }

// Repeat runs the same task again with state.
func Repeat[S any](state S) Action[S] { return job.Repeat(state) }

// Goto runs the task after label with state.
func Goto[S any](label string, state S) Action[S] { return job.Goto(label, state) }

// Done finishes the job with state as result.
func Done[S any](state S) Action[S] { return job.Done(state) }

// Package demo has the example job definitions shipped with the CLI. They are
// tiny on purpose, their interest is that they take long enough to be
// interrupted and resumed.
package demo

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/pyldin601/long-long-job/internal/job"
	"github.com/pyldin601/long-long-job/internal/log"
	"github.com/pyldin601/long-long-job/internal/metrics"
	"github.com/pyldin601/long-long-job/internal/model"
	"github.com/pyldin601/long-long-job/internal/storage"
)

// Demo job names.
const (
	JobIncrement  = "increment"
	JobOscillator = "oscillator"
)

// Jobs returns the available demo job names.
func Jobs() []string {
	return []string{JobIncrement, JobOscillator}
}

// Result is the outcome of a demo job run.
type Result struct {
	// Value is the final counter of the job.
	Value int
	// Steps is the number of tasks executed by this run, previous runs are not counted.
	Steps int
}

// RunnerConfig is the configuration of the demo runner.
type RunnerConfig struct {
	Run             model.RunConfig
	Repository      storage.CheckpointRepository
	MetricsRecorder metrics.Recorder
	Logger          log.Logger
	// OnTick is called with the counter before every task, optional.
	OnTick func(value int)
}

func (c *RunnerConfig) defaults() error {
	if err := c.Run.Validate(); err != nil {
		return err
	}

	if !slices.Contains(Jobs(), c.Run.Job) {
		return fmt.Errorf("unknown job %q, available: %v: %w", c.Run.Job, Jobs(), model.ErrNotValid)
	}

	if c.Repository == nil {
		return fmt.Errorf("repository is required: %w", model.ErrNotValid)
	}

	if c.MetricsRecorder == nil {
		c.MetricsRecorder = metrics.Noop
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "demo.Runner", "job": c.Run.Job})

	if c.OnTick == nil {
		c.OnTick = func(int) {}
	}

	return nil
}

// Runner runs a demo job by name.
type Runner struct {
	run       func(ctx context.Context) (Result, error)
	terminate func()
	running   func() bool
}

// NewRunner creates the job selected by the run configuration.
func NewRunner(cfg RunnerConfig) (*Runner, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	switch cfg.Run.Job {
	case JobIncrement:
		return newRunner(cfg, IncrementUnits(cfg.Run.StepDelay), func(s IncrementState) int { return s.Value },
			func(context.Context) (IncrementState, error) {
				return IncrementState{Threshold: cfg.Run.Threshold}, nil
			})
	default:
		return newRunner(cfg, OscillatorUnits(cfg.Run.StepDelay), func(s OscillatorState) int { return s.Current },
			func(context.Context) (OscillatorState, error) {
				return OscillatorState{Limit: cfg.Run.Threshold}, nil
			})
	}
}

func newRunner[S any](cfg RunnerConfig, units []job.Unit, value func(S) int, initial job.InitialStateFunc[S]) (*Runner, error) {
	j, err := job.NewJob(job.JobConfig[S]{
		ID:              cfg.Run.ID,
		Units:           units,
		Repository:      cfg.Repository,
		MetricsRecorder: cfg.MetricsRecorder,
		Logger:          cfg.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create job: %w", err)
	}

	logger := cfg.Logger
	steps := 0
	j.On(job.EventStart, func(context.Context, job.Event[S]) { logger.Infof("Job started") })
	j.On(job.EventResume, func(context.Context, job.Event[S]) { logger.Infof("Job resumed") })
	j.On(job.EventTask, func(_ context.Context, e job.Event[S]) {
		steps++
		logger.Debugf("Current value is %d", value(e.State))
		cfg.OnTick(value(e.State))
	})
	j.On(job.EventDone, func(_ context.Context, e job.Event[S]) {
		logger.Infof("Job finished with value %d", value(e.State))
	})

	return &Runner{
		run: func(ctx context.Context) (Result, error) {
			steps = 0
			s, err := j.StartWith(ctx, initial)
			if err != nil {
				return Result{Steps: steps}, err
			}
			return Result{Value: value(s), Steps: steps}, nil
		},
		terminate: j.Terminate,
		running:   j.Running,
	}, nil
}

// Run runs the job until it finishes, fails or is terminated. A terminated or
// failed job resumes from its checkpoint on the next run.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	return r.run(ctx)
}

// Terminate asks the running job to stop after its current task.
func (r *Runner) Terminate() { r.terminate() }

// Running returns true while the job is running.
func (r *Runner) Running() bool { return r.running() }

// wait sleeps d unless the context ends first. A cancelled context doesn't fail
// the task, the engine stops before the next one.
func wait(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

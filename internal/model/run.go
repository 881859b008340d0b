package model

import (
	"fmt"
	"time"
)

// RunConfig describes a demo job execution requested from the outside (CLI flags or a run file).
type RunConfig struct {
	// ID is the job identifier and persistence key.
	ID string
	// Job is the name of the job definition to run.
	Job string
	// Threshold is the value the demo jobs work towards.
	Threshold int
	// StepDelay is waited inside every task, so long runs can be interrupted by hand.
	StepDelay time.Duration
	// Timeout terminates the job cooperatively after this duration, 0 means no timeout.
	Timeout time.Duration
}

// Validate validates the run configuration.
func (r RunConfig) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("id is required: %w", ErrNotValid)
	}

	if r.Job == "" {
		return fmt.Errorf("job is required: %w", ErrNotValid)
	}

	if r.Threshold < 0 {
		return fmt.Errorf("threshold must be non-negative, got %d: %w", r.Threshold, ErrNotValid)
	}

	if r.StepDelay < 0 {
		return fmt.Errorf("step delay must be non-negative, got %s: %w", r.StepDelay, ErrNotValid)
	}

	if r.Timeout < 0 {
		return fmt.Errorf("timeout must be non-negative, got %s: %w", r.Timeout, ErrNotValid)
	}

	return nil
}

// RunResult is the outcome of a finished job run.
type RunResult struct {
	ID  string
	Job string
	// Value is the final counter of the demo job.
	Value int
	// Steps is the number of tasks executed by the run.
	Steps int
	// Duration is the wall time of the run.
	Duration time.Duration
}

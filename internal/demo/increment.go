package demo

import (
	"context"
	"time"

	"github.com/pyldin601/long-long-job/internal/job"
)

// IncrementState is the state of the increment job.
type IncrementState struct {
	Value     int `json:"value" yaml:"value"`
	Threshold int `json:"threshold" yaml:"threshold"`
}

// IncrementUnits counts from the state value up to its threshold, one task
// execution per increment.
func IncrementUnits(stepDelay time.Duration) []job.Unit {
	return []job.Unit{
		job.Task[IncrementState](func(ctx context.Context, s IncrementState) (job.Action[IncrementState], error) {
			wait(ctx, stepDelay)

			if s.Value < s.Threshold {
				s.Value++
				return job.Repeat(s), nil
			}

			return job.Done(s), nil
		}),
	}
}

package demo

import (
	"context"
	"time"

	"github.com/pyldin601/long-long-job/internal/job"
)

const (
	labelUp   = "up"
	labelDown = "down"

	oscillatorRise = 10
	oscillatorFall = 8
)

// OscillatorState is the state of the oscillator job.
type OscillatorState struct {
	Current int `json:"current" yaml:"current"`
	// Target is the value the current leg of the oscillation moves to.
	Target int `json:"target" yaml:"target"`
	// Limit finishes the job once the counter reaches it going up.
	Limit int `json:"limit" yaml:"limit"`
}

// OscillatorUnits moves a counter up and down jumping between two labels.
// Every leg goes up by 10 and back by 8, so the counter slowly drifts up to
// the limit.
func OscillatorUnits(stepDelay time.Duration) []job.Unit {
	return []job.Unit{
		job.Task[OscillatorState](func(_ context.Context, s OscillatorState) (job.Action[OscillatorState], error) {
			s.Target = s.Current + oscillatorRise
			return job.Goto(labelUp, s), nil
		}),

		job.Label(labelUp),
		job.Task[OscillatorState](func(ctx context.Context, s OscillatorState) (job.Action[OscillatorState], error) {
			wait(ctx, stepDelay)

			switch {
			case s.Current >= s.Limit:
				return job.Done(s), nil
			case s.Current < s.Target:
				s.Current++
				return job.Repeat(s), nil
			}

			s.Target = s.Current - oscillatorFall
			return job.Goto(labelDown, s), nil
		}),

		job.Label(labelDown),
		job.Task[OscillatorState](func(ctx context.Context, s OscillatorState) (job.Action[OscillatorState], error) {
			wait(ctx, stepDelay)

			if s.Current > s.Target {
				s.Current--
				return job.Repeat(s), nil
			}

			s.Target = s.Current + oscillatorRise
			return job.Goto(labelUp, s), nil
		}),
	}
}

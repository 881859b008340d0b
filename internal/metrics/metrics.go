package metrics

import (
	"context"
	"time"
)

// Job run outcomes.
const (
	OutcomeCompleted  = "completed"
	OutcomeTerminated = "terminated"
	OutcomeFailed     = "failed"
)

// Recorder knows how to record job engine metrics.
type Recorder interface {
	// ObserveTaskExecution measures a single task invocation, action is the returned action kind.
	ObserveTaskExecution(ctx context.Context, jobID, action string, success bool, duration time.Duration)
	// ObserveCheckpointWrite measures a checkpoint write to the persistence backend.
	ObserveCheckpointWrite(ctx context.Context, jobID string, success bool, duration time.Duration)
	// IncJobRun counts a finished job run by its outcome.
	IncJobRun(ctx context.Context, jobID, outcome string, resumed bool)
}

// Noop is a recorder that doesn't record anything.
var Noop Recorder = noop(0)

type noop int

func (noop) ObserveTaskExecution(_ context.Context, _, _ string, _ bool, _ time.Duration) {}
func (noop) ObserveCheckpointWrite(_ context.Context, _ string, _ bool, _ time.Duration)  {}
func (noop) IncJobRun(_ context.Context, _, _ string, _ bool)                            {}

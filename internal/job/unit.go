package job

import (
	"context"
	"fmt"

	"github.com/pyldin601/long-long-job/internal/model"
)

// Unit is an element of a job definition, either a [Label] or a [Task].
type Unit interface {
	isUnit()
}

// Label names the position of the task that follows it. It's not executed.
type Label string

func (Label) isUnit() {}

// Task is a step of the job. It receives the current state and returns the
// action to apply. A returned error fails the run, the previous checkpoint is kept.
type Task[S any] func(ctx context.Context, state S) (Action[S], error)

func (t Task[S]) isUnit() {}

// chain is the executable form of a job definition.
type chain[S any] struct {
	// labels maps a label to the index of the first task after it.
	labels map[string]int
	tasks  []Task[S]
}

// resolve splits units into the ordered tasks and the label positions. With
// strict disabled a repeated label points to its last occurrence.
func resolve[S any](units []Unit, strict bool) (chain[S], error) {
	c := chain[S]{
		labels: map[string]int{},
		tasks:  make([]Task[S], 0, len(units)),
	}

	for i, u := range units {
		switch u := u.(type) {
		case Label:
			if u == "" {
				return chain[S]{}, fmt.Errorf("unit %d is a label without name: %w", i, model.ErrNotValid)
			}
			if _, ok := c.labels[string(u)]; ok && strict {
				return chain[S]{}, fmt.Errorf("unit %d repeats label %q: %w", i, u, model.ErrNotValid)
			}
			c.labels[string(u)] = len(c.tasks)

		case Task[S]:
			if u == nil {
				return chain[S]{}, fmt.Errorf("unit %d is a nil task: %w", i, model.ErrNotValid)
			}
			c.tasks = append(c.tasks, u)

		default:
			var zero S
			return chain[S]{}, fmt.Errorf("unit %d is a %T, expected a job.Label or a job.Task[%T]: %w", i, u, zero, model.ErrNotValid)
		}
	}

	return c, nil
}

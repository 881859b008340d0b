package job

import (
	"context"
	"sync"
)

// EventType is the kind of a job lifecycle notification.
type EventType string

const (
	// EventStart is sent when a run begins without checkpoint.
	EventStart EventType = "start"
	// EventResume is sent when a run begins from a stored checkpoint.
	EventResume EventType = "resume"
	// EventTask is sent before every task invocation with its cursor and input state.
	EventTask EventType = "task"
	// EventDone is sent when the chain finishes with the final state.
	EventDone EventType = "done"
)

// Event is a job lifecycle notification.
type Event[S any] struct {
	Type  EventType
	JobID string
	RunID string
	// Cursor is the index of the task about to run, only set on EventTask.
	Cursor int
	// State is the task input on EventTask and the result on EventDone.
	State S
}

// Handler receives job events. Handlers run inline with the job loop: a slow
// handler slows the job and a panic is not recovered.
type Handler[S any] func(ctx context.Context, e Event[S])

type notifier[S any] struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler[S]
}

func (n *notifier[S]) on(t EventType, h Handler[S]) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.handlers == nil {
		n.handlers = map[EventType][]Handler[S]{}
	}
	n.handlers[t] = append(n.handlers[t], h)
}

func (n *notifier[S]) notify(ctx context.Context, e Event[S]) {
	// Copy so handlers can register more handlers without deadlocking.
	n.mu.RLock()
	hs := append([]Handler[S](nil), n.handlers[e.Type]...)
	n.mu.RUnlock()

	for _, h := range hs {
		h(ctx, e)
	}
}

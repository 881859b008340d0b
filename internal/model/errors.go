package model

import "errors"

var (
	// ErrNotFound is returned when a resource is not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when a resource already exists.
	ErrAlreadyExists = errors.New("already exists")
	// ErrNotValid is returned when a resource is not valid.
	ErrNotValid = errors.New("not valid")

	// ErrAlreadyStarted is returned when starting a job instance that is already running.
	ErrAlreadyStarted = errors.New("already started")
	// ErrUnknownLabel is returned when a task jumps to a label the job doesn't declare.
	ErrUnknownLabel = errors.New("unknown label")
	// ErrNoAction is returned when a task doesn't return a recognized action.
	ErrNoAction = errors.New("task returned no action")
	// ErrTerminated is returned when a running job has been asked to stop.
	ErrTerminated = errors.New("job terminated")
)

package model

import (
	"fmt"
	"time"
)

// Checkpoint is the persisted progress of a job: the position of the next task
// to run and the encoded state that task will receive.
type Checkpoint struct {
	JobID     string
	Cursor    int
	State     []byte
	UpdatedAt time.Time
}

// Validate checks the checkpoint is storable.
func (c Checkpoint) Validate() error {
	if c.JobID == "" {
		return fmt.Errorf("job id is required: %w", ErrNotValid)
	}

	if c.Cursor < 0 {
		return fmt.Errorf("cursor must be non-negative, got %d: %w", c.Cursor, ErrNotValid)
	}

	return nil
}

// ValidateFor checks the checkpoint cursor points inside a chain of taskCount tasks.
// A cursor equal to taskCount is valid, it represents a finished chain that was
// not cleaned yet.
func (c Checkpoint) ValidateFor(taskCount int) error {
	if err := c.Validate(); err != nil {
		return err
	}

	if c.Cursor > taskCount {
		return fmt.Errorf("cursor %d is out of range for %d tasks: %w", c.Cursor, taskCount, ErrNotValid)
	}

	return nil
}

package storage

import (
	"context"

	"github.com/pyldin601/long-long-job/internal/model"
)

//go:generate mockery --case underscore --output storagemock --outpkg storagemock --name CheckpointRepository

// CheckpointRepository is the persistence boundary of the job engine. Every
// operation is addressed by the job identifier.
//
// SetCheckpoint must be durable when it returns: the engine doesn't run the
// next step until it does.
type CheckpointRepository interface {
	// HasCheckpoint returns true if a checkpoint exists for the job.
	HasCheckpoint(ctx context.Context, jobID string) (bool, error)
	// GetCheckpoint returns the job checkpoint, or an error wrapping model.ErrNotFound.
	GetCheckpoint(ctx context.Context, jobID string) (*model.Checkpoint, error)
	// SetCheckpoint stores the checkpoint, overwriting any previous one for the job.
	SetCheckpoint(ctx context.Context, c model.Checkpoint) error
	// DeleteCheckpoint removes the job checkpoint. Deleting a missing checkpoint is not an error.
	DeleteCheckpoint(ctx context.Context, jobID string) error
	// ListCheckpoints returns every stored checkpoint.
	ListCheckpoints(ctx context.Context) ([]model.Checkpoint, error)
}

package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/pyldin601/long-long-job/internal/log"
	"github.com/pyldin601/long-long-job/internal/model"
)

// RepositoryConfig is the configuration for the memory repository.
type RepositoryConfig struct {
	Logger log.Logger
	// TimeNowFunc is used to stamp checkpoints, defaults to time.Now.
	TimeNowFunc func() time.Time
}

func (c *RepositoryConfig) defaults() error {
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "storage.Memory"})

	if c.TimeNowFunc == nil {
		c.TimeNowFunc = time.Now
	}
	return nil
}

// Repository is an in-memory implementation of storage.CheckpointRepository.
// Checkpoints don't survive the process, it's meant for tests and short lived jobs.
type Repository struct {
	checkpoints map[string]model.Checkpoint
	mu          sync.RWMutex
	logger      log.Logger
	timeNow     func() time.Time
}

// NewRepository creates a new memory repository.
func NewRepository(cfg RepositoryConfig) (*Repository, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Repository{
		checkpoints: make(map[string]model.Checkpoint),
		logger:      cfg.Logger,
		timeNow:     cfg.TimeNowFunc,
	}, nil
}

// HasCheckpoint returns true if a checkpoint exists for the job.
func (r *Repository) HasCheckpoint(ctx context.Context, jobID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.checkpoints[jobID]
	return ok, nil
}

// GetCheckpoint retrieves a checkpoint by job ID.
func (r *Repository) GetCheckpoint(ctx context.Context, jobID string) (*model.Checkpoint, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.checkpoints[jobID]
	if !ok {
		return nil, fmt.Errorf("checkpoint %s: %w", jobID, model.ErrNotFound)
	}

	// Return a copy.
	checkpointCopy := copyCheckpoint(c)
	return &checkpointCopy, nil
}

// SetCheckpoint stores a checkpoint, replacing the previous one of the same job.
func (r *Repository) SetCheckpoint(ctx context.Context, c model.Checkpoint) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid checkpoint: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	c = copyCheckpoint(c)
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = r.timeNow().UTC()
	}
	r.checkpoints[c.JobID] = c
	r.logger.Debugf("Stored checkpoint in repository: %s (cursor: %d)", c.JobID, c.Cursor)

	return nil
}

// DeleteCheckpoint deletes a checkpoint, missing checkpoints are ignored.
func (r *Repository) DeleteCheckpoint(ctx context.Context, jobID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.checkpoints[jobID]; !ok {
		return nil
	}

	delete(r.checkpoints, jobID)
	r.logger.Debugf("Deleted checkpoint from repository: %s", jobID)

	return nil
}

// ListCheckpoints returns all checkpoints ordered by job ID.
func (r *Repository) ListCheckpoints(ctx context.Context) ([]model.Checkpoint, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	checkpoints := make([]model.Checkpoint, 0, len(r.checkpoints))
	for _, c := range r.checkpoints {
		checkpoints = append(checkpoints, copyCheckpoint(c))
	}
	slices.SortFunc(checkpoints, func(a, b model.Checkpoint) int { return strings.Compare(a.JobID, b.JobID) })

	return checkpoints, nil
}

func copyCheckpoint(c model.Checkpoint) model.Checkpoint {
	c.State = slices.Clone(c.State)
	return c
}

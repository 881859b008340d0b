package checkpointremove

import (
	"context"
	"errors"
	"fmt"

	"github.com/pyldin601/long-long-job/internal/log"
	"github.com/pyldin601/long-long-job/internal/model"
	"github.com/pyldin601/long-long-job/internal/storage"
)

// ServiceConfig is the configuration for the checkpoint remove service.
type ServiceConfig struct {
	Repository storage.CheckpointRepository
	Logger     log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Repository == nil {
		return fmt.Errorf("repository is required")
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}

	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.CheckpointRemove"})
	return nil
}

// Service removes job checkpoints, the next run of the job starts from scratch.
type Service struct {
	repo   storage.CheckpointRepository
	logger log.Logger
}

// NewService creates a new checkpoint remove service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		repo:   cfg.Repository,
		logger: cfg.Logger,
	}, nil
}

// Request represents the checkpoint remove request parameters.
type Request struct {
	JobID string
	// Force doesn't fail when the job has no checkpoint.
	Force bool
}

func (r Request) validate() error {
	if r.JobID == "" {
		return fmt.Errorf("job id is required: %w", model.ErrNotValid)
	}
	return nil
}

// Run removes the job checkpoint and returns it. With force, a missing
// checkpoint returns nil without error.
func (s *Service) Run(ctx context.Context, req Request) (*model.Checkpoint, error) {
	if err := req.validate(); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	cp, err := s.repo.GetCheckpoint(ctx, req.JobID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			if req.Force {
				return nil, nil
			}
			return nil, fmt.Errorf("job %s has no checkpoint: %w", req.JobID, model.ErrNotFound)
		}
		return nil, fmt.Errorf("could not get checkpoint: %w", err)
	}

	if err := s.repo.DeleteCheckpoint(ctx, req.JobID); err != nil {
		return nil, fmt.Errorf("could not delete checkpoint: %w", err)
	}

	s.logger.Infof("removed checkpoint of job %s at task %d", cp.JobID, cp.Cursor)
	return cp, nil
}

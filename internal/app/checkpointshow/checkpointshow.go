package checkpointshow

import (
	"context"
	"errors"
	"fmt"

	"github.com/pyldin601/long-long-job/internal/log"
	"github.com/pyldin601/long-long-job/internal/model"
	"github.com/pyldin601/long-long-job/internal/storage"
)

// ServiceConfig is the configuration for the checkpoint show service.
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

	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.CheckpointShow"})
	return nil
}

// Service gets the checkpoint of a single job.
type Service struct {
	repo   storage.CheckpointRepository
	logger log.Logger
}

// NewService creates a new checkpoint show service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		repo:   cfg.Repository,
		logger: cfg.Logger,
	}, nil
}

// Request represents the checkpoint show request parameters.
type Request struct {
	JobID string
}

func (r Request) validate() error {
	if r.JobID == "" {
		return fmt.Errorf("job id is required: %w", model.ErrNotValid)
	}
	return nil
}

// Run returns the checkpoint of the job.
func (s *Service) Run(ctx context.Context, req Request) (*model.Checkpoint, error) {
	if err := req.validate(); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	cp, err := s.repo.GetCheckpoint(ctx, req.JobID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, fmt.Errorf("job %s has no checkpoint: %w", req.JobID, model.ErrNotFound)
		}
		return nil, fmt.Errorf("could not get checkpoint: %w", err)
	}

	return cp, nil
}

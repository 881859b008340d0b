package checkpointlist

import (
	"context"
	"fmt"

	"github.com/pyldin601/long-long-job/internal/log"
	"github.com/pyldin601/long-long-job/internal/model"
	"github.com/pyldin601/long-long-job/internal/storage"
)

// ServiceConfig is the configuration for the checkpoint list service.
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

	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.CheckpointList"})
	return nil
}

// Service lists the checkpoints of unfinished jobs.
type Service struct {
	repo   storage.CheckpointRepository
	logger log.Logger
}

// NewService creates a new checkpoint list service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		repo:   cfg.Repository,
		logger: cfg.Logger,
	}, nil
}

// Request represents the checkpoint list request parameters.
type Request struct{}

// Run lists all checkpoints.
func (s *Service) Run(ctx context.Context, req Request) ([]model.Checkpoint, error) {
	s.logger.Debugf("listing checkpoints")

	cps, err := s.repo.ListCheckpoints(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not list checkpoints: %w", err)
	}

	s.logger.Debugf("found %d checkpoints", len(cps))
	return cps, nil
}

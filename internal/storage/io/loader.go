package io

import (
	"context"
	"fmt"
	"io/fs"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pyldin601/long-long-job/internal/model"
)

// RunConfigYAMLRepository loads job run configurations from YAML files.
type RunConfigYAMLRepository struct {
	fs fs.FS
}

// NewRunConfigYAMLRepository creates a new YAML run config repository.
func NewRunConfigYAMLRepository(filesystem fs.FS) *RunConfigYAMLRepository {
	return &RunConfigYAMLRepository{fs: filesystem}
}

// GetRunConfig loads a run configuration from a YAML file and returns a validated domain model.
func (r *RunConfigYAMLRepository) GetRunConfig(ctx context.Context, path string) (model.RunConfig, error) {
	data, err := fs.ReadFile(r.fs, path)
	if err != nil {
		return model.RunConfig{}, fmt.Errorf("reading run config file: %w", err)
	}

	if ctx.Err() != nil {
		return model.RunConfig{}, ctx.Err()
	}

	var cfg RunConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return model.RunConfig{}, fmt.Errorf("parsing YAML: %w", err)
	}

	m, err := cfg.toModel()
	if err != nil {
		return model.RunConfig{}, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := m.Validate(); err != nil {
		return model.RunConfig{}, fmt.Errorf("invalid configuration: %w", err)
	}

	return m, nil
}

// RunConfig represents the YAML structure of a job run.
type RunConfig struct {
	ID        string `yaml:"id"`
	Job       string `yaml:"job"`
	Threshold int    `yaml:"threshold"`
	StepDelay string `yaml:"step_delay"`
	Timeout   string `yaml:"timeout"`
}

func (c RunConfig) toModel() (model.RunConfig, error) {
	stepDelay, err := parseDuration(c.StepDelay)
	if err != nil {
		return model.RunConfig{}, fmt.Errorf("step_delay: %w", err)
	}

	timeout, err := parseDuration(c.Timeout)
	if err != nil {
		return model.RunConfig{}, fmt.Errorf("timeout: %w", err)
	}

	return model.RunConfig{
		ID:        c.ID,
		Job:       c.Job,
		Threshold: c.Threshold,
		StepDelay: stepDelay,
		Timeout:   timeout,
	}, nil
}

func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, model.ErrNotValid)
	}

	return d, nil
}

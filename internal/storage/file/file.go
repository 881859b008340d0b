// Package file stores job checkpoints as one JSON document per job inside a directory.
//
// Every write goes through a temporary file that is synced and renamed over the
// previous one, so a crash leaves either the old or the new checkpoint on disk.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/moby/sys/atomicwriter"

	"github.com/pyldin601/long-long-job/internal/log"
	"github.com/pyldin601/long-long-job/internal/model"
)

const checkpointFileExt = ".json"

// RepositoryConfig is the configuration for the file repository.
type RepositoryConfig struct {
	// Dir is where checkpoint files are stored, created if missing.
	Dir    string
	Logger log.Logger
	// TimeNowFunc is used to stamp checkpoints, defaults to time.Now.
	TimeNowFunc func() time.Time
}

func (c *RepositoryConfig) defaults() error {
	if c.Dir == "" {
		return fmt.Errorf("dir is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "storage.File"})

	if c.TimeNowFunc == nil {
		c.TimeNowFunc = time.Now
	}
	return nil
}

// Repository is a file system implementation of storage.CheckpointRepository.
type Repository struct {
	dir     string
	logger  log.Logger
	timeNow func() time.Time
}

// NewRepository creates a new file repository.
func NewRepository(cfg RepositoryConfig) (*Repository, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if err := os.MkdirAll(cfg.Dir, 0755); err != nil {
		return nil, fmt.Errorf("could not create checkpoints directory: %w", err)
	}

	return &Repository{
		dir:     cfg.Dir,
		logger:  cfg.Logger,
		timeNow: cfg.TimeNowFunc,
	}, nil
}

// checkpointFile is the on disk representation of a checkpoint.
type checkpointFile struct {
	JobID     string    `json:"job_id"`
	Cursor    int       `json:"cursor"`
	State     []byte    `json:"state"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasCheckpoint returns true if a checkpoint file exists for the job.
func (r *Repository) HasCheckpoint(ctx context.Context, jobID string) (bool, error) {
	_, err := os.Stat(r.path(jobID))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("could not stat checkpoint file: %w", err)
	}

	return true, nil
}

// GetCheckpoint reads a checkpoint by job ID.
func (r *Repository) GetCheckpoint(ctx context.Context, jobID string) (*model.Checkpoint, error) {
	c, err := r.read(r.path(jobID))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("checkpoint %s: %w", jobID, model.ErrNotFound)
		}
		return nil, err
	}

	return &c, nil
}

// SetCheckpoint atomically replaces the job checkpoint file.
func (r *Repository) SetCheckpoint(ctx context.Context, c model.Checkpoint) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid checkpoint: %w", err)
	}

	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = r.timeNow()
	}

	data, err := json.Marshal(checkpointFile{
		JobID:     c.JobID,
		Cursor:    c.Cursor,
		State:     c.State,
		UpdatedAt: c.UpdatedAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("could not marshal checkpoint: %w", err)
	}

	if err := atomicwriter.WriteFile(r.path(c.JobID), data, 0644); err != nil {
		return fmt.Errorf("could not write checkpoint file: %w", err)
	}

	r.logger.Debugf("Stored checkpoint in repository: %s (cursor: %d)", c.JobID, c.Cursor)
	return nil
}

// DeleteCheckpoint removes the job checkpoint file, missing files are ignored.
func (r *Repository) DeleteCheckpoint(ctx context.Context, jobID string) error {
	err := os.Remove(r.path(jobID))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("could not delete checkpoint file: %w", err)
	}

	r.logger.Debugf("Deleted checkpoint from repository: %s", jobID)
	return nil
}

// ListCheckpoints returns all checkpoints ordered by job ID.
func (r *Repository) ListCheckpoints(ctx context.Context) ([]model.Checkpoint, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, fmt.Errorf("could not read checkpoints directory: %w", err)
	}

	checkpoints := []model.Checkpoint{}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), checkpointFileExt) {
			continue
		}

		if err := ctx.Err(); err != nil {
			return nil, err
		}

		c, err := r.read(filepath.Join(r.dir, e.Name()))
		if err != nil {
			// Removed between the listing and the read.
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, err
		}
		checkpoints = append(checkpoints, c)
	}
	slices.SortFunc(checkpoints, func(a, b model.Checkpoint) int { return strings.Compare(a.JobID, b.JobID) })

	return checkpoints, nil
}

func (r *Repository) read(path string) (model.Checkpoint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Checkpoint{}, fmt.Errorf("could not read checkpoint file: %w", err)
	}

	var cf checkpointFile
	if err := json.Unmarshal(data, &cf); err != nil {
		return model.Checkpoint{}, fmt.Errorf("could not unmarshal checkpoint file %s: %w", path, err)
	}

	return model.Checkpoint{
		JobID:     cf.JobID,
		Cursor:    cf.Cursor,
		State:     cf.State,
		UpdatedAt: cf.UpdatedAt.UTC(),
	}, nil
}

// path returns the checkpoint file of a job. IDs are escaped so any identifier
// maps to a single file inside the directory.
func (r *Repository) path(jobID string) string {
	return filepath.Join(r.dir, url.PathEscape(jobID)+checkpointFileExt)
}

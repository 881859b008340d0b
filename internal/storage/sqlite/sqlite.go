package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/pyldin601/long-long-job/internal/log"
	"github.com/pyldin601/long-long-job/internal/model"
	"github.com/pyldin601/long-long-job/internal/storage/sqlite/migrations"
)

// RepositoryConfig is the configuration for the SQLite repository.
type RepositoryConfig struct {
	DBPath string
	Logger log.Logger
	// TimeNowFunc is used to stamp checkpoints, defaults to time.Now.
	TimeNowFunc func() time.Time
}

func (c *RepositoryConfig) defaults() error {
	if c.DBPath == "" {
		return fmt.Errorf("db path is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "storage.SQLite"})

	if c.TimeNowFunc == nil {
		c.TimeNowFunc = time.Now
	}
	return nil
}

// Repository is a SQLite implementation of storage.CheckpointRepository.
type Repository struct {
	db      *sql.DB
	logger  log.Logger
	timeNow func() time.Time
}

// NewRepository creates a new SQLite repository, the schema is migrated on creation.
func NewRepository(ctx context.Context, cfg RepositoryConfig) (*Repository, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	dir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("could not create db directory: %w", err)
	}

	// Synchronous FULL so a stored checkpoint survives a power loss, not only a crash.
	dsn := fmt.Sprintf("%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=synchronous(FULL)&_pragma=busy_timeout(5000)", cfg.DBPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("could not open database: %w", err)
	}

	migrator, err := migrations.NewMigrator(db, cfg.Logger)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("could not create migrator: %w", err)
	}
	if err := migrator.Up(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("could not run migrations: %w", err)
	}

	cfg.Logger.Debugf("SQLite repository initialized at %s", cfg.DBPath)

	return &Repository{db: db, logger: cfg.Logger, timeNow: cfg.TimeNowFunc}, nil
}

// Close closes the database connection.
func (r *Repository) Close() error { return r.db.Close() }

// HasCheckpoint returns true if a checkpoint exists for the job.
func (r *Repository) HasCheckpoint(ctx context.Context, jobID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM checkpoints WHERE job_id = ?)`, jobID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("could not query checkpoint existence: %w", err)
	}

	return exists, nil
}

// GetCheckpoint retrieves a checkpoint by job ID.
func (r *Repository) GetCheckpoint(ctx context.Context, jobID string) (*model.Checkpoint, error) {
	query := `
		SELECT job_id, task_cursor, state, updated_at
		FROM checkpoints
		WHERE job_id = ?
	`

	c, err := r.scanRow(r.db.QueryRowContext(ctx, query, jobID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("checkpoint %s: %w", jobID, model.ErrNotFound)
		}
		return nil, fmt.Errorf("could not query checkpoint: %w", err)
	}

	return &c, nil
}

// SetCheckpoint upserts the job checkpoint.
func (r *Repository) SetCheckpoint(ctx context.Context, c model.Checkpoint) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid checkpoint: %w", err)
	}

	updatedAt := c.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = r.timeNow()
	}

	query := `
		INSERT INTO checkpoints (job_id, task_cursor, state, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (job_id) DO UPDATE SET
			task_cursor = excluded.task_cursor,
			state = excluded.state,
			updated_at = excluded.updated_at
	`

	_, err := r.db.ExecContext(ctx, query, c.JobID, c.Cursor, c.State, updatedAt.UTC().Unix())
	if err != nil {
		return fmt.Errorf("could not store checkpoint: %w", err)
	}

	r.logger.Debugf("Stored checkpoint in repository: %s (cursor: %d)", c.JobID, c.Cursor)
	return nil
}

// DeleteCheckpoint deletes a checkpoint, missing checkpoints are ignored.
func (r *Repository) DeleteCheckpoint(ctx context.Context, jobID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM checkpoints WHERE job_id = ?`, jobID)
	if err != nil {
		return fmt.Errorf("could not delete checkpoint: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not get rows affected: %w", err)
	}

	r.logger.Debugf("Deleted %d checkpoints from repository: %s", rows, jobID)
	return nil
}

// ListCheckpoints returns all checkpoints ordered by job ID.
func (r *Repository) ListCheckpoints(ctx context.Context) ([]model.Checkpoint, error) {
	query := `
		SELECT job_id, task_cursor, state, updated_at
		FROM checkpoints
		ORDER BY job_id ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("could not query checkpoints: %w", err)
	}
	defer rows.Close()

	checkpoints := []model.Checkpoint{}
	for rows.Next() {
		c, err := r.scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("could not scan row: %w", err)
		}
		checkpoints = append(checkpoints, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return checkpoints, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func (r *Repository) scanRow(s scanner) (model.Checkpoint, error) {
	var c model.Checkpoint
	var updatedAt int64

	err := s.Scan(
		&c.JobID,
		&c.Cursor,
		&c.State,
		&updatedAt,
	)
	if err != nil {
		return model.Checkpoint{}, err
	}
	c.UpdatedAt = timeFromUnix(updatedAt)

	return c, nil
}

func timeFromUnix(unix int64) time.Time { return time.Unix(unix, 0).UTC() }

package longjob

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/pyldin601/long-long-job/internal/log"
	metricsprometheus "github.com/pyldin601/long-long-job/internal/metrics/prometheus"
	"github.com/pyldin601/long-long-job/internal/storage/file"
	"github.com/pyldin601/long-long-job/internal/storage/memory"
	"github.com/pyldin601/long-long-job/internal/storage/sqlite"
)

// Logger is the logger used by jobs and stores.
type Logger = log.Logger

// NewMemoryStore returns a store that keeps checkpoints in memory. Checkpoints
// are lost when the process ends, it's useful for tests.
func NewMemoryStore() Store {
	// Can't fail with an empty config.
	repo, _ := memory.NewRepository(memory.RepositoryConfig{})
	return repo
}

// SQLiteStoreConfig configures a SQLite store.
type SQLiteStoreConfig struct {
	// DBPath is the SQLite database file, created if missing. Required.
	DBPath string
	Logger Logger
}

// SQLiteStore is a store backed by a SQLite database. Close it when done.
type SQLiteStore struct {
	*sqlite.Repository
}

// NewSQLiteStore opens (and migrates) a SQLite checkpoint store.
func NewSQLiteStore(ctx context.Context, cfg SQLiteStoreConfig) (*SQLiteStore, error) {
	repo, err := sqlite.NewRepository(ctx, sqlite.RepositoryConfig{
		DBPath: cfg.DBPath,
		Logger: cfg.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create sqlite store: %w", err)
	}

	return &SQLiteStore{Repository: repo}, nil
}

// FileStoreConfig configures a file store.
type FileStoreConfig struct {
	// Dir holds one file per job checkpoint, created if missing. Required.
	Dir    string
	Logger Logger
}

// NewFileStore returns a store that writes every checkpoint atomically to its
// own file.
func NewFileStore(cfg FileStoreConfig) (Store, error) {
	repo, err := file.NewRepository(file.RepositoryConfig{
		Dir:    cfg.Dir,
		Logger: cfg.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create file store: %w", err)
	}

	return repo, nil
}

// NewPrometheusRecorder returns a metrics recorder registered on reg. A nil
// reg uses the Prometheus default registerer.
func NewPrometheusRecorder(reg prometheus.Registerer) (MetricsRecorder, error) {
	r, err := metricsprometheus.NewRecorder(metricsprometheus.RecorderConfig{Registerer: reg})
	if err != nil {
		return nil, fmt.Errorf("could not create prometheus recorder: %w", err)
	}

	return r, nil
}

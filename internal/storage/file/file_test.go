package file_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pyldin601/long-long-job/internal/log"
	"github.com/pyldin601/long-long-job/internal/model"
	"github.com/pyldin601/long-long-job/internal/storage/file"
)

var testNow = time.Date(2026, 1, 30, 10, 0, 0, 0, time.UTC)

func TestNewRepository(t *testing.T) {
	_, err := file.NewRepository(file.RepositoryConfig{})
	assert.Error(t, err)
}

func TestRepositoryCheckpoints(t *testing.T) {
	tests := map[string]struct {
		actions func(ctx context.Context, t *testing.T, dir string, repo *file.Repository) error
		expErr  bool
	}{
		"Storing a checkpoint should make it available.": {
			actions: func(ctx context.Context, t *testing.T, dir string, repo *file.Repository) error {
				err := repo.SetCheckpoint(ctx, model.Checkpoint{JobID: "job-1", Cursor: 1, State: []byte(`{"value":15}`)})
				require.NoError(t, err)

				has, err := repo.HasCheckpoint(ctx, "job-1")
				require.NoError(t, err)
				assert.True(t, has)

				got, err := repo.GetCheckpoint(ctx, "job-1")
				require.NoError(t, err)
				assert.Equal(t, model.Checkpoint{JobID: "job-1", Cursor: 1, State: []byte(`{"value":15}`), UpdatedAt: testNow}, *got)
				return nil
			},
		},

		"Storing a checkpoint twice should overwrite it.": {
			actions: func(ctx context.Context, t *testing.T, dir string, repo *file.Repository) error {
				require.NoError(t, repo.SetCheckpoint(ctx, model.Checkpoint{JobID: "job-1", Cursor: 1, State: []byte("15")}))
				require.NoError(t, repo.SetCheckpoint(ctx, model.Checkpoint{JobID: "job-1", Cursor: 2, State: []byte("30")}))

				got, err := repo.GetCheckpoint(ctx, "job-1")
				require.NoError(t, err)
				assert.Equal(t, 2, got.Cursor)
				assert.Equal(t, []byte("30"), got.State)

				// No temporary files are left behind.
				entries, err := os.ReadDir(dir)
				require.NoError(t, err)
				assert.Len(t, entries, 1)
				return nil
			},
		},

		"Job IDs with path separators should stay inside the directory.": {
			actions: func(ctx context.Context, t *testing.T, dir string, repo *file.Repository) error {
				require.NoError(t, repo.SetCheckpoint(ctx, model.Checkpoint{JobID: "../team/job-1", Cursor: 1}))

				entries, err := os.ReadDir(dir)
				require.NoError(t, err)
				require.Len(t, entries, 1)
				assert.Equal(t, "..%2Fteam%2Fjob-1.json", entries[0].Name())

				got, err := repo.GetCheckpoint(ctx, "../team/job-1")
				require.NoError(t, err)
				assert.Equal(t, "../team/job-1", got.JobID)
				return nil
			},
		},

		"Getting a missing checkpoint should fail with not found.": {
			actions: func(ctx context.Context, t *testing.T, dir string, repo *file.Repository) error {
				has, err := repo.HasCheckpoint(ctx, "job-1")
				require.NoError(t, err)
				assert.False(t, has)

				_, err = repo.GetCheckpoint(ctx, "job-1")
				assert.True(t, errors.Is(err, model.ErrNotFound))
				return err
			},
			expErr: true,
		},

		"A corrupted checkpoint file should fail.": {
			actions: func(ctx context.Context, t *testing.T, dir string, repo *file.Repository) error {
				require.NoError(t, os.WriteFile(filepath.Join(dir, "job-1.json"), []byte("{"), 0644))

				_, err := repo.GetCheckpoint(ctx, "job-1")
				return err
			},
			expErr: true,
		},

		"Deleting a checkpoint should remove it and deleting again should not fail.": {
			actions: func(ctx context.Context, t *testing.T, dir string, repo *file.Repository) error {
				require.NoError(t, repo.SetCheckpoint(ctx, model.Checkpoint{JobID: "job-1", Cursor: 1}))
				require.NoError(t, repo.DeleteCheckpoint(ctx, "job-1"))

				has, err := repo.HasCheckpoint(ctx, "job-1")
				require.NoError(t, err)
				assert.False(t, has)

				return repo.DeleteCheckpoint(ctx, "job-1")
			},
		},

		"Listing checkpoints should ignore foreign files and order by job.": {
			actions: func(ctx context.Context, t *testing.T, dir string, repo *file.Repository) error {
				require.NoError(t, repo.SetCheckpoint(ctx, model.Checkpoint{JobID: "job-b", Cursor: 2}))
				require.NoError(t, repo.SetCheckpoint(ctx, model.Checkpoint{JobID: "job-a", Cursor: 1}))
				require.NoError(t, os.WriteFile(filepath.Join(dir, "README.txt"), []byte("hi"), 0644))
				require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.json"), 0755))

				all, err := repo.ListCheckpoints(ctx)
				require.NoError(t, err)
				require.Len(t, all, 2)
				assert.Equal(t, "job-a", all[0].JobID)
				assert.Equal(t, "job-b", all[1].JobID)
				return nil
			},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			repo, err := file.NewRepository(file.RepositoryConfig{
				Dir:         dir,
				Logger:      log.Noop,
				TimeNowFunc: func() time.Time { return testNow },
			})
			require.NoError(t, err)

			err = test.actions(context.Background(), t, dir, repo)

			if test.expErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

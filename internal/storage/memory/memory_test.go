package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pyldin601/long-long-job/internal/log"
	"github.com/pyldin601/long-long-job/internal/model"
	"github.com/pyldin601/long-long-job/internal/storage/memory"
)

func TestRepositoryCheckpoints(t *testing.T) {
	now := time.Date(2026, 1, 30, 10, 0, 0, 0, time.UTC)

	tests := map[string]struct {
		actions func(ctx context.Context, t *testing.T, repo *memory.Repository) error
		expErr  bool
	}{
		"Storing a checkpoint should make it available.": {
			actions: func(ctx context.Context, t *testing.T, repo *memory.Repository) error {
				err := repo.SetCheckpoint(ctx, model.Checkpoint{JobID: "job-1", Cursor: 1, State: []byte("15")})
				require.NoError(t, err)

				has, err := repo.HasCheckpoint(ctx, "job-1")
				require.NoError(t, err)
				assert.True(t, has)

				got, err := repo.GetCheckpoint(ctx, "job-1")
				require.NoError(t, err)
				assert.Equal(t, model.Checkpoint{JobID: "job-1", Cursor: 1, State: []byte("15"), UpdatedAt: now}, *got)

				return nil
			},
		},

		"Storing a checkpoint twice should overwrite it.": {
			actions: func(ctx context.Context, t *testing.T, repo *memory.Repository) error {
				require.NoError(t, repo.SetCheckpoint(ctx, model.Checkpoint{JobID: "job-1", Cursor: 1, State: []byte("15")}))
				require.NoError(t, repo.SetCheckpoint(ctx, model.Checkpoint{JobID: "job-1", Cursor: 2, State: []byte("30")}))

				got, err := repo.GetCheckpoint(ctx, "job-1")
				require.NoError(t, err)
				assert.Equal(t, 2, got.Cursor)
				assert.Equal(t, []byte("30"), got.State)

				return nil
			},
		},

		"Getting a missing checkpoint should fail.": {
			actions: func(ctx context.Context, t *testing.T, repo *memory.Repository) error {
				has, err := repo.HasCheckpoint(ctx, "job-1")
				require.NoError(t, err)
				assert.False(t, has)

				_, err = repo.GetCheckpoint(ctx, "job-1")
				assert.True(t, errors.Is(err, model.ErrNotFound))

				return err
			},
			expErr: true,
		},

		"Storing an invalid checkpoint should fail.": {
			actions: func(ctx context.Context, t *testing.T, repo *memory.Repository) error {
				return repo.SetCheckpoint(ctx, model.Checkpoint{JobID: "job-1", Cursor: -1})
			},
			expErr: true,
		},

		"Deleting a checkpoint should remove it.": {
			actions: func(ctx context.Context, t *testing.T, repo *memory.Repository) error {
				require.NoError(t, repo.SetCheckpoint(ctx, model.Checkpoint{JobID: "job-1", Cursor: 1}))
				require.NoError(t, repo.DeleteCheckpoint(ctx, "job-1"))

				has, err := repo.HasCheckpoint(ctx, "job-1")
				require.NoError(t, err)
				assert.False(t, has)

				return nil
			},
		},

		"Deleting a missing checkpoint should not fail.": {
			actions: func(ctx context.Context, t *testing.T, repo *memory.Repository) error {
				return repo.DeleteCheckpoint(ctx, "job-1")
			},
		},

		"Listing checkpoints should return them ordered by job.": {
			actions: func(ctx context.Context, t *testing.T, repo *memory.Repository) error {
				require.NoError(t, repo.SetCheckpoint(ctx, model.Checkpoint{JobID: "job-b", Cursor: 2}))
				require.NoError(t, repo.SetCheckpoint(ctx, model.Checkpoint{JobID: "job-a", Cursor: 1}))

				got, err := repo.ListCheckpoints(ctx)
				require.NoError(t, err)
				require.Len(t, got, 2)
				assert.Equal(t, "job-a", got[0].JobID)
				assert.Equal(t, "job-b", got[1].JobID)

				return nil
			},
		},

		"Mutating a returned checkpoint should not change the stored one.": {
			actions: func(ctx context.Context, t *testing.T, repo *memory.Repository) error {
				require.NoError(t, repo.SetCheckpoint(ctx, model.Checkpoint{JobID: "job-1", Cursor: 1, State: []byte("15")}))

				got, err := repo.GetCheckpoint(ctx, "job-1")
				require.NoError(t, err)
				got.State[0] = '9'

				got, err = repo.GetCheckpoint(ctx, "job-1")
				require.NoError(t, err)
				assert.Equal(t, []byte("15"), got.State)

				return nil
			},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			repo, err := memory.NewRepository(memory.RepositoryConfig{
				Logger:      log.Noop,
				TimeNowFunc: func() time.Time { return now },
			})
			require.NoError(t, err)

			err = test.actions(context.Background(), t, repo)

			if test.expErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

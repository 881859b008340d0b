package longjob_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pyldin601/long-long-job/pkg/longjob"
)

func TestNewValidation(t *testing.T) {
	tests := map[string]struct {
		config longjob.Config[int]
		expErr error
	}{
		"A missing store should fail.": {
			config: longjob.Config[int]{ID: "j"},
			expErr: longjob.ErrNotValid,
		},
		"A repeated label with strict labels should fail.": {
			config: longjob.Config[int]{
				ID:           "j",
				Store:        longjob.NewMemoryStore(),
				StrictLabels: true,
				Units:        []longjob.Unit{longjob.Label("a"), longjob.Label("a")},
			},
			expErr: longjob.ErrNotValid,
		},
		"A valid config should not fail.": {
			config: longjob.Config[int]{ID: "j", Store: longjob.NewMemoryStore()},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := longjob.New(test.config)
			if test.expErr != nil {
				assert.ErrorIs(t, err, test.expErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

type counter struct {
	Value int `json:"value" yaml:"value"`
}

func incrementUnits() []longjob.Unit {
	return []longjob.Unit{
		longjob.Task[counter](func(_ context.Context, c counter) (longjob.Action[counter], error) {
			c.Value += 10
			return longjob.Next(c), nil
		}),
		longjob.Task[counter](func(_ context.Context, c counter) (longjob.Action[counter], error) {
			c.Value *= 2
			return longjob.Next(c), nil
		}),
	}
}

func TestStores(t *testing.T) {
	tests := map[string]struct {
		store func(t *testing.T) longjob.Store
		codec longjob.Codec[counter]
	}{
		"Memory store.": {
			store: func(t *testing.T) longjob.Store { return longjob.NewMemoryStore() },
		},
		"SQLite store.": {
			store: func(t *testing.T) longjob.Store {
				s, err := longjob.NewSQLiteStore(context.TODO(), longjob.SQLiteStoreConfig{DBPath: filepath.Join(t.TempDir(), "jobs.db")})
				require.NoError(t, err)
				t.Cleanup(func() { _ = s.Close() })
				return s
			},
		},
		"File store with YAML codec.": {
			store: func(t *testing.T) longjob.Store {
				s, err := longjob.NewFileStore(longjob.FileStoreConfig{Dir: t.TempDir()})
				require.NoError(t, err)
				return s
			},
			codec: longjob.YAMLCodec[counter]{},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			store := test.store(t)
			codec := test.codec
			if codec == nil {
				codec = longjob.JSONCodec[counter]{}
			}

			// Resume from the second task.
			state, err := codec.Encode(counter{Value: 15})
			require.NoError(err)
			require.NoError(store.SetCheckpoint(context.TODO(), longjob.Checkpoint{JobID: "store-job", Cursor: 1, State: state}))

			j, err := longjob.New(longjob.Config[counter]{
				ID:    "store-job",
				Store: store,
				Codec: test.codec,
				Units: incrementUnits(),
			})
			require.NoError(err)

			got, err := j.Start(context.TODO(), counter{Value: 1000})
			require.NoError(err)
			assert.Equal(counter{Value: 30}, got)
			assert.Equal(longjob.StatusCompleted, j.Status())

			has, err := store.HasCheckpoint(context.TODO(), "store-job")
			require.NoError(err)
			assert.False(has)
		})
	}
}

func TestPrometheusRecorder(t *testing.T) {
	require := require.New(t)

	reg := prometheus.NewRegistry()
	rec, err := longjob.NewPrometheusRecorder(reg)
	require.NoError(err)

	j, err := longjob.New(longjob.Config[counter]{
		ID:              "metrics-job",
		Store:           longjob.NewMemoryStore(),
		MetricsRecorder: rec,
		Units:           incrementUnits(),
	})
	require.NoError(err)

	_, err = j.Start(context.TODO(), counter{})
	require.NoError(err)

	mfs, err := reg.Gather()
	require.NoError(err)
	assert.NotEmpty(t, mfs)

	_, err = longjob.NewPrometheusRecorder(reg)
	assert.Error(t, err)
}

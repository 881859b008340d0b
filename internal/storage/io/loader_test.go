package io

import (
	"context"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pyldin601/long-long-job/internal/model"
)

func TestRunConfigYAMLRepository_GetRunConfig(t *testing.T) {
	tests := map[string]struct {
		fs     fstest.MapFS
		path   string
		expCfg model.RunConfig
		expErr bool
		errMsg string
	}{
		"Valid run config should load successfully": {
			fs: fstest.MapFS{
				"run.yaml": &fstest.MapFile{
					Data: []byte(`id: increment-job
job: increment
threshold: 1000
step_delay: 250ms
timeout: 1m
`),
				},
			},
			path: "run.yaml",
			expCfg: model.RunConfig{
				ID:        "increment-job",
				Job:       "increment",
				Threshold: 1000,
				StepDelay: 250 * time.Millisecond,
				Timeout:   time.Minute,
			},
		},
		"Run config without durations should load successfully": {
			fs: fstest.MapFS{
				"run.yaml": &fstest.MapFile{
					Data: []byte(`id: osc
job: oscillator
`),
				},
			},
			path:   "run.yaml",
			expCfg: model.RunConfig{ID: "osc", Job: "oscillator"},
		},
		"Missing file should return error": {
			fs:     fstest.MapFS{},
			path:   "nonexistent.yaml",
			expErr: true,
			errMsg: "reading run config file",
		},
		"Invalid YAML should return error": {
			fs: fstest.MapFS{
				"invalid.yaml": &fstest.MapFile{
					Data: []byte(`invalid: yaml: content: {}`),
				},
			},
			path:   "invalid.yaml",
			expErr: true,
			errMsg: "parsing YAML",
		},
		"Invalid duration should return error": {
			fs: fstest.MapFS{
				"run.yaml": &fstest.MapFile{
					Data: []byte(`id: j
job: increment
step_delay: soon
`),
				},
			},
			path:   "run.yaml",
			expErr: true,
			errMsg: "step_delay",
		},
		"Missing job should return error": {
			fs: fstest.MapFS{
				"run.yaml": &fstest.MapFile{
					Data: []byte(`id: j
`),
				},
			},
			path:   "run.yaml",
			expErr: true,
			errMsg: "job is required",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			repo := NewRunConfigYAMLRepository(tc.fs)
			cfg, err := repo.GetRunConfig(context.Background(), tc.path)

			if tc.expErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.errMsg)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expCfg, cfg)
		})
	}
}

func TestRunConfigYAMLRepository_GetRunConfig_ContextCancellation(t *testing.T) {
	fs := fstest.MapFS{
		"test.yaml": &fstest.MapFile{
			Data: []byte(`id: j
job: increment
`),
		},
	}

	repo := NewRunConfigYAMLRepository(fs)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.GetRunConfig(ctx, "test.yaml")
	require.Error(t, err)
	assert.Equal(t, context.Canceled, err)
}

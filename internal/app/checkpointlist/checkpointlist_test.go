package checkpointlist_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pyldin601/long-long-job/internal/app/checkpointlist"
	"github.com/pyldin601/long-long-job/internal/log"
	"github.com/pyldin601/long-long-job/internal/model"
	"github.com/pyldin601/long-long-job/internal/storage/storagemock"
)

func TestNewService(t *testing.T) {
	tests := map[string]struct {
		config checkpointlist.ServiceConfig
		expErr bool
	}{
		"valid config should create service": {
			config: checkpointlist.ServiceConfig{
				Repository: &storagemock.MockCheckpointRepository{},
				Logger:     log.Noop,
			},
		},
		"missing repository should fail": {
			config: checkpointlist.ServiceConfig{Logger: log.Noop},
			expErr: true,
		},
		"nil logger should default to noop": {
			config: checkpointlist.ServiceConfig{Repository: &storagemock.MockCheckpointRepository{}},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			require := require.New(t)

			svc, err := checkpointlist.NewService(test.config)

			if test.expErr {
				require.Error(err)
				require.Nil(svc)
			} else {
				require.NoError(err)
				require.NotNil(svc)
			}
		})
	}
}

func TestService_Run(t *testing.T) {
	updatedAt := time.Date(2026, 1, 30, 10, 0, 0, 0, time.UTC)

	tests := map[string]struct {
		mock   func(m *storagemock.MockCheckpointRepository)
		expCPs []model.Checkpoint
		expErr bool
	}{
		"list multiple checkpoints": {
			mock: func(m *storagemock.MockCheckpointRepository) {
				m.On("ListCheckpoints", mock.Anything).Once().Return([]model.Checkpoint{
					{JobID: "job-a", Cursor: 1, State: []byte(`1`), UpdatedAt: updatedAt},
					{JobID: "job-b", Cursor: 3, State: []byte(`{"value":2}`), UpdatedAt: updatedAt},
				}, nil)
			},
			expCPs: []model.Checkpoint{
				{JobID: "job-a", Cursor: 1, State: []byte(`1`), UpdatedAt: updatedAt},
				{JobID: "job-b", Cursor: 3, State: []byte(`{"value":2}`), UpdatedAt: updatedAt},
			},
		},
		"empty list": {
			mock: func(m *storagemock.MockCheckpointRepository) {
				m.On("ListCheckpoints", mock.Anything).Once().Return([]model.Checkpoint{}, nil)
			},
			expCPs: []model.Checkpoint{},
		},
		"repository error should propagate": {
			mock: func(m *storagemock.MockCheckpointRepository) {
				m.On("ListCheckpoints", mock.Anything).Once().Return(nil, fmt.Errorf("db error"))
			},
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			m := storagemock.NewMockCheckpointRepository(t)
			test.mock(m)

			svc, err := checkpointlist.NewService(checkpointlist.ServiceConfig{Repository: m})
			require.NoError(err)

			got, err := svc.Run(context.Background(), checkpointlist.Request{})

			if test.expErr {
				assert.Error(err)
			} else if assert.NoError(err) {
				assert.Equal(test.expCPs, got)
			}
		})
	}
}

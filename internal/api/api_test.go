package api_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pyldin601/long-long-job/internal/api"
	"github.com/pyldin601/long-long-job/internal/model"
	"github.com/pyldin601/long-long-job/internal/storage/memory"
)

func newTestServer(t *testing.T, cps ...model.Checkpoint) (*httptest.Server, *memory.Repository) {
	t.Helper()

	updatedAt := time.Date(2026, 1, 30, 10, 0, 0, 0, time.UTC)
	repo, err := memory.NewRepository(memory.RepositoryConfig{TimeNowFunc: func() time.Time { return updatedAt }})
	require.NoError(t, err)
	for _, cp := range cps {
		require.NoError(t, repo.SetCheckpoint(context.TODO(), cp))
	}

	reg := prometheus.NewRegistry()
	h, err := api.NewHandler(api.HandlerConfig{
		Repository: repo,
		Registerer: reg,
		Gatherer:   reg,
	})
	require.NoError(t, err)

	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)

	return ts, repo
}

func TestNewHandler(t *testing.T) {
	_, err := api.NewHandler(api.HandlerConfig{})
	assert.Error(t, err)
}

func TestCheckpointEndpoints(t *testing.T) {
	fixtures := []model.Checkpoint{
		{JobID: "job-a", Cursor: 1, State: []byte(`{"value":15}`)},
		{JobID: "team/job-b", Cursor: 0, State: []byte(`42`)},
	}

	tests := map[string]struct {
		method    string
		path      string
		expStatus int
		expBody   string
		expCPs    int
	}{
		"listing checkpoints should return all of them": {
			method:    http.MethodGet,
			path:      "/v1/checkpoints",
			expStatus: http.StatusOK,
			expBody: `[
				{"job_id": "job-a", "cursor": 1, "state": {"value": 15}, "updated_at": "2026-01-30T10:00:00Z"},
				{"job_id": "team/job-b", "cursor": 0, "state": 42, "updated_at": "2026-01-30T10:00:00Z"}
			]`,
			expCPs: 2,
		},
		"getting a checkpoint should return it": {
			method:    http.MethodGet,
			path:      "/v1/checkpoints/job-a",
			expStatus: http.StatusOK,
			expBody:   `{"job_id": "job-a", "cursor": 1, "state": {"value": 15}, "updated_at": "2026-01-30T10:00:00Z"}`,
			expCPs:    2,
		},
		"getting a checkpoint with an escaped job id should return it": {
			method:    http.MethodGet,
			path:      "/v1/checkpoints/team%2Fjob-b",
			expStatus: http.StatusOK,
			expBody:   `{"job_id": "team/job-b", "cursor": 0, "state": 42, "updated_at": "2026-01-30T10:00:00Z"}`,
			expCPs:    2,
		},
		"getting a missing checkpoint should return not found": {
			method:    http.MethodGet,
			path:      "/v1/checkpoints/missing",
			expStatus: http.StatusNotFound,
			expCPs:    2,
		},
		"deleting a checkpoint should remove it": {
			method:    http.MethodDelete,
			path:      "/v1/checkpoints/job-a",
			expStatus: http.StatusNoContent,
			expCPs:    1,
		},
		"deleting a missing checkpoint should return not found": {
			method:    http.MethodDelete,
			path:      "/v1/checkpoints/missing",
			expStatus: http.StatusNotFound,
			expCPs:    2,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			ts, repo := newTestServer(t, fixtures...)

			req, err := http.NewRequest(test.method, ts.URL+test.path, nil)
			require.NoError(err)
			resp, err := http.DefaultClient.Do(req)
			require.NoError(err)
			defer resp.Body.Close()

			assert.Equal(test.expStatus, resp.StatusCode)
			if test.expBody != "" {
				body, err := io.ReadAll(resp.Body)
				require.NoError(err)
				assert.JSONEq(test.expBody, string(body))
			}

			cps, err := repo.ListCheckpoints(context.TODO())
			require.NoError(err)
			assert.Len(cps, test.expCPs)
		})
	}
}

func TestHealthzEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
}

func TestMetricsEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/v1/checkpoints/missing")
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `longjob_http_requests_total{method="GET",path="/v1/checkpoints/{jobID}",status="404"} 1`)
	assert.Contains(t, string(body), "longjob_http_request_duration_seconds")
}

package prometheus_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pyldin601/long-long-job/internal/metrics"
	metricsprometheus "github.com/pyldin601/long-long-job/internal/metrics/prometheus"
)

func TestRecorder(t *testing.T) {
	tests := map[string]struct {
		record     func(r metrics.Recorder)
		expMetrics string
		metricName string
	}{
		"Job runs should be counted by outcome.": {
			record: func(r metrics.Recorder) {
				ctx := context.Background()
				r.IncJobRun(ctx, "job-1", metrics.OutcomeCompleted, false)
				r.IncJobRun(ctx, "job-1", metrics.OutcomeCompleted, false)
				r.IncJobRun(ctx, "job-1", metrics.OutcomeTerminated, true)
			},
			metricName: "longjob_job_runs_total",
			expMetrics: `
# HELP longjob_job_runs_total The total number of finished job runs by outcome.
# TYPE longjob_job_runs_total counter
longjob_job_runs_total{job="job-1",outcome="completed",resumed="false"} 2
longjob_job_runs_total{job="job-1",outcome="terminated",resumed="true"} 1
`,
		},

		"Checkpoint writes should be measured.": {
			record: func(r metrics.Recorder) {
				r.ObserveCheckpointWrite(context.Background(), "job-1", true, 30*time.Millisecond)
			},
			metricName: "longjob_checkpoint_write_duration_seconds",
			expMetrics: `
# HELP longjob_checkpoint_write_duration_seconds The duration of checkpoint writes to the persistence backend.
# TYPE longjob_checkpoint_write_duration_seconds histogram
longjob_checkpoint_write_duration_seconds_bucket{job="job-1",success="true",le="0.01"} 0
longjob_checkpoint_write_duration_seconds_bucket{job="job-1",success="true",le="0.1"} 1
longjob_checkpoint_write_duration_seconds_bucket{job="job-1",success="true",le="+Inf"} 1
longjob_checkpoint_write_duration_seconds_sum{job="job-1",success="true"} 0.03
longjob_checkpoint_write_duration_seconds_count{job="job-1",success="true"} 1
`,
		},

		"Task executions should be measured by action.": {
			record: func(r metrics.Recorder) {
				r.ObserveTaskExecution(context.Background(), "job-1", "repeat", true, 2*time.Second)
			},
			metricName: "longjob_task_execution_duration_seconds",
			expMetrics: `
# HELP longjob_task_execution_duration_seconds The duration of job task executions.
# TYPE longjob_task_execution_duration_seconds histogram
longjob_task_execution_duration_seconds_bucket{action="repeat",job="job-1",success="true",le="0.01"} 0
longjob_task_execution_duration_seconds_bucket{action="repeat",job="job-1",success="true",le="0.1"} 0
longjob_task_execution_duration_seconds_bucket{action="repeat",job="job-1",success="true",le="+Inf"} 1
longjob_task_execution_duration_seconds_sum{action="repeat",job="job-1",success="true"} 2
longjob_task_execution_duration_seconds_count{action="repeat",job="job-1",success="true"} 1
`,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			reg := prometheus.NewRegistry()
			rec, err := metricsprometheus.NewRecorder(metricsprometheus.RecorderConfig{
				Registerer:      reg,
				DurationBuckets: []float64{0.01, 0.1},
			})
			require.NoError(t, err)

			test.record(rec)

			err = testutil.GatherAndCompare(reg, strings.NewReader(test.expMetrics), test.metricName)
			assert.NoError(t, err)
		})
	}
}

func TestRecorderDoubleRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := metricsprometheus.NewRecorder(metricsprometheus.RecorderConfig{Registerer: reg})
	require.NoError(t, err)

	_, err = metricsprometheus.NewRecorder(metricsprometheus.RecorderConfig{Registerer: reg})
	assert.Error(t, err)
}

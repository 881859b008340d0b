package prometheus

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/pyldin601/long-long-job/internal/metrics"
)

const namespace = "longjob"

// RecorderConfig is the configuration for the Prometheus recorder.
type RecorderConfig struct {
	// Registerer where the metrics are registered, defaults to the Prometheus default registerer.
	Registerer prometheus.Registerer
	// DurationBuckets for the task and checkpoint histograms, defaults to Prometheus default buckets.
	DurationBuckets []float64
}

func (c *RecorderConfig) defaults() error {
	if c.Registerer == nil {
		c.Registerer = prometheus.DefaultRegisterer
	}

	if len(c.DurationBuckets) == 0 {
		c.DurationBuckets = prometheus.DefBuckets
	}

	return nil
}

// Recorder is a Prometheus implementation of metrics.Recorder.
type Recorder struct {
	taskDuration       *prometheus.HistogramVec
	checkpointDuration *prometheus.HistogramVec
	jobRuns            *prometheus.CounterVec
}

var _ metrics.Recorder = &Recorder{}

// NewRecorder creates and registers the job engine metrics.
func NewRecorder(cfg RecorderConfig) (*Recorder, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	r := &Recorder{
		taskDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "task",
			Name:      "execution_duration_seconds",
			Help:      "The duration of job task executions.",
			Buckets:   cfg.DurationBuckets,
		}, []string{"job", "action", "success"}),

		checkpointDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "checkpoint",
			Name:      "write_duration_seconds",
			Help:      "The duration of checkpoint writes to the persistence backend.",
			Buckets:   cfg.DurationBuckets,
		}, []string{"job", "success"}),

		jobRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "job",
			Name:      "runs_total",
			Help:      "The total number of finished job runs by outcome.",
		}, []string{"job", "outcome", "resumed"}),
	}

	for _, c := range []prometheus.Collector{r.taskDuration, r.checkpointDuration, r.jobRuns} {
		if err := cfg.Registerer.Register(c); err != nil {
			return nil, fmt.Errorf("could not register metric: %w", err)
		}
	}

	return r, nil
}

func (r *Recorder) ObserveTaskExecution(_ context.Context, jobID, action string, success bool, duration time.Duration) {
	r.taskDuration.WithLabelValues(jobID, action, strconv.FormatBool(success)).Observe(duration.Seconds())
}

func (r *Recorder) ObserveCheckpointWrite(_ context.Context, jobID string, success bool, duration time.Duration) {
	r.checkpointDuration.WithLabelValues(jobID, strconv.FormatBool(success)).Observe(duration.Seconds())
}

func (r *Recorder) IncJobRun(_ context.Context, jobID, outcome string, resumed bool) {
	r.jobRuns.WithLabelValues(jobID, outcome, strconv.FormatBool(resumed)).Inc()
}

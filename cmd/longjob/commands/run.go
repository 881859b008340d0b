package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/oklog/run"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pyldin601/long-long-job/internal/demo"
	metricsprometheus "github.com/pyldin601/long-long-job/internal/metrics/prometheus"
	"github.com/pyldin601/long-long-job/internal/model"
	storageio "github.com/pyldin601/long-long-job/internal/storage/io"
)

const metricsShutdownTimeout = 5 * time.Second

// RunCommand runs a demo job, resuming it if a checkpoint exists.
type RunCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	configPath    string
	id            string
	job           string
	threshold     int
	stepDelay     time.Duration
	timeout       time.Duration
	metricsListen string
	format        string
}

// NewRunCommand returns the run command.
func NewRunCommand(rootCmd *RootCommand, app *kingpin.Application) *RunCommand {
	c := &RunCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("run", "Run a demo job, a stopped job resumes from its last checkpoint.")
	c.Cmd.Flag("config", "YAML run file, when set the other job flags are ignored.").Short('c').StringVar(&c.configPath)
	c.Cmd.Flag("job", "Job definition to run.").Default(demo.JobIncrement).EnumVar(&c.job, demo.Jobs()...)
	c.Cmd.Flag("id", "Job ID used as checkpoint key, defaults to the job name.").StringVar(&c.id)
	c.Cmd.Flag("threshold", "Value the job counts up to.").Default("1000").IntVar(&c.threshold)
	c.Cmd.Flag("step-delay", "Wait inside every task.").Default("0s").DurationVar(&c.stepDelay)
	c.Cmd.Flag("timeout", "Terminate the job after this duration, 0 disables it.").Default("0s").DurationVar(&c.timeout)
	c.Cmd.Flag("metrics-listen-address", "Serve Prometheus metrics on this address while the job runs.").StringVar(&c.metricsListen)
	addFormatFlag(c.Cmd, &c.format)

	return c
}

func (c RunCommand) Name() string { return c.Cmd.FullCommand() }

func (c RunCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	runCfg, err := c.runConfig(ctx)
	if err != nil {
		return err
	}

	repo, closeRepo, err := c.rootCmd.newRepository(ctx)
	if err != nil {
		return err
	}
	defer closeRepo()

	reg := prometheus.NewRegistry()
	recorder, err := metricsprometheus.NewRecorder(metricsprometheus.RecorderConfig{Registerer: reg})
	if err != nil {
		return fmt.Errorf("could not create metrics recorder: %w", err)
	}

	runner, err := demo.NewRunner(demo.RunnerConfig{
		Run:             runCfg,
		Repository:      repo,
		MetricsRecorder: recorder,
		Logger:          logger,
	})
	if err != nil {
		return fmt.Errorf("could not create job runner: %w", err)
	}

	var (
		g      run.Group
		res    demo.Result
		jobErr error
	)

	start := time.Now()

	// Job. Cancelling its context also stops a run that has not reached its
	// first task yet, Terminate alone would be reset when the run begins.
	{
		jobCtx, jobCancel := context.WithCancel(ctx)
		defer jobCancel()

		g.Add(
			func() error {
				res, jobErr = runner.Run(jobCtx)
				return jobErr
			},
			func(_ error) {
				runner.Terminate()
				jobCancel()
			},
		)
	}

	// Timeout.
	if runCfg.Timeout > 0 {
		timeoutCtx, timeoutCancel := context.WithCancel(ctx)
		g.Add(
			func() error {
				t := time.NewTimer(runCfg.Timeout)
				defer t.Stop()

				select {
				case <-t.C:
					logger.Warningf("Timeout of %s reached, terminating job", runCfg.Timeout)
				case <-timeoutCtx.Done():
				}
				return nil
			},
			func(_ error) {
				timeoutCancel()
			},
		)
	}

	// Metrics.
	if c.metricsListen != "" {
		server := &http.Server{
			Addr:              c.metricsListen,
			Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
			ReadHeaderTimeout: 10 * time.Second,
		}
		g.Add(
			func() error {
				logger.Infof("Serving metrics on %s", c.metricsListen)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("metrics server failed: %w", err)
				}
				return nil
			},
			func(_ error) {
				ctx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
				defer cancel()
				_ = server.Shutdown(ctx)
			},
		)
	}

	groupErr := g.Run()

	p := newPrinter(c.format, c.rootCmd.Stdout)
	switch {
	case jobErr == nil:
		return p.PrintRunResult(model.RunResult{
			ID:       runCfg.ID,
			Job:      runCfg.Job,
			Value:    res.Value,
			Steps:    res.Steps,
			Duration: time.Since(start),
		})

	case errors.Is(jobErr, model.ErrTerminated):
		if groupErr != nil && !errors.Is(groupErr, model.ErrTerminated) {
			return groupErr
		}
		return p.PrintMessage(fmt.Sprintf("Job %s terminated after %d steps, run it again to resume", runCfg.ID, res.Steps))
	}

	return fmt.Errorf("job %s failed: %w", runCfg.ID, jobErr)
}

func (c RunCommand) runConfig(ctx context.Context) (model.RunConfig, error) {
	if c.configPath != "" {
		loader := storageio.NewRunConfigYAMLRepository(os.DirFS(filepath.Dir(c.configPath)))
		cfg, err := loader.GetRunConfig(ctx, filepath.Base(c.configPath))
		if err != nil {
			return model.RunConfig{}, fmt.Errorf("could not load run config: %w", err)
		}
		return cfg, nil
	}

	id := c.id
	if id == "" {
		id = c.job
	}

	return model.RunConfig{
		ID:        id,
		Job:       c.job,
		Threshold: c.threshold,
		StepDelay: c.stepDelay,
		Timeout:   c.timeout,
	}, nil
}

package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/pyldin601/long-long-job/internal/app/checkpointlist"
	"github.com/pyldin601/long-long-job/internal/app/checkpointremove"
	"github.com/pyldin601/long-long-job/internal/app/checkpointshow"
)

// NewCheckpointCommand returns the parent command of the checkpoint subcommands.
func NewCheckpointCommand(app *kingpin.Application) *kingpin.CmdClause {
	return app.Command("checkpoint", "Manage the checkpoints of unfinished jobs.")
}

// CheckpointListCommand lists checkpoints.
type CheckpointListCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	format string
}

// NewCheckpointListCommand returns the checkpoint list command.
func NewCheckpointListCommand(rootCmd *RootCommand, checkpointCmd *kingpin.CmdClause) *CheckpointListCommand {
	c := &CheckpointListCommand{rootCmd: rootCmd}

	c.Cmd = checkpointCmd.Command("list", "List the checkpoints of unfinished jobs.")
	addFormatFlag(c.Cmd, &c.format)

	return c
}

func (c CheckpointListCommand) Name() string { return c.Cmd.FullCommand() }

func (c CheckpointListCommand) Run(ctx context.Context) error {
	repo, closeRepo, err := c.rootCmd.newRepository(ctx)
	if err != nil {
		return err
	}
	defer closeRepo()

	svc, err := checkpointlist.NewService(checkpointlist.ServiceConfig{
		Repository: repo,
		Logger:     c.rootCmd.Logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	cps, err := svc.Run(ctx, checkpointlist.Request{})
	if err != nil {
		return err
	}

	if err := newPrinter(c.format, c.rootCmd.Stdout).PrintCheckpointList(cps); err != nil {
		return fmt.Errorf("could not print checkpoints: %w", err)
	}

	return nil
}

// CheckpointShowCommand shows a job checkpoint.
type CheckpointShowCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	jobID  string
	format string
}

// NewCheckpointShowCommand returns the checkpoint show command.
func NewCheckpointShowCommand(rootCmd *RootCommand, checkpointCmd *kingpin.CmdClause) *CheckpointShowCommand {
	c := &CheckpointShowCommand{rootCmd: rootCmd}

	c.Cmd = checkpointCmd.Command("show", "Show the checkpoint of a job.")
	c.Cmd.Arg("job-id", "Job ID.").Required().StringVar(&c.jobID)
	addFormatFlag(c.Cmd, &c.format)

	return c
}

func (c CheckpointShowCommand) Name() string { return c.Cmd.FullCommand() }

func (c CheckpointShowCommand) Run(ctx context.Context) error {
	repo, closeRepo, err := c.rootCmd.newRepository(ctx)
	if err != nil {
		return err
	}
	defer closeRepo()

	svc, err := checkpointshow.NewService(checkpointshow.ServiceConfig{
		Repository: repo,
		Logger:     c.rootCmd.Logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	cp, err := svc.Run(ctx, checkpointshow.Request{JobID: c.jobID})
	if err != nil {
		return err
	}

	if err := newPrinter(c.format, c.rootCmd.Stdout).PrintCheckpoint(*cp); err != nil {
		return fmt.Errorf("could not print checkpoint: %w", err)
	}

	return nil
}

// CheckpointRmCommand removes a job checkpoint.
type CheckpointRmCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	jobID string
	force bool
}

// NewCheckpointRmCommand returns the checkpoint rm command.
func NewCheckpointRmCommand(rootCmd *RootCommand, checkpointCmd *kingpin.CmdClause) *CheckpointRmCommand {
	c := &CheckpointRmCommand{rootCmd: rootCmd}

	c.Cmd = checkpointCmd.Command("rm", "Remove the checkpoint of a job, its next run starts from scratch.")
	c.Cmd.Arg("job-id", "Job ID.").Required().StringVar(&c.jobID)
	c.Cmd.Flag("force", "Don't fail if the job has no checkpoint.").Short('f').BoolVar(&c.force)

	return c
}

func (c CheckpointRmCommand) Name() string { return c.Cmd.FullCommand() }

func (c CheckpointRmCommand) Run(ctx context.Context) error {
	repo, closeRepo, err := c.rootCmd.newRepository(ctx)
	if err != nil {
		return err
	}
	defer closeRepo()

	svc, err := checkpointremove.NewService(checkpointremove.ServiceConfig{
		Repository: repo,
		Logger:     c.rootCmd.Logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	cp, err := svc.Run(ctx, checkpointremove.Request{JobID: c.jobID, Force: c.force})
	if err != nil {
		return err
	}

	msg := fmt.Sprintf("Job %s has no checkpoint", c.jobID)
	if cp != nil {
		msg = fmt.Sprintf("Removed checkpoint of job %s at task %d", cp.JobID, cp.Cursor)
	}

	return newPrinter(formatTable, c.rootCmd.Stdout).PrintMessage(msg)
}

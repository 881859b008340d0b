package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"github.com/oklog/run"
	"github.com/sirupsen/logrus"

	"github.com/pyldin601/long-long-job/cmd/longjob/commands"
	"github.com/pyldin601/long-long-job/internal/log"
	loglogrus "github.com/pyldin601/long-long-job/internal/log/logrus"
)

// Version is overridden at build time.
var Version = "dev"

// quietCommands write machine readable output, logs stay off unless --debug is set.
var quietCommands = map[string]bool{
	"checkpoint list": true,
	"checkpoint show": true,
}

// Run parses args and executes the selected longjob command until it ends or
// the process receives SIGINT/SIGTERM.
func Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	app := kingpin.New("longjob", "Resumable long running task chains.")
	app.DefaultEnvars()
	rootCmd := commands.NewRootCommand(app)

	checkpointCmd := commands.NewCheckpointCommand(app)
	cmds := map[string]commands.Command{}
	for _, cmd := range []commands.Command{
		commands.NewRunCommand(rootCmd, app),
		commands.NewServeCommand(rootCmd, app),
		commands.NewCheckpointListCommand(rootCmd, checkpointCmd),
		commands.NewCheckpointShowCommand(rootCmd, checkpointCmd),
		commands.NewCheckpointRmCommand(rootCmd, checkpointCmd),
	} {
		cmds[cmd.Name()] = cmd
	}

	cmdName, err := app.Parse(args[1:])
	if err != nil {
		return fmt.Errorf("invalid command configuration: %w", err)
	}

	rootCmd.Stdin = stdin
	rootCmd.Stdout = stdout
	rootCmd.Stderr = stderr
	if quietCommands[cmdName] && !rootCmd.Debug {
		rootCmd.NoLog = true
	}
	rootCmd.Logger = newLogger(*rootCmd)

	var g run.Group

	// Signals end the group, the command sees it as a cancelled context.
	{
		sigCtx, sigStop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
		defer sigStop()

		g.Add(
			func() error {
				<-sigCtx.Done()
				rootCmd.Logger.Debugf("Stop signal received")
				return nil
			},
			func(_ error) { sigStop() },
		)
	}

	{
		cmdCtx, cmdCancel := context.WithCancel(ctx)
		defer cmdCancel()

		g.Add(
			func() error {
				if err := cmds[cmdName].Run(cmdCtx); err != nil {
					return fmt.Errorf("%q command failed: %w", cmdName, err)
				}
				return nil
			},
			func(_ error) { cmdCancel() },
		)
	}

	return g.Run()
}

func newLogger(cfg commands.RootCommand) log.Logger {
	if cfg.NoLog {
		return log.Noop
	}

	l := logrus.New()
	l.Out = cfg.Stderr
	if cfg.Debug {
		l.SetLevel(logrus.DebugLevel)
	}

	switch cfg.LoggerType {
	case commands.LoggerTypeJSON:
		l.SetFormatter(&logrus.JSONFormatter{})
	default:
		l.SetFormatter(&logrus.TextFormatter{
			ForceColors:   !cfg.NoColor,
			DisableColors: cfg.NoColor,
		})
	}

	logger := loglogrus.NewLogrus(logrus.NewEntry(l)).WithValues(log.Kv{"version": Version})
	logger.Debugf("Debug logging enabled")

	return logger
}

func main() {
	if err := Run(context.Background(), os.Args, os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

package commands

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/alecthomas/kingpin/v2"
	"k8s.io/client-go/util/homedir"

	"github.com/pyldin601/long-long-job/internal/conventions"
	"github.com/pyldin601/long-long-job/internal/log"
	"github.com/pyldin601/long-long-job/internal/printer"
	"github.com/pyldin601/long-long-job/internal/storage"
	"github.com/pyldin601/long-long-job/internal/storage/file"
	"github.com/pyldin601/long-long-job/internal/storage/memory"
	"github.com/pyldin601/long-long-job/internal/storage/sqlite"
)

const (
	// LoggerTypeDefault is the logger default type.
	LoggerTypeDefault = "default"
	// LoggerTypeJSON is the logger json type.
	LoggerTypeJSON = "json"

	// StoreTypeSQLite stores checkpoints in a SQLite database.
	StoreTypeSQLite = "sqlite"
	// StoreTypeFile stores checkpoints as one file per job.
	StoreTypeFile = "file"
	// StoreTypeMemory keeps checkpoints in memory, they are lost when the command ends.
	StoreTypeMemory = "memory"

	formatTable = "table"
	formatJSON  = "json"
)

// Command represents an application command, all commands that want to be executed
// should implement and setup on main.
type Command interface {
	Name() string
	Run(ctx context.Context) error
}

// RootCommand represents the root command configuration and global configuration
// for all the commands.
type RootCommand struct {
	// Global flags.
	Debug      bool
	NoLog      bool
	NoColor    bool
	LoggerType string
	DataDir    string
	StoreType  string
	DBPath     string

	// Global instances.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger log.Logger
}

// NewRootCommand initializes the main root configuration.
func NewRootCommand(app *kingpin.Application) *RootCommand {
	c := &RootCommand{}

	app.Flag("debug", "Enable debug mode.").BoolVar(&c.Debug)
	app.Flag("no-log", "Disable logger.").Envar("LONGJOB_NO_LOG").BoolVar(&c.NoLog)
	app.Flag("no-color", "Disable logger color.").BoolVar(&c.NoColor)
	app.Flag("logger", "Selects the logger type.").Default(LoggerTypeDefault).EnumVar(&c.LoggerType, LoggerTypeDefault, LoggerTypeJSON)

	defaultDataDir := filepath.Join(homedir.HomeDir(), conventions.DefaultDataDir)
	app.Flag("data-dir", "Directory where checkpoints are stored.").Envar("LONGJOB_DATA_DIR").Default(defaultDataDir).StringVar(&c.DataDir)
	app.Flag("store", "Checkpoint store type.").Envar("LONGJOB_STORE").Default(StoreTypeSQLite).EnumVar(&c.StoreType, StoreTypeSQLite, StoreTypeFile, StoreTypeMemory)
	app.Flag("db-path", "Path to the SQLite database file, defaults to a file inside the data dir.").Envar("LONGJOB_DB_PATH").StringVar(&c.DBPath)

	return c
}

// newRepository returns the checkpoint store selected by the global flags and
// its close function.
func (c RootCommand) newRepository(ctx context.Context) (storage.CheckpointRepository, func() error, error) {
	noClose := func() error { return nil }

	switch c.StoreType {
	case StoreTypeFile:
		repo, err := file.NewRepository(file.RepositoryConfig{
			Dir:    conventions.CheckpointsPath(c.DataDir),
			Logger: c.Logger,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("could not create file repository: %w", err)
		}
		return repo, noClose, nil

	case StoreTypeMemory:
		repo, err := memory.NewRepository(memory.RepositoryConfig{Logger: c.Logger})
		if err != nil {
			return nil, nil, fmt.Errorf("could not create memory repository: %w", err)
		}
		return repo, noClose, nil
	}

	dbPath := c.DBPath
	if dbPath == "" {
		dbPath = conventions.DBPath(c.DataDir)
	}

	repo, err := sqlite.NewRepository(ctx, sqlite.RepositoryConfig{
		DBPath: dbPath,
		Logger: c.Logger,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("could not create sqlite repository: %w", err)
	}

	return repo, repo.Close, nil
}

func newPrinter(format string, w io.Writer) printer.Printer {
	if format == formatJSON {
		return printer.NewJSONPrinter(w)
	}
	return printer.NewTablePrinter(w)
}

func addFormatFlag(cmd *kingpin.CmdClause, format *string) {
	cmd.Flag("format", "Output format (table, json).").Default(formatTable).EnumVar(format, formatTable, formatJSON)
}

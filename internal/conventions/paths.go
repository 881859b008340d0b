package conventions

import "path/filepath"

const (
	// DefaultDataDir is the default data directory name (relative to home).
	DefaultDataDir = ".longjob"
	// DBFile is the SQLite checkpoint database filename.
	DBFile = "longjob.db"
	// CheckpointsDir is the subdirectory of the file checkpoint store.
	CheckpointsDir = "checkpoints"

	// DefaultListenAddress is the default address of the HTTP API.
	DefaultListenAddress = ":8081"
)

// DBPath returns the SQLite checkpoint database path inside a data directory.
func DBPath(dataDir string) string {
	return filepath.Join(dataDir, DBFile)
}

// CheckpointsPath returns the file checkpoint store directory inside a data directory.
func CheckpointsPath(dataDir string) string {
	return filepath.Join(dataDir, CheckpointsDir)
}

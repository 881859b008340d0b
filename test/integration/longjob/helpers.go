package longjob

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/pyldin601/long-long-job/test/integration/testutils"
)

// Config holds integration test configuration loaded from environment variables.
type Config struct {
	Binary string
}

func (c *Config) defaults() error {
	if c.Binary == "" {
		return fmt.Errorf("longjob binary path is required (LONGJOB_INTEGRATION_BINARY)")
	}

	// go test changes the CWD to the test package directory.
	if !filepath.IsAbs(c.Binary) {
		return fmt.Errorf("LONGJOB_INTEGRATION_BINARY must be an absolute path, got %q", c.Binary)
	}
	if _, err := os.Stat(c.Binary); err != nil {
		return fmt.Errorf("longjob binary not found at %q: %w", c.Binary, err)
	}

	return nil
}

// NewConfig loads integration test configuration from environment variables.
// If the config is invalid or the activation env var is not set, the test is skipped.
func NewConfig(t *testing.T) Config {
	t.Helper()

	const (
		envActivation = "LONGJOB_INTEGRATION"
		envBinary     = "LONGJOB_INTEGRATION_BINARY"
	)

	if os.Getenv(envActivation) != "true" {
		t.Skipf("Skipping integration test: %s is not set to 'true'", envActivation)
	}

	c := Config{Binary: os.Getenv(envBinary)}
	if err := c.defaults(); err != nil {
		t.Skipf("Skipping due to invalid config: %s", err)
	}

	return c
}

// RunCmd runs a longjob command on a specific data dir without logs.
func RunCmd(ctx context.Context, config Config, dataDir, cmdArgs string) (stdout, stderr []byte, err error) {
	args := fmt.Sprintf("--data-dir %s %s", dataDir, cmdArgs)
	return testutils.RunLongjob(ctx, nil, config.Binary, args, true)
}

// NewRunCmd returns a not started longjob run command on a specific data dir.
func NewRunCmd(ctx context.Context, config Config, dataDir, runArgs string) *exec.Cmd {
	args := append([]string{"--data-dir", dataDir, "run"}, testutils.SplitArgs(runArgs)...)
	return testutils.NewLongjobCmd(ctx, nil, config.Binary, args, true)
}

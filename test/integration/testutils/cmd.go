package testutils

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"regexp"
	"strings"
)

var multiSpaceRegex = regexp.MustCompile(" +")

// RunLongjob executes a longjob command with the given arguments string (split by spaces).
func RunLongjob(ctx context.Context, env []string, binary, cmdArgs string, nolog bool) (stdout, stderr []byte, err error) {
	cmd := NewLongjobCmd(ctx, env, binary, splitArgs(cmdArgs), nolog)

	var outData, errData bytes.Buffer
	cmd.Stdout = &outData
	cmd.Stderr = &errData

	err = cmd.Run()

	return outData.Bytes(), errData.Bytes(), err
}

// NewLongjobCmd returns the longjob command ready to be started, so callers can
// signal the process while it runs.
func NewLongjobCmd(ctx context.Context, env []string, binary string, args []string, nolog bool) *exec.Cmd {
	cmd := exec.CommandContext(ctx, binary, args...)

	// Custom env goes last so it overrides the inherited one.
	newEnv := append([]string{}, os.Environ()...)
	newEnv = append(newEnv, env...)
	if nolog {
		newEnv = append(newEnv, "LONGJOB_NO_LOG=true")
	}
	cmd.Env = newEnv

	return cmd
}

// SplitArgs splits a command arguments string by spaces.
func SplitArgs(cmdArgs string) []string {
	return splitArgs(cmdArgs)
}

func splitArgs(cmdArgs string) []string {
	cmdArgs = strings.TrimSpace(cmdArgs)
	cmdArgs = multiSpaceRegex.ReplaceAllString(cmdArgs, " ")
	if cmdArgs == "" {
		return nil
	}
	return strings.Split(cmdArgs, " ")
}

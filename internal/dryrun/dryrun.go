// Package dryrun implements the conditional checks for Gatehouse's dry-run mode.
//
// Dry-run mode is active when either the `--dryrun` CLI flag was parsed
// (SetRequested) or the GATEHOUSE_DRYRUN environment variable was set when the
// process started. While active, external commands are echoed instead of
// executed, which lets a developer inspect exactly what a hook would run.
package dryrun

import (
	"context"
	"os"
	"os/exec"
	"sync"
)

// RequestedEnv is the environment variable that requests dry-run mode.
const RequestedEnv = "GATEHOUSE_DRYRUN"

//nolint:gochecknoglobals // process-wide dry-run state, set once during CLI setup
var (
	requestedValue   bool
	requestedEnvOnce sync.Once
	requestedEnv     bool
)

// SetRequested sets the dry-run requested state to the specified boolean value.
func SetRequested(value bool) {
	requestedValue = value
}

// IsDryRun checks if dry-run mode was requested, either explicitly or via the
// environment variable.
func IsDryRun() bool {
	requestedEnvOnce.Do(func() {
		if os.Getenv(RequestedEnv) != "" {
			requestedEnv = true
		}
	})

	return requestedEnv || requestedValue
}

// Wrap creates an *exec.Cmd to run a command or simulate it in dry-run mode.
// If not in dry-run mode, it returns exec.CommandContext(ctx, cmd, args...).
// In dry-run mode, it returns a command that prints the simulated command.
func Wrap(ctx context.Context, cmd string, args ...string) *exec.Cmd {
	if !IsDryRun() {
		return exec.CommandContext(ctx, cmd, args...)
	}

	// Return an *exec.Cmd that just prints the command that would have been run.
	return exec.CommandContext(ctx, "echo", append([]string{"DRYRUN: " + cmd}, args...)...) //nolint:gosec // It's echo!
}

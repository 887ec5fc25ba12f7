// Package runner executes a policy's external verification command and
// surfaces its exit status to the gate.
//
// Output is streamed to the invoking console while the command runs; nothing
// is buffered, so the developer sees build or test progress in real time. The
// hook process blocks until the child exits.
package runner

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/yaklabco/gatehouse/internal/dryrun"
	"github.com/yaklabco/gatehouse/internal/env"
	"github.com/yaklabco/gatehouse/internal/log"
)

// Spec describes one external command invocation.
type Spec struct {
	// Command is the executable to run. References to environment variables
	// in $FOO format are expanded before execution.
	Command string

	// Args are the arguments passed to the command, expanded like Command.
	Args []string

	// Dir is the working directory for the command. Empty means the current
	// working directory.
	Dir string

	// Env holds additional environment variables for the child. They are
	// overlaid on the inherited environment.
	Env map[string]string

	// Timeout bounds the command's runtime when greater than zero. An
	// expired deadline kills the child and the run is treated as failed.
	Timeout time.Duration
}

// Result holds the outcome of running a Spec.
type Result struct {
	// ExitCode is the child's exit code, propagated unchanged. Launch
	// failures and cancellations report a non-zero code.
	ExitCode int

	// Ran is true if the command actually started (as opposed to a missing
	// or non-executable binary).
	Ran bool

	// Duration is the wall-clock runtime of the command.
	Duration time.Duration
}

// Success returns true if the command ran and exited zero.
func (r Result) Success() bool {
	return r.Ran && r.ExitCode == 0
}

// Run executes the spec, piping the child's stdout and stderr to the given
// writers and attaching the given reader as stdin. It blocks until the child
// exits or ctx is done; a canceled or expired context kills the child.
//
// The returned error is nil only on a zero exit. A non-zero exit produces an
// error carrying the child's exit status (ExitStatus recovers it); a command
// that could not be launched produces an error for which CmdRan reports false.
func Run(ctx context.Context, spec Spec, stdin io.Reader, stdout, stderr io.Writer) (Result, error) {
	if spec.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, spec.Timeout)
		defer cancel()
	}

	expand := func(varName string) string {
		if spec.Env != nil {
			if v, ok := spec.Env[varName]; ok {
				return v
			}
		}
		return os.Getenv(varName)
	}

	command := os.Expand(spec.Command, expand)
	args := make([]string, len(spec.Args))
	for i := range spec.Args {
		args[i] = os.Expand(spec.Args[i], expand)
	}

	theCmd := dryrun.Wrap(ctx, command, args...)
	theCmd.Dir = spec.Dir
	theCmd.Env = env.Merge(spec.Env)
	theCmd.Stdin = stdin
	theCmd.Stdout = stdout
	theCmd.Stderr = stderr

	slog.Debug("external command starting",
		slog.String(log.Cmd, command),
		slog.Any(log.Args, args),
		slog.String(log.Dir, spec.Dir),
		slog.Duration("timeout", spec.Timeout))

	start := time.Now()
	err := theCmd.Run()
	result := Result{
		ExitCode: ExitStatus(err),
		Ran:      CmdRan(err),
		Duration: time.Since(start),
	}

	slog.Debug("external command completed",
		slog.String(log.Cmd, command),
		slog.Int(log.ExitCode, result.ExitCode),
		slog.Duration(log.Duration, result.Duration))

	if err == nil {
		return result, nil
	}

	// Fail safe on interruption or timeout: a canceled check must not pass.
	if ctxErr := ctx.Err(); ctxErr != nil {
		if result.ExitCode == 0 {
			result.ExitCode = 1
		}
		return result, fmt.Errorf(`"%s %s" interrupted: %w`, command, strings.Join(args, " "), ctxErr)
	}

	if result.Ran {
		return result, Fatalf(result.ExitCode,
			`running "%s %s" failed with exit code %d`, command, strings.Join(args, " "), result.ExitCode)
	}
	return result, fmt.Errorf(`failed to run "%s %s": %w`, command, strings.Join(args, " "), err)
}

// Package gate combines change-set inspection, policy matching, external
// command execution and result reporting into an accept/reject verdict for a
// Git lifecycle event.
package gate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yaklabco/gatehouse/config"
	"github.com/yaklabco/gatehouse/internal/changeset"
	"github.com/yaklabco/gatehouse/internal/log"
	"github.com/yaklabco/gatehouse/internal/policy"
	"github.com/yaklabco/gatehouse/internal/report"
	"github.com/yaklabco/gatehouse/internal/runner"
)

// Environment variable names for hooks control.
const (
	EnvGatehouseHooks = "GATEHOUSE_HOOKS"
)

// IsHooksDisabled returns true if hooks are disabled via GATEHOUSE_HOOKS=0.
func IsHooksDisabled() bool {
	return os.Getenv(EnvGatehouseHooks) == "0"
}

// IsDebugMode returns true if GATEHOUSE_HOOKS=debug.
func IsDebugMode() bool {
	return strings.EqualFold(os.Getenv(EnvGatehouseHooks), "debug")
}

// RunnerFunc executes one external command spec. Production code uses
// runner.Run; tests inject stubs.
type RunnerFunc func(ctx context.Context, spec runner.Spec, stdin io.Reader, stdout, stderr io.Writer) (runner.Result, error)

// Gate evaluates lifecycle events against the configured policies.
type Gate struct {
	// Config supplies the policies and ambient settings.
	Config *config.Config

	// RepoRoot is the repository root: the working directory for external
	// commands and the base for artifact searches.
	RepoRoot string

	// Stdin is attached to external commands.
	Stdin io.Reader

	// Stdout is where command output is streamed.
	Stdout io.Writer

	// Stderr is where failure banners and error messages are written.
	Stderr io.Writer

	// Runner executes external commands. Production code should always set
	// this; if nil, runner.Run is used.
	Runner RunnerFunc

	// Timeout, when non-zero, overrides per-policy timeouts.
	Timeout time.Duration
}

// PolicyResult holds the result of running a single policy's command.
type PolicyResult struct {
	// Name is the policy name.
	Name string

	// ExitCode is the exit code from running the command.
	ExitCode int

	// Duration is how long the command took to run.
	Duration time.Duration

	// Err is any error that occurred (may be nil even with non-zero exit).
	Err error
}

// Verdict is the outcome of evaluating one lifecycle event.
type Verdict struct {
	// ID correlates this evaluation's log lines and output.
	ID uuid.UUID

	// Hook is the lifecycle event that was evaluated.
	Hook string

	// State is the terminal state: StateAccepted or StateRejected.
	State State

	// ExitCode is what the hook process must exit with: 0 allows the
	// operation, non-zero aborts it.
	ExitCode int

	// Policies contains the results for each policy command that ran.
	Policies []PolicyResult

	// TotalTime is the total duration of the evaluation.
	TotalTime time.Duration

	// Disabled is true if hooks were disabled via environment variable.
	Disabled bool
}

// Accepted returns true if the lifecycle operation may proceed.
func (v *Verdict) Accepted() bool {
	return v.State == StateAccepted
}

// EvaluateHook queries the change set for the given hook and evaluates it.
// Change-set query failures (no upstream, not a repository) are treated as an
// empty change set so that, for example, pushes of new branches are not
// blocked.
func (g *Gate) EvaluateHook(ctx context.Context, hookName string) *Verdict {
	entries, err := changeset.ForHook(ctx, hookName, g.RepoRoot)
	if err != nil {
		var queryErr *changeset.QueryError
		if errors.As(err, &queryErr) {
			slog.Debug("change set unavailable, treating as empty",
				slog.String(log.Hook, hookName),
				slog.Any(log.Error, err))
			entries = nil
		}
	}
	return g.Evaluate(ctx, hookName, entries)
}

// Evaluate runs the gate for the given hook over an explicit change set.
//
// Behavior:
//   - If GATEHOUSE_HOOKS=0, returns Accepted immediately (Disabled=true).
//   - If no policy applies, returns Accepted without running anything.
//   - Applicable policies run sequentially in configuration order,
//     stopping at the first failure (fail-fast).
//   - A failing command moves the gate through Reporting, which collects and
//     prints result artifacts, before the terminal Rejected state.
func (g *Gate) Evaluate(ctx context.Context, hookName string, entries []changeset.Entry) *Verdict {
	startTime := time.Now()
	verdict := &Verdict{
		ID:   uuid.New(),
		Hook: hookName,
	}
	state := StateIdle

	if IsHooksDisabled() {
		verdict.Disabled = true
		verdict.State = StateAccepted
		verdict.TotalTime = time.Since(startTime)
		if g.Stderr != nil {
			_, _ = fmt.Fprintf(g.Stderr, "gatehouse: hooks disabled (%s=0)\n", EnvGatehouseHooks)
		}
		return verdict
	}

	state = g.advance(verdict, state, StateMatching)

	matcher := policy.NewMatcher(g.Config.CaseInsensitive())
	applicable := matcher.Applicable(entries, g.Config.Policies, hookName)
	if len(applicable) == 0 {
		g.advance(verdict, state, StateAccepted)
		verdict.State = StateAccepted
		verdict.TotalTime = time.Since(startTime)
		slog.Debug("no applicable policies",
			slog.String(log.GateID, verdict.ID.String()),
			slog.String(log.Hook, hookName))
		return verdict
	}

	state = g.advance(verdict, state, StateRunning)
	failed := g.runPolicies(ctx, verdict, applicable)

	if failed == nil {
		g.advance(verdict, state, StateAccepted)
		verdict.State = StateAccepted
		verdict.TotalTime = time.Since(startTime)
		return verdict
	}

	state = g.advance(verdict, state, StateReporting)
	g.reportFailure(verdict, failed)

	g.advance(verdict, state, StateRejected)
	verdict.State = StateRejected
	verdict.ExitCode = failed.result.ExitCode
	if verdict.ExitCode == 0 {
		verdict.ExitCode = 1
	}
	verdict.TotalTime = time.Since(startTime)
	return verdict
}

// failedPolicy pairs the failing policy with its run result.
type failedPolicy struct {
	policy config.Policy
	result runner.Result
}

// runPolicies executes each applicable policy once, in order, and returns the
// first failure, or nil if all passed.
func (g *Gate) runPolicies(ctx context.Context, verdict *Verdict, applicable config.Policies) *failedPolicy {
	run := g.Runner
	if run == nil {
		run = runner.Run
	}

	for _, pol := range applicable {
		spec := runner.Spec{
			Command: pol.Command,
			Args:    pol.Args,
			Dir:     g.RepoRoot,
			Timeout: pol.Timeout,
		}
		if g.Timeout > 0 {
			spec.Timeout = g.Timeout
		}

		slog.Debug("policy command starting",
			slog.String(log.GateID, verdict.ID.String()),
			slog.String(log.Policy, pol.Name),
			slog.String(log.Cmd, pol.Command))
		if g.Config.Verbose {
			log.SimpleConsoleLogger.Printf("running policy %q: %s %s",
				pol.Name, pol.Command, strings.Join(pol.Args, " "))
		}

		result, err := run(ctx, spec, g.Stdin, g.Stdout, g.Stderr)
		slog.Debug("policy command finished",
			slog.String(log.GateID, verdict.ID.String()),
			slog.String(log.Policy, pol.Name),
			slog.Int(log.ExitCode, result.ExitCode),
			slog.Duration(log.Duration, result.Duration))
		verdict.Policies = append(verdict.Policies, PolicyResult{
			Name:     pol.Name,
			ExitCode: result.ExitCode,
			Duration: result.Duration,
			Err:      err,
		})

		if err != nil {
			if !result.Ran && g.Stderr != nil {
				_, _ = fmt.Fprintf(g.Stderr, "gatehouse: %v\n", err)
			}
			return &failedPolicy{policy: pol, result: result}
		}
	}
	return nil
}

// reportFailure prints the failure banner and any failing test names parsed
// from the policy's result artifacts.
func (g *Gate) reportFailure(verdict *Verdict, failed *failedPolicy) {
	if g.Stderr == nil {
		return
	}

	artifactDir := g.RepoRoot
	if failed.policy.Artifacts.Dir != "" {
		artifactDir = filepath.Join(g.RepoRoot, failed.policy.Artifacts.Dir)
	}
	pattern := failed.policy.Artifacts.Pattern
	if pattern == "" {
		pattern = config.DefaultArtifactPattern
	}

	rep := report.Collect(artifactDir, pattern)
	report.Render(g.Stderr, report.RenderParams{
		Hook:        verdict.Hook,
		Policy:      failed.policy.Name,
		ExitCode:    failed.result.ExitCode,
		EnableColor: g.Config.EnableColor,
	}, rep)
}

// advance validates a state transition. An illegal transition is a
// programming error in the linear machine.
func (g *Gate) advance(verdict *Verdict, from, to State) State {
	if !allowedTransition(from, to) {
		panic(fmt.Sprintf("gate: invalid transition %s -> %s", from, to))
	}
	slog.Debug("gate transition",
		slog.String(log.GateID, verdict.ID.String()),
		slog.String(log.State, to.String()))
	return to
}

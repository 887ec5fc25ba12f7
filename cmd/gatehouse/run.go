package gatehouse

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/yaklabco/gatehouse/config"
	"github.com/yaklabco/gatehouse/internal/gate"
	"github.com/yaklabco/gatehouse/internal/hooks"
	"github.com/yaklabco/gatehouse/internal/runner"
)

func newRunCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "run <hook> [-- args...]",
		Short: "Evaluate a Git hook and exit with its verdict",
		Long: "Evaluate the given Git hook against the configured policies. " +
			"The staged changes are inspected for pre-commit, the outgoing commits for pre-push. " +
			"Exits 0 when the operation may proceed, non-zero when a policy command failed.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hookName := args[0]
			if !config.IsKnownGitHook(hookName) {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "gatehouse: warning: %q is not a standard Git hook name\n", hookName)
			}

			g, err := newGate(cmd, flags)
			if err != nil {
				return err
			}

			verdict := g.EvaluateHook(cmd.Context(), hookName)
			if !verdict.Accepted() {
				return runner.Fatalf(verdict.ExitCode, "%s hook rejected", hookName)
			}
			return nil
		},
	}
}

// newGate assembles a gate from the loaded configuration and the enclosing
// repository. Outside a repository the working directory stands in for the
// repo root and the change-set query degrades to an empty set.
func newGate(cmd *cobra.Command, flags *globalFlags) (*gate.Gate, error) {
	repoRoot := flags.Dir
	if repo, err := hooks.FindGitRepo(cmd.Context(), flags.Dir); err == nil {
		repoRoot = repo.RootDir
	}
	if repoRoot == "" {
		var err error
		repoRoot, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
	}

	cfg, err := config.Load(&config.LoadOptions{
		ProjectDir: repoRoot,
		Stderr:     cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if flags.Verbose {
		cfg.Verbose = true
	}
	if flags.Debug {
		cfg.Debug = true
	}

	return &gate.Gate{
		Config:   cfg,
		RepoRoot: repoRoot,
		Stdin:    cmd.InOrStdin(),
		Stdout:   cmd.OutOrStdout(),
		Stderr:   cmd.ErrOrStderr(),
		Runner:   runner.Run,
		Timeout:  flags.Timeout,
	}, nil
}

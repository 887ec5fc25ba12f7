package gatehouse

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/yaklabco/gatehouse/config"
	"github.com/yaklabco/gatehouse/internal/changeset"
	"github.com/yaklabco/gatehouse/internal/hooks"
	"github.com/yaklabco/gatehouse/internal/policy"
)

func newCheckCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "check <hook>",
		Short: "Show which policies would run for a hook, without running them",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hookName := args[0]
			out := cmd.OutOrStdout()

			repoRoot := flags.Dir
			if repo, err := hooks.FindGitRepo(cmd.Context(), flags.Dir); err == nil {
				repoRoot = repo.RootDir
			}
			if repoRoot == "" {
				var err error
				repoRoot, err = os.Getwd()
				if err != nil {
					return fmt.Errorf("getting working directory: %w", err)
				}
			}

			cfg, err := config.Load(&config.LoadOptions{
				ProjectDir: repoRoot,
				Stderr:     cmd.ErrOrStderr(),
			})
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			entries, err := changeset.ForHook(cmd.Context(), hookName, repoRoot)
			if err != nil {
				// Same degradation as a real hook run: no change set means
				// nothing to verify.
				_, _ = fmt.Fprintf(out, "Change set unavailable (%v); nothing would run.\n", err)
				return nil
			}

			if len(entries) == 0 {
				_, _ = fmt.Fprintf(out, "No changes for %s; nothing would run.\n", hookName)
				return nil
			}

			_, _ = fmt.Fprintf(out, "%d changed file(s) for %s:\n", len(entries), hookName)
			for _, entry := range entries {
				_, _ = fmt.Fprintf(out, "  %-12s %s\n", entry.Status, entry.Path)
			}

			matcher := policy.NewMatcher(cfg.CaseInsensitive())
			applicable := matcher.Applicable(entries, cfg.Policies, hookName)
			if len(applicable) == 0 {
				_, _ = fmt.Fprintln(out)
				_, _ = fmt.Fprintln(out, "No policies apply; the operation would be accepted.")
				return nil
			}

			_, _ = fmt.Fprintln(out)
			_, _ = fmt.Fprintf(out, "%d policy(ies) would run:\n", len(applicable))
			for _, pol := range applicable {
				_, _ = fmt.Fprintf(out, "  - %s: %s\n", pol.Name, describePolicy(pol.Command, pol.Args, pol.Patterns))
			}
			return nil
		},
	}
}

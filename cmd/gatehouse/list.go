package gatehouse

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/x/term"
	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"
	"github.com/yaklabco/gatehouse/internal/hooks"
)

// defaultListWidth is used when the output is not a terminal.
const defaultListWidth = 80

func newListCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured policies and hook installation status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(cfg.Policies) == 0 {
				_, _ = fmt.Fprintln(out, "No policies configured.")
				_, _ = fmt.Fprintln(out, "Run 'gatehouse init' to create a starter config.")
				return nil
			}

			width := outputWidth()
			_, _ = fmt.Fprintln(out, "Configured policies:")
			_, _ = fmt.Fprintln(out)

			for _, hookName := range cfg.Policies.HookNames() {
				_, _ = fmt.Fprintf(out, "  %s:\n", hookName)
				for _, pol := range cfg.Policies.ForHook(hookName) {
					line := fmt.Sprintf("    - %s: %s", pol.Name, describePolicy(pol.Command, pol.Args, pol.Patterns))
					_, _ = fmt.Fprintln(out, wordwrap.String(line, width))
				}
			}

			// Installation status is best-effort; outside a repository the
			// policy listing is still useful.
			repo, repoErr := hooks.FindGitRepo(cmd.Context(), flags.Dir)
			if repoErr == nil {
				printInstallStatus(cmd, repo, cfg.Policies.HookNames())
			}
			return nil
		},
	}
}

func describePolicy(command string, args, patterns []string) string {
	cmdLine := command
	if len(args) > 0 {
		cmdLine += " " + strings.Join(args, " ")
	}
	return fmt.Sprintf("%s (on %s)", cmdLine, strings.Join(patterns, ", "))
}

func printInstallStatus(cmd *cobra.Command, repo *hooks.GitRepo, hookNames []string) {
	out := cmd.OutOrStdout()
	installed, missing := hooks.InstallStatus(repo, hookNames)

	_, _ = fmt.Fprintln(out)
	if len(missing) == 0 {
		_, _ = fmt.Fprintf(out, "All %d hook(s) installed.\n", len(installed))
		return
	}

	_, _ = fmt.Fprintf(out, "%d of %d hook(s) installed.\n", len(installed), len(hookNames))
	sort.Strings(missing)
	_, _ = fmt.Fprintf(out, "Missing: %s\n", strings.Join(missing, ", "))
	_, _ = fmt.Fprintln(out, "Run 'gatehouse install' to install missing hooks.")
}

func outputWidth() int {
	if !term.IsTerminal(os.Stdout.Fd()) {
		return defaultListWidth
	}
	width, _, err := term.GetSize(os.Stdout.Fd())
	if err != nil || width <= 0 {
		return defaultListWidth
	}
	return width
}

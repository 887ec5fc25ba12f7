package gatehouse

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yaklabco/gatehouse/config"
	"github.com/yaklabco/gatehouse/internal/hooks"
)

func newInstallCmd(flags *globalFlags) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Install hook scripts for the configured policies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			repo, err := hooks.FindGitRepo(cmd.Context(), flags.Dir)
			if err != nil {
				if errors.Is(err, hooks.ErrNotGitRepo) {
					return fmt.Errorf("%w\nRun this command from within a Git repository", err)
				}
				return err
			}

			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			hookNames := cfg.Policies.HookNames()
			if len(hookNames) == 0 {
				return fmt.Errorf("no policies configured in %s.yaml\nRun 'gatehouse init' to create a starter config", config.ProjectConfigFileName)
			}

			installed, err := hooks.Install(repo, hooks.InstallParams{
				HookNames: hookNames,
				Force:     force,
				Stdout:    cmd.OutOrStdout(),
			})
			if err != nil {
				if errors.Is(err, hooks.ErrHookExists) {
					return fmt.Errorf("%w\nUse --force to overwrite, or remove the existing hook first", err)
				}
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "\nInstalled %d hook(s) to %s\n", installed, repo.HooksPath())
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing hooks not managed by Gatehouse")
	return cmd
}

func newUninstallCmd(flags *globalFlags) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "uninstall",
		Short: "Remove Gatehouse-managed hook scripts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			repo, err := hooks.FindGitRepo(cmd.Context(), flags.Dir)
			if err != nil {
				return err
			}

			var hookNames []string
			if all {
				hookNames = config.KnownGitHookNames()
			} else {
				cfg, err := loadConfig(cmd, flags)
				if err != nil {
					return fmt.Errorf("loading config: %w", err)
				}
				hookNames = cfg.Policies.HookNames()
			}

			if len(hookNames) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No hooks to uninstall.")
				return nil
			}

			removed, err := hooks.Uninstall(repo, hookNames, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			if removed == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No Gatehouse-managed hooks found to remove.")
			} else {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "\nRemoved %d hook(s)\n", removed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "remove every Gatehouse-managed hook, not just the configured ones")
	return cmd
}

func newInitCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a starter gatehouse.yaml to the project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir := flags.Dir
			if dir == "" {
				dir = "."
			}

			path, err := config.WriteProjectConfig(dir)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Edit the policies to fit your project, then run 'gatehouse install'.")
			return nil
		},
	}
}

// Package gatehouse wires the CLI commands for the gatehouse binary.
package gatehouse

import (
	"context"
	"time"

	cblog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/charmbracelet/fang"
	"github.com/yaklabco/gatehouse/cmd/gatehouse/version"
	"github.com/yaklabco/gatehouse/config"
	"github.com/yaklabco/gatehouse/internal/dryrun"
	"github.com/yaklabco/gatehouse/internal/gate"
	"github.com/yaklabco/gatehouse/internal/prettylog"
)

const shortDescription = "Gatehouse runs local verification policies from Git hooks. " +
	"See https://github.com/yaklabco/gatehouse"

// globalFlags holds the persistent flags shared by all subcommands.
type globalFlags struct {
	Verbose bool
	Debug   bool
	Dir     string
	DryRun  bool
	Timeout time.Duration
}

// NewRootCmd builds the root command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "gatehouse",
		Short: shortDescription,
		Example: `	# Write a starter gatehouse.yaml
	gatehouse init

	# Install hook scripts for the configured policies
	gatehouse install

	# See which policies would run for the staged changes
	gatehouse check pre-commit

	# Run a hook the way Git would
	gatehouse run pre-commit`,
		Version:       version.OverallVersionStringColorized(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			setupLogging(cmd, flags)
			dryrun.SetRequested(flags.DryRun)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "show verbose output")
	rootCmd.PersistentFlags().BoolVarP(&flags.Debug, "debug", "d", false, "turn on debug messages")
	rootCmd.PersistentFlags().StringVarP(&flags.Dir, "dir", "C", "", "run as if started from this directory")
	rootCmd.PersistentFlags().BoolVar(&flags.DryRun, "dryrun", false, "print policy commands instead of executing them")
	rootCmd.PersistentFlags().DurationVarP(&flags.Timeout, "timeout", "t", 0, "timeout for policy commands (e.g. 5m30s), overrides per-policy timeouts")

	rootCmd.AddCommand(
		newInitCmd(flags),
		newInstallCmd(flags),
		newUninstallCmd(flags),
		newListCmd(flags),
		newCheckCmd(flags),
		newRunCmd(flags),
	)

	return rootCmd
}

// setupLogging installs the pretty slog handler on stderr so policy command
// output on stdout stays clean. GATEHOUSE_HOOKS=debug forces debug logging so
// a hook invocation can be traced without editing the repo config.
func setupLogging(cmd *cobra.Command, flags *globalFlags) {
	logHandler := prettylog.SetupPrettyLogger(cmd.ErrOrStderr())
	switch {
	case flags.Debug || gate.IsDebugMode():
		logHandler.SetLevel(cblog.DebugLevel)
	case flags.Verbose:
		logHandler.SetLevel(cblog.InfoLevel)
	default:
		logHandler.SetLevel(cblog.WarnLevel)
	}
}

// loadConfig loads configuration with the project directory taken from the
// --dir flag when set.
func loadConfig(cmd *cobra.Command, flags *globalFlags) (*config.Config, error) {
	return config.Load(&config.LoadOptions{
		ProjectDir: flags.Dir,
		Stderr:     cmd.ErrOrStderr(),
	})
}

// ExecuteWithFang runs the root Cobra command with Fang-specific options.
func ExecuteWithFang(ctx context.Context, rootCmd *cobra.Command) error {
	//nolint:wrapcheck // top-level error from cobra, wrapping not needed
	return fang.Execute(
		ctx, rootCmd, fang.WithVersion(rootCmd.Version), fang.WithoutManpage())
}

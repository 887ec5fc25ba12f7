package hooks

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/yaklabco/gatehouse/internal/log"
)

// ErrHookExists is returned when a hook file exists and was not installed by
// Gatehouse, and force was not requested.
var ErrHookExists = errors.New("hook already exists and was not installed by Gatehouse")

// InstallParams configures hook installation.
type InstallParams struct {
	// HookNames are the Git hooks to install scripts for.
	HookNames []string

	// Force overwrites existing hooks that Gatehouse does not manage.
	Force bool

	// Stdout receives per-hook progress lines. May be nil.
	Stdout io.Writer
}

// Install writes a Gatehouse hook script for each hook name into the
// repository's hooks directory. It refuses to clobber foreign hooks unless
// Force is set, and returns the number of scripts written.
func Install(repo *GitRepo, params InstallParams) (int, error) {
	if err := repo.EnsureHooksDir(); err != nil {
		return 0, fmt.Errorf("creating hooks directory: %w", err)
	}

	slog.Debug("installing hooks",
		slog.Int(log.Count, len(params.HookNames)),
		slog.String(log.Dir, repo.HooksPath()))

	installed := 0
	for _, hookName := range params.HookNames {
		if err := installOne(repo, hookName, params); err != nil {
			return installed, err
		}
		installed++
	}

	slog.Info("hooks installed",
		slog.Int(log.Count, installed),
		slog.String(log.Dir, repo.HooksPath()))
	return installed, nil
}

func installOne(repo *GitRepo, hookName string, params InstallParams) error {
	hookPath := repo.HookPath(hookName)

	managed, err := IsGatehouseManaged(hookPath)
	if err != nil {
		return fmt.Errorf("checking %s: %w", hookName, err)
	}

	if !managed {
		if _, statErr := os.Stat(hookPath); statErr == nil {
			if !params.Force {
				return fmt.Errorf("%w: %s", ErrHookExists, hookName)
			}
			printf(params.Stdout, "Overwriting existing %s hook\n", hookName)
		}
	}

	if err := WriteHookScript(hookPath, ScriptParams{HookName: hookName}); err != nil {
		return fmt.Errorf("writing %s: %w", hookName, err)
	}
	printf(params.Stdout, "Installed %s\n", hookName)
	return nil
}

// Uninstall removes Gatehouse-managed scripts for the given hook names.
// Foreign hooks are left alone. It returns the number of scripts removed.
func Uninstall(repo *GitRepo, hookNames []string, stdout io.Writer) (int, error) {
	slog.Debug("uninstalling hooks",
		slog.Int(log.Count, len(hookNames)))

	removed := 0
	for _, hookName := range hookNames {
		wasRemoved, err := RemoveHookScript(repo.HookPath(hookName))
		if err != nil {
			return removed, fmt.Errorf("removing %s: %w", hookName, err)
		}
		if wasRemoved {
			printf(stdout, "Removed %s\n", hookName)
			removed++
		}
	}
	return removed, nil
}

// InstallStatus reports which of the given hooks have a Gatehouse-managed
// script in place.
func InstallStatus(repo *GitRepo, hookNames []string) (installed, missing []string) {
	for _, hookName := range hookNames {
		managed, err := IsGatehouseManaged(repo.HookPath(hookName))
		if err != nil {
			managed = false
		}
		if managed {
			installed = append(installed, hookName)
		} else {
			missing = append(missing, hookName)
		}
	}
	return installed, missing
}

func printf(w io.Writer, format string, args ...any) {
	if w == nil {
		return
	}
	_, _ = fmt.Fprintf(w, format, args...)
}

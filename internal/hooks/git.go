package hooks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/yaklabco/gatehouse/internal/log"
)

// ErrNotGitRepo is returned when the directory is not inside a Git repository.
var ErrNotGitRepo = errors.New("not a git repository")

// GitRepo describes the repository the gate operates on.
type GitRepo struct {
	// RootDir is the absolute path to the repository root.
	RootDir string

	// GitDir is the absolute path to the .git directory (or gitdir for worktrees).
	GitDir string

	// customHooksPath is the value of core.hooksPath if set, empty otherwise.
	customHooksPath string
}

// FindGitRepo locates the Git repository enclosing dir. If dir is empty, the
// current working directory is used.
func FindGitRepo(ctx context.Context, dir string) (*GitRepo, error) {
	if dir == "" {
		var err error
		dir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving absolute path: %w", err)
	}

	rootDir, err := gitOutput(ctx, absDir, "rev-parse", "--show-toplevel")
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotGitRepo, absDir)
	}

	gitDir, err := gitOutput(ctx, absDir, "rev-parse", "--git-dir")
	if err != nil {
		return nil, fmt.Errorf("finding git directory: %w", err)
	}
	if !filepath.IsAbs(gitDir) {
		gitDir = filepath.Join(absDir, gitDir)
	}

	if rootDir, err = canonicalize(rootDir); err != nil {
		return nil, fmt.Errorf("resolving root dir: %w", err)
	}
	if gitDir, err = canonicalize(gitDir); err != nil {
		return nil, fmt.Errorf("resolving git dir: %w", err)
	}

	// core.hooksPath redirects hook installs; absence is the common case.
	customHooksPath, err := gitOutput(ctx, absDir, "config", "--get", "core.hooksPath")
	if err != nil {
		customHooksPath = ""
	}

	repo := &GitRepo{
		RootDir:         rootDir,
		GitDir:          gitDir,
		customHooksPath: customHooksPath,
	}
	slog.Debug("git repository located",
		slog.String(log.Dir, repo.RootDir),
		slog.String(log.Path, repo.HooksPath()))
	return repo, nil
}

// canonicalize resolves symlinks and cleans the path. Needed on macOS where
// /var is a symlink to /private/var.
func canonicalize(path string) (string, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return "", err
	}
	return filepath.Clean(resolved), nil
}

// HooksPath returns the effective hooks directory: core.hooksPath when
// configured (resolved against RootDir if relative), else <GitDir>/hooks.
func (r *GitRepo) HooksPath() string {
	if r.customHooksPath != "" {
		if !filepath.IsAbs(r.customHooksPath) {
			return filepath.Join(r.RootDir, r.customHooksPath)
		}
		return r.customHooksPath
	}
	return filepath.Join(r.GitDir, "hooks")
}

// HasCustomHooksPath returns true if core.hooksPath is configured.
func (r *GitRepo) HasCustomHooksPath() bool {
	return r.customHooksPath != ""
}

// dirPerm is the permission mode for directories.
const dirPerm = 0o755

// EnsureHooksDir creates the hooks directory if it doesn't exist.
func (r *GitRepo) EnsureHooksDir() error {
	return os.MkdirAll(r.HooksPath(), dirPerm)
}

// HookPath returns the full path to a specific hook file.
func (r *GitRepo) HookPath(hookName string) string {
	return filepath.Join(r.HooksPath(), hookName)
}

// gitOutput runs a git command in dir and returns the trimmed stdout.
func gitOutput(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir

	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

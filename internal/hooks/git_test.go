package hooks

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

func initRepo(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()

	// Resolve symlinks (macOS /var -> /private/var)
	tmpDir, err := filepath.EvalSymlinks(tmpDir)
	if err != nil {
		t.Fatalf("EvalSymlinks failed: %v", err)
	}

	cmd := exec.Command("git", "init")
	cmd.Dir = tmpDir
	if err := cmd.Run(); err != nil {
		t.Fatalf("git init failed: %v", err)
	}
	return tmpDir
}

func TestFindGitRepo_Valid(t *testing.T) {
	t.Parallel()

	tmpDir := initRepo(t)

	repo, err := FindGitRepo(t.Context(), tmpDir)
	if err != nil {
		t.Fatalf("FindGitRepo() error = %v", err)
	}

	if repo.RootDir != tmpDir {
		t.Errorf("RootDir = %q, want %q", repo.RootDir, tmpDir)
	}

	expectedGitDir := filepath.Join(tmpDir, ".git")
	if repo.GitDir != expectedGitDir {
		t.Errorf("GitDir = %q, want %q", repo.GitDir, expectedGitDir)
	}
}

func TestFindGitRepo_Subdirectory(t *testing.T) {
	t.Parallel()

	tmpDir := initRepo(t)
	subDir := filepath.Join(tmpDir, "a", "b")
	if err := os.MkdirAll(subDir, 0o755); err != nil {
		t.Fatal(err)
	}

	repo, err := FindGitRepo(t.Context(), subDir)
	if err != nil {
		t.Fatalf("FindGitRepo() error = %v", err)
	}
	if repo.RootDir != tmpDir {
		t.Errorf("RootDir = %q, want repository root %q", repo.RootDir, tmpDir)
	}
}

func TestFindGitRepo_NotARepo(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()

	_, err := FindGitRepo(t.Context(), tmpDir)
	if err == nil {
		t.Fatal("FindGitRepo() should fail outside a repository")
	}
	if !errors.Is(err, ErrNotGitRepo) {
		t.Errorf("error = %v, want ErrNotGitRepo", err)
	}
}

func TestHooksPath_Default(t *testing.T) {
	t.Parallel()

	tmpDir := initRepo(t)

	repo, err := FindGitRepo(t.Context(), tmpDir)
	if err != nil {
		t.Fatalf("FindGitRepo() error = %v", err)
	}

	want := filepath.Join(tmpDir, ".git", "hooks")
	if got := repo.HooksPath(); got != want {
		t.Errorf("HooksPath() = %q, want %q", got, want)
	}
	if repo.HasCustomHooksPath() {
		t.Error("HasCustomHooksPath() should be false by default")
	}
}

func TestHooksPath_Custom(t *testing.T) {
	t.Parallel()

	tmpDir := initRepo(t)

	cmd := exec.Command("git", "config", "core.hooksPath", ".githooks")
	cmd.Dir = tmpDir
	if err := cmd.Run(); err != nil {
		t.Fatalf("git config failed: %v", err)
	}

	repo, err := FindGitRepo(t.Context(), tmpDir)
	if err != nil {
		t.Fatalf("FindGitRepo() error = %v", err)
	}

	want := filepath.Join(tmpDir, ".githooks")
	if got := repo.HooksPath(); got != want {
		t.Errorf("HooksPath() = %q, want %q", got, want)
	}
	if !repo.HasCustomHooksPath() {
		t.Error("HasCustomHooksPath() should be true")
	}
}

func TestEnsureHooksDir_And_HookPath(t *testing.T) {
	t.Parallel()

	tmpDir := initRepo(t)

	repo, err := FindGitRepo(t.Context(), tmpDir)
	if err != nil {
		t.Fatalf("FindGitRepo() error = %v", err)
	}

	if err := repo.EnsureHooksDir(); err != nil {
		t.Fatalf("EnsureHooksDir() error = %v", err)
	}
	if info, err := os.Stat(repo.HooksPath()); err != nil || !info.IsDir() {
		t.Errorf("hooks directory should exist: %v", err)
	}

	want := filepath.Join(repo.HooksPath(), "pre-push")
	if got := repo.HookPath("pre-push"); got != want {
		t.Errorf("HookPath() = %q, want %q", got, want)
	}
}

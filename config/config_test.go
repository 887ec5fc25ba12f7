package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	// Reset global state
	ResetGlobal()

	// Load with all sources disabled to get pure defaults
	cfg, err := Load(&LoadOptions{
		SkipUserConfig:    true,
		SkipProjectConfig: true,
		SkipEnv:           true,
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Verbose != DefaultVerbose {
		t.Errorf("Verbose = %v, want %v", cfg.Verbose, DefaultVerbose)
	}
	if cfg.Debug != DefaultDebug {
		t.Errorf("Debug = %v, want %v", cfg.Debug, DefaultDebug)
	}
	if cfg.EnableColor != DefaultEnableColor {
		t.Errorf("EnableColor = %v, want %v", cfg.EnableColor, DefaultEnableColor)
	}
	if cfg.MatchCase != DefaultMatchCase {
		t.Errorf("MatchCase = %q, want %q", cfg.MatchCase, DefaultMatchCase)
	}
	if len(cfg.Policies) != 0 {
		t.Errorf("Policies = %v, want none by default", cfg.Policies)
	}
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	ResetGlobal()

	t.Setenv("GATEHOUSE_VERBOSE", "true")
	t.Setenv("GATEHOUSE_DEBUG", "1")
	t.Setenv("GATEHOUSE_MATCH_CASE", "insensitive")

	cfg, err := Load(&LoadOptions{
		SkipUserConfig:    true,
		SkipProjectConfig: true,
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if !cfg.Verbose {
		t.Error("Verbose should be true from GATEHOUSE_VERBOSE")
	}
	if !cfg.Debug {
		t.Error("Debug should be true from GATEHOUSE_DEBUG")
	}
	if !cfg.CaseInsensitive() {
		t.Error("matching should be case-insensitive from GATEHOUSE_MATCH_CASE")
	}
}

func TestLoad_ProjectConfig(t *testing.T) {
	ResetGlobal()

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "gatehouse.yaml")
	configContent := `
verbose: true
match_case: sensitive
policies:
  - name: compile
    hooks: [pre-commit]
    patterns: [".src", ".proj"]
    command: build-tool
    args: [compile]
    timeout: 2m
  - name: test
    hooks: [pre-push]
    patterns: [".src"]
    command: test-tool
    artifacts:
      dir: TestResults
      pattern: "*.trx"
`
	if err := os.WriteFile(configPath, []byte(configContent), 0o644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := Load(&LoadOptions{
		ProjectDir:     tmpDir,
		SkipUserConfig: true,
		SkipEnv:        true,
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if !cfg.Verbose {
		t.Error("Verbose should be true from project config")
	}
	if cfg.CaseInsensitive() {
		t.Error("matching should be case-sensitive from project config")
	}
	if len(cfg.Policies) != 2 {
		t.Fatalf("Policies count = %d, want 2", len(cfg.Policies))
	}

	compile := cfg.Policies[0]
	if compile.Name != "compile" || compile.Command != "build-tool" {
		t.Errorf("first policy = %+v, want compile/build-tool", compile)
	}
	if compile.Timeout != 2*time.Minute {
		t.Errorf("Timeout = %v, want 2m", compile.Timeout)
	}

	test := cfg.Policies[1]
	if test.Artifacts.Dir != "TestResults" || test.Artifacts.Pattern != "*.trx" {
		t.Errorf("Artifacts = %+v, want TestResults/*.trx", test.Artifacts)
	}

	if cfg.ConfigFile() != configPath {
		t.Errorf("ConfigFile() = %q, want %q", cfg.ConfigFile(), configPath)
	}
}

func TestLoad_InvalidPolicy(t *testing.T) {
	ResetGlobal()

	tmpDir := t.TempDir()
	configContent := `
policies:
  - name: broken
    hooks: [pre-commit]
    patterns: [".src"]
`
	configPath := filepath.Join(tmpDir, "gatehouse.yaml")
	if err := os.WriteFile(configPath, []byte(configContent), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(&LoadOptions{
		ProjectDir:     tmpDir,
		SkipUserConfig: true,
		SkipEnv:        true,
	})
	if err == nil {
		t.Fatal("Load() should fail for a policy without a command")
	}
	if !strings.Contains(err.Error(), "command") {
		t.Errorf("error = %v, should mention the missing command", err)
	}
}

func TestLoad_UnknownHookWarns(t *testing.T) {
	ResetGlobal()

	tmpDir := t.TempDir()
	configContent := `
policies:
  - name: compile
    hooks: [pre-flight]
    patterns: [".src"]
    command: build-tool
`
	if err := os.WriteFile(filepath.Join(tmpDir, "gatehouse.yaml"), []byte(configContent), 0o644); err != nil {
		t.Fatal(err)
	}

	var warnings strings.Builder
	cfg, err := Load(&LoadOptions{
		ProjectDir:     tmpDir,
		SkipUserConfig: true,
		SkipEnv:        true,
		Stderr:         &warnings,
	})
	if err != nil {
		t.Fatalf("Load() error = %v, unknown hook should only warn", err)
	}
	if len(cfg.Policies) != 1 {
		t.Errorf("Policies count = %d, want 1", len(cfg.Policies))
	}
	if !strings.Contains(warnings.String(), "pre-flight") {
		t.Error("warning output should name the unknown hook")
	}
}

func TestConfig_Validate_InvalidMatchCase(t *testing.T) {
	cfg := &Config{MatchCase: "sometimes"}

	result := cfg.Validate()
	if !result.HasErrors() {
		t.Error("Expected validation error for invalid match_case")
	}
}

func TestConfig_CaseInsensitive_Explicit(t *testing.T) {
	cfg := &Config{MatchCase: MatchCaseInsensitive}
	if !cfg.CaseInsensitive() {
		t.Error("insensitive should ignore case")
	}

	cfg = &Config{MatchCase: MatchCaseSensitive}
	if cfg.CaseInsensitive() {
		t.Error("sensitive should respect case")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Verbose != DefaultVerbose || cfg.Debug != DefaultDebug ||
		cfg.EnableColor != DefaultEnableColor || cfg.MatchCase != DefaultMatchCase {
		t.Errorf("DefaultConfig() = %+v, want the package defaults", cfg)
	}
	if result := cfg.Validate(); result.HasErrors() {
		t.Errorf("DefaultConfig() should validate cleanly: %s", result.ErrorMessage())
	}
}

func TestGlobal_Singleton(t *testing.T) {
	ResetGlobal()
	defer ResetGlobal()

	custom := &Config{MatchCase: MatchCaseSensitive, Verbose: true}
	SetGlobal(custom)

	if got := Global(); got != custom {
		t.Error("Global() should return the configured singleton")
	}
}

func TestWriteProjectConfig(t *testing.T) {
	tmpDir := t.TempDir()

	path, err := WriteProjectConfig(tmpDir)
	if err != nil {
		t.Fatalf("WriteProjectConfig() error = %v", err)
	}

	// The sample must load cleanly.
	cfg, err := Load(&LoadOptions{
		ProjectDir:     tmpDir,
		SkipUserConfig: true,
		SkipEnv:        true,
	})
	if err != nil {
		t.Fatalf("sample config should load: %v", err)
	}
	if len(cfg.Policies) == 0 {
		t.Error("sample config should define policies")
	}
	if cfg.ConfigFile() != path {
		t.Errorf("ConfigFile() = %q, want %q", cfg.ConfigFile(), path)
	}

	// A second write must refuse to overwrite.
	if _, err := WriteProjectConfig(tmpDir); err == nil {
		t.Error("WriteProjectConfig() should refuse to overwrite")
	}
}

package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

// Config holds all Gatehouse configuration values.
type Config struct {
	// Verbose enables verbose output when running hooks.
	Verbose bool `mapstructure:"verbose"`

	// Debug enables debug messages.
	Debug bool `mapstructure:"debug"`

	// EnableColor enables colored output in terminal.
	EnableColor bool `mapstructure:"enable_color"`

	// MatchCase controls pattern case sensitivity: auto, sensitive or
	// insensitive. Auto follows the platform's filesystem convention.
	MatchCase string `mapstructure:"match_case"`

	// Policies defines the verification policies bound to Git hooks.
	Policies Policies `mapstructure:"policies"`

	// configFile is the path to the config file that was loaded (if any).
	configFile string
}

// ConfigFile returns the path to the configuration file that was loaded,
// or an empty string if no file was loaded.
func (c *Config) ConfigFile() string {
	return c.configFile
}

// CaseInsensitive reports whether pattern matching should ignore case for
// this configuration, resolving MatchCaseAuto from the platform.
func (c *Config) CaseInsensitive() bool {
	switch strings.ToLower(c.MatchCase) {
	case MatchCaseSensitive:
		return false
	case MatchCaseInsensitive:
		return true
	default:
		// Windows and macOS filesystems are case-insensitive by default.
		return runtime.GOOS == osWindows || runtime.GOOS == osDarwin
	}
}

// globalConfig holds the singleton global configuration.
// These globals are intentional for the singleton pattern.
//
//nolint:gochecknoglobals // singleton pattern requires package-level state
var (
	globalConfig       *Config
	globalConfigLoaded bool
	globalConfigMu     sync.RWMutex
)

// Global returns the global configuration singleton.
// It loads the configuration on first access.
func Global() *Config {
	globalConfigMu.RLock()
	if globalConfigLoaded {
		cfg := globalConfig
		globalConfigMu.RUnlock()
		return cfg
	}
	globalConfigMu.RUnlock()

	// Need to load config
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()

	// Double-check after acquiring write lock
	if globalConfigLoaded {
		return globalConfig
	}

	cfg, err := Load(nil)
	if err != nil {
		// Fall back to defaults on error
		cfg = DefaultConfig()
	}
	globalConfig = cfg
	globalConfigLoaded = true
	return globalConfig
}

// SetGlobal sets the global configuration.
// This is primarily useful for testing.
func SetGlobal(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
	globalConfigLoaded = true
}

// ResetGlobal resets the global configuration to be reloaded on next access.
// This is primarily useful for testing.
func ResetGlobal() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigLoaded = false
}

// LoadOptions configures how configuration is loaded.
type LoadOptions struct {
	// ProjectDir is the directory to search for project-level config.
	// If empty, the current working directory is used.
	ProjectDir string

	// Stderr is where warnings are written.
	// If nil, os.Stderr is used.
	Stderr io.Writer

	// SkipProjectConfig skips loading project-level configuration.
	SkipProjectConfig bool

	// SkipUserConfig skips loading user-level configuration.
	SkipUserConfig bool

	// SkipEnv skips reading environment variables.
	SkipEnv bool
}

// Load reads configuration from all sources and returns a Config struct.
// Configuration is loaded in the following order (later sources override earlier):
//  1. Defaults
//  2. User config file (~/.config/gatehouse/config.yaml)
//  3. Project config file (./gatehouse.yaml)
//  4. Environment variables (GATEHOUSE_*)
//
// If opts is nil, default options are used.
func Load(opts *LoadOptions) (*Config, error) {
	if opts == nil {
		opts = &LoadOptions{}
	}

	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	viperInstance := viper.New()

	// Set defaults
	setDefaults(viperInstance)
	viperInstance.SetConfigType("yaml")

	var configFileUsed string

	// Load user config from XDG path (~/.config/gatehouse/config.yaml)
	if !opts.SkipUserConfig {
		paths := ResolveXDGPaths()
		viperInstance.SetConfigName(ConfigFileName)
		viperInstance.AddConfigPath(paths.ConfigDir())

		if err := viperInstance.ReadInConfig(); err != nil {
			var configFileNotFoundError viper.ConfigFileNotFoundError
			if !errors.As(err, &configFileNotFoundError) {
				return nil, fmt.Errorf("failed to read user config file: %w", err)
			}
		} else {
			configFileUsed = viperInstance.ConfigFileUsed()
		}
	}

	// Load project config (./gatehouse.yaml) - merges with/overrides user config
	if !opts.SkipProjectConfig {
		projectDir := opts.ProjectDir
		if projectDir == "" {
			var err error
			projectDir, err = os.Getwd()
			if err != nil {
				return nil, fmt.Errorf("failed to get working directory: %w", err)
			}
		}

		projectConfigPath := filepath.Join(projectDir, ProjectConfigFileName+".yaml")
		if _, err := os.Stat(projectConfigPath); err == nil {
			viperInstance.SetConfigFile(projectConfigPath)
			if err := viperInstance.MergeInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read project config file: %w", err)
			}
			configFileUsed = projectConfigPath
		}
	}

	// Unmarshal into struct
	var cfg Config
	if err := viperInstance.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Apply environment variable overrides (env vars take precedence over config files)
	if !opts.SkipEnv {
		applyEnvironmentOverrides(&cfg)
	}

	// Record which config file was used (project config takes precedence for display)
	cfg.configFile = configFileUsed

	// Validate configuration
	result := cfg.Validate()
	if result.HasWarnings() {
		result.WriteWarnings(opts.Stderr)
	}
	if result.HasErrors() {
		return nil, errors.New(result.ErrorMessage())
	}

	return &cfg, nil
}

// applyEnvironmentOverrides applies environment variable overrides to the config.
// Environment variables take precedence over config file values.
func applyEnvironmentOverrides(cfg *Config) {
	// parseBool interprets a string as a boolean value.
	parseBool := func(v string) bool {
		return v == "1" || v == "true" || v == "TRUE" || v == "True"
	}

	// Apply overrides
	if v := os.Getenv("GATEHOUSE_VERBOSE"); v != "" {
		cfg.Verbose = parseBool(v)
	}
	if v := os.Getenv("GATEHOUSE_DEBUG"); v != "" {
		cfg.Debug = parseBool(v)
	}
	if v := os.Getenv("GATEHOUSE_ENABLE_COLOR"); v != "" {
		cfg.EnableColor = parseBool(v)
	}
	if v := os.Getenv("GATEHOUSE_MATCH_CASE"); v != "" {
		cfg.MatchCase = v
	}
}

// DefaultConfig returns a Config with all default values.
func DefaultConfig() *Config {
	return &Config{
		Verbose:     DefaultVerbose,
		Debug:       DefaultDebug,
		EnableColor: DefaultEnableColor,
		MatchCase:   DefaultMatchCase,
	}
}

// WriteProjectConfig writes a sample project configuration file to the given
// directory. It refuses to overwrite an existing file.
func WriteProjectConfig(dir string) (string, error) {
	configPath := filepath.Join(dir, ProjectConfigFileName+".yaml")

	// Check if file already exists
	if _, err := os.Stat(configPath); err == nil {
		return "", fmt.Errorf("config file already exists: %s", configPath)
	}

	content := sampleProjectYAML()
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil { //nolint:gosec // project config is not a secret
		return "", fmt.Errorf("failed to write config file: %w", err)
	}

	return configPath, nil
}

// sampleProjectYAML returns the sample project configuration as YAML.
func sampleProjectYAML() string {
	return `# Gatehouse configuration
# See https://github.com/yaklabco/gatehouse for documentation

# Pattern case sensitivity: auto (platform default), sensitive, insensitive.
match_case: auto

# Verification policies bound to Git hooks. A policy runs when a changed
# file matches one of its patterns for the hook that fired.
policies:
  - name: compile
    hooks: [pre-commit]
    patterns: ["*.cs", "*.csproj"]
    command: dotnet
    args: [build]

  - name: test
    hooks: [pre-push]
    patterns: ["*.cs", "*.csproj"]
    command: dotnet
    args: [test, --logger, trx]
    artifacts:
      dir: TestResults
      pattern: "*.trx"
`
}

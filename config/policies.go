package config

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/gobwas/glob"
)

// ArtifactSpec configures where a policy's result artifacts are searched for.
type ArtifactSpec struct {
	// Dir is the directory searched recursively for result files, relative
	// to the repository root. Empty means the repository root itself.
	Dir string `mapstructure:"dir,omitempty"`

	// Pattern is the file-name glob for result files. Empty means
	// DefaultArtifactPattern.
	Pattern string `mapstructure:"pattern,omitempty"`
}

// Policy maps a class of changed files to a required verification command.
type Policy struct {
	// Name identifies the policy in console output, e.g. "compile" or "test".
	Name string `mapstructure:"name"`

	// Hooks lists the Git hooks this policy is bound to, e.g. ["pre-commit"].
	Hooks []string `mapstructure:"hooks"`

	// Patterns are path globs; the policy applies when at least one changed
	// file matches. A bare-suffix pattern like ".cs" matches any path with
	// that suffix.
	Patterns []string `mapstructure:"patterns"`

	// Command is the external executable to run when the policy applies.
	Command string `mapstructure:"command"`

	// Args are additional CLI arguments passed to the command.
	Args []string `mapstructure:"args,omitempty"`

	// Timeout bounds the command's runtime. Zero means no ceiling: build and
	// test duration is developer-controlled.
	Timeout time.Duration `mapstructure:"timeout,omitempty"`

	// Artifacts configures result-artifact collection on failure.
	Artifacts ArtifactSpec `mapstructure:"artifacts,omitempty"`
}

// Policies is the ordered set of configured policies.
type Policies []Policy

// ForHook returns the policies bound to the given hook name, preserving
// configuration order.
func (p Policies) ForHook(hookName string) Policies {
	var out Policies
	for _, policy := range p {
		for _, h := range policy.Hooks {
			if h == hookName {
				out = append(out, policy)
				break
			}
		}
	}
	return out
}

// HookNames returns the distinct hook names referenced by any policy, sorted.
func (p Policies) HookNames() []string {
	seen := map[string]bool{}
	for _, policy := range p {
		for _, h := range policy.Hooks {
			seen[h] = true
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// knownGitHooks is the set of standard Git hook names.
// Used to warn on unrecognized hook names.
//
//nolint:gochecknoglobals // package-level lookup table for hook validation
var knownGitHooks = map[string]bool{
	"applypatch-msg":        true,
	"pre-applypatch":        true,
	"post-applypatch":       true,
	"pre-commit":            true,
	"prepare-commit-msg":    true,
	"commit-msg":            true,
	"post-commit":           true,
	"pre-rebase":            true,
	"post-checkout":         true,
	"post-merge":            true,
	"pre-push":              true,
	"pre-receive":           true,
	"update":                true,
	"post-receive":          true,
	"post-update":           true,
	"push-to-checkout":      true,
	"pre-auto-gc":           true,
	"post-rewrite":          true,
	"sendemail-validate":    true,
	"fsmonitor-watchman":    true,
	"p4-pre-submit":         true,
	"p4-changelist":         true,
	"p4-prepare-changelist": true,
	"p4-post-changelist":    true,
	"post-index-change":     true,
}

// IsKnownGitHook returns true if the hook name is a recognized Git hook.
func IsKnownGitHook(name string) bool {
	return knownGitHooks[name]
}

// KnownGitHookNames returns all known Git hook names in sorted order.
func KnownGitHookNames() []string {
	names := make([]string, 0, len(knownGitHooks))
	for name := range knownGitHooks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ValidatePolicies validates the policies configuration and returns any
// errors or warnings.
func ValidatePolicies(policies Policies) ValidationResults {
	var result ValidationResults

	for i, policy := range policies {
		field := fmt.Sprintf("policies[%d]", i)

		if strings.TrimSpace(policy.Name) == "" {
			result.Errors = append(result.Errors, ValidationError{
				Field:   field + ".name",
				Message: "policy name cannot be empty",
			})
		}
		if strings.TrimSpace(policy.Command) == "" {
			result.Errors = append(result.Errors, ValidationError{
				Field:   field + ".command",
				Message: "command cannot be empty",
			})
		}
		if len(policy.Hooks) == 0 {
			result.Errors = append(result.Errors, ValidationError{
				Field:   field + ".hooks",
				Message: "policy must be bound to at least one hook",
			})
		}
		if policy.Timeout < 0 {
			result.Errors = append(result.Errors, ValidationError{
				Field:   field + ".timeout",
				Message: "timeout cannot be negative",
			})
		}

		// Warn on unrecognized hook names (non-blocking)
		for _, hookName := range policy.Hooks {
			if !IsKnownGitHook(hookName) {
				result.Warnings = append(result.Warnings, ValidationWarning{
					Field:   field + ".hooks",
					Message: fmt.Sprintf("unrecognized Git hook name %q", hookName),
				})
			}
		}

		for j, pattern := range policy.Patterns {
			if strings.TrimSpace(pattern) == "" {
				result.Errors = append(result.Errors, ValidationError{
					Field:   fmt.Sprintf("%s.patterns[%d]", field, j),
					Message: "pattern cannot be empty",
				})
				continue
			}
			if _, err := glob.Compile(pattern, '/'); err != nil {
				result.Errors = append(result.Errors, ValidationError{
					Field:   fmt.Sprintf("%s.patterns[%d]", field, j),
					Message: fmt.Sprintf("invalid pattern %q: %v", pattern, err),
				})
			}
		}

		if policy.Artifacts.Pattern != "" {
			if _, err := glob.Compile(policy.Artifacts.Pattern); err != nil {
				result.Errors = append(result.Errors, ValidationError{
					Field:   field + ".artifacts.pattern",
					Message: fmt.Sprintf("invalid pattern %q: %v", policy.Artifacts.Pattern, err),
				})
			}
		}
	}

	return result
}

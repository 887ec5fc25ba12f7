// Package policy decides which configured policies apply to a change set.
//
// Matching is pattern-based on paths: patterns without a separator match the
// file's base name (so "*.cs" catches sources anywhere in the tree), patterns
// with a separator match the full repository-relative path, and a bare suffix
// like ".cs" matches any path ending in it.
package policy

import (
	"log/slog"
	"path"
	"strings"

	"github.com/gobwas/glob"
	"github.com/yaklabco/gatehouse/config"
	"github.com/yaklabco/gatehouse/internal/changeset"
	"github.com/yaklabco/gatehouse/internal/log"
)

// Matcher matches change-set entries against configured policies. Compiled
// glob patterns are cached, so evaluating a large change set compiles each
// pattern at most once.
type Matcher struct {
	// CaseInsensitive folds case before matching. Enabled on platforms with
	// case-insensitive filesystems.
	CaseInsensitive bool

	globs map[string]glob.Glob
}

// NewMatcher returns a matcher with an empty pattern cache.
func NewMatcher(caseInsensitive bool) *Matcher {
	return &Matcher{
		CaseInsensitive: caseInsensitive,
		globs:           make(map[string]glob.Glob),
	}
}

// Applicable returns the subset of policies bound to the given hook whose
// patterns match at least one entry. The order of the input policies is
// preserved. Deleted entries never trigger a policy: there is nothing left to
// compile or test for a removed file.
func (m *Matcher) Applicable(entries []changeset.Entry, policies config.Policies, hookName string) config.Policies {
	var out config.Policies
	for _, pol := range policies.ForHook(hookName) {
		if m.policyMatches(pol, entries) {
			out = append(out, pol)
		}
	}

	slog.Debug("policy matching completed",
		slog.String(log.Hook, hookName),
		slog.Int("entry_count", len(entries)),
		slog.Int("applicable_count", len(out)))
	return out
}

func (m *Matcher) policyMatches(pol config.Policy, entries []changeset.Entry) bool {
	for _, entry := range entries {
		if entry.Status == changeset.StatusDeleted {
			continue
		}
		for _, pattern := range pol.Patterns {
			if m.Matches(pattern, entry.Path) {
				slog.Debug("policy matched",
					slog.String(log.Policy, pol.Name),
					slog.String(log.Pattern, pattern),
					slog.String(log.Path, entry.Path))
				return true
			}
		}
	}
	return false
}

// Matches reports whether a single pattern matches a single path.
func (m *Matcher) Matches(pattern, filePath string) bool {
	if m.CaseInsensitive {
		pattern = strings.ToLower(pattern)
		filePath = strings.ToLower(filePath)
	}

	// A bare suffix like ".cs" is not a glob; match the path ending.
	if strings.HasPrefix(pattern, ".") && !strings.ContainsAny(pattern, "*?[{") {
		return strings.HasSuffix(filePath, pattern)
	}

	// Patterns without a separator match the base name only.
	subject := filePath
	if !strings.Contains(pattern, "/") {
		subject = path.Base(filePath)
	}

	g := m.compiled(pattern)
	if g == nil {
		return false
	}
	return g.Match(subject)
}

// compiled returns the cached compilation of pattern, compiling on first use.
// Unparseable patterns are rejected at config validation; a stray one is
// cached as nil and treated as non-matching rather than failing the gate.
func (m *Matcher) compiled(pattern string) glob.Glob {
	if g, ok := m.globs[pattern]; ok {
		return g
	}

	g, err := glob.Compile(pattern, '/')
	if err != nil {
		slog.Debug("skipping invalid pattern",
			slog.String(log.Pattern, pattern),
			slog.Any(log.Error, err))
		g = nil
	}
	if m.globs == nil {
		m.globs = make(map[string]glob.Glob)
	}
	m.globs[pattern] = g
	return g
}

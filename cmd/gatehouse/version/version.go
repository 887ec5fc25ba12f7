// Package version resolves the binary's version from ldflags or build info.
package version

import (
	"runtime/debug"
	"strings"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/yaklabco/gatehouse/pkg/ui"
)

// Version is the CLI version. It can be overridden at build time via:
//
//	-ldflags "-X github.com/yaklabco/gatehouse/cmd/gatehouse/version.Version=v0.0.0"
//
// If left as "dev", the version is detected from Go build info at runtime.
var Version = "dev" //nolint:gochecknoglobals // Populated by goreleaser ldflags.

// Commit is the git commit hash, overridable at build time like Version.
var Commit = "" //nolint:gochecknoglobals // Populated by goreleaser ldflags.

// BuildDate is the RFC3339 timestamp of the build, overridable like Version.
var BuildDate = "" //nolint:gochecknoglobals // Populated by goreleaser ldflags.

// EffectiveVersion returns the best-effort version string for the binary.
// Precedence:
//  1. Version from ldflags if not "dev"/empty.
//  2. Go build info Main.Version for `go install module@version` builds.
//  3. Go build info vcs.revision (+ "-dirty" when vcs.modified=true).
//  4. "dev".
func EffectiveVersion() string {
	v := strings.TrimSpace(Version)
	if v != "" && v != "dev" {
		return v
	}

	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		if mv := strings.TrimSpace(bi.Main.Version); mv != "" && mv != "(devel)" {
			return mv
		}
		var rev string
		var dirty string
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				rev = s.Value
			case "vcs.modified":
				if s.Value == "true" {
					dirty = "-dirty"
				}
			}
		}
		if rev != "" {
			return rev + dirty
		}
	}

	return "dev"
}

// EffectiveCommit returns the commit hash from ldflags, falling back to Go
// build info vcs.revision.
func EffectiveCommit() string {
	if c := strings.TrimSpace(Commit); c != "" {
		return c
	}
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" && s.Value != "" {
				return s.Value
			}
		}
	}
	return ""
}

// EffectiveBuildTime returns the build time from ldflags or Go build info
// vcs.time, parsed from RFC3339 layouts. Returns false if unavailable.
func EffectiveBuildTime() (time.Time, bool) {
	if bd := strings.TrimSpace(BuildDate); bd != "" {
		if t, ok := parseRFC3339MaybeNano(bd); ok {
			return t, true
		}
	}
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		for _, s := range bi.Settings {
			if s.Key == "vcs.time" && s.Value != "" {
				if t, ok := parseRFC3339MaybeNano(s.Value); ok {
					return t, true
				}
			}
		}
	}
	return time.Time{}, false
}

// parseRFC3339MaybeNano tries RFC3339 and RFC3339Nano.
func parseRFC3339MaybeNano(v string) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// OverallVersionStringColorized renders a version line with fang-consistent colors.
func OverallVersionStringColorized() string {
	cs := ui.GetFangScheme()

	versionStyle := lipgloss.NewStyle().Foreground(cs.QuotedString)
	commitStyle := lipgloss.NewStyle().Foreground(cs.Program)
	timeStyle := lipgloss.NewStyle().Foreground(cs.Flag)
	sepStyle := lipgloss.NewStyle().Foreground(cs.Base)

	parts := []string{versionStyle.Render(EffectiveVersion())}
	if c := EffectiveCommit(); c != "" {
		parts = append(parts, commitStyle.Render(c))
	}
	if t, ok := EffectiveBuildTime(); ok {
		parts = append(parts, timeStyle.Render(t.In(time.Local).Format(time.RFC3339)))
	}
	return strings.Join(parts, sepStyle.Render("-"))
}

package policy

import (
	"fmt"
	"testing"

	"github.com/yaklabco/gatehouse/config"
	"github.com/yaklabco/gatehouse/internal/changeset"
)

func TestMatches_BareSuffix(t *testing.T) {
	t.Parallel()

	m := NewMatcher(false)
	if !m.Matches(".cs", "src/App/Program.cs") {
		t.Error(".cs should match a nested .cs file")
	}
	if m.Matches(".cs", "notes.md") {
		t.Error(".cs should not match notes.md")
	}
}

func TestMatches_BasenameGlob(t *testing.T) {
	t.Parallel()

	m := NewMatcher(false)
	if !m.Matches("*.csproj", "src/App/App.csproj") {
		t.Error("*.csproj should match a nested project file")
	}
	if m.Matches("*.csproj", "src/App/App.cs") {
		t.Error("*.csproj should not match a .cs file")
	}
}

func TestMatches_PathGlob(t *testing.T) {
	t.Parallel()

	m := NewMatcher(false)
	if !m.Matches("src/**/*.cs", "src/App/Program.cs") {
		t.Error("separator-aware glob should match nested path")
	}
	if m.Matches("src/**/*.cs", "tools/gen.cs") {
		t.Error("separator-aware glob should be anchored to src/")
	}
}

func TestMatches_CaseFolding(t *testing.T) {
	t.Parallel()

	sensitive := NewMatcher(false)
	insensitive := NewMatcher(true)

	if sensitive.Matches("*.cs", "Program.CS") {
		t.Error("case-sensitive matcher should reject Program.CS")
	}
	if !insensitive.Matches("*.cs", "Program.CS") {
		t.Error("case-insensitive matcher should accept Program.CS")
	}
}

func TestMatches_CompilesEachPatternOnce(t *testing.T) {
	t.Parallel()

	m := NewMatcher(false)
	for i := range 50 {
		m.Matches("*.csproj", fmt.Sprintf("src/App%d/App.csproj", i))
	}
	if len(m.globs) != 1 {
		t.Errorf("cached %d compiled patterns, want 1", len(m.globs))
	}

	// An invalid pattern is cached too, as non-matching.
	if m.Matches("[", "anything") {
		t.Error("invalid pattern should never match")
	}
	if m.Matches("[", "anything") {
		t.Error("cached invalid pattern should still never match")
	}
	if len(m.globs) != 2 {
		t.Errorf("cached %d compiled patterns, want 2", len(m.globs))
	}
}

func TestApplicable_FiltersByHookAndPattern(t *testing.T) {
	t.Parallel()

	policies := config.Policies{
		{Name: "compile", Hooks: []string{"pre-commit"}, Patterns: []string{".src", ".proj"}, Command: "build"},
		{Name: "test", Hooks: []string{"pre-push"}, Patterns: []string{".src"}, Command: "test"},
		{Name: "docs", Hooks: []string{"pre-commit"}, Patterns: []string{".adoc"}, Command: "docs"},
	}
	entries := []changeset.Entry{
		{Path: "Foo.src", Status: changeset.StatusModified},
		{Path: "Foo.proj", Status: changeset.StatusModified},
	}

	applicable := NewMatcher(false).Applicable(entries, policies, "pre-commit")

	if len(applicable) != 1 {
		t.Fatalf("got %d applicable policies, want 1", len(applicable))
	}
	if applicable[0].Name != "compile" {
		t.Errorf("applicable policy = %q, want compile", applicable[0].Name)
	}
}

func TestApplicable_NoMatchForUnrelatedFiles(t *testing.T) {
	t.Parallel()

	policies := config.Policies{
		{Name: "compile", Hooks: []string{"pre-commit"}, Patterns: []string{".src", ".proj"}, Command: "build"},
	}
	entries := []changeset.Entry{
		{Path: "Readme.md", Status: changeset.StatusModified},
	}

	if got := NewMatcher(false).Applicable(entries, policies, "pre-commit"); len(got) != 0 {
		t.Errorf("got %d applicable policies for Readme.md, want 0", len(got))
	}
}

func TestApplicable_DeletedFilesDoNotTrigger(t *testing.T) {
	t.Parallel()

	policies := config.Policies{
		{Name: "compile", Hooks: []string{"pre-commit"}, Patterns: []string{".cs"}, Command: "build"},
	}
	entries := []changeset.Entry{
		{Path: "Removed.cs", Status: changeset.StatusDeleted},
	}

	if got := NewMatcher(false).Applicable(entries, policies, "pre-commit"); len(got) != 0 {
		t.Error("a deleted file alone should not trigger a policy")
	}
}

func TestApplicable_AddedAndRenamedTrigger(t *testing.T) {
	t.Parallel()

	policies := config.Policies{
		{Name: "compile", Hooks: []string{"pre-commit"}, Patterns: []string{".cs"}, Command: "build"},
	}

	for _, status := range []changeset.Status{changeset.StatusAdded, changeset.StatusRenamed} {
		entries := []changeset.Entry{{Path: "New.cs", Status: status}}
		if got := NewMatcher(false).Applicable(entries, policies, "pre-commit"); len(got) != 1 {
			t.Errorf("status %v should trigger the policy", status)
		}
	}
}

func TestApplicable_PreservesPolicyOrder(t *testing.T) {
	t.Parallel()

	policies := config.Policies{
		{Name: "b", Hooks: []string{"pre-commit"}, Patterns: []string{".go"}, Command: "b"},
		{Name: "a", Hooks: []string{"pre-commit"}, Patterns: []string{".go"}, Command: "a"},
	}
	entries := []changeset.Entry{{Path: "main.go", Status: changeset.StatusModified}}

	applicable := NewMatcher(false).Applicable(entries, policies, "pre-commit")
	if len(applicable) != 2 || applicable[0].Name != "b" || applicable[1].Name != "a" {
		t.Errorf("applicable order = %v, want configuration order", applicable)
	}
}

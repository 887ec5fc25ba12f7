package dryrun

import (
	"context"
	"strings"
	"testing"
)

func TestWrap_Passthrough(t *testing.T) {
	SetRequested(false)
	t.Cleanup(func() { SetRequested(false) })

	cmd := Wrap(context.Background(), "git", "status")
	if got := cmd.Args[0]; !strings.HasSuffix(got, "git") {
		t.Errorf("Args[0] = %q, want git", got)
	}
}

func TestWrap_DryRunEchoes(t *testing.T) {
	SetRequested(true)
	t.Cleanup(func() { SetRequested(false) })

	cmd := Wrap(context.Background(), "git", "push")
	joined := strings.Join(cmd.Args, " ")
	if !strings.Contains(joined, "DRYRUN: git") {
		t.Errorf("wrapped command = %q, want DRYRUN echo", joined)
	}
	if !strings.Contains(joined, "push") {
		t.Errorf("wrapped command = %q, should carry original args", joined)
	}
}

func TestIsDryRun_SetRequested(t *testing.T) {
	SetRequested(true)
	t.Cleanup(func() { SetRequested(false) })

	if !IsDryRun() {
		t.Error("IsDryRun() = false after SetRequested(true)")
	}
}

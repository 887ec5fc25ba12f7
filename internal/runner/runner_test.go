package runner

import (
	"bytes"
	"context"
	"errors"
	"runtime"
	"strings"
	"testing"
	"time"
)

func TestRun_Success(t *testing.T) {
	t.Parallel()
	skipOnWindows(t)

	var stdout bytes.Buffer
	result, err := Run(context.Background(), Spec{
		Command: "sh",
		Args:    []string{"-c", "echo hello"},
	}, nil, &stdout, &stdout)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !result.Success() {
		t.Errorf("Success() = false, exit code %d", result.ExitCode)
	}
	if got := strings.TrimSpace(stdout.String()); got != "hello" {
		t.Errorf("stdout = %q, want %q", got, "hello")
	}
}

func TestRun_ExitCodePropagated(t *testing.T) {
	t.Parallel()
	skipOnWindows(t)

	result, err := Run(context.Background(), Spec{
		Command: "sh",
		Args:    []string{"-c", "exit 7"},
	}, nil, nil, nil)
	if err == nil {
		t.Fatal("Run() error = nil, want failure")
	}

	if result.ExitCode != 7 {
		t.Errorf("ExitCode = %d, want 7", result.ExitCode)
	}
	if !result.Ran {
		t.Error("Ran = false, want true for a command that executed")
	}
	if ExitStatus(err) != 7 {
		t.Errorf("ExitStatus(err) = %d, want 7", ExitStatus(err))
	}
}

func TestRun_MissingExecutable(t *testing.T) {
	t.Parallel()

	result, err := Run(context.Background(), Spec{
		Command: "gatehouse-no-such-binary",
	}, nil, nil, nil)
	if err == nil {
		t.Fatal("Run() error = nil, want launch failure")
	}

	if result.Ran {
		t.Error("Ran = true, want false for a missing executable")
	}
	if CmdRan(err) {
		t.Error("CmdRan(err) = true, want false")
	}
	if result.ExitCode == 0 {
		t.Error("ExitCode = 0, want non-zero for launch failure")
	}
}

func TestRun_EnvExpansionAndOverlay(t *testing.T) {
	skipOnWindows(t)

	var stdout bytes.Buffer
	_, err := Run(context.Background(), Spec{
		Command: "sh",
		Args:    []string{"-c", "echo $GATEHOUSE_TEST_VALUE"},
		Env:     map[string]string{"GATEHOUSE_TEST_VALUE": "expanded"},
	}, nil, &stdout, &stdout)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if got := strings.TrimSpace(stdout.String()); got != "expanded" {
		t.Errorf("stdout = %q, want %q", got, "expanded")
	}
}

func TestRun_TimeoutKillsChild(t *testing.T) {
	t.Parallel()
	skipOnWindows(t)

	start := time.Now()
	result, err := Run(context.Background(), Spec{
		Command: "sleep",
		Args:    []string{"30"},
		Timeout: 100 * time.Millisecond,
	}, nil, nil, nil)
	if err == nil {
		t.Fatal("Run() error = nil, want timeout failure")
	}

	if elapsed := time.Since(start); elapsed > 10*time.Second {
		t.Errorf("timeout did not kill child promptly, elapsed %v", elapsed)
	}
	if result.ExitCode == 0 {
		t.Error("ExitCode = 0, want non-zero for timed-out command")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want wrapped context.DeadlineExceeded", err)
	}
}

func TestRun_CanceledContextRejects(t *testing.T) {
	t.Parallel()
	skipOnWindows(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := Run(ctx, Spec{
		Command: "sleep",
		Args:    []string{"30"},
	}, nil, nil, nil)
	if err == nil {
		t.Fatal("Run() error = nil, want cancellation failure")
	}
	if result.ExitCode == 0 {
		t.Error("a canceled check must not report success")
	}
}

func TestExitStatus_NilError(t *testing.T) {
	t.Parallel()

	if got := ExitStatus(nil); got != 0 {
		t.Errorf("ExitStatus(nil) = %d, want 0", got)
	}
}

func TestExitStatus_PlainError(t *testing.T) {
	t.Parallel()

	if got := ExitStatus(errors.New("boom")); got != 1 {
		t.Errorf("ExitStatus = %d, want 1", got)
	}
}

func TestFatalf_CarriesCode(t *testing.T) {
	t.Parallel()

	err := Fatalf(42, "failed %s", "hard")
	if got := ExitStatus(err); got != 42 {
		t.Errorf("ExitStatus = %d, want 42", got)
	}
	if !strings.Contains(err.Error(), "failed hard") {
		t.Errorf("err = %q, want formatted message", err)
	}
}

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
}

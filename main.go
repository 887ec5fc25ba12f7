package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/yaklabco/gatehouse/cmd/gatehouse"
	"github.com/yaklabco/gatehouse/internal/runner"
)

func main() {
	os.Exit(actualMain())
}

func actualMain() int {
	// An interrupt must reject the pending operation, not let it slip
	// through, so the context is canceled and the run command's non-zero
	// exit propagates to Git.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := gatehouse.NewRootCmd()

	if err := gatehouse.ExecuteWithFang(ctx, rootCmd); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		return runner.ExitStatus(err)
	}

	return 0
}

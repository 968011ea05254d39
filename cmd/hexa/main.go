// Package main is the entry point for the hexa CLI.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/KeSHaMI/hexaframe/internal/cli"
)

// Version information set by ldflags during build.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// shutdownTimeout bounds how long a canceled command may keep running.
const shutdownTimeout = 30 * time.Second

func main() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	opts := cli.NewOptions()
	opts.SetVersion(version, commit, date)
	root := cli.NewRootCommand(opts)

	code := run(context.Background(), sigChan, root.ExecuteContext, os.Stderr, os.Exit)
	os.Exit(code)
}

// run executes the CLI under a context canceled by the first signal. A
// second signal, or a shutdown that outlasts shutdownTimeout, calls
// forceExit.
func run(parent context.Context, sigChan <-chan os.Signal, execute func(context.Context) error, stderr io.Writer, forceExit func(int)) int {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	finished := make(chan struct{})
	defer close(finished)
	go watchSignals(sigChan, cancel, finished, stderr, forceExit)

	err := execute(ctx)
	switch {
	case err == nil:
		return cli.ExitOK
	case ctx.Err() != nil:
		fmt.Fprintln(stderr, "Operation canceled")
		return cli.ExitInterrupted
	}
	// cobra runs with SilenceErrors, so the error is printed exactly once here.
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return cli.ExitCode(err)
}

// watchSignals cancels the command on the first signal and escalates to
// forceExit when the command does not finish in time.
func watchSignals(sigChan <-chan os.Signal, cancel context.CancelFunc, finished <-chan struct{}, stderr io.Writer, forceExit func(int)) {
	var sig os.Signal
	select {
	case sig = <-sigChan:
	case <-finished:
		return
	}
	fmt.Fprintf(stderr, "\nReceived %v, stopping (press Ctrl+C again to force)\n", sig)
	cancel()

	deadline := time.NewTimer(shutdownTimeout)
	defer deadline.Stop()

	select {
	case <-finished:
	case <-deadline.C:
		fmt.Fprintf(stderr, "\nStill running after %v, forcing exit\n", shutdownTimeout)
		forceExit(cli.ExitError)
	case sig = <-sigChan:
		fmt.Fprintf(stderr, "\nReceived second %v, forcing exit\n", sig)
		forceExit(cli.ExitError)
	}
}

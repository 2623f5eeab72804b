package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// exitError carries a process exit code through cobra's error return. Cron
// and systemd timers distinguish clean runs (0), run-level failures (1), and
// partial runs where some candidates failed but the run completed (2).
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		var exit *exitError
		if errors.As(err, &exit) {
			fmt.Fprintln(os.Stderr, exit.err)
			os.Exit(exit.code)
		}
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

package main

import (
	"errors"
	"fmt"
	"os"

	gxserrors "github.com/gxo-labs/gxs/pkg/gxs/v1/errors"

	"github.com/spf13/cobra"
)

const (
	ExitSuccess         = 0
	ExitFailure         = 1
	ExitUsageError      = 2
	DefaultLogLevel     = "info"
	DefaultLogFmt       = "text"
	DefaultEventBusSize = 256
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	root := newRootCmd(os.Stdout, os.Stderr)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// commandError wraps errors returned by a command's RunE. Anything else
// returned by Execute comes from cobra itself: unknown commands, bad
// arguments, missing required flags.
type commandError struct{ err error }

func (e commandError) Error() string { return e.err.Error() }
func (e commandError) Unwrap() error { return e.err }

func wrapRunE(cmd *cobra.Command) {
	run := cmd.RunE
	if run == nil {
		return
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if err := run(cmd, args); err != nil {
			return commandError{err}
		}
		return nil
	}
}

// usageError marks errors caused by how the command was invoked.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

// failedRunsError reports a batch in which some searches hit a domain error.
type failedRunsError struct{ failed, total int }

func (e failedRunsError) Error() string {
	return fmt.Sprintf("%d of %d searches failed", e.failed, e.total)
}

// exitCode maps configuration and usage problems to ExitUsageError and
// everything else to ExitFailure.
func exitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var cmdErr commandError
	if !errors.As(err, &cmdErr) {
		return ExitUsageError
	}
	var (
		ue usageError
		ce *gxserrors.ConfigError
		ve *gxserrors.ValidationError
		nf *gxserrors.NotFoundError
	)
	switch {
	case errors.As(err, &ue), errors.As(err, &ce), errors.As(err, &ve), errors.As(err, &nf):
		return ExitUsageError
	default:
		return ExitFailure
	}
}

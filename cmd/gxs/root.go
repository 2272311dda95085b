package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/gxo-labs/gxs/internal/engine"
	"github.com/gxo-labs/gxs/internal/events"
	"github.com/gxo-labs/gxs/internal/logger"
	"github.com/gxo-labs/gxs/internal/metrics"
	"github.com/gxo-labs/gxs/internal/runner"
	"github.com/gxo-labs/gxs/internal/tracing"
	gxs "github.com/gxo-labs/gxs/pkg/gxs/v1"
	gxslog "github.com/gxo-labs/gxs/pkg/gxs/v1/log"

	"github.com/spf13/cobra"
)

type globalOptions struct {
	logLevel  string
	logFormat string
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &globalOptions{}
	root := &cobra.Command{
		Use:           "gxs",
		Short:         "gxs searches robot worker puzzles with interchangeable strategies",
		Long:          "gxs runs breadth-first, depth-first, best-first and A* searches over the cases of a suite file and reports termination and node statistics.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if _, err := logger.ParseLevel(opts.logLevel); err != nil {
				return usageError{fmt.Errorf("--log-level: %w", err)}
			}
			if opts.logFormat != "text" && opts.logFormat != "json" {
				return usageError{fmt.Errorf("--log-format must be 'text' or 'json', got '%s'", opts.logFormat)}
			}
			return nil
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError{err}
	})
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", DefaultLogLevel, "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&opts.logFormat, "log-format", DefaultLogFmt, "Log format (text, json)")

	root.AddCommand(
		newRunCmd(opts),
		newSolveCmd(opts),
		newValidateCmd(opts),
		newVersionCmd(),
	)
	for _, cmd := range root.Commands() {
		wrapRunE(cmd)
	}
	return root
}

// app holds the collaborators shared by the search commands.
type app struct {
	log     gxslog.Logger
	engine  *engine.Engine
	runner  *runner.Runner
	metrics *metrics.PrometheusRegistryProvider
	tracer  *tracing.OtelTracerProvider
	bus     *events.ChannelEventBus
	done    chan struct{}
}

// newApp wires logging, tracing, metrics and the engine. When progress is
// non-nil a ProgressListener writes one line per finished search to it.
func newApp(ctx context.Context, opts *globalOptions, stderr io.Writer, progress io.Writer) (*app, error) {
	log := logger.NewLogger(opts.logLevel, opts.logFormat, stderr).With("gxs_version", version)

	tracerProvider, err := tracing.NewProviderFromEnv(ctx, log, stderr)
	if err != nil {
		log.Warnf("Failed to initialize tracing from environment: %v. Using NoOp tracer.", err)
		tracerProvider, _ = tracing.NewNoOpProvider()
	}
	a := &app{
		log:     log,
		metrics: metrics.NewProcessRegistryProvider(),
		tracer:  tracerProvider,
	}

	engineOpts := []gxs.EngineOption{
		gxs.WithTracerProvider(tracerProvider),
		gxs.WithMetricsRegistryProvider(a.metrics),
	}
	if progress != nil {
		a.bus = events.NewChannelEventBus(DefaultEventBusSize, log)
		engineOpts = append(engineOpts, gxs.WithEventBus(a.bus))
		listener := events.NewProgressListener(a.bus, progress, log)
		a.done = make(chan struct{})
		go func() {
			defer close(a.done)
			listener.Start(ctx)
		}()
	}

	a.engine, err = engine.NewEngine(log, engineOpts...)
	if err != nil {
		a.close()
		return nil, err
	}
	a.runner, err = runner.NewRunner(a.engine, log)
	if err != nil {
		a.close()
		return nil, err
	}
	return a, nil
}

// close drains the progress listener and flushes traces.
func (a *app) close() {
	if a.bus != nil {
		a.bus.Close()
		<-a.done
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.tracer.Shutdown(shutdownCtx); err != nil {
		a.log.Warnf("Error shutting down tracer provider: %v", err)
	}
}

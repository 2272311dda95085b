package main

import (
	"fmt"

	"github.com/gxo-labs/gxs/internal/config"
	"github.com/gxo-labs/gxs/internal/report"
	"github.com/gxo-labs/gxs/internal/runner"

	"github.com/spf13/cobra"
)

type runOptions struct {
	suite       string
	cases       []string
	outDir      string
	format      string
	parallel    int
	metricsFile string
	progress    bool
}

func newRunCmd(global *globalOptions) *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Search every case of a suite with every strategy",
		Long: `Runs each case of the suite against each strategy, prints one table per case
and optionally writes the results to search_results_YYYYMMDD_HHMMSS.txt|json.
Cases without a goal are skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSuite(cmd, global, opts)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&opts.suite, "suite", "s", "", "Path to the suite YAML file (required)")
	f.StringArrayVarP(&opts.cases, "case", "c", nil, "Run only this case (repeatable)")
	f.StringVarP(&opts.outDir, "out", "o", "", "Directory to write the result file into")
	f.StringVar(&opts.format, "format", string(report.FormatText), "Output format (text, json)")
	f.IntVarP(&opts.parallel, "parallel", "p", 0, "Maximum concurrent searches (0 = one per CPU)")
	f.StringVar(&opts.metricsFile, "metrics-file", "", "Write Prometheus metrics to this file after the run")
	f.BoolVar(&opts.progress, "progress", true, "Print a line to stderr as each search finishes")
	_ = cmd.MarkFlagRequired("suite")
	return cmd
}

func runSuite(cmd *cobra.Command, global *globalOptions, opts *runOptions) error {
	format, err := report.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	if opts.parallel < 0 {
		return usageError{fmt.Errorf("--parallel cannot be negative, got %d", opts.parallel)}
	}

	ctx := cmd.Context()
	progress := cmd.ErrOrStderr()
	if !opts.progress {
		progress = nil
	}
	a, err := newApp(ctx, global, cmd.ErrOrStderr(), progress)
	if err != nil {
		return err
	}
	defer a.close()

	a.log.Infof("Loading suite: %s", opts.suite)
	suite, err := config.LoadSuiteFromFile(opts.suite)
	if err != nil {
		a.log.Errorf("Failed to load suite: %v", err)
		return err
	}

	result, err := a.runner.Run(ctx, suite, runner.Options{Cases: opts.cases, Parallel: opts.parallel})
	if err != nil {
		a.log.Errorf("Suite run failed: %v", err)
		return err
	}

	if err := report.Write(cmd.OutOrStdout(), result, format); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	if opts.outDir != "" {
		path, err := report.WriteFile(opts.outDir, result, format)
		if err != nil {
			return err
		}
		a.log.Infof("Results saved to %s", path)
	}
	if opts.metricsFile != "" {
		if err := a.metrics.WriteToTextfile(opts.metricsFile); err != nil {
			return fmt.Errorf("failed to write metrics file '%s': %w", opts.metricsFile, err)
		}
		a.log.Debugf("Metrics written to %s", opts.metricsFile)
	}

	if failed := result.Failed(); failed > 0 {
		a.log.Errorf("Suite '%s' finished with %d failed searches.", suite.Name, failed)
		return failedRunsError{failed: failed, total: len(result.Rows)}
	}
	a.log.Infof("Suite '%s' finished: %d searches in %s.", suite.Name, len(result.Rows), result.Duration)
	return nil
}

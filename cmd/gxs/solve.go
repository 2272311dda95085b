package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gxo-labs/gxs/internal/config"
	"github.com/gxo-labs/gxs/internal/report"
	"github.com/gxo-labs/gxs/internal/runner"
	gxs "github.com/gxo-labs/gxs/pkg/gxs/v1"

	"github.com/spf13/cobra"
)

type solveOptions struct {
	suite    string
	caseName string
	strategy string
	location string
	strength float64
	goals    []string
	trace    bool
}

func newSolveCmd(global *globalOptions) *cobra.Command {
	opts := &solveOptions{}
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Solve one case with one strategy and print the plan as JSON",
		Long: `Searches a single case and prints {success, status, path_length, actions,
final_state, stats}. The robot's start and the goal can be overridden, e.g.
  gxs solve -s suite.yaml -c case-1 --location workshop --goal "store room=1,2"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return solveCase(cmd, global, opts)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&opts.suite, "suite", "s", "", "Path to the suite YAML file (required)")
	f.StringVarP(&opts.caseName, "case", "c", "", "Case to solve (required)")
	f.StringVar(&opts.strategy, "strategy", "", "Strategy name (default: the suite's first)")
	f.StringVar(&opts.location, "location", "", "Override the robot's start room")
	f.Float64Var(&opts.strength, "strength", 0, "Override the robot's start strength")
	f.StringArrayVar(&opts.goals, "goal", nil, "Override the goal with room=id,id (repeatable)")
	f.BoolVar(&opts.trace, "trace", false, "Print every node removed from the frontier to stderr")
	_ = cmd.MarkFlagRequired("suite")
	_ = cmd.MarkFlagRequired("case")
	return cmd
}

func solveCase(cmd *cobra.Command, global *globalOptions, opts *solveOptions) error {
	goal, err := parseGoals(opts.goals)
	if err != nil {
		return err
	}

	a, err := newApp(cmd.Context(), global, cmd.ErrOrStderr(), nil)
	if err != nil {
		return err
	}
	defer a.close()

	suite, err := config.LoadSuiteFromFile(opts.suite)
	if err != nil {
		a.log.Errorf("Failed to load suite: %v", err)
		return err
	}

	req := runner.SolveRequest{
		Case:     opts.caseName,
		Strategy: opts.strategy,
		Location: opts.location,
		Goal:     goal,
	}
	if cmd.Flags().Changed("strength") {
		req.Strength = &opts.strength
	}
	if opts.trace {
		stderr := cmd.ErrOrStderr()
		req.Trace = func(entry gxs.TraceEntry) { fmt.Fprintln(stderr, entry.String()) }
	}

	sol, solveErr := a.runner.Solve(cmd.Context(), suite, req)
	if sol != nil {
		if err := report.WriteSolution(cmd.OutOrStdout(), sol); err != nil {
			return fmt.Errorf("failed to write solution: %w", err)
		}
	}
	return solveErr
}

// parseGoals turns ["store=1,2", "hall=3"] into a goal map.
func parseGoals(goals []string) (map[string][]int, error) {
	if len(goals) == 0 {
		return nil, nil
	}
	goal := make(map[string][]int, len(goals))
	for _, g := range goals {
		room, list, ok := strings.Cut(g, "=")
		room = strings.TrimSpace(room)
		if !ok || room == "" {
			return nil, usageError{fmt.Errorf("invalid --goal '%s' (want room=id,id)", g)}
		}
		for _, field := range strings.Split(list, ",") {
			field = strings.TrimSpace(field)
			if field == "" {
				continue
			}
			id, err := strconv.Atoi(field)
			if err != nil {
				return nil, usageError{fmt.Errorf("invalid item id '%s' in --goal '%s'", field, g)}
			}
			goal[room] = append(goal[room], id)
		}
	}
	return goal, nil
}

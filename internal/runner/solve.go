package runner

import (
	"context"
	"fmt"
	"strings"

	"github.com/gxo-labs/gxs/internal/config"
	"github.com/gxo-labs/gxs/internal/domain/robotworker"
	"github.com/gxo-labs/gxs/internal/engine"
	gxs "github.com/gxo-labs/gxs/pkg/gxs/v1"
	gxserrors "github.com/gxo-labs/gxs/pkg/gxs/v1/errors"
)

// SolveRequest selects one case and one strategy, with optional overrides of
// the robot's start and the goal.
type SolveRequest struct {
	Case string
	// Strategy names a suite strategy. Empty means the first one.
	Strategy string
	Location string
	Strength *float64
	// Goal replaces the case goal when non-empty.
	Goal  map[string][]int
	Trace gxs.TraceFunc
}

// Solution is the outcome of Solve.
type Solution struct {
	Success    bool                     `json:"success"`
	Status     gxs.TerminationCondition `json:"status,omitempty"`
	Message    string                   `json:"message,omitempty"`
	Case       string                   `json:"case"`
	Strategy   string                   `json:"strategy"`
	Algorithm  gxs.Strategy             `json:"algorithm,omitempty"`
	RunID      string                   `json:"run_id,omitempty"`
	PathLength int                      `json:"path_length"`
	Actions    []string                 `json:"actions"`
	FinalState *robotworker.Snapshot    `json:"final_state,omitempty"`
	Stats      *gxs.Stats               `json:"stats,omitempty"`
}

// Solve runs a single search and describes the plan found, if any. Not
// finding a plan is a successful call with Success false. A domain error is
// returned together with a Solution carrying the message.
func (r *Runner) Solve(ctx context.Context, suite *config.Suite, req SolveRequest) (*Solution, error) {
	if suite == nil {
		return nil, gxserrors.NewConfigError("suite cannot be nil", nil)
	}
	base, ok := suite.FindCase(req.Case)
	if !ok {
		return nil, gxserrors.NewNotFoundError("case", req.Case)
	}
	st, err := pickStrategy(suite, req.Strategy)
	if err != nil {
		return nil, err
	}

	c, err := applyOverrides(suite, *base, req)
	if err != nil {
		return nil, err
	}
	if !c.HasGoal() {
		return nil, gxserrors.NewValidationError(fmt.Sprintf("case '%s' defines no goal", c.Name), nil)
	}

	problem, err := robotworker.NewProblem(suite, &c)
	if err != nil {
		return nil, err
	}
	j, err := newJob(suite, problem, st)
	if err != nil {
		return nil, err
	}
	j.request.Trace = req.Trace

	sol := &Solution{Case: c.Name, Strategy: st.Name, Actions: []string{}}
	report, err := engine.Run(ctx, r.engine, j.request)
	if report != nil {
		sol.RunID = report.RunID
		sol.Algorithm = report.Strategy
		sol.Status = report.Result.Termination
		if j.request.Options.ReturnInfo {
			stats := report.Stats
			sol.Stats = &stats
		}
	}
	if err != nil {
		sol.Message = err.Error()
		return sol, err
	}

	if report.Result.Found {
		sol.Success = true
		sol.PathLength = report.Result.PathLength
		sol.Actions = actionStrings(report.Result.Path)
		if sol.Actions == nil {
			sol.Actions = []string{}
		}
		snap := report.Result.FinalState.Snapshot()
		sol.FinalState = &snap
		sol.Message = fmt.Sprintf("plan of %d actions found", sol.PathLength)
	} else {
		sol.Message = "no plan found: " + strings.ToLower(strings.ReplaceAll(string(sol.Status), "_", " "))
	}
	return sol, nil
}

func pickStrategy(suite *config.Suite, name string) (config.Strategy, error) {
	if name == "" {
		return suite.EffectiveStrategies()[0], nil
	}
	st, ok := suite.FindStrategy(name)
	if !ok {
		return config.Strategy{}, gxserrors.NewNotFoundError("strategy", name)
	}
	return st, nil
}

// applyOverrides returns a copy of c with the request's robot and goal
// overrides, validated like a case of the suite.
func applyOverrides(suite *config.Suite, c config.Case, req SolveRequest) (config.Case, error) {
	if req.Location == "" && req.Strength == nil && len(req.Goal) == 0 {
		return c, nil
	}

	robot := config.Robot{}
	if c.Robot != nil {
		robot = *c.Robot
	}
	if req.Location != "" {
		robot.Location = req.Location
	}
	if req.Strength != nil {
		robot.Strength = req.Strength
	}
	c.Robot = &robot
	if len(req.Goal) > 0 {
		c.Goal = req.Goal
	}

	check := *suite
	check.Strategies = nil
	check.Cases = []config.Case{c}
	if errs := config.ValidateSuiteStructure(&check); len(errs) > 0 {
		msgs := make([]string, 0, len(errs))
		for _, e := range errs {
			msgs = append(msgs, e.Error())
		}
		return c, gxserrors.NewValidationError(
			fmt.Sprintf("overrides for case '%s' are invalid: %s", c.Name, strings.Join(msgs, "; ")), errs[0])
	}
	return c, nil
}

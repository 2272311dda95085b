// Package runner executes the cases of a suite against its strategies and
// collects one result row per run.
package runner

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/gxo-labs/gxs/internal/config"
	"github.com/gxo-labs/gxs/internal/domain/robotworker"
	"github.com/gxo-labs/gxs/internal/engine"
	gxs "github.com/gxo-labs/gxs/pkg/gxs/v1"
	gxserrors "github.com/gxo-labs/gxs/pkg/gxs/v1/errors"
	gxslog "github.com/gxo-labs/gxs/pkg/gxs/v1/log"

	"golang.org/x/sync/errgroup"
)

// Options narrows and tunes a batch run.
type Options struct {
	// Cases limits the run to the named cases. Empty means all.
	Cases []string
	// Parallel bounds the number of concurrent searches. Zero means one per CPU.
	Parallel int
}

// Row is the outcome of one case and strategy pair.
type Row struct {
	Case        string                   `json:"case"`
	Strategy    string                   `json:"strategy"`
	Mode        gxs.Mode                 `json:"mode"`
	Randomise   bool                     `json:"randomise"`
	Heuristic   string                   `json:"heuristic,omitempty"`
	Cost        string                   `json:"cost,omitempty"`
	Algorithm   gxs.Strategy             `json:"algorithm"`
	RunID       string                   `json:"run_id,omitempty"`
	Termination gxs.TerminationCondition `json:"termination_condition,omitempty"`
	PathLength  int                      `json:"path_length"`
	Path        []string                 `json:"path,omitempty"`
	Stats       gxs.Stats                `json:"search_stats"`
	// ShowStats mirrors the strategy's return_info switch.
	ShowStats bool   `json:"-"`
	Error     string `json:"error,omitempty"`
}

// Found reports whether the run reached a goal.
func (r Row) Found() bool { return r.Termination == gxs.GoalStateFound }

// Result is a complete batch run.
type Result struct {
	Suite    string        `json:"suite"`
	Started  time.Time     `json:"started"`
	Duration time.Duration `json:"duration"`
	Rows     []Row         `json:"rows"`
	// Skipped lists cases without a goal.
	Skipped []string `json:"skipped,omitempty"`
}

// Failed counts rows that ended in a domain error.
func (r *Result) Failed() int {
	n := 0
	for _, row := range r.Rows {
		if row.Error != "" {
			n++
		}
	}
	return n
}

// Runner drives searches of robot worker suites through an Engine.
type Runner struct {
	engine *engine.Engine
	log    gxslog.Logger
}

// NewRunner creates a runner around e.
func NewRunner(e *engine.Engine, log gxslog.Logger) (*Runner, error) {
	if e == nil {
		return nil, gxserrors.NewConfigError("runner needs an engine", nil)
	}
	if log == nil {
		return nil, gxserrors.NewConfigError("logger cannot be nil", nil)
	}
	return &Runner{engine: e, log: log}, nil
}

// job is one fully resolved search.
type job struct {
	caseName string
	strategy config.Strategy
	request  gxs.Request[robotworker.State, robotworker.Action]
}

// Run searches every selected case with every strategy of the suite. Names
// of heuristics and cost functions are resolved before any search starts.
// Searches run concurrently but rows are returned in suite order: cases in
// file order, strategies in table order. A domain error fails only its own
// row.
func (r *Runner) Run(ctx context.Context, suite *config.Suite, opts Options) (*Result, error) {
	if suite == nil {
		return nil, gxserrors.NewConfigError("suite cannot be nil", nil)
	}
	cases, err := selectCases(suite, opts.Cases)
	if err != nil {
		return nil, err
	}

	result := &Result{Suite: suite.Name, Started: time.Now()}
	var jobs []job
	for _, c := range cases {
		if !c.HasGoal() {
			r.log.Warnf("Case '%s' defines no goal, skipping it.", c.Name)
			result.Skipped = append(result.Skipped, c.Name)
			continue
		}
		problem, err := robotworker.NewProblem(suite, c)
		if err != nil {
			return nil, err
		}
		for _, st := range suite.EffectiveStrategies() {
			j, err := newJob(suite, problem, st)
			if err != nil {
				return nil, err
			}
			jobs = append(jobs, j)
		}
	}

	parallel := opts.Parallel
	if parallel <= 0 {
		parallel = runtime.NumCPU()
	}
	r.log.Infof("Running %d searches over %d cases (parallel: %d)", len(jobs), len(cases)-len(result.Skipped), parallel)

	rows := make([]Row, len(jobs))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for i, j := range jobs {
		i, j := i, j
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			row, err := r.runJob(gCtx, j)
			rows[i] = row
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result.Rows = rows
	result.Duration = time.Since(result.Started)
	return result, nil
}

func (r *Runner) runJob(ctx context.Context, j job) (Row, error) {
	opts := j.request.Options
	row := Row{
		Case:      j.caseName,
		Strategy:  j.strategy.Name,
		Mode:      opts.Mode,
		Randomise: opts.Randomise,
		Heuristic: j.strategy.Heuristic,
		Cost:      j.strategy.Cost,
		ShowStats: opts.ReturnInfo,
	}

	report, err := engine.Run(ctx, r.engine, j.request)
	if report != nil {
		row.RunID = report.RunID
		row.Algorithm = report.Strategy
		row.Stats = report.Stats
		row.Termination = report.Result.Termination
		row.PathLength = report.Result.PathLength
		row.Path = actionStrings(report.Result.Path)
	}
	if err != nil {
		if gxserrors.IsDomainError(err) {
			row.Error = err.Error()
			return row, nil
		}
		return row, fmt.Errorf("search %s: %w", opts.Label, err)
	}
	return row, nil
}

func newJob(suite *config.Suite, problem *robotworker.Problem, st config.Strategy) (job, error) {
	heuristic, err := problem.Heuristic(st.Heuristic)
	if err != nil {
		return job{}, gxserrors.NewConfigError(fmt.Sprintf("strategy '%s'", st.Name), err)
	}
	cost, err := problem.Cost(st.Cost)
	if err != nil {
		return job{}, gxserrors.NewConfigError(fmt.Sprintf("strategy '%s'", st.Name), err)
	}
	opts := suite.SearchOptions(st)
	opts.Label = problem.Name() + "/" + st.Name
	return job{
		caseName: problem.Name(),
		strategy: st,
		request: gxs.Request[robotworker.State, robotworker.Action]{
			Problem:   problem,
			Heuristic: heuristic,
			Cost:      cost,
			Options:   opts,
		},
	}, nil
}

func selectCases(suite *config.Suite, names []string) ([]*config.Case, error) {
	if len(names) == 0 {
		out := make([]*config.Case, 0, len(suite.Cases))
		for i := range suite.Cases {
			out = append(out, &suite.Cases[i])
		}
		return out, nil
	}
	// Keep suite order whatever order the names were given in.
	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		if _, ok := suite.FindCase(name); !ok {
			return nil, gxserrors.NewNotFoundError("case", name)
		}
		wanted[name] = true
	}
	var out []*config.Case
	for i := range suite.Cases {
		if wanted[suite.Cases[i].Name] {
			out = append(out, &suite.Cases[i])
		}
	}
	return out, nil
}

func actionStrings(path []robotworker.Action) []string {
	if len(path) == 0 {
		return nil
	}
	out := make([]string, 0, len(path))
	for _, a := range path {
		out = append(out, a.String())
	}
	return out
}

// IsNotFound reports whether err names an unknown case, strategy, heuristic
// or cost function.
func IsNotFound(err error) bool {
	var nf *gxserrors.NotFoundError
	return errors.As(err, &nf)
}

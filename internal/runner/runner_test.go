package runner_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/gxo-labs/gxs/internal/config"
	"github.com/gxo-labs/gxs/internal/engine"
	"github.com/gxo-labs/gxs/internal/logger"
	"github.com/gxo-labs/gxs/internal/runner"
	gxs "github.com/gxo-labs/gxs/pkg/gxs/v1"
	gxserrors "github.com/gxo-labs/gxs/pkg/gxs/v1/errors"
	"github.com/gxo-labs/gxs/pkg/gxs/v1/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const suiteYAML = `
schemaVersion: "v1.0.0"
name: runner
items:
  - {id: 0, name: Key, weight: 1}
  - {id: 1, name: Box, weight: 3}
cases:
  - name: move-box
    rooms: {workshop: [1], store: []}
    doors: [{between: [workshop, store]}]
    robot: {location: workshop}
    goal: {store: [1]}
  - name: idle
    rooms: {workshop: [1]}
  - name: locked
    rooms: {workshop: [0], vault: [1]}
    doors: [{between: [workshop, vault], key: 0, locked: true}]
    robot: {location: workshop}
    goal: {workshop: [1]}
`

type countingBus struct {
	mu       sync.Mutex
	finished int
	labels   []string
}

func (b *countingBus) Emit(ev events.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ev.Type == events.SearchFinished {
		b.finished++
		b.labels = append(b.labels, ev.Label)
	}
}

func setup(t *testing.T, doc string) (*runner.Runner, *config.Suite, *countingBus) {
	t.Helper()
	suite, err := config.LoadSuite([]byte(doc), "runner_test.yaml")
	require.NoError(t, err)

	bus := &countingBus{}
	e, err := engine.NewEngine(logger.NewDiscardLogger(), gxs.WithEventBus(bus))
	require.NoError(t, err)
	r, err := runner.NewRunner(e, logger.NewDiscardLogger())
	require.NoError(t, err)
	return r, suite, bus
}

func TestRun_DefaultStrategies(t *testing.T) {
	r, suite, bus := setup(t, suiteYAML)

	result, err := r.Run(context.Background(), suite, runner.Options{Parallel: 4})
	require.NoError(t, err)
	assert.Equal(t, "runner", result.Suite)
	assert.Equal(t, []string{"idle"}, result.Skipped)
	require.Len(t, result.Rows, 6)

	var got []string
	for _, row := range result.Rows {
		got = append(got, row.Case+"/"+row.Strategy)
		assert.True(t, row.Found(), "%s/%s: %s", row.Case, row.Strategy, row.Termination)
		assert.Empty(t, row.Error)
		assert.NotEmpty(t, row.RunID)
		assert.True(t, row.ShowStats)
	}
	assert.Equal(t, []string{
		"move-box/breadth-first", "move-box/depth-first", "move-box/depth-first (randomised)",
		"locked/breadth-first", "locked/depth-first", "locked/depth-first (randomised)",
	}, got, "rows keep suite order")

	bfs := result.Rows[0]
	assert.Equal(t, gxs.StrategyBreadthFirst, bfs.Algorithm)
	assert.Equal(t, gxs.ModeBreadth, bfs.Mode)
	assert.Equal(t, 3, bfs.PathLength)
	assert.Equal(t, []string{"pick up Box", "move to store", "put down Box"}, bfs.Path)
	assert.Equal(t, 5, result.Rows[3].PathLength)
	assert.True(t, result.Rows[2].Randomise)
	assert.Equal(t, gxs.StrategyDepthFirst, result.Rows[2].Algorithm)
	assert.Zero(t, result.Failed())

	assert.Equal(t, 6, bus.finished)
	assert.Contains(t, bus.labels, "locked/breadth-first")
}

func TestRun_OrderIsStableUnderParallelism(t *testing.T) {
	var b strings.Builder
	b.WriteString(`
schemaVersion: "v1.0.0"
name: many
items:
  - {id: 0, name: Box, weight: 3}
strategies:
  - {name: bfs, mode: bf}
cases:
`)
	var want []string
	for i := 0; i < 12; i++ {
		name := fmt.Sprintf("case-%02d", i)
		want = append(want, name)
		fmt.Fprintf(&b, "  - name: %s\n    rooms: {a: [0], b: []}\n    doors: [{between: [a, b]}]\n    goal: {b: [0]}\n", name)
	}
	r, suite, _ := setup(t, b.String())

	result, err := r.Run(context.Background(), suite, runner.Options{Parallel: 5})
	require.NoError(t, err)
	require.Len(t, result.Rows, len(want))
	for i, row := range result.Rows {
		assert.Equal(t, want[i], row.Case)
		assert.Equal(t, 3, row.PathLength)
	}
}

func TestRun_CaseFilter(t *testing.T) {
	r, suite, _ := setup(t, suiteYAML)

	result, err := r.Run(context.Background(), suite, runner.Options{Cases: []string{"locked", "move-box"}, Parallel: 1})
	require.NoError(t, err)
	require.Len(t, result.Rows, 6)
	assert.Equal(t, "move-box", result.Rows[0].Case, "suite order, not flag order")

	_, err = r.Run(context.Background(), suite, runner.Options{Cases: []string{"nowhere"}})
	require.Error(t, err)
	assert.True(t, runner.IsNotFound(err))
}

func TestRun_HeuristicStrategies(t *testing.T) {
	doc := suiteYAML + `
strategies:
  - {name: astar, mode: breadth, heuristic: misplaced, cost: path_length}
  - {name: greedy, mode: breadth, heuristic: comprehensive, return_info: false}
  - {name: cheapest, mode: breadth, cost: weighted}
`
	r, suite, _ := setup(t, doc)
	result, err := r.Run(context.Background(), suite, runner.Options{Cases: []string{"locked"}})
	require.NoError(t, err)
	require.Len(t, result.Rows, 3)

	assert.Equal(t, gxs.StrategyAStar, result.Rows[0].Algorithm)
	assert.Equal(t, 5, result.Rows[0].PathLength)
	assert.Equal(t, "misplaced", result.Rows[0].Heuristic)
	assert.Equal(t, gxs.StrategyBestFirst, result.Rows[1].Algorithm)
	assert.False(t, result.Rows[1].ShowStats)
	assert.Equal(t, gxs.StrategyUniformCost, result.Rows[2].Algorithm)
	assert.Equal(t, 5, result.Rows[2].PathLength)
}

func TestRun_UnknownHeuristicFailsBeforeSearching(t *testing.T) {
	doc := suiteYAML + `
strategies:
  - {name: bfs, mode: breadth}
  - {name: psychic, mode: breadth, heuristic: telepathy}
`
	r, suite, bus := setup(t, doc)
	_, err := r.Run(context.Background(), suite, runner.Options{})
	require.Error(t, err)
	assert.True(t, runner.IsNotFound(err))
	assert.Contains(t, err.Error(), "telepathy")
	assert.Zero(t, bus.finished, "nothing ran")
}

func TestRun_CancelledContext(t *testing.T) {
	r, suite, _ := setup(t, suiteYAML)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := r.Run(ctx, suite, runner.Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSolve(t *testing.T) {
	r, suite, _ := setup(t, suiteYAML)

	var traced int
	sol, err := r.Solve(context.Background(), suite, runner.SolveRequest{
		Case:  "move-box",
		Trace: func(gxs.TraceEntry) { traced++ },
	})
	require.NoError(t, err)
	assert.True(t, sol.Success)
	assert.Equal(t, gxs.GoalStateFound, sol.Status)
	assert.Equal(t, "breadth-first", sol.Strategy)
	assert.Equal(t, 3, sol.PathLength)
	assert.Equal(t, []string{"pick up Box", "move to store", "put down Box"}, sol.Actions)
	require.NotNil(t, sol.FinalState)
	assert.Equal(t, "store", sol.FinalState.Location)
	require.NotNil(t, sol.Stats)
	assert.Equal(t, sol.Stats.NodesTested, traced)
}

func TestSolve_Overrides(t *testing.T) {
	r, suite, _ := setup(t, suiteYAML)

	weak := 3.05
	sol, err := r.Solve(context.Background(), suite, runner.SolveRequest{Case: "move-box", Strength: &weak})
	require.NoError(t, err)
	assert.False(t, sol.Success)
	assert.Equal(t, gxs.NoSolutionExists, sol.Status)
	assert.Equal(t, "no plan found: no solution exists", sol.Message)
	assert.Empty(t, sol.Actions)

	sol, err = r.Solve(context.Background(), suite, runner.SolveRequest{
		Case: "move-box",
		Goal: map[string][]int{"workshop": {1}},
	})
	require.NoError(t, err)
	assert.True(t, sol.Success, "the goal holds at the start")
	assert.Equal(t, 0, sol.PathLength)
	assert.NotNil(t, sol.Actions)

	sol, err = r.Solve(context.Background(), suite, runner.SolveRequest{Case: "locked", Location: "vault"})
	require.NoError(t, err)
	assert.Equal(t, gxs.NoSolutionExists, sol.Status, "the key is on the other side of the door")

	_, err = r.Solve(context.Background(), suite, runner.SolveRequest{Case: "move-box", Location: "attic"})
	var ve *gxserrors.ValidationError
	assert.True(t, errors.As(err, &ve))
}

func TestSolve_Errors(t *testing.T) {
	r, suite, _ := setup(t, suiteYAML)

	_, err := r.Solve(context.Background(), suite, runner.SolveRequest{Case: "missing"})
	assert.True(t, runner.IsNotFound(err))

	_, err = r.Solve(context.Background(), suite, runner.SolveRequest{Case: "move-box", Strategy: "missing"})
	assert.True(t, runner.IsNotFound(err))

	_, err = r.Solve(context.Background(), suite, runner.SolveRequest{Case: "idle"})
	var ve *gxserrors.ValidationError
	assert.True(t, errors.As(err, &ve), "a case without a goal cannot be solved")

	_, err = r.Solve(context.Background(), nil, runner.SolveRequest{})
	var ce *gxserrors.ConfigError
	assert.True(t, errors.As(err, &ce))
}

func TestNewRunner_Errors(t *testing.T) {
	_, err := runner.NewRunner(nil, logger.NewDiscardLogger())
	assert.Error(t, err)
	e, err := engine.NewEngine(logger.NewDiscardLogger())
	require.NoError(t, err)
	_, err = runner.NewRunner(e, nil)
	assert.Error(t, err)
}

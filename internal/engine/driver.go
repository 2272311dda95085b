package engine

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	gxs "github.com/gxo-labs/gxs/pkg/gxs/v1"
	"github.com/gxo-labs/gxs/pkg/gxs/v1/events"
	gxserrors "github.com/gxo-labs/gxs/pkg/gxs/v1/errors"
	gxslog "github.com/gxo-labs/gxs/pkg/gxs/v1/log"

	"github.com/gxo-labs/gxs/internal/frontier"
	intTracing "github.com/gxo-labs/gxs/internal/tracing"
	"github.com/gxo-labs/gxs/internal/visited"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/codes"
)

// Run executes one search to completion. The frontier, visited set and
// counters are private to the call.
//
// Configuration problems (nil problem, a node budget that is zero or
// negative, unknown mode) are returned as a ConfigError before the loop
// starts. An empty Mode means breadth first. A Problem failure aborts
// the run and is returned as a DomainError together with a report holding the
// counters reached so far. NO_SOLUTION_EXISTS and NODE_BUDGET_EXCEEDED are
// ordinary outcomes reported through Report.Result.Termination with a nil
// error.
//
// Run always returns the full report and does not read Options.ReturnInfo.
// Callers choose the result shape by calling Run or RunStatus; ReturnInfo
// carries that choice through suite files to the batch runner and the CLI.
//
// ctx carries tracing and logging context only; the node budget is the sole
// cancellation mechanism.
func Run[S gxs.State, A any](ctx context.Context, e *Engine, req gxs.Request[S, A]) (*gxs.Report[S, A], error) {
	if e == nil {
		return nil, gxserrors.NewConfigError("engine cannot be nil", nil)
	}
	if req.Problem == nil {
		return nil, gxserrors.NewConfigError("search request has no problem", nil)
	}
	opts := req.Options
	if opts.Mode == "" {
		opts.Mode = gxs.ModeBreadth
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	var rng *rand.Rand
	if opts.Randomise {
		seed := time.Now().UnixNano()
		if opts.Seed != nil {
			seed = *opts.Seed
		}
		rng = rand.New(rand.NewSource(seed))
	}
	front, strategy := frontier.Select[S, A](opts.Mode, opts.Randomise, req.Heuristic, req.Cost, rng)

	report := &gxs.Report[S, A]{RunID: uuid.NewString(), Strategy: strategy}
	log := e.log.With("run_id", report.RunID, "strategy", string(strategy))
	if opts.Label != "" {
		log = log.With("label", opts.Label)
	}

	tracer := e.tracerProvider.GetTracer(intTracing.TracerName)
	_, span := tracer.Start(ctx, intTracing.SpanSearchRun)
	defer span.End()
	span.SetAttributes(
		intTracing.AttrRunID.String(report.RunID),
		intTracing.AttrStrategy.String(string(strategy)),
		intTracing.AttrMode.String(string(opts.Mode)),
		intTracing.AttrRandomise.Bool(opts.Randomise),
		intTracing.AttrLoopCheck.Bool(opts.LoopCheck),
		intTracing.AttrNodeBudget.Int(opts.NodeBudget),
	)
	if opts.Label != "" {
		span.SetAttributes(intTracing.AttrRunLabel.String(opts.Label))
	}

	log.Debugf("Starting search (mode: %s, budget: %d, loop check: %t, randomise: %t)",
		opts.Mode, opts.NodeBudget, opts.LoopCheck, opts.Randomise)
	e.eventBus.Emit(events.Event{
		Type:      events.SearchStarted,
		Timestamp: time.Now(),
		RunID:     report.RunID,
		Label:     opts.Label,
		Payload:   map[string]interface{}{events.PayloadStrategy: string(strategy)},
	})

	s := &search[S, A]{
		problem:  req.Problem,
		cost:     req.Cost,
		trace:    req.Trace,
		frontier: front,
		budget:   opts.NodeBudget,
	}
	if opts.LoopCheck {
		s.visited = visited.NewTracker(0)
	}

	runErr := s.run()
	report.Result = s.result
	report.Stats = s.stats

	span.SetAttributes(
		intTracing.AttrGenerated.Int(s.stats.NodesGenerated),
		intTracing.AttrTested.Int(s.stats.NodesTested),
		intTracing.AttrDiscarded.Int(s.stats.NodesDiscarded),
		intTracing.AttrLeftInQueue.Int(s.stats.NodesLeftInQueue),
	)

	if runErr != nil {
		intTracing.RecordError(span, runErr)
		e.recordMetrics(strategy, terminationDomainError, s.stats)
		log.Errorf("Search aborted after %d nodes tested: %v", s.stats.NodesTested, runErr)
		e.eventBus.Emit(events.Event{
			Type:      events.DomainErrorOccurred,
			Timestamp: time.Now(),
			RunID:     report.RunID,
			Label:     opts.Label,
			Payload: map[string]interface{}{
				events.PayloadStrategy:    string(strategy),
				events.PayloadError:       runErr.Error(),
				events.PayloadNodesTested: s.stats.NodesTested,
				events.PayloadDuration:    s.stats.TimeTaken,
			},
		})
		return report, runErr
	}

	span.SetAttributes(
		intTracing.AttrTermination.String(string(s.result.Termination)),
		intTracing.AttrPathLength.Int(s.result.PathLength),
	)
	span.SetStatus(codes.Ok, "")
	e.recordMetrics(strategy, string(s.result.Termination), s.stats)
	logFinished(log, report)
	e.eventBus.Emit(events.Event{
		Type:      events.SearchFinished,
		Timestamp: time.Now(),
		RunID:     report.RunID,
		Label:     opts.Label,
		Payload: map[string]interface{}{
			events.PayloadStrategy:       string(strategy),
			events.PayloadTermination:    string(s.result.Termination),
			events.PayloadNodesGenerated: s.stats.NodesGenerated,
			events.PayloadNodesTested:    s.stats.NodesTested,
			events.PayloadNodesDiscarded: s.stats.NodesDiscarded,
			events.PayloadNodesLeft:      s.stats.NodesLeftInQueue,
			events.PayloadPathLength:     s.result.PathLength,
			events.PayloadDuration:       s.stats.TimeTaken,
		},
	})
	return report, nil
}

// RunStatus is Run for callers that only want the termination condition,
// the shape a strategy with return_info false asks for.
func RunStatus[S gxs.State, A any](ctx context.Context, e *Engine, req gxs.Request[S, A]) (gxs.TerminationCondition, error) {
	report, err := Run(ctx, e, req)
	if err != nil {
		return "", err
	}
	return report.Result.Termination, nil
}

func logFinished[S gxs.State, A any](log gxslog.Logger, report *gxs.Report[S, A]) {
	st := report.Stats
	log.Infof("Search finished: %s (tested: %d, generated: %d, discarded: %d, left: %d, path length: %d, took: %s)",
		report.Result.Termination, st.NodesTested, st.NodesGenerated, st.NodesDiscarded,
		st.NodesLeftInQueue, report.Result.PathLength, st.TimeTaken)
}

// search is the state of one invocation of the loop.
type search[S gxs.State, A any] struct {
	problem  gxs.Problem[S, A]
	cost     gxs.CostFunc[S, A]
	trace    gxs.TraceFunc
	frontier frontier.Frontier[S, A]
	visited  *visited.Tracker // nil when loop checking is off
	budget   int

	stats  gxs.Stats
	result gxs.Result[S, A]
}

func (s *search[S, A]) run() error {
	start := time.Now()
	defer func() {
		s.stats.NodesLeftInQueue = s.frontier.Len()
		s.stats.TimeTaken = time.Since(start)
	}()

	s.frontier.Insert(gxs.NewRootNode[S, A](s.problem.InitialState()))
	s.stats.NodesGenerated = 1

	for !s.frontier.Empty() && s.stats.NodesTested < s.budget {
		node := s.frontier.Remove()
		s.stats.NodesTested++
		state := node.State()

		var fingerprint string
		if s.visited != nil || s.trace != nil {
			fingerprint = state.Fingerprint()
		}
		if s.visited != nil && !s.visited.Mark(fingerprint) {
			s.stats.NodesDiscarded++
			s.emitTrace(node, fingerprint, gxs.TraceDiscarded, 0)
			continue
		}

		if s.problem.GoalTest(state) {
			s.result = gxs.Result[S, A]{
				Termination: gxs.GoalStateFound,
				Found:       true,
				Path:        node.Path(),
				PathLength:  node.Depth(),
				FinalState:  state,
			}
			s.emitTrace(node, fingerprint, gxs.TraceGoal, 0)
			return nil
		}

		actions, err := s.problem.PossibleActions(state)
		if err != nil {
			return gxserrors.NewDomainError(gxserrors.OpPossibleActions, state.Fingerprint(), "", err)
		}
		batch := make([]*gxs.Node[S, A], 0, len(actions))
		for _, action := range actions {
			next, err := s.problem.Successor(state, action)
			if err != nil {
				return gxserrors.NewDomainError(gxserrors.OpSuccessor, state.Fingerprint(), fmt.Sprint(action), err)
			}
			batch = append(batch, node.Child(action, next, s.cost))
		}
		s.frontier.Insert(batch...)
		s.stats.NodesGenerated += len(batch)
		s.emitTrace(node, fingerprint, gxs.TraceExpanded, len(batch))
	}

	if s.frontier.Empty() {
		s.result = gxs.Result[S, A]{Termination: gxs.NoSolutionExists}
	} else {
		s.result = gxs.Result[S, A]{Termination: gxs.NodeBudgetExceeded}
	}
	return nil
}

func (s *search[S, A]) emitTrace(node *gxs.Node[S, A], fingerprint string, outcome gxs.TraceOutcome, children int) {
	if s.trace == nil {
		return
	}
	s.trace(gxs.TraceEntry{
		Seq:         s.stats.NodesTested,
		Depth:       node.Depth(),
		Cost:        node.Cost(),
		Fingerprint: fingerprint,
		Outcome:     outcome,
		Children:    children,
	})
}

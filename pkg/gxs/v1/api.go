package v1

import (
	"fmt"
	"strings"
	"time"

	"github.com/gxo-labs/gxs/pkg/gxs/v1/events"
	gxserrors "github.com/gxo-labs/gxs/pkg/gxs/v1/errors"
	"github.com/gxo-labs/gxs/pkg/gxs/v1/metrics"
	"github.com/gxo-labs/gxs/pkg/gxs/v1/tracing"
)

// DefaultNodeBudget is the expansion budget used when none is configured.
const DefaultNodeBudget = 1000000

// State is a domain value the engine can search over. Two states are the same
// for loop checking if and only if their fingerprints are equal, so the
// fingerprint must be canonical (independent of map iteration order etc.).
type State interface {
	Fingerprint() string
}

// Problem is the capability the engine consumes. All methods must be pure
// with respect to the state passed in; Successor returns a new state value.
type Problem[S State, A any] interface {
	InitialState() S
	// PossibleActions returns every action legal from state. Order seeds tie-breaking.
	PossibleActions(state S) ([]A, error)
	// Successor applies action to state. Applying an action not returned by
	// PossibleActions is undefined for the domain and not checked by the engine.
	Successor(state S, action A) (S, error)
	GoalTest(state S) bool
}

// HeuristicFunc estimates the remaining cost from state to a goal.
type HeuristicFunc[S State] func(state S) float64

// CostFunc returns the accumulated cost of reaching state via path. path is
// a private copy; changes to it do not affect the search.
type CostFunc[S State, A any] func(path []A, state S) float64

// PathLengthCost charges one unit per action.
func PathLengthCost[S State, A any](path []A, _ S) float64 {
	return float64(len(path))
}

// Mode selects the uninformed traversal order.
type Mode string

const (
	ModeBreadth Mode = "breadth"
	ModeDepth   Mode = "depth"
)

// ParseMode accepts the canonical names plus the short and queue-style
// aliases ("bf", "BF/FIFO", "df", "DF/LIFO").
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "breadth", "bf", "bfs", "bf/fifo", "fifo":
		return ModeBreadth, nil
	case "depth", "df", "dfs", "df/lifo", "lifo":
		return ModeDepth, nil
	default:
		return "", gxserrors.NewConfigError(fmt.Sprintf("unknown search mode '%s' (want breadth or depth)", s), nil)
	}
}

// Strategy names the frontier discipline chosen for a run.
type Strategy string

const (
	StrategyBreadthFirst Strategy = "breadth_first"
	StrategyDepthFirst   Strategy = "depth_first"
	StrategyBestFirst    Strategy = "best_first"
	StrategyAStar        Strategy = "astar"
	StrategyUniformCost  Strategy = "uniform_cost"
)

// TerminationCondition is the terminal state of a search run.
type TerminationCondition string

const (
	GoalStateFound     TerminationCondition = "GOAL_STATE_FOUND"
	NoSolutionExists   TerminationCondition = "NO_SOLUTION_EXISTS"
	NodeBudgetExceeded TerminationCondition = "NODE_BUDGET_EXCEEDED"
)

// SearchOptions are the per-run switches. All are independent and combinable.
type SearchOptions struct {
	Mode       Mode   `yaml:"mode" json:"mode"`
	NodeBudget int    `yaml:"node_budget" json:"node_budget"`
	LoopCheck  bool   `yaml:"loop_check" json:"loop_check"`
	Randomise  bool   `yaml:"randomise" json:"randomise"`
	Seed       *int64 `yaml:"seed,omitempty" json:"seed,omitempty"`
	// ReturnInfo is read by the batch runner and the CLI, which print the
	// counters only when it is set. engine.Run ignores it and always reports
	// them; engine.RunStatus is the bare-status entry point.
	ReturnInfo bool `yaml:"return_info" json:"return_info"`
	// Label tags logs and events of this run, e.g. "case-1/bfs".
	Label string `yaml:"-" json:"-"`
}

// DefaultSearchOptions returns breadth-first search with loop checking and the default budget.
func DefaultSearchOptions() SearchOptions {
	return SearchOptions{
		Mode:       ModeBreadth,
		NodeBudget: DefaultNodeBudget,
		LoopCheck:  true,
		ReturnInfo: true,
	}
}

// Validate rejects configurations the driver cannot start with.
func (o SearchOptions) Validate() error {
	if o.NodeBudget <= 0 {
		return gxserrors.NewConfigError(fmt.Sprintf("node budget must be positive, got %d", o.NodeBudget), nil)
	}
	if o.Mode != ModeBreadth && o.Mode != ModeDepth {
		return gxserrors.NewConfigError(fmt.Sprintf("unknown search mode '%s' (want breadth or depth)", o.Mode), nil)
	}
	return nil
}

// Seed returns a pointer to s, for SearchOptions.Seed literals.
func Seed(s int64) *int64 { return &s }

// TraceOutcome classifies one removal from the frontier.
type TraceOutcome string

const (
	TraceExpanded  TraceOutcome = "expanded"
	TraceDiscarded TraceOutcome = "discarded"
	TraceGoal      TraceOutcome = "goal"
)

// TraceEntry describes one removal from the frontier.
type TraceEntry struct {
	Seq         int          `json:"seq"` // value of NodesTested after the removal
	Depth       int          `json:"depth"`
	Cost        float64      `json:"cost"`
	Fingerprint string       `json:"fingerprint"`
	Outcome     TraceOutcome `json:"outcome"`
	Children    int          `json:"children"`
}

func (t TraceEntry) String() string {
	return fmt.Sprintf("#%d depth=%d cost=%g %s children=%d %s", t.Seq, t.Depth, t.Cost, t.Outcome, t.Children, t.Fingerprint)
}

// TraceFunc receives the verbose trace of a run. It is called synchronously
// from the search loop.
type TraceFunc func(entry TraceEntry)

// Request bundles everything one search run needs.
type Request[S State, A any] struct {
	Problem   Problem[S, A]
	Heuristic HeuristicFunc[S] // optional; alone selects best-first
	Cost      CostFunc[S, A]   // optional; with a heuristic selects A*, alone uniform cost
	Options   SearchOptions
	Trace     TraceFunc // optional verbose trace sink
}

// Result is the outcome of a search. Path and FinalState are set iff Found.
type Result[S State, A any] struct {
	Termination TerminationCondition `json:"termination_condition"`
	Found       bool                 `json:"found"`
	Path        []A                  `json:"path,omitempty"`
	PathLength  int                  `json:"path_length"`
	FinalState  S                    `json:"-"`
}

// Stats are the counters of a run. They are the sole observability surface
// of the search loop.
type Stats struct {
	NodesGenerated   int           `json:"nodes_generated"`
	NodesTested      int           `json:"nodes_tested"`
	NodesDiscarded   int           `json:"nodes_discarded"`
	NodesLeftInQueue int           `json:"nodes_left_in_queue"`
	TimeTaken        time.Duration `json:"time_taken"`
}

// Report is the full structure returned by engine.Run.
type Report[S State, A any] struct {
	RunID    string       `json:"run_id"`
	Strategy Strategy     `json:"strategy"`
	Result   Result[S, A] `json:"result"`
	Stats    Stats        `json:"search_stats"`
}

// EngineV1 defines the configuration surface of the GXS search engine. The
// search itself is the generic function engine.Run.
type EngineV1 interface {
	// MetricsRegistryProvider returns the underlying metrics provider.
	MetricsRegistryProvider() metrics.RegistryProvider
	// TracerProvider returns the underlying tracing provider.
	TracerProvider() tracing.TracerProvider

	SetEventBus(bus events.Bus) error
	SetMetricsRegistryProvider(provider metrics.RegistryProvider) error
	SetTracerProvider(provider tracing.TracerProvider) error
}

// EngineOption is a function type used to configure the engine at creation.
type EngineOption func(EngineV1) error

// WithEventBus is an engine option to provide a custom event bus.
func WithEventBus(bus events.Bus) EngineOption {
	return func(e EngineV1) error {
		if bus == nil {
			return gxserrors.NewConfigError("event bus cannot be nil", nil)
		}
		return e.SetEventBus(bus)
	}
}

// WithMetricsRegistryProvider is an engine option to provide a custom metrics provider.
func WithMetricsRegistryProvider(provider metrics.RegistryProvider) EngineOption {
	return func(e EngineV1) error {
		if provider == nil {
			return gxserrors.NewConfigError("metrics registry provider cannot be nil", nil)
		}
		return e.SetMetricsRegistryProvider(provider)
	}
}

// WithTracerProvider is an engine option to provide a custom tracing provider.
func WithTracerProvider(provider tracing.TracerProvider) EngineOption {
	return func(e EngineV1) error {
		if provider == nil {
			return gxserrors.NewConfigError("tracer provider cannot be nil", nil)
		}
		return e.SetTracerProvider(provider)
	}
}

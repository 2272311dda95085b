// Package frontier provides the open-list disciplines of the search driver.
//
// Every discipline implements Frontier. Which one a run uses is decided by
// Select from the run's mode, randomise flag and the presence of a heuristic
// or cost function.
package frontier

import (
	"math/rand"

	gxs "github.com/gxo-labs/gxs/pkg/gxs/v1"
)

// Frontier is the set of generated nodes awaiting expansion.
type Frontier[S gxs.State, A any] interface {
	// Insert adds a batch of sibling nodes in discovery order.
	Insert(nodes ...*gxs.Node[S, A])
	// Remove takes the next node. It returns nil when the frontier is empty.
	Remove() *gxs.Node[S, A]
	Empty() bool
	Len() int
}

// Select picks the discipline for a run:
//
//   - no heuristic, no cost: FIFO for breadth mode, LIFO for depth mode
//   - heuristic only: best-first on heuristic(state)
//   - cost (with or without heuristic): A* on cost + heuristic(state)
//
// When randomise is set the chosen frontier shuffles every inserted batch
// using rng. rng must not be nil in that case.
func Select[S gxs.State, A any](mode gxs.Mode, randomise bool, heuristic gxs.HeuristicFunc[S], cost gxs.CostFunc[S, A], rng *rand.Rand) (Frontier[S, A], gxs.Strategy) {
	var (
		f        Frontier[S, A]
		strategy gxs.Strategy
	)
	switch {
	case cost != nil && heuristic != nil:
		f, strategy = NewAStar[S, A](heuristic), gxs.StrategyAStar
	case cost != nil:
		f, strategy = NewAStar[S, A](nil), gxs.StrategyUniformCost
	case heuristic != nil:
		f, strategy = NewBestFirst[S, A](heuristic), gxs.StrategyBestFirst
	case mode == gxs.ModeDepth:
		f, strategy = NewLIFO[S, A](), gxs.StrategyDepthFirst
	default:
		f, strategy = NewFIFO[S, A](), gxs.StrategyBreadthFirst
	}
	if randomise {
		f = NewShuffled(f, rng)
	}
	return f, strategy
}

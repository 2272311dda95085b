package frontier

import (
	"container/heap"

	gxs "github.com/gxo-labs/gxs/pkg/gxs/v1"
)

// KeyFunc computes the priority of a node; lower is removed first.
type KeyFunc[S gxs.State, A any] func(n *gxs.Node[S, A]) float64

// Priority removes the node with the minimum key. Equal keys come out in
// discovery order. Keys are computed once, at insertion.
type Priority[S gxs.State, A any] struct {
	items entries[S, A]
	key   KeyFunc[S, A]
	seq   uint64
}

// NewPriority builds a priority frontier over an arbitrary key.
func NewPriority[S gxs.State, A any](key KeyFunc[S, A]) *Priority[S, A] {
	return &Priority[S, A]{key: key}
}

// NewBestFirst orders nodes by heuristic(state).
func NewBestFirst[S gxs.State, A any](heuristic gxs.HeuristicFunc[S]) *Priority[S, A] {
	return NewPriority[S, A](func(n *gxs.Node[S, A]) float64 {
		return heuristic(n.State())
	})
}

// NewAStar orders nodes by accumulated cost plus heuristic(state). A nil
// heuristic counts as zero, which gives uniform-cost search.
func NewAStar[S gxs.State, A any](heuristic gxs.HeuristicFunc[S]) *Priority[S, A] {
	if heuristic == nil {
		return NewPriority[S, A](func(n *gxs.Node[S, A]) float64 { return n.Cost() })
	}
	return NewPriority[S, A](func(n *gxs.Node[S, A]) float64 {
		return n.Cost() + heuristic(n.State())
	})
}

func (p *Priority[S, A]) Insert(nodes ...*gxs.Node[S, A]) {
	for _, n := range nodes {
		heap.Push(&p.items, entry[S, A]{node: n, key: p.key(n), seq: p.seq})
		p.seq++
	}
}

func (p *Priority[S, A]) Remove() *gxs.Node[S, A] {
	if len(p.items) == 0 {
		return nil
	}
	return heap.Pop(&p.items).(entry[S, A]).node
}

func (p *Priority[S, A]) Empty() bool { return len(p.items) == 0 }
func (p *Priority[S, A]) Len() int    { return len(p.items) }

type entry[S gxs.State, A any] struct {
	node *gxs.Node[S, A]
	key  float64
	seq  uint64
}

// entries implements heap.Interface.
type entries[S gxs.State, A any] []entry[S, A]

func (e entries[S, A]) Len() int { return len(e) }
func (e entries[S, A]) Less(i, j int) bool {
	if e[i].key != e[j].key {
		return e[i].key < e[j].key
	}
	return e[i].seq < e[j].seq
}
func (e entries[S, A]) Swap(i, j int) { e[i], e[j] = e[j], e[i] }

func (e *entries[S, A]) Push(x any) { *e = append(*e, x.(entry[S, A])) }

func (e *entries[S, A]) Pop() any {
	old := *e
	last := len(old) - 1
	item := old[last]
	old[last] = entry[S, A]{}
	*e = old[:last]
	return item
}

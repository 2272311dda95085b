package frontier

import gxs "github.com/gxo-labs/gxs/pkg/gxs/v1"

// compactThreshold is the number of consumed slots after which the FIFO
// moves its live tail to the front of the backing array.
const compactThreshold = 1024

// FIFO is the breadth-first discipline: insert at the back, remove from the front.
type FIFO[S gxs.State, A any] struct {
	nodes []*gxs.Node[S, A]
	head  int
}

func NewFIFO[S gxs.State, A any]() *FIFO[S, A] {
	return &FIFO[S, A]{}
}

func (q *FIFO[S, A]) Insert(nodes ...*gxs.Node[S, A]) {
	q.nodes = append(q.nodes, nodes...)
}

func (q *FIFO[S, A]) Remove() *gxs.Node[S, A] {
	if q.head >= len(q.nodes) {
		return nil
	}
	n := q.nodes[q.head]
	q.nodes[q.head] = nil
	q.head++
	if q.head >= compactThreshold && q.head*2 >= len(q.nodes) {
		live := copy(q.nodes, q.nodes[q.head:])
		clear(q.nodes[live:])
		q.nodes = q.nodes[:live]
		q.head = 0
	}
	return n
}

func (q *FIFO[S, A]) Empty() bool { return q.Len() == 0 }
func (q *FIFO[S, A]) Len() int    { return len(q.nodes) - q.head }

// LIFO is the depth-first discipline: insert at the back, remove from the back.
type LIFO[S gxs.State, A any] struct {
	nodes []*gxs.Node[S, A]
}

func NewLIFO[S gxs.State, A any]() *LIFO[S, A] {
	return &LIFO[S, A]{}
}

func (s *LIFO[S, A]) Insert(nodes ...*gxs.Node[S, A]) {
	s.nodes = append(s.nodes, nodes...)
}

func (s *LIFO[S, A]) Remove() *gxs.Node[S, A] {
	last := len(s.nodes) - 1
	if last < 0 {
		return nil
	}
	n := s.nodes[last]
	s.nodes[last] = nil
	s.nodes = s.nodes[:last]
	return n
}

func (s *LIFO[S, A]) Empty() bool { return len(s.nodes) == 0 }
func (s *LIFO[S, A]) Len() int    { return len(s.nodes) }

package v1

// Node is a search-tree node. It is immutable once built: its path is never
// shared with the parent's path and accessors hand out copies.
type Node[S State, A any] struct {
	state S
	path  []A
	cost  float64
}

// NewRootNode wraps the initial state with an empty path and zero cost.
func NewRootNode[S State, A any](state S) *Node[S, A] {
	return &Node[S, A]{state: state}
}

// Child builds the node reached by applying action. The accumulated cost
// comes from cost, or the path length when cost is nil. cost sees its own
// copy of the path, so nothing it does to the slice reaches the node.
func (n *Node[S, A]) Child(action A, state S, cost CostFunc[S, A]) *Node[S, A] {
	path := make([]A, len(n.path)+1)
	copy(path, n.path)
	path[len(n.path)] = action

	child := &Node[S, A]{state: state, path: path, cost: float64(len(path))}
	if cost != nil {
		scratch := make([]A, len(path))
		copy(scratch, path)
		child.cost = cost(scratch, state)
	}
	return child
}

func (n *Node[S, A]) State() S { return n.state }

// Path returns a copy of the actions leading from the initial state to this node.
func (n *Node[S, A]) Path() []A {
	out := make([]A, len(n.path))
	copy(out, n.path)
	return out
}

// Depth is the path length.
func (n *Node[S, A]) Depth() int { return len(n.path) }

// Cost is the accumulated cost of the path.
func (n *Node[S, A]) Cost() float64 { return n.cost }

// LastAction returns the action that produced this node, false for the root.
func (n *Node[S, A]) LastAction() (A, bool) {
	var zero A
	if len(n.path) == 0 {
		return zero, false
	}
	return n.path[len(n.path)-1], true
}

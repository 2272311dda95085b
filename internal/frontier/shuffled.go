package frontier

import (
	"math/rand"

	gxs "github.com/gxo-labs/gxs/pkg/gxs/v1"
)

// Shuffled permutes each inserted batch uniformly at random before handing it
// to the wrapped frontier. Over a LIFO this is randomised depth-first search:
// the stack discipline is unchanged, only the order of siblings differs.
type Shuffled[S gxs.State, A any] struct {
	inner Frontier[S, A]
	rng   *rand.Rand
}

func NewShuffled[S gxs.State, A any](inner Frontier[S, A], rng *rand.Rand) *Shuffled[S, A] {
	return &Shuffled[S, A]{inner: inner, rng: rng}
}

func (f *Shuffled[S, A]) Insert(nodes ...*gxs.Node[S, A]) {
	batch := make([]*gxs.Node[S, A], len(nodes))
	copy(batch, nodes)
	f.rng.Shuffle(len(batch), func(i, j int) { batch[i], batch[j] = batch[j], batch[i] })
	f.inner.Insert(batch...)
}

func (f *Shuffled[S, A]) Remove() *gxs.Node[S, A] { return f.inner.Remove() }
func (f *Shuffled[S, A]) Empty() bool             { return f.inner.Empty() }
func (f *Shuffled[S, A]) Len() int                { return f.inner.Len() }

package frontier_test

import (
	"math/rand"
	"testing"

	"github.com/gxo-labs/gxs/internal/frontier"
	gxs "github.com/gxo-labs/gxs/pkg/gxs/v1"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type num int

func (n num) Fingerprint() string { return string(rune('a' + int(n))) }

// nodes builds children of a root, one per value, with cost equal to depth.
func nodes(values ...int) []*gxs.Node[num, int] {
	root := gxs.NewRootNode[num, int](0)
	out := make([]*gxs.Node[num, int], 0, len(values))
	for _, v := range values {
		out = append(out, root.Child(v, num(v), nil))
	}
	return out
}

func drain(f frontier.Frontier[num, int]) []int {
	var out []int
	for !f.Empty() {
		out = append(out, int(f.Remove().State()))
	}
	return out
}

func TestFIFO(t *testing.T) {
	f := frontier.NewFIFO[num, int]()
	assert.True(t, f.Empty())
	assert.Nil(t, f.Remove())

	f.Insert(nodes(1, 2)...)
	f.Insert(nodes(3)...)
	assert.Equal(t, 3, f.Len())
	assert.Equal(t, []int{1, 2, 3}, drain(f))
	assert.Equal(t, 0, f.Len())
}

func TestFIFO_CompactsAfterManyRemovals(t *testing.T) {
	f := frontier.NewFIFO[num, int]()
	for i := 0; i < 3000; i++ {
		f.Insert(nodes(i % 20)...)
		if i%2 == 1 {
			require.NotNil(t, f.Remove())
		}
	}
	assert.Equal(t, 1500, f.Len())
	first := f.Remove()
	require.NotNil(t, first)
	assert.Equal(t, num(1500%20), first.State(), "order survives compaction")
}

func TestLIFO(t *testing.T) {
	f := frontier.NewLIFO[num, int]()
	assert.Nil(t, f.Remove())

	f.Insert(nodes(1, 2)...)
	f.Insert(nodes(3, 4)...)
	assert.Equal(t, []int{4, 3, 2, 1}, drain(f))
}

func TestBestFirst_TiesInDiscoveryOrder(t *testing.T) {
	h := func(s num) float64 { return float64(s % 2) }
	f := frontier.NewBestFirst[num, int](h)

	f.Insert(nodes(1, 2, 3, 4)...)
	f.Insert(nodes(6, 5)...)
	assert.Equal(t, []int{2, 4, 6, 1, 3, 5}, drain(f))
	assert.Nil(t, f.Remove())
}

func TestAStar_OrdersByCostPlusHeuristic(t *testing.T) {
	root := gxs.NewRootNode[num, int](0)
	deep := root.Child(1, 1, nil).Child(2, 2, nil).Child(3, 3, nil) // cost 3
	shallow := root.Child(4, 4, nil)                                // cost 1

	h := map[num]float64{3: 0, 4: 5}
	f := frontier.NewAStar[num, int](func(s num) float64 { return h[s] })
	f.Insert(shallow, deep)

	assert.Equal(t, num(3), f.Remove().State(), "3+0 beats 1+5")
	assert.Equal(t, num(4), f.Remove().State())
}

func TestAStar_NilHeuristicIsUniformCost(t *testing.T) {
	root := gxs.NewRootNode[num, int](0)
	a := root.Child(1, 1, nil).Child(2, 2, nil)
	b := root.Child(3, 3, nil)

	f := frontier.NewAStar[num, int](nil)
	f.Insert(a, b)
	assert.Equal(t, num(3), f.Remove().State())
	assert.Equal(t, num(2), f.Remove().State())
}

func TestShuffled_SeededPermutation(t *testing.T) {
	run := func(seed int64) []int {
		f := frontier.NewShuffled[num, int](frontier.NewLIFO[num, int](), rand.New(rand.NewSource(seed)))
		f.Insert(nodes(0, 1, 2, 3, 4, 5, 6, 7, 8, 9)...)
		return drain(f)
	}

	first := run(7)
	assert.Equal(t, first, run(7), "a fixed seed gives a fixed order")
	assert.ElementsMatch(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, first)
}

func TestShuffled_DoesNotReorderCallerSlice(t *testing.T) {
	batch := nodes(0, 1, 2, 3, 4, 5)
	f := frontier.NewShuffled[num, int](frontier.NewFIFO[num, int](), rand.New(rand.NewSource(1)))
	f.Insert(batch...)

	for i, n := range batch {
		assert.Equal(t, num(i), n.State())
	}
	assert.Equal(t, 6, f.Len())
}

func TestSelect(t *testing.T) {
	h := func(num) float64 { return 0 }
	c := gxs.PathLengthCost[num, int]
	rng := rand.New(rand.NewSource(1))

	tests := []struct {
		name      string
		mode      gxs.Mode
		randomise bool
		heuristic gxs.HeuristicFunc[num]
		cost      gxs.CostFunc[num, int]
		want      gxs.Strategy
	}{
		{"breadth", gxs.ModeBreadth, false, nil, nil, gxs.StrategyBreadthFirst},
		{"depth", gxs.ModeDepth, false, nil, nil, gxs.StrategyDepthFirst},
		{"randomised depth", gxs.ModeDepth, true, nil, nil, gxs.StrategyDepthFirst},
		{"heuristic only", gxs.ModeDepth, false, h, nil, gxs.StrategyBestFirst},
		{"cost only", gxs.ModeBreadth, false, nil, c, gxs.StrategyUniformCost},
		{"cost and heuristic", gxs.ModeBreadth, false, h, c, gxs.StrategyAStar},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, strategy := frontier.Select[num, int](tt.mode, tt.randomise, tt.heuristic, tt.cost, rng)
			require.NotNil(t, f)
			assert.Equal(t, tt.want, strategy)
			if tt.randomise {
				assert.IsType(t, &frontier.Shuffled[num, int]{}, f)
			}
		})
	}
}

package engine_test

import (
	"errors"
	"fmt"

	gxs "github.com/gxo-labs/gxs/pkg/gxs/v1"
)

// vertex is a named node of an explicit graph.
type vertex string

func (v vertex) Fingerprint() string { return string(v) }

var errBadVertex = errors.New("vertex cannot be expanded")

// graphProblem searches an explicit directed graph. Actions are the names of
// the target vertices, in adjacency order.
type graphProblem struct {
	start    vertex
	goal     vertex
	edges    map[vertex][]vertex
	weights  map[[2]vertex]float64
	failOn   vertex // PossibleActions fails here
	failMove vertex // Successor fails when moving here
}

var _ gxs.Problem[vertex, string] = (*graphProblem)(nil)

func (g *graphProblem) InitialState() vertex { return g.start }

func (g *graphProblem) PossibleActions(v vertex) ([]string, error) {
	if g.failOn != "" && v == g.failOn {
		return nil, errBadVertex
	}
	out := make([]string, 0, len(g.edges[v]))
	for _, next := range g.edges[v] {
		out = append(out, string(next))
	}
	return out, nil
}

func (g *graphProblem) Successor(_ vertex, action string) (vertex, error) {
	if g.failMove != "" && vertex(action) == g.failMove {
		return "", fmt.Errorf("cannot move to %s", action)
	}
	return vertex(action), nil
}

func (g *graphProblem) GoalTest(v vertex) bool { return g.goal != "" && v == g.goal }

// weightedCost sums the edge weights along path (1 for unweighted edges).
func (g *graphProblem) weightedCost(path []string, _ vertex) float64 {
	total := 0.0
	from := g.start
	for _, step := range path {
		to := vertex(step)
		if w, ok := g.weights[[2]vertex{from, to}]; ok {
			total += w
		} else {
			total++
		}
		from = to
	}
	return total
}

// diamond: A branches to B and C, which both lead to D, then G.
func diamond() *graphProblem {
	return &graphProblem{
		start: "A",
		goal:  "G",
		edges: map[vertex][]vertex{
			"A": {"B", "C"},
			"B": {"D"},
			"C": {"D"},
			"D": {"G"},
		},
	}
}

// shortAndLong has a two-step route via C and a three-step route via B.
// B is listed last so that depth-first takes it first.
func shortAndLong() *graphProblem {
	return &graphProblem{
		start: "A",
		goal:  "G",
		edges: map[vertex][]vertex{
			"A": {"C", "B"},
			"B": {"D"},
			"D": {"G"},
			"C": {"G"},
		},
	}
}

// chain is v0 -> v1 -> ... -> v(n-1) with the goal at the end.
func chain(n int) *graphProblem {
	g := &graphProblem{start: "v0", goal: vertex(fmt.Sprintf("v%d", n-1)), edges: map[vertex][]vertex{}}
	for i := 0; i < n-1; i++ {
		g.edges[vertex(fmt.Sprintf("v%d", i))] = []vertex{vertex(fmt.Sprintf("v%d", i+1))}
	}
	return g
}

// cycle is a three-vertex ring with no goal.
func cycle() *graphProblem {
	return &graphProblem{
		start: "X",
		edges: map[vertex][]vertex{
			"X": {"Y"},
			"Y": {"Z"},
			"Z": {"X"},
		},
	}
}

// weighted has a cheap-looking first hop to A whose continuation is
// expensive. The optimal route S-B-C-G costs 6.
func weighted() *graphProblem {
	return &graphProblem{
		start: "S",
		goal:  "G",
		edges: map[vertex][]vertex{
			"S": {"A", "B"},
			"A": {"G"},
			"B": {"C"},
			"C": {"G"},
		},
		weights: map[[2]vertex]float64{
			{"S", "A"}: 1,
			{"A", "G"}: 10,
			{"S", "B"}: 2,
			{"B", "C"}: 2,
			{"C", "G"}: 2,
		},
	}
}

// weightedHeuristic is admissible for weighted(): it never exceeds the true
// remaining cost.
func weightedHeuristic(v vertex) float64 {
	return map[vertex]float64{"S": 5, "A": 6, "B": 4, "C": 2, "G": 0}[v]
}

// cell is a grid coordinate.
type cell struct{ x, y int }

func (c cell) Fingerprint() string { return fmt.Sprintf("%d,%d", c.x, c.y) }

// gridProblem is an open w x h grid with four-way moves.
type gridProblem struct {
	w, h  int
	start cell
	goal  cell
}

func (g *gridProblem) InitialState() cell { return g.start }

func (g *gridProblem) PossibleActions(c cell) ([]string, error) {
	var out []string
	if c.y > 0 {
		out = append(out, "N")
	}
	if c.x < g.w-1 {
		out = append(out, "E")
	}
	if c.y < g.h-1 {
		out = append(out, "S")
	}
	if c.x > 0 {
		out = append(out, "W")
	}
	return out, nil
}

func (g *gridProblem) Successor(c cell, action string) (cell, error) {
	switch action {
	case "N":
		return cell{c.x, c.y - 1}, nil
	case "E":
		return cell{c.x + 1, c.y}, nil
	case "S":
		return cell{c.x, c.y + 1}, nil
	case "W":
		return cell{c.x - 1, c.y}, nil
	}
	return c, fmt.Errorf("unknown move %q", action)
}

func (g *gridProblem) GoalTest(c cell) bool { return c == g.goal }

func (g *gridProblem) manhattan(c cell) float64 {
	dx, dy := g.goal.x-c.x, g.goal.y-c.y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return float64(dx + dy)
}

func grid(n int) *gridProblem {
	return &gridProblem{w: n, h: n, start: cell{0, 0}, goal: cell{n - 1, n - 1}}
}

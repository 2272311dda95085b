package robotworker

import (
	"github.com/gxo-labs/gxs/internal/catalog"
	gxs "github.com/gxo-labs/gxs/pkg/gxs/v1"
)

// HeuristicFactory builds a heuristic bound to one problem's goal.
type HeuristicFactory func(p *Problem) gxs.HeuristicFunc[State]

// CostFactory builds a cost function for one problem.
type CostFactory func(p *Problem) gxs.CostFunc[State, Action]

// Heuristics and Costs are the named functions suites can select.
var (
	Heuristics = catalog.NewStaticRegistry[HeuristicFactory]("heuristic")
	Costs      = catalog.NewStaticRegistry[CostFactory]("cost function")
)

// batteryRatio is the strength to heaviest-goal-item ratio below which the
// battery heuristics add the cost of fetching the battery.
const batteryRatio = 1.5

func init() {
	Heuristics.MustRegister("misplaced", func(p *Problem) gxs.HeuristicFunc[State] {
		return func(s State) float64 { return float64(p.misplaced(s)) }
	})
	Heuristics.MustRegister("carry_right_items", func(p *Problem) gxs.HeuristicFunc[State] {
		return func(s State) float64 { return float64(p.carryRightItems(s)) }
	})
	Heuristics.MustRegister("locked_doors", func(p *Problem) gxs.HeuristicFunc[State] {
		return func(s State) float64 { return float64(p.lockedDoors(s)) }
	})
	Heuristics.MustRegister("misplaced_locked", func(p *Problem) gxs.HeuristicFunc[State] {
		return func(s State) float64 { return float64(p.misplaced(s) + p.lockedDoors(s)) }
	})
	Heuristics.MustRegister("battery_aware", func(p *Problem) gxs.HeuristicFunc[State] {
		return func(s State) float64 { return float64(p.misplaced(s) + p.batteryCost(s)) }
	})
	Heuristics.MustRegister("comprehensive", func(p *Problem) gxs.HeuristicFunc[State] {
		return func(s State) float64 { return float64(p.misplaced(s) + 2*p.lockedDoors(s) + p.batteryCost(s)) }
	})

	Costs.MustRegister("path_length", func(*Problem) gxs.CostFunc[State, Action] {
		return gxs.PathLengthCost[State, Action]
	})
	Costs.MustRegister("weighted", func(*Problem) gxs.CostFunc[State, Action] {
		return WeightedCost
	})
}

// Heuristic resolves a registered heuristic for p. The empty name means no
// heuristic.
func (p *Problem) Heuristic(name string) (gxs.HeuristicFunc[State], error) {
	if name == "" {
		return nil, nil
	}
	factory, err := Heuristics.Get(name)
	if err != nil {
		return nil, err
	}
	return factory(p), nil
}

// Cost resolves a registered cost function for p. The empty name means no
// cost function.
func (p *Problem) Cost(name string) (gxs.CostFunc[State, Action], error) {
	if name == "" {
		return nil, nil
	}
	factory, err := Costs.Get(name)
	if err != nil {
		return nil, err
	}
	return factory(p), nil
}

// WeightedCost charges 1 per move and 0.5 per pick-up or put-down.
func WeightedCost(path []Action, _ State) float64 {
	total := 0.0
	for _, a := range path {
		if a.Verb == Move {
			total++
		} else {
			total += 0.5
		}
	}
	return total
}

// misplaced counts goal items not lying in their goal room.
func (p *Problem) misplaced(s State) int {
	n := 0
	for _, id := range p.goalItems {
		if !containsID(s.contents[p.goal[id]], id) {
			n++
		}
	}
	return n
}

// carryRightItems counts carried items that are neither goal items nor door
// keys, plus goal items left on the floor of the wrong room.
func (p *Problem) carryRightItems(s State) int {
	n := 0
	for _, id := range s.carried {
		if _, isGoal := p.goal[id]; !isGoal && !p.world.keys[id] {
			n++
		}
	}
	for _, id := range p.goalItems {
		if s.Carrying(id) {
			continue
		}
		if room, ok := s.RoomOf(id); ok && room != p.goal[id] {
			n++
		}
	}
	return n
}

// lockedDoors counts doors still locked whose key the robot does not carry.
func (p *Problem) lockedDoors(s State) int {
	n := 0
	for i, d := range p.world.doors {
		if s.locked[i] && !(d.key != noItem && s.Carrying(d.key)) {
			n++
		}
	}
	return n
}

// batteryCost estimates the steps needed to fetch the battery: 1 if it lies
// in the robot's room, 2 otherwise. It is zero when the robot already carries
// the battery, when none is lying anywhere, or when the robot is strong
// enough relative to the heaviest goal item.
func (p *Problem) batteryCost(s State) int {
	battery := p.world.battery
	if battery == noItem || p.maxGoalWeight == 0 || s.Carrying(battery) {
		return 0
	}
	room, ok := s.RoomOf(battery)
	if !ok {
		return 0
	}
	if float64(s.strength)/float64(p.maxGoalWeight) >= batteryRatio {
		return 0
	}
	if room == s.location {
		return 1
	}
	return 2
}

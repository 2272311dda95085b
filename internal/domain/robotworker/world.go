// Package robotworker is the logistics puzzle searched by gxs: a robot moves
// items between rooms joined by doors, some locked, while its strength decays
// with every action and a battery item can boost it.
package robotworker

import (
	"fmt"
	"math"
	"sort"

	"github.com/gxo-labs/gxs/internal/config"
	gxserrors "github.com/gxo-labs/gxs/pkg/gxs/v1/errors"
)

// noItem marks a door without a key and a world without a battery.
const noItem = -1

// toMilli converts a strength or weight to thousandths. All arithmetic on
// strength is done in this unit so fingerprints compare exactly.
func toMilli(v float64) int64 { return int64(math.Round(v * 1000)) }

func fromMilli(v int64) float64 { return float64(v) / 1000 }

type item struct {
	id     int
	name   string
	weight int64
}

type door struct {
	a, b string
	key  int // noItem when the door has no key
}

// joins reports whether the door connects room to another room, and which.
func (d door) joins(room string) (string, bool) {
	switch room {
	case d.a:
		return d.b, true
	case d.b:
		return d.a, true
	}
	return "", false
}

// World is the immutable part of a case: the item catalogue, the rooms, the
// door layout and the energy rules. States point at their World.
type World struct {
	items        map[int]item
	rooms        []string // sorted
	doors        []door   // config order
	keys         map[int]bool
	decay        int64
	battery      int // noItem when the catalogue has no battery
	batteryBoost int64
}

func (w *World) itemName(id int) string {
	if it, ok := w.items[id]; ok {
		return it.name
	}
	return fmt.Sprintf("item#%d", id)
}

func (w *World) weightOf(ids []int) int64 {
	var total int64
	for _, id := range ids {
		total += w.items[id].weight
	}
	return total
}

// NewProblem builds the search problem for one case of a suite. The suite is
// expected to have passed config validation; the checks here only guard the
// invariants the search relies on.
func NewProblem(suite *config.Suite, c *config.Case) (*Problem, error) {
	if suite == nil || c == nil {
		return nil, gxserrors.NewConfigError("robot worker problem needs a suite and a case", nil)
	}

	w := &World{
		items:        make(map[int]item, len(suite.Items)),
		rooms:        c.RoomNames(),
		keys:         make(map[int]bool),
		decay:        toMilli(suite.Decay()),
		battery:      noItem,
		batteryBoost: toMilli(suite.BatteryBoost()),
	}
	if len(w.rooms) == 0 {
		return nil, gxserrors.NewValidationError(fmt.Sprintf("case '%s' has no rooms", c.Name), nil)
	}
	for _, it := range suite.Items {
		w.items[it.ID] = item{id: it.ID, name: it.Name, weight: toMilli(it.Weight)}
		if it.Name == suite.BatteryItem() {
			w.battery = it.ID
		}
	}

	locked := make([]bool, 0, len(c.Doors))
	for i, d := range c.Doors {
		if len(d.Between) != 2 {
			return nil, gxserrors.NewValidationError(fmt.Sprintf("case '%s' door %d must join exactly two rooms", c.Name, i), nil)
		}
		key := noItem
		if d.Key != nil {
			key = *d.Key
			w.keys[key] = true
		}
		w.doors = append(w.doors, door{a: d.Between[0], b: d.Between[1], key: key})
		locked = append(locked, d.Locked)
	}

	contents := make(map[string][]int, len(w.rooms))
	for _, room := range w.rooms {
		contents[room] = sortedCopy(c.Rooms[room])
	}

	location := c.RobotLocation()
	if _, ok := contents[location]; !ok {
		return nil, gxserrors.NewValidationError(fmt.Sprintf("case '%s' robot location '%s' is not a room", c.Name, location), nil)
	}

	goal := make(map[int]string)
	var maxGoalWeight int64
	for room, ids := range c.Goal {
		for _, id := range ids {
			goal[id] = room
			if wt := w.items[id].weight; wt > maxGoalWeight {
				maxGoalWeight = wt
			}
		}
	}

	return &Problem{
		name:  c.Name,
		world: w,
		initial: State{
			world:    w,
			location: location,
			carried:  sortedCopy(c.RobotCarried()),
			strength: toMilli(c.RobotStrength()),
			contents: contents,
			locked:   locked,
		},
		goal:          goal,
		goalItems:     sortedKeys(goal),
		maxGoalWeight: maxGoalWeight,
	}, nil
}

func sortedCopy(ids []int) []int {
	out := append([]int(nil), ids...)
	sort.Ints(out)
	return out
}

func sortedKeys(m map[int]string) []int {
	out := make([]int, 0, len(m))
	for id := range m {
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}

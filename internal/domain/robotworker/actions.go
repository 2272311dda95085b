package robotworker

import (
	"errors"
	"fmt"

	gxs "github.com/gxo-labs/gxs/pkg/gxs/v1"
)

// Verb is the kind of an Action.
type Verb int

const (
	PutDown Verb = iota
	PickUp
	Move
)

func (v Verb) String() string {
	switch v {
	case PutDown:
		return "put down"
	case PickUp:
		return "pick up"
	case Move:
		return "move to"
	}
	return fmt.Sprintf("verb(%d)", int(v))
}

// Action is one robot step. Item is set for PutDown and PickUp, Room for
// Move. Name is the item's display name.
type Action struct {
	Verb Verb
	Item int
	Name string
	Room string
}

func (a Action) String() string {
	if a.Verb == Move {
		return a.Verb.String() + " " + a.Room
	}
	return a.Verb.String() + " " + a.Name
}

// MarshalText renders the action as its String form, e.g. "pick up Key".
func (a Action) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// ErrIllegalAction is returned by Successor for an action the state does
// not allow.
var ErrIllegalAction = errors.New("illegal action")

// Problem is a robot worker case ready to be searched.
type Problem struct {
	name          string
	world         *World
	initial       State
	goal          map[int]string // item id -> goal room
	goalItems     []int          // sorted keys of goal
	maxGoalWeight int64
}

var _ gxs.Problem[State, Action] = (*Problem)(nil)

// Name is the case name.
func (p *Problem) Name() string { return p.name }

func (p *Problem) InitialState() State { return p.initial }

// PossibleActions lists put-downs of carried items, then pick-ups of items
// in the room, then moves through passable doors in door order. Each action
// is legal only if the strength left after it still covers the load.
func (p *Problem) PossibleActions(s State) ([]Action, error) {
	w := p.world
	load := s.carriedWeight()
	remaining := s.strength - w.decay

	var actions []Action
	for _, id := range s.carried {
		after := remaining
		if id == w.battery {
			after -= w.batteryBoost
		}
		if after >= load-w.items[id].weight {
			actions = append(actions, Action{Verb: PutDown, Item: id, Name: w.itemName(id)})
		}
	}
	for _, id := range s.contents[s.location] {
		after := remaining
		if id == w.battery {
			after += w.batteryBoost
		}
		if after >= load+w.items[id].weight {
			actions = append(actions, Action{Verb: PickUp, Item: id, Name: w.itemName(id)})
		}
	}
	if remaining >= load {
		for i, d := range w.doors {
			other, ok := d.joins(s.location)
			if !ok {
				continue
			}
			if !s.locked[i] || (d.key != noItem && s.Carrying(d.key)) {
				actions = append(actions, Action{Verb: Move, Item: noItem, Room: other})
			}
		}
	}
	return actions, nil
}

// Successor applies a to s. Moving through a door the robot holds the key
// for unlocks every locked door between the two rooms. Every action costs
// the world's decay in strength.
func (p *Problem) Successor(s State, a Action) (State, error) {
	w := p.world
	next := s
	switch a.Verb {
	case PutDown:
		if !s.Carrying(a.Item) {
			return s, fmt.Errorf("%w: robot is not carrying %s", ErrIllegalAction, a.Name)
		}
		next.carried = withoutID(s.carried, a.Item)
		next.contents = replaceRoom(s.contents, s.location, withID(s.contents[s.location], a.Item))
		if a.Item == w.battery {
			next.strength -= w.batteryBoost
		}
	case PickUp:
		if !containsID(s.contents[s.location], a.Item) {
			return s, fmt.Errorf("%w: %s is not in %s", ErrIllegalAction, a.Name, s.location)
		}
		next.carried = withID(s.carried, a.Item)
		next.contents = replaceRoom(s.contents, s.location, withoutID(s.contents[s.location], a.Item))
		if a.Item == w.battery {
			next.strength += w.batteryBoost
		}
	case Move:
		passable := false
		var unlocked []bool
		for i, d := range w.doors {
			other, ok := d.joins(s.location)
			if !ok || other != a.Room {
				continue
			}
			hasKey := d.key != noItem && s.Carrying(d.key)
			if !s.locked[i] {
				passable = true
				continue
			}
			if hasKey {
				passable = true
				if unlocked == nil {
					unlocked = append([]bool(nil), s.locked...)
				}
				unlocked[i] = false
			}
		}
		if !passable {
			return s, fmt.Errorf("%w: no open door from %s to %s", ErrIllegalAction, s.location, a.Room)
		}
		if unlocked != nil {
			next.locked = unlocked
		}
		next.location = a.Room
	default:
		return s, fmt.Errorf("%w: unknown verb %d", ErrIllegalAction, int(a.Verb))
	}
	next.strength -= w.decay
	return next, nil
}

// GoalTest reports whether every goal item lies in its goal room.
func (p *Problem) GoalTest(s State) bool {
	for _, id := range p.goalItems {
		if !containsID(s.contents[p.goal[id]], id) {
			return false
		}
	}
	return true
}

// replaceRoom returns a copy of contents with room set to ids.
func replaceRoom(contents map[string][]int, room string, ids []int) map[string][]int {
	out := make(map[string][]int, len(contents))
	for r, v := range contents {
		out[r] = v
	}
	out[room] = ids
	return out
}

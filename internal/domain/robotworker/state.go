package robotworker

import (
	"sort"
	"strconv"
	"strings"
)

// State is one configuration of a case. States are values: successors copy
// the slices they change and share the rest, and nothing mutates a slice
// after construction.
type State struct {
	world    *World
	location string
	carried  []int // sorted ids
	strength int64 // thousandths
	contents map[string][]int
	locked   []bool // indexed like World.doors
}

// Location is the robot's current room.
func (s State) Location() string { return s.location }

// Strength is the robot's remaining strength.
func (s State) Strength() float64 { return fromMilli(s.strength) }

// Carrying reports whether the robot holds item id.
func (s State) Carrying(id int) bool { return containsID(s.carried, id) }

// RoomOf returns the room holding item id, if it lies in one.
func (s State) RoomOf(id int) (string, bool) {
	for _, room := range s.world.rooms {
		if containsID(s.contents[room], id) {
			return room, true
		}
	}
	return "", false
}

func (s State) carriedWeight() int64 { return s.world.weightOf(s.carried) }

// Fingerprint identifies the state exactly: location, carried items,
// strength, door locks and room contents in canonical order.
func (s State) Fingerprint() string {
	var b strings.Builder
	b.WriteString(s.location)
	b.WriteByte('|')
	writeIDs(&b, s.carried)
	b.WriteByte('|')
	b.WriteString(strconv.FormatInt(s.strength, 10))
	b.WriteByte('|')
	for _, l := range s.locked {
		if l {
			b.WriteByte('L')
		} else {
			b.WriteByte('U')
		}
	}
	for _, room := range s.world.rooms {
		b.WriteByte('|')
		b.WriteString(room)
		b.WriteByte('=')
		writeIDs(&b, s.contents[room])
	}
	return b.String()
}

func writeIDs(b *strings.Builder, ids []int) {
	for i, id := range ids {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(id))
	}
}

// Snapshot is a printable view of a state with item names resolved.
type Snapshot struct {
	Location    string              `json:"location"`
	Carried     []string            `json:"carried"`
	Strength    float64             `json:"strength"`
	Rooms       map[string][]string `json:"rooms"`
	LockedDoors []string            `json:"locked_doors,omitempty"`
}

// Snapshot resolves the state's item ids to names.
func (s State) Snapshot() Snapshot {
	snap := Snapshot{
		Location: s.location,
		Carried:  s.names(s.carried),
		Strength: s.Strength(),
		Rooms:    make(map[string][]string, len(s.contents)),
	}
	for room, ids := range s.contents {
		snap.Rooms[room] = s.names(ids)
	}
	for i, d := range s.world.doors {
		if s.locked[i] {
			pair := []string{d.a, d.b}
			sort.Strings(pair)
			snap.LockedDoors = append(snap.LockedDoors, pair[0]+" <-> "+pair[1])
		}
	}
	return snap
}

func (s State) names(ids []int) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.world.itemName(id))
	}
	return out
}

func containsID(ids []int, id int) bool {
	i := sort.SearchInts(ids, id)
	return i < len(ids) && ids[i] == id
}

// withID returns a sorted copy of ids with id added.
func withID(ids []int, id int) []int {
	out := make([]int, 0, len(ids)+1)
	i := sort.SearchInts(ids, id)
	out = append(out, ids[:i]...)
	out = append(out, id)
	return append(out, ids[i:]...)
}

// withoutID returns a copy of ids with id removed.
func withoutID(ids []int, id int) []int {
	out := make([]int, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

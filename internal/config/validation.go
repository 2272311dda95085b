package config

import (
	"fmt"

	gxs "github.com/gxo-labs/gxs/pkg/gxs/v1"
	gxserrors "github.com/gxo-labs/gxs/pkg/gxs/v1/errors"
)

// ValidateSuiteStructure checks the cross-field rules the schema cannot
// express: unique names and ids, references to known rooms and items, the
// battery item, modes and budgets. It returns every problem found.
func ValidateSuiteStructure(s *Suite) []error {
	var errs []error
	addf := func(format string, args ...interface{}) {
		errs = append(errs, gxserrors.NewValidationError(fmt.Sprintf(format, args...), nil))
	}

	if len(s.Items) == 0 {
		addf("suite must define at least one item in 'items'")
	}
	itemIDs := make(map[int]string, len(s.Items))
	itemNames := make(map[string]bool, len(s.Items))
	for i, item := range s.Items {
		if prev, exists := itemIDs[item.ID]; exists {
			addf("item %d ('%s'): id %d is already used by '%s'", i, item.Name, item.ID, prev)
		}
		itemIDs[item.ID] = item.Name
		if itemNames[item.Name] {
			addf("item %d: duplicate item name '%s'", i, item.Name)
		}
		itemNames[item.Name] = true
		if item.Weight < 0 {
			addf("item %d ('%s'): weight cannot be negative", i, item.Name)
		}
	}

	if s.Energy != nil {
		if s.Energy.Decay != nil && *s.Energy.Decay < 0 {
			addf("energy.decay cannot be negative")
		}
		if s.Energy.BatteryBoost != nil && *s.Energy.BatteryBoost < 0 {
			addf("energy.battery_boost cannot be negative")
		}
		if s.Energy.BatteryItem != "" && !itemNames[s.Energy.BatteryItem] {
			addf("energy.battery_item '%s' is not a defined item", s.Energy.BatteryItem)
		}
	}

	if s.Defaults != nil && s.Defaults.NodeBudget < 0 {
		addf("defaults.node_budget must be positive")
	}

	strategyNames := make(map[string]bool)
	for i, st := range s.Strategies {
		display := fmt.Sprintf("strategy %d ('%s')", i, st.Name)
		if st.Name == "" {
			addf("strategy %d: 'name' is required", i)
		}
		if strategyNames[st.Name] {
			addf("%s: duplicate strategy name", display)
		}
		strategyNames[st.Name] = true
		if _, err := gxs.ParseMode(st.Mode); err != nil {
			addf("%s: unknown mode '%s' (want breadth, depth or an alias such as BF/FIFO, DF/LIFO)", display, st.Mode)
		}
		if st.NodeBudget < 0 {
			addf("%s: node_budget must be positive", display)
		}
	}

	if len(s.Cases) == 0 {
		addf("suite must define at least one case in 'cases'")
	}
	caseNames := make(map[string]bool)
	for i := range s.Cases {
		errs = append(errs, validateCase(i, &s.Cases[i], itemIDs, caseNames)...)
	}

	return errs
}

func validateCase(idx int, c *Case, itemIDs map[int]string, seen map[string]bool) []error {
	var errs []error
	display := fmt.Sprintf("case %d ('%s')", idx, c.Name)
	addf := func(format string, args ...interface{}) {
		errs = append(errs, gxserrors.NewValidationError(display+": "+fmt.Sprintf(format, args...), nil))
	}

	if c.Name == "" {
		addf("'name' is required")
	}
	if seen[c.Name] {
		addf("duplicate case name")
	}
	seen[c.Name] = true

	if len(c.Rooms) == 0 {
		addf("must define at least one room")
	}

	// Every item may be in at most one place at the start.
	placed := make(map[int]string)
	place := func(id int, where string) {
		if _, ok := itemIDs[id]; !ok {
			addf("%s refers to unknown item id %d", where, id)
			return
		}
		if prev, dup := placed[id]; dup {
			addf("item %d is placed twice (%s and %s)", id, prev, where)
			return
		}
		placed[id] = where
	}
	for _, room := range c.RoomNames() {
		for _, id := range c.Rooms[room] {
			place(id, fmt.Sprintf("room '%s'", room))
		}
	}

	if c.Robot != nil {
		if c.Robot.Location != "" {
			if _, ok := c.Rooms[c.Robot.Location]; !ok {
				addf("robot location '%s' is not a room of this case", c.Robot.Location)
			}
		}
		for _, id := range c.Robot.Carried {
			place(id, "robot")
		}
		if c.Robot.Strength != nil && *c.Robot.Strength < 0 {
			addf("robot strength cannot be negative")
		}
	}

	for i, door := range c.Doors {
		if len(door.Between) != 2 {
			addf("door %d: 'between' must name exactly two rooms", i)
			continue
		}
		if door.Between[0] == door.Between[1] {
			addf("door %d: cannot join room '%s' to itself", i, door.Between[0])
		}
		for _, room := range door.Between {
			if _, ok := c.Rooms[room]; !ok {
				addf("door %d: unknown room '%s'", i, room)
			}
		}
		if door.Key != nil {
			if _, ok := itemIDs[*door.Key]; !ok {
				addf("door %d: key refers to unknown item id %d", i, *door.Key)
			}
		}
		if door.Locked && door.Key == nil {
			addf("door %d: locked door has no key and can never be opened", i)
		}
	}

	goalItems := make(map[int]string)
	for room, ids := range c.Goal {
		if _, ok := c.Rooms[room]; !ok {
			addf("goal refers to unknown room '%s'", room)
		}
		for _, id := range ids {
			if _, ok := itemIDs[id]; !ok {
				addf("goal for room '%s' refers to unknown item id %d", room, id)
				continue
			}
			if prev, dup := goalItems[id]; dup && prev != room {
				addf("goal places item %d in both '%s' and '%s'", id, prev, room)
			}
			goalItems[id] = room
			if _, ok := placed[id]; !ok {
				addf("goal item %d is not present anywhere in the case", id)
			}
		}
	}
	return errs
}

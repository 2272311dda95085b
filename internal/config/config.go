package config

import (
	"sort"

	gxs "github.com/gxo-labs/gxs/pkg/gxs/v1"
)

// Defaults applied when a suite leaves a field out.
const (
	DefaultDecay         = 0.1
	DefaultBatteryItem   = "Battery"
	DefaultBatteryBoost  = 10.0
	DefaultRobotStrength = 10.0
)

// Suite is the top-level structure of a GXS suite file: the item catalogue,
// the problem cases and the strategies to run against each case.
type Suite struct {
	SchemaVersion string     `yaml:"schemaVersion"`
	Name          string     `yaml:"name"`
	Items         []Item     `yaml:"items"`
	Energy        *Energy    `yaml:"energy,omitempty"`
	Defaults      *Defaults  `yaml:"defaults,omitempty"`
	Strategies    []Strategy `yaml:"strategies,omitempty"`
	Cases         []Case     `yaml:"cases"`

	// FilePath is the source file, for messages. It is not parsed from the YAML.
	FilePath string `yaml:"-"`
}

// Item is an object the robot can carry.
type Item struct {
	ID     int     `yaml:"id"`
	Name   string  `yaml:"name"`
	Weight float64 `yaml:"weight"`
}

// Energy configures the robot's strength bookkeeping.
type Energy struct {
	// Decay is subtracted from the strength by every action. Zero disables it.
	Decay *float64 `yaml:"decay,omitempty"`
	// BatteryItem names the item that boosts strength while carried.
	BatteryItem  string   `yaml:"battery_item,omitempty"`
	BatteryBoost *float64 `yaml:"battery_boost,omitempty"`
}

// Defaults are suite-wide search settings a strategy may override.
type Defaults struct {
	NodeBudget int   `yaml:"node_budget,omitempty"`
	LoopCheck  *bool `yaml:"loop_check,omitempty"`
}

// Strategy is one way of searching a case.
type Strategy struct {
	Name       string `yaml:"name"`
	Mode       string `yaml:"mode"`
	Randomise  bool   `yaml:"randomise,omitempty"`
	Seed       *int64 `yaml:"seed,omitempty"`
	Heuristic  string `yaml:"heuristic,omitempty"`
	Cost       string `yaml:"cost,omitempty"`
	NodeBudget int    `yaml:"node_budget,omitempty"`
	LoopCheck  *bool  `yaml:"loop_check,omitempty"`
	ReturnInfo *bool  `yaml:"return_info,omitempty"`
}

// Case is one problem instance.
type Case struct {
	Name  string           `yaml:"name"`
	Rooms map[string][]int `yaml:"rooms"`
	Doors []Door           `yaml:"doors,omitempty"`
	Robot *Robot           `yaml:"robot,omitempty"`
	// Goal maps rooms to the items that must end up there. A case without a
	// goal is skipped by the batch runner.
	Goal map[string][]int `yaml:"goal,omitempty"`
}

// Door joins two rooms. A locked door opens for a robot carrying Key and
// stays unlocked afterwards.
type Door struct {
	Between []string `yaml:"between"`
	Key     *int     `yaml:"key,omitempty"`
	Locked  bool     `yaml:"locked,omitempty"`
}

// Robot is the initial robot configuration of a case.
type Robot struct {
	Location string   `yaml:"location,omitempty"`
	Carried  []int    `yaml:"carried,omitempty"`
	Strength *float64 `yaml:"strength,omitempty"`
}

// DefaultStrategies is the strategy table used when a suite lists none:
// breadth-first, depth-first and randomised depth-first.
func DefaultStrategies() []Strategy {
	return []Strategy{
		{Name: "breadth-first", Mode: "BF/FIFO"},
		{Name: "depth-first", Mode: "DF/LIFO"},
		{Name: "depth-first (randomised)", Mode: "DF/LIFO", Randomise: true},
	}
}

// EffectiveStrategies returns the suite's strategies or DefaultStrategies.
func (s *Suite) EffectiveStrategies() []Strategy {
	if len(s.Strategies) == 0 {
		return DefaultStrategies()
	}
	return s.Strategies
}

// FindCase returns the case with the given name.
func (s *Suite) FindCase(name string) (*Case, bool) {
	for i := range s.Cases {
		if s.Cases[i].Name == name {
			return &s.Cases[i], true
		}
	}
	return nil, false
}

// FindStrategy returns the effective strategy with the given name.
func (s *Suite) FindStrategy(name string) (Strategy, bool) {
	for _, st := range s.EffectiveStrategies() {
		if st.Name == name {
			return st, true
		}
	}
	return Strategy{}, false
}

// SearchOptions resolves st against the suite defaults. The mode must have
// passed validation.
func (s *Suite) SearchOptions(st Strategy) gxs.SearchOptions {
	opts := gxs.DefaultSearchOptions()
	if s.Defaults != nil {
		if s.Defaults.NodeBudget > 0 {
			opts.NodeBudget = s.Defaults.NodeBudget
		}
		if s.Defaults.LoopCheck != nil {
			opts.LoopCheck = *s.Defaults.LoopCheck
		}
	}
	if mode, err := gxs.ParseMode(st.Mode); err == nil {
		opts.Mode = mode
	}
	opts.Randomise = st.Randomise
	opts.Seed = st.Seed
	if st.NodeBudget > 0 {
		opts.NodeBudget = st.NodeBudget
	}
	if st.LoopCheck != nil {
		opts.LoopCheck = *st.LoopCheck
	}
	if st.ReturnInfo != nil {
		opts.ReturnInfo = *st.ReturnInfo
	}
	return opts
}

// Decay returns the per-action strength decay.
func (s *Suite) Decay() float64 {
	if s.Energy != nil && s.Energy.Decay != nil {
		return *s.Energy.Decay
	}
	return DefaultDecay
}

// BatteryItem returns the name of the strength-boosting item.
func (s *Suite) BatteryItem() string {
	if s.Energy != nil && s.Energy.BatteryItem != "" {
		return s.Energy.BatteryItem
	}
	return DefaultBatteryItem
}

// BatteryBoost returns the strength the battery adds while carried.
func (s *Suite) BatteryBoost() float64 {
	if s.Energy != nil && s.Energy.BatteryBoost != nil {
		return *s.Energy.BatteryBoost
	}
	return DefaultBatteryBoost
}

// HasGoal reports whether the case names at least one goal item.
func (c *Case) HasGoal() bool {
	for _, items := range c.Goal {
		if len(items) > 0 {
			return true
		}
	}
	return false
}

// RoomNames returns the case's rooms in sorted order.
func (c *Case) RoomNames() []string {
	names := make([]string, 0, len(c.Rooms))
	for name := range c.Rooms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RobotLocation is the configured start room, or the first room by name.
func (c *Case) RobotLocation() string {
	if c.Robot != nil && c.Robot.Location != "" {
		return c.Robot.Location
	}
	if names := c.RoomNames(); len(names) > 0 {
		return names[0]
	}
	return ""
}

// RobotStrength is the configured start strength or DefaultRobotStrength.
func (c *Case) RobotStrength() float64 {
	if c.Robot != nil && c.Robot.Strength != nil {
		return *c.Robot.Strength
	}
	return DefaultRobotStrength
}

// RobotCarried is the list of items carried at the start.
func (c *Case) RobotCarried() []int {
	if c.Robot == nil {
		return nil
	}
	return c.Robot.Carried
}

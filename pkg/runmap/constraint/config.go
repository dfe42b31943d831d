package constraint

import (
	"fmt"

	rerrors "github.com/matzehuels/runmap/pkg/errors"
	"github.com/matzehuels/runmap/pkg/runmap"
)

// Rule holds the placement limits of one node type.
type Rule struct {
	MinFromStart      int  `json:"min_from_start" toml:"min_from_start" yaml:"min_from_start"`
	MinFromBoss       int  `json:"min_from_boss" toml:"min_from_boss" yaml:"min_from_boss"`
	MinGap            int  `json:"min_gap" toml:"min_gap" yaml:"min_gap"` // 0 disables
	ForbidConsecutive bool `json:"forbid_consecutive" toml:"forbid_consecutive" yaml:"forbid_consecutive"`
	MaxConsecutive    int  `json:"max_consecutive" toml:"max_consecutive" yaml:"max_consecutive"` // 0 means unbounded
}

// FixedFloor forces every node on Floor to Type. Negative floors count back
// from the Boss: -1 is the floor right before it.
type FixedFloor struct {
	Floor int             `json:"floor" toml:"floor" yaml:"floor"`
	Type  runmap.NodeType `json:"type" toml:"type" yaml:"type"`
}

func (f FixedFloor) String() string { return fmt.Sprintf("floor %d=%s", f.Floor, f.Type) }

// Config is the full set of placement rules for one generation pass.
type Config struct {
	Shop  Rule         `json:"shop" toml:"shop" yaml:"shop"`
	Elite Rule         `json:"elite" toml:"elite" yaml:"elite"`
	Rest  Rule         `json:"rest" toml:"rest" yaml:"rest"`
	Event Rule         `json:"event" toml:"event" yaml:"event"`
	Fixed []FixedFloor `json:"fixed,omitempty" toml:"fixed,omitempty" yaml:"fixed,omitempty"`
}

// DefaultConfig returns the stock placement rules: a Battle start floor and
// a Rest floor before the Boss.
func DefaultConfig() Config {
	return Config{
		Shop:  Rule{MinFromStart: 2, MinFromBoss: 2, MinGap: 3, ForbidConsecutive: true},
		Elite: Rule{MinFromStart: 4, MinFromBoss: 1, MinGap: 3, ForbidConsecutive: true},
		Rest:  Rule{MinFromStart: 4, MinFromBoss: 2, MinGap: 3, ForbidConsecutive: true},
		Event: Rule{MinFromStart: 1, MinFromBoss: 1, MaxConsecutive: 2},
		Fixed: []FixedFloor{
			{Floor: 0, Type: runmap.Battle},
			{Floor: -1, Type: runmap.Rest},
		},
	}
}

// Rule returns the rule for t. Battle and Boss have no limits.
func (c Config) Rule(t runmap.NodeType) Rule {
	switch t {
	case runmap.Shop:
		return c.Shop
	case runmap.Elite:
		return c.Elite
	case runmap.Rest:
		return c.Rest
	case runmap.Event:
		return c.Event
	}
	return Rule{}
}

// ResolveFixed maps the fixed-floor rules onto a map with the given number
// of floors. Rules pointing outside the map are returned as skipped.
//
// Two rules with different types for the same floor, a non-Boss rule for
// the Boss floor and a Boss rule anywhere else are CONFIG_CONFLICT errors.
func (c Config) ResolveFixed(floors int) (map[int]runmap.NodeType, []FixedFloor, error) {
	resolved := make(map[int]runmap.NodeType, len(c.Fixed))
	var skipped []FixedFloor
	last := floors - 1
	for _, rule := range c.Fixed {
		f := rule.Floor
		if f < 0 {
			f += last
		}
		if f < 0 || f > last {
			skipped = append(skipped, rule)
			continue
		}
		if (f == last) != (rule.Type == runmap.Boss) {
			return nil, nil, rerrors.New(rerrors.ErrCodeConfigConflict,
				"fixed %s: boss floor is %d and holds only the boss", rule, last)
		}
		if prev, ok := resolved[f]; ok && prev != rule.Type {
			return nil, nil, rerrors.New(rerrors.ErrCodeConfigConflict,
				"fixed floor %d is both %s and %s", f, prev, rule.Type)
		}
		resolved[f] = rule.Type
	}
	return resolved, skipped, nil
}

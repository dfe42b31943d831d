package connect

import "github.com/matzehuels/runmap/pkg/runmap"

// MaxDensity caps Density. Desired out-degrees are capped by MaxOutDegree
// well before it.
const MaxDensity = 100.0

// Settings tunes how floors are wired together.
type Settings struct {
	// Window is how many columns a source may stray from its anchor.
	Window int `json:"window" toml:"window" yaml:"window"`
	// MaxOutDegree caps forward edges per node. Only coverage and boss
	// convergence may exceed it.
	MaxOutDegree int `json:"max_out_degree" toml:"max_out_degree" yaml:"max_out_degree"`
	// MinConnectedSources is the minimum number of sources per floor with an
	// outgoing edge.
	MinConnectedSources int `json:"min_connected_sources" toml:"min_connected_sources" yaml:"min_connected_sources"`
	// Backtrack is how far left of the previous source's target the anchor
	// pass may land and still merge into that target. Larger backward steps
	// are turned into a forward step.
	Backtrack int `json:"backtrack" toml:"backtrack" yaml:"backtrack"`
	// Density scales the desired out-degree of the branching pass.
	Density float64 `json:"density" toml:"density" yaml:"density"`
	// MinInDegree is the incoming edge count every target aims for.
	MinInDegree int `json:"min_in_degree" toml:"min_in_degree" yaml:"min_in_degree"`
	// MinBossSources is how many distinct nodes must lead into the Boss.
	MinBossSources int `json:"min_boss_sources" toml:"min_boss_sources" yaml:"min_boss_sources"`
	// LongLinkChance widens the branching window for one edge.
	LongLinkChance float64 `json:"long_link_chance" toml:"long_link_chance" yaml:"long_link_chance"`
	// MinDistinctTargets is how many targets per floor must reach MinInDegree.
	MinDistinctTargets int `json:"min_distinct_targets" toml:"min_distinct_targets" yaml:"min_distinct_targets"`
	// MinBranching and MaxBranching bound the number of nodes per floor with
	// more than one outgoing edge. MaxBranching 0 means unbounded.
	MinBranching int `json:"min_branching" toml:"min_branching" yaml:"min_branching"`
	MaxBranching int `json:"max_branching" toml:"max_branching" yaml:"max_branching"`
	// MaxRetrofitPerFloor caps branching nodes added per floor by the
	// whole-map column coverage pass.
	MaxRetrofitPerFloor int `json:"max_retrofit_per_floor" toml:"max_retrofit_per_floor" yaml:"max_retrofit_per_floor"`
}

// DefaultSettings returns the connection tuning used by the stock config.
func DefaultSettings() Settings {
	return Settings{
		Window:              1,
		MaxOutDegree:        3,
		MinConnectedSources: 2,
		Backtrack:           1,
		Density:             0.6,
		MinInDegree:         1,
		MinBossSources:      3,
		LongLinkChance:      0.1,
		MinDistinctTargets:  2,
		MinBranching:        1,
		MaxBranching:        3,
		MaxRetrofitPerFloor: 1,
	}
}

// Normalize clamps degenerate values instead of rejecting them.
func (s Settings) Normalize() Settings {
	s.Window = max(s.Window, 0)
	s.MaxOutDegree = max(s.MaxOutDegree, 1)
	s.MinConnectedSources = max(s.MinConnectedSources, 0)
	s.Backtrack = max(s.Backtrack, 0)
	s.Density = runmap.Clamp(s.Density, 0, MaxDensity)
	s.MinInDegree = max(s.MinInDegree, 1)
	s.MinBossSources = max(s.MinBossSources, 1)
	s.LongLinkChance = runmap.Clamp(s.LongLinkChance, 0, 1)
	s.MinDistinctTargets = max(s.MinDistinctTargets, 0)
	s.MinBranching = max(s.MinBranching, 0)
	s.MaxBranching = max(s.MaxBranching, 0)
	if s.MaxBranching > 0 {
		s.MinBranching = min(s.MinBranching, s.MaxBranching)
	}
	s.MaxRetrofitPerFloor = max(s.MaxRetrofitPerFloor, 0)
	return s
}

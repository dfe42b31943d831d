// Package layout decides how many nodes each floor of a run map holds.
//
// Floor sizes follow the phase of the run: a narrow start, early, mid and
// late thirds with their own sub-ranges, and a denser floor right before the
// Boss. The last floor always holds exactly one node.
package layout

import "github.com/matzehuels/runmap/pkg/runmap"

// Settings bounds the floor layout.
type Settings struct {
	Floors   int     `json:"floors" toml:"floors" yaml:"floors"`
	MinNodes int     `json:"min_nodes" toml:"min_nodes" yaml:"min_nodes"`
	MaxNodes int     `json:"max_nodes" toml:"max_nodes" yaml:"max_nodes"`
	Variance float64 `json:"variance" toml:"variance" yaml:"variance"` // chance of nudging a floor's range by ±1
}

// DefaultSettings returns a fifteen-floor layout with two to five nodes per floor.
func DefaultSettings() Settings {
	return Settings{
		Floors:   15,
		MinNodes: 2,
		MaxNodes: 5,
		Variance: 0.2,
	}
}

// Normalize clamps degenerate values instead of rejecting them.
func (s Settings) Normalize() Settings {
	s.Floors = max(s.Floors, 2)
	s.MinNodes = max(s.MinNodes, 1)
	s.MaxNodes = max(s.MaxNodes, s.MinNodes)
	s.Variance = runmap.Clamp(s.Variance, 0, 1)
	return s
}

// Phase is the part of the run a floor belongs to.
type Phase int

const (
	PhaseStart Phase = iota
	PhaseEarly
	PhaseMid
	PhaseLate
	PhasePreBoss
	PhaseBoss
)

func (p Phase) String() string {
	switch p {
	case PhaseStart:
		return "start"
	case PhaseEarly:
		return "early"
	case PhaseMid:
		return "mid"
	case PhaseLate:
		return "late"
	case PhasePreBoss:
		return "pre-boss"
	case PhaseBoss:
		return "boss"
	}
	return "unknown"
}

// PhaseOf classifies floor f of a map with the given number of floors.
func PhaseOf(f, floors int) Phase {
	last := floors - 1
	switch {
	case f >= last:
		return PhaseBoss
	case f == 0:
		return PhaseStart
	case f == last-1:
		return PhasePreBoss
	}
	depth := float64(f) / float64(last)
	switch {
	case depth < 1.0/3:
		return PhaseEarly
	case depth < 2.0/3:
		return PhaseMid
	default:
		return PhaseLate
	}
}

// PhaseRange returns the node-count range for a phase inside the global
// [lo, hi] range.
func PhaseRange(p Phase, lo, hi int) (int, int) {
	span := hi - lo
	switch p {
	case PhaseStart:
		return lo, lo + span/2
	case PhaseEarly:
		return lo, hi - span/3
	case PhaseMid:
		return lo + span/3, hi
	case PhaseLate:
		return lo + span/4, hi - span/4
	case PhasePreBoss:
		return lo + span/2, hi
	}
	return 1, 1
}

// Counts draws the node count of every floor. The result has s.Floors
// entries (after normalization) and ends with 1.
func Counts(s Settings, rng runmap.Rand) []int {
	s = s.Normalize()
	counts := make([]int, s.Floors)
	for f := range counts {
		p := PhaseOf(f, s.Floors)
		if p == PhaseBoss {
			counts[f] = 1
			continue
		}
		lo, hi := PhaseRange(p, s.MinNodes, s.MaxNodes)
		if runmap.Chance(rng, s.Variance) {
			delta := 1
			if rng.IntN(2) == 0 {
				delta = -1
			}
			lo, hi = lo+delta, hi+delta
		}
		lo = min(max(lo, s.MinNodes), s.MaxNodes)
		hi = min(max(hi, s.MinNodes), s.MaxNodes)
		hi = max(hi, lo)
		counts[f] = runmap.Between(rng, lo, hi)
	}
	return counts
}

// Package slot assigns the final node types of a connected run map.
//
// Allocation runs in a fixed order. Fixed-floor rules come first and reduce
// the counts drawn afterwards. Shop, Elite and Rest counts are drawn from
// their ranges, each out of the slots the previous type left, and Events
// take a ratio of what remains. Each type is then placed one node at a time
// on the best scoring eligible slot, so earlier placements shape the
// spacing of later ones. Every node still untyped becomes a Battle.
//
// Only contradicting fixed-floor rules are errors. Running out of eligible
// slots is a soft miss recorded in [Result] and the diagnostics sink.
package slot

import (
	"maps"
	"math"
	"slices"

	rerrors "github.com/matzehuels/runmap/pkg/errors"
	"github.com/matzehuels/runmap/pkg/runmap"
	"github.com/matzehuels/runmap/pkg/runmap/constraint"
)

// Stage names reported with soft misses.
const (
	StageFixed = "slot/fixed"
	StagePlace = "slot/place"
)

// Order is the order in which types are counted and placed.
var Order = []runmap.NodeType{runmap.Shop, runmap.Elite, runmap.Rest, runmap.Event}

// Result reports how many nodes of each type were asked for and placed.
// Fixed-floor placements are counted separately.
type Result struct {
	Requested map[runmap.NodeType]int `json:"requested"`
	Placed    map[runmap.NodeType]int `json:"placed"`
	Fixed     map[runmap.NodeType]int `json:"fixed"`
}

// Shortfall returns how many nodes of t were requested but not placed.
func (r Result) Shortfall(t runmap.NodeType) int {
	return max(r.Requested[t]-r.Placed[t], 0)
}

// Allocate types every unassigned node of m. m must be fully connected and
// its Boss already typed.
//
// A CONFIG_CONFLICT error is returned, and the map must be discarded, when
// fixed-floor rules contradict each other or the map.
func Allocate(m *runmap.Map, s Settings, rng runmap.Rand, diag *runmap.Diagnostics) (Result, error) {
	s = s.Normalize()
	res := Result{
		Requested: make(map[runmap.NodeType]int),
		Placed:    make(map[runmap.NodeType]int),
		Fixed:     make(map[runmap.NodeType]int),
	}

	fixed, err := applyFixed(m, s.Constraints, diag, res.Fixed)
	if err != nil {
		return res, err
	}

	pool := 0
	for _, n := range m.Nodes() {
		if !n.Assigned() {
			pool++
		}
	}
	for _, t := range Order[:3] {
		r := s.Range(t)
		c := Count(r.Min-res.Fixed[t], r.Max-res.Fixed[t], pool, rng)
		res.Requested[t] = c
		pool -= c
	}
	ratio := s.EventRatio.Min
	if s.EventRatio.Max > s.EventRatio.Min {
		ratio += rng.Float64() * (s.EventRatio.Max - s.EventRatio.Min)
	}
	events := int(math.Round(float64(pool)*ratio)) - res.Fixed[runmap.Event]
	res.Requested[runmap.Event] = min(max(events, 0), pool)

	eval := constraint.New(m, s.Constraints)
	slots := Slots(m)
	for _, t := range Order {
		res.Placed[t] = place(eval, slots, t, res.Requested[t], s.Weights, rng, diag)
	}

	for _, n := range m.Nodes() {
		if !n.Assigned() {
			_ = n.Assign(runmap.Battle)
		}
	}

	for _, f := range slices.Sorted(maps.Keys(fixed)) {
		for _, n := range m.Floors[f] {
			if n.Type != fixed[f] {
				return res, rerrors.New(rerrors.ErrCodeConfigConflict,
					"fixed floor %d should be %s but %s is %s", f, fixed[f], n.ID, n.Type)
			}
		}
	}
	return res, nil
}

// applyFixed types the nodes of every fixed floor and counts them per type.
func applyFixed(m *runmap.Map, cfg constraint.Config, diag *runmap.Diagnostics, counts map[runmap.NodeType]int) (map[int]runmap.NodeType, error) {
	fixed, skipped, err := cfg.ResolveFixed(m.FloorCount())
	if err != nil {
		return nil, err
	}
	for _, r := range skipped {
		diag.Missf(StageFixed, "%s is outside the %d-floor map", r, m.FloorCount())
	}
	for _, f := range slices.Sorted(maps.Keys(fixed)) {
		t := fixed[f]
		if t == runmap.Boss {
			continue
		}
		for _, n := range m.Floors[f] {
			if err := n.Assign(t); err != nil {
				return nil, rerrors.Wrap(rerrors.ErrCodeConfigConflict, err, "fixed floor %d", f)
			}
			counts[t]++
		}
	}
	return fixed, nil
}

// place assigns t to up to count slots, best score first, and returns how
// many it placed.
func place(eval *constraint.Evaluator, slots []Slot, t runmap.NodeType, count int, w Weights, rng runmap.Rand, diag *runmap.Diagnostics) int {
	var placed []Slot
	for _, s := range slots {
		if s.Node.Type == t {
			placed = append(placed, s)
		}
	}

	n := 0
	for n < count {
		var candidates []Slot
		for _, s := range slots {
			if eval.Eligible(s.Node, t) {
				candidates = append(candidates, s)
			}
		}
		best, ok := PickBest(t, candidates, placed, w, rng)
		if !ok {
			diag.Missf(StagePlace, "%s: placed %d of %d, no eligible slot left", t, n, count)
			break
		}
		if err := best.Node.Assign(t); err != nil {
			diag.Missf(StagePlace, "%s: %v", t, err)
			break
		}
		placed = append(placed, best)
		n++
	}
	return n
}

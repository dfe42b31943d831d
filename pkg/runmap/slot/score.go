package slot

import (
	"math"
	"slices"

	"github.com/matzehuels/runmap/pkg/runmap"
)

// Slot is a node seen as a candidate for a type, with the metrics the
// scorers read. Slots are derived on demand and never stored.
type Slot struct {
	Node      *runmap.Node
	Column    int
	Width     int
	InDegree  int
	OutDegree int
	Depth     float64 // floor / boss floor, 0..1
	Offset    float64 // column centred to -1..1, 0 on single-node floors
}

// Slots returns one slot per node in floor-major order.
func Slots(m *runmap.Map) []Slot {
	preds := m.Predecessors()
	slots := make([]Slot, 0, m.NodeCount())
	for _, floor := range m.Floors {
		for _, n := range floor {
			slots = append(slots, newSlot(n, len(floor), len(preds[n]), m.BossFloor()))
		}
	}
	return slots
}

func newSlot(n *runmap.Node, width, in, bossFloor int) Slot {
	s := Slot{
		Node:      n,
		Column:    n.Column,
		Width:     width,
		InDegree:  in,
		OutDegree: n.OutDegree(),
	}
	if bossFloor > 0 {
		s.Depth = float64(n.Floor) / float64(bossFloor)
	}
	if width > 1 {
		s.Offset = float64(n.Column)/float64(width-1)*2 - 1
	}
	return s
}

// ScoreShop favours the shop waypoints and busy crossroads, spaced apart.
func ScoreShop(s Slot, placed []Slot, w Weights) float64 {
	score := w.ShopTraffic * math.Log1p(float64(s.InDegree+s.OutDegree))
	if len(w.ShopWaypoints) > 0 {
		near := math.Inf(1)
		for _, wp := range w.ShopWaypoints {
			near = min(near, math.Abs(s.Depth-wp))
		}
		score -= w.Depth * near
	}
	return score + w.Spacing*spacing(s, placed)
}

// ScoreElite favours row edges, bottlenecks and later floors.
func ScoreElite(s Slot, placed []Slot, w Weights) float64 {
	return w.EliteEdge*math.Abs(s.Offset) +
		w.EliteBottleneck/float64(1+s.InDegree) +
		w.EliteDepth*s.Depth
}

// ScoreRest favours the middle of the run, away from the start and
// especially away from the Boss.
func ScoreRest(s Slot, placed []Slot, w Weights) float64 {
	score := -w.Depth * math.Abs(s.Depth-w.RestTarget)
	if s.Depth < w.StartZone {
		score -= w.RestStartPenalty
	}
	if s.Depth > w.BossZone {
		score -= w.RestBossPenalty
	}
	return score + w.Spacing*spacing(s, placed)
}

// ScoreEvent favours the middle of the run.
func ScoreEvent(s Slot, placed []Slot, w Weights) float64 {
	score := -w.Depth * math.Abs(s.Depth-w.EventTarget)
	if s.Depth < w.StartZone {
		score -= w.EventStartPenalty
	}
	if s.Depth > w.BossZone {
		score -= w.EventBossPenalty
	}
	return score
}

// Score dispatches to the scorer of t. Types without a scorer score 0.
func Score(t runmap.NodeType, s Slot, placed []Slot, w Weights) float64 {
	switch t {
	case runmap.Shop:
		return ScoreShop(s, placed, w)
	case runmap.Elite:
		return ScoreElite(s, placed, w)
	case runmap.Rest:
		return ScoreRest(s, placed, w)
	case runmap.Event:
		return ScoreEvent(s, placed, w)
	}
	return 0
}

// spacing is the depth distance to the nearest placed slot, 1 when none.
func spacing(s Slot, placed []Slot) float64 {
	d := 1.0
	for _, p := range placed {
		d = min(d, math.Abs(s.Depth-p.Depth))
	}
	return d
}

// Rank orders candidates by descending score for t. Equal scores keep
// floor-major order, so ranking is a pure function of the slot metrics.
func Rank(t runmap.NodeType, candidates, placed []Slot, w Weights) []Slot {
	ranked := slices.Clone(candidates)
	scores := make(map[*runmap.Node]float64, len(ranked))
	for _, c := range ranked {
		scores[c.Node] = Score(t, c, placed, w)
	}
	slices.SortStableFunc(ranked, func(a, b Slot) int {
		sa, sb := scores[a.Node], scores[b.Node]
		switch {
		case sa > sb:
			return -1
		case sa < sb:
			return 1
		}
		return 0
	})
	return ranked
}

// PickBest returns the highest scoring candidate for t after adding up to
// w.Jitter of noise to each score. It reports false when there is no
// candidate.
func PickBest(t runmap.NodeType, candidates, placed []Slot, w Weights, rng runmap.Rand) (Slot, bool) {
	var (
		best      Slot
		bestScore float64
		found     bool
	)
	for _, c := range candidates {
		score := Score(t, c, placed, w)
		if w.Jitter > 0 {
			score += rng.Float64() * w.Jitter
		}
		if !found || score > bestScore {
			best, bestScore, found = c, score, true
		}
	}
	return best, found
}

package slot

import (
	"testing"

	rerrors "github.com/matzehuels/runmap/pkg/errors"
	"github.com/matzehuels/runmap/pkg/runmap"
	"github.com/matzehuels/runmap/pkg/runmap/connect"
	"github.com/matzehuels/runmap/pkg/runmap/constraint"
	"github.com/matzehuels/runmap/pkg/runmap/layout"
)

func chain(t *testing.T, floors int) *runmap.Map {
	t.Helper()
	counts := make([]int, floors)
	for i := range counts {
		counts[i] = 1
	}
	m := runmap.New(counts)
	for f := 0; f+1 < floors; f++ {
		if err := m.Floors[f][0].Connect(m.Floors[f+1][0]); err != nil {
			t.Fatal(err)
		}
	}
	return m
}

func generated(seed uint64, ls layout.Settings) (*runmap.Map, runmap.Rand) {
	rng := runmap.NewRand(seed)
	m := runmap.New(layout.Counts(ls, rng))
	connect.Connect(m, connect.DefaultSettings(), rng, nil)
	return m, rng
}

func TestCount(t *testing.T) {
	rng := runmap.NewRand(1)
	tests := []struct {
		name              string
		lo, hi, remaining int
		wantLo, wantHi    int
	}{
		{"inside", 2, 4, 10, 2, 4},
		{"capped by pool", 2, 4, 3, 2, 3},
		{"pool below min", 3, 5, 1, 1, 1},
		{"empty pool", 1, 2, 0, 0, 0},
		{"negative pool", 1, 2, -4, 0, 0},
		{"min above max", 5, 2, 10, 5, 5},
		{"negative range", -3, -1, 10, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for range 50 {
				got := Count(tt.lo, tt.hi, tt.remaining, rng)
				if got < tt.wantLo || got > tt.wantHi {
					t.Fatalf("Count(%d, %d, %d) = %d, want %d..%d",
						tt.lo, tt.hi, tt.remaining, got, tt.wantLo, tt.wantHi)
				}
			}
		})
	}
}

func TestSlots(t *testing.T) {
	m := runmap.New([]int{3, 1})
	for _, n := range m.Floors[0] {
		_ = n.Connect(m.Boss())
	}
	slots := Slots(m)
	if len(slots) != 4 {
		t.Fatalf("got %d slots, want 4", len(slots))
	}
	left, mid, boss := slots[0], slots[1], slots[3]
	if left.Offset != -1 || mid.Offset != 0 || slots[2].Offset != 1 {
		t.Errorf("offsets = %v %v %v", left.Offset, mid.Offset, slots[2].Offset)
	}
	if boss.Depth != 1 || left.Depth != 0 || boss.InDegree != 3 || boss.Offset != 0 {
		t.Errorf("boss slot = %+v", boss)
	}
	if left.Width != 3 || left.OutDegree != 1 {
		t.Errorf("left slot = %+v", left)
	}
}

func TestScorers(t *testing.T) {
	w := DefaultWeights()
	at := func(depth, offset float64, in, out int) Slot {
		return Slot{Depth: depth, Offset: offset, InDegree: in, OutDegree: out}
	}

	if ScoreShop(at(0.5, 0, 2, 2), nil, w) <= ScoreShop(at(0.4, 0, 2, 2), nil, w) {
		t.Error("shop: waypoint depth should beat off-waypoint depth")
	}
	if ScoreShop(at(0.5, 0, 3, 3), nil, w) <= ScoreShop(at(0.5, 0, 1, 1), nil, w) {
		t.Error("shop: busier slot should score higher")
	}
	placed := []Slot{at(0.5, 0, 1, 1)}
	if ScoreShop(at(0.5, 0, 1, 1), placed, w) >= ScoreShop(at(0.5, 0, 1, 1), nil, w) {
		t.Error("shop: placed neighbour should lower the score")
	}

	if ScoreElite(at(0.6, -1, 1, 1), nil, w) <= ScoreElite(at(0.6, 0, 1, 1), nil, w) {
		t.Error("elite: row edge should beat centre")
	}
	if ScoreElite(at(0.6, 0, 1, 1), nil, w) <= ScoreElite(at(0.6, 0, 3, 1), nil, w) {
		t.Error("elite: bottleneck should beat busy slot")
	}
	if ScoreElite(at(0.8, 0, 1, 1), nil, w) <= ScoreElite(at(0.3, 0, 1, 1), nil, w) {
		t.Error("elite: later floor should score higher")
	}

	mid, start, boss := ScoreRest(at(0.55, 0, 1, 1), nil, w), ScoreRest(at(0.1, 0, 1, 1), nil, w), ScoreRest(at(0.95, 0, 1, 1), nil, w)
	if mid <= start || start <= boss {
		t.Errorf("rest: mid %v, start %v, boss %v", mid, start, boss)
	}

	if ScoreEvent(at(0.5, 0, 1, 1), nil, w) <= ScoreEvent(at(0.9, 0, 1, 1), nil, w) {
		t.Error("event: mid-map should beat pre-boss")
	}
	if Score(runmap.Battle, at(0.5, 0, 1, 1), nil, w) != 0 {
		t.Error("battle has no scorer")
	}
}

func TestRankIsPure(t *testing.T) {
	m, _ := generated(11, layout.DefaultSettings())
	slots := Slots(m)
	w := DefaultWeights()
	ids := func(ss []Slot) []string {
		out := make([]string, len(ss))
		for i, s := range ss {
			out[i] = s.Node.ID
		}
		return out
	}
	for _, typ := range Order {
		a, b := ids(Rank(typ, slots, nil, w)), ids(Rank(typ, slots, nil, w))
		for i := range a {
			if a[i] != b[i] {
				t.Fatalf("%s: rank %d differs: %s != %s", typ, i, a[i], b[i])
			}
		}
	}
}

func TestPickBestSeeded(t *testing.T) {
	m, _ := generated(5, layout.DefaultSettings())
	slots := Slots(m)
	w := DefaultWeights()
	w.Jitter = 5
	a, _ := PickBest(runmap.Event, slots, nil, w, runmap.NewRand(3))
	b, _ := PickBest(runmap.Event, slots, nil, w, runmap.NewRand(3))
	if a.Node != b.Node {
		t.Errorf("equal seeds picked %s and %s", a.Node.ID, b.Node.ID)
	}
	if _, ok := PickBest(runmap.Event, nil, nil, w, runmap.NewRand(3)); ok {
		t.Error("PickBest on no candidates reported a slot")
	}
}

func TestEliteGapLimitsCount(t *testing.T) {
	m := chain(t, 5)
	s := Settings{
		Elite: Range{Min: 2, Max: 2},
		Constraints: constraint.Config{
			Elite: constraint.Rule{MinFromStart: 1, MinFromBoss: 1, MinGap: 3},
		},
		Weights: DefaultWeights(),
	}
	diag := runmap.NewDiagnostics(nil)
	res, err := Allocate(m, s, runmap.NewRand(1), diag)
	if err != nil {
		t.Fatal(err)
	}
	if res.Requested[runmap.Elite] != 2 || res.Placed[runmap.Elite] != 1 {
		t.Errorf("elites requested %d placed %d, want 2/1", res.Requested[runmap.Elite], res.Placed[runmap.Elite])
	}
	if m.CountType(runmap.Elite) != 1 || res.Shortfall(runmap.Elite) != 1 {
		t.Errorf("map has %d elites, shortfall %d", m.CountType(runmap.Elite), res.Shortfall(runmap.Elite))
	}
	if diag.Count(StagePlace) != 1 {
		t.Errorf("place misses = %d, want 1", diag.Count(StagePlace))
	}
	for _, n := range m.Nodes() {
		if !n.Assigned() {
			t.Errorf("%s left unassigned", n.ID)
		}
	}
}

func TestEliteGapCountsWholeDistance(t *testing.T) {
	// Floors 1 and 4 are the only eligible pair far enough apart by floor
	// count, but they are exactly MinGap edges apart.
	m := chain(t, 6)
	s := Settings{
		Elite: Range{Min: 2, Max: 2},
		Constraints: constraint.Config{
			Elite: constraint.Rule{MinFromStart: 1, MinFromBoss: 1, MinGap: 3},
		},
		Weights: DefaultWeights(),
	}
	res, err := Allocate(m, s, runmap.NewRand(3), nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := m.CountType(runmap.Elite); got != 1 || res.Placed[runmap.Elite] != 1 {
		t.Errorf("placed %d elites (result %d), want 1", got, res.Placed[runmap.Elite])
	}
}

// longestRun returns the longest chain of t nodes along edges.
func longestRun(m *runmap.Map, t runmap.NodeType) int {
	run := make(map[*runmap.Node]int)
	best := 0
	for f := m.BossFloor(); f >= 0; f-- {
		for _, n := range m.Floors[f] {
			if n.Type != t {
				continue
			}
			r := 1
			for _, c := range n.Next() {
				r = max(r, 1+run[c])
			}
			run[n] = r
			best = max(best, r)
		}
	}
	return best
}

func TestEventRunCap(t *testing.T) {
	s := DefaultSettings()
	s.EventRatio = Ratio{Min: 0.7, Max: 0.9}
	for seed := uint64(0); seed < 100; seed++ {
		m, rng := generated(seed, layout.DefaultSettings())
		if _, err := Allocate(m, s, rng, nil); err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		if got := longestRun(m, runmap.Event); got > 2 {
			t.Fatalf("seed %d: %d consecutive events", seed, got)
		}
	}
}

// within reports whether a node of the same type as n is reachable from n
// in at most gap steps.
func within(n *runmap.Node, gap int) bool {
	frontier := n.Next()
	for d := 1; d <= gap && len(frontier) > 0; d++ {
		var next []*runmap.Node
		for _, x := range frontier {
			if x.Type == n.Type {
				return true
			}
			next = append(next, x.Next()...)
		}
		frontier = next
	}
	return false
}

func TestAllocateRules(t *testing.T) {
	s := DefaultSettings()
	for seed := uint64(0); seed < 100; seed++ {
		m, rng := generated(seed, layout.DefaultSettings())
		res, err := Allocate(m, s, rng, nil)
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		if err := m.Validate(); err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		for _, n := range m.Floors[0] {
			if n.Type != runmap.Battle {
				t.Errorf("seed %d: start node %s is %s", seed, n.ID, n.Type)
			}
		}
		for _, n := range m.Floors[m.BossFloor()-1] {
			if n.Type != runmap.Rest {
				t.Errorf("seed %d: pre-boss node %s is %s", seed, n.ID, n.Type)
			}
		}
		for _, n := range m.Nodes() {
			r := s.Constraints.Rule(n.Type)
			if r.MinGap > 0 && within(n, r.MinGap) {
				t.Errorf("seed %d: %s %s has a same-type node within %d", seed, n.Type, n.ID, r.MinGap)
			}
			if r.ForbidConsecutive {
				for _, c := range n.Next() {
					if c.Type == n.Type {
						t.Errorf("seed %d: consecutive %s %s->%s", seed, n.Type, n.ID, c.ID)
					}
				}
			}
		}
		for _, typ := range Order {
			if got := m.CountType(typ); got != res.Placed[typ]+res.Fixed[typ] {
				t.Errorf("seed %d: %s on map %d, result %d+%d", seed, typ, got, res.Placed[typ], res.Fixed[typ])
			}
		}
	}
}

func TestFixedFloorConflict(t *testing.T) {
	m, rng := generated(1, layout.DefaultSettings())
	s := DefaultSettings()
	s.Constraints.Fixed = append(s.Constraints.Fixed,
		constraint.FixedFloor{Floor: 3, Type: runmap.Shop},
		constraint.FixedFloor{Floor: 3, Type: runmap.Elite},
	)
	_, err := Allocate(m, s, rng, nil)
	if !rerrors.Is(err, rerrors.ErrCodeConfigConflict) {
		t.Fatalf("got %v, want CONFIG_CONFLICT", err)
	}
	for _, n := range m.Nodes() {
		if n.Type != runmap.Battle && n.Type != runmap.Boss {
			t.Errorf("%s typed %s before the conflict was reported", n.ID, n.Type)
		}
	}
}

func TestReallocateRejected(t *testing.T) {
	m, rng := generated(2, layout.DefaultSettings())
	if _, err := Allocate(m, DefaultSettings(), rng, nil); err != nil {
		t.Fatal(err)
	}
	_, err := Allocate(m, DefaultSettings(), rng, nil)
	if !rerrors.Is(err, rerrors.ErrCodeConfigConflict) {
		t.Errorf("second allocation: got %v, want CONFIG_CONFLICT", err)
	}
}

func TestOutOfRangeFixedFloorIsSoft(t *testing.T) {
	m, rng := generated(4, layout.Settings{Floors: 6, MinNodes: 2, MaxNodes: 3})
	s := DefaultSettings()
	s.Constraints.Fixed = []constraint.FixedFloor{{Floor: 40, Type: runmap.Shop}}
	diag := runmap.NewDiagnostics(nil)
	if _, err := Allocate(m, s, rng, diag); err != nil {
		t.Fatal(err)
	}
	if diag.Count(StageFixed) != 1 {
		t.Errorf("fixed misses = %d, want 1", diag.Count(StageFixed))
	}
}

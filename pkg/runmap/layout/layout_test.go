package layout

import (
	"testing"

	"github.com/matzehuels/runmap/pkg/runmap"
)

func TestCountsSmallMap(t *testing.T) {
	s := Settings{Floors: 5, MinNodes: 2, MaxNodes: 3, Variance: 0.5}
	for seed := uint64(0); seed < 200; seed++ {
		counts := Counts(s, runmap.NewRand(seed))
		if len(counts) != 5 {
			t.Fatalf("seed %d: got %d floors, want 5", seed, len(counts))
		}
		for f, c := range counts[:4] {
			if c < 2 || c > 3 {
				t.Errorf("seed %d: floor %d has %d nodes, want 2..3", seed, f, c)
			}
		}
		if counts[4] != 1 {
			t.Errorf("seed %d: boss floor has %d nodes, want 1", seed, counts[4])
		}
	}
}

func TestCountsDegenerateSettings(t *testing.T) {
	tests := []struct {
		name   string
		s      Settings
		floors int
		lo, hi int
	}{
		{"zero value", Settings{}, 2, 1, 1},
		{"min above max", Settings{Floors: 4, MinNodes: 4, MaxNodes: 2}, 4, 4, 4},
		{"negative counts", Settings{Floors: -3, MinNodes: -1, MaxNodes: -5}, 2, 1, 1},
		{"variance above one", Settings{Floors: 6, MinNodes: 1, MaxNodes: 2, Variance: 7}, 6, 1, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counts := Counts(tt.s, runmap.NewRand(7))
			if len(counts) != tt.floors {
				t.Fatalf("got %d floors, want %d", len(counts), tt.floors)
			}
			for f, c := range counts[:len(counts)-1] {
				if c < tt.lo || c > tt.hi {
					t.Errorf("floor %d has %d nodes, want %d..%d", f, c, tt.lo, tt.hi)
				}
			}
			if counts[len(counts)-1] != 1 {
				t.Errorf("last floor has %d nodes, want 1", counts[len(counts)-1])
			}
		})
	}
}

func TestCountsDeterministic(t *testing.T) {
	s := DefaultSettings()
	a := Counts(s, runmap.NewRand(99))
	b := Counts(s, runmap.NewRand(99))
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("floor %d: %d != %d for equal seeds", i, a[i], b[i])
		}
	}
}

func TestPhaseOf(t *testing.T) {
	want := []Phase{
		PhaseStart, PhaseEarly, PhaseEarly, PhaseEarly,
		PhaseMid, PhaseMid, PhaseMid,
		PhaseLate, PhaseLate, PhasePreBoss, PhaseBoss,
	}
	for f, p := range want {
		if got := PhaseOf(f, len(want)); got != p {
			t.Errorf("PhaseOf(%d) = %s, want %s", f, got, p)
		}
	}
}

func TestPhaseRangeStaysInside(t *testing.T) {
	for lo := 1; lo <= 4; lo++ {
		for hi := lo; hi <= 8; hi++ {
			for p := PhaseStart; p <= PhasePreBoss; p++ {
				a, b := PhaseRange(p, lo, hi)
				if a < lo || b > hi || a > b {
					t.Errorf("PhaseRange(%s, %d, %d) = [%d, %d]", p, lo, hi, a, b)
				}
			}
		}
	}
}

func TestPreBossIsDenser(t *testing.T) {
	s := Settings{Floors: 12, MinNodes: 2, MaxNodes: 6}
	lo, _ := PhaseRange(PhasePreBoss, s.MinNodes, s.MaxNodes)
	for seed := uint64(0); seed < 50; seed++ {
		counts := Counts(s, runmap.NewRand(seed))
		if c := counts[len(counts)-2]; c < lo {
			t.Errorf("seed %d: pre-boss floor has %d nodes, want >= %d", seed, c, lo)
		}
	}
}

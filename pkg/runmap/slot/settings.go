package slot

import (
	"github.com/matzehuels/runmap/pkg/runmap"
	"github.com/matzehuels/runmap/pkg/runmap/constraint"
)

// Range is an inclusive count range.
type Range struct {
	Min int `json:"min" toml:"min" yaml:"min"`
	Max int `json:"max" toml:"max" yaml:"max"`
}

// Ratio is an inclusive fraction range.
type Ratio struct {
	Min float64 `json:"min" toml:"min" yaml:"min"`
	Max float64 `json:"max" toml:"max" yaml:"max"`
}

// Weights are the tunables of the per-type scorers.
type Weights struct {
	// Depth scales the pull toward each type's target depth.
	Depth float64 `json:"depth" toml:"depth" yaml:"depth"`
	// Spacing rewards distance from already placed nodes of the same type.
	Spacing float64 `json:"spacing" toml:"spacing" yaml:"spacing"`
	// Jitter is the upper bound of the random tie-breaker.
	Jitter float64 `json:"jitter" toml:"jitter" yaml:"jitter"`

	ShopWaypoints []float64 `json:"shop_waypoints" toml:"shop_waypoints" yaml:"shop_waypoints"`
	ShopTraffic   float64   `json:"shop_traffic" toml:"shop_traffic" yaml:"shop_traffic"`

	EliteEdge       float64 `json:"elite_edge" toml:"elite_edge" yaml:"elite_edge"`
	EliteBottleneck float64 `json:"elite_bottleneck" toml:"elite_bottleneck" yaml:"elite_bottleneck"`
	EliteDepth      float64 `json:"elite_depth" toml:"elite_depth" yaml:"elite_depth"`

	RestTarget  float64 `json:"rest_target" toml:"rest_target" yaml:"rest_target"`
	EventTarget float64 `json:"event_target" toml:"event_target" yaml:"event_target"`

	// StartZone and BossZone are the depths below and above which the
	// start and boss penalties apply.
	StartZone         float64 `json:"start_zone" toml:"start_zone" yaml:"start_zone"`
	BossZone          float64 `json:"boss_zone" toml:"boss_zone" yaml:"boss_zone"`
	RestStartPenalty  float64 `json:"rest_start_penalty" toml:"rest_start_penalty" yaml:"rest_start_penalty"`
	RestBossPenalty   float64 `json:"rest_boss_penalty" toml:"rest_boss_penalty" yaml:"rest_boss_penalty"`
	EventStartPenalty float64 `json:"event_start_penalty" toml:"event_start_penalty" yaml:"event_start_penalty"`
	EventBossPenalty  float64 `json:"event_boss_penalty" toml:"event_boss_penalty" yaml:"event_boss_penalty"`
}

// DefaultWeights returns the stock scorer tuning.
func DefaultWeights() Weights {
	return Weights{
		Depth:             2,
		Spacing:           1.5,
		Jitter:            0.01,
		ShopWaypoints:     []float64{0.25, 0.5, 0.75},
		ShopTraffic:       0.5,
		EliteEdge:         1,
		EliteBottleneck:   1,
		EliteDepth:        1.5,
		RestTarget:        0.55,
		EventTarget:       0.5,
		StartZone:         0.2,
		BossZone:          0.85,
		RestStartPenalty:  1,
		RestBossPenalty:   3,
		EventStartPenalty: 0.5,
		EventBossPenalty:  1,
	}
}

// Settings configures one allocation pass.
type Settings struct {
	Shop  Range `json:"shop" toml:"shop" yaml:"shop"`
	Elite Range `json:"elite" toml:"elite" yaml:"elite"`
	Rest  Range `json:"rest" toml:"rest" yaml:"rest"`
	// EventRatio is the share of the slots left after Shop, Elite and Rest
	// that become Events.
	EventRatio  Ratio             `json:"event_ratio" toml:"event_ratio" yaml:"event_ratio"`
	Constraints constraint.Config `json:"constraints" toml:"constraints" yaml:"constraints"`
	Weights     Weights           `json:"weights" toml:"weights" yaml:"weights"`
}

// DefaultSettings returns the stock allocation settings.
func DefaultSettings() Settings {
	return Settings{
		Shop:        Range{Min: 2, Max: 3},
		Elite:       Range{Min: 2, Max: 4},
		Rest:        Range{Min: 2, Max: 3},
		EventRatio:  Ratio{Min: 0.15, Max: 0.25},
		Constraints: constraint.DefaultConfig(),
		Weights:     DefaultWeights(),
	}
}

// Normalize clamps degenerate ranges instead of rejecting them.
func (s Settings) Normalize() Settings {
	s.Shop = s.Shop.normalize()
	s.Elite = s.Elite.normalize()
	s.Rest = s.Rest.normalize()
	s.EventRatio.Min = runmap.Clamp(s.EventRatio.Min, 0, 1)
	s.EventRatio.Max = max(runmap.Clamp(s.EventRatio.Max, 0, 1), s.EventRatio.Min)
	s.Weights = s.Weights.normalize()
	return s
}

// MaxWeight bounds every scorer weight and penalty in both directions.
const MaxWeight = 1e6

func (w Weights) normalize() Weights {
	weight := func(v float64) float64 { return runmap.Clamp(v, -MaxWeight, MaxWeight) }
	w.Depth = weight(w.Depth)
	w.Spacing = weight(w.Spacing)
	w.Jitter = runmap.Clamp(w.Jitter, 0, MaxWeight)
	w.ShopTraffic = weight(w.ShopTraffic)
	w.EliteEdge = weight(w.EliteEdge)
	w.EliteBottleneck = weight(w.EliteBottleneck)
	w.EliteDepth = weight(w.EliteDepth)
	w.RestStartPenalty = weight(w.RestStartPenalty)
	w.RestBossPenalty = weight(w.RestBossPenalty)
	w.EventStartPenalty = weight(w.EventStartPenalty)
	w.EventBossPenalty = weight(w.EventBossPenalty)

	// Depths are normalized to 0..1.
	w.RestTarget = runmap.Clamp(w.RestTarget, 0, 1)
	w.EventTarget = runmap.Clamp(w.EventTarget, 0, 1)
	w.StartZone = runmap.Clamp(w.StartZone, 0, 1)
	w.BossZone = runmap.Clamp(w.BossZone, 0, 1)
	if w.ShopWaypoints != nil {
		wp := make([]float64, len(w.ShopWaypoints))
		for i, v := range w.ShopWaypoints {
			wp[i] = runmap.Clamp(v, 0, 1)
		}
		w.ShopWaypoints = wp
	}
	return w
}

// Range returns the count range for t. Only Shop, Elite and Rest have one.
func (s Settings) Range(t runmap.NodeType) Range {
	switch t {
	case runmap.Shop:
		return s.Shop
	case runmap.Elite:
		return s.Elite
	case runmap.Rest:
		return s.Rest
	}
	return Range{}
}

func (r Range) normalize() Range {
	r.Min = max(r.Min, 0)
	r.Max = max(r.Max, r.Min)
	return r
}

// Count draws a count from [lo, hi] clamped to what is still available.
// Negative inputs count as zero.
func Count(lo, hi, remaining int, rng runmap.Rand) int {
	remaining = max(remaining, 0)
	lo = max(lo, 0)
	hi = min(max(hi, lo), remaining)
	lo = min(lo, hi)
	return runmap.Between(rng, lo, hi)
}

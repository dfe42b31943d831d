// Package connect wires the floors of a run map with forward edges.
//
// Each pair of consecutive floors is handled by its own state object that
// runs, in order: anchor alignment, in-degree coverage, minimum connected
// sources, boss convergence, branching, distinct targets, and guaranteed
// outgoing edges. A final whole-map pass retrofits a branching node into
// every column that never branches.
//
// Edges never cross: for sources a < b and targets x of a and y of b,
// x <= y always holds. Requirements that cannot be met without breaking that
// rule are dropped and reported to the [runmap.Diagnostics] sink.
package connect

import (
	"math"
	"slices"

	"github.com/matzehuels/runmap/pkg/runmap"
)

// Stage names reported with soft misses.
const (
	StageAnchor    = "connect/anchor"
	StageCoverage  = "connect/coverage"
	StageSources   = "connect/sources"
	StageBoss      = "connect/boss"
	StageBranching = "connect/branching"
	StageTargets   = "connect/targets"
	StageOutgoing  = "connect/outgoing"
	StageRetrofit  = "connect/retrofit"
)

// Connect adds forward edges between every pair of consecutive floors of m.
//
// After Connect returns, every node except the Boss has at least one
// outgoing edge, every node except those on floor 0 has at least one
// incoming edge, and no two edges between the same floors cross.
func Connect(m *runmap.Map, s Settings, rng runmap.Rand, diag *runmap.Diagnostics) {
	s = s.Normalize()
	pairs := make([]*pair, 0, max(m.FloorCount()-1, 0))
	for f := 0; f+1 < m.FloorCount(); f++ {
		if len(m.Floors[f]) == 0 || len(m.Floors[f+1]) == 0 {
			continue
		}
		p := newPair(m.Floors[f], m.Floors[f+1], s, rng, diag)
		p.run()
		pairs = append(pairs, p)
	}
	retrofit(pairs, s, diag)
}

func (p *pair) run() {
	p.anchorPass()
	p.coveragePass()
	p.sourcesPass()
	p.bossPass()
	p.branchingPass()
	p.targetsPass()
	p.outgoingPass()
}

// anchorPass gives every source one edge near its anchor, left to right.
func (p *pair) anchorPass() {
	prev := -1
	w := p.s.Window
	for i := range p.src {
		t := p.anchor(i) + p.rng.IntN(2*w+1) - w
		t = min(max(t, 0), len(p.dst)-1)
		if prev >= 0 && t < prev {
			if prev-t <= p.s.Backtrack {
				t = prev
			} else {
				t = min(prev+1, len(p.dst)-1)
			}
		}
		t = p.clampLegal(i, t)
		if p.connect(i, t, false) {
			prev = t
		} else {
			p.diag.Missf(StageAnchor, "floor %d: %s found no anchor target", p.floor(), p.src[i].ID)
		}
	}
}

// coveragePass raises every target to MinInDegree. A target still without
// any incoming edge may exceed the out-degree cap of its source.
func (p *pair) coveragePass() {
	for t := range p.dst {
		for p.in[t] < p.s.MinInDegree {
			i := p.closestSource(t, false)
			force := false
			if i < 0 && p.in[t] == 0 {
				i, force = p.closestSource(t, true), true
				if i >= 0 {
					p.diag.Missf(StageCoverage, "floor %d: %s exceeds max out-degree to reach %s",
						p.floor(), p.src[i].ID, p.dst[t].ID)
				}
			}
			if i < 0 || !p.connect(i, t, force) {
				p.diag.Missf(StageCoverage, "floor %d: %s has in-degree %d, want %d",
					p.floor()+1, p.dst[t].ID, p.in[t], p.s.MinInDegree)
				break
			}
		}
	}
}

// closestSource picks the legal, unlinked source whose anchor range is
// nearest to target t, preferring sources with fewer edges on ties.
func (p *pair) closestSource(t int, force bool) int {
	best, bestDist := -1, 0
	for i := range p.src {
		if p.linked(i, t) || !p.legal(i, t) || (!force && !p.hasCapacity(i)) {
			continue
		}
		d := p.distance(i, t)
		if best < 0 || d < bestDist || (d == bestDist && p.out[i] < p.out[best]) {
			best, bestDist = i, d
		}
	}
	return best
}

// sourcesPass makes sure at least MinConnectedSources sources have edges.
func (p *pair) sourcesPass() {
	want := min(p.s.MinConnectedSources, len(p.src))
	connected := p.connectedSources()
	for _, i := range p.rng.Perm(len(p.src)) {
		if connected >= want {
			return
		}
		if p.out[i] > 0 {
			continue
		}
		lo, hi := p.window(i)
		if p.connect(i, p.clampLegal(i, runmap.Between(p.rng, lo, hi)), false) {
			connected++
		}
	}
	if connected < want {
		p.diag.Missf(StageSources, "floor %d: %d connected sources, want %d", p.floor(), connected, want)
	}
}

// bossPass funnels at least MinBossSources sources into a single-node
// target floor. The out-degree cap does not apply.
func (p *pair) bossPass() {
	if len(p.dst) != 1 {
		return
	}
	want := min(p.s.MinBossSources, len(p.src))
	for p.in[0] < want {
		best, bestScore := -1, 0
		for i := range p.src {
			if p.linked(i, 0) || !p.legal(i, 0) {
				continue
			}
			score := p.out[i]*10 + p.distance(i, 0)
			if best < 0 || score < bestScore {
				best, bestScore = i, score
			}
		}
		if best < 0 || !p.connect(best, 0, true) {
			p.diag.Missf(StageBoss, "floor %d: %s has %d sources, want %d",
				p.floor()+1, p.dst[0].ID, p.in[0], want)
			return
		}
	}
}

// branchingPass grows sources toward a density-driven out-degree, then tops
// the floor up to MinBranching branching sources.
func (p *pair) branchingPass() {
	m, n := len(p.src), len(p.dst)
	if n < 2 {
		return
	}
	desired := int(math.Ceil(float64(n)/float64(m)*p.s.Density)) + 1
	desired = min(max(desired, 2), p.s.MaxOutDegree)

	if desired >= 2 {
		for _, i := range p.rng.Perm(m) {
			for p.out[i] < desired {
				if p.out[i] == 1 && p.s.MaxBranching > 0 && p.branching() >= p.s.MaxBranching {
					break
				}
				if !p.branch(i) {
					break
				}
			}
		}
	}

	want := min(p.s.MinBranching, m)
	for _, i := range p.rng.Perm(m) {
		if p.branching() >= want {
			break
		}
		if p.out[i] <= 1 {
			p.branch(i)
		}
	}
	if got := p.branching(); got < want {
		p.diag.Missf(StageBranching, "floor %d: %d branching sources, want %d", p.floor(), got, want)
	}
}

// branch adds one more edge from source i, weighting less-served targets
// higher. With LongLinkChance the window is widened for this one edge.
func (p *pair) branch(i int) bool {
	lo, hi := p.window(i)
	if runmap.Chance(p.rng, p.s.LongLinkChance) {
		lo, hi = lo-p.s.Window-1, hi+p.s.Window+1
	}
	lo, hi = max(lo, p.lo[i]), min(hi, p.hi[i])

	var (
		cands   []int
		weights []float64
		total   float64
	)
	for t := lo; t <= hi; t++ {
		if p.linked(i, t) {
			continue
		}
		w := 1 / float64(1+p.in[t])
		cands = append(cands, t)
		weights = append(weights, w)
		total += w
	}
	if len(cands) == 0 {
		return false
	}
	r := p.rng.Float64() * total
	k := len(cands) - 1
	for j, w := range weights {
		if r < w {
			k = j
			break
		}
		r -= w
	}
	return p.connect(i, cands[k], false)
}

// targetsPass makes sure at least MinDistinctTargets targets reach
// MinInDegree, filling the least-served targets first.
func (p *pair) targetsPass() {
	want := min(p.s.MinDistinctTargets, len(p.dst))
	served := 0
	for _, in := range p.in {
		if in >= p.s.MinInDegree {
			served++
		}
	}
	if served >= want {
		return
	}
	order := make([]int, len(p.dst))
	for t := range order {
		order[t] = t
	}
	slices.SortStableFunc(order, func(a, b int) int { return p.in[a] - p.in[b] })

	for _, t := range order {
		if served >= want {
			break
		}
		if p.in[t] >= p.s.MinInDegree {
			continue
		}
		for p.in[t] < p.s.MinInDegree {
			i := p.leastConnectedSource(t)
			if i < 0 || !p.connect(i, t, false) {
				break
			}
		}
		if p.in[t] >= p.s.MinInDegree {
			served++
		}
	}
	if served < want {
		p.diag.Missf(StageTargets, "floor %d: %d served targets, want %d", p.floor()+1, served, want)
	}
}

func (p *pair) leastConnectedSource(t int) int {
	best := -1
	for i := range p.src {
		if p.linked(i, t) || !p.legal(i, t) || !p.hasCapacity(i) {
			continue
		}
		if best < 0 || p.out[i] < p.out[best] ||
			(p.out[i] == p.out[best] && p.distance(i, t) < p.distance(best, t)) {
			best = i
		}
	}
	return best
}

// outgoingPass gives every source still without an edge one to its
// clamped anchor, regardless of the out-degree cap.
func (p *pair) outgoingPass() {
	for i := range p.src {
		if p.out[i] > 0 {
			continue
		}
		if !p.connect(i, p.clampLegal(i, p.anchor(i)), true) {
			p.diag.Missf(StageOutgoing, "floor %d: %s has no outgoing edge", p.floor(), p.src[i].ID)
		}
	}
}

// retrofit makes every column branch somewhere on the map, adding at most
// MaxRetrofitPerFloor branching sources per floor.
func retrofit(pairs []*pair, s Settings, diag *runmap.Diagnostics) {
	width := 0
	for _, p := range pairs {
		width = max(width, len(p.src))
	}
	for col := range width {
		if branchesAnywhere(pairs, col) {
			continue
		}
		done := false
		for _, p := range pairs {
			if col >= len(p.src) || len(p.dst) < 2 || p.retrofits >= s.MaxRetrofitPerFloor {
				continue
			}
			if p.addNearest(col) {
				p.retrofits++
				done = true
				break
			}
		}
		if !done {
			diag.Missf(StageRetrofit, "column %d never branches", col)
		}
	}
}

func branchesAnywhere(pairs []*pair, col int) bool {
	for _, p := range pairs {
		if col < len(p.out) && p.out[col] > 1 {
			return true
		}
	}
	return false
}

// addNearest links source i to the free legal target nearest its anchor.
func (p *pair) addNearest(i int) bool {
	if !p.hasCapacity(i) {
		return false
	}
	a := p.anchor(i)
	best := -1
	for t := p.lo[i]; t <= p.hi[i]; t++ {
		if p.linked(i, t) {
			continue
		}
		if best < 0 || abs(t-a) < abs(best-a) {
			best = t
		}
	}
	return best >= 0 && p.connect(i, best, false)
}

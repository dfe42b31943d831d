package connect

import (
	"math"

	"github.com/matzehuels/runmap/pkg/runmap"
)

// pair owns the wiring of one source floor to the floor below it.
//
// Every edge goes through connect, which keeps the legal target range of
// each source up to date: a source may only use columns between the largest
// target of any source to its left and the smallest target of any source to
// its right. Sharing a target column is allowed, crossing is not.
type pair struct {
	src, dst runmap.Floor
	s        Settings
	rng      runmap.Rand
	diag     *runmap.Diagnostics

	out, in    []int
	minT, maxT []int // -1 until the source has an edge
	lo, hi     []int

	retrofits int
}

func newPair(src, dst runmap.Floor, s Settings, rng runmap.Rand, diag *runmap.Diagnostics) *pair {
	p := &pair{
		src:  src,
		dst:  dst,
		s:    s,
		rng:  rng,
		diag: diag,
		out:  make([]int, len(src)),
		in:   make([]int, len(dst)),
		minT: make([]int, len(src)),
		maxT: make([]int, len(src)),
		lo:   make([]int, len(src)),
		hi:   make([]int, len(src)),
	}
	for i := range src {
		p.minT[i], p.maxT[i] = -1, -1
	}
	// Edges may already exist when a pair is rebuilt over a wired floor.
	for i, n := range src {
		for _, t := range n.Next() {
			p.track(i, t.Column)
		}
	}
	p.recompute()
	return p
}

// floor returns the source floor index, used in diagnostics.
func (p *pair) floor() int { return p.src[0].Floor }

// anchor is the target column source i aligns to by linear interpolation.
func (p *pair) anchor(i int) int {
	m, n := len(p.src), len(p.dst)
	if m == 1 {
		return int(math.Round(float64(n-1) / 2))
	}
	return int(math.Round(float64(i) / float64(m-1) * float64(n-1)))
}

// window is the anchor range of source i, clipped to the target floor.
func (p *pair) window(i int) (int, int) {
	a := p.anchor(i)
	return max(a-p.s.Window, 0), min(a+p.s.Window, len(p.dst)-1)
}

// distance from target t to the anchor range of source i.
func (p *pair) distance(i, t int) int {
	lo, hi := p.window(i)
	switch {
	case t < lo:
		return lo - t
	case t > hi:
		return t - hi
	}
	return 0
}

func (p *pair) legal(i, t int) bool { return t >= p.lo[i] && t <= p.hi[i] }

func (p *pair) clampLegal(i, t int) int { return min(max(t, p.lo[i]), p.hi[i]) }

func (p *pair) hasCapacity(i int) bool { return p.out[i] < p.s.MaxOutDegree }

func (p *pair) linked(i, t int) bool { return p.src[i].HasEdge(p.dst[t]) }

// connect adds the edge i->t if it is new, legal and (unless forced) within
// the out-degree cap, then refreshes the ordering bounds.
func (p *pair) connect(i, t int, force bool) bool {
	if t < 0 || t >= len(p.dst) || !p.legal(i, t) {
		return false
	}
	if !force && !p.hasCapacity(i) {
		return false
	}
	if err := p.src[i].Connect(p.dst[t]); err != nil {
		return false
	}
	p.track(i, t)
	p.recompute()
	return true
}

func (p *pair) track(i, t int) {
	p.out[i]++
	p.in[t]++
	if p.minT[i] < 0 || t < p.minT[i] {
		p.minT[i] = t
	}
	if t > p.maxT[i] {
		p.maxT[i] = t
	}
}

// recompute refreshes the prefix-max / suffix-min bounds.
func (p *pair) recompute() {
	run := 0
	for i := range p.src {
		p.lo[i] = run
		run = max(run, p.maxT[i])
	}
	run = len(p.dst) - 1
	for i := len(p.src) - 1; i >= 0; i-- {
		p.hi[i] = run
		if p.minT[i] >= 0 {
			run = min(run, p.minT[i])
		}
	}
}

// branching counts sources with more than one outgoing edge.
func (p *pair) branching() int {
	n := 0
	for _, o := range p.out {
		if o > 1 {
			n++
		}
	}
	return n
}

func (p *pair) connectedSources() int {
	n := 0
	for _, o := range p.out {
		if o > 0 {
			n++
		}
	}
	return n
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

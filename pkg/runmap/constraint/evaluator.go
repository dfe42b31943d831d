// Package constraint decides whether a node may take a given type.
//
// Checks are evaluated against the current types on the map, so an
// [Evaluator] sees earlier placements of the same allocation pass. Distances
// are reachability distances along edges, not floor differences: two nodes
// on floors 3 and 5 that no path joins are never too close.
package constraint

import (
	"github.com/zyedidia/generic/mapset"

	"github.com/matzehuels/runmap/pkg/runmap"
)

// Evaluator checks placement rules on one map.
type Evaluator struct {
	m     *runmap.Map
	cfg   Config
	preds map[*runmap.Node][]*runmap.Node
}

// New builds an evaluator over m. The predecessor index is taken once, so
// edges must not change afterwards.
func New(m *runmap.Map, cfg Config) *Evaluator {
	return &Evaluator{m: m, cfg: cfg, preds: m.Predecessors()}
}

// Config returns the rules the evaluator enforces.
func (e *Evaluator) Config() Config { return e.cfg }

// Predecessors returns the nodes with an edge into n.
func (e *Evaluator) Predecessors(n *runmap.Node) []*runmap.Node { return e.preds[n] }

// WithinOffsets reports whether n is far enough from both the start and
// the Boss to hold t.
func (e *Evaluator) WithinOffsets(n *runmap.Node, t runmap.NodeType) bool {
	r := e.cfg.Rule(t)
	return n.Floor >= r.MinFromStart && e.m.BossFloor()-n.Floor >= r.MinFromBoss
}

// TooClose reports whether a node of type t lies within MinGap edges ahead
// of or behind n.
func (e *Evaluator) TooClose(n *runmap.Node, t runmap.NodeType) bool {
	depth := e.cfg.Rule(t).MinGap
	if depth <= 0 {
		return false
	}
	forward := func(x *runmap.Node) []*runmap.Node { return x.Next() }
	backward := func(x *runmap.Node) []*runmap.Node { return e.preds[x] }
	return search(n, t, depth, forward) || search(n, t, depth, backward)
}

// search runs a breadth-first search from n up to depth steps and reports
// whether a node of type t was met.
func search(n *runmap.Node, t runmap.NodeType, depth int, next func(*runmap.Node) []*runmap.Node) bool {
	visited := mapset.New[*runmap.Node]()
	visited.Put(n)
	frontier := []*runmap.Node{n}
	for d := 0; d < depth && len(frontier) > 0; d++ {
		var following []*runmap.Node
		for _, x := range frontier {
			for _, y := range next(x) {
				if visited.Has(y) {
					continue
				}
				if y.Type == t {
					return true
				}
				visited.Put(y)
				following = append(following, y)
			}
		}
		frontier = following
	}
	return false
}

// Adjacent reports whether a direct successor or predecessor of n is t.
func (e *Evaluator) Adjacent(n *runmap.Node, t runmap.NodeType) bool {
	for _, x := range n.Next() {
		if x.Type == t {
			return true
		}
	}
	for _, x := range e.preds[n] {
		if x.Type == t {
			return true
		}
	}
	return false
}

// RunThrough returns the longest run of consecutive t nodes on any path
// through n, counting n as t.
func (e *Evaluator) RunThrough(n *runmap.Node, t runmap.NodeType) int {
	back := make(map[*runmap.Node]int)
	fwd := make(map[*runmap.Node]int)

	var before func(x *runmap.Node) int
	before = func(x *runmap.Node) int {
		if x.Type != t {
			return 0
		}
		if v, ok := back[x]; ok {
			return v
		}
		best := 0
		for _, p := range e.preds[x] {
			best = max(best, before(p))
		}
		back[x] = best + 1
		return best + 1
	}
	var after func(x *runmap.Node) int
	after = func(x *runmap.Node) int {
		if x.Type != t {
			return 0
		}
		if v, ok := fwd[x]; ok {
			return v
		}
		best := 0
		for _, c := range x.Next() {
			best = max(best, after(c))
		}
		fwd[x] = best + 1
		return best + 1
	}

	up, down := 0, 0
	for _, p := range e.preds[n] {
		up = max(up, before(p))
	}
	for _, c := range n.Next() {
		down = max(down, after(c))
	}
	return up + 1 + down
}

// Eligible reports whether n may be assigned t: n is still unassigned, t is
// not Boss, and every rule for t holds.
func (e *Evaluator) Eligible(n *runmap.Node, t runmap.NodeType) bool {
	return e.Explain(n, t) == ""
}

// Explain returns the name of the first failing check for placing t on n,
// or "" if the placement is allowed.
func (e *Evaluator) Explain(n *runmap.Node, t runmap.NodeType) string {
	r := e.cfg.Rule(t)
	switch {
	case n == nil:
		return "missing node"
	case t == runmap.Boss:
		return "boss is fixed"
	case n.Assigned():
		return "already assigned"
	case !e.WithinOffsets(n, t):
		return "offset"
	case e.TooClose(n, t):
		return "gap"
	case r.ForbidConsecutive && e.Adjacent(n, t):
		return "consecutive"
	case r.MaxConsecutive > 0 && e.RunThrough(n, t) > r.MaxConsecutive:
		return "run length"
	}
	return ""
}

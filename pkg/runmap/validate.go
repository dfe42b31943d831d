package runmap

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyMap is returned by [Map.Validate] for a map without floors or
	// with an empty floor.
	ErrEmptyMap = errors.New("map has an empty floor")

	// ErrBossFloor is returned by [Map.Validate] when the last floor is not
	// exactly one Boss node, or a Boss appears elsewhere.
	ErrBossFloor = errors.New("last floor must hold exactly one boss")

	// ErrDeadEnd is returned by [Map.Validate] when a node before the last
	// floor has no outgoing edge.
	ErrDeadEnd = errors.New("node has no outgoing edge")

	// ErrUnreachable is returned by [Map.Validate] when a node after floor 0
	// has no incoming edge.
	ErrUnreachable = errors.New("node has no incoming edge")

	// ErrGraphHasCycle is returned by [Map.Validate] when a cycle is detected.
	// Consecutive-floor edges make this impossible for well-formed maps; the
	// check guards restored data.
	ErrGraphHasCycle = errors.New("map contains a cycle")

	// ErrColumnMismatch is returned by [Map.Validate] when a node's Floor or
	// Column disagrees with its position in Floors.
	ErrColumnMismatch = errors.New("node position does not match its floor slot")
)

// Validate checks the structural invariants of a finished map:
//
//  1. every floor is non-empty and node positions match their slots
//  2. the last floor holds exactly one Boss and no other floor holds one
//  3. every edge connects consecutive floors
//  4. nodes before the last floor have an outgoing edge
//  5. nodes after floor 0 have an incoming edge
//  6. the graph is acyclic
func (m *Map) Validate() error {
	if len(m.Floors) == 0 {
		return ErrEmptyMap
	}
	last := m.BossFloor()
	for f, floor := range m.Floors {
		if len(floor) == 0 {
			return fmt.Errorf("%w: floor %d", ErrEmptyMap, f)
		}
		for col, n := range floor {
			if n.Floor != f || n.Column != col {
				return fmt.Errorf("%w: %s at floor %d column %d", ErrColumnMismatch, n.ID, f, col)
			}
			if (n.Type == Boss) != (f == last) {
				return fmt.Errorf("%w: %s is %s on floor %d", ErrBossFloor, n.ID, n.Type, f)
			}
		}
	}
	if len(m.Floors[last]) != 1 {
		return fmt.Errorf("%w: %d nodes on floor %d", ErrBossFloor, len(m.Floors[last]), last)
	}
	if err := m.validateEdges(); err != nil {
		return err
	}
	return m.detectCycles()
}

func (m *Map) validateEdges() error {
	preds := m.Predecessors()
	last := m.BossFloor()
	for _, floor := range m.Floors {
		for _, n := range floor {
			for _, t := range n.next {
				if t.Floor != n.Floor+1 {
					return fmt.Errorf("%w: %s->%s", ErrNonConsecutiveFloors, n.ID, t.ID)
				}
			}
			if n.Floor < last && len(n.next) == 0 {
				return fmt.Errorf("%w: %s", ErrDeadEnd, n.ID)
			}
			if n.Floor > 0 && len(preds[n]) == 0 {
				return fmt.Errorf("%w: %s", ErrUnreachable, n.ID)
			}
		}
	}
	return nil
}

func (m *Map) detectCycles() error {
	const (
		white = iota
		gray
		black
	)

	color := make(map[*Node]int, m.NodeCount())
	var hasCycle bool

	var dfs func(n *Node)
	dfs = func(n *Node) {
		color[n] = gray
		for _, child := range n.next {
			switch color[child] {
			case white:
				dfs(child)
			case gray:
				hasCycle = true
				return
			}
		}
		color[n] = black
	}

	for _, n := range m.Nodes() {
		if color[n] == white {
			dfs(n)
			if hasCycle {
				return ErrGraphHasCycle
			}
		}
	}
	return nil
}

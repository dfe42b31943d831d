package runmap

import (
	"fmt"
	"slices"
)

// Floor is the ordered row of nodes sharing one floor index.
// Order is column order, left to right.
type Floor []*Node

// Map is the layered run map: floors of nodes with forward edges between
// consecutive floors, terminating in a single Boss node.
//
// A Map is not safe for concurrent mutation. Once generation has returned,
// only the Completed flags change.
type Map struct {
	ID     string
	Seed   uint64
	Floors []Floor
}

// New creates the nodes of a map with counts[i] nodes on floor i.
// Counts below one are raised to one and the last floor always holds exactly
// one Boss node. No edges are created.
func New(counts []int) *Map {
	m := &Map{Floors: make([]Floor, len(counts))}
	for f, c := range counts {
		if f == len(counts)-1 {
			boss := &Node{ID: NodeID(f, 0), Type: Boss, Floor: f, assigned: true}
			m.Floors[f] = Floor{boss}
			continue
		}
		c = max(c, 1)
		floor := make(Floor, c)
		for col := range floor {
			floor[col] = &Node{ID: NodeID(f, col), Type: Battle, Floor: f, Column: col}
		}
		m.Floors[f] = floor
	}
	return m
}

// NodeRecord describes one stored node for [Restore].
type NodeRecord struct {
	ID        string
	Type      NodeType
	Completed bool
	Next      []string // target IDs on the following floor, in edge order
}

// Restore rebuilds a map from stored records. floors[i] lists floor i's nodes
// in column order. Every restored node counts as assigned.
func Restore(id string, seed uint64, floors [][]NodeRecord) (*Map, error) {
	m := &Map{ID: id, Seed: seed, Floors: make([]Floor, len(floors))}
	byID := make(map[string]*Node)
	for f, recs := range floors {
		floor := make(Floor, len(recs))
		for col, r := range recs {
			if r.ID == "" {
				return nil, fmt.Errorf("floor %d column %d: empty node id", f, col)
			}
			if _, dup := byID[r.ID]; dup {
				return nil, fmt.Errorf("node %s: duplicate id", r.ID)
			}
			n := &Node{ID: r.ID, Type: r.Type, Floor: f, Column: col, Completed: r.Completed, assigned: true}
			floor[col] = n
			byID[r.ID] = n
		}
		m.Floors[f] = floor
	}
	for _, recs := range floors {
		for _, r := range recs {
			src := byID[r.ID]
			for _, to := range r.Next {
				dst, ok := byID[to]
				if !ok {
					return nil, fmt.Errorf("edge %s->%s: unknown target", r.ID, to)
				}
				if err := src.Connect(dst); err != nil {
					return nil, fmt.Errorf("edge %s->%s: %w", r.ID, to, err)
				}
			}
		}
	}
	return m, nil
}

// FloorCount returns the number of floors.
func (m *Map) FloorCount() int { return len(m.Floors) }

// BossFloor returns the index of the last floor.
func (m *Map) BossFloor() int { return len(m.Floors) - 1 }

// Boss returns the single node on the last floor, or nil for an empty map.
func (m *Map) Boss() *Node {
	if len(m.Floors) == 0 || len(m.Floors[m.BossFloor()]) == 0 {
		return nil
	}
	return m.Floors[m.BossFloor()][0]
}

// Nodes returns every node in floor-major, column-minor order.
func (m *Map) Nodes() []*Node {
	var nodes []*Node
	for _, f := range m.Floors {
		nodes = append(nodes, f...)
	}
	return nodes
}

// Node returns the node with the given ID.
func (m *Map) Node(id string) (*Node, bool) {
	for _, f := range m.Floors {
		for _, n := range f {
			if n.ID == id {
				return n, true
			}
		}
	}
	return nil, false
}

// NodeCount returns the total number of nodes.
func (m *Map) NodeCount() int {
	total := 0
	for _, f := range m.Floors {
		total += len(f)
	}
	return total
}

// EdgeCount returns the total number of forward edges.
func (m *Map) EdgeCount() int {
	total := 0
	for _, f := range m.Floors {
		for _, n := range f {
			total += n.OutDegree()
		}
	}
	return total
}

// Predecessors builds the reverse edge index. Each list is in source column
// order. The index is a snapshot; rebuild it after adding edges.
func (m *Map) Predecessors() map[*Node][]*Node {
	preds := make(map[*Node][]*Node, m.NodeCount())
	for _, f := range m.Floors {
		for _, n := range f {
			for _, t := range n.next {
				preds[t] = append(preds[t], n)
			}
		}
	}
	return preds
}

// CountType returns how many nodes carry type t.
func (m *Map) CountType(t NodeType) int {
	total := 0
	for _, f := range m.Floors {
		for _, n := range f {
			if n.Type == t {
				total++
			}
		}
	}
	return total
}

// Reachable returns the nodes a player standing on n may move to next.
func (m *Map) Reachable(n *Node) []*Node { return slices.Clone(n.next) }

// Selectable reports whether target can be entered from current. A nil
// current means the run has not started yet, in which case every
// uncompleted floor-0 node is selectable.
func (m *Map) Selectable(current, target *Node) bool {
	if target == nil || target.Completed {
		return false
	}
	if current == nil {
		return target.Floor == 0
	}
	return current.HasEdge(target)
}

// Complete marks n as resolved. Completion is one-way.
func (m *Map) Complete(n *Node) { n.Completed = true }

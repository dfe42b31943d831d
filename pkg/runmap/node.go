package runmap

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	// ErrNonConsecutiveFloors is returned by [Node.Connect] and [Map.Validate]
	// when an edge does not lead to the floor directly below its source.
	ErrNonConsecutiveFloors = errors.New("edges must connect consecutive floors")

	// ErrDuplicateEdge is returned by [Node.Connect] when the edge already exists.
	ErrDuplicateEdge = errors.New("duplicate edge")

	// ErrAlreadyAssigned is returned by [Node.Assign] when the node's type has
	// already been decided. Types change at most once per node.
	ErrAlreadyAssigned = errors.New("node type already assigned")

	// ErrUnknownNodeType is returned when parsing a type name that is not one
	// of battle, elite, shop, rest, event or boss.
	ErrUnknownNodeType = errors.New("unknown node type")
)

// NodeType is the semantic kind of a map node.
type NodeType int

const (
	// Battle is the default type every node starts as.
	Battle NodeType = iota
	Elite
	Shop
	Rest
	Event
	// Boss is reserved for the single node on the last floor.
	Boss
)

var nodeTypeNames = [...]string{
	Battle: "battle",
	Elite:  "elite",
	Shop:   "shop",
	Rest:   "rest",
	Event:  "event",
	Boss:   "boss",
}

// NodeTypes lists every node type in declaration order.
var NodeTypes = []NodeType{Battle, Elite, Shop, Rest, Event, Boss}

func (t NodeType) String() string {
	if t < 0 || int(t) >= len(nodeTypeNames) {
		return fmt.Sprintf("NodeType(%d)", int(t))
	}
	return nodeTypeNames[t]
}

// ParseNodeType converts a case-insensitive type name into a NodeType.
func ParseNodeType(s string) (NodeType, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for t, n := range nodeTypeNames {
		if n == name {
			return NodeType(t), nil
		}
	}
	return Battle, fmt.Errorf("%w: %q", ErrUnknownNodeType, s)
}

// MarshalText implements encoding.TextMarshaler.
func (t NodeType) MarshalText() ([]byte, error) {
	if t < 0 || int(t) >= len(nodeTypeNames) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownNodeType, int(t))
	}
	return []byte(nodeTypeNames[t]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *NodeType) UnmarshalText(text []byte) error {
	parsed, err := ParseNodeType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Node is one room of the run map.
//
// Nodes are created by [New] (or [Restore]) with type Battle, except the
// Boss node which is created already typed. Forward edges always point to
// nodes on the next floor and keep their insertion order.
type Node struct {
	ID        string
	Type      NodeType
	Floor     int
	Column    int  // position within the floor, 0 = leftmost
	Completed bool // set by gameplay once the player resolves the node

	// Payload is attached by collaborators (encounter, shop stock, event
	// definition) after generation. The generator never reads it.
	Payload any

	next     []*Node
	assigned bool
}

// Connect adds a forward edge from n to target.
// Returns ErrNonConsecutiveFloors if target is not on the next floor and
// ErrDuplicateEdge if the edge is already present.
func (n *Node) Connect(target *Node) error {
	if target.Floor != n.Floor+1 {
		return ErrNonConsecutiveFloors
	}
	if n.HasEdge(target) {
		return ErrDuplicateEdge
	}
	n.next = append(n.next, target)
	return nil
}

// HasEdge reports whether n has a forward edge to target.
func (n *Node) HasEdge(target *Node) bool { return slices.Contains(n.next, target) }

// Next returns the forward edges in insertion order.
// The returned slice should not be modified.
func (n *Node) Next() []*Node { return n.next }

// OutDegree returns the number of forward edges.
func (n *Node) OutDegree() int { return len(n.next) }

// Assign sets the node's final type. It may be called once; Boss nodes and
// nodes restored from storage are already assigned.
func (n *Node) Assign(t NodeType) error {
	if n.assigned {
		return fmt.Errorf("%w: %s is %s", ErrAlreadyAssigned, n.ID, n.Type)
	}
	n.Type = t
	n.assigned = true
	return nil
}

// Assigned reports whether the node's type has been decided.
func (n *Node) Assigned() bool { return n.assigned }

// NodeID returns the canonical identifier for the node at floor/column.
func NodeID(floor, column int) string { return fmt.Sprintf("f%dc%d", floor, column) }

// Package runmap provides the layered map a roguelike run is played on.
//
// # Overview
//
// A run map is a directed acyclic graph organized into floors. Floor 0 is
// where the player enters, the last floor holds a single Boss node, and
// every edge leads from a node to a node on the next floor. The player walks
// downward one floor at a time, choosing among the forward edges of the node
// they stand on.
//
// # Basic Usage
//
// Create the nodes with [New], wire them with [Node.Connect] and decide
// their types with [Node.Assign]:
//
//	m := runmap.New([]int{2, 1})
//	_ = m.Floors[0][0].Connect(m.Boss())
//	_ = m.Floors[0][1].Connect(m.Boss())
//	_ = m.Floors[0][1].Assign(runmap.Rest)
//
// Use [Map.Validate] to check the structural invariants. During play, ask
// [Map.Selectable] whether a move is legal and mark resolved rooms with
// [Map.Complete].
//
// The generator builds maps in three stages, each in its own subpackage:
//
//   - [layout] decides how many nodes each floor holds
//   - [connect] wires consecutive floors without edge crossings
//   - [slot] assigns Shop, Elite, Rest and Event types under the placement
//     rules checked by [constraint]
//
// # Node Types
//
// Every node starts as [Battle]. [Node.Assign] may change the type exactly
// once, and the Boss is created already assigned. Type names round-trip
// through [NodeType.MarshalText] and [ParseNodeType].
//
// # Edge Crossings
//
// Two edges between the same floors cross when their source order and
// target order disagree. Generated maps never contain crossings; use
// [CountCrossings] to verify a map built or restored by other means.
//
// # Randomness and Diagnostics
//
// Every stage draws from an explicit [Rand] so equal seeds produce equal
// maps. Requirements that cannot be satisfied are not errors; they are
// reported to a [Diagnostics] sink as soft misses and generation continues.
//
// # Concurrency
//
// A Map is not safe for concurrent mutation. Once generation returns, maps
// may be read from many goroutines as long as only one of them marks nodes
// completed.
//
// [layout]: github.com/matzehuels/runmap/pkg/runmap/layout
// [connect]: github.com/matzehuels/runmap/pkg/runmap/connect
// [slot]: github.com/matzehuels/runmap/pkg/runmap/slot
// [constraint]: github.com/matzehuels/runmap/pkg/runmap/constraint
package runmap

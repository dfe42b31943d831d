package runmap_test

import (
	"fmt"

	"github.com/matzehuels/runmap/pkg/runmap"
)

func ExampleNew() {
	// Two rooms leading into the Boss.
	m := runmap.New([]int{2, 1})
	_ = m.Floors[0][0].Connect(m.Boss())
	_ = m.Floors[0][1].Connect(m.Boss())

	fmt.Println("Nodes:", m.NodeCount())
	fmt.Println("Edges:", m.EdgeCount())
	fmt.Println("Boss:", m.Boss().ID)
	fmt.Println("Valid:", m.Validate() == nil)
	// Output:
	// Nodes: 3
	// Edges: 2
	// Boss: f1c0
	// Valid: true
}

func ExampleMap_Selectable() {
	m := runmap.New([]int{2, 2, 1})
	a, b := m.Floors[0][0], m.Floors[0][1]
	_ = a.Connect(m.Floors[1][0])
	_ = b.Connect(m.Floors[1][1])

	fmt.Println("start a:", m.Selectable(nil, a))
	m.Complete(a)
	fmt.Println("a again:", m.Selectable(nil, a))
	fmt.Println("a -> f1c0:", m.Selectable(a, m.Floors[1][0]))
	fmt.Println("a -> f1c1:", m.Selectable(a, m.Floors[1][1]))
	// Output:
	// start a: true
	// a again: false
	// a -> f1c0: true
	// a -> f1c1: false
}

func ExampleCountCrossings() {
	m := runmap.New([]int{2, 2, 1})
	_ = m.Floors[0][0].Connect(m.Floors[1][1])
	_ = m.Floors[0][1].Connect(m.Floors[1][0])

	fmt.Println("Crossings:", runmap.CountCrossings(m))
	// Output:
	// Crossings: 1
}

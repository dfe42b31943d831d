package runmap

import "slices"

// CountCrossings returns the total number of edge crossings over all pairs of
// consecutive floors. Generated maps always report zero.
func CountCrossings(m *Map) int {
	crossings := 0
	for f := 0; f+1 < len(m.Floors); f++ {
		crossings += CountLayerCrossings(m.Floors[f], m.Floors[f+1])
	}
	return crossings
}

// CountLayerCrossings counts edge crossings between two adjacent floors using
// a Fenwick tree (binary indexed tree) in O(E log V).
//
// Two edges (u1,v1) and (u2,v2) cross if and only if:
//
//	col(u1) < col(u2) AND col(v1) > col(v2)
//
// Edges sharing an endpoint never cross. This is the number of inversions in
// the sequence of target columns when edges are sorted by source column.
func CountLayerCrossings(upper, lower Floor) int {
	if len(upper) == 0 || len(lower) == 0 {
		return 0
	}

	lowerPos := make(map[*Node]int, len(lower))
	for i, n := range lower {
		lowerPos[n] = i
	}

	type edge struct{ upper, lower int }
	edges := make([]edge, 0, len(upper)*2)
	for i, n := range upper {
		for _, child := range n.next {
			if pos, ok := lowerPos[child]; ok {
				edges = append(edges, edge{i, pos})
			}
		}
	}
	if len(edges) < 2 {
		return 0
	}

	slices.SortFunc(edges, func(a, b edge) int {
		if a.upper != b.upper {
			return a.upper - b.upper
		}
		return a.lower - b.lower
	})

	// Edges from the same source are never counted against each other:
	// query every edge of a source before inserting any of them.
	fenwick := make([]int, len(lower)+1)
	crossings, total := 0, 0
	for start := 0; start < len(edges); {
		end := start
		for end < len(edges) && edges[end].upper == edges[start].upper {
			end++
		}
		for _, e := range edges[start:end] {
			lessOrEqual := 0
			for q := e.lower + 1; q > 0; q -= q & (-q) {
				lessOrEqual += fenwick[q]
			}
			crossings += total - lessOrEqual
		}
		for _, e := range edges[start:end] {
			total++
			for idx := e.lower + 1; idx < len(fenwick); idx += idx & (-idx) {
				fenwick[idx]++
			}
		}
		start = end
	}
	return crossings
}

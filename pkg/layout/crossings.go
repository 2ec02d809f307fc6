package layout

import "slices"

// totalCrossings sums the edge crossings between every pair of consecutive
// ranks for the given ordering.
func totalCrossings(g *graph, order map[int][]string, rankIDs []int) int {
	crossings := 0
	for i := 0; i < len(rankIDs)-1; i++ {
		crossings += layerCrossings(g, order[rankIDs[i]], order[rankIDs[i+1]])
	}
	return crossings
}

// layerCrossings counts edge crossings between two adjacent ranks using a
// Fenwick tree (binary indexed tree) in O(E log V), where E is the number of
// edges between the ranks and V the size of the lower rank.
//
// Two edges (u1,v1) and (u2,v2) cross if and only if
//
//	pos(u1) < pos(u2) AND pos(v1) > pos(v2)
//
// which is the number of inversions in the sequence of target positions when
// edges are sorted by source position.
func layerCrossings(g *graph, upper, lower []string) int {
	if len(upper) == 0 || len(lower) == 0 {
		return 0
	}

	lowerPos := posMap(lower)

	type edge struct{ upper, lower int }
	edges := make([]edge, 0, len(upper)*2)
	for i, id := range upper {
		for _, child := range g.outgoing[id] {
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

	fenwick := make([]int, len(lower)+1)
	crossings, total := 0, 0
	for _, e := range edges {
		// Count edges seen so far with target <= e.lower.
		lessOrEqual := 0
		for q := e.lower + 1; q > 0; q -= q & (-q) {
			lessOrEqual += fenwick[q]
		}
		crossings += total - lessOrEqual

		total++
		for idx := e.lower + 1; idx < len(fenwick); idx += idx & (-idx) {
			fenwick[idx]++
		}
	}
	return crossings
}

package layout

import (
	"slices"

	"github.com/matzehuels/flowboard/pkg/model"
)

// Options configures the layered layout.
type Options struct {
	RankSpacing   float64 // gap between consecutive ranks along the primary axis
	NodeSpacing   float64 // gap between nodes within a rank
	MarginX       float64 // left margin of the drawing
	MarginY       float64 // top margin of the drawing
	DefaultWidth  float64 // nominal width for nodes without an explicit size
	DefaultHeight float64 // nominal height for nodes without an explicit size
	Sweeps        int     // ordering sweeps per direction
}

// DefaultOptions returns the spacing defaults used by the editor.
func DefaultOptions() Options {
	return Options{
		RankSpacing:   120,
		NodeSpacing:   40,
		MarginX:       50,
		MarginY:       50,
		DefaultWidth:  150,
		DefaultHeight: 60,
		Sweeps:        4,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.RankSpacing <= 0 {
		o.RankSpacing = d.RankSpacing
	}
	if o.NodeSpacing <= 0 {
		o.NodeSpacing = d.NodeSpacing
	}
	if o.MarginX <= 0 {
		o.MarginX = d.MarginX
	}
	if o.MarginY <= 0 {
		o.MarginY = d.MarginY
	}
	if o.DefaultWidth <= 0 {
		o.DefaultWidth = d.DefaultWidth
	}
	if o.DefaultHeight <= 0 {
		o.DefaultHeight = d.DefaultHeight
	}
	if o.Sweeps <= 0 {
		o.Sweeps = d.Sweeps
	}
	return o
}

// graph is the internal adjacency view the layered algorithm works on.
// Self-loops are excluded: they cannot influence ranking or ordering.
type graph struct {
	ids      []string
	nodes    map[string]*model.Node
	outgoing map[string][]string
	incoming map[string][]string
}

func buildGraph(nodes []model.Node, edges []model.Edge) *graph {
	g := &graph{
		ids:      make([]string, 0, len(nodes)),
		nodes:    make(map[string]*model.Node, len(nodes)),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
	}
	for i := range nodes {
		n := &nodes[i]
		if _, dup := g.nodes[n.ID]; dup {
			continue
		}
		g.nodes[n.ID] = n
		g.ids = append(g.ids, n.ID)
	}
	slices.Sort(g.ids) // deterministic base order
	for _, e := range edges {
		if e.Source == e.Target {
			continue
		}
		if _, ok := g.nodes[e.Source]; !ok {
			continue
		}
		if _, ok := g.nodes[e.Target]; !ok {
			continue
		}
		g.outgoing[e.Source] = append(g.outgoing[e.Source], e.Target)
		g.incoming[e.Target] = append(g.incoming[e.Target], e.Source)
	}
	return g
}

// Hierarchical computes a layered layout for the given direction and returns
// a new node slice with updated positions. The input is not modified.
//
// Ranking uses longest-path layering via topological traversal: sources sit
// at rank 0 and every node lands one rank below its deepest parent. Nodes on
// a cycle never reach zero in-degree and stay at rank 0; isolated nodes are
// sources and rank 0 as well, so every node receives a deterministic rank.
//
// Within each rank, nodes are ordered by repeated barycenter sweeps; the
// ordering with the fewest total crossings seen across all sweeps wins.
func Hierarchical(nodes []model.Node, edges []model.Edge, dir model.Direction, opts Options) []model.Node {
	opts = opts.withDefaults()
	out := model.CloneNodes(nodes)
	if len(out) == 0 {
		return out
	}
	if !dir.Valid() {
		dir = model.DirectionLR
	}

	g := buildGraph(out, edges)
	ranks := assignRanks(g)
	order := orderRanks(g, ranks, opts.Sweeps)
	assignCoords(g, ranks, order, dir, opts)
	return out
}

// assignRanks computes longest-path ranks with Kahn's algorithm.
func assignRanks(g *graph) map[string]int {
	inDegree := make(map[string]int, len(g.ids))
	ranks := make(map[string]int, len(g.ids))
	queue := make([]string, 0, len(g.ids))

	for _, id := range g.ids {
		d := len(g.incoming[id])
		inDegree[id] = d
		if d == 0 {
			queue = append(queue, id)
		}
	}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		for _, child := range g.outgoing[curr] {
			if r := ranks[curr] + 1; r > ranks[child] {
				ranks[child] = r
			}
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	return ranks
}

// orderRanks produces a left-to-right order for each rank that keeps edge
// crossings low. Alternating downward and upward barycenter sweeps are run,
// and after every sweep the total crossing count is compared against the
// best ordering seen so far.
func orderRanks(g *graph, ranks map[string]int, sweeps int) map[int][]string {
	order := make(map[int][]string)
	for _, id := range g.ids {
		r := ranks[id]
		order[r] = append(order[r], id)
	}

	rankIDs := sortedRanks(order)
	if len(rankIDs) < 2 {
		return order
	}

	best := cloneOrder(order)
	bestCrossings := totalCrossings(g, order, rankIDs)

	for s := 0; s < sweeps && bestCrossings > 0; s++ {
		// Downward: order each rank after the first by parent barycenters.
		for i := 1; i < len(rankIDs); i++ {
			sortByBarycenter(g, order, rankIDs[i], rankIDs[i-1], true)
		}
		if c := totalCrossings(g, order, rankIDs); c < bestCrossings {
			best, bestCrossings = cloneOrder(order), c
		}

		// Upward: order each rank before the last by child barycenters.
		for i := len(rankIDs) - 2; i >= 0; i-- {
			sortByBarycenter(g, order, rankIDs[i], rankIDs[i+1], false)
		}
		if c := totalCrossings(g, order, rankIDs); c < bestCrossings {
			best, bestCrossings = cloneOrder(order), c
		}
	}

	return best
}

// sortByBarycenter reorders rank r by the mean position of each node's
// neighbors in the adjacent rank. Nodes without neighbors keep their
// relative order (stable sort).
func sortByBarycenter(g *graph, order map[int][]string, r, adjacent int, useParents bool) {
	adjPos := posMap(order[adjacent])

	type keyed struct {
		id  string
		bc  float64
		has bool
	}
	row := make([]keyed, len(order[r]))
	for i, id := range order[r] {
		nbrs := g.outgoing[id]
		if useParents {
			nbrs = g.incoming[id]
		}
		sum, count := 0.0, 0
		for _, nb := range nbrs {
			if p, ok := adjPos[nb]; ok {
				sum += float64(p)
				count++
			}
		}
		k := keyed{id: id}
		if count > 0 {
			k.bc = sum / float64(count)
			k.has = true
		} else {
			k.bc = float64(i)
		}
		row[i] = k
	}

	slices.SortStableFunc(row, func(a, b keyed) int {
		switch {
		case a.bc < b.bc:
			return -1
		case a.bc > b.bc:
			return 1
		}
		return 0
	})

	for i, k := range row {
		order[r][i] = k.id
	}
}

// assignCoords positions each node from its rank and in-rank order, then
// translates the center-anchored result to the model's top-left anchoring.
func assignCoords(g *graph, ranks map[string]int, order map[int][]string, dir model.Direction, opts Options) {
	rankIDs := sortedRanks(order)

	// Primary extent of a rank is the largest node size along the primary
	// axis, so ranks never overlap regardless of node dimensions.
	extent := func(id string) (primary, secondary float64) {
		n := g.nodes[id]
		w, h := n.Width, n.Height
		if w <= 0 {
			w = opts.DefaultWidth
		}
		if h <= 0 {
			h = opts.DefaultHeight
		}
		if dir.Horizontal() {
			return w, h
		}
		return h, w
	}

	offset := primaryMargin(dir, opts)
	centers := make(map[string][2]float64, len(g.ids)) // primary, secondary

	for _, r := range rankIDs {
		rankExtent := 0.0
		for _, id := range order[r] {
			if p, _ := extent(id); p > rankExtent {
				rankExtent = p
			}
		}

		sec := secondaryMargin(dir, opts)
		for _, id := range order[r] {
			_, s := extent(id)
			centers[id] = [2]float64{offset + rankExtent/2, sec + s/2}
			sec += s + opts.NodeSpacing
		}
		offset += rankExtent + opts.RankSpacing
	}

	// For RL and BT the primary axis grows the other way: mirror the primary
	// centers inside the occupied span so rank 0 ends up on the far side.
	if dir.Reversed() && len(centers) > 0 {
		var minP, maxP float64
		first := true
		for _, c := range centers {
			if first {
				minP, maxP = c[0], c[0]
				first = false
				continue
			}
			if c[0] < minP {
				minP = c[0]
			}
			if c[0] > maxP {
				maxP = c[0]
			}
		}
		for id, c := range centers {
			c[0] = maxP + minP - c[0]
			centers[id] = c
		}
	}

	for id, c := range centers {
		n := g.nodes[id]
		w, h := n.Width, n.Height
		if w <= 0 {
			w = opts.DefaultWidth
		}
		if h <= 0 {
			h = opts.DefaultHeight
		}
		if dir.Horizontal() {
			n.Position.X = c[0] - w/2
			n.Position.Y = c[1] - h/2
		} else {
			n.Position.X = c[1] - w/2
			n.Position.Y = c[0] - h/2
		}
	}
}

func primaryMargin(dir model.Direction, opts Options) float64 {
	if dir.Horizontal() {
		return opts.MarginX
	}
	return opts.MarginY
}

func secondaryMargin(dir model.Direction, opts Options) float64 {
	if dir.Horizontal() {
		return opts.MarginY
	}
	return opts.MarginX
}

func sortedRanks(order map[int][]string) []int {
	ranks := make([]int, 0, len(order))
	for r := range order {
		ranks = append(ranks, r)
	}
	slices.Sort(ranks)
	return ranks
}

func cloneOrder(order map[int][]string) map[int][]string {
	out := make(map[int][]string, len(order))
	for r, ids := range order {
		out[r] = slices.Clone(ids)
	}
	return out
}

func posMap(ids []string) map[string]int {
	m := make(map[string]int, len(ids))
	for i, id := range ids {
		m[id] = i
	}
	return m
}

package model

import "fmt"

// Grid used when an imported node arrives without a position. Nodes are laid
// out left to right, wrapping every fallbackColumns nodes, so a graph with no
// positions at all still opens readable.
const (
	fallbackColumns = 5
	fallbackStepX   = 200
	fallbackStepY   = 120
)

// Diagnostic records one repair made while normalizing untrusted input.
type Diagnostic struct {
	Kind    string `json:"kind"`    // "node" or "edge"
	ID      string `json:"id"`      // object id after repair
	Message string `json:"message"` // what was defaulted or dropped
}

// Normalize validates an untrusted {nodes, edges} pair and returns a
// fully-populated copy that satisfies the graph invariants, plus a list of
// repairs made.
//
// Upstream producers (the Mermaid conversion service, AI inference) are not
// trusted to emit complete objects. Missing identity, position, type, and
// payload fields are defaulted rather than rejected:
//
//   - missing node id: a fresh id is generated
//   - missing position (decoded as the zero value): the node is placed on a
//     simple grid fallback
//   - missing type: NodeTypeGeneric
//   - missing label: the node id
//   - edge referencing a nonexistent node: the edge is dropped
//
// Normalize never fails. The returned slices are deep copies; the input is
// not modified.
func Normalize(nodes []Node, edges []Edge) ([]Node, []Edge, []Diagnostic) {
	var diags []Diagnostic

	outNodes := make([]Node, 0, len(nodes))
	known := make(map[string]bool, len(nodes))
	placed := 0

	for _, n := range nodes {
		n = n.Clone()
		if n.ID == "" {
			n.ID = NewID()
			diags = append(diags, Diagnostic{Kind: "node", ID: n.ID, Message: "missing id, generated"})
		}
		if n.Position == (Position{}) {
			n.Position = Position{
				X: float64(placed%fallbackColumns) * fallbackStepX,
				Y: float64(placed/fallbackColumns) * fallbackStepY,
			}
			diags = append(diags, Diagnostic{Kind: "node", ID: n.ID, Message: "missing position, placed on fallback grid"})
		}
		if n.Type == "" {
			n.Type = NodeTypeGeneric
			diags = append(diags, Diagnostic{Kind: "node", ID: n.ID, Message: "missing type, defaulted to " + NodeTypeGeneric})
		}
		if n.Data.Label == "" {
			n.Data.Label = n.ID
			diags = append(diags, Diagnostic{Kind: "node", ID: n.ID, Message: "missing label, defaulted to id"})
		}
		known[n.ID] = true
		outNodes = append(outNodes, n)
		placed++
	}

	outEdges := make([]Edge, 0, len(edges))
	for _, e := range edges {
		e = e.Clone()
		if !known[e.Source] || !known[e.Target] {
			diags = append(diags, Diagnostic{
				Kind:    "edge",
				ID:      e.ID,
				Message: fmt.Sprintf("dropped: references unknown node (%s -> %s)", e.Source, e.Target),
			})
			continue
		}
		if e.ID == "" {
			e.ID = NewID()
			diags = append(diags, Diagnostic{Kind: "edge", ID: e.ID, Message: "missing id, generated"})
		}
		outEdges = append(outEdges, e)
	}

	return outNodes, outEdges, diags
}

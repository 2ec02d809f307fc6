// Package change reduces batches of heterogeneous change descriptors from
// the interactive surface into new node and edge sets.
//
// Descriptors come in two kinds. Standard descriptors (move, add, remove)
// are the vocabulary a canvas emits while the user drags, drops, and deletes.
// Replace descriptors carry a complete replacement object for one existing
// node or edge, used when an external operation must atomically substitute
// the whole object rather than patch fields.
//
// The merge contract: a batch is partitioned by kind, the standard
// descriptors are reduced first with incremental apply semantics, and every
// replace descriptor is applied second, fully substituting the object whose
// id matches. Replace wins over any standard change to the same id in the
// same batch. A replace substitutes only objects that exist after the
// standard pass — a batch removing id X never resurrects X.
package change

import "github.com/matzehuels/flowboard/pkg/model"

// Kind discriminates the change descriptor variants.
type Kind string

// Descriptor kinds. Move, Add, and Remove are standard; Replace is applied
// in its own second pass.
const (
	KindMove    Kind = "move"
	KindAdd     Kind = "add"
	KindRemove  Kind = "remove"
	KindReplace Kind = "replace"
)

// NodeChange is one tagged-union change descriptor for a node.
// The populated fields depend on Kind:
//
//	KindMove:    ID, Position
//	KindAdd:     Node (id taken as-is; callers generate one when absent)
//	KindRemove:  ID
//	KindReplace: Node (substitutes the node whose id matches Node.ID)
type NodeChange struct {
	Kind     Kind           `json:"kind"`
	ID       string         `json:"id,omitempty"`
	Position model.Position `json:"position,omitempty"`
	Node     model.Node     `json:"node,omitempty"`
}

// EdgeChange is one tagged-union change descriptor for an edge.
type EdgeChange struct {
	Kind Kind       `json:"kind"`
	ID   string     `json:"id,omitempty"`
	Edge model.Edge `json:"edge,omitempty"`
}

// Result reports what a batch application produced.
type Result struct {
	Nodes []model.Node
	Edges []model.Edge

	// Structural is true when the standard pass contained an add or a
	// remove. Pure position-only batches leave it false; the caller uses it
	// to decide whether to request a history snapshot.
	Structural bool
}

// Apply reduces a batch against the given state and returns the new state.
// The inputs are not modified. Node removals cascade: edges referencing a
// removed node are dropped with it.
func Apply(nodes []model.Node, edges []model.Edge, nodeChanges []NodeChange, edgeChanges []EdgeChange) Result {
	res := Result{
		Nodes: model.CloneNodes(nodes),
		Edges: model.CloneEdges(edges),
	}

	var nodeReplace []NodeChange
	var edgeReplace []EdgeChange

	// Standard pass: incremental apply in batch order.
	for _, c := range nodeChanges {
		switch c.Kind {
		case KindMove:
			for i := range res.Nodes {
				if res.Nodes[i].ID == c.ID {
					res.Nodes[i].Position = c.Position
					break
				}
			}
		case KindAdd:
			n := c.Node.Clone()
			if n.ID == "" {
				n.ID = model.NewID()
			}
			res.Nodes = append(res.Nodes, n)
			res.Structural = true
		case KindRemove:
			res.Nodes, res.Edges = removeNode(res.Nodes, res.Edges, c.ID)
			res.Structural = true
		case KindReplace:
			nodeReplace = append(nodeReplace, c)
		}
	}

	for _, c := range edgeChanges {
		switch c.Kind {
		case KindAdd:
			e := c.Edge.Clone()
			if e.ID == "" {
				e.ID = model.NewID()
			}
			res.Edges = append(res.Edges, e)
			res.Structural = true
		case KindRemove:
			res.Edges = removeEdge(res.Edges, c.ID)
			res.Structural = true
		case KindReplace:
			edgeReplace = append(edgeReplace, c)
		}
	}

	// Replace pass: substitute whole objects by id, regardless of what the
	// standard pass produced for that id. Ids with no surviving match are
	// skipped.
	for _, c := range nodeReplace {
		for i := range res.Nodes {
			if res.Nodes[i].ID == c.Node.ID {
				res.Nodes[i] = c.Node.Clone()
				break
			}
		}
	}
	for _, c := range edgeReplace {
		for i := range res.Edges {
			if res.Edges[i].ID == c.Edge.ID {
				res.Edges[i] = c.Edge.Clone()
				break
			}
		}
	}

	return res
}

func removeNode(nodes []model.Node, edges []model.Edge, id string) ([]model.Node, []model.Edge) {
	outNodes := make([]model.Node, 0, len(nodes))
	for _, n := range nodes {
		if n.ID == id {
			continue
		}
		outNodes = append(outNodes, n)
	}
	outEdges := make([]model.Edge, 0, len(edges))
	for _, e := range edges {
		if e.Source == id || e.Target == id {
			continue
		}
		outEdges = append(outEdges, e)
	}
	return outNodes, outEdges
}

func removeEdge(edges []model.Edge, id string) []model.Edge {
	out := make([]model.Edge, 0, len(edges))
	for _, e := range edges {
		if e.ID == id {
			continue
		}
		out = append(out, e)
	}
	return out
}

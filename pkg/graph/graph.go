// Package graph holds the in-memory authoritative node and edge sets for the
// diagram currently being edited.
//
// The model distinguishes structural mutations (add or delete of a node or
// edge) from plain field updates (dragging, label edits). Only structural
// mutations fire the snapshot callback; snapshotting every intermediate drag
// frame would flood the history. The callback runs after the mutation has
// been applied, so a snapshot reflects the post-mutation state.
//
// Model is not safe for concurrent use. One model is owned exclusively by
// one diagram session; there is no cross-session sharing.
package graph

import (
	"github.com/matzehuels/flowboard/pkg/model"
)

// Model is the authoritative graph state.
// The zero value is not usable; create with New.
type Model struct {
	nodes []model.Node
	edges []model.Edge

	// onStructural is invoked after every structural mutation. Nil disables
	// snapshotting (bulk loads, tests).
	onStructural func()
}

// New creates an empty model.
func New() *Model {
	return &Model{nodes: []model.Node{}, edges: []model.Edge{}}
}

// OnStructuralChange registers the callback fired after each structural
// mutation. The session wires this to its history capture.
func (m *Model) OnStructuralChange(fn func()) { m.onStructural = fn }

func (m *Model) structural() {
	if m.onStructural != nil {
		m.onStructural()
	}
}

// Nodes returns a deep copy of the node set.
func (m *Model) Nodes() []model.Node { return model.CloneNodes(m.nodes) }

// Edges returns a deep copy of the edge set.
func (m *Model) Edges() []model.Edge { return model.CloneEdges(m.edges) }

// NodeCount returns the number of nodes.
func (m *Model) NodeCount() int { return len(m.nodes) }

// EdgeCount returns the number of edges.
func (m *Model) EdgeCount() int { return len(m.edges) }

// Node returns a copy of the node with the given id, or false.
func (m *Model) Node(id string) (model.Node, bool) {
	for _, n := range m.nodes {
		if n.ID == id {
			return n.Clone(), true
		}
	}
	return model.Node{}, false
}

// Edge returns a copy of the edge with the given id, or false.
func (m *Model) Edge(id string) (model.Edge, bool) {
	for _, e := range m.edges {
		if e.ID == id {
			return e.Clone(), true
		}
	}
	return model.Edge{}, false
}

// AddNode appends a node built from spec with a freshly generated id and
// returns it. Caller-supplied fields are taken as-is; nothing is rejected.
// A zero position is replaced with the given fallback. Structural: fires the
// snapshot callback.
func (m *Model) AddNode(spec model.Node, fallback model.Position) model.Node {
	n := spec.Clone()
	n.ID = model.NewID()
	if n.Position == (model.Position{}) {
		n.Position = fallback
	}
	m.nodes = append(m.nodes, n)
	m.structural()
	return n.Clone()
}

// NodePatch carries the partial fields UpdateNode merges into a node.
// Nil fields are left untouched; set fields replace the whole value
// (shallow merge).
type NodePatch struct {
	Type     *string
	Position *model.Position
	Width    *float64
	Height   *float64
	Data     *model.NodeData
}

// UpdateNode shallowly merges patch into the matching node. No-op if the id
// is absent. Not structural: no snapshot is taken.
func (m *Model) UpdateNode(id string, patch NodePatch) {
	for i := range m.nodes {
		if m.nodes[i].ID != id {
			continue
		}
		n := &m.nodes[i]
		if patch.Type != nil {
			n.Type = *patch.Type
		}
		if patch.Position != nil {
			n.Position = *patch.Position
		}
		if patch.Width != nil {
			n.Width = *patch.Width
		}
		if patch.Height != nil {
			n.Height = *patch.Height
		}
		if patch.Data != nil {
			n.Data = (*patch.Data)
			n.Data.Extra = cloneExtra(patch.Data.Extra)
		}
		return
	}
}

// DeleteNode removes the node and cascades: every edge whose source or
// target equals id is removed with it, so no dangling edge can persist.
// No-op if the id is absent. Structural: fires the snapshot callback.
func (m *Model) DeleteNode(id string) {
	found := false
	kept := make([]model.Node, 0, len(m.nodes))
	for _, n := range m.nodes {
		if n.ID == id {
			found = true
			continue
		}
		kept = append(kept, n)
	}
	if !found {
		return
	}
	m.nodes = kept

	edges := make([]model.Edge, 0, len(m.edges))
	for _, e := range m.edges {
		if e.Source == id || e.Target == id {
			continue
		}
		edges = append(edges, e)
	}
	m.edges = edges
	m.structural()
}

// AddEdge appends an edge built from spec with a freshly generated id and
// returns it. Self-loops are permitted; no validation layer exists in this
// core. Structural: fires the snapshot callback.
func (m *Model) AddEdge(spec model.Edge) model.Edge {
	e := spec.Clone()
	e.ID = model.NewID()
	m.edges = append(m.edges, e)
	m.structural()
	return e.Clone()
}

// EdgePatch carries the partial fields UpdateEdge merges into an edge.
type EdgePatch struct {
	Source *string
	Target *string
	Type   *string
	Data   *map[string]any
}

// UpdateEdge shallowly merges patch into the matching edge. No-op if the id
// is absent. Not structural.
func (m *Model) UpdateEdge(id string, patch EdgePatch) {
	for i := range m.edges {
		if m.edges[i].ID != id {
			continue
		}
		e := &m.edges[i]
		if patch.Source != nil {
			e.Source = *patch.Source
		}
		if patch.Target != nil {
			e.Target = *patch.Target
		}
		if patch.Type != nil {
			e.Type = *patch.Type
		}
		if patch.Data != nil {
			e.Data = cloneExtra(*patch.Data)
		}
		return
	}
}

// DeleteEdge removes the edge with the given id. No-op if absent.
// Structural: fires the snapshot callback.
func (m *Model) DeleteEdge(id string) {
	found := false
	kept := make([]model.Edge, 0, len(m.edges))
	for _, e := range m.edges {
		if e.ID == id {
			found = true
			continue
		}
		kept = append(kept, e)
	}
	if !found {
		return
	}
	m.edges = kept
	m.structural()
}

// SetNodes wholesale-replaces the node set. Used by layout and load
// operations; not structural.
func (m *Model) SetNodes(nodes []model.Node) {
	m.nodes = model.CloneNodes(nodes)
}

// SetEdges wholesale-replaces the edge set. Not structural.
func (m *Model) SetEdges(edges []model.Edge) {
	m.edges = model.CloneEdges(edges)
}

// Clear empties both sets. Used on diagram load and create; not structural.
func (m *Model) Clear() {
	m.nodes = []model.Node{}
	m.edges = []model.Edge{}
}

func cloneExtra(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Package session binds one active graph model, its history, and the
// diagram's cross-cutting metadata into the single public API the rest of
// the application calls.
//
// A Session owns its model and history exclusively. Every operation runs to
// completion on the calling goroutine before another mutation can
// interleave; concurrent diagrams use independent sessions. The Library in
// this package manages the saved-diagrams collection on top of a blob store.
package session

import (
	"context"
	"time"

	"github.com/matzehuels/flowboard/pkg/change"
	"github.com/matzehuels/flowboard/pkg/errors"
	"github.com/matzehuels/flowboard/pkg/geometry"
	"github.com/matzehuels/flowboard/pkg/graph"
	"github.com/matzehuels/flowboard/pkg/history"
	"github.com/matzehuels/flowboard/pkg/layout"
	"github.com/matzehuels/flowboard/pkg/model"
	"github.com/matzehuels/flowboard/pkg/observability"
)

// Session is one editing context: the open diagram, its graph model, and
// its undo/redo history.
type Session struct {
	meta  *model.Diagram // metadata only; node/edge content lives in the model
	m     *graph.Model
	hist  *history.History
	added int // counter feeding the fallback position cascade

	layoutOpts layout.Options
	forceOpts  layout.ForceOptions
}

// Option configures a session at construction.
type Option func(*Session)

// WithHistoryLimit bounds the undo/redo stacks.
func WithHistoryLimit(limit int) Option {
	return func(s *Session) { s.hist = history.New(limit) }
}

// WithLayoutOptions sets the layered layout spacing.
func WithLayoutOptions(opts layout.Options) Option {
	return func(s *Session) { s.layoutOpts = opts }
}

// WithForceOptions sets the force layout constants.
func WithForceOptions(opts layout.ForceOptions) Option {
	return func(s *Session) { s.forceOpts = opts }
}

// New creates a session around a fresh, empty diagram.
func New(name string, opts ...Option) *Session {
	return fromDiagram(model.NewDiagram(name), opts...)
}

// Open creates a session for an existing diagram record. The record is
// deep-copied; history starts empty.
func Open(d *model.Diagram, opts ...Option) *Session {
	return fromDiagram(d.Clone(), opts...)
}

func fromDiagram(d *model.Diagram, opts ...Option) *Session {
	s := &Session{
		meta:       d,
		m:          graph.New(),
		hist:       history.New(history.DefaultLimit),
		layoutOpts: layout.DefaultOptions(),
		forceOpts:  layout.DefaultForceOptions(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.m.SetNodes(d.Nodes)
	s.m.SetEdges(d.Edges)
	d.Nodes, d.Edges = nil, nil // the model is authoritative from here on

	// Snapshots are captured after the mutation has been applied, so each
	// past entry holds the state the mutation produced.
	s.m.OnStructuralChange(func() {
		s.hist.Capture(s.m.Nodes(), s.m.Edges())
		observability.History().OnSnapshot(context.Background(), s.hist.PastLen())
	})

	return s
}

// Diagram assembles and returns a deep copy of the full diagram record,
// metadata plus current graph content.
func (s *Session) Diagram() *model.Diagram {
	d := s.meta.Clone()
	d.Nodes = s.m.Nodes()
	d.Edges = s.m.Edges()
	return d
}

// ID returns the diagram id.
func (s *Session) ID() string { return s.meta.ID }

// Name returns the diagram display name.
func (s *Session) Name() string { return s.meta.Name }

// Rename sets the display name.
func (s *Session) Rename(name string) {
	s.meta.Name = name
	s.touch()
}

// Direction returns the diagram's layout direction.
func (s *Session) Direction() model.Direction { return s.meta.Direction }

// SetDirection records the layout direction without recomputing positions.
func (s *Session) SetDirection(dir model.Direction) error {
	if !dir.Valid() {
		return errors.New(errors.ErrCodeInvalidDirection, "unknown direction: %s", dir)
	}
	s.meta.Direction = dir
	s.touch()
	return nil
}

// ConnectorStyle returns the diagram's connector style tag.
func (s *Session) ConnectorStyle() string { return s.meta.ConnectorStyle }

// SetConnectorStyle records the connector style and re-tags every edge.
func (s *Session) SetConnectorStyle(style string) {
	s.meta.ConnectorStyle = style
	s.retagEdges()
	s.touch()
}

// SetViewport records the pan/zoom state.
func (s *Session) SetViewport(vp model.Viewport) {
	s.meta.Viewport = &vp
	s.touch()
}

func (s *Session) touch() { s.meta.Touch() }

// =============================================================================
// Graph CRUD
// =============================================================================

// Nodes returns a copy of the current node set.
func (s *Session) Nodes() []model.Node { return s.m.Nodes() }

// Edges returns a copy of the current edge set.
func (s *Session) Edges() []model.Edge { return s.m.Edges() }

// AddNode adds a node and returns it with its generated id. A node without a
// position is placed on a small cascade below the last default placement so
// consecutive adds do not stack.
func (s *Session) AddNode(spec model.Node) model.Node {
	fallback := model.Position{
		X: 100 + float64(s.added%8)*40,
		Y: 100 + float64(s.added)*30,
	}
	s.added++
	n := s.m.AddNode(spec, fallback)
	s.touch()
	return n
}

// UpdateNode merges partial fields into the node. No-op for unknown ids.
func (s *Session) UpdateNode(id string, patch graph.NodePatch) {
	s.m.UpdateNode(id, patch)
	s.touch()
}

// DeleteNode removes the node and every edge touching it.
func (s *Session) DeleteNode(id string) {
	s.m.DeleteNode(id)
	s.touch()
}

// AddEdge adds an edge and returns it with its generated id. The edge
// inherits the diagram's connector style unless the spec sets one.
func (s *Session) AddEdge(spec model.Edge) model.Edge {
	if spec.Type == "" {
		spec.Type = s.meta.ConnectorStyle
	}
	e := s.m.AddEdge(spec)
	s.touch()
	return e
}

// UpdateEdge merges partial fields into the edge. No-op for unknown ids.
func (s *Session) UpdateEdge(id string, patch graph.EdgePatch) {
	s.m.UpdateEdge(id, patch)
	s.touch()
}

// DeleteEdge removes the edge.
func (s *Session) DeleteEdge(id string) {
	s.m.DeleteEdge(id)
	s.touch()
}

// SetGraph wholesale-replaces both sets without touching history.
func (s *Session) SetGraph(nodes []model.Node, edges []model.Edge) {
	s.m.SetNodes(nodes)
	s.m.SetEdges(edges)
	s.touch()
}

// ImportGraph runs the boundary normalization pass over an untrusted
// {nodes, edges} pair (for example the output of the Mermaid conversion
// service) and replaces the graph with the repaired result. The returned
// diagnostics list what was defaulted or dropped.
func (s *Session) ImportGraph(nodes []model.Node, edges []model.Edge) []model.Diagnostic {
	n, e, diags := model.Normalize(nodes, edges)
	s.SetGraph(n, e)
	return diags
}

// Clear empties the graph.
func (s *Session) Clear() {
	s.m.Clear()
	s.touch()
}

// =============================================================================
// Change batches
// =============================================================================

// ApplyChanges reduces a change batch into the graph. Standard descriptors
// apply first, replace descriptors second. If the standard pass contained an
// add or a remove, a history snapshot is taken after applying; pure
// position-only batches do not snapshot.
func (s *Session) ApplyChanges(nodeChanges []change.NodeChange, edgeChanges []change.EdgeChange) {
	res := change.Apply(s.m.Nodes(), s.m.Edges(), nodeChanges, edgeChanges)
	s.m.SetNodes(res.Nodes)
	s.m.SetEdges(res.Edges)
	if res.Structural {
		s.hist.Capture(s.m.Nodes(), s.m.Edges())
		observability.History().OnSnapshot(context.Background(), s.hist.PastLen())
	}
	s.touch()
}

// =============================================================================
// History
// =============================================================================

// Undo restores the most recent past snapshot. Silent no-op when no undo is
// available.
func (s *Session) Undo() {
	snap, ok := s.hist.Undo(s.m.Nodes(), s.m.Edges())
	observability.History().OnUndo(context.Background(), ok)
	if !ok {
		return
	}
	s.m.SetNodes(snap.Nodes)
	s.m.SetEdges(snap.Edges)
	s.touch()
}

// Redo re-applies the most recently undone snapshot. Silent no-op when no
// redo is available.
func (s *Session) Redo() {
	snap, ok := s.hist.Redo(s.m.Nodes(), s.m.Edges())
	observability.History().OnRedo(context.Background(), ok)
	if !ok {
		return
	}
	s.m.SetNodes(snap.Nodes)
	s.m.SetEdges(snap.Edges)
	s.touch()
}

// CanUndo reports whether an undo is available.
func (s *Session) CanUndo() bool { return s.hist.CanUndo() }

// CanRedo reports whether a redo is available.
func (s *Session) CanRedo() bool { return s.hist.CanRedo() }

// ClearHistory empties both history stacks.
func (s *Session) ClearHistory() { s.hist.Clear() }

// =============================================================================
// Layout and geometry
// =============================================================================

// ApplyLayout recomputes positions with the hierarchical layered layout in
// the given direction, records the direction, and re-tags every edge with
// the diagram's connector style.
func (s *Session) ApplyLayout(dir model.Direction) error {
	if !dir.Valid() {
		return errors.New(errors.ErrCodeInvalidDirection, "unknown direction: %s", dir)
	}

	ctx := context.Background()
	start := time.Now()
	observability.Layout().OnLayoutStart(ctx, "hierarchical", s.m.NodeCount())

	nodes := layout.Hierarchical(s.m.Nodes(), s.m.Edges(), dir, s.layoutOpts)
	s.m.SetNodes(nodes)
	s.meta.Direction = dir
	s.retagEdges()
	s.touch()

	observability.Layout().OnLayoutComplete(ctx, "hierarchical", time.Since(start), nil)
	return nil
}

// ApplyForceLayout recomputes positions with the force-directed layout and
// re-tags every edge with the diagram's connector style. Best-effort: the
// result is not guaranteed overlap-free.
func (s *Session) ApplyForceLayout() {
	ctx := context.Background()
	start := time.Now()
	observability.Layout().OnLayoutStart(ctx, "force", s.m.NodeCount())

	nodes := layout.Force(s.m.Nodes(), s.m.Edges(), s.forceOpts)
	s.m.SetNodes(nodes)
	s.retagEdges()
	s.touch()

	observability.Layout().OnLayoutComplete(ctx, "force", time.Since(start), nil)
}

// retagEdges stamps the diagram's connector style onto every edge. Layout
// never alters edge style itself; this runs after each layout invocation.
func (s *Session) retagEdges() {
	edges := s.m.Edges()
	for i := range edges {
		edges[i].Type = s.meta.ConnectorStyle
	}
	s.m.SetEdges(edges)
}

// Align sets one coordinate of every selected node to a reference computed
// from the selection. Fewer than two selected nodes is a silent no-op.
func (s *Session) Align(selected []string, alignment geometry.Alignment) error {
	switch alignment {
	case geometry.AlignLeft, geometry.AlignCenter, geometry.AlignRight,
		geometry.AlignTop, geometry.AlignMiddle, geometry.AlignBottom:
	default:
		return errors.New(errors.ErrCodeInvalidAlignment, "unknown alignment: %s", alignment)
	}
	s.m.SetNodes(geometry.AlignNodes(s.m.Nodes(), selected, alignment))
	s.touch()
	return nil
}

// Distribute re-spaces the selected nodes at equal intervals along the axis.
// Fewer than three selected nodes is a silent no-op.
func (s *Session) Distribute(selected []string, axis geometry.Axis) error {
	if axis != geometry.AxisHorizontal && axis != geometry.AxisVertical {
		return errors.New(errors.ErrCodeInvalidAxis, "unknown axis: %s", axis)
	}
	s.m.SetNodes(geometry.DistributeNodes(s.m.Nodes(), selected, axis))
	s.touch()
	return nil
}

// SnapToGrid rounds all node positions to the nearest grid multiple.
func (s *Session) SnapToGrid(gridSize float64) {
	s.m.SetNodes(geometry.SnapToGrid(s.m.Nodes(), gridSize))
	s.touch()
}

// Center translates all nodes so the diagram is centered in the viewport.
func (s *Session) Center(viewportW, viewportH float64) {
	s.m.SetNodes(geometry.CenterDiagram(s.m.Nodes(), viewportW, viewportH))
	s.touch()
}

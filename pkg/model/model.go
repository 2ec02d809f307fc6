// Package model defines the serialization types for diagrams: nodes, edges,
// viewports, and the diagram record itself.
//
// These types are the canonical wire and storage format. They carry both json
// and bson tags so the same structs serve the HTTP API, file export, and the
// Mongo-backed store without conversion layers.
//
// All copies handed to history snapshots or the saved-diagrams collection go
// through the Clone helpers in this package. A cloned diagram shares no
// mutable state with its source, which is what keeps stored snapshots stable
// while the live graph keeps changing.
package model

import (
	"time"

	"github.com/google/uuid"
)

// SchemaVersion is the current diagram schema version. It is written into
// every new diagram and preserved on load so future migrations can key off it.
const SchemaVersion = 2

// Direction selects the primary axis of the hierarchical layout.
type Direction string

// Layout directions.
const (
	DirectionLR Direction = "LR" // left to right
	DirectionTB Direction = "TB" // top to bottom
	DirectionRL Direction = "RL" // right to left
	DirectionBT Direction = "BT" // bottom to top
)

// Valid reports whether d is one of the four supported directions.
func (d Direction) Valid() bool {
	switch d {
	case DirectionLR, DirectionTB, DirectionRL, DirectionBT:
		return true
	}
	return false
}

// Horizontal reports whether the primary layout axis is x.
func (d Direction) Horizontal() bool {
	return d == DirectionLR || d == DirectionRL
}

// Reversed reports whether ranks grow against the axis direction.
func (d Direction) Reversed() bool {
	return d == DirectionRL || d == DirectionBT
}

// Connector rendering styles for edges.
const (
	ConnectorBezier     = "bezier"
	ConnectorStraight   = "straight"
	ConnectorStep       = "step"
	ConnectorSmoothstep = "smoothstep"
)

// NodeTypeGeneric is the fallback node type assigned when an untrusted
// producer omits one.
const NodeTypeGeneric = "generic"

// Position is a top-left anchored 2D coordinate.
type Position struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// NodeData is the opaque payload a node carries. The editor core never
// interprets these fields beyond displaying them; Extra holds free-form
// extension fields round-tripped as-is.
type NodeData struct {
	Label       string         `json:"label" bson:"label"`
	Description string         `json:"description,omitempty" bson:"description,omitempty"`
	Tech        string         `json:"tech,omitempty" bson:"tech,omitempty"`
	Extra       map[string]any `json:"extra,omitempty" bson:"extra,omitempty"`
}

// Node is a positioned, typed, identified vertex in the diagram graph.
// Width and Height are zero when unknown; layout substitutes defaults.
type Node struct {
	ID       string   `json:"id" bson:"id"`
	Type     string   `json:"type" bson:"type"`
	Position Position `json:"position" bson:"position"`
	Width    float64  `json:"width,omitempty" bson:"width,omitempty"`
	Height   float64  `json:"height,omitempty" bson:"height,omitempty"`
	Data     NodeData `json:"data" bson:"data"`
}

// Edge is an identified, directed connection between two node IDs.
// Edge identity is independent of (Source, Target): two edges may connect
// the same pair.
type Edge struct {
	ID     string         `json:"id" bson:"id"`
	Source string         `json:"source" bson:"source"`
	Target string         `json:"target" bson:"target"`
	Type   string         `json:"type,omitempty" bson:"type,omitempty"`
	Data   map[string]any `json:"data,omitempty" bson:"data,omitempty"`
}

// Viewport is the pan/zoom state of the canvas.
type Viewport struct {
	X    float64 `json:"x" bson:"x"`
	Y    float64 `json:"y" bson:"y"`
	Zoom float64 `json:"zoom" bson:"zoom"`
}

// Diagram is the persisted record for one diagram: graph content plus
// cross-cutting metadata.
type Diagram struct {
	ID             string    `json:"id" bson:"id"`
	Name           string    `json:"name" bson:"name"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at"`
	ModifiedAt     time.Time `json:"modified_at" bson:"modified_at"`
	SchemaVersion  int       `json:"schema_version" bson:"schema_version"`
	Nodes          []Node    `json:"nodes" bson:"nodes"`
	Edges          []Edge    `json:"edges" bson:"edges"`
	Direction      Direction `json:"direction" bson:"direction"`
	ConnectorStyle string    `json:"connector_style" bson:"connector_style"`
	Viewport       *Viewport `json:"viewport,omitempty" bson:"viewport,omitempty"`
}

// NewID returns a fresh unique identifier. IDs are stable for the lifetime
// of the object they name and are never reused.
func NewID() string { return uuid.NewString() }

// NewDiagram creates an empty diagram with a generated ID, default layout
// direction, and both timestamps set to now.
func NewDiagram(name string) *Diagram {
	now := time.Now()
	return &Diagram{
		ID:             NewID(),
		Name:           name,
		CreatedAt:      now,
		ModifiedAt:     now,
		SchemaVersion:  SchemaVersion,
		Nodes:          []Node{},
		Edges:          []Edge{},
		Direction:      DirectionLR,
		ConnectorStyle: ConnectorSmoothstep,
	}
}

// Touch updates the modification timestamp.
func (d *Diagram) Touch() { d.ModifiedAt = time.Now() }

// Clone returns a deep copy of the diagram sharing no mutable state with d.
func (d *Diagram) Clone() *Diagram {
	out := *d
	out.Nodes = CloneNodes(d.Nodes)
	out.Edges = CloneEdges(d.Edges)
	if d.Viewport != nil {
		vp := *d.Viewport
		out.Viewport = &vp
	}
	return &out
}

// Clone returns a deep copy of the node, including its payload.
func (n Node) Clone() Node {
	out := n
	out.Data.Extra = cloneMap(n.Data.Extra)
	return out
}

// Clone returns a deep copy of the edge, including its payload.
func (e Edge) Clone() Edge {
	out := e
	out.Data = cloneMap(e.Data)
	return out
}

// CloneNodes deep-copies a node slice. A nil input yields an empty,
// non-nil slice so callers can append without nil checks.
func CloneNodes(nodes []Node) []Node {
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		out[i] = n.Clone()
	}
	return out
}

// CloneEdges deep-copies an edge slice.
func CloneEdges(edges []Edge) []Edge {
	out := make([]Edge, len(edges))
	for i, e := range edges {
		out[i] = e.Clone()
	}
	return out
}

// cloneMap copies one level of keys and values. Payload values are opaque to
// the core, so nested mutable values are the producer's responsibility.
func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

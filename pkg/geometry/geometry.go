// Package geometry provides pure functions over node positions: bounding-box
// computation, grid snapping, alignment, and distribution.
//
// Every function returns a new node slice; inputs are never mutated. Nodes
// outside the selection are passed through unchanged, so callers can feed the
// result straight back into the graph model.
package geometry

import (
	"math"
	"slices"

	"github.com/matzehuels/flowboard/pkg/model"
)

// Default node extent used whenever a node carries no explicit size.
const (
	DefaultNodeWidth  = 150
	DefaultNodeHeight = 60
)

// Alignment selects the reference coordinate for AlignNodes.
type Alignment string

// Alignments.
const (
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
	AlignRight  Alignment = "right"
	AlignTop    Alignment = "top"
	AlignMiddle Alignment = "middle"
	AlignBottom Alignment = "bottom"
)

// Axis selects the direction for DistributeNodes.
type Axis string

// Distribution axes.
const (
	AxisHorizontal Axis = "horizontal"
	AxisVertical   Axis = "vertical"
)

// Bounds is the bounding rectangle of a node set.
type Bounds struct {
	MinX, MinY float64
	MaxX, MaxY float64
	Width      float64
	Height     float64
}

func nodeWidth(n model.Node) float64 {
	if n.Width > 0 {
		return n.Width
	}
	return DefaultNodeWidth
}

func nodeHeight(n model.Node) float64 {
	if n.Height > 0 {
		return n.Height
	}
	return DefaultNodeHeight
}

// CalculateBounds returns the bounding box of all nodes, accounting for each
// node's width and height (defaulting when absent). An empty node set yields
// the zero rectangle.
func CalculateBounds(nodes []model.Node) Bounds {
	if len(nodes) == 0 {
		return Bounds{}
	}

	b := Bounds{
		MinX: math.Inf(1), MinY: math.Inf(1),
		MaxX: math.Inf(-1), MaxY: math.Inf(-1),
	}
	for _, n := range nodes {
		b.MinX = math.Min(b.MinX, n.Position.X)
		b.MinY = math.Min(b.MinY, n.Position.Y)
		b.MaxX = math.Max(b.MaxX, n.Position.X+nodeWidth(n))
		b.MaxY = math.Max(b.MaxY, n.Position.Y+nodeHeight(n))
	}
	b.Width = b.MaxX - b.MinX
	b.Height = b.MaxY - b.MinY
	return b
}

// AlignNodes sets one coordinate of every selected node to a reference
// computed from the selection: the minimum for left/top, the midpoint of the
// bounding extremes for center/middle, and the maximum extent minus the node
// size for right/bottom. Fewer than two selected nodes is a no-op.
func AlignNodes(nodes []model.Node, selected []string, alignment Alignment) []model.Node {
	out := model.CloneNodes(nodes)

	sel := pick(out, selected)
	if len(sel) < 2 {
		return out
	}

	b := boundsOf(out, sel)
	for _, i := range sel {
		n := &out[i]
		switch alignment {
		case AlignLeft:
			n.Position.X = b.MinX
		case AlignCenter:
			n.Position.X = (b.MinX+b.MaxX)/2 - nodeWidth(*n)/2
		case AlignRight:
			n.Position.X = b.MaxX - nodeWidth(*n)
		case AlignTop:
			n.Position.Y = b.MinY
		case AlignMiddle:
			n.Position.Y = (b.MinY+b.MaxY)/2 - nodeHeight(*n)/2
		case AlignBottom:
			n.Position.Y = b.MaxY - nodeHeight(*n)
		}
	}
	return out
}

// DistributeNodes re-spaces the selected nodes at equal intervals between the
// two extreme positions along the axis. The extremes keep their positions;
// only the intermediate nodes move. Fewer than three selected nodes is a
// no-op.
func DistributeNodes(nodes []model.Node, selected []string, axis Axis) []model.Node {
	out := model.CloneNodes(nodes)

	sel := pick(out, selected)
	if len(sel) < 3 {
		return out
	}

	slices.SortFunc(sel, func(a, b int) int {
		av, bv := coord(out[a], axis), coord(out[b], axis)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
		return 0
	})

	first := coord(out[sel[0]], axis)
	last := coord(out[sel[len(sel)-1]], axis)
	step := (last - first) / float64(len(sel)-1)

	for i, idx := range sel {
		setCoord(&out[idx], axis, first+step*float64(i))
	}
	return out
}

// SnapToGrid rounds every node's position to the nearest multiple of gridSize
// on both axes. A non-positive gridSize is a no-op.
func SnapToGrid(nodes []model.Node, gridSize float64) []model.Node {
	out := model.CloneNodes(nodes)
	if gridSize <= 0 {
		return out
	}
	for i := range out {
		out[i].Position.X = math.Round(out[i].Position.X/gridSize) * gridSize
		out[i].Position.Y = math.Round(out[i].Position.Y/gridSize) * gridSize
	}
	return out
}

// CenterDiagram translates all nodes so their bounding box is centered in a
// viewport of the given dimensions.
func CenterDiagram(nodes []model.Node, viewportW, viewportH float64) []model.Node {
	out := model.CloneNodes(nodes)
	if len(out) == 0 {
		return out
	}

	b := CalculateBounds(out)
	dx := (viewportW-b.Width)/2 - b.MinX
	dy := (viewportH-b.Height)/2 - b.MinY
	for i := range out {
		out[i].Position.X += dx
		out[i].Position.Y += dy
	}
	return out
}

// pick returns the indices of the selected nodes, in node order.
func pick(nodes []model.Node, selected []string) []int {
	want := make(map[string]bool, len(selected))
	for _, id := range selected {
		want[id] = true
	}
	var idx []int
	for i, n := range nodes {
		if want[n.ID] {
			idx = append(idx, i)
		}
	}
	return idx
}

// boundsOf computes bounds over a subset of nodes given by index.
func boundsOf(nodes []model.Node, idx []int) Bounds {
	sub := make([]model.Node, len(idx))
	for i, j := range idx {
		sub[i] = nodes[j]
	}
	return CalculateBounds(sub)
}

func coord(n model.Node, axis Axis) float64 {
	if axis == AxisHorizontal {
		return n.Position.X
	}
	return n.Position.Y
}

func setCoord(n *model.Node, axis Axis, v float64) {
	if axis == AxisHorizontal {
		n.Position.X = v
	} else {
		n.Position.Y = v
	}
}

package layout

import (
	"math"
	"reflect"
	"testing"

	"github.com/matzehuels/flowboard/pkg/model"
)

func dist(a, b model.Node) float64 {
	dx := a.Position.X - b.Position.X
	dy := a.Position.Y - b.Position.Y
	return math.Sqrt(dx*dx + dy*dy)
}

func TestForceSeparatesCoincidentNodes(t *testing.T) {
	nodes := []model.Node{
		{ID: "a", Position: model.Position{X: 100, Y: 100}},
		{ID: "b", Position: model.Position{X: 100, Y: 100}},
	}

	out := Force(nodes, nil, ForceOptions{Iterations: 10})
	if d := dist(out[0], out[1]); d == 0 {
		t.Error("coincident nodes were not pushed apart")
	}
}

func TestForceDeterministic(t *testing.T) {
	nodes := []model.Node{
		{ID: "a", Position: model.Position{X: 0, Y: 0}},
		{ID: "b", Position: model.Position{X: 10, Y: 0}},
		{ID: "c", Position: model.Position{X: 0, Y: 10}},
		{ID: "d", Position: model.Position{X: 10, Y: 10}},
	}
	edges := []model.Edge{
		{ID: "e1", Source: "a", Target: "b"},
		{ID: "e2", Source: "c", Target: "d"},
	}

	first := Force(nodes, edges, ForceOptions{})
	second := Force(nodes, edges, ForceOptions{})
	if !reflect.DeepEqual(first, second) {
		t.Error("two runs over identical input diverged")
	}
}

func TestForceAttractionPullsEndpointsCloser(t *testing.T) {
	// Two pairs at identical starting distances; only one pair is connected.
	// After the simulation the connected pair must end up closer together
	// than the unconnected one.
	run := func(connected bool) float64 {
		nodes := []model.Node{
			{ID: "a", Position: model.Position{X: 0, Y: 0}},
			{ID: "b", Position: model.Position{X: 400, Y: 0}},
		}
		var edges []model.Edge
		if connected {
			edges = []model.Edge{{ID: "ab", Source: "a", Target: "b"}}
		}
		out := Force(nodes, edges, ForceOptions{Iterations: 30})
		return dist(out[0], out[1])
	}

	if withEdge, without := run(true), run(false); withEdge >= without {
		t.Errorf("connected pair distance %g >= unconnected %g", withEdge, without)
	}
}

func TestForceIgnoresSelfLoopsAndUnknownEndpoints(t *testing.T) {
	nodes := []model.Node{
		{ID: "a", Position: model.Position{X: 0, Y: 0}},
		{ID: "b", Position: model.Position{X: 100, Y: 0}},
	}
	edges := []model.Edge{
		{ID: "loop", Source: "a", Target: "a"},
		{ID: "dangling", Source: "a", Target: "ghost"},
	}

	// The pass must not panic and must still run repulsion.
	out := Force(nodes, edges, ForceOptions{Iterations: 5})
	if len(out) != 2 {
		t.Fatalf("nodes = %d, want 2", len(out))
	}
	if d := dist(out[0], out[1]); d <= 100 {
		t.Errorf("distance = %g, want repulsion to increase it past 100", d)
	}
}

func TestForceSmallInputsPassThrough(t *testing.T) {
	if out := Force(nil, nil, ForceOptions{}); len(out) != 0 {
		t.Error("empty input should yield empty output")
	}

	single := []model.Node{{ID: "a", Position: model.Position{X: 5, Y: 5}}}
	out := Force(single, nil, ForceOptions{})
	if out[0].Position != (model.Position{X: 5, Y: 5}) {
		t.Error("a single node must keep its position")
	}
}

func TestForceDoesNotMutateInput(t *testing.T) {
	nodes := []model.Node{
		{ID: "a", Position: model.Position{X: 0, Y: 0}},
		{ID: "b", Position: model.Position{X: 1, Y: 1}},
	}
	Force(nodes, nil, ForceOptions{Iterations: 5})
	if nodes[0].Position != (model.Position{}) || nodes[1].Position != (model.Position{X: 1, Y: 1}) {
		t.Error("input slice was mutated")
	}
}

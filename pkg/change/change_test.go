package change

import (
	"testing"

	"github.com/matzehuels/flowboard/pkg/model"
)

func baseState() ([]model.Node, []model.Edge) {
	nodes := []model.Node{
		{ID: "a", Type: "service", Position: model.Position{X: 0, Y: 0}},
		{ID: "b", Type: "service", Position: model.Position{X: 100, Y: 0}},
	}
	edges := []model.Edge{
		{ID: "ab", Source: "a", Target: "b"},
	}
	return nodes, edges
}

func findNode(nodes []model.Node, id string) (model.Node, bool) {
	for _, n := range nodes {
		if n.ID == id {
			return n, true
		}
	}
	return model.Node{}, false
}

func TestApplyMove(t *testing.T) {
	nodes, edges := baseState()

	res := Apply(nodes, edges, []NodeChange{
		{Kind: KindMove, ID: "a", Position: model.Position{X: 50, Y: 60}},
	}, nil)

	n, _ := findNode(res.Nodes, "a")
	if n.Position != (model.Position{X: 50, Y: 60}) {
		t.Errorf("a moved to %+v, want (50,60)", n.Position)
	}
	if res.Structural {
		t.Error("move-only batch must not be structural")
	}
	if nodes[0].Position.X != 0 {
		t.Error("input slice was mutated")
	}
}

func TestApplyAddGeneratesID(t *testing.T) {
	nodes, edges := baseState()

	res := Apply(nodes, edges, []NodeChange{
		{Kind: KindAdd, Node: model.Node{Data: model.NodeData{Label: "new"}}},
	}, []EdgeChange{
		{Kind: KindAdd, Edge: model.Edge{Source: "a", Target: "b"}},
	})

	if len(res.Nodes) != 3 {
		t.Fatalf("nodes = %d, want 3", len(res.Nodes))
	}
	if res.Nodes[2].ID == "" {
		t.Error("added node id was not generated")
	}
	if len(res.Edges) != 2 {
		t.Fatalf("edges = %d, want 2", len(res.Edges))
	}
	if res.Edges[1].ID == "" {
		t.Error("added edge id was not generated")
	}
	if !res.Structural {
		t.Error("adds must mark the batch structural")
	}
}

func TestApplyAddKeepsProvidedID(t *testing.T) {
	res := Apply(nil, nil, []NodeChange{
		{Kind: KindAdd, Node: model.Node{ID: "explicit"}},
	}, nil)
	if res.Nodes[0].ID != "explicit" {
		t.Errorf("id = %q, want explicit", res.Nodes[0].ID)
	}
}

func TestApplyRemoveCascades(t *testing.T) {
	nodes, edges := baseState()

	res := Apply(nodes, edges, []NodeChange{
		{Kind: KindRemove, ID: "a"},
	}, nil)

	if len(res.Nodes) != 1 || res.Nodes[0].ID != "b" {
		t.Errorf("nodes = %+v, want just b", res.Nodes)
	}
	if len(res.Edges) != 0 {
		t.Errorf("edges = %d, want 0 (edge ab references removed node)", len(res.Edges))
	}
	if !res.Structural {
		t.Error("removes must mark the batch structural")
	}
}

func TestReplaceWinsOverStandard(t *testing.T) {
	nodes, edges := baseState()

	replacement := model.Node{ID: "a", Type: "queue", Position: model.Position{X: 7, Y: 7}}
	res := Apply(nodes, edges, []NodeChange{
		// Replace listed first, move second: order in the batch must not
		// matter, the replace pass runs after all standard descriptors.
		{Kind: KindReplace, Node: replacement},
		{Kind: KindMove, ID: "a", Position: model.Position{X: 999, Y: 999}},
	}, nil)

	n, _ := findNode(res.Nodes, "a")
	if n.Type != "queue" || n.Position != (model.Position{X: 7, Y: 7}) {
		t.Errorf("a = %+v, want the replacement to win", n)
	}
}

func TestReplaceDoesNotResurrect(t *testing.T) {
	nodes, edges := baseState()

	res := Apply(nodes, edges, []NodeChange{
		{Kind: KindRemove, ID: "a"},
		{Kind: KindReplace, Node: model.Node{ID: "a", Type: "zombie"}},
	}, nil)

	if _, ok := findNode(res.Nodes, "a"); ok {
		t.Error("replace resurrected a node removed in the same batch")
	}
}

func TestReplaceUnknownIsSkipped(t *testing.T) {
	nodes, edges := baseState()

	res := Apply(nodes, edges, []NodeChange{
		{Kind: KindReplace, Node: model.Node{ID: "ghost"}},
	}, []EdgeChange{
		{Kind: KindReplace, Edge: model.Edge{ID: "ghost-edge"}},
	})

	if len(res.Nodes) != 2 || len(res.Edges) != 1 {
		t.Error("replace with unknown id must not add anything")
	}
	if res.Structural {
		t.Error("skipped replaces must not mark the batch structural")
	}
}

func TestEdgeReplace(t *testing.T) {
	nodes, edges := baseState()

	res := Apply(nodes, edges, nil, []EdgeChange{
		{Kind: KindReplace, Edge: model.Edge{ID: "ab", Source: "b", Target: "a", Type: "straight"}},
	})

	e := res.Edges[0]
	if e.Source != "b" || e.Target != "a" || e.Type != "straight" {
		t.Errorf("edge = %+v, want fully substituted", e)
	}
}

func TestEdgeRemove(t *testing.T) {
	nodes, edges := baseState()

	res := Apply(nodes, edges, nil, []EdgeChange{
		{Kind: KindRemove, ID: "ab"},
	})

	if len(res.Edges) != 0 {
		t.Errorf("edges = %d, want 0", len(res.Edges))
	}
	if len(res.Nodes) != 2 {
		t.Error("edge removal must not touch nodes")
	}
}

func TestMixedBatchOrder(t *testing.T) {
	// Standard descriptors apply incrementally in batch order: a node added
	// earlier in the batch can be moved later in the same batch.
	res := Apply(nil, nil, []NodeChange{
		{Kind: KindAdd, Node: model.Node{ID: "x"}},
		{Kind: KindMove, ID: "x", Position: model.Position{X: 5, Y: 5}},
	}, nil)

	n, ok := findNode(res.Nodes, "x")
	if !ok {
		t.Fatal("added node missing")
	}
	if n.Position != (model.Position{X: 5, Y: 5}) {
		t.Errorf("position = %+v, want (5,5)", n.Position)
	}
}

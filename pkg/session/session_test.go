package session

import (
	"testing"

	"github.com/matzehuels/flowboard/pkg/change"
	"github.com/matzehuels/flowboard/pkg/errors"
	"github.com/matzehuels/flowboard/pkg/geometry"
	"github.com/matzehuels/flowboard/pkg/graph"
	"github.com/matzehuels/flowboard/pkg/model"
)

func TestNewSession(t *testing.T) {
	s := New("fresh")

	if s.Name() != "fresh" {
		t.Errorf("name = %q, want fresh", s.Name())
	}
	if s.ID() == "" {
		t.Error("id is empty")
	}
	if len(s.Nodes()) != 0 || len(s.Edges()) != 0 {
		t.Error("fresh session should start empty")
	}
	if s.CanUndo() || s.CanRedo() {
		t.Error("fresh session should have empty history")
	}
	if s.Direction() != model.DirectionLR {
		t.Errorf("direction = %q, want LR", s.Direction())
	}
}

func TestAddDeleteScenario(t *testing.T) {
	s := New("scenario")

	a := s.AddNode(model.Node{Data: model.NodeData{Label: "A"}})
	b := s.AddNode(model.Node{Data: model.NodeData{Label: "B"}})
	s.AddEdge(model.Edge{Source: a.ID, Target: b.ID})
	s.DeleteNode(a.ID)

	nodes := s.Nodes()
	if len(nodes) != 1 || nodes[0].ID != b.ID {
		t.Errorf("nodes = %+v, want just B", nodes)
	}
	if len(s.Edges()) != 0 {
		t.Error("edge touching the deleted node must cascade away")
	}
}

func TestAddNodeFallbackCascade(t *testing.T) {
	s := New("cascade")
	first := s.AddNode(model.Node{})
	second := s.AddNode(model.Node{})

	if first.Position == second.Position {
		t.Error("consecutive default placements must not stack")
	}
}

func TestAddEdgeInheritsConnectorStyle(t *testing.T) {
	s := New("style")
	a := s.AddNode(model.Node{})
	b := s.AddNode(model.Node{})

	e := s.AddEdge(model.Edge{Source: a.ID, Target: b.ID})
	if e.Type != model.ConnectorSmoothstep {
		t.Errorf("type = %q, want the diagram default %q", e.Type, model.ConnectorSmoothstep)
	}

	explicit := s.AddEdge(model.Edge{Source: a.ID, Target: b.ID, Type: "straight"})
	if explicit.Type != "straight" {
		t.Errorf("type = %q, explicit style must be kept", explicit.Type)
	}
}

// Snapshots are captured after each structural mutation, so each past entry
// holds the state that mutation produced. The first undo therefore lands on
// the latest snapshot (the current state); earlier states are one extra undo
// away.
func TestUndoWalksSnapshots(t *testing.T) {
	s := New("undo")
	s.AddNode(model.Node{Data: model.NodeData{Label: "A"}})
	s.AddNode(model.Node{Data: model.NodeData{Label: "B"}})

	if !s.CanUndo() {
		t.Fatal("two structural mutations should leave undo available")
	}

	s.Undo() // latest snapshot: {A, B}
	if got := len(s.Nodes()); got != 2 {
		t.Fatalf("after first undo nodes = %d, want 2", got)
	}

	s.Undo() // snapshot taken after adding A
	if got := len(s.Nodes()); got != 1 {
		t.Fatalf("after second undo nodes = %d, want 1", got)
	}
	if s.Nodes()[0].Data.Label != "A" {
		t.Errorf("remaining node = %q, want A", s.Nodes()[0].Data.Label)
	}

	s.Redo()
	if got := len(s.Nodes()); got != 2 {
		t.Errorf("after redo nodes = %d, want 2", got)
	}
}

func TestUndoEmptyIsSilent(t *testing.T) {
	s := New("empty-undo")
	s.Undo() // must not panic or error
	s.Redo()
	if len(s.Nodes()) != 0 {
		t.Error("undo/redo on empty history changed state")
	}
}

func TestFieldUpdatesDoNotSnapshot(t *testing.T) {
	s := New("updates")
	n := s.AddNode(model.Node{})
	before := s.CanUndo()

	pos := model.Position{X: 1, Y: 2}
	s.UpdateNode(n.ID, graph.NodePatch{Position: &pos})

	if s.CanUndo() != before {
		t.Error("field update changed undo availability")
	}
}

func TestApplyChangesSnapshotsOnlyStructuralBatches(t *testing.T) {
	s := New("batches")
	n := s.AddNode(model.Node{}) // one snapshot

	// Move-only batch: no new snapshot.
	s.ApplyChanges([]change.NodeChange{
		{Kind: change.KindMove, ID: n.ID, Position: model.Position{X: 50, Y: 50}},
	}, nil)

	s.Undo() // drains the single snapshot from AddNode
	if s.CanUndo() {
		t.Error("move-only batch added a snapshot")
	}

	// Structural batch: exactly one snapshot for the whole batch.
	s.ApplyChanges([]change.NodeChange{
		{Kind: change.KindAdd, Node: model.Node{ID: "x"}},
		{Kind: change.KindAdd, Node: model.Node{ID: "y"}},
	}, nil)

	if !s.CanUndo() {
		t.Fatal("structural batch should snapshot")
	}
	s.Undo()
	if s.CanUndo() {
		t.Error("one batch must produce exactly one snapshot")
	}
}

func TestApplyLayoutRecordsDirectionAndRetags(t *testing.T) {
	s := New("layout")
	a := s.AddNode(model.Node{})
	b := s.AddNode(model.Node{})
	s.AddEdge(model.Edge{Source: a.ID, Target: b.ID, Type: "bezier"})

	if err := s.ApplyLayout(model.DirectionTB); err != nil {
		t.Fatalf("ApplyLayout: %v", err)
	}

	if s.Direction() != model.DirectionTB {
		t.Errorf("direction = %q, want TB", s.Direction())
	}
	for _, e := range s.Edges() {
		if e.Type != s.ConnectorStyle() {
			t.Errorf("edge type = %q, want re-tagged to %q", e.Type, s.ConnectorStyle())
		}
	}

	// Edge endpoints must survive layout untouched.
	if e := s.Edges()[0]; e.Source != a.ID || e.Target != b.ID {
		t.Error("layout altered edge endpoints")
	}
}

func TestApplyLayoutInvalidDirection(t *testing.T) {
	s := New("bad-dir")
	err := s.ApplyLayout(model.Direction("sideways"))
	if err == nil {
		t.Fatal("expected an error")
	}
	if !errors.Is(err, errors.ErrCodeInvalidDirection) {
		t.Errorf("code = %q, want INVALID_DIRECTION", errors.GetCode(err))
	}
}

func TestSetDirectionValidation(t *testing.T) {
	s := New("dir")
	if err := s.SetDirection(model.DirectionRL); err != nil {
		t.Fatalf("SetDirection(RL): %v", err)
	}
	if err := s.SetDirection(model.Direction("nope")); !errors.Is(err, errors.ErrCodeInvalidDirection) {
		t.Errorf("code = %q, want INVALID_DIRECTION", errors.GetCode(err))
	}
}

func TestAlignValidation(t *testing.T) {
	s := New("align")
	if err := s.Align(nil, geometry.Alignment("diagonal")); !errors.Is(err, errors.ErrCodeInvalidAlignment) {
		t.Errorf("code = %q, want INVALID_ALIGNMENT", errors.GetCode(err))
	}
	if err := s.Align([]string{"only-one"}, geometry.AlignLeft); err != nil {
		t.Errorf("tiny selection should be a silent no-op, got %v", err)
	}
}

func TestDistributeValidation(t *testing.T) {
	s := New("distribute")
	if err := s.Distribute(nil, geometry.Axis("depth")); !errors.Is(err, errors.ErrCodeInvalidAxis) {
		t.Errorf("code = %q, want INVALID_AXIS", errors.GetCode(err))
	}
}

func TestSetConnectorStyleRetags(t *testing.T) {
	s := New("retag")
	a := s.AddNode(model.Node{})
	b := s.AddNode(model.Node{})
	s.AddEdge(model.Edge{Source: a.ID, Target: b.ID})

	s.SetConnectorStyle(model.ConnectorStep)
	for _, e := range s.Edges() {
		if e.Type != model.ConnectorStep {
			t.Errorf("edge type = %q, want step", e.Type)
		}
	}
}

func TestImportGraphNormalizes(t *testing.T) {
	s := New("import")
	diags := s.ImportGraph(
		[]model.Node{{ID: "a"}, {}},
		[]model.Edge{{Source: "a", Target: "ghost"}},
	)

	if len(s.Nodes()) != 2 {
		t.Errorf("nodes = %d, want 2", len(s.Nodes()))
	}
	if len(s.Edges()) != 0 {
		t.Error("dangling edge should have been dropped")
	}
	if len(diags) == 0 {
		t.Error("expected repair diagnostics")
	}
}

func TestDiagramAssemblesDeepCopy(t *testing.T) {
	s := New("snapshot")
	s.AddNode(model.Node{Data: model.NodeData{Label: "A"}})

	d := s.Diagram()
	if len(d.Nodes) != 1 {
		t.Fatalf("diagram nodes = %d, want 1", len(d.Nodes))
	}

	d.Nodes[0].Data.Label = "mutated"
	if s.Nodes()[0].Data.Label != "A" {
		t.Error("Diagram() shares state with the live session")
	}
}

func TestOpenStartsWithEmptyHistory(t *testing.T) {
	d := model.NewDiagram("saved")
	d.Nodes = []model.Node{{ID: "a", Type: "generic", Position: model.Position{X: 1, Y: 1}}}

	s := Open(d)
	if len(s.Nodes()) != 1 {
		t.Fatalf("nodes = %d, want 1", len(s.Nodes()))
	}
	if s.CanUndo() {
		t.Error("opened session must start with empty history")
	}

	// The source record must not alias the session.
	s.Clear()
	if len(d.Nodes) != 1 {
		t.Error("session aliases the diagram it was opened from")
	}
}

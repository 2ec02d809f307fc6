package history

import (
	"fmt"
	"testing"

	"github.com/matzehuels/flowboard/pkg/model"
)

func state(ids ...string) []model.Node {
	nodes := make([]model.Node, len(ids))
	for i, id := range ids {
		nodes[i] = model.Node{ID: id}
	}
	return nodes
}

func firstID(s Snapshot) string {
	if len(s.Nodes) == 0 {
		return ""
	}
	return s.Nodes[0].ID
}

func TestCaptureAndUndo(t *testing.T) {
	h := New(10)

	if h.CanUndo() || h.CanRedo() {
		t.Fatal("fresh history should have nothing to undo or redo")
	}

	h.Capture(state("v1"), nil)
	h.Capture(state("v2"), nil)

	snap, ok := h.Undo(state("live"), nil)
	if !ok {
		t.Fatal("Undo returned false with two past entries")
	}
	if firstID(snap) != "v2" {
		t.Errorf("undo returned %q, want v2", firstID(snap))
	}
	if h.PastLen() != 1 || h.FutureLen() != 1 {
		t.Errorf("stacks = (%d past, %d future), want (1, 1)", h.PastLen(), h.FutureLen())
	}
}

func TestUndoEmptyIsNoop(t *testing.T) {
	h := New(10)
	if _, ok := h.Undo(state("live"), nil); ok {
		t.Error("Undo on empty history returned true")
	}
	if h.FutureLen() != 0 {
		t.Error("failed undo must not touch the future stack")
	}
}

func TestRedoAfterUndo(t *testing.T) {
	h := New(10)
	h.Capture(state("v1"), nil)

	// Undo stores the live state so redo can return to it.
	h.Undo(state("v2"), nil)

	snap, ok := h.Redo(state("v1"), nil)
	if !ok {
		t.Fatal("Redo returned false right after an undo")
	}
	if firstID(snap) != "v2" {
		t.Errorf("redo returned %q, want the pre-undo live state v2", firstID(snap))
	}
	if h.CanRedo() {
		t.Error("future should be empty after the only redo")
	}
	if h.PastLen() != 1 {
		t.Errorf("past = %d, want 1", h.PastLen())
	}
}

func TestCaptureClearsFuture(t *testing.T) {
	h := New(10)
	h.Capture(state("v1"), nil)
	h.Undo(state("v2"), nil)

	if !h.CanRedo() {
		t.Fatal("expected a redo entry after undo")
	}

	h.Capture(state("v3"), nil)
	if h.CanRedo() {
		t.Error("a fresh capture must clear the future stack")
	}
}

func TestPastBoundEvictsOldest(t *testing.T) {
	const limit = 5
	h := New(limit)

	for i := 0; i < limit+3; i++ {
		h.Capture(state(fmt.Sprintf("v%d", i)), nil)
	}

	if h.PastLen() != limit {
		t.Fatalf("past = %d, want %d", h.PastLen(), limit)
	}
	oldest, _ := h.Oldest()
	if firstID(oldest) != "v3" {
		t.Errorf("oldest = %q, want v3 (first three evicted)", firstID(oldest))
	}
}

func TestFutureBoundTrimsTail(t *testing.T) {
	const limit = 3
	h := New(limit)

	for i := 0; i < limit+2; i++ {
		h.Capture(state(fmt.Sprintf("v%d", i)), nil)
	}
	// Undo everything available; each pushes one future entry at the front.
	for h.CanUndo() {
		h.Undo(state("live"), nil)
	}

	if h.FutureLen() != limit {
		t.Errorf("future = %d, want %d", h.FutureLen(), limit)
	}
}

func TestSnapshotIsolation(t *testing.T) {
	h := New(10)
	live := []model.Node{{ID: "a", Data: model.NodeData{Extra: map[string]any{"k": "v"}}}}
	h.Capture(live, nil)

	// Mutate the live state after capture.
	live[0].ID = "changed"
	live[0].Data.Extra["k"] = "changed"

	snap, _ := h.Undo(nil, nil)
	if snap.Nodes[0].ID != "a" {
		t.Error("snapshot shares node slice with live state")
	}
	if snap.Nodes[0].Data.Extra["k"] != "v" {
		t.Error("snapshot shares payload map with live state")
	}
}

func TestClear(t *testing.T) {
	h := New(10)
	h.Capture(state("v1"), nil)
	h.Undo(state("v2"), nil)

	h.Clear()
	if h.CanUndo() || h.CanRedo() {
		t.Error("Clear left entries behind")
	}
}

func TestZeroLimitFallsBack(t *testing.T) {
	h := New(0)
	for i := 0; i < DefaultLimit+10; i++ {
		h.Capture(state("v"), nil)
	}
	if h.PastLen() != DefaultLimit {
		t.Errorf("past = %d, want DefaultLimit %d", h.PastLen(), DefaultLimit)
	}
}

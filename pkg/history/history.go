// Package history implements the bounded undo/redo snapshot stacks for one
// diagram.
//
// History holds two ordered sequences of snapshots: past (oldest first) and
// future (soonest-redo first). A capture always clears future, so redo is
// only possible immediately after an undo, never after a fresh edit. Both
// stacks are bounded; when past overflows the oldest entry is evicted, when
// future overflows the tail entry is.
//
// Snapshots are deep copies. A stored snapshot shares no mutable state with
// the live graph, so later mutation of the live graph cannot corrupt it.
package history

import (
	"time"

	"github.com/matzehuels/flowboard/pkg/model"
)

// DefaultLimit is the maximum number of entries kept per stack.
const DefaultLimit = 50

// Snapshot is an immutable deep copy of the full node/edge state at one
// point in time. It is never mutated after creation.
type Snapshot struct {
	Nodes      []model.Node
	Edges      []model.Edge
	CapturedAt time.Time
}

// take deep-copies the given state into a new snapshot.
func take(nodes []model.Node, edges []model.Edge) Snapshot {
	return Snapshot{
		Nodes:      model.CloneNodes(nodes),
		Edges:      model.CloneEdges(edges),
		CapturedAt: time.Now(),
	}
}

// History maintains the past and future snapshot stacks.
// The zero value is not usable; create with New.
type History struct {
	past   []Snapshot
	future []Snapshot
	limit  int
}

// New creates a history bounded at the given depth per stack.
// A non-positive limit falls back to DefaultLimit.
func New(limit int) *History {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &History{limit: limit}
}

// Capture pushes a snapshot of the given live state onto past and clears
// future. If past exceeds the bound, the oldest entry is evicted.
func (h *History) Capture(nodes []model.Node, edges []model.Edge) {
	h.past = append(h.past, take(nodes, edges))
	if len(h.past) > h.limit {
		h.past = h.past[1:]
	}
	h.future = nil
}

// Undo pops the most recent past entry and returns it, after pushing a
// snapshot of the given live state to the front of future. Returns false
// without touching either stack when past is empty; undoing with no history
// is a silent no-op, never an error.
func (h *History) Undo(liveNodes []model.Node, liveEdges []model.Edge) (Snapshot, bool) {
	if len(h.past) == 0 {
		return Snapshot{}, false
	}

	h.future = append([]Snapshot{take(liveNodes, liveEdges)}, h.future...)
	if len(h.future) > h.limit {
		h.future = h.future[:h.limit]
	}

	top := h.past[len(h.past)-1]
	h.past = h.past[:len(h.past)-1]
	return top, true
}

// Redo shifts the first future entry and returns it, after capturing the
// given live state onto the end of past. Returns false when future is empty.
func (h *History) Redo(liveNodes []model.Node, liveEdges []model.Edge) (Snapshot, bool) {
	if len(h.future) == 0 {
		return Snapshot{}, false
	}

	h.past = append(h.past, take(liveNodes, liveEdges))
	if len(h.past) > h.limit {
		h.past = h.past[1:]
	}

	next := h.future[0]
	h.future = h.future[1:]
	return next, true
}

// CanUndo reports whether an undo is available.
func (h *History) CanUndo() bool { return len(h.past) > 0 }

// CanRedo reports whether a redo is available.
func (h *History) CanRedo() bool { return len(h.future) > 0 }

// Clear empties both stacks. Used on diagram load and create so history
// never spans two diagrams.
func (h *History) Clear() {
	h.past = nil
	h.future = nil
}

// PastLen returns the number of entries on the past stack.
func (h *History) PastLen() int { return len(h.past) }

// FutureLen returns the number of entries on the future stack.
func (h *History) FutureLen() int { return len(h.future) }

// Oldest returns the oldest past entry, or false if past is empty.
func (h *History) Oldest() (Snapshot, bool) {
	if len(h.past) == 0 {
		return Snapshot{}, false
	}
	return h.past[0], true
}

package session

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/matzehuels/flowboard/pkg/errors"
	"github.com/matzehuels/flowboard/pkg/model"
	"github.com/matzehuels/flowboard/pkg/store"
)

func newTestLibrary(t *testing.T) (*Library, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemoryStore()
	lib := NewLibrary(st)
	if err := lib.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return lib, st
}

func TestSaveAndReload(t *testing.T) {
	ctx := context.Background()
	lib, st := newTestLibrary(t)

	sess := lib.Create("persisted")
	sess.AddNode(model.Node{Data: model.NodeData{Label: "A"}})
	if err := lib.Save(ctx); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// A second library over the same store sees the record.
	other := NewLibrary(st)
	if err := other.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	records := other.List()
	if len(records) != 1 {
		t.Fatalf("records = %d, want 1", len(records))
	}
	if records[0].Name != "persisted" || len(records[0].Nodes) != 1 {
		t.Errorf("record = %+v, want the saved diagram", records[0])
	}
}

func TestSaveReplacesById(t *testing.T) {
	ctx := context.Background()
	lib, _ := newTestLibrary(t)

	sess := lib.Create("v1")
	if err := lib.Save(ctx); err != nil {
		t.Fatalf("Save: %v", err)
	}

	sess.Rename("v2")
	if err := lib.Save(ctx); err != nil {
		t.Fatalf("Save: %v", err)
	}

	records := lib.List()
	if len(records) != 1 {
		t.Fatalf("records = %d, want 1 (save must replace, not append)", len(records))
	}
	if records[0].Name != "v2" {
		t.Errorf("name = %q, want v2", records[0].Name)
	}
}

func TestSaveWithoutOpenDiagram(t *testing.T) {
	lib, _ := newTestLibrary(t)
	err := lib.Save(context.Background())
	if !errors.Is(err, errors.ErrCodeDiagramNotFound) {
		t.Errorf("code = %q, want DIAGRAM_NOT_FOUND", errors.GetCode(err))
	}
}

func TestWritesSkippedBeforeLoad(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()

	// Pre-existing data another process saved earlier.
	existing, _ := json.Marshal([]*model.Diagram{model.NewDiagram("precious")})
	if err := st.Set(ctx, StorageKey, existing); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	lib := NewLibrary(st)
	lib.Create("new one")
	if err := lib.Save(ctx); err != nil {
		t.Fatalf("Save before Load: %v", err)
	}

	// The blob must still hold only the pre-existing record.
	data, found, err := st.Get(ctx, StorageKey)
	if err != nil || !found {
		t.Fatalf("Get: found=%v err=%v", found, err)
	}
	var records []*model.Diagram
	if err := json.Unmarshal(data, &records); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(records) != 1 || records[0].Name != "precious" {
		t.Errorf("store clobbered before first load: %+v", records)
	}
}

func TestLoadDiagramOpensFreshSession(t *testing.T) {
	ctx := context.Background()
	lib, _ := newTestLibrary(t)

	sess := lib.Create("origin")
	sess.AddNode(model.Node{})
	if err := lib.Save(ctx); err != nil {
		t.Fatalf("Save: %v", err)
	}
	id := sess.ID()

	reopened, err := lib.LoadDiagram(id)
	if err != nil {
		t.Fatalf("LoadDiagram: %v", err)
	}
	if reopened.ID() != id {
		t.Errorf("id = %q, want %q", reopened.ID(), id)
	}
	if reopened.CanUndo() {
		t.Error("reopened diagram must start with empty history")
	}
	if lib.Current() != reopened {
		t.Error("LoadDiagram must make the session current")
	}

	if _, err := lib.LoadDiagram("missing"); !errors.Is(err, errors.ErrCodeDiagramNotFound) {
		t.Errorf("code = %q, want DIAGRAM_NOT_FOUND", errors.GetCode(err))
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	lib, _ := newTestLibrary(t)

	sess := lib.Create("doomed")
	if err := lib.Save(ctx); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if err := lib.Delete(ctx, sess.ID()); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(lib.List()) != 0 {
		t.Error("record still listed after delete")
	}
	if lib.Current() == nil || lib.Current().ID() != sess.ID() {
		t.Error("deleting the saved record must not close the open diagram")
	}

	if err := lib.Delete(ctx, "missing"); !errors.Is(err, errors.ErrCodeDiagramNotFound) {
		t.Errorf("code = %q, want DIAGRAM_NOT_FOUND", errors.GetCode(err))
	}
}

func TestDuplicate(t *testing.T) {
	ctx := context.Background()
	lib, _ := newTestLibrary(t)

	sess := lib.Create("template")
	sess.AddNode(model.Node{Data: model.NodeData{Label: "A"}})
	if err := lib.Save(ctx); err != nil {
		t.Fatalf("Save: %v", err)
	}

	dup, err := lib.Duplicate(ctx, sess.ID())
	if err != nil {
		t.Fatalf("Duplicate: %v", err)
	}

	if dup.ID == sess.ID() {
		t.Error("duplicate must get a fresh id")
	}
	if dup.Name != "template (copy)" {
		t.Errorf("name = %q, want %q", dup.Name, "template (copy)")
	}
	if len(dup.Nodes) != 1 {
		t.Errorf("duplicate nodes = %d, want 1", len(dup.Nodes))
	}
	if len(lib.List()) != 2 {
		t.Errorf("records = %d, want 2", len(lib.List()))
	}
}

func TestRename(t *testing.T) {
	ctx := context.Background()
	lib, _ := newTestLibrary(t)

	sess := lib.Create("old name")
	if err := lib.Save(ctx); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if err := lib.Rename(ctx, sess.ID(), "new name"); err != nil {
		t.Fatalf("Rename: %v", err)
	}
	if lib.List()[0].Name != "new name" {
		t.Error("saved record not renamed")
	}
	if sess.Name() != "new name" {
		t.Error("open session not renamed when it is the same diagram")
	}

	if err := lib.Rename(ctx, "missing", "x"); !errors.Is(err, errors.ErrCodeDiagramNotFound) {
		t.Errorf("code = %q, want DIAGRAM_NOT_FOUND", errors.GetCode(err))
	}
}

func TestListReturnsCopies(t *testing.T) {
	ctx := context.Background()
	lib, _ := newTestLibrary(t)

	lib.Create("guarded")
	if err := lib.Save(ctx); err != nil {
		t.Fatalf("Save: %v", err)
	}

	lib.List()[0].Name = "mutated"
	if lib.List()[0].Name != "guarded" {
		t.Error("List shares records with the library")
	}
}

func TestGet(t *testing.T) {
	ctx := context.Background()
	lib, _ := newTestLibrary(t)

	sess := lib.Create("fetch me")
	if err := lib.Save(ctx); err != nil {
		t.Fatalf("Save: %v", err)
	}

	d, err := lib.Get(sess.ID())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if d.Name != "fetch me" {
		t.Errorf("name = %q, want %q", d.Name, "fetch me")
	}

	if _, err := lib.Get("missing"); !errors.Is(err, errors.ErrCodeDiagramNotFound) {
		t.Errorf("code = %q, want DIAGRAM_NOT_FOUND", errors.GetCode(err))
	}
}

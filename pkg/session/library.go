package session

import (
	"context"
	"encoding/json"

	"github.com/matzehuels/flowboard/pkg/errors"
	"github.com/matzehuels/flowboard/pkg/model"
	"github.com/matzehuels/flowboard/pkg/observability"
	"github.com/matzehuels/flowboard/pkg/store"
)

// StorageKey is the fixed blob store key the saved-diagrams collection is
// persisted under.
const StorageKey = "flowboard:diagrams"

// Library manages the saved-diagrams collection over a blob store and the
// currently open session.
//
// Saved records are deep copies: saving, loading, and duplicating never
// alias the open diagram. Writes to the store are skipped until the first
// Load has completed so a fresh process can never clobber pre-existing
// persisted data before it has been read.
type Library struct {
	store    store.Store
	diagrams []*model.Diagram
	current  *Session
	loaded   bool
	opts     []Option
}

// NewLibrary creates a library over the given store. Session options are
// applied to every session the library opens.
func NewLibrary(s store.Store, opts ...Option) *Library {
	return &Library{store: s, opts: opts}
}

// Load reads the saved-diagrams collection from the store. A missing key
// yields an empty collection. Load must run once before any operation that
// persists; until then all writes are skipped.
func (l *Library) Load(ctx context.Context) error {
	data, found, err := l.store.Get(ctx, StorageKey)
	observability.Store().OnStoreRead(ctx, StorageKey, found, err)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "load diagram collection")
	}

	l.diagrams = nil
	if found {
		var records []*model.Diagram
		if err := json.Unmarshal(data, &records); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse diagram collection")
		}
		l.diagrams = records
	}
	l.loaded = true
	return nil
}

// persist writes the collection back to the store. Skipped silently before
// the first Load.
func (l *Library) persist(ctx context.Context) error {
	if !l.loaded {
		return nil
	}
	data, err := json.Marshal(l.diagrams)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "marshal diagram collection")
	}
	err = l.store.Set(ctx, StorageKey, data)
	observability.Store().OnStoreWrite(ctx, StorageKey, len(data), err)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "persist diagram collection")
	}
	return nil
}

// List returns deep copies of the saved records.
func (l *Library) List() []*model.Diagram {
	out := make([]*model.Diagram, len(l.diagrams))
	for i, d := range l.diagrams {
		out[i] = d.Clone()
	}
	return out
}

// Current returns the open session, or nil when none is open.
func (l *Library) Current() *Session { return l.current }

// Create opens a session around a fresh empty diagram and makes it current.
// The diagram enters the saved collection on the first explicit Save.
func (l *Library) Create(name string) *Session {
	l.current = New(name, l.opts...)
	return l.current
}

// Open makes the given session current. Used when a session was constructed
// outside the library (imports).
func (l *Library) Open(s *Session) { l.current = s }

// Save deep-copies the open diagram into the collection, replacing a saved
// record with the same id, and persists.
func (l *Library) Save(ctx context.Context) error {
	if l.current == nil {
		return errors.New(errors.ErrCodeDiagramNotFound, "no open diagram")
	}
	record := l.current.Diagram() // already a deep copy

	replaced := false
	for i, d := range l.diagrams {
		if d.ID == record.ID {
			l.diagrams[i] = record
			replaced = true
			break
		}
	}
	if !replaced {
		l.diagrams = append(l.diagrams, record)
	}
	return l.persist(ctx)
}

// LoadDiagram opens the saved record with the given id in a fresh session
// (empty history) and makes it current.
func (l *Library) LoadDiagram(id string) (*Session, error) {
	for _, d := range l.diagrams {
		if d.ID == id {
			l.current = Open(d, l.opts...)
			return l.current, nil
		}
	}
	return nil, errors.New(errors.ErrCodeDiagramNotFound, "diagram %s not found", id)
}

// Delete removes the saved record with the given id and persists. The open
// diagram is never implicitly closed, even when its saved record is the one
// deleted.
func (l *Library) Delete(ctx context.Context, id string) error {
	for i, d := range l.diagrams {
		if d.ID == id {
			l.diagrams = append(l.diagrams[:i], l.diagrams[i+1:]...)
			return l.persist(ctx)
		}
	}
	return errors.New(errors.ErrCodeDiagramNotFound, "diagram %s not found", id)
}

// Duplicate clones the saved record with the given id under a fresh id and
// name, appends it to the collection, persists, and returns the copy.
func (l *Library) Duplicate(ctx context.Context, id string) (*model.Diagram, error) {
	for _, d := range l.diagrams {
		if d.ID == id {
			dup := d.Clone()
			dup.ID = model.NewID()
			dup.Name = d.Name + " (copy)"
			dup.Touch()
			l.diagrams = append(l.diagrams, dup)
			if err := l.persist(ctx); err != nil {
				return nil, err
			}
			return dup.Clone(), nil
		}
	}
	return nil, errors.New(errors.ErrCodeDiagramNotFound, "diagram %s not found", id)
}

// Rename sets the display name on the saved record (and on the open session
// when it is the same diagram) and persists.
func (l *Library) Rename(ctx context.Context, id, name string) error {
	found := false
	for _, d := range l.diagrams {
		if d.ID == id {
			d.Name = name
			d.Touch()
			found = true
			break
		}
	}
	if l.current != nil && l.current.ID() == id {
		l.current.Rename(name)
		found = true
	}
	if !found {
		return errors.New(errors.ErrCodeDiagramNotFound, "diagram %s not found", id)
	}
	return l.persist(ctx)
}

// Get returns a deep copy of the saved record with the given id.
func (l *Library) Get(id string) (*model.Diagram, error) {
	for _, d := range l.diagrams {
		if d.ID == id {
			return d.Clone(), nil
		}
	}
	return nil, errors.New(errors.ErrCodeDiagramNotFound, "diagram %s not found", id)
}

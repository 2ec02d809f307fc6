package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/flowboard/pkg/change"
	"github.com/matzehuels/flowboard/pkg/errors"
	"github.com/matzehuels/flowboard/pkg/geometry"
	"github.com/matzehuels/flowboard/pkg/model"
)

// writeJSON writes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorBody is the JSON error envelope.
type errorBody struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

// writeError maps structured error codes to HTTP statuses.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := http.StatusInternalServerError
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidDirection, errors.ErrCodeInvalidAlignment,
		errors.ErrCodeInvalidAxis:
		status = http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeDiagramNotFound,
		errors.ErrCodeNodeNotFound, errors.ErrCodeEdgeNotFound:
		status = http.StatusNotFound
	case errors.ErrCodeStorage:
		status = http.StatusBadGateway
	}
	if code == "" {
		code = errors.ErrCodeInternal
	}
	s.logger.Debug("request failed", "code", code, "err", err)
	writeJSON(w, status, errorBody{Code: code, Message: errors.UserMessage(err)})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse request body"))
		return false
	}
	return true
}

// requireSession fetches the open session or writes a 404.
func (s *Server) requireSession(w http.ResponseWriter) bool {
	if s.library.Current() == nil {
		s.writeError(w, errors.New(errors.ErrCodeDiagramNotFound, "no open diagram"))
		return false
	}
	return true
}

// =============================================================================
// Diagram collection
// =============================================================================

func (s *Server) handleListDiagrams(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.library.List())
}

func (s *Server) handleCreateDiagram(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if !s.decode(w, r, &body) {
		return
	}
	if body.Name == "" {
		body.Name = "Untitled diagram"
	}
	sess := s.library.Create(body.Name)
	writeJSON(w, http.StatusCreated, sess.Diagram())
}

func (s *Server) handleGetDiagram(w http.ResponseWriter, r *http.Request) {
	d, err := s.library.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleDeleteDiagram(w http.ResponseWriter, r *http.Request) {
	if err := s.library.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleOpenDiagram(w http.ResponseWriter, r *http.Request) {
	sess, err := s.library.LoadDiagram(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.Diagram())
}

func (s *Server) handleDuplicateDiagram(w http.ResponseWriter, r *http.Request) {
	dup, err := s.library.Duplicate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, dup)
}

func (s *Server) handleRenameDiagram(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if !s.decode(w, r, &body) {
		return
	}
	if err := s.library.Rename(r.Context(), chi.URLParam(r, "id"), body.Name); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Open session
// =============================================================================

// sessionView is the session state returned by GET /api/session.
type sessionView struct {
	Diagram *model.Diagram `json:"diagram"`
	CanUndo bool           `json:"can_undo"`
	CanRedo bool           `json:"can_redo"`
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	if !s.requireSession(w) {
		return
	}
	sess := s.library.Current()
	writeJSON(w, http.StatusOK, sessionView{
		Diagram: sess.Diagram(),
		CanUndo: sess.CanUndo(),
		CanRedo: sess.CanRedo(),
	})
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	if err := s.library.Save(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// changeBatch is the inbound change-batch shape from the interactive
// surface.
type changeBatch struct {
	Nodes []change.NodeChange `json:"nodes"`
	Edges []change.EdgeChange `json:"edges"`
}

func (s *Server) handleChanges(w http.ResponseWriter, r *http.Request) {
	if !s.requireSession(w) {
		return
	}
	var batch changeBatch
	if !s.decode(w, r, &batch) {
		return
	}
	s.library.Current().ApplyChanges(batch.Nodes, batch.Edges)
	writeJSON(w, http.StatusOK, s.library.Current().Diagram())
}

func (s *Server) handleAddNode(w http.ResponseWriter, r *http.Request) {
	if !s.requireSession(w) {
		return
	}
	var spec model.Node
	if !s.decode(w, r, &spec) {
		return
	}
	writeJSON(w, http.StatusCreated, s.library.Current().AddNode(spec))
}

func (s *Server) handleDeleteNode(w http.ResponseWriter, r *http.Request) {
	if !s.requireSession(w) {
		return
	}
	s.library.Current().DeleteNode(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddEdge(w http.ResponseWriter, r *http.Request) {
	if !s.requireSession(w) {
		return
	}
	var spec model.Edge
	if !s.decode(w, r, &spec) {
		return
	}
	writeJSON(w, http.StatusCreated, s.library.Current().AddEdge(spec))
}

func (s *Server) handleDeleteEdge(w http.ResponseWriter, r *http.Request) {
	if !s.requireSession(w) {
		return
	}
	s.library.Current().DeleteEdge(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	if !s.requireSession(w) {
		return
	}
	s.library.Current().Undo()
	s.handleGetSession(w, r)
}

func (s *Server) handleRedo(w http.ResponseWriter, r *http.Request) {
	if !s.requireSession(w) {
		return
	}
	s.library.Current().Redo()
	s.handleGetSession(w, r)
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	if !s.requireSession(w) {
		return
	}
	var body struct {
		Direction model.Direction `json:"direction"`
		Force     bool            `json:"force"`
	}
	if !s.decode(w, r, &body) {
		return
	}
	sess := s.library.Current()
	if body.Force {
		sess.ApplyForceLayout()
	} else if err := sess.ApplyLayout(body.Direction); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.Diagram())
}

func (s *Server) handleAlign(w http.ResponseWriter, r *http.Request) {
	if !s.requireSession(w) {
		return
	}
	var body struct {
		Selected  []string           `json:"selected"`
		Alignment geometry.Alignment `json:"alignment"`
	}
	if !s.decode(w, r, &body) {
		return
	}
	if err := s.library.Current().Align(body.Selected, body.Alignment); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.library.Current().Diagram())
}

func (s *Server) handleDistribute(w http.ResponseWriter, r *http.Request) {
	if !s.requireSession(w) {
		return
	}
	var body struct {
		Selected []string      `json:"selected"`
		Axis     geometry.Axis `json:"axis"`
	}
	if !s.decode(w, r, &body) {
		return
	}
	if err := s.library.Current().Distribute(body.Selected, body.Axis); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.library.Current().Diagram())
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	if !s.requireSession(w) {
		return
	}
	var body struct {
		Nodes []model.Node `json:"nodes"`
		Edges []model.Edge `json:"edges"`
	}
	if !s.decode(w, r, &body) {
		return
	}
	diags := s.library.Current().ImportGraph(body.Nodes, body.Edges)
	writeJSON(w, http.StatusOK, struct {
		Diagram     *model.Diagram     `json:"diagram"`
		Diagnostics []model.Diagnostic `json:"diagnostics"`
	}{s.library.Current().Diagram(), diags})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if !s.requireSession(w) {
		return
	}
	data, err := s.library.Current().ExportJSON()
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

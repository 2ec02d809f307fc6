// Package server exposes the diagram library over HTTP.
//
// The API mirrors the programmatic session surface: diagram collection CRUD
// under /api/diagrams and operations on the open session under /api/session.
// All bodies are the JSON shapes from pkg/model and pkg/change.
//
// The session model is not safe for concurrent use, so the server serializes
// every request through one mutex rather than locking inside the core.
package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/flowboard/pkg/session"
)

// Server wraps the library behind a chi router.
type Server struct {
	mu      sync.Mutex
	library *session.Library
	logger  *log.Logger
	router  chi.Router
}

// New creates a server over the given library.
func New(lib *session.Library, logger *log.Logger) *Server {
	s := &Server{library: lib, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.serialize)

	r.Route("/api", func(r chi.Router) {
		r.Route("/diagrams", func(r chi.Router) {
			r.Get("/", s.handleListDiagrams)
			r.Post("/", s.handleCreateDiagram)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetDiagram)
				r.Delete("/", s.handleDeleteDiagram)
				r.Post("/open", s.handleOpenDiagram)
				r.Post("/duplicate", s.handleDuplicateDiagram)
				r.Post("/rename", s.handleRenameDiagram)
			})
		})

		r.Route("/session", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Post("/save", s.handleSave)
			r.Post("/changes", s.handleChanges)
			r.Post("/nodes", s.handleAddNode)
			r.Delete("/nodes/{id}", s.handleDeleteNode)
			r.Post("/edges", s.handleAddEdge)
			r.Delete("/edges/{id}", s.handleDeleteEdge)
			r.Post("/undo", s.handleUndo)
			r.Post("/redo", s.handleRedo)
			r.Post("/layout", s.handleLayout)
			r.Post("/align", s.handleAlign)
			r.Post("/distribute", s.handleDistribute)
			r.Post("/import", s.handleImport)
			r.Get("/export", s.handleExport)
		})
	})

	s.router = r
	return s
}

// Handler returns the root http handler.
func (s *Server) Handler() http.Handler { return s.router }

// serialize runs requests one at a time. The graph model and history are
// owned by a single session and are not safe for concurrent mutation.
func (s *Server) serialize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

// ListenAndServe blocks serving on addr until the context is cancelled, then
// shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.router}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("serving diagram API", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

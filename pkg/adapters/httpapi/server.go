// Package httpapi exposes the process executor over HTTP for web hosts.
//
// POST /v1/messages        process one conversational turn
// GET  /v1/sessions/{id}   active process snapshot
// DELETE /v1/sessions/{id} clear the session context
// GET  /v1/processes       registered definitions
// GET  /healthz            liveness
// GET  /metrics            Prometheus exposition (when a gatherer is set)
package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/KarenRebecaOrtiz/Aurin-Task-Manager-sub006/internal/logging"
	"github.com/KarenRebecaOrtiz/Aurin-Task-Manager-sub006/pkg/domain"
)

// Engine is the surface the HTTP adapter needs from the executor facade.
type Engine interface {
	ProcessMessage(ctx context.Context, msg domain.IncomingMessage) (*domain.ProcessResult, error)
	ActiveProcessState(ctx context.Context, sessionID string) (*domain.ActiveProcessState, error)
	ClearSessionContext(ctx context.Context, sessionID string) error
	Definitions() []*domain.ProcessDefinition
}

// Server wires the engine into a chi router.
type Server struct {
	engine   Engine
	gatherer prometheus.Gatherer
	logger   *slog.Logger
}

// ServerOption configures the Server.
type ServerOption func(*Server)

// WithGatherer enables the /metrics endpoint.
func WithGatherer(g prometheus.Gatherer) ServerOption {
	return func(s *Server) { s.gatherer = g }
}

// WithLogger configures request logging.
func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) { s.logger = logger }
}

// NewHandler builds the HTTP handler for the engine.
func NewHandler(engine Engine, opts ...ServerOption) http.Handler {
	s := &Server{
		engine: engine,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if s.gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/v1", func(r chi.Router) {
		r.Post("/messages", s.handleMessage)
		r.Get("/processes", s.handleProcesses)
		r.Get("/sessions/{sessionID}", s.handleSessionState)
		r.Delete("/sessions/{sessionID}", s.handleClearSession)
	})
	return r
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", "err", err)
	}
}

type errorBody struct {
	Error string `json:"error"`
}

// handleMessage runs one turn. 204 signals "no process matched": route the
// message to the language-model fallback.
func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	var msg domain.IncomingMessage
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}
	if msg.Message == "" || msg.SessionID == "" {
		s.writeJSON(w, http.StatusBadRequest, errorBody{Error: "message and session_id are required"})
		return
	}

	result, err := s.engine.ProcessMessage(r.Context(), msg)
	if err != nil {
		s.logger.Error("process message failed", "session_id", msg.SessionID, "err", err)
		s.writeJSON(w, http.StatusInternalServerError, errorBody{Error: err.Error()})
		return
	}
	if result == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleSessionState(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	state, err := s.engine.ActiveProcessState(r.Context(), sessionID)
	if err != nil {
		s.writeJSON(w, http.StatusInternalServerError, errorBody{Error: err.Error()})
		return
	}
	if state == nil {
		s.writeJSON(w, http.StatusNotFound, errorBody{Error: "no active process"})
		return
	}
	s.writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleClearSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if err := s.engine.ClearSessionContext(r.Context(), sessionID); err != nil {
		s.writeJSON(w, http.StatusInternalServerError, errorBody{Error: err.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type processSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Version     string `json:"version,omitempty"`
}

func (s *Server) handleProcesses(w http.ResponseWriter, r *http.Request) {
	defs := s.engine.Definitions()
	out := make([]processSummary, 0, len(defs))
	for _, def := range defs {
		out = append(out, processSummary{
			ID:          def.ID,
			Name:        def.Name,
			Description: def.Description,
			Version:     def.Version,
		})
	}
	s.writeJSON(w, http.StatusOK, out)
}

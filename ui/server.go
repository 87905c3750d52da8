package ui

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"gostudy/domain/core"
	"gostudy/domain/science"
	"gostudy/internal"
	"gostudy/internal/reporting"
	"gostudy/internal/study"
)

// Server is the read-only reporting surface over the study registry. It
// renders nothing itself; presentation consumers read JSON from it.
type Server struct {
	router      *chi.Mux
	registry    *study.Registry
	reporter    *reporting.Reporter
	settlements []string
	log         *internal.Logger
}

// NewServer creates the reporting server for a registry and the settlements
// the scoreboard should cover.
func NewServer(registry *study.Registry, settlements []string, log *internal.Logger) *Server {
	if log == nil {
		log = internal.DefaultLogger
	}
	s := &Server{
		router:      chi.NewRouter(),
		registry:    registry,
		reporter:    reporting.NewReporter(registry),
		settlements: settlements,
		log:         log.Named("ui"),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures HTTP middleware
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)
}

// setupRoutes configures the read-only API routes
func (s *Server) setupRoutes() {
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/studies", s.handleListStudies)
		r.Get("/studies/{name}", s.handleGetStudy)
		r.Get("/settlements/{name}/score", s.handleSettlementScore)
		r.Get("/settlements/{name}/counts", s.handleSettlementCounts)
		r.Get("/researchers/{id}/invitations", s.handleOpenInvitations)
		r.Get("/scoreboard", s.handleScoreboard)
	})
}

// Handler returns the router for mounting or serving.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe starts the server on the given port.
func (s *Server) ListenAndServe(port string) error {
	s.log.Info("reporting server listening on :%s", port)
	return http.ListenAndServe(":"+port, s.router)
}

func (s *Server) handleListStudies(w http.ResponseWriter, r *http.Request) {
	phaseFilter := science.Phase(r.URL.Query().Get("phase"))
	settlementFilter := r.URL.Query().Get("settlement")

	studies := s.registry.AllStudies(func(st *study.Study) bool {
		if phaseFilter != "" && st.Phase() != phaseFilter {
			return false
		}
		if settlementFilter != "" && st.PrimarySettlement() != settlementFilter {
			return false
		}
		return true
	})

	out := make([]map[string]interface{}, 0, len(studies))
	for _, st := range studies {
		out = append(out, st.Status())
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetStudy(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	st, err := s.registry.FindByName(name)
	if err != nil {
		s.writeError(w, http.StatusNotFound, "study not found")
		return
	}
	s.writeJSON(w, http.StatusOK, st.Status())
}

func (s *Server) handleSettlementScore(w http.ResponseWriter, r *http.Request) {
	settlement := chi.URLParam(r, "name")
	field := science.Field(r.URL.Query().Get("field"))
	if !field.IsEmpty() && !field.IsValid() {
		s.writeError(w, http.StatusBadRequest, "unknown field")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"settlement": settlement,
		"field":      field,
		"score":      s.registry.ScienceScore(settlement, field),
	})
}

func (s *Server) handleSettlementCounts(w http.ResponseWriter, r *http.Request) {
	settlement := chi.URLParam(r, "name")
	field := science.Field(r.URL.Query().Get("field"))
	if !field.IsEmpty() && !field.IsValid() {
		s.writeError(w, http.StatusBadRequest, "unknown field")
		return
	}
	s.writeJSON(w, http.StatusOK, s.registry.CompletionCountsFor(settlement, field))
}

func (s *Server) handleOpenInvitations(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid researcher id")
		return
	}

	studies := s.registry.OpenInvitationsFor(core.PersonID(id))
	out := make([]map[string]interface{}, 0, len(studies))
	for _, st := range studies {
		out = append(out, st.Status())
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleScoreboard(w http.ResponseWriter, r *http.Request) {
	settlements := s.settlements
	if raw := r.URL.Query().Get("settlements"); raw != "" {
		settlements = strings.Split(raw, ",")
	}
	field := science.Field(r.URL.Query().Get("field"))
	if !field.IsEmpty() && !field.IsValid() {
		s.writeError(w, http.StatusBadRequest, "unknown field")
		return
	}

	summaries, overall, err := s.reporter.Scoreboard(settlements, field)
	if err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"settlements": summaries,
		"overall":     overall,
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log.Error("encode response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

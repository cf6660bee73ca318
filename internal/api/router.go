package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Route("/rules", func(r chi.Router) {
			r.Get("/", s.handleListRules)
			r.Post("/", s.handleCreateRule)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetRule)
				r.Patch("/", s.handleUpdateRule)
				r.Delete("/", s.handleDeleteRule)
				r.Post("/toggle", s.handleToggleRule)
				r.Post("/execute", s.handleExecuteRule)
				r.Get("/executions", s.handleListExecutions)
			})
		})

		r.Get("/capabilities", s.handleListCapabilities)

		r.Route("/settings", func(r chi.Router) {
			r.Get("/location", s.handleGetLocation)
			r.Put("/location", s.handleSetLocation)
		})

		r.Get("/schedule", s.handleScheduleDebug)

		r.Get("/ws", s.handleWebSocket)
	})

	return r
}

// handleHealth returns the daemon health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"state":   string(s.orch.State()),
		"version": s.version,
	})
}

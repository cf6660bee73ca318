package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sundiald/sundial/internal/rules"
)

// handleListCapabilities returns the descriptors of all loaded capabilities.
func (s *Server) handleListCapabilities(w http.ResponseWriter, _ *http.Request) {
	descs := s.capabilities.ListDescriptors()
	writeJSON(w, http.StatusOK, map[string]any{
		"capabilities": descs,
		"count":        len(descs),
	})
}

// handleGetLocation returns the persisted site coordinates.
func (s *Server) handleGetLocation(w http.ResponseWriter, r *http.Request) {
	settings, err := s.rules.GetSettings(r.Context())
	if err != nil {
		s.logger.Error("failed to load settings", "error", err)
		writeInternalError(w, "failed to load settings")
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// handleSetLocation updates the site coordinates and recomputes every
// solar trigger target.
func (s *Server) handleSetLocation(w http.ResponseWriter, r *http.Request) {
	var settings rules.GlobalSettings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if err := s.orch.SetLocation(r.Context(), &settings); err != nil {
		if errors.Is(err, rules.ErrInvalidRule) {
			writeError(w, http.StatusBadRequest, ErrCodeValidation, err.Error())
			return
		}
		s.logger.Error("failed to save settings", "error", err)
		writeInternalError(w, "failed to save settings")
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// handleScheduleDebug returns a snapshot of the scheduled task set with
// last and next fire times.
func (s *Server) handleScheduleDebug(w http.ResponseWriter, _ *http.Request) {
	tasks := s.scheduler.DebugInfo()
	writeJSON(w, http.StatusOK, map[string]any{
		"tasks": tasks,
		"count": len(tasks),
	})
}

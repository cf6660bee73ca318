package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sundiald/sundial/internal/orchestrator"
	"github.com/sundiald/sundial/internal/rules"
)

// handleListRules returns all rules.
func (s *Server) handleListRules(w http.ResponseWriter, r *http.Request) {
	list, err := s.rules.List(r.Context())
	if err != nil {
		s.logger.Error("failed to list rules", "error", err)
		writeInternalError(w, "failed to list rules")
		return
	}
	if list == nil {
		list = []rules.AutomationRule{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"rules": list, "count": len(list)})
}

// handleGetRule returns a single rule by ID.
func (s *Server) handleGetRule(w http.ResponseWriter, r *http.Request) {
	rule, err := s.rules.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, rules.ErrNotFound) {
			writeNotFound(w, "rule not found")
			return
		}
		s.logger.Error("failed to get rule", "error", err)
		writeInternalError(w, "failed to get rule")
		return
	}
	writeJSON(w, http.StatusOK, rule)
}

// handleCreateRule registers a new rule.
func (s *Server) handleCreateRule(w http.ResponseWriter, r *http.Request) {
	var rule rules.AutomationRule
	if err := json.NewDecoder(r.Body).Decode(&rule); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if err := s.orch.RegisterAutomation(r.Context(), &rule); err != nil {
		writeRuleError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rule)
}

// handleUpdateRule modifies an existing rule. The body is a full rule
// representation; the path ID wins over any ID in the body.
func (s *Server) handleUpdateRule(w http.ResponseWriter, r *http.Request) {
	var rule rules.AutomationRule
	if err := json.NewDecoder(r.Body).Decode(&rule); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	rule.ID = chi.URLParam(r, "id")

	if err := s.orch.UpdateAutomation(r.Context(), &rule); err != nil {
		writeRuleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rule)
}

// handleDeleteRule removes a rule.
func (s *Server) handleDeleteRule(w http.ResponseWriter, r *http.Request) {
	if err := s.orch.UnregisterAutomation(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeRuleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleToggleRule flips a rule's enabled flag.
func (s *Server) handleToggleRule(w http.ResponseWriter, r *http.Request) {
	rule, err := s.orch.ToggleAutomation(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeRuleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rule)
}

// handleExecuteRule runs a rule immediately, bypassing its trigger.
func (s *Server) handleExecuteRule(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.orch.ExecuteAutomation(r.Context(), id); err != nil {
		if errors.Is(err, rules.ErrNotFound) {
			writeNotFound(w, "rule not found")
			return
		}
		// The execution itself failed; the rule exists and ran.
		writeJSON(w, http.StatusOK, map[string]any{
			"rule_id": id,
			"status":  "failed",
			"error":   err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"rule_id": id, "status": "ok"})
}

// handleListExecutions returns recent executions for a rule.
func (s *Server) handleListExecutions(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}

	executions, err := s.rules.ListExecutions(r.Context(), chi.URLParam(r, "id"), limit)
	if err != nil {
		s.logger.Error("failed to list executions", "error", err)
		writeInternalError(w, "failed to list executions")
		return
	}
	if executions == nil {
		executions = []rules.RuleExecution{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"executions": executions, "count": len(executions)})
}

// writeRuleError maps rule domain errors onto HTTP responses.
func writeRuleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, rules.ErrNotFound):
		writeNotFound(w, "rule not found")
	case errors.Is(err, rules.ErrExists):
		writeError(w, http.StatusConflict, ErrCodeConflict, "rule already exists")
	case errors.Is(err, orchestrator.ErrCapabilityNotFound):
		writeError(w, http.StatusUnprocessableEntity, ErrCodeValidation, err.Error())
	case errors.Is(err, rules.ErrInvalidRule), errors.Is(err, rules.ErrInvalidName):
		writeError(w, http.StatusBadRequest, ErrCodeValidation, err.Error())
	default:
		writeInternalError(w, "internal error")
	}
}

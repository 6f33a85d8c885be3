package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"ptrs-service/internal/engine"
	"ptrs-service/internal/models"
	"ptrs-service/internal/repositories"
)

type RuleHandler struct {
	ruleRepo repositories.RuleRepository
}

func NewRuleHandler(ruleRepo repositories.RuleRepository) *RuleHandler {
	return &RuleHandler{ruleRepo: ruleRepo}
}

func (h *RuleHandler) GetRulesByClient(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	clientID := vars["clientId"]

	if clientID == "" {
		respondWithError(w, http.StatusBadRequest, "Client ID is required")
		return
	}

	rules, err := h.ruleRepo.GetRulesByClientID(clientID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, rules)
}

func (h *RuleHandler) CreateRule(w http.ResponseWriter, r *http.Request) {
	var rule models.ExclusionRule
	if err := json.NewDecoder(r.Body).Decode(&rule); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if rule.ClientID == "" {
		respondWithError(w, http.StatusBadRequest, "client_id is required")
		return
	}
	if err := engine.ValidateExclusionRule(rule); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.ruleRepo.InsertRule(&rule); err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondWithJSON(w, http.StatusCreated, rule)
}

func (h *RuleHandler) DeleteRule(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	ruleID, err := strconv.ParseInt(vars["ruleId"], 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid rule ID")
		return
	}

	if err := h.ruleRepo.DeleteRule(ruleID); err != nil {
		respondWithError(w, statusForError(err), err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{
		"message": "Rule deleted",
	})
}

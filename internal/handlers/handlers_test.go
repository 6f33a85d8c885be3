package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ptrs-service/internal/models"
	"ptrs-service/internal/repositories"
)

func TestHealthCheckHandler(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	healthCheckHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Invalid JSON response: %v", err)
	}
	if body["status"] != "healthy" {
		t.Errorf("Expected status 'healthy', got '%s'", body["status"])
	}
}

func TestRespondWithError(t *testing.T) {
	rec := httptest.NewRecorder()

	respondWithError(rec, http.StatusBadRequest, "bad input")

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected JSON content type, got '%s'", ct)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Invalid JSON response: %v", err)
	}
	if body["error"] != "bad input" {
		t.Errorf("Expected error 'bad input', got '%s'", body["error"])
	}
}

func TestStatusForError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{repositories.ErrReportNotFound, http.StatusNotFound},
		{repositories.ErrRecordNotFound, http.StatusNotFound},
		{errors.New("report 1 is submitted and immutable"), http.StatusConflict},
		{errors.New("database gone"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := statusForError(tt.err); got != tt.want {
			t.Errorf("statusForError(%q): expected %d, got %d", tt.err, tt.want, got)
		}
	}
}

type fakeRuleRepo struct {
	rules    []models.ExclusionRule
	inserted *models.ExclusionRule
}

func (f *fakeRuleRepo) GetRulesByClientID(clientID string) ([]models.ExclusionRule, error) {
	return f.rules, nil
}
func (f *fakeRuleRepo) InsertRule(rule *models.ExclusionRule) error {
	rule.ID = 1
	f.inserted = rule
	return nil
}
func (f *fakeRuleRepo) DeleteRule(id int64) error {
	return repositories.ErrRuleNotFound
}

func TestCreateRuleValidates(t *testing.T) {
	handler := NewRuleHandler(&fakeRuleRepo{})

	payload := `{"client_id":"client-1","field":"description","type":"regex","terms":["x"]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tcp-rules", strings.NewReader(payload))
	rec := httptest.NewRecorder()

	handler.CreateRule(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for an unknown match type, got %d", rec.Code)
	}
}

func TestCreateRuleAccepted(t *testing.T) {
	repo := &fakeRuleRepo{}
	handler := NewRuleHandler(repo)

	payload := `{"client_id":"client-1","field":"description","type":"contains","terms":["wages"]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tcp-rules", strings.NewReader(payload))
	rec := httptest.NewRecorder()

	handler.CreateRule(rec, req)

	if rec.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", rec.Code)
	}
	if repo.inserted == nil {
		t.Fatalf("Expected the rule to reach the repository")
	}
	if repo.inserted.ClientID != "client-1" {
		t.Errorf("Expected client scoping to be preserved, got '%s'", repo.inserted.ClientID)
	}
}

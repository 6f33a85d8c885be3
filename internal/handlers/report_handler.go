package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"ptrs-service/internal/services"
)

type ReportHandler struct {
	reportService *services.ReportService
}

func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func (h *ReportHandler) CreateReport(w http.ResponseWriter, r *http.Request) {
	var input services.CreateReportInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	report, err := h.reportService.CreateReport(input)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondWithJSON(w, http.StatusCreated, report)
}

func (h *ReportHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	reportID, ok := reportIDFromRequest(w, r)
	if !ok {
		return
	}

	summary, err := h.reportService.GetReportSummary(reportID)
	if err != nil {
		respondWithError(w, statusForError(err), err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, summary)
}

func (h *ReportHandler) SubmitReport(w http.ResponseWriter, r *http.Request) {
	reportID, ok := reportIDFromRequest(w, r)
	if !ok {
		return
	}

	report, err := h.reportService.SubmitReport(reportID)
	if err != nil {
		respondWithError(w, statusForError(err), err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, report)
}

func (h *ReportHandler) EnrichReport(w http.ResponseWriter, r *http.Request) {
	reportID, ok := reportIDFromRequest(w, r)
	if !ok {
		return
	}

	clientID := r.URL.Query().Get("client_id")
	if clientID == "" {
		respondWithError(w, http.StatusBadRequest, "client_id query parameter is required")
		return
	}

	result, err := h.reportService.EnrichReport(reportID, clientID)
	if err != nil {
		respondWithError(w, statusForError(err), err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

func (h *ReportHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	reportID, ok := reportIDFromRequest(w, r)
	if !ok {
		return
	}

	metrics, err := h.reportService.ComputeMetrics(reportID)
	if err != nil {
		respondWithError(w, statusForError(err), err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, metrics)
}

func reportIDFromRequest(w http.ResponseWriter, r *http.Request) (int64, bool) {
	vars := mux.Vars(r)
	reportID, err := strconv.ParseInt(vars["reportId"], 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid report ID")
		return 0, false
	}
	return reportID, true
}

func statusForError(err error) int {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "not found"):
		return http.StatusNotFound
	case strings.Contains(msg, "immutable"):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

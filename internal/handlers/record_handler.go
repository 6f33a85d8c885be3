package handlers

import (
	"encoding/json"
	"net/http"

	"ptrs-service/internal/services"
)

type RecordHandler struct {
	ingestionService *services.IngestionService
	reportService    *services.ReportService
}

func NewRecordHandler(ingestionService *services.IngestionService, reportService *services.ReportService) *RecordHandler {
	return &RecordHandler{
		ingestionService: ingestionService,
		reportService:    reportService,
	}
}

func (h *RecordHandler) IngestRecords(w http.ResponseWriter, r *http.Request) {
	reportID, ok := reportIDFromRequest(w, r)
	if !ok {
		return
	}

	clientID := r.URL.Query().Get("client_id")
	if clientID == "" {
		respondWithError(w, http.StatusBadRequest, "client_id query parameter is required")
		return
	}

	var inputs []services.PaymentRecordInput
	if err := json.NewDecoder(r.Body).Decode(&inputs); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if len(inputs) == 0 {
		respondWithError(w, http.StatusBadRequest, "No records provided")
		return
	}

	result, err := h.ingestionService.IngestRecords(reportID, clientID, inputs)
	if err != nil {
		respondWithError(w, statusForError(err), err.Error())
		return
	}

	status := http.StatusOK
	if !result.Success {
		status = http.StatusPartialContent
	}
	respondWithJSON(w, status, result)
}

func (h *RecordHandler) GetRecords(w http.ResponseWriter, r *http.Request) {
	reportID, ok := reportIDFromRequest(w, r)
	if !ok {
		return
	}

	records, err := h.reportService.GetRecords(reportID)
	if err != nil {
		respondWithError(w, statusForError(err), err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, records)
}

func (h *RecordHandler) PatchRecords(w http.ResponseWriter, r *http.Request) {
	reportID, ok := reportIDFromRequest(w, r)
	if !ok {
		return
	}

	var patches []services.RecordPatch
	if err := json.NewDecoder(r.Body).Decode(&patches); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if len(patches) == 0 {
		respondWithError(w, http.StatusBadRequest, "No patches provided")
		return
	}

	result, err := h.reportService.PatchRecords(reportID, patches)
	if err != nil {
		respondWithError(w, statusForError(err), err.Error())
		return
	}

	status := http.StatusOK
	if !result.Success {
		status = http.StatusPartialContent
	}
	respondWithJSON(w, status, result)
}

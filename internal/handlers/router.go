package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"ptrs-service/internal/config"
	"ptrs-service/internal/logger"
	"ptrs-service/internal/repositories"
	"ptrs-service/internal/services"
)

func SetupRouter(db *sql.DB, cfg *config.Config) *mux.Router {
	reportRepo := repositories.NewReportRepository(db)
	recordRepo := repositories.NewRecordRepository(db)
	ruleRepo := repositories.NewRuleRepository(db)

	ingestionService := services.NewIngestionService(db, reportRepo, recordRepo)
	reportService := services.NewReportService(db, reportRepo, recordRepo, ruleRepo)

	reportHandler := NewReportHandler(reportService)
	recordHandler := NewRecordHandler(ingestionService, reportService)
	ruleHandler := NewRuleHandler(ruleRepo)

	router := mux.NewRouter()

	api := router.PathPrefix("/api/v1").Subrouter()

	api.Use(loggingMiddleware)
	api.Use(jsonContentTypeMiddleware)

	router.HandleFunc("/health", healthCheckHandler).Methods(http.MethodGet)

	api.HandleFunc("/reports", reportHandler.CreateReport).Methods(http.MethodPost)
	api.HandleFunc("/reports/{reportId}", reportHandler.GetReport).Methods(http.MethodGet)
	api.HandleFunc("/reports/{reportId}/submit", reportHandler.SubmitReport).Methods(http.MethodPost)
	api.HandleFunc("/reports/{reportId}/enrich", reportHandler.EnrichReport).Methods(http.MethodPost)
	api.HandleFunc("/reports/{reportId}/metrics", reportHandler.GetMetrics).Methods(http.MethodGet)

	api.HandleFunc("/reports/{reportId}/records", recordHandler.IngestRecords).Methods(http.MethodPost)
	api.HandleFunc("/reports/{reportId}/records", recordHandler.GetRecords).Methods(http.MethodGet)
	api.HandleFunc("/reports/{reportId}/records", recordHandler.PatchRecords).Methods(http.MethodPatch)

	api.HandleFunc("/tcp-rules/client/{clientId}", ruleHandler.GetRulesByClient).Methods(http.MethodGet)
	api.HandleFunc("/tcp-rules", ruleHandler.CreateRule).Methods(http.MethodPost)
	api.HandleFunc("/tcp-rules/{ruleId}", ruleHandler.DeleteRule).Methods(http.MethodDelete)

	return router
}

func loggingMiddleware(next http.Handler) http.Handler {
	log := logger.WithComponent("http")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("duration", time.Since(start)).
			Msg("Request handled")
	})
}

func jsonContentTypeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{
		"status": "healthy",
	}
	respondWithJSON(w, http.StatusOK, response)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "Error marshaling JSON response"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

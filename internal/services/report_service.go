package services

import (
	"database/sql"
	"fmt"
	"reflect"
	"strings"
	"time"

	"ptrs-service/internal/engine"
	"ptrs-service/internal/logger"
	"ptrs-service/internal/models"
	"ptrs-service/internal/repositories"
)

type ReportService struct {
	db         *sql.DB
	reportRepo repositories.ReportRepository
	recordRepo repositories.RecordRepository
	ruleRepo   repositories.RuleRepository
}

func NewReportService(
	db *sql.DB,
	reportRepo repositories.ReportRepository,
	recordRepo repositories.RecordRepository,
	ruleRepo repositories.RuleRepository,
) *ReportService {
	return &ReportService{
		db:         db,
		reportRepo: reportRepo,
		recordRepo: recordRepo,
		ruleRepo:   ruleRepo,
	}
}

type CreateReportInput struct {
	ClientID        string `json:"client_id"`
	PayerEntityName string `json:"payer_entity_name"`
	PayerAbn        string `json:"payer_abn"`
	PeriodStart     string `json:"period_start"`
	PeriodEnd       string `json:"period_end"`
}

type ReportSummary struct {
	Report            *models.Report `json:"report"`
	TotalRecords      int            `json:"total_records"`
	TcpRecords        int            `json:"tcp_records"`
	RecordsWithIssues int            `json:"records_with_issues"`
	SbtcpRecords      int            `json:"sbtcp_records"`
}

type EnrichmentResult struct {
	ReportID      int64                  `json:"report_id"`
	TotalRecords  int                    `json:"total_records"`
	ChangedCount  int                    `json:"changed_count"`
	SavedCount    int                    `json:"saved_count"`
	FailedCount   int                    `json:"failed_count"`
	Outcomes      []models.RecordOutcome `json:"outcomes"`
	HasExclusions int                    `json:"records_with_exclusions"`
	HasIssues     int                    `json:"records_with_issues"`
}

func (s *ReportService) CreateReport(input CreateReportInput) (*models.Report, error) {
	if input.ClientID == "" {
		return nil, fmt.Errorf("client_id is required")
	}
	if input.PayerEntityName == "" {
		return nil, fmt.Errorf("payer_entity_name is required")
	}
	for _, d := range []string{input.PeriodStart, input.PeriodEnd} {
		if _, err := time.Parse(models.DateFormat, d); err != nil {
			return nil, fmt.Errorf("period dates must be YYYY-MM-DD")
		}
	}

	report := &models.Report{
		ClientID:        input.ClientID,
		PayerEntityName: input.PayerEntityName,
		PayerAbn:        digitsOnly(input.PayerAbn),
		PeriodStart:     input.PeriodStart,
		PeriodEnd:       input.PeriodEnd,
		Status:          models.ReportStatusDraft,
	}
	if err := s.reportRepo.CreateReport(report); err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}
	return report, nil
}

func (s *ReportService) GetReportSummary(reportID int64) (*ReportSummary, error) {
	report, err := s.reportRepo.GetReportByID(reportID)
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	records, err := s.recordRepo.GetRecordsByReportID(reportID)
	if err != nil {
		return nil, fmt.Errorf("failed to get records: %w", err)
	}

	summary := &ReportSummary{
		Report:       report,
		TotalRecords: len(records),
		SbtcpRecords: len(engine.FilterSBTCP(records)),
	}
	for _, r := range records {
		if r.IsTcp && !r.ExcludedTcp {
			summary.TcpRecords++
		}
		if r.HasIssue {
			summary.RecordsWithIssues++
		}
	}
	return summary, nil
}

func (s *ReportService) GetRecords(reportID int64) ([]*models.PaymentRecord, error) {
	if _, err := s.reportRepo.GetReportByID(reportID); err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	return s.recordRepo.GetRecordsByReportID(reportID)
}

// EnrichReport runs the classification pipeline over a report's dataset and
// persists the rows the engine changed. Each changed row is saved in its
// own transaction and reported individually, so a failed row never rolls
// back its neighbours.
func (s *ReportService) EnrichReport(reportID int64, clientID string) (*EnrichmentResult, error) {
	log := logger.WithComponent("report-service")

	report, err := s.reportRepo.GetReportByID(reportID)
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	if report.Status == models.ReportStatusSubmitted {
		return nil, fmt.Errorf("report %d is submitted and immutable", reportID)
	}

	records, err := s.recordRepo.GetRecordsByReportID(reportID)
	if err != nil {
		return nil, fmt.Errorf("failed to get records: %w", err)
	}

	rules, err := s.ruleRepo.GetRulesByClientID(clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to get exclusion rules: %w", err)
	}

	enriched, err := engine.EnrichRecords(records, rules, engine.DefaultIssueRules())
	if err != nil {
		return nil, fmt.Errorf("failed to enrich records: %w", err)
	}

	result := &EnrichmentResult{
		ReportID:     reportID,
		TotalRecords: len(records),
	}

	byID := make(map[int64]*models.PaymentRecord, len(records))
	for _, r := range records {
		byID[r.ID] = r
	}

	for _, r := range enriched {
		if r.HasExclusion {
			result.HasExclusions++
		}
		if r.HasIssue {
			result.HasIssues++
		}

		before, ok := byID[r.ID]
		if ok && recordsEqual(before, r) {
			continue
		}
		result.ChangedCount++

		err := s.saveOne(r)
		outcome := models.RecordOutcome{ID: r.ID, Success: err == nil}
		if err != nil {
			outcome.Error = err.Error()
			result.FailedCount++
			log.Error().Err(err).Int64("record_id", r.ID).Msg("Failed to save enriched record")
		} else {
			result.SavedCount++
		}
		result.Outcomes = append(result.Outcomes, outcome)
	}

	log.Info().
		Int64("report_id", reportID).
		Int("total", result.TotalRecords).
		Int("changed", result.ChangedCount).
		Int("failed", result.FailedCount).
		Msg("Report enrichment complete")

	return result, nil
}

// RecordPatch carries the user-editable classification fields of one
// record; nil fields are left untouched.
type RecordPatch struct {
	ID                     int64   `json:"id"`
	IsTcp                  *bool   `json:"is_tcp,omitempty"`
	TcpExclusionComment    *string `json:"tcp_exclusion_comment,omitempty"`
	InvoiceReferenceNumber *string `json:"invoice_reference_number,omitempty"`
	Description            *string `json:"description,omitempty"`
	PaymentTerm            *int    `json:"payment_term,omitempty"`
	PeppolEnabled          *bool   `json:"peppol_enabled,omitempty"`
	Rcti                   *bool   `json:"rcti,omitempty"`
	CreditCardPayment      *bool   `json:"credit_card_payment,omitempty"`
	CreditCardNumber       *string `json:"credit_card_number,omitempty"`
}

type PatchResult struct {
	Success  bool                   `json:"success"`
	Outcomes []models.RecordOutcome `json:"outcomes"`
}

// PatchRecords applies a batch of user edits. Every patch is validated and
// saved independently; the response carries a per-record outcome.
func (s *ReportService) PatchRecords(reportID int64, patches []RecordPatch) (*PatchResult, error) {
	report, err := s.reportRepo.GetReportByID(reportID)
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	if report.Status == models.ReportStatusSubmitted {
		return nil, fmt.Errorf("report %d is submitted and immutable", reportID)
	}

	result := &PatchResult{Success: true}
	for _, patch := range patches {
		err := s.patchOne(reportID, patch)
		outcome := models.RecordOutcome{ID: patch.ID, Success: err == nil}
		if err != nil {
			outcome.Error = err.Error()
			result.Success = false
		}
		result.Outcomes = append(result.Outcomes, outcome)
	}
	return result, nil
}

func (s *ReportService) patchOne(reportID int64, patch RecordPatch) error {
	rec, err := s.recordRepo.GetPaymentRecordByID(patch.ID)
	if err != nil {
		return err
	}
	if rec.ReportID != reportID {
		return fmt.Errorf("record %d does not belong to report %d", patch.ID, reportID)
	}

	if patch.IsTcp != nil {
		rec.IsTcp = *patch.IsTcp
	}
	if patch.TcpExclusionComment != nil {
		rec.TcpExclusionComment = strings.TrimSpace(*patch.TcpExclusionComment)
	}
	if patch.InvoiceReferenceNumber != nil {
		rec.InvoiceReferenceNumber = strings.TrimSpace(*patch.InvoiceReferenceNumber)
	}
	if patch.Description != nil {
		rec.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.PaymentTerm != nil {
		term := engine.ClampPaymentTerm(*patch.PaymentTerm)
		rec.PaymentTerm = &term
	}
	if patch.PeppolEnabled != nil {
		rec.PeppolEnabled = *patch.PeppolEnabled
	}
	if patch.Rcti != nil {
		rec.Rcti = *patch.Rcti
	}
	if patch.CreditCardPayment != nil {
		rec.CreditCardPayment = *patch.CreditCardPayment
	}
	if patch.CreditCardNumber != nil {
		rec.CreditCardNumber = digitsOnly(*patch.CreditCardNumber)
	}

	// Opting a record out of the TCP dataset needs a stated reason
	if !rec.IsTcp && rec.TcpExclusionComment == "" {
		return fmt.Errorf("tcp_exclusion_comment is required when is_tcp is false")
	}
	if err := validateCreditCard(rec.CreditCardPayment, rec.CreditCardNumber); err != nil {
		return err
	}
	rec.ExcludedTcp = rec.HasExclusion || !rec.IsTcp

	return s.saveOne(rec)
}

// ComputeMetrics derives the regulator metrics for the report's current
// SBTCP subset. The result is recomputed from the stored dataset every
// call and never persisted.
func (s *ReportService) ComputeMetrics(reportID int64) (*models.MetricsResult, error) {
	if _, err := s.reportRepo.GetReportByID(reportID); err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	records, err := s.recordRepo.GetRecordsByReportID(reportID)
	if err != nil {
		return nil, fmt.Errorf("failed to get records: %w", err)
	}

	return engine.ComputeMetrics(engine.FilterSBTCP(records)), nil
}

// SubmitReport finalises a report; its records become immutable.
func (s *ReportService) SubmitReport(reportID int64) (*models.Report, error) {
	report, err := s.reportRepo.GetReportByID(reportID)
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	if report.Status == models.ReportStatusSubmitted {
		return report, nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.reportRepo.UpdateReportStatus(tx, reportID, models.ReportStatusSubmitted); err != nil {
		return nil, fmt.Errorf("failed to update report status: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	report.Status = models.ReportStatusSubmitted
	return report, nil
}

func (s *ReportService) saveOne(rec *models.PaymentRecord) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.recordRepo.UpdatePaymentRecord(tx, rec); err != nil {
		return err
	}
	return tx.Commit()
}

// recordsEqual compares the engine-derived state of two snapshots of the
// same record, ignoring timestamps.
func recordsEqual(a, b *models.PaymentRecord) bool {
	ac, bc := *a, *b
	ac.CreatedAt, bc.CreatedAt = time.Time{}, time.Time{}
	ac.UpdatedAt, bc.UpdatedAt = time.Time{}, time.Time{}
	return reflect.DeepEqual(normalised(&ac), normalised(&bc))
}

type comparableRecord struct {
	record      models.PaymentRecord
	paymentTerm int
	hasTerm     bool
	paymentTime int
	hasTime     bool
	isSb        bool
	hasIsSb     bool
}

func normalised(r *models.PaymentRecord) comparableRecord {
	c := comparableRecord{record: *r}
	c.record.PaymentTerm = nil
	c.record.PaymentTime = nil
	c.record.IsSb = nil
	if r.PaymentTerm != nil {
		c.paymentTerm, c.hasTerm = *r.PaymentTerm, true
	}
	if r.PaymentTime != nil {
		c.paymentTime, c.hasTime = *r.PaymentTime, true
	}
	if r.IsSb != nil {
		c.isSb, c.hasIsSb = *r.IsSb, true
	}
	return c
}

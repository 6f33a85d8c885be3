package services

import (
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"ptrs-service/internal/models"
	"ptrs-service/internal/repositories"
)

var creditCardNumberPattern = regexp.MustCompile(`^\d{16}$`)

type IngestionService struct {
	db         *sql.DB
	reportRepo repositories.ReportRepository
	recordRepo repositories.RecordRepository
}

func NewIngestionService(
	db *sql.DB,
	reportRepo repositories.ReportRepository,
	recordRepo repositories.RecordRepository,
) *IngestionService {
	return &IngestionService{
		db:         db,
		reportRepo: reportRepo,
		recordRepo: recordRepo,
	}
}

// PaymentRecordInput is one raw row from manual upload or an external
// extraction. Dates are accepted as DD/MM/YYYY or ISO and normalised to
// ISO; ABN/ACN values are coerced to digits.
type PaymentRecordInput struct {
	InvoiceReferenceNumber    string          `json:"invoice_reference_number,omitempty"`
	PayerEntityName           string          `json:"payer_entity_name"`
	PayerAbn                  string          `json:"payer_abn,omitempty"`
	PayerAcnArbn              string          `json:"payer_acn_arbn,omitempty"`
	PayeeEntityName           string          `json:"payee_entity_name"`
	PayeeAbn                  string          `json:"payee_abn,omitempty"`
	PayeeAcnArbn              string          `json:"payee_acn_arbn,omitempty"`
	Description               string          `json:"description,omitempty"`
	PaymentAmount             decimal.Decimal `json:"payment_amount"`
	InvoiceAmount             decimal.Decimal `json:"invoice_amount"`
	SupplyDate                string          `json:"supply_date,omitempty"`
	PaymentDate               string          `json:"payment_date"`
	InvoiceIssueDate          string          `json:"invoice_issue_date,omitempty"`
	InvoiceReceiptDate        string          `json:"invoice_receipt_date,omitempty"`
	InvoiceDueDate            string          `json:"invoice_due_date,omitempty"`
	NoticeForPaymentIssueDate string          `json:"notice_for_payment_issue_date,omitempty"`
	ContractPoPaymentTerms    string          `json:"contract_po_payment_terms,omitempty"`
	InvoicePaymentTerms       string          `json:"invoice_payment_terms,omitempty"`
	NoticeForPaymentTerms     string          `json:"notice_for_payment_terms,omitempty"`
	PeppolEnabled             bool            `json:"peppol_enabled,omitempty"`
	Rcti                      bool            `json:"rcti,omitempty"`
	CreditCardPayment         bool            `json:"credit_card_payment,omitempty"`
	CreditCardNumber          string          `json:"credit_card_number,omitempty"`
}

type IngestionResult struct {
	Success      bool                   `json:"success"`
	RecordsCount int                    `json:"records_count"`
	Outcomes     []models.RecordOutcome `json:"outcomes"`
}

// IngestRecords normalises and stores a batch of raw records against a
// draft report. Each row is committed independently so one bad row never
// discards the rest of the batch; the response carries a per-record
// outcome.
func (s *IngestionService) IngestRecords(reportID int64, clientID string, inputs []PaymentRecordInput) (*IngestionResult, error) {
	report, err := s.reportRepo.GetReportByID(reportID)
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	if report.Status == models.ReportStatusSubmitted {
		return nil, fmt.Errorf("report %d is submitted and immutable", reportID)
	}

	result := &IngestionResult{Success: true}

	for _, input := range inputs {
		rec, err := s.normaliseInput(report, clientID, input)
		if err == nil {
			err = s.insertOne(rec)
		}

		outcome := models.RecordOutcome{Success: err == nil}
		if err != nil {
			outcome.Error = err.Error()
			result.Success = false
		} else {
			outcome.ID = rec.ID
			result.RecordsCount++
		}
		result.Outcomes = append(result.Outcomes, outcome)
	}

	return result, nil
}

func (s *IngestionService) insertOne(rec *models.PaymentRecord) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.recordRepo.InsertPaymentRecord(tx, rec); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *IngestionService) normaliseInput(report *models.Report, clientID string, input PaymentRecordInput) (*models.PaymentRecord, error) {
	if input.PayeeEntityName == "" && input.PayeeAbn == "" {
		return nil, fmt.Errorf("payee entity name or ABN is required")
	}
	if input.PaymentAmount.IsNegative() || input.InvoiceAmount.IsNegative() {
		return nil, fmt.Errorf("amounts must be non-negative")
	}
	if err := validateCreditCard(input.CreditCardPayment, input.CreditCardNumber); err != nil {
		return nil, err
	}

	rec := &models.PaymentRecord{
		ReportID:               report.ID,
		ClientID:               clientID,
		InvoiceReferenceNumber: strings.TrimSpace(input.InvoiceReferenceNumber),
		PayerEntityName:        strings.TrimSpace(input.PayerEntityName),
		PayerAbn:               digitsOnly(input.PayerAbn),
		PayerAcnArbn:           digitsOnly(input.PayerAcnArbn),
		PayeeEntityName:        strings.TrimSpace(input.PayeeEntityName),
		PayeeAbn:               digitsOnly(input.PayeeAbn),
		PayeeAcnArbn:           digitsOnly(input.PayeeAcnArbn),
		Description:            strings.TrimSpace(input.Description),
		PaymentAmount:          input.PaymentAmount,
		InvoiceAmount:          input.InvoiceAmount,
		ContractPoPaymentTerms: strings.TrimSpace(input.ContractPoPaymentTerms),
		InvoicePaymentTerms:    strings.TrimSpace(input.InvoicePaymentTerms),
		NoticeForPaymentTerms:  strings.TrimSpace(input.NoticeForPaymentTerms),
		PeppolEnabled:          input.PeppolEnabled,
		Rcti:                   input.Rcti,
		CreditCardPayment:      input.CreditCardPayment,
		CreditCardNumber:       digitsOnly(input.CreditCardNumber),
		IsTcp:                  true,
	}

	dates := []struct {
		name string
		in   string
		out  *string
	}{
		{"supply_date", input.SupplyDate, &rec.SupplyDate},
		{"payment_date", input.PaymentDate, &rec.PaymentDate},
		{"invoice_issue_date", input.InvoiceIssueDate, &rec.InvoiceIssueDate},
		{"invoice_receipt_date", input.InvoiceReceiptDate, &rec.InvoiceReceiptDate},
		{"invoice_due_date", input.InvoiceDueDate, &rec.InvoiceDueDate},
		{"notice_for_payment_issue_date", input.NoticeForPaymentIssueDate, &rec.NoticeForPaymentIssueDate},
	}
	for _, d := range dates {
		normalised, err := normaliseDate(d.in)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", d.name, err)
		}
		*d.out = normalised
	}

	return rec, nil
}

// normaliseDate converts DD/MM/YYYY extraction output to the ISO calendar
// day the dataset stores. Empty input stays empty (unknown date).
func normaliseDate(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	if t, err := time.Parse(models.DateFormat, raw); err == nil {
		return t.Format(models.DateFormat), nil
	}
	if t, err := time.Parse("02/01/2006", raw); err == nil {
		return t.Format(models.DateFormat), nil
	}
	return "", fmt.Errorf("unrecognised date %q", raw)
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// validateCreditCard enforces the pairing invariant at the boundary: a
// credit card payment needs a 16-digit number, and a supplied number means
// the payment is a credit card payment. Inconsistent pairs are rejected,
// never auto-corrected.
func validateCreditCard(creditCardPayment bool, creditCardNumber string) error {
	number := digitsOnly(creditCardNumber)
	if creditCardPayment && !creditCardNumberPattern.MatchString(number) {
		return fmt.Errorf("credit card payment requires a 16-digit card number")
	}
	if !creditCardPayment && number != "" {
		return fmt.Errorf("card number supplied for a non-credit-card payment")
	}
	return nil
}

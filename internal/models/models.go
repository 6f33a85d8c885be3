package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Report represents one reporting-period submission for a payer entity
type Report struct {
	ID              int64     `db:"id" json:"id"`
	ClientID        string    `db:"client_id" json:"client_id"`
	PayerEntityName string    `db:"payer_entity_name" json:"payer_entity_name"`
	PayerAbn        string    `db:"payer_abn" json:"payer_abn"`
	PeriodStart     string    `db:"period_start" json:"period_start"`
	PeriodEnd       string    `db:"period_end" json:"period_end"`
	Status          string    `db:"status" json:"status"`
	CreatedAt       time.Time `db:"created_at" json:"-"`
	UpdatedAt       time.Time `db:"updated_at" json:"-"`
}

// PaymentRecord represents one row of the trade credit payment dataset
type PaymentRecord struct {
	ID                     int64  `db:"id" json:"id"`
	ReportID               int64  `db:"report_id" json:"report_id"`
	ClientID               string `db:"client_id" json:"client_id"`
	InvoiceReferenceNumber string `db:"invoice_reference_number" json:"invoice_reference_number"`
	PayerEntityName        string `db:"payer_entity_name" json:"payer_entity_name"`
	PayerAbn               string `db:"payer_abn" json:"payer_abn"`
	PayerAcnArbn           string `db:"payer_acn_arbn" json:"payer_acn_arbn"`
	PayeeEntityName        string `db:"payee_entity_name" json:"payee_entity_name"`
	PayeeAbn               string `db:"payee_abn" json:"payee_abn"`
	PayeeAcnArbn           string `db:"payee_acn_arbn" json:"payee_acn_arbn"`
	Description            string `db:"description" json:"description"`

	PaymentAmount decimal.Decimal `db:"payment_amount" json:"payment_amount"`
	InvoiceAmount decimal.Decimal `db:"invoice_amount" json:"invoice_amount"`

	// Dates are stored as ISO calendar days (2006-01-02); empty string means unknown
	SupplyDate                string `db:"supply_date" json:"supply_date"`
	PaymentDate               string `db:"payment_date" json:"payment_date"`
	InvoiceIssueDate          string `db:"invoice_issue_date" json:"invoice_issue_date"`
	InvoiceReceiptDate        string `db:"invoice_receipt_date" json:"invoice_receipt_date"`
	InvoiceDueDate            string `db:"invoice_due_date" json:"invoice_due_date"`
	NoticeForPaymentIssueDate string `db:"notice_for_payment_issue_date" json:"notice_for_payment_issue_date"`

	ContractPoPaymentTerms string `db:"contract_po_payment_terms" json:"contract_po_payment_terms"`
	InvoicePaymentTerms    string `db:"invoice_payment_terms" json:"invoice_payment_terms"`
	NoticeForPaymentTerms  string `db:"notice_for_payment_terms" json:"notice_for_payment_terms"`

	IsTcp               bool   `db:"is_tcp" json:"is_tcp"`
	TcpExclusionComment string `db:"tcp_exclusion_comment" json:"tcp_exclusion_comment"`
	PartialPayment      bool   `db:"partial_payment" json:"partial_payment"`
	PaymentTerm         *int   `db:"payment_term" json:"payment_term"`
	PaymentTime         *int   `db:"payment_time" json:"payment_time"`
	PeppolEnabled       bool   `db:"peppol_enabled" json:"peppol_enabled"`
	Rcti                bool   `db:"rcti" json:"rcti"`
	CreditCardPayment   bool   `db:"credit_card_payment" json:"credit_card_payment"`
	CreditCardNumber    string `db:"credit_card_number" json:"credit_card_number"`
	ExcludedTcp         bool   `db:"excluded_tcp" json:"excluded_tcp"`
	IsSb                *bool  `db:"is_sb" json:"is_sb"`

	HasExclusion         bool `db:"has_exclusion" json:"has_exclusion"`
	HasIssue             bool `db:"has_issue" json:"has_issue"`
	RequiresAttention    bool `db:"requires_attention" json:"requires_attention"`
	SystemRecommendation bool `db:"system_recommendation" json:"system_recommendation"`

	CreatedAt time.Time `db:"created_at" json:"-"`
	UpdatedAt time.Time `db:"updated_at" json:"-"`
}

// Clone returns a deep copy of the record. The engine annotates copies,
// never its inputs, so callers can diff enriched rows against the loaded
// snapshot to find what changed.
func (r *PaymentRecord) Clone() *PaymentRecord {
	c := *r
	if r.PaymentTerm != nil {
		v := *r.PaymentTerm
		c.PaymentTerm = &v
	}
	if r.PaymentTime != nil {
		v := *r.PaymentTime
		c.PaymentTime = &v
	}
	if r.IsSb != nil {
		v := *r.IsSb
		c.IsSb = &v
	}
	return &c
}

// ExclusionRule is a tenant-scoped declarative predicate over one record field
type ExclusionRule struct {
	ID        int64     `db:"id" json:"id"`
	ClientID  string    `db:"client_id" json:"client_id"`
	Field     string    `db:"field" json:"field"`
	Type      string    `db:"type" json:"type"`
	Terms     []string  `db:"terms" json:"terms"`
	CreatedAt time.Time `db:"created_at" json:"-"`
}

// IssueRule flags a data-quality problem on a record. Rules are code-defined;
// a record has an issue when any rule's condition holds.
type IssueRule struct {
	ID        string
	Label     string
	Condition func(r *PaymentRecord) bool
}

// RecordOutcome is the per-record element of every batch response
type RecordOutcome struct {
	ID      int64  `json:"id"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// MetricsResult holds the statistical summary over the small-business TCP
// subset. Nil fields mean insufficient data, never zero. It is computed on
// demand and never persisted.
type MetricsResult struct {
	TotalRecords int `json:"total_records"`

	ModePaymentTerm  *int `json:"mode_payment_term"`
	PayerModeTermMin *int `json:"payer_mode_term_min"`
	PayerModeTermMax *int `json:"payer_mode_term_max"`

	// Expected next-period figures mirror the current period (no projection)
	ExpectedModePaymentTerm  *int `json:"expected_mode_payment_term"`
	ExpectedPayerModeTermMin *int `json:"expected_payer_mode_term_min"`
	ExpectedPayerModeTermMax *int `json:"expected_payer_mode_term_max"`

	AveragePaymentTime *float64 `json:"average_payment_time"`
	MedianPaymentTime  *float64 `json:"median_payment_time"`
	PaymentTime80th    *int     `json:"payment_time_80th_percentile"`
	PaymentTime95th    *int     `json:"payment_time_95th_percentile"`

	PaidWithinTermsPct *float64 `json:"paid_within_terms_pct"`
	PaidWithin30Pct    *float64 `json:"paid_within_30_pct"`
	Paid31To60Pct      *float64 `json:"paid_31_to_60_pct"`
	PaidOver60Pct      *float64 `json:"paid_over_60_pct"`
}

// Report status constants
const (
	ReportStatusDraft     = "draft"
	ReportStatusSubmitted = "submitted"
)

// Exclusion rule match types
const (
	MatchExact                 = "exact"
	MatchContains              = "contains"
	MatchLessThanAndCreditCard = "lessThanAndCreditCard"
)

// Payment term bounds and the undetermined sentinel surfaced for manual entry
const (
	PaymentTermMin          = 0
	PaymentTermMax          = 999
	PaymentTermUndetermined = 99
)

// DateFormat is the calendar-day layout used across the dataset
const DateFormat = "2006-01-02"

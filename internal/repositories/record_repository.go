package repositories

import (
	"database/sql"
	"errors"
	"time"

	"ptrs-service/internal/models"
)

var ErrRecordNotFound = errors.New("payment record not found")

type RecordRepository interface {
	InsertPaymentRecord(tx *sql.Tx, r *models.PaymentRecord) error
	GetPaymentRecordByID(id int64) (*models.PaymentRecord, error)
	GetRecordsByReportID(reportID int64) ([]*models.PaymentRecord, error)
	UpdatePaymentRecord(tx *sql.Tx, r *models.PaymentRecord) error
	GetDistinctPayeeAbns(reportID int64) ([]string, error)
	UpdateIsSbByPayeeAbn(tx *sql.Tx, reportID int64, payeeAbn string, isSb bool) (int64, error)
}

type recordRepository struct {
	db *sql.DB
}

func NewRecordRepository(db *sql.DB) RecordRepository {
	return &recordRepository{db: db}
}

const recordColumns = `
	id, report_id, client_id, invoice_reference_number,
	payer_entity_name, payer_abn, payer_acn_arbn,
	payee_entity_name, payee_abn, payee_acn_arbn, description,
	payment_amount, invoice_amount,
	supply_date, payment_date, invoice_issue_date, invoice_receipt_date,
	invoice_due_date, notice_for_payment_issue_date,
	contract_po_payment_terms, invoice_payment_terms, notice_for_payment_terms,
	is_tcp, tcp_exclusion_comment, partial_payment, payment_term, payment_time,
	peppol_enabled, rcti, credit_card_payment, credit_card_number,
	excluded_tcp, is_sb, has_exclusion, has_issue, requires_attention,
	system_recommendation, created_at, updated_at
`

func (r *recordRepository) InsertPaymentRecord(tx *sql.Tx, rec *models.PaymentRecord) error {
	query := `
		INSERT INTO payment_records (
			report_id, client_id, invoice_reference_number,
			payer_entity_name, payer_abn, payer_acn_arbn,
			payee_entity_name, payee_abn, payee_acn_arbn, description,
			payment_amount, invoice_amount,
			supply_date, payment_date, invoice_issue_date, invoice_receipt_date,
			invoice_due_date, notice_for_payment_issue_date,
			contract_po_payment_terms, invoice_payment_terms, notice_for_payment_terms,
			is_tcp, tcp_exclusion_comment, partial_payment, payment_term, payment_time,
			peppol_enabled, rcti, credit_card_payment, credit_card_number,
			excluded_tcp, is_sb, has_exclusion, has_issue, requires_attention,
			system_recommendation
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	result, err := tx.Exec(query,
		rec.ReportID,
		rec.ClientID,
		rec.InvoiceReferenceNumber,
		rec.PayerEntityName,
		rec.PayerAbn,
		rec.PayerAcnArbn,
		rec.PayeeEntityName,
		rec.PayeeAbn,
		rec.PayeeAcnArbn,
		rec.Description,
		rec.PaymentAmount,
		rec.InvoiceAmount,
		rec.SupplyDate,
		rec.PaymentDate,
		rec.InvoiceIssueDate,
		rec.InvoiceReceiptDate,
		rec.InvoiceDueDate,
		rec.NoticeForPaymentIssueDate,
		rec.ContractPoPaymentTerms,
		rec.InvoicePaymentTerms,
		rec.NoticeForPaymentTerms,
		rec.IsTcp,
		rec.TcpExclusionComment,
		rec.PartialPayment,
		nullableInt(rec.PaymentTerm),
		nullableInt(rec.PaymentTime),
		rec.PeppolEnabled,
		rec.Rcti,
		rec.CreditCardPayment,
		rec.CreditCardNumber,
		rec.ExcludedTcp,
		nullableBool(rec.IsSb),
		rec.HasExclusion,
		rec.HasIssue,
		rec.RequiresAttention,
		rec.SystemRecommendation,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	rec.ID = id
	return nil
}

func (r *recordRepository) GetPaymentRecordByID(id int64) (*models.PaymentRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM payment_records WHERE id = ?`
	rec, err := scanRecord(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *recordRepository) GetRecordsByReportID(reportID int64) ([]*models.PaymentRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM payment_records WHERE report_id = ? ORDER BY id`
	rows, err := r.db.Query(query, reportID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*models.PaymentRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *recordRepository) UpdatePaymentRecord(tx *sql.Tx, rec *models.PaymentRecord) error {
	query := `
		UPDATE payment_records
		SET invoice_reference_number = ?,
			payee_entity_name = ?,
			payee_abn = ?,
			payee_acn_arbn = ?,
			description = ?,
			payment_amount = ?,
			invoice_amount = ?,
			supply_date = ?,
			payment_date = ?,
			invoice_issue_date = ?,
			invoice_receipt_date = ?,
			invoice_due_date = ?,
			notice_for_payment_issue_date = ?,
			contract_po_payment_terms = ?,
			invoice_payment_terms = ?,
			notice_for_payment_terms = ?,
			is_tcp = ?,
			tcp_exclusion_comment = ?,
			partial_payment = ?,
			payment_term = ?,
			payment_time = ?,
			peppol_enabled = ?,
			rcti = ?,
			credit_card_payment = ?,
			credit_card_number = ?,
			excluded_tcp = ?,
			is_sb = ?,
			has_exclusion = ?,
			has_issue = ?,
			requires_attention = ?,
			system_recommendation = ?,
			updated_at = ?
		WHERE id = ?
	`
	result, err := tx.Exec(query,
		rec.InvoiceReferenceNumber,
		rec.PayeeEntityName,
		rec.PayeeAbn,
		rec.PayeeAcnArbn,
		rec.Description,
		rec.PaymentAmount,
		rec.InvoiceAmount,
		rec.SupplyDate,
		rec.PaymentDate,
		rec.InvoiceIssueDate,
		rec.InvoiceReceiptDate,
		rec.InvoiceDueDate,
		rec.NoticeForPaymentIssueDate,
		rec.ContractPoPaymentTerms,
		rec.InvoicePaymentTerms,
		rec.NoticeForPaymentTerms,
		rec.IsTcp,
		rec.TcpExclusionComment,
		rec.PartialPayment,
		nullableInt(rec.PaymentTerm),
		nullableInt(rec.PaymentTime),
		rec.PeppolEnabled,
		rec.Rcti,
		rec.CreditCardPayment,
		rec.CreditCardNumber,
		rec.ExcludedTcp,
		nullableBool(rec.IsSb),
		rec.HasExclusion,
		rec.HasIssue,
		rec.RequiresAttention,
		rec.SystemRecommendation,
		time.Now(),
		rec.ID,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (r *recordRepository) GetDistinctPayeeAbns(reportID int64) ([]string, error) {
	query := `
		SELECT DISTINCT payee_abn
		FROM payment_records
		WHERE report_id = ? AND payee_abn != ''
		ORDER BY payee_abn
	`
	rows, err := r.db.Query(query, reportID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var abns []string
	for rows.Next() {
		var abn string
		if err := rows.Scan(&abn); err != nil {
			return nil, err
		}
		abns = append(abns, abn)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return abns, nil
}

func (r *recordRepository) UpdateIsSbByPayeeAbn(tx *sql.Tx, reportID int64, payeeAbn string, isSb bool) (int64, error) {
	query := `
		UPDATE payment_records
		SET is_sb = ?,
			updated_at = ?
		WHERE report_id = ? AND payee_abn = ?
	`
	result, err := tx.Exec(query, isSb, time.Now(), reportID, payeeAbn)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row rowScanner) (*models.PaymentRecord, error) {
	rec := &models.PaymentRecord{}
	var paymentTerm, paymentTime sql.NullInt64
	var isSb sql.NullBool

	err := row.Scan(
		&rec.ID,
		&rec.ReportID,
		&rec.ClientID,
		&rec.InvoiceReferenceNumber,
		&rec.PayerEntityName,
		&rec.PayerAbn,
		&rec.PayerAcnArbn,
		&rec.PayeeEntityName,
		&rec.PayeeAbn,
		&rec.PayeeAcnArbn,
		&rec.Description,
		&rec.PaymentAmount,
		&rec.InvoiceAmount,
		&rec.SupplyDate,
		&rec.PaymentDate,
		&rec.InvoiceIssueDate,
		&rec.InvoiceReceiptDate,
		&rec.InvoiceDueDate,
		&rec.NoticeForPaymentIssueDate,
		&rec.ContractPoPaymentTerms,
		&rec.InvoicePaymentTerms,
		&rec.NoticeForPaymentTerms,
		&rec.IsTcp,
		&rec.TcpExclusionComment,
		&rec.PartialPayment,
		&paymentTerm,
		&paymentTime,
		&rec.PeppolEnabled,
		&rec.Rcti,
		&rec.CreditCardPayment,
		&rec.CreditCardNumber,
		&rec.ExcludedTcp,
		&isSb,
		&rec.HasExclusion,
		&rec.HasIssue,
		&rec.RequiresAttention,
		&rec.SystemRecommendation,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if paymentTerm.Valid {
		v := int(paymentTerm.Int64)
		rec.PaymentTerm = &v
	}
	if paymentTime.Valid {
		v := int(paymentTime.Int64)
		rec.PaymentTime = &v
	}
	if isSb.Valid {
		v := isSb.Bool
		rec.IsSb = &v
	}
	return rec, nil
}

func nullableInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nullableBool(v *bool) sql.NullBool {
	if v == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *v, Valid: true}
}

package repositories

import (
	"database/sql"
	"errors"
	"time"

	"ptrs-service/internal/models"
)

var ErrReportNotFound = errors.New("report not found")

type ReportRepository interface {
	CreateReport(rep *models.Report) error
	GetReportByID(id int64) (*models.Report, error)
	UpdateReportStatus(tx *sql.Tx, id int64, status string) error
}

type reportRepository struct {
	db *sql.DB
}

func NewReportRepository(db *sql.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) CreateReport(rep *models.Report) error {
	query := `
		INSERT INTO reports (
			client_id, payer_entity_name, payer_abn, period_start, period_end, status
		) VALUES (?, ?, ?, ?, ?, ?)
	`
	result, err := r.db.Exec(query,
		rep.ClientID,
		rep.PayerEntityName,
		rep.PayerAbn,
		rep.PeriodStart,
		rep.PeriodEnd,
		rep.Status,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	rep.ID = id
	return nil
}

func (r *reportRepository) GetReportByID(id int64) (*models.Report, error) {
	rep := &models.Report{}
	query := `
		SELECT id, client_id, payer_entity_name, payer_abn,
		       period_start, period_end, status, created_at, updated_at
		FROM reports
		WHERE id = ?
	`
	err := r.db.QueryRow(query, id).Scan(
		&rep.ID,
		&rep.ClientID,
		&rep.PayerEntityName,
		&rep.PayerAbn,
		&rep.PeriodStart,
		&rep.PeriodEnd,
		&rep.Status,
		&rep.CreatedAt,
		&rep.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrReportNotFound
	}
	if err != nil {
		return nil, err
	}
	return rep, nil
}

func (r *reportRepository) UpdateReportStatus(tx *sql.Tx, id int64, status string) error {
	query := `
		UPDATE reports
		SET status = ?,
		    updated_at = ?
		WHERE id = ?
	`
	result, err := tx.Exec(query, status, time.Now(), id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrReportNotFound
	}
	return nil
}

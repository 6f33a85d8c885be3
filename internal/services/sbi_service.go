package services

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"ptrs-service/internal/repositories"
)

// SbiCsvHeader is the column header the regulator's Small Business
// Identification tool expects and produces.
const SbiCsvHeader = "Payee Entity ABN"

type SbiService struct {
	db         *sql.DB
	reportRepo repositories.ReportRepository
	recordRepo repositories.RecordRepository
}

func NewSbiService(
	db *sql.DB,
	reportRepo repositories.ReportRepository,
	recordRepo repositories.RecordRepository,
) *SbiService {
	return &SbiService{
		db:         db,
		reportRepo: reportRepo,
		recordRepo: recordRepo,
	}
}

type SbiImportResult struct {
	RowsRead       int      `json:"rows_read"`
	RecordsUpdated int64    `json:"records_updated"`
	UnknownAbns    []string `json:"unknown_abns,omitempty"`
	SkippedRows    []string `json:"skipped_rows,omitempty"`
}

// ExportPayeeAbns writes the single-column CSV of a report's distinct
// 11-digit payee ABNs for the SBI tool. ABNs of other lengths are data
// quality problems surfaced by the issue rules and are left out of the
// exchange file.
func (s *SbiService) ExportPayeeAbns(w io.Writer, reportID int64) error {
	if _, err := s.reportRepo.GetReportByID(reportID); err != nil {
		return fmt.Errorf("failed to get report: %w", err)
	}

	abns, err := s.recordRepo.GetDistinctPayeeAbns(reportID)
	if err != nil {
		return fmt.Errorf("failed to get payee ABNs: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{SbiCsvHeader}); err != nil {
		return err
	}
	for _, abn := range abns {
		if len(abn) != 11 {
			continue
		}
		if err := cw.Write([]string{abn}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ImportSbiResults reads the SBI tool's comparison CSV (Payee Entity ABN,
// Small Business) and sets the is_sb flag on every matching record of the
// report. ABNs that match no record are reported, not fatal.
func (s *SbiService) ImportSbiResults(r io.Reader, reportID int64) (*SbiImportResult, error) {
	if _, err := s.reportRepo.GetReportByID(reportID); err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	if len(header) < 2 || !strings.EqualFold(strings.TrimSpace(header[0]), SbiCsvHeader) {
		return nil, fmt.Errorf("unexpected CSV header %q", strings.Join(header, ","))
	}

	result := &SbiImportResult{}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}
		result.RowsRead++

		if len(row) < 2 {
			result.SkippedRows = append(result.SkippedRows, strings.Join(row, ","))
			continue
		}
		abn := digitsOnly(row[0])
		isSb, err := strconv.ParseBool(strings.TrimSpace(strings.ToLower(row[1])))
		if len(abn) != 11 || err != nil {
			result.SkippedRows = append(result.SkippedRows, strings.Join(row, ","))
			continue
		}

		updated, err := s.recordRepo.UpdateIsSbByPayeeAbn(tx, reportID, abn, isSb)
		if err != nil {
			return nil, fmt.Errorf("failed to update is_sb for ABN %s: %w", abn, err)
		}
		if updated == 0 {
			result.UnknownAbns = append(result.UnknownAbns, abn)
			continue
		}
		result.RecordsUpdated += updated
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return result, nil
}

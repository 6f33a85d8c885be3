package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ptrs-service/internal/database"
	"ptrs-service/internal/logger"
	"ptrs-service/internal/repositories"
	"ptrs-service/internal/services"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import SBI tool results back into a report",
	Example: `  # Apply the tool's classification to report 42
  sbi import --report 42 --in sbi-results.csv`,
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().Int64("report", 0, "Report ID to update")
	importCmd.Flags().String("in", "", "Input CSV path")
	importCmd.MarkFlagRequired("report")
	importCmd.MarkFlagRequired("in")
}

func runImport(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("sbi-import")

	reportID, _ := cmd.Flags().GetInt64("report")
	inPath, _ := cmd.Flags().GetString("in")

	db, err := database.NewConnection(sbiConfig)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	sbiService := services.NewSbiService(db,
		repositories.NewReportRepository(db),
		repositories.NewRecordRepository(db),
	)

	in, err := os.Open(inPath)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer in.Close()

	result, err := sbiService.ImportSbiResults(in, reportID)
	if err != nil {
		return err
	}

	log.Info().
		Int64("report_id", reportID).
		Int("rows_read", result.RowsRead).
		Int64("records_updated", result.RecordsUpdated).
		Int("unknown_abns", len(result.UnknownAbns)).
		Int("skipped_rows", len(result.SkippedRows)).
		Msg("Imported SBI results")

	for _, abn := range result.UnknownAbns {
		fmt.Printf("No records for ABN %s\n", abn)
	}
	return nil
}

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

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a report's payee ABNs for the SBI tool",
	Example: `  # Write the ABN CSV for report 42
  sbi export --report 42 --out abns.csv`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().Int64("report", 0, "Report ID to export")
	exportCmd.Flags().String("out", "", "Output CSV path (default: stdout)")
	exportCmd.MarkFlagRequired("report")
}

func runExport(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("sbi-export")

	reportID, _ := cmd.Flags().GetInt64("report")
	outPath, _ := cmd.Flags().GetString("out")

	db, err := database.NewConnection(sbiConfig)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	sbiService := services.NewSbiService(db,
		repositories.NewReportRepository(db),
		repositories.NewRecordRepository(db),
	)

	out := os.Stdout
	if outPath != "" {
		out, err = os.Create(outPath)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer out.Close()
	}

	if err := sbiService.ExportPayeeAbns(out, reportID); err != nil {
		return err
	}

	log.Info().Int64("report_id", reportID).Str("out", outPath).Msg("Exported payee ABNs")
	return nil
}

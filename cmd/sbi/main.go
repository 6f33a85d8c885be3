package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"ptrs-service/internal/config"
	"ptrs-service/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "sbi",
	Short: "Small Business Identification CSV exchange",
	Long: `sbi handles the CSV round-trip with the regulator's Small Business
Identification tool: export the payee ABNs of a report for classification,
then import the tool's results back as the is_sb flag on each record.`,
}

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not load .env file: %v\n", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Setup(cfg.GetLoggerConfig()); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(1)
	}

	sbiConfig = cfg

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

// sbiConfig is shared with the subcommands after main loads it
var sbiConfig *config.Config

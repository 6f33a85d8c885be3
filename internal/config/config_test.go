package config

import (
	"testing"
)

func TestGetDSN(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     3306,
			User:     "ptrs",
			Password: "secret",
			Name:     "ptrs_db",
			Params:   "parseTime=true",
		},
	}

	want := "ptrs:secret@tcp(localhost:3306)/ptrs_db?parseTime=true"
	if got := cfg.GetDSN(); got != want {
		t.Errorf("Expected DSN '%s', got '%s'", want, got)
	}
}

func TestGetMigrationDBURL(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{
			Host:     "db",
			Port:     3307,
			User:     "u",
			Password: "p",
			Name:     "n",
			Params:   "parseTime=true",
		},
	}

	want := "mysql://u:p@tcp(db:3307)/n?parseTime=true"
	if got := cfg.GetMigrationDBURL(); got != want {
		t.Errorf("Expected migration URL '%s', got '%s'", want, got)
	}
}

func TestGetLoggerConfig(t *testing.T) {
	cfg := &Config{
		Logging: LoggingConfig{Level: "debug", Format: "json", Output: "stderr"},
	}

	lc := cfg.GetLoggerConfig()
	if lc.Level != "debug" || lc.Format != "json" || lc.Output != "stderr" {
		t.Errorf("Unexpected logger config: %+v", lc)
	}
}

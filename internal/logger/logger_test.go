package logger

import (
	"testing"
)

func TestSetupWithDefaults(t *testing.T) {
	if err := Setup(DefaultConfig()); err != nil {
		t.Errorf("Unexpected error with default config: %v", err)
	}
}

func TestSetupRejectsInvalidLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Level = "verbose"

	if err := Setup(cfg); err == nil {
		t.Errorf("Expected an error for an unknown log level")
	}
}

func TestSetupJSONFormat(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Format = "json"
	cfg.Output = "stderr"

	if err := Setup(cfg); err != nil {
		t.Errorf("Unexpected error with JSON format: %v", err)
	}
}

func TestWithComponent(t *testing.T) {
	if err := Setup(DefaultConfig()); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}

	log := WithComponent("test")
	// Must not panic and must be usable immediately
	log.Debug().Msg("component logger works")
}

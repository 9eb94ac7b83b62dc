package config

import (
	"strings"
	"testing"
)

func TestAppConfigApplyDefaults(t *testing.T) {
	var cfg AppConfig
	cfg.ApplyDefaults()

	if cfg.Name != "filevault" {
		t.Errorf("Name = %q, want filevault", cfg.Name)
	}
	if cfg.Environment != "development" {
		t.Errorf("Environment = %q, want development", cfg.Environment)
	}
	if !cfg.Debug {
		t.Error("expected Debug to default on in development")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Errorf("Database.Driver = %q, want sqlite", cfg.Database.Driver)
	}
	if cfg.Gateway.MaxFileSize <= 0 {
		t.Error("expected Gateway.MaxFileSize default")
	}
	if cfg.Queue.Workers <= 0 {
		t.Error("expected Queue.Workers default")
	}
}

func TestAppConfigDebugNotForcedOutsideDevelopment(t *testing.T) {
	cfg := AppConfig{Environment: "production"}
	cfg.ApplyDefaults()
	if cfg.Debug {
		t.Error("Debug should stay off in production")
	}
}

func TestAppConfigValidate(t *testing.T) {
	var cfg AppConfig
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaulted config should validate: %v", err)
	}

	cfg.Environment = "testing"
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation failure for unknown environment")
	}

	cfg.Environment = "staging"
	cfg.Database.ConnMaxLifetime = "soon"
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation failure for bad conn_max_lifetime")
	}
	if !strings.Contains(err.Error(), "config.database") {
		t.Errorf("error %q should name the failing section", err)
	}
}

package logger

import (
	"testing"
	"time"
)

func TestNewDefault(t *testing.T) {
	l := NewDefault("filevault-test")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.service != "filevault-test" {
		t.Errorf("expected service 'filevault-test', got %q", l.service)
	}
}

func TestNew_InvalidLevelFallsBackToInfo(t *testing.T) {
	cfg := &Config{
		Level:  "not-a-level",
		Format: "json",
		Output: "stdout",
	}
	l := New(cfg, "svc")
	if l == nil {
		t.Fatal("expected non-nil logger despite invalid level")
	}
}

func TestConfig_ApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.Level != "info" {
		t.Errorf("expected default level info, got %q", cfg.Level)
	}
	if cfg.Format != "console" {
		t.Errorf("expected default format console, got %q", cfg.Format)
	}
	if !cfg.Timestamp {
		t.Error("expected timestamps enabled by default")
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := Config{Level: "info", Format: "json"}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}
	cfg.Level = "loud"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for invalid level")
	}
	cfg = Config{Level: "info", Format: "xml"}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for invalid format")
	}
}

func TestFields(t *testing.T) {
	m := Fields(FieldKey, "a/b", FieldSizeBytes, int64(42))
	if m[FieldKey] != "a/b" {
		t.Errorf("expected key field, got %v", m[FieldKey])
	}
	if m[FieldSizeBytes] != int64(42) {
		t.Errorf("expected size field, got %v", m[FieldSizeBytes])
	}
	// Odd trailing value is dropped
	m = Fields(FieldKey, "x", "dangling")
	if len(m) != 1 {
		t.Errorf("expected 1 field, got %d", len(m))
	}
}

func TestDurationFields(t *testing.T) {
	m := DurationFields("upload", 1500*time.Millisecond)
	if m[FieldDuration] != int64(1500) {
		t.Errorf("expected 1500ms, got %v", m[FieldDuration])
	}
	if m[FieldOperation] != "upload" {
		t.Errorf("expected operation upload, got %v", m[FieldOperation])
	}
}

func TestNop(t *testing.T) {
	l := Nop()
	// Must not panic and must accept fields.
	l.Info("ignored", Fields(FieldFileID, "f1"))
	l.WithComponent("x").WithError(nil).Debug("ignored")
}

func TestGlobalLogger(t *testing.T) {
	SetGlobalLogger(nil)
	l := GetGlobalLogger()
	if l == nil {
		t.Fatal("expected lazily created global logger")
	}
	c := WithComponent("gateway")
	if c == nil {
		t.Fatal("expected component logger")
	}
}

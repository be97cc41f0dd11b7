package config

import (
	"testing"
	"time"
)

func TestLoadValidator_Defaults(t *testing.T) {
	t.Setenv("NOTEBOOK_INSTANCE_NAME", "")
	t.Setenv("SESSION_URL_TTL", "")
	t.Setenv("AUDIT_TABLE_NAME", "")
	t.Setenv("LOG_LEVEL", "")

	cfg, err := LoadValidator()
	if err != nil {
		t.Fatalf("LoadValidator: %v", err)
	}
	if cfg.NotebookName != "Data-Sandbox-Notebook" {
		t.Errorf("NotebookName: expected Data-Sandbox-Notebook, got %q", cfg.NotebookName)
	}
	if cfg.URLTTL != 1800*time.Second {
		t.Errorf("URLTTL: expected 30m, got %v", cfg.URLTTL)
	}
	if cfg.AuditTable != "" {
		t.Errorf("AuditTable: expected empty, got %q", cfg.AuditTable)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel: expected info, got %q", cfg.LogLevel)
	}
}

func TestLoadValidator_CustomValues(t *testing.T) {
	t.Setenv("NOTEBOOK_INSTANCE_NAME", "other-notebook")
	t.Setenv("SESSION_URL_TTL", "3600")
	t.Setenv("AUDIT_TABLE_NAME", " sandbox-audit ")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadValidator()
	if err != nil {
		t.Fatalf("LoadValidator: %v", err)
	}
	if cfg.NotebookName != "other-notebook" {
		t.Errorf("NotebookName: got %q", cfg.NotebookName)
	}
	if cfg.URLTTL != time.Hour {
		t.Errorf("URLTTL: expected 1h, got %v", cfg.URLTTL)
	}
	if cfg.AuditTable != "sandbox-audit" {
		t.Errorf("AuditTable: expected trimmed value, got %q", cfg.AuditTable)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel: got %q", cfg.LogLevel)
	}
}

func TestLoadValidator_InvalidTTL(t *testing.T) {
	for _, v := range []string{"abc", "60", "43201"} {
		t.Setenv("SESSION_URL_TTL", v)
		if _, err := LoadValidator(); err == nil {
			t.Errorf("SESSION_URL_TTL=%q: expected error", v)
		}
	}
}

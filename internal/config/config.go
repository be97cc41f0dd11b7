// Package config reads Lambda settings from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment variables read by the Lambdas.
const (
	EnvNotebookName = "NOTEBOOK_INSTANCE_NAME"
	EnvURLTTL       = "SESSION_URL_TTL"
	EnvAuditTable   = "AUDIT_TABLE_NAME"
	EnvLogLevel     = "LOG_LEVEL"
)

const (
	DefaultNotebookName = "Data-Sandbox-Notebook"
	DefaultURLTTL       = 1800 * time.Second

	// SageMaker accepts presigned notebook sessions between 30 minutes and 12 hours.
	minURLTTL = 1800
	maxURLTTL = 43200
)

// Validator holds the session validator settings.
type Validator struct {
	NotebookName string
	URLTTL       time.Duration
	AuditTable   string // empty disables the audit trail
	LogLevel     string
}

// LoadValidator reads NOTEBOOK_INSTANCE_NAME, SESSION_URL_TTL, AUDIT_TABLE_NAME and LOG_LEVEL.
func LoadValidator() (Validator, error) {
	cfg := Validator{
		NotebookName: getenv(EnvNotebookName, DefaultNotebookName),
		URLTTL:       DefaultURLTTL,
		AuditTable:   getenv(EnvAuditTable, ""),
		LogLevel:     getenv(EnvLogLevel, "info"),
	}
	if v := getenv(EnvURLTTL, ""); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Validator{}, fmt.Errorf("%s=%q: %w", EnvURLTTL, v, err)
		}
		if n < minURLTTL || n > maxURLTTL {
			return Validator{}, fmt.Errorf("%s=%d out of range [%d, %d]", EnvURLTTL, n, minURLTTL, maxURLTTL)
		}
		cfg.URLTTL = time.Duration(n) * time.Second
	}
	return cfg, nil
}

// LogLevel is the only setting the provisioning Lambdas read.
func LogLevel() string {
	return getenv(EnvLogLevel, "info")
}

func getenv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

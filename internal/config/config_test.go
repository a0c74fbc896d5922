package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(Overrides{})
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.DefaultLimit)
	assert.Equal(t, 100, cfg.MaxRows)
	assert.Equal(t, 30*time.Second, cfg.QueryTimeout)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.False(t, cfg.OTelEnabled)
}

func TestLoad_EnvVars(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/test")
	t.Setenv("DEFAULT_LIMIT", "25")
	t.Setenv("MAX_ROWS", "500")
	t.Setenv("QUERY_TIMEOUT", "10s")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("POLICY_FILE", "/tmp/policy.yaml")
	t.Setenv("AUDIT_LOG", "/tmp/audit.ndjson")
	t.Setenv("OTEL_ENABLED", "true")

	cfg, err := Load(Overrides{})
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost/test", cfg.DatabaseURL)
	assert.Equal(t, 25, cfg.DefaultLimit)
	assert.Equal(t, 500, cfg.MaxRows)
	assert.Equal(t, 10*time.Second, cfg.QueryTimeout)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "/tmp/policy.yaml", cfg.PolicyFile)
	assert.Equal(t, "/tmp/audit.ndjson", cfg.AuditLog)
	assert.True(t, cfg.OTelEnabled)
}

func TestLoad_OverridesBeatEnv(t *testing.T) {
	t.Setenv("DEFAULT_LIMIT", "25")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("AUDIT_LOG", "/var/log/env.ndjson")

	limit := 10
	level := "error"
	timeout := 5 * time.Second
	auditLog := "/tmp/audit.ndjson"
	cfg, err := Load(Overrides{
		DefaultLimit: &limit,
		LogLevel:     &level,
		QueryTimeout: &timeout,
		AuditLog:     &auditLog,
	})
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.DefaultLimit)
	assert.Equal(t, slog.LevelError, cfg.LogLevel)
	assert.Equal(t, 5*time.Second, cfg.QueryTimeout)
	assert.Equal(t, "/tmp/audit.ndjson", cfg.AuditLog)
}

func TestLoad_AuditLogEnv(t *testing.T) {
	t.Setenv("AUDIT_LOG", "/tmp/audit.ndjson")

	cfg, err := Load(Overrides{})
	require.NoError(t, err)
	assert.Equal(t, "/tmp/audit.ndjson", cfg.AuditLog)
}

func TestLoad_InvalidDefaultLimit(t *testing.T) {
	t.Setenv("DEFAULT_LIMIT", "-1")

	_, err := Load(Overrides{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DEFAULT_LIMIT")
}

func TestLoad_InvalidMaxRows(t *testing.T) {
	t.Setenv("MAX_ROWS", "zero")

	_, err := Load(Overrides{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAX_ROWS")
}

func TestLoad_InvalidQueryTimeout(t *testing.T) {
	t.Setenv("QUERY_TIMEOUT", "not-a-duration")

	_, err := Load(Overrides{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "QUERY_TIMEOUT")
}

func TestLoad_InvalidLogLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "loud")

	_, err := Load(Overrides{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LOG_LEVEL")
}

func TestLoad_InvalidOverrideLimit(t *testing.T) {
	limit := 0
	_, err := Load(Overrides{DefaultLimit: &limit})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--limit")
}

func TestLoad_InvalidOTelEnabled(t *testing.T) {
	t.Setenv("OTEL_ENABLED", "maybe")

	_, err := Load(Overrides{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OTEL_ENABLED")
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{" warn ", slog.LevelWarn, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := parseLogLevel(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "parseLogLevel(%q)", tt.in)
			continue
		}
		require.NoError(t, err, "parseLogLevel(%q)", tt.in)
		assert.Equal(t, tt.want, got)
	}
}

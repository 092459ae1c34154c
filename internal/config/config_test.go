package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"hierviz/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"HIERVIZ_CONFIG", "PORT", "GIN_MODE", "SHUTDOWN_TIMEOUT", "UPLOAD_MAX_BYTES", "UPLOAD_NULL_VALUES",
		"SESSION_TTL", "SESSION_SWEEP_INTERVAL", "SESSION_COOKIE", "SESSION_SECURE_COOKIE",
		"LOG_LEVEL", "LOG_FORMAT", "PPROF_PORT", "PPROF_ENABLED",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, int64(10*1024*1024), cfg.Upload.MaxBytes)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
	assert.False(t, cfg.Profiling.Enabled)
	assert.Subset(t, cfg.Upload.NullValues, []string{"NA", "null", "N/A", "NaN", "None"})
}

func TestLoadEnvCanDisableNullValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("UPLOAD_NULL_VALUES", ",")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.Upload.NullValues)
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("UPLOAD_MAX_BYTES", "2048")
	t.Setenv("UPLOAD_NULL_VALUES", "NA, null ,")
	t.Setenv("SESSION_TTL", "5m")
	t.Setenv("PPROF_ENABLED", "true")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, int64(2048), cfg.Upload.MaxBytes)
	assert.Equal(t, []string{"NA", "null"}, cfg.Upload.NullValues)
	assert.Equal(t, 5*time.Minute, cfg.Session.TTL)
	assert.True(t, cfg.Profiling.Enabled)
	assert.Equal(t, "DEBUG", cfg.Log.Level)
}

func TestLoadIgnoresUnparsableEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("UPLOAD_MAX_BYTES", "lots")
	t.Setenv("SESSION_TTL", "forever")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default().Upload.MaxBytes, cfg.Upload.MaxBytes)
	assert.Equal(t, Default().Session.TTL, cfg.Session.TTL)
}

func TestLoadFileThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "hierviz.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: "7000"
  gin_mode: debug
upload:
  max_bytes: 4096
session:
  ttl: 10m
log:
  format: text
`), 0o644))

	t.Setenv("HIERVIZ_CONFIG", path)
	t.Setenv("PORT", "7001")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "7001", cfg.Server.Port, "environment wins over the file")
	assert.Equal(t, "debug", cfg.Server.GinMode)
	assert.Equal(t, int64(4096), cfg.Upload.MaxBytes)
	assert.Equal(t, 10*time.Minute, cfg.Session.TTL)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "hierviz_session", cfg.Session.CookieName, "unset keys keep defaults")
}

func TestLoadBadFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("HIERVIZ_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := Load()
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty port", func(c *Config) { c.Server.Port = "" }},
		{"zero upload limit", func(c *Config) { c.Upload.MaxBytes = 0 }},
		{"zero ttl", func(c *Config) { c.Session.TTL = 0 }},
		{"zero sweep", func(c *Config) { c.Session.SweepInterval = 0 }},
		{"empty cookie", func(c *Config) { c.Session.CookieName = "" }},
		{"port clash", func(c *Config) { c.Profiling.Enabled = true; c.Profiling.Port = c.Server.Port }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := validateConfig(cfg)
			require.Error(t, err)
			assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
		})
	}

	assert.NoError(t, validateConfig(Default()))
}

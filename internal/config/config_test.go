package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "isolation", cfg.Scoring.Strategy)
	assert.Equal(t, 100, cfg.Scoring.NumTrees)
	assert.InDelta(t, 0.1, cfg.Scoring.Contamination, 1e-9)
	assert.False(t, cfg.Database.Enabled)
	assert.False(t, cfg.Redis.Enabled)
	assert.False(t, cfg.Kafka.Enabled)
}

func TestValidate_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad_port", func(c *Config) { c.Server.Port = 0 }},
		{"bad_log_level", func(c *Config) { c.Log.Level = "verbose" }},
		{"bad_log_format", func(c *Config) { c.Log.Format = "xml" }},
		{"bad_strategy", func(c *Config) { c.Scoring.Strategy = "magic" }},
		{"zero_trees", func(c *Config) { c.Scoring.NumTrees = -1 }},
		{"contamination_too_high", func(c *Config) { c.Scoring.Contamination = 1.5 }},
		{"db_enabled_no_host", func(c *Config) { c.Database.Enabled = true; c.Database.Host = "" }},
		{"redis_enabled_no_addr", func(c *Config) { c.Redis.Enabled = true }},
		{"kafka_enabled_no_brokers", func(c *Config) { c.Kafka.Enabled = true }},
		{"ratelimit_zero_rps", func(c *Config) { c.RateLimit.Enabled = true; c.RateLimit.RequestsPerSecond = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoad_FileWithEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  port: 9090
log:
  level: debug
scoring:
  strategy: zscore
  num_trees: 25
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	t.Setenv("MEDGUARD_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Log.Level) // env wins over file
	assert.Equal(t, "zscore", cfg.Scoring.Strategy)
	assert.Equal(t, 25, cfg.Scoring.NumTrees)
	// Untouched fields fall back to defaults.
	assert.InDelta(t, 0.1, cfg.Scoring.Contamination, 1e-9)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidConfigRejected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scoring:\n  strategy: magic\n"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestDSN(t *testing.T) {
	db := DatabaseConfig{
		Host: "localhost", Port: 5432, User: "mg", Password: "pw",
		DBName: "medguard", SSLMode: "disable",
	}
	assert.Equal(t, "postgres://mg:pw@localhost:5432/medguard?sslmode=disable", db.DSN())
}

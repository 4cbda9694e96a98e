// Package config defines all configuration structures for the MedGuard risk
// scoring service.  No I/O or parsing logic lives here, only plain data
// types and validation.
package config

import (
	"fmt"
	"time"
)

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LogConfig holds structured-logging parameters.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // "debug" | "info" | "warn" | "error"
	Format string `mapstructure:"format"` // "json" | "console"
}

// DatabaseConfig holds PostgreSQL connection parameters for the durable
// complaint archive.  The archive is optional: when Enabled is false the
// service keeps complaints in memory only.
type DatabaseConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"db_name"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxConns        int           `mapstructure:"max_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN renders the pgx connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

// RedisConfig holds Redis connection parameters for the catalog snapshot
// cache.  Optional, like the database.
type RedisConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	Addr        string        `mapstructure:"addr"`
	Password    string        `mapstructure:"password"`
	DB          int           `mapstructure:"db"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
	SnapshotTTL time.Duration `mapstructure:"snapshot_ttl"`
	KeyPrefix   string        `mapstructure:"key_prefix"`
}

// KafkaConfig holds event-producer parameters.  Optional.
type KafkaConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Brokers      []string      `mapstructure:"brokers"`
	BatchTimeout time.Duration `mapstructure:"batch_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// CatalogConfig controls reference-dataset loading.
type CatalogConfig struct {
	// Path points at a JSON catalog file.  Empty means the embedded curated
	// seed dataset is used.
	Path string `mapstructure:"path"`
}

// ScoringConfig holds the tunables of the price anomaly scorer.
type ScoringConfig struct {
	// Strategy selects the anomaly algorithm: "isolation" | "zscore" | "iqr".
	Strategy string `mapstructure:"strategy"`

	// NumTrees is the number of randomized isolation trials per score.
	NumTrees int `mapstructure:"num_trees"`

	// Contamination is the expected anomaly proportion; scores above it are
	// flagged as anomalies.
	Contamination float64 `mapstructure:"contamination"`

	// Seed pins the pseudo-random source when non-zero.  Zero means
	// time-seeded, which is the production default.
	Seed int64 `mapstructure:"seed"`
}

// RateLimitConfig holds HTTP rate limiting parameters.
type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	BurstSize         int     `mapstructure:"burst_size"`
}

// Config is the root configuration structure for the service.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Scoring   ScoringConfig   `mapstructure:"scoring"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// Validate performs semantic validation of the fully-populated Config.
// It returns the first error encountered; callers should treat any error as
// fatal and refuse to start.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	if c.Database.Enabled {
		if c.Database.Host == "" {
			return fmt.Errorf("config: database.host is required when database.enabled")
		}
		if c.Database.Port < 1 || c.Database.Port > 65535 {
			return fmt.Errorf("config: database.port %d is out of range [1, 65535]", c.Database.Port)
		}
		if c.Database.User == "" {
			return fmt.Errorf("config: database.user is required when database.enabled")
		}
		if c.Database.DBName == "" {
			return fmt.Errorf("config: database.db_name is required when database.enabled")
		}
	}

	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("config: redis.addr is required when redis.enabled")
	}

	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("config: kafka.brokers must contain at least one broker when kafka.enabled")
	}

	switch c.Scoring.Strategy {
	case "isolation", "zscore", "iqr":
	default:
		return fmt.Errorf("config: scoring.strategy %q is invalid; expected isolation|zscore|iqr", c.Scoring.Strategy)
	}
	if c.Scoring.NumTrees < 1 {
		return fmt.Errorf("config: scoring.num_trees must be ≥ 1, got %d", c.Scoring.NumTrees)
	}
	if c.Scoring.Contamination <= 0 || c.Scoring.Contamination >= 1 {
		return fmt.Errorf("config: scoring.contamination %.3f must be in (0, 1)", c.Scoring.Contamination)
	}

	if c.RateLimit.Enabled {
		if c.RateLimit.RequestsPerSecond <= 0 {
			return fmt.Errorf("config: rate_limit.requests_per_second must be > 0")
		}
		if c.RateLimit.BurstSize < 1 {
			return fmt.Errorf("config: rate_limit.burst_size must be ≥ 1")
		}
	}

	return nil
}

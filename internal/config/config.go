// Package config defines the server configuration and how it is loaded.
package config

import (
	"time"
)

// Storage backends accepted by storage_type
const (
	StorageMemory   = "memory"
	StorageRedis    = "redis"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
)

// Config contains process configuration for cmd/server.
type Config struct {
	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// StorageType selects the entry store: memory, redis, sqlite or postgres.
	StorageType string `koanf:"storage_type"`
	RedisURL    string `koanf:"redis_url"`
	SQLitePath  string `koanf:"sqlite_path"`
	PostgresURL string `koanf:"postgres_url"`

	// JWTSecret signs session tokens. Empty means a random per-process secret.
	JWTSecret       string        `koanf:"jwt_secret"`
	JWTIssuer       string        `koanf:"jwt_issuer"`
	SessionDuration time.Duration `koanf:"session_duration"`

	// AdminEmails are given the admin role when they register.
	AdminEmails []string `koanf:"admin_emails"`

	TBABaseURL  string        `koanf:"tba_base_url"`
	TBAAuthKey  string        `koanf:"tba_auth_key"`
	TBACacheTTL time.Duration `koanf:"tba_cache_ttl"`
	TBATimeout  time.Duration `koanf:"tba_timeout"`

	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// New returns a Config holding the defaults.
func New() *Config {
	return &Config{
		Addr:            ":8080",
		LogLevel:        "info",
		StorageType:     StorageMemory,
		RedisURL:        "redis://localhost:6379/0",
		SQLitePath:      "scout.db",
		JWTIssuer:       "scout",
		SessionDuration: 24 * time.Hour,
		TBABaseURL:      "https://www.thebluealliance.com/api/v3",
		TBACacheTTL:     30 * time.Minute,
		TBATimeout:      5 * time.Second,
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    30 * time.Second,
		ShutdownTimeout: 30 * time.Second,
	}
}

// Package config loads process configuration from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// StoreBackend selects where sessions, characters and usage counters live
type StoreBackend string

const (
	StoreMemory   StoreBackend = "memory"
	StoreRedis    StoreBackend = "redis"
	StorePostgres StoreBackend = "postgres"
)

// Config holds all configuration for the application
type Config struct {
	Discord    DiscordConfig
	Store      StoreConfig
	Redis      RedisConfig
	Postgres   PostgresConfig
	Completion CompletionConfig
	Quota      QuotaConfig
	Metrics    MetricsConfig
	Log        LogConfig
}

// DiscordConfig holds Discord-specific configuration
type DiscordConfig struct {
	Token   string `env:"DISCORD_TOKEN"`
	AppID   string `env:"DISCORD_APP_ID"`
	GuildID string `env:"DISCORD_GUILD_ID"` // Optional: for guild-specific commands

	// Per-user interaction throttle
	RateLimitPerSecond float64 `env:"DISCORD_RATE_LIMIT_PER_SECOND" envDefault:"1"`
	RateLimitBurst     int     `env:"DISCORD_RATE_LIMIT_BURST" envDefault:"5"`
}

// StoreConfig picks the persistence backend
type StoreConfig struct {
	Backend StoreBackend `env:"STORE_BACKEND" envDefault:"redis"`
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	URL string `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
}

// PostgresConfig holds the relational store connection
type PostgresConfig struct {
	DSN      string `env:"DATABASE_URL"`
	MaxConns int32  `env:"DATABASE_MAX_CONNS" envDefault:"10"`
}

// CompletionConfig configures the language-completion service
type CompletionConfig struct {
	APIKey  string        `env:"GEMINI_API_KEY"`
	Model   string        `env:"COMPLETION_MODEL" envDefault:"gemini-2.5-flash"`
	Timeout time.Duration `env:"COMPLETION_TIMEOUT" envDefault:"30s"`

	// Thinking tokens share the output budget; 0 disables thinking
	ThinkingBudget int32 `env:"COMPLETION_THINKING_BUDGET" envDefault:"0"`
}

// QuotaConfig configures the per-user daily completion limit
type QuotaConfig struct {
	DailyLimit int    `env:"QUOTA_DAILY_LIMIT" envDefault:"200"`
	Timezone   string `env:"QUOTA_TIMEZONE"` // IANA name, empty means server local time
	Strict     bool   `env:"QUOTA_STRICT" envDefault:"false"`
}

// MetricsConfig configures the Prometheus endpoint
type MetricsConfig struct {
	Addr string `env:"METRICS_ADDR" envDefault:":9090"` // empty disables the endpoint
}

// LogConfig configures the zap logger
type LogConfig struct {
	Level       string `env:"LOG_LEVEL" envDefault:"info"`
	Development bool   `env:"LOG_DEVELOPMENT" envDefault:"false"`
}

// Load parses configuration from environment variables and validates the
// parts every binary needs.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.Store.Backend = StoreBackend(strings.ToLower(string(cfg.Store.Backend)))
	switch cfg.Store.Backend {
	case StoreMemory, StoreRedis:
	case StorePostgres:
		if cfg.Postgres.DSN == "" {
			return nil, fmt.Errorf("DATABASE_URL is required when STORE_BACKEND=postgres")
		}
	default:
		return nil, fmt.Errorf("unsupported STORE_BACKEND %q", cfg.Store.Backend)
	}

	if cfg.Quota.DailyLimit <= 0 {
		return nil, fmt.Errorf("QUOTA_DAILY_LIMIT must be positive, got %d", cfg.Quota.DailyLimit)
	}
	if _, err := cfg.Quota.Location(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ValidateBot checks the settings only the Discord bot needs
func (c *Config) ValidateBot() error {
	if c.Discord.Token == "" {
		return fmt.Errorf("DISCORD_TOKEN is required")
	}
	if c.Discord.AppID == "" {
		return fmt.Errorf("DISCORD_APP_ID is required")
	}
	if c.Completion.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required")
	}
	return nil
}

// Location resolves the quota calendar timezone
func (q QuotaConfig) Location() (*time.Location, error) {
	if q.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(q.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid QUOTA_TIMEZONE %q: %w", q.Timezone, err)
	}
	return loc, nil
}

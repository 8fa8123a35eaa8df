// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath     string `env:"NEWSDESK_DB_PATH" envDefault:"./data/newsdesk.db"`
	ServerHost string `env:"NEWSDESK_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"NEWSDESK_SERVER_PORT" envDefault:"8080"`
	Env        string `env:"NEWSDESK_ENV" envDefault:"development"`
	LogLevel   string `env:"NEWSDESK_LOG_LEVEL" envDefault:"info"`
	UploadsDir string `env:"NEWSDESK_UPLOADS_DIR" envDefault:"./uploads"`
	BaseURL    string `env:"NEWSDESK_BASE_URL" envDefault:"http://localhost:8080"`

	// Cache configuration
	RedisURL    string `env:"NEWSDESK_REDIS_URL"`                       // Optional Redis URL for distributed caching
	CachePrefix string `env:"NEWSDESK_CACHE_PREFIX" envDefault:"nd:"`   // Redis key prefix
	CacheTTL    int    `env:"NEWSDESK_CACHE_TTL" envDefault:"3600"`     // Default cache TTL in seconds

	// Token configuration
	TokenTTL int `env:"NEWSDESK_TOKEN_TTL" envDefault:"86400"` // API token lifetime in seconds

	// Request handling
	RequestTimeout int `env:"NEWSDESK_REQUEST_TIMEOUT" envDefault:"30"` // Per-request timeout in seconds
	RateLimitRPS   int `env:"NEWSDESK_RATE_LIMIT_RPS" envDefault:"20"`  // Global per-IP requests per second
	RateLimitBurst int `env:"NEWSDESK_RATE_LIMIT_BURST" envDefault:"40"`

	// Seeding configuration
	DoSeed bool `env:"NEWSDESK_DO_SEED" envDefault:"false"` // Enable database seeding
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.ServerPort < 1 || cfg.ServerPort > 65535 {
		return nil, fmt.Errorf("NEWSDESK_SERVER_PORT must be between 1 and 65535, got %d", cfg.ServerPort)
	}
	if cfg.TokenTTL <= 0 {
		return nil, fmt.Errorf("NEWSDESK_TOKEN_TTL must be positive, got %d", cfg.TokenTTL)
	}

	return cfg, nil
}

// SparkyRoll - Anime Tracking and Watch History API
// Copyright 2026 SparkyRoll Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sparkyroll/sparkyroll

// Package config loads and validates SparkyRoll configuration.
//
// Configuration is layered: compiled-in defaults, then an optional YAML
// file, then environment variables (SPARKYROLL_ prefix, with a few bare
// aliases like JWT_SECRET and DATABASE_PATH for container deployments).
// Later layers override earlier ones.
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration for the server.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Security SecurityConfig `koanf:"security"`
	API      APIConfig      `koanf:"api"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// Addr returns the host:port listen address.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DatabaseConfig holds DuckDB settings.
// An empty Path opens an in-memory database (used by tests).
type DatabaseConfig struct {
	Path        string `koanf:"path"`
	MaxMemory   string `koanf:"max_memory"`
	Threads     int    `koanf:"threads"`
	SeedCatalog bool   `koanf:"seed_catalog"`
}

// SecurityConfig holds authentication and rate-limit settings.
//
// JWTSecret signs access tokens; it is injected here once at startup and
// treated as immutable afterwards. It must never be logged.
type SecurityConfig struct {
	JWTSecret string `koanf:"jwt_secret"`

	// TokenTTL is the access token lifetime. Default: 30m.
	TokenTTL time.Duration `koanf:"token_ttl"`

	// BcryptCost is the bcrypt work factor. Default: 12.
	BcryptCost int `koanf:"bcrypt_cost"`

	RateLimitEnabled bool `koanf:"rate_limit_enabled"`

	// RateLimitRPM caps requests per minute per client IP across the API.
	RateLimitRPM int `koanf:"rate_limit_rpm"`

	// RateLimitLoginAttempts caps login attempts per client IP within
	// RateLimitLoginWindow.
	RateLimitLoginAttempts int           `koanf:"rate_limit_login_attempts"`
	RateLimitLoginWindow   time.Duration `koanf:"rate_limit_login_window"`

	CORSOrigins []string `koanf:"cors_origins"`
}

// APIConfig holds pagination bounds for list endpoints.
type APIConfig struct {
	DefaultPageSize int `koanf:"default_page_size"`
	MaxPageSize     int `koanf:"max_page_size"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// defaultConfig returns the compiled-in defaults. Every field a later
// layer may override must have a sane value here.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8000,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Path:        "data/sparkyroll.db",
			MaxMemory:   "512MB",
			Threads:     2,
			SeedCatalog: true,
		},
		Security: SecurityConfig{
			TokenTTL:               30 * time.Minute,
			BcryptCost:             12,
			RateLimitEnabled:       true,
			RateLimitRPM:           120,
			RateLimitLoginAttempts: 5,
			RateLimitLoginWindow:   5 * time.Minute,
			CORSOrigins:            []string{"*"},
		},
		API: APIConfig{
			DefaultPageSize: 10,
			MaxPageSize:     100,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// minJWTSecretLength is the minimum accepted HMAC key length in bytes.
const minJWTSecretLength = 32

// Validate checks the loaded configuration for values the server cannot
// run with. Called after all layers are merged.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Security.JWTSecret == "" {
		return fmt.Errorf("security.jwt_secret is required (set JWT_SECRET)")
	}
	if len(c.Security.JWTSecret) < minJWTSecretLength {
		return fmt.Errorf("security.jwt_secret must be at least %d characters", minJWTSecretLength)
	}
	if c.Security.TokenTTL <= 0 {
		return fmt.Errorf("security.token_ttl must be positive: %s", c.Security.TokenTTL)
	}
	if c.Security.BcryptCost < 4 || c.Security.BcryptCost > 31 {
		return fmt.Errorf("security.bcrypt_cost out of range: %d", c.Security.BcryptCost)
	}
	if c.API.DefaultPageSize < 1 || c.API.DefaultPageSize > c.API.MaxPageSize {
		return fmt.Errorf("api.default_page_size out of range: %d", c.API.DefaultPageSize)
	}
	if c.API.MaxPageSize < 1 {
		return fmt.Errorf("api.max_page_size must be positive: %d", c.API.MaxPageSize)
	}
	return nil
}

// SparkyRoll - Anime Tracking and Watch History API
// Copyright 2026 SparkyRoll Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sparkyroll/sparkyroll

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// envPrefix is the prefix for namespaced environment variables,
// e.g. SPARKYROLL_SERVER_PORT=8000.
const envPrefix = "SPARKYROLL_"

// envAliases maps bare environment variables to config keys. These exist
// for container deployments where SPARKYROLL_SECURITY_JWT_SECRET is
// unwieldy.
var envAliases = map[string]string{
	"JWT_SECRET":    "security.jwt_secret",
	"DATABASE_PATH": "database.path",
	"PORT":          "server.port",
	"LOG_LEVEL":     "logging.level",
	"LOG_FORMAT":    "logging.format",
}

// envKeyMap maps namespaced env suffixes whose config keys contain
// underscores and therefore cannot be derived mechanically.
var envKeyMap = map[string]string{
	"SERVER_READ_TIMEOUT":                "server.read_timeout",
	"SERVER_WRITE_TIMEOUT":               "server.write_timeout",
	"SERVER_IDLE_TIMEOUT":                "server.idle_timeout",
	"SERVER_SHUTDOWN_TIMEOUT":            "server.shutdown_timeout",
	"DATABASE_MAX_MEMORY":                "database.max_memory",
	"DATABASE_SEED_CATALOG":              "database.seed_catalog",
	"SECURITY_JWT_SECRET":                "security.jwt_secret",
	"SECURITY_TOKEN_TTL":                 "security.token_ttl",
	"SECURITY_BCRYPT_COST":               "security.bcrypt_cost",
	"SECURITY_RATE_LIMIT_ENABLED":        "security.rate_limit_enabled",
	"SECURITY_RATE_LIMIT_RPM":            "security.rate_limit_rpm",
	"SECURITY_RATE_LIMIT_LOGIN_ATTEMPTS": "security.rate_limit_login_attempts",
	"SECURITY_RATE_LIMIT_LOGIN_WINDOW":   "security.rate_limit_login_window",
	"SECURITY_CORS_ORIGINS":              "security.cors_origins",
	"API_DEFAULT_PAGE_SIZE":              "api.default_page_size",
	"API_MAX_PAGE_SIZE":                  "api.max_page_size",
}

// envTransformFunc converts an environment variable name to a koanf key.
// SPARKYROLL_SERVER_PORT -> server.port. Keys with underscores inside a
// segment are resolved via envKeyMap. Returns "" to skip the variable.
func envTransformFunc(key string) string {
	suffix := strings.TrimPrefix(key, envPrefix)
	if mapped, ok := envKeyMap[suffix]; ok {
		return mapped
	}
	lower := strings.ToLower(suffix)
	// First underscore separates section from field.
	if idx := strings.Index(lower, "_"); idx > 0 {
		return lower[:idx] + "." + lower[idx+1:]
	}
	return ""
}

// Load builds the configuration from defaults, an optional YAML file, and
// environment variables, then validates the merged result.
//
// path may be empty; a missing file is not an error (defaults + env apply).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults.
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load default config: %w", err)
	}

	// Layer 2: YAML file, if present.
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
			}
		}
	}

	// Layer 3: namespaced environment variables.
	if err := k.Load(env.Provider(envPrefix, ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment config: %w", err)
	}

	// Layer 4: bare aliases (highest precedence).
	for name, key := range envAliases {
		if v, ok := os.LookupEnv(name); ok && v != "" {
			if err := k.Set(key, v); err != nil {
				return nil, fmt.Errorf("failed to apply %s: %w", name, err)
			}
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

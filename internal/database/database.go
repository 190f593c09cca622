// SparkyRoll - Anime Tracking and Watch History API
// Copyright 2026 SparkyRoll Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sparkyroll/sparkyroll

// Package database implements the DuckDB-backed storage layer.
//
// All access goes through the DB wrapper. Methods take a context, use `?`
// placeholders, and wrap failures with operation context. Lookups that
// find nothing return (nil, nil); mutations that affect zero rows return
// an error wrapping ErrNotFound so callers can map it to a 404/400.
//
// Uniqueness of (user_id, anime_id) in favorites and history is enforced
// by the schema itself, not just by handler pre-checks.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/duckdb/duckdb-go/v2" // duckdb database/sql driver

	"github.com/sparkyroll/sparkyroll/internal/config"
	"github.com/sparkyroll/sparkyroll/internal/logging"
)

// ErrNotFound indicates a mutation matched no rows.
var ErrNotFound = errors.New("not found")

// DB wraps the DuckDB connection and owns schema setup.
type DB struct {
	conn *sql.DB
	cfg  *config.DatabaseConfig
}

// New opens (or creates) the database, applies the schema, and seeds the
// anime catalog when enabled and empty. An empty cfg.Path opens an
// in-memory database.
func New(cfg *config.DatabaseConfig) (*DB, error) {
	dsn := ""
	if cfg.Path != "" && cfg.Path != ":memory:" {
		if dir := filepath.Dir(cfg.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		dsn = fmt.Sprintf("%s?access_mode=read_write&threads=%d&max_memory=%s",
			cfg.Path, cfg.Threads, cfg.MaxMemory)
	}

	conn, err := sql.Open("duckdb", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db := &DB{conn: conn, cfg: cfg}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if err := db.createSchema(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	if cfg.SeedCatalog {
		if err := db.seedCatalog(ctx); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("failed to seed catalog: %w", err)
		}
	}

	logging.Info().Str("path", cfg.Path).Msg("Database initialized")
	return db, nil
}

// Ping verifies the connection is alive.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ensureContext(ctx))
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	if err := db.conn.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

// ensureContext guards against nil contexts from careless callers.
func ensureContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

// checkRowsAffected returns an error wrapping ErrNotFound when the
// mutation matched no rows.
func checkRowsAffected(result sql.Result, action string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected for %s: %w", action, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", action, ErrNotFound)
	}
	return nil
}

// schemaStatements is applied in order at startup. DuckDB has no
// AUTO_INCREMENT; ids come from sequences.
var schemaStatements = []string{
	`CREATE SEQUENCE IF NOT EXISTS seq_user_id START 1`,
	`CREATE SEQUENCE IF NOT EXISTS seq_anime_id START 1`,
	`CREATE SEQUENCE IF NOT EXISTS seq_history_id START 1`,
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT PRIMARY KEY DEFAULT nextval('seq_user_id'),
		email VARCHAR NOT NULL UNIQUE,
		password_hash VARCHAR NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT current_timestamp
	)`,
	`CREATE TABLE IF NOT EXISTS animes (
		id BIGINT PRIMARY KEY DEFAULT nextval('seq_anime_id'),
		title VARCHAR NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS user_favorites (
		user_id BIGINT NOT NULL,
		anime_id BIGINT NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT current_timestamp,
		PRIMARY KEY (user_id, anime_id)
	)`,
	`CREATE TABLE IF NOT EXISTS user_history (
		id BIGINT PRIMARY KEY DEFAULT nextval('seq_history_id'),
		user_id BIGINT NOT NULL,
		anime_id BIGINT NOT NULL,
		status VARCHAR NOT NULL,
		updated_at TIMESTAMP NOT NULL DEFAULT current_timestamp,
		UNIQUE (user_id, anime_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_favorites_user ON user_favorites(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_history_user ON user_history(user_id)`,
}

func (db *DB) createSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute schema statement: %w", err)
		}
	}
	return nil
}

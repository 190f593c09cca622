// SparkyRoll - Anime Tracking and Watch History API
// Copyright 2026 SparkyRoll Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sparkyroll/sparkyroll

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sparkyroll/sparkyroll/internal/metrics"
	"github.com/sparkyroll/sparkyroll/internal/models"
)

// CreateUser inserts a new user and returns the stored row.
// The caller is expected to have checked for a duplicate email first; a
// race on the UNIQUE constraint still surfaces here as an error.
func (db *DB) CreateUser(ctx context.Context, email, passwordHash string) (*models.User, error) {
	ctx = ensureContext(ctx)
	defer metrics.RecordDBQuery("insert", "users", time.Now())

	row := db.conn.QueryRowContext(ctx,
		`INSERT INTO users (email, password_hash) VALUES (?, ?)
		 RETURNING id, email, password_hash, created_at`,
		email, passwordHash)

	user, err := scanUserRow(row)
	if err != nil {
		metrics.RecordDBError("insert", "users")
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// GetUserByEmail returns the user with the given email, or (nil, nil)
// when no such user exists.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx = ensureContext(ctx)
	defer metrics.RecordDBQuery("select", "users", time.Now())

	row := db.conn.QueryRowContext(ctx,
		`SELECT id, email, password_hash, created_at FROM users WHERE email = ?`,
		email)

	user, err := scanUserRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		metrics.RecordDBError("select", "users")
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

// scanUserRow scans a single user row.
func scanUserRow(row *sql.Row) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

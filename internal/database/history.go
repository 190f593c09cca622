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

// GetHistoryEntry returns the user's history entry for the anime, or
// (nil, nil) when none exists. Test support; handlers read history only
// through ListHistory.
func (db *DB) GetHistoryEntry(ctx context.Context, userID, animeID int64) (*models.HistoryEntry, error) {
	ctx = ensureContext(ctx)
	defer metrics.RecordDBQuery("select", "user_history", time.Now())

	var e models.HistoryEntry
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, user_id, anime_id, status, updated_at
		 FROM user_history WHERE user_id = ? AND anime_id = ?`,
		userID, animeID).
		Scan(&e.ID, &e.UserID, &e.AnimeID, &e.Status, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		metrics.RecordDBError("select", "user_history")
		return nil, fmt.Errorf("failed to get history entry: %w", err)
	}
	return &e, nil
}

// UpsertHistory creates the user's history entry for the anime or, when
// one already exists, overwrites its status. The UNIQUE (user_id,
// anime_id) constraint guarantees at most one entry per pair.
func (db *DB) UpsertHistory(ctx context.Context, userID, animeID int64, status string) error {
	ctx = ensureContext(ctx)
	defer metrics.RecordDBQuery("upsert", "user_history", time.Now())

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO user_history (user_id, anime_id, status)
		 VALUES (?, ?, ?)
		 ON CONFLICT (user_id, anime_id)
		 DO UPDATE SET status = excluded.status, updated_at = current_timestamp`,
		userID, animeID, status)
	if err != nil {
		metrics.RecordDBError("upsert", "user_history")
		return fmt.Errorf("failed to upsert history entry: %w", err)
	}
	return nil
}

// RemoveHistory deletes the user's history entry for the anime. Returns
// an error wrapping ErrNotFound when no entry exists. Anime existence is
// deliberately not checked here or by the caller: a stale entry for a
// removed catalog row must still be deletable.
func (db *DB) RemoveHistory(ctx context.Context, userID, animeID int64) error {
	ctx = ensureContext(ctx)
	defer metrics.RecordDBQuery("delete", "user_history", time.Now())

	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM user_history WHERE user_id = ? AND anime_id = ?`,
		userID, animeID)
	if err != nil {
		metrics.RecordDBError("delete", "user_history")
		return fmt.Errorf("failed to remove history entry: %w", err)
	}
	return checkRowsAffected(result, "remove history entry")
}

// ListHistory returns one page of the user's history joined with catalog
// titles, ordered by anime id ascending.
func (db *DB) ListHistory(ctx context.Context, userID int64, limit, offset int) ([]models.HistoryItem, error) {
	ctx = ensureContext(ctx)
	defer metrics.RecordDBQuery("select", "user_history", time.Now())

	rows, err := db.conn.QueryContext(ctx,
		`SELECT a.id, a.title, h.status
		 FROM user_history h
		 JOIN animes a ON a.id = h.anime_id
		 WHERE h.user_id = ?
		 ORDER BY a.id ASC
		 LIMIT ? OFFSET ?`,
		userID, limit, offset)
	if err != nil {
		metrics.RecordDBError("select", "user_history")
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	items := make([]models.HistoryItem, 0)
	for rows.Next() {
		var it models.HistoryItem
		if err := rows.Scan(&it.AnimeID, &it.Title, &it.Status); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate history rows: %w", err)
	}
	return items, nil
}

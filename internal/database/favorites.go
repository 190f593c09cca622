// SparkyRoll - Anime Tracking and Watch History API
// Copyright 2026 SparkyRoll Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sparkyroll/sparkyroll

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/sparkyroll/sparkyroll/internal/metrics"
	"github.com/sparkyroll/sparkyroll/internal/models"
)

// HasFavorite reports whether the user already favorited the anime.
func (db *DB) HasFavorite(ctx context.Context, userID, animeID int64) (bool, error) {
	ctx = ensureContext(ctx)
	defer metrics.RecordDBQuery("select", "user_favorites", time.Now())

	var count int
	err := db.conn.QueryRowContext(ctx,
		`SELECT count(*) FROM user_favorites WHERE user_id = ? AND anime_id = ?`,
		userID, animeID).Scan(&count)
	if err != nil {
		metrics.RecordDBError("select", "user_favorites")
		return false, fmt.Errorf("failed to check favorite: %w", err)
	}
	return count > 0, nil
}

// AddFavorite inserts a favorite row. The composite primary key backstops
// the handler's pre-check under concurrent adds.
func (db *DB) AddFavorite(ctx context.Context, userID, animeID int64) error {
	ctx = ensureContext(ctx)
	defer metrics.RecordDBQuery("insert", "user_favorites", time.Now())

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO user_favorites (user_id, anime_id) VALUES (?, ?)`,
		userID, animeID)
	if err != nil {
		metrics.RecordDBError("insert", "user_favorites")
		return fmt.Errorf("failed to add favorite: %w", err)
	}
	return nil
}

// RemoveFavorite deletes a favorite row. Returns an error wrapping
// ErrNotFound when the user had not favorited the anime.
func (db *DB) RemoveFavorite(ctx context.Context, userID, animeID int64) error {
	ctx = ensureContext(ctx)
	defer metrics.RecordDBQuery("delete", "user_favorites", time.Now())

	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM user_favorites WHERE user_id = ? AND anime_id = ?`,
		userID, animeID)
	if err != nil {
		metrics.RecordDBError("delete", "user_favorites")
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	return checkRowsAffected(result, "remove favorite")
}

// ListFavorites returns one page of the user's favorites joined with
// catalog titles, ordered by anime id ascending.
func (db *DB) ListFavorites(ctx context.Context, userID int64, limit, offset int) ([]models.FavoriteItem, error) {
	ctx = ensureContext(ctx)
	defer metrics.RecordDBQuery("select", "user_favorites", time.Now())

	rows, err := db.conn.QueryContext(ctx,
		`SELECT a.id, a.title
		 FROM user_favorites f
		 JOIN animes a ON a.id = f.anime_id
		 WHERE f.user_id = ?
		 ORDER BY a.id ASC
		 LIMIT ? OFFSET ?`,
		userID, limit, offset)
	if err != nil {
		metrics.RecordDBError("select", "user_favorites")
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	defer func() { _ = rows.Close() }()

	items := make([]models.FavoriteItem, 0)
	for rows.Next() {
		var it models.FavoriteItem
		if err := rows.Scan(&it.AnimeID, &it.Title); err != nil {
			return nil, fmt.Errorf("failed to scan favorite row: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate favorite rows: %w", err)
	}
	return items, nil
}

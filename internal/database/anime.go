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

	"github.com/sparkyroll/sparkyroll/internal/logging"
	"github.com/sparkyroll/sparkyroll/internal/metrics"
	"github.com/sparkyroll/sparkyroll/internal/models"
)

// GetAnimeByID returns the catalog entry with the given id, or (nil, nil)
// when no such anime exists.
func (db *DB) GetAnimeByID(ctx context.Context, id int64) (*models.Anime, error) {
	ctx = ensureContext(ctx)
	defer metrics.RecordDBQuery("select", "animes", time.Now())

	var a models.Anime
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, title FROM animes WHERE id = ?`, id).Scan(&a.ID, &a.Title)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		metrics.RecordDBError("select", "animes")
		return nil, fmt.Errorf("failed to get anime by id: %w", err)
	}
	return &a, nil
}

// ListAnime returns one page of the catalog, ordered by id ascending.
// Pages beyond the end of the catalog return an empty slice.
func (db *DB) ListAnime(ctx context.Context, limit, offset int) ([]models.Anime, error) {
	ctx = ensureContext(ctx)
	defer metrics.RecordDBQuery("select", "animes", time.Now())

	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, title FROM animes ORDER BY id ASC LIMIT ? OFFSET ?`,
		limit, offset)
	if err != nil {
		metrics.RecordDBError("select", "animes")
		return nil, fmt.Errorf("failed to list anime: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanAnimeRows(rows)
}

// scanAnimeRows collects (id, title) rows, normalizing nil to an empty
// slice so JSON encodes [] instead of null.
func scanAnimeRows(rows *sql.Rows) ([]models.Anime, error) {
	animes := make([]models.Anime, 0)
	for rows.Next() {
		var a models.Anime
		if err := rows.Scan(&a.ID, &a.Title); err != nil {
			return nil, fmt.Errorf("failed to scan anime row: %w", err)
		}
		animes = append(animes, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate anime rows: %w", err)
	}
	return animes, nil
}

// defaultCatalog seeds the animes table on first start. The catalog is
// read-only at runtime, so ids are stable from the moment of seeding.
var defaultCatalog = []string{
	"Fullmetal Alchemist: Brotherhood",
	"Steins;Gate",
	"Hunter x Hunter",
	"Attack on Titan",
	"Death Note",
	"One Piece",
	"Cowboy Bebop",
	"Neon Genesis Evangelion",
	"Code Geass",
	"Mob Psycho 100",
	"Vinland Saga",
	"Made in Abyss",
	"Monster",
	"Haikyuu!!",
	"Jujutsu Kaisen",
	"Demon Slayer",
	"Spy x Family",
	"Frieren: Beyond Journey's End",
	"Gintama",
	"Your Lie in April",
}

// seedCatalog inserts the default catalog when the table is empty.
func (db *DB) seedCatalog(ctx context.Context) error {
	var count int
	if err := db.conn.QueryRowContext(ctx, `SELECT count(*) FROM animes`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count animes: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, title := range defaultCatalog {
		if _, err := db.conn.ExecContext(ctx,
			`INSERT INTO animes (title) VALUES (?)`, title); err != nil {
			return fmt.Errorf("failed to seed anime %q: %w", title, err)
		}
	}
	logging.Info().Int("count", len(defaultCatalog)).Msg("Seeded anime catalog")
	return nil
}

// InsertAnime adds a catalog entry directly. Test support only; runtime
// seeding goes through seedCatalog and there is no catalog mutation API.
func (db *DB) InsertAnime(ctx context.Context, title string) (*models.Anime, error) {
	ctx = ensureContext(ctx)
	defer metrics.RecordDBQuery("insert", "animes", time.Now())

	var a models.Anime
	err := db.conn.QueryRowContext(ctx,
		`INSERT INTO animes (title) VALUES (?) RETURNING id, title`, title).
		Scan(&a.ID, &a.Title)
	if err != nil {
		metrics.RecordDBError("insert", "animes")
		return nil, fmt.Errorf("failed to insert anime: %w", err)
	}
	return &a, nil
}

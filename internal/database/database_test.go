// SparkyRoll - Anime Tracking and Watch History API
// Copyright 2026 SparkyRoll Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sparkyroll/sparkyroll

package database

import (
	"context"
	"testing"

	"github.com/sparkyroll/sparkyroll/internal/config"
)

// newTestDB opens an in-memory database with an empty catalog.
func newTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(&config.DatabaseConfig{
		Path:        "",
		SeedCatalog: false,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// seedAnime inserts n titles and returns their ids in insertion order.
func seedAnime(t *testing.T, db *DB, titles ...string) []int64 {
	t.Helper()

	ids := make([]int64, 0, len(titles))
	for _, title := range titles {
		a, err := db.InsertAnime(context.Background(), title)
		if err != nil {
			t.Fatalf("InsertAnime(%q) error = %v", title, err)
		}
		ids = append(ids, a.ID)
	}
	return ids
}

func TestNew_InMemory(t *testing.T) {
	db := newTestDB(t)
	if err := db.Ping(context.Background()); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
}

func TestNew_SeedsCatalogOnce(t *testing.T) {
	db, err := New(&config.DatabaseConfig{Path: "", SeedCatalog: true})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	animes, err := db.ListAnime(context.Background(), 100, 0)
	if err != nil {
		t.Fatalf("ListAnime() error = %v", err)
	}
	if len(animes) != len(defaultCatalog) {
		t.Errorf("seeded %d animes, want %d", len(animes), len(defaultCatalog))
	}

	// Seeding is idempotent on a non-empty table.
	if err := db.seedCatalog(context.Background()); err != nil {
		t.Fatalf("seedCatalog() error = %v", err)
	}
	animes, err = db.ListAnime(context.Background(), 100, 0)
	if err != nil {
		t.Fatalf("ListAnime() error = %v", err)
	}
	if len(animes) != len(defaultCatalog) {
		t.Errorf("catalog grew to %d after re-seed, want %d", len(animes), len(defaultCatalog))
	}
}

// SparkyRoll - Anime Tracking and Watch History API
// Copyright 2026 SparkyRoll Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sparkyroll/sparkyroll

// Package models defines the core domain types and API response shapes.
package models

import "time"

// User is a registered account. PasswordHash is a bcrypt hash; plaintext
// passwords are never stored and never leave the auth package.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Anime is a catalog entry. The catalog is read-only at runtime; rows are
// seeded at startup.
type Anime struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// Watch status labels. These are the only accepted values for history
// entries.
const (
	StatusWatching = "watching"
	StatusWatched  = "watched"
)

// IsValidStatus reports whether s is an accepted watch status.
func IsValidStatus(s string) bool {
	return s == StatusWatching || s == StatusWatched
}

// HistoryEntry is a user's watch state for one anime. At most one entry
// exists per (user, anime); upserts overwrite Status.
type HistoryEntry struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	AnimeID   int64     `json:"anime_id"`
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FavoriteItem is a favorites listing row joined with the catalog title.
// The wire key is anime_id, unlike the catalog's own id.
type FavoriteItem struct {
	AnimeID int64  `json:"anime_id"`
	Title   string `json:"title"`
}

// HistoryItem is a history listing row joined with the catalog title.
// Keyed by anime_id like FavoriteItem.
type HistoryItem struct {
	AnimeID int64  `json:"anime_id"`
	Title   string `json:"title"`
	Status  string `json:"status"`
}

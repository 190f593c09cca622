// SparkyRoll - Anime Tracking and Watch History API
// Copyright 2026 SparkyRoll Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sparkyroll/sparkyroll

package api

import (
	"net/http"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/sparkyroll/sparkyroll/internal/models"
)

func TestFavorites_Flow(t *testing.T) {
	env := newTestEnv(t)
	ids := env.seedAnime(t, "Monster", "Gintama")
	token := env.registerAndLogin(t, "fan@example.com", "secret-password")

	// Add.
	rec := env.do(t, http.MethodPost, "/api/user/favorites", token,
		map[string]int64{"anime_id": ids[0]})
	if rec.Code != http.StatusOK {
		t.Fatalf("add status = %d, body = %s", rec.Code, rec.Body.String())
	}

	// Add again -> 400 conflict.
	rec = env.do(t, http.MethodPost, "/api/user/favorites", token,
		map[string]int64{"anime_id": ids[0]})
	wantError(t, rec, http.StatusBadRequest, models.ErrCodeAlreadyFavorited)

	// List rows carry the anime_id key, not the catalog's id.
	rec = env.do(t, http.MethodGet, "/api/user/favorites", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var rawRows []map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &rawRows); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(rawRows) != 1 {
		t.Fatalf("got %d favorites, want 1", len(rawRows))
	}
	if _, ok := rawRows[0]["anime_id"]; !ok {
		t.Errorf("favorites row = %v, want key anime_id", rawRows[0])
	}
	if _, ok := rawRows[0]["id"]; ok {
		t.Errorf("favorites row = %v, must not carry key id", rawRows[0])
	}
	var favorites []models.FavoriteItem
	if err := json.Unmarshal(rec.Body.Bytes(), &favorites); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if favorites[0].AnimeID != ids[0] || favorites[0].Title != "Monster" {
		t.Errorf("favorites = %+v, want [{%d Monster}]", favorites, ids[0])
	}

	// Remove.
	rec = env.do(t, http.MethodDelete, "/api/user/favorites", token,
		map[string]int64{"anime_id": ids[0]})
	if rec.Code != http.StatusOK {
		t.Fatalf("remove status = %d, body = %s", rec.Code, rec.Body.String())
	}

	// Remove again -> 400, the anime exists but is not favorited.
	rec = env.do(t, http.MethodDelete, "/api/user/favorites", token,
		map[string]int64{"anime_id": ids[0]})
	wantError(t, rec, http.StatusBadRequest, models.ErrCodeNotFavorited)
}

func TestFavorites_AnimeNotFound(t *testing.T) {
	env := newTestEnv(t)
	env.seedAnime(t, "Monster")
	token := env.registerAndLogin(t, "fan@example.com", "secret-password")

	// 404 takes precedence over the favorited/not-favorited conflict.
	rec := env.do(t, http.MethodPost, "/api/user/favorites", token,
		map[string]int64{"anime_id": 9999})
	wantError(t, rec, http.StatusNotFound, models.ErrCodeAnimeNotFound)

	rec = env.do(t, http.MethodDelete, "/api/user/favorites", token,
		map[string]int64{"anime_id": 9999})
	wantError(t, rec, http.StatusNotFound, models.ErrCodeAnimeNotFound)
}

func TestFavorites_Validation(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin(t, "fan@example.com", "secret-password")

	tests := []struct {
		name string
		body interface{}
	}{
		{
			name: "missing anime_id",
			body: map[string]string{},
		},
		{
			name: "zero anime_id",
			body: map[string]int64{"anime_id": 0},
		},
		{
			name: "negative anime_id",
			body: map[string]int64{"anime_id": -5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/api/user/favorites", token, tt.body)
			wantError(t, rec, http.StatusUnprocessableEntity, models.ErrCodeValidation)
		})
	}
}

func TestFavorites_ScopedPerUser(t *testing.T) {
	env := newTestEnv(t)
	ids := env.seedAnime(t, "Monster")
	tokenA := env.registerAndLogin(t, "a@example.com", "secret-password")
	tokenB := env.registerAndLogin(t, "b@example.com", "secret-password")

	rec := env.do(t, http.MethodPost, "/api/user/favorites", tokenA,
		map[string]int64{"anime_id": ids[0]})
	if rec.Code != http.StatusOK {
		t.Fatalf("add status = %d", rec.Code)
	}

	rec = env.do(t, http.MethodGet, "/api/user/favorites", tokenB, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var favorites []models.FavoriteItem
	if err := json.Unmarshal(rec.Body.Bytes(), &favorites); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(favorites) != 0 {
		t.Errorf("user B sees %d favorites of user A", len(favorites))
	}
}

func TestFavorites_RequireAuth(t *testing.T) {
	env := newTestEnv(t)

	for _, method := range []string{http.MethodPost, http.MethodGet, http.MethodDelete} {
		rec := env.do(t, method, "/api/user/favorites", "", map[string]int64{"anime_id": 1})
		wantError(t, rec, http.StatusUnauthorized, models.ErrCodeUnauthenticated)
	}
}

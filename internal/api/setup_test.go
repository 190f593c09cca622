// SparkyRoll - Anime Tracking and Watch History API
// Copyright 2026 SparkyRoll Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sparkyroll/sparkyroll

package api

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	json "github.com/goccy/go-json"

	"github.com/sparkyroll/sparkyroll/internal/auth"
	"github.com/sparkyroll/sparkyroll/internal/config"
	"github.com/sparkyroll/sparkyroll/internal/database"
	"github.com/sparkyroll/sparkyroll/internal/models"
)

// testEnv is a full router over an in-memory database.
type testEnv struct {
	router http.Handler
	db     *database.DB
	cfg    *config.Config
}

// newTestEnv builds the stack the way main() does, with rate limiting
// off so tests never trip limiters.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := &config.Config{
		Security: config.SecurityConfig{
			JWTSecret:              "api_test_secret_key_that_is_long_enough_1234567890",
			TokenTTL:               time.Hour,
			BcryptCost:             4,
			RateLimitEnabled:       false,
			RateLimitLoginAttempts: 1000,
			RateLimitLoginWindow:   time.Minute,
			CORSOrigins:            []string{"*"},
		},
		API: config.APIConfig{
			DefaultPageSize: 10,
			MaxPageSize:     100,
		},
	}

	db, err := database.New(&config.DatabaseConfig{Path: "", SeedCatalog: false})
	if err != nil {
		t.Fatalf("database.New() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	tokens, err := auth.NewTokenManager(&cfg.Security)
	if err != nil {
		t.Fatalf("auth.NewTokenManager() error = %v", err)
	}

	handler := NewHandler(db, tokens, cfg)
	router := NewRouter(handler, auth.NewMiddleware(tokens, db), cfg)

	return &testEnv{
		router: router.SetupChi(),
		db:     db,
		cfg:    cfg,
	}
}

// seedAnime inserts titles and returns their ids in insertion order.
func (e *testEnv) seedAnime(t *testing.T, titles ...string) []int64 {
	t.Helper()

	ids := make([]int64, 0, len(titles))
	for _, title := range titles {
		a, err := e.db.InsertAnime(context.Background(), title)
		if err != nil {
			t.Fatalf("InsertAnime(%q) error = %v", title, err)
		}
		ids = append(ids, a.ID)
	}
	return ids
}

// do performs a request against the router. body (when non-nil) is JSON
// encoded; token (when non-empty) is sent as a bearer credential.
func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// registerAndLogin creates a user through the API and returns its token.
func (e *testEnv) registerAndLogin(t *testing.T, email, password string) string {
	t.Helper()

	rec := e.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    email,
		"password": password,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("register status = %d, body = %s", rec.Code, rec.Body.String())
	}

	rec = e.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp models.TokenResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode token response: %v", err)
	}
	if resp.AccessToken == "" {
		t.Fatal("login returned empty access token")
	}
	return resp.AccessToken
}

// decodeError unmarshals the error envelope.
func decodeError(t *testing.T, rec *httptest.ResponseRecorder) models.APIError {
	t.Helper()

	var resp models.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not the error envelope: %v (body: %s)", err, rec.Body.String())
	}
	return resp.Error
}

// wantError asserts status and error code in one step.
func wantError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()

	if rec.Code != status {
		t.Fatalf("status = %d, want %d (body: %s)", rec.Code, status, rec.Body.String())
	}
	if apiErr := decodeError(t, rec); apiErr.Code != code {
		t.Errorf("error code = %q, want %q", apiErr.Code, code)
	}
}

// uniqueTitles generates n distinct titles.
func uniqueTitles(n int) []string {
	titles := make([]string, n)
	for i := range titles {
		titles[i] = fmt.Sprintf("Anime %02d", i+1)
	}
	return titles
}

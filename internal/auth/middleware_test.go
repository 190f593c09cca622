// SparkyRoll - Anime Tracking and Watch History API
// Copyright 2026 SparkyRoll Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sparkyroll/sparkyroll

package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	json "github.com/goccy/go-json"

	"github.com/sparkyroll/sparkyroll/internal/config"
	"github.com/sparkyroll/sparkyroll/internal/models"
)

// fakeUserStore resolves emails from a fixed map.
type fakeUserStore struct {
	users map[string]*models.User
	err   error
}

func (s *fakeUserStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.users[email], nil
}

func newTestMiddleware(t *testing.T) (*Middleware, *TokenManager) {
	t.Helper()

	manager, err := NewTokenManager(&config.SecurityConfig{
		JWTSecret: "middleware_test_secret_key_that_is_long_enough_12345",
		TokenTTL:  time.Hour,
	})
	if err != nil {
		t.Fatalf("NewTokenManager() error = %v", err)
	}

	store := &fakeUserStore{users: map[string]*models.User{
		"alice@example.com": {ID: 1, Email: "alice@example.com"},
	}}
	return NewMiddleware(manager, store), manager
}

func TestAuthenticate_Success(t *testing.T) {
	mw, manager := newTestMiddleware(t)

	token, err := manager.GenerateToken("alice@example.com")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	var gotUser *models.User
	handler := mw.Authenticate(func(w http.ResponseWriter, r *http.Request) {
		gotUser, _ = UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/user/favorites", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if gotUser == nil || gotUser.ID != 1 {
		t.Errorf("UserFromContext() = %+v, want user 1", gotUser)
	}
}

func TestAuthenticate_UniformFailures(t *testing.T) {
	mw, manager := newTestMiddleware(t)

	expiredManager, err := NewTokenManager(&config.SecurityConfig{
		JWTSecret: "middleware_test_secret_key_that_is_long_enough_12345",
		TokenTTL:  -time.Hour,
	})
	if err != nil {
		t.Fatalf("NewTokenManager() error = %v", err)
	}
	expiredToken, err := expiredManager.GenerateToken("alice@example.com")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	unknownSubject, err := manager.GenerateToken("ghost@example.com")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	tests := []struct {
		name   string
		header string
	}{
		{
			name:   "missing header",
			header: "",
		},
		{
			name:   "wrong scheme",
			header: "Basic YWxpY2U6cHc=",
		},
		{
			name:   "bearer without token",
			header: "Bearer ",
		},
		{
			name:   "garbage token",
			header: "Bearer not.a.token",
		},
		{
			name:   "expired token",
			header: "Bearer " + expiredToken,
		},
		{
			name:   "subject not in store",
			header: "Bearer " + unknownSubject,
		},
	}

	var bodies []string
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := mw.Authenticate(func(w http.ResponseWriter, r *http.Request) {
				t.Error("handler reached despite failed authentication")
			})

			req := httptest.NewRequest(http.MethodGet, "/api/user/favorites", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
			}

			var resp models.ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("response is not the error envelope: %v", err)
			}
			if resp.Error.Code != models.ErrCodeUnauthenticated {
				t.Errorf("code = %q, want %q", resp.Error.Code, models.ErrCodeUnauthenticated)
			}
			bodies = append(bodies, rec.Body.String())
		})
	}

	// Every failure cause must produce a byte-identical body.
	for i := 1; i < len(bodies); i++ {
		if bodies[i] != bodies[0] {
			t.Errorf("401 bodies differ between causes:\n%s\n%s", bodies[0], bodies[i])
		}
	}
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
		wantOK bool
	}{
		{
			name:   "valid bearer",
			header: "Bearer abc.def.ghi",
			want:   "abc.def.ghi",
			wantOK: true,
		},
		{
			name:   "lowercase scheme",
			header: "bearer abc.def.ghi",
			want:   "abc.def.ghi",
			wantOK: true,
		},
		{
			name:   "no header",
			header: "",
			wantOK: false,
		},
		{
			name:   "scheme only",
			header: "Bearer",
			wantOK: false,
		},
		{
			name:   "wrong scheme",
			header: "Token abc",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			got, ok := extractBearerToken(req)
			if ok != tt.wantOK {
				t.Errorf("extractBearerToken() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("extractBearerToken() = %q, want %q", got, tt.want)
			}
		})
	}
}

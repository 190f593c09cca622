// SparkyRoll - Anime Tracking and Watch History API
// Copyright 2026 SparkyRoll Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sparkyroll/sparkyroll

package auth

import (
	"context"
	"net/http"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/sparkyroll/sparkyroll/internal/logging"
	"github.com/sparkyroll/sparkyroll/internal/models"
)

// UserStore resolves token subjects to users. Satisfied by *database.DB.
type UserStore interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// contextKey is the private type for auth context keys.
type contextKey string

// userContextKey stores the authenticated *models.User.
const userContextKey contextKey = "auth_user"

// Middleware resolves bearer tokens to users for protected routes.
type Middleware struct {
	tokens *TokenManager
	users  UserStore
}

// NewMiddleware creates the identity middleware.
func NewMiddleware(tokens *TokenManager, users UserStore) *Middleware {
	return &Middleware{tokens: tokens, users: users}
}

// Authenticate validates the Authorization header, resolves the subject
// to a user, and stores it in the request context.
//
// Every failure — missing header, wrong scheme, malformed, expired or
// forged token, or a subject no longer in the user store — produces the
// same 401 body. The cause is logged at debug level, never returned to
// the client.
func (m *Middleware) Authenticate(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tokenString, ok := extractBearerToken(r)
		if !ok {
			m.unauthenticated(w, r, "missing or malformed authorization header")
			return
		}

		claims, err := m.tokens.ValidateToken(tokenString)
		if err != nil {
			m.unauthenticated(w, r, "token validation failed")
			return
		}

		user, err := m.users.GetUserByEmail(r.Context(), claims.Subject)
		if err != nil {
			logging.Ctx(r.Context()).Error().Err(err).Msg("User lookup failed during authentication")
			m.unauthenticated(w, r, "user lookup failed")
			return
		}
		if user == nil {
			m.unauthenticated(w, r, "token subject not found")
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next(w, r.WithContext(ctx))
	}
}

// extractBearerToken pulls the token from "Authorization: Bearer <token>".
func extractBearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// unauthenticated writes the uniform 401 response.
func (m *Middleware) unauthenticated(w http.ResponseWriter, r *http.Request, reason string) {
	logging.Ctx(r.Context()).Debug().Str("reason", reason).Msg("Request not authenticated")

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(models.ErrorResponse{
		Error: models.APIError{
			Code:    models.ErrCodeUnauthenticated,
			Message: "Not authenticated",
		},
	})
}

// UserFromContext returns the authenticated user stored by Authenticate.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userContextKey).(*models.User)
	return user, ok
}

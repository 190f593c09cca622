// SparkyRoll - Anime Tracking and Watch History API
// Copyright 2026 SparkyRoll Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sparkyroll/sparkyroll

package api

import (
	"net/http"

	"github.com/sparkyroll/sparkyroll/internal/auth"
	"github.com/sparkyroll/sparkyroll/internal/logging"
	"github.com/sparkyroll/sparkyroll/internal/metrics"
	"github.com/sparkyroll/sparkyroll/internal/models"
)

// Register handles POST /api/auth/register.
//
// 200 {id, email} on success, 400 when the email is already registered,
// 422 on invalid body.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	existing, err := h.db.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		respondInternalError(w, r, err)
		return
	}
	if existing != nil {
		respondError(w, r, http.StatusBadRequest,
			models.ErrCodeEmailRegistered, "Email is already registered", nil)
		return
	}

	hash, err := auth.HashPassword(req.Password, h.cfg.Security.BcryptCost)
	if err != nil {
		respondInternalError(w, r, err)
		return
	}

	user, err := h.db.CreateUser(r.Context(), req.Email, hash)
	if err != nil {
		respondInternalError(w, r, err)
		return
	}

	metrics.RegistrationsTotal.Inc()
	logging.Ctx(r.Context()).Info().Int64("user_id", user.ID).Msg("User registered")

	respondJSON(w, http.StatusOK, models.UserResponse{
		ID:    user.ID,
		Email: user.Email,
	})
}

// Login handles POST /api/auth/login.
//
// 200 {access_token, token_type} on success. Unknown email and wrong
// password produce the identical 401; the two causes are never
// distinguished to the client.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.db.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		respondInternalError(w, r, err)
		return
	}
	if user == nil || auth.VerifyPassword(user.PasswordHash, req.Password) != nil {
		metrics.RecordLoginAttempt(false)
		respondError(w, r, http.StatusUnauthorized,
			models.ErrCodeUnauthenticated, "Incorrect email or password", nil)
		return
	}

	token, err := h.tokens.GenerateToken(user.Email)
	if err != nil {
		respondInternalError(w, r, err)
		return
	}

	metrics.RecordLoginAttempt(true)
	logging.Ctx(r.Context()).Info().Int64("user_id", user.ID).Msg("User logged in")

	respondJSON(w, http.StatusOK, models.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

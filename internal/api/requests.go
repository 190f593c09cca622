// SparkyRoll - Anime Tracking and Watch History API
// Copyright 2026 SparkyRoll Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sparkyroll/sparkyroll

package api

// Request structs for JSON bodies. Tags drive go-playground/validator;
// failures become 422 VALIDATION_ERROR responses with per-field details.
//
// The password max of 72 is the bcrypt input limit.

// RegisterRequest is the body for POST /api/auth/register.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest is the body for POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,max=72"`
}

// FavoriteRequest is the body for POST and DELETE /api/user/favorites.
type FavoriteRequest struct {
	AnimeID int64 `json:"anime_id" validate:"required,gt=0"`
}

// HistoryRequest is the body for POST /api/user/history.
//
// Status is deliberately NOT constrained by a validator tag: an unknown
// status is a domain conflict (400 INVALID_STATUS), not a shape error
// (422), so the handler checks it against models.IsValidStatus.
type HistoryRequest struct {
	AnimeID int64  `json:"anime_id" validate:"required,gt=0"`
	Status  string `json:"status" validate:"required"`
}

// HistoryDeleteRequest is the body for DELETE /api/user/history.
type HistoryDeleteRequest struct {
	AnimeID int64 `json:"anime_id" validate:"required,gt=0"`
}

// SparkyRoll - Anime Tracking and Watch History API
// Copyright 2026 SparkyRoll Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sparkyroll/sparkyroll

package models

// API error codes. Codes are stable identifiers for clients; messages are
// human-readable and may change.
const (
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeUnauthenticated  = "UNAUTHENTICATED"
	ErrCodeEmailRegistered  = "EMAIL_ALREADY_REGISTERED"
	ErrCodeAnimeNotFound    = "ANIME_NOT_FOUND"
	ErrCodeAlreadyFavorited = "ALREADY_FAVORITED"
	ErrCodeNotFavorited     = "NOT_FAVORITED"
	ErrCodeInvalidStatus    = "INVALID_STATUS"
	ErrCodeHistoryNotFound  = "HISTORY_ENTRY_NOT_FOUND"
	ErrCodeInternal         = "INTERNAL_ERROR"
)

// APIError is the error payload inside ErrorResponse.
// Details carries per-field validation messages when Code is
// VALIDATION_ERROR; it is omitted otherwise.
type APIError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// ErrorResponse is the envelope for all non-2xx responses.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// MessageResponse is the body for mutation endpoints that only confirm.
type MessageResponse struct {
	Message string `json:"message"`
}

// UserResponse is the registration response body.
type UserResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

// TokenResponse is the login response body.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

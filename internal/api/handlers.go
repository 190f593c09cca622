// SparkyRoll - Anime Tracking and Watch History API
// Copyright 2026 SparkyRoll Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sparkyroll/sparkyroll

// Package api implements the HTTP surface: handlers, request validation,
// routing, and router-level middleware.
package api

import (
	"github.com/sparkyroll/sparkyroll/internal/auth"
	"github.com/sparkyroll/sparkyroll/internal/config"
	"github.com/sparkyroll/sparkyroll/internal/database"
)

// Handler holds the dependencies shared by all endpoint handlers.
type Handler struct {
	db     *database.DB
	tokens *auth.TokenManager
	cfg    *config.Config
}

// NewHandler creates the handler set.
func NewHandler(db *database.DB, tokens *auth.TokenManager, cfg *config.Config) *Handler {
	return &Handler{
		db:     db,
		tokens: tokens,
		cfg:    cfg,
	}
}

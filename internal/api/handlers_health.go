// SparkyRoll - Anime Tracking and Watch History API
// Copyright 2026 SparkyRoll Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sparkyroll/sparkyroll

package api

import (
	"net/http"

	"github.com/sparkyroll/sparkyroll/internal/models"
)

// Welcome handles GET /.
func (h *Handler) Welcome(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, models.MessageResponse{
		Message: "Welcome to SparkyRoll",
	})
}

// Health handles GET /api/health. Reports degraded (503) when the
// database does not answer a ping.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(r.Context()); err != nil {
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "degraded",
		})
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

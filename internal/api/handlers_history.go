// SparkyRoll - Anime Tracking and Watch History API
// Copyright 2026 SparkyRoll Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sparkyroll/sparkyroll

package api

import (
	"errors"
	"net/http"

	"github.com/sparkyroll/sparkyroll/internal/auth"
	"github.com/sparkyroll/sparkyroll/internal/database"
	"github.com/sparkyroll/sparkyroll/internal/models"
)

// UpsertHistory handles POST /api/user/history.
//
// Check order: status label first (400), then anime existence (404).
// A second upsert for the same anime overwrites the stored status; at
// most one entry exists per (user, anime).
func (h *Handler) UpsertHistory(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		respondInternalError(w, r, errMissingUser)
		return
	}

	var req HistoryRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if !models.IsValidStatus(req.Status) {
		respondError(w, r, http.StatusBadRequest,
			models.ErrCodeInvalidStatus,
			"Status must be 'watching' or 'watched'", nil)
		return
	}

	anime, err := h.db.GetAnimeByID(r.Context(), req.AnimeID)
	if err != nil {
		respondInternalError(w, r, err)
		return
	}
	if anime == nil {
		respondError(w, r, http.StatusNotFound,
			models.ErrCodeAnimeNotFound, "Anime not found", nil)
		return
	}

	if err := h.db.UpsertHistory(r.Context(), user.ID, req.AnimeID, req.Status); err != nil {
		respondInternalError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, models.MessageResponse{
		Message: "History entry saved",
	})
}

// ListHistory handles GET /api/user/history?page&size.
func (h *Handler) ListHistory(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		respondInternalError(w, r, errMissingUser)
		return
	}

	p, ok := h.parsePagination(w, r)
	if !ok {
		return
	}

	items, err := h.db.ListHistory(r.Context(), user.ID, p.Size, p.Offset())
	if err != nil {
		respondInternalError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

// RemoveHistory handles DELETE /api/user/history.
//
// Only the entry's existence is checked — NOT the anime's. The removal
// must keep working for entries whose catalog row disappeared, so this
// endpoint is intentionally asymmetric with the favorites remove.
func (h *Handler) RemoveHistory(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		respondInternalError(w, r, errMissingUser)
		return
	}

	var req HistoryDeleteRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	err := h.db.RemoveHistory(r.Context(), user.ID, req.AnimeID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondError(w, r, http.StatusNotFound,
				models.ErrCodeHistoryNotFound, "History entry not found", nil)
			return
		}
		respondInternalError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, models.MessageResponse{
		Message: "History entry removed",
	})
}

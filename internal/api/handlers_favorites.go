// SparkyRoll - Anime Tracking and Watch History API
// Copyright 2026 SparkyRoll Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sparkyroll/sparkyroll

package api

import (
	"net/http"

	"github.com/sparkyroll/sparkyroll/internal/auth"
	"github.com/sparkyroll/sparkyroll/internal/models"
)

// AddFavorite handles POST /api/user/favorites.
//
// Anime existence is checked before the duplicate check: a missing anime
// is 404 even when the body is otherwise a duplicate request.
func (h *Handler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		respondInternalError(w, r, errMissingUser)
		return
	}

	var req FavoriteRequest
	if !decodeAndValidate(w, r, &req) {
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

	favorited, err := h.db.HasFavorite(r.Context(), user.ID, req.AnimeID)
	if err != nil {
		respondInternalError(w, r, err)
		return
	}
	if favorited {
		respondError(w, r, http.StatusBadRequest,
			models.ErrCodeAlreadyFavorited, "Anime is already in favorites", nil)
		return
	}

	if err := h.db.AddFavorite(r.Context(), user.ID, req.AnimeID); err != nil {
		respondInternalError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, models.MessageResponse{
		Message: "Anime added to favorites",
	})
}

// ListFavorites handles GET /api/user/favorites?page&size.
func (h *Handler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		respondInternalError(w, r, errMissingUser)
		return
	}

	p, ok := h.parsePagination(w, r)
	if !ok {
		return
	}

	favorites, err := h.db.ListFavorites(r.Context(), user.ID, p.Size, p.Offset())
	if err != nil {
		respondInternalError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, favorites)
}

// RemoveFavorite handles DELETE /api/user/favorites.
//
// Same precedence as AddFavorite: 404 for a missing anime, then 400 when
// the anime exists but was never favorited.
func (h *Handler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		respondInternalError(w, r, errMissingUser)
		return
	}

	var req FavoriteRequest
	if !decodeAndValidate(w, r, &req) {
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

	favorited, err := h.db.HasFavorite(r.Context(), user.ID, req.AnimeID)
	if err != nil {
		respondInternalError(w, r, err)
		return
	}
	if !favorited {
		respondError(w, r, http.StatusBadRequest,
			models.ErrCodeNotFavorited, "Anime is not in favorites", nil)
		return
	}

	if err := h.db.RemoveFavorite(r.Context(), user.ID, req.AnimeID); err != nil {
		respondInternalError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, models.MessageResponse{
		Message: "Anime removed from favorites",
	})
}

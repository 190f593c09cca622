// SparkyRoll - Anime Tracking and Watch History API
// Copyright 2026 SparkyRoll Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sparkyroll/sparkyroll

package api

import (
	"net/http"
)

// ListAnime handles GET /api/anime/list?page&size. No authentication;
// the catalog is public. Ordering is id ascending so pages are stable
// across requests; pages past the end return [].
func (h *Handler) ListAnime(w http.ResponseWriter, r *http.Request) {
	p, ok := h.parsePagination(w, r)
	if !ok {
		return
	}

	animes, err := h.db.ListAnime(r.Context(), p.Size, p.Offset())
	if err != nil {
		respondInternalError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, animes)
}

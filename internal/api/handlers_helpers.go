// SparkyRoll - Anime Tracking and Watch History API
// Copyright 2026 SparkyRoll Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sparkyroll/sparkyroll

package api

import (
	"errors"
	"net/http"
	"strconv"

	json "github.com/goccy/go-json"

	"github.com/sparkyroll/sparkyroll/internal/logging"
	"github.com/sparkyroll/sparkyroll/internal/models"
	"github.com/sparkyroll/sparkyroll/internal/validation"
)

// errMissingUser indicates a protected handler ran without the identity
// middleware having stored a user. Always a wiring bug, never client input.
var errMissingUser = errors.New("authenticated user missing from request context")

// respondJSON writes a JSON response with the given status.
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logging.Error().Err(err).Msg("Failed to encode response")
	}
}

// respondError writes the error envelope. Internal details never reach
// the client; err (when non-nil) is only logged.
func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string, err error) {
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).
			Int("status", status).Str("code", code).
			Msg("Request failed")
	}
	respondJSON(w, status, models.ErrorResponse{
		Error: models.APIError{Code: code, Message: message},
	})
}

// respondInternalError maps unexpected failures to a generic 500.
func respondInternalError(w http.ResponseWriter, r *http.Request, err error) {
	respondError(w, r, http.StatusInternalServerError,
		models.ErrCodeInternal, "Internal server error", err)
}

// respondValidationError writes a 422 with per-field details.
func respondValidationError(w http.ResponseWriter, apiErr *models.APIError) {
	respondJSON(w, http.StatusUnprocessableEntity, models.ErrorResponse{Error: *apiErr})
}

// decodeAndValidate decodes the JSON body into dst and runs struct
// validation. On failure it writes a 422 and returns false.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondValidationError(w, &models.APIError{
			Code:    models.ErrCodeValidation,
			Message: "Request body is not valid JSON",
		})
		return false
	}

	if err := validation.ValidateStruct(dst); err != nil {
		var verr *validation.RequestValidationError
		if errors.As(err, &verr) {
			respondValidationError(w, verr.ToAPIError())
			return false
		}
		respondInternalError(w, r, err)
		return false
	}
	return true
}

// pagination holds validated page/size query values.
type pagination struct {
	Page int
	Size int
}

// Offset returns the row offset for the page.
func (p pagination) Offset() int {
	return (p.Page - 1) * p.Size
}

// parsePagination reads and validates ?page and ?size. Absent parameters
// take defaults; present but non-numeric or out-of-bounds values write a
// 422 and return false.
func (h *Handler) parsePagination(w http.ResponseWriter, r *http.Request) (pagination, bool) {
	p := pagination{Page: 1, Size: h.cfg.API.DefaultPageSize}
	fields := make(map[string]string)

	if raw := r.URL.Query().Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		switch {
		case err != nil:
			fields["page"] = "must be an integer"
		case n < 1:
			fields["page"] = "must be at least 1"
		default:
			p.Page = n
		}
	}

	if raw := r.URL.Query().Get("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		switch {
		case err != nil:
			fields["size"] = "must be an integer"
		case n < 1 || n > h.cfg.API.MaxPageSize:
			fields["size"] = "must be between 1 and " + strconv.Itoa(h.cfg.API.MaxPageSize)
		default:
			p.Size = n
		}
	}

	if len(fields) > 0 {
		respondValidationError(w, &models.APIError{
			Code:    models.ErrCodeValidation,
			Message: "Invalid pagination parameters",
			Details: fields,
		})
		return pagination{}, false
	}
	return p, true
}

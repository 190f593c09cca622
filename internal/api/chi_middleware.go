// SparkyRoll - Anime Tracking and Watch History API
// Copyright 2026 SparkyRoll Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sparkyroll/sparkyroll

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/sparkyroll/sparkyroll/internal/config"
	"github.com/sparkyroll/sparkyroll/internal/logging"
)

// ChiMiddleware builds the router-level middleware from security config.
type ChiMiddleware struct {
	cfg *config.SecurityConfig
}

// NewChiMiddleware creates the middleware set.
func NewChiMiddleware(cfg *config.SecurityConfig) *ChiMiddleware {
	return &ChiMiddleware{cfg: cfg}
}

// CORS returns the CORS middleware configured from security.cors_origins.
func (m *ChiMiddleware) CORS() func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   m.cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	})
}

// RateLimitAPI returns the global per-IP request limiter. A no-op when
// rate limiting is disabled in config.
func (m *ChiMiddleware) RateLimitAPI() func(http.Handler) http.Handler {
	if !m.cfg.RateLimitEnabled {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(
		m.cfg.RateLimitRPM,
		time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
	)
}

// SecurityHeaders sets baseline security headers on every response.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// RequestIDWithLogging assigns a request ID, propagates it through the
// context and the X-Request-ID response header, and logs request
// completion with status and duration.
func RequestIDWithLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = logging.GenerateRequestID()
		}

		ctx := logging.ContextWithRequestID(r.Context(), requestID)
		w.Header().Set("X-Request-ID", requestID)

		start := time.Now()
		sw := &statusResponseWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r.WithContext(ctx))

		logging.Ctx(ctx).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", sw.status).
			Dur("duration", time.Since(start)).
			Msg("Request completed")
	})
}

// statusResponseWriter captures the response status for logging.
type statusResponseWriter struct {
	http.ResponseWriter
	status int
}

// WriteHeader captures the status code.
func (w *statusResponseWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// chiMiddleware adapts HandlerFunc-based middleware (the auth package's
// Authenticate, LoginLimiter.Limit) to chi's http.Handler signature.
func chiMiddleware(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

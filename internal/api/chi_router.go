// SparkyRoll - Anime Tracking and Watch History API
// Copyright 2026 SparkyRoll Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sparkyroll/sparkyroll

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sparkyroll/sparkyroll/internal/auth"
	"github.com/sparkyroll/sparkyroll/internal/config"
	"github.com/sparkyroll/sparkyroll/internal/middleware"
)

// Router assembles handlers and middleware into the HTTP surface.
type Router struct {
	handler      *Handler
	authmw       *auth.Middleware
	loginLimiter *auth.LoginLimiter
	chimw        *ChiMiddleware
}

// NewRouter creates the router assembly.
func NewRouter(handler *Handler, authmw *auth.Middleware, cfg *config.Config) *Router {
	return &Router{
		handler: handler,
		authmw:  authmw,
		loginLimiter: auth.NewLoginLimiter(
			cfg.Security.RateLimitLoginAttempts,
			cfg.Security.RateLimitLoginWindow,
		),
		chimw: NewChiMiddleware(&cfg.Security),
	}
}

// SetupChi builds the chi router.
//
// Route map:
//
//	GET  /                     welcome
//	GET  /api/health           liveness
//	GET  /metrics              prometheus
//	POST /api/auth/register
//	POST /api/auth/login       (tighter per-IP limiter)
//	GET  /api/anime/list       public catalog
//	POST/GET/DELETE /api/user/favorites   (bearer)
//	POST/GET/DELETE /api/user/history     (bearer)
func (rt *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(RequestIDWithLogging)
	r.Use(chimiddleware.Recoverer)
	r.Use(rt.chimw.CORS())
	r.Use(SecurityHeaders)
	r.Use(middleware.PrometheusMetrics)
	r.Use(rt.chimw.RateLimitAPI())

	r.Get("/", rt.handler.Welcome)
	r.Get("/api/health", rt.handler.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", rt.handler.Register)
		r.With(chiMiddleware(rt.loginLimiter.Limit)).Post("/login", rt.handler.Login)
	})

	r.Route("/api/anime", func(r chi.Router) {
		r.Get("/list", rt.handler.ListAnime)
	})

	r.Route("/api/user", func(r chi.Router) {
		r.Use(chiMiddleware(rt.authmw.Authenticate))

		r.Route("/favorites", func(r chi.Router) {
			r.Post("/", rt.handler.AddFavorite)
			r.Get("/", rt.handler.ListFavorites)
			r.Delete("/", rt.handler.RemoveFavorite)
		})

		r.Route("/history", func(r chi.Router) {
			r.Post("/", rt.handler.UpsertHistory)
			r.Get("/", rt.handler.ListHistory)
			r.Delete("/", rt.handler.RemoveHistory)
		})
	})

	return r
}

// SparkyRoll - Anime Tracking and Watch History API
// Copyright 2026 SparkyRoll Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sparkyroll/sparkyroll

// SparkyRoll server entry point.
//
// Startup order matters: configuration first (everything depends on it),
// then logging (so later failures are reported consistently), then the
// database (schema + catalog seed), then the auth components, and
// finally the HTTP server under the supervisor tree.
//
// The process shuts down on SIGINT/SIGTERM: the supervisor cancels the
// HTTP service, which drains connections within the configured timeout,
// then the database closes.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/sparkyroll/sparkyroll/internal/api"
	"github.com/sparkyroll/sparkyroll/internal/auth"
	"github.com/sparkyroll/sparkyroll/internal/config"
	"github.com/sparkyroll/sparkyroll/internal/database"
	"github.com/sparkyroll/sparkyroll/internal/logging"
	"github.com/sparkyroll/sparkyroll/internal/supervisor"
	"github.com/sparkyroll/sparkyroll/internal/supervisor/services"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to YAML configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		// Logging is still on defaults here; that is fine for a fatal.
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("addr", cfg.Server.Addr()).
		Str("database", cfg.Database.Path).
		Msg("Starting SparkyRoll")

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Failed to close database")
		}
	}()

	tokens, err := auth.NewTokenManager(&cfg.Security)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize token manager")
	}
	authmw := auth.NewMiddleware(tokens, db)

	handler := api.NewHandler(db, tokens, cfg)
	router := api.NewRouter(handler, authmw, cfg)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.SetupChi(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	treeCfg := supervisor.DefaultTreeConfig()
	treeCfg.ShutdownTimeout = cfg.Server.ShutdownTimeout
	tree := supervisor.NewTree(logging.NewSlogLogger(), treeCfg)
	tree.Add(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info().Str("addr", cfg.Server.Addr()).Msg("HTTP server listening")
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Fatal().Err(err).Msg("Supervisor exited with error")
	}

	logging.Info().Msg("Shutdown complete")
}

// CineMatch - Personalized Movie Recommendation Service
// Copyright 2026 subzero0008
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/subzero0008/cinematch

// Command server runs the CineMatch HTTP service.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/subzero0008/cinematch/internal/api"
	"github.com/subzero0008/cinematch/internal/config"
	"github.com/subzero0008/cinematch/internal/logging"
	"github.com/subzero0008/cinematch/internal/ratings"
	"github.com/subzero0008/cinematch/internal/recommend"
	"github.com/subzero0008/cinematch/internal/survey"
	"github.com/subzero0008/cinematch/internal/tmdb"
)

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("Server exited with error")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logging.Info().
		Str("host", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Msg("Starting CineMatch")

	store, err := ratings.NewBadgerStore(&cfg.Ratings)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Failed to close rating store")
		}
	}()

	catalog := tmdb.NewBreakerClient(tmdb.NewClient(&cfg.TMDB))

	engineCfg := recommend.DefaultConfig()
	engineCfg.ProfileCacheTTL = cfg.Engine.ProfileCacheTTL
	engineCfg.AdminCacheTTL = cfg.Engine.AdminCacheTTL
	engineCfg.EnrichConcurrency = cfg.Engine.EnrichConcurrency

	engine, err := recommend.New(catalog, store, engineCfg)
	if err != nil {
		return err
	}

	surveyCfg := survey.DefaultConfig()
	surveyCfg.ResultCacheTTL = cfg.Survey.ResultCacheTTL
	surveyCfg.MaxResults = cfg.Survey.MaxResults
	surveyCfg.EnrichConcurrency = cfg.Engine.EnrichConcurrency

	handler := api.NewHandler(engine, survey.New(catalog, surveyCfg), store)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      api.NewRouter(&cfg.Server, handler),
		ReadTimeout:  cfg.Server.RequestTimeout,
		WriteTimeout: cfg.Server.RequestTimeout,
		IdleTimeout:  2 * cfg.Server.RequestTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", srv.Addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case sig := <-stop:
		logging.Info().Str("signal", sig.String()).Msg("Shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	logging.Info().Msg("Shutdown complete")
	return nil
}

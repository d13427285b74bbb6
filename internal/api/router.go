// CineMatch - Personalized Movie Recommendation Service
// Copyright 2026 subzero0008
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/subzero0008/cinematch

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/subzero0008/cinematch/internal/config"
	"github.com/subzero0008/cinematch/internal/middleware"
)

// NewRouter builds the full HTTP routing tree.
func NewRouter(cfg *config.ServerConfig, handler *Handler) http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to every route in order.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(cfg.RequestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	// Health gets permissive rate limiting so monitors can poll freely.
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(httprate.LimitByIP(1000, time.Minute))
		r.Get("/", handler.Health)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(httprate.LimitByIP(cfg.RateLimitReqs, cfg.RateLimitWindow))
		r.Use(middleware.Prometheus)

		r.Route("/recommendations", func(r chi.Router) {
			r.Get("/{userID}", handler.Recommendations)
		})
		r.Route("/admin/recommendations", func(r chi.Router) {
			r.Get("/{userID}", handler.AdminRecommendations)
		})
		r.Route("/discover", func(r chi.Router) {
			r.Post("/survey", handler.DiscoverSurvey)
		})
		r.Route("/ratings", func(r chi.Router) {
			r.Get("/{userID}", handler.ListRatings)
			r.Put("/{userID}/{movieID}", handler.UpsertRating)
			r.Delete("/{userID}/{movieID}", handler.DeleteRating)
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}

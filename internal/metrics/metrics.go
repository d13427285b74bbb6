// CineMatch - Personalized Movie Recommendation Service
// Copyright 2026 subzero0008
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/subzero0008/cinematch

// Package metrics provides Prometheus instrumentation for CineMatch.
//
// Collectors cover HTTP latency, catalog client calls, cache efficiency,
// recommendation fan-out, and fallback activations.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP Metrics
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cinematch_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cinematch_http_requests_in_flight",
			Help: "Current number of in-flight HTTP requests",
		},
	)

	// Catalog Client Metrics
	CatalogRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinematch_catalog_requests_total",
			Help: "Total number of catalog API requests",
		},
		[]string{"operation", "status"}, // status: "success", "failure", "not_found"
	)

	CatalogRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cinematch_catalog_request_duration_seconds",
			Help:    "Duration of catalog API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cinematch_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"breaker"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinematch_circuit_breaker_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"breaker", "from", "to"},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinematch_cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache"}, // "profile", "admin_recs", "survey", "genres"
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinematch_cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache"},
	)

	CacheInvalidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinematch_cache_invalidations_total",
			Help: "Total number of explicit cache invalidations",
		},
		[]string{"cache"},
	)

	// Recommendation Engine Metrics
	RecommendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinematch_recommend_requests_total",
			Help: "Total number of recommendation requests",
		},
		[]string{"path"}, // "personal", "admin", "survey"
	)

	CandidatesGenerated = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cinematch_candidates_generated",
			Help:    "Number of deduplicated candidates per request",
			Buckets: []float64{0, 5, 10, 20, 40, 60, 80, 100},
		},
	)

	EnrichmentSkips = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cinematch_enrichment_skips_total",
			Help: "Total number of candidates skipped due to failed detail lookups",
		},
	)

	FallbackActivations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinematch_fallback_activations_total",
			Help: "Total number of fallback controller activations",
		},
		[]string{"tier"}, // "popular", "static"
	)

	SurveyRelaxations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinematch_survey_relaxations_total",
			Help: "Total number of survey filter relaxation steps taken",
		},
		[]string{"step"}, // "rating", "occasion"
	)
)

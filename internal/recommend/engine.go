// CineMatch - Personalized Movie Recommendation Service
// Copyright 2026 subzero0008
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/subzero0008/cinematch

// Package recommend implements the personalized recommendation engine:
// preference profiles built from rating history, multi-strategy candidate
// generation against the movie catalog, weighted relevance scoring, and
// popularity fallbacks. The top-level recommendation calls never return
// an error; every failure path degrades to a usable result set.
package recommend

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"github.com/subzero0008/cinematch/internal/cache"
	"github.com/subzero0008/cinematch/internal/logging"
	"github.com/subzero0008/cinematch/internal/metrics"
	"github.com/subzero0008/cinematch/internal/tmdb"
)

const (
	profileCacheMaxEntries = 10000
	adminCacheMaxEntries   = 10000
	genreTaxonomyTTL       = 24 * time.Hour
)

// adminKey identifies one cached administrative result set.
type adminKey struct {
	UserID string
	Count  int
}

// Engine produces movie recommendations for users from their rating
// history. Safe for concurrent use.
type Engine struct {
	catalog tmdb.Catalog
	ratings RatingSource
	cfg     Config

	profiles  *cache.Cache[string, *PreferenceProfile]
	adminRecs *cache.Cache[adminKey, []CandidateMovie]
	genres    *cache.Cache[string, map[string]int]

	sem    *semaphore.Weighted
	logger zerolog.Logger
}

// New creates an Engine backed by the given catalog and rating source.
func New(catalog tmdb.Catalog, ratings RatingSource, cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine config: %w", err)
	}

	return &Engine{
		catalog:   catalog,
		ratings:   ratings,
		cfg:       cfg,
		profiles:  cache.New[string, *PreferenceProfile](cfg.ProfileCacheTTL, profileCacheMaxEntries),
		adminRecs: cache.New[adminKey, []CandidateMovie](cfg.AdminCacheTTL, adminCacheMaxEntries),
		genres:    cache.New[string, map[string]int](genreTaxonomyTTL, 1),
		sem:       semaphore.NewWeighted(int64(cfg.EnrichConcurrency)),
		logger:    logging.With().Str("component", "recommend").Logger(),
	}, nil
}

// GetPersonalizedRecommendations returns up to count recommendations for
// the user. It never fails: an empty profile, an exhausted candidate
// pool, or an upstream error all degrade to the fallback tiers.
func (e *Engine) GetPersonalizedRecommendations(ctx context.Context, userID string, count int) []CandidateMovie {
	metrics.RecommendRequests.WithLabelValues("personal").Inc()
	return e.recommend(ctx, userID, e.clampCount(count))
}

// GetAdminRecommendations returns recommendations for another user on
// behalf of an administrator. Results are cached per (user, count) for
// much longer than the personal path tolerates, since admin inspection
// does not need second-level freshness.
func (e *Engine) GetAdminRecommendations(ctx context.Context, userID string, count int) []CandidateMovie {
	metrics.RecommendRequests.WithLabelValues("admin").Inc()
	count = e.clampCount(count)

	key := adminKey{UserID: userID, Count: count}
	if results, ok := e.adminRecs.Get(key); ok {
		metrics.CacheHits.WithLabelValues("admin_recs").Inc()
		return results
	}
	metrics.CacheMisses.WithLabelValues("admin_recs").Inc()

	results := e.recommend(ctx, userID, count)
	e.adminRecs.Set(key, results)
	return results
}

// recommend runs the full pipeline for one user with a pre-clamped count.
func (e *Engine) recommend(ctx context.Context, userID string, count int) []CandidateMovie {
	start := time.Now()

	profile, err := e.preferenceProfile(ctx, userID)
	if err != nil {
		e.logger.Warn().Err(err).Str("user_id", userID).Msg("Profile build failed, serving fallback")
		return e.fallbackRecommendations(ctx, count)
	}
	if profile.IsEmpty() {
		e.logger.Debug().Str("user_id", userID).Msg("Empty profile, serving fallback")
		return e.fallbackRecommendations(ctx, count)
	}

	candidates := e.generateCandidates(ctx, profile)
	ranked := e.rank(candidates, profile, e.ratedSet(ctx, userID), count)
	if len(ranked) == 0 {
		e.logger.Debug().Str("user_id", userID).Msg("No candidates survived ranking, serving fallback")
		return e.fallbackRecommendations(ctx, count)
	}

	e.logger.Info().
		Str("user_id", userID).
		Int("candidates", len(candidates)).
		Int("returned", len(ranked)).
		Dur("duration", time.Since(start)).
		Msg("Generated recommendations")

	return ranked
}

// ratedSet returns the IDs of every movie the user has rated, regardless
// of rating value. Lookup failure yields an empty set rather than an
// error so ranking can proceed.
func (e *Engine) ratedSet(ctx context.Context, userID string) map[int]bool {
	signals, err := e.ratings.GetRatingsForUser(ctx, userID)
	if err != nil {
		e.logger.Warn().Err(err).Str("user_id", userID).Msg("Rated-set lookup failed")
		return map[int]bool{}
	}

	rated := make(map[int]bool, len(signals))
	for _, s := range signals {
		rated[s.MovieID] = true
	}
	return rated
}

// InvalidateUser drops the user's cached profile and every cached admin
// result set for them. Rating mutations must call this so the next
// recommendation request rebuilds from fresh data.
func (e *Engine) InvalidateUser(userID string) {
	e.profiles.Delete(userID)
	metrics.CacheInvalidations.WithLabelValues("profile").Inc()

	dropped := e.adminRecs.DeleteFunc(func(k adminKey) bool {
		return k.UserID == userID
	})
	if dropped > 0 {
		metrics.CacheInvalidations.WithLabelValues("admin_recs").Add(float64(dropped))
	}

	e.logger.Debug().Str("user_id", userID).Int("admin_entries", dropped).Msg("Invalidated recommendation caches")
}

// CineMatch - Personalized Movie Recommendation Service
// Copyright 2026 subzero0008
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/subzero0008/cinematch

package recommend

import (
	"fmt"
	"time"
)

// Config holds the engine's scoring weights, strategy tuning, and cache
// behavior. Zero values are invalid; start from DefaultConfig.
type Config struct {
	// Scoring weights. Factors whose facet is empty on either side are
	// omitted from the weighted average, so these need not sum to 1.
	GenreWeight    float64
	ActorWeight    float64
	DirectorWeight float64
	RatingWeight   float64

	// Per-strategy score multipliers.
	SimilarMultiplier  float64
	GenreMultiplier    float64
	ActorMultiplier    float64
	DirectorMultiplier float64

	// Per-strategy candidate limits.
	SimilarLimit  int
	GenreLimit    int
	ActorLimit    int
	DirectorLimit int

	// SeedCount is how many top-rated movies anchor similar lookups.
	SeedCount int

	// DefaultCount and MaxCount bound the requested result size.
	DefaultCount int
	MaxCount     int

	// FallbackScore is the flat relevance assigned to fallback results.
	FallbackScore float64

	// ProfileCacheTTL bounds preference profile staleness.
	ProfileCacheTTL time.Duration

	// AdminCacheTTL bounds cached full admin result sets.
	AdminCacheTTL time.Duration

	// EnrichConcurrency caps parallel catalog detail lookups during
	// candidate enrichment.
	EnrichConcurrency int
}

// DefaultConfig returns the production engine tuning.
func DefaultConfig() Config {
	return Config{
		GenreWeight:    0.40,
		ActorWeight:    0.25,
		DirectorWeight: 0.20,
		RatingWeight:   0.10,

		SimilarMultiplier:  1.0,
		GenreMultiplier:    0.8,
		ActorMultiplier:    0.9,
		DirectorMultiplier: 0.85,

		SimilarLimit:  20,
		GenreLimit:    30,
		ActorLimit:    15,
		DirectorLimit: 15,

		SeedCount:    3,
		DefaultCount: 20,
		MaxCount:     100,

		FallbackScore: 0.5,

		ProfileCacheTTL:   30 * time.Second,
		AdminCacheTTL:     30 * time.Minute,
		EnrichConcurrency: 8,
	}
}

// Validate checks the configuration for values that would break scoring
// or candidate generation.
func (c Config) Validate() error {
	for name, w := range map[string]float64{
		"genre":    c.GenreWeight,
		"actor":    c.ActorWeight,
		"director": c.DirectorWeight,
		"rating":   c.RatingWeight,
	} {
		if w < 0 || w > 1 {
			return fmt.Errorf("%s weight must be in [0,1], got %f", name, w)
		}
	}
	for name, m := range map[string]float64{
		"similar":  c.SimilarMultiplier,
		"genre":    c.GenreMultiplier,
		"actor":    c.ActorMultiplier,
		"director": c.DirectorMultiplier,
	} {
		if m <= 0 || m > 1 {
			return fmt.Errorf("%s multiplier must be in (0,1], got %f", name, m)
		}
	}
	if c.SeedCount < 1 {
		return fmt.Errorf("seed count must be positive, got %d", c.SeedCount)
	}
	if c.DefaultCount < 1 || c.MaxCount < c.DefaultCount {
		return fmt.Errorf("invalid count bounds: default %d, max %d", c.DefaultCount, c.MaxCount)
	}
	if c.FallbackScore <= 0 || c.FallbackScore > 1 {
		return fmt.Errorf("fallback score must be in (0,1], got %f", c.FallbackScore)
	}
	if c.EnrichConcurrency < 1 {
		return fmt.Errorf("enrich concurrency must be positive, got %d", c.EnrichConcurrency)
	}
	if c.ProfileCacheTTL <= 0 || c.AdminCacheTTL <= 0 {
		return fmt.Errorf("cache TTLs must be positive")
	}
	return nil
}

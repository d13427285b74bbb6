// CineMatch - Personalized Movie Recommendation Service
// Copyright 2026 subzero0008
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/subzero0008/cinematch

// Package config loads and validates application configuration.
//
// Configuration is layered: struct defaults, then an optional YAML file,
// then CINEMATCH_-prefixed environment variables (highest priority).
package config

import (
	"fmt"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server  ServerConfig  `koanf:"server"`
	TMDB    TMDBConfig    `koanf:"tmdb"`
	Ratings RatingsConfig `koanf:"ratings"`
	Engine  EngineConfig  `koanf:"engine"`
	Survey  SurveyConfig  `koanf:"survey"`
	Logging LoggingConfig `koanf:"logging"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	// Host is the listen address.
	Host string `koanf:"host"`

	// Port is the listen port.
	Port int `koanf:"port"`

	// RequestTimeout bounds a single recommendation request.
	RequestTimeout time.Duration `koanf:"request_timeout"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// CORSOrigins lists allowed CORS origins.
	CORSOrigins []string `koanf:"cors_origins"`

	// RateLimitReqs is the per-IP request budget per RateLimitWindow.
	RateLimitReqs int `koanf:"rate_limit_reqs"`

	// RateLimitWindow is the rate limit measurement window.
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
}

// TMDBConfig contains catalog provider settings.
type TMDBConfig struct {
	// BaseURL is the catalog API base URL.
	BaseURL string `koanf:"base_url"`

	// APIKey authenticates catalog requests.
	APIKey string `koanf:"api_key"`

	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration `koanf:"timeout"`

	// RequestsPerSecond limits outbound catalog calls.
	RequestsPerSecond float64 `koanf:"requests_per_second"`

	// MaxRetries is the retry budget for rate-limited (HTTP 429) requests.
	MaxRetries int `koanf:"max_retries"`
}

// RatingsConfig contains rating store settings.
type RatingsConfig struct {
	// Path is the badger database directory.
	Path string `koanf:"path"`

	// InMemory runs the store without disk persistence. Used in tests.
	InMemory bool `koanf:"in_memory"`
}

// EngineConfig contains recommendation engine settings.
type EngineConfig struct {
	// ProfileCacheTTL is the per-user preference profile cache TTL.
	ProfileCacheTTL time.Duration `koanf:"profile_cache_ttl"`

	// AdminCacheTTL is the elevated recommendation-result cache TTL.
	AdminCacheTTL time.Duration `koanf:"admin_cache_ttl"`

	// EnrichConcurrency bounds parallel catalog detail fetches.
	EnrichConcurrency int `koanf:"enrich_concurrency"`
}

// SurveyConfig contains survey discovery path settings.
type SurveyConfig struct {
	// ResultCacheTTL is the survey response cache TTL.
	ResultCacheTTL time.Duration `koanf:"result_cache_ttl"`

	// MaxResults caps the number of movies returned per survey.
	MaxResults int `koanf:"max_results"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// defaultConfig returns a Config with production defaults. Defaults are
// applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8640,
			RequestTimeout:  15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
		},
		TMDB: TMDBConfig{
			BaseURL:           "https://api.themoviedb.org/3",
			APIKey:            "",
			Timeout:           10 * time.Second,
			RequestsPerSecond: 20,
			MaxRetries:        5,
		},
		Ratings: RatingsConfig{
			Path:     "/data/cinematch/ratings",
			InMemory: false,
		},
		Engine: EngineConfig{
			ProfileCacheTTL:   30 * time.Second,
			AdminCacheTTL:     30 * time.Minute,
			EnrichConcurrency: 8,
		},
		Survey: SurveyConfig{
			ResultCacheTTL: time.Hour,
			MaxResults:     20,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in [1, 65535], got %d", c.Server.Port)
	}
	if c.Server.RequestTimeout <= 0 {
		return fmt.Errorf("server.request_timeout must be positive, got %v", c.Server.RequestTimeout)
	}

	if c.TMDB.BaseURL == "" {
		return fmt.Errorf("tmdb.base_url is required")
	}
	if c.TMDB.APIKey == "" {
		return fmt.Errorf("tmdb.api_key is required")
	}
	if c.TMDB.RequestsPerSecond <= 0 {
		return fmt.Errorf("tmdb.requests_per_second must be positive, got %f", c.TMDB.RequestsPerSecond)
	}
	if c.TMDB.MaxRetries < 0 {
		return fmt.Errorf("tmdb.max_retries must be non-negative, got %d", c.TMDB.MaxRetries)
	}

	if !c.Ratings.InMemory && c.Ratings.Path == "" {
		return fmt.Errorf("ratings.path is required when ratings.in_memory is false")
	}

	if c.Engine.ProfileCacheTTL <= 0 {
		return fmt.Errorf("engine.profile_cache_ttl must be positive, got %v", c.Engine.ProfileCacheTTL)
	}
	if c.Engine.AdminCacheTTL <= 0 {
		return fmt.Errorf("engine.admin_cache_ttl must be positive, got %v", c.Engine.AdminCacheTTL)
	}
	if c.Engine.EnrichConcurrency < 1 {
		return fmt.Errorf("engine.enrich_concurrency must be positive, got %d", c.Engine.EnrichConcurrency)
	}

	if c.Survey.ResultCacheTTL <= 0 {
		return fmt.Errorf("survey.result_cache_ttl must be positive, got %v", c.Survey.ResultCacheTTL)
	}
	if c.Survey.MaxResults < 1 || c.Survey.MaxResults > 100 {
		return fmt.Errorf("survey.max_results must be in [1, 100], got %d", c.Survey.MaxResults)
	}

	return nil
}

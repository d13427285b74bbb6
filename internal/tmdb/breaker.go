// CineMatch - Personalized Movie Recommendation Service
// Copyright 2026 subzero0008
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/subzero0008/cinematch

package tmdb

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/subzero0008/cinematch/internal/logging"
	"github.com/subzero0008/cinematch/internal/metrics"
)

// BreakerClient wraps a Catalog with a circuit breaker so a misbehaving
// catalog provider cannot pile up timed-out requests.
//
// The breaker uses real time for its interval and timeout calculations.
// Unit tests should mock the underlying Catalog, not the breaker.
type BreakerClient struct {
	inner Catalog
	cb    *gobreaker.CircuitBreaker[interface{}]
	name  string
}

// NewBreakerClient wraps the given catalog. The breaker opens after a 60%
// failure rate over at least 10 requests, stays open for 2 minutes, and
// admits 3 trial requests in half-open state.
func NewBreakerClient(inner Catalog) *BreakerClient {
	cbName := "tmdb-api"

	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0) // 0 = closed

	cb := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= 0.6
		},

		// A missing movie is a data outcome, not a provider failure,
		// and must not trip the breaker.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound)
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr, toStr := stateToString(from), stateToString(to)
			logging.Info().
				Str("breaker", name).
				Str("from", fromStr).
				Str("to", toStr).
				Msg("circuit breaker state transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},
	})

	return &BreakerClient{inner: inner, cb: cb, name: cbName}
}

func execute[T any](b *BreakerClient, fn func() (T, error)) (T, error) {
	result, err := b.cb.Execute(func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		var zero T
		// Execute returns both the value and the error from fn when the
		// error is tolerated by IsSuccessful (ErrNotFound).
		if v, ok := result.(T); ok {
			return v, err
		}
		return zero, err
	}
	return result.(T), nil
}

// GetMovieDetails implements Catalog.
func (b *BreakerClient) GetMovieDetails(ctx context.Context, movieID int) (*MovieDetails, error) {
	return execute(b, func() (*MovieDetails, error) {
		return b.inner.GetMovieDetails(ctx, movieID)
	})
}

// GetSimilarMovies implements Catalog.
func (b *BreakerClient) GetSimilarMovies(ctx context.Context, movieID int) ([]Movie, error) {
	return execute(b, func() ([]Movie, error) {
		return b.inner.GetSimilarMovies(ctx, movieID)
	})
}

// DiscoverMovies implements Catalog.
func (b *BreakerClient) DiscoverMovies(ctx context.Context, filter DiscoverFilter) ([]Movie, error) {
	return execute(b, func() ([]Movie, error) {
		return b.inner.DiscoverMovies(ctx, filter)
	})
}

// SearchPerson implements Catalog.
func (b *BreakerClient) SearchPerson(ctx context.Context, name string) ([]Person, error) {
	return execute(b, func() ([]Person, error) {
		return b.inner.SearchPerson(ctx, name)
	})
}

// GetGenres implements Catalog.
func (b *BreakerClient) GetGenres(ctx context.Context) ([]Genre, error) {
	return execute(b, func() ([]Genre, error) {
		return b.inner.GetGenres(ctx)
	})
}

// GetPopularMovies implements Catalog.
func (b *BreakerClient) GetPopularMovies(ctx context.Context) ([]Movie, error) {
	return execute(b, func() ([]Movie, error) {
		return b.inner.GetPopularMovies(ctx)
	})
}

func stateToString(s gobreaker.State) string {
	switch s {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

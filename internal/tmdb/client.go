// CineMatch - Personalized Movie Recommendation Service
// Copyright 2026 subzero0008
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/subzero0008/cinematch

// Package tmdb provides a typed client for The Movie Database (TMDB) v3 API.
//
// The client covers the read operations the recommendation engine needs:
// movie details with credits, similar movies, filtered discovery, person
// search, the genre taxonomy, and the popular list.
//
// Resilience:
//   - client-side rate limiting (golang.org/x/time/rate)
//   - exponential backoff on HTTP 429 with Retry-After support
//   - context cancellation on every call, including backoff waits
//   - ErrNotFound sentinel for missing movies
//
// Thread safety: all methods are safe for concurrent use.
package tmdb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/subzero0008/cinematch/internal/config"
	"github.com/subzero0008/cinematch/internal/logging"
	"github.com/subzero0008/cinematch/internal/metrics"
)

// ErrNotFound indicates the catalog has no record for the requested ID.
var ErrNotFound = errors.New("tmdb: not found")

// maxErrorBodySize limits how much of an error response body is read
// for diagnostics.
const maxErrorBodySize = 64 * 1024 // 64KB

// Catalog is the read interface the engine depends on. Implemented by
// Client for production and by mocks in tests.
type Catalog interface {
	// GetMovieDetails fetches a movie with credits and keywords appended.
	GetMovieDetails(ctx context.Context, movieID int) (*MovieDetails, error)

	// GetSimilarMovies fetches movies similar to the given movie.
	GetSimilarMovies(ctx context.Context, movieID int) ([]Movie, error)

	// DiscoverMovies runs a filtered discovery query.
	DiscoverMovies(ctx context.Context, filter DiscoverFilter) ([]Movie, error)

	// SearchPerson searches people by name. Callers use the first match.
	SearchPerson(ctx context.Context, name string) ([]Person, error)

	// GetGenres fetches the movie genre taxonomy.
	GetGenres(ctx context.Context) ([]Genre, error)

	// GetPopularMovies fetches the currently popular list.
	GetPopularMovies(ctx context.Context) ([]Movie, error)
}

// Client is the production TMDB API client.
type Client struct {
	baseURL        string
	apiKey         string
	client         *http.Client
	limiter        *rate.Limiter
	maxRetries     int
	retryBaseDelay time.Duration
	logger         zerolog.Logger
}

// NewClient creates a TMDB client from configuration.
func NewClient(cfg *config.TMDBConfig) *Client {
	burst := int(cfg.RequestsPerSecond)
	if burst < 1 {
		burst = 1
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter:        rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst),
		maxRetries:     cfg.MaxRetries,
		retryBaseDelay: time.Second,
		logger:         logging.With().Str("component", "tmdb").Logger(),
	}
}

// GetMovieDetails fetches a movie with its credits and keyword tags in a
// single call using append_to_response.
func (c *Client) GetMovieDetails(ctx context.Context, movieID int) (*MovieDetails, error) {
	params := url.Values{}
	params.Set("append_to_response", "credits,keywords")

	var details MovieDetails
	if err := c.makeRequest(ctx, "movie_details", fmt.Sprintf("/movie/%d", movieID), params, &details); err != nil {
		return nil, err
	}

	sanitizeDetails(&details)
	return &details, nil
}

// GetSimilarMovies fetches the first page of movies similar to movieID.
func (c *Client) GetSimilarMovies(ctx context.Context, movieID int) ([]Movie, error) {
	var resp movieListResponse
	if err := c.makeRequest(ctx, "similar", fmt.Sprintf("/movie/%d/similar", movieID), nil, &resp); err != nil {
		return nil, err
	}
	return sanitizeAll(resp.Results), nil
}

// DiscoverMovies runs a filtered discovery query.
func (c *Client) DiscoverMovies(ctx context.Context, filter DiscoverFilter) ([]Movie, error) {
	params := url.Values{}

	if len(filter.GenreIDs) > 0 {
		params.Set("with_genres", joinIDs(filter.GenreIDs))
	}
	if len(filter.KeywordIDs) > 0 {
		params.Set("with_keywords", joinIDs(filter.KeywordIDs))
	}
	if filter.PersonID > 0 {
		params.Set("with_people", strconv.Itoa(filter.PersonID))
	}

	sortBy := filter.SortBy
	if sortBy == "" {
		sortBy = SortPopularityDesc
	}
	params.Set("sort_by", sortBy)

	if filter.MinVoteAverage > 0 {
		params.Set("vote_average.gte", strconv.FormatFloat(filter.MinVoteAverage, 'f', 1, 64))
	}
	if filter.MinVoteCount > 0 {
		params.Set("vote_count.gte", strconv.Itoa(filter.MinVoteCount))
	}
	if filter.MinReleaseYear > 0 {
		params.Set("primary_release_date.gte", fmt.Sprintf("%d-01-01", filter.MinReleaseYear))
	}

	var resp movieListResponse
	if err := c.makeRequest(ctx, "discover", "/discover/movie", params, &resp); err != nil {
		return nil, err
	}
	return sanitizeAll(resp.Results), nil
}

// SearchPerson searches people by name. Results keep the catalog's
// relevance order; callers that need exactly one person take the first.
func (c *Client) SearchPerson(ctx context.Context, name string) ([]Person, error) {
	params := url.Values{}
	params.Set("query", name)

	var resp personListResponse
	if err := c.makeRequest(ctx, "search_person", "/search/person", params, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// GetGenres fetches the movie genre taxonomy.
func (c *Client) GetGenres(ctx context.Context) ([]Genre, error) {
	var resp genreListResponse
	if err := c.makeRequest(ctx, "genres", "/genre/movie/list", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Genres, nil
}

// GetPopularMovies fetches the first page of the popular list.
func (c *Client) GetPopularMovies(ctx context.Context) ([]Movie, error) {
	var resp movieListResponse
	if err := c.makeRequest(ctx, "popular", "/movie/popular", nil, &resp); err != nil {
		return nil, err
	}
	return sanitizeAll(resp.Results), nil
}

// makeRequest handles the common request boilerplate: rate limiting, URL
// construction with API key, 429 backoff, status checking, and JSON
// decoding into result.
func (c *Client) makeRequest(ctx context.Context, operation, path string, params url.Values, result interface{}) error {
	start := time.Now()
	err := c.doRequest(ctx, path, params, result)
	metrics.CatalogRequestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())

	switch {
	case err == nil:
		metrics.CatalogRequests.WithLabelValues(operation, "success").Inc()
	case errors.Is(err, ErrNotFound):
		metrics.CatalogRequests.WithLabelValues(operation, "not_found").Inc()
	default:
		metrics.CatalogRequests.WithLabelValues(operation, "failure").Inc()
	}

	return err
}

func (c *Client) doRequest(ctx context.Context, path string, params url.Values, result interface{}) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	resp, err := c.doWithRateLimit(ctx, reqURL)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// fall through to decode
	case http.StatusNotFound:
		return ErrNotFound
	default:
		body := readBodyForError(resp.Body)
		return fmt.Errorf("tmdb %s returned HTTP %d: %s", path, resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}

	return nil
}

// doWithRateLimit performs the HTTP request honoring the client-side
// limiter and retrying HTTP 429 with exponential backoff
// (1s, 2s, 4s, 8s, 16s), capped at maxRetries.
func (c *Client) doWithRateLimit(ctx context.Context, reqURL string) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("http request failed: %w", err)
		}

		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}

		_ = resp.Body.Close() // retrying anyway

		if attempt == c.maxRetries {
			lastErr = fmt.Errorf("rate limit exceeded after %d retries (HTTP 429)", c.maxRetries)
			break
		}

		delay := c.retryBaseDelay * time.Duration(1<<uint(attempt))
		if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
			if seconds, err := time.ParseDuration(retryAfter + "s"); err == nil {
				delay = seconds
			}
		}

		c.logger.Warn().
			Int("attempt", attempt+1).
			Dur("delay", delay).
			Msg("catalog rate limited, backing off")

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, lastErr
}

// readBodyForError reads at most maxErrorBodySize of a response body for
// error reporting.
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("... (truncated)")...)
	}
	return body
}

// sanitizeAll sanitizes a movie list in place and returns it.
func sanitizeAll(movies []Movie) []Movie {
	for i := range movies {
		sanitizeMovie(&movies[i])
	}
	return movies
}

// joinIDs renders integer IDs as a comma-separated list, which the
// discover endpoint interprets as OR.
func joinIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}

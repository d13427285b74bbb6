// CineMatch - Personalized Movie Recommendation Service
// Copyright 2026 subzero0008
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/subzero0008/cinematch

package tmdb

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/subzero0008/cinematch/internal/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient(&config.TMDBConfig{
		BaseURL:           srv.URL,
		APIKey:            "test-key",
		Timeout:           5 * time.Second,
		RequestsPerSecond: 1000,
		MaxRetries:        2,
	})
	c.retryBaseDelay = time.Millisecond
	return c
}

func TestGetMovieDetails(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/movie/550" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("append_to_response"); got != "credits,keywords" {
			t.Errorf("Unexpected append_to_response: %s", got)
		}
		if got := r.URL.Query().Get("api_key"); got != "test-key" {
			t.Errorf("Unexpected api_key: %s", got)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": 550,
			"title": "Fight Club",
			"vote_average": 8.4,
			"genres": [{"id": 18, "name": "Drama"}],
			"credits": {
				"cast": [{"id": 819, "name": "Edward Norton", "order": 0}],
				"crew": [{"id": 7467, "name": "David Fincher", "job": "Director"}]
			},
			"keywords": {"keywords": [{"id": 818, "name": "based on novel or book"}]}
		}`))
	})

	d, err := client.GetMovieDetails(context.Background(), 550)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if d.Title != "Fight Club" || len(d.Genres) != 1 || d.Genres[0].Name != "Drama" {
		t.Errorf("Unexpected details: %+v", d)
	}
	if len(d.Credits.Crew) != 1 || d.Credits.Crew[0].Job != "Director" {
		t.Errorf("Unexpected crew: %+v", d.Credits.Crew)
	}
	if kw := d.KeywordList(); len(kw) != 1 || kw[0].ID != 818 {
		t.Errorf("Unexpected keywords: %+v", kw)
	}
}

func TestGetMovieDetailsSanitizesDefaults(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"id": 1, "vote_average": 99}`))
	})

	d, err := client.GetMovieDetails(context.Background(), 1)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if d.Title != "Untitled" {
		t.Errorf("Expected default title, got %q", d.Title)
	}
	if d.Genres == nil || d.Credits.Cast == nil || d.Credits.Crew == nil {
		t.Error("Expected nil slices to be defaulted")
	}
	if d.VoteAverage != 10 {
		t.Errorf("Expected vote average clamped to 10, got %f", d.VoteAverage)
	}
}

func TestGetMovieDetailsNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	if _, err := client.GetMovieDetails(context.Background(), 999); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestDiscoverMoviesQueryParams(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if got := q.Get("with_genres"); got != "28,35" {
			t.Errorf("Unexpected with_genres: %s", got)
		}
		if got := q.Get("sort_by"); got != SortVoteAverageDesc {
			t.Errorf("Unexpected sort_by: %s", got)
		}
		if got := q.Get("vote_average.gte"); got != "7.0" {
			t.Errorf("Unexpected vote_average.gte: %s", got)
		}
		if got := q.Get("primary_release_date.gte"); got != "2016-01-01" {
			t.Errorf("Unexpected primary_release_date.gte: %s", got)
		}
		_, _ = w.Write([]byte(`{"results": [{"id": 1, "title": "Hit"}]}`))
	})

	movies, err := client.DiscoverMovies(context.Background(), DiscoverFilter{
		GenreIDs:       []int{28, 35},
		SortBy:         SortVoteAverageDesc,
		MinVoteAverage: 7.0,
		MinReleaseYear: 2016,
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(movies) != 1 || movies[0].Title != "Hit" {
		t.Errorf("Unexpected movies: %+v", movies)
	}
}

func TestRetryOn429(t *testing.T) {
	attempts := 0
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"results": []}`))
	})

	if _, err := client.GetPopularMovies(context.Background()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if attempts != 2 {
		t.Errorf("Expected 2 attempts, got %d", attempts)
	}
}

func TestRetriesExhausted(t *testing.T) {
	attempts := 0
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		attempts++
		w.WriteHeader(http.StatusTooManyRequests)
	})

	if _, err := client.GetPopularMovies(context.Background()); err == nil {
		t.Fatal("Expected error after exhausted retries")
	}
	// maxRetries 2 means one initial attempt plus two retries.
	if attempts != 3 {
		t.Errorf("Expected 3 attempts, got %d", attempts)
	}
}

func TestServerErrorSurfacesBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"status_message": "boom"}`))
	})

	_, err := client.GetGenres(context.Background())
	if err == nil {
		t.Fatal("Expected error for HTTP 500")
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("Server error must not map to ErrNotFound")
	}
}

func TestSearchPerson(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("query"); got != "David Fincher" {
			t.Errorf("Unexpected query: %s", got)
		}
		_, _ = w.Write([]byte(`{"results": [{"id": 7467, "name": "David Fincher", "popularity": 3.1}]}`))
	})

	people, err := client.SearchPerson(context.Background(), "David Fincher")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(people) != 1 || people[0].ID != 7467 {
		t.Errorf("Unexpected people: %+v", people)
	}
}

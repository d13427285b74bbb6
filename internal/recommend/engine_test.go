// CineMatch - Personalized Movie Recommendation Service
// Copyright 2026 subzero0008
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/subzero0008/cinematch

package recommend

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/subzero0008/cinematch/internal/tmdb"
)

// mockCatalog is an in-memory Catalog backed by fixture maps.
type mockCatalog struct {
	details    map[int]*tmdb.MovieDetails
	similar    map[int][]tmdb.Movie
	discover   func(tmdb.DiscoverFilter) ([]tmdb.Movie, error)
	people     map[string][]tmdb.Person
	genres     []tmdb.Genre
	popular    []tmdb.Movie
	popularErr error
	genresErr  error
}

func (m *mockCatalog) GetMovieDetails(_ context.Context, movieID int) (*tmdb.MovieDetails, error) {
	if d, ok := m.details[movieID]; ok {
		return d, nil
	}
	return nil, tmdb.ErrNotFound
}

func (m *mockCatalog) GetSimilarMovies(_ context.Context, movieID int) ([]tmdb.Movie, error) {
	return m.similar[movieID], nil
}

func (m *mockCatalog) DiscoverMovies(_ context.Context, filter tmdb.DiscoverFilter) ([]tmdb.Movie, error) {
	if m.discover != nil {
		return m.discover(filter)
	}
	return nil, nil
}

func (m *mockCatalog) SearchPerson(_ context.Context, name string) ([]tmdb.Person, error) {
	return m.people[name], nil
}

func (m *mockCatalog) GetGenres(_ context.Context) ([]tmdb.Genre, error) {
	if m.genresErr != nil {
		return nil, m.genresErr
	}
	return m.genres, nil
}

func (m *mockCatalog) GetPopularMovies(_ context.Context) ([]tmdb.Movie, error) {
	if m.popularErr != nil {
		return nil, m.popularErr
	}
	return m.popular, nil
}

// mockRatings is a mutable in-memory RatingSource.
type mockRatings struct {
	signals map[string][]RatingSignal
	err     error
}

func (m *mockRatings) GetRatingsForUser(_ context.Context, userID string) ([]RatingSignal, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.signals[userID], nil
}

func movieFixture(id int, title string) tmdb.Movie {
	return tmdb.Movie{ID: id, Title: title, VoteAverage: 7.0}
}

func detailsFixture(id int, title string, genres []string, cast []string, director string, vote float64) *tmdb.MovieDetails {
	d := &tmdb.MovieDetails{ID: id, Title: title, VoteAverage: vote}
	for i, g := range genres {
		d.Genres = append(d.Genres, tmdb.Genre{ID: 100 + i, Name: g})
	}
	for i, c := range cast {
		d.Credits.Cast = append(d.Credits.Cast, tmdb.CastMember{ID: 200 + i, Name: c, Order: i})
	}
	if director != "" {
		d.Credits.Crew = append(d.Credits.Crew, tmdb.CrewMember{ID: 300, Name: director, Job: "Director"})
	}
	return d
}

// testCatalog builds a catalog where user "u1" has a clear Action taste
// and the strategies surface candidates 101-104.
func testCatalog() *mockCatalog {
	return &mockCatalog{
		details: map[int]*tmdb.MovieDetails{
			1:   detailsFixture(1, "Rated Action", []string{"Action"}, []string{"Alice"}, "Bob", 8.0),
			2:   detailsFixture(2, "Rated Comedy", []string{"Comedy"}, []string{"Carol"}, "Dan", 7.0),
			101: detailsFixture(101, "Similar One", []string{"Action"}, []string{"Alice"}, "Bob", 7.5),
			102: detailsFixture(102, "Similar Two", []string{"Action"}, []string{"Eve"}, "Frank", 6.5),
			103: detailsFixture(103, "Genre Pick", []string{"Action", "Comedy"}, []string{"Carol"}, "Dan", 7.0),
			104: detailsFixture(104, "Actor Pick", []string{"Drama"}, []string{"Alice"}, "Grace", 6.0),
		},
		similar: map[int][]tmdb.Movie{
			1: {movieFixture(101, "Similar One"), movieFixture(102, "Similar Two")},
		},
		people: map[string][]tmdb.Person{
			"Alice": {{ID: 7, Name: "Alice"}},
			"Bob":   {{ID: 8, Name: "Bob"}},
		},
		genres: []tmdb.Genre{
			{ID: 28, Name: "Action"},
			{ID: 35, Name: "Comedy"},
		},
		discover: func(filter tmdb.DiscoverFilter) ([]tmdb.Movie, error) {
			if len(filter.GenreIDs) > 0 {
				return []tmdb.Movie{movieFixture(103, "Genre Pick")}, nil
			}
			if filter.PersonID == 7 {
				return []tmdb.Movie{movieFixture(104, "Actor Pick")}, nil
			}
			return nil, nil
		},
		popular: []tmdb.Movie{movieFixture(501, "Popular One"), movieFixture(502, "Popular Two")},
	}
}

func testRatings() *mockRatings {
	return &mockRatings{
		signals: map[string][]RatingSignal{
			"u1": {
				{MovieID: 1, Value: 5, RatedAt: time.Now()},
				{MovieID: 2, Value: 4, RatedAt: time.Now()},
			},
		},
	}
}

func newTestEngine(t *testing.T, catalog tmdb.Catalog, source RatingSource) *Engine {
	t.Helper()
	e, err := New(catalog, source, DefaultConfig())
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	return e
}

func TestProfileWeightsNormalized(t *testing.T) {
	e := newTestEngine(t, testCatalog(), testRatings())

	profile, err := e.preferenceProfile(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// One 5-star Action rating (weight 2) and one 4-star Comedy (weight 1).
	if got := profile.Genres.Get("Action"); got != 100 {
		t.Errorf("Expected Action weight 100, got %d", got)
	}
	if got := profile.Genres.Get("Comedy"); got != 50 {
		t.Errorf("Expected Comedy weight 50, got %d", got)
	}
	if got := profile.TopGenres(); !reflect.DeepEqual(got, []string{"Action", "Comedy"}) {
		t.Errorf("Unexpected top genres: %v", got)
	}
	if got := profile.Seeds; len(got) == 0 || got[0] != 1 {
		t.Errorf("Expected highest-rated movie to lead seeds, got %v", got)
	}
}

func TestRecommendationsExcludeRatedMovies(t *testing.T) {
	e := newTestEngine(t, testCatalog(), testRatings())

	results := e.GetPersonalizedRecommendations(context.Background(), "u1", 10)
	if len(results) == 0 {
		t.Fatal("Expected recommendations")
	}
	for _, c := range results {
		if c.ID == 1 || c.ID == 2 {
			t.Errorf("Rated movie %d appeared in recommendations", c.ID)
		}
	}
}

func TestRecommendationsDeterministic(t *testing.T) {
	catalog := testCatalog()
	source := testRatings()

	first := newTestEngine(t, catalog, source).GetPersonalizedRecommendations(context.Background(), "u1", 10)
	second := newTestEngine(t, catalog, source).GetPersonalizedRecommendations(context.Background(), "u1", 10)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Expected identical results across runs:\n%v\n%v", first, second)
	}
}

func TestRecommendationsRespectCount(t *testing.T) {
	e := newTestEngine(t, testCatalog(), testRatings())

	results := e.GetPersonalizedRecommendations(context.Background(), "u1", 2)
	if len(results) > 2 {
		t.Errorf("Expected at most 2 results, got %d", len(results))
	}
}

func TestClampCount(t *testing.T) {
	e := newTestEngine(t, testCatalog(), testRatings())

	tests := []struct {
		in   int
		want int
	}{
		{0, 20},
		{-5, 1},
		{1, 1},
		{50, 50},
		{100, 100},
		{500, 100},
	}
	for _, tt := range tests {
		if got := e.clampCount(tt.in); got != tt.want {
			t.Errorf("clampCount(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestEmptyHistoryFallsBack(t *testing.T) {
	e := newTestEngine(t, testCatalog(), &mockRatings{signals: map[string][]RatingSignal{}})

	results := e.GetPersonalizedRecommendations(context.Background(), "nobody", 5)
	if len(results) == 0 {
		t.Fatal("Expected fallback recommendations for empty history")
	}
	for _, c := range results {
		if c.RelevanceScore != 0.5 {
			t.Errorf("Expected flat fallback score 0.5, got %f for movie %d", c.RelevanceScore, c.ID)
		}
	}
}

func TestStaticFallbackWhenCatalogDown(t *testing.T) {
	catalog := testCatalog()
	catalog.popularErr = errors.New("catalog unavailable")
	e := newTestEngine(t, catalog, &mockRatings{signals: map[string][]RatingSignal{}})

	results := e.GetPersonalizedRecommendations(context.Background(), "nobody", 5)
	if len(results) != 5 {
		t.Fatalf("Expected 5 static results, got %d", len(results))
	}
	if results[0].ID != staticFallback[0].ID {
		t.Errorf("Expected static list ordering, got leading ID %d", results[0].ID)
	}
}

func TestRatingSourceErrorFallsBack(t *testing.T) {
	e := newTestEngine(t, testCatalog(), &mockRatings{err: errors.New("store down")})

	results := e.GetPersonalizedRecommendations(context.Background(), "u1", 5)
	if len(results) == 0 {
		t.Fatal("Expected fallback recommendations when rating source fails")
	}
}

func TestInvalidateUserRebuildsProfile(t *testing.T) {
	catalog := testCatalog()
	source := testRatings()
	e := newTestEngine(t, catalog, source)

	before, err := e.preferenceProfile(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got := before.TopGenres()[0]; got != "Action" {
		t.Fatalf("Expected Action to lead, got %s", got)
	}

	// Shift the user's taste toward Comedy.
	source.signals["u1"] = []RatingSignal{
		{MovieID: 2, Value: 5, RatedAt: time.Now()},
	}

	// Without invalidation the stale cached profile is reused.
	stale, err := e.preferenceProfile(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got := stale.TopGenres()[0]; got != "Action" {
		t.Fatalf("Expected cached profile before invalidation, got %s", got)
	}

	e.InvalidateUser("u1")

	fresh, err := e.preferenceProfile(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got := fresh.TopGenres()[0]; got != "Comedy" {
		t.Errorf("Expected rebuilt profile to lead with Comedy, got %s", got)
	}
}

func TestAdminRecommendationsCached(t *testing.T) {
	catalog := testCatalog()
	source := testRatings()
	e := newTestEngine(t, catalog, source)

	first := e.GetAdminRecommendations(context.Background(), "u1", 10)
	if len(first) == 0 {
		t.Fatal("Expected admin recommendations")
	}

	// Shifted ratings must not affect the cached admin result.
	source.signals["u1"] = nil
	second := e.GetAdminRecommendations(context.Background(), "u1", 10)
	if !reflect.DeepEqual(first, second) {
		t.Error("Expected cached admin results to be reused")
	}

	e.InvalidateUser("u1")
	third := e.GetAdminRecommendations(context.Background(), "u1", 10)
	if reflect.DeepEqual(first, third) {
		t.Error("Expected invalidation to drop cached admin results")
	}
}

func TestFirstStrategyWinsDedup(t *testing.T) {
	catalog := testCatalog()
	// The genre strategy also returns 101, which the similar strategy
	// already introduced.
	catalog.discover = func(filter tmdb.DiscoverFilter) ([]tmdb.Movie, error) {
		if len(filter.GenreIDs) > 0 {
			return []tmdb.Movie{movieFixture(101, "Similar One"), movieFixture(103, "Genre Pick")}, nil
		}
		return nil, nil
	}
	e := newTestEngine(t, catalog, testRatings())

	profile, err := e.preferenceProfile(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	candidates := e.generateCandidates(context.Background(), profile)
	for _, c := range candidates {
		if c.ID == 101 && c.Strategy != StrategySimilar {
			t.Errorf("Expected similar strategy to keep movie 101, got %s", c.Strategy)
		}
	}
}

// CineMatch - Personalized Movie Recommendation Service
// Copyright 2026 subzero0008
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/subzero0008/cinematch

package survey

import (
	"context"
	"reflect"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"github.com/subzero0008/cinematch/internal/cache"
	"github.com/subzero0008/cinematch/internal/logging"
	"github.com/subzero0008/cinematch/internal/metrics"
	"github.com/subzero0008/cinematch/internal/tmdb"
	"github.com/subzero0008/cinematch/internal/validation"
)

const (
	resultCacheMaxEntries = 5000
	topBilledCast         = 5
)

// Config holds survey path tuning.
type Config struct {
	// ResultCacheTTL bounds how long a full computed response is reused.
	ResultCacheTTL time.Duration

	// MaxResults caps how many movies one response carries.
	MaxResults int

	// EnrichConcurrency caps parallel detail lookups.
	EnrichConcurrency int
}

// DefaultConfig returns the production survey tuning.
func DefaultConfig() Config {
	return Config{
		ResultCacheTTL:    time.Hour,
		MaxResults:        20,
		EnrichConcurrency: 8,
	}
}

// Service answers survey discovery requests. Safe for concurrent use.
type Service struct {
	catalog tmdb.Catalog
	cfg     Config
	results *cache.Cache[string, *Response]
	sem     *semaphore.Weighted
	logger  zerolog.Logger

	// clock overrides time.Now in tests.
	clock func() time.Time
}

// New creates a survey Service backed by the given catalog.
func New(catalog tmdb.Catalog, cfg Config) *Service {
	if cfg.MaxResults < 1 {
		cfg.MaxResults = DefaultConfig().MaxResults
	}
	if cfg.EnrichConcurrency < 1 {
		cfg.EnrichConcurrency = DefaultConfig().EnrichConcurrency
	}
	if cfg.ResultCacheTTL <= 0 {
		cfg.ResultCacheTTL = DefaultConfig().ResultCacheTTL
	}

	return &Service{
		catalog: catalog,
		cfg:     cfg,
		results: cache.New[string, *Response](cfg.ResultCacheTTL, resultCacheMaxEntries),
		sem:     semaphore.NewWeighted(int64(cfg.EnrichConcurrency)),
		logger:  logging.With().Str("component", "survey").Logger(),
	}
}

// GetSurveyRecommendations maps the request to discovery filters,
// relaxes them in the fixed order when nothing matches, and returns
// enriched movies with explanations. An exhausted relaxation chain is a
// legitimate empty response, not an error; only invalid input fails.
func (s *Service) GetSurveyRecommendations(ctx context.Context, req *Request) (*Response, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, err
	}

	metrics.RecommendRequests.WithLabelValues("survey").Inc()

	key := cache.GenerateKey("survey", req)
	if resp, ok := s.results.Get(key); ok {
		metrics.CacheHits.WithLabelValues("survey").Inc()
		return resp, nil
	}
	metrics.CacheMisses.WithLabelValues("survey").Inc()

	taxonomy, err := s.genreTaxonomy(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Genre taxonomy lookup failed, returning empty survey result")
		return emptyResponse(), nil
	}

	movies, used, ok := s.discoverWithRelaxation(ctx, req, taxonomy)
	if !ok {
		return emptyResponse(), nil
	}

	resp := emptyResponse()
	if len(movies) > 0 {
		if len(movies) > s.cfg.MaxResults {
			movies = movies[:s.cfg.MaxResults]
		}
		resp.Movies = s.enrich(ctx, movies, taxonomy)
		for _, m := range resp.Movies {
			resp.Explanations[m.ID] = buildExplanation(req, used, &m)
		}
	}

	s.results.Set(key, resp)
	return resp, nil
}

// discoverWithRelaxation runs the strict query and up to two relaxation
// retries. The third return value is false when the catalog itself
// failed, which short-circuits to an empty response.
func (s *Service) discoverWithRelaxation(ctx context.Context, req *Request, taxonomy map[string]int) ([]tmdb.Movie, filterSpec, bool) {
	type attempt struct {
		withRating   bool
		withOccasion bool
		relaxStep    string
	}

	attempts := []attempt{{withRating: true, withOccasion: true}}
	if req.IsRatingImportant {
		attempts = append(attempts, attempt{withRating: false, withOccasion: true, relaxStep: "rating"})
	}
	attempts = append(attempts, attempt{withRating: false, withOccasion: false, relaxStep: "occasion"})

	var prev filterSpec
	for i, at := range attempts {
		spec := s.buildFilter(req, taxonomy, at.withRating, at.withOccasion)
		if i > 0 && reflect.DeepEqual(spec.filter, prev.filter) {
			// Relaxing removed nothing, the query would be identical.
			continue
		}
		prev = spec

		if at.relaxStep != "" {
			metrics.SurveyRelaxations.WithLabelValues(at.relaxStep).Inc()
			s.logger.Debug().Str("step", at.relaxStep).Msg("Relaxing survey filters")
		}

		movies, err := s.catalog.DiscoverMovies(ctx, spec.filter)
		if err != nil {
			s.logger.Warn().Err(err).Msg("Survey discovery failed, returning empty result")
			return nil, filterSpec{}, false
		}
		if len(movies) > 0 {
			return movies, spec, true
		}
	}

	return nil, prev, true
}

// genreTaxonomy fetches the genre name-to-ID map. The survey path leans
// on the engine-wide catalog breaker for protection and the result cache
// for reuse, so the taxonomy itself is not cached here.
func (s *Service) genreTaxonomy(ctx context.Context) (map[string]int, error) {
	genres, err := s.catalog.GetGenres(ctx)
	if err != nil {
		return nil, err
	}
	taxonomy := make(map[string]int, len(genres))
	for _, g := range genres {
		taxonomy[g.Name] = g.ID
	}
	return taxonomy, nil
}

// enrich fetches details for each movie with bounded concurrency. A
// failed lookup degrades to the list-shape fields with genre IDs mapped
// through the taxonomy.
func (s *Service) enrich(ctx context.Context, movies []tmdb.Movie, taxonomy map[string]int) []Movie {
	details := make([]*tmdb.MovieDetails, len(movies))

	var wg sync.WaitGroup
	for i, m := range movies {
		if err := s.sem.Acquire(ctx, 1); err != nil {
			break
		}
		wg.Add(1)
		go func(i, id int) {
			defer wg.Done()
			defer s.sem.Release(1)

			d, err := s.catalog.GetMovieDetails(ctx, id)
			if err != nil {
				metrics.EnrichmentSkips.Inc()
				s.logger.Debug().Err(err).Int("movie_id", id).Msg("Survey enrichment failed, keeping partial data")
				return
			}
			details[i] = d
		}(i, m.ID)
	}
	wg.Wait()

	idToName := make(map[int]string, len(taxonomy))
	for name, id := range taxonomy {
		idToName[id] = name
	}

	out := make([]Movie, 0, len(movies))
	for i, m := range movies {
		if d := details[i]; d != nil {
			out = append(out, movieFromDetails(d))
			continue
		}
		out = append(out, movieFromList(&m, idToName))
	}
	return out
}

// movieFromDetails projects a full detail record.
func movieFromDetails(d *tmdb.MovieDetails) Movie {
	genres := make([]string, 0, len(d.Genres))
	for _, g := range d.Genres {
		genres = append(genres, g.Name)
	}

	cast := make([]tmdb.CastMember, len(d.Credits.Cast))
	copy(cast, d.Credits.Cast)
	sort.SliceStable(cast, func(i, j int) bool { return cast[i].Order < cast[j].Order })
	if len(cast) > topBilledCast {
		cast = cast[:topBilledCast]
	}
	castNames := make([]string, 0, len(cast))
	for _, c := range cast {
		castNames = append(castNames, c.Name)
	}

	directors := []string{}
	for _, c := range d.Credits.Crew {
		if c.Job == "Director" {
			directors = append(directors, c.Name)
		}
	}

	return Movie{
		ID:          d.ID,
		Title:       d.Title,
		Overview:    d.Overview,
		ReleaseDate: d.ReleaseDate,
		PosterPath:  d.PosterPath,
		Genres:      genres,
		Cast:        castNames,
		Directors:   directors,
		VoteAverage: d.VoteAverage,
	}
}

// movieFromList projects a list-shape movie when enrichment failed.
func movieFromList(m *tmdb.Movie, idToName map[int]string) Movie {
	genres := []string{}
	for _, id := range m.GenreIDs {
		if name, ok := idToName[id]; ok {
			genres = append(genres, name)
		}
	}

	return Movie{
		ID:          m.ID,
		Title:       m.Title,
		Overview:    m.Overview,
		ReleaseDate: m.ReleaseDate,
		PosterPath:  m.PosterPath,
		Genres:      genres,
		Cast:        []string{},
		Directors:   []string{},
		VoteAverage: m.VoteAverage,
	}
}

func emptyResponse() *Response {
	return &Response{
		Movies:       []Movie{},
		Explanations: map[int]string{},
	}
}

// CineMatch - Personalized Movie Recommendation Service
// Copyright 2026 subzero0008
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/subzero0008/cinematch

package recommend

import (
	"context"

	"github.com/subzero0008/cinematch/internal/metrics"
	"github.com/subzero0008/cinematch/internal/tmdb"
)

// Strategy names, in the order strategies run. When two strategies
// surface the same movie, the earlier strategy keeps it.
const (
	StrategySimilar  = "similar"
	StrategyGenre    = "genre"
	StrategyActor    = "actor"
	StrategyDirector = "director"
)

// genreTaxonomyKey is the single cache key for the genre name-to-ID map.
const genreTaxonomyKey = "taxonomy"

// rawCandidate is a discovered movie before enrichment and scoring.
type rawCandidate struct {
	movie      tmdb.Movie
	strategy   string
	multiplier float64
}

// generateCandidates runs the four discovery strategies against the
// profile and returns the deduplicated, enriched candidate pool. A
// failing strategy is logged and skipped; generation never fails as a
// whole.
func (e *Engine) generateCandidates(ctx context.Context, profile *PreferenceProfile) []CandidateMovie {
	var raw []rawCandidate
	seen := make(map[int]bool)

	add := func(movies []tmdb.Movie, strategy string, multiplier float64, limit int) {
		taken := 0
		for _, m := range movies {
			if taken >= limit {
				break
			}
			if m.ID == 0 || seen[m.ID] {
				continue
			}
			seen[m.ID] = true
			raw = append(raw, rawCandidate{movie: m, strategy: strategy, multiplier: multiplier})
			taken++
		}
	}

	// The similar limit applies per seed, not across the strategy.
	for _, seed := range profile.Seeds {
		add(e.similarToSeed(ctx, seed), StrategySimilar, e.cfg.SimilarMultiplier, e.cfg.SimilarLimit)
	}
	add(e.discoverByGenres(ctx, profile.TopGenres()), StrategyGenre, e.cfg.GenreMultiplier, e.cfg.GenreLimit)
	add(e.discoverByPerson(ctx, first(profile.TopActors()), StrategyActor), StrategyActor, e.cfg.ActorMultiplier, e.cfg.ActorLimit)
	add(e.discoverByPerson(ctx, first(profile.TopDirectors()), StrategyDirector), StrategyDirector, e.cfg.DirectorMultiplier, e.cfg.DirectorLimit)

	metrics.CandidatesGenerated.Observe(float64(len(raw)))

	return e.enrichCandidates(ctx, raw)
}

// similarToSeed fetches the similar-movie list for one seed.
func (e *Engine) similarToSeed(ctx context.Context, seed int) []tmdb.Movie {
	similar, err := e.catalog.GetSimilarMovies(ctx, seed)
	if err != nil {
		e.logger.Warn().Err(err).Int("seed_id", seed).Msg("Similar lookup failed")
		return nil
	}
	return similar
}

// discoverByGenres discovers popular movies matching the user's top
// genres. Genre names that are missing from the taxonomy are dropped.
func (e *Engine) discoverByGenres(ctx context.Context, names []string) []tmdb.Movie {
	if len(names) == 0 {
		return nil
	}

	taxonomy, err := e.genreTaxonomy(ctx)
	if err != nil {
		e.logger.Warn().Err(err).Msg("Genre taxonomy lookup failed")
		return nil
	}

	var ids []int
	for _, name := range names {
		if id, ok := taxonomy[name]; ok {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	movies, err := e.catalog.DiscoverMovies(ctx, tmdb.DiscoverFilter{
		GenreIDs: ids,
		SortBy:   tmdb.SortPopularityDesc,
	})
	if err != nil {
		e.logger.Warn().Err(err).Msg("Genre discovery failed")
		return nil
	}
	return movies
}

// discoverByPerson resolves a person name to the first search match and
// discovers their movies.
func (e *Engine) discoverByPerson(ctx context.Context, name, strategy string) []tmdb.Movie {
	if name == "" {
		return nil
	}

	people, err := e.catalog.SearchPerson(ctx, name)
	if err != nil {
		e.logger.Warn().Err(err).Str("strategy", strategy).Str("person", name).Msg("Person search failed")
		return nil
	}
	if len(people) == 0 {
		return nil
	}

	movies, err := e.catalog.DiscoverMovies(ctx, tmdb.DiscoverFilter{
		PersonID: people[0].ID,
		SortBy:   tmdb.SortPopularityDesc,
	})
	if err != nil {
		e.logger.Warn().Err(err).Str("strategy", strategy).Str("person", name).Msg("Person discovery failed")
		return nil
	}
	return movies
}

// genreTaxonomy returns the genre name-to-ID map, cached because the
// taxonomy changes rarely.
func (e *Engine) genreTaxonomy(ctx context.Context) (map[string]int, error) {
	if taxonomy, ok := e.genres.Get(genreTaxonomyKey); ok {
		metrics.CacheHits.WithLabelValues("genres").Inc()
		return taxonomy, nil
	}
	metrics.CacheMisses.WithLabelValues("genres").Inc()

	genres, err := e.catalog.GetGenres(ctx)
	if err != nil {
		return nil, err
	}

	taxonomy := make(map[string]int, len(genres))
	for _, g := range genres {
		taxonomy[g.Name] = g.ID
	}

	e.genres.Set(genreTaxonomyKey, taxonomy)
	return taxonomy, nil
}

// enrichCandidates fetches full details for each raw candidate and
// converts the survivors into scoreable candidates. Enrichment failures
// drop the candidate.
func (e *Engine) enrichCandidates(ctx context.Context, raw []rawCandidate) []CandidateMovie {
	ids := make([]int, len(raw))
	for i, rc := range raw {
		ids[i] = rc.movie.ID
	}

	details := e.fetchDetails(ctx, ids)

	candidates := make([]CandidateMovie, 0, len(raw))
	for i, rc := range raw {
		d := details[i]
		if d == nil {
			continue
		}
		candidates = append(candidates, candidateFromDetails(d, rc.strategy, rc.multiplier, i))
	}
	return candidates
}

// candidateFromDetails projects a detail record into a candidate.
func candidateFromDetails(d *tmdb.MovieDetails, strategy string, multiplier float64, order int) CandidateMovie {
	genres := make([]string, 0, len(d.Genres))
	for _, g := range d.Genres {
		genres = append(genres, g.Name)
	}

	billed := topBilled(d.Credits.Cast)
	cast := make([]string, 0, len(billed))
	for _, c := range billed {
		cast = append(cast, c.Name)
	}

	var directors []string
	for _, c := range d.Credits.Crew {
		if c.Job == "Director" {
			directors = append(directors, c.Name)
		}
	}
	if directors == nil {
		directors = []string{}
	}

	return CandidateMovie{
		ID:          d.ID,
		Title:       d.Title,
		Overview:    d.Overview,
		ReleaseDate: d.ReleaseDate,
		PosterPath:  d.PosterPath,
		Genres:      genres,
		Cast:        cast,
		Directors:   directors,
		VoteAverage: d.VoteAverage,
		Strategy:    strategy,
		multiplier:  multiplier,
		order:       order,
	}
}

// first returns the first element of a slice, or "" when empty.
func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

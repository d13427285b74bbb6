// CineMatch - Personalized Movie Recommendation Service
// Copyright 2026 subzero0008
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/subzero0008/cinematch

package recommend

import (
	"context"

	"github.com/subzero0008/cinematch/internal/metrics"
)

// staticFallback is the last-resort result set, returned when the
// catalog itself is unreachable. Widely known, highly rated titles.
var staticFallback = []CandidateMovie{
	{ID: 278, Title: "The Shawshank Redemption", ReleaseDate: "1994-09-23", VoteAverage: 8.7},
	{ID: 238, Title: "The Godfather", ReleaseDate: "1972-03-14", VoteAverage: 8.7},
	{ID: 155, Title: "The Dark Knight", ReleaseDate: "2008-07-16", VoteAverage: 8.5},
	{ID: 680, Title: "Pulp Fiction", ReleaseDate: "1994-09-10", VoteAverage: 8.5},
	{ID: 13, Title: "Forrest Gump", ReleaseDate: "1994-06-23", VoteAverage: 8.5},
	{ID: 27205, Title: "Inception", ReleaseDate: "2010-07-15", VoteAverage: 8.4},
	{ID: 550, Title: "Fight Club", ReleaseDate: "1999-10-15", VoteAverage: 8.4},
	{ID: 603, Title: "The Matrix", ReleaseDate: "1999-03-31", VoteAverage: 8.2},
	{ID: 769, Title: "GoodFellas", ReleaseDate: "1990-09-12", VoteAverage: 8.5},
	{ID: 157336, Title: "Interstellar", ReleaseDate: "2014-11-05", VoteAverage: 8.4},
}

// fallbackRecommendations degrades through two tiers and never fails:
// currently-popular catalog items first, then a hardcoded list when the
// catalog is down. Every fallback result carries a flat relevance score.
func (e *Engine) fallbackRecommendations(ctx context.Context, count int) []CandidateMovie {
	popular, err := e.catalog.GetPopularMovies(ctx)
	if err != nil || len(popular) == 0 {
		if err != nil {
			e.logger.Warn().Err(err).Msg("Popular fallback failed, serving static list")
		}
		metrics.FallbackActivations.WithLabelValues("static").Inc()
		return e.staticRecommendations(count)
	}

	metrics.FallbackActivations.WithLabelValues("popular").Inc()

	if len(popular) > count {
		popular = popular[:count]
	}

	ids := make([]int, len(popular))
	for i, m := range popular {
		ids[i] = m.ID
	}
	details := e.fetchDetails(ctx, ids)

	results := make([]CandidateMovie, 0, len(popular))
	for i, m := range popular {
		var c CandidateMovie
		if d := details[i]; d != nil {
			c = candidateFromDetails(d, "", 0, i)
		} else {
			// Partial data from the list shape is better than dropping
			// the entry on a fallback path.
			c = CandidateMovie{
				ID:          m.ID,
				Title:       m.Title,
				Overview:    m.Overview,
				ReleaseDate: m.ReleaseDate,
				PosterPath:  m.PosterPath,
				VoteAverage: m.VoteAverage,
				Genres:      []string{},
				Cast:        []string{},
				Directors:   []string{},
			}
		}
		c.Strategy = ""
		c.RelevanceScore = e.cfg.FallbackScore
		results = append(results, c)
	}
	return results
}

// staticRecommendations returns up to count entries from the hardcoded
// list with the flat fallback score applied.
func (e *Engine) staticRecommendations(count int) []CandidateMovie {
	n := len(staticFallback)
	if n > count {
		n = count
	}

	results := make([]CandidateMovie, n)
	copy(results, staticFallback[:n])
	for i := range results {
		results[i].RelevanceScore = e.cfg.FallbackScore
		if results[i].Genres == nil {
			results[i].Genres = []string{}
		}
		if results[i].Cast == nil {
			results[i].Cast = []string{}
		}
		if results[i].Directors == nil {
			results[i].Directors = []string{}
		}
	}
	return results
}

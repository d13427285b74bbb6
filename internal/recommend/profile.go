// CineMatch - Personalized Movie Recommendation Service
// Copyright 2026 subzero0008
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/subzero0008/cinematch

package recommend

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/subzero0008/cinematch/internal/metrics"
	"github.com/subzero0008/cinematch/internal/tmdb"
)

// topBilledCast is how many leading cast members feed the actor facet.
const topBilledCast = 5

// preferenceProfile returns the user's profile from cache, building and
// caching it on a miss.
func (e *Engine) preferenceProfile(ctx context.Context, userID string) (*PreferenceProfile, error) {
	if profile, ok := e.profiles.Get(userID); ok {
		metrics.CacheHits.WithLabelValues("profile").Inc()
		return profile, nil
	}
	metrics.CacheMisses.WithLabelValues("profile").Inc()

	profile, err := e.buildProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	e.profiles.Set(userID, profile)
	return profile, nil
}

// buildProfile constructs a preference profile from the user's high-rated
// history. Movies rated 5 stars weigh twice as much as those rated 4 or
// 4.5. Detail lookups that fail are skipped rather than failing the
// whole profile.
func (e *Engine) buildProfile(ctx context.Context, userID string) (*PreferenceProfile, error) {
	signals, err := e.ratings.GetRatingsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load ratings for user %s: %w", userID, err)
	}

	high := make([]RatingSignal, 0, len(signals))
	for _, s := range signals {
		if s.Value >= highRatedThreshold {
			high = append(high, s)
		}
	}

	// Highest rating first; equal ratings keep store order so the
	// profile is deterministic for a fixed history.
	sort.SliceStable(high, func(i, j int) bool {
		return high[i].Value > high[j].Value
	})

	profile := NewPreferenceProfile()
	profile.BuiltAt = time.Now().UTC()

	if len(high) == 0 {
		return profile, nil
	}

	for i, s := range high {
		if i >= e.cfg.SeedCount {
			break
		}
		profile.Seeds = append(profile.Seeds, s.MovieID)
	}

	details := e.fetchDetails(ctx, movieIDs(high))
	for i, s := range high {
		d := details[i]
		if d == nil {
			continue
		}
		accumulateFacets(profile, d, facetWeight(s.Value))
	}

	profile.Genres.Normalize()
	profile.Actors.Normalize()
	profile.Directors.Normalize()
	profile.Keywords.Normalize()

	e.logger.Debug().
		Str("user_id", userID).
		Int("high_rated", len(high)).
		Int("genres", profile.Genres.Len()).
		Int("actors", profile.Actors.Len()).
		Int("directors", profile.Directors.Len()).
		Int("keywords", profile.Keywords.Len()).
		Msg("Built preference profile")

	return profile, nil
}

// facetWeight maps a star rating to its facet contribution.
func facetWeight(value float64) int {
	if value == 5 {
		return 2
	}
	return 1
}

func movieIDs(signals []RatingSignal) []int {
	ids := make([]int, len(signals))
	for i, s := range signals {
		ids[i] = s.MovieID
	}
	return ids
}

// accumulateFacets folds one movie's metadata into the profile at the
// given weight.
func accumulateFacets(profile *PreferenceProfile, d *tmdb.MovieDetails, weight int) {
	for _, g := range d.Genres {
		profile.Genres.Add(g.Name, weight)
	}
	for _, c := range topBilled(d.Credits.Cast) {
		profile.Actors.Add(c.Name, weight)
	}
	for _, c := range d.Credits.Crew {
		if c.Job == "Director" {
			profile.Directors.Add(c.Name, weight)
		}
	}
	for _, k := range d.KeywordList() {
		profile.Keywords.Add(k.Name, weight)
	}
}

// topBilled returns the first topBilledCast cast members by billing order.
func topBilled(cast []tmdb.CastMember) []tmdb.CastMember {
	sorted := make([]tmdb.CastMember, len(cast))
	copy(sorted, cast)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Order < sorted[j].Order
	})
	if len(sorted) > topBilledCast {
		sorted = sorted[:topBilledCast]
	}
	return sorted
}

// fetchDetails looks up details for each movie ID with bounded
// concurrency. The result slice is positionally aligned with ids; failed
// lookups leave a nil entry and increment the skip counter.
func (e *Engine) fetchDetails(ctx context.Context, ids []int) []*tmdb.MovieDetails {
	results := make([]*tmdb.MovieDetails, len(ids))

	var wg sync.WaitGroup
	for i, id := range ids {
		if err := e.sem.Acquire(ctx, 1); err != nil {
			break
		}
		wg.Add(1)
		go func(i, id int) {
			defer wg.Done()
			defer e.sem.Release(1)

			d, err := e.catalog.GetMovieDetails(ctx, id)
			if err != nil {
				metrics.EnrichmentSkips.Inc()
				e.logger.Debug().Err(err).Int("movie_id", id).Msg("Skipping movie details")
				return
			}
			results[i] = d
		}(i, id)
	}
	wg.Wait()

	return results
}

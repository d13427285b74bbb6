// CineMatch - Personalized Movie Recommendation Service
// Copyright 2026 subzero0008
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/subzero0008/cinematch

package recommend

// Score computes the [0,1] relevance of a candidate against a profile.
//
// Four factors contribute: genre match, actor match, director match, and
// the catalog rating. Each facet's raw sum is bounded by the profile's
// max weight in that facet, then scaled by the factor weight. Facets the
// profile has no data for are omitted from both the numerator and the
// denominator, so a sparse profile renormalizes over the factors it does
// have instead of under-scoring everything. The strategy multiplier is
// applied last.
func (e *Engine) Score(candidate *CandidateMovie, profile *PreferenceProfile) float64 {
	num := 0.0
	denom := 0.0

	if max := profile.Genres.Max(); max > 0 {
		num += facetMatch(profile.Genres, candidate.Genres, max) * e.cfg.GenreWeight
		denom += e.cfg.GenreWeight
	}
	if max := profile.Actors.Max(); max > 0 {
		num += facetMatch(profile.Actors, candidate.Cast, max) * e.cfg.ActorWeight
		denom += e.cfg.ActorWeight
	}
	if max := profile.Directors.Max(); max > 0 {
		num += facetMatch(profile.Directors, candidate.Directors, max) * e.cfg.DirectorWeight
		denom += e.cfg.DirectorWeight
	}

	num += (candidate.VoteAverage / 10) * e.cfg.RatingWeight
	denom += e.cfg.RatingWeight

	if denom == 0 {
		return 0
	}

	score := num / denom
	if candidate.multiplier > 0 {
		score *= candidate.multiplier
	}
	return score
}

// facetMatch sums the profile weights of the candidate values and bounds
// the result to [0,1] against the facet's max weight.
func facetMatch(weights *WeightMap, values []string, max int) float64 {
	sum := 0
	for _, v := range values {
		sum += weights.Get(v)
	}
	match := float64(sum) / float64(max)
	if match > 1 {
		match = 1
	}
	return match
}

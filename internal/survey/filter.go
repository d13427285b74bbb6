// CineMatch - Personalized Movie Recommendation Service
// Copyright 2026 subzero0008
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/subzero0008/cinematch

package survey

import (
	"time"

	"github.com/subzero0008/cinematch/internal/tmdb"
)

// minVoteAverage applies when the viewer marked rating as important.
const minVoteAverage = 7.0

// minVoteCount keeps obscure titles out of rating-sorted discovery,
// where a handful of votes would otherwise dominate.
const minVoteCount = 200

// filterSpec records which constraints a built filter actually applied,
// for explanation generation after relaxation.
type filterSpec struct {
	filter tmdb.DiscoverFilter

	genres       []string
	impliedGenre string
	withRating   bool
	withOccasion bool
	minYear      int
	themes       []string
}

// buildFilter maps the request to discovery parameters. The withRating
// and withOccasion switches implement the fixed relaxation order: the
// first retry drops the rating constraint, the second additionally
// drops the occasion constraint.
func (s *Service) buildFilter(req *Request, taxonomy map[string]int, withRating, withOccasion bool) filterSpec {
	spec := filterSpec{
		withRating:   withRating && req.IsRatingImportant,
		withOccasion: withOccasion,
	}

	for _, name := range req.Genres {
		if id, ok := taxonomy[name]; ok {
			spec.filter.GenreIDs = append(spec.filter.GenreIDs, id)
			spec.genres = append(spec.genres, name)
		}
	}
	if withOccasion {
		if implied, ok := occasionGenres[req.Occasion]; ok {
			if id, ok := taxonomy[implied]; ok {
				spec.filter.GenreIDs = append(spec.filter.GenreIDs, id)
				spec.impliedGenre = implied
			}
		}
	}

	for _, theme := range req.Themes {
		if id, ok := themeKeywords[theme]; ok {
			spec.filter.KeywordIDs = append(spec.filter.KeywordIDs, id)
			spec.themes = append(spec.themes, theme)
		}
	}

	if spec.withRating {
		spec.filter.MinVoteAverage = minVoteAverage
		spec.filter.MinVoteCount = minVoteCount
	}

	if year := s.minReleaseYear(req); year > 0 {
		spec.filter.MinReleaseYear = year
		spec.minYear = year
	}

	spec.filter.SortBy = s.sortOrder(req, withRating, withOccasion)
	return spec
}

// sortOrder picks rating-first when rating matters, popularity for group
// occasions, and recency otherwise.
func (s *Service) sortOrder(req *Request, withRating, withOccasion bool) string {
	if withRating && req.IsRatingImportant {
		return tmdb.SortVoteAverageDesc
	}
	if withOccasion && groupOccasions[req.Occasion] {
		return tmdb.SortPopularityDesc
	}
	return tmdb.SortReleaseDateDesc
}

// minReleaseYear resolves the age preference to a release-year floor.
// "Doesn't matter" and the Classic Cinema theme disable the floor.
func (s *Service) minReleaseYear(req *Request) int {
	years, ok := agePreferenceYears[req.AgePreference]
	if !ok {
		return 0
	}
	for _, theme := range req.Themes {
		if theme == ThemeClassicCinema {
			return 0
		}
	}
	return s.now().Year() - years
}

// now is stubbed in tests to pin the release-year arithmetic.
func (s *Service) now() time.Time {
	if s.clock != nil {
		return s.clock()
	}
	return time.Now()
}

// CineMatch - Personalized Movie Recommendation Service
// Copyright 2026 subzero0008
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/subzero0008/cinematch

package survey

import (
	"fmt"
	"strings"
)

// buildExplanation concatenates the criteria that actually shaped the
// result into one human-readable justification. Constraints dropped by
// relaxation are not mentioned.
func buildExplanation(req *Request, used filterSpec, m *Movie) string {
	var parts []string

	if req.Mood != "" {
		parts = append(parts, fmt.Sprintf("fits your %s mood", req.Mood))
	}
	if used.withOccasion && req.Occasion != "" {
		parts = append(parts, fmt.Sprintf("a good pick for %s", req.Occasion))
	}

	if matched := matchedGenres(used.genres, m.Genres); len(matched) > 0 {
		parts = append(parts, "matches your taste for "+joinNatural(matched))
	} else if len(used.genres) > 0 {
		parts = append(parts, "picked for "+joinNatural(used.genres))
	}
	if used.impliedGenre != "" {
		parts = append(parts, fmt.Sprintf("%s-friendly for the occasion", used.impliedGenre))
	}

	if used.minYear > 0 {
		parts = append(parts, fmt.Sprintf("released in %d or later", used.minYear))
	}
	if used.withRating {
		parts = append(parts, fmt.Sprintf("highly rated at %.1f/10", m.VoteAverage))
	}
	if len(used.themes) > 0 {
		parts = append(parts, "featuring "+joinNatural(used.themes))
	}

	if len(parts) == 0 {
		return fmt.Sprintf("%s is a strong match for your answers", m.Title)
	}
	return capitalize(strings.Join(parts, ", ")) + "."
}

// matchedGenres intersects the requested genres with the movie's, in
// request order.
func matchedGenres(requested, actual []string) []string {
	have := make(map[string]bool, len(actual))
	for _, g := range actual {
		have[g] = true
	}

	var matched []string
	for _, g := range requested {
		if have[g] {
			matched = append(matched, g)
		}
	}
	return matched
}

// joinNatural renders a list as "A", "A and B", or "A, B and C".
func joinNatural(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	default:
		return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

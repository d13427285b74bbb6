// CineMatch - Personalized Movie Recommendation Service
// Copyright 2026 subzero0008
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/subzero0008/cinematch

package recommend

import "sort"

// rank scores, filters, sorts, and truncates the candidate pool.
//
// Candidates the user has already rated are removed. The survivors are
// stable-sorted by final score descending, so equal scores keep
// discovery order. The result is truncated to count, which the caller
// has already clamped.
func (e *Engine) rank(candidates []CandidateMovie, profile *PreferenceProfile, rated map[int]bool, count int) []CandidateMovie {
	ranked := make([]CandidateMovie, 0, len(candidates))
	for _, c := range candidates {
		if rated[c.ID] {
			continue
		}
		c.RelevanceScore = e.Score(&c, profile)
		ranked = append(ranked, c)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].RelevanceScore > ranked[j].RelevanceScore
	})

	if len(ranked) > count {
		ranked = ranked[:count]
	}
	return ranked
}

// clampCount bounds a requested result size to [1, MaxCount], applying
// the default when the caller passed nothing.
func (e *Engine) clampCount(count int) int {
	if count == 0 {
		return e.cfg.DefaultCount
	}
	if count < 1 {
		return 1
	}
	if count > e.cfg.MaxCount {
		return e.cfg.MaxCount
	}
	return count
}

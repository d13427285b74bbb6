// CineMatch - Personalized Movie Recommendation Service
// Copyright 2026 subzero0008
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/subzero0008/cinematch

package recommend

import (
	"context"
	"math"
	"sort"
	"time"
)

// RatingSignal is a user's star rating for a movie. The source of truth
// lives in the rating store; the engine only reads these.
type RatingSignal struct {
	// MovieID is the catalog movie identifier.
	MovieID int `json:"movie_id"`

	// Value is the star rating, 1-5.
	Value float64 `json:"value"`

	// RatedAt is when the rating was created or last updated.
	RatedAt time.Time `json:"rated_at"`
}

// RatingSource provides read access to a user's historical ratings.
// Implemented by the ratings store; mocked in tests.
type RatingSource interface {
	GetRatingsForUser(ctx context.Context, userID string) ([]RatingSignal, error)
}

// highRatedThreshold selects the signals a preference profile is built from.
const highRatedThreshold = 4.0

// WeightMap is an insertion-ordered map from facet value (genre, actor,
// director, or keyword name) to a non-negative integer weight.
//
// Insertion order is preserved so that ties in Top break toward the
// first-seen entry, keeping recommendation output deterministic for a
// fixed rating history.
type WeightMap struct {
	keys    []string
	weights map[string]int
}

// NewWeightMap creates an empty WeightMap.
func NewWeightMap() *WeightMap {
	return &WeightMap{weights: make(map[string]int)}
}

// Add accumulates weight for a key, registering the key on first sight.
func (m *WeightMap) Add(key string, weight int) {
	if key == "" || weight <= 0 {
		return
	}
	if _, ok := m.weights[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.weights[key] += weight
}

// Get returns the weight for a key, or 0 when absent.
func (m *WeightMap) Get(key string) int {
	return m.weights[key]
}

// Len returns the number of distinct keys.
func (m *WeightMap) Len() int {
	return len(m.keys)
}

// Max returns the largest weight in the map, or 0 when empty.
func (m *WeightMap) Max() int {
	max := 0
	for _, w := range m.weights {
		if w > max {
			max = w
		}
	}
	return max
}

// Normalize rescales all weights so the maximum entry equals 100.
// Normalizing an empty map is a no-op.
func (m *WeightMap) Normalize() {
	max := m.Max()
	if max == 0 {
		return
	}
	for k, w := range m.weights {
		m.weights[k] = int(math.Round(float64(w) * 100 / float64(max)))
	}
}

// Top returns up to n keys ordered by weight descending. Ties keep
// insertion order (first seen wins).
func (m *WeightMap) Top(n int) []string {
	ordered := make([]string, len(m.keys))
	copy(ordered, m.keys)

	sort.SliceStable(ordered, func(i, j int) bool {
		return m.weights[ordered[i]] > m.weights[ordered[j]]
	})

	if len(ordered) > n {
		ordered = ordered[:n]
	}
	return ordered
}

// Keys returns all keys in insertion order.
func (m *WeightMap) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// PreferenceProfile is a user's weighted multi-facet taste profile, built
// from high-rated history or survey answers. It lives only in cache and
// is rebuilt whenever the cache misses or is invalidated.
type PreferenceProfile struct {
	Genres    *WeightMap
	Actors    *WeightMap
	Directors *WeightMap
	Keywords  *WeightMap

	// Seeds are the user's top-rated movie IDs in rating order, used as
	// anchors for similar-movie lookups.
	Seeds []int

	// BuiltAt records profile construction time.
	BuiltAt time.Time
}

// NewPreferenceProfile creates an empty profile.
func NewPreferenceProfile() *PreferenceProfile {
	return &PreferenceProfile{
		Genres:    NewWeightMap(),
		Actors:    NewWeightMap(),
		Directors: NewWeightMap(),
		Keywords:  NewWeightMap(),
	}
}

// TopGenres returns the user's top 3 genres by weight.
func (p *PreferenceProfile) TopGenres() []string { return p.Genres.Top(3) }

// TopActors returns the user's top 3 actors by weight.
func (p *PreferenceProfile) TopActors() []string { return p.Actors.Top(3) }

// TopDirectors returns the user's top 2 directors by weight.
func (p *PreferenceProfile) TopDirectors() []string { return p.Directors.Top(2) }

// TopKeywords returns the user's top 5 keywords by weight.
func (p *PreferenceProfile) TopKeywords() []string { return p.Keywords.Top(5) }

// IsEmpty reports whether no facet carries any weight and no seeds exist.
func (p *PreferenceProfile) IsEmpty() bool {
	return p.Genres.Len() == 0 && p.Actors.Len() == 0 &&
		p.Directors.Len() == 0 && p.Keywords.Len() == 0 && len(p.Seeds) == 0
}

// CandidateMovie is a catalog movie carrying everything the scorer needs
// plus the computed relevance score. Candidates are request-scoped and
// discarded after ranking.
type CandidateMovie struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Overview    string   `json:"overview,omitempty"`
	ReleaseDate string   `json:"release_date,omitempty"`
	PosterPath  string   `json:"poster_path,omitempty"`
	Genres      []string `json:"genres"`
	Cast        []string `json:"cast"`
	Directors   []string `json:"directors"`
	VoteAverage float64  `json:"vote_average"`

	// RelevanceScore is the final [0,1] score after the strategy
	// multiplier is applied.
	RelevanceScore float64 `json:"relevance_score"`

	// Strategy names the discovery strategy that introduced this
	// candidate (the first strategy to see an ID wins).
	Strategy string `json:"strategy,omitempty"`

	// multiplier is the strategy-specific score discount.
	multiplier float64

	// order is the discovery position, used to keep ties stable.
	order int
}

// CineMatch - Personalized Movie Recommendation Service
// Copyright 2026 subzero0008
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/subzero0008/cinematch

// Package survey implements questionnaire-driven discovery: a survey
// request is mapped deterministically to catalog discovery filters,
// relaxed in a fixed order when results come back empty, and answered
// with enriched movies plus per-movie explanations.
package survey

// Request is one discovery questionnaire submission. Survey answers are
// not tied to a persisted identity.
type Request struct {
	// Mood is a free-form mood label, echoed into explanations.
	Mood string `json:"mood" validate:"omitempty,max=64"`

	// Occasion is the viewing occasion, e.g. "Date Night" or
	// "Family Time". Required; some occasions imply an extra genre.
	Occasion string `json:"occasion" validate:"required,max=64"`

	// Genres are catalog genre names the viewer picked.
	Genres []string `json:"genres" validate:"required,min=1,dive,required,max=64"`

	// AgePreference selects a release-recency window, e.g.
	// "Last 10 years" or "Doesn't matter".
	AgePreference string `json:"age_preference" validate:"omitempty,max=64"`

	// IsRatingImportant requests a minimum catalog rating and
	// rating-first ordering.
	IsRatingImportant bool `json:"is_rating_important"`

	// Themes are optional theme labels mapped to catalog keywords.
	Themes []string `json:"themes" validate:"omitempty,dive,max=64"`
}

// Movie is one survey result with whatever enrichment succeeded. Credits
// stay empty when the detail lookup failed.
type Movie struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Overview    string   `json:"overview,omitempty"`
	ReleaseDate string   `json:"release_date,omitempty"`
	PosterPath  string   `json:"poster_path,omitempty"`
	Genres      []string `json:"genres"`
	Cast        []string `json:"cast"`
	Directors   []string `json:"directors"`
	VoteAverage float64  `json:"vote_average"`
}

// Response is the full survey answer. The whole response is cached
// keyed by a canonical serialization of the request.
type Response struct {
	Movies       []Movie        `json:"movies"`
	Explanations map[int]string `json:"explanations"`
}

// Occasion and theme vocabulary. Unknown values pass through without
// effect rather than failing validation, so the vocabulary can grow on
// the client side first.
const (
	OccasionFamilyTime = "Family Time"
	OccasionDateNight  = "Date Night"
	OccasionFriends    = "Movie Night with Friends"
	OccasionSolo       = "Solo Evening"
)

// ThemeClassicCinema disables the release-year floor regardless of the
// age preference.
const ThemeClassicCinema = "Classic Cinema"

// occasionGenres maps occasions to the catalog genre they imply.
var occasionGenres = map[string]string{
	OccasionFamilyTime: "Family",
	OccasionDateNight:  "Romance",
}

// groupOccasions are occasions watched with company, which bias sorting
// toward broadly popular titles.
var groupOccasions = map[string]bool{
	OccasionFamilyTime: true,
	OccasionFriends:    true,
}

// themeKeywords maps theme labels to fixed catalog keyword IDs.
var themeKeywords = map[string]int{
	"Space Exploration": 9882,
	"Time Travel":       4379,
	"Superheroes":       9715,
	"True Story":        9672,
	"Dystopia":          4565,
	"Magic & Fantasy":   2343,
	"Heists":            10051,
	"Zombies":           12377,
}

// agePreferenceYears maps age preferences to a recency window in years.
// "Doesn't matter" is deliberately absent.
var agePreferenceYears = map[string]int{
	"Last 5 years":  5,
	"Last 10 years": 10,
	"Last 20 years": 20,
}

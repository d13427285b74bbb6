// CineMatch - Personalized Movie Recommendation Service
// Copyright 2026 subzero0008
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/subzero0008/cinematch

package tmdb

// Movie is a catalog movie as returned by list endpoints (discover,
// similar, popular). Detail-only fields are zero until enriched via
// GetMovieDetails.
type Movie struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	ReleaseDate string  `json:"release_date"`
	GenreIDs    []int   `json:"genre_ids"`
	VoteAverage float64 `json:"vote_average"`
	VoteCount   int     `json:"vote_count"`
	Popularity  float64 `json:"popularity"`
	PosterPath  string  `json:"poster_path"`
}

// MovieDetails is a full movie record with credits and keywords appended.
type MovieDetails struct {
	ID          int             `json:"id"`
	Title       string          `json:"title"`
	Overview    string          `json:"overview"`
	ReleaseDate string          `json:"release_date"`
	Genres      []Genre         `json:"genres"`
	VoteAverage float64         `json:"vote_average"`
	VoteCount   int             `json:"vote_count"`
	Popularity  float64         `json:"popularity"`
	PosterPath  string          `json:"poster_path"`
	Runtime     int             `json:"runtime"`
	Credits     Credits         `json:"credits"`
	Keywords    keywordEnvelope `json:"keywords"`
}

// KeywordList returns the appended keyword tags.
func (d *MovieDetails) KeywordList() []Keyword {
	return d.Keywords.Keywords
}

// Keyword is a catalog keyword tag.
type Keyword struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// keywordEnvelope matches the nested shape of append_to_response=keywords.
type keywordEnvelope struct {
	Keywords []Keyword `json:"keywords"`
}

// Genre is a catalog genre taxonomy entry.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Credits holds the cast and crew of a movie.
type Credits struct {
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

// CastMember is a billed cast entry, ordered by billing position.
type CastMember struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Order int    `json:"order"`
}

// CrewMember is a crew entry with its job (e.g. "Director").
type CrewMember struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Job  string `json:"job"`
}

// Person is a person search result.
type Person struct {
	ID         int     `json:"id"`
	Name       string  `json:"name"`
	Popularity float64 `json:"popularity"`
}

// movieListResponse is the common paginated list envelope.
type movieListResponse struct {
	Page         int     `json:"page"`
	Results      []Movie `json:"results"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
}

// personListResponse is the person search envelope.
type personListResponse struct {
	Page    int      `json:"page"`
	Results []Person `json:"results"`
}

// genreListResponse is the genre taxonomy envelope.
type genreListResponse struct {
	Genres []Genre `json:"genres"`
}

// SortBy values accepted by the discover endpoint.
const (
	SortPopularityDesc  = "popularity.desc"
	SortVoteAverageDesc = "vote_average.desc"
	SortReleaseDateDesc = "primary_release_date.desc"
)

// DiscoverFilter narrows a discover query. Zero values mean "no constraint".
type DiscoverFilter struct {
	// GenreIDs restricts to movies matching any of the genres.
	GenreIDs []int

	// KeywordIDs restricts to movies tagged with any of the keywords.
	KeywordIDs []int

	// PersonID restricts to movies credited to the person.
	PersonID int

	// SortBy orders results; defaults to SortPopularityDesc.
	SortBy string

	// MinVoteAverage drops movies rated below the threshold.
	MinVoteAverage float64

	// MinReleaseYear drops movies released before the year.
	MinReleaseYear int

	// MinVoteCount drops movies with too few votes to trust the average.
	MinVoteCount int
}

// sanitizeMovie applies catalog-data defaults once at ingestion so
// downstream code never re-checks for missing fields.
func sanitizeMovie(m *Movie) {
	if m.Title == "" {
		m.Title = "Untitled"
	}
	if m.GenreIDs == nil {
		m.GenreIDs = []int{}
	}
	m.VoteAverage = clampVote(m.VoteAverage)
}

// sanitizeDetails applies catalog-data defaults to a detail record.
func sanitizeDetails(d *MovieDetails) {
	if d.Title == "" {
		d.Title = "Untitled"
	}
	if d.Genres == nil {
		d.Genres = []Genre{}
	}
	if d.Credits.Cast == nil {
		d.Credits.Cast = []CastMember{}
	}
	if d.Credits.Crew == nil {
		d.Credits.Crew = []CrewMember{}
	}
	if d.Keywords.Keywords == nil {
		d.Keywords.Keywords = []Keyword{}
	}
	d.VoteAverage = clampVote(d.VoteAverage)
}

func clampVote(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 10:
		return 10
	default:
		return v
	}
}

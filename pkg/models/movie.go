package models

import "slices"

// Movie is a single catalog entry.
type Movie struct {
	PosterPath  *string `json:"poster_path,omitempty"`
	Overview    string  `json:"overview"`
	ReleaseDate string  `json:"release_date"`
	GenreIDs    []int   `json:"genre_ids"`
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Popularity  float64 `json:"popularity"`
	VoteCount   int     `json:"vote_count"`
	VoteAverage float64 `json:"vote_average"`
}

// Equal reports whether m and o hold the same values in every field.
func (m Movie) Equal(o Movie) bool {
	switch {
	case m.PosterPath == nil && o.PosterPath != nil,
		m.PosterPath != nil && o.PosterPath == nil:
		return false
	case m.PosterPath != nil && *m.PosterPath != *o.PosterPath:
		return false
	}
	return m.Overview == o.Overview &&
		m.ReleaseDate == o.ReleaseDate &&
		slices.Equal(m.GenreIDs, o.GenreIDs) &&
		m.ID == o.ID &&
		m.Title == o.Title &&
		m.Popularity == o.Popularity &&
		m.VoteCount == o.VoteCount &&
		m.VoteAverage == o.VoteAverage
}

// Page is one page of catalog results.
type Page struct {
	Page    int     `json:"page"`
	Results []Movie `json:"results"`
}

// Equal reports whether p and o have the same page number and the same
// movies in the same order.
func (p Page) Equal(o Page) bool {
	return p.Page == o.Page && slices.EqualFunc(p.Results, o.Results, Movie.Equal)
}

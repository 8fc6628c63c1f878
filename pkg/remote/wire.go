package remote

import "github.com/pario-ai/cinecache/pkg/models"

// wirePage mirrors the API's page response.
type wirePage struct {
	Page    *int        `json:"page"`
	Results []wireMovie `json:"results"`
}

type wireMovie struct {
	PosterPath  *string `json:"poster_path"`
	Overview    string  `json:"overview"`
	ReleaseDate string  `json:"release_date"`
	GenreIDs    []int   `json:"genre_ids"`
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Popularity  float64 `json:"popularity"`
	VoteCount   int     `json:"vote_count"`
	VoteAverage float64 `json:"vote_average"`
}

func (w wirePage) toModel() models.Page {
	page := models.Page{Page: *w.Page, Results: make([]models.Movie, 0, len(w.Results))}
	for _, m := range w.Results {
		page.Results = append(page.Results, models.Movie{
			PosterPath:  m.PosterPath,
			Overview:    m.Overview,
			ReleaseDate: m.ReleaseDate,
			GenreIDs:    m.GenreIDs,
			ID:          m.ID,
			Title:       m.Title,
			Popularity:  m.Popularity,
			VoteCount:   m.VoteCount,
			VoteAverage: m.VoteAverage,
		})
	}
	return page
}

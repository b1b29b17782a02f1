package movies

import (
	"strconv"
	"time"

	"github.com/flixreview/go-flixreview-client/genres"
	"github.com/flixreview/go-flixreview-client/internal/utils"
)

// Movie mirrors the server's movie record, including the review aggregates
// that make movie caches sensitive to review mutations.
type Movie struct {
	ID          int            `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Genres      []genres.Genre `json:"genres,omitempty"`
	ReleaseDate string         `json:"release_date"`
	AvgRating   float64        `json:"avg_rating"`
	ReviewCount int            `json:"review_count"`
	PosterURL   string         `json:"poster_url,omitempty"`
	BackdropURL string         `json:"backdrop_url,omitempty"`
	Runtime     int            `json:"runtime,omitempty"`
	CreatedAt   time.Time      `json:"created_at,omitempty"`
	UpdatedAt   time.Time      `json:"updated_at,omitempty"`
}

// MovieList is the paginated /movies/ response.
type MovieList struct {
	Count    int     `json:"count"`
	Next     string  `json:"next"`
	Previous string  `json:"previous"`
	Results  []Movie `json:"results"`
}

// MovieCreate carries the writable fields when adding a movie.
type MovieCreate struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ReleaseDate string `json:"release_date"`
	GenreIDs    []int  `json:"genre_ids,omitempty"`
	PosterURL   string `json:"poster_url,omitempty"`
}

// MovieUpdate is a partial movie change.
type MovieUpdate struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	ReleaseDate *string `json:"release_date,omitempty"`
	GenreIDs    []int   `json:"genre_ids,omitempty"`
	PosterURL   *string `json:"poster_url,omitempty"`
}

// Filters narrows the movie listing. The zero value lists everything.
type Filters struct {
	Search    string
	GenreSlug string
	GenreIDs  []int
	Ordering  string
	Page      int
	PageSize  int
}

// params feeds both the cache key normalization and the request query, so a
// given filter set always maps to exactly one cache entry.
func (f Filters) params() map[string]string {
	params := map[string]string{
		"search":       f.Search,
		"genres__slug": f.GenreSlug,
		"genres":       utils.IntsToCSV(f.GenreIDs),
		"ordering":     f.Ordering,
	}
	if f.Page > 0 {
		params["page"] = strconv.Itoa(f.Page)
	}
	if f.PageSize > 0 {
		params["page_size"] = strconv.Itoa(f.PageSize)
	}
	return params
}

package genres

import "time"

// Genre is a movie genre, addressed by slug.
type Genre struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	MovieCount  int       `json:"movie_count,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
}

// GenreCreate carries the fields accepted when creating a genre.
type GenreCreate struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// GenreUpdate is a partial genre change.
type GenreUpdate struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// genreList is the paginated wire shape; List flattens it because callers
// only ever want the full set.
type genreList struct {
	Count   int     `json:"count"`
	Results []Genre `json:"results"`
}

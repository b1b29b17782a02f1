package reviews

import (
	"strconv"
	"time"

	"github.com/flixreview/go-flixreview-client/movies"
	"github.com/flixreview/go-flixreview-client/validation"
)

// Review mirrors the server's review record. User is the author's username;
// Movie is the full owning movie, whose aggregates shift with every review
// mutation.
type Review struct {
	ID        int          `json:"id"`
	User      string       `json:"user"`
	Movie     movies.Movie `json:"movie"`
	Content   string       `json:"content"`
	Rating    int          `json:"rating"`
	IsEdited  bool         `json:"is_edited"`
	LikeCount int          `json:"like_count,omitempty"`
	IsLiked   bool         `json:"is_liked,omitempty"`
	CreatedAt time.Time    `json:"created_at,omitempty"`
	UpdatedAt time.Time    `json:"updated_at,omitempty"`
}

// ReviewList is the paginated /reviews/ response.
type ReviewList struct {
	Count    int      `json:"count"`
	Next     string   `json:"next"`
	Previous string   `json:"previous"`
	Results  []Review `json:"results"`
}

// ReviewCreate carries a new review. Invalid payloads are rejected before
// any network call.
type ReviewCreate struct {
	MovieID int    `json:"movie_id" validate:"required"`
	Content string `json:"content" validate:"required"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
}

func (d ReviewCreate) Validate() error {
	return validation.Struct(d)
}

// ReviewUpdate is a partial review change. The owning movie cannot change.
type ReviewUpdate struct {
	Content *string `json:"content,omitempty" validate:"omitempty,min=1"`
	Rating  *int    `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
}

func (d ReviewUpdate) Validate() error {
	return validation.Struct(d)
}

// LikeResponse reports the like state after a like/unlike call.
type LikeResponse struct {
	ReviewID  int  `json:"review_id"`
	Liked     bool `json:"liked"`
	LikeCount int  `json:"like_count"`
}

// Filters narrows the review listing.
type Filters struct {
	User     string
	MovieID  int
	Ordering string
	Page     int
	PageSize int
}

func (f Filters) params() map[string]string {
	params := map[string]string{
		"user":     f.User,
		"ordering": f.Ordering,
	}
	if f.MovieID > 0 {
		params["movie"] = strconv.Itoa(f.MovieID)
	}
	if f.Page > 0 {
		params["page"] = strconv.Itoa(f.Page)
	}
	if f.PageSize > 0 {
		params["page_size"] = strconv.Itoa(f.PageSize)
	}
	return params
}

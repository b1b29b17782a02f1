package recommendations

import (
	"github.com/flixreview/go-flixreview-client/users"
)

// Item is one ranked entry from the recommendation engine. Score fields are
// populated depending on which algorithm produced the item.
type Item struct {
	MovieID         int     `json:"movie_id"`
	Title           string  `json:"title"`
	AvgRating       float64 `json:"avg_rating"`
	PosterURL       string  `json:"poster_url"`
	ReleaseDate     string  `json:"release_date"`
	Rank            int     `json:"rank"`
	SimilarityScore float64 `json:"similarity_score,omitempty"`
	PredictedRating float64 `json:"predicted_rating,omitempty"`
	HybridScore     float64 `json:"hybrid_score,omitempty"`
	GenreMatchRatio float64 `json:"genre_match_ratio,omitempty"`
	Source          string  `json:"source,omitempty"`
}

// Personalized is the /recommendations/for-you/ response. The server caches
// its side of the computation; Cached reports that, not the client cache.
type Personalized struct {
	Recommendations    []Item           `json:"recommendations"`
	Cached             bool             `json:"cached"`
	Algorithm          string           `json:"algorithm"`
	MLEnabled          bool             `json:"ml_enabled"`
	PreferencesApplied bool             `json:"preferences_applied"`
	PreferredGenreIDs  []int            `json:"preferred_genre_ids"`
	PreferredGenres    []users.GenreRef `json:"preferred_genres"`
}

// SourceMovie identifies the movie a similarity query started from.
type SourceMovie struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

// SimilarMovies is the /recommendations/movies/{id}/similar/ response.
type SimilarMovies struct {
	SourceMovie   SourceMovie `json:"source_movie"`
	SimilarMovies []Item      `json:"similar_movies"`
	Cached        bool        `json:"cached"`
	MLEnabled     bool        `json:"ml_enabled"`
}

// GenreTaste aggregates the caller's reviews per genre.
type GenreTaste struct {
	Genre     string  `json:"genre"`
	AvgRating float64 `json:"avg_rating"`
	Count     int     `json:"count"`
}

// DecadeTaste aggregates the caller's reviews per release decade.
type DecadeTaste struct {
	Decade string `json:"decade"`
	Count  int    `json:"count"`
}

// TasteProfile is the /recommendations/profile/taste/ response.
type TasteProfile struct {
	TotalReviews       int            `json:"total_reviews"`
	AverageRating      float64        `json:"average_rating"`
	RatingDistribution map[string]int `json:"rating_distribution"`
	FavoriteGenres     []GenreTaste   `json:"favorite_genres"`
	FavoriteDecades    []DecadeTaste  `json:"favorite_decades"`
	MostLenient        bool           `json:"most_lenient"`
}

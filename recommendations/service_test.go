package recommendations_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flixreview/go-flixreview-client/api"
	"github.com/flixreview/go-flixreview-client/querycache"
	"github.com/flixreview/go-flixreview-client/recommendations"
	"github.com/flixreview/go-flixreview-client/tokens"
	"github.com/flixreview/go-flixreview-client/users"
)

type testFixture struct {
	requests int32
	cache    *querycache.Cache
	service  *recommendations.Service
	users    *users.Service
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()
	f := &testFixture{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&f.requests, 1)
		switch r.URL.Path {
		case "/recommendations/top-rated/":
			_, _ = w.Write([]byte(`[{"id": 42, "title": "Alien", "avg_rating": 4.8}, {"id": 7, "title": "Dune", "avg_rating": 4.6}]`))
		case "/recommendations/trending/":
			_, _ = w.Write([]byte(`{"count": 1, "results": [{"id": 7, "title": "Dune"}]}`))
		case "/recommendations/for-you/":
			_, _ = w.Write([]byte(`{"recommendations": [{"movie_id": 42, "title": "Alien", "rank": 1, "hybrid_score": 0.93, "source": "hybrid"}], "cached": true, "algorithm": "hybrid", "preferences_applied": true, "preferred_genre_ids": [1]}`))
		case "/recommendations/movies/42/similar/":
			_, _ = w.Write([]byte(`{"source_movie": {"id": 42, "title": "Alien"}, "similar_movies": [{"movie_id": 55, "title": "The Thing", "similarity_score": 0.87}], "cached": false}`))
		case "/recommendations/profile/taste/":
			_, _ = w.Write([]byte(`{"total_reviews": 12, "average_rating": 3.9, "favorite_genres": [{"genre": "Horror", "avg_rating": 4.2, "count": 5}], "favorite_decades": [{"decade": "1980s", "count": 4}]}`))
		case "/users/genres/":
			_, _ = w.Write([]byte(`{"preferred_genre_ids": [1, 2]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	client, err := api.New(server.URL, tokens.NewMemoryStore())
	require.NoError(t, err)

	f.cache = querycache.New()
	f.service = recommendations.NewService(client, f.cache)
	f.users = users.NewService(client, f.cache)
	return f
}

func TestTopRated_ServedFromCacheWithinTTL(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		list, err := f.service.TopRated(ctx, 10)
		require.NoError(t, err)
		require.Len(t, list, 2)
		require.Equal(t, "Alien", list[0].Title)
	}
	require.Equal(t, int32(1), atomic.LoadInt32(&f.requests))
}

func TestTopRated_TruncatesToLimit(t *testing.T) {
	f := setupTestFixture(t)

	list, err := f.service.TopRated(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestTrending_HandlesPaginatedShape(t *testing.T) {
	f := setupTestFixture(t)

	list, err := f.service.Trending(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "Dune", list[0].Title)
}

func TestForYou_DecodesRankedItems(t *testing.T) {
	f := setupTestFixture(t)

	personalized, err := f.service.ForYou(context.Background(), 10)
	require.NoError(t, err)
	require.True(t, personalized.PreferencesApplied)
	require.Equal(t, "hybrid", personalized.Algorithm)
	require.Len(t, personalized.Recommendations, 1)
	require.Equal(t, 42, personalized.Recommendations[0].MovieID)
	require.Equal(t, 0.93, personalized.Recommendations[0].HybridScore)
}

func TestSimilar_KeyedPerSourceMovie(t *testing.T) {
	f := setupTestFixture(t)

	similar, err := f.service.Similar(context.Background(), 42, 5)
	require.NoError(t, err)
	require.Equal(t, 42, similar.SourceMovie.ID)
	require.Len(t, similar.SimilarMovies, 1)
	require.Equal(t, 0.87, similar.SimilarMovies[0].SimilarityScore)
}

func TestTasteProfile_Decodes(t *testing.T) {
	f := setupTestFixture(t)

	profile, err := f.service.TasteProfile(context.Background())
	require.NoError(t, err)
	require.Equal(t, 12, profile.TotalReviews)
	require.Equal(t, "Horror", profile.FavoriteGenres[0].Genre)
	require.Equal(t, "1980s", profile.FavoriteDecades[0].Decade)
}

func TestPreferredGenreUpdate_SweepsAllRecommendationEntries(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	_, err := f.service.TopRated(ctx, 10)
	require.NoError(t, err)
	_, err = f.service.ForYou(ctx, 10)
	require.NoError(t, err)
	_, err = f.service.Similar(ctx, 42, 5)
	require.NoError(t, err)

	_, err = f.users.UpdatePreferredGenres(ctx, []int{1, 2})
	require.NoError(t, err)

	_, ok := f.cache.Peek(querycache.NewListKey("recommendations", map[string]string{"kind": "top-rated", "limit": "10"}))
	require.False(t, ok)
	_, ok = f.cache.Peek(querycache.NewListKey("recommendations", map[string]string{"kind": "for-you", "limit": "10"}))
	require.False(t, ok)
	_, ok = f.cache.Peek(querycache.NewListKey("recommendations", map[string]string{"kind": "similar", "movie": "42", "limit": "5"}))
	require.False(t, ok)
}

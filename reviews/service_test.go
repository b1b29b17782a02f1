package reviews_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flixreview/go-flixreview-client/api"
	"github.com/flixreview/go-flixreview-client/movies"
	"github.com/flixreview/go-flixreview-client/querycache"
	"github.com/flixreview/go-flixreview-client/reviews"
	"github.com/flixreview/go-flixreview-client/tokens"
)

type testFixture struct {
	requests int32
	cache    *querycache.Cache
	movies   *movies.Service
	reviews  *reviews.Service
}

// setupTestFixture wires the review and movie services onto one shared cache
// against a stub server that serves movie 42 and review 9 for that movie.
func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()
	f := &testFixture{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&f.requests, 1)
		switch {
		case r.URL.Path == "/movies/42/":
			_, _ = w.Write([]byte(`{"id": 42, "title": "Alien", "avg_rating": 4.5, "review_count": 12}`))
		case r.URL.Path == "/reviews/" && r.Method == http.MethodPost:
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"id": 9, "user": "johndoe", "movie": {"id": 42, "title": "Alien"}, "content": "terrifying", "rating": 5}`))
		case r.URL.Path == "/reviews/" && r.Method == http.MethodGet:
			_, _ = w.Write([]byte(`{"count": 1, "results": [{"id": 9, "user": "johndoe", "content": "terrifying", "rating": 5}]}`))
		case r.URL.Path == "/reviews/9/" && r.Method == http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		case r.URL.Path == "/reviews/9/":
			_, _ = w.Write([]byte(`{"id": 9, "user": "johndoe", "movie": {"id": 42, "title": "Alien"}, "content": "terrifying", "rating": 5}`))
		case r.URL.Path == "/reviews/9/like/" && r.Method == http.MethodPost:
			_, _ = w.Write([]byte(`{"review_id": 9, "liked": true, "like_count": 3}`))
		case r.URL.Path == "/reviews/9/like/" && r.Method == http.MethodDelete:
			_, _ = w.Write([]byte(`{"review_id": 9, "liked": false, "like_count": 2}`))
		case r.URL.Path == "/reviews/most-liked/":
			_, _ = w.Write([]byte(`{"count": 1, "results": [{"id": 9, "user": "johndoe", "content": "terrifying", "rating": 5, "like_count": 3}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	client, err := api.New(server.URL, tokens.NewMemoryStore())
	require.NoError(t, err)

	f.cache = querycache.New()
	f.movies = movies.NewService(client, f.cache)
	f.reviews = reviews.NewService(client, f.cache)
	return f
}

func TestCreate_InvalidatesOwningMovie(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	_, err := f.movies.Get(ctx, 42)
	require.NoError(t, err)
	_, err = f.reviews.List(ctx, reviews.Filters{MovieID: 42})
	require.NoError(t, err)

	review, err := f.reviews.Create(ctx, reviews.ReviewCreate{MovieID: 42, Content: "terrifying", Rating: 5})
	require.NoError(t, err)
	require.Equal(t, 9, review.ID)
	require.Equal(t, 42, review.Movie.ID)

	_, ok := f.cache.Peek(querycache.NewKey("movies", "42"))
	require.False(t, ok, "owning movie aggregates are stale after a new review")
	_, ok = f.cache.Peek(querycache.NewListKey("reviews", map[string]string{"movie": "42"}))
	require.False(t, ok)
}

func TestCreate_InvalidPayloadNeverHitsNetwork(t *testing.T) {
	f := setupTestFixture(t)

	_, err := f.reviews.Create(context.Background(), reviews.ReviewCreate{MovieID: 42, Content: "meh", Rating: 9})
	require.Error(t, err)
	require.Contains(t, err.Error(), "rating")
	require.Zero(t, atomic.LoadInt32(&f.requests))
}

func TestUpdate_InvalidatesReviewAndMovie(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	_, err := f.reviews.Get(ctx, 9)
	require.NoError(t, err)
	_, err = f.movies.Get(ctx, 42)
	require.NoError(t, err)

	content := "still terrifying"
	_, err = f.reviews.Update(ctx, 9, reviews.ReviewUpdate{Content: &content})
	require.NoError(t, err)

	_, ok := f.cache.Peek(querycache.NewKey("reviews", "9"))
	require.False(t, ok)
	_, ok = f.cache.Peek(querycache.NewKey("movies", "42"))
	require.False(t, ok)
}

func TestDelete_ResolvesOwningMovieFromCachedReview(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	_, err := f.reviews.Get(ctx, 9)
	require.NoError(t, err)
	_, err = f.movies.Get(ctx, 42)
	require.NoError(t, err)

	require.NoError(t, f.reviews.Delete(ctx, 9))

	_, ok := f.cache.Peek(querycache.NewKey("reviews", "9"))
	require.False(t, ok)

	// The movie's avg_rating and review_count changed with the delete.
	_, ok = f.cache.Peek(querycache.NewKey("movies", "42"))
	require.False(t, ok)
}

func TestDelete_UncachedReviewSweepsMovieListsOnly(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	_, err := f.movies.Get(ctx, 42)
	require.NoError(t, err)
	_, err = f.reviews.List(ctx, reviews.Filters{})
	require.NoError(t, err)

	require.NoError(t, f.reviews.Delete(ctx, 9))

	_, ok := f.cache.Peek(querycache.NewListKey("reviews", nil))
	require.False(t, ok)

	// With the review never cached the owning movie cannot be resolved; the
	// singleton survives and only the lists are swept.
	_, ok = f.cache.Peek(querycache.NewKey("movies", "42"))
	require.True(t, ok)
}

func TestLike_RefreshesReviewButNotMovie(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	_, err := f.reviews.Get(ctx, 9)
	require.NoError(t, err)
	_, err = f.movies.Get(ctx, 42)
	require.NoError(t, err)

	resp, err := f.reviews.Like(ctx, 9)
	require.NoError(t, err)
	require.True(t, resp.Liked)
	require.Equal(t, 3, resp.LikeCount)

	_, ok := f.cache.Peek(querycache.NewKey("reviews", "9"))
	require.False(t, ok)

	// Like totals do not feed the movie aggregates.
	_, ok = f.cache.Peek(querycache.NewKey("movies", "42"))
	require.True(t, ok)
}

func TestUnlike_ReportsNewCount(t *testing.T) {
	f := setupTestFixture(t)

	resp, err := f.reviews.Unlike(context.Background(), 9)
	require.NoError(t, err)
	require.False(t, resp.Liked)
	require.Equal(t, 2, resp.LikeCount)
}

func TestMostLiked_CachedSeparatelyFromPlainLists(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	list, err := f.reviews.MostLiked(ctx, 0)
	require.NoError(t, err)
	require.Len(t, list.Results, 1)
	require.Equal(t, 3, list.Results[0].LikeCount)

	_, ok := f.cache.Peek(querycache.NewListKey("reviews/most-liked", nil))
	require.True(t, ok)
}

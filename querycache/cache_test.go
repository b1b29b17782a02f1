package querycache_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/flixreview/go-flixreview-client/querycache"
)

func TestNewListKey_NormalizesParameterOrder(t *testing.T) {
	a := querycache.NewListKey("movies", map[string]string{"search": "alien", "page": "2"})
	b := querycache.NewListKey("movies", map[string]string{"page": "2", "search": "alien"})
	require.Equal(t, a, b)
}

func TestNewListKey_DropsEmptyValues(t *testing.T) {
	a := querycache.NewListKey("movies", map[string]string{"search": "alien", "genre": ""})
	b := querycache.NewListKey("movies", map[string]string{"search": "alien"})
	require.Equal(t, a, b)
}

func TestNewListKey_DistinctFiltersDistinctKeys(t *testing.T) {
	a := querycache.NewListKey("movies", map[string]string{"search": "alien"})
	b := querycache.NewListKey("movies", map[string]string{"search": "aliens"})
	require.NotEqual(t, a, b)
}

func TestNewKey_Segments(t *testing.T) {
	require.Equal(t, querycache.Key("movies/42"), querycache.NewKey("movies", "42"))
	require.Equal(t, querycache.Key("preferred-genres"), querycache.NewKey("preferred-genres"))
	require.Equal(t, "movies", querycache.NewKey("movies", "42").Entity())
	require.Equal(t, "movies", querycache.NewListKey("movies", nil).Entity())
}

func TestGetOrFetch_ZeroTTLAlwaysRevalidates(t *testing.T) {
	c := querycache.New()
	key := querycache.NewKey("movies", "1")

	var calls int32
	fetch := func(ctx context.Context) (int, error) {
		atomic.AddInt32(&calls, 1)
		return 7, nil
	}

	for i := 0; i < 3; i++ {
		v, err := querycache.Fetch(context.Background(), c, key, 0, fetch)
		require.NoError(t, err)
		require.Equal(t, 7, v)
	}
	require.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestGetOrFetch_TTLServesFreshEntry(t *testing.T) {
	now := time.Now()
	c := querycache.New(querycache.WithNowTime(func() time.Time { return now }))
	key := querycache.NewListKey("genres", nil)

	var calls int
	fetch := func(ctx context.Context) (string, error) {
		calls++
		return "genres", nil
	}

	_, err := querycache.Fetch(context.Background(), c, key, 10*time.Minute, fetch)
	require.NoError(t, err)
	_, err = querycache.Fetch(context.Background(), c, key, 10*time.Minute, fetch)
	require.NoError(t, err)
	require.Equal(t, 1, calls)

	// Advance past the freshness window.
	now = now.Add(11 * time.Minute)
	_, err = querycache.Fetch(context.Background(), c, key, 10*time.Minute, fetch)
	require.NoError(t, err)
	require.Equal(t, 2, calls)
}

func TestGetOrFetch_CoalescesConcurrentFetches(t *testing.T) {
	c := querycache.New()
	key := querycache.NewListKey("movies", map[string]string{"search": "alien"})

	var calls int32
	release := make(chan struct{})
	fetch := func(ctx context.Context) (string, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return "results", nil
	}

	const waiters = 8
	var wg sync.WaitGroup
	results := make([]string, waiters)
	errs := make([]error, waiters)
	for i := 0; i < waiters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = querycache.Fetch(context.Background(), c, key, 0, fetch)
		}(i)
	}

	// Give every goroutine a chance to join the in-flight call.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	require.Equal(t, int32(1), atomic.LoadInt32(&calls))
	for i := 0; i < waiters; i++ {
		require.NoError(t, errs[i])
		require.Equal(t, "results", results[i])
	}
}

func TestGetOrFetch_FailedFetchLeavesCacheUntouched(t *testing.T) {
	c := querycache.New()
	key := querycache.NewKey("movies", "1")

	_, err := querycache.Fetch(context.Background(), c, key, 0, func(ctx context.Context) (int, error) {
		return 0, errors.New("boom")
	})
	require.Error(t, err)

	_, ok := c.Peek(key)
	require.False(t, ok)
	require.Zero(t, c.Len())
}

func TestInvalidate_ListPatternSweepsAllFilters(t *testing.T) {
	c := querycache.New()
	seed(t, c, querycache.NewListKey("movies", map[string]string{"search": "alien"}))
	seed(t, c, querycache.NewListKey("movies", map[string]string{"page": "2"}))
	seed(t, c, querycache.NewKey("movies", "42"))
	seed(t, c, querycache.NewListKey("reviews", nil))

	c.Invalidate("movies?")

	_, ok := c.Peek(querycache.NewListKey("movies", map[string]string{"search": "alien"}))
	require.False(t, ok)
	_, ok = c.Peek(querycache.NewListKey("movies", map[string]string{"page": "2"}))
	require.False(t, ok)

	// Singletons and other entities survive a list sweep.
	_, ok = c.Peek(querycache.NewKey("movies", "42"))
	require.True(t, ok)
	_, ok = c.Peek(querycache.NewListKey("reviews", nil))
	require.True(t, ok)
}

func TestInvalidate_ExactPatternMatchesOneKey(t *testing.T) {
	c := querycache.New()
	seed(t, c, querycache.NewKey("movies", "42"))
	seed(t, c, querycache.NewKey("movies", "421"))

	c.Invalidate("movies/42")

	_, ok := c.Peek(querycache.NewKey("movies", "42"))
	require.False(t, ok)
	_, ok = c.Peek(querycache.NewKey("movies", "421"))
	require.True(t, ok)
}

func TestInvalidate_MissingKeyIsNoOp(t *testing.T) {
	c := querycache.New()
	require.NotPanics(t, func() {
		c.Invalidate("movies/999", "movies?")
		c.InvalidateKey(querycache.NewKey("movies", "999"))
	})
}

func seed(t *testing.T, c *querycache.Cache, key querycache.Key) {
	t.Helper()
	_, err := c.GetOrFetch(context.Background(), key, 0, func(ctx context.Context) (any, error) {
		return "seeded", nil
	})
	require.NoError(t, err)
}

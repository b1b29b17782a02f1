package querycache_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flixreview/go-flixreview-client/querycache"
)

func TestTable_ReviewCreateInvalidatesOwningMovie(t *testing.T) {
	c := querycache.New()
	table := querycache.DefaultTable()

	movieKey := querycache.NewKey("movies", "42")
	otherMovieKey := querycache.NewKey("movies", "7")
	reviewsKey := querycache.NewListKey("reviews", map[string]string{"movie_id": "42"})
	seed(t, c, movieKey)
	seed(t, c, otherMovieKey)
	seed(t, c, reviewsKey)
	seed(t, c, querycache.NewListKey("movies", map[string]string{"search": "alien"}))

	table.Apply(c, querycache.Mutation{Entity: "reviews", Kind: querycache.MutationCreate}, map[string]string{"movie_id": "42"})

	_, ok := c.Peek(reviewsKey)
	require.False(t, ok, "review lists should be swept")
	_, ok = c.Peek(movieKey)
	require.False(t, ok, "owning movie aggregates changed")
	_, ok = c.Peek(querycache.NewListKey("movies", map[string]string{"search": "alien"}))
	require.False(t, ok, "movie lists carry aggregates too")

	// Movies the review does not belong to keep their entries.
	_, ok = c.Peek(otherMovieKey)
	require.True(t, ok)
}

func TestTable_ReviewDeleteInvalidatesOwningMovieSingleton(t *testing.T) {
	c := querycache.New()
	table := querycache.DefaultTable()
	seed(t, c, querycache.NewKey("movies", "42"))

	table.Apply(c, querycache.Mutation{Entity: "reviews", Kind: querycache.MutationDelete}, map[string]string{"id": "9", "movie_id": "42"})

	_, ok := c.Peek(querycache.NewKey("movies", "42"))
	require.False(t, ok, "owning movie aggregates changed with the deleted review")
}

func TestTable_ReviewDeleteSkipsUnknownMovie(t *testing.T) {
	table := querycache.DefaultTable()

	patterns := table.Patterns(querycache.Mutation{Entity: "reviews", Kind: querycache.MutationDelete}, map[string]string{"id": "9"})
	require.ElementsMatch(t, []querycache.Pattern{"reviews?", "reviews/9", "movies?"}, patterns)
}

func TestTable_UnresolvedPlaceholderDropsPattern(t *testing.T) {
	table := querycache.DefaultTable()

	patterns := table.Patterns(querycache.Mutation{Entity: "reviews", Kind: querycache.MutationUpdate}, map[string]string{"id": "9"})
	require.ElementsMatch(t, []querycache.Pattern{"reviews?", "reviews/9", "movies?"}, patterns)
}

func TestTable_UnknownMutationYieldsNothing(t *testing.T) {
	table := querycache.DefaultTable()

	require.Nil(t, table.Patterns(querycache.Mutation{Entity: "watchlist", Kind: querycache.MutationCreate}, nil))
}

func TestTable_GenreUpdateUsesSlug(t *testing.T) {
	table := querycache.DefaultTable()

	patterns := table.Patterns(querycache.Mutation{Entity: "genres", Kind: querycache.MutationUpdate}, map[string]string{"slug": "sci-fi"})
	require.ElementsMatch(t, []querycache.Pattern{"genres?", "genres/sci-fi"}, patterns)
}

func TestTable_PreferredGenresInvalidateRecommendations(t *testing.T) {
	c := querycache.New()
	table := querycache.DefaultTable()

	seed(t, c, querycache.NewKey("preferred-genres"))
	seed(t, c, querycache.NewListKey("recommendations", nil))

	table.Apply(c, querycache.Mutation{Entity: "preferred-genres", Kind: querycache.MutationUpdate}, nil)

	require.Zero(t, c.Len())
}

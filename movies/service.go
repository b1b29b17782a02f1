package movies

import (
	"context"
	"net/url"
	"strconv"

	"github.com/pkg/errors"

	"github.com/flixreview/go-flixreview-client/api"
	"github.com/flixreview/go-flixreview-client/querycache"
)

const entity = "movies"

// Service exposes movie queries and mutations through the shared cache.
type Service struct {
	api   *api.Client
	cache *querycache.Cache
	table querycache.Table
}

func NewService(client *api.Client, cache *querycache.Cache) *Service {
	return &Service{
		api:   client,
		cache: cache,
		table: querycache.DefaultTable(),
	}
}

// List returns the paginated movie catalogue, cached per normalized filter
// set. Concurrent identical calls share one network request.
func (s *Service) List(ctx context.Context, filters Filters) (*MovieList, error) {
	key := querycache.NewListKey(entity, filters.params())
	return querycache.Fetch(ctx, s.cache, key, 0, func(ctx context.Context) (*MovieList, error) {
		values := url.Values{}
		for name, value := range filters.params() {
			if value != "" {
				values.Set(name, value)
			}
		}
		list := &MovieList{}
		if err := s.api.Get(ctx, "/movies/", values, list); err != nil {
			return nil, errors.Wrap(err, "[movies.Service.List] fetch movies")
		}
		return list, nil
	})
}

// Get returns a single movie.
func (s *Service) Get(ctx context.Context, id int) (*Movie, error) {
	key := querycache.NewKey(entity, strconv.Itoa(id))
	return querycache.Fetch(ctx, s.cache, key, 0, func(ctx context.Context) (*Movie, error) {
		movie := &Movie{}
		if err := s.api.Get(ctx, moviePath(id), nil, movie); err != nil {
			return nil, errors.Wrapf(err, "[movies.Service.Get] fetch movie %d", id)
		}
		return movie, nil
	})
}

// Create adds a movie and invalidates the movie lists.
func (s *Service) Create(ctx context.Context, data MovieCreate) (*Movie, error) {
	movie := &Movie{}
	if err := s.api.Post(ctx, "/movies/", data, movie); err != nil {
		return nil, errors.Wrap(err, "[movies.Service.Create] create movie")
	}
	s.table.Apply(s.cache, querycache.Mutation{Entity: entity, Kind: querycache.MutationCreate}, nil)
	return movie, nil
}

// Update modifies a movie and invalidates its lists plus its singleton entry.
func (s *Service) Update(ctx context.Context, id int, data MovieUpdate) (*Movie, error) {
	movie := &Movie{}
	if err := s.api.Patch(ctx, moviePath(id), data, movie); err != nil {
		return nil, errors.Wrapf(err, "[movies.Service.Update] update movie %d", id)
	}
	s.table.Apply(s.cache, querycache.Mutation{Entity: entity, Kind: querycache.MutationUpdate}, movieVars(id))
	return movie, nil
}

// Delete removes a movie. A failed delete leaves all caches untouched.
func (s *Service) Delete(ctx context.Context, id int) error {
	if err := s.api.Delete(ctx, moviePath(id), nil); err != nil {
		return errors.Wrapf(err, "[movies.Service.Delete] delete movie %d", id)
	}
	s.table.Apply(s.cache, querycache.Mutation{Entity: entity, Kind: querycache.MutationDelete}, movieVars(id))
	return nil
}

func moviePath(id int) string {
	return "/movies/" + strconv.Itoa(id) + "/"
}

func movieVars(id int) map[string]string {
	return map[string]string{"id": strconv.Itoa(id)}
}

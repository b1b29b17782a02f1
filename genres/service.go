package genres

import (
	"context"
	"encoding/json"
	"net/url"
	"time"

	"github.com/pkg/errors"

	"github.com/flixreview/go-flixreview-client/api"
	"github.com/flixreview/go-flixreview-client/querycache"
)

const entity = "genres"

// DefaultListTTL is the freshness window for the genre list. Genres mutate
// rarely, so reads within this window serve the cached list without a
// revalidation round trip.
const DefaultListTTL = 10 * time.Minute

// Service exposes genre queries and mutations through the shared cache.
type Service struct {
	api     *api.Client
	cache   *querycache.Cache
	table   querycache.Table
	listTTL time.Duration
}

// ServiceOption defines a function type to modify the Service instance.
type ServiceOption func(*Service)

// WithListTTL overrides the genre list freshness window.
func WithListTTL(ttl time.Duration) ServiceOption {
	return func(s *Service) {
		s.listTTL = ttl
	}
}

func NewService(client *api.Client, cache *querycache.Cache, options ...ServiceOption) *Service {
	s := &Service{
		api:     client,
		cache:   cache,
		table:   querycache.DefaultTable(),
		listTTL: DefaultListTTL,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// List returns all genres. The endpoint serves either a paginated wrapper or
// a bare array depending on deployment; both shapes are handled.
func (s *Service) List(ctx context.Context) ([]Genre, error) {
	key := querycache.NewListKey(entity, nil)
	return querycache.Fetch(ctx, s.cache, key, s.listTTL, func(ctx context.Context) ([]Genre, error) {
		var raw json.RawMessage
		if err := s.api.Get(ctx, "/movies/genres/", nil, &raw); err != nil {
			return nil, errors.Wrap(err, "[genres.Service.List] fetch genres")
		}
		var flat []Genre
		if err := json.Unmarshal(raw, &flat); err == nil {
			return flat, nil
		}
		var paged genreList
		if err := json.Unmarshal(raw, &paged); err != nil {
			return nil, errors.Wrap(err, "[genres.Service.List] decode genres")
		}
		return paged.Results, nil
	})
}

// Get returns a single genre by slug.
func (s *Service) Get(ctx context.Context, slug string) (*Genre, error) {
	key := querycache.NewKey(entity, slug)
	return querycache.Fetch(ctx, s.cache, key, 0, func(ctx context.Context) (*Genre, error) {
		genre := &Genre{}
		if err := s.api.Get(ctx, "/movies/genres/"+url.PathEscape(slug)+"/", nil, genre); err != nil {
			return nil, errors.Wrapf(err, "[genres.Service.Get] fetch genre %q", slug)
		}
		return genre, nil
	})
}

// Create adds a genre and invalidates the genre lists.
func (s *Service) Create(ctx context.Context, data GenreCreate) (*Genre, error) {
	genre := &Genre{}
	if err := s.api.Post(ctx, "/movies/genres/", data, genre); err != nil {
		return nil, errors.Wrap(err, "[genres.Service.Create] create genre")
	}
	s.table.Apply(s.cache, querycache.Mutation{Entity: entity, Kind: querycache.MutationCreate}, nil)
	return genre, nil
}

// Update modifies a genre and invalidates its entries.
func (s *Service) Update(ctx context.Context, slug string, data GenreUpdate) (*Genre, error) {
	genre := &Genre{}
	if err := s.api.Patch(ctx, "/movies/genres/"+url.PathEscape(slug)+"/", data, genre); err != nil {
		return nil, errors.Wrapf(err, "[genres.Service.Update] update genre %q", slug)
	}
	s.table.Apply(s.cache, querycache.Mutation{Entity: entity, Kind: querycache.MutationUpdate}, map[string]string{"slug": slug})
	return genre, nil
}

// Delete removes a genre. Invalidating entries that were already swept is a
// no-op, so deleting twice is harmless from the cache's perspective.
func (s *Service) Delete(ctx context.Context, slug string) error {
	if err := s.api.Delete(ctx, "/movies/genres/"+url.PathEscape(slug)+"/", nil); err != nil {
		return errors.Wrapf(err, "[genres.Service.Delete] delete genre %q", slug)
	}
	s.table.Apply(s.cache, querycache.Mutation{Entity: entity, Kind: querycache.MutationDelete}, map[string]string{"slug": slug})
	return nil
}

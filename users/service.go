package users

import (
	"context"
	"net/url"
	"strconv"

	"github.com/pkg/errors"

	"github.com/flixreview/go-flixreview-client/api"
	"github.com/flixreview/go-flixreview-client/querycache"
)

const entity = "users"

const preferredGenresEntity = "preferred-genres"

// Filters narrows the public user listing.
type Filters struct {
	Search   string
	Page     int
	PageSize int
}

func (f Filters) params() map[string]string {
	params := map[string]string{
		"search": f.Search,
	}
	if f.Page > 0 {
		params["page"] = strconv.Itoa(f.Page)
	}
	if f.PageSize > 0 {
		params["page_size"] = strconv.Itoa(f.PageSize)
	}
	return params
}

func (f Filters) values() url.Values {
	values := url.Values{}
	for name, value := range f.params() {
		if value != "" {
			values.Set(name, value)
		}
	}
	return values
}

// Service exposes the public user directory and the preferred-genres
// preference record through the shared query cache.
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

// List returns the paginated user directory, cached per filter set.
func (s *Service) List(ctx context.Context, filters Filters) (*UserList, error) {
	key := querycache.NewListKey(entity, filters.params())
	return querycache.Fetch(ctx, s.cache, key, 0, func(ctx context.Context) (*UserList, error) {
		list := &UserList{}
		if err := s.api.Get(ctx, "/users/", filters.values(), list); err != nil {
			return nil, errors.Wrap(err, "[users.Service.List] fetch users")
		}
		return list, nil
	})
}

// GetByUsername returns a user's public profile.
func (s *Service) GetByUsername(ctx context.Context, username string) (*User, error) {
	key := querycache.NewKey(entity, username)
	return querycache.Fetch(ctx, s.cache, key, 0, func(ctx context.Context) (*User, error) {
		user := &User{}
		if err := s.api.Get(ctx, "/users/"+url.PathEscape(username)+"/", nil, user); err != nil {
			return nil, errors.Wrapf(err, "[users.Service.GetByUsername] fetch user %q", username)
		}
		return user, nil
	})
}

// Search queries the directory by username or name.
func (s *Service) Search(ctx context.Context, query string) (*UserList, error) {
	return s.List(ctx, Filters{Search: query})
}

// PreferredGenres returns the caller's preferred-genre record.
func (s *Service) PreferredGenres(ctx context.Context) (*PreferredGenres, error) {
	key := querycache.NewKey(preferredGenresEntity)
	return querycache.Fetch(ctx, s.cache, key, 0, func(ctx context.Context) (*PreferredGenres, error) {
		prefs := &PreferredGenres{}
		if err := s.api.Get(ctx, "/users/genres/", nil, prefs); err != nil {
			return nil, errors.Wrap(err, "[users.Service.PreferredGenres] fetch preferences")
		}
		return prefs, nil
	})
}

// UpdatePreferredGenres replaces the caller's preferred genres and
// invalidates the preference record plus any recommendation lists derived
// from it.
func (s *Service) UpdatePreferredGenres(ctx context.Context, genreIDs []int) (*PreferredGenres, error) {
	payload := map[string][]int{"preferred_genre_ids": genreIDs}
	prefs := &PreferredGenres{}
	if err := s.api.Post(ctx, "/users/genres/", payload, prefs); err != nil {
		return nil, errors.Wrap(err, "[users.Service.UpdatePreferredGenres] update preferences")
	}
	s.table.Apply(s.cache, querycache.Mutation{Entity: preferredGenresEntity, Kind: querycache.MutationUpdate}, nil)
	return prefs, nil
}

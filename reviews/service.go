package reviews

import (
	"context"
	"net/url"
	"strconv"

	"github.com/pkg/errors"

	"github.com/flixreview/go-flixreview-client/api"
	"github.com/flixreview/go-flixreview-client/querycache"
)

const entity = "reviews"

// Service exposes review queries and mutations through the shared cache.
// Review mutations fan out to the owning movie's cache entries because its
// average rating and review count are denormalized there.
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

// List returns reviews, cached per normalized filter set.
func (s *Service) List(ctx context.Context, filters Filters) (*ReviewList, error) {
	key := querycache.NewListKey(entity, filters.params())
	return querycache.Fetch(ctx, s.cache, key, 0, func(ctx context.Context) (*ReviewList, error) {
		values := url.Values{}
		for name, value := range filters.params() {
			if value != "" {
				values.Set(name, value)
			}
		}
		list := &ReviewList{}
		if err := s.api.Get(ctx, "/reviews/", values, list); err != nil {
			return nil, errors.Wrap(err, "[reviews.Service.List] fetch reviews")
		}
		return list, nil
	})
}

// Get returns a single review.
func (s *Service) Get(ctx context.Context, id int) (*Review, error) {
	key := querycache.NewKey(entity, strconv.Itoa(id))
	return querycache.Fetch(ctx, s.cache, key, 0, func(ctx context.Context) (*Review, error) {
		review := &Review{}
		if err := s.api.Get(ctx, reviewPath(id), nil, review); err != nil {
			return nil, errors.Wrapf(err, "[reviews.Service.Get] fetch review %d", id)
		}
		return review, nil
	})
}

// Create validates and submits a new review, then invalidates the review
// lists and the owning movie's entries.
func (s *Service) Create(ctx context.Context, data ReviewCreate) (*Review, error) {
	if err := data.Validate(); err != nil {
		return nil, err
	}
	review := &Review{}
	if err := s.api.Post(ctx, "/reviews/", data, review); err != nil {
		return nil, errors.Wrap(err, "[reviews.Service.Create] create review")
	}
	s.table.Apply(s.cache, querycache.Mutation{Entity: entity, Kind: querycache.MutationCreate}, reviewVars(review))
	return review, nil
}

// Update validates and submits a review change, then invalidates the review
// entries plus the owning movie's.
func (s *Service) Update(ctx context.Context, id int, data ReviewUpdate) (*Review, error) {
	if err := data.Validate(); err != nil {
		return nil, err
	}
	review := &Review{}
	if err := s.api.Patch(ctx, reviewPath(id), data, review); err != nil {
		return nil, errors.Wrapf(err, "[reviews.Service.Update] update review %d", id)
	}
	vars := reviewVars(review)
	vars["id"] = strconv.Itoa(id)
	s.table.Apply(s.cache, querycache.Mutation{Entity: entity, Kind: querycache.MutationUpdate}, vars)
	return review, nil
}

// Delete removes a review. The owning movie's id is resolved from the cached
// review before the record disappears; when the review was never cached, only
// the movie list entries are swept.
func (s *Service) Delete(ctx context.Context, id int) error {
	vars := map[string]string{"id": strconv.Itoa(id)}
	if cached, ok := s.cache.Peek(querycache.NewKey(entity, strconv.Itoa(id))); ok {
		if review, ok := cached.(*Review); ok && review.Movie.ID > 0 {
			vars["movie_id"] = strconv.Itoa(review.Movie.ID)
		}
	}

	if err := s.api.Delete(ctx, reviewPath(id), nil); err != nil {
		return errors.Wrapf(err, "[reviews.Service.Delete] delete review %d", id)
	}
	s.table.Apply(s.cache, querycache.Mutation{Entity: entity, Kind: querycache.MutationDelete}, vars)
	return nil
}

// Like marks a review liked and refreshes its cached entries.
func (s *Service) Like(ctx context.Context, id int) (*LikeResponse, error) {
	resp := &LikeResponse{}
	if err := s.api.Post(ctx, reviewPath(id)+"like/", nil, resp); err != nil {
		return nil, errors.Wrapf(err, "[reviews.Service.Like] like review %d", id)
	}
	s.invalidateLike(id)
	return resp, nil
}

// Unlike removes a like and refreshes the review's cached entries.
func (s *Service) Unlike(ctx context.Context, id int) (*LikeResponse, error) {
	resp := &LikeResponse{}
	if err := s.api.Delete(ctx, reviewPath(id)+"like/", resp); err != nil {
		return nil, errors.Wrapf(err, "[reviews.Service.Unlike] unlike review %d", id)
	}
	s.invalidateLike(id)
	return resp, nil
}

// MostLiked returns the most liked reviews, optionally for one movie.
func (s *Service) MostLiked(ctx context.Context, movieID int) (*ReviewList, error) {
	params := map[string]string{}
	if movieID > 0 {
		params["movie"] = strconv.Itoa(movieID)
	}
	key := querycache.NewListKey(entity+"/most-liked", params)
	return querycache.Fetch(ctx, s.cache, key, 0, func(ctx context.Context) (*ReviewList, error) {
		values := url.Values{}
		if movieID > 0 {
			values.Set("movie", strconv.Itoa(movieID))
		}
		list := &ReviewList{}
		if err := s.api.Get(ctx, "/reviews/most-liked/", values, list); err != nil {
			return nil, errors.Wrap(err, "[reviews.Service.MostLiked] fetch most liked")
		}
		return list, nil
	})
}

// invalidateLike drops the review singleton and list entries; like totals do
// not touch the movie aggregates, so movie caches stay put.
func (s *Service) invalidateLike(id int) {
	s.cache.Invalidate(
		querycache.Pattern(querycache.NewKey(entity, strconv.Itoa(id))),
		querycache.Pattern(entity+"?"),
		querycache.Pattern(entity+"/most-liked?"),
	)
}

func reviewPath(id int) string {
	return "/reviews/" + strconv.Itoa(id) + "/"
}

func reviewVars(review *Review) map[string]string {
	vars := map[string]string{}
	if review == nil {
		return vars
	}
	if review.ID > 0 {
		vars["id"] = strconv.Itoa(review.ID)
	}
	if review.Movie.ID > 0 {
		vars["movie_id"] = strconv.Itoa(review.Movie.ID)
	}
	return vars
}

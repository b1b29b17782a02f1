package recommendations

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/flixreview/go-flixreview-client/api"
	"github.com/flixreview/go-flixreview-client/movies"
	"github.com/flixreview/go-flixreview-client/querycache"
)

const entity = "recommendations"

// DefaultTTL is the freshness window for the public recommendation lists.
const DefaultTTL = 5 * time.Minute

// PersonalizedTTL is the freshness window for per-user recommendations,
// which are also cached server-side.
const PersonalizedTTL = 10 * time.Minute

// Service exposes the read-only recommendation endpoints through the shared
// cache. Every key carries the "recommendations" entity so a preferred-genre
// update sweeps all of them at once.
type Service struct {
	api             *api.Client
	cache           *querycache.Cache
	ttl             time.Duration
	personalizedTTL time.Duration
}

// ServiceOption defines a function type to modify the Service instance.
type ServiceOption func(*Service)

// WithTTL overrides the freshness window of the public lists.
func WithTTL(ttl time.Duration) ServiceOption {
	return func(s *Service) {
		s.ttl = ttl
	}
}

// WithPersonalizedTTL overrides the freshness window of per-user results.
func WithPersonalizedTTL(ttl time.Duration) ServiceOption {
	return func(s *Service) {
		s.personalizedTTL = ttl
	}
}

func NewService(client *api.Client, cache *querycache.Cache, options ...ServiceOption) *Service {
	s := &Service{
		api:             client,
		cache:           cache,
		ttl:             DefaultTTL,
		personalizedTTL: PersonalizedTTL,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// TopRated returns the highest rated movies.
func (s *Service) TopRated(ctx context.Context, limit int) ([]movies.Movie, error) {
	return s.movieList(ctx, "top-rated", limit)
}

// Trending returns movies with recent review activity.
func (s *Service) Trending(ctx context.Context, limit int) ([]movies.Movie, error) {
	return s.movieList(ctx, "trending", limit)
}

// MostReviewed returns movies ranked by review count.
func (s *Service) MostReviewed(ctx context.Context, limit int) ([]movies.Movie, error) {
	return s.movieList(ctx, "most-reviewed", limit)
}

// Recent returns the latest additions to the catalogue.
func (s *Service) Recent(ctx context.Context, limit int) ([]movies.Movie, error) {
	return s.movieList(ctx, "recent", limit)
}

// ForYou returns the caller's personalized recommendations. Requires an
// authenticated session; the server rejects anonymous calls.
func (s *Service) ForYou(ctx context.Context, limit int) (*Personalized, error) {
	key := querycache.NewListKey(entity, listParams("for-you", limit))
	return querycache.Fetch(ctx, s.cache, key, s.personalizedTTL, func(ctx context.Context) (*Personalized, error) {
		personalized := &Personalized{}
		if err := s.api.Get(ctx, "/recommendations/for-you/", limitValues(limit), personalized); err != nil {
			return nil, errors.Wrap(err, "[recommendations.Service.ForYou] fetch recommendations")
		}
		return personalized, nil
	})
}

// Similar returns movies similar to the given one.
func (s *Service) Similar(ctx context.Context, movieID, limit int) (*SimilarMovies, error) {
	params := listParams("similar", limit)
	params["movie"] = strconv.Itoa(movieID)
	key := querycache.NewListKey(entity, params)
	return querycache.Fetch(ctx, s.cache, key, s.ttl, func(ctx context.Context) (*SimilarMovies, error) {
		similar := &SimilarMovies{}
		path := "/recommendations/movies/" + strconv.Itoa(movieID) + "/similar/"
		if err := s.api.Get(ctx, path, limitValues(limit), similar); err != nil {
			return nil, errors.Wrapf(err, "[recommendations.Service.Similar] fetch similar to movie %d", movieID)
		}
		return similar, nil
	})
}

// TasteProfile returns the review-derived taste summary for the caller.
func (s *Service) TasteProfile(ctx context.Context) (*TasteProfile, error) {
	key := querycache.NewListKey(entity, listParams("taste-profile", 0))
	return querycache.Fetch(ctx, s.cache, key, s.personalizedTTL, func(ctx context.Context) (*TasteProfile, error) {
		profile := &TasteProfile{}
		if err := s.api.Get(ctx, "/recommendations/profile/taste/", nil, profile); err != nil {
			return nil, errors.Wrap(err, "[recommendations.Service.TasteProfile] fetch taste profile")
		}
		return profile, nil
	})
}

func (s *Service) movieList(ctx context.Context, kind string, limit int) ([]movies.Movie, error) {
	key := querycache.NewListKey(entity, listParams(kind, limit))
	return querycache.Fetch(ctx, s.cache, key, s.ttl, func(ctx context.Context) ([]movies.Movie, error) {
		var raw json.RawMessage
		if err := s.api.Get(ctx, "/recommendations/"+kind+"/", limitValues(limit), &raw); err != nil {
			return nil, errors.Wrapf(err, "[recommendations.Service.movieList] fetch %s", kind)
		}
		list, err := unwrapMovies(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "[recommendations.Service.movieList] decode %s", kind)
		}
		if limit > 0 && len(list) > limit {
			list = list[:limit]
		}
		return list, nil
	})
}

// unwrapMovies accepts both the bare-array and the paginated wire shape.
func unwrapMovies(raw json.RawMessage) ([]movies.Movie, error) {
	var flat []movies.Movie
	if err := json.Unmarshal(raw, &flat); err == nil {
		return flat, nil
	}
	var paged struct {
		Results []movies.Movie `json:"results"`
	}
	if err := json.Unmarshal(raw, &paged); err != nil {
		return nil, err
	}
	return paged.Results, nil
}

func listParams(kind string, limit int) map[string]string {
	params := map[string]string{"kind": kind}
	if limit > 0 {
		params["limit"] = strconv.Itoa(limit)
	}
	return params
}

func limitValues(limit int) url.Values {
	if limit <= 0 {
		return nil
	}
	values := url.Values{}
	values.Set("limit", strconv.Itoa(limit))
	return values
}

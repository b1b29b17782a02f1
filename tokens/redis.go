package tokens

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const (
	redisAccessKey  = "access_token"
	redisRefreshKey = "refresh_token"
)

var _ Store = (*RedisStore)(nil)

// RedisStore keeps the pair under two fixed keys. Both keys are written and
// deleted in a single pipeline so the store never holds half a pair.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// RedisConfig contains connection options for the Redis-backed store.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int

	// KeyPrefix is prepended to both token keys (default: "flixreview:").
	KeyPrefix string
}

func NewRedisStore(cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, errors.Wrap(err, "[NewRedisStore] connect")
	}

	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = "flixreview:"
	}
	return &RedisStore{client: client, prefix: prefix}, nil
}

func (s *RedisStore) Save(pair Pair) error {
	ctx := context.Background()
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.prefix+redisAccessKey, pair.Access, 0)
	pipe.Set(ctx, s.prefix+redisRefreshKey, pair.Refresh, 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Wrap(err, "[RedisStore.Save] pipeline exec")
	}
	return nil
}

func (s *RedisStore) Load() (Pair, error) {
	ctx := context.Background()
	vals, err := s.client.MGet(ctx, s.prefix+redisAccessKey, s.prefix+redisRefreshKey).Result()
	if err != nil {
		return Pair{}, errors.Wrap(err, "[RedisStore.Load] mget")
	}
	pair := Pair{}
	if v, ok := vals[0].(string); ok {
		pair.Access = v
	}
	if v, ok := vals[1].(string); ok {
		pair.Refresh = v
	}
	if pair.Empty() {
		return Pair{}, ErrNoTokens
	}
	return pair, nil
}

func (s *RedisStore) Clear() error {
	ctx := context.Background()
	if err := s.client.Del(ctx, s.prefix+redisAccessKey, s.prefix+redisRefreshKey).Err(); err != nil {
		return errors.Wrap(err, "[RedisStore.Clear] del")
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

package querycache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"
)

// Cache is a process-wide store of fetched API values keyed by normalized
// query keys. Reads for the same key coalesce into a single in-flight fetch
// whose result fans out to every waiter. A failed fetch leaves the cache
// untouched.
type Cache struct {
	mu      sync.RWMutex
	entries map[Key]entry
	group   singleflight.Group
	nowTime func() time.Time
}

type entry struct {
	value     any
	fetchedAt time.Time
}

// CacheOption defines a function type to modify the Cache instance.
type CacheOption func(*Cache)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) CacheOption {
	return func(c *Cache) {
		c.nowTime = nowFunc
	}
}

func New(options ...CacheOption) *Cache {
	c := &Cache{
		entries: make(map[Key]entry),
		nowTime: time.Now,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// GetOrFetch returns the cached value when its age is below ttl, otherwise
// runs fetch. A ttl of zero means always stale: every read revalidates, but
// concurrent identical reads still share one fetch.
func (c *Cache) GetOrFetch(ctx context.Context, key Key, ttl time.Duration, fetch func(ctx context.Context) (any, error)) (any, error) {
	if ttl > 0 {
		c.mu.RLock()
		e, ok := c.entries[key]
		c.mu.RUnlock()
		if ok && c.nowTime().Sub(e.fetchedAt) < ttl {
			return e.value, nil
		}
	}

	value, err, _ := c.group.Do(string(key), func() (any, error) {
		fetched, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[key] = entry{value: fetched, fetchedAt: c.nowTime()}
		c.mu.Unlock()
		return fetched, nil
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Fetch is the typed wrapper around Cache.GetOrFetch.
func Fetch[T any](ctx context.Context, c *Cache, key Key, ttl time.Duration, fetch func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	value, err := c.GetOrFetch(ctx, key, ttl, func(ctx context.Context) (any, error) {
		return fetch(ctx)
	})
	if err != nil {
		return zero, err
	}
	typed, ok := value.(T)
	if !ok {
		return zero, errors.Errorf("[querycache.Fetch] unexpected cached type %T for key %q", value, key)
	}
	return typed, nil
}

// Peek returns the cached value for key regardless of staleness.
func (c *Cache) Peek(key Key) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	return e.value, true
}

// Len returns the number of live entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Pattern selects cache entries for invalidation. A pattern ending in '?'
// sweeps every list entry of an entity by prefix (e.g. "movies?" removes all
// movie list keys whatever their filters); any other pattern matches exactly
// one key.
type Pattern string

func (p Pattern) matches(key Key) bool {
	s := string(p)
	if strings.HasSuffix(s, "?") {
		return strings.HasPrefix(string(key), s)
	}
	return string(key) == s
}

// Invalidate removes every entry matched by any of the patterns.
// Invalidating keys that hold no entry is a no-op, never an error.
func (c *Cache) Invalidate(patterns ...Pattern) {
	if len(patterns) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		for _, p := range patterns {
			if p.matches(key) {
				delete(c.entries, key)
				break
			}
		}
	}
}

// InvalidateKey removes a single entry.
func (c *Cache) InvalidateKey(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

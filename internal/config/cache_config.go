package config

import (
	"time"

	"github.com/spf13/viper"
)

const (
	genreCacheTTLKey  = "genre_cache_ttl"
	searchDebounceKey = "search_debounce"
)

type CacheConfig interface {
	GetGenreCacheTTL() time.Duration
	GetSearchDebounce() time.Duration
}

var _ CacheConfig = (*Vars)(nil)

func setCacheDefaults(v *viper.Viper) {
	// Genres rarely change server-side, so their lists stay fresh for a
	// while. Everything else revalidates on every read.
	v.SetDefault(genreCacheTTLKey, 10*time.Minute)
	v.SetDefault(searchDebounceKey, 500*time.Millisecond)
}

func (c *Vars) GetGenreCacheTTL() time.Duration {
	return c.v.GetDuration(genreCacheTTLKey)
}

func (c *Vars) GetSearchDebounce() time.Duration {
	return c.v.GetDuration(searchDebounceKey)
}

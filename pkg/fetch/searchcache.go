package fetch

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	redisstore "github.com/eko/gocache/store/redis/v4"
	"github.com/redis/go-redis/v9"
)

const searchCacheKeyPrefix = "searchcache:"

// SearchCache stores place search results keyed by the normalised query so a
// repeated query skips the network entirely. Entries live for the session -
// there is no eviction beyond the store expiration. Redis handles concurrent
// reads and inserts from the two search fields.
type SearchCache struct {
	cache *cache.Cache[string]
}

func NewSearchCache(client *redis.Client, expiration time.Duration) *SearchCache {
	redisStore := redisstore.NewRedis(client, store.WithExpiration(expiration))

	return &SearchCache{cache: cache.New[string](redisStore)}
}

// NormaliseQuery is the cache key rule: trimmed and lower cased.
func NormaliseQuery(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// Lookup reports whether the query had a cached result and decodes it into
// value when it did.
func (c *SearchCache) Lookup(ctx context.Context, query string, value any) bool {
	raw, err := c.cache.Get(ctx, searchCacheKeyPrefix+NormaliseQuery(query))
	if err != nil {
		return false
	}

	return json.Unmarshal([]byte(raw), value) == nil
}

func (c *SearchCache) Store(ctx context.Context, query string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return c.cache.Set(ctx, searchCacheKeyPrefix+NormaliseQuery(query), string(raw))
}

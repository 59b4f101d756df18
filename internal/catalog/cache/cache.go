// Package cache provides a Redis read-through cache for catalog searches.
// The external catalog is slow and rate-limited; identical keyword lookups
// within one session are common, so responses are cached briefly by query.
package cache

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"tradequote_backend/internal/catalog/client"
	"tradequote_backend/platform/logger"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "catalog:search:"

// Searcher is the upstream lookup the cache wraps.
type Searcher interface {
	Search(ctx context.Context, query string) ([]client.Product, error)
}

// Cache is a read-through search cache. Cache failures never fail the lookup;
// they degrade to the upstream call.
type Cache struct {
	next Searcher
	rdb  *redis.Client
	ttl  time.Duration
	log  *logger.Logger
}

// New creates a cache in front of the given searcher.
func New(next Searcher, rdb *redis.Client, ttl time.Duration, log *logger.Logger) *Cache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Cache{next: next, rdb: rdb, ttl: ttl, log: log}
}

// Ping reports cache reachability for health checks.
func (c *Cache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Search implements the Searcher surface with a read-through cache keyed by
// the lowercased query.
func (c *Cache) Search(ctx context.Context, query string) ([]client.Product, error) {
	key := keyPrefix + strings.ToLower(strings.TrimSpace(query))

	if raw, err := c.rdb.Get(ctx, key).Result(); err == nil {
		var products []client.Product
		if err := json.Unmarshal([]byte(raw), &products); err == nil {
			return products, nil
		}
		// Unreadable entry: fall through and overwrite.
	} else if err != redis.Nil {
		c.log.WithContext(ctx).Warn("catalog cache read failed", "query", query, "error", err.Error())
	}

	products, err := c.next.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(products); err == nil {
		if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
			c.log.WithContext(ctx).Warn("catalog cache write failed", "query", query, "error", err.Error())
		}
	}
	return products, nil
}

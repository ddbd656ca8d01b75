// Package cache keeps the last good listing set per filter state so a fatal
// provider failure degrades to stale results instead of an error page.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"gemstore/internal/config"
	"gemstore/internal/model"
)

// ResultCache stores serialized search responses in Redis, keyed by the
// deterministic encoding of the filter state plus sort and window. With the
// cache disabled every lookup is a miss and every store a no-op.
type ResultCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewResultCache creates a result cache from configuration.
func NewResultCache(cfg *config.RedisConfig) *ResultCache {
	if !cfg.Enabled {
		return &ResultCache{}
	}
	return &ResultCache{
		rdb: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
		ttl: time.Duration(cfg.TTL) * time.Second,
	}
}

// Key builds the cache key for one logical request. Encoding the filter
// state is deterministic, so identical states share a key.
func (c *ResultCache) Key(state *model.FilterState, sort string, page model.PageRequest) string {
	encoded := model.ParamsToValues(state.Encode()).Encode()
	return fmt.Sprintf("results:%s:sort=%s:offset=%d:limit=%d", encoded, sort, page.Offset, page.Limit)
}

// Get returns the cached response for a key, if any.
func (c *ResultCache) Get(ctx context.Context, key string) (*model.SearchResponse, bool) {
	if c.rdb == nil {
		return nil, false
	}
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("result cache read failed: %v", err)
		}
		return nil, false
	}
	var resp model.SearchResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		log.Printf("discarding undecodable cache entry %s: %v", key, err)
		return nil, false
	}
	return &resp, true
}

// Set stores a response under a key. Failures are logged, never surfaced;
// the cache is an optimization.
func (c *ResultCache) Set(ctx context.Context, key string, resp *model.SearchResponse) {
	if c.rdb == nil {
		return
	}
	data, err := json.Marshal(resp)
	if err != nil {
		log.Printf("result cache marshal failed: %v", err)
		return
	}
	if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		log.Printf("result cache write failed: %v", err)
	}
}

// Close releases the Redis connection.
func (c *ResultCache) Close() error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

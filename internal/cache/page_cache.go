// Package cache stores rendered JSON pages keyed by route path so a mutation
// can drop every cached variant of a page in one call.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/prostore/prostore-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "page:"

// PageCache holds response bodies per path. A path has one variant per
// distinct query string.
type PageCache interface {
	Get(ctx context.Context, path, variant string) ([]byte, bool)
	Set(ctx context.Context, path, variant string, body []byte) error
	Revalidate(ctx context.Context, path string) error
}

type redisPageCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisPageCache keeps each path's variants in one hash so Revalidate is a
// single DEL.
func NewRedisPageCache(client *redis.Client, ttl time.Duration) PageCache {
	return &redisPageCache{client: client, ttl: ttl}
}

func (c *redisPageCache) Get(ctx context.Context, path, variant string) ([]byte, bool) {
	body, err := c.client.HGet(ctx, keyPrefix+path, variant).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Warn("Page cache read failed", map[string]interface{}{
				"path":  path,
				"error": err.Error(),
			})
		}
		return nil, false
	}
	return body, true
}

func (c *redisPageCache) Set(ctx context.Context, path, variant string, body []byte) error {
	key := keyPrefix + path
	pipe := c.client.TxPipeline()
	pipe.HSet(ctx, key, variant, body)
	if c.ttl > 0 {
		pipe.Expire(ctx, key, c.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		logger.Warn("Page cache write failed", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
		return err
	}
	return nil
}

func (c *redisPageCache) Revalidate(ctx context.Context, path string) error {
	if err := c.client.Del(ctx, keyPrefix+path).Err(); err != nil {
		logger.Error("Page cache revalidation failed", err, map[string]interface{}{
			"path": path,
		})
		return err
	}

	logger.Debug("Page cache revalidated", map[string]interface{}{
		"path": path,
	})
	return nil
}

type noopPageCache struct{}

// NewNoopPageCache never stores anything. Used when Redis is not configured.
func NewNoopPageCache() PageCache {
	return noopPageCache{}
}

func (noopPageCache) Get(context.Context, string, string) ([]byte, bool) { return nil, false }

func (noopPageCache) Set(context.Context, string, string, []byte) error { return nil }

func (noopPageCache) Revalidate(context.Context, string) error { return nil }

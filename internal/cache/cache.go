// Package cache is a Redis-backed read-through cache for single entities.
// A nil *Entity is valid and never hits, so callers need no Redis checks.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const DefaultTTL = 5 * time.Minute

// Connect creates a Redis client and verifies the connection with a ping.
func Connect(addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// Entity caches JSON values of one kind under prefix. Errors are logged and
// treated as misses.
type Entity[T any] struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	lg     *zap.SugaredLogger
}

// NewEntity returns nil when client is nil.
func NewEntity[T any](client *redis.Client, prefix string, ttl time.Duration, lg *zap.SugaredLogger) *Entity[T] {
	if client == nil {
		return nil
	}
	if ttl == 0 {
		ttl = DefaultTTL
	}
	if lg == nil {
		lg = zap.NewNop().Sugar()
	}
	return &Entity[T]{client: client, prefix: prefix, ttl: ttl, lg: lg}
}

func (c *Entity[T]) Get(ctx context.Context, key string) (T, bool) {
	var zero T
	if c == nil {
		return zero, false
	}
	b, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return zero, false
	}
	if err != nil {
		c.lg.Warnw("cache get failed", "key", c.prefix+key, "err", err)
		return zero, false
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		c.lg.Warnw("cache entry undecodable", "key", c.prefix+key, "err", err)
		return zero, false
	}
	return v, true
}

func (c *Entity[T]) Set(ctx context.Context, key string, v T) {
	if c == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		c.lg.Warnw("cache encode failed", "key", c.prefix+key, "err", err)
		return
	}
	if err := c.client.Set(ctx, c.prefix+key, b, c.ttl).Err(); err != nil {
		c.lg.Warnw("cache set failed", "key", c.prefix+key, "err", err)
	}
}

func (c *Entity[T]) Delete(ctx context.Context, key string) {
	if c == nil {
		return
	}
	if err := c.client.Del(ctx, c.prefix+key).Err(); err != nil {
		c.lg.Warnw("cache invalidate failed", "key", c.prefix+key, "err", err)
	}
}

// Clear drops every entry under the prefix.
func (c *Entity[T]) Clear(ctx context.Context) {
	if c == nil {
		return
	}
	iter := c.client.Scan(ctx, 0, c.prefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.lg.Warnw("cache scan failed", "prefix", c.prefix, "err", err)
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.lg.Warnw("cache clear failed", "prefix", c.prefix, "err", err)
	}
}

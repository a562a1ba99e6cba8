package course

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"industrain/internal/logger"

	"github.com/redis/go-redis/v9"
)

// ListCache stores course listings keyed by their limit. Implementations are
// best-effort: a miss or failure is never an error for the caller.
type ListCache interface {
	GetList(ctx context.Context, limit int) ([]*Course, bool)
	SetList(ctx context.Context, limit int, courses []*Course)
}

// DefaultCacheTTL bounds how stale a cached listing may be.
const DefaultCacheTTL = 10 * time.Minute

// RedisCache is a ListCache backed by Redis.
type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
	log *logger.Logger
}

// NewRedisCache creates a listing cache. A non-positive ttl uses DefaultCacheTTL.
func NewRedisCache(rdb *redis.Client, ttl time.Duration, log *logger.Logger) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if log == nil {
		log = logger.Nop()
	}
	return &RedisCache{rdb: rdb, ttl: ttl, log: log}
}

func listKey(limit int) string {
	return fmt.Sprintf("courses:list:%d", limit)
}

func (c *RedisCache) GetList(ctx context.Context, limit int) ([]*Course, bool) {
	val, err := c.rdb.Get(ctx, listKey(limit)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("course cache read failed", "limit", limit, "error", err)
		}
		return nil, false
	}

	var courses []*Course
	if err := json.Unmarshal(val, &courses); err != nil {
		c.log.Warn("course cache entry corrupt", "limit", limit, "error", err)
		return nil, false
	}
	return courses, true
}

func (c *RedisCache) SetList(ctx context.Context, limit int, courses []*Course) {
	data, err := json.Marshal(courses)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, listKey(limit), data, c.ttl).Err(); err != nil {
		c.log.Warn("course cache write failed", "limit", limit, "error", err)
	}
}

// Invalidate drops every cached listing.
func (c *RedisCache) Invalidate(ctx context.Context) error {
	iter := c.rdb.Scan(ctx, 0, "courses:list:*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan cache keys: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

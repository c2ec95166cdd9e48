package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/DareenAmin/Library-Desk-Agent/internal/usecase"
	"github.com/redis/go-redis/v9"
)

// RedisOrderCache caches rendered order detail keyed by order id.
type RedisOrderCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisOrderCache(rdb *redis.Client, ttl time.Duration) *RedisOrderCache {
	return &RedisOrderCache{rdb: rdb, ttl: ttl}
}

func (r *RedisOrderCache) GetStatus(ctx context.Context, orderID int64) (string, bool, error) {
	val, err := r.rdb.Get(ctx, orderStatusKey(orderID)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, mapRedisErr(err)
	}
	return val, true, nil
}

func (r *RedisOrderCache) SetStatus(ctx context.Context, orderID int64, payload string) error {
	if err := r.rdb.Set(ctx, orderStatusKey(orderID), payload, r.ttl).Err(); err != nil {
		return mapRedisErr(err)
	}
	return nil
}

func orderStatusKey(orderID int64) string {
	return "order:status:" + strconv.FormatInt(orderID, 10)
}

var _ usecase.OrderCache = (*RedisOrderCache)(nil)

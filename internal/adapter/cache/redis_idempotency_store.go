package cache

import (
	"context"
	"fmt"
	"time"

	domain "github.com/DareenAmin/Library-Desk-Agent/internal/entity"
	"github.com/DareenAmin/Library-Desk-Agent/internal/usecase"
	"github.com/redis/go-redis/v9"
)

// RedisIdempotencyStore backs X-Idempotency-Key replay protection for
// order creation. The lock key claims a request; the map key remembers the
// committed order so retries return the original id and total instead of
// placing a second order.
type RedisIdempotencyStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisIdempotencyStore(rdb *redis.Client, ttl time.Duration) *RedisIdempotencyStore {
	return &RedisIdempotencyStore{rdb: rdb, ttl: ttl}
}

func (s *RedisIdempotencyStore) TryLock(ctx context.Context, scope, key string) (bool, error) {
	ok, err := s.rdb.SetNX(ctx, "order:idem:"+scope+":"+key, "1", s.ttl).Result()
	if err != nil {
		return false, mapRedisErr(err)
	}
	return ok, nil
}

func (s *RedisIdempotencyStore) Unlock(ctx context.Context, scope, key string) error {
	if err := s.rdb.Del(ctx, "order:idem:"+scope+":"+key).Err(); err != nil {
		return mapRedisErr(err)
	}
	return nil
}

func (s *RedisIdempotencyStore) Remember(ctx context.Context, scope, key, value string) error {
	if err := s.rdb.Set(ctx, "order:idem:map:"+scope+":"+key, value, s.ttl).Err(); err != nil {
		return mapRedisErr(err)
	}
	return nil
}

func (s *RedisIdempotencyStore) Recall(ctx context.Context, scope, key string) (string, bool, error) {
	val, err := s.rdb.Get(ctx, "order:idem:map:"+scope+":"+key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, mapRedisErr(err)
	}
	return val, true, nil
}

// mapRedisErr translates connection failures into the domain taxonomy, the
// same way the MySQL store does for driver errors.
func mapRedisErr(err error) error {
	return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
}

var _ usecase.IdempotencyStore = (*RedisIdempotencyStore)(nil)

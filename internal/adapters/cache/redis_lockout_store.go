package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/algonex/license-portal/internal/ports"
)

const (
	lockoutKeyPrefix = "portal:lockout:"

	failuresField    = "failures"
	lockedUntilField = "locked_until"

	// Stale counters self-clear after a day of no further failures.
	counterTTL = 24 * time.Hour
)

// RedisLockoutStore tracks failed login counters in Redis hashes so the
// lockout window survives restarts and is shared across instances.
type RedisLockoutStore struct {
	client *redis.Client
}

func NewRedisLockoutStore(client *redis.Client) *RedisLockoutStore {
	return &RedisLockoutStore{client: client}
}

func (s *RedisLockoutStore) Get(ctx context.Context, key string) (ports.LockoutState, error) {
	data, err := s.client.HGetAll(ctx, lockoutKeyPrefix+key).Result()
	if err != nil {
		return ports.LockoutState{}, err
	}
	return parseLockoutHash(data), nil
}

func (s *RedisLockoutStore) RecordFailure(ctx context.Context, key string, now time.Time, threshold int, lockoutWindow time.Duration) (ports.LockoutState, error) {
	redisKey := lockoutKeyPrefix + key

	count, err := s.client.HIncrBy(ctx, redisKey, failuresField, 1).Result()
	if err != nil {
		return ports.LockoutState{}, err
	}

	state := ports.LockoutState{FailedCount: int(count)}
	if int(count) < threshold {
		_ = s.client.Expire(ctx, redisKey, counterTTL).Err()
		return state, nil
	}

	lockedUntil := now.Add(lockoutWindow).UTC()
	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, redisKey, lockedUntilField, lockedUntil.Unix())
		p.Expire(ctx, redisKey, lockoutWindow+30*time.Minute)
		return nil
	})
	if err != nil {
		return ports.LockoutState{}, err
	}
	state.LockedUntil = &lockedUntil
	return state, nil
}

func (s *RedisLockoutStore) Clear(ctx context.Context, key string) error {
	return s.client.Del(ctx, lockoutKeyPrefix+key).Err()
}

func parseLockoutHash(data map[string]string) ports.LockoutState {
	state := ports.LockoutState{}
	if raw, ok := data[failuresField]; ok {
		state.FailedCount, _ = strconv.Atoi(raw)
	}
	if raw, ok := data[lockedUntilField]; ok && raw != "" {
		if unix, err := strconv.ParseInt(raw, 10, 64); err == nil && unix > 0 {
			t := time.Unix(unix, 0).UTC()
			state.LockedUntil = &t
		}
	}
	return state
}

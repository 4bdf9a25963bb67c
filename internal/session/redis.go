package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisBackend keeps each session as a hash under "session:<sid>"; the
// whole hash expires ttl after the last write.
type RedisBackend struct {
	rdb *redis.Client
}

// NewRedisBackend initializes a client and pings it.
func NewRedisBackend(ctx context.Context, addr, password string, db int) (*RedisBackend, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return &RedisBackend{rdb: rdb}, nil
}

func redisKey(sid string) string { return "session:" + sid }

func (r *RedisBackend) Get(ctx context.Context, sid, key string) (string, bool, error) {
	v, err := r.rdb.HGet(ctx, redisKey(sid), key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (r *RedisBackend) Set(ctx context.Context, sid, key, value string, ttl time.Duration) error {
	k := redisKey(sid)
	_, err := r.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, k, key, value)
		if ttl > 0 {
			p.Expire(ctx, k, ttl)
		}
		return nil
	})
	return err
}

func (r *RedisBackend) Close() error { return r.rdb.Close() }

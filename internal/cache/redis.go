// Package cache holds the redis-backed refresh token store.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type RedisClient struct {
	client *redis.Client
	log    *zap.Logger
}

func NewRedisClient(addr, password string, db int, log *zap.Logger) (*RedisClient, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Info("redis connected", zap.String("addr", addr))

	return &RedisClient{client: rdb, log: log}, nil
}

func (r *RedisClient) Close() error {
	return r.client.Close()
}

func refreshKey(hash string) string {
	return fmt.Sprintf("refresh:%s", hash)
}

// StoreRefresh maps a refresh token hash to its owner. The key expires with
// the token, so redis does the cleanup.
func (r *RedisClient) StoreRefresh(ctx context.Context, hash string, userID uuid.UUID, ttl time.Duration) error {
	return r.client.Set(ctx, refreshKey(hash), userID.String(), ttl).Err()
}

// LookupRefresh resolves a refresh token hash to its owner. A missing or
// expired key reads as uuid.Nil without an error.
func (r *RedisClient) LookupRefresh(ctx context.Context, hash string) (uuid.UUID, error) {
	val, err := r.client.Get(ctx, refreshKey(hash)).Result()
	if errors.Is(err, redis.Nil) {
		return uuid.Nil, nil
	}
	if err != nil {
		return uuid.Nil, err
	}
	uid, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, err
	}
	return uid, nil
}

func (r *RedisClient) RevokeRefresh(ctx context.Context, hash string) error {
	return r.client.Del(ctx, refreshKey(hash)).Err()
}

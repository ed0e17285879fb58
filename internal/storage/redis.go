package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisOptions configures a RedisKV.
type RedisOptions struct {
	Addr       string
	Password   string
	DB         int
	QuotaBytes int64
}

// RedisKV stores each key as a plain Redis string.
type RedisKV struct {
	client *redis.Client
	quota  int64
}

// OpenRedisKV connects to Redis and verifies the connection with PING.
func OpenRedisKV(ctx context.Context, opts RedisOptions) (*RedisKV, error) {
	if opts.Addr == "" {
		return nil, fmt.Errorf("redis address is empty")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", opts.Addr, err)
	}
	return NewRedisKV(client, opts.QuotaBytes), nil
}

// NewRedisKV wraps an existing client. The quota bounds each value.
func NewRedisKV(client *redis.Client, quotaBytes int64) *RedisKV {
	return &RedisKV{client: client, quota: quotaBytes}
}

// Get implements KV.
func (r *RedisKV) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("redis get %q: %w", key, err)
	}
	return value, true, nil
}

// Set implements KV.
func (r *RedisKV) Set(ctx context.Context, key, value string) error {
	if err := checkQuota(r.quota, len(value)); err != nil {
		return err
	}
	if err := r.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	return nil
}

// SetAll implements KV. Every value is checked against the quota before a
// single MSET writes them all.
func (r *RedisKV) SetAll(ctx context.Context, updates map[string]string) error {
	if len(updates) == 0 {
		return nil
	}
	pairs := make([]interface{}, 0, 2*len(updates))
	for _, name := range sortedNames(updates) {
		if err := checkQuota(r.quota, len(updates[name])); err != nil {
			return err
		}
		pairs = append(pairs, name, updates[name])
	}
	if err := r.client.MSet(ctx, pairs...).Err(); err != nil {
		return fmt.Errorf("redis mset: %w", err)
	}
	return nil
}

// Close implements KV.
func (r *RedisKV) Close() error {
	return r.client.Close()
}

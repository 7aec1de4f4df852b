package kv

import (
	"context"

	redis "github.com/redis/go-redis/v9"
)

// RedisList stores values in a Redis list.
type RedisList struct {
	client *redis.Client
	key    string
}

// NewRedisList creates a Redis-backed list. If url is empty or invalid,
// operations return ErrNotConfigured.
func NewRedisList(url, key string) *RedisList {
	if key == "" {
		key = DefaultKey
	}
	if url == "" {
		return &RedisList{client: nil, key: key}
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		return &RedisList{client: nil, key: key}
	}
	return &RedisList{client: redis.NewClient(opt), key: key}
}

func (r *RedisList) ensure() error {
	if r.client == nil {
		return ErrNotConfigured
	}
	return nil
}

// Configured reports whether the URL parsed into a client.
func (r *RedisList) Configured() bool { return r.client != nil }

func (r *RedisList) Name() string { return "redis" }

func (r *RedisList) Push(ctx context.Context, value string) error {
	if err := r.ensure(); err != nil {
		return err
	}
	return r.client.LPush(ctx, r.key, value).Err()
}

func (r *RedisList) Range(ctx context.Context) ([]string, error) {
	if err := r.ensure(); err != nil {
		return nil, err
	}
	return r.client.LRange(ctx, r.key, 0, -1).Result()
}

func (r *RedisList) Len(ctx context.Context) (int, error) {
	if err := r.ensure(); err != nil {
		return 0, err
	}
	n, err := r.client.LLen(ctx, r.key).Result()
	return int(n), err
}

// Close releases the underlying connection pool.
func (r *RedisList) Close() error {
	if r.client == nil {
		return nil
	}
	return r.client.Close()
}

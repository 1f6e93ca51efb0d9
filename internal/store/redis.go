package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces pixie keys in a shared Redis database.
const DefaultRedisPrefix = "pixie:"

// RedisOptions configures a RedisBackend.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// RedisBackend implements Backend with plain Redis strings.
type RedisBackend struct {
	client *redis.Client
	prefix string
}

// NewRedisBackend connects to Redis and verifies the connection.
func NewRedisBackend(ctx context.Context, o RedisOptions) (*RedisBackend, error) {
	if o.Addr == "" {
		return nil, errors.New("redis address is required")
	}
	prefix := o.Prefix
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}

	client := redis.NewClient(&redis.Options{
		Addr:     o.Addr,
		Password: o.Password,
		DB:       o.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", o.Addr, err)
	}

	return &RedisBackend{client: client, prefix: prefix}, nil
}

func (b *RedisBackend) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := b.client.Get(ctx, b.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return data, nil
}

func (b *RedisBackend) Set(ctx context.Context, key string, value []byte) error {
	if err := b.client.Set(ctx, b.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (b *RedisBackend) Close() error {
	return b.client.Close()
}

package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/mbocharov/shortkv/internal/storage"
)

// Options configures the redis client.
type Options struct {
	Addr         string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
}

// Store is a redis-backed implementation of the key-value contract.
// Records are plain string values; SETNX provides the conditional put.
type Store struct {
	client *redis.Client
}

func New(ctx context.Context, opts Options) (*Store, error) {
	const op = "storage.redis.New"

	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		PoolSize:     opts.PoolSize,
		MinIdleConns: opts.MinIdleConns,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%s: failed to connect to redis: %w", op, err)
	}

	return &Store{client: client}, nil
}

// NewWithClient wraps an existing client. Used in tests.
func NewWithClient(client *redis.Client) *Store {
	return &Store{client: client}
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	const op = "storage.redis.Store.Get"

	value, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", fmt.Errorf("%s: %w", op, storage.ErrKeyNotFound)
		}

		return "", fmt.Errorf("%s: failed to get key: %w", op, err)
	}

	return value, nil
}

func (s *Store) Put(ctx context.Context, key string, value string) error {
	const op = "storage.redis.Store.Put"

	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("%s: failed to set key: %w", op, err)
	}

	return nil
}

func (s *Store) PutIfAbsent(ctx context.Context, key string, value string) (bool, error) {
	const op = "storage.redis.Store.PutIfAbsent"

	ok, err := s.client.SetNX(ctx, key, value, 0).Result()
	if err != nil {
		return false, fmt.Errorf("%s: failed to set key: %w", op, err)
	}

	return ok, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	const op = "storage.redis.Store.Delete"

	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("%s: failed to delete key: %w", op, err)
	}

	return nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

var _ storage.ConditionalStore = (*Store)(nil)

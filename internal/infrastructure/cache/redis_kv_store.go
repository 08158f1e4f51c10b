package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/quickmemo/backend/internal/domain/shared"
	"github.com/redis/go-redis/v9"
)

// RedisKVStore implements KVStore using Redis
// Profiles and template configs survive restarts and are shared between instances
type RedisKVStore struct {
	client    *redis.Client
	keyPrefix string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host        string
	Port        int
	Password    string
	DB          int
	KeyPrefix   string
	DialTimeout time.Duration
}

// NewRedisKVStore connects to Redis and pings it
func NewRedisKVStore(cfg RedisConfig) (*RedisKVStore, error) {
	dialTimeout := cfg.DialTimeout
	if dialTimeout <= 0 {
		dialTimeout = 5 * time.Second
	}

	client := redis.NewClient(&redis.Options{
		Addr:        fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: dialTimeout,
		MaxRetries:  1,
	})

	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisKVStoreWithClient(client, cfg.KeyPrefix), nil
}

// NewRedisKVStoreWithClient creates a store with an existing Redis client
func NewRedisKVStoreWithClient(client *redis.Client, keyPrefix string) *RedisKVStore {
	return &RedisKVStore{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// Get reads a key; redis.Nil becomes shared.ErrNotFound
func (s *RedisKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.client.Get(ctx, s.keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache key %s: %w", key, err)
	}
	return value, nil
}

// Set writes a key with a TTL (0 keeps it)
func (s *RedisKVStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if key == "" {
		return shared.NewDomainError("INVALID_KEY", "Cache key cannot be empty")
	}
	if ttl < 0 {
		ttl = 0
	}
	if err := s.client.Set(ctx, s.keyPrefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cache key %s: %w", key, err)
	}
	return nil
}

// Delete removes a key
func (s *RedisKVStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to delete cache key %s: %w", key, err)
	}
	return nil
}

// Ping reports whether Redis is reachable
func (s *RedisKVStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis client
func (s *RedisKVStore) Close() error {
	return s.client.Close()
}

// GetClient returns the underlying Redis client (for testing/monitoring)
func (s *RedisKVStore) GetClient() *redis.Client {
	return s.client
}

var _ shared.KVStore = (*RedisKVStore)(nil)

package cache

import (
	"fmt"
	"time"

	"github.com/quickmemo/backend/internal/domain/shared"
	"github.com/quickmemo/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// DefaultKeyPrefix namespaces every key this service writes to Redis
const DefaultKeyPrefix = "quickmemo:"

// KVStoreFactory creates key/value stores based on configuration
type KVStoreFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
	keyPrefix             string
	dialTimeout           time.Duration
}

// KVStoreFactoryOption is a functional option for configuring the factory
type KVStoreFactoryOption func(*KVStoreFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) KVStoreFactoryOption {
	return func(f *KVStoreFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to in-memory store when Redis is unavailable
// Default is true (allow fallback)
func WithInMemoryFallback(allow bool) KVStoreFactoryOption {
	return func(f *KVStoreFactory) {
		f.allowInMemoryFallback = allow
	}
}

// WithKeyPrefix overrides the Redis key prefix
func WithKeyPrefix(prefix string) KVStoreFactoryOption {
	return func(f *KVStoreFactory) {
		f.keyPrefix = prefix
	}
}

// WithDialTimeout bounds the initial Redis connection check
func WithDialTimeout(d time.Duration) KVStoreFactoryOption {
	return func(f *KVStoreFactory) {
		f.dialTimeout = d
	}
}

// NewKVStoreFactory creates a new factory
func NewKVStoreFactory(cfg config.RedisConfig, opts ...KVStoreFactoryOption) *KVStoreFactory {
	f := &KVStoreFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
		keyPrefix:             DefaultKeyPrefix,
		dialTimeout:           5 * time.Second,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateRedisStore creates a Redis-backed store
func (f *KVStoreFactory) CreateRedisStore() (*RedisKVStore, error) {
	store, err := NewRedisKVStore(RedisConfig{
		Host:        f.redisConfig.Host,
		Port:        f.redisConfig.Port,
		Password:    f.redisConfig.Password,
		DB:          f.redisConfig.DB,
		KeyPrefix:   f.keyPrefix,
		DialTimeout: f.dialTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis KV store: %w", err)
	}
	return store, nil
}

// CreateInMemoryStore creates an in-memory store
// WARNING: saved profiles are lost on restart and are not shared between instances
func (f *KVStoreFactory) CreateInMemoryStore() *InMemoryKVStore {
	return NewInMemoryKVStore()
}

// CreateStore creates a store for the given driver (memory or redis).
// For redis it falls back to memory when Redis is unreachable and fallback is allowed.
func (f *KVStoreFactory) CreateStore(driver string) (shared.KVStore, error) {
	switch driver {
	case "", "memory":
		f.logger.Info("using in-memory KV store")
		return f.CreateInMemoryStore(), nil
	case "redis":
	default:
		return nil, fmt.Errorf("unknown cache driver %q", driver)
	}

	store, err := f.CreateRedisStore()
	if err == nil {
		f.logger.Info("using Redis KV store", zap.String("addr", f.redisConfig.Addr()))
		return store, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for cache but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory KV store. "+
		"Saved profiles will not survive a restart.",
		zap.Error(err),
	)
	return f.CreateInMemoryStore(), nil
}

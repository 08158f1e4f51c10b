package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/quickmemo/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// port 1 is never a Redis server
func unreachableRedis() config.RedisConfig {
	return config.RedisConfig{Host: "127.0.0.1", Port: 1}
}

func TestKVStoreFactory_Defaults(t *testing.T) {
	f := NewKVStoreFactory(unreachableRedis())
	assert.True(t, f.allowInMemoryFallback)
	assert.Equal(t, DefaultKeyPrefix, f.keyPrefix)
	assert.NotNil(t, f.logger)

	logger := zap.NewNop()
	f = NewKVStoreFactory(unreachableRedis(),
		WithLogger(logger),
		WithInMemoryFallback(false),
		WithKeyPrefix("test:"),
		WithDialTimeout(time.Second),
	)
	assert.Same(t, logger, f.logger)
	assert.False(t, f.allowInMemoryFallback)
	assert.Equal(t, "test:", f.keyPrefix)
	assert.Equal(t, time.Second, f.dialTimeout)
}

func TestKVStoreFactory_CreateStore(t *testing.T) {
	t.Run("memory driver", func(t *testing.T) {
		store, err := NewKVStoreFactory(unreachableRedis()).CreateStore("memory")
		require.NoError(t, err)
		defer store.Close()
		assert.IsType(t, &InMemoryKVStore{}, store)
	})

	t.Run("redis falls back to memory", func(t *testing.T) {
		f := NewKVStoreFactory(unreachableRedis(), WithDialTimeout(200*time.Millisecond))
		store, err := f.CreateStore("redis")
		require.NoError(t, err)
		defer store.Close()
		assert.IsType(t, &InMemoryKVStore{}, store)
	})

	t.Run("redis without fallback fails", func(t *testing.T) {
		f := NewKVStoreFactory(unreachableRedis(), WithInMemoryFallback(false), WithDialTimeout(200*time.Millisecond))
		_, err := f.CreateStore("redis")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Redis required")
	})

	t.Run("unknown driver", func(t *testing.T) {
		_, err := NewKVStoreFactory(unreachableRedis()).CreateStore("memcached")
		assert.EqualError(t, err, `unknown cache driver "memcached"`)
	})
}

// Set REDIS_ADDR_TEST=1 with Redis on localhost:6379 to run
func TestRedisKVStore_Integration(t *testing.T) {
	if os.Getenv("REDIS_ADDR_TEST") != "1" {
		t.Skip("Redis integration tests disabled")
	}

	store, err := NewKVStoreFactory(config.RedisConfig{Host: "localhost", Port: 6379},
		WithKeyPrefix("quickmemo-test:"),
		WithInMemoryFallback(false),
	).CreateRedisStore()
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "profile", []byte("v1"), time.Minute))

	value, err := store.Get(ctx, "profile")
	require.NoError(t, err)
	assert.Equal(t, "v1", string(value))

	require.NoError(t, store.Delete(ctx, "profile"))
	_, err = store.Get(ctx, "profile")
	assert.Error(t, err)
}

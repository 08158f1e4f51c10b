package profile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/quickmemo/backend/internal/domain/memo"
	"github.com/quickmemo/backend/internal/domain/shared"
	"github.com/quickmemo/backend/internal/infrastructure/cache"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tenantID = uuid.MustParse("7b0e4a52-3c1f-4c2b-9a43-2f4d9b1e6a10")

// countingStore records writes so tests can assert nothing is saved implicitly
type countingStore struct {
	shared.KVStore
	sets   int
	getErr error
}

func (s *countingStore) Get(ctx context.Context, key string) ([]byte, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.KVStore.Get(ctx, key)
}

func (s *countingStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	s.sets++
	return s.KVStore.Set(ctx, key, value, ttl)
}

func newTestService(t *testing.T) (*Service, *countingStore) {
	t.Helper()
	inner := cache.NewInMemoryKVStore()
	t.Cleanup(func() { _ = inner.Close() })
	store := &countingStore{KVStore: inner}
	return NewService(store, nil), store
}

func TestService_Profile(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)

	t.Run("missing profile", func(t *testing.T) {
		_, err := svc.LoadProfile(ctx, tenantID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.Equal(t, 0, store.sets)
	})

	t.Run("save then load", func(t *testing.T) {
		saved, err := svc.SaveProfile(ctx, tenantID, memo.ShopProfile{
			ShopName:    "  Rahim Fashion ",
			Mobile:      "01711111111",
			BkashNumber: "01822222222",
		})
		require.NoError(t, err)
		assert.Equal(t, "Rahim Fashion", saved.ShopName)

		loaded, err := svc.LoadProfile(ctx, tenantID)
		require.NoError(t, err)
		assert.Equal(t, saved, loaded)
		assert.Equal(t, 1, store.sets)
	})

	t.Run("loading never writes", func(t *testing.T) {
		before := store.sets
		for range 3 {
			_, err := svc.LoadProfile(ctx, tenantID)
			require.NoError(t, err)
		}
		assert.Equal(t, before, store.sets)
	})

	t.Run("tenants are isolated", func(t *testing.T) {
		_, err := svc.LoadProfile(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("shop name is required", func(t *testing.T) {
		_, err := svc.SaveProfile(ctx, tenantID, memo.ShopProfile{ShopName: "   "})
		assert.True(t, shared.HasCode(err, "SHOP_NAME_REQUIRED"))
	})
}

func TestService_Products(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)

	products, err := svc.LoadProducts(ctx, tenantID)
	require.NoError(t, err)
	assert.Empty(t, products)
	assert.NotNil(t, products)

	saved, err := svc.SaveProducts(ctx, tenantID, []SavedProduct{
		{Name: "Shirt", Price: decimal.NewFromInt(500)},
		{Name: " Panjabi ", SKU: "PJ-1", Price: decimal.RequireFromString("1250.50")},
	})
	require.NoError(t, err)
	assert.Equal(t, "Panjabi", saved[1].Name)

	loaded, err := svc.LoadProducts(ctx, tenantID)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "Shirt", loaded[0].Name)
	assert.True(t, loaded[1].Price.Equal(decimal.RequireFromString("1250.5")))
	assert.Equal(t, 1, store.sets)
}

func TestService_SaveProductsRejects(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)

	tests := []struct {
		name     string
		products []SavedProduct
		code     string
	}{
		{"blank name", []SavedProduct{{Name: " ", Price: decimal.NewFromInt(1)}}, "INVALID_INPUT"},
		{"negative price", []SavedProduct{{Name: "Shirt", Price: decimal.NewFromInt(-1)}}, "INVALID_PRICE"},
		{"too many", make([]SavedProduct, MaxSavedProducts+1), "TOO_MANY_PRODUCTS"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SaveProducts(ctx, tenantID, tt.products)
			assert.True(t, shared.HasCode(err, tt.code), "got %v", err)
		})
	}
	assert.Equal(t, 0, store.sets)
}

func TestService_UnreadableEntry(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)
	require.NoError(t, store.KVStore.Set(ctx, ProfileKey(tenantID), []byte("{not json"), 0))
	require.NoError(t, store.KVStore.Set(ctx, ProductsKey(tenantID), []byte("[1,2"), 0))

	_, err := svc.LoadProfile(ctx, tenantID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	products, err := svc.LoadProducts(ctx, tenantID)
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestService_StoreFailure(t *testing.T) {
	svc, store := newTestService(t)
	store.getErr = errors.New("connection refused")

	_, err := svc.LoadProfile(context.Background(), tenantID)
	require.Error(t, err)
	assert.NotErrorIs(t, err, shared.ErrNotFound)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "shop_profile:"+tenantID.String(), ProfileKey(tenantID))
	assert.Equal(t, "saved_products:"+tenantID.String(), ProductsKey(tenantID))
}

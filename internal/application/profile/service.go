// Package profile keeps the shop profile and the saved product list of a tenant.
// Both live in a key/value cache owned outside the service: they are read on
// load and written only when the seller saves them.
package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/quickmemo/backend/internal/domain/memo"
	"github.com/quickmemo/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// MaxSavedProducts bounds the saved product list of one tenant
const MaxSavedProducts = 500

const (
	profileKeyPrefix  = "shop_profile:"
	productsKeyPrefix = "saved_products:"
)

// ProfileKey is the cache key of a tenant's shop profile
func ProfileKey(tenantID uuid.UUID) string {
	return profileKeyPrefix + tenantID.String()
}

// ProductsKey is the cache key of a tenant's saved products
func ProductsKey(tenantID uuid.UUID) string {
	return productsKeyPrefix + tenantID.String()
}

// SavedProduct is a product the seller keeps for quick entry on new memos
type SavedProduct struct {
	Name  string          `json:"name" validate:"required,max=200"`
	SKU   string          `json:"sku,omitempty" validate:"max=64"`
	Price decimal.Decimal `json:"price"`
}

// Service reads and writes tenant profiles through a KVStore
type Service struct {
	store    shared.KVStore
	validate *validator.Validate
	logger   *zap.Logger
}

// NewService creates a profile Service
func NewService(store shared.KVStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:    store,
		validate: validator.New(),
		logger:   logger,
	}
}

// LoadProfile returns the saved shop profile.
// It returns shared.ErrNotFound when the tenant never saved one.
func (s *Service) LoadProfile(ctx context.Context, tenantID uuid.UUID) (*memo.ShopProfile, error) {
	var profile memo.ShopProfile
	if err := s.load(ctx, ProfileKey(tenantID), &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// SaveProfile replaces the shop profile
func (s *Service) SaveProfile(ctx context.Context, tenantID uuid.UUID, profile memo.ShopProfile) (*memo.ShopProfile, error) {
	profile.ShopName = strings.TrimSpace(profile.ShopName)
	profile.OwnerName = strings.TrimSpace(profile.OwnerName)
	profile.Mobile = strings.TrimSpace(profile.Mobile)
	if profile.ShopName == "" {
		return nil, shared.NewDomainError("SHOP_NAME_REQUIRED", "Shop name is required")
	}
	if len(profile.ShopName) > 200 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Shop name cannot exceed 200 characters")
	}

	if err := s.save(ctx, ProfileKey(tenantID), profile); err != nil {
		return nil, err
	}
	s.logger.Info("Shop profile saved",
		zap.String("tenant_id", tenantID.String()),
		zap.String("shop_name", profile.ShopName))
	return &profile, nil
}

// LoadProducts returns the saved products, or an empty list when none were saved
func (s *Service) LoadProducts(ctx context.Context, tenantID uuid.UUID) ([]SavedProduct, error) {
	var products []SavedProduct
	if err := s.load(ctx, ProductsKey(tenantID), &products); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return []SavedProduct{}, nil
		}
		return nil, err
	}
	return products, nil
}

// SaveProducts replaces the saved product list
func (s *Service) SaveProducts(ctx context.Context, tenantID uuid.UUID, products []SavedProduct) ([]SavedProduct, error) {
	if len(products) > MaxSavedProducts {
		return nil, shared.NewDomainError("TOO_MANY_PRODUCTS",
			fmt.Sprintf("At most %d products can be saved", MaxSavedProducts))
	}

	cleaned := make([]SavedProduct, len(products))
	for i, p := range products {
		p.Name = strings.TrimSpace(p.Name)
		p.SKU = strings.TrimSpace(p.SKU)
		if err := s.validate.Struct(p); err != nil {
			return nil, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Product %d: %s", i+1, validationMessage(err)))
		}
		if p.Price.IsNegative() {
			return nil, shared.NewDomainError("INVALID_PRICE", fmt.Sprintf("Product %d: price cannot be negative", i+1))
		}
		cleaned[i] = p
	}

	if err := s.save(ctx, ProductsKey(tenantID), cleaned); err != nil {
		return nil, err
	}
	s.logger.Info("Saved products updated",
		zap.String("tenant_id", tenantID.String()),
		zap.Int("count", len(cleaned)))
	return cleaned, nil
}

func (s *Service) load(ctx context.Context, key string, dst any) error {
	data, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.ErrNotFound
		}
		return fmt.Errorf("failed to read %s: %w", key, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		// an unreadable entry is treated as never saved
		s.logger.Warn("Discarding unreadable cache entry",
			zap.String("key", key),
			zap.Error(err))
		return shared.ErrNotFound
	}
	return nil
}

func (s *Service) save(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := s.store.Set(ctx, key, data, 0); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return strings.ToLower(fe.Field()) + " is required"
	case "max":
		return strings.ToLower(fe.Field()) + " is too long"
	default:
		return strings.ToLower(fe.Field()) + " is invalid"
	}
}

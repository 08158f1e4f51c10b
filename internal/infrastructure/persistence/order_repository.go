package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/quickmemo/backend/internal/domain/memo"
	"github.com/quickmemo/backend/internal/domain/shared"
	"github.com/quickmemo/backend/internal/infrastructure/persistence/models"
	"github.com/quickmemo/backend/internal/infrastructure/persistence/tenant"
	"gorm.io/gorm"
)

// GormOrderRepository implements memo.OrderRepository using GORM.
// Orders are written once when placed; their item rows are snapshots.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order with its items within a tenant
func (r *GormOrderRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*memo.OrderSnapshot, error) {
	return r.findOne(ctx, tenantID, "id = ?", id)
}

// FindByOrderNumber finds an order by its human-readable number within a tenant
func (r *GormOrderRepository) FindByOrderNumber(ctx context.Context, tenantID uuid.UUID, orderNumber string) (*memo.OrderSnapshot, error) {
	return r.findOne(ctx, tenantID, "order_number = ?", orderNumber)
}

func (r *GormOrderRepository) findOne(ctx context.Context, tenantID uuid.UUID, where string, args ...any) (*memo.OrderSnapshot, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Scopes(tenant.Scope(tenantID)).
		Where(where, args...).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save stores the order and replaces its item rows in one transaction
func (r *GormOrderRepository) Save(ctx context.Context, order *memo.OrderSnapshot) error {
	if order == nil || order.ID == uuid.Nil || order.TenantID == uuid.Nil {
		return shared.ErrInvalidInput
	}
	model := models.OrderModelFromDomain(order)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(model).Error; err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", model.ID).Delete(&models.OrderItemModel{}).Error; err != nil {
			return err
		}
		if len(model.Items) == 0 {
			return nil
		}
		return tx.Create(&model.Items).Error
	})
}

// Ensure GormOrderRepository implements OrderRepository
var _ memo.OrderRepository = (*GormOrderRepository)(nil)

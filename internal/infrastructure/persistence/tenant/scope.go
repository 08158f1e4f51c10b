// Package tenant scopes GORM queries to one tenant.
//
//	db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).Find(&jobs)
package tenant

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/quickmemo/backend/internal/infrastructure/logger"
	"gorm.io/gorm"
)

// Column is the tenant column shared by every tenant-owned table
const Column = "tenant_id"

// ErrTenantIDRequired is added to a query scoped without a tenant
var ErrTenantIDRequired = errors.New("tenant_id is required")

// ErrInvalidTenantID is added to a query scoped with a malformed tenant
var ErrInvalidTenantID = errors.New("invalid tenant_id format")

// Scope filters a query to tenantID. A nil tenant fails the query instead of
// reading across tenants.
func Scope(tenantID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if tenantID == uuid.Nil {
			_ = db.AddError(ErrTenantIDRequired)
			return db
		}
		return db.Where(Column+" = ?", tenantID)
	}
}

// FromContext filters a query to the tenant resolved for the request
func FromContext(ctx context.Context) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		raw := logger.GetTenantID(ctx)
		if raw == "" {
			_ = db.AddError(ErrTenantIDRequired)
			return db
		}
		tenantID, err := uuid.Parse(raw)
		if err != nil {
			_ = db.AddError(ErrInvalidTenantID)
			return db
		}
		return Scope(tenantID)(db)
	}
}

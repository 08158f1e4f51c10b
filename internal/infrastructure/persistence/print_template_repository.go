package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/quickmemo/backend/internal/domain/printing"
	"github.com/quickmemo/backend/internal/domain/shared"
	"github.com/quickmemo/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// InvoiceTemplateSortFields defines allowed sort fields for invoice templates
var InvoiceTemplateSortFields = map[string]bool{
	"created_at":  true,
	"updated_at":  true,
	"name":        true,
	"slug":        true,
	"layout_type": true,
	"sort_order":  true,
	"status":      true,
	"is_default":  true,
}

// GormTemplateRepository implements printing.TemplateRepository using GORM
type GormTemplateRepository struct {
	db *gorm.DB
}

// NewGormTemplateRepository creates a new GormTemplateRepository
func NewGormTemplateRepository(db *gorm.DB) *GormTemplateRepository {
	return &GormTemplateRepository{db: db}
}

// FindByID finds a template by ID
func (r *GormTemplateRepository) FindByID(ctx context.Context, id uuid.UUID) (*printing.InvoiceTemplate, error) {
	var model models.InvoiceTemplateModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindBySlug finds a template by slug, active or not
func (r *GormTemplateRepository) FindBySlug(ctx context.Context, slug string) (*printing.InvoiceTemplate, error) {
	var model models.InvoiceTemplateModel
	if err := r.db.WithContext(ctx).First(&model, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindDefault finds the active default template
func (r *GormTemplateRepository) FindDefault(ctx context.Context) (*printing.InvoiceTemplate, error) {
	var model models.InvoiceTemplateModel
	if err := r.db.WithContext(ctx).
		Where("is_default = ? AND status = ?", true, string(printing.TemplateStatusActive)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindActive finds all active templates ordered by sort order then name
func (r *GormTemplateRepository) FindActive(ctx context.Context) ([]printing.InvoiceTemplate, error) {
	var templateModels []models.InvoiceTemplateModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", string(printing.TemplateStatusActive)).
		Order("sort_order ASC, name ASC").
		Find(&templateModels).Error; err != nil {
		return nil, err
	}
	return toTemplates(templateModels), nil
}

// FindAll finds all templates with optional filtering
func (r *GormTemplateRepository) FindAll(ctx context.Context, filter printing.TemplateFilter) ([]printing.InvoiceTemplate, error) {
	var templateModels []models.InvoiceTemplateModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.InvoiceTemplateModel{}), filter)

	if err := query.Find(&templateModels).Error; err != nil {
		return nil, err
	}
	return toTemplates(templateModels), nil
}

// Count returns the number of templates matching the filter
func (r *GormTemplateRepository) Count(ctx context.Context, filter printing.TemplateFilter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.InvoiceTemplateModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save saves a template (insert or update). A slug taken by another template is rejected.
func (r *GormTemplateRepository) Save(ctx context.Context, template *printing.InvoiceTemplate) error {
	if template == nil {
		return shared.ErrInvalidInput
	}
	exists, err := r.ExistsBySlug(ctx, template.Slug, &template.ID)
	if err != nil {
		return err
	}
	if exists {
		return shared.ErrAlreadyExists
	}

	model, err := models.InvoiceTemplateModelFromDomain(template)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Save(model).Error
}

// ExistsBySlug checks if a template with the given slug exists
func (r *GormTemplateRepository) ExistsBySlug(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).
		Model(&models.InvoiceTemplateModel{}).
		Where("slug = ?", slug)

	if excludeID != nil {
		query = query.Where("id != ?", *excludeID)
	}

	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ClearDefault clears the default flag on every template
func (r *GormTemplateRepository) ClearDefault(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Model(&models.InvoiceTemplateModel{}).
		Where("is_default = ?", true).
		Update("is_default", false).Error
}

// applyFilter applies filter options to the query
func (r *GormTemplateRepository) applyFilter(query *gorm.DB, filter printing.TemplateFilter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.Limit())
	}

	sortField := ValidateSortField(filter.OrderBy, InvoiceTemplateSortFields, "")
	if sortField != "" {
		query = query.Order(sortField + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("sort_order ASC, name ASC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormTemplateRepository) applyFilterWithoutPagination(query *gorm.DB, filter printing.TemplateFilter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", searchPattern, searchPattern)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}
	if filter.LayoutType != nil {
		query = query.Where("layout_type = ?", string(*filter.LayoutType))
	}

	for key, value := range filter.Filters {
		switch key {
		case "is_default":
			query = query.Where("is_default = ?", value)
		case "paper_size":
			query = query.Where("paper_size = ?", value)
		}
	}

	return query
}

func toTemplates(rows []models.InvoiceTemplateModel) []printing.InvoiceTemplate {
	templates := make([]printing.InvoiceTemplate, len(rows))
	for i, model := range rows {
		templates[i] = *model.ToDomain()
	}
	return templates
}

// Ensure GormTemplateRepository implements TemplateRepository
var _ printing.TemplateRepository = (*GormTemplateRepository)(nil)

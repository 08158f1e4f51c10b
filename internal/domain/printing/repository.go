package printing

import (
	"context"

	"github.com/google/uuid"
	"github.com/quickmemo/backend/internal/domain/memo"
	"github.com/quickmemo/backend/internal/domain/shared"
)

// TemplateRepository defines the interface for invoice template persistence
type TemplateRepository interface {
	// FindByID finds a template by ID
	FindByID(ctx context.Context, id uuid.UUID) (*InvoiceTemplate, error)

	// FindBySlug finds a template by its slug, active or not
	FindBySlug(ctx context.Context, slug string) (*InvoiceTemplate, error)

	// FindDefault finds the active default template.
	// Returns shared.ErrNotFound if no default is set.
	FindDefault(ctx context.Context) (*InvoiceTemplate, error)

	// FindActive finds all active templates ordered by sort order then name
	FindActive(ctx context.Context) ([]InvoiceTemplate, error)

	// FindAll finds all templates with optional filtering
	FindAll(ctx context.Context, filter TemplateFilter) ([]InvoiceTemplate, error)

	// Save saves a template (insert or update)
	Save(ctx context.Context, template *InvoiceTemplate) error

	// ExistsBySlug checks if a template with the given slug exists
	ExistsBySlug(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error)

	// ClearDefault clears the default flag on every template
	ClearDefault(ctx context.Context) error
}

// PrintJobRepository defines the interface for print job persistence
type PrintJobRepository interface {
	// FindByIDForTenant finds a job by ID within a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*PrintJob, error)

	// FindByMemoNumber finds all jobs for one memo number, newest first
	FindByMemoNumber(ctx context.Context, tenantID uuid.UUID, memoNumber memo.MemoNumber) ([]PrintJob, error)

	// FindAllForTenant finds jobs for a tenant with optional filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter PrintJobFilter) ([]PrintJob, error)

	// CountForTenant counts jobs for a tenant matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter PrintJobFilter) (int64, error)

	// Save saves a job (insert or update)
	Save(ctx context.Context, job *PrintJob) error

	// DeleteOlderThan deletes jobs older than the specified number of days
	DeleteOlderThan(ctx context.Context, days int) (int64, error)
}

// PrintJobFilter extends the standard filter with print job specific criteria
type PrintJobFilter struct {
	shared.Filter
	Status  *JobStatus // Filter by status
	OrderID *uuid.UUID // Filter by source order
}

// TemplateFilter extends the standard filter with template specific criteria
type TemplateFilter struct {
	shared.Filter
	Status     *TemplateStatus
	LayoutType *LayoutType
}

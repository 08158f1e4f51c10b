package printing

import (
	"github.com/google/uuid"
	"github.com/quickmemo/backend/internal/domain/memo"
	"github.com/quickmemo/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeInvoiceTemplate = "InvoiceTemplate"
	AggregateTypePrintJob        = "PrintJob"
)

// Event type constants for InvoiceTemplate
const (
	EventTypeTemplateCreated       = "InvoiceTemplateCreated"
	EventTypeTemplateUpdated       = "InvoiceTemplateUpdated"
	EventTypeTemplateStatusChanged = "InvoiceTemplateStatusChanged"
	EventTypeTemplateSetAsDefault  = "InvoiceTemplateSetAsDefault"
)

// Event type constants for PrintJob
const (
	EventTypePrintJobCreated       = "PrintJobCreated"
	EventTypePrintJobStatusChanged = "PrintJobStatusChanged"
	EventTypePrintJobCompleted     = "PrintJobCompleted"
	EventTypePrintJobFailed        = "PrintJobFailed"
)

// ============================================================================
// InvoiceTemplate Events
// ============================================================================

// TemplateCreatedEvent is published when a new template is created
type TemplateCreatedEvent struct {
	shared.BaseDomainEvent
	TemplateID uuid.UUID  `json:"template_id"`
	Slug       string     `json:"slug"`
	Name       string     `json:"name"`
	LayoutType LayoutType `json:"layout_type"`
}

// NewTemplateCreatedEvent creates a new TemplateCreatedEvent
func NewTemplateCreatedEvent(template *InvoiceTemplate) *TemplateCreatedEvent {
	return &TemplateCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypeTemplateCreated,
			AggregateTypeInvoiceTemplate,
			template.ID,
			uuid.Nil,
		),
		TemplateID: template.ID,
		Slug:       template.Slug,
		Name:       template.Name,
		LayoutType: template.Config.LayoutType,
	}
}

// TemplateUpdatedEvent is published when a template's details or config change
type TemplateUpdatedEvent struct {
	shared.BaseDomainEvent
	TemplateID uuid.UUID      `json:"template_id"`
	Slug       string         `json:"slug"`
	Name       string         `json:"name"`
	Config     TemplateConfig `json:"config"`
}

// NewTemplateUpdatedEvent creates a new TemplateUpdatedEvent
func NewTemplateUpdatedEvent(template *InvoiceTemplate) *TemplateUpdatedEvent {
	return &TemplateUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypeTemplateUpdated,
			AggregateTypeInvoiceTemplate,
			template.ID,
			uuid.Nil,
		),
		TemplateID: template.ID,
		Slug:       template.Slug,
		Name:       template.Name,
		Config:     template.Config,
	}
}

// TemplateStatusChangedEvent is published when a template's status changes
type TemplateStatusChangedEvent struct {
	shared.BaseDomainEvent
	TemplateID uuid.UUID      `json:"template_id"`
	Slug       string         `json:"slug"`
	OldStatus  TemplateStatus `json:"old_status"`
	NewStatus  TemplateStatus `json:"new_status"`
}

// NewTemplateStatusChangedEvent creates a new TemplateStatusChangedEvent
func NewTemplateStatusChangedEvent(template *InvoiceTemplate, oldStatus, newStatus TemplateStatus) *TemplateStatusChangedEvent {
	return &TemplateStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypeTemplateStatusChanged,
			AggregateTypeInvoiceTemplate,
			template.ID,
			uuid.Nil,
		),
		TemplateID: template.ID,
		Slug:       template.Slug,
		OldStatus:  oldStatus,
		NewStatus:  newStatus,
	}
}

// TemplateSetAsDefaultEvent is published when a template becomes the default
type TemplateSetAsDefaultEvent struct {
	shared.BaseDomainEvent
	TemplateID uuid.UUID `json:"template_id"`
	Slug       string    `json:"slug"`
}

// NewTemplateSetAsDefaultEvent creates a new TemplateSetAsDefaultEvent
func NewTemplateSetAsDefaultEvent(template *InvoiceTemplate) *TemplateSetAsDefaultEvent {
	return &TemplateSetAsDefaultEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypeTemplateSetAsDefault,
			AggregateTypeInvoiceTemplate,
			template.ID,
			uuid.Nil,
		),
		TemplateID: template.ID,
		Slug:       template.Slug,
	}
}

// ============================================================================
// PrintJob Events
// ============================================================================

// PrintJobCreatedEvent is published when a new print job is created
type PrintJobCreatedEvent struct {
	shared.BaseDomainEvent
	JobID        uuid.UUID         `json:"job_id"`
	TemplateSlug string            `json:"template_slug"`
	DocumentKind memo.DocumentKind `json:"document_kind"`
	MemoNumber   memo.MemoNumber   `json:"memo_number"`
}

// NewPrintJobCreatedEvent creates a new PrintJobCreatedEvent
func NewPrintJobCreatedEvent(job *PrintJob) *PrintJobCreatedEvent {
	return &PrintJobCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypePrintJobCreated,
			AggregateTypePrintJob,
			job.ID,
			job.TenantID,
		),
		JobID:        job.ID,
		TemplateSlug: job.TemplateSlug,
		DocumentKind: job.DocumentKind,
		MemoNumber:   job.MemoNumber,
	}
}

// PrintJobStatusChangedEvent is published when a print job's status changes
type PrintJobStatusChangedEvent struct {
	shared.BaseDomainEvent
	JobID      uuid.UUID       `json:"job_id"`
	MemoNumber memo.MemoNumber `json:"memo_number"`
	OldStatus  JobStatus       `json:"old_status"`
	NewStatus  JobStatus       `json:"new_status"`
	Attempts   int             `json:"attempts"`
}

// NewPrintJobStatusChangedEvent creates a new PrintJobStatusChangedEvent
func NewPrintJobStatusChangedEvent(job *PrintJob, oldStatus, newStatus JobStatus) *PrintJobStatusChangedEvent {
	return &PrintJobStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypePrintJobStatusChanged,
			AggregateTypePrintJob,
			job.ID,
			job.TenantID,
		),
		JobID:      job.ID,
		MemoNumber: job.MemoNumber,
		OldStatus:  oldStatus,
		NewStatus:  newStatus,
		Attempts:   job.Attempts,
	}
}

// PrintJobCompletedEvent is published when a PDF has been stored
type PrintJobCompletedEvent struct {
	shared.BaseDomainEvent
	JobID      uuid.UUID       `json:"job_id"`
	MemoNumber memo.MemoNumber `json:"memo_number"`
	FileName   string          `json:"file_name"`
	StorageKey string          `json:"storage_key"`
	PdfURL     string          `json:"pdf_url,omitempty"`
	SizeBytes  int64           `json:"size_bytes"`
}

// NewPrintJobCompletedEvent creates a new PrintJobCompletedEvent
func NewPrintJobCompletedEvent(job *PrintJob) *PrintJobCompletedEvent {
	return &PrintJobCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypePrintJobCompleted,
			AggregateTypePrintJob,
			job.ID,
			job.TenantID,
		),
		JobID:      job.ID,
		MemoNumber: job.MemoNumber,
		FileName:   job.FileName,
		StorageKey: job.StorageKey,
		PdfURL:     job.PdfURL,
		SizeBytes:  job.SizeBytes,
	}
}

// PrintJobFailedEvent is published when a print job fails
type PrintJobFailedEvent struct {
	shared.BaseDomainEvent
	JobID        uuid.UUID       `json:"job_id"`
	MemoNumber   memo.MemoNumber `json:"memo_number"`
	ErrorCode    string          `json:"error_code"`
	ErrorMessage string          `json:"error_message"`
	Attempts     int             `json:"attempts"`
}

// NewPrintJobFailedEvent creates a new PrintJobFailedEvent
func NewPrintJobFailedEvent(job *PrintJob) *PrintJobFailedEvent {
	return &PrintJobFailedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypePrintJobFailed,
			AggregateTypePrintJob,
			job.ID,
			job.TenantID,
		),
		JobID:        job.ID,
		MemoNumber:   job.MemoNumber,
		ErrorCode:    job.ErrorCode,
		ErrorMessage: job.ErrorMessage,
		Attempts:     job.Attempts,
	}
}

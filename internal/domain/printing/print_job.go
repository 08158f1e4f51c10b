package printing

import (
	"time"

	"github.com/google/uuid"
	"github.com/quickmemo/backend/internal/domain/memo"
	"github.com/quickmemo/backend/internal/domain/shared"
)

// PrintJob records one PDF generation for a document.
// A failed job keeps the document untouched and can be queued again.
type PrintJob struct {
	shared.TenantAggregateRoot
	TemplateSlug string            // Slug the job was requested with; may not exist
	LayoutType   LayoutType        // Layout actually rendered, after fallback
	DocumentKind memo.DocumentKind // Cash memo or invoice
	MemoNumber   memo.MemoNumber   // Number printed on both preview and PDF
	OrderID      *uuid.UUID        // Source order, when rendered from one
	Status       JobStatus
	FileName     string
	StorageKey   string
	PdfURL       string
	SizeBytes    int64
	ErrorCode    string
	ErrorMessage string
	Attempts     int
	CompletedAt  *time.Time
}

// NewPrintJob creates a pending job for a document
func NewPrintJob(
	tenantID uuid.UUID,
	templateSlug string,
	kind memo.DocumentKind,
	memoNumber memo.MemoNumber,
	orderID *uuid.UUID,
) (*PrintJob, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_DOCUMENT_KIND", "Document kind must be CASH_MEMO or INVOICE")
	}
	if memoNumber.IsZero() {
		return nil, shared.NewDomainError("INVALID_MEMO_NUMBER", "Memo number cannot be empty")
	}

	job := &PrintJob{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		TemplateSlug:        templateSlug,
		DocumentKind:        kind,
		MemoNumber:          memoNumber,
		OrderID:             orderID,
		Status:              JobStatusPending,
		FileName:            memoNumber.FileName(),
	}

	job.AddDomainEvent(NewPrintJobCreatedEvent(job))

	return job, nil
}

// StartRendering marks the job as rendering and counts the attempt
func (j *PrintJob) StartRendering(layout LayoutType) error {
	if !j.Status.CanTransitionTo(JobStatusRendering) {
		return shared.NewDomainError("INVALID_STATE",
			"Cannot start rendering from status: "+j.Status.String())
	}

	oldStatus := j.Status
	j.Status = JobStatusRendering
	j.LayoutType = layout
	j.Attempts++
	j.Touch()
	j.IncrementVersion()

	j.AddDomainEvent(NewPrintJobStatusChangedEvent(j, oldStatus, JobStatusRendering))

	return nil
}

// Complete marks the job as completed with the stored PDF location
func (j *PrintJob) Complete(storageKey, pdfURL string, size int64) error {
	if !j.Status.CanTransitionTo(JobStatusCompleted) {
		return shared.NewDomainError("INVALID_STATE",
			"Cannot complete from status: "+j.Status.String())
	}
	if storageKey == "" {
		return shared.NewDomainError("INVALID_STORAGE_KEY", "Storage key cannot be empty")
	}

	oldStatus := j.Status
	j.Status = JobStatusCompleted
	j.StorageKey = storageKey
	j.PdfURL = pdfURL
	j.SizeBytes = size
	j.ErrorCode = ""
	j.ErrorMessage = ""
	now := time.Now()
	j.CompletedAt = &now
	j.TouchAt(now)
	j.IncrementVersion()

	j.AddDomainEvent(NewPrintJobStatusChangedEvent(j, oldStatus, JobStatusCompleted))
	j.AddDomainEvent(NewPrintJobCompletedEvent(j))

	return nil
}

// Fail marks the job as failed with an error code and message
func (j *PrintJob) Fail(code, message string) error {
	if !j.Status.CanTransitionTo(JobStatusFailed) {
		return shared.NewDomainError("INVALID_STATE",
			"Cannot fail a job in status: "+j.Status.String())
	}

	oldStatus := j.Status
	j.Status = JobStatusFailed
	j.ErrorCode = code
	j.ErrorMessage = message
	j.Touch()
	j.IncrementVersion()

	j.AddDomainEvent(NewPrintJobStatusChangedEvent(j, oldStatus, JobStatusFailed))
	j.AddDomainEvent(NewPrintJobFailedEvent(j))

	return nil
}

// Retry moves a failed job back to pending
func (j *PrintJob) Retry() error {
	if !j.IsFailed() {
		return shared.NewDomainError("NOT_RETRYABLE", "Only failed jobs can be retried")
	}

	j.Status = JobStatusPending
	j.Touch()
	j.IncrementVersion()

	j.AddDomainEvent(NewPrintJobStatusChangedEvent(j, JobStatusFailed, JobStatusPending))

	return nil
}

// IsPending returns true if the job is pending
func (j *PrintJob) IsPending() bool {
	return j.Status == JobStatusPending
}

// IsRendering returns true if the job is rendering
func (j *PrintJob) IsRendering() bool {
	return j.Status == JobStatusRendering
}

// IsCompleted returns true if the job is completed
func (j *PrintJob) IsCompleted() bool {
	return j.Status == JobStatusCompleted
}

// IsFailed returns true if the job failed
func (j *PrintJob) IsFailed() bool {
	return j.Status == JobStatusFailed
}

// HasPDF returns true if a PDF has been stored
func (j *PrintJob) HasPDF() bool {
	return j.StorageKey != ""
}

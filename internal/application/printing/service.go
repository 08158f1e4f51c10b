package printing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/quickmemo/backend/internal/domain/memo"
	"github.com/quickmemo/backend/internal/domain/printing"
	"github.com/quickmemo/backend/internal/domain/shared"
	"github.com/quickmemo/backend/internal/infrastructure/logger"
	infra "github.com/quickmemo/backend/internal/infrastructure/printing"
	"github.com/quickmemo/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// Render formats reported to the RenderRecorder
const (
	FormatHTML = "html"
	FormatPDF  = "pdf"
)

// HTMLRenderer renders the live preview of a view
type HTMLRenderer interface {
	Render(ctx context.Context, view *infra.View) ([]byte, error)
}

// ShopProfileSource supplies the shop printed on documents built from orders
type ShopProfileSource interface {
	LoadProfile(ctx context.Context, tenantID uuid.UUID) (*memo.ShopProfile, error)
}

// RenderRecorder observes render outcomes
type RenderRecorder interface {
	RecordRender(ctx context.Context, format, layout string, duration time.Duration, size int, err error)
}

// RenderFailure is returned when a PDF could not be produced for a recorded job.
// The job is left FAILED and can be retried with RetryJob.
type RenderFailure struct {
	JobID uuid.UUID
	Err   error
}

func (e *RenderFailure) Error() string {
	return e.Err.Error()
}

func (e *RenderFailure) Unwrap() error {
	return e.Err
}

// DocumentService previews documents and generates their PDFs.
// It keeps no per-document state; every call works on a clone of its input.
type DocumentService struct {
	registry *TemplateRegistry
	html     HTMLRenderer
	pdf      infra.PDFRenderer
	jobs     printing.PrintJobRepository
	storage  infra.PDFStorage
	orders   memo.OrderRepository
	shops    ShopProfileSource
	recorder RenderRecorder
	events   shared.EventPublisher
	now      func() time.Time
	logger   *zap.Logger
}

// ServiceOption configures a DocumentService
type ServiceOption func(*DocumentService)

// WithJobs records every PDF generation as a print job
func WithJobs(repo printing.PrintJobRepository) ServiceOption {
	return func(s *DocumentService) {
		s.jobs = repo
	}
}

// WithStorage keeps generated PDFs
func WithStorage(storage infra.PDFStorage) ServiceOption {
	return func(s *DocumentService) {
		s.storage = storage
	}
}

// WithOrders enables rendering stored orders
func WithOrders(orders memo.OrderRepository, shops ShopProfileSource) ServiceOption {
	return func(s *DocumentService) {
		s.orders = orders
		s.shops = shops
	}
}

// WithRecorder reports render durations and outcomes
func WithRecorder(recorder RenderRecorder) ServiceOption {
	return func(s *DocumentService) {
		s.recorder = recorder
	}
}

// WithEvents publishes the print job events raised while rendering
func WithEvents(publisher shared.EventPublisher) ServiceOption {
	return func(s *DocumentService) {
		s.events = publisher
	}
}

// WithClock overrides the time source used for memo numbers
func WithClock(now func() time.Time) ServiceOption {
	return func(s *DocumentService) {
		s.now = now
	}
}

// WithServiceLogger sets the logger
func WithServiceLogger(logger *zap.Logger) ServiceOption {
	return func(s *DocumentService) {
		s.logger = logger
	}
}

// NewDocumentService creates a DocumentService. Without WithJobs and WithStorage
// it renders PDFs without recording or keeping them.
func NewDocumentService(registry *TemplateRegistry, html HTMLRenderer, pdf infra.PDFRenderer, opts ...ServiceOption) *DocumentService {
	s := &DocumentService{
		registry: registry,
		html:     html,
		pdf:      pdf,
		now:      time.Now,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// rendering is one prepared render: the view and where its config came from
type rendering struct {
	view     *infra.View
	template ResolvedTemplate
	orderID  *uuid.UUID
}

// =============================================================================
// Document operations
// =============================================================================

// Totals computes the money summary of a document without rendering it
func (s *DocumentService) Totals(_ context.Context, req *DocumentRequest) (*TotalsResponse, error) {
	doc, err := req.ToDocument()
	if err != nil {
		return nil, err
	}
	resp := ToTotalsResponse(doc)
	return &resp, nil
}

// Preview renders the HTML preview of a document
func (s *DocumentService) Preview(ctx context.Context, req *DocumentRequest) (*PreviewResponse, error) {
	doc, err := req.ToDocument()
	if err != nil {
		return nil, err
	}
	r, err := s.prepare(ctx, doc, req.Template, req.PaperSize)
	if err != nil {
		return nil, err
	}
	return s.renderHTML(ctx, r)
}

// GeneratePDF renders and stores the PDF of a document.
// A memo number in the request is reused so the PDF matches an earlier preview.
func (s *DocumentService) GeneratePDF(ctx context.Context, tenantID uuid.UUID, req *DocumentRequest) (*RenderedPDF, error) {
	doc, err := req.ToDocument()
	if err != nil {
		return nil, err
	}
	r, err := s.prepare(ctx, doc, req.Template, req.PaperSize)
	if err != nil {
		return nil, err
	}
	return s.renderPDF(ctx, tenantID, r, nil)
}

// RenderBoth renders the preview and the PDF of one document from the same view
func (s *DocumentService) RenderBoth(ctx context.Context, tenantID uuid.UUID, req *DocumentRequest) (*RenderBothResponse, error) {
	doc, err := req.ToDocument()
	if err != nil {
		return nil, err
	}
	r, err := s.prepare(ctx, doc, req.Template, req.PaperSize)
	if err != nil {
		return nil, err
	}

	preview, err := s.renderHTML(ctx, r)
	if err != nil {
		return nil, err
	}
	pdf, err := s.renderPDF(ctx, tenantID, r, nil)
	if err != nil {
		return nil, err
	}
	return &RenderBothResponse{Preview: preview, PDF: pdf}, nil
}

// PreviewOrder renders the HTML preview of a stored order
func (s *DocumentService) PreviewOrder(ctx context.Context, tenantID, orderID uuid.UUID, req OrderRenderRequest) (*PreviewResponse, error) {
	r, err := s.prepareOrder(ctx, tenantID, orderID, req)
	if err != nil {
		return nil, err
	}
	return s.renderHTML(ctx, r)
}

// GenerateOrderPDF renders and stores the PDF of a stored order
func (s *DocumentService) GenerateOrderPDF(ctx context.Context, tenantID, orderID uuid.UUID, req OrderRenderRequest) (*RenderedPDF, error) {
	r, err := s.prepareOrder(ctx, tenantID, orderID, req)
	if err != nil {
		return nil, err
	}
	return s.renderPDF(ctx, tenantID, r, nil)
}

// =============================================================================
// Print job operations
// =============================================================================

// RetryJob renders a failed job again with its original memo number and template.
// Jobs rendered from an order reload the order; other jobs need the document again.
func (s *DocumentService) RetryJob(ctx context.Context, tenantID, jobID uuid.UUID, req *DocumentRequest) (*RenderedPDF, error) {
	job, err := s.findJob(ctx, tenantID, jobID)
	if err != nil {
		return nil, err
	}
	if err := job.Retry(); err != nil {
		return nil, err
	}

	var (
		doc   *memo.Document
		paper string
	)
	switch {
	case job.OrderID != nil:
		doc, err = s.orderDocument(ctx, tenantID, *job.OrderID)
	case req != nil:
		doc, err = req.ToDocument()
		paper = req.PaperSize
	default:
		return nil, shared.NewDomainError("DOCUMENT_REQUIRED", "The document is required to retry this job")
	}
	if err != nil {
		return nil, err
	}
	doc.MemoNumber = job.MemoNumber

	r, err := s.prepare(ctx, doc, job.TemplateSlug, paper)
	if err != nil {
		return nil, err
	}
	if err := s.saveJob(ctx, job); err != nil {
		return nil, err
	}

	s.log(ctx).Info("Retrying print job",
		zap.String("job_id", job.ID.String()),
		zap.String("memo_number", job.MemoNumber.String()),
		zap.Int("attempts", job.Attempts))

	return s.renderPDF(ctx, tenantID, r, job)
}

// GetJob retrieves a print job by ID
func (s *DocumentService) GetJob(ctx context.Context, tenantID, jobID uuid.UUID) (*PrintJobResponse, error) {
	job, err := s.findJob(ctx, tenantID, jobID)
	if err != nil {
		return nil, err
	}
	return toJobResponse(job), nil
}

// ListJobs retrieves a paginated list of print jobs
func (s *DocumentService) ListJobs(ctx context.Context, tenantID uuid.UUID, req ListJobsRequest) (*ListJobsResponse, error) {
	if s.jobs == nil {
		return nil, shared.NewDomainError("INVALID_STATE", "Print jobs are not recorded")
	}
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 20
	}

	filter := printing.PrintJobFilter{
		Filter: shared.Filter{
			Page:     req.Page,
			PageSize: req.PageSize,
			OrderBy:  req.OrderBy,
			OrderDir: req.OrderDir,
		},
	}
	if req.Status != "" {
		status := printing.JobStatus(req.Status)
		filter.Status = &status
	}
	if req.OrderID != "" {
		orderID, err := uuid.Parse(req.OrderID)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_INPUT", "Invalid order ID")
		}
		filter.OrderID = &orderID
	}

	jobs, err := s.jobs.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list print jobs: %w", err)
	}
	total, err := s.jobs.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count print jobs: %w", err)
	}

	items := make([]PrintJobResponse, len(jobs))
	for i := range jobs {
		items[i] = *toJobResponse(&jobs[i])
	}
	return &ListJobsResponse{
		Items: items,
		Total: total,
		Page:  req.Page,
		Size:  req.PageSize,
	}, nil
}

// DownloadJob opens the stored PDF of a completed job
func (s *DocumentService) DownloadJob(ctx context.Context, tenantID, jobID uuid.UUID) (io.ReadCloser, string, error) {
	job, err := s.findJob(ctx, tenantID, jobID)
	if err != nil {
		return nil, "", err
	}
	if !job.IsCompleted() || !job.HasPDF() || s.storage == nil {
		return nil, "", shared.NewDomainError("PDF_NOT_AVAILABLE", "The PDF of this job is not available")
	}
	rc, err := s.storage.Get(ctx, job.StorageKey)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open PDF: %w", err)
	}
	return rc, job.FileName, nil
}

// =============================================================================
// Helpers
// =============================================================================

// prepare snapshots the document, assigns its memo number once and builds the view
func (s *DocumentService) prepare(ctx context.Context, doc *memo.Document, slug, paper string) (*rendering, error) {
	snapshot := doc.Clone()
	if snapshot.MemoNumber.IsZero() {
		snapshot.MemoNumber = memo.NewMemoNumber(s.now())
	}

	resolved := s.registry.ResolveConfig(ctx, slug)
	view, err := infra.BuildView(snapshot, resolved.Config)
	if err != nil {
		return nil, err
	}

	size, margins := resolved.PaperSize, resolved.Margins
	if p := printing.PaperSize(paper); p.IsValid() && p != size {
		size, margins = p, printing.MarginsFor(p)
	}
	view.WithPaper(size, margins)

	return &rendering{view: view, template: resolved, orderID: snapshot.OrderID}, nil
}

func (s *DocumentService) prepareOrder(ctx context.Context, tenantID, orderID uuid.UUID, req OrderRenderRequest) (*rendering, error) {
	doc, err := s.orderDocument(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	if req.MemoNumber != "" {
		number, err := memo.ParseMemoNumber(req.MemoNumber)
		if err != nil {
			return nil, err
		}
		doc.MemoNumber = number
	}
	return s.prepare(ctx, doc, req.Template, req.PaperSize)
}

func (s *DocumentService) orderDocument(ctx context.Context, tenantID, orderID uuid.UUID) (*memo.Document, error) {
	if s.orders == nil {
		return nil, shared.NewDomainError("INVALID_STATE", "Orders are not available")
	}
	order, err := s.orders.FindByID(ctx, tenantID, orderID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Order not found")
		}
		return nil, fmt.Errorf("failed to load order: %w", err)
	}

	var shop memo.ShopProfile
	if s.shops != nil {
		profile, err := s.shops.LoadProfile(ctx, tenantID)
		switch {
		case err == nil && profile != nil:
			shop = *profile
		case err != nil && !errors.Is(err, shared.ErrNotFound):
			s.log(ctx).Warn("Shop profile unavailable, rendering without it",
				zap.String("tenant_id", tenantID.String()),
				zap.Error(err))
		}
	}
	return memo.NewDocumentFromOrder(order, shop)
}

func (s *DocumentService) renderHTML(ctx context.Context, r *rendering) (*PreviewResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "DocumentService", "RenderHTML", r.spanOptions(FormatHTML)...)
	defer span.End()

	var html []byte
	var err error
	start := time.Now()
	telemetry.WithProfilingLabels(ctx, telemetry.RenderLabels(FormatHTML, r.view.Style.Layout.String()), func(ctx context.Context) {
		html, err = s.html.Render(ctx, r.view)
	})
	s.record(ctx, FormatHTML, r, time.Since(start), len(html), err)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to render preview: %w", err)
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrSizeBytes, len(html))

	return &PreviewResponse{
		HTML:       string(html),
		MemoNumber: r.view.MemoNumber.String(),
		FileName:   r.view.FileName,
		Template:   r.template.Slug,
		LayoutType: r.view.Style.Layout.String(),
		Fallback:   r.template.Fallback,
		Totals:     viewTotals(r.view),
	}, nil
}

// renderPDF draws, stores and records a PDF. job is nil for a first attempt.
func (s *DocumentService) renderPDF(ctx context.Context, tenantID uuid.UUID, r *rendering, job *printing.PrintJob) (*RenderedPDF, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "DocumentService", "RenderPDF", r.spanOptions(FormatPDF)...)
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrTenantID, tenantID)

	rendered, err := s.renderPDFJob(ctx, tenantID, r, job)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if rendered.Job != nil {
		telemetry.SetAttributes(span, telemetry.SpanAttrJobID, rendered.Job.ID)
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrSizeBytes, len(rendered.Data))
	return rendered, nil
}

func (s *DocumentService) renderPDFJob(ctx context.Context, tenantID uuid.UUID, r *rendering, job *printing.PrintJob) (*RenderedPDF, error) {
	view := r.view
	if job == nil && s.jobs != nil {
		var err error
		job, err = printing.NewPrintJob(tenantID, r.template.Slug, view.Kind, view.MemoNumber, r.orderID)
		if err != nil {
			return nil, err
		}
	}
	if job != nil {
		if err := job.StartRendering(view.Style.Layout); err != nil {
			return nil, err
		}
		if err := s.saveJob(ctx, job); err != nil {
			return nil, err
		}
	}

	var result *infra.RenderResult
	var err error
	start := time.Now()
	telemetry.WithProfilingLabels(ctx, telemetry.RenderLabels(FormatPDF, view.Style.Layout.String()), func(ctx context.Context) {
		result, err = s.pdf.Render(ctx, view)
	})
	if err != nil {
		s.record(ctx, FormatPDF, r, time.Since(start), 0, err)
		return nil, s.fail(ctx, job, "render PDF", err)
	}
	s.record(ctx, FormatPDF, r, time.Since(start), len(result.PDFData), nil)

	rendered := &RenderedPDF{
		MemoNumber: view.MemoNumber.String(),
		FileName:   result.FileName,
		Data:       result.PDFData,
	}

	if s.storage != nil {
		req := &infra.StoreRequest{
			TenantID: tenantID,
			FileName: result.FileName,
			PDFData:  result.PDFData,
			StoredAt: s.now(),
		}
		if job != nil {
			req.JobID = job.ID
		}
		stored, err := s.storage.Store(ctx, req)
		if err != nil {
			var renderErr *infra.RenderError
			if !errors.As(err, &renderErr) {
				err = infra.NewRenderError(infra.ErrCodeStorageFailed, "failed to store PDF", err)
			}
			return nil, s.fail(ctx, job, "store PDF", err)
		}
		rendered.URL = stored.URL

		if job != nil {
			if err := job.Complete(stored.Key, stored.URL, stored.Size); err != nil {
				return nil, err
			}
		}
	} else if job != nil {
		// without storage the job only records that rendering succeeded
		if err := job.Complete(result.FileName, "", int64(len(result.PDFData))); err != nil {
			return nil, err
		}
	}

	if job != nil {
		if err := s.saveJob(ctx, job); err != nil {
			return nil, err
		}
		rendered.Job = toJobResponse(job)
		s.log(ctx).Info("PDF generated",
			zap.String("job_id", job.ID.String()),
			zap.String("memo_number", view.MemoNumber.String()),
			zap.String("layout", view.Style.Layout.String()),
			zap.Int("size", len(result.PDFData)))
	}
	return rendered, nil
}

// log correlates the service logger with the request, tenant and trace of ctx
func (s *DocumentService) log(ctx context.Context) *logger.ContextLogger {
	return logger.WithLogger(ctx, s.logger)
}

// fail marks the job failed and returns the error for the caller.
// The document itself is never touched.
func (s *DocumentService) fail(ctx context.Context, job *printing.PrintJob, stage string, cause error) error {
	s.log(ctx).Error("PDF generation failed",
		zap.String("stage", stage),
		zap.Bool("retryable", infra.IsRetryable(cause)),
		zap.Error(cause))

	err := fmt.Errorf("failed to %s: %w", stage, cause)
	if job == nil {
		return err
	}

	code := infra.ErrCodeRenderFailed
	var renderErr *infra.RenderError
	if errors.As(cause, &renderErr) {
		code = renderErr.Code
	}
	if ferr := job.Fail(code, cause.Error()); ferr == nil {
		if serr := s.saveJob(context.WithoutCancel(ctx), job); serr != nil {
			s.log(ctx).Error("Failed to record print job failure",
				zap.String("job_id", job.ID.String()),
				zap.Error(serr))
		}
	}
	return &RenderFailure{JobID: job.ID, Err: err}
}

// saveJob persists the job, then publishes and clears its pending events
func (s *DocumentService) saveJob(ctx context.Context, job *printing.PrintJob) error {
	if err := s.jobs.Save(ctx, job); err != nil {
		return fmt.Errorf("failed to save print job: %w", err)
	}
	events := job.GetDomainEvents()
	job.ClearDomainEvents()
	if s.events != nil && len(events) > 0 {
		if err := s.events.Publish(ctx, events...); err != nil {
			s.log(ctx).Warn("Failed to publish print job events",
				zap.String("job_id", job.ID.String()),
				zap.Error(err))
		}
	}
	return nil
}

func (s *DocumentService) findJob(ctx context.Context, tenantID, jobID uuid.UUID) (*printing.PrintJob, error) {
	if s.jobs == nil {
		return nil, shared.NewDomainError("INVALID_STATE", "Print jobs are not recorded")
	}
	job, err := s.jobs.FindByIDForTenant(ctx, tenantID, jobID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Print job not found")
		}
		return nil, fmt.Errorf("failed to get print job: %w", err)
	}
	return job, nil
}

func (s *DocumentService) record(ctx context.Context, format string, r *rendering, d time.Duration, size int, err error) {
	if s.recorder == nil {
		return
	}
	s.recorder.RecordRender(ctx, format, r.view.Style.Layout.String(), d, size, err)
}

func (r *rendering) spanOptions(format string) []telemetry.SpanOption {
	opts := []telemetry.SpanOption{
		telemetry.WithAttribute(telemetry.SpanAttrFormat, format),
		telemetry.WithAttribute(telemetry.SpanAttrMemoNumber, r.view.MemoNumber.String()),
		telemetry.WithAttribute(telemetry.SpanAttrDocumentKind, string(r.view.Kind)),
		telemetry.WithAttribute(telemetry.SpanAttrTemplateSlug, r.template.Slug),
		telemetry.WithAttribute(telemetry.SpanAttrLayout, r.view.Style.Layout.String()),
		telemetry.WithAttribute(telemetry.SpanAttrItemCount, len(r.view.Rows)),
	}
	if r.orderID != nil {
		opts = append(opts, telemetry.WithAttribute(telemetry.SpanAttrOrderID, r.orderID.String()))
	}
	return opts
}

func viewTotals(view *infra.View) TotalsResponse {
	t := view.Totals
	return TotalsResponse{
		Kind:           view.Kind.String(),
		Currency:       string(view.Currency),
		BillableItems:  len(view.Rows),
		Subtotal:       fixed(t.Subtotal),
		DeliveryCharge: fixed(t.DeliveryCharge),
		TaxAmount:      fixed(t.TaxAmount),
		Discount:       fixed(t.Discount),
		Total:          fixed(t.TotalAmount),
		TaxApplied:     t.TaxApplied,
	}
}

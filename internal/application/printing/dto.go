package printing

import (
	"time"

	"github.com/google/uuid"
	"github.com/quickmemo/backend/internal/domain/memo"
	"github.com/quickmemo/backend/internal/domain/printing"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Document DTOs
// =============================================================================

// DocumentRequest is a document to total, preview or print
type DocumentRequest struct {
	Kind           string            `json:"kind" binding:"omitempty,oneof=CASH_MEMO INVOICE"`
	Currency       string            `json:"currency" binding:"omitempty,len=3"`
	Template       string            `json:"template" binding:"max=50"`
	MemoNumber     string            `json:"memoNumber" binding:"omitempty,len=6,numeric"`
	Title          string            `json:"title" binding:"max=100"`
	ItemsHeader    string            `json:"itemsHeader" binding:"max=100"`
	Notes          string            `json:"notes" binding:"max=1000"`
	PaperSize      string            `json:"paperSize" binding:"omitempty,oneof=A4 A5 RECEIPT_80MM"`
	Shop           memo.ShopProfile  `json:"shop"`
	Customer       memo.CustomerInfo `json:"customer"`
	Items          []ItemRequest     `json:"items" binding:"required,min=1,dive"`
	DeliveryCharge decimal.Decimal   `json:"deliveryCharge"`
	TaxAmount      decimal.Decimal   `json:"taxAmount"`
	Discount       decimal.Decimal   `json:"discount"`
	PaymentMethod  string            `json:"paymentMethod"`
	IssuedAt       *time.Time        `json:"issuedAt"`
}

// ItemRequest is one row. A row with a product is resolved from the catalog,
// otherwise it is a manual row.
type ItemRequest struct {
	Name         string            `json:"name" binding:"max=200"`
	Quantity     int               `json:"quantity"` // negative input is clamped to 0 and the row excluded
	UnitPrice    decimal.Decimal   `json:"unitPrice"`
	LineDiscount decimal.Decimal   `json:"lineDiscount"`
	Product      *ProductRequest   `json:"product,omitempty"`
	Selection    map[string]string `json:"selection,omitempty"`
}

// ProductRequest is a catalog product offered with its variants
type ProductRequest struct {
	ID       uuid.UUID        `json:"id" binding:"required"`
	SKU      string           `json:"sku"`
	Name     string           `json:"name" binding:"required,max=200"`
	Price    decimal.Decimal  `json:"price"`
	Variants []VariantRequest `json:"variants,omitempty" binding:"dive"`
}

// VariantRequest is one concrete SKU of a product
type VariantRequest struct {
	ID         uuid.UUID           `json:"id" binding:"required"`
	SKU        string              `json:"sku"`
	Name       string              `json:"name"`
	Price      *decimal.Decimal    `json:"price,omitempty"`
	Attributes map[string][]string `json:"attributes"`
}

// OrderRenderRequest selects how a stored order is rendered
type OrderRenderRequest struct {
	Template   string `form:"template" binding:"max=50"`
	MemoNumber string `form:"memo" binding:"omitempty,len=6,numeric"`
	PaperSize  string `form:"paper_size" binding:"omitempty,oneof=A4 A5 RECEIPT_80MM"`
}

// LineResponse is one row with its derived total
type LineResponse struct {
	ID           string          `json:"id"`
	Source       string          `json:"source"`
	Name         string          `json:"name"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	LineDiscount decimal.Decimal `json:"lineDiscount"`
	LineTotal    decimal.Decimal `json:"lineTotal"`
	Billable     bool            `json:"billable"`
}

// TotalsResponse is the computed money summary of a document
type TotalsResponse struct {
	Kind           string          `json:"kind"`
	Currency       string          `json:"currency"`
	Items          []LineResponse  `json:"items"`
	BillableItems  int             `json:"billableItems"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	DeliveryCharge decimal.Decimal `json:"deliveryCharge"`
	TaxAmount      decimal.Decimal `json:"taxAmount"`
	Discount       decimal.Decimal `json:"discount"`
	Total          decimal.Decimal `json:"total"`
	TaxApplied     bool            `json:"taxApplied"`
}

// PreviewResponse is the rendered HTML preview
type PreviewResponse struct {
	HTML       string         `json:"html"`
	MemoNumber string         `json:"memoNumber"`
	FileName   string         `json:"fileName"`
	Template   string         `json:"template"`
	LayoutType string         `json:"layoutType"`
	Fallback   bool           `json:"fallback"`
	Totals     TotalsResponse `json:"totals"`
}

// RenderedPDF is a generated PDF and the job that produced it
type RenderedPDF struct {
	Job        *PrintJobResponse
	MemoNumber string
	FileName   string
	URL        string
	Data       []byte
}

// RenderBothResponse pairs a preview and a PDF sharing one memo number
type RenderBothResponse struct {
	Preview *PreviewResponse
	PDF     *RenderedPDF
}

// =============================================================================
// Template DTOs
// =============================================================================

// TemplateResponse represents an invoice template
type TemplateResponse struct {
	ID          string                  `json:"id"`
	Slug        string                  `json:"slug"`
	Name        string                  `json:"name"`
	Description string                  `json:"description"`
	Config      printing.TemplateConfig `json:"config"`
	Preset      printing.TemplatePreset `json:"preset"`
	PaperSize   string                  `json:"paperSize"`
	Margins     printing.Margins        `json:"margins"`
	IsDefault   bool                    `json:"isDefault"`
	Status      string                  `json:"status"`
	SortOrder   int                     `json:"sortOrder"`
	CreatedAt   time.Time               `json:"createdAt"`
	UpdatedAt   time.Time               `json:"updatedAt"`
}

// =============================================================================
// Print Job DTOs
// =============================================================================

// ListJobsRequest represents a request to list print jobs
type ListJobsRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Status   string `form:"status" binding:"omitempty,oneof=PENDING RENDERING COMPLETED FAILED"`
	OrderID  string `form:"order_id" binding:"omitempty,uuid"`
}

// PrintJobResponse represents a print job
type PrintJobResponse struct {
	ID           string     `json:"id"`
	TenantID     string     `json:"tenantId"`
	TemplateSlug string     `json:"templateSlug"`
	LayoutType   string     `json:"layoutType"`
	DocumentKind string     `json:"documentKind"`
	MemoNumber   string     `json:"memoNumber"`
	OrderID      string     `json:"orderId,omitempty"`
	Status       string     `json:"status"`
	FileName     string     `json:"fileName"`
	PdfURL       string     `json:"pdfUrl,omitempty"`
	SizeBytes    int64      `json:"sizeBytes,omitempty"`
	ErrorCode    string     `json:"errorCode,omitempty"`
	ErrorMessage string     `json:"errorMessage,omitempty"`
	Attempts     int        `json:"attempts"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// ListJobsResponse represents a paginated list of print jobs
type ListJobsResponse struct {
	Items []PrintJobResponse `json:"items"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Size  int                `json:"size"`
}

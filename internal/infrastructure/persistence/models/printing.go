package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/quickmemo/backend/internal/domain/memo"
	"github.com/quickmemo/backend/internal/domain/printing"
	"github.com/quickmemo/backend/internal/domain/shared"
)

// InvoiceTemplateModel is the GORM model for invoice_templates table
type InvoiceTemplateModel struct {
	AggregateModel
	Slug         string `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name         string `gorm:"type:varchar(100);not null"`
	Description  string `gorm:"type:text"`
	Config       string `gorm:"type:text;not null"`
	Preset       string `gorm:"type:text"`
	LayoutType   string `gorm:"column:layout_type;type:varchar(20);not null;default:'classic';index"`
	PaperSize    string `gorm:"column:paper_size;type:varchar(20);not null;default:'A4'"`
	MarginTop    int    `gorm:"column:margin_top;not null;default:10"`
	MarginRight  int    `gorm:"column:margin_right;not null;default:10"`
	MarginBottom int    `gorm:"column:margin_bottom;not null;default:10"`
	MarginLeft   int    `gorm:"column:margin_left;not null;default:10"`
	IsDefault    bool   `gorm:"column:is_default;not null;default:false"`
	Status       string `gorm:"type:varchar(20);not null;default:'ACTIVE';index"`
	SortOrder    int    `gorm:"column:sort_order;not null;default:0"`
}

// TableName returns the table name for InvoiceTemplateModel
func (InvoiceTemplateModel) TableName() string {
	return "invoice_templates"
}

// ToDomain converts the row to a template.
// A stored config that no longer parses is replaced by the default config,
// and out-of-range margins by the stock margins for the paper size.
func (m *InvoiceTemplateModel) ToDomain() *printing.InvoiceTemplate {
	cfg, err := printing.ParseTemplateConfig([]byte(m.Config))
	if err != nil {
		cfg = printing.DefaultTemplateConfig()
	}

	margins, err := printing.NewMargins(m.MarginTop, m.MarginRight, m.MarginBottom, m.MarginLeft)
	if err != nil {
		margins = printing.MarginsFor(printing.PaperSize(m.PaperSize))
	}

	var preset printing.TemplatePreset
	if m.Preset != "" {
		_ = json.Unmarshal([]byte(m.Preset), &preset)
	}

	t := &printing.InvoiceTemplate{
		Slug:        m.Slug,
		Name:        m.Name,
		Description: m.Description,
		Config:      cfg,
		Preset:      preset,
		PaperSize:   printing.PaperSize(m.PaperSize),
		Margins:     margins,
		IsDefault:   m.IsDefault,
		Status:      printing.TemplateStatus(m.Status),
		SortOrder:   m.SortOrder,
	}
	m.PopulateAggregateRoot(&t.BaseAggregateRoot)
	return t
}

// InvoiceTemplateModelFromDomain creates an InvoiceTemplateModel from a domain template
func InvoiceTemplateModelFromDomain(t *printing.InvoiceTemplate) (*InvoiceTemplateModel, error) {
	cfg, err := json.Marshal(t.Config)
	if err != nil {
		return nil, err
	}
	preset := ""
	if !t.Preset.IsZero() {
		data, err := json.Marshal(t.Preset)
		if err != nil {
			return nil, err
		}
		preset = string(data)
	}

	m := &InvoiceTemplateModel{
		Slug:         t.Slug,
		Name:         t.Name,
		Description:  t.Description,
		Config:       string(cfg),
		Preset:       preset,
		LayoutType:   string(t.Config.LayoutType),
		PaperSize:    string(t.PaperSize),
		MarginTop:    t.Margins.Top,
		MarginRight:  t.Margins.Right,
		MarginBottom: t.Margins.Bottom,
		MarginLeft:   t.Margins.Left,
		IsDefault:    t.IsDefault,
		Status:       string(t.Status),
		SortOrder:    t.SortOrder,
	}
	m.FromDomainAggregateRoot(t.BaseAggregateRoot)
	return m, nil
}

// PrintJobModel is the GORM model for print_jobs table
type PrintJobModel struct {
	TenantAggregateModel
	TemplateSlug string     `gorm:"column:template_slug;type:varchar(50)"`
	LayoutType   string     `gorm:"column:layout_type;type:varchar(20)"`
	DocumentKind string     `gorm:"column:document_kind;type:varchar(20);not null"`
	MemoNumber   string     `gorm:"column:memo_number;type:varchar(6);not null;index"`
	OrderID      *uuid.UUID `gorm:"column:order_id;type:uuid;index"`
	Status       string     `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	FileName     string     `gorm:"column:file_name;type:varchar(100);not null"`
	StorageKey   string     `gorm:"column:storage_key;type:text"`
	PdfURL       string     `gorm:"column:pdf_url;type:text"`
	SizeBytes    int64      `gorm:"column:size_bytes;not null;default:0"`
	ErrorCode    string     `gorm:"column:error_code;type:varchar(50)"`
	ErrorMessage string     `gorm:"column:error_message;type:text"`
	Attempts     int        `gorm:"not null;default:0"`
	CompletedAt  *time.Time `gorm:"column:completed_at"`
}

// TableName returns the table name for PrintJobModel
func (PrintJobModel) TableName() string {
	return "print_jobs"
}

// ToDomain converts PrintJobModel to domain PrintJob
func (m *PrintJobModel) ToDomain() *printing.PrintJob {
	j := &printing.PrintJob{
		TenantAggregateRoot: shared.TenantAggregateRoot{},
		TemplateSlug:        m.TemplateSlug,
		LayoutType:          printing.LayoutType(m.LayoutType),
		DocumentKind:        memo.DocumentKind(m.DocumentKind),
		MemoNumber:          memo.MemoNumber(m.MemoNumber),
		OrderID:             m.OrderID,
		Status:              printing.JobStatus(m.Status),
		FileName:            m.FileName,
		StorageKey:          m.StorageKey,
		PdfURL:              m.PdfURL,
		SizeBytes:           m.SizeBytes,
		ErrorCode:           m.ErrorCode,
		ErrorMessage:        m.ErrorMessage,
		Attempts:            m.Attempts,
		CompletedAt:         m.CompletedAt,
	}
	m.PopulateTenantAggregateRoot(&j.TenantAggregateRoot)
	return j
}

// PrintJobModelFromDomain creates a PrintJobModel from domain PrintJob
func PrintJobModelFromDomain(j *printing.PrintJob) *PrintJobModel {
	m := &PrintJobModel{
		TemplateSlug: j.TemplateSlug,
		LayoutType:   string(j.LayoutType),
		DocumentKind: string(j.DocumentKind),
		MemoNumber:   string(j.MemoNumber),
		OrderID:      j.OrderID,
		Status:       string(j.Status),
		FileName:     j.FileName,
		StorageKey:   j.StorageKey,
		PdfURL:       j.PdfURL,
		SizeBytes:    j.SizeBytes,
		ErrorCode:    j.ErrorCode,
		ErrorMessage: j.ErrorMessage,
		Attempts:     j.Attempts,
		CompletedAt:  j.CompletedAt,
	}
	m.FromDomainTenantAggregateRoot(j.TenantAggregateRoot)
	return m
}

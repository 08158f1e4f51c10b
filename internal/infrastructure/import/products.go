package csvimport

import (
	"context"
	"errors"
	"io"

	"github.com/shopspring/decimal"
)

// Product columns
const (
	ColumnName  = "name"
	ColumnSKU   = "sku"
	ColumnPrice = "price"
)

// ProductRules validates the columns of a saved product list
func ProductRules() []FieldRule {
	return []FieldRule{
		Field(ColumnName).Aliases("product", "product_name", "item").Required().MaxLength(200).Unique().Build(),
		Field(ColumnSKU).Aliases("code", "product_code").MaxLength(64).Build(),
		Field(ColumnPrice).Aliases("unit_price", "rate").Required().Decimal().MinValue(decimal.Zero).Build(),
	}
}

// ProductRow is a validated product read from the file
type ProductRow struct {
	Line  int
	Name  string
	SKU   string
	Price decimal.Decimal
}

// ProductResult holds the rows that passed and the errors of those that did not
type ProductResult struct {
	Products    []ProductRow `json:"-"`
	TotalRows   int          `json:"totalRows"`
	ValidRows   int          `json:"validRows"`
	ErrorRows   int          `json:"errorRows"`
	Errors      []RowError   `json:"errors,omitempty"`
	TotalErrors int          `json:"totalErrors,omitempty"`
	Truncated   bool         `json:"truncated,omitempty"`
}

// IsValid reports whether every row passed
func (r *ProductResult) IsValid() bool {
	return r.ErrorRows == 0 && r.TotalErrors == 0
}

// ProductImporter reads product lists with size and row limits
type ProductImporter struct {
	maxFileSize int64
	maxRows     int
	maxErrors   int
}

// ImporterOption configures a ProductImporter
type ImporterOption func(*ProductImporter)

// WithMaxFileSize bounds the accepted file size in bytes
func WithMaxFileSize(size int64) ImporterOption {
	return func(p *ProductImporter) {
		p.maxFileSize = size
	}
}

// WithMaxRows bounds the number of data rows
func WithMaxRows(rows int) ImporterOption {
	return func(p *ProductImporter) {
		p.maxRows = rows
	}
}

// WithMaxErrors bounds the number of reported row errors
func WithMaxErrors(n int) ImporterOption {
	return func(p *ProductImporter) {
		p.maxErrors = n
	}
}

// NewProductImporter creates an importer with 1 MiB, 500 rows and 50 errors by default
func NewProductImporter(opts ...ImporterOption) *ProductImporter {
	p := &ProductImporter{
		maxFileSize: 1 << 20,
		maxRows:     500,
		maxErrors:   50,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Import parses r. File level problems are returned as errors; row problems
// are reported in the result, which still lists the rows that passed.
func (p *ProductImporter) Import(ctx context.Context, r io.Reader) (*ProductResult, error) {
	limited := &io.LimitedReader{R: r, N: p.maxFileSize + 1}
	parser, err := NewParser(limited)
	if err != nil {
		return nil, err
	}
	if err := parser.ParseHeader(); err != nil {
		return nil, err
	}
	validator, err := NewFieldValidator(parser, ProductRules(), p.maxErrors)
	if err != nil {
		return nil, err
	}
	errs := validator.Errors()

	result := &ProductResult{}
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row, err := parser.ReadRow()
		if errors.Is(err, io.EOF) {
			break
		}
		if limited.N <= 0 {
			return nil, ErrFileTooLarge
		}
		if err != nil {
			errs.Add(RowError{Row: parser.CurrentRow(), Code: ErrCodeMalformedRow, Message: err.Error()})
			result.ErrorRows++
			continue
		}
		if row.IsEmpty() {
			continue
		}

		result.TotalRows++
		if result.TotalRows > p.maxRows {
			errs.Add(RowError{Row: row.LineNumber, Code: ErrCodeTooManyRows, Message: "exceeded maximum number of rows"})
			break
		}

		if !validator.ValidateRow(row) {
			result.ErrorRows++
			continue
		}
		price, _ := ParseAmount(validator.Value(row, ColumnPrice))
		result.Products = append(result.Products, ProductRow{
			Line:  row.LineNumber,
			Name:  validator.Value(row, ColumnName),
			SKU:   validator.Value(row, ColumnSKU),
			Price: price,
		})
	}
	if limited.N <= 0 {
		return nil, ErrFileTooLarge
	}
	if result.TotalRows == 0 && !errs.HasErrors() {
		return nil, ErrNoDataRows
	}

	result.ValidRows = len(result.Products)
	result.Errors = errs.Errors()
	result.TotalErrors = errs.TotalCount()
	result.Truncated = errs.IsTruncated()
	return result, nil
}

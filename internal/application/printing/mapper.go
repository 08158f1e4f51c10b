package printing

import (
	"strings"

	"github.com/quickmemo/backend/internal/domain/memo"
	"github.com/quickmemo/backend/internal/domain/printing"
	"github.com/quickmemo/backend/internal/domain/shared"
	"github.com/quickmemo/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ToDocument builds the domain document described by the request.
// Item and charge rules are enforced by the document itself.
func (r *DocumentRequest) ToDocument() (*memo.Document, error) {
	if r == nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Document is required")
	}

	kind := memo.DocumentKind(r.Kind)
	if kind == "" {
		kind = memo.DocumentKindCashMemo
	}
	doc, err := memo.NewDocument(kind, valueobject.Currency(strings.ToUpper(r.Currency)))
	if err != nil {
		return nil, err
	}

	doc.Shop = r.Shop
	doc.Customer = r.Customer
	doc.Notes = r.Notes
	if r.Title != "" {
		doc.Title = r.Title
	}
	if r.ItemsHeader != "" {
		doc.ItemsHeader = r.ItemsHeader
	}
	if r.IssuedAt != nil {
		doc.IssuedAt = *r.IssuedAt
	}
	if r.MemoNumber != "" {
		number, err := memo.ParseMemoNumber(r.MemoNumber)
		if err != nil {
			return nil, err
		}
		doc.MemoNumber = number
	}

	for _, item := range r.Items {
		line, err := item.toLineItem(doc.Currency)
		if err != nil {
			return nil, err
		}
		if err := doc.AddItem(line); err != nil {
			return nil, err
		}
	}

	delivery := valueobject.NewMoneyIn(r.DeliveryCharge, doc.Currency)
	tax := valueobject.NewMoneyIn(r.TaxAmount, doc.Currency)
	discount := valueobject.NewMoneyIn(r.Discount, doc.Currency)
	if err := doc.SetCharges(delivery, tax, discount); err != nil {
		return nil, err
	}

	if r.PaymentMethod != "" {
		method, err := memo.ParsePaymentMethod(r.PaymentMethod)
		if err != nil {
			return nil, err
		}
		if err := doc.SetPaymentMethod(method); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

func (r ItemRequest) toLineItem(currency valueobject.Currency) (*memo.LineItem, error) {
	discount := valueobject.NewMoneyIn(r.LineDiscount, currency)

	if r.Product != nil {
		return memo.NewCatalogItem(r.Product.toCatalogProduct(currency), r.Selection, r.Quantity, discount)
	}

	price := valueobject.NewMoneyIn(r.UnitPrice, currency)
	item, err := memo.NewManualItem(r.Name, r.Quantity, price)
	if err != nil {
		return nil, err
	}
	if !r.LineDiscount.IsZero() {
		if err := item.SetLineDiscount(discount); err != nil {
			return nil, err
		}
	}
	return item, nil
}

func (p *ProductRequest) toCatalogProduct(currency valueobject.Currency) memo.CatalogProduct {
	price := valueobject.NewMoneyIn(p.Price, currency)
	product := memo.CatalogProduct{
		ID:    p.ID,
		SKU:   p.SKU,
		Name:  p.Name,
		Price: price,
	}
	for _, v := range p.Variants {
		variant := memo.Variant{
			ID:         v.ID,
			SKU:        v.SKU,
			Name:       v.Name,
			Attributes: v.Attributes,
		}
		if v.Price != nil {
			vp := valueobject.NewMoneyIn(*v.Price, currency)
			variant.Price = &vp
		}
		product.Variants = append(product.Variants, variant)
	}
	return product
}

// ToTotalsResponse derives the money summary of a document
func ToTotalsResponse(doc *memo.Document) TotalsResponse {
	totals := doc.ComputeTotals()
	resp := TotalsResponse{
		Kind:           doc.Kind.String(),
		Currency:       string(doc.Currency),
		Items:          make([]LineResponse, len(doc.Items)),
		BillableItems:  len(doc.BillableItems()),
		Subtotal:       fixed(totals.Subtotal),
		DeliveryCharge: fixed(totals.DeliveryCharge),
		TaxAmount:      fixed(totals.TaxAmount),
		Discount:       fixed(totals.Discount),
		Total:          fixed(totals.TotalAmount),
		TaxApplied:     totals.TaxApplied,
	}
	for i := range doc.Items {
		item := &doc.Items[i]
		resp.Items[i] = LineResponse{
			ID:           item.ID.String(),
			Source:       string(item.Source),
			Name:         item.Name,
			Quantity:     item.Quantity,
			UnitPrice:    fixed(item.UnitPrice),
			LineDiscount: fixed(item.LineDiscount),
			LineTotal:    fixed(item.LineTotal()),
			Billable:     item.IsBillable(),
		}
	}
	return resp
}

func fixed(m valueobject.Money) decimal.Decimal {
	return m.Amount().Round(2)
}

func toTemplateResponse(t *printing.InvoiceTemplate) TemplateResponse {
	return TemplateResponse{
		ID:          t.ID.String(),
		Slug:        t.Slug,
		Name:        t.Name,
		Description: t.Description,
		Config:      t.Config,
		Preset:      t.Preset,
		PaperSize:   t.PaperSize.String(),
		Margins:     t.Margins,
		IsDefault:   t.IsDefault,
		Status:      t.Status.String(),
		SortOrder:   t.SortOrder,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func toJobResponse(j *printing.PrintJob) *PrintJobResponse {
	resp := &PrintJobResponse{
		ID:           j.ID.String(),
		TenantID:     j.TenantID.String(),
		TemplateSlug: j.TemplateSlug,
		LayoutType:   j.LayoutType.String(),
		DocumentKind: j.DocumentKind.String(),
		MemoNumber:   j.MemoNumber.String(),
		Status:       j.Status.String(),
		FileName:     j.FileName,
		PdfURL:       j.PdfURL,
		SizeBytes:    j.SizeBytes,
		ErrorCode:    j.ErrorCode,
		ErrorMessage: j.ErrorMessage,
		Attempts:     j.Attempts,
		CompletedAt:  j.CompletedAt,
		CreatedAt:    j.CreatedAt,
		UpdatedAt:    j.UpdatedAt,
	}
	if j.OrderID != nil {
		resp.OrderID = j.OrderID.String()
	}
	return resp
}

package memo

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/quickmemo/backend/internal/domain/shared"
	"github.com/quickmemo/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Totals is the derived money summary of a document
type Totals struct {
	Subtotal       valueobject.Money `json:"subtotal"`
	DeliveryCharge valueobject.Money `json:"deliveryCharge"`
	TaxAmount      valueobject.Money `json:"taxAmount"`
	Discount       valueobject.Money `json:"discount"`
	TotalAmount    valueobject.Money `json:"totalAmount"`
	TaxApplied     bool              `json:"taxApplied"`
}

// Document is the aggregate every renderer consumes.
// Subtotal and total are never stored; ComputeTotals derives them on each call.
type Document struct {
	Kind           DocumentKind
	Currency       valueobject.Currency
	Shop           ShopProfile
	Customer       CustomerInfo
	Items          []LineItem
	DeliveryCharge valueobject.Money
	Discount       valueobject.Money
	TaxAmount      valueobject.Money
	PaymentMethod  PaymentMethod
	MemoNumber     MemoNumber
	Title          string
	ItemsHeader    string
	Notes          string
	IssuedAt       time.Time
	OrderID        *uuid.UUID
	OrderNumber    string
}

// NewDocument creates an empty document of the given kind
func NewDocument(kind DocumentKind, currency valueobject.Currency) (*Document, error) {
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_DOCUMENT_KIND", "Document kind must be CASH_MEMO or INVOICE")
	}
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}
	if !currency.IsValid() {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "Unsupported currency: "+string(currency))
	}

	zero := valueobject.Zero(currency)
	return &Document{
		Kind:           kind,
		Currency:       currency,
		Items:          make([]LineItem, 0),
		DeliveryCharge: zero,
		Discount:       zero,
		TaxAmount:      zero,
		PaymentMethod:  PaymentMethodCOD,
		Title:          kind.DefaultTitle(),
		IssuedAt:       time.Now(),
	}, nil
}

// AddItem appends the item, or merges it into an existing row with the same identity:
// the quantity is incremented and the discount overwritten.
func (d *Document) AddItem(item *LineItem) error {
	if item == nil {
		return shared.NewDomainError("INVALID_ITEM", "Item cannot be nil")
	}
	if item.UnitPrice.Currency() != d.Currency {
		return ErrCurrencyMismatch
	}

	for idx := range d.Items {
		existing := &d.Items[idx]
		if existing.Key != item.Key {
			continue
		}
		if err := existing.SetQuantity(existing.Quantity + item.Quantity); err != nil {
			return err
		}
		return existing.setDiscount(item.discount())
	}

	d.Items = append(d.Items, item.clone())
	return nil
}

// RemoveItem deletes a row. Removing the only remaining row is rejected.
func (d *Document) RemoveItem(id uuid.UUID) error {
	idx := d.indexOf(id)
	if idx < 0 {
		return ErrItemNotFound
	}
	if len(d.Items) == 1 {
		return ErrLastItem
	}
	d.Items = append(d.Items[:idx], d.Items[idx+1:]...)
	return nil
}

// UpdateItem applies a form edit to one field of a row
func (d *Document) UpdateItem(id uuid.UUID, field ItemField, value string) error {
	idx := d.indexOf(id)
	if idx < 0 {
		return ErrItemNotFound
	}
	item := &d.Items[idx]

	switch field {
	case ItemFieldName:
		return item.SetName(value)
	case ItemFieldQuantity:
		qty, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be a whole number")
		}
		return item.SetQuantity(qty)
	case ItemFieldUnitPrice:
		amount, err := d.parseAmount(value)
		if err != nil {
			return shared.NewDomainError("INVALID_PRICE", "Unit price must be a number")
		}
		return item.SetUnitPrice(amount)
	case ItemFieldLineDiscount:
		amount, err := d.parseAmount(value)
		if err != nil {
			return shared.NewDomainError("INVALID_DISCOUNT", "Line discount must be a number")
		}
		return item.SetLineDiscount(amount)
	}
	return shared.NewDomainError("INVALID_FIELD", "Unknown item field: "+string(field))
}

// Item returns a copy of the row with the given ID
func (d *Document) Item(id uuid.UUID) (LineItem, bool) {
	idx := d.indexOf(id)
	if idx < 0 {
		return LineItem{}, false
	}
	return d.Items[idx].clone(), true
}

// SetCharges sets delivery, tax and document-level discount
func (d *Document) SetCharges(delivery, tax, discount valueobject.Money) error {
	for _, m := range []valueobject.Money{delivery, tax, discount} {
		if m.IsNegative() {
			return shared.NewDomainError("INVALID_CHARGE", "Delivery, tax and discount cannot be negative")
		}
		if m.Currency() != d.Currency {
			return ErrCurrencyMismatch
		}
	}
	d.DeliveryCharge = delivery
	d.TaxAmount = tax
	d.Discount = discount
	return nil
}

// SetPaymentMethod sets the payment method, rejecting unknown values
func (d *Document) SetPaymentMethod(p PaymentMethod) error {
	if !p.IsValid() {
		return ErrInvalidPaymentMethod
	}
	d.PaymentMethod = p
	return nil
}

// BillableItems returns, in order, the rows that render and count toward the subtotal
func (d *Document) BillableItems() []LineItem {
	rows := make([]LineItem, 0, len(d.Items))
	for _, item := range d.Items {
		if item.IsBillable() {
			rows = append(rows, item.clone())
		}
	}
	return rows
}

// Subtotal sums line totals over billable rows
func (d *Document) Subtotal() valueobject.Money {
	subtotal := valueobject.Zero(d.Currency)
	for _, item := range d.BillableItems() {
		subtotal = subtotal.MustAdd(item.LineTotal())
	}
	return subtotal
}

// ComputeTotals derives subtotal and total using the kind's formula
func (d *Document) ComputeTotals() Totals {
	subtotal := d.Subtotal()
	tax := valueobject.Zero(d.Currency)
	if d.Kind.IncludesTax() {
		tax = d.amount(d.TaxAmount)
	}

	return Totals{
		Subtotal:       subtotal,
		DeliveryCharge: d.amount(d.DeliveryCharge),
		TaxAmount:      tax,
		Discount:       d.amount(d.Discount),
		TotalAmount:    d.Kind.Total(subtotal, d.amount(d.DeliveryCharge), d.amount(d.TaxAmount), d.amount(d.Discount)),
		TaxApplied:     d.Kind.IncludesTax(),
	}
}

// Total applies the kind's formula.
// Cash memos: subtotal + delivery - discount. Invoices: subtotal + delivery + tax - discount.
func (k DocumentKind) Total(subtotal, delivery, tax, discount valueobject.Money) valueobject.Money {
	switch k {
	case DocumentKindInvoice:
		return subtotal.MustAdd(delivery).MustAdd(tax).MustSubtract(discount)
	default:
		return subtotal.MustAdd(delivery).MustSubtract(discount)
	}
}

// Validate is the gate run before anything is rendered
func (d *Document) Validate() error {
	if !d.Kind.IsValid() {
		return shared.NewDomainError("INVALID_DOCUMENT_KIND", "Document kind must be CASH_MEMO or INVOICE")
	}
	if strings.TrimSpace(d.Customer.Name) == "" {
		return ErrCustomerNameRequired
	}
	if !d.PaymentMethod.IsValid() {
		return ErrInvalidPaymentMethod
	}
	for _, m := range []valueobject.Money{d.DeliveryCharge, d.TaxAmount, d.Discount} {
		if m.IsNegative() {
			return shared.NewDomainError("INVALID_CHARGE", "Delivery, tax and discount cannot be negative")
		}
		if !m.IsZero() && m.Currency() != d.Currency {
			return ErrCurrencyMismatch
		}
	}
	rows := d.BillableItems()
	if len(rows) == 0 {
		return ErrNoBillableItems
	}
	for _, item := range rows {
		if item.UnitPrice.Currency() != d.Currency {
			return ErrCurrencyMismatch
		}
		if !item.LineDiscount.IsZero() && item.LineDiscount.Currency() != d.Currency {
			return ErrCurrencyMismatch
		}
	}
	return nil
}

// Clone returns a deep copy. Renderers work on clones so the caller's document is never touched.
func (d *Document) Clone() *Document {
	c := *d
	c.Items = make([]LineItem, len(d.Items))
	for i, item := range d.Items {
		c.Items[i] = item.clone()
	}
	if d.OrderID != nil {
		id := *d.OrderID
		c.OrderID = &id
	}
	return &c
}

func (d *Document) indexOf(id uuid.UUID) int {
	for i := range d.Items {
		if d.Items[i].ID == id {
			return i
		}
	}
	return -1
}

func (d *Document) parseAmount(value string) (valueobject.Money, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return valueobject.Money{}, err
	}
	return valueobject.NewMoney(amount, d.Currency)
}

// amount normalizes zero-value charges to the document currency
func (d *Document) amount(m valueobject.Money) valueobject.Money {
	if m.IsZero() {
		return valueobject.Zero(d.Currency)
	}
	return m
}

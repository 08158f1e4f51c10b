package memo

import "github.com/quickmemo/backend/internal/domain/shared"

// DocumentKind selects the total formula a document uses
type DocumentKind string

const (
	// DocumentKindCashMemo totals as subtotal + delivery - discount; tax is ignored
	DocumentKindCashMemo DocumentKind = "CASH_MEMO"
	// DocumentKindInvoice totals as subtotal + delivery + tax - discount
	DocumentKindInvoice DocumentKind = "INVOICE"
)

// IsValid checks if the kind is a valid DocumentKind
func (k DocumentKind) IsValid() bool {
	switch k {
	case DocumentKindCashMemo, DocumentKindInvoice:
		return true
	}
	return false
}

// String returns the string representation of DocumentKind
func (k DocumentKind) String() string {
	return string(k)
}

// IncludesTax reports whether the kind adds tax to the total
func (k DocumentKind) IncludesTax() bool {
	return k == DocumentKindInvoice
}

// DefaultTitle returns the heading printed when a template preset gives none
func (k DocumentKind) DefaultTitle() string {
	if k == DocumentKindCashMemo {
		return "CASH MEMO"
	}
	return "INVOICE"
}

// ItemSource records where a line item came from
type ItemSource string

const (
	ItemSourceManual   ItemSource = "MANUAL"
	ItemSourceCatalog  ItemSource = "CATALOG"
	ItemSourceSnapshot ItemSource = "SNAPSHOT"
)

// IsValid checks if the source is a valid ItemSource
func (s ItemSource) IsValid() bool {
	switch s {
	case ItemSourceManual, ItemSourceCatalog, ItemSourceSnapshot:
		return true
	}
	return false
}

// ItemField names an editable line item field
type ItemField string

const (
	ItemFieldName         ItemField = "name"
	ItemFieldQuantity     ItemField = "quantity"
	ItemFieldUnitPrice    ItemField = "unitPrice"
	ItemFieldLineDiscount ItemField = "lineDiscount"
)

// IsValid checks if the field is editable
func (f ItemField) IsValid() bool {
	switch f {
	case ItemFieldName, ItemFieldQuantity, ItemFieldUnitPrice, ItemFieldLineDiscount:
		return true
	}
	return false
}

// PaymentMethod is how the customer settles the document
type PaymentMethod string

const (
	PaymentMethodCOD  PaymentMethod = "cod"
	PaymentMethodPaid PaymentMethod = "paid"
)

// IsValid checks if the payment method is one of the two supported values
func (p PaymentMethod) IsValid() bool {
	switch p {
	case PaymentMethodCOD, PaymentMethodPaid:
		return true
	}
	return false
}

// String returns the string representation of PaymentMethod
func (p PaymentMethod) String() string {
	return string(p)
}

// ParsePaymentMethod validates a stored payment method value.
// Unknown values are rejected, never defaulted.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	p := PaymentMethod(s)
	if !p.IsValid() {
		return "", ErrInvalidPaymentMethod
	}
	return p, nil
}

// BadgeTone is the color family of the payment badge
type BadgeTone string

const (
	BadgeToneWarning BadgeTone = "warning"
	BadgeToneSuccess BadgeTone = "success"
)

// PaymentBadge is what renderers print for the payment method
type PaymentBadge struct {
	Label string    `json:"label"`
	Tone  BadgeTone `json:"tone"`
}

// Badge returns the badge for the payment method
func (p PaymentMethod) Badge() (PaymentBadge, error) {
	switch p {
	case PaymentMethodCOD:
		return PaymentBadge{Label: "Cash on Delivery", Tone: BadgeToneWarning}, nil
	case PaymentMethodPaid:
		return PaymentBadge{Label: "Already Paid", Tone: BadgeToneSuccess}, nil
	}
	return PaymentBadge{}, ErrInvalidPaymentMethod
}

// Domain errors raised by the memo package
var (
	ErrInvalidPaymentMethod      = shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method must be 'cod' or 'paid'")
	ErrInvalidVariantCombination = shared.NewDomainError("INVALID_VARIANT_COMBINATION", "Please select a valid variation combination")
	ErrLastItem                  = shared.NewDomainError("LAST_ITEM", "Cannot remove the last item")
	ErrItemNotFound              = shared.NewDomainError("ITEM_NOT_FOUND", "Line item not found")
	ErrSnapshotImmutable         = shared.NewDomainError("SNAPSHOT_IMMUTABLE", "Snapshot items cannot change name, price or discount")
	ErrCustomerNameRequired      = shared.NewDomainError("CUSTOMER_NAME_REQUIRED", "Customer name is required")
	ErrNoBillableItems           = shared.NewDomainError("NO_ITEMS", "At least one item with a name and a price is required")
	ErrCurrencyMismatch          = shared.NewDomainError("CURRENCY_MISMATCH", "Amount currency does not match the document currency")
	ErrInvalidMemoNumber         = shared.NewDomainError("INVALID_MEMO_NUMBER", "Memo number must be 6 digits")
)

package memo

import (
	"strings"

	"github.com/google/uuid"
	"github.com/quickmemo/backend/internal/domain/shared"
	"github.com/quickmemo/backend/internal/domain/shared/valueobject"
)

// LineItem is one row of a document. The line total is always derived.
type LineItem struct {
	ID           uuid.UUID
	Key          string // identity used to merge duplicate adds
	Source       ItemSource
	ProductID    *uuid.UUID
	VariantID    *uuid.UUID
	SKU          string
	Name         string
	Quantity     int
	UnitPrice    valueobject.Money
	LineDiscount valueobject.Money
}

// NewManualItem creates a user-typed row with no discount. A negative quantity is clamped to 0.
func NewManualItem(name string, quantity int, unitPrice valueobject.Money) (*LineItem, error) {
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	id := uuid.New()
	return &LineItem{
		ID:           id,
		Key:          "manual:" + id.String(),
		Source:       ItemSourceManual,
		Name:         name,
		Quantity:     max(quantity, 0),
		UnitPrice:    unitPrice,
		LineDiscount: valueobject.Zero(unitPrice.Currency()),
	}, nil
}

// NewCatalogItem resolves a catalog product (and its variant, if any) into a row
func NewCatalogItem(product CatalogProduct, selection map[string]string, quantity int, discount valueobject.Money) (*LineItem, error) {
	if product.ID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	productID := product.ID
	item := &LineItem{
		ID:        uuid.New(),
		Key:       "product:" + productID.String(),
		Source:    ItemSourceCatalog,
		ProductID: &productID,
		SKU:       product.SKU,
		Name:      product.Name,
		Quantity:  quantity,
		UnitPrice: product.Price,
	}

	if len(product.Variants) > 0 {
		variant, err := MatchVariant(product.Variants, selection)
		if err != nil {
			return nil, err
		}
		variantID := variant.ID
		item.VariantID = &variantID
		item.Key += ":" + variantID.String()
		item.Name = product.Name + " - " + variant.Label(selection)
		if variant.SKU != "" {
			item.SKU = variant.SKU
		}
		if variant.Price != nil {
			item.UnitPrice = *variant.Price
		}
	}

	if item.UnitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if err := item.setDiscount(discount); err != nil {
		return nil, err
	}
	return item, nil
}

// NewSnapshotItem creates a row from a placed order. Name, price and discount stay frozen.
func NewSnapshotItem(s OrderItemSnapshot) *LineItem {
	id := s.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	return &LineItem{
		ID:           id,
		Key:          "snapshot:" + id.String(),
		Source:       ItemSourceSnapshot,
		ProductID:    s.ProductID,
		Name:         s.NameSnapshot,
		Quantity:     s.Quantity,
		UnitPrice:    s.UnitPrice,
		LineDiscount: s.ItemDiscount,
	}
}

// LineTotal returns max(quantity, 0) * unitPrice - lineDiscount
func (i *LineItem) LineTotal() valueobject.Money {
	total, err := valueobject.LineTotal(i.Quantity, i.UnitPrice, i.discount())
	if err != nil {
		// setters keep price and discount in one currency
		panic(err)
	}
	return total
}

// IsBillable reports whether the row is rendered and summed:
// the name is non-empty, the quantity is positive and the unit price is positive.
func (i *LineItem) IsBillable() bool {
	return strings.TrimSpace(i.Name) != "" && i.Quantity > 0 && i.UnitPrice.IsPositive()
}

// SetName changes the display name
func (i *LineItem) SetName(name string) error {
	if i.Source == ItemSourceSnapshot {
		return ErrSnapshotImmutable
	}
	i.Name = name
	return nil
}

// SetQuantity changes the quantity, clamping negative input to 0
func (i *LineItem) SetQuantity(quantity int) error {
	i.Quantity = max(quantity, 0)
	return nil
}

// SetUnitPrice changes the unit price
func (i *LineItem) SetUnitPrice(price valueobject.Money) error {
	if i.Source == ItemSourceSnapshot {
		return ErrSnapshotImmutable
	}
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if price.Currency() != i.UnitPrice.Currency() {
		return ErrCurrencyMismatch
	}
	i.UnitPrice = price
	return nil
}

// SetLineDiscount changes the line discount. It is not capped at the gross amount.
func (i *LineItem) SetLineDiscount(discount valueobject.Money) error {
	if i.Source == ItemSourceSnapshot {
		return ErrSnapshotImmutable
	}
	return i.setDiscount(discount)
}

func (i *LineItem) setDiscount(discount valueobject.Money) error {
	if discount.IsNegative() {
		return shared.NewDomainError("INVALID_DISCOUNT", "Line discount cannot be negative")
	}
	if discount.Currency() != i.UnitPrice.Currency() {
		return ErrCurrencyMismatch
	}
	i.LineDiscount = discount
	return nil
}

func (i *LineItem) discount() valueobject.Money {
	if i.LineDiscount.IsZero() {
		return valueobject.Zero(i.UnitPrice.Currency())
	}
	return i.LineDiscount
}

func (i LineItem) clone() LineItem {
	c := i
	if i.ProductID != nil {
		id := *i.ProductID
		c.ProductID = &id
	}
	if i.VariantID != nil {
		id := *i.VariantID
		c.VariantID = &id
	}
	return c
}

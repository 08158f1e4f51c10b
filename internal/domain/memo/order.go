package memo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/quickmemo/backend/internal/domain/shared"
	"github.com/quickmemo/backend/internal/domain/shared/valueobject"
)

// OrderItemSnapshot is a line as recorded when the order was placed
type OrderItemSnapshot struct {
	ID           uuid.UUID
	ProductID    *uuid.UUID
	NameSnapshot string
	Quantity     int
	UnitPrice    valueobject.Money
	ItemDiscount valueobject.Money
	Subtotal     valueobject.Money
}

// OrderSnapshot is a placed order. Its figures never follow later catalog changes.
type OrderSnapshot struct {
	ID             uuid.UUID
	TenantID       uuid.UUID
	OrderNumber    string
	Currency       valueobject.Currency
	Customer       CustomerInfo
	Items          []OrderItemSnapshot
	DeliveryCharge valueobject.Money
	TaxAmount      valueobject.Money
	Discount       valueobject.Money
	PaymentMethod  PaymentMethod
	Notes          string
	CreatedAt      time.Time
}

// NewDocumentFromOrder builds an invoice document from the order snapshot alone
func NewDocumentFromOrder(order *OrderSnapshot, shop ShopProfile) (*Document, error) {
	if order == nil {
		return nil, shared.ErrNotFound
	}
	if len(order.Items) == 0 {
		return nil, shared.NewDomainError("ORDER_NO_ITEMS", "Order has no items")
	}

	doc, err := NewDocument(DocumentKindInvoice, order.Currency)
	if err != nil {
		return nil, err
	}
	doc.Shop = shop
	doc.Customer = order.Customer
	doc.Notes = order.Notes
	doc.IssuedAt = order.CreatedAt
	orderID := order.ID
	doc.OrderID = &orderID
	doc.OrderNumber = order.OrderNumber

	for _, s := range order.Items {
		if err := doc.AddItem(NewSnapshotItem(s)); err != nil {
			return nil, err
		}
	}
	if err := doc.SetCharges(doc.amount(order.DeliveryCharge), doc.amount(order.TaxAmount), doc.amount(order.Discount)); err != nil {
		return nil, err
	}
	if err := doc.SetPaymentMethod(order.PaymentMethod); err != nil {
		return nil, err
	}
	return doc, nil
}

// OrderRepository reads placed orders
type OrderRepository interface {
	// FindByID returns shared.ErrNotFound when the order does not exist for the tenant
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*OrderSnapshot, error)
	FindByOrderNumber(ctx context.Context, tenantID uuid.UUID, orderNumber string) (*OrderSnapshot, error)
	Save(ctx context.Context, order *OrderSnapshot) error
}

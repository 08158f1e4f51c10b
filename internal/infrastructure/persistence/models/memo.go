package models

import (
	"github.com/google/uuid"
	"github.com/quickmemo/backend/internal/domain/memo"
	"github.com/quickmemo/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// OrderModel is the GORM model for orders table
type OrderModel struct {
	TenantAggregateModel
	OrderNumber     string           `gorm:"column:order_number;type:varchar(50);not null;index"`
	Currency        string           `gorm:"type:varchar(3);not null;default:'BDT'"`
	CustomerName    string           `gorm:"column:customer_name;type:varchar(200);not null"`
	CustomerMobile  string           `gorm:"column:customer_mobile;type:varchar(30)"`
	CustomerAddress string           `gorm:"column:customer_address;type:text"`
	CustomerNote    string           `gorm:"column:customer_note;type:text"`
	DeliveryCharge  decimal.Decimal  `gorm:"column:delivery_charge;type:decimal(18,2);not null;default:0"`
	TaxAmount       decimal.Decimal  `gorm:"column:tax_amount;type:decimal(18,2);not null;default:0"`
	Discount        decimal.Decimal  `gorm:"type:decimal(18,2);not null;default:0"`
	PaymentMethod   string           `gorm:"column:payment_method;type:varchar(10);not null"`
	Notes           string           `gorm:"type:text"`
	Items           []OrderItemModel `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for OrderModel
func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel is the GORM model for order_items table
type OrderItemModel struct {
	BaseModel
	OrderID      uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index"`
	Position     int             `gorm:"not null;default:0"`
	ProductID    *uuid.UUID      `gorm:"column:product_id;type:uuid"`
	NameSnapshot string          `gorm:"column:name_snapshot;type:varchar(200);not null"`
	Quantity     int             `gorm:"not null"`
	UnitPrice    decimal.Decimal `gorm:"column:unit_price;type:decimal(18,2);not null"`
	ItemDiscount decimal.Decimal `gorm:"column:item_discount;type:decimal(18,2);not null;default:0"`
	Subtotal     decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for OrderItemModel
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts OrderModel to a domain order snapshot
func (m *OrderModel) ToDomain() *memo.OrderSnapshot {
	currency := valueobject.Currency(m.Currency)
	money := func(d decimal.Decimal) valueobject.Money {
		v, err := valueobject.NewMoney(d, currency)
		if err != nil {
			return valueobject.Zero(currency)
		}
		return v
	}

	items := make([]memo.OrderItemSnapshot, len(m.Items))
	for i, it := range m.Items {
		items[i] = memo.OrderItemSnapshot{
			ID:           it.ID,
			ProductID:    it.ProductID,
			NameSnapshot: it.NameSnapshot,
			Quantity:     it.Quantity,
			UnitPrice:    money(it.UnitPrice),
			ItemDiscount: money(it.ItemDiscount),
			Subtotal:     money(it.Subtotal),
		}
	}

	return &memo.OrderSnapshot{
		ID:          m.ID,
		TenantID:    m.TenantID,
		OrderNumber: m.OrderNumber,
		Currency:    currency,
		Customer: memo.CustomerInfo{
			Name:    m.CustomerName,
			Mobile:  m.CustomerMobile,
			Address: m.CustomerAddress,
			Note:    m.CustomerNote,
		},
		Items:          items,
		DeliveryCharge: money(m.DeliveryCharge),
		TaxAmount:      money(m.TaxAmount),
		Discount:       money(m.Discount),
		PaymentMethod:  memo.PaymentMethod(m.PaymentMethod),
		Notes:          m.Notes,
		CreatedAt:      m.CreatedAt,
	}
}

// OrderModelFromDomain creates an OrderModel from a domain order snapshot
func OrderModelFromDomain(o *memo.OrderSnapshot) *OrderModel {
	m := &OrderModel{
		OrderNumber:     o.OrderNumber,
		Currency:        string(o.Currency),
		CustomerName:    o.Customer.Name,
		CustomerMobile:  o.Customer.Mobile,
		CustomerAddress: o.Customer.Address,
		CustomerNote:    o.Customer.Note,
		DeliveryCharge:  o.DeliveryCharge.Amount(),
		TaxAmount:       o.TaxAmount.Amount(),
		Discount:        o.Discount.Amount(),
		PaymentMethod:   string(o.PaymentMethod),
		Notes:           o.Notes,
		Items:           make([]OrderItemModel, len(o.Items)),
	}
	m.ID = o.ID
	m.TenantID = o.TenantID
	m.CreatedAt = o.CreatedAt
	m.UpdatedAt = o.CreatedAt
	m.Version = 1

	for i, it := range o.Items {
		item := OrderItemModel{
			OrderID:      o.ID,
			Position:     i,
			ProductID:    it.ProductID,
			NameSnapshot: it.NameSnapshot,
			Quantity:     it.Quantity,
			UnitPrice:    it.UnitPrice.Amount(),
			ItemDiscount: it.ItemDiscount.Amount(),
			Subtotal:     it.Subtotal.Amount(),
		}
		item.ID = it.ID
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		item.CreatedAt = o.CreatedAt
		item.UpdatedAt = o.CreatedAt
		m.Items[i] = item
	}
	return m
}

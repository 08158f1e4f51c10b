package memo

import (
	"testing"

	"github.com/quickmemo/backend/internal/domain/shared"
	"github.com/quickmemo/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bdt(v int64) valueobject.Money {
	return valueobject.NewMoneyBDTFromInt(v)
}

func newTestDocument(t *testing.T, kind DocumentKind) *Document {
	t.Helper()
	doc, err := NewDocument(kind, valueobject.BDT)
	require.NoError(t, err)
	doc.Customer = CustomerInfo{Name: "Rahim", Mobile: "01700000000"}
	return doc
}

func addManual(t *testing.T, doc *Document, name string, qty int, price int64) *LineItem {
	t.Helper()
	item, err := NewManualItem(name, qty, bdt(price))
	require.NoError(t, err)
	require.NoError(t, doc.AddItem(item))
	return item
}

func TestNewDocument(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		doc, err := NewDocument(DocumentKindCashMemo, "")
		require.NoError(t, err)
		assert.Equal(t, valueobject.BDT, doc.Currency)
		assert.Equal(t, PaymentMethodCOD, doc.PaymentMethod)
		assert.Equal(t, "CASH MEMO", doc.Title)
		assert.Empty(t, doc.Items)
	})

	t.Run("rejects unknown kind", func(t *testing.T) {
		_, err := NewDocument("RECEIPT", valueobject.BDT)
		assert.True(t, shared.HasCode(err, "INVALID_DOCUMENT_KIND"))
	})

	t.Run("rejects unknown currency", func(t *testing.T) {
		_, err := NewDocument(DocumentKindInvoice, "XYZ")
		assert.True(t, shared.HasCode(err, "INVALID_CURRENCY"))
	})
}

func TestDocument_ShirtExample(t *testing.T) {
	doc := newTestDocument(t, DocumentKindCashMemo)
	addManual(t, doc, "Shirt", 2, 500)
	addManual(t, doc, "", 1, 300)
	require.NoError(t, doc.SetCharges(bdt(60), bdt(0), bdt(50)))

	totals := doc.ComputeTotals()
	assert.True(t, totals.Subtotal.Equals(bdt(1000)), "subtotal %s", totals.Subtotal)
	assert.True(t, totals.TotalAmount.Equals(bdt(1010)), "total %s", totals.TotalAmount)
	assert.Len(t, doc.BillableItems(), 1)
	assert.Equal(t, "Shirt", doc.BillableItems()[0].Name)
}

func TestDocument_OrderWithTaxExample(t *testing.T) {
	doc := newTestDocument(t, DocumentKindInvoice)
	item := addManual(t, doc, "Panjabi", 3, 200)
	require.NoError(t, doc.UpdateItem(item.ID, ItemFieldLineDiscount, "20"))
	require.NoError(t, doc.SetCharges(bdt(0), bdt(15), bdt(0)))

	row, ok := doc.Item(item.ID)
	require.True(t, ok)
	assert.True(t, row.LineTotal().Equals(bdt(580)))

	totals := doc.ComputeTotals()
	assert.True(t, totals.Subtotal.Equals(bdt(580)))
	assert.True(t, totals.TotalAmount.Equals(bdt(595)))
	assert.True(t, totals.TaxApplied)
}

func TestDocument_KindsAreNotInterchangeable(t *testing.T) {
	build := func(kind DocumentKind) Totals {
		doc := newTestDocument(t, kind)
		addManual(t, doc, "Saree", 1, 1000)
		require.NoError(t, doc.SetCharges(bdt(100), bdt(50), bdt(30)))
		return doc.ComputeTotals()
	}

	cash := build(DocumentKindCashMemo)
	invoice := build(DocumentKindInvoice)

	assert.True(t, cash.TotalAmount.Equals(bdt(1070)), "cash memo ignores tax")
	assert.True(t, invoice.TotalAmount.Equals(bdt(1120)), "invoice adds tax")
	assert.False(t, cash.TotalAmount.Equals(invoice.TotalAmount))
	assert.False(t, cash.TaxApplied)
	assert.True(t, cash.TaxAmount.IsZero())
}

func TestDocument_SubtotalFiltering(t *testing.T) {
	doc := newTestDocument(t, DocumentKindInvoice)
	addManual(t, doc, "Tea", 2, 50)
	addManual(t, doc, "Free sample", 3, 0)
	addManual(t, doc, "   ", 1, 99)
	addManual(t, doc, "Cake", 1, 400)

	rows := doc.BillableItems()
	require.Len(t, rows, 2)
	assert.Equal(t, "Tea", rows[0].Name)
	assert.Equal(t, "Cake", rows[1].Name)
	assert.True(t, doc.Subtotal().Equals(bdt(500)))
}

func TestDocument_ZeroQuantityRowIsExcluded(t *testing.T) {
	doc := newTestDocument(t, DocumentKindCashMemo)
	addManual(t, doc, "Shirt", 2, 500)
	capRow := addManual(t, doc, "Cap", 0, 100)
	require.NoError(t, doc.UpdateItem(capRow.ID, ItemFieldLineDiscount, "50"))

	assert.Len(t, doc.BillableItems(), 1)
	assert.True(t, doc.Subtotal().Equals(bdt(1000)), "got %s", doc.Subtotal())

	require.NoError(t, doc.UpdateItem(capRow.ID, ItemFieldQuantity, "-1"))
	row, _ := doc.Item(capRow.ID)
	assert.Equal(t, 0, row.Quantity)
	assert.True(t, doc.Subtotal().Equals(bdt(1000)))

	require.NoError(t, doc.UpdateItem(capRow.ID, ItemFieldQuantity, "1"))
	assert.Len(t, doc.BillableItems(), 2)
	assert.True(t, doc.Subtotal().Equals(bdt(1050)))
}

func TestDocument_LineTotalFollowsEveryUpdate(t *testing.T) {
	doc := newTestDocument(t, DocumentKindInvoice)
	item := addManual(t, doc, "Rice", 1, 80)

	steps := []struct {
		field ItemField
		value string
		want  string
	}{
		{ItemFieldQuantity, "5", "400"},
		{ItemFieldUnitPrice, "82.5", "412.5"},
		{ItemFieldLineDiscount, "12.5", "400"},
		{ItemFieldQuantity, "2", "152.5"},
		{ItemFieldName, "Miniket Rice", "152.5"},
	}
	for _, step := range steps {
		require.NoError(t, doc.UpdateItem(item.ID, step.field, step.value))
		row, _ := doc.Item(item.ID)
		assert.True(t, row.LineTotal().Amount().Equal(decimal.RequireFromString(step.want)),
			"after %s=%s got %s", step.field, step.value, row.LineTotal())
	}
}

func TestDocument_UpdateItemRejectsInvalidInput(t *testing.T) {
	doc := newTestDocument(t, DocumentKindInvoice)
	item := addManual(t, doc, "Rice", 1, 80)

	tests := []struct {
		field ItemField
		value string
		code  string
	}{
		{ItemFieldQuantity, "abc", "INVALID_QUANTITY"},
		{ItemFieldUnitPrice, "x", "INVALID_PRICE"},
		{ItemFieldUnitPrice, "-5", "INVALID_PRICE"},
		{ItemFieldLineDiscount, "-1", "INVALID_DISCOUNT"},
		{"color", "red", "INVALID_FIELD"},
	}
	for _, tt := range tests {
		t.Run(string(tt.field)+"="+tt.value, func(t *testing.T) {
			err := doc.UpdateItem(item.ID, tt.field, tt.value)
			assert.True(t, shared.HasCode(err, tt.code), "got %v", err)
		})
	}

	row, _ := doc.Item(item.ID)
	assert.True(t, row.LineTotal().Equals(bdt(80)), "rejected edits leave the row untouched")
}

func TestDocument_NegativeLineTotalIsAllowed(t *testing.T) {
	doc := newTestDocument(t, DocumentKindCashMemo)
	item := addManual(t, doc, "Voucher", 1, 100)
	require.NoError(t, doc.UpdateItem(item.ID, ItemFieldLineDiscount, "150"))

	row, _ := doc.Item(item.ID)
	assert.True(t, row.LineTotal().Equals(bdt(-50)))
	assert.True(t, doc.ComputeTotals().TotalAmount.Equals(bdt(-50)))
}

func TestDocument_AddItemMergesSameProduct(t *testing.T) {
	doc := newTestDocument(t, DocumentKindInvoice)
	product := CatalogProduct{ID: mustUUID(t), Name: "Mug", Price: bdt(250)}

	first, err := NewCatalogItem(product, nil, 1, bdt(10))
	require.NoError(t, err)
	require.NoError(t, doc.AddItem(first))

	second, err := NewCatalogItem(product, nil, 2, bdt(30))
	require.NoError(t, err)
	require.NoError(t, doc.AddItem(second))

	require.Len(t, doc.Items, 1)
	assert.Equal(t, 3, doc.Items[0].Quantity)
	assert.True(t, doc.Items[0].LineDiscount.Equals(bdt(30)), "discount is overwritten, not summed")
	assert.True(t, doc.Items[0].LineTotal().Equals(bdt(720)))

	// manual rows never merge
	addManual(t, doc, "Mug", 1, 250)
	addManual(t, doc, "Mug", 1, 250)
	assert.Len(t, doc.Items, 3)
}

func TestDocument_AddItemRejectsOtherCurrency(t *testing.T) {
	doc := newTestDocument(t, DocumentKindInvoice)
	usd, _ := valueobject.NewMoneyFromInt(5, valueobject.USD)
	item, err := NewManualItem("Pen", 1, usd)
	require.NoError(t, err)
	assert.ErrorIs(t, doc.AddItem(item), ErrCurrencyMismatch)
	assert.ErrorContains(t, doc.AddItem(nil), "nil")
}

func TestDocument_RemoveItem(t *testing.T) {
	doc := newTestDocument(t, DocumentKindCashMemo)
	a := addManual(t, doc, "A", 1, 10)
	b := addManual(t, doc, "B", 1, 20)

	require.NoError(t, doc.RemoveItem(a.ID))
	assert.Len(t, doc.Items, 1)

	assert.ErrorIs(t, doc.RemoveItem(b.ID), ErrLastItem)
	assert.Len(t, doc.Items, 1)

	assert.ErrorIs(t, doc.RemoveItem(a.ID), ErrItemNotFound)
}

func TestDocument_Validate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		doc := newTestDocument(t, DocumentKindInvoice)
		addManual(t, doc, "Shirt", 1, 500)
		assert.NoError(t, doc.Validate())
	})

	t.Run("missing customer name", func(t *testing.T) {
		doc := newTestDocument(t, DocumentKindInvoice)
		addManual(t, doc, "Shirt", 1, 500)
		doc.Customer.Name = "  "
		assert.ErrorIs(t, doc.Validate(), ErrCustomerNameRequired)
	})

	t.Run("no billable items", func(t *testing.T) {
		doc := newTestDocument(t, DocumentKindInvoice)
		addManual(t, doc, "", 1, 500)
		addManual(t, doc, "Gift", 1, 0)
		assert.ErrorIs(t, doc.Validate(), ErrNoBillableItems)
	})

	t.Run("unknown payment method", func(t *testing.T) {
		doc := newTestDocument(t, DocumentKindInvoice)
		addManual(t, doc, "Shirt", 1, 500)
		doc.PaymentMethod = "bkash"
		assert.ErrorIs(t, doc.Validate(), ErrInvalidPaymentMethod)
		assert.ErrorIs(t, doc.SetPaymentMethod("card"), ErrInvalidPaymentMethod)
	})

	t.Run("negative charge", func(t *testing.T) {
		doc := newTestDocument(t, DocumentKindInvoice)
		addManual(t, doc, "Shirt", 1, 500)
		assert.True(t, shared.HasCode(doc.SetCharges(bdt(-1), bdt(0), bdt(0)), "INVALID_CHARGE"))
		doc.Discount = bdt(-5)
		assert.True(t, shared.HasCode(doc.Validate(), "INVALID_CHARGE"))
	})
}

func TestDocument_CloneIsIndependent(t *testing.T) {
	doc := newTestDocument(t, DocumentKindInvoice)
	item := addManual(t, doc, "Shirt", 2, 500)

	clone := doc.Clone()
	require.NoError(t, clone.UpdateItem(item.ID, ItemFieldQuantity, "9"))
	clone.Customer.Name = "Karim"

	assert.Equal(t, 2, doc.Items[0].Quantity)
	assert.Equal(t, "Rahim", doc.Customer.Name)
	assert.True(t, doc.ComputeTotals().TotalAmount.Equals(bdt(1000)))
}

func TestDocument_ComputeTotalsIsRepeatable(t *testing.T) {
	doc := newTestDocument(t, DocumentKindInvoice)
	addManual(t, doc, "Shirt", 2, 500)
	require.NoError(t, doc.SetCharges(bdt(60), bdt(15), bdt(50)))

	first := doc.ComputeTotals()
	second := doc.ComputeTotals()
	assert.Equal(t, first, second)
}

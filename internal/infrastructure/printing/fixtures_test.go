package printing

import (
	"testing"
	"time"

	"github.com/quickmemo/backend/internal/domain/memo"
	"github.com/quickmemo/backend/internal/domain/printing"
	"github.com/quickmemo/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/require"
)

var testIssuedAt = time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC)

func bdt(v int64) valueobject.Money {
	return valueobject.NewMoneyBDTFromInt(v)
}

func testShop() memo.ShopProfile {
	return memo.ShopProfile{
		ShopName:    "Rahim Fashion",
		OwnerName:   "Rahim",
		Mobile:      "01711111111",
		Address:     "Mirpur 10, Dhaka",
		BkashNumber: "01822222222",
	}
}

func newTestDocument(t *testing.T, kind memo.DocumentKind) *memo.Document {
	t.Helper()
	doc, err := memo.NewDocument(kind, valueobject.BDT)
	require.NoError(t, err)
	doc.Shop = testShop()
	doc.Customer = memo.CustomerInfo{Name: "Karim", Mobile: "01900000000", Address: "Uttara, Dhaka"}
	doc.MemoNumber = "123456"
	doc.IssuedAt = testIssuedAt
	return doc
}

func addItem(t *testing.T, doc *memo.Document, name string, qty int, price int64) *memo.LineItem {
	t.Helper()
	item, err := memo.NewManualItem(name, qty, bdt(price))
	require.NoError(t, err)
	require.NoError(t, doc.AddItem(item))
	return item
}

// shirtDocument: one billable shirt, one blank row, delivery 60 and discount 50
func shirtDocument(t *testing.T) *memo.Document {
	t.Helper()
	doc := newTestDocument(t, memo.DocumentKindCashMemo)
	addItem(t, doc, "Shirt", 2, 500)
	addItem(t, doc, "", 1, 300)
	require.NoError(t, doc.SetCharges(bdt(60), bdt(0), bdt(50)))
	return doc
}

// orderDocument: three panjabis with a 20 line discount and 15 tax
func orderDocument(t *testing.T) *memo.Document {
	t.Helper()
	doc := newTestDocument(t, memo.DocumentKindInvoice)
	item := addItem(t, doc, "Panjabi", 3, 200)
	require.NoError(t, doc.UpdateItem(item.ID, memo.ItemFieldLineDiscount, "20"))
	require.NoError(t, doc.SetCharges(bdt(0), bdt(15), bdt(0)))
	require.NoError(t, doc.SetPaymentMethod(memo.PaymentMethodPaid))
	return doc
}

func buildTestView(t *testing.T, doc *memo.Document, cfg printing.TemplateConfig) *View {
	t.Helper()
	view, err := BuildView(doc, cfg)
	require.NoError(t, err)
	return view
}

func configFor(layout printing.LayoutType) printing.TemplateConfig {
	cfg := printing.DefaultTemplateConfig()
	cfg.LayoutType = layout
	return cfg
}

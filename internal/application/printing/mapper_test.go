package printing_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/quickmemo/backend/internal/application/printing"
	"github.com/quickmemo/backend/internal/domain/memo"
	"github.com/quickmemo/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentRequest_ToDocument(t *testing.T) {
	doc, err := shirtRequest().ToDocument()
	require.NoError(t, err)

	assert.Equal(t, memo.DocumentKindCashMemo, doc.Kind)
	assert.Len(t, doc.Items, 2)
	assert.Len(t, doc.BillableItems(), 1)
	assert.Equal(t, memo.PaymentMethodCOD, doc.PaymentMethod)
	assert.True(t, doc.MemoNumber.IsZero())

	totals := doc.ComputeTotals()
	assert.True(t, totals.Subtotal.Equals(bdt(1000)))
	assert.True(t, totals.TotalAmount.Equals(bdt(1010)))
}

func TestDocumentRequest_Defaults(t *testing.T) {
	req := shirtRequest()
	req.Kind = ""
	req.PaymentMethod = ""
	req.Currency = "bdt"

	doc, err := req.ToDocument()
	require.NoError(t, err)
	assert.Equal(t, memo.DocumentKindCashMemo, doc.Kind)
	assert.Equal(t, memo.PaymentMethodCOD, doc.PaymentMethod)
	assert.Equal(t, "BDT", string(doc.Currency))
}

func TestDocumentRequest_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		modify func(r *printing.DocumentRequest)
		code   string
	}{
		{"unknown payment method", func(r *printing.DocumentRequest) { r.PaymentMethod = "card" }, "INVALID_PAYMENT_METHOD"},
		{"bad memo number", func(r *printing.DocumentRequest) { r.MemoNumber = "12ab56" }, "INVALID_MEMO_NUMBER"},
		{"negative delivery", func(r *printing.DocumentRequest) { r.DeliveryCharge = decimal.NewFromInt(-1) }, "INVALID_CHARGE"},
		{"negative price", func(r *printing.DocumentRequest) { r.Items[0].UnitPrice = decimal.NewFromInt(-5) }, "INVALID_PRICE"},
		{"unknown kind", func(r *printing.DocumentRequest) { r.Kind = "RECEIPT" }, "INVALID_DOCUMENT_KIND"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := shirtRequest()
			tt.modify(req)
			_, err := req.ToDocument()
			assert.True(t, shared.HasCode(err, tt.code), "got %v", err)
		})
	}

	t.Run("nil request", func(t *testing.T) {
		var req *printing.DocumentRequest
		_, err := req.ToDocument()
		assert.True(t, shared.HasCode(err, "INVALID_INPUT"))
	})
}

func TestDocumentRequest_CatalogItems(t *testing.T) {
	redM := uuid.New()
	blueL := uuid.New()
	product := &printing.ProductRequest{
		ID:    uuid.New(),
		SKU:   "TS",
		Name:  "T-Shirt",
		Price: decimal.NewFromInt(400),
		Variants: []printing.VariantRequest{
			{ID: redM, SKU: "TS-R-M", Attributes: map[string][]string{"color": {"Red"}, "size": {"M"}}},
			{ID: blueL, SKU: "TS-B-L", Price: ptr(decimal.NewFromInt(450)), Attributes: map[string][]string{"color": {"Blue"}, "size": {"L"}}},
		},
	}

	t.Run("duplicate variant merges", func(t *testing.T) {
		req := shirtRequest()
		req.Items = []printing.ItemRequest{
			{Product: product, Selection: map[string]string{"color": "Blue", "size": "L"}, Quantity: 1},
			{Product: product, Selection: map[string]string{"color": "Blue", "size": "L"}, Quantity: 2, LineDiscount: decimal.NewFromInt(30)},
		}

		doc, err := req.ToDocument()
		require.NoError(t, err)
		require.Len(t, doc.Items, 1)
		assert.Equal(t, 3, doc.Items[0].Quantity)
		assert.True(t, doc.Items[0].LineDiscount.Equals(bdt(30)))
		assert.True(t, doc.Items[0].LineTotal().Equals(bdt(1320)))
	})

	t.Run("incomplete selection is rejected", func(t *testing.T) {
		req := shirtRequest()
		req.Items = []printing.ItemRequest{
			{Product: product, Selection: map[string]string{"color": "Red"}, Quantity: 1},
		}
		_, err := req.ToDocument()
		assert.True(t, shared.HasCode(err, "INVALID_VARIANT_COMBINATION"))
	})
}

func TestToTotalsResponse(t *testing.T) {
	doc, err := memo.NewDocumentFromOrder(testOrder(), testShop())
	require.NoError(t, err)

	resp := printing.ToTotalsResponse(doc)
	assert.Equal(t, "INVOICE", resp.Kind)
	assert.Equal(t, 1, resp.BillableItems)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "580", resp.Items[0].LineTotal.String())
	assert.Equal(t, "15", resp.TaxAmount.String())
	assert.Equal(t, "595", resp.Total.String())
	assert.True(t, resp.TaxApplied)
}

func TestToTotalsResponse_NegativeLine(t *testing.T) {
	req := shirtRequest()
	req.Items = append(req.Items, printing.ItemRequest{
		Name: "Returned scarf", Quantity: 1, UnitPrice: decimal.NewFromInt(100), LineDiscount: decimal.NewFromInt(150),
	})

	doc, err := req.ToDocument()
	require.NoError(t, err)

	resp := printing.ToTotalsResponse(doc)
	assert.Equal(t, "-50", resp.Items[2].LineTotal.String())
	assert.Equal(t, "950", resp.Subtotal.String())
}

func ptr[T any](v T) *T {
	return &v
}

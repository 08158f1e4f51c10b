package printing

import (
	"testing"

	"github.com/quickmemo/backend/internal/domain/memo"
	"github.com/quickmemo/backend/internal/domain/printing"
	"github.com/quickmemo/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildView_ShirtExample(t *testing.T) {
	view := buildTestView(t, shirtDocument(t), printing.DefaultTemplateConfig())

	require.Len(t, view.Rows, 1)
	assert.Equal(t, Row{
		Position:  1,
		Name:      "Shirt",
		Quantity:  2,
		UnitPrice: "500.00",
		LineTotal: "1,000.00",
	}, view.Rows[0])

	assert.Equal(t, []TotalLine{
		{Label: "Subtotal", Amount: "1,000.00"},
		{Label: "Delivery Charge", Amount: "60.00"},
		{Label: "Discount", Amount: "-50.00"},
		{Label: "Total", Amount: "1,010.00", Emphasis: true},
	}, view.TotalLines)

	assert.Equal(t, "CASH MEMO", view.Title)
	assert.Equal(t, "invoice-123456.pdf", view.FileName)
	assert.Equal(t, "01 Mar 2024", view.IssuedOn)
	assert.Equal(t, "৳", view.CurrencySymbol)
	assert.Equal(t, "Description", view.ItemsHeader)
	assert.Equal(t, "RF", view.ShopInitials)
}

func TestBuildView_OrderExample(t *testing.T) {
	view := buildTestView(t, orderDocument(t), printing.DefaultTemplateConfig())

	require.Len(t, view.Rows, 1)
	assert.Equal(t, "20.00", view.Rows[0].LineDiscount)
	assert.Equal(t, "580.00", view.Rows[0].LineTotal)

	assert.Equal(t, []TotalLine{
		{Label: "Subtotal", Amount: "580.00"},
		{Label: "Tax", Amount: "15.00"},
		{Label: "Total", Amount: "595.00", Emphasis: true},
	}, view.TotalLines)
	assert.True(t, view.Totals.TotalAmount.Equals(bdt(595)))
}

func TestBuildView_StripingFollowsRenderedRows(t *testing.T) {
	doc := newTestDocument(t, memo.DocumentKindCashMemo)
	addItem(t, doc, "Shirt", 1, 500)
	addItem(t, doc, "", 1, 100)
	addItem(t, doc, "Free gift", 1, 0)
	addItem(t, doc, "Pant", 1, 800)
	addItem(t, doc, "Belt", 1, 250)

	view := buildTestView(t, doc, printing.DefaultTemplateConfig())

	require.Len(t, view.Rows, 3)
	names := []string{view.Rows[0].Name, view.Rows[1].Name, view.Rows[2].Name}
	assert.Equal(t, []string{"Shirt", "Pant", "Belt"}, names)
	assert.Equal(t, []int{1, 2, 3}, []int{view.Rows[0].Position, view.Rows[1].Position, view.Rows[2].Position})
	assert.False(t, view.Rows[0].Striped)
	assert.True(t, view.Rows[1].Striped)
	assert.False(t, view.Rows[2].Striped)

	t.Run("non striped tables never stripe", func(t *testing.T) {
		cfg := printing.DefaultTemplateConfig()
		cfg.TableStyle = printing.TableStyleClean
		view := buildTestView(t, doc, cfg)
		for _, row := range view.Rows {
			assert.False(t, row.Striped)
		}
	})
}

func TestBuildView_NegativeLineTotal(t *testing.T) {
	doc := newTestDocument(t, memo.DocumentKindCashMemo)
	item := addItem(t, doc, "Returned scarf", 1, 100)
	require.NoError(t, doc.UpdateItem(item.ID, memo.ItemFieldLineDiscount, "150"))

	view := buildTestView(t, doc, printing.DefaultTemplateConfig())

	require.Len(t, view.Rows, 1)
	assert.True(t, view.Rows[0].Negative)
	assert.Equal(t, "-50.00", view.Rows[0].LineTotal)
	assert.Equal(t, "-50.00", view.TotalLines[len(view.TotalLines)-1].Amount)
}

func TestBuildView_PaymentBadge(t *testing.T) {
	t.Run("cash on delivery", func(t *testing.T) {
		view := buildTestView(t, shirtDocument(t), printing.DefaultTemplateConfig())
		assert.Equal(t, memo.PaymentBadge{Label: "Cash on Delivery", Tone: memo.BadgeToneWarning}, view.Badge)
		assert.Equal(t, printing.ColorWarningBackground, view.BadgeFill)
		assert.Equal(t, printing.ColorWarningText, view.BadgeText)
	})

	t.Run("already paid", func(t *testing.T) {
		view := buildTestView(t, orderDocument(t), printing.DefaultTemplateConfig())
		assert.Equal(t, memo.PaymentBadge{Label: "Already Paid", Tone: memo.BadgeToneSuccess}, view.Badge)
		assert.Equal(t, printing.ColorSuccessBackground, view.BadgeFill)
		assert.Equal(t, printing.ColorSuccessText, view.BadgeText)
	})

	t.Run("unknown method is rejected", func(t *testing.T) {
		doc := shirtDocument(t)
		doc.PaymentMethod = "card"
		_, err := BuildView(doc, printing.DefaultTemplateConfig())
		assert.True(t, shared.HasCode(err, "INVALID_PAYMENT_METHOD"))
	})
}

func TestBuildView_Sections(t *testing.T) {
	cfg := printing.DefaultTemplateConfig()
	cfg.ShowLogo = true
	cfg.ShowFooter = false
	cfg.ShowWatermark = false

	view := buildTestView(t, shirtDocument(t), cfg)
	assert.Equal(t, Sections{Logo: true}, view.Sections)
	assert.Empty(t, view.Attribution)

	view = buildTestView(t, shirtDocument(t), printing.DefaultTemplateConfig())
	assert.Equal(t, Sections{Footer: true, Watermark: true}, view.Sections)
	assert.Equal(t, "Thank you for shopping with us!  |  bKash: 01822222222  |  Call: 01711111111", view.FooterText)
	assert.Equal(t, "RAHIM FASHION", view.WatermarkText)
	assert.Equal(t, "Generated with QuickMemo", view.Attribution)
}

func TestBuildView_ShortensLongItemNames(t *testing.T) {
	doc := newTestDocument(t, memo.DocumentKindInvoice)
	long := "Premium Cotton Panjabi with Hand Embroidery, Size XL, Maroon Color"
	require.Len(t, []rune(long), 66)
	addItem(t, doc, long, 1, 1500)
	addItem(t, doc, "শাড়ি", 1, 2500)

	view := buildTestView(t, doc, printing.DefaultTemplateConfig())
	require.Len(t, view.Rows, 2)
	assert.Equal(t, "Premium Cotton Panjabi with Hand Embroidery, ...", view.Rows[0].Name)
	assert.Len(t, []rune(view.Rows[0].Name), 48)
	assert.Equal(t, "শাড়ি", view.Rows[1].Name)
}

func TestBuildView_WatermarkFallsBackToTitle(t *testing.T) {
	doc := shirtDocument(t)
	doc.Shop.ShopName = ""
	view := buildTestView(t, doc, printing.DefaultTemplateConfig())
	assert.Equal(t, "CASH MEMO", view.WatermarkText)
}

func TestBuildView_ConfigFallback(t *testing.T) {
	t.Run("invalid config uses defaults", func(t *testing.T) {
		cfg := printing.DefaultTemplateConfig()
		cfg.LayoutType = "fancy"
		cfg.PrimaryColor = "#10b981"

		view := buildTestView(t, shirtDocument(t), cfg)
		assert.Equal(t, printing.DefaultTemplateConfig(), view.Config)
		assert.Equal(t, printing.LayoutClassic, view.Style.Layout)
	})

	t.Run("empty config is normalized", func(t *testing.T) {
		view := buildTestView(t, shirtDocument(t), printing.TemplateConfig{})
		assert.Equal(t, printing.DefaultPrimaryColor, view.Config.PrimaryColor)
		assert.Equal(t, printing.LayoutClassic, view.Config.LayoutType)
	})

	t.Run("layout drives the style", func(t *testing.T) {
		view := buildTestView(t, shirtDocument(t), configFor(printing.LayoutModern))
		assert.Equal(t, printing.DefaultPrimaryColor, view.Style.HeaderBand)
	})
}

func TestBuildView_Rejects(t *testing.T) {
	t.Run("nil document", func(t *testing.T) {
		_, err := BuildView(nil, printing.DefaultTemplateConfig())
		var renderErr *RenderError
		require.ErrorAs(t, err, &renderErr)
		assert.Equal(t, ErrCodeInvalidView, renderErr.Code)
	})

	t.Run("missing memo number", func(t *testing.T) {
		doc := shirtDocument(t)
		doc.MemoNumber = ""
		_, err := BuildView(doc, printing.DefaultTemplateConfig())
		assert.True(t, shared.HasCode(err, "INVALID_MEMO_NUMBER"))
	})

	t.Run("missing customer name", func(t *testing.T) {
		doc := shirtDocument(t)
		doc.Customer.Name = "  "
		_, err := BuildView(doc, printing.DefaultTemplateConfig())
		assert.True(t, shared.HasCode(err, "CUSTOMER_NAME_REQUIRED"))
	})

	t.Run("no billable rows", func(t *testing.T) {
		doc := newTestDocument(t, memo.DocumentKindCashMemo)
		addItem(t, doc, "", 1, 100)
		_, err := BuildView(doc, printing.DefaultTemplateConfig())
		assert.True(t, shared.HasCode(err, "NO_ITEMS"))
	})
}

func TestBuildView_DoesNotMutateDocument(t *testing.T) {
	doc := shirtDocument(t)
	before := doc.Clone()

	_ = buildTestView(t, doc, configFor(printing.LayoutBold))

	assert.Equal(t, before, doc)
}

func TestView_WithPaper(t *testing.T) {
	view := buildTestView(t, shirtDocument(t), printing.DefaultTemplateConfig())
	assert.Equal(t, printing.PaperSizeA4, view.PaperSize)
	assert.Equal(t, printing.DefaultMargins(), view.Margins)

	view.WithPaper(printing.PaperSizeReceipt80MM, printing.ReceiptMargins())
	assert.Equal(t, printing.PaperSizeReceipt80MM, view.PaperSize)
	assert.Equal(t, printing.ReceiptMargins(), view.Margins)

	view.WithPaper("LETTER", printing.Margins{})
	assert.Equal(t, printing.PaperSizeReceipt80MM, view.PaperSize)
	assert.Equal(t, printing.ReceiptMargins(), view.Margins)
}

package printing

import (
	"strings"
	"time"

	"github.com/quickmemo/backend/internal/domain/memo"
	"github.com/quickmemo/backend/internal/domain/printing"
	"github.com/quickmemo/backend/internal/domain/shared"
	"github.com/quickmemo/backend/internal/domain/shared/valueobject"
)

const (
	defaultItemsHeader = "Description"
	attributionText    = "Generated with QuickMemo"
	// item names are shortened once here so both renderers print the same text
	maxRowNameRunes = 48
)

// Row is one rendered item row. Amounts are formatted without a currency symbol.
type Row struct {
	Position     int // 1-based among rendered rows
	Name         string
	Quantity     int
	UnitPrice    string
	LineDiscount string // empty when the row has no discount
	LineTotal    string
	Striped      bool
	Negative     bool
}

// TotalLine is one line of the totals block
type TotalLine struct {
	Label    string
	Amount   string
	Emphasis bool
}

// Sections records which optional blocks are drawn
type Sections struct {
	Logo      bool
	Footer    bool
	Watermark bool
}

// View is the single render model shared by the HTML and PDF renderers.
// Row filtering, striping, totals and the payment badge are decided here once.
type View struct {
	Kind           memo.DocumentKind
	Title          string
	ItemsHeader    string
	MemoNumber     memo.MemoNumber
	FileName       string
	IssuedAt       time.Time
	IssuedOn       string
	OrderNumber    string
	Shop           memo.ShopProfile
	ShopInitials   string
	Customer       memo.CustomerInfo
	Currency       valueobject.Currency
	CurrencySymbol string
	Rows           []Row
	Totals         memo.Totals
	TotalLines     []TotalLine
	Badge          memo.PaymentBadge
	BadgeFill      printing.Color
	BadgeText      printing.Color
	Notes          string
	FooterText     string
	WatermarkText  string
	Attribution    string // empty when the watermark is hidden
	Sections       Sections
	Config         printing.TemplateConfig
	Style          printing.Style
	PaperSize      printing.PaperSize
	Margins        printing.Margins
}

// BuildView validates the document and derives everything a renderer draws.
// An unusable config is replaced by the default config rather than failing.
func BuildView(doc *memo.Document, cfg printing.TemplateConfig) (*View, error) {
	if doc == nil {
		return nil, NewRenderError(ErrCodeInvalidView, "document is nil", nil)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	if doc.MemoNumber.IsZero() {
		return nil, shared.NewDomainError("INVALID_MEMO_NUMBER", "Memo number must be assigned before rendering")
	}
	badge, err := doc.PaymentMethod.Badge()
	if err != nil {
		return nil, err
	}

	cfg = cfg.Normalize()
	if cfg.Validate() != nil {
		cfg = printing.DefaultTemplateConfig()
	}
	style := printing.ResolveStyle(cfg)

	itemsHeader := strings.TrimSpace(doc.ItemsHeader)
	if itemsHeader == "" {
		itemsHeader = defaultItemsHeader
	}
	title := strings.TrimSpace(doc.Title)
	if title == "" {
		title = doc.Kind.DefaultTitle()
	}

	view := &View{
		Kind:           doc.Kind,
		Title:          title,
		ItemsHeader:    itemsHeader,
		MemoNumber:     doc.MemoNumber,
		FileName:       doc.MemoNumber.FileName(),
		IssuedAt:       doc.IssuedAt,
		IssuedOn:       formatDate(doc.IssuedAt),
		OrderNumber:    doc.OrderNumber,
		Shop:           doc.Shop,
		ShopInitials:   initials(doc.Shop.ShopName),
		Customer:       doc.Customer,
		Currency:       doc.Currency,
		CurrencySymbol: doc.Currency.Symbol(),
		Totals:         doc.ComputeTotals(),
		Badge:          badge,
		Notes:          strings.TrimSpace(doc.Notes),
		Config:         cfg,
		Style:          style,
		PaperSize:      printing.PaperSizeA4,
		Margins:        printing.DefaultMargins(),
		Sections: Sections{
			Logo:      cfg.ShowLogo,
			Footer:    cfg.ShowFooter,
			Watermark: cfg.ShowWatermark,
		},
	}

	view.Rows = buildRows(doc.BillableItems(), style.Striped)
	view.TotalLines = buildTotalLines(view.Totals)
	view.BadgeFill, view.BadgeText = badgeColors(badge.Tone)
	view.FooterText = footerText(doc.Shop)
	view.WatermarkText = upper(doc.Shop.ShopName)
	if view.WatermarkText == "" {
		view.WatermarkText = title
	}
	if cfg.ShowWatermark {
		view.Attribution = attributionText
	}

	return view, nil
}

// WithPaper sets the page size and margins of a template
func (v *View) WithPaper(size printing.PaperSize, margins printing.Margins) *View {
	if size.IsValid() {
		v.PaperSize = size
	}
	if !margins.IsZero() {
		v.Margins = margins
	}
	return v
}

func buildRows(items []memo.LineItem, striped bool) []Row {
	rows := make([]Row, 0, len(items))
	for idx, item := range items {
		total := item.LineTotal()
		row := Row{
			Position:  idx + 1,
			Name:      truncate(strings.TrimSpace(item.Name), maxRowNameRunes),
			Quantity:  item.Quantity,
			UnitPrice: formatAmount(item.UnitPrice.Amount()),
			LineTotal: formatAmount(total.Amount()),
			Striped:   striped && idx%2 == 1,
			Negative:  total.IsNegative(),
		}
		if !item.LineDiscount.IsZero() {
			row.LineDiscount = formatAmount(item.LineDiscount.Amount())
		}
		rows = append(rows, row)
	}
	return rows
}

func buildTotalLines(t memo.Totals) []TotalLine {
	lines := []TotalLine{{Label: "Subtotal", Amount: formatAmount(t.Subtotal.Amount())}}
	if !t.DeliveryCharge.IsZero() {
		lines = append(lines, TotalLine{Label: "Delivery Charge", Amount: formatAmount(t.DeliveryCharge.Amount())})
	}
	if t.TaxApplied {
		lines = append(lines, TotalLine{Label: "Tax", Amount: formatAmount(t.TaxAmount.Amount())})
	}
	if !t.Discount.IsZero() {
		lines = append(lines, TotalLine{Label: "Discount", Amount: formatAmount(t.Discount.Amount().Neg())})
	}
	return append(lines, TotalLine{Label: "Total", Amount: formatAmount(t.TotalAmount.Amount()), Emphasis: true})
}

func badgeColors(tone memo.BadgeTone) (fill, text printing.Color) {
	if tone == memo.BadgeToneSuccess {
		return printing.ColorSuccessBackground, printing.ColorSuccessText
	}
	return printing.ColorWarningBackground, printing.ColorWarningText
}

func footerText(shop memo.ShopProfile) string {
	parts := []string{"Thank you for shopping with us!"}
	if shop.BkashNumber != "" {
		parts = append(parts, "bKash: "+shop.BkashNumber)
	}
	if shop.Mobile != "" {
		parts = append(parts, "Call: "+shop.Mobile)
	}
	return strings.Join(parts, "  |  ")
}

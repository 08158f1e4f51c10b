package printing

import (
	"bytes"
	"context"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/quickmemo/backend/internal/domain/printing"
	"go.uber.org/zap"
)

const (
	pdfCreator  = "QuickMemo"
	mmPerPixel  = 0.2646
	lineHeight  = 6.0
	receiptBase = 110.0
)

// column widths as a share of the content width: #, name, qty, price, discount, total
var pdfColumns = []float64{0.07, 0.39, 0.1, 0.15, 0.13, 0.16}

// GofpdfConfig configures the native PDF renderer
type GofpdfConfig struct {
	// Compress enables stream compression. Tests disable it to inspect page text.
	Compress bool
	// FontPath and BoldFontPath replace the embedded DejaVu Sans Condensed faces
	FontPath     string
	BoldFontPath string
	Logger       *zap.Logger
}

// GofpdfRenderer draws a View straight to PDF without a browser.
// It reads the same Style tokens as the HTML template so both outputs agree on layout.
type GofpdfRenderer struct {
	config *GofpdfConfig
	face   *FontFace
	logger *zap.Logger
}

// NewGofpdfRenderer creates a native PDF renderer
func NewGofpdfRenderer(config *GofpdfConfig) (*GofpdfRenderer, error) {
	if config == nil {
		config = &GofpdfConfig{Compress: true}
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	face := DefaultFontFace()
	if config.FontPath != "" {
		var err error
		if face, err = LoadFontFace(config.FontPath, config.BoldFontPath); err != nil {
			return nil, NewRenderError(ErrCodeRenderFailed, "failed to load PDF font", err)
		}
		logger.Info("PDF font loaded", zap.String("path", config.FontPath))
	}
	return &GofpdfRenderer{config: config, face: face, logger: logger}, nil
}

// Render draws the view. Identical views produce identical bytes.
func (r *GofpdfRenderer) Render(ctx context.Context, view *View) (*RenderResult, error) {
	if view == nil {
		return nil, NewRenderError(ErrCodeInvalidView, "view is nil", nil)
	}
	if err := contextError(ctx, "PDF rendering"); err != nil {
		return nil, err
	}

	start := time.Now()
	doc := newPDFDoc(view, r.face, r.config.Compress)
	doc.draw()

	if err := contextError(ctx, "PDF rendering"); err != nil {
		return nil, err
	}
	if doc.pdf.Err() {
		return nil, NewRenderError(ErrCodeRenderFailed, "failed to draw PDF", doc.pdf.Error())
	}

	var buf bytes.Buffer
	if err := doc.pdf.Output(&buf); err != nil {
		return nil, NewRenderError(ErrCodeRenderFailed, "failed to write PDF", err)
	}

	duration := time.Since(start)
	r.logger.Debug("PDF drawn",
		zap.String("memo_number", view.MemoNumber.String()),
		zap.String("layout", view.Style.Layout.String()),
		zap.Int("rows", len(view.Rows)),
		zap.Duration("duration", duration),
	)

	return &RenderResult{
		PDFData:        buf.Bytes(),
		FileName:       view.FileName,
		PageCount:      doc.pdf.PageCount(),
		RenderDuration: duration,
	}, nil
}

// Close is a no-op; the native renderer holds no resources
func (r *GofpdfRenderer) Close() error {
	return nil
}

type pdfDoc struct {
	pdf      *gofpdf.Fpdf
	view     *View
	style    printing.Style
	left     float64
	right    float64
	width    float64
	pageH    float64
	scale    float64
	currency string
}

func newPDFDoc(view *View, face *FontFace, compress bool) *pdfDoc {
	w, h := view.PaperSize.Dimensions()
	pageW, pageH := float64(w), float64(h)
	scale := 1.0
	if view.PaperSize.IsReceipt() {
		scale = 0.75
		pageH = receiptBase + float64(len(view.Rows))*lineHeight + float64(len(view.TotalLines))*lineHeight
		for _, note := range []string{view.Notes, view.Customer.Note} {
			if note != "" {
				pageH += 2*lineHeight + float64(len(note)/40)*lineHeight
			}
		}
		if view.Attribution != "" {
			pageH += lineHeight
		}
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           gofpdf.SizeType{Wd: pageW, Ht: pageH},
	})
	m := view.Margins
	pdf.SetMargins(float64(m.Left), float64(m.Top), float64(m.Right))
	pdf.SetAutoPageBreak(true, float64(m.Bottom))
	pdf.SetCompression(compress)
	pdf.SetCatalogSort(true)

	created := view.IssuedAt
	if created.IsZero() {
		created = time.Unix(0, 0).UTC()
	}
	pdf.SetCreationDate(created)
	pdf.SetModificationDate(created)

	pdf.AddUTF8FontFromBytes(pdfFontFamily, "", face.regular)
	pdf.AddUTF8FontFromBytes(pdfFontFamily, "B", face.bold)
	pdf.SetTitle(view.Title+" #"+view.MemoNumber.String(), true)
	pdf.SetAuthor(view.Shop.ShopName, true)
	pdf.SetCreator(pdfCreator, false)

	// the code stands in for a symbol the font cannot draw
	currency := view.CurrencySymbol
	if currency == "" || !face.Covers(currency) {
		currency = string(view.Currency)
	}

	return &pdfDoc{
		pdf:      pdf,
		view:     view,
		style:    view.Style,
		left:     float64(m.Left),
		right:    pageW - float64(m.Right),
		width:    pageW - float64(m.Left) - float64(m.Right),
		pageH:    pageH,
		scale:    scale,
		currency: currency,
	}
}

func (d *pdfDoc) draw() {
	d.pdf.AddPage()
	d.drawOutline()
	if d.view.Sections.Watermark {
		d.drawWatermark()
	}
	d.drawHeader()
	d.drawParties()
	d.drawTable()
	d.drawTotals()
	d.drawNotes()
	if d.view.Sections.Footer {
		d.drawFooter()
	}
	if d.view.Attribution != "" {
		d.drawAttribution()
	}
}

func (d *pdfDoc) font(style string, size float64) {
	d.pdf.SetFont(pdfFontFamily, style, size*d.scale)
}

func (d *pdfDoc) fill(c printing.Color) {
	r, g, b := c.RGB()
	d.pdf.SetFillColor(r, g, b)
}

func (d *pdfDoc) text(c printing.Color) {
	r, g, b := c.RGB()
	d.pdf.SetTextColor(r, g, b)
}

func (d *pdfDoc) stroke(c printing.Color) {
	r, g, b := c.RGB()
	d.pdf.SetDrawColor(r, g, b)
}

func (d *pdfDoc) label(s string) string {
	if d.style.Tokens.LabelUppercase {
		return upper(s)
	}
	return s
}

func (d *pdfDoc) drawOutline() {
	if !d.style.Outlined {
		return
	}
	m := d.view.Margins
	d.stroke(printing.ColorNeutral)
	d.pdf.SetLineWidth(0.2)
	x, y := d.left-2, float64(m.Top)-2
	w, h := d.width+4, d.pageH-float64(m.Top)-float64(m.Bottom)+4
	if d.style.Radius > 0 {
		d.pdf.RoundedRect(x, y, w, h, d.style.Radius*mmPerPixel, "1234", "D")
		return
	}
	d.pdf.Rect(x, y, w, h, "D")
}

func (d *pdfDoc) drawWatermark() {
	cx := d.left + d.width/2
	cy := d.pageH * 0.45
	d.font("B", 48)
	d.text(d.style.Watermark)
	text := d.view.WatermarkText
	w := d.pdf.GetStringWidth(text)

	d.pdf.SetAlpha(0.35, "Normal")
	d.pdf.TransformBegin()
	d.pdf.TransformRotate(30, cx, cy)
	d.pdf.Text(cx-w/2, cy, text)
	d.pdf.TransformEnd()
	d.pdf.SetAlpha(1, "Normal")
}

func (d *pdfDoc) drawHeader() {
	tokens := d.style.Tokens
	top := d.pdf.GetY()
	bandH := 26.0
	if !tokens.SideBySide {
		bandH = 36
	}
	if d.view.Sections.Logo {
		bandH += 12
	}
	if d.style.HeaderBand != "" {
		d.fill(d.style.HeaderBand)
		d.pdf.Rect(d.left, top, d.width, bandH, "F")
	}

	pad := 0.0
	if d.style.HeaderBand != "" {
		pad = 4
	}
	x, y := d.left+pad, top+pad
	inner := d.width - 2*pad

	if d.view.Sections.Logo {
		d.drawLogo(x, y, inner, tokens.ShopNameAlign)
		y += 12
	}

	shopW, titleW := inner, inner
	titleY := y
	if tokens.SideBySide {
		shopW, titleW = inner*0.6, inner*0.4
	}

	d.text(d.style.HeaderText)
	d.font("B", 18)
	d.pdf.SetXY(x, y)
	d.pdf.CellFormat(shopW, 9*d.scale, d.view.Shop.ShopName, "", 2, cellAlign(tokens.ShopNameAlign), false, 0, "")
	d.font("", 9)
	for _, line := range []string{d.view.Shop.Address, d.view.Shop.Mobile} {
		if line == "" {
			continue
		}
		d.pdf.SetX(x)
		d.pdf.CellFormat(shopW, 4.5*d.scale, line, "", 2, cellAlign(tokens.ShopNameAlign), false, 0, "")
	}
	shopBottom := d.pdf.GetY()

	titleX := x
	if tokens.SideBySide {
		titleX = x + shopW
	} else {
		titleY = shopBottom + 2
	}
	d.pdf.SetXY(titleX, titleY)
	d.text(d.style.TitleColor)
	d.font("B", 16)
	d.pdf.CellFormat(titleW, 8*d.scale, d.view.Title, "", 2, cellAlign(tokens.TitleAlign), false, 0, "")
	d.text(d.style.HeaderText)
	d.font("", 9)
	meta := []string{"#" + d.view.MemoNumber.String(), d.view.IssuedOn}
	if d.view.OrderNumber != "" {
		meta = append(meta, "Order "+d.view.OrderNumber)
	}
	for _, line := range meta {
		if line == "" {
			continue
		}
		d.pdf.SetX(titleX)
		d.pdf.CellFormat(titleW, 4.5*d.scale, line, "", 2, cellAlign(tokens.TitleAlign), false, 0, "")
	}

	bottom := max(d.pdf.GetY(), shopBottom) + 3
	if d.style.HeaderBand != "" {
		bottom = max(bottom, top+bandH)
	}
	if d.style.HeaderRule != "" {
		d.stroke(d.style.HeaderRule)
		d.pdf.SetLineWidth(d.style.HeaderRuleWidth * mmPerPixel)
		d.pdf.Line(d.left, bottom, d.right, bottom)
	}
	d.pdf.SetXY(d.left, bottom+5)
}

func (d *pdfDoc) drawLogo(x, y, width float64, align printing.Align) {
	const r = 5.0
	cx := x + r
	switch align {
	case printing.AlignCenter:
		cx = x + width/2
	case printing.AlignRight:
		cx = x + width - r
	}
	d.fill(d.style.Accent)
	d.pdf.Circle(cx, y+r, r, "F")
	d.text(printing.ColorWhite)
	d.font("B", 10)
	d.pdf.SetXY(cx-r, y)
	d.pdf.CellFormat(2*r, 2*r, d.view.ShopInitials, "", 0, "CM", false, 0, "")
}

func (d *pdfDoc) drawParties() {
	half := d.width / 2
	top := d.pdf.GetY()
	labelSize := d.style.Tokens.LabelSize

	d.text(printing.ColorMuted)
	d.font("", labelSize)
	d.pdf.CellFormat(half, 5*d.scale, d.label("Bill To"), "", 0, "L", false, 0, "")
	d.pdf.CellFormat(half, 5*d.scale, d.label("Payment"), "", 1, "R", false, 0, "")

	d.text(printing.ColorInk)
	d.font("", 10)
	y := d.pdf.GetY()
	for _, line := range []string{d.view.Customer.Name, d.view.Customer.Mobile, d.view.Customer.Address} {
		if line == "" {
			continue
		}
		d.pdf.SetX(d.left)
		d.pdf.CellFormat(half, 5*d.scale, line, "", 2, "L", false, 0, "")
	}
	customerBottom := d.pdf.GetY()

	d.font("B", 9)
	badge := d.view.Badge.Label
	badgeW := d.pdf.GetStringWidth(badge) + 6
	d.fill(d.view.BadgeFill)
	d.text(d.view.BadgeText)
	d.pdf.SetXY(d.right-badgeW, y)
	d.pdf.CellFormat(badgeW, 6*d.scale, badge, "", 0, "C", true, 0, "")

	d.pdf.SetXY(d.left, max(customerBottom, y+6, top+12)+4)
}

func (d *pdfDoc) columns() []float64 {
	widths := make([]float64, len(pdfColumns))
	for i, share := range pdfColumns {
		widths[i] = d.width * share
	}
	return widths
}

func (d *pdfDoc) drawTable() {
	widths := d.columns()
	h := 7 * d.scale
	headers := []string{
		"#",
		d.view.ItemsHeader,
		"Qty",
		"Price (" + d.currency + ")",
		"Discount",
		"Total (" + d.currency + ")",
	}
	aligns := []string{"L", "L", "R", "R", "R", "R"}

	d.fill(d.style.TableHeaderFill)
	d.text(d.style.TableHeaderText)
	d.font("B", 9)
	for i, title := range headers {
		d.pdf.CellFormat(widths[i], h, title, "", 0, aligns[i], true, 0, "")
	}
	d.pdf.Ln(-1)

	border := "B"
	if d.style.CellBorders {
		border = "1"
	}
	d.stroke(printing.ColorNeutral)
	d.pdf.SetLineWidth(0.2)
	d.font("", 9)
	for _, row := range d.view.Rows {
		d.fill(d.style.StripeFill)
		cells := []string{
			strconv.Itoa(row.Position),
			row.Name,
			strconv.Itoa(row.Quantity),
			row.UnitPrice,
			row.LineDiscount,
			row.LineTotal,
		}
		for i, cell := range cells {
			d.text(printing.ColorInk)
			if i == len(cells)-1 && row.Negative {
				d.text(printing.ColorWarningText)
			}
			d.pdf.CellFormat(widths[i], h, cell, border, 0, aligns[i], row.Striped, 0, "")
		}
		d.pdf.Ln(-1)
	}
}

func (d *pdfDoc) drawTotals() {
	blockW := d.width * 0.45
	x := d.right - blockW
	d.pdf.Ln(3)
	for _, line := range d.view.TotalLines {
		d.text(printing.ColorInk)
		d.font("", 10)
		if line.Emphasis {
			d.stroke(d.style.Secondary)
			d.pdf.SetLineWidth(2 * mmPerPixel)
			y := d.pdf.GetY() + 1
			d.pdf.Line(x, y, d.right, y)
			d.pdf.Ln(2)
			d.font("B", 12)
		}
		d.pdf.SetX(x)
		d.pdf.CellFormat(blockW/2, lineHeight*d.scale, line.Label, "", 0, "L", false, 0, "")
		d.pdf.CellFormat(blockW/2, lineHeight*d.scale, withSymbol(d.amountPrefix(), line.Amount), "", 1, "R", false, 0, "")
	}
}

func (d *pdfDoc) drawNotes() {
	for _, note := range []struct{ title, body string }{
		{"Notes", d.view.Notes},
		{"Customer Note", d.view.Customer.Note},
	} {
		if note.body == "" {
			continue
		}
		d.pdf.Ln(4)
		d.text(printing.ColorMuted)
		d.font("", d.style.Tokens.LabelSize)
		d.pdf.CellFormat(d.width, 5*d.scale, d.label(note.title), "", 1, "L", false, 0, "")
		d.text(printing.ColorInk)
		d.font("", 9)
		d.pdf.MultiCell(d.width, 4.5*d.scale, note.body, "", "L", false)
	}
}

func (d *pdfDoc) drawFooter() {
	d.pdf.Ln(8)
	y := d.pdf.GetY()
	d.stroke(printing.ColorNeutral)
	d.pdf.SetLineWidth(0.2)
	d.pdf.Line(d.left, y, d.right, y)
	d.pdf.Ln(2)
	d.text(d.style.Secondary)
	d.font("", 9)
	d.pdf.CellFormat(d.width, 5*d.scale, d.view.FooterText, "", 1, "C", false, 0, "")
}

func (d *pdfDoc) drawAttribution() {
	d.pdf.Ln(2)
	d.text(printing.ColorMuted)
	d.font("", 7)
	d.pdf.CellFormat(d.width, 4*d.scale, d.view.Attribution, "", 1, "C", false, 0, "")
}

// amountPrefix is the symbol as the preview shows it, or the code followed by a space
func (d *pdfDoc) amountPrefix() string {
	if d.currency == string(d.view.Currency) {
		return d.currency + " "
	}
	return d.currency
}

func cellAlign(a printing.Align) string {
	switch a {
	case printing.AlignCenter:
		return "C"
	case printing.AlignRight:
		return "R"
	}
	return "L"
}

package printing

import (
	"github.com/quickmemo/backend/internal/domain/memo"
	"github.com/quickmemo/backend/internal/domain/printing"
	"github.com/quickmemo/backend/internal/domain/shared/valueobject"
)

// NewDocumentFromPreset starts a document pre-filled with a template's starter content
func NewDocumentFromPreset(kind memo.DocumentKind, preset printing.TemplatePreset, shop memo.ShopProfile, currency valueobject.Currency) (*memo.Document, error) {
	doc, err := memo.NewDocument(kind, currency)
	if err != nil {
		return nil, err
	}
	doc.Shop = shop
	if preset.InvoiceTitle != "" {
		doc.Title = preset.InvoiceTitle
	}
	doc.ItemsHeader = preset.ItemsHeader
	doc.Notes = preset.DefaultNotes

	for _, p := range preset.DefaultItems {
		price, err := valueobject.NewMoney(p.UnitPrice, doc.Currency)
		if err != nil {
			return nil, err
		}
		item, err := memo.NewManualItem(p.Name, max(p.Quantity, 0), price)
		if err != nil {
			return nil, err
		}
		if err := doc.AddItem(item); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

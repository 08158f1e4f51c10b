package memo

import (
	"slices"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/quickmemo/backend/internal/domain/shared/valueobject"
)

// CatalogProduct is a seller's product as offered for adding to an order
type CatalogProduct struct {
	ID       uuid.UUID
	SKU      string
	Name     string
	Price    valueobject.Money
	Variants []Variant
}

// Variant is a concrete SKU of a product. Attributes maps each attribute
// name the variant declares to the values it supports.
type Variant struct {
	ID         uuid.UUID
	SKU        string
	Name       string
	Price      *valueobject.Money
	Attributes map[string][]string
}

// Matches reports whether the selection identifies this variant: every attribute the
// variant declares has a selected value, and every selected value is supported.
func (v Variant) Matches(selection map[string]string) bool {
	for name := range v.Attributes {
		if selection[name] == "" {
			return false
		}
	}
	for name, value := range selection {
		supported, ok := v.Attributes[name]
		if !ok || !slices.Contains(supported, value) {
			return false
		}
	}
	return true
}

// Label is the display suffix for the variant, e.g. "L / Red"
func (v Variant) Label(selection map[string]string) string {
	if v.Name != "" {
		return v.Name
	}
	names := make([]string, 0, len(selection))
	for name := range selection {
		names = append(names, name)
	}
	sort.Strings(names)

	values := make([]string, 0, len(names))
	for _, name := range names {
		values = append(values, selection[name])
	}
	return strings.Join(values, " / ")
}

// MatchVariant returns the single candidate the selection identifies.
// No match or more than one match is rejected; the first candidate is never assumed.
func MatchVariant(candidates []Variant, selection map[string]string) (*Variant, error) {
	var matched []Variant
	for _, c := range candidates {
		if c.Matches(selection) {
			matched = append(matched, c)
		}
	}
	if len(matched) != 1 {
		return nil, ErrInvalidVariantCombination
	}
	return &matched[0], nil
}

package printing

import "github.com/quickmemo/backend/internal/domain/shared"

// maxMarginMM keeps a printable area on the 80mm receipt roll
const maxMarginMM = 30

// Margins is the blank border around a printed memo, in millimeters
type Margins struct {
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
	Left   int `json:"left"`
}

// NewMargins validates a border read from storage or a request
func NewMargins(top, right, bottom, left int) (Margins, error) {
	for _, v := range []int{top, right, bottom, left} {
		if v < 0 {
			return Margins{}, shared.NewDomainError("INVALID_MARGINS", "Margins cannot be negative")
		}
		if v > maxMarginMM {
			return Margins{}, shared.NewDomainError("INVALID_MARGINS", "Margins cannot exceed 30mm")
		}
	}
	return Margins{Top: top, Right: right, Bottom: bottom, Left: left}, nil
}

// DefaultMargins is the border for A4 and A5 sheets
func DefaultMargins() Margins {
	return Margins{Top: 10, Right: 10, Bottom: 10, Left: 10}
}

// ReceiptMargins is the narrow border for thermal receipt rolls
func ReceiptMargins() Margins {
	return Margins{Top: 2, Right: 2, Bottom: 2, Left: 2}
}

// MarginsFor returns the stock border for a paper size
func MarginsFor(size PaperSize) Margins {
	if size.IsReceipt() {
		return ReceiptMargins()
	}
	return DefaultMargins()
}

// IsZero reports an unset border; renderers keep their own margins then
func (m Margins) IsZero() bool {
	return m == Margins{}
}

package memo

import (
	"fmt"
	"strconv"
	"time"
)

// ShopProfile is the seller identity printed on every document.
// It is owned by the caller; the engine only reads it.
type ShopProfile struct {
	ShopName    string `json:"shopName"`
	OwnerName   string `json:"ownerName"`
	Mobile      string `json:"mobile"`
	Address     string `json:"address,omitempty"`
	LogoURL     string `json:"logoUrl,omitempty"`
	BkashNumber string `json:"bkashNumber,omitempty"`
	Theme       string `json:"theme,omitempty"`
}

// CustomerInfo is the free-form bill-to block
type CustomerInfo struct {
	Name    string `json:"name"`
	Mobile  string `json:"mobile"`
	Address string `json:"address"`
	Note    string `json:"note"`
}

// MemoNumber is the 6-digit number printed on a document and used in its file name
type MemoNumber string

// NewMemoNumber takes the last six digits of the Unix millisecond timestamp
func NewMemoNumber(t time.Time) MemoNumber {
	return MemoNumber(fmt.Sprintf("%06d", t.UnixMilli()%1_000_000))
}

// ParseMemoNumber validates a memo number received from a caller
func ParseMemoNumber(s string) (MemoNumber, error) {
	if len(s) != 6 {
		return "", ErrInvalidMemoNumber
	}
	if _, err := strconv.ParseUint(s, 10, 32); err != nil {
		return "", ErrInvalidMemoNumber
	}
	return MemoNumber(s), nil
}

// IsZero reports whether no number has been assigned
func (m MemoNumber) IsZero() bool {
	return m == ""
}

// String returns the string representation of MemoNumber
func (m MemoNumber) String() string {
	return string(m)
}

// FileName returns the download name of the PDF for this memo
func (m MemoNumber) FileName() string {
	return "invoice-" + string(m) + ".pdf"
}

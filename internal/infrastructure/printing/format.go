package printing

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var upperCaser = cases.Upper(language.English)

// formatAmount formats a decimal with thousand separators and two places
// Example: -1234.5 -> "-1,234.50"
func formatAmount(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}

	parts := strings.Split(d.StringFixed(2), ".")
	intPart := parts[0]
	decPart := "00"
	if len(parts) > 1 {
		decPart = parts[1]
	}

	var result strings.Builder
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			result.WriteRune(',')
		}
		result.WriteRune(c)
	}

	return sign + result.String() + "." + decPart
}

// withSymbol places a currency label in front of a formatted amount, after any sign
func withSymbol(symbol, amount string) string {
	if rest, ok := strings.CutPrefix(amount, "-"); ok {
		return "-" + symbol + rest
	}
	return symbol + amount
}

// formatDate formats a time value as date string
// Example: 2024-03-01 -> "01 Mar 2024"
func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02 Jan 2006")
}

// upper converts a label to upper case using Unicode rules
func upper(s string) string {
	return upperCaser.String(s)
}

// truncate truncates a string to max runes with a trailing ellipsis
func truncate(s string, max int) string {
	const suffix = "..."
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= len(suffix) {
		return string(runes[:max])
	}
	return string(runes[:max-len(suffix)]) + suffix
}

// initials returns up to two leading letters of a shop name for the logo placeholder
func initials(name string) string {
	var out []rune
	for _, word := range strings.Fields(name) {
		for _, r := range word {
			out = append(out, r)
			break
		}
		if len(out) == 2 {
			break
		}
	}
	return upper(string(out))
}

package currency

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Symbol is the Philippine Peso sign used on every monetary figure the UI shows.
const Symbol = "₱"

// Format renders an amount as "₱ 1,234.56". Amounts are always shown with two
// fractional digits; grouping uses comma separators.
func Format(amount decimal.Decimal) string {
	return Symbol + " " + group(amount.StringFixed(2))
}

// group inserts thousands separators into the integer part of a fixed-point
// decimal string.
func group(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	intPart, fracPart, _ := strings.Cut(s, ".")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}
	if fracPart != "" {
		b.WriteByte('.')
		b.WriteString(fracPart)
	}
	return b.String()
}

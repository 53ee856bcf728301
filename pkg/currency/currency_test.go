package currency

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0", "₱ 0.00"},
		{"5", "₱ 5.00"},
		{"26.5", "₱ 26.50"},
		{"999.99", "₱ 999.99"},
		{"1000", "₱ 1,000.00"},
		{"1234.56", "₱ 1,234.56"},
		{"1234567.89", "₱ 1,234,567.89"},
		{"-1500", "₱ -1,500.00"},
		{"0.005", "₱ 0.01"},
	}
	for _, tc := range cases {
		got := Format(decimal.RequireFromString(tc.in))
		assert.Equal(t, tc.want, got, "input %s", tc.in)
	}
}

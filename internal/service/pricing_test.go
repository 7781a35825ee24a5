package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestDiscount(t *testing.T) {
	tests := []struct {
		name       string
		subtotal   string
		percentOff string
		want       string
	}{
		{"ten percent", "1000000", "10", "100000"},
		{"rounds to cent", "99.99", "33", "33.00"},
		{"full discount", "500", "100", "500"},
		{"zero subtotal", "0", "50", "0"},
		{"fractional percent", "200", "12.5", "25"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Discount(decimal.RequireFromString(tt.subtotal), decimal.RequireFromString(tt.percentOff))
			requireDecimal(t, tt.want, got)
		})
	}
}

func TestDiscountNeverExceedsSubtotal(t *testing.T) {
	subtotals := []string{"0", "0.01", "1", "99.99", "1000000", "123456.78"}
	percents := []string{"0.01", "1", "10", "50", "99.99", "100"}

	for _, s := range subtotals {
		for _, p := range percents {
			subtotal := decimal.RequireFromString(s)
			got := Discount(subtotal, decimal.RequireFromString(p))
			require.True(t, got.LessThanOrEqual(subtotal), "discount %s exceeds subtotal %s (percent %s)", got, s, p)
			require.False(t, got.IsNegative())
		}
	}
}

func TestTax(t *testing.T) {
	rate := decimal.RequireFromString("0.10")

	requireDecimal(t, "100000", Tax(decimal.RequireFromString("1000000"), rate))
	requireDecimal(t, "10.00", Tax(decimal.RequireFromString("99.99"), rate))
}

func TestGrandTotalIdentity(t *testing.T) {
	subtotal := decimal.RequireFromString("1000000")
	discount := Discount(subtotal, decimal.RequireFromString("10"))
	tax := Tax(subtotal, decimal.RequireFromString("0.10"))
	shipping := decimal.NewFromInt(30000)

	requireDecimal(t, "1030000", GrandTotal(subtotal, discount, tax, shipping))
}

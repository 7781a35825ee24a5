package service

import "github.com/shopspring/decimal"

var oneHundred = decimal.NewFromInt(100)

// Discount computes a percentage-off discount rounded to the cent, clamped so
// it never exceeds the subtotal. Pure: safe to call for previews and during
// the checkout transaction alike.
func Discount(subtotal, percentOff decimal.Decimal) decimal.Decimal {
	discount := subtotal.Mul(percentOff).Div(oneHundred).Round(2)
	if discount.GreaterThan(subtotal) {
		return subtotal
	}
	return discount
}

// Tax is a flat rate applied to the pre-discount subtotal, rounded to the
// cent. Coupons reduce what the customer pays, not the taxable amount.
func Tax(subtotal, rate decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(rate).Round(2)
}

// GrandTotal is subtotal minus discount, plus tax and shipping.
func GrandTotal(subtotal, discount, tax, shipping decimal.Decimal) decimal.Decimal {
	return subtotal.Sub(discount).Add(tax).Add(shipping)
}

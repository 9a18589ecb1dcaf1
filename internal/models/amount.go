package models

import "github.com/shopspring/decimal"

// AmountScale is the number of decimal places stored for monetary columns.
const AmountScale = 2

// IsCents reports whether d fits the stored scale without rounding.
func IsCents(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(AmountScale))
}

// Package money formats decimal amounts for display in the configured
// currency.
package money

import (
	"strings"

	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is used when no currency is configured.
const DefaultCurrency = gomoney.USD

// Valid reports whether code is a known ISO 4217 currency.
func Valid(code string) bool {
	return gomoney.GetCurrency(strings.ToUpper(code)) != nil
}

// Format renders amount with the currency's symbol, grouping and minor
// units, rounding half away from zero. Unknown codes fall back to
// DefaultCurrency.
func Format(amount decimal.Decimal, code string) string {
	code = strings.ToUpper(code)
	if !Valid(code) {
		code = DefaultCurrency
	}
	cur := gomoney.GetCurrency(code)
	minor := amount.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(minor.IntPart())
}

// Formatter binds Format to one currency.
type Formatter struct {
	Currency string
}

// Format renders amount in f's currency.
func (f Formatter) Format(amount decimal.Decimal) string {
	return Format(amount, f.Currency)
}

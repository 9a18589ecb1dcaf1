package money

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		amount   string
		currency string
		want     string
	}{
		{"1234.5", "USD", "$1,234.50"},
		{"0", "USD", "$0.00"},
		{"19.999", "USD", "$20.00"},
		{"-5", "usd", "-$5.00"},
		{"1200", "JPY", "¥1,200"},
		{"42", "NOPE", "$42.00"},
	}

	for _, tt := range tests {
		t.Run(tt.currency+"_"+tt.amount, func(t *testing.T) {
			got := Format(decimal.RequireFromString(tt.amount), tt.currency)
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestValid(t *testing.T) {
	if !Valid("EUR") || !Valid("eur") {
		t.Error("expected EUR to be valid")
	}
	if Valid("XYZ1") {
		t.Error("expected XYZ1 to be invalid")
	}
}

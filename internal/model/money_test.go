package model

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		name     string
		amount   decimal.Decimal
		currency string
		want     string
	}{
		{"whole number", decimal.NewFromInt(149), "EGP", "EGP 149.00"},
		{"with cents", decimal.RequireFromString("123.45"), "EGP", "EGP 123.45"},
		{"zero", decimal.Zero, "EGP", "EGP 0.00"},
		{"thousands", decimal.NewFromInt(1299), "EGP", "EGP 1,299.00"},
		{"millions", decimal.RequireFromString("1234567.8"), "USD", "USD 1,234,567.80"},
		{"exact three digits", decimal.NewFromInt(999), "EGP", "EGP 999.00"},
		{"six digits", decimal.NewFromInt(100000), "EGP", "EGP 100,000.00"},
		{"rounds half up", decimal.RequireFromString("0.005"), "EGP", "EGP 0.01"},
		{"negative", decimal.NewFromInt(-1500), "EGP", "EGP -1,500.00"},
		{"default currency", decimal.NewFromInt(5), "", "EGP 5.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatPrice(tt.amount, tt.currency)
			if got != tt.want {
				t.Errorf("FormatPrice(%s, %q) = %q, want %q", tt.amount, tt.currency, got, tt.want)
			}
		})
	}
}

func TestCartLineSubtotal(t *testing.T) {
	line := CartLine{Count: 3, Price: decimal.RequireFromString("19.99")}
	want := decimal.RequireFromString("59.97")
	if !line.Subtotal().Equal(want) {
		t.Errorf("Subtotal() = %s, want %s", line.Subtotal(), want)
	}
}

func TestProductEffectivePrice(t *testing.T) {
	discount := decimal.NewFromInt(80)
	zero := decimal.Zero

	tests := []struct {
		name string
		p    Product
		want decimal.Decimal
	}{
		{"no discount", Product{Price: decimal.NewFromInt(100)}, decimal.NewFromInt(100)},
		{"discounted", Product{Price: decimal.NewFromInt(100), PriceAfterDiscount: &discount}, discount},
		{"zero discount ignored", Product{Price: decimal.NewFromInt(100), PriceAfterDiscount: &zero}, decimal.NewFromInt(100)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.EffectivePrice(); !got.Equal(tt.want) {
				t.Errorf("EffectivePrice() = %s, want %s", got, tt.want)
			}
		})
	}
}

package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is the ISO code the commerce API prices in.
const DefaultCurrency = "EGP"

// FormatPrice renders an amount with thousands separators and two decimals,
// prefixed by the currency code.
// Examples: 149 → "EGP 149.00", 1234.5 → "EGP 1,234.50", -10 → "EGP -10.00"
func FormatPrice(amount decimal.Decimal, currency string) string {
	if currency == "" {
		currency = DefaultCurrency
	}

	fixed := amount.StringFixed(2)
	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign = "-"
		fixed = fixed[1:]
	}

	whole, frac, _ := strings.Cut(fixed, ".")
	return currency + " " + sign + groupThousands(whole) + "." + frac
}

// groupThousands inserts commas every three digits from the right.
func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

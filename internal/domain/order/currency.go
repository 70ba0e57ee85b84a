package order

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CurrencyFormat describes how the order's currency renders amounts: symbol,
// separators, decimal places and symbol location. It mirrors the upstream
// store's currency descriptor.
type CurrencyFormat struct {
	CurrencyLocation string `json:"currency_location"` // "left" or "right"
	CurrencyToken    string `json:"currency_token"`
	DecimalToken     string `json:"decimal_token"`
	DecimalPlaces    int    `json:"decimal_places"`
	ThousandsToken   string `json:"thousands_token"`
}

// decimalToken returns the configured decimal separator, defaulting to ".".
func (f CurrencyFormat) decimalToken() string {
	if f.DecimalToken == "" {
		return "."
	}
	return f.DecimalToken
}

// Format renders an amount string for display. Unparsable input renders as
// zero; Format never fails and never panics. Calling it twice with the same
// input yields identical output.
func (f CurrencyFormat) Format(amount string) string {
	d, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		d = decimal.Zero
	}
	return f.FormatDecimal(d)
}

// FormatDecimal renders a decimal amount for display according to the
// descriptor's decimal places, separators and symbol location.
func (f CurrencyFormat) FormatDecimal(d decimal.Decimal) string {
	neg := d.IsNegative()
	fixed := d.Abs().StringFixed(int32(f.DecimalPlaces))

	intPart := fixed
	fracPart := ""
	if i := strings.IndexByte(fixed, '.'); i >= 0 {
		intPart, fracPart = fixed[:i], fixed[i+1:]
	}

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteString(groupThousands(intPart, f.ThousandsToken))
	if f.DecimalPlaces > 0 {
		b.WriteString(f.decimalToken())
		b.WriteString(fracPart)
	}

	if strings.EqualFold(f.CurrencyLocation, "right") {
		return b.String() + f.CurrencyToken
	}
	return f.CurrencyToken + b.String()
}

// groupThousands inserts the separator every three digits from the right.
// An empty separator leaves the digits ungrouped.
func groupThousands(digits, sep string) string {
	if sep == "" || len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

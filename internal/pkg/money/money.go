package money

import "github.com/shopspring/decimal"

// DecimalPlaces is the fixed scale for all monetary amounts.
const DecimalPlaces = 2

// Quantize rounds an amount to 2 decimal places using round-half-up.
// Every monetary output passes through this exactly once when it becomes
// final; quantizing an already-quantized value is a no-op.
func Quantize(d decimal.Decimal) decimal.Decimal {
	return d.Round(DecimalPlaces)
}

// IsPositive reports whether the amount is strictly greater than zero.
func IsPositive(d decimal.Decimal) bool {
	return d.GreaterThan(decimal.Zero)
}

// Format renders an amount with exactly 2 decimal places, e.g. "2914.28".
func Format(d decimal.Decimal) string {
	return d.StringFixed(DecimalPlaces)
}

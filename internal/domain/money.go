package domain

import "github.com/shopspring/decimal"

// Money converts a wire amount into an exact decimal. NewFromFloat keeps the
// shortest representation, so 6.99 stays 6.99.
func Money(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

// Round2 rounds half away from zero to cents.
func Round2(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}

// LineTotal is round(unitPrice × quantity, 2).
func LineTotal(unitPrice float64, quantity int) float64 {
	return Round2(Money(unitPrice).Mul(decimal.NewFromInt(int64(quantity))))
}

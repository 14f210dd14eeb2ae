package calculator

import "github.com/shopspring/decimal"

// Round2 rounds to 2 decimal places, half away from zero, on the shortest decimal
// representation of v so that 2.675 rounds to 2.68.
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// safeDiv returns 0 when the denominator is zero.
func safeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

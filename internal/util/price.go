// Package util provides common utility functions for price calculations.
package util

import "math"

// Round2 rounds x to two decimal places, the precision NSE quotes premiums in.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// RoundToStep rounds price to the nearest multiple of the strike step.
// For example, with step=50, 25454 becomes 25450.
func RoundToStep(price, step float64) float64 {
	if step <= 0 {
		return price
	}
	return math.Round(price/step) * step
}

// Clamp01 clamps x into [0, 1].
func Clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

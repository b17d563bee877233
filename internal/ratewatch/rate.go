// Package ratewatch polls the MakerDAO Pot contract's savings rate and alerts
// when the annualized rate changes.
package ratewatch

import "math"

const (
	// RayScale is the fixed-point scale of the per-second rate (1e27)
	RayScale = 1e27

	// SecondsPerYear compounds the per-second rate to an annual one
	SecondsPerYear = 365 * 24 * 60 * 60
)

// Annualize converts the raw per-second ray rate into an annualized
// percentage, rounded to 2 decimals. A raw rate of exactly 1e27 is 0%.
func Annualize(raw float64) float64 {
	rate := (math.Pow(raw/RayScale, SecondsPerYear) - 1) * 100
	return math.Round(rate*100) / 100
}

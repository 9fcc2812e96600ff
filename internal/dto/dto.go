// Package dto shapes API responses. Percentages computed by the
// services stay unrounded until they cross this boundary; Round2 is
// the single place the two-decimal rule is applied.
package dto

import "math"

// Round2 rounds to two decimal places for external exposure.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

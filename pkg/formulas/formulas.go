// Package formulas holds the small pure-math helpers shared by the signal
// pipelines. Everything here is deterministic and side-effect free.
package formulas

import "math"

// Round rounds v to the given number of decimal places.
func Round(v float64, places int) float64 {
	pow := math.Pow(10, float64(places))
	return math.Round(v*pow) / pow
}

// PercentChange calculates the percentage change from prev to last.
// The result is undefined for prev == 0; callers must guard for that.
func PercentChange(prev, last float64) float64 {
	return (last/prev - 1) * 100
}

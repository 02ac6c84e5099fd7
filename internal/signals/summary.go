package signals

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ScoreSummary describes the distribution of continuous scores within one
// scan. Insider scans have no continuous score and therefore no summary.
type ScoreSummary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Summarize computes distribution statistics over a scan's scores.
// Returns nil for an empty scan.
func Summarize(scores []float64) *ScoreSummary {
	if len(scores) == 0 {
		return nil
	}

	mean, std := stat.MeanStdDev(scores, nil)
	if math.IsNaN(std) {
		// Sample standard deviation is undefined for a single observation.
		std = 0
	}

	return &ScoreSummary{
		Count:  len(scores),
		Mean:   mean,
		StdDev: std,
		Min:    floats.Min(scores),
		Max:    floats.Max(scores),
	}
}

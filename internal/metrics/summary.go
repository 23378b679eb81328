package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary holds descriptive statistics of a time series.
type Summary struct {
	N      int     `json:"n"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Summarize describes xs. An empty series yields a zero Summary.
func Summarize(xs []float64) Summary {
	if len(xs) == 0 {
		return Summary{}
	}
	mean, std := stat.MeanStdDev(xs, nil)
	if len(xs) == 1 {
		std = 0
	}
	return Summary{
		N:      len(xs),
		Mean:   mean,
		StdDev: std,
		Min:    floats.Min(xs),
		Max:    floats.Max(xs),
	}
}

// RelativeDrift returns |last-first|/|first| of a series, or 0 when the
// first value is zero.
func RelativeDrift(xs []float64) float64 {
	if len(xs) < 2 || xs[0] == 0 {
		return 0
	}
	return math.Abs(xs[len(xs)-1]-xs[0]) / math.Abs(xs[0])
}

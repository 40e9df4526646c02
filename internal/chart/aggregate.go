package chart

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// z95 is the two-sided 95% normal quantile used for bar error bars.
const z95 = 1.96

// Summary aggregates the y values of one categorical series.
type Summary struct {
	N      int     `json:"n"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	CI95   float64 `json:"ci95"`
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
}

// Summarize computes mean, spread and the five-number summary. It
// returns nil for an empty slice.
func Summarize(values []float64) *Summary {
	if len(values) == 0 {
		return nil
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	s := &Summary{
		N:      len(sorted),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Q1:     stat.Quantile(0.25, stat.Empirical, sorted, nil),
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		Q3:     stat.Quantile(0.75, stat.Empirical, sorted, nil),
	}

	if s.N < 2 {
		s.Mean = sorted[0]
		return s
	}

	s.Mean, s.StdDev = stat.MeanStdDev(sorted, nil)
	s.CI95 = z95 * s.StdDev / math.Sqrt(float64(s.N))
	return s
}

package neat

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// clamp restricts a value to a given range [minVal, maxVal].
func clamp(value, minVal, maxVal float64) float64 {
	return math.Max(minVal, math.Min(value, maxVal))
}

// meanStdev returns the mean and sample standard deviation of the finite
// values. Both are 0 when there are none, the deviation is 0 for a single value.
func meanStdev(values []float64) (mean, stdev float64) {
	finite := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsInf(v, 0) && !math.IsNaN(v) {
			finite = append(finite, v)
		}
	}
	switch len(finite) {
	case 0:
		return 0, 0
	case 1:
		return finite[0], 0
	}
	return stat.MeanStdDev(finite, nil)
}

package nn

import (
	"fmt"
	"math"
)

// AggregationFunc combines a neuron's weighted inputs into a single value.
type AggregationFunc func(inputs []float64) float64

// AggregationFunctions maps aggregation names to functions.
var AggregationFunctions = map[string]AggregationFunc{
	"sum":     AggregateSum,
	"product": AggregateProduct,
	"min":     AggregateMin,
	"max":     AggregateMax,
	"mean":    AggregateMean,
	"average": AggregateMean,
	"maxabs":  AggregateMaxAbs,
}

// GetAggregation retrieves an aggregation function by name.
func GetAggregation(name string) (AggregationFunc, error) {
	if fn, ok := AggregationFunctions[name]; ok {
		return fn, nil
	}
	return nil, fmt.Errorf("unknown aggregation function: %s", name)
}

// AggregateSum calculates the sum of the inputs.
func AggregateSum(inputs []float64) float64 {
	sum := 0.0
	for _, v := range inputs {
		sum += v
	}
	return sum
}

// AggregateProduct calculates the product of the inputs, 1 for no inputs.
func AggregateProduct(inputs []float64) float64 {
	product := 1.0
	for _, v := range inputs {
		product *= v
	}
	return product
}

// AggregateMin returns the smallest input, 0 for no inputs.
func AggregateMin(inputs []float64) float64 {
	if len(inputs) == 0 {
		return 0.0
	}
	m := inputs[0]
	for _, v := range inputs[1:] {
		m = math.Min(m, v)
	}
	return m
}

// AggregateMax returns the largest input, 0 for no inputs.
func AggregateMax(inputs []float64) float64 {
	if len(inputs) == 0 {
		return 0.0
	}
	m := inputs[0]
	for _, v := range inputs[1:] {
		m = math.Max(m, v)
	}
	return m
}

// AggregateMean calculates the average of the inputs.
func AggregateMean(inputs []float64) float64 {
	if len(inputs) == 0 {
		return 0.0
	}
	return AggregateSum(inputs) / float64(len(inputs))
}

// AggregateMaxAbs returns the input with the largest magnitude, sign kept.
func AggregateMaxAbs(inputs []float64) float64 {
	if len(inputs) == 0 {
		return 0.0
	}
	best := inputs[0]
	for _, v := range inputs[1:] {
		if math.Abs(v) > math.Abs(best) {
			best = v
		}
	}
	return best
}

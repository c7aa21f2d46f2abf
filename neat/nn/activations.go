package nn

import (
	"fmt"
	"math"
)

// ActivationFunc maps a neuron's aggregated input to its action potential.
type ActivationFunc func(x float64) float64

// ActivationFunctions maps activation names, as used in configuration, to functions.
var ActivationFunctions = map[string]ActivationFunc{
	"sigmoid":  Sigmoid,
	"tanh":     Tanh,
	"relu":     ReLU,
	"identity": Identity,
	"clamped":  Clamped,
	"gaussian": Gaussian,
	"absolute": Absolute,
	"abs":      Absolute,
	"sine":     Sine,
	"hat":      Hat,
	"square":   Square,
	"cube":     Cube,
	"exp":      Exp,
}

// GetActivation retrieves an activation function by name.
func GetActivation(name string) (ActivationFunc, error) {
	if fn, ok := ActivationFunctions[name]; ok {
		return fn, nil
	}
	return nil, fmt.Errorf("unknown activation function: %s", name)
}

// Sigmoid is the steepened logistic function 1 / (1 + exp(-4.9x)) used by NEAT.
func Sigmoid(x float64) float64 {
	const k = 4.9
	return 1.0 / (1.0 + math.Exp(-k*x))
}

// Tanh activation function.
func Tanh(x float64) float64 {
	return math.Tanh(x)
}

// ReLU (Rectified Linear Unit) activation function.
func ReLU(x float64) float64 {
	return math.Max(0, x)
}

// Identity activation function (linear).
func Identity(x float64) float64 {
	return x
}

// Clamped clamps its input to [-1, 1].
func Clamped(x float64) float64 {
	return clamp(x, -1.0, 1.0)
}

// Gaussian activation function.
func Gaussian(x float64) float64 {
	return math.Exp(-x * x / 2.0)
}

// Absolute value activation function.
func Absolute(x float64) float64 {
	return math.Abs(x)
}

// Sine activation function.
func Sine(x float64) float64 {
	return math.Sin(x)
}

// Hat is a triangular pulse centered at 0.
func Hat(x float64) float64 {
	return math.Max(0.0, 1.0-math.Abs(x))
}

// Square activation function (x^2).
func Square(x float64) float64 {
	return x * x
}

// Cube activation function (x^3).
func Cube(x float64) float64 {
	return x * x * x
}

// Exp is e^x with the input clamped to [-60, 60] to avoid overflow.
func Exp(x float64) float64 {
	return math.Exp(clamp(x, -60.0, 60.0))
}

func clamp(value, minVal, maxVal float64) float64 {
	return math.Max(minVal, math.Min(value, maxVal))
}

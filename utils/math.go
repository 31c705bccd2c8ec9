// Package utils contains small numeric and concurrency helpers shared by the other packages.
package utils

import (
	"math"

	"github.com/samber/lo"
)

const zeroEpsilon = 1e-8

// DegToRad converts degrees to radians.
func DegToRad(degrees float64) float64 {
	return degrees * math.Pi / 180
}

// RadToDeg converts radians to degrees.
func RadToDeg(radians float64) float64 {
	return radians * 180 / math.Pi
}

// Float64AlmostEqual compares two float64s and returns if the difference between them is less than epsilon.
func Float64AlmostEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) <= epsilon
}

// SquaredNorm returns the dot product of a vector with itself.
func SquaredNorm(vec []float64) float64 {
	return lo.SumBy(vec, func(v float64) float64 { return v * v })
}

// WeightedSquaredNorm returns the dot product of a vector with itself, applying the given weights to each piece.
// Missing weights count as 1.
func WeightedSquaredNorm(vec, weights []float64) float64 {
	norm := 0.0
	for i, v := range vec {
		w := 1.0
		if i < len(weights) {
			w = weights[i]
		}
		norm += v * v * w
	}
	return norm
}

// Clamp returns value limited to [low, high].
func Clamp(value, low, high float64) float64 {
	return math.Max(low, math.Min(high, value))
}

// IsZero reports whether every element of vec is within epsilon of zero.
func IsZero(vec []float64) bool {
	return lo.EveryBy(vec, func(v float64) bool { return math.Abs(v) < zeroEpsilon })
}

// Package numeric provides small scalar helpers shared across the library.
package numeric

import "math"

const defaultEpsilon = 1e-12

// ClampInt limits value to the inclusive range [min, max].
func ClampInt(value, min, max int) int {
	if value < min {
		return min
	}

	if value > max {
		return max
	}

	return value
}

// NearlyEqual reports whether a and b are equal within eps.
func NearlyEqual(a, b, eps float64) bool {
	if eps <= 0 {
		eps = defaultEpsilon
	}

	diff := math.Abs(a - b)
	if diff <= eps {
		return true
	}

	largest := math.Max(math.Abs(a), math.Abs(b))
	if largest == 0 {
		return diff <= eps
	}

	return diff/largest <= eps
}

// KahanSum returns the compensated sum of x.
//
// Histogram totals are the conservation contract of the rebinner, so the
// running error term matters once channel counts reach the 1e5 range.
func KahanSum(x []float64) float64 {
	var sum, comp float64
	for _, v := range x {
		y := v - comp
		t := sum + y
		comp = (t - sum) - y
		sum = t
	}
	return sum
}

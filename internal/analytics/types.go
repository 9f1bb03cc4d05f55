// Package analytics provides the numeric building blocks shared by the
// calibration, figure-of-merit and band-gap packages.
package analytics

import (
	"math"
)

// Mean calculates the arithmetic mean; 0 for an empty slice
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// SampleStdDev calculates the standard deviation with an n-1 denominator.
// Returns 0 for fewer than two values.
func SampleStdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	return math.Sqrt(sumSquaredDeviations(values) / float64(len(values)-1))
}

// PopulationStdDev calculates the standard deviation with an n denominator.
// Returns 0 for an empty slice.
func PopulationStdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return math.Sqrt(sumSquaredDeviations(values) / float64(len(values)))
}

func sumSquaredDeviations(values []float64) float64 {
	mean := Mean(values)
	sumSq := 0.0
	for _, v := range values {
		diff := v - mean
		sumSq += diff * diff
	}
	return sumSq
}

// Max returns the largest value and its index; index is -1 for an empty slice
func Max(values []float64) (float64, int) {
	if len(values) == 0 {
		return 0, -1
	}
	best, idx := values[0], 0
	for i, v := range values[1:] {
		if v > best {
			best, idx = v, i+1
		}
	}
	return best, idx
}

// CenteredMovingAverage smooths values with a centred window.
// Near the edges the window shrinks to the samples that exist, so every
// output is defined. Even windows take the extra sample on the left.
func CenteredMovingAverage(values []float64, windowSize int) []float64 {
	if len(values) == 0 {
		return nil
	}
	if windowSize < 1 {
		windowSize = 1
	}

	left := windowSize / 2
	right := windowSize - 1 - left

	result := make([]float64, len(values))
	for i := range values {
		start := i - left
		end := i + right

		if start < 0 {
			start = 0
		}
		if end >= len(values) {
			end = len(values) - 1
		}

		var sum float64
		for j := start; j <= end; j++ {
			sum += values[j]
		}
		result[i] = sum / float64(end-start+1)
	}

	return result
}

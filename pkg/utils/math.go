package utils

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Min returns the smaller of two ordered values
func Min[T constraints.Ordered](a, b T) T {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of two ordered values
func Max[T constraints.Ordered](a, b T) T {
	if a > b {
		return a
	}
	return b
}

// Clamp clamps a value between min and max
func Clamp[T constraints.Ordered](value, min, max T) T {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// Mean calculates the mean of a slice of float64 values
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

// Variance calculates the population variance of a slice of float64 values
func Variance(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := Mean(values)
	sumSquares := 0.0
	for _, v := range values {
		diff := v - mean
		sumSquares += diff * diff
	}
	return sumSquares / float64(len(values))
}

// StdDev calculates the standard deviation of a slice of float64 values
func StdDev(values []float64) float64 {
	return math.Sqrt(Variance(values))
}

// Sum calculates the sum of a slice of float64 values
func Sum(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum
}

// Linspace returns num evenly spaced values over the closed interval
// [start, stop]. num < 1 yields nil, num == 1 yields [start].
func Linspace(start, stop float64, num int) []float64 {
	if num < 1 {
		return nil
	}
	if num == 1 {
		return []float64{start}
	}
	step := (stop - start) / float64(num-1)
	values := make([]float64, num)
	for i := range values {
		values[i] = start + float64(i)*step
	}
	// avoid accumulated floating point drift on the last element
	values[num-1] = stop
	return values
}

// Product multiplies the elements of a slice of integers
func Product[T constraints.Integer](values []T) T {
	var res T = 1
	for _, v := range values {
		res *= v
	}
	return res
}

// EuclideanDistance returns the Euclidean distance between two vectors
// of equal length.
func EuclideanDistance(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		diff := a[i] - b[i]
		sum += diff * diff
	}
	return math.Sqrt(sum)
}

// Round rounds a float64 to the specified number of decimal places
func Round(value float64, decimals int) float64 {
	multiplier := math.Pow(10, float64(decimals))
	return math.Round(value*multiplier) / multiplier
}

// File: utils/utils.go
package utils

import "math"

// Distance returns the Euclidean distance between two points. The motion
// simulator (world.RecomputeVelocity) computes the same quantity inline
// rather than calling this helper.
func Distance(x1, y1, x2, y2 float64) float64 {
	deltaX := x2 - x1
	deltaY := y2 - y1
	return math.Sqrt(deltaX*deltaX + deltaY*deltaY)
}

// Abs returns the absolute value of x.
func Abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// MinInt64 returns the smaller of two int64 values, e.g. two millisecond
// counts. The tick loop caps its slices by comparing against
// Config.MaxTickSlice directly and does not call this helper.
func MinInt64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

// SameSign reports whether a and b have the same sign, treating 0 as
// matching either sign. Stop-logic's direction-aware overshoot check uses
// an identical unexported copy in the world package.
func SameSign(a, b float64) bool {
	if a == 0 || b == 0 {
		return true
	}
	return (a > 0) == (b > 0)
}

package utils

import (
	"math"
)

// Clamp limits a value between min and max
func Clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// NonNegative returns value, or 0 for negative and NaN input
func NonNegative(value float64) float64 {
	if math.IsNaN(value) || value < 0 {
		return 0
	}
	return value
}

// Saturate clamps value into [-limit, limit]. NaN becomes 0
func Saturate(value, limit float64) float64 {
	if math.IsNaN(value) {
		return 0
	}
	return Clamp(value, -limit, limit)
}

// RoundTo rounds a float to specified decimal places
func RoundTo(value float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(value*factor) / factor
}

// CeilDiv divides and rounds up, ignoring float noise below 1e-9 around
// whole quotients so that 2170/21.7 yields exactly 100. Quotients outside
// the int range saturate at math.MaxInt or math.MinInt, NaN yields 0.
func CeilDiv(value, divisor float64) int {
	if divisor == 0 {
		return 0
	}
	q := value / divisor
	switch {
	case math.IsNaN(q):
		return 0
	case q >= math.MaxInt:
		return math.MaxInt
	case q <= math.MinInt:
		return math.MinInt
	}
	if r := math.Round(q); math.Abs(q-r) < 1e-9 {
		q = r
	}
	return int(math.Ceil(q))
}

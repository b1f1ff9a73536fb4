package game

import "math"

// Clamp bounds v to [floor, ceil].
func Clamp(v, floor, ceil float64) float64 {
	return math.Max(math.Min(v, ceil), floor)
}

// ClampRate bounds a rate to [0,1].
func ClampRate(v float64) float64 {
	return Clamp(v, 0, 1)
}

// ClampIntRange bounds v to [floor, ceil].
func ClampIntRange(v, floor, ceil int) int {
	return max(min(v, ceil), floor)
}

// ClampInt bounds v from below only.
func ClampInt(v, floor int) int {
	return ClampIntRange(v, floor, math.MaxInt)
}

// Trunc converts a real product to a population count, truncating toward zero.
func Trunc(v float64) int {
	return int(v)
}

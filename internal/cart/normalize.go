package cart

import "math"

// maxTotalPeople bounds the headcount so the truncated value always fits an int
// on every platform.
const maxTotalPeople = math.MaxInt32

// NormalizeTotalPeople maps any number onto a valid headcount.
// Positive values are truncated toward zero; results below 1, non-positive
// input and NaN all become 1. Values above maxTotalPeople are clamped.
func NormalizeTotalPeople(v float64) int {
	if !(v > 0) {
		return 1
	}
	if v >= maxTotalPeople {
		return maxTotalPeople
	}
	n := int(math.Trunc(v))
	if n < 1 {
		return 1
	}
	return n
}

package cart_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pkordes/experience-cart/internal/cart"
)

func TestNormalizeTotalPeople(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{2.9, 2},
		{1, 1},
		{4, 4},
		{0, 1},
		{-5, 1},
		{-0.5, 1},
		{0.5, 1},
		{math.NaN(), 1},
		{math.Inf(-1), 1},
		{math.Inf(1), math.MaxInt32},
		{1e12, math.MaxInt32},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, cart.NormalizeTotalPeople(tc.in), "input %v", tc.in)
	}
}

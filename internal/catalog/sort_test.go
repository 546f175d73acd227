package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/experience-cart/internal/catalog"
	"github.com/pkordes/experience-cart/internal/domain"
)

func TestSort(t *testing.T) {
	all := defaultCatalog(t).All()

	tests := []struct {
		option domain.SortOption
		want   []string
	}{
		{domain.SortDefault, []string{"exp-001", "exp-002", "exp-003", "exp-004", "exp-005", "exp-006", "exp-007", "exp-008"}},
		{domain.SortPriceAsc, []string{"exp-006", "exp-008", "exp-003", "exp-007", "exp-001", "exp-004", "exp-002", "exp-005"}},
		{domain.SortPriceDesc, []string{"exp-005", "exp-002", "exp-001", "exp-004", "exp-007", "exp-003", "exp-008", "exp-006"}},
		{domain.SortRatingAsc, []string{"exp-006", "exp-004", "exp-008", "exp-003", "exp-007", "exp-001", "exp-005", "exp-002"}},
		{domain.SortRatingDesc, []string{"exp-002", "exp-005", "exp-001", "exp-007", "exp-003", "exp-008", "exp-004", "exp-006"}},
	}

	for _, tc := range tests {
		t.Run(string(tc.option), func(t *testing.T) {
			assert.Equal(t, tc.want, ids(catalog.Sort(all, tc.option)))
		})
	}
}

// TestSort_priceTiesKeepCatalogOrder covers exp-001 and exp-004, which share
// a price of 795.
func TestSort_priceTiesKeepCatalogOrder(t *testing.T) {
	input := []domain.Experience{
		{ID: "b", Price: 795},
		{ID: "a", Price: 100},
		{ID: "c", Price: 795},
		{ID: "d", Price: 795},
	}

	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(catalog.Sort(input, domain.SortPriceAsc)))
	assert.Equal(t, []string{"b", "c", "d", "a"}, ids(catalog.Sort(input, domain.SortPriceDesc)))
}

func TestSort_doesNotMutateInput(t *testing.T) {
	input := []domain.Experience{{ID: "x", Rating: 1}, {ID: "y", Rating: 5}}

	got := catalog.Sort(input, domain.SortRatingDesc)

	assert.Equal(t, []string{"y", "x"}, ids(got))
	assert.Equal(t, []string{"x", "y"}, ids(input))
}

func TestSort_nilInput(t *testing.T) {
	got := catalog.Sort(nil, domain.SortPriceAsc)

	require.NotNil(t, got)
	assert.Empty(t, got)
}

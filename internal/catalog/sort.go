package catalog

import (
	"cmp"
	"slices"

	"github.com/pkordes/experience-cart/internal/domain"
)

// Sort returns a copy of experiences ordered by option. The sort is stable:
// experiences with equal keys keep their relative input order.
// SortDefault and unrecognised options return the input order unchanged.
func Sort(experiences []domain.Experience, option domain.SortOption) []domain.Experience {
	out := slices.Clone(experiences)
	if out == nil {
		out = []domain.Experience{}
	}

	var byKey func(a, b domain.Experience) int
	switch option {
	case domain.SortPriceAsc:
		byKey = func(a, b domain.Experience) int { return cmp.Compare(a.Price, b.Price) }
	case domain.SortPriceDesc:
		byKey = func(a, b domain.Experience) int { return cmp.Compare(b.Price, a.Price) }
	case domain.SortRatingAsc:
		byKey = func(a, b domain.Experience) int { return cmp.Compare(a.Rating, b.Rating) }
	case domain.SortRatingDesc:
		byKey = func(a, b domain.Experience) int { return cmp.Compare(b.Rating, a.Rating) }
	default:
		return out
	}

	slices.SortStableFunc(out, byKey)
	return out
}

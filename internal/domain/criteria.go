package domain

import (
	"fmt"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

// SearchCriteria is the typed form of a catalog search.
// Zero values mean "no constraint" for the corresponding field.
type SearchCriteria struct {
	// Location is matched as a case-insensitive substring of Experience.Location.
	Location string
	// Date is matched against the annual availability window. Nil means any date.
	Date *openapi_types.Date
	// GroupSize is carried for downstream capacity logic. It never filters.
	GroupSize int
	// AgeGroup must equal Experience.AgeGroup when non-empty.
	AgeGroup AgeGroup
}

// SortOption selects the ordering applied to search results.
type SortOption string

const (
	SortDefault    SortOption = "default"
	SortPriceAsc   SortOption = "price-asc"
	SortPriceDesc  SortOption = "price-desc"
	SortRatingAsc  SortOption = "rating-asc"
	SortRatingDesc SortOption = "rating-desc"
)

// ParseSortOption converts s into a SortOption. An empty string yields SortDefault.
func ParseSortOption(s string) (SortOption, error) {
	switch o := SortOption(s); o {
	case "":
		return SortDefault, nil
	case SortDefault, SortPriceAsc, SortPriceDesc, SortRatingAsc, SortRatingDesc:
		return o, nil
	}
	return "", fmt.Errorf("%w: unknown sort option %q", ErrValidation, s)
}

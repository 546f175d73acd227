// Package domain contains the core data types for the experience booking API.
// It is imported by every other internal package (catalog, cart, repo,
// service, handler) and holds no behaviour beyond parsing enum values.
package domain

import (
	"fmt"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

// AgeGroup is the age suitability of an experience.
// The empty value means "any age group" when used as a search constraint.
type AgeGroup string

const (
	AgeGroupChild  AgeGroup = "child"
	AgeGroupAdult  AgeGroup = "adult"
	AgeGroupSenior AgeGroup = "senior"
)

// Valid reports whether g is one of the canonical age groups.
// The empty AgeGroup is not valid.
func (g AgeGroup) Valid() bool {
	switch g {
	case AgeGroupChild, AgeGroupAdult, AgeGroupSenior:
		return true
	}
	return false
}

// ParseAgeGroup converts s into an AgeGroup. An empty string yields the empty
// AgeGroup. Matching is exact; the enumeration values are already canonical.
func ParseAgeGroup(s string) (AgeGroup, error) {
	if s == "" {
		return "", nil
	}
	g := AgeGroup(s)
	if !g.Valid() {
		return "", fmt.Errorf("%w: unknown age group %q", ErrValidation, s)
	}
	return g, nil
}

// DateRange is the availability window of an experience.
// Only the month and day of each bound are significant for matching;
// availability recurs every year.
type DateRange struct {
	StartDate openapi_types.Date `json:"start_date"`
	EndDate   openapi_types.Date `json:"end_date"`
}

// AddOn is an informational extra listed on a catalog experience.
// It is distinct from the cart Addon catalog.
type AddOn struct {
	ID    string  `json:"id"`
	Title string  `json:"title"`
	Price float64 `json:"price"`
}

// Experience is a bookable catalog item. Experiences are loaded once at
// startup and never mutated afterwards.
type Experience struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	Price       float64   `json:"price"`
	Location    string    `json:"location"`
	DateRange   DateRange `json:"date_range"`
	Rating      float64   `json:"rating"`
	AgeGroup    AgeGroup  `json:"age_group"`
	AddOns      []AddOn   `json:"add_ons"`
}

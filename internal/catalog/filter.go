package catalog

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/pkordes/experience-cart/internal/domain"
)

// Filter returns the experiences that satisfy every constraint in c, in their
// original order. The input slice is never modified; the result is always a
// new, non-nil slice.
//
// GroupSize is not a predicate: no experience carries a capacity.
func Filter(experiences []domain.Experience, c domain.SearchCriteria) []domain.Experience {
	// Casers are stateful, so one is built per call rather than shared.
	fold := cases.Fold()
	location := fold.String(c.Location)

	var date MonthDay
	if c.Date != nil {
		date = MonthDayOf(c.Date.Time)
	}

	out := make([]domain.Experience, 0, len(experiences))
	for _, exp := range experiences {
		if location != "" && !strings.Contains(fold.String(exp.Location), location) {
			continue
		}
		if c.AgeGroup != "" && exp.AgeGroup != c.AgeGroup {
			continue
		}
		if c.Date != nil && !availableOn(exp, date) {
			continue
		}
		out = append(out, exp)
	}
	return out
}

func availableOn(exp domain.Experience, date MonthDay) bool {
	return InAnnualRange(
		date,
		MonthDayOf(exp.DateRange.StartDate.Time),
		MonthDayOf(exp.DateRange.EndDate.Time),
	)
}

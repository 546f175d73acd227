package domain

// CartSummaryRow is one line of a cart export: a selection joined with its
// catalog experience and resolved addons.
type CartSummaryRow struct {
	SelectionID     string
	ExperienceID    string
	ExperienceTitle string // empty when the experience is no longer in the catalog
	Date            string
	AgeGroup        AgeGroup
	TotalPeople     int
	UnitPrice       float64

	// AddonTitles are the titles of the selection's addons in attachment order.
	// Addon ids that no longer resolve are skipped.
	AddonTitles []string

	// LineTotal is UnitPrice*TotalPeople plus every addon price, with per-person
	// addons multiplied by TotalPeople.
	LineTotal float64
}

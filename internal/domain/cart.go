package domain

// BookingSelection is a committed cart line item. Price is a snapshot taken
// when the selection was added, not a live reference to the catalog.
type BookingSelection struct {
	ID           string   `json:"id"`
	ExperienceID string   `json:"experienceId"`
	Price        float64  `json:"price"`
	AgeGroup     AgeGroup `json:"ageGroup"`
	Date         string   `json:"date"`
	TotalPeople  int      `json:"totalPeople"`
	Addons       []string `json:"addons"`
	// CreatedAt is the creation time in Unix milliseconds.
	CreatedAt int64 `json:"createdAt"`
}

// HasAddon reports whether addonID is attached to the selection.
func (s BookingSelection) HasAddon(addonID string) bool {
	for _, id := range s.Addons {
		if id == addonID {
			return true
		}
	}
	return false
}

// CartState is the persisted part of a cart session: the in-progress draft
// plus the committed selections in insertion order.
//
// An empty SelectedExperienceID means no experience is selected.
// TotalPeople is always at least 1.
type CartState struct {
	SelectedExperienceID string             `json:"selectedExperienceId"`
	AgeGroup             AgeGroup           `json:"ageGroup"`
	Date                 string             `json:"date"`
	Price                float64            `json:"price"`
	TotalPeople          int                `json:"totalPeople"`
	Selections           []BookingSelection `json:"selections"`
}

// NewCartState returns the state of a freshly started session.
func NewCartState() CartState {
	return CartState{TotalPeople: 1, Selections: []BookingSelection{}}
}

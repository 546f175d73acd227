package domain

// Addon is an optional priced extra that can be attached to a cart selection
// by ID. The addon catalog is fixed when a cart session is constructed.
type Addon struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description,omitempty"`
	PerPerson   bool    `json:"perPerson,omitempty"`
	Required    bool    `json:"required,omitempty"`
}

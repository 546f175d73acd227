package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/experience-cart/internal/domain"
	"github.com/pkordes/experience-cart/internal/service"
)

// CartResponse is the body returned by every cart endpoint that reports
// session state.
type CartResponse struct {
	Cart               domain.CartState   `json:"cart"`
	SelectedExperience *domain.Experience `json:"selected_experience"`
	SelectedAddons     []domain.Addon     `json:"selected_addons"`
}

// UpdateDraftRequest is the body of PATCH /sessions/{sessionID}/cart/draft.
// Omitted fields are left unchanged.
type UpdateDraftRequest struct {
	ExperienceID *string  `json:"experience_id"`
	AgeGroup     *string  `json:"age_group"`
	Date         *string  `json:"date"`
	Price        *float64 `json:"price"`
	TotalPeople  *float64 `json:"total_people"`
}

// HydrateDraftRequest is the body of POST /sessions/{sessionID}/cart/draft/hydrate.
type HydrateDraftRequest struct {
	ExperienceID string `json:"experience_id"`
}

// GetCart handles GET /sessions/{sessionID}/cart.
func (s *Server) GetCart(w http.ResponseWriter, r *http.Request) {
	view, err := s.carts.Get(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		s.writeError(w, r, err, "cart not found")
		return
	}
	writeJSON(w, http.StatusOK, cartToResponse(view))
}

// UpdateDraft handles PATCH /sessions/{sessionID}/cart/draft.
func (s *Server) UpdateDraft(w http.ResponseWriter, r *http.Request) {
	var body UpdateDraftRequest
	if !decodeBody(w, r, &body) {
		return
	}

	view, err := s.carts.UpdateDraft(r.Context(), chi.URLParam(r, "sessionID"), requestToDraftUpdate(body))
	if err != nil {
		s.writeError(w, r, err, "cart not found")
		return
	}
	writeJSON(w, http.StatusOK, cartToResponse(view))
}

// HydrateDraft handles POST /sessions/{sessionID}/cart/draft/hydrate.
func (s *Server) HydrateDraft(w http.ResponseWriter, r *http.Request) {
	var body HydrateDraftRequest
	if !decodeBody(w, r, &body) {
		return
	}
	if body.ExperienceID == "" {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody("experience_id is required"))
		return
	}

	view, err := s.carts.Hydrate(r.Context(), chi.URLParam(r, "sessionID"), body.ExperienceID)
	if err != nil {
		s.writeError(w, r, err, "experience not found")
		return
	}
	writeJSON(w, http.StatusOK, cartToResponse(view))
}

// AddSelection handles POST /sessions/{sessionID}/cart/selections.
// Returns 201 with the new selection, or 409 when no experience is selected.
func (s *Server) AddSelection(w http.ResponseWriter, r *http.Request) {
	sel, err := s.carts.AddSelection(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		s.writeError(w, r, err, "cart not found")
		return
	}
	writeJSON(w, http.StatusCreated, sel)
}

// RemoveSelection handles DELETE /sessions/{sessionID}/cart/selections/{selectionID}.
func (s *Server) RemoveSelection(w http.ResponseWriter, r *http.Request) {
	err := s.carts.RemoveSelection(r.Context(), chi.URLParam(r, "sessionID"), chi.URLParam(r, "selectionID"))
	if err != nil {
		s.writeError(w, r, err, "selection not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ToggleAddon handles POST /sessions/{sessionID}/cart/addons/{addonID}/toggle.
func (s *Server) ToggleAddon(w http.ResponseWriter, r *http.Request) {
	view, err := s.carts.ToggleAddon(r.Context(), chi.URLParam(r, "sessionID"), chi.URLParam(r, "addonID"))
	if err != nil {
		s.writeError(w, r, err, "addon or matching selection not found")
		return
	}
	writeJSON(w, http.StatusOK, cartToResponse(view))
}

// ClearCart handles DELETE /sessions/{sessionID}/cart.
func (s *Server) ClearCart(w http.ResponseWriter, r *http.Request) {
	if err := s.carts.Clear(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		s.writeError(w, r, err, "cart not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- mapping helpers --------------------------------------------------------

// requestToDraftUpdate converts the request body into a service.DraftUpdate.
// Age group parsing is left to the service so that validation messages come
// from one place.
func requestToDraftUpdate(body UpdateDraftRequest) service.DraftUpdate {
	u := service.DraftUpdate{
		ExperienceID: body.ExperienceID,
		Date:         body.Date,
		Price:        body.Price,
		TotalPeople:  body.TotalPeople,
	}
	if body.AgeGroup != nil {
		g := domain.AgeGroup(*body.AgeGroup)
		u.AgeGroup = &g
	}
	return u
}

// cartToResponse converts a service.CartView into the response body.
// SelectedAddons is always a JSON array.
func cartToResponse(v service.CartView) CartResponse {
	addons := v.SelectedAddons
	if addons == nil {
		addons = []domain.Addon{}
	}
	state := v.State
	if state.Selections == nil {
		state.Selections = []domain.BookingSelection{}
	}
	return CartResponse{
		Cart:               state,
		SelectedExperience: v.SelectedExperience,
		SelectedAddons:     addons,
	}
}

// Package cart implements the per-user cart session: the in-progress booking
// draft, the committed selections and their addons, and persistence of both
// through an injected Store.
//
// Every Session operation is total. Unknown ids and missing selections are
// no-ops, headcounts are normalized, and storage failures are logged rather
// than returned.
package cart

import (
	"context"
	"log/slog"
	"slices"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/experience-cart/internal/domain"
)

// ExperienceFinder resolves catalog experiences by id.
// *catalog.Catalog satisfies it.
type ExperienceFinder interface {
	Find(id string) (domain.Experience, bool)
}

// Options configures Open. Only Store is normally set by callers; nil fields
// get working defaults.
type Options struct {
	Catalog ExperienceFinder
	// Addons is the addon catalog for the session. Defaults to DefaultAddons().
	Addons []domain.Addon
	// Store defaults to a fresh MemoryStore.
	Store  Store
	Logger *slog.Logger
	// Now defaults to time.Now.
	Now func() time.Time
	// NewID generates selection ids. Defaults to a random UUID with a
	// timestamp fallback.
	NewID func(now time.Time) string
}

// Session is one user's cart. It is not safe for concurrent use; callers
// serialize access per session.
type Session struct {
	catalog ExperienceFinder
	addons  []domain.Addon
	store   Store
	log     *slog.Logger
	now     func() time.Time
	newID   func(now time.Time) string

	state domain.CartState
	// held lists keys whose stored value could not be loaded.
	held map[string]bool
}

// Open constructs a Session and restores its state from opts.Store.
func Open(ctx context.Context, opts Options) *Session {
	s := &Session{
		catalog: opts.Catalog,
		addons:  slices.Clone(opts.Addons),
		store:   opts.Store,
		log:     opts.Logger,
		now:     opts.Now,
		newID:   opts.NewID,
	}
	if s.addons == nil {
		s.addons = DefaultAddons()
	}
	if s.store == nil {
		s.store = NewMemoryStore()
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = NewSelectionID
	}
	s.restore(ctx)
	return s
}

// NewSelectionID returns a random UUID, or a base-36 millisecond timestamp
// when no randomness is available.
func NewSelectionID(now time.Time) string {
	id, err := uuid.NewRandom()
	if err != nil {
		return strconv.FormatInt(now.UnixMilli(), 36)
	}
	return id.String()
}

// SetExperience selects an experience by id ("" clears the selection) and
// sets the draft price to its catalog price, or 0 when the id is unknown.
func (s *Session) SetExperience(ctx context.Context, id string) {
	s.state.SelectedExperienceID = id
	s.state.Price = 0
	if exp, ok := s.find(id); ok {
		s.state.Price = exp.Price
	}
	s.persist(ctx, KeySelectedExperienceID, KeyPrice)
}

func (s *Session) SetAgeGroup(ctx context.Context, g domain.AgeGroup) {
	s.state.AgeGroup = g
	s.persist(ctx, KeyAgeGroup)
}

func (s *Session) SetDate(ctx context.Context, date string) {
	s.state.Date = date
	s.persist(ctx, KeyDate)
}

func (s *Session) SetPrice(ctx context.Context, price float64) {
	s.state.Price = price
	s.persist(ctx, KeyPrice)
}

// SetTotalPeople stores the headcount after NormalizeTotalPeople.
func (s *Session) SetTotalPeople(ctx context.Context, n float64) {
	s.state.TotalPeople = NormalizeTotalPeople(n)
	s.persist(ctx, KeyTotalPeople)
}

// HydrateFromExperience fills the draft from a catalog record in one update.
// The draft date is the start of the experience's availability window.
func (s *Session) HydrateFromExperience(ctx context.Context, exp domain.Experience) {
	s.state.SelectedExperienceID = exp.ID
	s.state.AgeGroup = exp.AgeGroup
	s.state.Date = exp.DateRange.StartDate.String()
	s.state.Price = exp.Price
	s.persist(ctx, KeySelectedExperienceID, KeyAgeGroup, KeyDate, KeyPrice)
}

// AddSelection commits a snapshot of the draft as a new selection and returns
// it. The draft is left unchanged. When no experience is selected nothing
// happens and ok is false.
func (s *Session) AddSelection(ctx context.Context) (sel domain.BookingSelection, ok bool) {
	if s.state.SelectedExperienceID == "" {
		return domain.BookingSelection{}, false
	}

	now := s.now()
	price := s.state.Price
	if price == 0 {
		if exp, found := s.find(s.state.SelectedExperienceID); found {
			price = exp.Price
		}
	}

	sel = domain.BookingSelection{
		ID:           s.uniqueID(now),
		ExperienceID: s.state.SelectedExperienceID,
		Price:        price,
		AgeGroup:     s.state.AgeGroup,
		Date:         s.state.Date,
		TotalPeople:  s.state.TotalPeople,
		Addons:       []string{},
		CreatedAt:    now.UnixMilli(),
	}
	s.state.Selections = append(s.state.Selections, sel)
	s.persist(ctx, KeySelections)
	return cloneSelection(sel), true
}

// ToggleAddon adds addonID to, or removes it from, the first selection whose
// experience is the currently selected one. It does nothing when no such
// selection exists.
//
// Only the first matching selection is considered, so a second booking of
// the same experience cannot be given addons through this call.
func (s *Session) ToggleAddon(ctx context.Context, addonID string) {
	i := s.activeSelection()
	if i < 0 {
		return
	}
	sel := &s.state.Selections[i]
	if sel.HasAddon(addonID) {
		sel.Addons = slices.DeleteFunc(sel.Addons, func(id string) bool { return id == addonID })
	} else {
		sel.Addons = append(sel.Addons, addonID)
	}
	s.persist(ctx, KeySelections)
}

// RemoveSelection deletes the selection with the given id, if any.
func (s *Session) RemoveSelection(ctx context.Context, selectionID string) {
	i := slices.IndexFunc(s.state.Selections, func(sel domain.BookingSelection) bool {
		return sel.ID == selectionID
	})
	if i < 0 {
		return
	}
	s.state.Selections = slices.Delete(s.state.Selections, i, i+1)
	s.persist(ctx, KeySelections)
}

// Clear resets the draft and drops every selection. The addon catalog is kept.
func (s *Session) Clear(ctx context.Context) {
	s.state = domain.NewCartState()
	s.wipe(ctx)
}

// State returns a deep copy of the session state.
func (s *Session) State() domain.CartState {
	st := s.state
	st.Selections = make([]domain.BookingSelection, len(s.state.Selections))
	for i, sel := range s.state.Selections {
		st.Selections[i] = cloneSelection(sel)
	}
	return st
}

// Addons returns the session's addon catalog.
func (s *Session) Addons() []domain.Addon {
	return slices.Clone(s.addons)
}

// SelectedExperience resolves the selected experience against the catalog.
func (s *Session) SelectedExperience() (domain.Experience, bool) {
	return s.find(s.state.SelectedExperienceID)
}

// SelectedAddons resolves the addons of the first selection for the selected
// experience, in attachment order. Ids missing from the addon catalog are
// skipped. The result is never nil.
func (s *Session) SelectedAddons() []domain.Addon {
	out := []domain.Addon{}
	i := s.activeSelection()
	if i < 0 {
		return out
	}
	for _, id := range s.state.Selections[i].Addons {
		if a, ok := s.addon(id); ok {
			out = append(out, a)
		}
	}
	return out
}

// Selection returns a copy of the selection with the given id.
func (s *Session) Selection(selectionID string) (domain.BookingSelection, bool) {
	for _, sel := range s.state.Selections {
		if sel.ID == selectionID {
			return cloneSelection(sel), true
		}
	}
	return domain.BookingSelection{}, false
}

func (s *Session) find(id string) (domain.Experience, bool) {
	if id == "" || s.catalog == nil {
		return domain.Experience{}, false
	}
	return s.catalog.Find(id)
}

func (s *Session) addon(id string) (domain.Addon, bool) {
	for _, a := range s.addons {
		if a.ID == id {
			return a, true
		}
	}
	return domain.Addon{}, false
}

// activeSelection returns the index of the first selection for the selected
// experience, or -1.
func (s *Session) activeSelection() int {
	if s.state.SelectedExperienceID == "" {
		return -1
	}
	return slices.IndexFunc(s.state.Selections, func(sel domain.BookingSelection) bool {
		return sel.ExperienceID == s.state.SelectedExperienceID
	})
}

// uniqueID draws ids until one is not already used in this session.
// The timestamp fallback can repeat within a millisecond, hence the suffix.
func (s *Session) uniqueID(now time.Time) string {
	id := s.newID(now)
	for n := 1; ; n++ {
		if _, taken := s.Selection(id); !taken {
			return id
		}
		id = s.newID(now) + "-" + strconv.Itoa(n)
	}
}

func cloneSelection(sel domain.BookingSelection) domain.BookingSelection {
	sel.Addons = slices.Clone(sel.Addons)
	if sel.Addons == nil {
		sel.Addons = []string{}
	}
	return sel
}

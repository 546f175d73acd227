package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"slices"
	"time"

	"github.com/pkordes/experience-cart/internal/cart"
	"github.com/pkordes/experience-cart/internal/domain"
	"github.com/pkordes/experience-cart/internal/repo"
)

// sessionIDPattern restricts session ids to URL- and log-safe tokens.
var sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,128}$`)

// CartView is a session's state together with its derived views.
type CartView struct {
	State              domain.CartState
	SelectedExperience *domain.Experience
	SelectedAddons     []domain.Addon
}

// DraftUpdate carries the draft fields to change. Nil fields are left alone.
// ExperienceID is applied first because selecting an experience resets the
// draft price; an explicit Price in the same update wins.
type DraftUpdate struct {
	ExperienceID *string
	AgeGroup     *domain.AgeGroup
	Date         *string
	Price        *float64
	TotalPeople  *float64
}

// CartService runs cart session operations for many users. Each call opens
// the session from storage, applies one operation and lets the session
// persist the result. Concurrent calls for the same session are
// last-write-wins per stored key.
type CartService struct {
	entries repo.CartEntryRepo
	catalog cart.ExperienceFinder
	addons  []domain.Addon
	log     *slog.Logger
	now     func() time.Time
}

// NewCartService constructs a CartService. addons is the addon catalog
// offered on every session.
func NewCartService(entries repo.CartEntryRepo, finder cart.ExperienceFinder, addons []domain.Addon, log *slog.Logger) *CartService {
	if log == nil {
		log = slog.Default()
	}
	return &CartService{entries: entries, catalog: finder, addons: addons, log: log, now: time.Now}
}

// Get returns the current cart of a session. Unknown sessions yield a fresh cart.
func (s *CartService) Get(ctx context.Context, sessionID string) (CartView, error) {
	sess, err := s.open(ctx, sessionID)
	if err != nil {
		return CartView{}, fmt.Errorf("service.CartService.Get: %w", err)
	}
	return viewOf(sess), nil
}

// UpdateDraft applies the non-nil fields of u to the session draft.
// Returns domain.ErrValidation for an unknown age group, a malformed date or
// a negative price. Unknown experience ids are accepted and zero the price.
func (s *CartService) UpdateDraft(ctx context.Context, sessionID string, u DraftUpdate) (CartView, error) {
	if err := validateDraft(u); err != nil {
		return CartView{}, fmt.Errorf("service.CartService.UpdateDraft: %w", err)
	}
	sess, err := s.open(ctx, sessionID)
	if err != nil {
		return CartView{}, fmt.Errorf("service.CartService.UpdateDraft: %w", err)
	}

	if u.ExperienceID != nil {
		sess.SetExperience(ctx, *u.ExperienceID)
	}
	if u.AgeGroup != nil {
		sess.SetAgeGroup(ctx, *u.AgeGroup)
	}
	if u.Date != nil {
		sess.SetDate(ctx, *u.Date)
	}
	if u.Price != nil {
		sess.SetPrice(ctx, *u.Price)
	}
	if u.TotalPeople != nil {
		sess.SetTotalPeople(ctx, *u.TotalPeople)
	}
	return viewOf(sess), nil
}

// Hydrate fills the draft from the catalog record of experienceID.
// Returns domain.ErrNotFound if the experience does not exist.
func (s *CartService) Hydrate(ctx context.Context, sessionID, experienceID string) (CartView, error) {
	exp, ok := s.catalog.Find(experienceID)
	if !ok {
		return CartView{}, fmt.Errorf("service.CartService.Hydrate: experience %q: %w", experienceID, domain.ErrNotFound)
	}
	sess, err := s.open(ctx, sessionID)
	if err != nil {
		return CartView{}, fmt.Errorf("service.CartService.Hydrate: %w", err)
	}
	sess.HydrateFromExperience(ctx, exp)
	return viewOf(sess), nil
}

// AddSelection commits the session draft as a new selection.
// Returns domain.ErrNoExperienceSelected when the draft has no experience.
func (s *CartService) AddSelection(ctx context.Context, sessionID string) (domain.BookingSelection, error) {
	sess, err := s.open(ctx, sessionID)
	if err != nil {
		return domain.BookingSelection{}, fmt.Errorf("service.CartService.AddSelection: %w", err)
	}
	sel, ok := sess.AddSelection(ctx)
	if !ok {
		return domain.BookingSelection{}, fmt.Errorf("service.CartService.AddSelection: %w", domain.ErrNoExperienceSelected)
	}
	s.log.InfoContext(ctx, "selection added",
		"session_id", sessionID,
		"selection_id", sel.ID,
		"experience_id", sel.ExperienceID,
	)
	return sel, nil
}

// RemoveSelection deletes a selection from the session.
// Returns domain.ErrNotFound if the session has no such selection.
func (s *CartService) RemoveSelection(ctx context.Context, sessionID, selectionID string) error {
	sess, err := s.open(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("service.CartService.RemoveSelection: %w", err)
	}
	if _, ok := sess.Selection(selectionID); !ok {
		return fmt.Errorf("service.CartService.RemoveSelection: selection %q: %w", selectionID, domain.ErrNotFound)
	}
	sess.RemoveSelection(ctx, selectionID)
	return nil
}

// ToggleAddon flips addonID on the first selection of the currently selected
// experience. Returns domain.ErrNotFound if the addon is not offered or if no
// selection exists for the selected experience.
func (s *CartService) ToggleAddon(ctx context.Context, sessionID, addonID string) (CartView, error) {
	if !slices.ContainsFunc(s.addons, func(a domain.Addon) bool { return a.ID == addonID }) {
		return CartView{}, fmt.Errorf("service.CartService.ToggleAddon: addon %q: %w", addonID, domain.ErrNotFound)
	}
	sess, err := s.open(ctx, sessionID)
	if err != nil {
		return CartView{}, fmt.Errorf("service.CartService.ToggleAddon: %w", err)
	}

	before := sess.State()
	sess.ToggleAddon(ctx, addonID)
	after := sess.State()
	if selectionsEqual(before.Selections, after.Selections) {
		return CartView{}, fmt.Errorf("service.CartService.ToggleAddon: no selection for the selected experience: %w", domain.ErrNotFound)
	}
	return viewOf(sess), nil
}

// Clear resets the session draft and removes all selections.
func (s *CartService) Clear(ctx context.Context, sessionID string) error {
	sess, err := s.open(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("service.CartService.Clear: %w", err)
	}
	sess.Clear(ctx)
	s.log.InfoContext(ctx, "cart cleared", "session_id", sessionID)
	return nil
}

// PruneStale removes every session whose latest write is older than maxAge
// and returns the number of stored entries removed.
func (s *CartService) PruneStale(ctx context.Context, maxAge time.Duration) (int64, error) {
	if maxAge <= 0 {
		return 0, fmt.Errorf("service.CartService.PruneStale: %w: max age must be positive", domain.ErrValidation)
	}
	n, err := s.entries.PruneStale(ctx, maxAge)
	if err != nil {
		return 0, fmt.Errorf("service.CartService.PruneStale: %w", err)
	}
	if n > 0 {
		s.log.InfoContext(ctx, "pruned idle cart sessions", "entries", n, "max_age", maxAge.String())
	}
	return n, nil
}

// RunPruner calls PruneStale every interval until ctx is done. Failures are
// logged and retried on the next tick.
func (s *CartService) RunPruner(ctx context.Context, maxAge, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.PruneStale(ctx, maxAge); err != nil && ctx.Err() == nil {
				s.log.ErrorContext(ctx, "prune idle cart sessions", "error", err)
			}
		}
	}
}

// open validates sessionID and restores its session from storage.
func (s *CartService) open(ctx context.Context, sessionID string) (*cart.Session, error) {
	if !sessionIDPattern.MatchString(sessionID) {
		return nil, fmt.Errorf("%w: session id must be 1-128 characters of [A-Za-z0-9_-]", domain.ErrValidation)
	}
	return cart.Open(ctx, cart.Options{
		Catalog: s.catalog,
		Addons:  s.addons,
		Store:   entryStore{entries: s.entries, sessionID: sessionID},
		Logger:  s.log.With("session_id", sessionID),
		Now:     s.now,
	}), nil
}

func viewOf(sess *cart.Session) CartView {
	v := CartView{
		State:          sess.State(),
		SelectedAddons: sess.SelectedAddons(),
	}
	if exp, ok := sess.SelectedExperience(); ok {
		v.SelectedExperience = &exp
	}
	return v
}

func validateDraft(u DraftUpdate) error {
	if u.AgeGroup != nil && *u.AgeGroup != "" && !u.AgeGroup.Valid() {
		return fmt.Errorf("%w: unknown age group %q", domain.ErrValidation, *u.AgeGroup)
	}
	if u.Date != nil && *u.Date != "" {
		if _, err := time.Parse(time.DateOnly, *u.Date); err != nil {
			return fmt.Errorf("%w: date must be formatted YYYY-MM-DD", domain.ErrValidation)
		}
	}
	if u.Price != nil && *u.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", domain.ErrValidation)
	}
	return nil
}

func selectionsEqual(a, b []domain.BookingSelection) bool {
	return slices.EqualFunc(a, b, func(x, y domain.BookingSelection) bool {
		return x.ID == y.ID && slices.Equal(x.Addons, y.Addons)
	})
}

// entryStore adapts a CartEntryRepo to the cart.Store of one session.
type entryStore struct {
	entries   repo.CartEntryRepo
	sessionID string
}

func (e entryStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := e.entries.Get(ctx, e.sessionID, key)
	if errors.Is(err, domain.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (e entryStore) Set(ctx context.Context, key, value string) error {
	return e.entries.Set(ctx, e.sessionID, key, value)
}

func (e entryStore) Clear(ctx context.Context, key string) error {
	return e.entries.Clear(ctx, e.sessionID, key)
}

func (e entryStore) ClearAll(ctx context.Context) error {
	return e.entries.ClearSession(ctx, e.sessionID)
}

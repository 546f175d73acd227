package cart

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pkordes/experience-cart/internal/domain"
)

// Storage keys. Each field is serialized independently as JSON.
const (
	KeySelectedExperienceID = "cart:selectedExperienceId"
	KeyAgeGroup             = "cart:ageGroup"
	KeyDate                 = "cart:date"
	KeyPrice                = "cart:price"
	KeyTotalPeople          = "cart:totalPeople"
	KeySelections           = "cart:selections"
)

// Keys lists every key a Session writes, in a fixed order.
var Keys = []string{
	KeySelectedExperienceID,
	KeyAgeGroup,
	KeyDate,
	KeyPrice,
	KeyTotalPeople,
	KeySelections,
}

// SelectionsVersion is the schema version written with cart:selections.
// Version 0 is the untagged JSON array written by older clients, whose
// records may lack price and addons.
const SelectionsVersion = 1

// errNewerSchema marks a stored value written by a newer schema. Such values
// are kept untouched in the store rather than overwritten.
var errNewerSchema = errors.New("unsupported schema version")

type selectionsEnvelope struct {
	Version    int                       `json:"version"`
	Selections []domain.BookingSelection `json:"selections"`
}

// encodeField serializes the value of key from state.
func encodeField(state domain.CartState, key string) (string, error) {
	var v any
	switch key {
	case KeySelectedExperienceID:
		if state.SelectedExperienceID != "" {
			v = state.SelectedExperienceID
		}
	case KeyAgeGroup:
		v = state.AgeGroup
	case KeyDate:
		v = state.Date
	case KeyPrice:
		v = state.Price
	case KeyTotalPeople:
		v = state.TotalPeople
	case KeySelections:
		v = selectionsEnvelope{Version: SelectionsVersion, Selections: state.Selections}
	default:
		return "", fmt.Errorf("cart: unknown key %q", key)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("cart: encode %s: %w", key, err)
	}
	return string(b), nil
}

// decodeField parses raw into the field of state named by key.
// state is left untouched when an error is returned.
func decodeField(state *domain.CartState, key, raw string) error {
	var err error
	switch key {
	case KeySelectedExperienceID:
		var id *string
		if err = json.Unmarshal([]byte(raw), &id); err == nil {
			state.SelectedExperienceID = ""
			if id != nil {
				state.SelectedExperienceID = *id
			}
		}
	case KeyAgeGroup:
		var g domain.AgeGroup
		if err = json.Unmarshal([]byte(raw), &g); err == nil {
			state.AgeGroup = g
		}
	case KeyDate:
		var d string
		if err = json.Unmarshal([]byte(raw), &d); err == nil {
			state.Date = d
		} else if d, ok := rawDate(raw); ok {
			state.Date, err = d, nil
		}
	case KeyPrice:
		var p float64
		if err = json.Unmarshal([]byte(raw), &p); err == nil {
			state.Price = p
		}
	case KeyTotalPeople:
		var n float64
		if err = json.Unmarshal([]byte(raw), &n); err == nil {
			state.TotalPeople = NormalizeTotalPeople(n)
		}
	case KeySelections:
		var sel []domain.BookingSelection
		if sel, err = decodeSelections(raw); err == nil {
			state.Selections = sel
		}
	default:
		err = fmt.Errorf("cart: unknown key %q", key)
	}
	if err != nil {
		return fmt.Errorf("cart: decode %s: %w", key, err)
	}
	return nil
}

// decodeSelections accepts both the versioned envelope and the legacy bare
// array. Records are normalized so the in-memory invariants hold: non-nil
// addons, headcount >= 1 and unique ids (later duplicates are dropped).
func decodeSelections(raw string) ([]domain.BookingSelection, error) {
	trimmed := bytes.TrimSpace([]byte(raw))

	var sel []domain.BookingSelection
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &sel); err != nil {
			return nil, err
		}
	} else {
		var env selectionsEnvelope
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return nil, err
		}
		if env.Version > SelectionsVersion {
			return nil, fmt.Errorf("%w %d", errNewerSchema, env.Version)
		}
		sel = env.Selections
	}

	out := make([]domain.BookingSelection, 0, len(sel))
	seen := make(map[string]bool, len(sel))
	for _, s := range sel {
		if s.ID == "" || seen[s.ID] {
			continue
		}
		seen[s.ID] = true
		if s.Addons == nil {
			s.Addons = []string{}
		}
		s.TotalPeople = NormalizeTotalPeople(float64(s.TotalPeople))
		out = append(out, s)
	}
	return out, nil
}

// rawDate accepts a date stored as a bare string rather than JSON, as older
// clients wrote it. Only the empty string and YYYY-MM-DD are accepted.
func rawDate(raw string) (string, bool) {
	d := strings.TrimSpace(raw)
	if d == "" {
		return "", true
	}
	if _, err := time.Parse(time.DateOnly, d); err != nil {
		return "", false
	}
	return d, true
}

// restore reads every key from store into a fresh state. Missing keys keep
// their defaults and undecodable values are logged and skipped. Keys that
// could not be read, or that hold a newer schema, are held: persist will not
// write over them, so a transient outage or an older binary cannot destroy
// a stored cart.
func (s *Session) restore(ctx context.Context) {
	state := domain.NewCartState()
	s.held = make(map[string]bool)
	for _, key := range Keys {
		raw, ok, err := s.store.Get(ctx, key)
		if err != nil {
			s.held[key] = true
			s.log.WarnContext(ctx, "cart: read stored value", "key", key, "error", err)
			continue
		}
		if !ok {
			continue
		}
		if err := decodeField(&state, key, raw); err != nil {
			if errors.Is(err, errNewerSchema) {
				s.held[key] = true
			}
			s.log.WarnContext(ctx, "cart: discard stored value", "key", key, "error", err)
		}
	}
	state.TotalPeople = NormalizeTotalPeople(float64(state.TotalPeople))
	s.state = state
}

// persist writes the given keys. Failures are logged and otherwise ignored:
// a storage outage must never break an in-progress session. Held keys are
// skipped.
func (s *Session) persist(ctx context.Context, keys ...string) {
	for _, key := range keys {
		if s.held[key] {
			s.log.WarnContext(ctx, "cart: skip write over unloaded value", "key", key)
			continue
		}
		raw, err := encodeField(s.state, key)
		if err == nil {
			err = s.store.Set(ctx, key, raw)
		}
		if err != nil {
			s.log.ErrorContext(ctx, "cart: persist", "key", key, "error", err)
		}
	}
}

// wipe removes every key from the store, in one call when the store
// implements SessionClearer. An explicit clear also releases held keys.
func (s *Session) wipe(ctx context.Context) {
	clear(s.held)
	if sc, ok := s.store.(SessionClearer); ok {
		if err := sc.ClearAll(ctx); err != nil {
			s.log.ErrorContext(ctx, "cart: clear stored session", "error", err)
		}
		return
	}
	for _, key := range Keys {
		if err := s.store.Clear(ctx, key); err != nil {
			s.log.ErrorContext(ctx, "cart: clear stored value", "key", key, "error", err)
		}
	}
}

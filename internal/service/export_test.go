package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/experience-cart/internal/cart"
	"github.com/pkordes/experience-cart/internal/domain"
	"github.com/pkordes/experience-cart/internal/service"
)

// ---- mocks -----------------------------------------------------------------

type mockCartReader struct {
	get func(ctx context.Context, sessionID string) (service.CartView, error)
}

func (m *mockCartReader) Get(ctx context.Context, sessionID string) (service.CartView, error) {
	return m.get(ctx, sessionID)
}

type mockExperienceLookup struct {
	getByID func(ctx context.Context, id string) (domain.Experience, error)
}

func (m *mockExperienceLookup) GetByID(ctx context.Context, id string) (domain.Experience, error) {
	return m.getByID(ctx, id)
}

var (
	_ service.CartReader       = (*mockCartReader)(nil)
	_ service.ExperienceLookup = (*mockExperienceLookup)(nil)
)

func cartWith(selections ...domain.BookingSelection) *mockCartReader {
	return &mockCartReader{get: func(_ context.Context, _ string) (service.CartView, error) {
		st := domain.NewCartState()
		st.Selections = selections
		return service.CartView{State: st}, nil
	}}
}

var testAddons = []domain.Addon{
	{ID: "photo", Title: "Photos", Price: 300},
	{ID: "lunch", Title: "Lunch", Price: 100, PerPerson: true},
}

var titles = &mockExperienceLookup{getByID: func(_ context.Context, id string) (domain.Experience, error) {
	if id == "exp-1" {
		return domain.Experience{ID: id, Title: "Kayak"}, nil
	}
	return domain.Experience{}, domain.ErrNotFound
}}

// ---- tests -----------------------------------------------------------------

func TestExportService_Export_lineTotals(t *testing.T) {
	carts := cartWith(
		domain.BookingSelection{ID: "a", ExperienceID: "exp-1", Price: 500, TotalPeople: 3, Date: "2025-08-01", AgeGroup: domain.AgeGroupAdult, Addons: []string{"lunch", "photo"}},
		domain.BookingSelection{ID: "b", ExperienceID: "exp-1", Price: 500, TotalPeople: 1, Addons: []string{}},
	)
	svc := service.NewExportService(carts, titles, testAddons)

	rows, err := svc.Export(context.Background(), "s1")

	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, domain.CartSummaryRow{
		SelectionID:     "a",
		ExperienceID:    "exp-1",
		ExperienceTitle: "Kayak",
		Date:            "2025-08-01",
		AgeGroup:        domain.AgeGroupAdult,
		TotalPeople:     3,
		UnitPrice:       500,
		AddonTitles:     []string{"Lunch", "Photos"},
		LineTotal:       500*3 + 100*3 + 300,
	}, rows[0])
	assert.Equal(t, "b", rows[1].SelectionID)
	assert.InDelta(t, 500, rows[1].LineTotal, 0.001)
	assert.Equal(t, []string{}, rows[1].AddonTitles)
}

func TestExportService_Export_unknownExperienceAndAddon(t *testing.T) {
	carts := cartWith(domain.BookingSelection{ID: "a", ExperienceID: "gone", Price: 100, TotalPeople: 2, Addons: []string{"retired"}})
	svc := service.NewExportService(carts, titles, testAddons)

	rows, err := svc.Export(context.Background(), "s1")

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Empty(t, rows[0].ExperienceTitle)
	assert.Empty(t, rows[0].AddonTitles)
	assert.InDelta(t, 200, rows[0].LineTotal, 0.001)
}

func TestExportService_Export_emptyCart(t *testing.T) {
	svc := service.NewExportService(cartWith(), titles, testAddons)

	rows, err := svc.Export(context.Background(), "s1")

	require.NoError(t, err)
	require.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestExportService_Export_propagatesCartError(t *testing.T) {
	carts := &mockCartReader{get: func(_ context.Context, _ string) (service.CartView, error) {
		return service.CartView{}, domain.ErrValidation
	}}
	svc := service.NewExportService(carts, titles, testAddons)

	_, err := svc.Export(context.Background(), "bad id")

	assert.True(t, errors.Is(err, domain.ErrValidation))
}

// TestExportService_Export_endToEnd runs the export over a real cart service
// and catalog.
func TestExportService_Export_endToEnd(t *testing.T) {
	carts, _ := newCartService(t)
	ctx := context.Background()
	_, err := carts.Hydrate(ctx, "s1", "exp-003")
	require.NoError(t, err)
	_, err = carts.UpdateDraft(ctx, "s1", service.DraftUpdate{TotalPeople: ptr(4.0)})
	require.NoError(t, err)
	_, err = carts.AddSelection(ctx, "s1")
	require.NoError(t, err)
	_, err = carts.ToggleAddon(ctx, "s1", "lunch")
	require.NoError(t, err)

	c := defaultCatalog(t)
	svc := service.NewExportService(carts, service.NewCatalogService(c, nil), cart.DefaultAddons())

	rows, err := svc.Export(ctx, "s1")

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "exp-003", rows[0].ExperienceID)
	assert.Equal(t, 4, rows[0].TotalPeople)
	assert.InDelta(t, 295*4+145*4, rows[0].LineTotal, 0.001)
}

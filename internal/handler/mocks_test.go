package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pkordes/experience-cart/internal/domain"
	"github.com/pkordes/experience-cart/internal/handler"
	"github.com/pkordes/experience-cart/internal/service"
)

// ---- mock CatalogServicer --------------------------------------------------

// mockCatalogServicer is a test double for handler.CatalogServicer.
// Set only the method fields your test needs.
type mockCatalogServicer struct {
	search  func(ctx context.Context, c domain.SearchCriteria, sort domain.SortOption, page domain.PaginationParams) ([]domain.Experience, int, error)
	getByID func(ctx context.Context, id string) (domain.Experience, error)
	addons  func(ctx context.Context) ([]domain.Addon, error)
}

func (m *mockCatalogServicer) Search(ctx context.Context, c domain.SearchCriteria, sort domain.SortOption, page domain.PaginationParams) ([]domain.Experience, int, error) {
	return m.search(ctx, c, sort, page)
}
func (m *mockCatalogServicer) GetByID(ctx context.Context, id string) (domain.Experience, error) {
	return m.getByID(ctx, id)
}
func (m *mockCatalogServicer) Addons(ctx context.Context) ([]domain.Addon, error) {
	return m.addons(ctx)
}

// ---- mock CartServicer -----------------------------------------------------

// mockCartServicer is a test double for handler.CartServicer.
type mockCartServicer struct {
	get             func(ctx context.Context, sessionID string) (service.CartView, error)
	updateDraft     func(ctx context.Context, sessionID string, u service.DraftUpdate) (service.CartView, error)
	hydrate         func(ctx context.Context, sessionID, experienceID string) (service.CartView, error)
	addSelection    func(ctx context.Context, sessionID string) (domain.BookingSelection, error)
	removeSelection func(ctx context.Context, sessionID, selectionID string) error
	toggleAddon     func(ctx context.Context, sessionID, addonID string) (service.CartView, error)
	clear           func(ctx context.Context, sessionID string) error
}

func (m *mockCartServicer) Get(ctx context.Context, sessionID string) (service.CartView, error) {
	return m.get(ctx, sessionID)
}
func (m *mockCartServicer) UpdateDraft(ctx context.Context, sessionID string, u service.DraftUpdate) (service.CartView, error) {
	return m.updateDraft(ctx, sessionID, u)
}
func (m *mockCartServicer) Hydrate(ctx context.Context, sessionID, experienceID string) (service.CartView, error) {
	return m.hydrate(ctx, sessionID, experienceID)
}
func (m *mockCartServicer) AddSelection(ctx context.Context, sessionID string) (domain.BookingSelection, error) {
	return m.addSelection(ctx, sessionID)
}
func (m *mockCartServicer) RemoveSelection(ctx context.Context, sessionID, selectionID string) error {
	return m.removeSelection(ctx, sessionID, selectionID)
}
func (m *mockCartServicer) ToggleAddon(ctx context.Context, sessionID, addonID string) (service.CartView, error) {
	return m.toggleAddon(ctx, sessionID, addonID)
}
func (m *mockCartServicer) Clear(ctx context.Context, sessionID string) error {
	return m.clear(ctx, sessionID)
}

// ---- mock ExportServicer ---------------------------------------------------

type mockExportServicer struct {
	export func(ctx context.Context, sessionID string) ([]domain.CartSummaryRow, error)
}

func (m *mockExportServicer) Export(ctx context.Context, sessionID string) ([]domain.CartSummaryRow, error) {
	return m.export(ctx, sessionID)
}

// compile-time checks: mocks must satisfy the handler interfaces.
var (
	_ handler.CatalogServicer = (*mockCatalogServicer)(nil)
	_ handler.CartServicer    = (*mockCartServicer)(nil)
	_ handler.ExportServicer  = (*mockExportServicer)(nil)
)

// ---- helpers ---------------------------------------------------------------

// newHTTPHandler wires a Server with the given mocks into the chi router.
// This mirrors how main.go wires it in production, minus middleware.
func newHTTPHandler(catalog handler.CatalogServicer, carts handler.CartServicer, export handler.ExportServicer) http.Handler {
	log := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return handler.NewServer(catalog, carts, export, log).Routes()
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func decodeError(t *testing.T, body io.Reader) handler.ErrorResponse {
	t.Helper()
	var resp handler.ErrorResponse
	require.NoError(t, json.NewDecoder(body).Decode(&resp))
	return resp
}

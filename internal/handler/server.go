// Package handler implements the HTTP handlers for the experience cart API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (health.go, experience.go, cart.go, export.go) but all share the same
// Server struct so they can access its dependencies.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/experience-cart/internal/domain"
	"github.com/pkordes/experience-cart/internal/service"
)

// CatalogServicer defines the catalog operations the experience handlers
// depend on. Defining the interface here (in the consumer package) lets
// handler tests inject a mock without touching the catalog or storage.
type CatalogServicer interface {
	Search(ctx context.Context, criteria domain.SearchCriteria, sort domain.SortOption, page domain.PaginationParams) ([]domain.Experience, int, error)
	GetByID(ctx context.Context, id string) (domain.Experience, error)
	Addons(ctx context.Context) ([]domain.Addon, error)
}

// CartServicer defines the cart session operations the cart handlers depend on.
type CartServicer interface {
	Get(ctx context.Context, sessionID string) (service.CartView, error)
	UpdateDraft(ctx context.Context, sessionID string, u service.DraftUpdate) (service.CartView, error)
	Hydrate(ctx context.Context, sessionID, experienceID string) (service.CartView, error)
	AddSelection(ctx context.Context, sessionID string) (domain.BookingSelection, error)
	RemoveSelection(ctx context.Context, sessionID, selectionID string) error
	ToggleAddon(ctx context.Context, sessionID, addonID string) (service.CartView, error)
	Clear(ctx context.Context, sessionID string) error
}

// ExportServicer defines the cart export operation.
type ExportServicer interface {
	Export(ctx context.Context, sessionID string) ([]domain.CartSummaryRow, error)
}

// Server holds the dependencies shared by every handler.
// Nil services are allowed in tests that never reach them.
type Server struct {
	catalog CatalogServicer
	carts   CartServicer
	export  ExportServicer
	log     *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
func NewServer(catalog CatalogServicer, carts CartServicer, export ExportServicer, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{catalog: catalog, carts: carts, export: export, log: log}
}

// NewHealthHandler returns a Server for health-check-only use.
func NewHealthHandler() *Server {
	return NewServer(nil, nil, nil, nil)
}

// Routes mounts every endpoint on a fresh chi router. Cross-cutting
// middleware is applied by the caller.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, notFoundBody("route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Error: ErrorDetail{Code: "method_not_allowed", Message: "method not allowed"}})
	})

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Get("/experiences", s.ListExperiences)
	r.Get("/experiences/{id}", s.GetExperience)
	r.Get("/addons", s.ListAddons)

	r.Route("/sessions/{sessionID}/cart", func(r chi.Router) {
		r.Get("/", s.GetCart)
		r.Delete("/", s.ClearCart)
		r.Patch("/draft", s.UpdateDraft)
		r.Post("/draft/hydrate", s.HydrateDraft)
		r.Post("/selections", s.AddSelection)
		r.Delete("/selections/{selectionID}", s.RemoveSelection)
		r.Post("/addons/{addonID}/toggle", s.ToggleAddon)
		r.Get("/export", s.GetExport)
	})

	return r
}

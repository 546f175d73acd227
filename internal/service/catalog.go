// Package service contains the business operations behind the HTTP API.
// Services validate boundary input, enforce reference checks and orchestrate
// the catalog engines, cart sessions and storage. No SQL or HTTP lives here.
package service

import (
	"context"
	"fmt"

	"github.com/pkordes/experience-cart/internal/catalog"
	"github.com/pkordes/experience-cart/internal/domain"
)

// CatalogService answers read-only catalog queries.
type CatalogService struct {
	catalog *catalog.Catalog
	addons  []domain.Addon
}

// NewCatalogService constructs a CatalogService over an immutable catalog and
// the addon catalog offered on selections.
func NewCatalogService(c *catalog.Catalog, addons []domain.Addon) *CatalogService {
	return &CatalogService{catalog: c, addons: addons}
}

// Search filters the catalog by criteria, orders the matches by sort and
// returns the requested page together with the total number of matches.
// Always returns a non-nil slice.
func (s *CatalogService) Search(ctx context.Context, criteria domain.SearchCriteria, sort domain.SortOption, page domain.PaginationParams) ([]domain.Experience, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, fmt.Errorf("service.CatalogService.Search: %w", err)
	}
	matches := catalog.Sort(catalog.Filter(s.catalog.All(), criteria), sort)
	start, end := page.Window(len(matches))
	return matches[start:end], len(matches), nil
}

// GetByID returns a single experience.
// Returns domain.ErrNotFound if the id is not in the catalog.
func (s *CatalogService) GetByID(ctx context.Context, id string) (domain.Experience, error) {
	exp, ok := s.catalog.Find(id)
	if !ok {
		return domain.Experience{}, fmt.Errorf("service.CatalogService.GetByID: experience %q: %w", id, domain.ErrNotFound)
	}
	return exp, nil
}

// Addons returns the addon catalog.
func (s *CatalogService) Addons(ctx context.Context) ([]domain.Addon, error) {
	out := make([]domain.Addon, len(s.addons))
	copy(out, s.addons)
	return out, nil
}

package service

import (
	"context"
	"fmt"

	"github.com/pkordes/experience-cart/internal/domain"
)

// CartReader is the part of CartService the export depends on.
type CartReader interface {
	Get(ctx context.Context, sessionID string) (CartView, error)
}

// ExperienceLookup resolves catalog experiences by id.
type ExperienceLookup interface {
	GetByID(ctx context.Context, id string) (domain.Experience, error)
}

// ExportService flattens a session's cart into summary rows.
type ExportService struct {
	carts   CartReader
	catalog ExperienceLookup
	addons  []domain.Addon
}

// NewExportService constructs an ExportService.
func NewExportService(carts CartReader, catalog ExperienceLookup, addons []domain.Addon) *ExportService {
	return &ExportService{carts: carts, catalog: catalog, addons: addons}
}

// Export returns one row per selection, in cart order.
// Selections whose experience has left the catalog keep an empty title.
// Always returns a non-nil slice.
func (s *ExportService) Export(ctx context.Context, sessionID string) ([]domain.CartSummaryRow, error) {
	view, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}

	rows := make([]domain.CartSummaryRow, 0, len(view.State.Selections))
	for _, sel := range view.State.Selections {
		row := domain.CartSummaryRow{
			SelectionID:  sel.ID,
			ExperienceID: sel.ExperienceID,
			Date:         sel.Date,
			AgeGroup:     sel.AgeGroup,
			TotalPeople:  sel.TotalPeople,
			UnitPrice:    sel.Price,
			AddonTitles:  []string{},
			LineTotal:    sel.Price * float64(sel.TotalPeople),
		}
		if exp, err := s.catalog.GetByID(ctx, sel.ExperienceID); err == nil {
			row.ExperienceTitle = exp.Title
		}
		for _, id := range sel.Addons {
			a, ok := s.addon(id)
			if !ok {
				continue
			}
			row.AddonTitles = append(row.AddonTitles, a.Title)
			if a.PerPerson {
				row.LineTotal += a.Price * float64(sel.TotalPeople)
			} else {
				row.LineTotal += a.Price
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *ExportService) addon(id string) (domain.Addon, bool) {
	for _, a := range s.addons {
		if a.ID == id {
			return a, true
		}
	}
	return domain.Addon{}, false
}

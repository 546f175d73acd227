package domain

import "math"

// PaginationParams carries page/limit values from the HTTP layer to the
// catalog service. Page is 1-indexed. Limit is capped at 100.
type PaginationParams struct {
	Page  int
	Limit int
}

// NewPaginationParams builds a PaginationParams from optional query values.
// Nil pointers fall back to page=1, limit=20.
func NewPaginationParams(page, limit *int) PaginationParams {
	p := PaginationParams{Page: 1, Limit: 20}
	if page != nil && *page >= 1 {
		p.Page = *page
	}
	if limit != nil && *limit >= 1 {
		p.Limit = *limit
		if p.Limit > 100 {
			p.Limit = 100
		}
	}
	return p
}

// Offset returns the zero-based index of the first item on the page.
// It saturates instead of overflowing for very large page numbers.
func (p PaginationParams) Offset() int {
	if p.Page <= 1 || p.Limit <= 0 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.Limit {
		return math.MaxInt
	}
	return (p.Page - 1) * p.Limit
}

// Window returns the [start, end) bounds of the page within a result set of
// length total. Pages past the end yield an empty window.
func (p PaginationParams) Window(total int) (start, end int) {
	if total <= 0 || p.Limit <= 0 {
		return 0, 0
	}
	if p.Page-1 >= (total+p.Limit-1)/p.Limit {
		return total, total
	}
	start = p.Offset()
	return start, min(start+p.Limit, total)
}

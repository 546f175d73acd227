package handler

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/experience-cart/internal/domain"
)

// ListExperiencesParams are the query parameters of GET /experiences.
type ListExperiencesParams struct {
	Location  *string             `form:"location"`
	Date      *openapi_types.Date `form:"date"`
	GroupSize *int                `form:"group_size"`
	AgeGroup  *string             `form:"age_group"`
	Sort      *string             `form:"sort"`
	Page      *int                `form:"page"`
	Limit     *int                `form:"limit"`
}

// Pagination describes the page returned by a list endpoint.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// ExperienceList is the body of GET /experiences.
type ExperienceList struct {
	Data       []domain.Experience `json:"data"`
	Pagination Pagination          `json:"pagination"`
}

// ListExperiences handles GET /experiences.
// Supports ?location, ?date (YYYY-MM-DD), ?group_size, ?age_group, ?sort,
// ?page and ?limit. Empty values mean no constraint.
func (s *Server) ListExperiences(w http.ResponseWriter, r *http.Request) {
	params, err := bindListExperiencesParams(r.URL.Query())
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody(err.Error()))
		return
	}
	criteria, sort, err := params.criteria()
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, validationBody(err))
		return
	}

	page := domain.NewPaginationParams(params.Page, params.Limit)
	experiences, total, err := s.catalog.Search(r.Context(), criteria, sort, page)
	if err != nil {
		s.writeError(w, r, err, "experience not found")
		return
	}

	w.Header().Set("X-Total-Count", strconv.Itoa(total))
	writeJSON(w, http.StatusOK, ExperienceList{
		Data: experiences,
		Pagination: Pagination{
			Page:  page.Page,
			Limit: page.Limit,
			Total: total,
		},
	})
}

// GetExperience handles GET /experiences/{id}.
func (s *Server) GetExperience(w http.ResponseWriter, r *http.Request) {
	exp, err := s.catalog.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err, "experience not found")
		return
	}
	writeJSON(w, http.StatusOK, exp)
}

// ListAddons handles GET /addons.
func (s *Server) ListAddons(w http.ResponseWriter, r *http.Request) {
	addons, err := s.catalog.Addons(r.Context())
	if err != nil {
		s.writeError(w, r, err, "addon not found")
		return
	}
	writeJSON(w, http.StatusOK, addons)
}

// bindListExperiencesParams binds the query string once at the boundary.
// Empty values are dropped first so that ?date= reads as "no date".
func bindListExperiencesParams(query url.Values) (ListExperiencesParams, error) {
	present := url.Values{}
	for k, vs := range query {
		for _, v := range vs {
			if v != "" {
				present.Add(k, v)
			}
		}
	}

	var p ListExperiencesParams
	binds := []struct {
		name string
		dest any
	}{
		{"location", &p.Location},
		{"date", &p.Date},
		{"group_size", &p.GroupSize},
		{"age_group", &p.AgeGroup},
		{"sort", &p.Sort},
		{"page", &p.Page},
		{"limit", &p.Limit},
	}
	for _, b := range binds {
		if err := runtime.BindQueryParameter("form", true, false, b.name, present, b.dest); err != nil {
			return ListExperiencesParams{}, fmt.Errorf("invalid format for parameter %s", b.name)
		}
	}
	return p, nil
}

// criteria converts bound parameters into domain values.
// Returns domain.ErrValidation for unknown enum values or a group size below 1.
func (p ListExperiencesParams) criteria() (domain.SearchCriteria, domain.SortOption, error) {
	var c domain.SearchCriteria
	if p.Location != nil {
		c.Location = *p.Location
	}
	c.Date = p.Date
	if p.GroupSize != nil {
		if *p.GroupSize < 1 {
			return domain.SearchCriteria{}, "", fmt.Errorf("%w: group_size must be at least 1", domain.ErrValidation)
		}
		c.GroupSize = *p.GroupSize
	}
	if p.AgeGroup != nil {
		g, err := domain.ParseAgeGroup(*p.AgeGroup)
		if err != nil {
			return domain.SearchCriteria{}, "", err
		}
		c.AgeGroup = g
	}

	var raw string
	if p.Sort != nil {
		raw = *p.Sort
	}
	sort, err := domain.ParseSortOption(raw)
	if err != nil {
		return domain.SearchCriteria{}, "", err
	}
	return c, sort, nil
}

package handler

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/experience-cart/internal/domain"
)

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{
	"selection_id", "experience_id", "experience_title", "date", "age_group",
	"total_people", "unit_price", "addons", "line_total",
}

// ExportRow is one line of the JSON cart export.
type ExportRow struct {
	SelectionID     string   `json:"selection_id"`
	ExperienceID    string   `json:"experience_id"`
	ExperienceTitle *string  `json:"experience_title,omitempty"`
	Date            *string  `json:"date,omitempty"`
	AgeGroup        *string  `json:"age_group,omitempty"`
	TotalPeople     int      `json:"total_people"`
	UnitPrice       float64  `json:"unit_price"`
	Addons          []string `json:"addons"`
	LineTotal       float64  `json:"line_total"`
}

// GetExport handles GET /sessions/{sessionID}/cart/export.
// Use ?format=csv to receive CSV; default is JSON.
func (s *Server) GetExport(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format != "" && format != "csv" && format != "json" {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody("format must be csv or json"))
		return
	}

	sessionID := chi.URLParam(r, "sessionID")
	rows, err := s.export.Export(r.Context(), sessionID)
	if err != nil {
		s.writeError(w, r, err, "cart not found")
		return
	}

	if format == "csv" {
		writeCSV(w, sessionID, rows)
		return
	}
	writeJSON(w, http.StatusOK, buildJSONRows(rows))
}

// buildJSONRows converts domain rows to the JSON export shape.
func buildJSONRows(rows []domain.CartSummaryRow) []ExportRow {
	out := make([]ExportRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, domainRowToExportRow(r))
	}
	return out
}

// writeCSV encodes domain rows as CSV.
// Addon titles within a row are pipe-separated ("|") to keep each selection
// on a single CSV line.
func writeCSV(w http.ResponseWriter, sessionID string, rows []domain.CartSummaryRow) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	//nolint:errcheck // bytes.Buffer.Write never returns an error.
	cw.Write(csvHeaders)
	for _, r := range rows {
		//nolint:errcheck
		cw.Write(domainRowToCSVRecord(r))
	}
	cw.Flush()

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="cart-%s.csv"`, sessionID))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck
	buf.WriteTo(w)
}

// domainRowToExportRow maps a domain.CartSummaryRow to the JSON row.
// Fields that are empty strings become nil pointers (omitempty in JSON).
func domainRowToExportRow(r domain.CartSummaryRow) ExportRow {
	row := ExportRow{
		SelectionID:  r.SelectionID,
		ExperienceID: r.ExperienceID,
		TotalPeople:  r.TotalPeople,
		UnitPrice:    r.UnitPrice,
		Addons:       r.AddonTitles,
		LineTotal:    r.LineTotal,
	}
	if row.Addons == nil {
		row.Addons = []string{}
	}
	if r.ExperienceTitle != "" {
		row.ExperienceTitle = &r.ExperienceTitle
	}
	if r.Date != "" {
		row.Date = &r.Date
	}
	if r.AgeGroup != "" {
		g := string(r.AgeGroup)
		row.AgeGroup = &g
	}
	return row
}

// domainRowToCSVRecord encodes a domain.CartSummaryRow as a flat string slice.
func domainRowToCSVRecord(r domain.CartSummaryRow) []string {
	return []string{
		r.SelectionID,
		r.ExperienceID,
		r.ExperienceTitle,
		r.Date,
		string(r.AgeGroup),
		strconv.Itoa(r.TotalPeople),
		formatAmount(r.UnitPrice),
		strings.Join(r.AddonTitles, "|"),
		formatAmount(r.LineTotal),
	}
}

// formatAmount renders a price without exponent or trailing zeros.
func formatAmount(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

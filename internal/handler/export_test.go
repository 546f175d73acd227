package handler_test

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/experience-cart/internal/domain"
	"github.com/pkordes/experience-cart/internal/handler"
)

// summaryRowFixture returns a fully-populated domain.CartSummaryRow for testing.
func summaryRowFixture() domain.CartSummaryRow {
	return domain.CartSummaryRow{
		SelectionID:     "sel-1",
		ExperienceID:    "exp-001",
		ExperienceTitle: "Kajakpaddling, skärgården",
		Date:            "2025-08-15",
		AgeGroup:        domain.AgeGroupAdult,
		TotalPeople:     2,
		UnitPrice:       795,
		AddonTitles:     []string{"Lunch", "Fotopaket"},
		LineTotal:       795*2 + 145*2 + 349,
	}
}

func exportReturning(rows ...domain.CartSummaryRow) *mockExportServicer {
	return &mockExportServicer{
		export: func(context.Context, string) ([]domain.CartSummaryRow, error) { return rows, nil },
	}
}

// ---- JSON ------------------------------------------------------------------

func TestGetExport_DefaultJSON_EmptyResult(t *testing.T) {
	rec := httptest.NewRecorder()
	newHTTPHandler(nil, nil, exportReturning()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sessions/s1/cart/export", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestGetExport_FormatJSON_ExplicitParam(t *testing.T) {
	row := summaryRowFixture()

	rec := httptest.NewRecorder()
	newHTTPHandler(nil, nil, exportReturning(row)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sessions/s1/cart/export?format=json", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var rows []handler.ExportRow
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&rows))
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].ExperienceTitle)
	assert.Equal(t, row.ExperienceTitle, *rows[0].ExperienceTitle)
	assert.Equal(t, []string{"Lunch", "Fotopaket"}, rows[0].Addons)
	assert.InDelta(t, row.LineTotal, rows[0].LineTotal, 0.001)
}

func TestGetExport_JSON_MissingTitleAndDateAreOmitted(t *testing.T) {
	row := domain.CartSummaryRow{SelectionID: "sel-2", ExperienceID: "gone", TotalPeople: 1}

	rec := httptest.NewRecorder()
	newHTTPHandler(nil, nil, exportReturning(row)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sessions/s1/cart/export", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var rows []handler.ExportRow
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&rows))
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0].ExperienceTitle)
	assert.Nil(t, rows[0].Date)
	assert.Nil(t, rows[0].AgeGroup)
	assert.Equal(t, []string{}, rows[0].Addons)
}

// ---- CSV -------------------------------------------------------------------

func TestGetExport_CSV_FormatParam_Headers(t *testing.T) {
	rec := httptest.NewRecorder()
	newHTTPHandler(nil, nil, exportReturning()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sessions/s1/cart/export?format=csv", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Equal(t, `attachment; filename="cart-s1.csv"`, rec.Header().Get("Content-Disposition"))
}

func TestGetExport_CSV_EmptyResult_HasHeaderRow(t *testing.T) {
	rec := httptest.NewRecorder()
	newHTTPHandler(nil, nil, exportReturning()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sessions/s1/cart/export?format=csv", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.HasPrefix(body, "selection_id,"), "CSV should start with header row, got: %q", body)
}

func TestGetExport_CSV_OneRow(t *testing.T) {
	rec := httptest.NewRecorder()
	newHTTPHandler(nil, nil, exportReturning(summaryRowFixture())).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sessions/s1/cart/export?format=csv", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	records, err := csv.NewReader(rec.Body).ReadAll()
	require.NoError(t, err)
	// Header + 1 data row.
	require.Len(t, records, 2)
	assert.Equal(t, []string{
		"sel-1", "exp-001", "Kajakpaddling, skärgården", "2025-08-15", "adult",
		"2", "795", "Lunch|Fotopaket", "2229",
	}, records[1])
}

// ---- error handling --------------------------------------------------------

func TestGetExport_UnknownFormat_Returns422(t *testing.T) {
	svc := &mockExportServicer{}

	rec := httptest.NewRecorder()
	newHTTPHandler(nil, nil, svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sessions/s1/cart/export?format=xml", nil))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestGetExport_ServiceError_Returns500(t *testing.T) {
	svc := &mockExportServicer{
		export: func(context.Context, string) ([]domain.CartSummaryRow, error) {
			return nil, fmt.Errorf("database unavailable")
		},
	}

	rec := httptest.NewRecorder()
	newHTTPHandler(nil, nil, svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sessions/s1/cart/export", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

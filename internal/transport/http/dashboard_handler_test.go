package http

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apierrors "leadscope/internal/errors"
	"leadscope/internal/exporter"
	"leadscope/internal/middleware"
	"leadscope/internal/services"
	"leadscope/internal/shared/testutil"
	"leadscope/pkg/contracts/domain"
)

func newDashboardHandler(dash *MockDashboardBuilder, exports *MockExporter) *DashboardHandler {
	return NewDashboardHandler(dash, exports, middleware.NewRequestValidator(1<<20, testLogger()), testErrorHandler(), testLogger())
}

func TestDashboardHandler_Dashboard(t *testing.T) {
	items := []domain.ClientClassification{
		testutil.Classification("Ana", "ana@example.com", testutil.WithSalesperson("Boris"), testutil.WithClosed(true)),
	}
	filters := domain.FilterCriteria{Salespeople: []string{"Boris"}, Closed: []string{domain.ClosedTrue}}

	dash := new(MockDashboardBuilder)
	dash.On("Build", mock.Anything, items, filters, "ana").
		Return(&domain.Dashboard{TotalLeads: 1, ClosedLeads: 1, CloseRate: 100}, nil)
	h := newDashboardHandler(dash, new(MockExporter))

	rec := serve(h.Routes(), jsonRequest(t, "/", map[string]any{
		"classifications": items,
		"filters":         filters,
		"search":          "ana",
	}))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"totalLeads":1`)
	assert.Contains(t, rec.Body.String(), `"closeRate":100`)
	dash.AssertExpectations(t)
}

func TestDashboardHandler_DashboardRejectsBadClosedFilter(t *testing.T) {
	dash := new(MockDashboardBuilder)
	h := newDashboardHandler(dash, new(MockExporter))

	rec := serve(h.Routes(), jsonRequest(t, "/", map[string]any{
		"classifications": []domain.ClientClassification{},
		"filters":         map[string]any{"closed": []string{"maybe"}},
	}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, apierrors.TypeValidation, decodeProblem(t, rec)["type"])
	dash.AssertNotCalled(t, "Build", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDashboardHandler_FilterOptions(t *testing.T) {
	items := []domain.ClientClassification{testutil.Classification("Ana", "ana@example.com")}
	options := domain.FilterOptions{
		Salespeople: []string{"Boris"},
		Closed:      []string{domain.ClosedAll, domain.ClosedTrue, domain.ClosedFalse},
	}

	dash := new(MockDashboardBuilder)
	dash.On("FilterOptions", items).Return(options)
	h := newDashboardHandler(dash, new(MockExporter))

	rec := serve(h.Routes(), jsonRequest(t, "/filter-options", map[string]any{"classifications": items}))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"salespeople":["Boris"]`)
	assert.Contains(t, rec.Body.String(), `"closed":["all","true","false"]`)
}

func TestDashboardHandler_Export(t *testing.T) {
	items := []domain.ClientClassification{testutil.Classification("Ana", "ana@example.com")}
	body := map[string]any{"classifications": items}

	tests := []struct {
		name       string
		target     string
		body       any
		setup      func(m *MockExporter)
		wantStatus int
		check      func(t *testing.T, header http.Header, body string)
	}{
		{
			name:   "csv by default",
			target: "/export",
			body:   body,
			setup: func(m *MockExporter) {
				m.On("Render", mock.Anything, exporter.FormatCSV, items).Return(&services.ExportFile{
					FileName:    "clasificaciones-20240301-140509.csv",
					ContentType: "text/csv; charset=utf-8",
					Data:        []byte("\ufeffNombre\nAna\n"),
				}, nil)
			},
			wantStatus: http.StatusOK,
			check: func(t *testing.T, header http.Header, body string) {
				assert.Equal(t, "text/csv; charset=utf-8", header.Get("Content-Type"))
				assert.Equal(t, `attachment; filename="clasificaciones-20240301-140509.csv"`, header.Get("Content-Disposition"))
				assert.Equal(t, "\ufeffNombre\nAna\n", body)
			},
		},
		{
			name:   "xlsx",
			target: "/export?format=XLSX",
			body:   body,
			setup: func(m *MockExporter) {
				m.On("Render", mock.Anything, exporter.FormatXLSX, items).Return(&services.ExportFile{
					FileName:    "clasificaciones.xlsx",
					ContentType: xlsxType,
					Data:        []byte("PK"),
				}, nil)
			},
			wantStatus: http.StatusOK,
			check: func(t *testing.T, header http.Header, body string) {
				assert.Equal(t, xlsxType, header.Get("Content-Type"))
				assert.Equal(t, "2", header.Get("Content-Length"))
			},
		},
		{
			name:       "unknown format",
			target:     "/export?format=pdf",
			body:       body,
			wantStatus: http.StatusBadRequest,
			check: func(t *testing.T, _ http.Header, body string) {
				assert.Contains(t, body, "format must be one of: csv, xlsx, sheets")
			},
		},
		{
			name:       "nothing to export",
			target:     "/export",
			body:       map[string]any{"classifications": []any{}},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:   "sheets",
			target: "/export?format=sheets",
			body:   body,
			setup: func(m *MockExporter) {
				m.On("PublishToSheets", mock.Anything, items).Return(&exporter.SheetsResult{
					SpreadsheetID: "sheet-1",
					UpdatedRange:  "Clasificaciones!A1:M2",
					UpdatedRows:   2,
				}, nil)
			},
			wantStatus: http.StatusOK,
			check: func(t *testing.T, _ http.Header, body string) {
				assert.JSONEq(t, `{"spreadsheetId":"sheet-1","updatedRange":"Clasificaciones!A1:M2","updatedRows":2}`, body)
			},
		},
		{
			name:   "sheets not configured",
			target: "/export?format=sheets",
			body:   body,
			setup: func(m *MockExporter) {
				m.On("PublishToSheets", mock.Anything, items).Return(nil, exporter.ErrSheetsNotConfigured)
			},
			wantStatus: http.StatusServiceUnavailable,
			check: func(t *testing.T, _ http.Header, body string) {
				assert.Contains(t, body, apierrors.TypeServiceDown)
			},
		},
		{
			name:   "sheets upstream failure",
			target: "/export?format=sheets",
			body:   body,
			setup: func(m *MockExporter) {
				m.On("PublishToSheets", mock.Anything, items).Return(nil, errors.New("googleapi: Error 403"))
			},
			wantStatus: http.StatusBadGateway,
			check: func(t *testing.T, _ http.Header, body string) {
				assert.Contains(t, body, "Google Sheets request failed")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exports := new(MockExporter)
			if tt.setup != nil {
				tt.setup(exports)
			}
			h := newDashboardHandler(new(MockDashboardBuilder), exports)

			rec := serve(h.Routes(), jsonRequest(t, tt.target, tt.body))

			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.check != nil {
				tt.check(t, rec.Header(), rec.Body.String())
			}
			exports.AssertExpectations(t)
		})
	}
}

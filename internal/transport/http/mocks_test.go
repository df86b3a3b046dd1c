package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apierrors "leadscope/internal/errors"
	"leadscope/internal/exporter"
	"leadscope/internal/services"
	"leadscope/pkg/contracts/domain"
)

type MockLeadProcessor struct {
	mock.Mock
}

func (m *MockLeadProcessor) ParseUpload(ctx context.Context, u *services.Upload) (*domain.CsvParseResult, error) {
	args := m.Called(ctx, u)
	res, _ := args.Get(0).(*domain.CsvParseResult)
	return res, args.Error(1)
}

func (m *MockLeadProcessor) UploadAndClassify(ctx context.Context, u *services.Upload) (*services.UploadResult, error) {
	args := m.Called(ctx, u)
	res, _ := args.Get(0).(*services.UploadResult)
	return res, args.Error(1)
}

func (m *MockLeadProcessor) Classify(ctx context.Context, clients []domain.ClientMeeting) (*domain.ClassificationResult, error) {
	args := m.Called(ctx, clients)
	res, _ := args.Get(0).(*domain.ClassificationResult)
	return res, args.Error(1)
}

type MockRecommendationProvider struct {
	mock.Mock
}

func (m *MockRecommendationProvider) Recommend(ctx context.Context, items []domain.ClientClassification) (*domain.ThreeSRecommendations, error) {
	args := m.Called(ctx, items)
	res, _ := args.Get(0).(*domain.ThreeSRecommendations)
	return res, args.Error(1)
}

type MockDashboardBuilder struct {
	mock.Mock
}

func (m *MockDashboardBuilder) Build(ctx context.Context, items []domain.ClientClassification, filters domain.FilterCriteria, search string) (*domain.Dashboard, error) {
	args := m.Called(ctx, items, filters, search)
	res, _ := args.Get(0).(*domain.Dashboard)
	return res, args.Error(1)
}

func (m *MockDashboardBuilder) FilterOptions(items []domain.ClientClassification) domain.FilterOptions {
	args := m.Called(items)
	return args.Get(0).(domain.FilterOptions)
}

type MockExporter struct {
	mock.Mock
}

func (m *MockExporter) Render(ctx context.Context, format exporter.Format, items []domain.ClientClassification) (*services.ExportFile, error) {
	args := m.Called(ctx, format, items)
	res, _ := args.Get(0).(*services.ExportFile)
	return res, args.Error(1)
}

func (m *MockExporter) PublishToSheets(ctx context.Context, items []domain.ClientClassification) (*exporter.SheetsResult, error) {
	args := m.Called(ctx, items)
	res, _ := args.Get(0).(*exporter.SheetsResult)
	return res, args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testErrorHandler() *apierrors.ErrorHandler {
	return apierrors.NewErrorHandler(testLogger(), false)
}

// decodeProblem reads an RFC 7807 body.
func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var problem map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem), rec.Body.String())
	return problem
}

// serve routes req through router and returns the recorded response.
func serve(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

package http

import (
	"context"

	"leadscope/internal/exporter"
	"leadscope/internal/services"
	"leadscope/pkg/contracts/domain"
)

// LeadProcessor parses and classifies uploaded lead documents.
type LeadProcessor interface {
	ParseUpload(ctx context.Context, u *services.Upload) (*domain.CsvParseResult, error)
	UploadAndClassify(ctx context.Context, u *services.Upload) (*services.UploadResult, error)
	Classify(ctx context.Context, clients []domain.ClientMeeting) (*domain.ClassificationResult, error)
}

// RecommendationProvider derives 3S recommendations from classifications.
type RecommendationProvider interface {
	Recommend(ctx context.Context, items []domain.ClientClassification) (*domain.ThreeSRecommendations, error)
}

// DashboardBuilder aggregates classifications for the dashboard.
type DashboardBuilder interface {
	Build(ctx context.Context, items []domain.ClientClassification, filters domain.FilterCriteria, search string) (*domain.Dashboard, error)
	FilterOptions(items []domain.ClientClassification) domain.FilterOptions
}

// Exporter renders or publishes classifications.
type Exporter interface {
	Render(ctx context.Context, format exporter.Format, items []domain.ClientClassification) (*services.ExportFile, error)
	PublishToSheets(ctx context.Context, items []domain.ClientClassification) (*exporter.SheetsResult, error)
}

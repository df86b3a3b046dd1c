package services

import (
	"context"
	"log/slog"

	"leadscope/internal/analytics"
	"leadscope/pkg/contracts/domain"
)

// DashboardService computes the chart data of a filtered view.
type DashboardService struct {
	logger *slog.Logger
}

// NewDashboardService creates a dashboard service.
func NewDashboardService(logger *slog.Logger) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardService{logger: logger.With(slog.String("service", "dashboard"))}
}

// Build applies filters, then the name search, and aggregates what remains.
func (s *DashboardService) Build(ctx context.Context, items []domain.ClientClassification, filters domain.FilterCriteria, search string) (*domain.Dashboard, error) {
	view := analytics.SearchByName(analytics.ApplyFilters(items, filters), search)
	s.logger.DebugContext(ctx, "building dashboard",
		slog.Int("classifications", len(items)),
		slog.Int("selected", len(view)))
	return analytics.BuildDashboard(ctx, view)
}

// FilterOptions lists the selectable values present in items.
func (s *DashboardService) FilterOptions(items []domain.ClientClassification) domain.FilterOptions {
	return analytics.ExtractFilterOptions(items)
}

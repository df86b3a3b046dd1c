package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadscope/internal/shared/testutil"
	"leadscope/pkg/contracts/domain"
)

func dashboardFixture() []domain.ClientClassification {
	return []domain.ClientClassification{
		testutil.Classification("Ana Pérez", "ana@example.com",
			testutil.WithClosed(true), testutil.WithSalesperson("Boris")),
		testutil.Classification("Luis Soto", "luis@example.com",
			testutil.WithClosed(false), testutil.WithSalesperson("Puma")),
		testutil.Classification("Mariana Ruiz", "mariana@example.com",
			testutil.WithClosed(true), testutil.WithSalesperson("Puma")),
		testutil.Classification("Eva Díaz", "eva@example.com"),
	}
}

func TestDashboardService_Build(t *testing.T) {
	tests := []struct {
		name       string
		filters    domain.FilterCriteria
		search     string
		wantTotal  int
		wantClosed int
		wantRate   float64
	}{
		{name: "everything", wantTotal: 4, wantClosed: 2, wantRate: 50},
		{
			name:       "salesperson filter",
			filters:    domain.FilterCriteria{Salespeople: []string{"Puma"}},
			wantTotal:  2,
			wantClosed: 1,
			wantRate:   50,
		},
		{
			name:      "unassigned salesperson",
			filters:   domain.FilterCriteria{Salespeople: []string{domain.UnassignedSalesperson}},
			wantTotal: 1,
		},
		{
			name:       "closed only",
			filters:    domain.FilterCriteria{Closed: []string{domain.ClosedTrue}},
			wantTotal:  2,
			wantClosed: 2,
			wantRate:   100,
		},
		{name: "search ignores case", search: "ANA", wantTotal: 2, wantClosed: 2, wantRate: 100},
		{
			name:      "filter then search",
			filters:   domain.FilterCriteria{Closed: []string{domain.ClosedFalse}},
			search:    "ana",
			wantTotal: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := testutil.NewTestLogger(t)
			svc := NewDashboardService(logger)

			d, err := svc.Build(context.Background(), dashboardFixture(), tt.filters, tt.search)

			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, d.TotalLeads)
			assert.Equal(t, tt.wantClosed, d.ClosedLeads)
			assert.InDelta(t, tt.wantRate, d.CloseRate, 0.001)
			assert.Len(t, d.Dimensions, len(domain.CategoryKeys))
		})
	}
}

func TestDashboardService_BuildHonoursCancellation(t *testing.T) {
	svc := NewDashboardService(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Build(ctx, dashboardFixture(), domain.FilterCriteria{}, "")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDashboardService_FilterOptions(t *testing.T) {
	svc := NewDashboardService(nil)

	opts := svc.FilterOptions(dashboardFixture())

	assert.Equal(t, []string{"Boris", "Puma"}, opts.Salespeople)
	assert.Equal(t, []string{string(domain.DefaultIndustry)}, opts.Industries)
}

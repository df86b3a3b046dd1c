package analytics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadscope/internal/shared/testutil"
	"leadscope/pkg/contracts/domain"
)

func sampleLeads() []domain.ClientClassification {
	return []domain.ClientClassification{
		testutil.Classification("Ana Díaz", "ana@x.co",
			testutil.WithSalesperson("Boris"), testutil.WithClosed(true),
			testutil.WithIndustry(domain.IndustryHealth), testutil.WithMeetingDate("2024-01-10")),
		testutil.Classification("Luis Soto", "luis@x.co",
			testutil.WithSalesperson(" Zoe "), testutil.WithClosed(false),
			testutil.WithIndustry(domain.IndustryFinance), testutil.WithMeetingDate("2024-02-10")),
		testutil.Classification("ana maría", "am@x.co",
			testutil.WithSalesperson("Boris"), testutil.WithClosed(false),
			testutil.WithIndustry(domain.IndustryHealth), testutil.WithMeetingDate("2024-02-11")),
		testutil.Classification("Pedro", "pedro@x.co",
			testutil.WithIndustry(domain.IndustryEducation), testutil.WithClosed(true)),
	}
}

func TestSalesBySalesperson(t *testing.T) {
	got := SalesBySalesperson(sampleLeads())

	assert.Equal(t, []domain.SalespersonSales{
		{Salesperson: "Boris", Total: 2, Closed: 1},
		{Salesperson: "Zoe", Total: 1, Closed: 0},
	}, got)
	assert.Empty(t, SalesBySalesperson(nil))
}

func TestExtractFilterOptions(t *testing.T) {
	opts := ExtractFilterOptions(sampleLeads())

	assert.Equal(t, []string{" Zoe ", "Boris"}, opts.Salespeople)
	assert.Equal(t, []string{"all", "true", "false"}, opts.Closed)
	assert.Equal(t, []string{"Educación", "Finanzas", "Salud"}, opts.Industries)
	assert.Equal(t, []string{string(domain.DefaultUrgency)}, opts.Urgencies)
}

func TestApplyFilters(t *testing.T) {
	leads := sampleLeads()

	tests := []struct {
		name      string
		criteria  domain.FilterCriteria
		wantNames []string
	}{
		{
			name:      "no criteria keeps everything",
			wantNames: []string{"Ana Díaz", "Luis Soto", "ana maría", "Pedro"},
		},
		{
			name:      "salesperson",
			criteria:  domain.FilterCriteria{Salespeople: []string{"Boris"}},
			wantNames: []string{"Ana Díaz", "ana maría"},
		},
		{
			name:      "unassigned matches N/A",
			criteria:  domain.FilterCriteria{Salespeople: []string{"N/A"}},
			wantNames: []string{"Pedro"},
		},
		{
			name:      "closed true",
			criteria:  domain.FilterCriteria{Closed: []string{"true"}},
			wantNames: []string{"Ana Díaz", "Pedro"},
		},
		{
			name:      "closed all disables the filter",
			criteria:  domain.FilterCriteria{Closed: []string{"false", "all"}},
			wantNames: []string{"Ana Díaz", "Luis Soto", "ana maría", "Pedro"},
		},
		{
			name: "fields combine with and",
			criteria: domain.FilterCriteria{
				Industries: []string{string(domain.IndustryHealth), string(domain.IndustryFinance)},
				Closed:     []string{"false"},
			},
			wantNames: []string{"Luis Soto", "ana maría"},
		},
		{
			name:      "no match",
			criteria:  domain.FilterCriteria{Urgencies: []string{string(domain.UrgencyHigh)}},
			wantNames: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyFilters(leads, tt.criteria)
			names := make([]string, 0, len(got))
			for _, c := range got {
				names = append(names, c.ClientName)
			}
			assert.Equal(t, tt.wantNames, names)
		})
	}
}

func TestSearchByName(t *testing.T) {
	leads := sampleLeads()

	assert.Len(t, SearchByName(leads, "  ANA "), 2)
	assert.Len(t, SearchByName(leads, ""), 4)
	assert.Empty(t, SearchByName(leads, "zzz"))
	assert.NotNil(t, SearchByName(nil, ""))
}

func TestComputeStats(t *testing.T) {
	stats := ComputeStats(sampleLeads())

	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 2, stats.ClosedCount)
	assert.Equal(t, 50, stats.ClosedPercentage)
	assert.Equal(t, 2, stats.IndustryDistribution[string(domain.IndustryHealth)])
	assert.Equal(t, 4, stats.UrgencyDistribution[string(domain.DefaultUrgency)])

	one := ComputeStats(sampleLeads()[:3])
	assert.Equal(t, 33, one.ClosedPercentage)
	assert.Equal(t, 0, ComputeStats(nil).ClosedPercentage)
}

func TestBuildDashboard(t *testing.T) {
	d, err := BuildDashboard(context.Background(), sampleLeads())

	require.NoError(t, err)
	assert.Equal(t, 4, d.TotalLeads)
	assert.Equal(t, 2, d.ClosedLeads)
	assert.Equal(t, 50.0, d.CloseRate)
	require.Len(t, d.Dimensions, 6)
	assert.Equal(t, domain.CategoryIndustry, d.Dimensions[0].Key)
	assert.Equal(t, "Salud", d.Dimensions[0].Counts[0].Name)
	assert.Len(t, d.Salespeople, 2)
	assert.Len(t, d.Trend, 2+ProjectionMonths)
}

func TestBuildDashboard_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := BuildDashboard(ctx, sampleLeads())
	assert.ErrorIs(t, err, context.Canceled)
}

package analytics

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadscope/internal/shared/testutil"
	"leadscope/pkg/contracts/domain"
)

// dated builds count leads for each (date, count) pair.
func dated(pairs ...any) []domain.ClientClassification {
	var out []domain.ClientClassification
	for i := 0; i < len(pairs); i += 2 {
		date := pairs[i].(string)
		n := pairs[i+1].(int)
		for j := 0; j < n; j++ {
			email := fmt.Sprintf("%d-%d@x.co", i, j)
			out = append(out, testutil.Classification(email, email, testutil.WithMeetingDate(date)))
		}
	}
	return out
}

func leadsOf(points []domain.MonthlyLeadsPoint) []int {
	out := make([]int, len(points))
	for i, p := range points {
		out[i] = p.Leads
	}
	return out
}

func TestProjectMonthlyTrend_IncreasingSeries(t *testing.T) {
	items := dated("2024-01-10", 1, "2024-02-03", 2, "2024-03-30", 3)

	got := ProjectMonthlyTrend(items)

	require.Len(t, got, 9)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9}, leadsOf(got))
	for i, p := range got {
		assert.Equal(t, i >= 3, p.IsProjected, "point %d", i)
	}
	assert.Equal(t, "2024-04", got[3].Month)
	assert.Equal(t, "2024-09", got[8].Month)
}

func TestProjectMonthlyTrend_SingleMonthIsFlat(t *testing.T) {
	items := dated("2024-05-01", 4, "2024-05-20", 6)

	got := ProjectMonthlyTrend(items)

	require.Len(t, got, 7)
	assert.Equal(t, []int{10, 10, 10, 10, 10, 10, 10}, leadsOf(got))
	assert.False(t, got[0].IsProjected)
	assert.Equal(t, "May 2024", got[0].MonthLabel)
}

func TestProjectMonthlyTrend_YearRollover(t *testing.T) {
	items := dated("2023-10-05", 3, "2023-11-05", 2)

	got := ProjectMonthlyTrend(items)

	want := []domain.MonthlyLeadsPoint{
		{Month: "2023-10", MonthLabel: "Oct 2023", Leads: 3},
		{Month: "2023-11", MonthLabel: "Nov 2023", Leads: 2},
		{Month: "2023-12", MonthLabel: "Dic 2023", Leads: 1, IsProjected: true},
		{Month: "2024-01", MonthLabel: "Ene 2024", Leads: 0, IsProjected: true},
		{Month: "2024-02", MonthLabel: "Feb 2024", Leads: 0, IsProjected: true},
		{Month: "2024-03", MonthLabel: "Mar 2024", Leads: 0, IsProjected: true},
		{Month: "2024-04", MonthLabel: "Abr 2024", Leads: 0, IsProjected: true},
		{Month: "2024-05", MonthLabel: "May 2024", Leads: 0, IsProjected: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ProjectMonthlyTrend mismatch (-want +got):\n%s", diff)
	}
}

func TestProjectMonthlyTrend_GapsUseChronologicalIndex(t *testing.T) {
	// January and April only: x=0 and x=1, not calendar distance.
	items := dated("2024-04-01", 4, "2024-01-01", 2)

	got := ProjectMonthlyTrend(items)

	require.Len(t, got, 8)
	assert.Equal(t, "2024-01", got[0].Month)
	assert.Equal(t, "2024-04", got[1].Month)
	assert.Equal(t, "2024-05", got[2].Month)
	assert.Equal(t, []int{2, 4, 6, 8, 10, 12, 14, 16}, leadsOf(got))
}

func TestProjectMonthlyTrend_SkipsBadDates(t *testing.T) {
	items := dated("", 2, "not a date", 1, "2024-13-01", 1, "15/01/2024", 1)
	assert.Empty(t, ProjectMonthlyTrend(items))
	assert.NotNil(t, ProjectMonthlyTrend(nil))

	items = append(items, dated("2024-02-10", 1)...)
	got := ProjectMonthlyTrend(items)
	require.Len(t, got, 7)
	assert.Equal(t, 1, got[0].Leads)
}

func TestParseMeetingDate(t *testing.T) {
	tests := []struct {
		in        string
		wantYear  int
		wantMonth int
		wantOK    bool
	}{
		{"2024-01-15", 2024, 1, true},
		{" 2024-03-01 ", 2024, 3, true},
		{"2024-12-31T23:30:00-05:00", 2024, 12, true},
		{"2024-06-01 10:00:00", 2024, 6, true},
		{"2024/07/04", 2024, 7, true},
		{"08/21/2024", 2024, 8, true},
		{"March 5, 2024", 2024, 3, true},
		{"Sep 9, 2024", 2024, 9, true},
		{"", 0, 0, false},
		{"mañana", 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseMeetingDate(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.wantYear, got.Year())
				assert.Equal(t, tt.wantMonth, int(got.Month()))
			}
		})
	}
}

func TestLinearRegression(t *testing.T) {
	slope, intercept := LinearRegression([]float64{1, 2, 3})
	assert.InDelta(t, 1.0, slope, 1e-9)
	assert.InDelta(t, 1.0, intercept, 1e-9)

	slope, intercept = LinearRegression([]float64{10})
	assert.Equal(t, 0.0, slope)
	assert.Equal(t, 10.0, intercept)

	slope, intercept = LinearRegression(nil)
	assert.Zero(t, slope)
	assert.Zero(t, intercept)
}

func TestMonthLabels(t *testing.T) {
	labels := make([]string, 0, 12)
	for m := 1; m <= 12; m++ {
		labels = append(labels, yearMonth{year: 2025, month: m}.label())
	}
	assert.Equal(t, "Ene 2025", labels[0])
	assert.Equal(t, "Sept 2025", labels[8])
	assert.Equal(t, "Dic 2025", labels[11])
	assert.Equal(t, yearMonth{year: 2026, month: 2}, yearMonth{year: 2025, month: 11}.add(3))
}

package analytics

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"leadscope/pkg/contracts/domain"
)

// ProjectionMonths is the number of future months appended to a trend.
const ProjectionMonths = 6

var meetingDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006/01/02",
	"01/02/2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
}

var shortMonthsES = [12]string{
	"Ene", "Feb", "Mar", "Abr", "May", "Jun",
	"Jul", "Ago", "Sept", "Oct", "Nov", "Dic",
}

type yearMonth struct {
	year  int
	month int
}

func (m yearMonth) key() string {
	return fmt.Sprintf("%04d-%02d", m.year, m.month)
}

func (m yearMonth) label() string {
	return fmt.Sprintf("%s %d", shortMonthsES[m.month-1], m.year)
}

// add moves m forward by n months, rolling the year over.
func (m yearMonth) add(n int) yearMonth {
	idx := m.year*12 + (m.month - 1) + n
	return yearMonth{year: idx / 12, month: idx%12 + 1}
}

func (m yearMonth) before(o yearMonth) bool {
	return m.year < o.year || (m.year == o.year && m.month < o.month)
}

// ParseMeetingDate reads the calendar date of a free-form meeting date.
func ParseMeetingDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range meetingDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ProjectMonthlyTrend buckets leads by meeting month and appends
// ProjectionMonths months extrapolated with a least-squares line over the
// historical counts. Undated or unparseable records are ignored. With no
// dated record the result is empty.
func ProjectMonthlyTrend(items []domain.ClientClassification) []domain.MonthlyLeadsPoint {
	counts := make(map[yearMonth]int)
	for _, c := range items {
		t, ok := ParseMeetingDate(c.MeetingDate)
		if !ok {
			continue
		}
		counts[yearMonth{year: t.Year(), month: int(t.Month())}]++
	}
	if len(counts) == 0 {
		return []domain.MonthlyLeadsPoint{}
	}

	months := make([]yearMonth, 0, len(counts))
	for m := range counts {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].before(months[j]) })

	points := make([]domain.MonthlyLeadsPoint, 0, len(months)+ProjectionMonths)
	ys := make([]float64, len(months))
	for i, m := range months {
		ys[i] = float64(counts[m])
		points = append(points, domain.MonthlyLeadsPoint{
			Month:      m.key(),
			MonthLabel: m.label(),
			Leads:      counts[m],
		})
	}

	slope, intercept := LinearRegression(ys)
	last := months[len(months)-1]
	for offset := 1; offset <= ProjectionMonths; offset++ {
		m := last.add(offset)
		x := float64(len(months) + offset - 1)
		points = append(points, domain.MonthlyLeadsPoint{
			Month:       m.key(),
			MonthLabel:  m.label(),
			Leads:       projectLeads(slope, intercept, x),
			IsProjected: true,
		})
	}
	return points
}

// LinearRegression fits y = slope*x + intercept by ordinary least squares
// with x = 0..len(ys)-1. A single point yields a flat line through it and no
// points yield the zero line.
func LinearRegression(ys []float64) (slope, intercept float64) {
	n := float64(len(ys))
	switch len(ys) {
	case 0:
		return 0, 0
	case 1:
		return 0, ys[0]
	}
	var sumX, sumY, sumXY, sumXX float64
	for i, y := range ys {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	slope = (n*sumXY - sumX*sumY) / (n*sumXX - sumX*sumX)
	intercept = (sumY - slope*sumX) / n
	return slope, intercept
}

func projectLeads(slope, intercept, x float64) int {
	v := roundHalfUp(slope*x + intercept)
	if v < 0 {
		return 0
	}
	return v
}

package analytics

import (
	"context"

	"golang.org/x/sync/errgroup"

	"leadscope/pkg/contracts/domain"
)

// BuildDashboard computes every chart series for items. Sections are
// independent pure computations over the same immutable snapshot and run
// concurrently.
func BuildDashboard(ctx context.Context, items []domain.ClientClassification) (*domain.Dashboard, error) {
	d := &domain.Dashboard{
		TotalLeads: len(items),
		Dimensions: make([]domain.DimensionBreakdown, len(domain.CategoryKeys)),
	}
	for _, c := range items {
		if c.Closed() {
			d.ClosedLeads++
		}
	}
	d.CloseRate = percent1(d.ClosedLeads, d.TotalLeads)

	g, ctx := errgroup.WithContext(ctx)
	for i, key := range domain.CategoryKeys {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			d.Dimensions[i] = domain.DimensionBreakdown{
				Key:        key,
				Counts:     CountsByCategory(items, key),
				CloseRates: CloseRateByCategory(items, key),
			}
			return nil
		})
	}
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		d.Salespeople = SalesBySalesperson(items)
		return nil
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		d.Trend = ProjectMonthlyTrend(items)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return d, nil
}

package analytics

import (
	"math"
	"sort"
	"strings"

	"leadscope/pkg/contracts/domain"
)

// SalesBySalesperson tallies total and closed leads per trimmed salesperson
// name, ordered by total descending. Leads without a salesperson are skipped.
func SalesBySalesperson(items []domain.ClientClassification) []domain.SalespersonSales {
	out := []domain.SalespersonSales{}
	index := make(map[string]int)
	for _, c := range items {
		name := strings.TrimSpace(c.AssignedSalesperson)
		if name == "" {
			continue
		}
		i, ok := index[name]
		if !ok {
			i = len(out)
			index[name] = i
			out = append(out, domain.SalespersonSales{Salesperson: name})
		}
		out[i].Total++
		if c.Closed() {
			out[i].Closed++
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Total > out[j].Total })
	return out
}

// ComputeStats summarises items for the recommendation prompt.
func ComputeStats(items []domain.ClientClassification) domain.ClassificationStats {
	stats := domain.ClassificationStats{
		Total:                  len(items),
		IndustryDistribution:   map[string]int{},
		LeadSourceDistribution: map[string]int{},
		VolumeDistribution:     map[string]int{},
		PainPointDistribution:  map[string]int{},
		UrgencyDistribution:    map[string]int{},
	}
	for _, c := range items {
		if c.Closed() {
			stats.ClosedCount++
		}
		stats.IndustryDistribution[string(c.Industry)]++
		stats.LeadSourceDistribution[string(c.LeadSource)]++
		stats.VolumeDistribution[string(c.InteractionVolume)]++
		stats.PainPointDistribution[string(c.MainPainPoint)]++
		stats.UrgencyDistribution[string(c.Urgency)]++
	}
	if len(items) > 0 {
		stats.ClosedPercentage = roundHalfUp(100 * float64(stats.ClosedCount) / float64(len(items)))
	}
	return stats
}

// roundHalfUp rounds to the nearest integer with halves going up.
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}

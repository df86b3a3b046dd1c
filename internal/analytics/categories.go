package analytics

import (
	"math"
	"sort"

	"leadscope/pkg/contracts/domain"
)

// CountsByCategory tallies how many classifications carry each value of key.
// Empty values are skipped. Buckets are ordered by count descending, ties
// keep first-seen order.
func CountsByCategory(items []domain.ClientClassification, key domain.CategoryKey) []domain.CategoryCount {
	out := []domain.CategoryCount{}
	index := make(map[string]int)
	for _, c := range items {
		v := key.Value(c)
		if v == "" {
			continue
		}
		i, ok := index[v]
		if !ok {
			i = len(out)
			index[v] = i
			out = append(out, domain.CategoryCount{Name: v})
		}
		out[i].Value++
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Value > out[j].Value })
	return out
}

// CloseRateByCategory splits each bucket of key into closed and open leads.
// Buckets are ordered by close rate descending, ties keep first-seen order.
func CloseRateByCategory(items []domain.ClientClassification, key domain.CategoryKey) []domain.CloseRateEntry {
	out := []domain.CloseRateEntry{}
	index := make(map[string]int)
	for _, c := range items {
		v := key.Value(c)
		if v == "" {
			continue
		}
		i, ok := index[v]
		if !ok {
			i = len(out)
			index[v] = i
			out = append(out, domain.CloseRateEntry{Category: v})
		}
		out[i].Total++
		if c.Closed() {
			out[i].Closed++
		}
	}
	for i := range out {
		out[i].Open = out[i].Total - out[i].Closed
		out[i].CloseRate = percent1(out[i].Closed, out[i].Total)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CloseRate > out[j].CloseRate })
	return out
}

// percent1 is 100*part/whole rounded to one decimal, 0 for an empty whole.
func percent1(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return round1(100 * float64(part) / float64(whole))
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

// CloseRate is the percentage of closed leads rounded to one decimal.
func CloseRate(closed, total int) float64 {
	return percent1(closed, total)
}

package analytics

import (
	"slices"
	"sort"
	"strings"

	"leadscope/pkg/contracts/domain"
)

// ExtractFilterOptions collects the sorted distinct values of every
// filterable field.
func ExtractFilterOptions(items []domain.ClientClassification) domain.FilterOptions {
	salespeople := newValueSet()
	industries := newValueSet()
	sources := newValueSet()
	volumes := newValueSet()
	pains := newValueSet()
	maturities := newValueSet()
	urgencies := newValueSet()

	for _, c := range items {
		salespeople.add(c.AssignedSalesperson)
		industries.add(string(c.Industry))
		sources.add(string(c.LeadSource))
		volumes.add(string(c.InteractionVolume))
		pains.add(string(c.MainPainPoint))
		maturities.add(string(c.TechMaturity))
		urgencies.add(string(c.Urgency))
	}

	return domain.FilterOptions{
		Salespeople:        salespeople.sorted(),
		Closed:             []string{domain.ClosedAll, domain.ClosedTrue, domain.ClosedFalse},
		Industries:         industries.sorted(),
		LeadSources:        sources.sorted(),
		InteractionVolumes: volumes.sorted(),
		MainPainPoints:     pains.sorted(),
		TechMaturities:     maturities.sorted(),
		Urgencies:          urgencies.sorted(),
	}
}

// ApplyFilters returns the classifications matching every set criterion.
// The input slice is not modified.
func ApplyFilters(items []domain.ClientClassification, f domain.FilterCriteria) []domain.ClientClassification {
	if f.IsZero() {
		return clone(items)
	}
	out := make([]domain.ClientClassification, 0, len(items))
	for _, c := range items {
		if matches(c, f) {
			out = append(out, c)
		}
	}
	return out
}

func matches(c domain.ClientClassification, f domain.FilterCriteria) bool {
	if len(f.Salespeople) > 0 {
		name := c.AssignedSalesperson
		if name == "" {
			name = domain.UnassignedSalesperson
		}
		if !slices.Contains(f.Salespeople, name) {
			return false
		}
	}
	if len(f.Closed) > 0 && !slices.Contains(f.Closed, domain.ClosedAll) {
		want := slices.Contains(f.Closed, domain.ClosedTrue)
		if c.Closed() != want {
			return false
		}
	}
	return allowed(f.Industries, string(c.Industry)) &&
		allowed(f.LeadSources, string(c.LeadSource)) &&
		allowed(f.InteractionVolumes, string(c.InteractionVolume)) &&
		allowed(f.MainPainPoints, string(c.MainPainPoint)) &&
		allowed(f.TechMaturities, string(c.TechMaturity)) &&
		allowed(f.Urgencies, string(c.Urgency))
}

func allowed(values []string, v string) bool {
	return len(values) == 0 || slices.Contains(values, v)
}

// SearchByName keeps classifications whose client name contains query,
// ignoring case. A blank query keeps everything.
func SearchByName(items []domain.ClientClassification, query string) []domain.ClientClassification {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return clone(items)
	}
	out := make([]domain.ClientClassification, 0)
	for _, c := range items {
		if strings.Contains(strings.ToLower(c.ClientName), q) {
			out = append(out, c)
		}
	}
	return out
}

// clone copies items into a non-nil slice.
func clone(items []domain.ClientClassification) []domain.ClientClassification {
	out := make([]domain.ClientClassification, len(items))
	copy(out, items)
	return out
}

type valueSet map[string]struct{}

func newValueSet() valueSet { return valueSet{} }

func (s valueSet) add(v string) {
	if v != "" {
		s[v] = struct{}{}
	}
}

func (s valueSet) sorted() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

package domain

// Closed filter values.
const (
	ClosedAll   = "all"
	ClosedTrue  = "true"
	ClosedFalse = "false"
)

// UnassignedSalesperson is what a lead without a salesperson matches as.
const UnassignedSalesperson = "N/A"

// FilterOptions lists the selectable values of every filterable field.
type FilterOptions struct {
	Salespeople        []string `json:"salespeople"`
	Closed             []string `json:"closed"`
	Industries         []string `json:"industries"`
	LeadSources        []string `json:"leadSources"`
	InteractionVolumes []string `json:"interactionVolumes"`
	MainPainPoints     []string `json:"mainPainPoints"`
	TechMaturities     []string `json:"techMaturities"`
	Urgencies          []string `json:"urgencies"`
}

// FilterCriteria selects a subset of classifications. Empty fields do not
// filter. Fields are combined with AND, values within a field with OR.
type FilterCriteria struct {
	Salespeople        []string `json:"salespeople,omitempty"`
	Closed             []string `json:"closed,omitempty" validate:"omitempty,dive,oneof=all true false"`
	Industries         []string `json:"industries,omitempty"`
	LeadSources        []string `json:"leadSources,omitempty"`
	InteractionVolumes []string `json:"interactionVolumes,omitempty"`
	MainPainPoints     []string `json:"mainPainPoints,omitempty"`
	TechMaturities     []string `json:"techMaturities,omitempty"`
	Urgencies          []string `json:"urgencies,omitempty"`
}

// IsZero reports whether no criterion is set.
func (f FilterCriteria) IsZero() bool {
	return len(f.Salespeople) == 0 && len(f.Closed) == 0 && len(f.Industries) == 0 &&
		len(f.LeadSources) == 0 && len(f.InteractionVolumes) == 0 &&
		len(f.MainPainPoints) == 0 && len(f.TechMaturities) == 0 && len(f.Urgencies) == 0
}

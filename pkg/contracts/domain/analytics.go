package domain

// CategoryCount is one bucket of a frequency distribution.
type CategoryCount struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// CloseRateEntry is the closed/open split of one category bucket.
// CloseRate is a percentage rounded to one decimal.
type CloseRateEntry struct {
	Category  string  `json:"category"`
	Total     int     `json:"total"`
	Closed    int     `json:"closed"`
	Open      int     `json:"open"`
	CloseRate float64 `json:"closeRate"`
}

// MonthlyLeadsPoint is a historical or projected monthly lead count.
type MonthlyLeadsPoint struct {
	Month       string `json:"month"`
	MonthLabel  string `json:"monthLabel"`
	Leads       int    `json:"leads"`
	IsProjected bool   `json:"isProjected"`
}

// SalespersonSales tallies the leads owned by one salesperson.
type SalespersonSales struct {
	Salesperson string `json:"salesperson"`
	Total       int    `json:"total"`
	Closed      int    `json:"closed"`
}

// ClassificationStats summarises a classified population for the
// recommendation prompt.
type ClassificationStats struct {
	Total                  int            `json:"total"`
	ClosedCount            int            `json:"closedCount"`
	ClosedPercentage       int            `json:"closedPercentage"`
	IndustryDistribution   map[string]int `json:"industryDistribution"`
	LeadSourceDistribution map[string]int `json:"leadSourceDistribution"`
	VolumeDistribution     map[string]int `json:"volumeDistribution"`
	PainPointDistribution  map[string]int `json:"painPointDistribution"`
	UrgencyDistribution    map[string]int `json:"urgencyDistribution"`
}

// DimensionBreakdown groups both aggregations of a single dimension.
type DimensionBreakdown struct {
	Key        CategoryKey      `json:"key"`
	Counts     []CategoryCount  `json:"counts"`
	CloseRates []CloseRateEntry `json:"closeRates"`
}

// Dashboard is everything the presentation layer charts for one filtered view.
type Dashboard struct {
	TotalLeads  int                  `json:"totalLeads"`
	ClosedLeads int                  `json:"closedLeads"`
	CloseRate   float64              `json:"closeRate"`
	Dimensions  []DimensionBreakdown `json:"dimensions"`
	Salespeople []SalespersonSales   `json:"salespeople"`
	Trend       []MonthlyLeadsPoint  `json:"trend"`
}

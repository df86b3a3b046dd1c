// Package api contains the request and response contracts of the HTTP API.
// Version v1 represents the current stable API version.
package api

import (
	"leadscope/pkg/contracts/domain"
)

// ClassifyRequest asks for classification of already parsed meetings.
type ClassifyRequest struct {
	Clients []domain.ClientMeeting `json:"clients" validate:"required,min=1,dive"`
}

// ThreeSRequest asks for Start/Stop/Spice-Up recommendations.
type ThreeSRequest struct {
	Classifications []domain.ClientClassification `json:"classifications"`
}

// DashboardRequest carries the classifications the dashboard is built from.
// Filters and Search are optional and applied before aggregation.
type DashboardRequest struct {
	Classifications []domain.ClientClassification `json:"classifications" validate:"dive"`
	Filters         domain.FilterCriteria         `json:"filters"`
	Search          string                        `json:"search" validate:"max=200"`
}

// FilterOptionsRequest asks for the selectable filter values.
type FilterOptionsRequest struct {
	Classifications []domain.ClientClassification `json:"classifications" validate:"dive"`
}

// ExportRequest carries the rows to export.
type ExportRequest struct {
	Classifications []domain.ClientClassification `json:"classifications" validate:"required,min=1,dive"`
}

// ExportFormatQuery is the format query parameter of the export endpoint.
type ExportFormatQuery struct {
	Format string `query:"format" validate:"omitempty,oneof=csv xlsx sheets"`
}

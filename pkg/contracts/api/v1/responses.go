package api

import "leadscope/pkg/contracts/domain"

// ParseSummary is the parsing half of an upload-and-classify response.
type ParseSummary struct {
	TotalRows int                      `json:"totalRows"`
	ValidRows int                      `json:"validRows"`
	Errors    []domain.ValidationError `json:"errors"`
}

// UploadAndClassifyResponse combines parsing and classification of one upload.
// Classification is null when no row was valid.
type UploadAndClassifyResponse struct {
	Parsing        ParseSummary                 `json:"parsing"`
	Classification *domain.ClassificationResult `json:"classification"`
	Data           []domain.ClientMeeting       `json:"data"`
}

// SheetsExportResponse reports a Google Sheets publish.
type SheetsExportResponse struct {
	SpreadsheetID string `json:"spreadsheetId"`
	UpdatedRange  string `json:"updatedRange"`
	UpdatedRows   int64  `json:"updatedRows"`
}

package exporter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"leadscope/internal/config"
	"leadscope/pkg/contracts/domain"
)

// ErrSheetsNotConfigured is returned when no target spreadsheet is set.
var ErrSheetsNotConfigured = errors.New("google sheets export is not configured")

// SheetsResult describes a completed spreadsheet update.
type SheetsResult struct {
	SpreadsheetID string
	UpdatedRange  string
	UpdatedRows   int64
}

// SheetsPublisher replaces the contents of one sheet of a Google
// spreadsheet with the classification table.
type SheetsPublisher struct {
	service       *sheets.Service
	spreadsheetID string
	sheetName     string
	logger        *slog.Logger
}

// NewSheetsPublisher creates a Sheets client. Credentials come from
// cfg.CredentialsFile when set, otherwise from application default
// credentials. Extra options are appended after the credentials.
func NewSheetsPublisher(ctx context.Context, cfg config.ExportConfig, logger *slog.Logger, opts ...option.ClientOption) (*SheetsPublisher, error) {
	if !cfg.SheetsEnabled() {
		return nil, ErrSheetsNotConfigured
	}
	if logger == nil {
		logger = slog.Default()
	}

	var clientOpts []option.ClientOption
	if cfg.CredentialsFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	clientOpts = append(clientOpts, option.WithScopes(sheets.SpreadsheetsScope))
	clientOpts = append(clientOpts, opts...)

	service, err := sheets.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	sheetName := cfg.SheetName
	if sheetName == "" {
		sheetName = SheetClassifications
	}
	return &SheetsPublisher{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		sheetName:     sheetName,
		logger: logger.With(
			slog.String("component", "exporter.sheets"),
			slog.String("spreadsheet_id", cfg.SpreadsheetID)),
	}, nil
}

// Publish clears the target sheet and writes the header row and items.
func (p *SheetsPublisher) Publish(ctx context.Context, items []domain.ClientClassification) (*SheetsResult, error) {
	sheetRange := fmt.Sprintf("'%s'", p.sheetName)

	if _, err := p.service.Spreadsheets.Values.Clear(p.spreadsheetID, sheetRange, &sheets.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return nil, fmt.Errorf("failed to clear sheet %s: %w", p.sheetName, err)
	}

	values := make([][]any, 0, len(items)+1)
	values = append(values, toCells(Headers))
	for _, record := range Records(items) {
		values = append(values, toCells(record))
	}

	resp, err := p.service.Spreadsheets.Values.Update(p.spreadsheetID, sheetRange+"!A1", &sheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to update sheet %s: %w", p.sheetName, err)
	}

	p.logger.InfoContext(ctx, "classifications published to sheet",
		slog.String("range", resp.UpdatedRange),
		slog.Int64("rows", resp.UpdatedRows))
	return &SheetsResult{
		SpreadsheetID: resp.SpreadsheetId,
		UpdatedRange:  resp.UpdatedRange,
		UpdatedRows:   resp.UpdatedRows,
	}, nil
}

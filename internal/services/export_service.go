package services

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"leadscope/internal/exporter"
	"leadscope/internal/infrastructure"
	"leadscope/pkg/contracts/domain"
)

// SheetsPublisher writes classifications to a spreadsheet.
type SheetsPublisher interface {
	Publish(ctx context.Context, items []domain.ClientClassification) (*exporter.SheetsResult, error)
}

// ExportFile is a rendered download.
type ExportFile struct {
	FileName    string
	ContentType string
	Data        []byte
}

// ExportService renders classifications as files or publishes them to
// Google Sheets.
type ExportService struct {
	csv      *exporter.CSVWriter
	workbook *exporter.WorkbookWriter
	sheets   SheetsPublisher
	metrics  *infrastructure.BusinessMetrics
	logger   *slog.Logger
	now      func() time.Time
}

// NewExportService creates an export service. sheets may be nil, which
// disables the sheets format.
func NewExportService(sheets SheetsPublisher, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *ExportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExportService{
		csv:      exporter.NewCSVWriter(logger),
		workbook: exporter.NewWorkbookWriter(logger),
		sheets:   sheets,
		metrics:  metrics,
		logger:   logger.With(slog.String("service", "export")),
		now:      time.Now,
	}
}

// SheetsEnabled reports whether a spreadsheet target is configured.
func (s *ExportService) SheetsEnabled() bool {
	return s.sheets != nil
}

// Render encodes items as a CSV or xlsx download.
func (s *ExportService) Render(ctx context.Context, format exporter.Format, items []domain.ClientClassification) (file *ExportFile, err error) {
	defer func() { s.metrics.RecordExport(ctx, string(format), err) }()

	if len(items) == 0 {
		return nil, ErrNothingToExport
	}
	stamp := s.now().Format("20060102-150405")

	var buf bytes.Buffer
	switch format {
	case exporter.FormatCSV:
		if err := s.csv.WriteClassifications(&buf, items); err != nil {
			return nil, fmt.Errorf("failed to render csv: %w", err)
		}
		file = &ExportFile{
			FileName:    "clasificaciones-" + stamp + ".csv",
			ContentType: "text/csv; charset=utf-8",
		}
	case exporter.FormatXLSX:
		if err := s.workbook.Write(&buf, items); err != nil {
			return nil, fmt.Errorf("failed to render workbook: %w", err)
		}
		file = &ExportFile{
			FileName:    "clasificaciones-" + stamp + ".xlsx",
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	file.Data = buf.Bytes()

	s.logger.InfoContext(ctx, "classifications exported",
		slog.String("format", string(format)),
		slog.Int("records", len(items)),
		slog.Int("bytes", len(file.Data)))
	return file, nil
}

// PublishToSheets replaces the configured sheet with items.
func (s *ExportService) PublishToSheets(ctx context.Context, items []domain.ClientClassification) (res *exporter.SheetsResult, err error) {
	defer func() { s.metrics.RecordExport(ctx, string(exporter.FormatSheets), err) }()

	if s.sheets == nil {
		return nil, exporter.ErrSheetsNotConfigured
	}
	if len(items) == 0 {
		return nil, ErrNothingToExport
	}
	return s.sheets.Publish(ctx, items)
}

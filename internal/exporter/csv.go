package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"

	"leadscope/pkg/contracts/domain"
)

// utf8BOM makes spreadsheet applications detect UTF-8.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter renders classifications as CSV.
type CSVWriter struct {
	logger *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{logger: logger.With(slog.String("component", "exporter.csv"))}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool
}

// WriteCSV writes the header row and records to w.
func (c *CSVWriter) WriteCSV(w io.Writer, options WriteOptions) error {
	if options.BOMPrefix {
		if _, err := w.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(w)
	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}
	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteClassifications writes items with a BOM and the standard headers.
func (c *CSVWriter) WriteClassifications(w io.Writer, items []domain.ClientClassification) error {
	c.logger.Debug("writing classifications csv", slog.Int("record_count", len(items)))
	return c.WriteCSV(w, WriteOptions{
		Headers:   Headers,
		Records:   Records(items),
		BOMPrefix: true,
	})
}

package dataprocessing

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"leadscope/pkg/contracts/domain"
)

var (
	// ErrMalformedDocument is returned when the document itself cannot be
	// decoded. Individual bad rows never produce it.
	ErrMalformedDocument = errors.New("malformed document")

	// ErrNoWorksheet is returned for a workbook without any sheet.
	ErrNoWorksheet = errors.New("workbook has no worksheet")
)

// BatchParser runs every row of a document through a RowValidator and
// collects successes and field errors side by side.
type BatchParser struct {
	validator *RowValidator
	logger    *slog.Logger
}

// NewBatchParser creates a parser. A nil validator gets the default tables.
func NewBatchParser(validator *RowValidator, logger *slog.Logger) *BatchParser {
	if logger == nil {
		logger = slog.Default()
	}
	if validator == nil {
		validator = NewRowValidator(nil, nil, logger)
	}
	return &BatchParser{
		validator: validator,
		logger:    logger.With(slog.String("component", "batch_parser")),
	}
}

// ParseBytes parses an in-memory CSV document.
func (p *BatchParser) ParseBytes(ctx context.Context, document []byte) (*domain.CsvParseResult, error) {
	return p.Parse(ctx, bytes.NewReader(document))
}

// Parse reads a CSV document row by row. The first record is the header.
// Only a decoding failure or cancellation aborts the parse.
func (p *BatchParser) Parse(ctx context.Context, r io.Reader) (*domain.CsvParseResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	acc := newAccumulator(p.validator)

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return acc.result(), nil
	}
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to read CSV header", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}
	headers := cleanHeaders(header)

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			p.logger.ErrorContext(ctx, "failed to decode CSV record",
				slog.Int("rows_read", acc.total),
				slog.String("error", err.Error()))
			return nil, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
		}
		acc.add(buildRow(headers, record))
	}

	res := acc.result()
	p.logSummary(ctx, "csv", res)
	return res, nil
}

// ParseWorkbook reads the first worksheet of an xlsx document with the same
// row rules as Parse. Completely empty rows are skipped.
func (p *BatchParser) ParseWorkbook(ctx context.Context, r io.Reader) (*domain.CsvParseResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrMalformedDocument, ErrNoWorksheet)
	}

	rows, err := f.Rows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}
	defer rows.Close()

	acc := newAccumulator(p.validator)
	var headers []string
	for rows.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cols, err := rows.Columns()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
		}
		if isBlank(cols) {
			continue
		}
		if headers == nil {
			headers = cleanHeaders(cols)
			continue
		}
		acc.add(buildRow(headers, cols))
	}

	res := acc.result()
	p.logSummary(ctx, "xlsx", res)
	return res, nil
}

func (p *BatchParser) logSummary(ctx context.Context, format string, res *domain.CsvParseResult) {
	p.logger.InfoContext(ctx, "document processing completed",
		slog.String("format", format),
		slog.Int("total_rows", res.TotalRows),
		slog.Int("valid_rows", res.ValidRows),
		slog.Int("errors", len(res.Errors)))
	if len(res.Errors) > 0 {
		p.logger.WarnContext(ctx, "document processed with validation errors",
			slog.Int("invalid_rows", res.InvalidRows()))
	}
}

// accumulator folds validated rows into a result.
type accumulator struct {
	validator *RowValidator
	total     int
	data      []domain.ClientMeeting
	errs      []domain.ValidationError
}

func newAccumulator(v *RowValidator) *accumulator {
	return &accumulator{
		validator: v,
		data:      []domain.ClientMeeting{},
		errs:      []domain.ValidationError{},
	}
}

func (a *accumulator) add(row Row) {
	a.total++
	res := a.validator.Validate(row, a.total)
	if res.IsValid {
		a.data = append(a.data, *res.Data)
		return
	}
	a.errs = append(a.errs, res.Errors...)
}

func (a *accumulator) result() *domain.CsvParseResult {
	return &domain.CsvParseResult{
		TotalRows: a.total,
		ValidRows: len(a.data),
		Data:      a.data,
		Errors:    a.errs,
	}
}

func cleanHeaders(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		out[i] = cleanHeader(h)
	}
	return out
}

// buildRow keys record by headers. Cells past the header are dropped and
// missing trailing cells leave their keys absent.
func buildRow(headers, record []string) Row {
	row := make(Row, len(headers))
	for i, h := range headers {
		if i >= len(record) {
			break
		}
		row[h] = record[i]
	}
	return row
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}

package exporter

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"leadscope/internal/analytics"
	"leadscope/pkg/contracts/domain"
)

// Sheet names of the exported workbook.
const (
	SheetClassifications = "Clasificaciones"
	SheetSummary         = "Resumen"
)

var dimensionLabels = map[domain.CategoryKey]string{
	domain.CategoryIndustry:          "Industria",
	domain.CategoryLeadSource:        "Fuente del Lead",
	domain.CategoryInteractionVolume: "Volumen de Interacción",
	domain.CategoryMainPainPoint:     "Dolor Principal",
	domain.CategoryTechMaturity:      "Madurez Tecnológica",
	domain.CategoryUrgency:           "Urgencia",
}

// WorkbookWriter renders classifications as an xlsx workbook with a data
// sheet and a summary sheet of close rates per dimension.
type WorkbookWriter struct {
	logger *slog.Logger
}

// NewWorkbookWriter creates a workbook writer.
func NewWorkbookWriter(logger *slog.Logger) *WorkbookWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkbookWriter{logger: logger.With(slog.String("component", "exporter.xlsx"))}
}

// Write encodes the workbook to w.
func (x *WorkbookWriter) Write(w io.Writer, items []domain.ClientClassification) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetClassifications); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := x.writeClassifications(f, bold, items); err != nil {
		return err
	}
	if _, err := f.NewSheet(SheetSummary); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}
	if err := x.writeSummary(f, bold, items); err != nil {
		return err
	}

	x.logger.Debug("writing classifications workbook", slog.Int("record_count", len(items)))
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func (x *WorkbookWriter) writeClassifications(f *excelize.File, bold int, items []domain.ClientClassification) error {
	if err := setRow(f, SheetClassifications, 1, toCells(Headers)); err != nil {
		return err
	}
	last, _ := excelize.CoordinatesToCellName(len(Headers), 1)
	if err := f.SetCellStyle(SheetClassifications, "A1", last, bold); err != nil {
		return fmt.Errorf("failed to style headers: %w", err)
	}

	for i, record := range Records(items) {
		cells := toCells(record)
		// Confidence is stored as a number.
		cells[len(cells)-1] = items[i].Confidence
		if err := setRow(f, SheetClassifications, i+2, cells); err != nil {
			return err
		}
	}
	return nil
}

func (x *WorkbookWriter) writeSummary(f *excelize.File, bold int, items []domain.ClientClassification) error {
	closed := 0
	for _, c := range items {
		if c.Closed() {
			closed++
		}
	}
	rate := analytics.CloseRate(closed, len(items))

	row := 1
	for _, cells := range [][]any{
		{"Total de leads", len(items)},
		{"Leads cerrados", closed},
		{"Tasa de cierre (%)", rate},
	} {
		if err := setRow(f, SheetSummary, row, cells); err != nil {
			return err
		}
		row++
	}

	for _, key := range domain.CategoryKeys {
		row++
		header := []any{dimensionLabels[key], "Leads", "Cerrados", "Abiertos", "Tasa de cierre (%)"}
		if err := setRow(f, SheetSummary, row, header); err != nil {
			return err
		}
		first, _ := excelize.CoordinatesToCellName(1, row)
		last, _ := excelize.CoordinatesToCellName(len(header), row)
		if err := f.SetCellStyle(SheetSummary, first, last, bold); err != nil {
			return fmt.Errorf("failed to style summary header: %w", err)
		}
		row++
		for _, e := range analytics.CloseRateByCategory(items, key) {
			if err := setRow(f, SheetSummary, row, []any{e.Category, e.Total, e.Closed, e.Open, e.CloseRate}); err != nil {
				return err
			}
			row++
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, cells []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func toCells(values []string) []any {
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}

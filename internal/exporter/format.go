package exporter

import (
	"strconv"

	"leadscope/pkg/contracts/domain"
)

// Format selects an export target.
type Format string

const (
	FormatCSV    Format = "csv"
	FormatXLSX   Format = "xlsx"
	FormatSheets Format = "sheets"
)

// ParseFormat reports whether s names a known format. An empty string
// selects CSV.
func ParseFormat(s string) (Format, bool) {
	switch Format(s) {
	case "", FormatCSV:
		return FormatCSV, true
	case FormatXLSX:
		return FormatXLSX, true
	case FormatSheets:
		return FormatSheets, true
	}
	return "", false
}

// Headers of the classification table. The meeting columns use spellings the
// upload parser recognises, so an exported CSV can be uploaded again.
var Headers = []string{
	"Nombre",
	"Correo Electrónico",
	"Número de Teléfono",
	"Vendedor Asignado",
	"Fecha de la Reunión",
	"Cerrado",
	"Industria",
	"Fuente del Lead",
	"Volumen de Interacción",
	"Dolor Principal",
	"Madurez Tecnológica",
	"Urgencia",
	"Confianza",
}

// Records flattens items into rows matching Headers.
func Records(items []domain.ClientClassification) [][]string {
	rows := make([][]string, 0, len(items))
	for _, c := range items {
		rows = append(rows, []string{
			c.ClientName,
			c.Email,
			c.Phone,
			c.AssignedSalesperson,
			c.MeetingDate,
			formatClosed(c.IsClosed),
			string(c.Industry),
			string(c.LeadSource),
			string(c.InteractionVolume),
			string(c.MainPainPoint),
			string(c.TechMaturity),
			string(c.Urgency),
			formatFloat(c.Confidence),
		})
	}
	return rows
}

// formatFloat formats with exactly 2 decimal places
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

// formatClosed leaves the cell blank when the closed state is unknown.
func formatClosed(closed *bool) string {
	switch {
	case closed == nil:
		return ""
	case *closed:
		return "Sí"
	default:
		return "No"
	}
}

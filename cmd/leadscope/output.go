package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	// projected trend rows are dimmed
	projectedStyle = cellStyle.Foreground(lipgloss.Color("245")).Italic(true)
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

// renderTable draws rows under headers. dim, when set, selects rows drawn
// with the projected style.
func renderTable(headers []string, rows [][]string, dim func(row int) bool) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		StyleFunc(func(row, _ int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case dim != nil && dim(row):
				return projectedStyle
			default:
				return cellStyle
			}
		}).
		Headers(headers...).
		Rows(rows...).
		String()
}

func printTitle(w io.Writer, title string) {
	fmt.Fprintln(w, titleStyle.Render(title))
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

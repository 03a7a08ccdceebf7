package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/procsim/procsim/sim/experiment"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	labelStyle  = lipgloss.NewStyle().Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Right)
)

// renderSummary draws the summary as a bordered table. When intervals is
// non-nil each cell shows "mean ± half-width".
func renderSummary(title string, t, intervals *experiment.SummaryTable) string {
	rows := make([][]string, len(t.Metrics))
	for m, label := range t.Metrics {
		row := []string{label}
		for c := range t.Columns {
			cell := fmt.Sprintf("%.3f", t.Values[m][c])
			if intervals != nil {
				cell = fmt.Sprintf("%s ± %.3f", cell, intervals.Values[m][c])
			}
			row = append(row, cell)
		}
		rows[m] = row
	}
	return titleStyle.Render(title) + "\n" + renderTable(append([]string{"Metric"}, t.Columns...), rows)
}

// renderTable draws rows under headers; the first column is left-aligned.
func renderTable(headers []string, rows [][]string) string {
	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return labelStyle
			default:
				return cellStyle
			}
		})
	return tbl.String()
}

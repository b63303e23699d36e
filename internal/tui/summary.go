package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type SummaryRow struct {
	Label string
	Value string
	// Alert highlights a non-zero problem count.
	Alert bool
}

// RenderSummary draws the end-of-run table with aligned columns.
func RenderSummary(rows []SummaryRow) string {
	labelWidth := 0
	valueWidth := 0
	for _, row := range rows {
		labelWidth = max(labelWidth, len(row.Label))
		valueWidth = max(valueWidth, len(row.Value))
	}

	hline := dimStyle.Render(strings.Repeat("-", labelWidth+valueWidth+3))
	lines := []string{hline}

	for _, row := range rows {
		style := valueStyle
		if row.Alert {
			style = alertStyle
		}
		line := fmt.Sprintf("%s | %s", labelStyle.Render(padRight(row.Label, labelWidth)), style.Render(padRight(row.Value, valueWidth)))
		lines = append(lines, line)
	}

	lines = append(lines, hline)
	return strings.Join(lines, "\n")
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

var (
	valueStyle = lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true)
	alertStyle = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
)

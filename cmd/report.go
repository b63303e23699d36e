package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"lentiplate/internal/processor"
	"lentiplate/internal/tui"
)

// runBatch drives processor.Run, showing the progress view only when stdout
// is a terminal. Quitting the view cancels the batch.
func runBatch(ctx context.Context, path string, opts processor.Options) (processor.Summary, []processor.ScanReport, error) {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return processor.Run(ctx, path, opts, nil)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	updates := make(chan processor.ProgressUpdate, 64)
	program := tea.NewProgram(tui.NewModel(rootCmd.Name(), updates))

	uiDone := make(chan struct{})
	go func() {
		defer close(uiDone)
		_, _ = program.Run()
		cancel()
		for range updates {
		}
	}()

	summary, reports, err := processor.Run(ctx, path, opts, updates)
	interrupted := ctx.Err() != nil
	close(updates)
	<-uiDone
	if interrupted && (err == nil || errors.Is(err, context.Canceled)) {
		err = errors.New("interrupted")
	}
	return summary, reports, err
}

func printReports(w io.Writer, reports []processor.ScanReport) {
	for i, report := range reports {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s\n", reportFileStyle.Render(report.Path))
		if report.Err != nil {
			fmt.Fprintf(w, "  %s %s\n", reportBulletStyle.Render("x"), reportErrorStyle.Render(report.Err.Error()))
		}
		for _, warning := range report.Warnings {
			fmt.Fprintf(w, "  %s %s\n", reportBulletStyle.Render("!"), reportWarnStyle.Render(warning))
		}
		if len(report.Details) == 0 && report.Err == nil {
			fmt.Fprintf(w, "  %s %s\n", reportBulletStyle.Render("-"), reportDimStyle.Render("none"))
		}
		for _, detail := range report.Details {
			if len(detail.Values) == 0 {
				continue
			}
			fmt.Fprintf(w, "  %s\n", reportCategoryStyle.Render(detail.Category+":"))
			for _, value := range detail.Values {
				fmt.Fprintf(w, "    %s %s\n", reportBulletStyle.Render("-"), reportValueStyle.Render(value))
			}
		}
		if report.Output != "" {
			fmt.Fprintf(w, "  %s %s\n", reportBulletStyle.Render("->"), reportValueStyle.Render(report.Output))
		}
	}
}

func summaryRows(summary processor.Summary, written bool) []tui.SummaryRow {
	rows := []tui.SummaryRow{
		{Label: "Plates read", Value: strconv.Itoa(summary.Processed)},
		{Label: "Warnings", Value: strconv.Itoa(summary.Warnings), Alert: summary.Warnings > 0},
		{Label: "Errors", Value: strconv.Itoa(summary.Errors), Alert: summary.Errors > 0},
	}
	if written {
		rows = append(rows, tui.SummaryRow{Label: "Plates written", Value: strconv.Itoa(summary.Written)})
	}
	return rows
}

var (
	reportFileStyle     = lipgloss.NewStyle().Bold(true).Foreground(tui.ColorAccent)
	reportCategoryStyle = lipgloss.NewStyle().Foreground(tui.ColorAccentAlt)
	reportValueStyle    = lipgloss.NewStyle().Foreground(tui.ColorInk)
	reportDimStyle      = lipgloss.NewStyle().Foreground(tui.ColorDim)
	reportBulletStyle   = lipgloss.NewStyle().Foreground(tui.ColorDim)
	reportWarnStyle     = lipgloss.NewStyle().Foreground(tui.ColorWarn)
	reportErrorStyle    = lipgloss.NewStyle().Foreground(tui.ColorError)
)

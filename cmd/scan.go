package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lentiplate/internal/plate"
	"lentiplate/internal/processor"
	"lentiplate/internal/tui"
)

var scanCmd = &cobra.Command{
	Use:   "scan [flags] <path>",
	Short: "Report cadre marks and centering without writing files",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := printSettings()
		if err != nil {
			return err
		}
		cfg := plate.DefaultConfig()
		cfg.Settings = settings
		cfg.CadreMM = printCadreMM

		summary, reports, err := runBatch(context.Background(), args[0], processor.Options{
			Action:  processor.ActionScan,
			Plate:   cfg,
			Workers: workerCount,
		})
		if err != nil {
			return err
		}

		printReports(os.Stdout, reports)
		fmt.Fprintln(os.Stdout)
		fmt.Fprintln(os.Stdout, tui.RenderSummary(summaryRows(summary, false)))
		if summary.Errors > 0 {
			return fmt.Errorf("%d of %d plates could not be scanned", summary.Errors, summary.Processed)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
}

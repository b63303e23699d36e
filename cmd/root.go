package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lentiplate/internal/frame"
)

var (
	printLPI     float64
	printHDPI    int
	printVDPI    int
	printCadreMM float64
	workerCount  int
)

var rootCmd = &cobra.Command{
	Use:   "lentiplate",
	Short: "lentiplate - cadre and mire tooling for lenticular prints",
	Long: "lentiplate scans lenticular print frames for their registration marks, " +
		"centres them, edits the cadre, and composes mire strips for printing.",
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// printSettings builds the settings shared by every subcommand.
func printSettings() (frame.PrintSettings, error) {
	return frame.NewPrintSettings(printLPI, printHDPI, printVDPI)
}

func init() {
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	flags := rootCmd.PersistentFlags()
	flags.Float64Var(&printLPI, "lpi", 50, "lenticular lines per inch")
	flags.IntVar(&printHDPI, "hdpi", 720, "horizontal print resolution (dpi)")
	flags.IntVar(&printVDPI, "vdpi", 360, "vertical print resolution (dpi)")
	flags.Float64VarP(&printCadreMM, "cadre", "c", 4, "cadre depth in mm")
	flags.IntVar(&workerCount, "workers", 0, "number of files handled in parallel (default: number of CPUs)")
}

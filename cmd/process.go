package cmd

import (
	"context"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"lentiplate/internal/frame"
	"lentiplate/internal/plate"
	"lentiplate/internal/processor"
	"lentiplate/internal/tui"
)

var (
	processMire         string
	processTemplates    string
	processMode         int
	processBordMireMM   float64
	processTraitNoirMM  float64
	processMarginMM     float64
	processLineColor    string
	processCenter       bool
	processJunctionLine bool
	processOutput       string
	processOutputDir    string
	processDebug        bool
)

var processCmd = &cobra.Command{
	Use:   "process [flags] <path>",
	Short: "Centre plates, edit the cadre and compose mire strips",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		cfg, err := processConfig()
		if err != nil {
			return err
		}

		if processOutput != "" {
			info, err := os.Stat(path)
			if err != nil {
				return err
			}
			if info.IsDir() {
				return fmt.Errorf("--output names a single file; use --output-dir for directories")
			}
			if filepath.Base(processOutput) != processOutput {
				return fmt.Errorf("--output takes a file name; use --output-dir for the folder")
			}
		}

		summary, reports, err := runBatch(context.Background(), path, processor.Options{
			Action:       processor.ActionProcess,
			Plate:        cfg,
			MirePath:     processMire,
			TemplatesDir: processTemplates,
			OutputDir:    processOutputDir,
			OutputName:   processOutput,
			Debug:        processDebug,
			Workers:      workerCount,
		})
		if err != nil {
			return err
		}

		printReports(os.Stdout, reports)
		fmt.Fprintln(os.Stdout)
		fmt.Fprintln(os.Stdout, tui.RenderSummary(summaryRows(summary, true)))
		if summary.Errors > 0 {
			return fmt.Errorf("%d of %d plates failed", summary.Errors, summary.Processed)
		}
		return nil
	},
}

func processConfig() (plate.Config, error) {
	settings, err := printSettings()
	if err != nil {
		return plate.Config{}, err
	}
	lineColor, err := parseLineColor(processLineColor)
	if err != nil {
		return plate.Config{}, err
	}

	cfg := plate.DefaultConfig()
	cfg.Settings = settings
	cfg.Mode = plate.Mode(processMode)
	cfg.BordMireMM = processBordMireMM
	cfg.CadreMM = printCadreMM
	cfg.TraitNoirMM = processTraitNoirMM
	cfg.MarginMM = processMarginMM
	cfg.LineColor = lineColor
	cfg.Center = processCenter
	cfg.JunctionLine = processJunctionLine
	return cfg, cfg.Validate()
}

func parseLineColor(name string) (color.NRGBA, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "black", "noir":
		return plate.Black, nil
	case "red", "rouge":
		return plate.Red, nil
	default:
		return color.NRGBA{}, &frame.ConfigError{Field: "line-color", Value: name, Reason: "must be black or red"}
	}
}

func init() {
	flags := processCmd.Flags()
	flags.StringVarP(&processMire, "mire", "m", "", "mire template image (default: looked up under --templates)")
	flags.StringVar(&processTemplates, "templates", processor.DefaultTemplatesDir, "folder of {HDPI}x{VDPI}/{LPI}.png mire templates")
	flags.IntVar(&processMode, "mode", 1, "1 = add mire strips, 2 = edit the cadre, 3 = both")
	flags.Float64Var(&processBordMireMM, "bord-mire", 4, "height of each mire strip in mm")
	flags.Float64Var(&processTraitNoirMM, "trait-noir", 1, "height of the black band at cadre junctions in mm")
	flags.Float64Var(&processMarginMM, "margin", 3, "side margin added in mode 1, in mm")
	flags.StringVar(&processLineColor, "line-color", "black", "fiducial line colour: black or red")
	flags.BoolVar(&processCenter, "center", true, "centre the plate on its middle red mark first")
	flags.BoolVar(&processJunctionLine, "junction-line", false, "also draw the black band where mire strips meet the image")
	flags.StringVarP(&processOutput, "output", "o", "", "output file name for a single input (default <name>_mod.png)")
	flags.StringVarP(&processOutputDir, "output-dir", "d", "", "destination folder (default: next to each input)")
	flags.BoolVar(&processDebug, "debug", false, "also write <name>_center.png marking the centre column")

	rootCmd.AddCommand(processCmd)
}

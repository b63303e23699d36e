package processor

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"

	"lentiplate/internal/frame"
)

// resolutionTolerance is how far (in dpi) a file's stored resolution may
// drift from the print settings before a warning is raised.
const resolutionTolerance = 0.5

var stageTitles = map[string]string{
	"input":   "Input",
	"output":  "Output",
	"scan":    "Cadre",
	"center":  "Centering",
	"edit":    "Cadre edit",
	"compose": "Mire composition",
}

// detailsFromRecorder groups recorded details by stage, in first-seen order.
func detailsFromRecorder(rec *frame.Recorder) []ScanDetail {
	var details []ScanDetail
	index := map[string]int{}
	for _, d := range rec.Details {
		i, ok := index[d.Stage]
		if !ok {
			title := stageTitles[d.Stage]
			if title == "" {
				title = d.Stage
			}
			details = append(details, ScanDetail{Category: title})
			i = len(details) - 1
			index[d.Stage] = i
		}
		details[i].Values = append(details[i].Values, fmt.Sprintf("%s=%v", d.Key, d.Value))
	}
	return details
}

func warningsFromRecorder(rec *frame.Recorder) []string {
	out := make([]string, 0, len(rec.Warnings))
	for _, w := range rec.Warnings {
		out = append(out, w.String())
	}
	return out
}

// pitchDetail summarises the spacing between consecutive red marks.
func pitchDetail(runs []frame.Run, s frame.PrintSettings) *ScanDetail {
	if len(runs) < 2 {
		return nil
	}
	gaps := make([]float64, 0, len(runs)-1)
	for i := 1; i < len(runs); i++ {
		gaps = append(gaps, float64(runs[i].Center()-runs[i-1].Center()))
	}
	mean, std := stat.MeanStdDev(gaps, nil)
	if math.IsNaN(std) {
		std = 0
	}
	return &ScanDetail{
		Category: "Red pitch",
		Values: []string{
			fmt.Sprintf("marks=%d", len(runs)),
			fmt.Sprintf("mean=%.1fpx (%.2fmm)", mean, mean*25.4/float64(s.HDPI)),
			fmt.Sprintf("stddev=%.2fpx", std),
			fmt.Sprintf("lenticular_lines=%.2f", mean/s.PxPerLine()),
		},
	}
}

// checkResolution compares a stored resolution with the print settings.
func checkResolution(xdpi, ydpi float64, source string, s frame.PrintSettings, rep frame.Reporter) ScanDetail {
	detail := ScanDetail{
		Category: "Resolution",
		Values: []string{
			fmt.Sprintf("source=%s", source),
			fmt.Sprintf("stored=%sx%s dpi", formatDPI(xdpi), formatDPI(ydpi)),
			fmt.Sprintf("print=%dx%d dpi", s.HDPI, s.VDPI),
		},
	}
	if math.Abs(xdpi-float64(s.HDPI)) > resolutionTolerance || math.Abs(ydpi-float64(s.VDPI)) > resolutionTolerance {
		rep.Warn(frame.Warning{
			Kind:  frame.WarnResolutionMismatch,
			Stage: "input",
			Message: fmt.Sprintf("file is tagged %sx%s dpi but the plate is printed at %dx%d dpi",
				formatDPI(xdpi), formatDPI(ydpi), s.HDPI, s.VDPI),
		})
	}
	return detail
}

func formatDPI(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

func parseRational(part string) (float64, bool) {
	part = strings.TrimSpace(part)
	part = strings.TrimPrefix(part, "[")
	part = strings.TrimSuffix(part, "]")
	if part == "" {
		return 0, false
	}
	if strings.Contains(part, "/") {
		items := strings.SplitN(part, "/", 2)
		if len(items) != 2 {
			return 0, false
		}
		num, err := strconv.ParseFloat(items[0], 64)
		if err != nil {
			return 0, false
		}
		den, err := strconv.ParseFloat(items[1], 64)
		if err != nil || den == 0 {
			return 0, false
		}
		return num / den, true
	}

	value, err := strconv.ParseFloat(part, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

package frame

import (
	"fmt"
	"image"
)

// CenterStripMM is the height of the top band scanned before centering.
const CenterStripMM = 2.0

// FrameReport lists the fiducial runs found in the cadre of one image.
// Black runs are scanned on the middle row; red runs on the middle row of
// the top cadre band. All positions are absolute x coordinates.
type FrameReport struct {
	BlackLeft  []Run
	BlackRight []Run
	RedLines   []Run

	CadrePxH int
	CadrePxV int
	BlackRow int
	RedRow   int
}

// CadreWindow converts cadreMM to pixels and checks it against the image
// size. A window wider than half the image would make the left and right
// scans overlap.
func CadreWindow(bounds image.Rectangle, s PrintSettings, cadreMM float64) (h, v int, err error) {
	if cadreMM < 0 {
		return 0, 0, &ConfigError{Field: "cadre_mm", Value: fmt.Sprint(cadreMM), Reason: "must not be negative"}
	}
	h = s.MMToPxH(cadreMM)
	v = s.MMToPxV(cadreMM)
	if h > bounds.Dx()/2 {
		return h, v, &ConfigError{
			Field:  "cadre_mm",
			Value:  fmt.Sprint(cadreMM),
			Reason: fmt.Sprintf("scan window %dpx is wider than half the image width %dpx", h, bounds.Dx()),
		}
	}
	if 2*v > bounds.Dy() {
		return h, v, &ConfigError{
			Field:  "cadre_mm",
			Value:  fmt.Sprint(cadreMM),
			Reason: fmt.Sprintf("bands of %dpx overlap in an image %dpx high", v, bounds.Dy()),
		}
	}
	return h, v, nil
}

// Scan detects the black side runs and the red top-band runs of the cadre.
func Scan(img *image.NRGBA, s PrintSettings, cadreMM float64, rep Reporter) (FrameReport, error) {
	if rep == nil {
		rep = Discard
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	cadreH, cadreV, err := CadreWindow(b, s, cadreMM)
	if err != nil {
		return FrameReport{}, err
	}

	report := FrameReport{
		CadrePxH: cadreH,
		CadrePxV: cadreV,
		BlackRow: h / 2,
		RedRow:   cadreV / 2,
	}

	report.BlackLeft = FindRuns(RowMask(img, report.BlackRow, 0, cadreH, IsBlack))

	right := FindRuns(RowMask(img, report.BlackRow, w-cadreH, w, IsBlack))
	for i := range right {
		right[i] = right[i].Shift(w - cadreH)
	}
	report.BlackRight = right

	report.RedLines = FindRuns(RowMask(img, report.RedRow, 0, w, IsRed))

	rep.Detail("scan", "cadre_px", fmt.Sprintf("%dx%d", cadreH, cadreV))
	rep.Detail("scan", "black_left", report.BlackLeft)
	rep.Detail("scan", "black_right", report.BlackRight)
	rep.Detail("scan", "red_lines", report.RedLines)
	return report, nil
}

// ScanCenterStrip returns the red runs of the top bandMM of the image. A
// column counts as red when any pixel of the band is red.
func ScanCenterStrip(img *image.NRGBA, s PrintSettings, bandMM float64) []Run {
	rows := min(s.MMToPxV(bandMM), img.Bounds().Dy())
	return FindRuns(BandColumnMask(img, 0, rows, IsRed))
}

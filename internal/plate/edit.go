package plate

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"lentiplate/internal/frame"
)

type EditOptions struct {
	CadreMM     float64
	TraitNoirMM float64
}

// EditResult records which runs were repainted.
type EditResult struct {
	Report     frame.FrameReport
	WhiteLeft  frame.Run
	WhiteRight frame.Run
	MiddleRed  int
	EdgeBand   int
	RedSkipped bool
	Repainted  []image.Rectangle
}

const minBlackRuns = 2

// Edit repaints the cadre of a copy of img:
//   - the second black run from the left and the second-from-last from the
//     right become white over the full height;
//   - the middle red run (by index) becomes black in both cadre bands;
//   - the first and last red runs get a black band TraitNoirMM high on the
//     image side of each cadre band.
//
// Fewer than two black runs on an edge is a *frame.FrameDetectionError. No
// red runs only skips the red edits.
func Edit(img *image.NRGBA, s frame.PrintSettings, opts EditOptions, rep frame.Reporter) (*image.NRGBA, EditResult, error) {
	if rep == nil {
		rep = frame.Discard
	}
	report, err := frame.Scan(img, s, opts.CadreMM, rep)
	if err != nil {
		return nil, EditResult{}, err
	}
	res := EditResult{Report: report, MiddleRed: -1}

	if n := len(report.BlackLeft); n < minBlackRuns {
		return nil, res, &frame.FrameDetectionError{Edge: "left", Found: n, Need: minBlackRuns, Runs: report.BlackLeft}
	}
	if n := len(report.BlackRight); n < minBlackRuns {
		return nil, res, &frame.FrameDetectionError{Edge: "right", Found: n, Need: minBlackRuns, Runs: report.BlackRight}
	}

	out := imaging.Clone(img)
	h := out.Bounds().Dy()
	column := func(r frame.Run, y0, y1 int) image.Rectangle {
		return image.Rect(r.Start, y0, r.End+1, y1)
	}
	paint := func(r image.Rectangle, c color.NRGBA) {
		if drawn := fill(out, r, c); !drawn.Empty() {
			res.Repainted = append(res.Repainted, drawn)
		}
	}

	res.WhiteLeft = report.BlackLeft[1]
	res.WhiteRight = report.BlackRight[len(report.BlackRight)-2]
	paint(column(res.WhiteLeft, 0, h), White)
	paint(column(res.WhiteRight, 0, h), White)
	rep.Detail("edit", "white_left", res.WhiteLeft)
	rep.Detail("edit", "white_right", res.WhiteRight)

	red := report.RedLines
	if len(red) == 0 {
		res.RedSkipped = true
		rep.Warn(frame.Warning{
			Kind:    frame.WarnNoRedRuns,
			Stage:   "edit",
			Message: fmt.Sprintf("no red line on row %d, red-line edits skipped", report.RedRow),
		})
		return out, res, nil
	}

	cadreV := report.CadrePxV
	mid, idx, _ := frame.MiddleRun(red)
	res.MiddleRed = idx
	paint(column(mid, 0, cadreV), Black)
	paint(column(mid, h-cadreV, h), Black)

	res.EdgeBand = min(s.MMToPxV(opts.TraitNoirMM), cadreV)
	if res.EdgeBand > 0 {
		for _, r := range []frame.Run{red[0], red[len(red)-1]} {
			paint(column(r, cadreV-res.EdgeBand, cadreV), Black)
			paint(column(r, h-cadreV, h-cadreV+res.EdgeBand), Black)
		}
	}

	rep.Detail("edit", "middle_red", mid)
	rep.Detail("edit", "edge_band_px", res.EdgeBand)
	return out, res, nil
}

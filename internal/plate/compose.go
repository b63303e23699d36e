package plate

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"

	"lentiplate/internal/frame"
)

var (
	Black = color.NRGBA{A: 255}
	White = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	Red   = color.NRGBA{R: 255, A: 255}
)

// FiducialLine is a vertical registration line drawn in the side margin,
// OffsetMM outward from the image edge and WidthFrac of a lenticular line wide.
type FiducialLine struct {
	OffsetMM  float64
	WidthFrac float64
}

// DefaultFiducials puts the lines 2mm and 1mm outward of the image edge, as
// the production templates do. They are not at 2mm and 3mm: a 3mm line would
// sit on the outer edge of the default 3mm margin and be cut off.
var DefaultFiducials = []FiducialLine{
	{OffsetMM: 2.0, WidthFrac: 1.0 / 4},
	{OffsetMM: 1.0, WidthFrac: 1.0 / 6},
}

type ComposeOptions struct {
	BordMireMM float64
	MarginMM   float64
	Lines      []FiducialLine
	LineColor  color.NRGBA
	// TraitNoirMM, when positive, blackens a band of that height in each
	// mire strip along its junction with the image.
	TraitNoirMM float64
}

type ComposeResult struct {
	StripH   int
	Margin   int
	Crop     image.Rectangle
	Lines    []image.Rectangle
	Junction []image.Rectangle
}

// CropCentered cuts a w x h rectangle out of the middle of tpl. The offsets
// never go negative: a template smaller than the target is copied whole from
// its origin and the result is smaller than requested.
func CropCentered(tpl image.Image, w, h int) (*image.NRGBA, image.Rectangle) {
	b := tpl.Bounds()
	left := max((b.Dx()-w)/2, 0)
	top := max((b.Dy()-h)/2, 0)
	r := image.Rect(left, top, left+w, top+h).Add(b.Min).Intersect(b)
	return imaging.Crop(tpl, r), r
}

// Compose stacks a mire strip above and below img on a transparent canvas
// with side margins, then draws the fiducial lines over the full height.
func Compose(img, mire *image.NRGBA, s frame.PrintSettings, opts ComposeOptions, rep frame.Reporter) (*image.NRGBA, ComposeResult, error) {
	if rep == nil {
		rep = frame.Discard
	}
	if mire == nil {
		return nil, ComposeResult{}, errors.New("compose: mire template is required")
	}
	if opts.BordMireMM < 0 || opts.MarginMM < 0 {
		return nil, ComposeResult{}, &frame.ConfigError{
			Field:  "bord_mire_mm/margin_mm",
			Value:  fmt.Sprintf("%v/%v", opts.BordMireMM, opts.MarginMM),
			Reason: "must not be negative",
		}
	}
	lineColor := opts.LineColor
	if lineColor == (color.NRGBA{}) {
		lineColor = Black
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	res := ComposeResult{
		StripH: s.MMToPxV(opts.BordMireMM),
		Margin: s.MMToPxH(opts.MarginMM),
	}
	totalW := w + 2*res.Margin
	totalH := res.StripH + h + res.StripH

	strip, crop := CropCentered(mire, w, res.StripH)
	res.Crop = crop
	if res.StripH > 0 && w > 0 && (crop.Dx() < w || crop.Dy() < res.StripH) {
		rep.Warn(frame.Warning{
			Kind:  frame.WarnTemplateTooSmall,
			Stage: "compose",
			Message: fmt.Sprintf("mire template %dx%d does not cover the %dx%d strip",
				mire.Bounds().Dx(), mire.Bounds().Dy(), w, res.StripH),
		})
	}

	out := imaging.New(totalW, totalH, color.NRGBA{})
	sb := strip.Bounds()
	draw.Draw(out, sb.Add(image.Pt(res.Margin, 0)), strip, sb.Min, draw.Src)
	draw.Draw(out, image.Rect(res.Margin, res.StripH, res.Margin+w, res.StripH+h), img, b.Min, draw.Src)
	draw.Draw(out, sb.Add(image.Pt(res.Margin, res.StripH+h)), strip, sb.Min, draw.Src)

	if opts.TraitNoirMM > 0 && res.StripH > 0 {
		band := min(s.MMToPxV(opts.TraitNoirMM), res.StripH)
		top := fill(out, image.Rect(res.Margin, res.StripH-band, res.Margin+w, res.StripH), Black)
		bottom := fill(out, image.Rect(res.Margin, res.StripH+h, res.Margin+w, res.StripH+h+band), Black)
		res.Junction = []image.Rectangle{top, bottom}
	}

	lines := opts.Lines
	if lines == nil {
		lines = DefaultFiducials
	}
	for _, l := range lines {
		x := res.Margin - s.MMToPxH(l.OffsetMM)
		lw := s.LineFracPx(l.WidthFrac)
		if lw <= 0 {
			continue
		}
		for _, r := range []image.Rectangle{
			image.Rect(x, 0, x+lw, totalH),
			image.Rect(totalW-x-lw, 0, totalW-x, totalH),
		} {
			if drawn := fill(out, r, lineColor); !drawn.Empty() {
				res.Lines = append(res.Lines, drawn)
			}
		}
	}

	rep.Detail("compose", "strip_h", res.StripH)
	rep.Detail("compose", "margin", res.Margin)
	rep.Detail("compose", "mire_crop", res.Crop)
	rep.Detail("compose", "size", fmt.Sprintf("%dx%d", totalW, totalH))
	rep.Detail("compose", "lines", res.Lines)
	return out, res, nil
}

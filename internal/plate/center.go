package plate

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"

	"lentiplate/internal/frame"
)

// CenterResult describes the padding chosen for one image.
type CenterResult struct {
	Runs     []frame.Run
	Index    int
	Mark     int
	Mid      int
	PadLeft  int
	PadRight int
	Found    bool
}

func (r CenterResult) Applied() bool {
	return r.PadLeft > 0 || r.PadRight > 0
}

// PlanCenter computes the one-sided padding that puts the middle red run (by
// list index, see frame.MiddleRun) on the horizontal centre of an image of
// the given width.
func PlanCenter(runs []frame.Run, width int) CenterResult {
	res := CenterResult{Runs: runs, Index: -1, Mid: width / 2}
	run, idx, ok := frame.MiddleRun(runs)
	if !ok {
		return res
	}
	res.Found = true
	res.Index = idx
	res.Mark = run.Center()
	switch {
	case res.Mark < res.Mid:
		res.PadLeft = width - 2*res.Mark
	case res.Mark > res.Mid:
		res.PadRight = 2*res.Mark - width
	}
	return res
}

// Center pads img with transparent columns on one side so that the middle
// red mark of the top strip lands on the new width/2. Without a mark, or
// when the mark is already centred, img is returned as is.
func Center(img *image.NRGBA, s frame.PrintSettings, rep frame.Reporter) (*image.NRGBA, CenterResult) {
	if rep == nil {
		rep = frame.Discard
	}
	b := img.Bounds()
	runs := frame.ScanCenterStrip(img, s, frame.CenterStripMM)
	plan := PlanCenter(runs, b.Dx())

	rep.Detail("center", "red_runs", runs)
	rep.Detail("center", "image_mid", plan.Mid)

	if !plan.Found {
		rep.Warn(frame.Warning{
			Kind:    frame.WarnNoRedRuns,
			Stage:   "center",
			Message: "no red line in the top strip, centering skipped",
		})
		return img, plan
	}

	rep.Detail("center", "middle_index", plan.Index)
	rep.Detail("center", "mark_x", plan.Mark)
	if !plan.Applied() {
		return img, plan
	}

	newW := b.Dx() + plan.PadLeft + plan.PadRight
	out := imaging.New(newW, b.Dy(), color.NRGBA{})
	draw.Draw(out, image.Rect(plan.PadLeft, 0, plan.PadLeft+b.Dx(), b.Dy()), img, b.Min, draw.Src)

	rep.Detail("center", "pad_left", plan.PadLeft)
	rep.Detail("center", "pad_right", plan.PadRight)
	rep.Detail("center", "width", newW)
	return out, plan
}

var debugGreen = color.NRGBA{G: 255, A: 255}

// MarkCenter returns a copy of img with a 3px green line on column width/2.
func MarkCenter(img *image.NRGBA) *image.NRGBA {
	out := imaging.Clone(img)
	b := out.Bounds()
	cx := b.Dx() / 2
	fill(out, image.Rect(cx-1, 0, cx+2, b.Dy()), debugGreen)
	return out
}

func fill(img *image.NRGBA, r image.Rectangle, c color.NRGBA) image.Rectangle {
	r = r.Intersect(img.Bounds())
	if r.Empty() {
		return r
	}
	draw.Draw(img, r, image.NewUniform(c), image.Point{}, draw.Src)
	return r
}

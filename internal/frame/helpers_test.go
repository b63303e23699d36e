package frame

import (
	"image"
	"image/color"
)

var (
	testWhite = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	testBlack = color.NRGBA{R: 10, G: 10, B: 12, A: 255}
	testRed   = color.NRGBA{R: 220, G: 30, B: 25, A: 255}
)

// tenPerMM gives exactly 10 pixels per millimetre on both axes.
var tenPerMM = PrintSettings{LPI: 50, HDPI: 254, VDPI: 254}

func newTestImage(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	fillTestRect(img, img.Bounds(), c)
	return img
}

func fillTestRect(img *image.NRGBA, r image.Rectangle, c color.NRGBA) {
	r = r.Intersect(img.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
}

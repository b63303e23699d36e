package plate

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"lentiplate/internal/frame"
)

var (
	testWhite = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	testBlack = color.NRGBA{R: 8, G: 8, B: 10, A: 255}
	testRed   = color.NRGBA{R: 230, G: 20, B: 20, A: 255}
	testBlue  = color.NRGBA{B: 255, A: 255}
)

// tenPerMM gives exactly 10 pixels per millimetre on both axes.
var tenPerMM = frame.PrintSettings{LPI: 50, HDPI: 254, VDPI: 254}

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

// buildCadre draws a 400x200 frame with a 4mm cadre at 10px/mm: black side
// columns at 5-7, 15-17, 382-384, 392-394 and red marks at 100-103,
// 198-201, 300-303 in both cadre bands.
func buildCadre() *image.NRGBA {
	img := newTestImage(400, 200, testWhite)
	for _, x := range []int{5, 15, 382, 392} {
		fillTestRect(img, image.Rect(x, 0, x+3, 200), testBlack)
	}
	for _, x := range []int{100, 198, 300} {
		fillTestRect(img, image.Rect(x, 0, x+4, 40), testRed)
		fillTestRect(img, image.Rect(x, 160, x+4, 200), testRed)
	}
	return img
}

func snapshot(img *image.NRGBA) []byte {
	return bytes.Clone(img.Pix)
}

func assertUnchanged(t *testing.T, img *image.NRGBA, before []byte) {
	t.Helper()
	if !bytes.Equal(img.Pix, before) {
		t.Fatalf("source image was modified")
	}
}

func assertColumn(t *testing.T, img *image.NRGBA, x, y0, y1 int, want color.NRGBA) {
	t.Helper()
	for y := y0; y < y1; y++ {
		if got := img.NRGBAAt(x, y); got != want {
			t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got, want)
		}
	}
}

package plate

import (
	"image"
	"testing"

	"github.com/google/go-cmp/cmp"

	"lentiplate/internal/frame"
)

var plateSettings = frame.PrintSettings{LPI: 50, HDPI: 720, VDPI: 360}

func TestComposeGeometry(t *testing.T) {
	src := newTestImage(200, 100, testWhite)
	mire := newTestImage(400, 100, testRed)
	mire.SetNRGBA(100, 21, testBlue)
	mire.SetNRGBA(299, 77, testBlue)
	before := snapshot(src)

	out, res, err := Compose(src, mire, plateSettings, ComposeOptions{BordMireMM: 4, MarginMM: 3}, nil)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	assertUnchanged(t, src, before)

	if res.StripH != 57 || res.Margin != 85 {
		t.Fatalf("strip/margin = %d/%d, want 57/85", res.StripH, res.Margin)
	}
	if got, want := out.Bounds().Size(), image.Pt(370, 57+100+57); got != want {
		t.Fatalf("canvas size %v, want %v", got, want)
	}
	if diff := cmp.Diff(image.Rect(100, 21, 300, 78), res.Crop); diff != "" {
		t.Fatalf("mire crop (-want +got):\n%s", diff)
	}

	// Crop corners land at the image's left/right edge in both strips.
	for _, p := range []image.Point{{85, 0}, {284, 56}, {85, 157}, {284, 213}} {
		if got := out.NRGBAAt(p.X, p.Y); got != testBlue {
			t.Errorf("pixel %v = %v, want mire marker", p, got)
		}
	}
	if got := out.NRGBAAt(150, 57); got != testWhite {
		t.Errorf("first source row not at strip height: %v", got)
	}
	if got := out.NRGBAAt(150, 156); got != testWhite {
		t.Errorf("last source row misplaced: %v", got)
	}
	if got := out.NRGBAAt(150, 157); got != testRed {
		t.Errorf("bottom strip misplaced: %v", got)
	}
}

func TestComposeFiducialLines(t *testing.T) {
	src := newTestImage(200, 100, testWhite)
	mire := newTestImage(400, 100, testWhite)

	out, res, err := Compose(src, mire, plateSettings, ComposeOptions{BordMireMM: 4, MarginMM: 3, LineColor: Red}, nil)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}

	want := []image.Rectangle{
		image.Rect(28, 0, 32, 214),
		image.Rect(338, 0, 342, 214),
		image.Rect(57, 0, 59, 214),
		image.Rect(311, 0, 313, 214),
	}
	if diff := cmp.Diff(want, res.Lines); diff != "" {
		t.Fatalf("lines (-want +got):\n%s", diff)
	}
	for _, r := range want {
		assertColumn(t, out, r.Min.X, 0, 214, Red)
		assertColumn(t, out, r.Max.X-1, 0, 214, Red)
	}

	if a := out.NRGBAAt(5, 100).A; a != 0 {
		t.Fatalf("margin should stay transparent, alpha %d", a)
	}
	if a := out.NRGBAAt(27, 10).A; a != 0 {
		t.Fatalf("pixel next to a line should stay transparent, alpha %d", a)
	}
}

func TestComposeDefaultsToBlackLines(t *testing.T) {
	src := newTestImage(200, 100, testWhite)
	out, res, err := Compose(src, newTestImage(200, 57, testWhite), plateSettings, ComposeOptions{BordMireMM: 4, MarginMM: 3}, nil)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	assertColumn(t, out, res.Lines[0].Min.X, 0, out.Bounds().Dy(), Black)
}

func TestComposeSmallTemplate(t *testing.T) {
	src := newTestImage(200, 100, testWhite)
	mire := newTestImage(50, 20, testRed)
	rec := &frame.Recorder{}

	out, res, err := Compose(src, mire, plateSettings, ComposeOptions{BordMireMM: 4, MarginMM: 3}, rec)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if !rec.HasWarning(frame.WarnTemplateTooSmall) {
		t.Fatalf("expected template warning, got %v", rec.Warnings)
	}
	if diff := cmp.Diff(image.Rect(0, 0, 50, 20), res.Crop); diff != "" {
		t.Fatalf("crop (-want +got):\n%s", diff)
	}
	if got := out.NRGBAAt(85, 0); got != testRed {
		t.Fatalf("template origin not pasted: %v", got)
	}
	if a := out.NRGBAAt(85+60, 10).A; a != 0 {
		t.Fatalf("uncovered strip should stay transparent, alpha %d", a)
	}
	if out.Bounds().Dy() != 214 {
		t.Fatalf("height %d, want 214", out.Bounds().Dy())
	}
}

func TestComposeJunctionBand(t *testing.T) {
	src := newTestImage(200, 100, testWhite)
	mire := newTestImage(400, 100, testRed)

	out, res, err := Compose(src, mire, plateSettings, ComposeOptions{BordMireMM: 4, MarginMM: 3, TraitNoirMM: 1}, nil)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	// 1mm at 360dpi is 14px.
	want := []image.Rectangle{image.Rect(85, 43, 285, 57), image.Rect(85, 157, 285, 171)}
	if diff := cmp.Diff(want, res.Junction); diff != "" {
		t.Fatalf("junction (-want +got):\n%s", diff)
	}
	assertColumn(t, out, 150, 43, 57, Black)
	assertColumn(t, out, 150, 157, 171, Black)
	assertColumn(t, out, 150, 42, 43, testRed)
	assertColumn(t, out, 150, 171, 172, testRed)
}

func TestComposeRequiresTemplate(t *testing.T) {
	if _, _, err := Compose(newTestImage(10, 10, testWhite), nil, plateSettings, ComposeOptions{BordMireMM: 4}, nil); err == nil {
		t.Fatalf("expected an error without a template")
	}
}

func TestCropCenteredNeverNegative(t *testing.T) {
	tpl := newTestImage(30, 10, testWhite)
	crop, r := CropCentered(tpl, 100, 5)
	if r != image.Rect(0, 2, 30, 7) {
		t.Fatalf("crop rect %v", r)
	}
	if crop.Bounds().Size() != image.Pt(30, 5) {
		t.Fatalf("crop size %v", crop.Bounds().Size())
	}
}

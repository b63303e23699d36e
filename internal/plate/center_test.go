package plate

import (
	"image"
	"testing"

	"github.com/google/go-cmp/cmp"

	"lentiplate/internal/frame"
)

func TestCenterPlacesMarkOnMidline(t *testing.T) {
	for _, c := range []int{30, 80, 1, 98} {
		img := newTestImage(100, 40, testWhite)
		fillTestRect(img, image.Rect(c, 0, c+1, 6), testRed)
		before := snapshot(img)

		out, res := Center(img, tenPerMM, nil)
		assertUnchanged(t, img, before)

		wantW := 2 * max(c, 100-c)
		if out.Bounds().Dx() != wantW || out.Bounds().Dy() != 40 {
			t.Fatalf("mark %d: size %v, want %dx40", c, out.Bounds().Size(), wantW)
		}

		runs := frame.ScanCenterStrip(out, tenPerMM, frame.CenterStripMM)
		if len(runs) != 1 || runs[0].Center() != wantW/2 {
			t.Fatalf("mark %d: runs after centering %v, want one at %d", c, runs, wantW/2)
		}
		if res.PadLeft > 0 && res.PadRight > 0 {
			t.Fatalf("mark %d: padded both sides: %+v", c, res)
		}
		if got := out.NRGBAAt(res.PadLeft+50, 20); got != testWhite {
			t.Fatalf("mark %d: content moved: pixel %v", c, got)
		}
	}
}

func TestCenterPadsWithTransparency(t *testing.T) {
	img := newTestImage(100, 40, testWhite)
	fillTestRect(img, image.Rect(30, 0, 31, 6), testRed)

	out, res := Center(img, tenPerMM, nil)
	if res.PadLeft != 40 || res.PadRight != 0 {
		t.Fatalf("padding = %d/%d, want 40/0", res.PadLeft, res.PadRight)
	}
	for x := 0; x < 40; x++ {
		if a := out.NRGBAAt(x, 10).A; a != 0 {
			t.Fatalf("padding column %d has alpha %d", x, a)
		}
	}
}

func TestCenterIsIdempotent(t *testing.T) {
	img := newTestImage(120, 40, testWhite)
	for _, x := range []int{10, 25, 90} {
		fillTestRect(img, image.Rect(x, 0, x+3, 10), testRed)
	}

	once, first := Center(img, tenPerMM, nil)
	if !first.Applied() {
		t.Fatalf("expected padding on first pass: %+v", first)
	}
	twice, second := Center(once, tenPerMM, nil)
	if second.Applied() {
		t.Fatalf("second pass padded again: %+v", second)
	}
	if twice != once {
		t.Fatalf("second pass returned a new image")
	}
}

func TestCenterUsesMiddleRunByIndex(t *testing.T) {
	img := newTestImage(120, 40, testWhite)
	for _, x := range []int{10, 25, 90} {
		fillTestRect(img, image.Rect(x, 0, x+3, 10), testRed)
	}

	_, res := Center(img, tenPerMM, nil)
	want := CenterResult{
		Runs:    []frame.Run{{Start: 10, End: 12}, {Start: 25, End: 27}, {Start: 90, End: 92}},
		Index:   1,
		Mark:    26,
		Mid:     60,
		PadLeft: 68,
		Found:   true,
	}
	if diff := cmp.Diff(want, res); diff != "" {
		t.Fatalf("Center (-want +got):\n%s", diff)
	}
}

func TestCenterWithoutMarks(t *testing.T) {
	img := newTestImage(50, 40, testWhite)
	rec := &frame.Recorder{}

	out, res := Center(img, tenPerMM, rec)
	if out != img || res.Found || res.Applied() {
		t.Fatalf("expected unchanged image, got %+v", res)
	}
	if !rec.HasWarning(frame.WarnNoRedRuns) {
		t.Fatalf("expected a no-red-runs warning, got %v", rec.Warnings)
	}
}

func TestMarkCenter(t *testing.T) {
	img := newTestImage(10, 4, testWhite)
	before := snapshot(img)

	out := MarkCenter(img)
	assertUnchanged(t, img, before)
	for _, x := range []int{4, 5, 6} {
		assertColumn(t, out, x, 0, 4, debugGreen)
	}
	assertColumn(t, out, 3, 0, 4, testWhite)
	assertColumn(t, out, 7, 0, 4, testWhite)
}

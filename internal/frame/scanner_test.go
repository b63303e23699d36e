package frame

import (
	"errors"
	"image"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// buildCadre draws a 400x200 white frame with a 4mm cadre at 10px/mm: two
// black columns on each side and three red marks in the top and bottom bands.
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

func TestScan(t *testing.T) {
	rec := &Recorder{}
	report, err := Scan(buildCadre(), tenPerMM, 4, rec)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	want := FrameReport{
		BlackLeft:  []Run{{5, 7}, {15, 17}},
		BlackRight: []Run{{382, 384}, {392, 394}},
		RedLines:   []Run{{100, 103}, {198, 201}, {300, 303}},
		CadrePxH:   40,
		CadrePxV:   40,
		BlackRow:   100,
		RedRow:     20,
	}
	if diff := cmp.Diff(want, report); diff != "" {
		t.Fatalf("Scan mismatch (-want +got):\n%s", diff)
	}

	got, ok := rec.Lookup("scan", "red_lines")
	if !ok {
		t.Fatalf("red_lines detail not reported")
	}
	if diff := cmp.Diff(want.RedLines, got); diff != "" {
		t.Fatalf("reported red_lines (-want +got):\n%s", diff)
	}
}

func TestScanRejectsOverlappingWindows(t *testing.T) {
	_, err := Scan(buildCadre(), tenPerMM, 25, nil)
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
	if cfgErr.Field != "cadre_mm" {
		t.Fatalf("unexpected field %q", cfgErr.Field)
	}

	_, err = Scan(newTestImage(400, 50, testWhite), tenPerMM, 4, nil)
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError for overlapping bands, got %v", err)
	}
}

func TestScanEmptyCadre(t *testing.T) {
	report, err := Scan(newTestImage(100, 100, testWhite), tenPerMM, 0, nil)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(report.BlackLeft) != 0 || len(report.BlackRight) != 0 {
		t.Fatalf("zero-width cadre should find no black runs: %+v", report)
	}
}

func TestScanCenterStrip(t *testing.T) {
	img := newTestImage(100, 60, testWhite)
	img.SetNRGBA(10, 19, testRed)
	fillTestRect(img, image.Rect(40, 3, 43, 4), testRed)
	img.SetNRGBA(70, 25, testRed)

	got := ScanCenterStrip(img, tenPerMM, CenterStripMM)
	want := []Run{{10, 10}, {40, 42}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ScanCenterStrip (-want +got):\n%s", diff)
	}
}

package plate

import (
	"errors"
	"image"
	"testing"

	"lentiplate/internal/frame"
)

func testConfig(mode Mode) Config {
	cfg := DefaultConfig()
	cfg.Settings = tenPerMM
	cfg.Mode = mode
	return cfg
}

func TestProcessMode3CentersEditsThenComposes(t *testing.T) {
	src := buildCadre()
	mire := newTestImage(600, 100, testBlue)
	before := snapshot(src)
	rec := &frame.Recorder{}

	res, err := Process(src, mire, testConfig(Mode3), rec)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	assertUnchanged(t, src, before)

	// Middle mark at 199 -> two transparent columns on the left.
	if res.Center.PadLeft != 2 || res.Centered.Bounds().Dx() != 402 {
		t.Fatalf("centering: %+v width %d", res.Center, res.Centered.Bounds().Dx())
	}
	if res.Edit == nil || res.Compose == nil {
		t.Fatalf("mode 3 should run both stages: %+v", res)
	}
	// The transparent padding is not read as a black run.
	if res.Edit.WhiteLeft != (frame.Run{Start: 17, End: 19}) {
		t.Fatalf("whitened %+v, want {17 19}", res.Edit.WhiteLeft)
	}

	if got, want := res.Image.Bounds().Size(), image.Pt(402+2*30, 40+200+40); got != want {
		t.Fatalf("size %v, want %v", got, want)
	}
	if got := res.Image.NRGBAAt(30+18, 40+100); got != White {
		t.Fatalf("edited column not carried into the composition: %v", got)
	}
	if got := res.Image.NRGBAAt(30+201, 40+5); got != Black {
		t.Fatalf("middle red mark not blackened: %v", got)
	}
}

func TestProcessMode2WithoutCentering(t *testing.T) {
	cfg := testConfig(Mode2)
	cfg.Center = false

	res, err := Process(buildCadre(), nil, cfg, nil)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if res.Compose != nil || res.Center.Found {
		t.Fatalf("mode 2 without centering ran extra stages: %+v", res)
	}
	if res.Image.Bounds().Size() != image.Pt(400, 200) {
		t.Fatalf("mode 2 must keep the size, got %v", res.Image.Bounds().Size())
	}
}

func TestProcessMode1(t *testing.T) {
	cfg := DefaultConfig()
	res, err := Process(newTestImage(300, 120, testWhite), newTestImage(400, 80, testBlue), cfg, nil)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if res.Edit != nil {
		t.Fatalf("mode 1 should not edit the cadre")
	}
	if got := res.Image.Bounds().Dy(); got != 57+120+57 {
		t.Fatalf("height %d, want %d", got, 57+120+57)
	}
}

func TestProcessErrors(t *testing.T) {
	var cfgErr *frame.ConfigError

	cfg := testConfig(Mode(4))
	if _, err := Process(buildCadre(), nil, cfg, nil); !errors.As(err, &cfgErr) || cfgErr.Field != "mode" {
		t.Fatalf("expected mode ConfigError, got %v", err)
	}

	cfg = testConfig(Mode2)
	cfg.CadreMM = -1
	if _, err := Process(buildCadre(), nil, cfg, nil); !errors.As(err, &cfgErr) || cfgErr.Field != "cadre_mm" {
		t.Fatalf("expected cadre ConfigError, got %v", err)
	}

	cfg = testConfig(Mode2)
	cfg.Settings.LPI = 0
	if _, err := Process(buildCadre(), nil, cfg, nil); !errors.As(err, &cfgErr) || cfgErr.Field != "lpi" {
		t.Fatalf("expected lpi ConfigError, got %v", err)
	}

	if _, err := Process(buildCadre(), nil, testConfig(Mode1), nil); err == nil {
		t.Fatalf("expected an error for mode 1 without a template")
	}

	cfg = testConfig(Mode2)
	cfg.CadreMM = 30
	if _, err := Process(buildCadre(), nil, cfg, nil); !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError for an oversized cadre, got %v", err)
	}

	src := buildCadre()
	fillTestRect(src, image.Rect(0, 0, 40, 200), testWhite)
	var detErr *frame.FrameDetectionError
	if _, err := Process(src, nil, testConfig(Mode2), nil); !errors.As(err, &detErr) {
		t.Fatalf("expected FrameDetectionError, got %v", err)
	}
}

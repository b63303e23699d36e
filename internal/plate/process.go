package plate

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"lentiplate/internal/frame"
)

type Mode int

const (
	// Mode1 adds mire strips and fiducial lines around the image.
	Mode1 Mode = 1
	// Mode2 repaints the existing cadre in place.
	Mode2 Mode = 2
	// Mode3 runs Mode2 and feeds its result to Mode1.
	Mode3 Mode = 3
)

func (m Mode) String() string {
	switch m {
	case Mode1:
		return "mode1"
	case Mode2:
		return "mode2"
	case Mode3:
		return "mode3"
	default:
		return fmt.Sprintf("mode%d", int(m))
	}
}

func (m Mode) NeedsMire() bool {
	return m == Mode1 || m == Mode3
}

type Config struct {
	Settings    frame.PrintSettings
	Mode        Mode
	BordMireMM  float64
	CadreMM     float64
	TraitNoirMM float64
	MarginMM    float64
	Center      bool
	LineColor   color.NRGBA
	Lines       []FiducialLine

	// JunctionLine applies TraitNoirMM to the Mode 1 mire strips as well.
	JunctionLine bool
}

func DefaultConfig() Config {
	return Config{
		Settings:    frame.PrintSettings{LPI: 50, HDPI: 720, VDPI: 360},
		Mode:        Mode1,
		BordMireMM:  4.0,
		CadreMM:     4.0,
		TraitNoirMM: 1.0,
		MarginMM:    3.0,
		Center:      true,
		LineColor:   Black,
		Lines:       DefaultFiducials,
	}
}

func (c Config) Validate() error {
	if err := c.Settings.Validate(); err != nil {
		return err
	}
	if c.Mode < Mode1 || c.Mode > Mode3 {
		return &frame.ConfigError{Field: "mode", Value: fmt.Sprint(int(c.Mode)), Reason: "must be 1, 2 or 3"}
	}
	lengths := []struct {
		name string
		mm   float64
	}{
		{"bord_mire_mm", c.BordMireMM},
		{"cadre_mm", c.CadreMM},
		{"trait_noir_mm", c.TraitNoirMM},
		{"margin_mm", c.MarginMM},
	}
	for _, l := range lengths {
		if l.mm < 0 {
			return &frame.ConfigError{Field: l.name, Value: fmt.Sprint(l.mm), Reason: "must not be negative"}
		}
	}
	return nil
}

// Result carries the final image and what each stage decided.
type Result struct {
	Image    *image.NRGBA
	Centered *image.NRGBA
	Center   CenterResult
	Edit     *EditResult
	Compose  *ComposeResult
}

// Process runs the plate pipeline: optional centering, then the cadre edit
// for modes 2 and 3, then the mire composition for modes 1 and 3. src is
// never modified.
func Process(src, mire *image.NRGBA, cfg Config, rep frame.Reporter) (Result, error) {
	if rep == nil {
		rep = frame.Discard
	}
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}
	if cfg.Mode.NeedsMire() && mire == nil {
		return Result{}, errors.New("a mire template is required for " + cfg.Mode.String())
	}

	var res Result
	img := src
	if cfg.Center {
		img, res.Center = Center(img, cfg.Settings, rep)
	}
	res.Centered = img

	if cfg.Mode == Mode2 || cfg.Mode == Mode3 {
		edited, er, err := Edit(img, cfg.Settings, EditOptions{CadreMM: cfg.CadreMM, TraitNoirMM: cfg.TraitNoirMM}, rep)
		if err != nil {
			return Result{}, fmt.Errorf("%s: %w", cfg.Mode, err)
		}
		img = edited
		res.Edit = &er
	}

	if cfg.Mode.NeedsMire() {
		opts := ComposeOptions{
			BordMireMM: cfg.BordMireMM,
			MarginMM:   cfg.MarginMM,
			Lines:      cfg.Lines,
			LineColor:  cfg.LineColor,
		}
		if cfg.JunctionLine {
			opts.TraitNoirMM = cfg.TraitNoirMM
		}
		composed, cr, err := Compose(img, mire, cfg.Settings, opts, rep)
		if err != nil {
			return Result{}, fmt.Errorf("%s: %w", cfg.Mode, err)
		}
		img = composed
		res.Compose = &cr
	}

	res.Image = img
	return res, nil
}

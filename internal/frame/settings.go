package frame

import (
	"fmt"
	"math"
)

const mmPerInch = 25.4

// PrintSettings holds the optical parameters of a lenticular plate.
// Conversions round half to even so that separately rounded values
// stay comparable.
type PrintSettings struct {
	LPI  float64
	HDPI int
	VDPI int
}

func NewPrintSettings(lpi float64, hdpi, vdpi int) (PrintSettings, error) {
	s := PrintSettings{LPI: lpi, HDPI: hdpi, VDPI: vdpi}
	if err := s.Validate(); err != nil {
		return PrintSettings{}, err
	}
	return s, nil
}

func (s PrintSettings) Validate() error {
	if !(s.LPI > 0) || math.IsInf(s.LPI, 0) {
		return &ConfigError{Field: "lpi", Value: fmt.Sprint(s.LPI), Reason: "must be positive"}
	}
	if s.HDPI <= 0 {
		return &ConfigError{Field: "hdpi", Value: fmt.Sprint(s.HDPI), Reason: "must be positive"}
	}
	if s.VDPI <= 0 {
		return &ConfigError{Field: "vdpi", Value: fmt.Sprint(s.VDPI), Reason: "must be positive"}
	}
	return nil
}

// PxPerLine is the width of one lenticular line in horizontal pixels.
func (s PrintSettings) PxPerLine() float64 {
	return float64(s.HDPI) / s.LPI
}

func (s PrintSettings) MMToPxH(mm float64) int {
	return int(math.RoundToEven(mm * float64(s.HDPI) / mmPerInch))
}

func (s PrintSettings) MMToPxV(mm float64) int {
	return int(math.RoundToEven(mm * float64(s.VDPI) / mmPerInch))
}

func (s PrintSettings) PxToMMH(px int) float64 {
	return float64(px) * mmPerInch / float64(s.HDPI)
}

func (s PrintSettings) PxToMMV(px int) float64 {
	return float64(px) * mmPerInch / float64(s.VDPI)
}

// LineFracPx returns the pixel width of a fraction of a lenticular line.
func (s PrintSettings) LineFracPx(fraction float64) int {
	return int(math.RoundToEven(s.PxPerLine() * fraction))
}

// PixelsPerMeter converts the print resolution for PNG pHYs chunks.
func (s PrintSettings) PixelsPerMeter() (x, y uint32) {
	x = uint32(math.RoundToEven(float64(s.HDPI) * 1000 / mmPerInch))
	y = uint32(math.RoundToEven(float64(s.VDPI) * 1000 / mmPerInch))
	return x, y
}

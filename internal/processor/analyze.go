package processor

import (
	"errors"
	"io"
	"strings"

	exif "github.com/dsoprea/go-exif/v3"
	exifcommon "github.com/dsoprea/go-exif/v3/common"

	"lentiplate/pkg/imgutil"
)

// ExifResolution is the print resolution stored in IFD0, in dots per inch.
type ExifResolution struct {
	Found bool
	XDPI  float64
	YDPI  float64
	Unit  string
}

// analyzeExif reads IFD0 resolution tags. A TIFF file is itself the EXIF
// block; a JPEG carries it in APP1 and has to be searched first.
func analyzeExif(rs io.ReadSeeker, kind imgutil.Kind) (ExifResolution, error) {
	res := ExifResolution{Unit: "inch"}

	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return res, err
	}

	var tags []exif.ExifTag
	var err error
	if kind == imgutil.KindTIFF {
		tags, _, err = exif.GetFlatExifDataUniversalSearchWithReadSeeker(rs, nil, true)
	} else {
		var raw []byte
		raw, err = exif.SearchAndExtractExifWithReader(rs)
		if err == nil {
			tags, _, err = exif.GetFlatExifData(raw, nil)
		}
	}
	if err != nil {
		if errorsIsNoExif(err) {
			return res, nil
		}
		return res, err
	}

	var x, y float64
	var haveX, haveY bool
	unit := uint16(2)
	for _, tag := range tags {
		if tag.IfdPath != "IFD" {
			continue
		}
		switch tag.TagName {
		case "XResolution":
			x, haveX = tagRational(tag)
		case "YResolution":
			y, haveY = tagRational(tag)
		case "ResolutionUnit":
			if v, ok := tag.Value.([]uint16); ok && len(v) > 0 {
				unit = v[0]
			}
		}
	}
	if !haveX || !haveY {
		return res, nil
	}

	res.Found = true
	res.XDPI, res.YDPI = x, y
	if unit == 3 {
		res.Unit = "cm"
		res.XDPI *= 2.54
		res.YDPI *= 2.54
	}
	return res, nil
}

func tagRational(tag exif.ExifTag) (float64, bool) {
	if v, ok := tag.Value.([]exifcommon.Rational); ok && len(v) > 0 {
		if v[0].Denominator == 0 {
			return 0, false
		}
		return float64(v[0].Numerator) / float64(v[0].Denominator), true
	}
	return parseRational(tag.FormattedFirst)
}

func errorsIsNoExif(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, exif.ErrNoExif) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "no exif")
}

package frame

import "image"

const (
	redMargin       = 30
	neutralSpread   = 10
	blackBrightness = 200
	whiteBrightness = 200
)

// Classifier is a per-pixel predicate over 8-bit R, G, B channels.
type Classifier func(r, g, b uint8) bool

// IsRed reports R exceeding both G and B by more than 30.
func IsRed(r, g, b uint8) bool {
	ri, gi, bi := int(r), int(g), int(b)
	return ri > gi+redMargin && ri > bi+redMargin
}

// IsBlack reports a neutral, dark pixel: channel spread below 10 and the
// brightest channel below 200. The spread test keeps anti-aliased mark
// edges classified the same way as the mark body.
func IsBlack(r, g, b uint8) bool {
	hi := max(r, g, b)
	lo := min(r, g, b)
	return int(hi)-int(lo) < neutralSpread && hi < blackBrightness
}

func IsWhite(r, g, b uint8) bool {
	return r > whiteBrightness && g > whiteBrightness && b > whiteBrightness
}

// RowMask classifies the pixels of row y in columns [x0, x1). Fully
// transparent pixels never match: they are padding, not paint.
func RowMask(img *image.NRGBA, y, x0, x1 int, pred Classifier) []bool {
	b := img.Bounds()
	x0, x1 = max(x0, 0), min(x1, b.Dx())
	if y < 0 || y >= b.Dy() || x1 <= x0 {
		return []bool{}
	}
	mask := make([]bool, x1-x0)
	off := img.PixOffset(b.Min.X+x0, b.Min.Y+y)
	row := img.Pix[off : off+len(mask)*4]
	for i := range mask {
		p := row[i*4 : i*4+4]
		mask[i] = p[3] != 0 && pred(p[0], p[1], p[2])
	}
	return mask
}

// ColumnMask classifies the pixels of column x in rows [y0, y1).
func ColumnMask(img *image.NRGBA, x, y0, y1 int, pred Classifier) []bool {
	b := img.Bounds()
	y0, y1 = max(y0, 0), min(y1, b.Dy())
	if x < 0 || x >= b.Dx() || y1 <= y0 {
		return []bool{}
	}
	mask := make([]bool, y1-y0)
	for i := range mask {
		off := img.PixOffset(b.Min.X+x, b.Min.Y+y0+i)
		p := img.Pix[off : off+4]
		mask[i] = p[3] != 0 && pred(p[0], p[1], p[2])
	}
	return mask
}

// BandColumnMask marks a column true when any pixel of rows [y0, y1) in
// that column satisfies pred.
func BandColumnMask(img *image.NRGBA, y0, y1 int, pred Classifier) []bool {
	b := img.Bounds()
	mask := make([]bool, b.Dx())
	y0, y1 = max(y0, 0), min(y1, b.Dy())
	for y := y0; y < y1; y++ {
		off := img.PixOffset(b.Min.X, b.Min.Y+y)
		row := img.Pix[off : off+len(mask)*4]
		for x := range mask {
			if mask[x] {
				continue
			}
			p := row[x*4 : x*4+4]
			mask[x] = p[3] != 0 && pred(p[0], p[1], p[2])
		}
	}
	return mask
}

package processor

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"io"
)

const (
	pngUnitMeter = 1
	physChunkLen = 9
	// maxICCPChunk bounds the compressed profile read into memory.
	maxICCPChunk = 16 << 20
)

// PngAnalysis holds the chunks carried over to the output file.
type PngAnalysis struct {
	HasPhys bool
	PPMX    uint32
	PPMY    uint32
	Unit    byte
	ICCP    []byte
}

// DPI converts pHYs pixels-per-metre to dots per inch.
func (a PngAnalysis) DPI() (float64, float64, bool) {
	if !a.HasPhys || a.Unit != pngUnitMeter {
		return 0, 0, false
	}
	return float64(a.PPMX) * 0.0254, float64(a.PPMY) * 0.0254, true
}

func scanPNGMetadata(rs io.ReadSeeker) (PngAnalysis, error) {
	analysis := PngAnalysis{}

	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return analysis, err
	}

	br := bufio.NewReader(rs)

	sig := make([]byte, 8)
	if _, err := io.ReadFull(br, sig); err != nil {
		return analysis, err
	}
	if !bytes.Equal(sig, pngSignature) {
		return analysis, errors.New("invalid PNG signature")
	}

	for {
		lenBuf := make([]byte, 4)
		if _, err := io.ReadFull(br, lenBuf); err != nil {
			if err == io.EOF {
				return analysis, nil
			}
			return analysis, err
		}
		length := binary.BigEndian.Uint32(lenBuf)

		chunkType := make([]byte, 4)
		if _, err := io.ReadFull(br, chunkType); err != nil {
			return analysis, err
		}

		chunkName := string(chunkType)

		switch {
		case chunkName == "pHYs" && length == physChunkLen, chunkName == "iCCP" && length <= maxICCPChunk:
			data := make([]byte, length)
			if _, err := io.ReadFull(br, data); err != nil {
				return analysis, err
			}
			if _, err := io.CopyN(io.Discard, br, 4); err != nil {
				return analysis, err
			}
			if chunkName == "iCCP" {
				analysis.ICCP = data
			} else {
				analysis.HasPhys = true
				analysis.PPMX = binary.BigEndian.Uint32(data[0:4])
				analysis.PPMY = binary.BigEndian.Uint32(data[4:8])
				analysis.Unit = data[8]
			}
		case chunkName == "IDAT":
			// Metadata chunks we care about precede the image data.
			return analysis, nil
		default:
			if _, err := io.CopyN(io.Discard, br, int64(length)+4); err != nil {
				return analysis, err
			}
		}

		if chunkName == "IEND" {
			return analysis, nil
		}
	}
}

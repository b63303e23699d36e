package processor

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"sort"
)

var jpegICCHeader = []byte("ICC_PROFILE\x00")

// extractJPEGICC reassembles an ICC profile split across APP2 segments.
// It returns nil when the file carries no profile.
func extractJPEGICC(r io.Reader) ([]byte, error) {
	br := bufio.NewReader(r)

	soi := make([]byte, 2)
	if _, err := io.ReadFull(br, soi); err != nil {
		return nil, err
	}
	if soi[0] != 0xff || soi[1] != 0xd8 {
		return nil, fmt.Errorf("invalid JPEG SOI")
	}

	type part struct {
		seq  byte
		data []byte
	}
	var parts []part

	for {
		markerPrefix, err := br.ReadByte()
		if err != nil {
			return nil, err
		}
		for markerPrefix != 0xff {
			markerPrefix, err = br.ReadByte()
			if err != nil {
				return nil, err
			}
		}

		marker, err := br.ReadByte()
		if err != nil {
			return nil, err
		}
		for marker == 0xff {
			marker, err = br.ReadByte()
			if err != nil {
				return nil, err
			}
		}

		// Profiles live in the header; stop at scan data or EOI.
		if marker == 0xd9 || marker == 0xda {
			break
		}
		if marker == 0x01 || (marker >= 0xd0 && marker <= 0xd7) {
			continue
		}

		lenBuf := make([]byte, 2)
		if _, err := io.ReadFull(br, lenBuf); err != nil {
			return nil, err
		}
		segLen := int(binary.BigEndian.Uint16(lenBuf))
		if segLen < 2 {
			return nil, fmt.Errorf("invalid JPEG segment length")
		}
		payloadLen := segLen - 2

		if marker != 0xe2 {
			if _, err := io.CopyN(io.Discard, br, int64(payloadLen)); err != nil {
				return nil, err
			}
			continue
		}

		payload := make([]byte, payloadLen)
		if _, err := io.ReadFull(br, payload); err != nil {
			return nil, err
		}
		// ICC_PROFILE\0, sequence number, chunk count, data.
		if bytes.HasPrefix(payload, jpegICCHeader) && len(payload) >= len(jpegICCHeader)+2 {
			n := len(jpegICCHeader)
			parts = append(parts, part{seq: payload[n], data: payload[n+2:]})
		}
	}

	if len(parts) == 0 {
		return nil, nil
	}
	sort.SliceStable(parts, func(i, j int) bool { return parts[i].seq < parts[j].seq })
	var profile []byte
	for _, p := range parts {
		profile = append(profile, p.data...)
	}
	return profile, nil
}

// pngCompatibleICC reports whether profile describes an RGB or gray colour
// space, the only ones an iCCP chunk may carry. CMYK profiles from print
// JPEGs are dropped.
func pngCompatibleICC(profile []byte) bool {
	if len(profile) < 20 {
		return false
	}
	switch string(profile[16:20]) {
	case "RGB ", "GRAY":
		return true
	default:
		return false
	}
}

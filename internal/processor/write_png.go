package processor

import (
	"bufio"
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
)

var pngSignature = []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a}

// pngMeta is injected right after IHDR of an encoded PNG.
type pngMeta struct {
	PPMX, PPMY uint32
	ICCP       []byte
}

// rewritePNG copies an encoded PNG, replacing any pHYs and iCCP chunks with
// the ones from meta.
func rewritePNG(r io.Reader, w io.Writer, meta pngMeta) error {
	br := bufio.NewReader(r)
	bw := bufio.NewWriter(w)

	sig := make([]byte, 8)
	if _, err := io.ReadFull(br, sig); err != nil {
		return err
	}
	if !bytes.Equal(sig, pngSignature) {
		return fmt.Errorf("invalid PNG signature")
	}
	if _, err := bw.Write(sig); err != nil {
		return err
	}

	for {
		lenBuf := make([]byte, 4)
		if _, err := io.ReadFull(br, lenBuf); err != nil {
			if err == io.EOF {
				break
			}
			return err
		}
		length := binary.BigEndian.Uint32(lenBuf)

		typeBuf := make([]byte, 4)
		if _, err := io.ReadFull(br, typeBuf); err != nil {
			return err
		}
		chunkName := string(typeBuf)

		if chunkName == "pHYs" || chunkName == "iCCP" {
			if _, err := io.CopyN(io.Discard, br, int64(length)+4); err != nil {
				return err
			}
			continue
		}

		if _, err := bw.Write(lenBuf); err != nil {
			return err
		}
		if _, err := bw.Write(typeBuf); err != nil {
			return err
		}
		if _, err := io.CopyN(bw, br, int64(length)+4); err != nil {
			return err
		}

		if chunkName == "IHDR" {
			if err := writeMetaChunks(bw, meta); err != nil {
				return err
			}
		}
		if chunkName == "IEND" {
			break
		}
	}

	return bw.Flush()
}

func writeMetaChunks(w io.Writer, meta pngMeta) error {
	if len(meta.ICCP) > 0 {
		if err := writePNGChunk(w, "iCCP", meta.ICCP); err != nil {
			return err
		}
	}
	if meta.PPMX == 0 || meta.PPMY == 0 {
		return nil
	}
	phys := make([]byte, 9)
	binary.BigEndian.PutUint32(phys[0:4], meta.PPMX)
	binary.BigEndian.PutUint32(phys[4:8], meta.PPMY)
	phys[8] = pngUnitMeter
	return writePNGChunk(w, "pHYs", phys)
}

func writePNGChunk(w io.Writer, chunkType string, data []byte) error {
	head := make([]byte, 8)
	binary.BigEndian.PutUint32(head[0:4], uint32(len(data)))
	copy(head[4:], chunkType)

	crc := crc32.NewIEEE()
	crc.Write(head[4:])
	crc.Write(data)
	tail := binary.BigEndian.AppendUint32(nil, crc.Sum32())

	for _, b := range [][]byte{head, data, tail} {
		if _, err := w.Write(b); err != nil {
			return err
		}
	}
	return nil
}

// iccpFromProfile packs a raw ICC profile as iCCP chunk data.
func iccpFromProfile(profile []byte) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("ICC profile")
	buf.Write([]byte{0, 0})
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(profile); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

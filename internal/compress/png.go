package compress

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image/png"

	"github.com/disintegration/imaging"

	"github.com/tupyy/imgsqueeze/internal/config"
)

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

var errAnimatedPNG = errors.New("animated PNG is not supported")

// chunks that must appear before PLTE
var prePLTE = map[string]bool{
	"cHRM": true, "cICP": true, "gAMA": true, "iCCP": true,
	"sRGB": true, "mDCV": true, "cLLI": true,
}

// chunks kept in safe mode: colour space and physical dimensions
var safeChunks = map[string]bool{
	"cHRM": true, "cICP": true, "gAMA": true, "iCCP": true,
	"sRGB": true, "mDCV": true, "cLLI": true, "pHYs": true,
}

// chunks never copied: tied to the original bit depth or palette, or re-emitted by the encoder
var neverCopy = map[string]bool{
	"tRNS": true, "sBIT": true, "hIST": true, "sPLT": true,
}

type pngChunk struct {
	typ string
	raw []byte
}

func (c pngChunk) ancillary() bool {
	return c.typ[0]&0x20 != 0
}

func compressPNG(data []byte, strip config.StripMode) ([]byte, error) {
	orig, err := splitPNG(data)
	if err != nil {
		return nil, err
	}
	for _, c := range orig {
		if c.typ == "acTL" {
			return nil, errAnimatedPNG
		}
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression)); err != nil {
		return nil, err
	}

	keep := keptChunks(orig, strip)
	if len(keep) == 0 {
		return buf.Bytes(), nil
	}

	encoded, err := splitPNG(buf.Bytes())
	if err != nil {
		return nil, err
	}
	return joinPNG(encoded, keep), nil
}

func keptChunks(chunks []pngChunk, strip config.StripMode) []pngChunk {
	if strip == config.StripAll {
		return nil
	}
	var keep []pngChunk
	for _, c := range chunks {
		if !c.ancillary() || neverCopy[c.typ] {
			continue
		}
		if strip == config.StripSafe && !safeChunks[c.typ] {
			continue
		}
		keep = append(keep, c)
	}
	return keep
}

// joinPNG inserts ancillary chunks into an encoder's output: colour-space chunks
// right after IHDR, everything else right before the first IDAT.
func joinPNG(encoded, extra []pngChunk) []byte {
	var before, rest []pngChunk
	for _, c := range extra {
		if prePLTE[c.typ] {
			before = append(before, c)
		} else {
			rest = append(rest, c)
		}
	}

	var out bytes.Buffer
	out.Write(pngSignature)
	restWritten := false
	for _, c := range encoded {
		if c.typ == "IDAT" && !restWritten {
			for _, r := range rest {
				out.Write(r.raw)
			}
			restWritten = true
		}
		out.Write(c.raw)
		if c.typ == "IHDR" {
			for _, b := range before {
				out.Write(b.raw)
			}
		}
	}
	return out.Bytes()
}

func splitPNG(data []byte) ([]pngChunk, error) {
	if !bytes.HasPrefix(data, pngSignature) {
		return nil, fmt.Errorf("not a PNG file")
	}
	var chunks []pngChunk
	rest := data[len(pngSignature):]
	for len(rest) > 0 {
		if len(rest) < 12 {
			return nil, fmt.Errorf("truncated PNG chunk header")
		}
		n := binary.BigEndian.Uint32(rest[:4])
		total := uint64(n) + 12
		if uint64(len(rest)) < total {
			return nil, fmt.Errorf("truncated PNG chunk %q", rest[4:8])
		}
		chunks = append(chunks, pngChunk{typ: string(rest[4:8]), raw: rest[:total]})
		if string(rest[4:8]) == "IEND" {
			break
		}
		rest = rest[total:]
	}
	if len(chunks) == 0 || chunks[0].typ != "IHDR" {
		return nil, fmt.Errorf("PNG does not start with IHDR")
	}
	return chunks, nil
}

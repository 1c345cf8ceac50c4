package compress

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/tupyy/imgsqueeze/internal/config"
)

func rawChunk(typ string, payload []byte) []byte {
	var b bytes.Buffer
	_ = binary.Write(&b, binary.BigEndian, uint32(len(payload)))
	b.WriteString(typ)
	b.Write(payload)
	_ = binary.Write(&b, binary.BigEndian, crc32.ChecksumIEEE(append([]byte(typ), payload...)))
	return b.Bytes()
}

// pngWith encodes a small image and splices extra chunks after IHDR.
func pngWith(extra ...[]byte) []byte {
	img := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	for i := range 16 {
		img.Set(i, i, color.NRGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.NoCompression}
	Expect(enc.Encode(&buf, img)).To(Succeed())

	chunks, err := splitPNG(buf.Bytes())
	Expect(err).NotTo(HaveOccurred())

	var out bytes.Buffer
	out.Write(pngSignature)
	for _, c := range chunks {
		out.Write(c.raw)
		if c.typ == "IHDR" {
			for _, e := range extra {
				out.Write(e)
			}
		}
	}
	return out.Bytes()
}

func chunkTypes(data []byte) []string {
	chunks, err := splitPNG(data)
	Expect(err).NotTo(HaveOccurred())
	types := make([]string, 0, len(chunks))
	for _, c := range chunks {
		types = append(types, c.typ)
	}
	return types
}

var _ = Describe("PNG chunks", func() {
	var input []byte

	BeforeEach(func() {
		input = pngWith(
			rawChunk("gAMA", []byte{0, 0, 0xb1, 0x8f}),
			rawChunk("tEXt", []byte("Comment\x00hello")),
		)
	})

	It("should parse every chunk up to IEND", func() {
		Expect(chunkTypes(input)).To(HaveExactElements("IHDR", "gAMA", "tEXt", "IDAT", "IEND"))
	})

	It("should keep only colour chunks in safe mode", func() {
		out, err := compressPNG(input, config.StripSafe)
		Expect(err).NotTo(HaveOccurred())

		types := chunkTypes(out)
		Expect(types[1]).To(Equal("gAMA"))
		Expect(types).NotTo(ContainElement("tEXt"))

		_, err = png.Decode(bytes.NewReader(out))
		Expect(err).NotTo(HaveOccurred())
	})

	It("should keep text chunks before IDAT when nothing is stripped", func() {
		out, err := compressPNG(input, config.StripNone)
		Expect(err).NotTo(HaveOccurred())

		types := chunkTypes(out)
		Expect(types).To(ContainElements("gAMA", "tEXt"))
		Expect(types[len(types)-1]).To(Equal("IEND"))
		for i, t := range types {
			if t == "tEXt" {
				Expect(types[i+1]).To(Equal("IDAT"))
			}
		}
	})

	It("should drop every ancillary chunk in all mode", func() {
		out, err := compressPNG(input, config.StripAll)
		Expect(err).NotTo(HaveOccurred())
		Expect(chunkTypes(out)).NotTo(ContainElements("gAMA", "tEXt"))
	})

	It("should refuse animated PNGs", func() {
		_, err := compressPNG(pngWith(rawChunk("acTL", make([]byte, 8))), config.StripSafe)
		Expect(err).To(MatchError(errAnimatedPNG))
	})

	It("should reject truncated data", func() {
		_, err := splitPNG(input[:20])
		Expect(err).To(HaveOccurred())
	})
})

package main

import (
	"bytes"
	"context"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func execute(args ...string) (string, error) {
	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeNoisyPNG(path string) {
	img := image.NewNRGBA(image.Rect(0, 0, 64, 64))
	for y := range 64 {
		for x := range 64 {
			img.Set(x, y, color.NRGBA{R: uint8(x * 4), G: uint8(y * 4), B: 128, A: 255})
		}
	}
	f, err := os.Create(path)
	Expect(err).NotTo(HaveOccurred())
	defer f.Close()
	enc := png.Encoder{CompressionLevel: png.NoCompression}
	Expect(enc.Encode(f, img)).To(Succeed())
}

// writeTaggedPNG writes a noisy PNG carrying a tEXt chunk right after IHDR.
func writeTaggedPNG(path string) {
	writeNoisyPNG(path)
	data, err := os.ReadFile(path)
	Expect(err).NotTo(HaveOccurred())

	payload := []byte("Comment\x00secret")
	var chunk bytes.Buffer
	_ = binary.Write(&chunk, binary.BigEndian, uint32(len(payload)))
	chunk.WriteString("tEXt")
	chunk.Write(payload)
	_ = binary.Write(&chunk, binary.BigEndian, crc32.ChecksumIEEE(append([]byte("tEXt"), payload...)))

	// signature (8) + IHDR (4 length, 4 type, 13 data, 4 crc)
	const ihdrEnd = 8 + 25
	tagged := append(append(append([]byte{}, data[:ihdrEnd]...), chunk.Bytes()...), data[ihdrEnd:]...)
	Expect(os.WriteFile(path, tagged, 0o644)).To(Succeed())
}

var _ = Describe("imgsqueeze", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	Context("run", func() {
		It("should compress matched files and print the summary", func() {
			writeNoisyPNG(filepath.Join(dir, "a.png"))
			writeNoisyPNG(filepath.Join(dir, "b.png"))

			out, err := execute("run", "--color", "never", "-j", "2", filepath.Join(dir, "*.png"))

			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(ContainSubstring("Compression with up to 2 threads."))
			Expect(out).To(ContainSubstring("a.png: saved"))
			Expect(out).To(ContainSubstring("Total time: "))
			Expect(filepath.Join(dir, "compressed_a.png")).To(BeAnExistingFile())
			Expect(filepath.Join(dir, "compressed_b.png")).To(BeAnExistingFile())
		})

		It("should exit cleanly when nothing matches", func() {
			out, err := execute("run", filepath.Join(dir, "*.jpg"))

			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(ContainSubstring("No input files, exiting."))
		})

		It("should reject an invalid quality", func() {
			_, err := execute("run", "--jpg-quality", "0", filepath.Join(dir, "*.jpg"))
			Expect(err).To(MatchError(ContainSubstring("jpg quality")))
		})

		DescribeTable("should accept strip modes in any case",
			func(mode string, keepsText bool) {
				writeTaggedPNG(filepath.Join(dir, "a.png"))

				_, err := execute("run", "--color", "never", "--png-strip", mode, filepath.Join(dir, "a.png"))
				Expect(err).NotTo(HaveOccurred())

				out, err := os.ReadFile(filepath.Join(dir, "compressed_a.png"))
				Expect(err).NotTo(HaveOccurred())
				Expect(bytes.Contains(out, []byte("tEXt"))).To(Equal(keepsText))
			},
			Entry("ALL strips text", "ALL", false),
			Entry("Safe strips text", "Safe", false),
			Entry("NONE keeps text", "NONE", true),
		)

		It("should read flags from the environment", func() {
			writeNoisyPNG(filepath.Join(dir, "a.png"))
			Expect(os.Setenv("IMGSQUEEZE_OUTPUT_FORMAT", "%s.min.%e")).To(Succeed())
			DeferCleanup(os.Unsetenv, "IMGSQUEEZE_OUTPUT_FORMAT")

			_, err := execute("run", "--color", "never", filepath.Join(dir, "a.png"))

			Expect(err).NotTo(HaveOccurred())
			Expect(filepath.Join(dir, "a.min.png")).To(BeAnExistingFile())
		})

		It("should read flags from a config file", func() {
			writeNoisyPNG(filepath.Join(dir, "a.png"))
			cfgPath := filepath.Join(dir, "imgsqueeze.yaml")
			Expect(os.WriteFile(cfgPath, []byte("output-format: \"out_%s.%e\"\ncolor: never\n"), 0o644)).To(Succeed())

			_, err := execute("run", "--config", cfgPath, filepath.Join(dir, "a.png"))

			Expect(err).NotTo(HaveOccurred())
			Expect(filepath.Join(dir, "out_a.png")).To(BeAnExistingFile())
		})

		It("should let command line flags win over the config file", func() {
			writeNoisyPNG(filepath.Join(dir, "a.png"))
			cfgPath := filepath.Join(dir, "imgsqueeze.yaml")
			Expect(os.WriteFile(cfgPath, []byte("output-format: \"out_%s.%e\"\n"), 0o644)).To(Succeed())

			_, err := execute("run", "--config", cfgPath, "--color", "never", "-o", "cli_%s.%e", filepath.Join(dir, "a.png"))

			Expect(err).NotTo(HaveOccurred())
			Expect(filepath.Join(dir, "cli_a.png")).To(BeAnExistingFile())
			Expect(filepath.Join(dir, "out_a.png")).NotTo(BeAnExistingFile())
		})
	})

	Context("history", func() {
		It("should list a recorded run and its items", func() {
			writeNoisyPNG(filepath.Join(dir, "a.png"))
			db := filepath.Join(dir, "runs.duckdb")

			_, err := execute("run", "--color", "never", "--history-db", db, filepath.Join(dir, "a.png"))
			Expect(err).NotTo(HaveOccurred())

			out, err := execute("history", "--history-db", db)
			Expect(err).NotTo(HaveOccurred())
			lines := strings.Split(strings.TrimSpace(out), "\n")
			Expect(lines).To(HaveLen(2))
			Expect(lines[0]).To(HavePrefix("ID"))

			runID := strings.Fields(lines[1])[0]
			out, err = execute("history", "--history-db", db, runID)
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(ContainSubstring("a.png"))
			Expect(out).To(ContainSubstring("saved"))
		})

		It("should delete a recorded run", func() {
			writeNoisyPNG(filepath.Join(dir, "a.png"))
			db := filepath.Join(dir, "runs.duckdb")

			_, err := execute("run", "--color", "never", "--history-db", db, filepath.Join(dir, "a.png"))
			Expect(err).NotTo(HaveOccurred())
			out, err := execute("history", "--history-db", db)
			Expect(err).NotTo(HaveOccurred())
			runID := strings.Fields(strings.Split(strings.TrimSpace(out), "\n")[1])[0]

			out, err = execute("history", "--history-db", db, "--delete", runID)
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(ContainSubstring("deleted"))

			out, err = execute("history", "--history-db", db)
			Expect(err).NotTo(HaveOccurred())
			Expect(strings.Split(strings.TrimSpace(out), "\n")).To(HaveLen(1))

			_, err = execute("history", "--history-db", db, "--delete", runID)
			Expect(err).To(MatchError(ContainSubstring("not found")))
		})

		It("should require a database", func() {
			_, err := execute("history")
			Expect(err).To(MatchError(ContainSubstring("--history-db")))
		})
	})

	It("should print the version", func() {
		out, err := execute("version")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(HavePrefix("imgsqueeze dev"))
	})
})

package services_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/tupyy/imgsqueeze/internal/config"
	"github.com/tupyy/imgsqueeze/internal/models"
	"github.com/tupyy/imgsqueeze/internal/report"
	"github.com/tupyy/imgsqueeze/internal/services"
	srvErrors "github.com/tupyy/imgsqueeze/pkg/errors"
	"github.com/tupyy/imgsqueeze/pkg/scheduler"
)

// sizeTask derives sizes from the file name: "<before>-<after>.bin"; "fail" in the
// name makes the item fail.
func sizeTask(_ context.Context, path string) (scheduler.Sizes, error) {
	name := strings.TrimSuffix(filepath.Base(path), ".bin")
	if strings.Contains(name, "fail") {
		return scheduler.Sizes{}, srvErrors.NewUnsupportedFormatError("bin")
	}
	var s scheduler.Sizes
	before, after, _ := strings.Cut(name, "-")
	for _, c := range before {
		s.Before = s.Before*10 + uint64(c-'0')
	}
	for _, c := range after {
		s.After = s.After*10 + uint64(c-'0')
	}
	return s, nil
}

var _ = Describe("RunService", func() {
	var (
		ctx context.Context
		dir string
		cfg *config.Configuration
		out *bytes.Buffer
	)

	touch := func(names ...string) {
		for _, n := range names {
			Expect(os.WriteFile(filepath.Join(dir, n), nil, 0o644)).To(Succeed())
		}
	}

	BeforeEach(func() {
		ctx = context.Background()
		dir = GinkgoT().TempDir()
		cfg = config.NewConfigurationWithDefaults()
		cfg.Run.Jobs = 3
		cfg.Output.Color = config.ColorNever
		out = &bytes.Buffer{}
	})

	It("should print a notice and return ErrNoItems when nothing matches", func() {
		_, err := services.NewRunService(cfg, out).WithTask(sizeTask).Run(ctx, []string{filepath.Join(dir, "*.png")})

		Expect(errors.Is(err, services.ErrNoItems)).To(BeTrue())
		Expect(out.String()).To(Equal("No input files, exiting.\n"))
	})

	It("should process every matched file and print header and summary", func() {
		touch("100-40.bin", "50-20.bin", "10-12.bin", "fail.bin")

		summary, err := services.NewRunService(cfg, out).WithTask(sizeTask).Run(ctx, []string{filepath.Join(dir, "*.bin")})

		Expect(err).NotTo(HaveOccurred())
		Expect(summary.Items).To(Equal(4))
		Expect(summary.Workers).To(Equal(3))
		Expect(summary.Saved).To(Equal(2))
		Expect(summary.Skipped).To(Equal(1))
		Expect(summary.Failed).To(Equal(1))
		Expect(summary.Before).To(Equal(uint64(150)))
		Expect(summary.After).To(Equal(uint64(60)))
		Expect(summary.ID).NotTo(BeEmpty())

		lines := strings.Split(strings.TrimSpace(out.String()), "\n")
		Expect(lines).To(HaveLen(6))
		Expect(lines[0]).To(Equal("Compression with up to 3 threads."))
		Expect(lines[5]).To(HavePrefix("Total time: "))
		Expect(lines[5]).To(HaveSuffix("saved: 90.00 B (60.00%)"))
	})

	It("should write history and report when configured", func() {
		touch("100-40.bin", "fail.bin")
		cfg.Output.HistoryDB = filepath.Join(dir, "history.duckdb")
		cfg.Output.ReportFile = filepath.Join(dir, "report.json")

		summary, err := services.NewRunService(cfg, out).WithTask(sizeTask).Run(ctx, []string{filepath.Join(dir, "*.bin")})
		Expect(err).NotTo(HaveOccurred())

		data, err := os.ReadFile(cfg.Output.ReportFile)
		Expect(err).NotTo(HaveOccurred())
		var doc report.Document
		Expect(json.Unmarshal(data, &doc)).To(Succeed())
		Expect(doc.Run.ID).To(Equal(summary.ID))
		Expect(doc.Items).To(HaveLen(2))

		h := services.NewHistoryService(cfg.Output.HistoryDB)
		runs, err := h.List(ctx, 10)
		Expect(err).NotTo(HaveOccurred())
		Expect(runs).To(HaveLen(1))
		Expect(runs[0].ID).To(Equal(summary.ID))

		_, failed, err := h.Get(ctx, summary.ID, models.ItemStatusFailed)
		Expect(err).NotTo(HaveOccurred())
		Expect(failed).To(HaveLen(1))
		Expect(failed[0].ErrorKind).To(Equal("unsupported_format"))
	})

	It("should still print the summary when the report cannot be written", func() {
		touch("100-40.bin")
		cfg.Output.ReportFile = filepath.Join(dir, "report.csv")

		summary, err := services.NewRunService(cfg, out).WithTask(sizeTask).Run(ctx, []string{filepath.Join(dir, "*.bin")})

		Expect(err).To(HaveOccurred())
		Expect(summary).NotTo(BeNil())
		Expect(out.String()).To(ContainSubstring("Total time: "))
	})

	It("should count every item as remaining when cancelled before start", func() {
		touch("100-40.bin", "50-20.bin")
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		summary, err := services.NewRunService(cfg, out).WithTask(sizeTask).Run(cctx, []string{filepath.Join(dir, "*.bin")})

		Expect(err).NotTo(HaveOccurred())
		Expect(summary.Remaining).To(Equal(2))
		Expect(out.String()).To(ContainSubstring("2 items not processed"))
	})
})

var _ = Describe("HistoryService", func() {
	It("should report unknown runs", func() {
		h := services.NewHistoryService(filepath.Join(GinkgoT().TempDir(), "h.duckdb"))

		_, _, err := h.Get(context.Background(), "nope")

		Expect(srvErrors.IsRunNotFoundError(err)).To(BeTrue())
	})
})

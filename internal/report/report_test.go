package report_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/xuri/excelize/v2"

	"github.com/tupyy/imgsqueeze/internal/models"
	"github.com/tupyy/imgsqueeze/internal/report"
)

var _ = Describe("Write", func() {
	var (
		dir     string
		summary models.RunSummary
		items   []models.ItemResult
	)

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
		summary = models.RunSummary{
			ID: "run-1", StartedAt: start, FinishedAt: start.Add(time.Second),
			Workers: 2, Items: 3, Saved: 1, Skipped: 1, Failed: 1,
			Before: 100, After: 40, Elapsed: time.Second,
		}
		items = []models.ItemResult{
			{Path: "a.jpg", Worker: 0, Status: models.ItemStatusSaved, Before: 100, After: 40},
			{Path: "b.png", Worker: 1, Status: models.ItemStatusSkipped, Before: 10, After: 12},
			{Path: "c.gif", Worker: 1, Status: models.ItemStatusFailed, ErrorKind: "unsupported_format", Error: `unknown file type "gif"`},
		}
	})

	It("should write a JSON document", func() {
		path := filepath.Join(dir, "report.json")
		Expect(report.Write(path, summary, items)).To(Succeed())

		data, err := os.ReadFile(path)
		Expect(err).NotTo(HaveOccurred())

		var doc report.Document
		Expect(json.Unmarshal(data, &doc)).To(Succeed())
		Expect(doc.Run.ID).To(Equal("run-1"))
		Expect(doc.Run.BytesSaved).To(Equal(uint64(60)))
		Expect(doc.Run.ElapsedMs).To(Equal(int64(1000)))
		Expect(doc.Items).To(HaveLen(3))
		Expect(doc.Items[0].BytesSaved).To(Equal(uint64(60)))
		Expect(doc.Items[1].BytesSaved).To(BeZero())
		Expect(doc.Items[2].ErrorKind).To(Equal("unsupported_format"))
	})

	It("should write an XLSX workbook with items and summary sheets", func() {
		path := filepath.Join(dir, "report.XLSX")
		Expect(report.Write(path, summary, items)).To(Succeed())

		f, err := excelize.OpenFile(path)
		Expect(err).NotTo(HaveOccurred())
		defer f.Close()

		rows, err := f.GetRows("Items")
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(4))
		Expect(rows[0][0]).To(Equal("Path"))
		Expect(rows[1][:3]).To(Equal([]string{"a.jpg", "0", "saved"}))
		Expect(rows[3][6]).To(Equal("unsupported_format"))

		id, err := f.GetCellValue("Summary", "B1")
		Expect(err).NotTo(HaveOccurred())
		Expect(id).To(Equal("run-1"))
	})

	It("should reject unknown extensions", func() {
		err := report.Write(filepath.Join(dir, "report.csv"), summary, items)
		Expect(err).To(MatchError(ContainSubstring("unsupported report format")))
	})
})

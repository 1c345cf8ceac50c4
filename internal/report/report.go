// Package report exports the per-item results of a run to a file. The format is
// chosen by the file extension: .json or .xlsx.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/tupyy/imgsqueeze/internal/models"
)

const (
	itemsSheet   = "Items"
	summarySheet = "Summary"
)

type Document struct {
	Run   Run    `json:"run"`
	Items []Item `json:"items"`
}

type Run struct {
	ID          string    `json:"id"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
	Workers     int       `json:"workers"`
	Items       int       `json:"items"`
	Saved       int       `json:"saved"`
	Skipped     int       `json:"skipped"`
	Failed      int       `json:"failed"`
	Remaining   int       `json:"remaining"`
	BytesBefore uint64    `json:"bytes_before"`
	BytesAfter  uint64    `json:"bytes_after"`
	BytesSaved  uint64    `json:"bytes_saved"`
	ElapsedMs   int64     `json:"elapsed_ms"`
}

type Item struct {
	Path        string `json:"path"`
	Worker      int    `json:"worker"`
	Status      string `json:"status"`
	BytesBefore uint64 `json:"bytes_before,omitempty"`
	BytesAfter  uint64 `json:"bytes_after,omitempty"`
	BytesSaved  uint64 `json:"bytes_saved,omitempty"`
	ErrorKind   string `json:"error_kind,omitempty"`
	Error       string `json:"error,omitempty"`
}

func NewDocument(summary models.RunSummary, items []models.ItemResult) Document {
	doc := Document{
		Run: Run{
			ID:          summary.ID,
			StartedAt:   summary.StartedAt,
			FinishedAt:  summary.FinishedAt,
			Workers:     summary.Workers,
			Items:       summary.Items,
			Saved:       summary.Saved,
			Skipped:     summary.Skipped,
			Failed:      summary.Failed,
			Remaining:   summary.Remaining,
			BytesBefore: summary.Before,
			BytesAfter:  summary.After,
			BytesSaved:  summary.SavedBytes(),
			ElapsedMs:   summary.Elapsed.Milliseconds(),
		},
		Items: make([]Item, 0, len(items)),
	}
	for _, it := range items {
		doc.Items = append(doc.Items, Item{
			Path:        it.Path,
			Worker:      it.Worker,
			Status:      it.Status.Value(),
			BytesBefore: it.Before,
			BytesAfter:  it.After,
			BytesSaved:  it.Saved(),
			ErrorKind:   it.ErrorKind,
			Error:       it.Error,
		})
	}
	return doc
}

// Write exports the run to path.
func Write(path string, summary models.RunSummary, items []models.ItemResult) error {
	doc := NewDocument(summary, items)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return writeJSON(path, doc)
	case ".xlsx":
		return writeXLSX(path, doc)
	default:
		return fmt.Errorf("unsupported report format %q: use .json or .xlsx", ext)
	}
}

func writeJSON(path string, doc Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func writeXLSX(path string, doc Document) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", itemsSheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return err
	}

	header := []any{"Path", "Worker", "Status", "Bytes before", "Bytes after", "Bytes saved", "Error kind", "Error"}
	if err := f.SetSheetRow(itemsSheet, "A1", &header); err != nil {
		return err
	}
	for i, it := range doc.Items {
		row := []any{it.Path, it.Worker, it.Status, it.BytesBefore, it.BytesAfter, it.BytesSaved, it.ErrorKind, it.Error}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(itemsSheet, cell, &row); err != nil {
			return err
		}
	}

	summary := [][]any{
		{"Run ID", doc.Run.ID},
		{"Started at", doc.Run.StartedAt.Format(time.RFC3339)},
		{"Finished at", doc.Run.FinishedAt.Format(time.RFC3339)},
		{"Workers", doc.Run.Workers},
		{"Items", doc.Run.Items},
		{"Saved", doc.Run.Saved},
		{"Skipped", doc.Run.Skipped},
		{"Failed", doc.Run.Failed},
		{"Remaining", doc.Run.Remaining},
		{"Bytes before", doc.Run.BytesBefore},
		{"Bytes after", doc.Run.BytesAfter},
		{"Bytes saved", doc.Run.BytesSaved},
		{"Elapsed ms", doc.Run.ElapsedMs},
	}
	for i, row := range summary {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

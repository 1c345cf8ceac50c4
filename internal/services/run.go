package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tupyy/imgsqueeze/internal/compress"
	"github.com/tupyy/imgsqueeze/internal/config"
	"github.com/tupyy/imgsqueeze/internal/console"
	"github.com/tupyy/imgsqueeze/internal/files"
	"github.com/tupyy/imgsqueeze/internal/models"
	"github.com/tupyy/imgsqueeze/internal/report"
	"github.com/tupyy/imgsqueeze/pkg/scheduler"
)

// ErrNoItems is returned when the path arguments expand to nothing.
var ErrNoItems = errors.New("no input files")

// RunService expands the path arguments, runs the scheduler over them and
// records the outcome.
type RunService struct {
	cfg  *config.Configuration
	out  io.Writer
	task scheduler.TaskFunc[string]
}

func NewRunService(cfg *config.Configuration, out io.Writer) *RunService {
	return &RunService{
		cfg:  cfg,
		out:  out,
		task: compress.NewCompressor(cfg).Compress,
	}
}

// WithTask replaces the compressor with another task body.
func (r *RunService) WithTask(fn scheduler.TaskFunc[string]) *RunService {
	r.task = fn
	return r
}

// Run processes every file matched by patterns. The summary line is printed even
// when every item failed. History and report failures are returned after the
// summary has been printed.
func (r *RunService) Run(ctx context.Context, patterns []string) (*models.RunSummary, error) {
	items, err := files.Expand(patterns)
	if err != nil {
		return nil, err
	}

	reporter := console.NewReporter(r.out, r.cfg.Output.Color)
	if len(items) == 0 {
		reporter.NoInput()
		return nil, ErrNoItems
	}

	runID := uuid.NewString()
	log := zap.S().Named("run").With("run_id", runID)

	sched := scheduler.NewScheduler(r.cfg.Run.Jobs, r.task).
		WithReporter(reporter).
		WithLogger(zap.L().With(zap.String("run_id", runID)))

	reporter.Header(sched.Workers(len(items)))
	log.Debugw("inputs expanded", "patterns", patterns, "items", len(items))

	startedAt := time.Now()
	totals, err := sched.Run(ctx, items)
	if err != nil {
		log.Errorw("run failed", "error", err)
		return nil, fmt.Errorf("run %s failed: %w", runID, err)
	}
	reporter.Summary(totals)

	summary := models.RunSummary{
		ID:         runID,
		StartedAt:  startedAt,
		FinishedAt: startedAt.Add(totals.Elapsed),
		Workers:    totals.Workers,
		Items:      totals.Items,
		Saved:      totals.Succeeded,
		Skipped:    totals.Skipped,
		Failed:     totals.Failed,
		Remaining:  totals.Remaining,
		Before:     totals.Before,
		After:      totals.After,
		Elapsed:    totals.Elapsed,
	}
	log.Infow("run summary",
		"saved", summary.Saved,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
		"remaining", summary.Remaining,
		"bytes_saved", summary.SavedBytes(),
		"elapsed", summary.Elapsed,
	)

	results := reporter.Results()
	var errs []error

	// the history is written even when the run was cancelled
	persistCtx := context.WithoutCancel(ctx)
	if r.cfg.Output.HistoryDB != "" {
		if err := NewHistoryService(r.cfg.Output.HistoryDB).Record(persistCtx, summary, results); err != nil {
			log.Errorw("failed to record run history", "path", r.cfg.Output.HistoryDB, "error", err)
			errs = append(errs, err)
		}
	}
	if r.cfg.Output.ReportFile != "" {
		if err := report.Write(r.cfg.Output.ReportFile, summary, results); err != nil {
			log.Errorw("failed to write report", "path", r.cfg.Output.ReportFile, "error", err)
			errs = append(errs, err)
		}
	}

	return &summary, errors.Join(errs...)
}

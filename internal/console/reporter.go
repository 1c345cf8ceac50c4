// Package console prints per-item results and the run summary to the terminal
// and keeps the results for the history store and the report exporter.
package console

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/fatih/color"

	"github.com/tupyy/imgsqueeze/internal/config"
	"github.com/tupyy/imgsqueeze/internal/models"
	"github.com/tupyy/imgsqueeze/internal/util"
	srvErrors "github.com/tupyy/imgsqueeze/pkg/errors"
	"github.com/tupyy/imgsqueeze/pkg/scheduler"
)

// Reporter implements scheduler.Reporter[string]. Lines from different workers
// never interleave.
type Reporter struct {
	mu      sync.Mutex
	out     io.Writer
	results []models.ItemResult

	green  *color.Color
	yellow *color.Color
	red    *color.Color
	bold   *color.Color
}

var _ scheduler.Reporter[string] = &Reporter{}

func NewReporter(out io.Writer, mode config.ColorMode) *Reporter {
	r := &Reporter{
		out:    out,
		green:  color.New(color.FgGreen),
		yellow: color.New(color.FgYellow),
		red:    color.New(color.FgRed),
		bold:   color.New(color.FgGreen, color.Bold),
	}
	for _, c := range []*color.Color{r.green, r.yellow, r.red, r.bold} {
		switch mode {
		case config.ColorAlways:
			c.EnableColor()
		case config.ColorNever:
			c.DisableColor()
		}
	}
	return r
}

func (r *Reporter) OnSuccess(worker int, path string, s scheduler.Sizes) {
	r.mu.Lock()
	defer r.mu.Unlock()

	res := models.ItemResult{Path: path, Worker: worker, Before: s.Before, After: s.After}
	if s.Shrunk() {
		res.Status = models.ItemStatusSaved
		saved := s.Before - s.After
		fmt.Fprintf(r.out, "%s: %s %s (%.2f%%)\n", path, r.green.Sprint("saved"), util.HumanSize(saved), util.Percent(saved, s.Before))
	} else {
		res.Status = models.ItemStatusSkipped
		fmt.Fprintf(r.out, "%s: %s, +%s\n", path, r.yellow.Sprint("skipped"), util.HumanSize(s.After-s.Before))
	}
	r.results = append(r.results, res)
}

func (r *Reporter) OnFailure(worker int, path string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := r.red
	if srvErrors.IsDirectoryInputError(err) {
		c = r.yellow
	}
	fmt.Fprintf(r.out, "%s: %s\n", path, c.Sprint(err.Error()))

	r.results = append(r.results, models.ItemResult{
		Path:      path,
		Worker:    worker,
		Status:    models.ItemStatusFailed,
		ErrorKind: srvErrors.Kind(err),
		Error:     err.Error(),
	})
}

// Header announces the worker count before the run starts.
func (r *Reporter) Header(workers int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.out, "Compression with up to %d threads.\n", workers)
}

func (r *Reporter) NoInput() {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.out, "No input files, exiting.")
}

// Summary prints the final line. Only saved items contribute to the byte totals.
func (r *Reporter) Summary(t scheduler.Totals) {
	r.mu.Lock()
	defer r.mu.Unlock()

	saved := t.Saved()
	fmt.Fprintf(r.out, "%s: %s, %s: %s (%.2f%%)\n",
		r.bold.Sprint("Total time"),
		formatDuration(t.Elapsed),
		r.bold.Sprint("saved"),
		util.HumanSize(saved),
		util.Percent(saved, t.Before),
	)
	if t.Remaining > 0 {
		fmt.Fprintf(r.out, "%s: %d items not processed\n", r.yellow.Sprint("interrupted"), t.Remaining)
	}
}

// Results returns a copy of the collected item results in completion order.
func (r *Reporter) Results() []models.ItemResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.ItemResult, len(r.results))
	copy(out, r.results)
	return out
}

func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Second:
		return d.Round(time.Millisecond).String()
	case d >= time.Millisecond:
		return d.Round(time.Microsecond).String()
	default:
		return d.String()
	}
}

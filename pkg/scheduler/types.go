package scheduler

import (
	"context"
	"time"
)

// Sizes is what a task body reports for one item: the size before and after the transform.
type Sizes struct {
	Before uint64
	After  uint64
}

// Shrunk reports whether the transform produced a smaller result.
func (s Sizes) Shrunk() bool {
	return s.After < s.Before
}

// TaskFunc is the caller-supplied task body. It must be safe to call from several
// workers at once with different items.
type TaskFunc[T any] func(ctx context.Context, item T) (Sizes, error)

// Reporter receives per-item outcomes. It is invoked synchronously from the worker
// that processed the item, so implementations must be safe for concurrent use.
type Reporter[T any] interface {
	OnSuccess(worker int, item T, sizes Sizes)
	OnFailure(worker int, item T, err error)
}

type noopReporter[T any] struct{}

func (noopReporter[T]) OnSuccess(int, T, Sizes) {}
func (noopReporter[T]) OnFailure(int, T, error) {}

// Outcome is a worker's running totals. Before and After only account for items
// whose result shrunk; items that did not shrink are counted as Skipped.
type Outcome struct {
	Before    uint64
	After     uint64
	Succeeded int
	Skipped   int
	Failed    int
}

func (o *Outcome) record(s Sizes) {
	if !s.Shrunk() {
		o.Skipped++
		return
	}
	o.Succeeded++
	o.Before += s.Before
	o.After += s.After
}

// Merge returns the sum of both outcomes.
func (o Outcome) Merge(other Outcome) Outcome {
	return Outcome{
		Before:    o.Before + other.Before,
		After:     o.After + other.After,
		Succeeded: o.Succeeded + other.Succeeded,
		Skipped:   o.Skipped + other.Skipped,
		Failed:    o.Failed + other.Failed,
	}
}

// Processed is the number of items handed to the task body.
func (o Outcome) Processed() int {
	return o.Succeeded + o.Skipped + o.Failed
}

// Totals is the summary of one run.
type Totals struct {
	Outcome
	Items     int
	Workers   int
	Remaining int
	Elapsed   time.Duration
}

// Saved is the number of bytes saved across all shrunk items.
func (t Totals) Saved() uint64 {
	return t.Before - t.After
}

package scheduler

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var ErrNilTask = errors.New("task function is nil")

// Scheduler runs a task body over a fixed set of items with a work-stealing pool.
// A Scheduler holds no per-run state and may be reused.
type Scheduler[T any] struct {
	nbWorkers int
	fn        TaskFunc[T]
	reporter  Reporter[T]
	log       *zap.SugaredLogger
}

// NewScheduler creates a scheduler with up to nbWorkers workers.
// nbWorkers <= 0 means runtime.GOMAXPROCS(0).
func NewScheduler[T any](nbWorkers int, fn TaskFunc[T]) *Scheduler[T] {
	return &Scheduler[T]{
		nbWorkers: nbWorkers,
		fn:        fn,
		reporter:  noopReporter[T]{},
		log:       zap.S().Named("scheduler"),
	}
}

func (s *Scheduler[T]) WithReporter(r Reporter[T]) *Scheduler[T] {
	if r == nil {
		r = noopReporter[T]{}
	}
	s.reporter = r
	return s
}

func (s *Scheduler[T]) WithLogger(l *zap.Logger) *Scheduler[T] {
	if l != nil {
		s.log = l.Sugar().Named("scheduler")
	}
	return s
}

// Workers returns the worker count a run over n items would use.
func (s *Scheduler[T]) Workers(n int) int {
	w := s.nbWorkers
	if w <= 0 {
		w = runtime.GOMAXPROCS(0)
	}
	return min(w, n)
}

// Run processes every item exactly once and returns the merged totals.
// An empty item set is a no-op: no goroutine is started.
func (s *Scheduler[T]) Run(ctx context.Context, items []T) (Totals, error) {
	if s.fn == nil {
		return Totals{}, ErrNilTask
	}
	if len(items) == 0 {
		s.log.Debug("no items, nothing to schedule")
		return Totals{}, nil
	}

	nbWorkers := s.Workers(len(items))
	if nbWorkers < 1 {
		return Totals{}, fmt.Errorf("invalid worker count %d", nbWorkers)
	}

	global := NewInjector[T]()
	locals := make([]*Deque[T], nbWorkers)
	stealers := make([]*Stealer[T], nbWorkers)
	for i := range nbWorkers {
		locals[i] = NewDeque[T]()
		stealers[i] = locals[i].Stealer()
	}
	for _, it := range items {
		global.Push(it)
	}

	agg := NewAggregator(nbWorkers)

	s.log.Infow("run started", "items", len(items), "workers", nbWorkers)
	start := time.Now()

	var g errgroup.Group
	for i := range nbWorkers {
		w := &worker[T]{
			id:       i,
			local:    locals[i],
			global:   global,
			stealers: stealers,
			fn:       s.fn,
			reporter: s.reporter,
			log:      s.log,
		}
		g.Go(func() (err error) {
			defer func() {
				if rec := recover(); rec != nil {
					err = fmt.Errorf("worker %d panicked: %v", w.id, rec)
				}
			}()
			return agg.Publish(w.id, w.run(ctx))
		})
	}

	if err := g.Wait(); err != nil {
		s.log.Errorw("run aborted", "error", err)
		return Totals{}, err
	}
	elapsed := time.Since(start)

	total, err := agg.Finalize()
	if err != nil {
		return Totals{}, err
	}

	remaining := global.Len()
	for _, l := range locals {
		remaining += l.Len()
	}

	totals := Totals{
		Outcome:   total,
		Items:     len(items),
		Workers:   nbWorkers,
		Remaining: remaining,
		Elapsed:   elapsed,
	}

	s.log.Infow("run finished",
		"processed", total.Processed(),
		"failed", total.Failed,
		"remaining", remaining,
		"before", total.Before,
		"after", total.After,
		"elapsed", elapsed,
	)
	return totals, nil
}

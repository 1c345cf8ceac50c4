package scheduler

import (
	"context"

	"go.uber.org/zap"

	srvErrors "github.com/tupyy/imgsqueeze/pkg/errors"
)

type state int

const (
	stateTryLocal state = iota
	stateTryGlobal
	stateTrySteal
	stateIdleExit
)

func (s state) String() string {
	switch s {
	case stateTryLocal:
		return "try_local"
	case stateTryGlobal:
		return "try_global"
	case stateTrySteal:
		return "try_steal"
	default:
		return "idle_exit"
	}
}

type workerStats struct {
	local  int
	global int
	stolen int
}

type worker[T any] struct {
	id       int
	local    *Deque[T]
	global   *Injector[T]
	stealers []*Stealer[T]
	fn       TaskFunc[T]
	reporter Reporter[T]
	log      *zap.SugaredLogger

	outcome Outcome
	stats   workerStats
}

// run drives the worker until local, global and every peer queue are empty,
// or until ctx is done. Cancellation is only observed between items.
func (w *worker[T]) run(ctx context.Context) Outcome {
	st := stateTryLocal
	for st != stateIdleExit {
		if ctx.Err() != nil {
			w.log.Debugw("worker stopped by context", "worker", w.id, "error", ctx.Err())
			break
		}

		switch st {
		case stateTryLocal:
			if item, ok := w.local.Pop(); ok {
				w.stats.local++
				w.process(ctx, item)
				continue
			}
			st = stateTryGlobal
		case stateTryGlobal:
			if item, ok := w.global.StealBatchAndPop(w.local); ok {
				w.stats.global++
				w.process(ctx, item)
				st = stateTryLocal
				continue
			}
			st = stateTrySteal
		case stateTrySteal:
			if item, ok := w.steal(); ok {
				w.stats.stolen++
				w.process(ctx, item)
				st = stateTryLocal
				continue
			}
			st = stateIdleExit
		}
	}

	w.log.Debugw("worker done",
		"worker", w.id,
		"local", w.stats.local,
		"global", w.stats.global,
		"stolen", w.stats.stolen,
		"failed", w.outcome.Failed,
	)
	return w.outcome
}

// steal tries every peer once in ascending index order.
func (w *worker[T]) steal() (T, bool) {
	for i, s := range w.stealers {
		if i == w.id {
			continue
		}
		if item, ok := s.Steal(); ok {
			return item, true
		}
	}
	var zero T
	return zero, false
}

func (w *worker[T]) process(ctx context.Context, item T) {
	sizes, err := w.call(ctx, item)
	if err != nil {
		w.outcome.Failed++
		w.reporter.OnFailure(w.id, item, err)
		return
	}
	w.outcome.record(sizes)
	w.reporter.OnSuccess(w.id, item, sizes)
}

func (w *worker[T]) call(ctx context.Context, item T) (s Sizes, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			w.log.Errorw("task panicked", "worker", w.id, "panic", rec)
			s, err = Sizes{}, srvErrors.NewPanicError(rec)
		}
	}()
	return w.fn(ctx, item)
}

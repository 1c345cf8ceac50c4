package scheduler

import (
	"errors"
	"fmt"
	"sync"
)

var ErrIncompleteAggregation = errors.New("not every worker published its outcome")

// Aggregator collects one Outcome per worker. Each slot is written once by its
// owning worker; Finalize is only valid after every worker has been joined.
type Aggregator struct {
	mu        sync.Mutex
	slots     []Outcome
	published []bool
}

func NewAggregator(workers int) *Aggregator {
	return &Aggregator{
		slots:     make([]Outcome, workers),
		published: make([]bool, workers),
	}
}

func (a *Aggregator) Publish(worker int, o Outcome) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if worker < 0 || worker >= len(a.slots) {
		return fmt.Errorf("worker index %d out of range [0,%d)", worker, len(a.slots))
	}
	if a.published[worker] {
		return fmt.Errorf("worker %d published twice", worker)
	}
	a.slots[worker] = o
	a.published[worker] = true
	return nil
}

func (a *Aggregator) Finalize() (Outcome, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	var total Outcome
	for i, o := range a.slots {
		if !a.published[i] {
			return Outcome{}, fmt.Errorf("%w: worker %d", ErrIncompleteAggregation, i)
		}
		total = total.Merge(o)
	}
	return total, nil
}

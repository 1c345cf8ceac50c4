package scheduler

import "sync"

// MaxStealBatch caps how many items a single StealBatchAndPop moves out of the injector.
const MaxStealBatch = 32

type queue[T any] []T

func (q *queue[T]) Len() int { return len(*q) }

func (q *queue[T]) Pop() T {
	old := *q
	x := old[0]
	var zero T
	old[0] = zero
	*q = old[1:]
	return x
}

func (q *queue[T]) PopBack() T {
	old := *q
	n := len(old) - 1
	x := old[n]
	var zero T
	old[n] = zero
	*q = old[:n]
	return x
}

func (q *queue[T]) Push(t T) {
	*q = append(*q, t)
}

// Injector is the shared pool of unclaimed items. It is filled once before the
// workers start and only drained afterwards.
type Injector[T any] struct {
	mu    sync.Mutex
	items queue[T]
}

func NewInjector[T any]() *Injector[T] {
	return &Injector[T]{}
}

func (i *Injector[T]) Push(item T) {
	i.mu.Lock()
	i.items.Push(item)
	i.mu.Unlock()
}

func (i *Injector[T]) Len() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.items.Len()
}

// StealBatchAndPop removes up to half of the injector (at most MaxStealBatch items),
// returns the first one and pushes the rest into dest. The batch moves into dest
// before the injector is unlocked, so no item is ever outside every queue.
func (i *Injector[T]) StealBatchAndPop(dest *Deque[T]) (T, bool) {
	i.mu.Lock()
	n := i.items.Len()
	if n == 0 {
		i.mu.Unlock()
		var zero T
		return zero, false
	}
	batch := min((n+1)/2, MaxStealBatch)
	taken := make([]T, 0, batch)
	for range batch {
		taken = append(taken, i.items.Pop())
	}
	// lock order is always injector then deque
	dest.pushAll(taken[1:])
	i.mu.Unlock()

	return taken[0], true
}

// Deque is a worker's local queue. The owner pushes at the back and pops at the
// front; stealers take from the back.
type Deque[T any] struct {
	mu    sync.Mutex
	items queue[T]
}

func NewDeque[T any]() *Deque[T] {
	return &Deque[T]{}
}

func (d *Deque[T]) Push(item T) {
	d.mu.Lock()
	d.items.Push(item)
	d.mu.Unlock()
}

func (d *Deque[T]) pushAll(items []T) {
	if len(items) == 0 {
		return
	}
	d.mu.Lock()
	for _, it := range items {
		d.items.Push(it)
	}
	d.mu.Unlock()
}

// Pop is owner-only.
func (d *Deque[T]) Pop() (T, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.items.Len() == 0 {
		var zero T
		return zero, false
	}
	return d.items.Pop(), true
}

func (d *Deque[T]) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.items.Len()
}

// Stealer returns a steal-only handle on d.
func (d *Deque[T]) Stealer() *Stealer[T] {
	return &Stealer[T]{d: d}
}

// Stealer grants other workers steal access to a Deque.
type Stealer[T any] struct {
	d *Deque[T]
}

func (s *Stealer[T]) Steal() (T, bool) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	if s.d.items.Len() == 0 {
		var zero T
		return zero, false
	}
	return s.d.items.PopBack(), true
}

// Package scheduler implements a work-stealing pool for running a task body
// over a fixed, finite set of items.
//
// Items are seeded once into a shared injector. Each worker owns a local
// FIFO deque and exposes a steal-only handle on it to its peers. Workers
// prefer local work, then pull a batch from the injector, then steal from
// peers, and exit when all three are empty. Since no item is ever added after
// the run starts, every worker eventually exits and every item is processed
// exactly once.
//
// # Architecture Overview
//
//	┌─────────────────────────────────────────────────────────────────────┐
//	│                           Scheduler.Run                             │
//	│                                                                     │
//	│  ┌──────────────────────────────────────────────────────────┐       │
//	│  │                    Injector (global)                     │       │
//	│  │  [item1] [item2] [item3] ...       seeded once           │       │
//	│  └──────────────────────────────────────────────────────────┘       │
//	│         │ StealBatchAndPop     │                     │              │
//	│         ▼                      ▼                     ▼              │
//	│  ┌──────────────┐      ┌──────────────┐      ┌──────────────┐       │
//	│  │   Worker 0   │      │   Worker 1   │      │   Worker N   │       │
//	│  │ Deque (FIFO) │◄────►│ Deque (FIFO) │◄────►│ Deque (FIFO) │       │
//	│  └──────┬───────┘ steal└──────┬───────┘ steal└──────┬───────┘       │
//	│         │                     │                     │               │
//	│         └─────────────────────┼─────────────────────┘               │
//	│                               ▼                                     │
//	│                   Aggregator.Publish (once each)                    │
//	│                               │                                     │
//	│                         join barrier                                │
//	│                               ▼                                     │
//	│                      Aggregator.Finalize                            │
//	└─────────────────────────────────────────────────────────────────────┘
//
// # Worker Loop
//
//	          ┌────────────┐  item   ┌─────────┐
//	 start ──►│  TryLocal  │────────►│ Process │──┐
//	          └─────┬──────┘         └─────────┘  │
//	          empty │  ▲                          │
//	                ▼  └──────────────────────────┘
//	          ┌────────────┐  batch  ┌─────────┐
//	          │ TryGlobal  │────────►│ Process │──► TryLocal
//	          └─────┬──────┘         └─────────┘
//	          empty │
//	                ▼
//	          ┌────────────┐  item   ┌─────────┐
//	          │  TrySteal  │────────►│ Process │──► TryLocal
//	          └─────┬──────┘         └─────────┘
//	    all empty   │
//	                ▼
//	          ┌────────────┐
//	          │ Idle-Exit  │──► Publish(outcome)
//	          └────────────┘
//
// Peers are tried in ascending worker index, skipping the worker itself.
// A miss on any queue returns immediately; no worker ever blocks on another.
//
// # Outcomes
//
// Every worker accumulates an Outcome without locking and publishes it once,
// as the last step of its loop. The task body's result is classified as:
//
//   - error: counted in Failed and reported through Reporter.OnFailure
//   - After < Before: counted in Succeeded, Before/After added to the totals
//   - otherwise: counted in Skipped, sizes are not added to the totals
//
// Panics raised by the task body are recovered per item and reported as
// failures, so a bad item never takes a worker down.
//
// # Failure Policy
//
// A worker goroutine that faults outside the task body (for example a
// panicking Reporter) aborts the whole run: Run returns the error and no
// partial totals.
//
// # Cancellation
//
// Run observes ctx between items only. When ctx is done, workers stop
// taking new items, publish what they have, and Totals.Remaining counts the
// items left behind. A running task body is never interrupted by the
// scheduler itself.
//
// # Usage Example
//
//	sched := scheduler.NewScheduler(4, func(ctx context.Context, path string) (scheduler.Sizes, error) {
//	    return compressor.Compress(ctx, path)
//	}).WithReporter(reporter)
//
//	totals, err := sched.Run(ctx, paths)
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("saved %d bytes in %s\n", totals.Saved(), totals.Elapsed)
package scheduler

/*
Package scheduler provides the cooperative, single-threaded execution model that erx observables run on.

A [Scheduler] offers two primitives:
  - [Scheduler.Soon] queues a callback to run after the current call stack unwinds, in FIFO order.
  - [Scheduler.After] queues a callback to run once a duration has elapsed. It may be cancelled with [Scheduler.Cancel].

Callbacks never run concurrently with each other.
Two implementations are provided:
  - [Loop] is a real-time event loop that runs callbacks on whichever goroutine calls [Loop.Run].
    Scheduling is safe from any goroutine, which is how external event sources hand values to the loop.
  - [Virtual] is a deterministic clock that only moves forward when told to, which makes timing-dependent pipelines testable.
*/
package scheduler

import (
	"sync"
	"time"
)

// TimerID identifies a callback scheduled with [Scheduler.After].
type TimerID uint64

// Scheduler is the host capability that observables use to defer work.
type Scheduler interface {
	// Soon queues fn to run as soon as possible, but never synchronously.
	// Callbacks queued with Soon run in the order they were queued.
	Soon(fn func())
	// After queues fn to run once d has elapsed.
	// Timers with the same deadline fire in the order they were requested.
	After(d time.Duration, fn func()) TimerID
	// Cancel prevents a pending timer from firing.
	// Cancelling a timer that has already fired or been cancelled does nothing.
	Cancel(id TimerID)
	// Now reports the scheduler's notion of the current time.
	Now() time.Time
}

var (
	defaultLoop *Loop
	defaultOnce sync.Once
)

// Default returns a process-wide [Loop] that is used when no other [Scheduler] is specified.
// Something must call [Loop.Run] on it for scheduled work to happen.
func Default() *Loop {
	defaultOnce.Do(func() {
		defaultLoop = NewLoop()
	})
	return defaultLoop
}

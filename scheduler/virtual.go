package scheduler

import (
	"sync"
	"time"
)

var _ Scheduler = (*Virtual)(nil)

// Virtual is a deterministic [Scheduler] where time only passes with [Virtual.Advance] or [Virtual.RunUntilIdle].
// Tasks run on whichever goroutine calls [Virtual.Flush], [Virtual.Advance], or [Virtual.RunUntilIdle].
type Virtual struct {
	tasks taskQueue

	mux    sync.Mutex
	start  time.Time
	now    time.Time
	timers timerSet
}

// NewVirtual creates a [Virtual] scheduler with its clock at the Unix epoch.
func NewVirtual() *Virtual {
	start := time.Unix(0, 0).UTC()
	return &Virtual{start: start, now: start}
}

func (v *Virtual) Soon(fn func()) {
	if fn == nil {
		panic("nil task")
	}
	v.tasks.Push(fn)
}

func (v *Virtual) After(d time.Duration, fn func()) TimerID {
	if fn == nil {
		panic("nil task")
	}
	v.mux.Lock()
	defer v.mux.Unlock()
	return v.timers.add(v.now.Add(d), fn)
}

func (v *Virtual) Cancel(id TimerID) {
	v.mux.Lock()
	defer v.mux.Unlock()
	v.timers.cancel(id)
}

func (v *Virtual) Now() time.Time {
	v.mux.Lock()
	defer v.mux.Unlock()
	return v.now
}

// Elapsed reports how much virtual time has passed since creation.
func (v *Virtual) Elapsed() time.Duration {
	return v.Now().Sub(v.start)
}

// Pending reports the number of queued tasks and pending timers.
func (v *Virtual) Pending() int {
	v.mux.Lock()
	timers := v.timers.Len()
	v.mux.Unlock()
	return v.tasks.Len() + timers
}

// Flush runs queued tasks until none are left, without moving the clock.
// The number of tasks run is returned.
func (v *Virtual) Flush() int {
	return v.tasks.drain()
}

func (v *Virtual) fireNext(limit time.Time, bounded bool) bool {
	v.mux.Lock()
	deadline, ok := v.timers.next()
	if !ok || (bounded && deadline.After(limit)) {
		v.mux.Unlock()
		return false
	}
	t, _ := v.timers.popDue(deadline)
	v.now = deadline
	v.mux.Unlock()
	t.fn()
	v.Flush()
	return true
}

// Advance moves the clock forward by d, firing timers in deadline order and flushing the task queue after each one.
func (v *Virtual) Advance(d time.Duration) {
	v.Flush()
	target := v.Now().Add(d)
	for v.fireNext(target, true) {
	}
	v.mux.Lock()
	v.now = target
	v.mux.Unlock()
}

// RunUntilIdle flushes tasks and fires timers until nothing is pending.
// This never returns while a perpetual source, like a ticker, is active.
func (v *Virtual) RunUntilIdle() {
	v.Flush()
	for v.fireNext(time.Time{}, false) {
	}
}

package scheduler

import (
	"context"
	"sync"
	"time"
)

var _ Scheduler = (*Loop)(nil)

// Loop is a real-time [Scheduler].
// Scheduling methods may be called from any goroutine, but callbacks only run within [Loop.Run], [Loop.RunUntilIdle], or [Loop.Drain].
//
// Only one goroutine should be running a Loop at a time.
type Loop struct {
	tasks taskQueue
	wake  chan struct{}

	mux    sync.Mutex
	timers timerSet
}

// NewLoop creates a new, idle [Loop].
func NewLoop() *Loop {
	return &Loop{
		wake: make(chan struct{}, 1),
	}
}

func (l *Loop) signal() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

func (l *Loop) Soon(fn func()) {
	if fn == nil {
		panic("nil task")
	}
	l.tasks.Push(fn)
	l.signal()
}

func (l *Loop) After(d time.Duration, fn func()) TimerID {
	if fn == nil {
		panic("nil task")
	}
	l.mux.Lock()
	id := l.timers.add(time.Now().Add(d), fn)
	l.mux.Unlock()
	l.signal()
	return id
}

func (l *Loop) Cancel(id TimerID) {
	l.mux.Lock()
	defer l.mux.Unlock()
	l.timers.cancel(id)
}

func (l *Loop) Now() time.Time {
	return time.Now()
}

// Pending reports the number of queued tasks and pending timers.
func (l *Loop) Pending() int {
	l.mux.Lock()
	timers := l.timers.Len()
	l.mux.Unlock()
	return l.tasks.Len() + timers
}

// Drain runs queued tasks on the calling goroutine until none are left, without waiting for timers.
// The number of tasks run is returned.
func (l *Loop) Drain() int {
	return l.tasks.drain()
}

// fireDue runs every timer whose deadline has passed, draining queued tasks after each one.
func (l *Loop) fireDue() bool {
	var fired bool
	for {
		l.mux.Lock()
		t, ok := l.timers.popDue(time.Now())
		l.mux.Unlock()
		if !ok {
			return fired
		}
		fired = true
		t.fn()
		l.Drain()
	}
}

func (l *Loop) nextDeadline() (time.Time, bool) {
	l.mux.Lock()
	defer l.mux.Unlock()
	return l.timers.next()
}

// Run processes tasks and timers on the calling goroutine until the context is done, and then returns the context's error.
// A panic raised by a callback is not recovered.
func (l *Loop) Run(ctx context.Context) error {
	return l.run(ctx, false)
}

// RunUntilIdle processes tasks and timers until nothing is queued or pending, or the context is done.
// The context error is returned if the Loop didn't become idle in time.
func (l *Loop) RunUntilIdle(ctx context.Context) error {
	return l.run(ctx, true)
}

func (l *Loop) run(ctx context.Context, stopWhenIdle bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		l.Drain()
		if l.fireDue() {
			continue
		}
		if l.tasks.Len() > 0 {
			continue
		}
		deadline, haveTimer := l.nextDeadline()
		if stopWhenIdle && !haveTimer {
			return nil
		}
		var (
			timerC <-chan time.Time
			t      *time.Timer
		)
		if haveTimer {
			t = time.NewTimer(time.Until(deadline))
			timerC = t.C
		}
		select {
		case <-ctx.Done():
		case <-l.wake:
		case <-timerC:
		}
		if t != nil {
			t.Stop()
		}
	}
}

package sources

import (
	"github.com/saylorsolutions/erx"
	"github.com/saylorsolutions/erx/scheduler"
	"time"
)

// FrameRate is the number of values per second sent by [Frames].
const FrameRate = 60

// named puts a default name ahead of the caller's options, so a [erx.WithName] from the caller wins.
func named(name string, opts []erx.Option) []erx.Option {
	return append([]erx.Option{erx.WithName(name)}, opts...)
}

// every calls fn each time d elapses, until the returned function is called.
func every(sched scheduler.Scheduler, d time.Duration, fn func()) func() {
	var (
		id      scheduler.TimerID
		stopped bool
		fire    func()
	)
	fire = func() {
		if stopped {
			return
		}
		fn()
		if !stopped {
			id = sched.After(d, fire)
		}
	}
	id = sched.After(d, fire)
	return func() {
		stopped = true
		sched.Cancel(id)
	}
}

func mustPositive(d time.Duration) {
	if d <= 0 {
		panic("non-positive interval")
	}
}

// Interval creates a [erx.Stream] that sends the scheduler's current time every time d elapses.
// The first value is sent d after activation.
func Interval(d time.Duration, opts ...erx.Option) *erx.Stream[time.Time] {
	mustPositive(d)
	var s *erx.Stream[time.Time]
	s = erx.NewStream(func(sink erx.Sink[time.Time]) func() {
		sched := s.Scheduler()
		return every(sched, d, func() {
			sink.Value(sched.Now())
		})
	}, named("interval", opts)...)
	return s
}

// Tick creates a [erx.Stream] that counts up from 0, sending the next number every time d elapses.
// Each activation starts counting from 0 again.
func Tick(d time.Duration, opts ...erx.Option) *erx.Stream[int] {
	mustPositive(d)
	var s *erx.Stream[int]
	s = erx.NewStream(func(sink erx.Sink[int]) func() {
		var n int
		return every(s.Scheduler(), d, func() {
			sink.Value(n)
			n++
		})
	}, named("tick", opts)...)
	return s
}

// Frames creates a frame clock [erx.Stream] that sends the time elapsed since activation, [FrameRate] times per second.
func Frames(opts ...erx.Option) *erx.Stream[time.Duration] {
	var s *erx.Stream[time.Duration]
	s = erx.NewStream(func(sink erx.Sink[time.Duration]) func() {
		sched := s.Scheduler()
		start := sched.Now()
		return every(sched, time.Second/FrameRate, func() {
			sink.Value(sched.Now().Sub(start))
		})
	}, named("frames", opts)...)
	return s
}

package erx

import (
	"github.com/saylorsolutions/erx/internal/try"
	"github.com/saylorsolutions/erx/scheduler"
	"time"
)

// Take creates a [Stream] with at most the first n values of s.
// The result closes after the n-th value, cancelling its subscription to s.
// Take(0) closes without observing s at all.
func (s *Stream[A]) Take(n int) *Stream[A] {
	if n < 0 {
		panic("negative take count")
	}
	return derive(s.conf, "take", func(r *relay[A]) {
		if n == 0 {
			r.close()
			return
		}
		var count int
		follow(r, s, func(val A) {
			count++
			r.value(val)
			if count >= n {
				r.close()
			}
		}, nil, nil)
	})
}

// TakeWhile creates a [Stream] with the values of s until pred returns false.
// The value that fails pred isn't sent, and the result closes instead.
func (s *Stream[A]) TakeWhile(pred func(A) bool) *Stream[A] {
	if pred == nil {
		panic("nil predicate")
	}
	return derive(s.conf, "takeWhile", func(r *relay[A]) {
		follow(r, s, func(val A) {
			ok, err := try.Call(pred, val)
			if err != nil {
				r.error(err)
				return
			}
			if !ok {
				r.close()
				return
			}
			r.value(val)
		}, nil, nil)
	})
}

// TakeUntil creates a [Stream] with the values of src until notifier sends its first value.
// Errors and close events from notifier are ignored.
func TakeUntil[A, B any](src Source[A], notifier Source[B]) *Stream[A] {
	return derive(configOf(src), "takeUntil", func(r *relay[A]) {
		follow(r, src, r.value, nil, nil)
		follow(r, notifier, func(B) {
			r.close()
		}, func(error) {}, func() {})
	})
}

// Delay creates a [Stream] that sends every event from s after d has passed.
// Relative order is preserved, and timers that haven't fired are cancelled on teardown.
func (s *Stream[A]) Delay(d time.Duration) *Stream[A] {
	sched := s.conf.sched
	return derive(s.conf, "delay", func(r *relay[A]) {
		var timers []scheduler.TimerID
		later := func(fn func()) {
			timers = append(timers, sched.After(d, func() {
				timers = timers[1:]
				fn()
			}))
		}
		r.cleanup(func() {
			for _, id := range timers {
				sched.Cancel(id)
			}
			timers = nil
		})
		follow(r, s, func(val A) {
			later(func() {
				r.value(val)
			})
		}, func(err error) {
			later(func() {
				r.error(err)
			})
		}, func() {
			later(r.close)
		})
	})
}

// Repeat creates a [Stream] that observes a new [Stream] from factory every time the previous one closes.
// It never closes on its own, but an error from any iteration fails it.
func Repeat[A any](factory func() *Stream[A], opts ...Option) *Stream[A] {
	return repeat(newConfig("repeat", opts), factory, -1)
}

// RepeatFinite is like [Repeat], except that it closes after n iterations have closed.
// RepeatFinite with n == 0 closes without calling factory.
func RepeatFinite[A any](factory func() *Stream[A], n int, opts ...Option) *Stream[A] {
	if n < 0 {
		panic("negative iteration count")
	}
	return repeat(newConfig("repeatFinite", opts), factory, n)
}

func repeat[A any](conf *config, factory func() *Stream[A], iterations int) *Stream[A] {
	if factory == nil {
		panic("nil factory function")
	}
	return newStream(conf, func(sink Sink[A]) func() {
		r := &relay[A]{sink: sink}
		if iterations == 0 {
			r.close()
			return r.stop
		}
		var (
			current   *Subscription
			completed int
			start     func()
		)
		start = func() {
			next := factory()
			if next == nil {
				panic("factory returned a nil stream")
			}
			current = attach(r, next, r.value, nil, func() {
				completed++
				if iterations > 0 && completed >= iterations {
					r.close()
					return
				}
				start()
			})
		}
		r.cleanup(func() {
			current.Cancel()
		})
		start()
		return r.stop
	})
}

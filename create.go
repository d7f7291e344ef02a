package erx

import (
	"github.com/saylorsolutions/erx/internal/try"
	"iter"
	"time"
)

// Of creates a [Stream] that sends each of the given values in order, and then closes.
// Every observer gets its own activation starting from the first value, even after the Stream has closed for another observer.
func Of[A any](values []A, opts ...Option) *Stream[A] {
	conf := newConfig("of", opts)
	return newColdStream(conf, func(sink Sink[A]) func() {
		conf.sched.Soon(func() {
			for _, val := range values {
				sink.Value(val)
			}
			sink.Close()
		})
		return nil
	})
}

// Unit creates a [Stream] that sends val and then closes.
func Unit[A any](val A, opts ...Option) *Stream[A] {
	return Of([]A{val}, opts...)
}

// Empty creates a [Stream] that closes without sending a value.
func Empty[A any](opts ...Option) *Stream[A] {
	return Of[A](nil, opts...)
}

// Fail creates a [Stream] that fails with err without sending a value.
func Fail[A any](err error, opts ...Option) *Stream[A] {
	if err == nil {
		panic("nil error")
	}
	conf := newConfig("fail", opts)
	return newColdStream(conf, func(sink Sink[A]) func() {
		conf.sched.Soon(func() {
			sink.Error(err)
		})
		return nil
	})
}

// Wait creates a [Stream] that closes once d has passed, without sending a value.
func Wait(d time.Duration, opts ...Option) *Stream[struct{}] {
	conf := newConfig("wait", opts)
	return newColdStream(conf, func(sink Sink[struct{}]) func() {
		id := conf.sched.After(d, sink.Close)
		return func() {
			conf.sched.Cancel(id)
		}
	})
}

// FromSeq creates a [Stream] that pulls values from seq, sending one value per scheduler turn.
// Every activation starts a new iteration of seq, which is stopped if the Stream is torn down early.
// A panic raised while iterating seq fails the Stream with a [PanicError].
func FromSeq[A any](seq iter.Seq[A], opts ...Option) *Stream[A] {
	if seq == nil {
		panic("nil sequence")
	}
	conf := newConfig("seq", opts)
	return newColdStream(conf, func(sink Sink[A]) func() {
		next, stop := iter.Pull(seq)
		var step func()
		step = func() {
			val, ok, err := pull(next)
			if err != nil {
				stop()
				sink.Error(err)
				return
			}
			if !ok {
				stop()
				sink.Close()
				return
			}
			sink.Value(val)
			conf.sched.Soon(step)
		}
		conf.sched.Soon(step)
		return stop
	})
}

func pull[A any](next func() (A, bool)) (val A, ok bool, err error) {
	defer try.Recover(&err)
	val, ok = next()
	return val, ok, nil
}

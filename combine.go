package erx

import (
	"fmt"
	"github.com/saylorsolutions/erx/internal/try"
)

// Merge creates a [Stream] with the values of both s and other, in the order they arrive.
// The result closes once both inputs have closed, and fails as soon as either input fails.
func (s *Stream[A]) Merge(other Source[A]) *Stream[A] {
	return derive(s.conf, "merge", func(r *relay[A]) {
		var closed [2]bool
		onClose := func(i int) func() {
			return func() {
				closed[i] = true
				if closed[0] && closed[1] {
					r.close()
				}
			}
		}
		follow(r, s, r.value, nil, onClose(0))
		follow(r, other, r.value, nil, onClose(1))
	})
}

// Concat creates a [Stream] with the values of s, followed by the values of other once s closes.
// The other input isn't observed until s closes, and never if s fails.
func (s *Stream[A]) Concat(other Source[A]) *Stream[A] {
	return derive(s.conf, "concat", func(r *relay[A]) {
		follow(r, s, r.value, nil, func() {
			follow(r, other, r.value, nil, nil)
		})
	})
}

// MergeAll merges every given [Stream] with [Stream.Merge].
// [ErrEmptyInput] is returned if no streams are given.
func MergeAll[A any](streams ...*Stream[A]) (*Stream[A], error) {
	if len(streams) == 0 {
		return nil, fmt.Errorf("%w: at least one stream is required to merge", ErrEmptyInput)
	}
	merged := streams[0]
	for _, next := range streams[1:] {
		merged = merged.Merge(next)
	}
	return merged, nil
}

// ConcatAll concatenates every given [Stream] in order with [Stream.Concat].
// [ErrEmptyInput] is returned if no streams are given.
func ConcatAll[A any](streams ...*Stream[A]) (*Stream[A], error) {
	if len(streams) == 0 {
		return nil, fmt.Errorf("%w: at least one stream is required to concatenate", ErrEmptyInput)
	}
	joined := streams[0]
	for _, next := range streams[1:] {
		joined = joined.Concat(next)
	}
	return joined, nil
}

// Zip combines the latest values of left and right with sel whenever either of them sends a value.
// Until a side has sent its first value, the zero value of its type is used in its place.
// Use [ZipOpt] to tell a missing value apart from a zero value.
// The result closes or fails as soon as either input does.
func Zip[A, B, C any](left Source[A], right Source[B], sel func(A, B) C) *Stream[C] {
	return zip(configOf(left), "zip", left, right, ignorePresence(sel), true)
}

// ZipLeft is like [Zip], except that only values from left produce a result.
// Values from right only update the latest right value.
func ZipLeft[A, B, C any](left Source[A], right Source[B], sel func(A, B) C) *Stream[C] {
	return zip(configOf(left), "zipLeft", left, right, ignorePresence(sel), false)
}

// ZipOpt is like [Zip], except that sel is also told whether each side has sent a value yet.
func ZipOpt[A, B, C any](left Source[A], right Source[B], sel func(a A, hasA bool, b B, hasB bool) C) *Stream[C] {
	return zip(configOf(left), "zip", left, right, sel, true)
}

// ZipLeftOpt is like [ZipLeft], except that sel is also told whether right has sent a value yet.
func ZipLeftOpt[A, B, C any](left Source[A], right Source[B], sel func(a A, b B, hasB bool) C) *Stream[C] {
	if sel == nil {
		panic("nil select function")
	}
	return zip(configOf(left), "zipLeft", left, right, func(a A, _ bool, b B, hasB bool) C {
		return sel(a, b, hasB)
	}, false)
}

func ignorePresence[A, B, C any](sel func(A, B) C) func(A, bool, B, bool) C {
	if sel == nil {
		panic("nil select function")
	}
	return func(a A, _ bool, b B, _ bool) C {
		return sel(a, b)
	}
}

func callSelect[A, B, C any](sel func(A, bool, B, bool) C, a A, hasA bool, b B, hasB bool) (out C, err error) {
	defer try.Recover(&err)
	return sel(a, hasA, b, hasB), nil
}

func zip[A, B, C any](conf *config, op string, left Source[A], right Source[B], sel func(A, bool, B, bool) C, emitRight bool) *Stream[C] {
	if sel == nil {
		panic("nil select function")
	}
	return derive(conf, op, func(r *relay[C]) {
		var (
			a          A
			b          B
			hasA, hasB bool
		)
		emit := func() {
			out, err := callSelect(sel, a, hasA, b, hasB)
			if err != nil {
				r.error(err)
				return
			}
			r.value(out)
		}
		follow(r, left, func(val A) {
			a, hasA = val, true
			emit()
		}, nil, nil)
		follow(r, right, func(val B) {
			b, hasB = val, true
			if emitRight {
				emit()
			}
		}, nil, nil)
	})
}

// ZipSignals creates a [Signal] combining the current values of left and right with sel.
// The seed is sel applied to both current values, and every live update from either side produces a new value.
func ZipSignals[A, B, C any](left *Signal[A], right *Signal[B], sel func(A, B) C) *Signal[C] {
	if sel == nil {
		panic("nil select function")
	}
	return deriveSignal(left.conf, "zip", sel(left.Value(), right.Value()), func(r *relay[C]) {
		var (
			a         = left.Value()
			b         = right.Value()
			replaying bool
		)
		emit := func() {
			out, err := try.Call2(sel, a, b)
			if err != nil {
				r.error(err)
				return
			}
			r.value(out)
		}
		// Replayed values are already part of the seed.
		replaying = true
		follow(r, left, func(val A) {
			if replaying {
				return
			}
			a = val
			emit()
		}, nil, nil)
		follow(r, right, func(val B) {
			if replaying {
				return
			}
			b = val
			emit()
		}, nil, nil)
		replaying = false
	})
}

// SampleOn creates a [Signal] that sends the current value of sig every time ticker sends a value.
func SampleOn[A, B any](sig *Signal[A], ticker Source[B]) *Signal[A] {
	return deriveSignal(sig.conf, "sampleOn", sig.Value(), func(r *relay[A]) {
		current := sig.Value()
		follow(r, sig, func(val A) {
			current = val
		}, nil, nil)
		follow(r, ticker, func(B) {
			r.value(current)
		}, nil, nil)
	})
}

// SampleStream is like [SampleOn] for a [Source] without a current value.
// The latest value of src is tracked starting from seed.
func SampleStream[A, B any](src Source[A], ticker Source[B], seed A) *Signal[A] {
	latest := Fold(src, func(_ A, next A) A {
		return next
	}, seed)
	return SampleOn(latest, ticker)
}

package erx

import (
	"github.com/saylorsolutions/erx/internal/try"
)

// Map creates a [Stream] of src's values passed through fn.
func Map[A, B any](src Source[A], fn func(A) B) *Stream[B] {
	if fn == nil {
		panic("nil map function")
	}
	return derive(configOf(src), "map", func(r *relay[B]) {
		follow(r, src, func(val A) {
			out, err := try.Call(fn, val)
			if err != nil {
				r.error(err)
				return
			}
			r.value(out)
		}, nil, nil)
	})
}

// TryMap is like [Map], except that an error returned from fn fails the result.
func TryMap[A, B any](src Source[A], fn func(A) (B, error)) *Stream[B] {
	if fn == nil {
		panic("nil map function")
	}
	return derive(configOf(src), "tryMap", func(r *relay[B]) {
		follow(r, src, func(val A) {
			out, err := try.CallErr(fn, val)
			if err != nil {
				r.error(err)
				return
			}
			r.value(out)
		}, nil, nil)
	})
}

// Filter creates a [Stream] of the values that match pred.
func (s *Stream[A]) Filter(pred func(A) bool) *Stream[A] {
	if pred == nil {
		panic("nil predicate")
	}
	return derive(s.conf, "filter", func(r *relay[A]) {
		follow(r, s, func(val A) {
			keep, err := try.Call(pred, val)
			if err != nil {
				r.error(err)
				return
			}
			if keep {
				r.value(val)
			}
		}, nil, nil)
	})
}

// TryFilter is like [Stream.Filter], except that an error returned from pred fails the result.
func (s *Stream[A]) TryFilter(pred func(A) (bool, error)) *Stream[A] {
	if pred == nil {
		panic("nil predicate")
	}
	return derive(s.conf, "tryFilter", func(r *relay[A]) {
		follow(r, s, func(val A) {
			keep, err := try.CallErr(pred, val)
			if err != nil {
				r.error(err)
				return
			}
			if keep {
				r.value(val)
			}
		}, nil, nil)
	})
}

// Unpack flattens a [Stream] of slices into a [Stream] of their elements, in order.
func Unpack[A any](src Source[[]A]) *Stream[A] {
	return derive(configOf(src), "unpack", func(r *relay[A]) {
		follow(r, src, func(batch []A) {
			for _, val := range batch {
				r.value(val)
			}
		}, nil, nil)
	})
}

// FlatMap maps each value to a slice with fn, and flattens the results.
func FlatMap[A, B any](src Source[A], fn func(A) []B) *Stream[B] {
	return Unpack(Map(src, fn))
}

// Distinct drops values that are equal to the value just before them.
// The first value always passes.
func Distinct[A comparable](s *Stream[A]) *Stream[A] {
	return s.DistinctFunc(func(a, b A) bool {
		return a == b
	})
}

// DistinctFunc is like [Distinct], except that equality is determined by eq.
func (s *Stream[A]) DistinctFunc(eq func(a, b A) bool) *Stream[A] {
	if eq == nil {
		panic("nil equality function")
	}
	return derive(s.conf, "distinct", func(r *relay[A]) {
		var (
			prev A
			seen bool
		)
		follow(r, s, func(val A) {
			if seen {
				same, err := try.Call2(eq, prev, val)
				if err != nil {
					r.error(err)
					return
				}
				prev = val
				if same {
					return
				}
			}
			seen = true
			prev = val
			r.value(val)
		}, nil, nil)
	})
}

// DistinctSignal creates a [Signal] that only updates when sig changes to a different value.
func DistinctSignal[A comparable](sig *Signal[A]) *Signal[A] {
	return deriveSignal(sig.conf, "distinct", sig.Value(), func(r *relay[A]) {
		current := sig.Value()
		follow(r, sig, func(val A) {
			if val != current {
				r.value(val)
			}
			current = val
		}, nil, nil)
	})
}

// Fold creates a [Signal] of a running accumulation over src, starting from seed.
// Each new value from src produces a new accumulated value with fn.
func Fold[A, B any](src Source[A], fn func(acc B, val A) B, seed B) *Signal[B] {
	if fn == nil {
		panic("nil fold function")
	}
	acc := seed
	return deriveSignal(configOf(src), "fold", seed, func(r *relay[B]) {
		follow(r, src, func(val A) {
			next, err := try.Call2(fn, acc, val)
			if err != nil {
				r.error(err)
				return
			}
			acc = next
			r.value(next)
		}, nil, nil)
	})
}

// Scan is like [Fold], except that the result is a [Stream] that doesn't replay the accumulated value.
func Scan[A, B any](src Source[A], fn func(acc B, val A) B, seed B) *Stream[B] {
	if fn == nil {
		panic("nil scan function")
	}
	acc := seed
	return derive(configOf(src), "scan", func(r *relay[B]) {
		follow(r, src, func(val A) {
			next, err := try.Call2(fn, acc, val)
			if err != nil {
				r.error(err)
				return
			}
			acc = next
			r.value(next)
		}, nil, nil)
	})
}

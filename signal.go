package erx

// Signal is an [Observable] that always has a current value.
// New observers receive the current value synchronously when they're registered, before any live update.
type Signal[A any] struct {
	Observable[A]
}

// NewSignal creates a [Signal] with the given seed as its current value.
// The producer is called once the Signal is first observed.
func NewSignal[A any](seed A, producer Producer[A], opts ...Option) *Signal[A] {
	return newSignal(newConfig("signal", opts), seed, producer)
}

func newSignal[A any](conf *config, seed A, producer Producer[A]) *Signal[A] {
	s := new(Signal[A])
	s.init(conf, producer)
	s.replay = true
	s.current = seed
	return s
}

// Value returns the current value without subscribing.
// The current value is updated as soon as the producer sends it, before it's delivered to observers.
func (s *Signal[A]) Value() A {
	return s.current
}

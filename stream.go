package erx

// Stream is an [Observable] sequence of values with no current value.
// Most combinators are available as methods, or as functions when the value type changes.
type Stream[A any] struct {
	Observable[A]
}

// NewStream creates a [Stream] that will call producer once it's first observed.
func NewStream[A any](producer Producer[A], opts ...Option) *Stream[A] {
	return newStream(newConfig("stream", opts), producer)
}

func newStream[A any](conf *config, producer Producer[A]) *Stream[A] {
	s := new(Stream[A])
	s.init(conf, producer)
	return s
}

// newColdStream creates a [Stream] that runs producer separately for every observer, so no state is shared between them.
func newColdStream[A any](conf *config, producer Producer[A]) *Stream[A] {
	s := newStream(conf, producer)
	s.cold = true
	return s
}

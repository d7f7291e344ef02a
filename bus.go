package erx

// Bus is a [Stream] that is driven manually with [Bus.Push].
type Bus[A any] struct {
	Stream[A]
	sink  Sink[A]
	ended bool
}

// NewBus creates a new, empty [Bus].
func NewBus[A any](opts ...Option) *Bus[A] {
	b := new(Bus[A])
	b.init(newConfig("bus", opts), nopProducer[A])
	b.sink = &sink[A]{o: &b.Observable}
	return b
}

// Push sends a value to current observers.
// The value is dropped if there are no observers, or if the Bus has been closed or failed.
func (b *Bus[A]) Push(val A) {
	if b.ended || b.Observers() == 0 {
		return
	}
	b.sink.Value(val)
}

// Close closes the Bus. Calling Close more than once does nothing.
func (b *Bus[A]) Close() {
	if b.ended {
		return
	}
	b.ended = true
	b.sink.Close()
}

// Fail closes the Bus with an error. Calling Fail after the Bus has ended does nothing.
func (b *Bus[A]) Fail(err error) {
	if b.ended {
		return
	}
	b.ended = true
	b.sink.Error(err)
}

// Pipe pushes the values of src into this Bus, and fails the Bus if src fails.
// The returned [Subscription] may be used to stop piping.
func (b *Bus[A]) Pipe(src Source[A]) (*Subscription, error) {
	return src.Observe(&Funcs[A]{
		OnValue: b.Push,
		OnError: b.Fail,
		logger:  b.conf.logger,
		name:    b.conf.name,
	})
}

// Property is a [Signal] that is driven manually with [Property.Set].
type Property[A any] struct {
	Signal[A]
	sink  Sink[A]
	ended bool
}

// NewProperty creates a [Property] with seed as its current value.
func NewProperty[A any](seed A, opts ...Option) *Property[A] {
	p := new(Property[A])
	p.init(newConfig("property", opts), nopProducer[A])
	p.replay = true
	p.current = seed
	p.sink = &sink[A]{o: &p.Observable}
	return p
}

// Set updates the current value and sends it to current observers.
// Nothing changes if there are no observers, or if the Property has been closed or failed.
func (p *Property[A]) Set(val A) {
	if p.ended || p.Observers() == 0 {
		return
	}
	p.sink.Value(val)
}

// Close closes the Property. Calling Close more than once does nothing.
func (p *Property[A]) Close() {
	if p.ended {
		return
	}
	p.ended = true
	p.sink.Close()
}

// Fail closes the Property with an error. Calling Fail after the Property has ended does nothing.
func (p *Property[A]) Fail(err error) {
	if p.ended {
		return
	}
	p.ended = true
	p.sink.Error(err)
}

func nopProducer[A any](Sink[A]) func() {
	return nil
}

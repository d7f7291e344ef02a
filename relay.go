package erx

// relay forwards events from upstream subscriptions into a combinator's sink.
// It cancels every upstream subscription before sending a terminal event, and drops anything that arrives afterward.
type relay[B any] struct {
	sink     Sink[B]
	subs     []*Subscription
	cleanups []func()
	done     bool
}

func (r *relay[B]) value(val B) {
	if r.done {
		return
	}
	r.sink.Value(val)
}

func (r *relay[B]) error(err error) {
	if r.done {
		return
	}
	r.done = true
	r.release()
	r.sink.Error(err)
}

func (r *relay[B]) close() {
	if r.done {
		return
	}
	r.done = true
	r.release()
	r.sink.Close()
}

func (r *relay[B]) release() {
	subs := r.subs
	r.subs = nil
	for _, sub := range subs {
		sub.Cancel()
	}
	cleanups := r.cleanups
	r.cleanups = nil
	for _, fn := range cleanups {
		fn()
	}
}

// cleanup adds fn to be called when the relay is released.
func (r *relay[B]) cleanup(fn func()) {
	if r.done {
		fn()
		return
	}
	r.cleanups = append(r.cleanups, fn)
}

// stop is used as the combinator's teardown.
func (r *relay[B]) stop() {
	r.done = true
	r.release()
}

// hold keeps sub so it's cancelled with the relay.
// If the relay has already finished, then sub is cancelled immediately.
func (r *relay[B]) hold(sub *Subscription) {
	if sub == nil {
		return
	}
	if r.done {
		sub.Cancel()
		return
	}
	r.subs = append(r.subs, sub)
}

// attach observes src on behalf of r, without holding the subscription.
// Observing a closed source fails the relay.
func attach[A, B any](r *relay[B], src Source[A], onValue func(A), onError func(error), onClose func()) *Subscription {
	if onError == nil {
		onError = r.error
	}
	if onClose == nil {
		onClose = r.close
	}
	sub, err := src.Observe(&Funcs[A]{
		OnValue: onValue,
		OnError: onError,
		OnClose: onClose,
	})
	if err != nil {
		r.error(err)
		return nil
	}
	return sub
}

// follow is attach, with the subscription held by the relay.
func follow[A, B any](r *relay[B], src Source[A], onValue func(A), onError func(error), onClose func()) *Subscription {
	sub := attach(r, src, onValue, onError, onClose)
	r.hold(sub)
	return sub
}

// derive creates a [Stream] from upstream config whose producer wires a fresh relay for each activation.
func derive[B any](conf *config, op string, wire func(r *relay[B])) *Stream[B] {
	return newStream(conf.derive(op), func(sink Sink[B]) func() {
		r := &relay[B]{sink: sink}
		wire(r)
		return r.stop
	})
}

// deriveSignal is like derive, except that it creates a [Signal] with the given seed.
func deriveSignal[B any](conf *config, op string, seed B, wire func(r *relay[B])) *Signal[B] {
	return newSignal(conf.derive(op), seed, func(sink Sink[B]) func() {
		r := &relay[B]{sink: sink}
		wire(r)
		return r.stop
	})
}

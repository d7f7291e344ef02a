package erx

import (
	"fmt"
	"log/slog"
)

// Sink is the write end of an [Observable], passed to its [Producer].
type Sink[A any] interface {
	// Value sends a value to all observers.
	Value(val A)
	// Error sends a terminal error to all observers.
	Error(err error)
	// Close sends a terminal close to all observers.
	Close()
}

// Observer is the read end of an [Observable], supplied by a subscriber.
type Observer[A any] interface {
	Value(val A)
	Error(err error)
	Close()
}

// Producer starts producing events into the given [Sink] when an [Observable] is activated.
// The returned function, if not nil, is called exactly once when production stops.
type Producer[A any] func(sink Sink[A]) func()

// Source is anything that can be observed.
// Combinators accept a Source where any observable value works as input.
type Source[A any] interface {
	Observe(obs Observer[A]) (*Subscription, error)
}

var _ Observer[any] = (*Funcs[any])(nil)

// Funcs is an [Observer] assembled from optional callbacks.
//
// A nil OnValue or OnClose does nothing.
// A nil OnError logs the error and panics with it, since an unhandled error usually means a bug in the subscriber.
type Funcs[A any] struct {
	OnValue func(val A)
	OnError func(err error)
	OnClose func()

	logger *slog.Logger
	name   string
}

func (f *Funcs[A]) Value(val A) {
	if f.OnValue != nil {
		f.OnValue(val)
	}
}

func (f *Funcs[A]) Error(err error) {
	if f.OnError != nil {
		f.OnError(err)
		return
	}
	logger := f.logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Error("Unhandled error on observer", "observable", f.name, "error", err)
	panic(fmt.Errorf("unhandled error on observer of '%s': %w", f.name, err))
}

func (f *Funcs[A]) Close() {
	if f.OnClose != nil {
		f.OnClose()
	}
}

// Subscription is a handle for a single registration of an [Observer].
// Each registration gets its own Subscription, even when the same [Observer] is registered more than once.
type Subscription struct {
	active bool
	cancel func()
}

// NewSubscription creates an active [Subscription] that calls cancel the first time [Subscription.Cancel] is called.
// This is useful for implementing a custom [Source].
func NewSubscription(cancel func()) *Subscription {
	return &Subscription{
		active: true,
		cancel: cancel,
	}
}

// Cancel removes the registration. Calling Cancel more than once, or on a nil Subscription, does nothing.
func (s *Subscription) Cancel() {
	if s == nil || !s.active {
		return
	}
	s.active = false
	if s.cancel != nil {
		s.cancel()
	}
}

// Active reports whether the registration is still receiving events.
// A Subscription is no longer active after it's cancelled, or after a terminal event was delivered to it.
func (s *Subscription) Active() bool {
	return s != nil && s.active
}

// end marks the Subscription inactive without calling its cancel function.
func (s *Subscription) end() {
	s.active = false
}

package erx

import (
	"fmt"
	"github.com/saylorsolutions/erx/promise"
	"github.com/saylorsolutions/erx/scheduler"
	"slices"
)

type registration[A any] struct {
	sub *Subscription
	obs Observer[A]
}

// Observable is the engine shared by [Stream], [Signal], [Bus], and [Property].
// It tracks registered observers, activates its [Producer] on the first registration, and tears it down once production stops.
//
// An Observable must not be copied after first use.
type Observable[A any] struct {
	conf     *config
	producer Producer[A]
	// A cold Observable gives every registration its own run of the producer, and never closes.
	cold bool
	runs []*Observable[A]
	// A replaying Observable sends its current value to each new observer.
	replay bool

	subs     []registration[A]
	closed   bool
	active   bool
	pending  bool
	episode  uint64
	teardown func()
	current  A
	done     *promise.Promise[A]
}

func (o *Observable[A]) init(conf *config, producer Producer[A]) {
	if producer == nil {
		panic("nil producer")
	}
	o.conf = conf
	o.producer = producer
	o.done = promise.New[A](conf.sched, nil)
}

func (o *Observable[A]) settings() *config {
	return o.conf
}

// Name returns the name given with [WithName], or a name derived from the operations that created it.
func (o *Observable[A]) Name() string {
	return o.conf.name
}

// Scheduler returns the [scheduler.Scheduler] used by this Observable.
func (o *Observable[A]) Scheduler() scheduler.Scheduler {
	return o.conf.sched
}

// Closed reports whether a terminal event has been delivered.
// A cold Observable, like one created by [Of], is never closed.
func (o *Observable[A]) Closed() bool {
	return o.closed
}

// Active reports whether the [Producer] is currently producing.
func (o *Observable[A]) Active() bool {
	if o.cold {
		return slices.ContainsFunc(o.runs, func(run *Observable[A]) bool {
			return run.active
		})
	}
	return o.active
}

// Observers returns the number of registered observers.
func (o *Observable[A]) Observers() int {
	if o.cold {
		var n int
		for _, run := range o.runs {
			n += len(run.subs)
		}
		return n
	}
	return len(o.subs)
}

// Done returns a [promise.Promise] that is resolved with the last value when this Observable closes, or rejected when it fails.
func (o *Observable[A]) Done() *promise.Promise[A] {
	return o.done
}

// Observe registers obs to receive events.
// If this is the first registration, then activation of the [Producer] is scheduled.
// [ErrClosed] is returned if a terminal event has already been delivered.
func (o *Observable[A]) Observe(obs Observer[A]) (*Subscription, error) {
	if obs == nil {
		panic("nil observer")
	}
	if o.cold {
		return o.observeCold(obs)
	}
	if o.closed {
		return nil, fmt.Errorf("%w: %s", ErrClosed, o.conf.name)
	}
	sub := &Subscription{active: true}
	sub.cancel = func() {
		o.unobserve(sub)
	}
	o.subs = slices.Concat(o.subs, []registration[A]{{sub: sub, obs: obs}})
	o.scheduleActivation()
	if o.replay {
		obs.Value(o.current)
	}
	return sub, nil
}

// observeCold registers obs with a new run of the producer that no other registration shares.
func (o *Observable[A]) observeCold(obs Observer[A]) (*Subscription, error) {
	o.runs = slices.DeleteFunc(o.runs, func(run *Observable[A]) bool {
		return run.closed || len(run.subs) == 0
	})
	run := &Observable[A]{
		conf:     o.conf,
		producer: o.producer,
		// Runs share the Done promise, so it settles with the first run to finish.
		done: o.done,
	}
	sub, err := run.Observe(obs)
	if err != nil {
		return nil, err
	}
	o.runs = append(o.runs, run)
	return sub, nil
}

// Subscribe is like [Observable.Observe], except that it builds a [Funcs] observer from the given callbacks.
// Any of the callbacks may be nil.
// Subscribe panics with [ErrClosed] if a terminal event has already been delivered.
func (o *Observable[A]) Subscribe(onValue func(A), onError func(error), onClose func()) *Subscription {
	sub, err := o.Observe(&Funcs[A]{
		OnValue: onValue,
		OnError: onError,
		OnClose: onClose,
		logger:  o.conf.logger,
		name:    o.conf.name,
	})
	if err != nil {
		panic(err)
	}
	return sub
}

// Unobserve cancels sub. This is the same as calling [Subscription.Cancel].
func (o *Observable[A]) Unobserve(sub *Subscription) {
	sub.Cancel()
}

func (o *Observable[A]) unobserve(sub *Subscription) {
	i := slices.IndexFunc(o.subs, func(reg registration[A]) bool {
		return reg.sub == sub
	})
	if i < 0 {
		return
	}
	// Replaced rather than modified, since a dispatch may be iterating the old slice.
	o.subs = slices.Concat(o.subs[:i], o.subs[i+1:])
	if len(o.subs) == 0 {
		o.release()
	}
}

func (o *Observable[A]) scheduleActivation() {
	if o.active || o.pending {
		return
	}
	o.pending = true
	o.conf.sched.Soon(o.activate)
}

func (o *Observable[A]) activate() {
	o.pending = false
	if o.active || o.closed || len(o.subs) == 0 {
		return
	}
	o.active = true
	o.episode++
	episode := o.episode
	o.conf.hook.Activated(o.conf.name)
	teardown := o.producer(&sink[A]{o: o, episode: episode})
	if o.episode != episode {
		// Production already stopped while the producer was starting.
		if teardown != nil {
			teardown()
		}
		return
	}
	o.teardown = teardown
}

// release stops production, calling the teardown function if there is one.
func (o *Observable[A]) release() {
	if !o.active {
		return
	}
	o.active = false
	o.episode++
	teardown := o.teardown
	o.teardown = nil
	o.conf.hook.TornDown(o.conf.name)
	if teardown != nil {
		teardown()
	}
}

// live reports whether the given episode is still producing. Episode 0 is used by manually driven sinks.
func (o *Observable[A]) live(episode uint64) bool {
	return episode == 0 || episode == o.episode
}

func (o *Observable[A]) emit(val A) {
	o.current = val
	o.conf.hook.Emitted(o.conf.name, KindValue)
	subs := o.subs
	if len(subs) == 0 {
		return
	}
	o.conf.sched.Soon(func() {
		for _, reg := range subs {
			if reg.sub.Active() {
				reg.obs.Value(val)
			}
		}
	})
}

func (o *Observable[A]) finish(episode uint64, err error) {
	kind := KindClose
	if err != nil {
		kind = KindError
	}
	o.conf.hook.Emitted(o.conf.name, kind)
	o.conf.sched.Soon(func() {
		if !o.live(episode) {
			return
		}
		o.terminate(err)
	})
}

func (o *Observable[A]) terminate(err error) {
	subs := o.subs
	o.subs = nil
	o.closed = true
	for _, reg := range subs {
		if !reg.sub.Active() {
			continue
		}
		reg.sub.end()
		if err != nil {
			reg.obs.Error(err)
		} else {
			reg.obs.Close()
		}
	}
	o.release()
	if err != nil {
		_ = o.done.Reject(err)
	} else {
		_ = o.done.Resolve(o.current)
	}
}

var _ Sink[any] = (*sink[any])(nil)

// sink is bound to a single producing episode of an Observable.
type sink[A any] struct {
	o          *Observable[A]
	episode    uint64
	terminated bool
}

func (s *sink[A]) check(op string) bool {
	if s.terminated {
		panic(fmt.Errorf("%w: %s called on '%s'", ErrTerminated, op, s.o.conf.name))
	}
	return s.o.live(s.episode)
}

func (s *sink[A]) Value(val A) {
	if !s.check("Value") {
		return
	}
	s.o.emit(val)
}

func (s *sink[A]) Error(err error) {
	if err == nil {
		panic("nil error")
	}
	if !s.check("Error") {
		return
	}
	s.terminated = true
	s.o.finish(s.episode, err)
}

func (s *sink[A]) Close() {
	if !s.check("Close") {
		return
	}
	s.terminated = true
	s.o.finish(s.episode, nil)
}

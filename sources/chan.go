package sources

import (
	"context"
	"github.com/saylorsolutions/erx"
	"github.com/saylorsolutions/erx/scheduler"
	"iter"
)

// FromChan creates a [erx.Stream] of the values received from ch, closing when ch is closed.
// Each activation starts a goroutine that hands received values to the scheduler.
// Teardown stops the goroutine, and a value it received but hadn't yet delivered is dropped.
func FromChan[A any](ch <-chan A, opts ...erx.Option) *erx.Stream[A] {
	if ch == nil {
		panic("nil channel")
	}
	var s *erx.Stream[A]
	s = erx.NewStream(func(sink erx.Sink[A]) func() {
		sched := s.Scheduler()
		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case val, more := <-ch:
					if !more {
						sched.Soon(sink.Close)
						return
					}
					sched.Soon(func() {
						sink.Value(val)
					})
				}
			}
		}()
		return cancel
	}, named("chan", opts)...)
	return s
}

// Event is a single event delivered by a [Pipe].
type Event[A any] struct {
	Kind  erx.Kind
	Value A
	// Err is only set when Kind is [erx.KindError].
	Err error
}

var _ erx.Observer[any] = (*Pipe[any])(nil)

// Pipe is an [erx.Observer] that delivers events on a channel, so another goroutine can consume a pipeline at its own pace.
// It's buffered without limit by a worker goroutine, so the scheduler is never blocked by a slow consumer.
type Pipe[A any] struct {
	// C receives every event in order, and is closed after a terminal event is received or the Pipe is stopped.
	C       <-chan Event[A]
	sched   scheduler.Scheduler
	sub     *erx.Subscription
	ctx     context.Context
	stop    context.CancelFunc
	recv    chan Event[A]
	disp    chan Event[A]
	stopped chan struct{}
}

// ToChan observes src with a new [Pipe].
// Observation happens on the scheduler, so ToChan is safe to call from any goroutine.
// If src can't be observed, then the error is delivered as the only [Event].
//
// Cancelling ctx has the same effect as calling [Pipe.Stop].
func ToChan[A any](ctx context.Context, sched scheduler.Scheduler, src erx.Source[A]) *Pipe[A] {
	if sched == nil {
		panic("nil scheduler")
	}
	if src == nil {
		panic("nil source")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	p := &Pipe[A]{
		sched:   sched,
		ctx:     ctx,
		stop:    cancel,
		recv:    make(chan Event[A]),
		disp:    make(chan Event[A]),
		stopped: make(chan struct{}),
	}
	p.C = p.disp
	go p.worker()
	sched.Soon(func() {
		if ctx.Err() != nil {
			return
		}
		sub, err := src.Observe(p)
		if err != nil {
			p.Error(err)
			return
		}
		p.sub = sub
	})
	return p
}

func (p *Pipe[A]) worker() {
	defer close(p.stopped)
	defer close(p.disp)
	var pending []Event[A]
	for {
		var (
			out  chan<- Event[A]
			head Event[A]
		)
		if len(pending) > 0 {
			// Only offer the head when there is one, a nil channel is never selected.
			out = p.disp
			head = pending[0]
		}
		select {
		case evt := <-p.recv:
			pending = append(pending, evt)
		case out <- head:
			pending[0] = Event[A]{}
			pending = pending[1:]
			if head.Kind != erx.KindValue {
				p.stop()
				return
			}
		case <-p.ctx.Done():
			p.sched.Soon(func() {
				p.sub.Cancel()
			})
			return
		}
	}
}

func (p *Pipe[A]) send(evt Event[A]) {
	select {
	case p.recv <- evt:
	case <-p.ctx.Done():
	}
}

func (p *Pipe[A]) Value(val A) {
	p.send(Event[A]{Kind: erx.KindValue, Value: val})
}

func (p *Pipe[A]) Error(err error) {
	p.send(Event[A]{Kind: erx.KindError, Err: err})
}

func (p *Pipe[A]) Close() {
	p.send(Event[A]{Kind: erx.KindClose})
}

// Stop cancels the subscription and closes C. Events that haven't been received yet are dropped.
// Stop may be called from any goroutine, any number of times.
func (p *Pipe[A]) Stop() {
	p.stop()
}

// Await blocks until C has been closed.
func (p *Pipe[A]) Await() {
	<-p.stopped
}

// Next blocks until the next value is received, returning it.
// The error from a failed source is returned as-is, and [erx.ErrClosed] is returned once the source closes or the Pipe is stopped.
func (p *Pipe[A]) Next(ctx context.Context) (A, error) {
	var mt A
	if ctx == nil {
		ctx = context.Background()
	}
	select {
	case <-ctx.Done():
		return mt, ctx.Err()
	case evt, more := <-p.C:
		if !more {
			return mt, erx.ErrClosed
		}
		switch evt.Kind {
		case erx.KindValue:
			return evt.Value, nil
		case erx.KindError:
			return mt, evt.Err
		default:
			return mt, erx.ErrClosed
		}
	}
}

// All returns an iterator over the values received, like a generator.
// If the source fails, then the error is yielded last with a zero value.
// Breaking out of the loop stops the Pipe.
func (p *Pipe[A]) All() iter.Seq2[A, error] {
	return func(yield func(A, error) bool) {
		defer p.Stop()
		for evt := range p.C {
			switch evt.Kind {
			case erx.KindValue:
				if !yield(evt.Value, nil) {
					return
				}
			case erx.KindError:
				var mt A
				yield(mt, evt.Err)
				return
			default:
				return
			}
		}
	}
}

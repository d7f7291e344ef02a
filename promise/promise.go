/*
Package promise provides a lightweight deferred value that settles through a [scheduler.Scheduler].

A [Promise] is settled exactly once, either fulfilled with a value or rejected with an error.
Settling a second time fails with [ErrSettled], since it means that a producer kept going past its own result.

Continuations registered with [Then] or [ThenPromise] always run through [scheduler.Scheduler.Soon], even when the [Promise] is already settled.
This means that a caller always has a chance to attach continuations before they can fire.

Code that is not running on the scheduler may block on the result with [Promise.Await].
Calling Await from a callback running on the same scheduler will deadlock, because the scheduler can't make progress while it waits.
*/
package promise

import (
	"context"
	"errors"
	"fmt"
	"github.com/saylorsolutions/erx/internal/try"
	"github.com/saylorsolutions/erx/scheduler"
	"sync"
	"time"
)

var (
	ErrSettled    = errors.New("promise already settled")
	ErrNilPromise = errors.New("continuation returned a nil promise")
)

type state int

const (
	pending state = iota
	fulfilled
	rejected
)

// Resolver is a function that settles a [Promise] by calling either resolve or reject.
type Resolver[A any] func(resolve func(A) error, reject func(error) error)

// Promise is a value that becomes available at a later time.
type Promise[A any] struct {
	sched scheduler.Scheduler

	mux       sync.Mutex
	state     state
	value     A
	err       error
	callbacks []func()
	done      chan struct{}
}

// New creates a pending [Promise].
// If resolver is non-nil, it's called with the scheduler's next opportunity, never synchronously.
func New[A any](sched scheduler.Scheduler, resolver Resolver[A]) *Promise[A] {
	if sched == nil {
		panic("nil scheduler")
	}
	p := &Promise[A]{
		sched: sched,
		done:  make(chan struct{}),
	}
	if resolver != nil {
		sched.Soon(func() {
			resolver(p.Resolve, p.Reject)
		})
	}
	return p
}

// Resolved creates a [Promise] that will be fulfilled with val.
func Resolved[A any](sched scheduler.Scheduler, val A) *Promise[A] {
	return New(sched, func(resolve func(A) error, _ func(error) error) {
		_ = resolve(val)
	})
}

// Rejected creates a [Promise] that will be rejected with err.
func Rejected[A any](sched scheduler.Scheduler, err error) *Promise[A] {
	return New(sched, func(_ func(A) error, reject func(error) error) {
		_ = reject(err)
	})
}

func (p *Promise[A]) settle(st state, val A, err error) error {
	p.mux.Lock()
	if p.state != pending {
		p.mux.Unlock()
		return ErrSettled
	}
	p.state = st
	p.value = val
	p.err = err
	callbacks := p.callbacks
	p.callbacks = nil
	close(p.done)
	p.mux.Unlock()

	for _, cb := range callbacks {
		p.sched.Soon(cb)
	}
	return nil
}

// Resolve fulfills the [Promise] with val.
// [ErrSettled] is returned if the [Promise] was already settled.
func (p *Promise[A]) Resolve(val A) error {
	return p.settle(fulfilled, val, nil)
}

// Reject rejects the [Promise] with err, which must not be nil.
// [ErrSettled] is returned if the [Promise] was already settled.
func (p *Promise[A]) Reject(err error) error {
	if err == nil {
		panic("nil rejection error")
	}
	var mt A
	return p.settle(rejected, mt, err)
}

// Settled reports whether the [Promise] has been fulfilled or rejected.
func (p *Promise[A]) Settled() bool {
	p.mux.Lock()
	defer p.mux.Unlock()
	return p.state != pending
}

// Result returns the settled value and error.
// The last return value is false if the [Promise] is still pending.
func (p *Promise[A]) Result() (A, error, bool) {
	p.mux.Lock()
	defer p.mux.Unlock()
	return p.value, p.err, p.state != pending
}

// onSettle runs fn through the scheduler once the Promise is settled.
func (p *Promise[A]) onSettle(fn func()) {
	p.mux.Lock()
	if p.state == pending {
		p.callbacks = append(p.callbacks, fn)
		p.mux.Unlock()
		return
	}
	p.mux.Unlock()
	p.sched.Soon(fn)
}

// Await blocks until the [Promise] is settled, or until the timeout elapses if specified.
// If the timeout limit is reached, then the zero value is returned along with [context.DeadlineExceeded].
// If no timeout is given, then the function will wait indefinitely.
func (p *Promise[A]) Await(timeout ...time.Duration) (A, error) {
	var (
		ctx    = context.Background()
		cancel = func() {}
	)
	if len(timeout) > 0 {
		ctx, cancel = context.WithTimeout(ctx, timeout[0])
	}
	defer cancel()
	return p.AwaitContext(ctx)
}

// AwaitContext blocks until the [Promise] is settled or the context is done.
func (p *Promise[A]) AwaitContext(ctx context.Context) (A, error) {
	select {
	case <-p.done:
		val, err, _ := p.Result()
		return val, err
	case <-ctx.Done():
		var mt A
		return mt, ctx.Err()
	}
}

// Then creates a [Promise] that is fulfilled with the result of onFulfilled once p is fulfilled.
// If onFulfilled returns an error or panics, then the new [Promise] is rejected.
// If p is rejected, then onRejected is called (if non-nil) and the new [Promise] is rejected with the same error.
func Then[A, B any](p *Promise[A], onFulfilled func(A) (B, error), onRejected func(error)) *Promise[B] {
	if onFulfilled == nil {
		panic("nil continuation")
	}
	next := New[B](p.sched, nil)
	p.onSettle(func() {
		val, err, _ := p.Result()
		if err != nil {
			if onRejected != nil {
				onRejected(err)
			}
			_ = next.Reject(err)
			return
		}
		out, err := try.CallErr(onFulfilled, val)
		if err != nil {
			_ = next.Reject(err)
			return
		}
		_ = next.Resolve(out)
	})
	return next
}

// ThenPromise is like [Then], except that onFulfilled returns another [Promise] that the result will follow.
func ThenPromise[A, B any](p *Promise[A], onFulfilled func(A) *Promise[B], onRejected func(error)) *Promise[B] {
	if onFulfilled == nil {
		panic("nil continuation")
	}
	next := New[B](p.sched, nil)
	p.onSettle(func() {
		val, err, _ := p.Result()
		if err != nil {
			if onRejected != nil {
				onRejected(err)
			}
			_ = next.Reject(err)
			return
		}
		inner, err := try.Call(onFulfilled, val)
		if err != nil {
			_ = next.Reject(err)
			return
		}
		if inner == nil {
			_ = next.Reject(fmt.Errorf("%w: %T", ErrNilPromise, onFulfilled))
			return
		}
		inner.onSettle(func() {
			val, err, _ := inner.Result()
			if err != nil {
				_ = next.Reject(err)
				return
			}
			_ = next.Resolve(val)
		})
	})
	return next
}

// All creates a [Promise] that is fulfilled with every result, in input order, once all inputs are fulfilled.
// It's rejected as soon as any input is rejected. Inputs that are still pending are not affected.
func All[A any](sched scheduler.Scheduler, promises ...*Promise[A]) *Promise[[]A] {
	out := New[[]A](sched, nil)
	if len(promises) == 0 {
		sched.Soon(func() {
			_ = out.Resolve([]A{})
		})
		return out
	}
	var (
		results   = make([]A, len(promises))
		remaining = len(promises)
		failed    bool
	)
	for i, p := range promises {
		p.onSettle(func() {
			if failed {
				return
			}
			val, err, _ := p.Result()
			if err != nil {
				failed = true
				_ = out.Reject(err)
				return
			}
			results[i] = val
			remaining--
			if remaining == 0 {
				_ = out.Resolve(results)
			}
		})
	}
	return out
}

// Sequence is an alias for [All].
func Sequence[A any](sched scheduler.Scheduler, promises ...*Promise[A]) *Promise[[]A] {
	return All(sched, promises...)
}

// Race creates a [Promise] that settles the same way as the first input to settle.
// Later settlements are ignored. A Race with no inputs never settles.
func Race[A any](sched scheduler.Scheduler, promises ...*Promise[A]) *Promise[A] {
	out := New[A](sched, nil)
	for _, p := range promises {
		p.onSettle(func() {
			val, err, _ := p.Result()
			if err != nil {
				_ = out.Reject(err)
				return
			}
			_ = out.Resolve(val)
		})
	}
	return out
}

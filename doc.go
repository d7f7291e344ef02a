/*
Package erx provides push-based reactive streams with lazy activation and deterministic cleanup.

# Observables

Every [Stream], [Signal], [Bus], and [Property] is built on the same [Observable] engine.
An [Observable] wraps a [Producer], which is a function that pushes events into a [Sink] and optionally returns a teardown function.
The [Producer] isn't called when the [Observable] is created, only once the first [Observer] has been registered with [Observable.Observe] or [Observable.Subscribe].

Production stops, and the teardown function is called exactly once, when either of these happens first:
  - The last [Subscription] is cancelled.
  - The [Producer] sends a terminal event with [Sink.Error] or [Sink.Close].

Once a terminal event has been delivered, the [Observable] is closed and further calls to [Observable.Observe] fail with [ErrClosed].
Cold sources like [Of], [FromSeq], and [Wait] are the exception: they run the [Producer] separately for each [Observer], so they never close and may be observed again at any time.
A [Producer] must not use its [Sink] after sending a terminal event, doing so panics with [ErrTerminated].

A [Signal] is an [Observable] that always has a current value.
Every new [Observer] receives the current value synchronously when it's registered, before any live update.

# Scheduling

Events are never delivered synchronously from a [Sink] call.
Delivery and producer activation go through a [scheduler.Scheduler], which runs callbacks one at a time in FIFO order.
The scheduler is chosen with [WithScheduler], and defaults to [scheduler.Default].

Observables are not safe for concurrent use.
All interaction with an [Observable] should happen on the goroutine running its scheduler.
Code on other goroutines should hand work to the scheduler with [scheduler.Scheduler.Soon].

# Combinators

Same-typed operations like [Stream.Filter] and [Stream.Take] are methods.
Operations that change the value type, like [Map] and [Fold], are functions since Go methods can't introduce type parameters.

A combinator doesn't touch its upstream until its result is observed.
When a combinator's result is torn down, it cancels every upstream [Subscription] it holds.

A panic raised by a user function passed to a combinator is recovered and delivered downstream as a [PanicError].
*/
package erx

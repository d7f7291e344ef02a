/*
Package sources adapts things outside of an erx pipeline into [erx.Stream] values, and back out again.

Timing sources like [Interval], [Tick], and [Frames] only rely on the [scheduler.Scheduler] of the Stream, so they run just as well on a [scheduler.Virtual] in tests.

[FromChan] and [Watch] start a goroutine for each activation, which hands values to the scheduler with [scheduler.Scheduler.Soon].
The goroutine is stopped when the Stream is torn down.

[ToChan] goes the other way, delivering the events of a Stream on a channel so a goroutine can consume them at its own pace.
*/
package sources

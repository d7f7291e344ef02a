package erx

import (
	"github.com/saylorsolutions/erx/scheduler"
	"github.com/stretchr/testify/assert"
	"testing"
	"time"
)

func TestStream_Take(t *testing.T) {
	v := scheduler.NewVirtual()
	s := NewStream(func(sink Sink[int]) func() {
		sink.Value(1)
		sink.Value(2)
		sink.Value(3)
		sink.Value(4)
		sink.Close()
		return nil
	}, WithScheduler(v))
	rec := record(t, s.Take(3))
	v.RunUntilIdle()
	assert.Equal(t, []int{1, 2, 3}, rec.values)
	assert.True(t, rec.closed)
}

func TestStream_Take_Counts(t *testing.T) {
	v := scheduler.NewVirtual()
	input := []int{1, 2, 3, 4, 5}
	for n := 0; n <= 7; n++ {
		for m := 0; m <= len(input); m++ {
			rec := record(t, Of(input[:m], WithScheduler(v)).Take(n))
			v.RunUntilIdle()
			assert.Len(t, rec.values, min(n, m), "take(%d) of %d values", n, m)
			assert.True(t, rec.closed, "take(%d) of %d values should close", n, m)
		}
	}
}

func TestStream_Take_Zero(t *testing.T) {
	v := scheduler.NewVirtual()
	var calls int
	s := NewStream(func(sink Sink[int]) func() {
		calls++
		return nil
	}, WithScheduler(v))
	rec := record(t, s.Take(0))
	v.RunUntilIdle()
	assert.Empty(t, rec.values)
	assert.True(t, rec.closed)
	assert.Equal(t, 0, calls, "Take(0) should never observe its upstream")

	assert.Panics(t, func() {
		s.Take(-1)
	})
}

func TestStream_Take_FreesUpstream(t *testing.T) {
	v := scheduler.NewVirtual()
	var teardowns int
	s := NewStream(counter(v, &teardowns), WithScheduler(v))
	rec := record(t, s.Take(3))
	v.RunUntilIdle()
	assert.Equal(t, []int{1, 2, 3}, rec.values)
	assert.Equal(t, 1, teardowns)
	assert.False(t, s.Closed(), "The upstream was torn down before it could close")
}

func TestStream_TakeWhile(t *testing.T) {
	v := scheduler.NewVirtual()
	var teardowns int
	s := NewStream(counter(v, &teardowns), WithScheduler(v))
	rec := record(t, s.TakeWhile(func(i int) bool {
		return i < 4
	}))
	v.RunUntilIdle()
	assert.Equal(t, []int{1, 2, 3}, rec.values)
	assert.True(t, rec.closed)
	assert.Equal(t, 1, teardowns)
}

func TestTakeUntil_SignalNotifier(t *testing.T) {
	v := scheduler.NewVirtual()
	var calls int
	src := NewStream(func(sink Sink[int]) func() {
		calls++
		return nil
	}, WithScheduler(v))
	p := NewProperty(true, WithScheduler(v))
	rec := record(t, TakeUntil(src, p))
	v.RunUntilIdle()
	assert.Empty(t, rec.values)
	assert.True(t, rec.closed, "A replayed notifier value should close the result")
	assert.Equal(t, 0, calls, "The source should be released before it's activated")
	assert.Equal(t, 0, p.Observers())
	assert.Equal(t, 0, src.Observers())
}

func TestTakeUntil(t *testing.T) {
	v := scheduler.NewVirtual()
	c2 := NewBus[string](WithScheduler(v))
	var teardowns int
	c1 := NewStream(func(sink Sink[int]) func() {
		v.Soon(func() { sink.Value(1) })
		v.Soon(func() { sink.Value(2) })
		v.Soon(func() { c2.Push("lol") })
		v.Soon(func() { sink.Value(3) })
		v.Soon(sink.Close)
		return func() {
			teardowns++
		}
	}, WithScheduler(v))
	rec := record(t, TakeUntil(c1, c2))
	v.RunUntilIdle()
	assert.Equal(t, []int{1, 2}, rec.values)
	assert.True(t, rec.closed)
	assert.Equal(t, 1, teardowns)
	assert.Equal(t, 0, c2.Observers())
}

func TestTakeUntil_NotifierEnds(t *testing.T) {
	v := scheduler.NewVirtual()
	src := NewBus[int](WithScheduler(v))
	closing := NewBus[int](WithScheduler(v))
	failing := NewBus[int](WithScheduler(v))
	rec := record(t, TakeUntil(TakeUntil(src, closing), failing))
	v.Flush()
	closing.Close()
	failing.Fail(errTest)
	v.Flush()
	src.Push(1)
	src.Push(2)
	src.Close()
	v.Flush()
	assert.Equal(t, []int{1, 2}, rec.values)
	assert.True(t, rec.closed)
	assert.NoError(t, rec.err)
}

func TestStream_Delay(t *testing.T) {
	v := scheduler.NewVirtual()
	rec := record(t, Of([]int{1, 2, 3}, WithScheduler(v)).Delay(10*time.Millisecond))
	v.Flush()
	assert.Empty(t, rec.values)
	v.Advance(9 * time.Millisecond)
	assert.Empty(t, rec.values)
	v.Advance(time.Millisecond)
	assert.Equal(t, []int{1, 2, 3}, rec.values)
	assert.True(t, rec.closed)
}

func TestStream_Delay_Order(t *testing.T) {
	v := scheduler.NewVirtual()
	b := NewBus[int](WithScheduler(v))
	rec := record(t, b.Delay(10*time.Millisecond))
	v.Flush()
	b.Push(1)
	v.Advance(5 * time.Millisecond)
	b.Push(2)
	b.Fail(errTest)
	v.Advance(5 * time.Millisecond)
	assert.Equal(t, []int{1}, rec.values)
	assert.NoError(t, rec.err)
	v.Advance(5 * time.Millisecond)
	assert.Equal(t, []int{1, 2}, rec.values)
	assert.ErrorIs(t, rec.err, errTest)
}

func TestStream_Delay_FreesUpstream(t *testing.T) {
	v := scheduler.NewVirtual()
	var teardowns int
	s := NewStream(counter(v, &teardowns), WithScheduler(v))
	rec := record(t, s.Delay(5*time.Millisecond))
	v.Flush()
	assert.Equal(t, 1, teardowns)
	assert.Empty(t, rec.values)

	rec.sub.Cancel()
	assert.Zero(t, v.Pending(), "Pending timers should be cancelled on teardown")
	v.RunUntilIdle()
	assert.Empty(t, rec.values)
}

func TestRepeat(t *testing.T) {
	v := scheduler.NewVirtual()
	var created int
	factory := func() *Stream[int] {
		created++
		return NewStream(func(sink Sink[int]) func() {
			sink.Value(1)
			sink.Value(2)
			sink.Value(3)
			sink.Close()
			return nil
		}, WithScheduler(v))
	}
	rec := record(t, Repeat(factory, WithScheduler(v)).Take(9))
	v.RunUntilIdle()
	assert.Equal(t, []int{1, 2, 3, 1, 2, 3, 1, 2, 3}, rec.values)
	assert.True(t, rec.closed)
	assert.Equal(t, 4, created, "The fourth iteration is created before the third one's values are taken")
	assert.Zero(t, v.Pending())
}

func TestRepeat_SameColdSource(t *testing.T) {
	v := scheduler.NewVirtual()
	of := Of([]string{"a", "b"}, WithScheduler(v))
	rec := record(t, Repeat(func() *Stream[string] {
		return of
	}, WithScheduler(v)).Take(5))
	v.RunUntilIdle()
	assert.Equal(t, []string{"a", "b", "a", "b", "a"}, rec.values)
	assert.True(t, rec.closed)
}

func TestRepeat_Error(t *testing.T) {
	v := scheduler.NewVirtual()
	var created int
	rec := record(t, Repeat(func() *Stream[int] {
		created++
		if created == 2 {
			return Fail[int](errTest, WithScheduler(v))
		}
		return Of([]int{created}, WithScheduler(v))
	}, WithScheduler(v)))
	v.RunUntilIdle()
	assert.Equal(t, []int{1}, rec.values)
	assert.ErrorIs(t, rec.err, errTest)
	assert.Equal(t, 2, created, "An error should stop repetition")
}

func TestRepeatFinite(t *testing.T) {
	for n := 0; n <= 3; n++ {
		v := scheduler.NewVirtual()
		var created int
		rec := record(t, RepeatFinite(func() *Stream[int] {
			created++
			return Of([]int{1, 2}, WithScheduler(v))
		}, n, WithScheduler(v)))
		v.RunUntilIdle()
		assert.Equal(t, n, created, "RepeatFinite(%d) should create exactly %d streams", n, n)
		assert.Len(t, rec.values, 2*n)
		assert.True(t, rec.closed)
	}

	assert.Panics(t, func() {
		RepeatFinite(func() *Stream[int] { return nil }, -1)
	})
	assert.Panics(t, func() {
		Repeat[int](nil)
	})
}

package sources

import (
	"context"
	"github.com/saylorsolutions/erx"
	"github.com/saylorsolutions/erx/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

func TestFromChan(t *testing.T) {
	v := scheduler.NewVirtual()
	ch := make(chan int, 3)
	ch <- 1
	ch <- 2
	ch <- 3
	close(ch)
	rec := record(t, FromChan(ch, erx.WithScheduler(v)))
	assert.Eventually(t, func() bool {
		v.Flush()
		return rec.closed
	}, time.Second, time.Millisecond)
	assert.Equal(t, []int{1, 2, 3}, rec.values)
}

func TestFromChan_Teardown(t *testing.T) {
	v := scheduler.NewVirtual()
	ch := make(chan int)
	rec := record(t, FromChan(ch, erx.WithScheduler(v)).Take(1))
	v.Flush()
	ch <- 1
	assert.Eventually(t, func() bool {
		v.Flush()
		return rec.closed
	}, time.Second, time.Millisecond)
	assert.Equal(t, []int{1}, rec.values)

	// Give the reader a moment to notice that it's been stopped.
	time.Sleep(20 * time.Millisecond)
	select {
	case ch <- 2:
		t.Error("The reader goroutine should have stopped")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestFromChan_Loop(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	loop := scheduler.NewLoop()
	go func() {
		_ = loop.Run(ctx)
	}()

	ch := make(chan int)
	go func() {
		defer close(ch)
		for i := range 5 {
			ch <- i
		}
	}()
	pipe := ToChan(ctx, loop, erx.Map(FromChan(ch, erx.WithScheduler(loop)), func(i int) int {
		return i * i
	}))
	var got []int
	for val, err := range pipe.All() {
		require.NoError(t, err)
		got = append(got, val)
	}
	assert.Equal(t, []int{0, 1, 4, 9, 16}, got)
}

func TestToChan(t *testing.T) {
	v := scheduler.NewVirtual()
	pipe := ToChan(context.Background(), v, erx.Of([]int{1, 2, 3}, erx.WithScheduler(v)))
	v.RunUntilIdle()
	for _, expected := range []int{1, 2, 3} {
		val, err := pipe.Next(context.Background())
		require.NoError(t, err)
		assert.Equal(t, expected, val)
	}
	_, err := pipe.Next(context.Background())
	assert.ErrorIs(t, err, erx.ErrClosed)
	_, err = pipe.Next(context.Background())
	assert.ErrorIs(t, err, erx.ErrClosed, "Next should keep reporting that the Pipe is closed")
	pipe.Await()
}

func TestToChan_Error(t *testing.T) {
	v := scheduler.NewVirtual()
	pipe := ToChan(context.Background(), v, erx.Fail[int](errTest, erx.WithScheduler(v)))
	v.RunUntilIdle()
	_, err := pipe.Next(context.Background())
	assert.ErrorIs(t, err, errTest)
}

func TestToChan_Closed(t *testing.T) {
	v := scheduler.NewVirtual()
	bus := erx.NewBus[int](erx.WithScheduler(v))
	bus.Close()
	pipe := ToChan(context.Background(), v, bus)
	v.RunUntilIdle()
	_, err := pipe.Next(context.Background())
	assert.ErrorIs(t, err, erx.ErrClosed)
}

func TestPipe_Stop(t *testing.T) {
	v := scheduler.NewVirtual()
	bus := erx.NewBus[int](erx.WithScheduler(v))
	pipe := ToChan(context.Background(), v, bus)
	v.Flush()
	assert.Equal(t, 1, bus.Observers())

	pipe.Stop()
	pipe.Await()
	v.Flush()
	assert.Equal(t, 0, bus.Observers(), "Stopping the Pipe should cancel its subscription")
	_, err := pipe.Next(context.Background())
	assert.ErrorIs(t, err, erx.ErrClosed)
}

func TestPipe_Next_Context(t *testing.T) {
	v := scheduler.NewVirtual()
	pipe := ToChan(context.Background(), v, erx.NewBus[int](erx.WithScheduler(v)))
	defer pipe.Stop()
	v.Flush()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := pipe.Next(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPipe_All(t *testing.T) {
	v := scheduler.NewVirtual()
	pipe := ToChan(context.Background(), v, erx.Of([]int{1, 2, 3, 4, 5}, erx.WithScheduler(v)))
	v.RunUntilIdle()
	var got []int
	for val, err := range pipe.All() {
		require.NoError(t, err)
		got = append(got, val)
		if val == 2 {
			break
		}
	}
	assert.Equal(t, []int{1, 2}, got)
	pipe.Await()

	pipe = ToChan(context.Background(), v, erx.Fail[int](errTest, erx.WithScheduler(v)))
	v.RunUntilIdle()
	var errs []error
	for _, err := range pipe.All() {
		errs = append(errs, err)
	}
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], errTest)
}

package erx

import (
	"github.com/saylorsolutions/erx/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestBus_Push(t *testing.T) {
	v := scheduler.NewVirtual()
	b := NewBus[string](WithScheduler(v))
	b.Push("dropped")
	rec := record(t, b)
	b.Push("o")
	b.Push("m")
	b.Push("g")
	b.Close()
	v.Flush()
	assert.Equal(t, []string{"o", "m", "g"}, rec.values)
	assert.True(t, rec.closed)
	assert.True(t, b.Closed())

	assert.NotPanics(t, func() {
		b.Push("late")
		b.Close()
		b.Fail(errTest)
	}, "A finished Bus should ignore further use")
	_, err := b.Observe(&Funcs[string]{})
	assert.ErrorIs(t, err, ErrClosed)
}

func TestBus_NoObservers(t *testing.T) {
	v := scheduler.NewVirtual()
	b := NewBus[int](WithScheduler(v))
	rec := record(t, b)
	v.Flush()
	rec.sub.Cancel()
	b.Push(1)
	rec2 := record(t, b)
	v.Flush()
	assert.Empty(t, rec.values)
	assert.Empty(t, rec2.values, "Values pushed without observers should not be buffered")
}

func TestBus_Fail(t *testing.T) {
	v := scheduler.NewVirtual()
	b := NewBus[int](WithScheduler(v))
	rec := record(t, b)
	b.Fail(errTest)
	v.Flush()
	assert.ErrorIs(t, rec.err, errTest)
	_, err, ok := b.Done().Result()
	require.True(t, ok)
	assert.ErrorIs(t, err, errTest)
}

func TestBus_Pipe(t *testing.T) {
	v := scheduler.NewVirtual()
	b := NewBus[int](WithScheduler(v))
	rec := record(t, b)
	_, err := b.Pipe(Of([]int{1, 2, 3}, WithScheduler(v)))
	require.NoError(t, err)
	v.RunUntilIdle()
	assert.Equal(t, []int{1, 2, 3}, rec.values)
	assert.False(t, rec.closed, "Closing the piped source should not close the Bus")

	_, err = b.Pipe(Fail[int](errTest, WithScheduler(v)))
	require.NoError(t, err)
	v.RunUntilIdle()
	assert.ErrorIs(t, rec.err, errTest)
}

func TestProperty_Set(t *testing.T) {
	v := scheduler.NewVirtual()
	p := NewProperty("lol", WithScheduler(v))
	p.Set("ignored")
	assert.Equal(t, "lol", p.Value(), "Setting without observers should not change the value")

	rec := record(t, p)
	assert.Equal(t, []string{"lol"}, rec.values, "The current value should be replayed synchronously")
	p.Set("o")
	p.Set("m")
	p.Set("g")
	assert.Equal(t, "g", p.Value())
	p.Close()
	v.Flush()
	assert.Equal(t, []string{"lol", "o", "m", "g"}, rec.values)
	assert.True(t, rec.closed)

	val, err, ok := p.Done().Result()
	require.True(t, ok)
	assert.NoError(t, err)
	assert.Equal(t, "g", val)
}

func TestSignal_Replay(t *testing.T) {
	v := scheduler.NewVirtual()
	s := NewSignal(5, func(sink Sink[int]) func() {
		sink.Value(6)
		return nil
	}, WithScheduler(v))
	assert.Equal(t, 5, s.Value())
	first := record(t, s)
	assert.Equal(t, []int{5}, first.values)
	v.Flush()
	assert.Equal(t, []int{5, 6}, first.values)
	assert.Equal(t, 6, s.Value())

	late := record(t, s)
	v.Flush()
	assert.Equal(t, []int{6}, late.values, "A late observer should only see the current value")
}

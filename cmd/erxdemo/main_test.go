package main

import (
	"bytes"
	"context"
	"github.com/saylorsolutions/erx"
	"github.com/saylorsolutions/erx/scheduler"
	flag "github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"strings"
	"testing"
	"time"
)

func TestRun_Tick(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var out, errOut bytes.Buffer
	err := run(ctx, []string{"--metrics", "tick", "--every", "1ms", "--count", "4"}, &out, &errOut)
	require.NoError(t, err)
	assert.Equal(t, "sum: 0\nsum: 0\nsum: 1\nsum: 3\nsum: 6\n", out.String())
	assert.Contains(t, errOut.String(), "erx.activations{erx.observable=tick} 1")
	assert.Contains(t, errOut.String(), "erx.events{erx.kind=close,erx.observable=fold(take(tick))} 1")
}

func TestRun_Trace(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var out, errOut bytes.Buffer
	err := run(ctx, []string{"--trace", "tick", "--every", "1ms", "--count", "1"}, &out, &errOut)
	require.NoError(t, err)
	assert.Contains(t, errOut.String(), "Observable activated")
	assert.Contains(t, errOut.String(), "observable=tick")
}

func TestRun_Usage(t *testing.T) {
	var out, errOut bytes.Buffer
	err := run(context.Background(), nil, &out, &errOut)
	assert.ErrorIs(t, err, ErrUsage)
	assert.Contains(t, errOut.String(), "COMMANDS")

	errOut.Reset()
	err = run(context.Background(), []string{"--help"}, &out, &errOut)
	assert.ErrorIs(t, err, flag.ErrHelp)
	assert.Contains(t, errOut.String(), "--trace")

	err = run(context.Background(), []string{"nope"}, &out, &errOut)
	assert.ErrorIs(t, err, ErrUnknownCommand)

	err = run(context.Background(), []string{"tick", "--every", "0s"}, &out, &errOut)
	assert.ErrorIs(t, err, ErrUsage)

	err = run(context.Background(), []string{"watch"}, &out, &errOut)
	assert.ErrorIs(t, err, ErrUsage)
	assert.Empty(t, out.String())
}

func TestKeyPresses(t *testing.T) {
	v := scheduler.NewVirtual()
	keys := erx.NewBus[rune](erx.WithScheduler(v))
	var got []keyPress
	var closed bool
	keyPresses(keys).Subscribe(func(press keyPress) {
		got = append(got, press)
	}, nil, func() {
		closed = true
	})
	v.Flush()
	readKeys(strings.NewReader("aa\tb a q z"), v, keys)
	v.RunUntilIdle()
	assert.Equal(t, []keyPress{
		{1, 'a'},
		{2, 'b'},
		{3, ' '},
		{4, 'a'},
		{5, ' '},
	}, got)
	assert.True(t, closed)
}

func TestEnvDefaults(t *testing.T) {
	t.Setenv(envTrace, " Yes ")
	t.Setenv(envMetrics, "maybe")
	t.Setenv(envTickEvery, "5ms")
	assert.True(t, envBool(envTrace, false))
	assert.True(t, envBool(envMetrics, true))
	assert.False(t, envBool(envMetrics, false))
	assert.Equal(t, 5*time.Millisecond, envDuration(envTickEvery, time.Second))

	t.Setenv(envTickEvery, "-1s")
	assert.Equal(t, time.Second, envDuration(envTickEvery, time.Second))
}

func TestWatchInterrupts(t *testing.T) {
	t.Run("Second signal exits", func(t *testing.T) {
		sigs := make(chan os.Signal, 1)
		done := make(chan struct{})
		cancelled := make(chan struct{})
		exited := make(chan struct{})
		go watchInterrupts(sigs, done, func() {
			close(cancelled)
		}, func() {
			close(exited)
		})
		sigs <- os.Interrupt
		select {
		case <-cancelled:
		case <-time.After(time.Second):
			t.Fatal("First signal should cancel")
		}
		sigs <- os.Interrupt
		select {
		case <-exited:
		case <-time.After(time.Second):
			t.Fatal("Second signal should exit")
		}
	})
	t.Run("Stops after done is closed", func(t *testing.T) {
		sigs := make(chan os.Signal, 1)
		done := make(chan struct{})
		returned := make(chan struct{})
		var cancels int
		go func() {
			defer close(returned)
			watchInterrupts(sigs, done, func() {
				cancels++
			}, func() {
				t.Error("Should not exit once done is closed")
			})
		}()
		sigs <- os.Interrupt
		close(done)
		select {
		case <-returned:
		case <-time.After(time.Second):
			t.Fatal("Should return once done is closed")
		}
		assert.LessOrEqual(t, cancels, 1)
	})
}

func TestInterruptContext_Stop(t *testing.T) {
	ctx, stop := interruptContext(context.Background())
	stop()
	stop()
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}

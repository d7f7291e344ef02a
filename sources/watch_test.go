package sources

import (
	"context"
	"fmt"
	"github.com/fsnotify/fsnotify"
	"github.com/saylorsolutions/erx"
	"github.com/saylorsolutions/erx/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	loop := scheduler.NewLoop()
	go func() {
		_ = loop.Run(ctx)
	}()

	watch, err := Watch([]string{dir}, erx.WithScheduler(loop))
	require.NoError(t, err)
	pipe := ToChan(ctx, loop, watch.Filter(func(event fsnotify.Event) bool {
		return event.Has(fsnotify.Create)
	}))

	// Activation is asynchronous, so keep creating files until one is noticed.
	writing, stopWriting := context.WithCancel(ctx)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for i := 0; writing.Err() == nil; i++ {
			_ = os.WriteFile(filepath.Join(dir, fmt.Sprintf("%d.txt", i)), []byte("lol"), 0600)
			time.Sleep(10 * time.Millisecond)
		}
	}()
	event, err := pipe.Next(ctx)
	stopWriting()
	<-writerDone
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(event.Name, dir), "Unexpected event path '%s'", event.Name)
	assert.True(t, strings.HasSuffix(event.Name, ".txt"))

	pipe.Stop()
	pipe.Await()
}

func TestWatch_Invalid(t *testing.T) {
	_, err := Watch(nil)
	assert.ErrorIs(t, err, erx.ErrEmptyInput)

	_, err = Watch([]string{filepath.Join(t.TempDir(), "missing")})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

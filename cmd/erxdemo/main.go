// Command erxdemo runs small erx pipelines against a real event loop.
//
// Usage:
//
//	erxdemo [--trace] [--metrics] COMMAND [FLAGS...] [ARGS...]
//
// Commands:
//
//	keys   Echoes distinct key presses until q is pressed.
//	tick   Sums a counter that ticks at a fixed interval.
//	watch  Prints file system events for the given paths.
//
// Interrupting once stops the running pipeline, and interrupting again exits immediately.
package main

import (
	"context"
	"errors"
	"fmt"
	flag "github.com/spf13/pflag"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

func main() {
	ctx, stop := interruptContext(context.Background())
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		_, _ = fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// interruptContext is cancelled on the first interrupt, and exits the process on the second.
func interruptContext(parent context.Context) (context.Context, func()) {
	ctx, cancel := context.WithCancel(parent)
	sigs := make(chan os.Signal, 1)
	done := make(chan struct{})
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	go watchInterrupts(sigs, done, cancel, func() {
		os.Exit(1)
	})
	var once sync.Once
	return ctx, func() {
		once.Do(func() {
			signal.Stop(sigs)
			close(done)
			cancel()
		})
	}
}

// watchInterrupts calls cancel on the first signal and exit on the second. It returns early once done is closed.
func watchInterrupts(sigs <-chan os.Signal, done <-chan struct{}, cancel, exit func()) {
	select {
	case <-sigs:
	case <-done:
		return
	}
	cancel()
	select {
	case <-sigs:
		exit()
	case <-done:
	}
}

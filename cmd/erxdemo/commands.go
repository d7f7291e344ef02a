package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"github.com/fsnotify/fsnotify"
	"github.com/saylorsolutions/erx"
	"github.com/saylorsolutions/erx/scheduler"
	"github.com/saylorsolutions/erx/sources"
	"golang.org/x/term"
	"io"
	"os"
	"time"
	"unicode"
)

const ctrlC = 0x03

type keyPress struct {
	count int
	key   rune
}

// keyPresses numbers each distinct printable key, stopping at q or Ctrl+C.
func keyPresses(keys *erx.Bus[rune]) *erx.Stream[keyPress] {
	printable := keys.TakeWhile(func(r rune) bool {
		return r != 'q' && r != ctrlC
	}).Filter(unicode.IsPrint)
	return erx.Scan(erx.Distinct(printable), func(acc keyPress, r rune) keyPress {
		return keyPress{count: acc.count + 1, key: r}
	}, keyPress{})
}

// readKeys pushes each rune read from r into keys on sched, until r returns an error.
func readKeys(r io.Reader, sched scheduler.Scheduler, keys *erx.Bus[rune]) {
	reader := bufio.NewReader(r)
	for {
		key, _, err := reader.ReadRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				sched.Soon(keys.Close)
				return
			}
			sched.Soon(func() {
				keys.Fail(err)
			})
			return
		}
		sched.Soon(func() {
			keys.Push(key)
		})
	}
}

func keysCommand(ctx context.Context, d *demo, args []string) error {
	fs := newFlags("keys", d.errOut)
	if err := fs.Parse(args); err != nil {
		return err
	}
	newline := "\n"
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		state, err := term.MakeRaw(fd)
		if err != nil {
			return fmt.Errorf("failed to put the terminal in raw mode: %w", err)
		}
		defer func() {
			_ = term.Restore(fd, state)
		}()
		newline = "\r\n"
	}
	keys := erx.NewBus[rune](d.options("keys")...)
	go readKeys(os.Stdin, d.loop, keys)
	if err := d.printf("Press keys to echo them, or q to quit.%s", newline); err != nil {
		return err
	}
	return drain(ctx, d, keyPresses(keys), func(press keyPress) error {
		return d.printf("%d: %q%s", press.count, press.key, newline)
	})
}

func tickCommand(ctx context.Context, d *demo, args []string) error {
	fs := newFlags("tick", d.errOut)
	every := fs.Duration("every", envDuration(envTickEvery, 200*time.Millisecond), "Time between ticks")
	count := fs.Int("count", 10, "Number of ticks, or 0 to tick until interrupted")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *every <= 0 {
		return fmt.Errorf("%w: --every must be positive", ErrUsage)
	}
	if *count < 0 {
		return fmt.Errorf("%w: --count must not be negative", ErrUsage)
	}
	ticks := sources.Tick(*every, d.options("tick")...)
	if *count > 0 {
		ticks = ticks.Take(*count)
	}
	sum := erx.Fold(ticks, func(acc, n int) int {
		return acc + n
	}, 0)
	return drain(ctx, d, sum, func(total int) error {
		return d.printf("sum: %d\n", total)
	})
}

func watchCommand(ctx context.Context, d *demo, args []string) error {
	fs := newFlags("watch", d.errOut)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("%w: at least one path is required", ErrUsage)
	}
	events, err := sources.Watch(fs.Args(), d.options("watch")...)
	if err != nil {
		return err
	}
	lines := erx.Distinct(erx.Map(events, func(event fsnotify.Event) string {
		return event.Op.String() + " " + event.Name
	}))
	return drain(ctx, d, lines, func(line string) error {
		return d.printf("%s\n", line)
	})
}

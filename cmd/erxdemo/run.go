package main

import (
	"context"
	"errors"
	"fmt"
	"github.com/saylorsolutions/erx"
	"github.com/saylorsolutions/erx/otelhook"
	"github.com/saylorsolutions/erx/scheduler"
	"github.com/saylorsolutions/erx/sources"
	flag "github.com/spf13/pflag"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"golang.org/x/sync/errgroup"
	"io"
	"log/slog"
	"slices"
	"strings"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrUsage          = errors.New("usage error")
)

type command struct {
	name       string
	shortUsage string
	run        func(ctx context.Context, d *demo, args []string) error
}

var commands = []command{
	{"keys", "Echoes distinct key presses until q is pressed", keysCommand},
	{"tick", "Sums a counter that ticks at a fixed interval", tickCommand},
	{"watch", "Prints file system events for the given paths", watchCommand},
}

// demo is the environment shared by every command.
type demo struct {
	out    io.Writer
	errOut io.Writer
	loop   *scheduler.Loop
	logger *slog.Logger
	hook   erx.Hook
}

// options configures an observable to run on the demo's loop.
func (d *demo) options(name string) []erx.Option {
	return []erx.Option{
		erx.WithScheduler(d.loop),
		erx.WithHook(d.hook),
		erx.WithLogger(d.logger),
		erx.WithName(name),
	}
}

func (d *demo) printf(format string, args ...any) error {
	_, err := fmt.Fprintf(d.out, format, args...)
	return err
}

// newFlags creates a flag set that stops parsing at the first argument.
func newFlags(name string, errOut io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.SetInterspersed(false)
	return fs
}

func usage(w io.Writer, fs *flag.FlagSet) {
	var buf strings.Builder
	buf.WriteString("USAGE:\nerxdemo [FLAGS...] COMMAND [FLAGS...] [ARGS...]\n\nFLAGS\n")
	buf.WriteString(fs.FlagUsages())
	buf.WriteString("\nCOMMANDS\n")
	for _, cmd := range commands {
		buf.WriteString(fmt.Sprintf("  %-6s\t%s\n", cmd.name, cmd.shortUsage))
	}
	_, _ = fmt.Fprint(w, buf.String())
}

func run(ctx context.Context, args []string, out, errOut io.Writer) error {
	global := newFlags("erxdemo", errOut)
	trace := global.Bool("trace", envBool(envTrace, false), "Logs observable lifecycle events at debug level")
	metrics := global.Bool("metrics", envBool(envMetrics, false), "Prints observable metrics on exit")
	global.Usage = func() {
		usage(errOut, global)
	}
	if err := global.Parse(args); err != nil {
		return err
	}
	args = global.Args()
	if len(args) == 0 {
		global.Usage()
		return fmt.Errorf("%w: no command given", ErrUsage)
	}
	i := slices.IndexFunc(commands, func(cmd command) bool {
		return cmd.name == strings.ToLower(args[0])
	})
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, args[0])
	}

	d := &demo{
		out:    out,
		errOut: errOut,
		loop:   scheduler.NewLoop(),
		logger: slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: slog.LevelDebug})),
	}
	var hooks []erx.Hook
	if *trace {
		hooks = append(hooks, erx.NewLogHook(d.logger, slog.LevelDebug))
	}
	if *metrics {
		reader := sdkmetric.NewManualReader()
		provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
		defer func() {
			_ = provider.Shutdown(context.Background())
		}()
		hook, err := otelhook.New(provider.Meter("erxdemo"))
		if err != nil {
			return err
		}
		hooks = append(hooks, hook)
		defer func() {
			if err := printMetrics(errOut, reader); err != nil {
				d.logger.Error("Failed to print metrics", "error", err)
			}
		}()
	}
	d.hook = erx.JoinHooks(hooks...)
	return commands[i].run(ctx, d, args[1:])
}

// drain runs the demo's loop until src ends or ctx is cancelled, calling each with every value on the calling goroutine.
func drain[A any](ctx context.Context, d *demo, src erx.Source[A], each func(A) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		err := d.loop.Run(groupCtx)
		if errors.Is(err, context.Canceled) {
			// Stopped by the consumer finishing, or by an interrupt.
			return nil
		}
		return err
	})
	group.Go(func() error {
		defer cancel()
		pipe := sources.ToChan(groupCtx, d.loop, src)
		for val, err := range pipe.All() {
			if err != nil {
				return err
			}
			if err := each(val); err != nil {
				return err
			}
		}
		return nil
	})
	return group.Wait()
}

func printMetrics(w io.Writer, reader sdkmetric.Reader) error {
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		return err
	}
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, point := range sum.DataPoints {
				if _, err := fmt.Fprintf(w, "%s{%s} %d\n", m.Name, point.Attributes.Encoded(attribute.DefaultEncoder()), point.Value); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

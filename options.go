package erx

import (
	"errors"
	"fmt"
	"github.com/saylorsolutions/erx/scheduler"
	"log/slog"
)

type config struct {
	sched  scheduler.Scheduler
	hook   Hook
	logger *slog.Logger
	name   string
}

// Option configures an [Observable] at construction.
// Constructors panic with [ErrInvalidOption] if an Option returns an error.
type Option func(conf *config) error

// WithScheduler sets the [scheduler.Scheduler] used for activation and event delivery.
func WithScheduler(sched scheduler.Scheduler) Option {
	return func(conf *config) error {
		if sched == nil {
			return errors.New("nil scheduler")
		}
		conf.sched = sched
		return nil
	}
}

// WithHook sets a [Hook] to be notified of lifecycle events.
func WithHook(hook Hook) Option {
	return func(conf *config) error {
		if hook == nil {
			return errors.New("nil hook")
		}
		conf.hook = hook
		return nil
	}
}

// WithLogger sets the logger used to report unhandled errors.
func WithLogger(logger *slog.Logger) Option {
	return func(conf *config) error {
		if logger == nil {
			return errors.New("nil logger")
		}
		conf.logger = logger
		return nil
	}
}

// WithName sets the name reported to a [Hook] and in log messages.
func WithName(name string) Option {
	return func(conf *config) error {
		if len(name) == 0 {
			return errors.New("empty name")
		}
		conf.name = name
		return nil
	}
}

func newConfig(defaultName string, opts []Option) *config {
	conf := &config{name: defaultName}
	for _, opt := range opts {
		if err := opt(conf); err != nil {
			panic(fmt.Errorf("%w: %w", ErrInvalidOption, err))
		}
	}
	if conf.sched == nil {
		conf.sched = scheduler.Default()
	}
	if conf.hook == nil {
		conf.hook = NopHook{}
	}
	if conf.logger == nil {
		conf.logger = slog.Default()
	}
	return conf
}

// derive creates a config for a combinator result, named for the operation and its upstream.
func (c *config) derive(op string) *config {
	return &config{
		sched:  c.sched,
		hook:   c.hook,
		logger: c.logger,
		name:   fmt.Sprintf("%s(%s)", op, c.name),
	}
}

type configured interface {
	settings() *config
}

// configOf returns the config of src if it's backed by an [Observable], otherwise a default config.
func configOf(src any) *config {
	if c, ok := src.(configured); ok {
		return c.settings()
	}
	return newConfig("source", nil)
}

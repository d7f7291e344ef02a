package erx

import (
	"context"
	"log/slog"
)

// Kind identifies the type of event passed through a [Sink].
type Kind int

const (
	KindValue Kind = iota
	KindError
	KindClose
)

func (k Kind) String() string {
	switch k {
	case KindValue:
		return "value"
	case KindError:
		return "error"
	case KindClose:
		return "close"
	default:
		return "unknown"
	}
}

// Hook is notified of an [Observable]'s lifecycle, which is useful for tracing and metrics.
// Hook methods are called on the scheduler goroutine and should return quickly.
type Hook interface {
	// Activated is called just before the Producer is called.
	Activated(name string)
	// TornDown is called when production stops, just before the teardown function is called.
	TornDown(name string)
	// Emitted is called when the Producer sends an event.
	Emitted(name string, kind Kind)
}

var _ Hook = NopHook{}

// NopHook is the default [Hook], which does nothing.
type NopHook struct{}

func (NopHook) Activated(string)     {}
func (NopHook) TornDown(string)      {}
func (NopHook) Emitted(string, Kind) {}

var _ Hook = (*LogHook)(nil)

// LogHook is a [Hook] that logs every lifecycle event at a fixed level.
type LogHook struct {
	logger *slog.Logger
	level  slog.Level
}

// NewLogHook creates a [LogHook]. If logger is nil, then [slog.Default] is used.
func NewLogHook(logger *slog.Logger, level slog.Level) *LogHook {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogHook{
		logger: logger,
		level:  level,
	}
}

func (h *LogHook) Activated(name string) {
	h.logger.Log(context.Background(), h.level, "Observable activated", "observable", name)
}

func (h *LogHook) TornDown(name string) {
	h.logger.Log(context.Background(), h.level, "Observable torn down", "observable", name)
}

func (h *LogHook) Emitted(name string, kind Kind) {
	h.logger.Log(context.Background(), h.level, "Observable emitted", "observable", name, "kind", kind.String())
}

type hooks []Hook

// JoinHooks creates a [Hook] that notifies each of the given hooks in order.
// Nil hooks are ignored, and [NopHook] is returned if none are left.
func JoinHooks(all ...Hook) Hook {
	var joined hooks
	for _, hook := range all {
		if hook != nil {
			joined = append(joined, hook)
		}
	}
	switch len(joined) {
	case 0:
		return NopHook{}
	case 1:
		return joined[0]
	default:
		return joined
	}
}

func (hs hooks) Activated(name string) {
	for _, h := range hs {
		h.Activated(name)
	}
}

func (hs hooks) TornDown(name string) {
	for _, h := range hs {
		h.TornDown(name)
	}
}

func (hs hooks) Emitted(name string, kind Kind) {
	for _, h := range hs {
		h.Emitted(name, kind)
	}
}

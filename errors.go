package erx

import (
	"errors"
	"github.com/saylorsolutions/erx/internal/try"
)

var (
	ErrClosed        = errors.New("observable is closed")
	ErrTerminated    = errors.New("sink used after a terminal event")
	ErrEmptyInput    = errors.New("empty input")
	ErrInvalidOption = errors.New("invalid option")
)

// PanicError is delivered as an error event when a function passed to a combinator panics.
// If the recovered value is an error, then it's available with [errors.Unwrap], [errors.Is], and [errors.As].
type PanicError = try.PanicError

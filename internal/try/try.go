package try

import (
	"errors"
	"fmt"
)

// PanicError holds a value recovered from a panic.
type PanicError struct {
	Value any
}

func (e PanicError) Error() string {
	return fmt.Sprintf("recovered from panic: %v", e.Value)
}

// Unwrap returns the recovered value if it was an error, otherwise nil.
func (e PanicError) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}

// Recover must be deferred. It converts a panic into a [PanicError], joining it with any error already set.
func Recover(err *error) {
	r := recover()
	if r == nil {
		return
	}
	perr := PanicError{Value: r}
	if *err == nil {
		*err = perr
		return
	}
	*err = errors.Join(*err, perr)
}

// Call invokes fn with val, converting a panic into an error.
func Call[A, B any](fn func(A) B, val A) (out B, err error) {
	defer Recover(&err)
	out = fn(val)
	return out, nil
}

// Call2 invokes fn with a and b, converting a panic into an error.
func Call2[A, B, C any](fn func(A, B) C, a A, b B) (out C, err error) {
	defer Recover(&err)
	out = fn(a, b)
	return out, nil
}

// CallErr invokes fn with val, converting a panic into an error alongside the error fn may return.
func CallErr[A, B any](fn func(A) (B, error), val A) (out B, err error) {
	defer Recover(&err)
	return fn(val)
}

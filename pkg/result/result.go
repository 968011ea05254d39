// Package result provides Result, a value that is either a success (Ok)
// carrying a T or a failure (Err) carrying an E.
//
// Use cases return Result instead of (T, error) so that expected domain
// failures are ordinary values and callers compose them with Map, AndThen
// and Fold. The zero Result is neither Ok nor Err and is treated as a
// programming error wherever it is observed.
package result

import "fmt"

type tag uint8

const (
	tagInvalid tag = iota
	tagOk
	tagErr
)

// Result is exactly one of Ok(value) or Err(error). It is immutable.
type Result[T, E any] struct {
	value T
	err   E
	tag   tag
}

// Ok creates a successful result.
func Ok[T, E any](value T) Result[T, E] {
	return Result[T, E]{value: value, tag: tagOk}
}

// Err creates a failed result.
func Err[T, E any](err E) Result[T, E] {
	return Result[T, E]{err: err, tag: tagErr}
}

// IsOk reports whether the result is Ok.
func (r Result[T, E]) IsOk() bool { return r.tag == tagOk }

// IsErr reports whether the result is Err.
func (r Result[T, E]) IsErr() bool { return r.tag == tagErr }

// IsValid reports whether the result was built by Ok or Err.
func (r Result[T, E]) IsValid() bool { return r.tag != tagInvalid }

// Value returns the success value and true, or the zero T and false.
func (r Result[T, E]) Value() (T, bool) {
	return r.value, r.tag == tagOk
}

// Error returns the failure value and true, or the zero E and false.
func (r Result[T, E]) Error() (E, bool) {
	return r.err, r.tag == tagErr
}

// Unwrap returns the success value. It panics with *UnwrapError on Err.
func (r Result[T, E]) Unwrap() T {
	if r.tag != tagOk {
		panic(r.unwrapError("called Unwrap on"))
	}
	return r.value
}

// Expect returns the success value. It panics with *UnwrapError carrying
// msg on Err.
func (r Result[T, E]) Expect(msg string) T {
	if r.tag != tagOk {
		panic(r.unwrapError(msg + ":"))
	}
	return r.value
}

// UnwrapErr returns the failure value. It panics with *UnwrapError on Ok.
func (r Result[T, E]) UnwrapErr() E {
	if r.tag != tagErr {
		panic(r.unwrapError("called UnwrapErr on"))
	}
	return r.err
}

// UnwrapOr returns the success value or def.
func (r Result[T, E]) UnwrapOr(def T) T {
	if r.tag == tagOk {
		return r.value
	}
	return def
}

// UnwrapOrElse returns the success value or computes one from the error.
// On an invalid result fn receives the zero E.
func (r Result[T, E]) UnwrapOrElse(fn func(E) T) T {
	if r.tag == tagOk {
		return r.value
	}
	return fn(r.err)
}

// String renders Ok(v), Err(e) or Invalid.
func (r Result[T, E]) String() string {
	switch r.tag {
	case tagOk:
		return fmt.Sprintf("Ok(%v)", r.value)
	case tagErr:
		return fmt.Sprintf("Err(%v)", r.err)
	default:
		return "Invalid"
	}
}

func (r Result[T, E]) unwrapError(prefix string) *UnwrapError {
	ue := &UnwrapError{Message: prefix + " " + r.state()}
	switch r.tag {
	case tagOk:
		ue.Value = r.value
	case tagErr:
		ue.Value = r.err
	}
	return ue
}

func (r Result[T, E]) state() string {
	switch r.tag {
	case tagOk:
		return "Ok"
	case tagErr:
		return "Err"
	default:
		return "invalid result"
	}
}

// UnwrapError is the panic value raised when a result is unwrapped on the
// wrong branch.
type UnwrapError struct {
	Message string
	// Value is the payload of the branch that was present.
	Value any
}

func (e *UnwrapError) Error() string {
	if e.Value == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Value)
}

// Unwrap exposes the carried error so errors.As can reach it.
func (e *UnwrapError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// Package usecase provides the base that every application use case runs
// through. It normalizes outcomes into result.Result values: explicit
// failures pass through, panics become internal errors, and a missing
// result is reported as a programming error.
package usecase

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/KeSHaMI/hexaframe/pkg/errors"
	"github.com/KeSHaMI/hexaframe/pkg/ports"
	"github.com/KeSHaMI/hexaframe/pkg/result"
)

// Result is the outcome type of every use case.
type Result[O any] = result.Result[O, *errors.Error]

// Interactor holds the business logic of a use case.
type Interactor[I, O any] interface {
	Execute(ctx context.Context, in I) Result[O]
}

// InteractorFunc adapts a function to the Interactor interface.
type InteractorFunc[I, O any] func(ctx context.Context, in I) Result[O]

// Execute calls f(ctx, in).
func (f InteractorFunc[I, O]) Execute(ctx context.Context, in I) Result[O] {
	return f(ctx, in)
}

// FromFunc adapts a conventional (O, error) function. A returned *errors.Error
// becomes Err unchanged; any other error becomes an internal error.
func FromFunc[I, O any](fn func(ctx context.Context, in I) (O, error)) InteractorFunc[I, O] {
	return func(ctx context.Context, in I) Result[O] {
		out, err := fn(ctx, in)
		if err != nil {
			return result.Err[O](errors.From(err))
		}
		return result.Ok[O, *errors.Error](out)
	}
}

// Validator is implemented by interactors that check their input before
// running. A plain error is reported as a validation error.
type Validator[I any] interface {
	Validate(ctx context.Context, in I) error
}

// BeforeHook is implemented by interactors that need a side effect before
// running.
type BeforeHook[I any] interface {
	Before(ctx context.Context, in I) error
}

// AfterHook is implemented by interactors that observe the final result.
// It runs for both Ok and Err outcomes.
type AfterHook[O any] interface {
	After(ctx context.Context, res Result[O])
}

// Executor is the surface adapters depend on.
type Executor[I, O any] interface {
	Execute(ctx context.Context, in I) Result[O]
}

// MissingResultError is the panic value raised when an interactor returns a
// Result that was built by neither result.Ok nor result.Err.
type MissingResultError struct {
	UseCase string
}

func (e *MissingResultError) Error() string {
	return fmt.Sprintf("use case %q returned no result: build results with result.Ok or result.Err", e.UseCase)
}

// UseCase wraps an Interactor with hooks, fault normalization and optional
// retry.
type UseCase[I, O any] struct {
	name     string
	impl     Interactor[I, O]
	logger   ports.Logger
	retry    *RetryConfig
	observer Observer
}

var _ Executor[struct{}, struct{}] = (*UseCase[struct{}, struct{}])(nil)

// New wraps impl. An empty name is derived from the interactor's type.
func New[I, O any](name string, impl Interactor[I, O], opts ...Option) *UseCase[I, O] {
	if impl == nil {
		panic("usecase.New: nil interactor")
	}
	cfg := options{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if name == "" {
		name = typeName(impl)
	}
	return &UseCase[I, O]{
		name:     name,
		impl:     impl,
		logger:   cfg.logger,
		retry:    cfg.retry,
		observer: cfg.observer,
	}
}

// Func is shorthand for New(name, FromFunc(fn), opts...).
func Func[I, O any](name string, fn func(ctx context.Context, in I) (O, error), opts ...Option) *UseCase[I, O] {
	return New[I, O](name, FromFunc(fn), opts...)
}

// Name returns the use case name used in logs and error details.
func (u *UseCase[I, O]) Name() string { return u.name }

// Execute runs the use case. It never panics for faults raised by the
// interactor or its hooks; those are returned as internal errors. It does
// panic with *MissingResultError when the interactor returns an invalid
// Result.
func (u *UseCase[I, O]) Execute(ctx context.Context, in I) Result[O] {
	start := time.Now()
	var res Result[O]
	if u.retry != nil {
		res = u.executeWithRetry(ctx, in)
	} else {
		res = u.attempt(ctx, in)
	}

	if !res.IsValid() {
		panic(&MissingResultError{UseCase: u.name})
	}

	if hook, ok := u.impl.(AfterHook[O]); ok {
		if fault := u.guard(func() { hook.After(ctx, res) }); fault != nil {
			res = result.Err[O](fault)
		}
	}

	if u.observer != nil {
		failure, _ := res.Error()
		u.observer.ObserveExecution(u.name, time.Since(start), failure)
	}
	return res
}

// attempt runs the hooks and the interactor once, converting panics into
// internal errors. An invalid result is returned as is.
func (u *UseCase[I, O]) attempt(ctx context.Context, in I) Result[O] {
	var res Result[O]
	fault := u.guard(func() {
		if v, ok := u.impl.(Validator[I]); ok {
			if err := v.Validate(ctx, in); err != nil {
				res = result.Err[O](asValidation(err, u.name))
				return
			}
		}
		if b, ok := u.impl.(BeforeHook[I]); ok {
			if err := b.Before(ctx, in); err != nil {
				res = result.Err[O](errors.From(err))
				return
			}
		}
		res = u.impl.Execute(ctx, in)
	})
	if fault != nil {
		return result.Err[O](fault)
	}
	if e, ok := res.Error(); ok && e == nil {
		return result.Err[O](errors.Internal(u.name, "use case returned a nil error"))
	}
	return res
}

// guard runs fn and converts a panic into an internal error.
func (u *UseCase[I, O]) guard(fn func()) (fault *errors.Error) {
	defer func() {
		rec := recover()
		if rec == nil {
			return
		}
		fault = errors.Internal(u.name, "Unexpected error").
			WithDetail("use_case", u.name).
			WithDetail("type", fmt.Sprintf("%T", rec)).
			WithDetail("fault", errors.RedactSensitive(fmt.Sprint(rec)))
		if err, ok := rec.(error); ok {
			fault.Err = err
		}
		if u.logger != nil {
			ports.Error(u.logger, "use case panicked",
				"use_case", u.name,
				"type", fault.Details["type"],
				"fault", fault.Details["fault"],
			)
		}
	}()
	fn()
	return nil
}

func asValidation(err error, op string) *errors.Error {
	var e *errors.Error
	if errors.As(err, &e) {
		return e
	}
	return errors.ValidationWrap(err, op, err.Error())
}

func typeName(v any) string {
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() == "" {
		return t.String()
	}
	return t.Name()
}

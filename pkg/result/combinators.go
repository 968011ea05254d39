package result

import "context"

// Map applies fn to the success value. Err passes through unchanged.
func Map[T, U, E any](r Result[T, E], fn func(T) U) Result[U, E] {
	switch r.tag {
	case tagOk:
		return Ok[U, E](fn(r.value))
	case tagErr:
		return Err[U](r.err)
	default:
		return Result[U, E]{}
	}
}

// MapErr applies fn to the failure value. Ok passes through unchanged.
func MapErr[T, E, F any](r Result[T, E], fn func(E) F) Result[T, F] {
	switch r.tag {
	case tagOk:
		return Ok[T, F](r.value)
	case tagErr:
		return Err[T](fn(r.err))
	default:
		return Result[T, F]{}
	}
}

// AndThen chains an operation that itself returns a Result. Err
// short-circuits and fn is not called.
func AndThen[T, U, E any](r Result[T, E], fn func(T) Result[U, E]) Result[U, E] {
	switch r.tag {
	case tagOk:
		return fn(r.value)
	case tagErr:
		return Err[U](r.err)
	default:
		return Result[U, E]{}
	}
}

// OrElse recovers from a failure with fn. Ok passes through unchanged.
func OrElse[T, E, F any](r Result[T, E], fn func(E) Result[T, F]) Result[T, F] {
	switch r.tag {
	case tagOk:
		return Ok[T, F](r.value)
	case tagErr:
		return fn(r.err)
	default:
		return Result[T, F]{}
	}
}

// Fold collapses the result into a single value by invoking exactly one of
// onOk or onErr. It panics on an invalid result.
func Fold[T, E, R any](r Result[T, E], onOk func(T) R, onErr func(E) R) R {
	switch r.tag {
	case tagOk:
		return onOk(r.value)
	case tagErr:
		return onErr(r.err)
	default:
		panic(&UnwrapError{Message: "called Fold on invalid result"})
	}
}

// MapAsync is Map for context-aware transformations. fn runs only on Ok.
func MapAsync[T, U, E any](ctx context.Context, r Result[T, E], fn func(context.Context, T) U) Result[U, E] {
	return Map(r, func(v T) U { return fn(ctx, v) })
}

// AndThenAsync is AndThen for context-aware continuations. fn runs only on Ok.
func AndThenAsync[T, U, E any](ctx context.Context, r Result[T, E], fn func(context.Context, T) Result[U, E]) Result[U, E] {
	return AndThen(r, func(v T) Result[U, E] { return fn(ctx, v) })
}

// Collect turns a slice of results into a result of a slice, stopping at
// the first Err.
func Collect[T, E any](rs []Result[T, E]) Result[[]T, E] {
	out := make([]T, 0, len(rs))
	for _, r := range rs {
		switch r.tag {
		case tagOk:
			out = append(out, r.value)
		case tagErr:
			return Err[[]T](r.err)
		default:
			return Result[[]T, E]{}
		}
	}
	return Ok[[]T, E](out)
}

package usecase

import (
	"context"

	"github.com/KeSHaMI/hexaframe/pkg/errors"
	"github.com/KeSHaMI/hexaframe/pkg/result"
)

// Future is the pending outcome of ExecuteAsync. It delivers exactly one
// Result.
type Future[O any] struct {
	done  chan struct{}
	res   Result[O]
	fault any
}

// ExecuteAsync runs Execute on a new goroutine. A *MissingResultError panic
// is re-raised on the goroutine that calls Await.
func (u *UseCase[I, O]) ExecuteAsync(ctx context.Context, in I) *Future[O] {
	f := &Future[O]{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		defer func() {
			if rec := recover(); rec != nil {
				f.fault = rec
			}
		}()
		f.res = u.Execute(ctx, in)
	}()
	return f
}

// Done is closed once the result is available.
func (f *Future[O]) Done() <-chan struct{} { return f.done }

// Await blocks until the result is available or ctx is done. Cancellation
// only affects this caller: the use case keeps running and its result stays
// available to later Await calls.
func (f *Future[O]) Await(ctx context.Context) Result[O] {
	select {
	case <-f.done:
		if f.fault != nil {
			panic(f.fault)
		}
		return f.res
	case <-ctx.Done():
		return result.Err[O](errors.Canceled("Await", ctx.Err()))
	}
}

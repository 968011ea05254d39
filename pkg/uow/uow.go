// Package uow runs work inside a ports.UnitOfWork.
package uow

import (
	"context"

	"github.com/KeSHaMI/hexaframe/pkg/errors"
	"github.com/KeSHaMI/hexaframe/pkg/ports"
	"github.com/KeSHaMI/hexaframe/pkg/result"
)

// Run begins a unit, calls fn and commits when fn succeeds. The unit is
// rolled back when fn returns an error or panics; a panic is re-raised
// after the rollback.
func Run(ctx context.Context, u ports.UnitOfWork, fn func(ctx context.Context) error) (err error) {
	if err := u.Begin(ctx); err != nil {
		return errors.From(err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		rec := recover()
		if rbErr := u.Rollback(ctx); rbErr != nil && err != nil {
			err = errors.Join(err, rbErr)
		}
		if rec != nil {
			panic(rec)
		}
	}()

	if err = fn(ctx); err != nil {
		return err
	}
	if err = u.Commit(ctx); err != nil {
		return err
	}
	committed = true
	return nil
}

// RunResult is Run for functions that return a Result. An Err result rolls
// the unit back and is returned unchanged.
func RunResult[T any](ctx context.Context, u ports.UnitOfWork, fn func(ctx context.Context) result.Result[T, *errors.Error]) result.Result[T, *errors.Error] {
	var res result.Result[T, *errors.Error]
	err := Run(ctx, u, func(ctx context.Context) error {
		res = fn(ctx)
		if e, ok := res.Error(); ok {
			return e
		}
		return nil
	})
	if err != nil && !res.IsErr() {
		return result.Err[T](errors.From(err))
	}
	return res
}

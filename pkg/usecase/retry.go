package usecase

import (
	"context"

	"github.com/felixgeelhaar/fortify/retry"

	"github.com/KeSHaMI/hexaframe/pkg/errors"
	"github.com/KeSHaMI/hexaframe/pkg/result"
)

// errStop carries an invalid result out of the retrier without retrying.
var errStop = errors.New(errors.KindInternal, "invalid result")

func (u *UseCase[I, O]) executeWithRetry(ctx context.Context, in I) Result[O] {
	isRetryable := u.retry.Retryable
	if isRetryable == nil {
		isRetryable = defaultRetryable
	}
	r := retry.New[O](retry.Config{
		MaxAttempts:   u.retry.MaxAttempts,
		InitialDelay:  u.retry.InitialDelay,
		MaxDelay:      u.retry.MaxDelay,
		BackoffPolicy: retry.BackoffExponential,
		Multiplier:    2.0,
		Jitter:        u.retry.Jitter,
		IsRetryable: func(err error) bool {
			return err != errStop && isRetryable(err)
		},
	})

	var last Result[O]
	attempted := false
	_, err := r.Do(ctx, func(ctx context.Context) (O, error) {
		attempted = true
		last = u.attempt(ctx, in)
		if !last.IsValid() {
			var zero O
			return zero, errStop
		}
		if e, ok := last.Error(); ok {
			var zero O
			return zero, e
		}
		return last.Unwrap(), nil
	})
	if !attempted && err != nil {
		return result.Err[O](errors.From(err))
	}
	return last
}

func defaultRetryable(err error) bool {
	return errors.IsRecoverable(err) && !errors.IsDomain(err)
}

package usecase

import (
	"time"

	"github.com/KeSHaMI/hexaframe/pkg/errors"
	"github.com/KeSHaMI/hexaframe/pkg/ports"
)

type options struct {
	logger   ports.Logger
	retry    *RetryConfig
	observer Observer
}

// Option configures a UseCase.
type Option func(*options)

// WithLogger reports recovered faults to l.
func WithLogger(l ports.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Observer is told about every finished execution. failure is nil for Ok
// results.
type Observer interface {
	ObserveExecution(useCase string, elapsed time.Duration, failure *errors.Error)
}

// WithObserver reports each execution to obs.
func WithObserver(obs Observer) Option {
	return func(o *options) { o.observer = obs }
}

// RetryConfig controls re-execution of failed attempts.
type RetryConfig struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Jitter       bool
	// Retryable decides whether a failed attempt is retried. Nil retries
	// recoverable non-domain errors.
	Retryable func(err error) bool
}

// DefaultRetryConfig returns three attempts with exponential backoff.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:  3,
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     2 * time.Second,
		Jitter:       true,
	}
}

// WithRetry re-executes attempts that fail with a retryable error.
func WithRetry(cfg RetryConfig) Option {
	return func(o *options) {
		c := cfg
		if c.MaxAttempts < 1 {
			c.MaxAttempts = 1
		}
		o.retry = &c
	}
}

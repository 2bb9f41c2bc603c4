// Package resilience adapts the teacher's exponential-backoff retry
// helper (pkg/adapters/resilience/retry.go) for tool handlers that call
// idempotent, GET-shaped upstream endpoints (list/get operations across
// GitHub, Calendar, Drive, Gmail, Supabase) where a transient 5xx or
// network blip shouldn't surface as a tool failure on the first try.
package resilience

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryConfig configures an exponential-backoff retry loop.
type RetryConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
	MaxElapsedTime  time.Duration
	RetryIfFn       func(error) bool
}

// DefaultRetryConfig retries up to 3 times with a 100ms..10s exponential
// backoff, bounded to 30s total elapsed time.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:      3,
		InitialInterval: 100 * time.Millisecond,
		MaxInterval:     10 * time.Second,
		Multiplier:      2.0,
		MaxElapsedTime:  30 * time.Second,
		RetryIfFn:       func(err error) bool { return true },
	}
}

// Retry runs operation, retrying per config until it succeeds, config's
// RetryIfFn rejects the error, ctx is canceled, or the retry budget is
// exhausted.
func Retry(ctx context.Context, config RetryConfig, operation func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = config.InitialInterval
	b.MaxInterval = config.MaxInterval
	b.Multiplier = config.Multiplier
	b.MaxElapsedTime = config.MaxElapsedTime

	var bo backoff.BackOff = b
	if config.MaxRetries > 0 {
		bo = backoff.WithMaxRetries(b, uint64(config.MaxRetries))
	}
	bo = backoff.WithContext(bo, ctx)

	return backoff.Retry(func() error {
		err := operation()
		if err != nil && config.RetryIfFn != nil && !config.RetryIfFn(err) {
			return backoff.Permanent(err)
		}
		return err
	}, bo)
}

// RetryWithResult is Retry for an operation that also produces a value.
func RetryWithResult[T any](ctx context.Context, config RetryConfig, operation func() (T, error)) (T, error) {
	var result T
	err := Retry(ctx, config, func() error {
		var opErr error
		result, opErr = operation()
		return opErr
	})
	return result, err
}

// RetryableError marks an error as eligible for retry when used with a
// RetryIfFn built from IsRetryableError.
type RetryableError struct {
	Err error
}

func (e RetryableError) Error() string { return e.Err.Error() }
func (e RetryableError) Unwrap() error { return e.Err }

// NewRetryableError wraps err as retryable.
func NewRetryableError(err error) RetryableError {
	return RetryableError{Err: err}
}

// IsRetryableError reports whether err (or something it wraps) is a
// RetryableError.
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}
	var re RetryableError
	return errors.As(err, &re)
}

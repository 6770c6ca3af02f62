package services

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"
)

const DefaultMaxAttempts = 3

type RetryPolicy struct {
	MaxAttempts int
	Backoff     time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: DefaultMaxAttempts, Backoff: time.Second}
}

// RunWithRetry runs op until it succeeds, fails with a non-transient error
// or MaxAttempts attempts were made. Rate limits are never retried.
func RunWithRetry(ctx context.Context, p RetryPolicy, op func(ctx context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	backoff := p.Backoff
	if backoff <= 0 {
		backoff = time.Millisecond
	}

	b := retry.WithMaxRetries(uint64(attempts-1), retry.NewConstant(backoff))
	return retry.Do(ctx, b, func(ctx context.Context) error {
		err := op(ctx)
		if err != nil && IsTransient(err) {
			return retry.RetryableError(err)
		}
		return err
	})
}

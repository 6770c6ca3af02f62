package services

import (
	"context"
	"fmt"
	"time"

	"github.com/BatmanBruc/bat-bot-multitool/types"
)

type SleepFunc func(ctx context.Context, d time.Duration) error

// PollPolicy bounds a wait-then-check loop. Sleep is injectable for tests.
type PollPolicy struct {
	Interval    time.Duration
	MaxAttempts int
	Sleep       SleepFunc
}

func Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Poll waits Interval and calls check, at most MaxAttempts times, until check reports done.
// Transient check errors count as an unfinished attempt; other errors stop polling.
func Poll[T any](ctx context.Context, p PollPolicy, check func(ctx context.Context) (T, bool, error)) (T, error) {
	var zero T
	sleep := p.Sleep
	if sleep == nil {
		sleep = Sleep
	}
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		if err := sleep(ctx, p.Interval); err != nil {
			return zero, err
		}
		v, done, err := check(ctx)
		if err != nil {
			if IsTransient(err) {
				lastErr = err
				continue
			}
			return zero, err
		}
		if done {
			return v, nil
		}
	}
	if lastErr != nil {
		return zero, fmt.Errorf("%w after %d checks: %v", types.ErrPollExhausted, attempts, lastErr)
	}
	return zero, fmt.Errorf("%w after %d checks", types.ErrPollExhausted, attempts)
}

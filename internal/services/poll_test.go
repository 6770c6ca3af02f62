package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/BatmanBruc/bat-bot-multitool/types"
)

type fakeClock struct {
	slept []time.Duration
}

func (c *fakeClock) Sleep(_ context.Context, d time.Duration) error {
	c.slept = append(c.slept, d)
	return nil
}

func TestPollFinishes(t *testing.T) {
	clock := &fakeClock{}
	calls := 0
	got, err := Poll(context.Background(), PollPolicy{Interval: 5 * time.Second, MaxAttempts: 10, Sleep: clock.Sleep},
		func(context.Context) (string, bool, error) {
			calls++
			return "file-1", calls == 3, nil
		})
	if err != nil || got != "file-1" {
		t.Fatalf("Poll = %q, %v", got, err)
	}
	if len(clock.slept) != 3 || clock.slept[0] != 5*time.Second {
		t.Errorf("slept %v, want three 5s waits", clock.slept)
	}
}

func TestPollIsBounded(t *testing.T) {
	clock := &fakeClock{}
	calls := 0
	_, err := Poll(context.Background(), PollPolicy{Interval: time.Second, MaxAttempts: 4, Sleep: clock.Sleep},
		func(context.Context) (int, bool, error) {
			calls++
			return 0, false, nil
		})
	if !errors.Is(err, types.ErrPollExhausted) {
		t.Fatalf("err = %v, want poll exhausted", err)
	}
	if calls != 4 {
		t.Errorf("calls = %d, want 4", calls)
	}
}

func TestPollTransientErrorsKeepPolling(t *testing.T) {
	clock := &fakeClock{}
	calls := 0
	got, err := Poll(context.Background(), PollPolicy{MaxAttempts: 5, Sleep: clock.Sleep},
		func(context.Context) (int, bool, error) {
			calls++
			if calls < 3 {
				return 0, false, types.ErrTransient
			}
			return 7, true, nil
		})
	if err != nil || got != 7 {
		t.Fatalf("Poll = %d, %v", got, err)
	}
}

func TestPollStopsOnPermanentError(t *testing.T) {
	clock := &fakeClock{}
	calls := 0
	_, err := Poll(context.Background(), PollPolicy{MaxAttempts: 5, Sleep: clock.Sleep},
		func(context.Context) (int, bool, error) {
			calls++
			return 0, false, types.ErrRateLimited
		})
	if !errors.Is(err, types.ErrRateLimited) || calls != 1 {
		t.Fatalf("err = %v, calls = %d", err, calls)
	}
}

func TestPollHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Poll(ctx, PollPolicy{Interval: time.Hour, MaxAttempts: 3}, func(context.Context) (int, bool, error) {
		t.Fatal("check must not run after cancellation")
		return 0, false, nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

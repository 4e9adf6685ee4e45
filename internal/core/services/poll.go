package services

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/qbusiness-connectors/internal/core/domain"
)

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// SleepContext is the Sleeper backed by a timer.
func SleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Poll calls check after each backoff delay until it reports done, fails,
// or the attempt budget is spent. An exhausted budget yields an error
// wrapping domain.ErrTimeout.
func Poll(ctx context.Context, b domain.Backoff, sleep Sleeper, check func(ctx context.Context) (bool, error)) error {
	if sleep == nil {
		sleep = SleepContext
	}
	for attempt := 1; attempt <= b.MaxAttempts; attempt++ {
		if err := sleep(ctx, b.Delay(attempt)); err != nil {
			return err
		}
		done, err := check(ctx)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
	return fmt.Errorf("%w after %d attempts", domain.ErrTimeout, b.MaxAttempts)
}

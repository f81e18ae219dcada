package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skinsight/diagnosis/backend/pkg/retry"
)

func fastConfig(attempts int) retry.Config {
	return retry.Config{
		MaxAttempts:   attempts,
		InitialDelay:  time.Millisecond,
		MaxDelay:      2 * time.Millisecond,
		BackoffFactor: 2,
	}
}

func TestDo_SucceedsAfterFailures(t *testing.T) {
	calls := 0
	err := retry.Do(context.Background(), fastConfig(5), func() error {
		calls++
		if calls < 3 {
			return errors.New("not yet")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoWithLog_ExhaustsAttempts(t *testing.T) {
	boom := errors.New("connection refused")
	var notified []int

	err := retry.DoWithLog(context.Background(), fastConfig(3), "PostgreSQL",
		func() error { return boom },
		func(attempt int, err error, nextDelay time.Duration) {
			notified = append(notified, attempt)
			assert.ErrorIs(t, err, boom)
			assert.LessOrEqual(t, nextDelay, 2*time.Millisecond)
		},
	)

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "PostgreSQL: max retry attempts (3) exceeded")
	assert.Equal(t, []int{1, 2}, notified, "the final failure is not followed by a retry")
}

func TestDo_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := retry.Do(ctx, fastConfig(5), func() error {
		calls++
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, calls)
}

func TestDo_TotalTimeout(t *testing.T) {
	cfg := retry.Config{
		MaxAttempts:     100,
		InitialDelay:    20 * time.Millisecond,
		BackoffFactor:   1,
		MaxTotalTimeout: 30 * time.Millisecond,
	}

	err := retry.Do(context.Background(), cfg, func() error { return errors.New("down") })
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

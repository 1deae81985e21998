package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithRetry_SucceedsAfterTransientError(t *testing.T) {
	calls := 0
	start := time.Now()
	baseDelay := 20 * time.Millisecond

	err := WithRetry(context.Background(), 3, baseDelay, func(ctx context.Context) error {
		calls++
		if calls == 1 {
			return NewStoreError(KindThrottled, "put", "k", errors.New("throttled"))
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.GreaterOrEqual(t, time.Since(start), baseDelay)
}

func TestWithRetry_PermanentErrorNotRetried(t *testing.T) {
	calls := 0
	wantErr := NewStoreError(KindValidation, "put", "k", errors.New("bad value"))

	err := WithRetry(context.Background(), 3, time.Millisecond, func(ctx context.Context) error {
		calls++
		return wantErr
	})

	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, wantErr)
}

func TestWithRetry_ExhaustsRetries(t *testing.T) {
	calls := 0

	err := WithRetry(context.Background(), 2, time.Millisecond, func(ctx context.Context) error {
		calls++
		return NewStoreError(KindInternalTransient, "get", "k", errors.New("loading"))
	})

	// initial attempt plus two retries
	assert.Equal(t, 3, calls)
	require.Error(t, err)
	assert.True(t, IsTransient(err))
}

func TestWithRetry_BackoffDoubles(t *testing.T) {
	var gaps []time.Duration
	last := time.Now()

	_ = WithRetry(context.Background(), 2, 10*time.Millisecond, func(ctx context.Context) error {
		now := time.Now()
		gaps = append(gaps, now.Sub(last))
		last = now
		return NewStoreError(KindThrottled, "put", "k", errors.New("throttled"))
	})

	require.Len(t, gaps, 3)
	assert.GreaterOrEqual(t, gaps[1], 10*time.Millisecond)
	assert.GreaterOrEqual(t, gaps[2], 20*time.Millisecond)
}

func TestWithRetry_ContextCanceledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0

	err := WithRetry(ctx, 3, time.Hour, func(ctx context.Context) error {
		calls++
		cancel()
		return NewStoreError(KindThrottled, "put", "k", errors.New("throttled"))
	})

	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, context.Canceled)
}

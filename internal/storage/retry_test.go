package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry(attempts int) RetryConfig {
	return RetryConfig{
		MaxAttempts: attempts,
		BaseDelay:   time.Millisecond,
		MaxDelay:    5 * time.Millisecond,
		Multiplier:  2.0,
	}
}

func TestReadWithRetry_SucceedsFirstTry(t *testing.T) {
	calls := 0
	result, err := readWithRetry(context.Background(), fastRetry(3), func() (int, error) {
		calls++
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, result)
	assert.Equal(t, 1, calls)
}

func TestReadWithRetry_RetriesTransientFailure(t *testing.T) {
	calls := 0
	transient := errors.New("database is locked")
	result, err := readWithRetry(context.Background(), fastRetry(3), func() (string, error) {
		calls++
		if calls < 3 {
			return "", transient
		}
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 3, calls)
}

func TestReadWithRetry_ExhaustsAttempts(t *testing.T) {
	calls := 0
	transient := errors.New("database is locked")
	_, err := readWithRetry(context.Background(), fastRetry(3), func() (int, error) {
		calls++
		return 0, transient
	})
	assert.ErrorIs(t, err, transient)
	assert.Equal(t, 3, calls)
}

func TestReadWithRetry_NotFoundIsDefinitive(t *testing.T) {
	calls := 0
	_, err := readWithRetry(context.Background(), fastRetry(3), func() (int, error) {
		calls++
		return 0, ErrNotFound
	})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 1, calls)
}

func TestReadWithRetry_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	_, err := readWithRetry(ctx, fastRetry(5), func() (int, error) {
		calls++
		return 0, errors.New("transient")
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestReadWithRetry_ZeroAttemptsStillRunsOnce(t *testing.T) {
	calls := 0
	result, err := readWithRetry(context.Background(), RetryConfig{}, func() (int, error) {
		calls++
		return 7, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 7, result)
	assert.Equal(t, 1, calls)
}

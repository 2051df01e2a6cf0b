package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoSucceedsAfterTransient(t *testing.T) {
	t.Parallel()

	calls := 0
	var retried []int
	val, err := Do(context.Background(), Policy{
		MaxAttempts: 2,
		Backoff:     time.Millisecond,
		OnRetry:     func(attempt int, _ error) { retried = append(retried, attempt) },
	}, func(context.Context) (string, error) {
		calls++
		if calls == 1 {
			return "", NewTransientError(errors.New("rate limited"), 429)
		}
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", val)
	assert.Equal(t, 2, calls)
	assert.Equal(t, []int{1}, retried)
}

func TestDoStopsAtMaxAttempts(t *testing.T) {
	t.Parallel()

	calls := 0
	_, err := Do(context.Background(), Policy{MaxAttempts: 2}, func(context.Context) (int, error) {
		calls++
		return 0, NewTransientError(errors.New("unavailable"), 503)
	})

	require.Error(t, err)
	assert.Equal(t, 2, calls)
	assert.Contains(t, err.Error(), "unavailable")
}

func TestDoSkipsPermanentErrors(t *testing.T) {
	t.Parallel()

	calls := 0
	_, err := Do(context.Background(), Policy{MaxAttempts: 5}, func(context.Context) (int, error) {
		calls++
		return 0, errors.New("bad request")
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoHonoursCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	_, err := Do(ctx, Policy{MaxAttempts: 3, Backoff: time.Hour}, func(context.Context) (int, error) {
		calls++
		cancel()
		return 0, NewTransientError(errors.New("timeout"), 504)
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestIsTransientStatus(t *testing.T) {
	t.Parallel()

	assert.True(t, IsTransientStatus(429))
	assert.True(t, IsTransientStatus(503))
	assert.False(t, IsTransientStatus(400))
	assert.False(t, IsTransientStatus(401))
}

package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noBackoff(t *testing.T) {
	t.Helper()
	prev := serializableBackoff
	serializableBackoff = func(int) time.Duration { return 0 }
	t.Cleanup(func() { serializableBackoff = prev })
}

func TestRetrySerializableRecoversAfterConflict(t *testing.T) {
	noBackoff(t)

	calls := 0
	err := retrySerializable(context.Background(), func() error {
		calls++
		if calls == 1 {
			return &pq.Error{Code: SQLStateSerializationFailure}
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestRetrySerializableRetriesDeadlocks(t *testing.T) {
	noBackoff(t)

	calls := 0
	err := retrySerializable(context.Background(), func() error {
		calls++
		if calls < MaxSerializableAttempts {
			return &pq.Error{Code: SQLStateDeadlockDetected}
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, MaxSerializableAttempts, calls)
}

func TestRetrySerializableGivesUp(t *testing.T) {
	noBackoff(t)

	calls := 0
	err := retrySerializable(context.Background(), func() error {
		calls++
		return &pq.Error{Code: SQLStateSerializationFailure}
	})

	require.Error(t, err)
	assert.Equal(t, MaxSerializableAttempts, calls)
	assert.Contains(t, err.Error(), "failed after 3 attempts")
	assert.True(t, IsSerializationFailure(err))
}

func TestRetrySerializableReturnsOtherErrorsImmediately(t *testing.T) {
	noBackoff(t)

	boom := errors.New("boom")
	unique := &pq.Error{Code: SQLStateUniqueViolation}

	for _, want := range []error{boom, unique} {
		calls := 0
		err := retrySerializable(context.Background(), func() error {
			calls++
			return want
		})
		assert.Same(t, want, err)
		assert.Equal(t, 1, calls)
	}
}

func TestRetrySerializableStopsOnCancelledContext(t *testing.T) {
	prev := serializableBackoff
	serializableBackoff = func(int) time.Duration { return time.Hour }
	t.Cleanup(func() { serializableBackoff = prev })

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := retrySerializable(ctx, func() error {
		calls++
		cancel()
		return &pq.Error{Code: SQLStateSerializationFailure}
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

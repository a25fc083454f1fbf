package shell

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/circulation-manager-go/circulation/problem"
	"github.com/AntonStoeckl/circulation-manager-go/eventstore"
)

func Test_RetryWithExponentialBackoff_Success_NoRetries(t *testing.T) {
	// arrange
	callCount := 0
	fn := func(_ context.Context) error {
		callCount++
		return nil
	}

	// act
	meta, err := RetryWithExponentialBackoff(context.Background(), fn)

	// assert
	assert.NoError(t, err)
	assert.Equal(t, 1, callCount)
	assert.Equal(t, 1, meta.Attempts)
	assert.Equal(t, time.Duration(0), meta.TotalDelay)
	assert.Equal(t, "none", meta.LastErrorType)
}

func Test_RetryWithExponentialBackoff_RetryOnConcurrencyConflict(t *testing.T) {
	// arrange
	callCount := 0
	fn := func(_ context.Context) error {
		callCount++
		if callCount < 3 {
			return fmt.Errorf("append: %w", eventstore.ErrConcurrencyConflict)
		}
		return nil
	}

	// act
	meta, err := RetryWithExponentialBackoff(context.Background(), fn, WithBaseDelay(time.Millisecond))

	// assert
	assert.NoError(t, err)
	assert.Equal(t, 3, callCount)
	assert.Equal(t, 3, meta.Attempts)
	assert.Greater(t, meta.TotalDelay, time.Duration(0))
	assert.False(t, meta.RetriesExhausted)
}

func Test_RetryWithExponentialBackoff_ProblemsFailFast(t *testing.T) {
	// arrange
	callCount := 0
	fn := func(_ context.Context) error {
		callCount++
		return problem.New(problem.ForbiddenByPolicy)
	}

	// act
	meta, err := RetryWithExponentialBackoff(context.Background(), fn)

	// assert
	assert.ErrorIs(t, err, problem.New(problem.ForbiddenByPolicy))
	assert.Equal(t, 1, callCount)
	assert.Equal(t, "problem", meta.LastErrorType)
}

func Test_RetryWithExponentialBackoff_ExhaustsRetries(t *testing.T) {
	// arrange
	fn := func(_ context.Context) error {
		return eventstore.ErrConcurrencyConflict
	}

	// act
	meta, err := RetryWithExponentialBackoff(context.Background(), fn,
		WithMaxAttempts(3),
		WithBaseDelay(time.Millisecond),
		WithJitterFactor(0),
	)

	// assert
	assert.ErrorIs(t, err, eventstore.ErrConcurrencyConflict)
	assert.Equal(t, 3, meta.Attempts)
	assert.True(t, meta.RetriesExhausted)
	assert.Equal(t, "concurrency_conflict", meta.LastErrorType)
	assert.Equal(t, 3*time.Millisecond, meta.TotalDelay)
}

func Test_RetryWithExponentialBackoff_StopsWhenContextIsCanceled(t *testing.T) {
	// arrange
	ctx, cancel := context.WithCancel(context.Background())
	fn := func(_ context.Context) error {
		cancel()
		return eventstore.ErrConcurrencyConflict
	}

	// act
	meta, err := RetryWithExponentialBackoff(ctx, fn, WithBaseDelay(time.Second))

	// assert
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, meta.Attempts)
	assert.Equal(t, "context_canceled", meta.LastErrorType)
}

func Test_RetryWithExponentialBackoff_InvalidOptions(t *testing.T) {
	fn := func(_ context.Context) error { return nil }

	testCases := []struct {
		name     string
		option   RetryOption
		expected error
	}{
		{name: "zero max attempts", option: WithMaxAttempts(0), expected: ErrInvalidMaxAttempts},
		{name: "negative base delay", option: WithBaseDelay(-time.Second), expected: ErrNegativeBaseDelay},
		{name: "jitter above one", option: WithJitterFactor(1.5), expected: ErrInvalidJitterFactor},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := RetryWithExponentialBackoff(context.Background(), fn, tc.option)

			assert.ErrorIs(t, err, tc.expected)
		})
	}
}

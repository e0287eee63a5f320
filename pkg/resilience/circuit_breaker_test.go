package resilience

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCircuitBreaker_TripsAfterConsecutiveFailures(t *testing.T) {
	var transitions []gobreaker.State
	cfg := DefaultCircuitBreakerConfig("inventory-api")
	cfg.FailureThreshold = 2
	cfg.OnStateChange = func(_ string, _, to gobreaker.State) {
		transitions = append(transitions, to)
	}
	cb := NewCircuitBreaker(cfg, quietLogger())

	boom := errors.New("boom")
	for i := 0; i < 2; i++ {
		err := cb.Execute(context.Background(), func(context.Context) error { return boom })
		assert.ErrorIs(t, err, boom)
	}

	err := cb.Execute(context.Background(), func(context.Context) error { return nil })
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, gobreaker.StateOpen, cb.State())
	assert.Equal(t, []gobreaker.State{gobreaker.StateOpen}, transitions)
}

func TestCircuitBreaker_IsSuccessfulKeepsClosed(t *testing.T) {
	clientErr := errors.New("rejected")
	cfg := DefaultCircuitBreakerConfig("inventory-api")
	cfg.FailureThreshold = 1
	cfg.IsSuccessful = func(err error) bool { return err == nil || errors.Is(err, clientErr) }
	cb := NewCircuitBreaker(cfg, quietLogger())

	for i := 0; i < 3; i++ {
		err := cb.Execute(context.Background(), func(context.Context) error { return clientErr })
		assert.ErrorIs(t, err, clientErr)
	}
	assert.Equal(t, gobreaker.StateClosed, cb.State())
	assert.Equal(t, "closed", cb.Status().State)
}

func TestRetryWithResult_RetriesRetryableErrors(t *testing.T) {
	cfg := DefaultRetryConfig()
	cfg.InitialDelay = time.Millisecond
	cfg.RetryableErrors = func(error) bool { return true }

	attempts := 0
	result, err := RetryWithResult(context.Background(), cfg, func() (int, error) {
		attempts++
		if attempts < 3 {
			return 0, errors.New("transient")
		}
		return 42, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 42, result)
	assert.Equal(t, 3, attempts)
}

func TestRetryWithResult_StopsOnNonRetryable(t *testing.T) {
	attempts := 0
	_, err := RetryWithResult(context.Background(), DefaultRetryConfig(), func() (string, error) {
		attempts++
		return "", errors.New("permanent")
	})

	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestRetryWithResult_ExhaustsAttempts(t *testing.T) {
	cfg := DefaultRetryConfig()
	cfg.InitialDelay = time.Millisecond
	cfg.RetryableErrors = func(error) bool { return true }

	_, err := RetryWithResult(context.Background(), cfg, func() (int, error) {
		return 0, errors.New("down")
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "max retries (3) exceeded")
}

package source

import (
	"context"
	"fmt"
	"time"

	"evodash/internal"
)

// RetryConfig holds the parameters for the retry strategy.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Logger      *internal.Logger
}

// Do executes fn with exponential back-off retry logic. It stops early when
// ctx is done or fn returns a permanent error.
func (r RetryConfig) Do(ctx context.Context, operationName string, fn func() error) error {
	attempts := r.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	logger := r.Logger
	if logger == nil {
		logger = internal.DefaultLogger
	}

	var lastErr error
	delay := r.BaseDelay
	for attempt := 1; attempt <= attempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if _, ok := lastErr.(permanentError); ok {
			return lastErr
		}

		if attempt < attempts {
			logger.Warn("[retry] %s failed (attempt %d/%d): %v, retrying in %v",
				operationName, attempt, attempts, lastErr, delay)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, attempts, lastErr)
}

// permanentError marks failures that retrying cannot fix (e.g. HTTP 404).
type permanentError struct{ error }

func (p permanentError) Unwrap() error { return p.error }

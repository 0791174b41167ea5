// Package retry provides retries for idempotent reads and polling until a terminal state.
// Both respect context cancellation. Neither is meant for submissions, which must be
// attempted at most once.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrPollTimeout is returned when Poll gives up before reaching a terminal state.
var ErrPollTimeout = errors.New("retry: poll timed out")

// Config holds retry configuration.
type Config struct {
	MaxAttempts  int           // Maximum number of attempts (including initial attempt)
	InitialDelay time.Duration // Initial delay between retries
	MaxDelay     time.Duration // Maximum delay between retries
	Multiplier   float64       // Multiplier for exponential backoff
}

// DefaultConfig provides defaults for retrying reads.
var DefaultConfig = Config{
	MaxAttempts:  3,
	InitialDelay: 100 * time.Millisecond,
	MaxDelay:     5 * time.Second,
	Multiplier:   2.0,
}

// IsRetryable determines if an error should trigger a retry.
type IsRetryable func(error) bool

// WithRetry calls fn until it succeeds, returns a non-retryable error or
// config.MaxAttempts is reached, backing off exponentially between attempts.
func WithRetry[T any](
	ctx context.Context,
	config Config,
	isRetryable IsRetryable,
	fn func() (T, error),
) (T, error) {
	var zero T
	var lastErr error
	delay := config.InitialDelay

	for attempt := 0; attempt < config.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, fmt.Errorf("context cancelled: %w", err)
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}

		lastErr = err
		if !isRetryable(err) {
			return zero, err
		}

		if attempt < config.MaxAttempts-1 {
			select {
			case <-time.After(delay):
				delay = time.Duration(float64(delay) * config.Multiplier)
				if delay > config.MaxDelay {
					delay = config.MaxDelay
				}
			case <-ctx.Done():
				return zero, ctx.Err()
			}
		}
	}

	return zero, fmt.Errorf("max retries exceeded: %w", lastErr)
}

// PollConfig controls Poll.
type PollConfig struct {
	// Interval is the wait between two polls.
	Interval time.Duration

	// Timeout bounds the whole poll. Zero means no bound other than ctx.
	Timeout time.Duration

	// MaxConsecutiveErrors is how many failed polls in a row are tolerated.
	MaxConsecutiveErrors int
}

// DefaultPollConfig polls every second for up to five minutes.
var DefaultPollConfig = PollConfig{
	Interval:             time.Second,
	Timeout:              5 * time.Minute,
	MaxConsecutiveErrors: 3,
}

// Poll calls fn every config.Interval until it reports done, returning the last value.
//
// On timeout the last observed value is returned with ErrPollTimeout. On cancellation
// of ctx the last observed value is returned with ctx.Err().
func Poll[T any](ctx context.Context, config PollConfig, fn func(ctx context.Context) (T, bool, error)) (T, error) {
	var deadline <-chan time.Time
	if config.Timeout > 0 {
		timer := time.NewTimer(config.Timeout)
		defer timer.Stop()
		deadline = timer.C
	}

	var last T
	failures := 0
	for {
		value, done, err := fn(ctx)
		switch {
		case err != nil:
			failures++
			if failures > config.MaxConsecutiveErrors {
				return last, err
			}
		case done:
			return value, nil
		default:
			failures = 0
			last = value
		}

		select {
		case <-ctx.Done():
			return last, ctx.Err()
		case <-deadline:
			return last, ErrPollTimeout
		case <-time.After(config.Interval):
		}
	}
}

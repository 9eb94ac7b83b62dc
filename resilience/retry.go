package resilience

import (
	"context"
	"errors"
	"time"
)

// RetryConfig describes a bounded retry policy with exponential backoff.
type RetryConfig struct {
	// MaxAttempts caps total attempts, the first call included. Default 3.
	MaxAttempts int

	// InitialBackoff is the delay before the second attempt. Default 100ms.
	InitialBackoff time.Duration

	// MaxBackoff caps the delay between attempts. Default 10s.
	MaxBackoff time.Duration

	// BackoffFactor multiplies the delay after every failed attempt.
	// Default 2.
	BackoffFactor float64

	// RetryIf decides whether an error is worth another attempt. When nil,
	// everything except a context error is retried.
	RetryIf func(error) bool

	// OnRetry observes each scheduled retry before its backoff sleep.
	OnRetry func(attempt int, err error, backoff time.Duration)
}

func (cfg *RetryConfig) applyDefaults() {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = 100 * time.Millisecond
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = 10 * time.Second
	}
	if cfg.BackoffFactor <= 0 {
		cfg.BackoffFactor = 2.0
	}
}

func (cfg *RetryConfig) retryable(err error) bool {
	if cfg.RetryIf != nil {
		return cfg.RetryIf(err)
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// Retry runs fn until it succeeds, the attempt cap is reached, RetryIf
// rejects the error, or the context ends. The delay before attempt n+1 is
// InitialBackoff * BackoffFactor^(n-1), capped at MaxBackoff. The storage
// gateway pairs this with a transient-only RetryIf so validation failures
// surface immediately.
func Retry[T any](ctx context.Context, cfg RetryConfig, fn func() (T, error)) (T, error) {
	cfg.applyDefaults()

	var zero T
	backoff := cfg.InitialBackoff
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}
		if !cfg.retryable(err) || attempt == cfg.MaxAttempts {
			return zero, err
		}

		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, err, backoff)
		}
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}

		backoff = time.Duration(float64(backoff) * cfg.BackoffFactor)
		if backoff > cfg.MaxBackoff {
			backoff = cfg.MaxBackoff
		}
	}
}

package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: time.Millisecond,
		BackoffFactor:  2.0,
	}
}

func TestRetryReturnsFirstSuccess(t *testing.T) {
	calls := 0
	etag, err := Retry(context.Background(), fastRetryConfig(), func() (string, error) {
		calls++
		return "\"abc123\"", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if etag != "\"abc123\"" {
		t.Errorf("expected etag passthrough, got %q", etag)
	}
	if calls != 1 {
		t.Errorf("expected a single call, got %d", calls)
	}
}

func TestRetryTransientTwiceThenSucceed(t *testing.T) {
	calls := 0
	_, err := Retry(context.Background(), fastRetryConfig(), func() (string, error) {
		calls++
		if calls < 3 {
			return "", errors.New("connection reset")
		}
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Errorf("expected exactly 3 attempts, got %d", calls)
	}
}

func TestRetryExhaustionReturnsLastError(t *testing.T) {
	lastErr := errors.New("still unreachable")
	calls := 0
	_, err := Retry(context.Background(), fastRetryConfig(), func() (string, error) {
		calls++
		return "", lastErr
	})
	if !errors.Is(err, lastErr) {
		t.Errorf("expected the last error, got %v", err)
	}
	if calls != 3 {
		t.Errorf("expected the attempt cap of 3, got %d", calls)
	}
}

func TestRetryIfStopsNonRetryable(t *testing.T) {
	permanent := errors.New("access denied")
	cfg := fastRetryConfig()
	cfg.RetryIf = func(err error) bool { return !errors.Is(err, permanent) }

	calls := 0
	_, err := Retry(context.Background(), cfg, func() (string, error) {
		calls++
		return "", permanent
	})
	if !errors.Is(err, permanent) {
		t.Errorf("expected the permanent error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("permanent failure must not be retried, got %d calls", calls)
	}
}

func TestRetryStopsWhenContextEnds(t *testing.T) {
	cfg := RetryConfig{
		MaxAttempts:    10,
		InitialBackoff: 50 * time.Millisecond,
		BackoffFactor:  2.0,
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	calls := 0
	_, err := Retry(ctx, cfg, func() (string, error) {
		calls++
		return "", errors.New("timeout")
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline error, got %v", err)
	}
	if calls >= 10 {
		t.Errorf("context should have cut retries short, got %d calls", calls)
	}
}

func TestRetryBackoffDoublesUpToCap(t *testing.T) {
	cfg := RetryConfig{
		MaxAttempts:    5,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     2 * time.Millisecond,
		BackoffFactor:  2.0,
	}

	var attempts []int
	var backoffs []time.Duration
	cfg.OnRetry = func(attempt int, _ error, backoff time.Duration) {
		attempts = append(attempts, attempt)
		backoffs = append(backoffs, backoff)
	}

	_, _ = Retry(context.Background(), cfg, func() (string, error) {
		return "", errors.New("flaky")
	})

	wantAttempts := []int{1, 2, 3, 4}
	wantBackoffs := []time.Duration{
		time.Millisecond,
		2 * time.Millisecond,
		2 * time.Millisecond,
		2 * time.Millisecond,
	}
	if len(attempts) != len(wantAttempts) {
		t.Fatalf("expected %d retries, got %d", len(wantAttempts), len(attempts))
	}
	for i := range wantAttempts {
		if attempts[i] != wantAttempts[i] {
			t.Errorf("retry %d reported attempt %d, want %d", i, attempts[i], wantAttempts[i])
		}
		if backoffs[i] != wantBackoffs[i] {
			t.Errorf("retry %d used backoff %v, want %v", i, backoffs[i], wantBackoffs[i])
		}
	}
}

package resilience

import (
	"errors"
	"sync"
	"testing"
	"time"
)

var errToolCrashed = errors.New("signal: segmentation fault")

func TestCircuitBreakerPassesThroughWhenClosed(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{Name: "pdf-tools"})

	ran := false
	if err := cb.Execute(func() error {
		ran = true
		return nil
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ran {
		t.Error("function never ran")
	}
	if cb.State() != StateClosed {
		t.Errorf("expected closed state, got %s", cb.State())
	}
}

func TestCircuitBreakerOpensAfterConsecutiveCrashes(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		Name:        "pdf-tools",
		MaxFailures: 3,
		Timeout:     time.Hour,
	})

	for i := 0; i < 3; i++ {
		_ = cb.Execute(func() error { return errToolCrashed })
	}
	if cb.State() != StateOpen {
		t.Fatalf("expected open after 3 crashes, got %s", cb.State())
	}

	err := cb.Execute(func() error {
		t.Error("open circuit must not spawn the tool")
		return nil
	})
	if !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("expected ErrCircuitOpen, got %v", err)
	}
}

func TestCircuitBreakerSuccessResetsFailureCount(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		Name:        "imagemagick",
		MaxFailures: 3,
		Timeout:     time.Hour,
	})

	_ = cb.Execute(func() error { return errToolCrashed })
	_ = cb.Execute(func() error { return errToolCrashed })
	_ = cb.Execute(func() error { return nil })
	_ = cb.Execute(func() error { return errToolCrashed })
	_ = cb.Execute(func() error { return errToolCrashed })

	if cb.State() != StateClosed {
		t.Errorf("non-consecutive failures must not open the circuit, got %s", cb.State())
	}
}

func TestCircuitBreakerProbeClosesOnRecovery(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		Name:        "pdf-tools",
		MaxFailures: 1,
		Timeout:     10 * time.Millisecond,
	})

	_ = cb.Execute(func() error { return errToolCrashed })
	if cb.State() != StateOpen {
		t.Fatalf("expected open, got %s", cb.State())
	}

	time.Sleep(15 * time.Millisecond)
	if cb.State() != StateHalfOpen {
		t.Fatalf("expected half-open after timeout, got %s", cb.State())
	}

	if err := cb.Execute(func() error { return nil }); err != nil {
		t.Fatalf("probe should run, got %v", err)
	}
	if cb.State() != StateClosed {
		t.Errorf("successful probe should close the circuit, got %s", cb.State())
	}
}

func TestCircuitBreakerProbeFailureReopens(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		Name:        "pdf-tools",
		MaxFailures: 1,
		Timeout:     10 * time.Millisecond,
	})

	_ = cb.Execute(func() error { return errToolCrashed })
	time.Sleep(15 * time.Millisecond)

	_ = cb.Execute(func() error { return errToolCrashed })
	if cb.State() != StateOpen {
		t.Errorf("failed probe should reopen the circuit, got %s", cb.State())
	}
}

func TestCircuitBreakerAdmitsOneProbeAtATime(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		Name:        "pdf-tools",
		MaxFailures: 1,
		Timeout:     10 * time.Millisecond,
	})

	_ = cb.Execute(func() error { return errToolCrashed })
	time.Sleep(15 * time.Millisecond)

	probeRunning := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_ = cb.Execute(func() error {
			close(probeRunning)
			<-release
			return nil
		})
	}()
	<-probeRunning
	defer close(release)

	err := cb.Execute(func() error { return nil })
	if !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("second call during the probe should be rejected, got %v", err)
	}
}

func TestCircuitBreakerConcurrentCalls(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{Name: "concurrent"})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = cb.Execute(func() error { return nil })
			_ = cb.State()
		}()
	}
	wg.Wait()

	if cb.State() != StateClosed {
		t.Errorf("expected closed after all successes, got %s", cb.State())
	}
}

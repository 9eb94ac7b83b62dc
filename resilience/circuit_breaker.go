package resilience

import (
	"errors"
	"sync"
	"time"
)

// ErrCircuitOpen is returned when the breaker rejects a call without
// running it.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// State is the circuit breaker state.
type State int

const (
	// StateClosed passes calls through.
	StateClosed State = iota
	// StateOpen rejects every call.
	StateOpen
	// StateHalfOpen lets a single probe call through to test recovery.
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitBreakerConfig configures a circuit breaker.
type CircuitBreakerConfig struct {
	// Name identifies the guarded dependency.
	Name string

	// MaxFailures is the consecutive failure count that opens the
	// circuit. Default 5.
	MaxFailures int

	// Timeout is how long the circuit stays open before a recovery probe
	// is allowed. Default 30s.
	Timeout time.Duration
}

// CircuitBreaker stops calling a dependency that keeps failing. The CLI
// processors wrap their tool runners in one so a crashing binary is not
// spawned over and over; after Timeout a single probe decides whether the
// circuit closes again.
type CircuitBreaker struct {
	cfg CircuitBreakerConfig

	mu       sync.Mutex
	state    State
	failures int
	openedAt time.Time
	probing  bool
}

// NewCircuitBreaker creates a closed circuit breaker.
func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	if cfg.MaxFailures <= 0 {
		cfg.MaxFailures = 5
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &CircuitBreaker{cfg: cfg, state: StateClosed}
}

// Execute runs fn unless the circuit is open, in which case it returns
// ErrCircuitOpen without calling fn.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	if !cb.begin() {
		return ErrCircuitOpen
	}
	err := fn()
	cb.finish(err)
	return err
}

// State reports the current state, moving an expired open circuit to
// half-open.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.refresh()
	return cb.state
}

// begin admits or rejects a call. In half-open only one probe is admitted
// at a time.
func (cb *CircuitBreaker) begin() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.refresh()

	switch cb.state {
	case StateClosed:
		return true
	case StateHalfOpen:
		if cb.probing {
			return false
		}
		cb.probing = true
		return true
	default:
		return false
	}
}

// finish records a call result and applies state transitions.
func (cb *CircuitBreaker) finish(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if err == nil {
		if cb.state == StateHalfOpen {
			cb.state = StateClosed
		}
		cb.failures = 0
		cb.probing = false
		return
	}

	cb.failures++
	if cb.state == StateHalfOpen || cb.failures >= cb.cfg.MaxFailures {
		cb.state = StateOpen
		cb.openedAt = time.Now()
		cb.failures = 0
		cb.probing = false
	}
}

// refresh moves an open circuit to half-open once its timeout elapses.
// Callers must hold the mutex.
func (cb *CircuitBreaker) refresh() {
	if cb.state == StateOpen && time.Since(cb.openedAt) >= cb.cfg.Timeout {
		cb.state = StateHalfOpen
		cb.probing = false
	}
}

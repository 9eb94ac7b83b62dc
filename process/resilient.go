package process

import (
	"context"

	"github.com/skillsenselab/filevault/resilience"
)

// Runner executes subprocesses through a shared circuit breaker, so a tool
// that keeps crashing fails fast instead of being spawned again and again.
// Breaker state persists across Run calls.
type Runner struct {
	breaker *resilience.CircuitBreaker
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithCircuitBreaker guards every Run call with a circuit breaker.
func WithCircuitBreaker(cfg resilience.CircuitBreakerConfig) RunnerOption {
	return func(r *Runner) { r.breaker = resilience.NewCircuitBreaker(cfg) }
}

// NewRunner creates a Runner. With no options Run calls process.Run directly.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes one subprocess invocation.
func (r *Runner) Run(ctx context.Context, cmd Command) (*Result, error) {
	if r.breaker == nil {
		return Run(ctx, cmd)
	}
	var result *Result
	err := r.breaker.Execute(func() error {
		var runErr error
		result, runErr = Run(ctx, cmd)
		return runErr
	})
	return result, err
}

package resilience

import (
	"context"
	"errors"
	"time"
)

// Bulkhead rejection errors.
var (
	ErrBulkheadFull    = errors.New("bulkhead is full")
	ErrBulkheadTimeout = errors.New("bulkhead wait timeout")
)

// BulkheadConfig bounds how many callers may run a guarded section at once.
type BulkheadConfig struct {
	// Name identifies the guarded section.
	Name string

	// MaxConcurrent is the slot count. Default 10.
	MaxConcurrent int

	// MaxWait is how long Execute blocks for a free slot. Zero means a
	// full bulkhead rejects immediately.
	MaxWait time.Duration
}

// Bulkhead caps concurrent executions of one code path. The gateway uses
// one per upload to bound in-flight multipart parts, capping memory and
// connection use during large transfers.
type Bulkhead struct {
	name    string
	maxWait time.Duration
	slots   chan struct{}
}

// NewBulkhead creates a bulkhead with the configured slot count.
func NewBulkhead(cfg BulkheadConfig) *Bulkhead {
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 10
	}
	return &Bulkhead{
		name:    cfg.Name,
		maxWait: cfg.MaxWait,
		slots:   make(chan struct{}, cfg.MaxConcurrent),
	}
}

// Execute runs fn once a slot is free. It returns ErrBulkheadFull when no
// wait is configured and every slot is taken, ErrBulkheadTimeout when the
// wait expires, or the context error if ctx ends while waiting.
func (b *Bulkhead) Execute(ctx context.Context, fn func() error) error {
	select {
	case b.slots <- struct{}{}:
	default:
		if b.maxWait <= 0 {
			return ErrBulkheadFull
		}
		timer := time.NewTimer(b.maxWait)
		defer timer.Stop()
		select {
		case b.slots <- struct{}{}:
		case <-timer.C:
			return ErrBulkheadTimeout
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	defer func() { <-b.slots }()

	return fn()
}

package resilience

import (
	"context"
	"time"
)

// Guard composes probe guard patterns around a single operation.
//
// The execution order is fixed: bulkhead (outermost) limits concurrency,
// retry re-attempts failures, and timeout (innermost) bounds each attempt.
type Guard struct {
	bulkhead *Bulkhead
	retry    *Retry
	timeout  *Timeout
}

// GuardOption configures a Guard.
type GuardOption func(*Guard)

// NewGuard creates a new probe guard.
func NewGuard(opts ...GuardOption) *Guard {
	g := &Guard{}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// WithBulkhead caps concurrent executions through the guard.
func WithBulkhead(b *Bulkhead) GuardOption {
	return func(g *Guard) {
		g.bulkhead = b
	}
}

// WithRetry re-attempts failed executions.
func WithRetry(r *Retry) GuardOption {
	return func(g *Guard) {
		g.retry = r
	}
}

// WithTimeout bounds each attempt to the given duration.
func WithTimeout(timeout time.Duration) GuardOption {
	return func(g *Guard) {
		g.timeout = NewTimeout(TimeoutConfig{Timeout: timeout})
	}
}

// Execute runs the probe through all configured patterns.
func (g *Guard) Execute(ctx context.Context, op func(context.Context) error) error {
	execute := op

	// Bound each attempt (innermost).
	if g.timeout != nil {
		inner := execute
		execute = func(ctx context.Context) error {
			return g.timeout.Execute(ctx, inner)
		}
	}

	// Retry wraps the bounded attempt.
	if g.retry != nil {
		inner := execute
		execute = func(ctx context.Context) error {
			return g.retry.Execute(ctx, inner)
		}
	}

	// Bulkhead gates admission (outermost).
	if g.bulkhead != nil {
		inner := execute
		execute = func(ctx context.Context) error {
			return g.bulkhead.Execute(ctx, inner)
		}
	}

	return execute(ctx)
}

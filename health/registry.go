package health

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jonwraymond/healthops/observe"
	"github.com/jonwraymond/healthops/resilience"
)

// CheckOptions configures how the registry runs one check.
type CheckOptions struct {
	// Timeout bounds one execution attempt. A probe that does not settle
	// within the timeout is abandoned and reported unhealthy.
	// Default: the registry's DefaultTimeout.
	Timeout time.Duration

	// Retries is the number of re-attempts after an unhealthy result.
	// Default: 0 (single attempt).
	Retries int

	// Critical marks the check as gating readiness. Informational; the
	// aggregation rule treats all checks alike.
	Critical bool

	// Tags label the check for filtering and telemetry.
	Tags []string
}

// RegistryConfig configures the check registry.
type RegistryConfig struct {
	// DefaultTimeout bounds checks registered without an explicit timeout.
	// Default: 10 seconds.
	DefaultTimeout time.Duration

	// Parallel runs a full pass concurrently when true. Results keep
	// registration order either way.
	// Default: true.
	Parallel bool

	// Middleware instruments every execution with a span, check metrics,
	// and a completion log line. One wrapped execution covers the whole
	// guarded run, retries included.
	// Default: nil (uninstrumented).
	Middleware *observe.Middleware
}

type registration struct {
	checker Checker
	opts    CheckOptions
}

// Registry is a named table of independently pluggable health checks.
//
// Registration is last-writer-wins: re-registering a name replaces the
// procedure without error and keeps the original position in iteration
// order. Checks do not depend on each other; this is a flat table, not a
// DAG.
type Registry struct {
	config RegistryConfig

	mu     sync.RWMutex
	checks map[string]registration
	order  []string
}

// NewRegistry creates a new check registry.
func NewRegistry(config ...RegistryConfig) *Registry {
	cfg := RegistryConfig{
		DefaultTimeout: 10 * time.Second,
		Parallel:       true,
	}
	if len(config) > 0 {
		cfg = config[0]
		if cfg.DefaultTimeout <= 0 {
			cfg.DefaultTimeout = 10 * time.Second
		}
	}

	return &Registry{
		config: cfg,
		checks: make(map[string]registration),
		order:  make([]string, 0),
	}
}

// Register stores a checker under a unique name, overwriting any previous
// registration for that name.
func (r *Registry) Register(name string, checker Checker, opts ...CheckOptions) {
	var o CheckOptions
	if len(opts) > 0 {
		o = opts[0]
	}
	if o.Timeout <= 0 {
		o.Timeout = r.config.DefaultTimeout
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.checks[name]; !exists {
		r.order = append(r.order, name)
	}
	r.checks[name] = registration{checker: checker, opts: o}
}

// Unregister removes a checker from the registry.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.checks, name)

	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Names returns the registered check names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Len returns the number of registered checks.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.checks)
}

// Run executes a single named check.
//
// An unknown name is a caller error and returns ErrCheckNotFound. A
// failing check is not an error: the failure is captured in the Result.
func (r *Registry) Run(ctx context.Context, name string) (Result, error) {
	r.mu.RLock()
	reg, ok := r.checks[name]
	r.mu.RUnlock()

	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrCheckNotFound, name)
	}

	return r.execute(ctx, name, reg), nil
}

// RunAll executes every registered check and returns results in
// registration order. Registration during an in-flight pass cannot corrupt
// iteration: the table is snapshotted before the pass starts.
func (r *Registry) RunAll(ctx context.Context) []Result {
	r.mu.RLock()
	names := make([]string, len(r.order))
	copy(names, r.order)
	regs := make([]registration, len(names))
	for i, name := range names {
		regs[i] = r.checks[name]
	}
	r.mu.RUnlock()

	results := make([]Result, len(names))

	if r.config.Parallel {
		var wg sync.WaitGroup
		for i := range names {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i] = r.execute(ctx, names[i], regs[i])
			}(i)
		}
		wg.Wait()
	} else {
		for i := range names {
			results[i] = r.execute(ctx, names[i], regs[i])
		}
	}

	return results
}

// execute runs one check with timing, panic capture, per-attempt timeout,
// and optional retries, composed through a resilience.Guard. It never
// returns a failure to the caller; failures become unhealthy results.
func (r *Registry) execute(ctx context.Context, name string, reg registration) Result {
	start := time.Now()

	// The guard's timeout abandons an attempt that ignores cancellation,
	// so the attempt may still be writing after the guard returns. The
	// mutex serializes those writes; the ctx.Err() check discards results
	// from abandoned attempts.
	var (
		mu      sync.Mutex
		result  Result
		settled bool
	)
	attempt := func(ctx context.Context) error {
		res := safeCheck(ctx, reg.checker)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		mu.Lock()
		result = res
		settled = true
		mu.Unlock()

		if res.Status == StatusUnhealthy {
			if res.Error != nil {
				return res.Error
			}
			return ErrCheckFailed
		}
		return nil
	}

	opts := []resilience.GuardOption{resilience.WithTimeout(reg.opts.Timeout)}
	if reg.opts.Retries > 0 {
		opts = append(opts, resilience.WithRetry(resilience.NewRetry(resilience.RetryConfig{
			MaxAttempts: reg.opts.Retries + 1,
		})))
	}
	guard := resilience.NewGuard(opts...)

	run := func(ctx context.Context, _ observe.CheckMeta) error {
		return guard.Execute(ctx, attempt)
	}
	if r.config.Middleware != nil {
		run = r.config.Middleware.Wrap(run)
	}

	err := run(ctx, observe.CheckMeta{
		Name:     name,
		Critical: reg.opts.Critical,
		Tags:     reg.opts.Tags,
	})

	mu.Lock()
	defer mu.Unlock()

	if errors.Is(err, resilience.ErrTimeout) || !settled {
		// The final attempt never settled; the timeout verdict wins over
		// any earlier attempt's result.
		result = Result{
			Status:  StatusUnhealthy,
			Message: "check timed out",
			Error:   ErrCheckTimeout,
		}
	}

	result.Name = name
	result.Duration = time.Since(start)
	if result.Timestamp.IsZero() {
		result.Timestamp = start
	}
	return result
}

// safeCheck invokes the checker, converting a panic into an unhealthy result.
func safeCheck(ctx context.Context, checker Checker) (result Result) {
	defer func() {
		if rec := recover(); rec != nil {
			result = Result{
				Status:  StatusUnhealthy,
				Message: fmt.Sprintf("check panicked: %v", rec),
				Error:   ErrCheckPanicked,
			}
		}
	}()

	return checker.Check(ctx)
}

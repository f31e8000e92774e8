// Package resilience provides guard patterns for health probes.
//
// Health probes talk to external collaborators (databases, caches, remote
// services) that can hang or flap. The patterns here keep a misbehaving
// probe from taking the monitoring loop down with it:
//
//   - Timeout: aborts a probe that does not settle within a time limit.
//
//   - Retry: re-attempts a flaky probe with configurable backoff
//     (exponential, linear, constant) before declaring it failed.
//
//   - Bulkhead: caps how many probes run against external dependencies at
//     once, so a wide fan-out cannot exhaust connections.
//
// # Usage
//
// Patterns can be used independently or composed with a Guard:
//
//	guard := resilience.NewGuard(
//	    resilience.WithTimeout(10*time.Second),
//	    resilience.WithRetry(resilience.NewRetry(resilience.RetryConfig{
//	        MaxAttempts: 2,
//	    })),
//	)
//
//	err := guard.Execute(ctx, func(ctx context.Context) error {
//	    return probeDatabase(ctx)
//	})
package resilience

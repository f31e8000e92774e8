// Package health provides the check registry, runner, and aggregation
// primitives of the monitoring engine.
//
// A Checker is a single named probe producing a bounded Status: Healthy,
// Degraded, or Unhealthy. The Registry stores checkers under unique names
// and runs them with timing, panic capture, and an optional per-check
// timeout, so a failing or hung probe becomes data instead of taking the
// monitoring loop down.
//
// # Basic Usage
//
//	reg := health.NewRegistry()
//	reg.Register("memory", health.NewMemoryChecker(sensors, health.Bounds{
//	    Warning:  80,
//	    Critical: 90,
//	}))
//
//	results := reg.RunAll(ctx)
//	overall := health.Aggregate(results)
//
// # Threshold Classification
//
// Built-in checks that compare a sampled number against configured bounds
// share Classify, keeping threshold semantics centralized:
//
//	status := health.Classify(87.5, health.Bounds{Warning: 80, Critical: 90})
//	// status == health.StatusDegraded
package health

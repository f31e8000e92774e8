package health

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonwraymond/healthops/cache"
	"github.com/jonwraymond/healthops/resilience"
	"github.com/jonwraymond/healthops/sensors"
)

// ProbeFunc is a connectivity probe against an external collaborator.
type ProbeFunc func(ctx context.Context) error

// DatabaseChecker probes the persistence collaborator.
//
// The probe is expected to perform a full round trip (write, read back,
// delete) so a read-only replica stuck in a partial outage still fails it.
type DatabaseChecker struct {
	probe ProbeFunc
}

// NewDatabaseChecker creates the database check.
func NewDatabaseChecker(probe ProbeFunc) *DatabaseChecker {
	return &DatabaseChecker{probe: probe}
}

// Name returns "database".
func (c *DatabaseChecker) Name() string {
	return "database"
}

// Check performs the database round-trip probe.
func (c *DatabaseChecker) Check(ctx context.Context) Result {
	start := time.Now()
	err := c.probe(ctx)
	elapsed := time.Since(start)

	details := map[string]any{
		"response_time_ms": float64(elapsed.Milliseconds()),
	}

	if err != nil {
		return Unhealthy("database probe failed", err).WithDetails(details)
	}
	return Healthy(fmt.Sprintf("database round trip in %v", elapsed)).WithDetails(details)
}

// CacheChecker probes the cache collaborator with a set/get/delete round trip.
type CacheChecker struct {
	cache cache.Cache
}

// NewCacheChecker creates the cache check.
func NewCacheChecker(c cache.Cache) *CacheChecker {
	return &CacheChecker{cache: c}
}

// Name returns "cache".
func (c *CacheChecker) Name() string {
	return "cache"
}

// Check performs the cache round-trip probe.
func (c *CacheChecker) Check(ctx context.Context) Result {
	key := "health:probe:" + uuid.NewString()
	want := []byte("ok")
	start := time.Now()

	if err := c.cache.Set(ctx, key, want, time.Minute); err != nil {
		return Unhealthy("cache set failed", err)
	}

	got, ok := c.cache.Get(ctx, key)
	if !ok {
		return Unhealthy("cache read-back miss", ErrCheckFailed)
	}
	if string(got) != string(want) {
		return Unhealthy("cache read-back mismatch", ErrCheckFailed)
	}

	if err := c.cache.Delete(ctx, key); err != nil {
		return Unhealthy("cache delete failed", err)
	}

	elapsed := time.Since(start)
	return Healthy(fmt.Sprintf("cache round trip in %v", elapsed)).WithDetails(map[string]any{
		"response_time_ms": float64(elapsed.Milliseconds()),
	})
}

// MemoryChecker classifies the current memory reading against bounds.
type MemoryChecker struct {
	sensors sensors.Sensors
	bounds  Bounds
}

// NewMemoryChecker creates the memory check. Bounds are percentages 0..100.
func NewMemoryChecker(s sensors.Sensors, bounds Bounds) *MemoryChecker {
	return &MemoryChecker{sensors: s, bounds: bounds}
}

// Name returns "memory".
func (c *MemoryChecker) Name() string {
	return "memory"
}

// Check samples memory and classifies it.
func (c *MemoryChecker) Check(ctx context.Context) Result {
	select {
	case <-ctx.Done():
		return Unhealthy("context cancelled", ctx.Err())
	default:
	}

	sample := c.sensors.Memory()
	details := map[string]any{
		"used_bytes":    sample.Used,
		"total_bytes":   sample.Total,
		"free_bytes":    sample.Free,
		"usage_percent": sample.UsagePercent,
	}

	switch Classify(sample.UsagePercent, c.bounds) {
	case StatusUnhealthy:
		return Unhealthy(
			fmt.Sprintf("memory usage critical: %.1f%%", sample.UsagePercent),
			ErrCheckFailed,
		).WithDetails(details)
	case StatusDegraded:
		return Degraded(
			fmt.Sprintf("memory usage high: %.1f%%", sample.UsagePercent),
		).WithDetails(details)
	default:
		return Healthy(
			fmt.Sprintf("memory usage normal: %.1f%%", sample.UsagePercent),
		).WithDetails(details)
	}
}

// CPUChecker classifies the current CPU reading against bounds.
type CPUChecker struct {
	sensors sensors.Sensors
	bounds  Bounds
}

// NewCPUChecker creates the CPU check. Bounds are percentages 0..100.
func NewCPUChecker(s sensors.Sensors, bounds Bounds) *CPUChecker {
	return &CPUChecker{sensors: s, bounds: bounds}
}

// Name returns "cpu".
func (c *CPUChecker) Name() string {
	return "cpu"
}

// Check samples CPU load and classifies it.
func (c *CPUChecker) Check(ctx context.Context) Result {
	select {
	case <-ctx.Done():
		return Unhealthy("context cancelled", ctx.Err())
	default:
	}

	sample := c.sensors.CPU()
	details := map[string]any{
		"usage_percent": sample.UsagePercent,
		"cores":         sample.Cores,
		"load_average":  sample.LoadAverage,
	}

	switch Classify(sample.UsagePercent, c.bounds) {
	case StatusUnhealthy:
		return Unhealthy(
			fmt.Sprintf("cpu usage critical: %.1f%%", sample.UsagePercent),
			ErrCheckFailed,
		).WithDetails(details)
	case StatusDegraded:
		return Degraded(
			fmt.Sprintf("cpu usage high: %.1f%%", sample.UsagePercent),
		).WithDetails(details)
	default:
		return Healthy(
			fmt.Sprintf("cpu usage normal: %.1f%%", sample.UsagePercent),
		).WithDetails(details)
	}
}

// ExternalService declares one third-party dependency to probe.
type ExternalService struct {
	Name  string
	Probe ProbeFunc
}

// ExternalServicesChecker fans out probes over declared third-party
// dependencies. All probes run concurrently and the check waits for every
// one to settle, so a slow dependency never masks the state of the others.
type ExternalServicesChecker struct {
	services []ExternalService
	bulkhead *resilience.Bulkhead
}

// NewExternalServicesChecker creates the external services check.
// maxConcurrent caps the fan-out; <=0 uses the bulkhead default.
func NewExternalServicesChecker(services []ExternalService, maxConcurrent int) *ExternalServicesChecker {
	return &ExternalServicesChecker{
		services: services,
		bulkhead: resilience.NewBulkhead(resilience.BulkheadConfig{
			MaxConcurrent: maxConcurrent,
			MaxWait:       30 * time.Second,
		}),
	}
}

// Name returns "external-services".
func (c *ExternalServicesChecker) Name() string {
	return "external-services"
}

// Check probes every declared service. Degraded if a subset fails,
// unhealthy if all fail.
func (c *ExternalServicesChecker) Check(ctx context.Context) Result {
	if len(c.services) == 0 {
		return Healthy("no external services declared")
	}

	type outcome struct {
		name    string
		err     error
		elapsed time.Duration
	}

	outcomes := make([]outcome, len(c.services))
	var wg sync.WaitGroup

	for i, svc := range c.services {
		wg.Add(1)
		go func(i int, svc ExternalService) {
			defer wg.Done()
			start := time.Now()
			err := c.bulkhead.Execute(ctx, svc.Probe)
			outcomes[i] = outcome{name: svc.Name, err: err, elapsed: time.Since(start)}
		}(i, svc)
	}
	wg.Wait()

	details := make(map[string]any, len(outcomes))
	failed := 0
	for _, o := range outcomes {
		entry := map[string]any{
			"response_time_ms": float64(o.elapsed.Milliseconds()),
		}
		if o.err != nil {
			failed++
			entry["status"] = StatusUnhealthy.String()
			entry["error"] = o.err.Error()
		} else {
			entry["status"] = StatusHealthy.String()
		}
		details[o.name] = entry
	}

	switch {
	case failed == 0:
		return Healthy(fmt.Sprintf("all %d external services reachable", len(outcomes))).WithDetails(details)
	case failed == len(outcomes):
		return Unhealthy("all external services unreachable", ErrCheckFailed).WithDetails(details)
	default:
		return Degraded(fmt.Sprintf("%d of %d external services unreachable", failed, len(outcomes))).WithDetails(details)
	}
}

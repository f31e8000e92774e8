package report

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonwraymond/healthops/alert"
	"github.com/jonwraymond/healthops/cache"
	"github.com/jonwraymond/healthops/health"
	"github.com/jonwraymond/healthops/sensors"
)

// DefaultInterval is the assumed gap until the next scheduled assessment.
const DefaultInterval = 5 * time.Minute

// probeWindow caps how many recent probe outcomes feed the rolling error
// rate and availability figures.
const probeWindow = 100

// Pinger is the persistence probe surface the builder needs.
type Pinger interface {
	// Ping performs a full round-trip probe against the backend.
	Ping(ctx context.Context) error
}

// SnapshotFunc produces a fresh detailed pass of check results.
type SnapshotFunc func(ctx context.Context) ([]health.Result, error)

// QueueFunc reports the state of monitored queues. Optional.
type QueueFunc func(ctx context.Context) ([]QueueHealth, error)

// Config wires the builder's collaborators.
type Config struct {
	Sensors          sensors.Sensors
	Database         Pinger
	Cache            cache.Cache
	ExternalServices []health.ExternalService
	Queues           QueueFunc
	Snapshot         SnapshotFunc
	Alerts           *alert.Manager
	Repository       Repository
	Thresholds       health.Thresholds

	// Interval sets Report.NextCheck. Default: DefaultInterval.
	Interval time.Duration
}

// Builder assembles reports from a concurrent gather over every
// collaborator. It keeps a rolling window of probe outcomes per
// dependency so successive builds report rates, not just the last verdict.
type Builder struct {
	config Config
	now    func() time.Time

	mu          sync.Mutex
	dbOutcomes  []bool
	svcOutcomes map[string][]bool
}

// NewBuilder creates a report builder.
func NewBuilder(config Config) *Builder {
	if config.Interval <= 0 {
		config.Interval = DefaultInterval
	}
	return &Builder{
		config:      config,
		now:         time.Now,
		svcOutcomes: make(map[string][]bool),
	}
}

// appendOutcome adds one probe outcome to a window and returns the updated
// window with its success fraction.
func appendOutcome(window []bool, ok bool) ([]bool, float64) {
	window = append(window, ok)
	if len(window) > probeWindow {
		window = window[len(window)-probeWindow:]
	}
	successes := 0
	for _, p := range window {
		if p {
			successes++
		}
	}
	return window, float64(successes) / float64(len(window))
}

// Build gathers system metrics, dependency probes, and a fresh check pass
// concurrently, raises alerts for breached dimensions, derives
// recommendations, and persists the assembled report.
//
// Dependency probe failures are recorded in the report, not returned as
// errors; only an unusable snapshot or a failed persist fails the build.
func (b *Builder) Build(ctx context.Context) (Report, error) {
	var (
		memory   sensors.MemorySample
		cpu      sensors.CPUSample
		process  sensors.ProcessSample
		database DatabaseHealth
		cacheDep CacheHealth
		external []ExternalServiceHealth
		queues   []QueueHealth
		checks   []health.Result
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		memory = b.config.Sensors.Memory()
		cpu = b.config.Sensors.CPU()
		process = b.config.Sensors.Process()
		return nil
	})

	g.Go(func() error {
		database = b.probeDatabase(gctx)
		return nil
	})

	g.Go(func() error {
		cacheDep = b.probeCache(gctx)
		return nil
	})

	g.Go(func() error {
		external = b.probeExternal(gctx)
		return nil
	})

	if b.config.Queues != nil {
		g.Go(func() error {
			qs, err := b.config.Queues(gctx)
			if err != nil {
				return nil
			}
			queues = qs
			return nil
		})
	}

	g.Go(func() error {
		results, err := b.config.Snapshot(gctx)
		if err != nil {
			return fmt.Errorf("report: snapshot: %w", err)
		}
		checks = results
		return nil
	})

	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	memoryStatus := health.Classify(memory.UsagePercent, b.config.Thresholds.MemoryUsage)
	cpuStatus := health.Classify(cpu.UsagePercent, b.config.Thresholds.CPUUsage)

	if _, err := b.config.Alerts.Evaluate(ctx, alert.Facts{
		MemoryPercent: memory.UsagePercent,
		CPUPercent:    cpu.UsagePercent,
		DatabaseUp:    database.Connected,
		CacheUp:       cacheDep.Connected,
	}); err != nil {
		return Report{}, fmt.Errorf("report: evaluate alerts: %w", err)
	}

	resolved := false
	open, err := b.config.Alerts.Query(ctx, alert.Filter{Resolved: &resolved})
	if err != nil {
		return Report{}, fmt.Errorf("report: query alerts: %w", err)
	}

	now := b.now()
	r := Report{
		ID:        uuid.NewString(),
		Timestamp: now,
		System: SystemHealth{
			Memory:       memory,
			CPU:          cpu,
			Process:      process,
			MemoryStatus: memoryStatus,
			CPUStatus:    cpuStatus,
		},
		Database:         database,
		Cache:            cacheDep,
		ExternalServices: external,
		Queues:           queues,
		Checks:           checks,
		Alerts:           open,
		NextCheck:        now.Add(b.config.Interval),
	}

	r.OverallStatus = overallStatus(r)
	r.Recommendations = recommendations(r, b.config.Thresholds)

	if err := b.config.Repository.SaveReport(ctx, r); err != nil {
		return Report{}, fmt.Errorf("report: save: %w", err)
	}

	return r, nil
}

func (b *Builder) probeDatabase(ctx context.Context) DatabaseHealth {
	start := time.Now()
	err := b.config.Database.Ping(ctx)
	elapsed := time.Since(start)

	b.mu.Lock()
	var successRate float64
	b.dbOutcomes, successRate = appendOutcome(b.dbOutcomes, err == nil)
	b.mu.Unlock()
	errorRate := 1 - successRate

	if err != nil {
		return DatabaseHealth{
			Connected:    false,
			ResponseTime: elapsed,
			ErrorRate:    errorRate,
			Status:       health.StatusUnhealthy,
		}
	}

	// A reachable database can still be flaky. The verdict is the worse
	// of the latency and rolling error rate classifications.
	status := health.Aggregate([]health.Result{
		{Status: health.Classify(float64(elapsed.Milliseconds()), b.config.Thresholds.ResponseTime)},
		{Status: health.Classify(errorRate, b.config.Thresholds.ErrorRate)},
	})

	return DatabaseHealth{
		Connected:    true,
		ResponseTime: elapsed,
		ErrorRate:    errorRate,
		Status:       status,
	}
}

func (b *Builder) probeCache(ctx context.Context) CacheHealth {
	key := "report:probe:" + uuid.NewString()
	want := []byte("ok")
	start := time.Now()

	if err := b.config.Cache.Set(ctx, key, want, time.Minute); err != nil {
		return CacheHealth{Status: health.StatusUnhealthy, ResponseTime: time.Since(start)}
	}

	got, ok := b.config.Cache.Get(ctx, key)
	hit := ok && string(got) == string(want)
	_ = b.config.Cache.Delete(ctx, key)
	elapsed := time.Since(start)

	if !hit {
		return CacheHealth{Status: health.StatusUnhealthy, ResponseTime: elapsed}
	}

	return CacheHealth{
		Connected:    true,
		HitRate:      1,
		ResponseTime: elapsed,
		Status:       health.StatusHealthy,
	}
}

func (b *Builder) probeExternal(ctx context.Context) []ExternalServiceHealth {
	if len(b.config.ExternalServices) == 0 {
		return nil
	}

	out := make([]ExternalServiceHealth, len(b.config.ExternalServices))
	g, gctx := errgroup.WithContext(ctx)

	for i, svc := range b.config.ExternalServices {
		i, svc := i, svc
		g.Go(func() error {
			start := time.Now()
			err := svc.Probe(gctx)
			elapsed := time.Since(start)

			b.mu.Lock()
			window, availability := appendOutcome(b.svcOutcomes[svc.Name], err == nil)
			b.svcOutcomes[svc.Name] = window
			b.mu.Unlock()

			out[i] = ExternalServiceHealth{
				Name:         svc.Name,
				ResponseTime: elapsed,
				Availability: availability * 100,
				Status:       health.ClassifyInverse(availability, b.config.Thresholds.Availability),
			}
			return nil
		})
	}
	_ = g.Wait()

	return out
}

// overallStatus folds the check pass and every dependency verdict into one
// status with the usual unhealthy > degraded > healthy precedence.
func overallStatus(r Report) health.Status {
	statuses := make([]health.Result, 0, len(r.Checks)+len(r.ExternalServices)+len(r.Queues)+4)
	statuses = append(statuses, r.Checks...)
	statuses = append(statuses,
		health.Result{Status: r.System.MemoryStatus},
		health.Result{Status: r.System.CPUStatus},
		health.Result{Status: r.Database.Status},
		health.Result{Status: r.Cache.Status},
	)
	for _, e := range r.ExternalServices {
		statuses = append(statuses, health.Result{Status: e.Status})
	}
	for _, q := range r.Queues {
		statuses = append(statuses, health.Result{Status: q.Status})
	}
	return health.Aggregate(statuses)
}

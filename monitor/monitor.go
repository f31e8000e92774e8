package monitor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jonwraymond/healthops/alert"
	"github.com/jonwraymond/healthops/cache"
	"github.com/jonwraymond/healthops/health"
	"github.com/jonwraymond/healthops/history"
	"github.com/jonwraymond/healthops/observe"
	"github.com/jonwraymond/healthops/report"
	"github.com/jonwraymond/healthops/sensors"
	"github.com/jonwraymond/healthops/storage"
)

// Defaults for the scheduler and status cache.
const (
	DefaultStatusTTL         = time.Minute
	DefaultMonitorInterval   = 5 * time.Minute
	DefaultRetentionInterval = 24 * time.Hour
	DefaultRetentionWindow   = 30 * 24 * time.Hour
)

// statusCacheKey holds the cached basic snapshot.
const statusCacheKey = "monitor:status"

// ErrAlreadyStarted indicates Start was called on a running monitor.
var ErrAlreadyStarted = errors.New("monitor: already started")

// errCacheRoundTrip indicates the readiness cache probe lost its value.
var errCacheRoundTrip = errors.New("monitor: cache round trip failed")

// Config wires the monitor's collaborators. Zero-valued durations fall
// back to the package defaults.
type Config struct {
	Version     string
	Environment string

	Registry   *health.Registry
	Thresholds health.Thresholds
	Repository storage.Repository
	Cache      cache.Cache
	Sensors    sensors.Sensors
	Alerts     *alert.Manager
	History    *history.Store
	Reports    *report.Builder

	Logger  observe.Logger
	Metrics observe.Metrics

	StatusTTL         time.Duration
	MonitorInterval   time.Duration
	RetentionInterval time.Duration
	RetentionWindow   time.Duration
}

// Meta carries snapshot-level facts about the process itself.
type Meta struct {
	Version     string                `json:"version"`
	Environment string                `json:"environment"`
	Uptime      time.Duration         `json:"uptime"`
	Memory      sensors.MemorySample  `json:"memory"`
	CPU         sensors.CPUSample     `json:"cpu"`
	Process     sensors.ProcessSample `json:"process"`
}

// Snapshot is the engine's answer to "how healthy are we right now".
type Snapshot struct {
	Status    health.Status   `json:"status"`
	Timestamp time.Time       `json:"timestamp"`
	Checks    []health.Result `json:"checks"`
	Meta      Meta            `json:"meta"`
}

// Monitor is the engine facade.
type Monitor struct {
	config    Config
	startedAt time.Time

	sf singleflight.Group

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

// New creates a monitor. The registry, repository, cache, sensors, alert
// manager, and history store must be non-nil; reports and telemetry are
// optional.
func New(config Config) *Monitor {
	if config.StatusTTL <= 0 {
		config.StatusTTL = DefaultStatusTTL
	}
	if config.MonitorInterval <= 0 {
		config.MonitorInterval = DefaultMonitorInterval
	}
	if config.RetentionInterval <= 0 {
		config.RetentionInterval = DefaultRetentionInterval
	}
	if config.RetentionWindow <= 0 {
		config.RetentionWindow = DefaultRetentionWindow
	}
	if config.Logger == nil {
		config.Logger = observe.NoopLogger()
	}
	if config.Metrics == nil {
		config.Metrics = observe.NoopMetrics()
	}

	return &Monitor{
		config:    config,
		startedAt: time.Now(),
	}
}

// GetStatus returns the current health snapshot.
//
// A basic snapshot is served from cache for the configured TTL, with
// concurrent cold-cache callers collapsed into one pass. A detailed
// snapshot always runs a fresh pass, appends it to history, and evaluates
// the alerting rule.
func (m *Monitor) GetStatus(ctx context.Context, detailed bool) (Snapshot, error) {
	if detailed {
		return m.runPass(ctx)
	}

	if data, ok := m.config.Cache.Get(ctx, statusCacheKey); ok {
		var snap Snapshot
		if err := json.Unmarshal(data, &snap); err == nil {
			return snap, nil
		}
		// Corrupt cache entry: fall through to a fresh pass.
		_ = m.config.Cache.Delete(ctx, statusCacheKey)
	}

	v, err, _ := m.sf.Do(statusCacheKey, func() (any, error) {
		snap := m.snapshot(ctx)

		if data, err := json.Marshal(snap); err == nil {
			_ = m.config.Cache.Set(ctx, statusCacheKey, data, m.config.StatusTTL)
		}
		return snap, nil
	})
	if err != nil {
		return Snapshot{}, err
	}
	return v.(Snapshot), nil
}

// snapshot executes one check pass and assembles the result. It does not
// touch history or alerting.
func (m *Monitor) snapshot(ctx context.Context) Snapshot {
	start := time.Now()
	results := m.config.Registry.RunAll(ctx)
	status := health.Aggregate(results)

	m.config.Metrics.RecordPass(ctx, status.String(), time.Since(start))

	return Snapshot{
		Status:    status,
		Timestamp: start,
		Checks:    results,
		Meta: Meta{
			Version:     m.config.Version,
			Environment: m.config.Environment,
			Uptime:      time.Since(m.startedAt),
			Memory:      m.config.Sensors.Memory(),
			CPU:         m.config.Sensors.CPU(),
			Process:     m.config.Sensors.Process(),
		},
	}
}

// runPass executes a detailed pass: fresh snapshot, alert evaluation, and
// a history append.
func (m *Monitor) runPass(ctx context.Context) (Snapshot, error) {
	snap := m.snapshot(ctx)

	raised, err := m.config.Alerts.Evaluate(ctx, alert.Facts{
		MemoryPercent: snap.Meta.Memory.UsagePercent,
		CPUPercent:    snap.Meta.CPU.UsagePercent,
		DatabaseUp:    checkUp(snap.Checks, "database"),
		CacheUp:       checkUp(snap.Checks, "cache"),
	})
	if err != nil {
		return snap, fmt.Errorf("monitor: evaluate alerts: %w", err)
	}
	for _, a := range raised {
		m.config.Metrics.RecordAlert(ctx, string(a.Severity))
	}

	entry := history.NewEntry(snap.Checks, raised)
	entry.Timestamp = snap.Timestamp
	if err := m.config.History.Append(ctx, entry); err != nil {
		return snap, fmt.Errorf("monitor: append history: %w", err)
	}

	return snap, nil
}

// checkUp reports whether the named check is present and not unhealthy.
// An unregistered check does not count as a failing dependency.
func checkUp(results []health.Result, name string) bool {
	for _, r := range results {
		if r.Name == name {
			return r.Status != health.StatusUnhealthy
		}
	}
	return true
}

// RunCheck executes a single named check.
func (m *Monitor) RunCheck(ctx context.Context, name string) (health.Result, error) {
	return m.config.Registry.Run(ctx, name)
}

// RegisterCheck adds or replaces a named check.
func (m *Monitor) RegisterCheck(name string, checker health.Checker, opts ...health.CheckOptions) {
	m.config.Registry.Register(name, checker, opts...)
}

// GetStats returns aggregated history statistics for the window.
func (m *Monitor) GetStats(ctx context.Context, start, end time.Time) (history.Stats, error) {
	return m.config.History.Stats(ctx, start, end)
}

// GetHistory returns recorded entries in the window, newest first.
func (m *Monitor) GetHistory(ctx context.Context, start, end time.Time, service string) ([]history.Entry, error) {
	return m.config.History.Query(ctx, start, end, service)
}

// QueryAlerts returns alerts matching the filter, newest first.
func (m *Monitor) QueryAlerts(ctx context.Context, filter alert.Filter) ([]alert.Alert, error) {
	return m.config.Alerts.Query(ctx, filter)
}

// AcknowledgeAlert marks an alert acknowledged by the actor.
func (m *Monitor) AcknowledgeAlert(ctx context.Context, alertID, actor string) (alert.Alert, error) {
	return m.config.Alerts.Acknowledge(ctx, alertID, actor)
}

// ResolveAlert marks an alert resolved by the actor.
func (m *Monitor) ResolveAlert(ctx context.Context, alertID, actor string) (alert.Alert, error) {
	return m.config.Alerts.Resolve(ctx, alertID, actor)
}

// BuildReport assembles and persists a full health report.
func (m *Monitor) BuildReport(ctx context.Context) (report.Report, error) {
	if m.config.Reports == nil {
		return report.Report{}, errors.New("monitor: report builder not configured")
	}
	return m.config.Reports.Build(ctx)
}

package monitor

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jonwraymond/healthops/sensors"
)

// ReadinessVerdict reports whether the engine can serve traffic. Probes
// never error; failure detail lands in Components.
type ReadinessVerdict struct {
	Ready      bool              `json:"ready"`
	Components map[string]string `json:"components"`
	Timestamp  time.Time         `json:"timestamp"`
}

// LivenessVerdict reports that the process is running at all.
type LivenessVerdict struct {
	Alive     bool          `json:"alive"`
	Uptime    time.Duration `json:"uptime"`
	Timestamp time.Time     `json:"timestamp"`
}

// SystemMetrics is a point-in-time reading of every sensor.
type SystemMetrics struct {
	Memory    sensors.MemorySample  `json:"memory"`
	CPU       sensors.CPUSample     `json:"cpu"`
	Disk      sensors.DiskSample    `json:"disk"`
	Network   sensors.NetworkSample `json:"network"`
	Process   sensors.ProcessSample `json:"process"`
	Timestamp time.Time             `json:"timestamp"`
}

// Readiness probes the database and cache. Not ready when either fails.
func (m *Monitor) Readiness(ctx context.Context) ReadinessVerdict {
	verdict := ReadinessVerdict{
		Ready:      true,
		Components: make(map[string]string, 2),
		Timestamp:  time.Now(),
	}

	if err := m.config.Repository.Ping(ctx); err != nil {
		verdict.Ready = false
		verdict.Components["database"] = err.Error()
	} else {
		verdict.Components["database"] = "ok"
	}

	if err := m.probeCache(ctx); err != nil {
		verdict.Ready = false
		verdict.Components["cache"] = err.Error()
	} else {
		verdict.Components["cache"] = "ok"
	}

	return verdict
}

// Liveness reports the process is up. Always alive by construction; the
// point is the uptime and a 200 from the handler that wraps this.
func (m *Monitor) Liveness(ctx context.Context) LivenessVerdict {
	return LivenessVerdict{
		Alive:     true,
		Uptime:    time.Since(m.startedAt),
		Timestamp: time.Now(),
	}
}

// Metrics returns a point-in-time reading of every sensor.
func (m *Monitor) Metrics(ctx context.Context) SystemMetrics {
	return SystemMetrics{
		Memory:    m.config.Sensors.Memory(),
		CPU:       m.config.Sensors.CPU(),
		Disk:      m.config.Sensors.Disk(),
		Network:   m.config.Sensors.Network(),
		Process:   m.config.Sensors.Process(),
		Timestamp: time.Now(),
	}
}

// probeCache does a set/get/delete round trip against the cache.
func (m *Monitor) probeCache(ctx context.Context) error {
	key := "monitor:ready:" + uuid.NewString()
	want := []byte("ok")

	if err := m.config.Cache.Set(ctx, key, want, time.Minute); err != nil {
		return err
	}
	got, ok := m.config.Cache.Get(ctx, key)
	if !ok || string(got) != string(want) {
		return errCacheRoundTrip
	}
	return m.config.Cache.Delete(ctx, key)
}

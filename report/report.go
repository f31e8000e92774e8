package report

import (
	"context"
	"time"

	"github.com/jonwraymond/healthops/alert"
	"github.com/jonwraymond/healthops/health"
	"github.com/jonwraymond/healthops/sensors"
)

// Report is one full health assessment.
type Report struct {
	ID            string        `json:"id"`
	Timestamp     time.Time     `json:"timestamp"`
	OverallStatus health.Status `json:"overall_status"`

	System           SystemHealth            `json:"system"`
	Database         DatabaseHealth          `json:"database"`
	Cache            CacheHealth             `json:"cache"`
	ExternalServices []ExternalServiceHealth `json:"external_services,omitempty"`
	Queues           []QueueHealth           `json:"queues,omitempty"`

	Checks []health.Result `json:"checks"`
	Alerts []alert.Alert   `json:"alerts,omitempty"`

	Recommendations []string  `json:"recommendations,omitempty"`
	NextCheck       time.Time `json:"next_check"`
}

// SystemHealth carries the resource readings the report was built from.
type SystemHealth struct {
	Memory       sensors.MemorySample  `json:"memory"`
	CPU          sensors.CPUSample     `json:"cpu"`
	Process      sensors.ProcessSample `json:"process"`
	MemoryStatus health.Status         `json:"memory_status"`
	CPUStatus    health.Status         `json:"cpu_status"`
}

// DatabaseHealth describes the persistence dependency.
type DatabaseHealth struct {
	Connected    bool          `json:"connected"`
	ResponseTime time.Duration `json:"response_time"`
	ErrorRate    float64       `json:"error_rate"`
	Status       health.Status `json:"status"`
}

// CacheHealth describes the cache dependency. HitRate is the probe
// round-trip success rate, not a backend statistic.
type CacheHealth struct {
	Connected    bool          `json:"connected"`
	HitRate      float64       `json:"hit_rate"`
	ResponseTime time.Duration `json:"response_time"`
	Status       health.Status `json:"status"`
}

// ExternalServiceHealth describes one declared external dependency.
type ExternalServiceHealth struct {
	Name         string        `json:"name"`
	Status       health.Status `json:"status"`
	Availability float64       `json:"availability"`
	ResponseTime time.Duration `json:"response_time"`
}

// QueueHealth describes one message queue.
type QueueHealth struct {
	Name      string        `json:"name"`
	Depth     int           `json:"depth"`
	Consumers int           `json:"consumers"`
	Status    health.Status `json:"status"`
}

// Repository is the persistence surface the builder writes through.
type Repository interface {
	// SaveReport stores one built report.
	SaveReport(ctx context.Context, r Report) error
}

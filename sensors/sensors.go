package sensors

import "time"

// MemorySample is a point-in-time memory reading.
type MemorySample struct {
	// Used is the number of bytes in use.
	Used uint64 `json:"used"`

	// Total is the total number of bytes available to the process.
	Total uint64 `json:"total"`

	// Free is Total minus Used.
	Free uint64 `json:"free"`

	// UsagePercent is Used/Total expressed as 0..100.
	UsagePercent float64 `json:"usage_percent"`
}

// CPUSample is a point-in-time CPU reading.
type CPUSample struct {
	// UsagePercent is the estimated CPU usage as 0..100.
	UsagePercent float64 `json:"usage_percent"`

	// Cores is the number of logical CPUs.
	Cores int `json:"cores"`

	// LoadAverage is the 1-minute load average where available.
	LoadAverage float64 `json:"load_average"`
}

// DiskSample is a point-in-time disk reading.
type DiskSample struct {
	Used         uint64  `json:"used"`
	Total        uint64  `json:"total"`
	Free         uint64  `json:"free"`
	UsagePercent float64 `json:"usage_percent"`
}

// NetworkSample is a point-in-time network reading.
type NetworkSample struct {
	BytesSent       uint64 `json:"bytes_sent"`
	BytesReceived   uint64 `json:"bytes_received"`
	ActiveConns     int    `json:"active_connections"`
	ErrorsPerMinute int    `json:"errors_per_minute"`
}

// ProcessSample contains process-level facts.
type ProcessSample struct {
	PID        int           `json:"pid"`
	Uptime     time.Duration `json:"uptime"`
	Goroutines int           `json:"goroutines"`
	GCPauses   uint32        `json:"gc_pauses"`
}

// Sensors is the collaborator interface the engine samples from.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: sampling is best-effort; implementations return zero-valued
//   samples rather than failing.
type Sensors interface {
	// Memory returns the current memory reading.
	Memory() MemorySample

	// CPU returns the current CPU reading.
	CPU() CPUSample

	// Disk returns the current disk reading.
	Disk() DiskSample

	// Network returns the current network reading.
	Network() NetworkSample

	// Process returns process-level facts.
	Process() ProcessSample
}

package sensors

import (
	"os"
	"runtime"
	"time"
)

// RuntimeSensors samples the Go runtime.
//
// Memory usage is reported against the runtime's obtained-from-OS total,
// which tracks the process heap rather than host memory. CPU usage is
// approximated from goroutine pressure since the runtime exposes no direct
// utilization figure; deployments that need host-level numbers should wrap
// an OS-specific implementation.
type RuntimeSensors struct {
	startedAt time.Time
}

// NewRuntimeSensors creates runtime-backed sensors.
func NewRuntimeSensors() *RuntimeSensors {
	return &RuntimeSensors{startedAt: time.Now()}
}

// Memory returns the current memory reading from runtime.MemStats.
func (s *RuntimeSensors) Memory() MemorySample {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)

	total := stats.Sys
	used := stats.Alloc

	sample := MemorySample{
		Used:  used,
		Total: total,
	}
	if total > used {
		sample.Free = total - used
	}
	if total > 0 {
		sample.UsagePercent = float64(used) / float64(total) * 100
	}
	return sample
}

// CPU returns the current CPU reading.
func (s *RuntimeSensors) CPU() CPUSample {
	cores := runtime.NumCPU()

	// Goroutines-per-core is a coarse stand-in for utilization.
	goroutines := runtime.NumGoroutine()
	usage := float64(goroutines) / float64(cores)
	if usage > 100 {
		usage = 100
	}

	return CPUSample{
		UsagePercent: usage,
		Cores:        cores,
		LoadAverage:  float64(goroutines) / float64(cores),
	}
}

// Disk returns a zero-valued reading; the runtime has no disk visibility.
func (s *RuntimeSensors) Disk() DiskSample {
	return DiskSample{}
}

// Network returns a zero-valued reading; the runtime has no network visibility.
func (s *RuntimeSensors) Network() NetworkSample {
	return NetworkSample{}
}

// Process returns process-level facts.
func (s *RuntimeSensors) Process() ProcessSample {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)

	return ProcessSample{
		PID:        os.Getpid(),
		Uptime:     time.Since(s.startedAt),
		Goroutines: runtime.NumGoroutine(),
		GCPauses:   stats.NumGC,
	}
}

// Ensure RuntimeSensors implements Sensors
var _ Sensors = (*RuntimeSensors)(nil)

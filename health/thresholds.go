package health

// Bounds is a (warning, critical) threshold pair for one metric dimension.
type Bounds struct {
	Warning  float64 `json:"warning"`
	Critical float64 `json:"critical"`
}

// Thresholds is the process-wide threshold configuration. Read-only at
// runtime; a reload contract is out of scope.
type Thresholds struct {
	// ResponseTime bounds are in milliseconds.
	ResponseTime Bounds `json:"response_time"`

	// ErrorRate bounds are fractions 0..1.
	ErrorRate Bounds `json:"error_rate"`

	// Availability bounds are fractions 0..1; lower is worse.
	Availability Bounds `json:"availability"`

	// MemoryUsage bounds are percentages 0..100.
	MemoryUsage Bounds `json:"memory_usage"`

	// CPUUsage bounds are percentages 0..100.
	CPUUsage Bounds `json:"cpu_usage"`
}

// DefaultThresholds returns the default threshold configuration.
func DefaultThresholds() Thresholds {
	return Thresholds{
		ResponseTime: Bounds{Warning: 1000, Critical: 5000},
		ErrorRate:    Bounds{Warning: 0.05, Critical: 0.10},
		Availability: Bounds{Warning: 0.99, Critical: 0.95},
		MemoryUsage:  Bounds{Warning: 80, Critical: 90},
		CPUUsage:     Bounds{Warning: 70, Critical: 85},
	}
}

// Classify maps a measurement to a status for metrics where higher is
// worse (memory %, CPU %, response time, error rate). Intervals are closed
// on the upper bound: value >= critical is unhealthy, value >= warning is
// degraded.
func Classify(value float64, bounds Bounds) Status {
	if value >= bounds.Critical {
		return StatusUnhealthy
	}
	if value >= bounds.Warning {
		return StatusDegraded
	}
	return StatusHealthy
}

// ClassifyInverse maps a measurement to a status for metrics where lower
// is worse (availability). value <= critical is unhealthy, value <= warning
// is degraded.
func ClassifyInverse(value float64, bounds Bounds) Status {
	if value <= bounds.Critical {
		return StatusUnhealthy
	}
	if value <= bounds.Warning {
		return StatusDegraded
	}
	return StatusHealthy
}

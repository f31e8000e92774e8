// Package monitor is the engine facade: it wires the check registry,
// thresholds, persistence, cache, sensors, alerting, history, and report
// building behind one Monitor and schedules the periodic work.
//
// Two loops run once started: the monitoring loop executes a full detailed
// pass on a fixed interval, and the retention loop sweeps history entries
// older than the retention window. A failed or panicking pass is logged
// and the loop keeps its schedule.
package monitor

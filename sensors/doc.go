// Package sensors provides point-in-time samples of process and host
// resources for the health monitoring engine.
//
// The engine consumes numeric snapshots (memory, CPU, disk, network,
// process facts); it never samples directly. RuntimeSensors is the default
// implementation built on the Go runtime. StaticSensors returns fixed
// samples and exists for tests and wiring dry runs.
package sensors

// Package httpapi exposes the monitoring engine over HTTP: status and
// report reads, readiness and liveness probes, history and stats queries,
// the alert lifecycle, and manual check triggers.
//
// Status maps onto response codes the way load balancers expect: healthy
// and degraded serve 200 (degraded still serves traffic), unhealthy
// serves 503, and an unknown check name is the caller's error, 404.
package httpapi

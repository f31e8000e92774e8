package report

import (
	"fmt"

	"github.com/jonwraymond/healthops/health"
)

// recommendations derives operator guidance from a built report. The rule
// list is fixed; each matching condition contributes one string.
func recommendations(r Report, t health.Thresholds) []string {
	var recs []string

	switch r.System.MemoryStatus {
	case health.StatusUnhealthy:
		recs = append(recs, "memory usage is critical: restart leaking workloads or add capacity")
	case health.StatusDegraded:
		recs = append(recs, "memory usage is elevated: review recent deployments for regressions")
	}

	switch r.System.CPUStatus {
	case health.StatusUnhealthy:
		recs = append(recs, "cpu usage is critical: shed load or scale out")
	case health.StatusDegraded:
		recs = append(recs, "cpu usage is elevated: profile hot paths before it breaches critical")
	}

	if r.Database.Connected {
		switch health.Classify(r.Database.ErrorRate, t.ErrorRate) {
		case health.StatusUnhealthy:
			recs = append(recs, "database error rate is critical: recent probes keep failing; inspect backend logs and connection pool health")
		case health.StatusDegraded:
			recs = append(recs, "database error rate is elevated: probes are failing intermittently; watch for a worsening trend")
		}
	} else {
		recs = append(recs, "database is unreachable: verify connectivity, credentials, and backend health")
	}
	if !r.Cache.Connected {
		recs = append(recs, "cache is unreachable: verify the cache backend; expect elevated latency until restored")
	}

	for _, svc := range r.ExternalServices {
		switch svc.Status {
		case health.StatusUnhealthy:
			recs = append(recs, fmt.Sprintf("external service %q is unreachable: check upstream status", svc.Name))
		case health.StatusDegraded:
			recs = append(recs, fmt.Sprintf("external service %q availability is slipping (%.1f%%): check upstream stability", svc.Name, svc.Availability))
		}
	}

	for _, q := range r.Queues {
		if q.Status == health.StatusUnhealthy {
			recs = append(recs, fmt.Sprintf("queue %q is backed up: add consumers or throttle producers", q.Name))
		}
	}

	if len(recs) == 0 && r.OverallStatus == health.StatusHealthy {
		recs = append(recs, "all systems operating normally")
	}

	return recs
}

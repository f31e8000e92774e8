package storage

import (
	"context"

	"github.com/jonwraymond/healthops/alert"
	"github.com/jonwraymond/healthops/history"
	"github.com/jonwraymond/healthops/report"
)

// Repository is the full persistence surface the engine requires. It is
// the union of the per-consumer interfaces plus a connectivity probe.
type Repository interface {
	alert.Repository
	history.Repository
	report.Repository

	// Ping performs a write/read/delete round trip so a backend stuck in
	// a read-only or partial outage still fails the probe.
	Ping(ctx context.Context) error
}

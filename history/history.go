package history

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jonwraymond/healthops/alert"
	"github.com/jonwraymond/healthops/health"
)

// DefaultPageSize bounds how many entries one query returns.
const DefaultPageSize = 100

// Entry is one recorded health snapshot. Append-only; the single
// scheduled producer emits monotonically non-decreasing timestamps, but
// the store tolerates out-of-order inserts from manual triggers.
type Entry struct {
	ID        string          `json:"id"`
	Timestamp time.Time       `json:"timestamp"`
	Status    health.Status   `json:"status"`
	Duration  time.Duration   `json:"duration"`
	Checks    []health.Result `json:"checks"`
	Alerts    []alert.Alert   `json:"alerts,omitempty"`
}

// NewEntry builds an entry from one pass of check results and the alerts
// it raised. Status is the aggregate of the checks; Duration is the sum of
// all check durations.
func NewEntry(checks []health.Result, alerts []alert.Alert) Entry {
	var total time.Duration
	for _, c := range checks {
		total += c.Duration
	}

	return Entry{
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
		Status:    health.Aggregate(checks),
		Duration:  total,
		Checks:    checks,
		Alerts:    alerts,
	}
}

// ContainsCheck reports whether the entry includes a check with the name.
func (e Entry) ContainsCheck(name string) bool {
	for _, c := range e.Checks {
		if c.Name == name {
			return true
		}
	}
	return false
}

// Repository is the persistence surface the store writes through.
type Repository interface {
	// SaveHistory stores one entry.
	SaveHistory(ctx context.Context, entry Entry) error

	// QueryHistory returns entries in [start, end] newest first, filtered
	// to those containing a check named service when service is non-empty,
	// bounded to limit entries. A limit <= 0 means unbounded.
	QueryHistory(ctx context.Context, start, end time.Time, service string, limit int) ([]Entry, error)

	// CleanupHistory deletes entries with timestamps before the cutoff and
	// returns the count removed.
	CleanupHistory(ctx context.Context, before time.Time) (int, error)
}

// StoreConfig configures the history store.
type StoreConfig struct {
	// PageSize bounds query results. Default: DefaultPageSize.
	PageSize int
}

// Store is the engine's interface to the history timeline.
type Store struct {
	repo     Repository
	pageSize int
}

// NewStore creates a history store.
func NewStore(repo Repository, config ...StoreConfig) *Store {
	pageSize := DefaultPageSize
	if len(config) > 0 && config[0].PageSize > 0 {
		pageSize = config[0].PageSize
	}
	return &Store{repo: repo, pageSize: pageSize}
}

// Append records one entry. An entry without an ID gets one assigned.
func (s *Store) Append(ctx context.Context, entry Entry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	return s.repo.SaveHistory(ctx, entry)
}

// Query returns entries in [start, end] newest first. A non-empty service
// restricts results to entries containing a check with that name.
func (s *Store) Query(ctx context.Context, start, end time.Time, service string) ([]Entry, error) {
	return s.repo.QueryHistory(ctx, start, end, service, s.pageSize)
}

// Cleanup deletes entries older than the cutoff and returns the count removed.
func (s *Store) Cleanup(ctx context.Context, olderThan time.Time) (int, error) {
	return s.repo.CleanupHistory(ctx, olderThan)
}

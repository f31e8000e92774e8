package storage

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonwraymond/healthops/alert"
	"github.com/jonwraymond/healthops/history"
	"github.com/jonwraymond/healthops/report"
)

// MemoryRepository is the in-process Repository implementation.
type MemoryRepository struct {
	mu      sync.RWMutex
	alerts  map[string]alert.Alert
	history []history.Entry
	reports map[string]report.Report
	probes  map[string][]byte
}

// NewMemoryRepository creates an empty in-process repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		alerts:  make(map[string]alert.Alert),
		reports: make(map[string]report.Report),
		probes:  make(map[string][]byte),
	}
}

// SaveAlert stores a new alert.
func (r *MemoryRepository) SaveAlert(_ context.Context, a alert.Alert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts[a.ID] = a
	return nil
}

// UpdateAlert applies a partial update and returns the stored alert.
func (r *MemoryRepository) UpdateAlert(_ context.Context, id string, update alert.Update) (alert.Alert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.alerts[id]
	if !ok {
		return alert.Alert{}, alert.ErrAlertNotFound
	}

	if update.Acknowledged != nil {
		a.Acknowledged = *update.Acknowledged
	}
	if update.AcknowledgedBy != nil {
		a.AcknowledgedBy = *update.AcknowledgedBy
	}
	if update.AcknowledgedAt != nil {
		at := *update.AcknowledgedAt
		a.AcknowledgedAt = &at
	}
	if update.Resolved != nil {
		a.Resolved = *update.Resolved
	}
	if update.ResolvedBy != nil {
		a.ResolvedBy = *update.ResolvedBy
	}
	if update.ResolvedAt != nil {
		at := *update.ResolvedAt
		a.ResolvedAt = &at
	}

	r.alerts[id] = a
	return a, nil
}

// QueryAlerts returns alerts matching the filter, newest first.
func (r *MemoryRepository) QueryAlerts(_ context.Context, filter alert.Filter) ([]alert.Alert, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []alert.Alert
	for _, a := range r.alerts {
		if filter.Matches(a) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out, nil
}

// SaveHistory stores one history entry.
func (r *MemoryRepository) SaveHistory(_ context.Context, entry history.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.history = append(r.history, entry)
	return nil
}

// QueryHistory returns entries in [start, end] newest first, filtered to
// those containing a check named service when service is non-empty.
func (r *MemoryRepository) QueryHistory(_ context.Context, start, end time.Time, service string, limit int) ([]history.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []history.Entry
	for _, e := range r.history {
		if e.Timestamp.Before(start) || e.Timestamp.After(end) {
			continue
		}
		if service != "" && !e.ContainsCheck(service) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// CleanupHistory deletes entries older than the cutoff and returns the
// count removed.
func (r *MemoryRepository) CleanupHistory(_ context.Context, before time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.history[:0]
	removed := 0
	for _, e := range r.history {
		if e.Timestamp.Before(before) {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	r.history = kept
	return removed, nil
}

// SaveReport stores one built report.
func (r *MemoryRepository) SaveReport(_ context.Context, rep report.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports[rep.ID] = rep
	return nil
}

// Reports returns all stored reports, newest first.
func (r *MemoryRepository) Reports() []report.Report {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]report.Report, 0, len(r.reports))
	for _, rep := range r.reports {
		out = append(out, rep)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out
}

// Ping performs a write/read/delete round trip against the probe space.
func (r *MemoryRepository) Ping(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	key := "ping:" + uuid.NewString()
	want := []byte("ok")

	r.mu.Lock()
	r.probes[key] = want
	got, ok := r.probes[key]
	delete(r.probes, key)
	r.mu.Unlock()

	if !ok || string(got) != string(want) {
		return errors.New("storage: ping round trip failed")
	}
	return nil
}

// Ensure MemoryRepository implements Repository
var _ Repository = (*MemoryRepository)(nil)

package history

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/jonwraymond/healthops/alert"
	"github.com/jonwraymond/healthops/health"
)

// fakeRepo is an in-test Repository.
type fakeRepo struct {
	mu      sync.Mutex
	entries []Entry
}

func (r *fakeRepo) SaveHistory(_ context.Context, entry Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	return nil
}

func (r *fakeRepo) QueryHistory(_ context.Context, start, end time.Time, service string, limit int) ([]Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Entry
	for _, e := range r.entries {
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

func (r *fakeRepo) CleanupHistory(_ context.Context, before time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var kept []Entry
	removed := 0
	for _, e := range r.entries {
		if e.Timestamp.Before(before) {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	r.entries = kept
	return removed, nil
}

func entryAt(ts time.Time, status health.Status, checkNames ...string) Entry {
	checks := make([]health.Result, len(checkNames))
	for i, name := range checkNames {
		checks[i] = health.Result{Name: name, Status: status}
	}
	return Entry{ID: "e-" + ts.Format(time.RFC3339Nano), Timestamp: ts, Status: status, Checks: checks}
}

func TestNewEntry(t *testing.T) {
	checks := []health.Result{
		{Name: "database", Status: health.StatusUnhealthy, Duration: 30 * time.Millisecond},
		{Name: "memory", Status: health.StatusHealthy, Duration: 10 * time.Millisecond},
	}
	alerts := []alert.Alert{{ID: "a1"}}

	e := NewEntry(checks, alerts)

	if e.ID == "" {
		t.Error("ID should be assigned")
	}
	if e.Status != health.StatusUnhealthy {
		t.Errorf("Status = %v, want aggregate StatusUnhealthy", e.Status)
	}
	if e.Duration != 40*time.Millisecond {
		t.Errorf("Duration = %v, want sum 40ms", e.Duration)
	}
	if len(e.Alerts) != 1 {
		t.Errorf("len(Alerts) = %d, want 1", len(e.Alerts))
	}
}

func TestStore_AppendAssignsID(t *testing.T) {
	repo := &fakeRepo{}
	s := NewStore(repo)

	if err := s.Append(context.Background(), Entry{Status: health.StatusHealthy}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	if repo.entries[0].ID == "" {
		t.Error("Append must assign an ID")
	}
	if repo.entries[0].Timestamp.IsZero() {
		t.Error("Append must assign a timestamp")
	}
}

func TestStore_Query_NewestFirst(t *testing.T) {
	repo := &fakeRepo{}
	s := NewStore(repo)
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	// Out-of-order inserts must be tolerated.
	_ = s.Append(ctx, entryAt(base.Add(2*time.Hour), health.StatusHealthy))
	_ = s.Append(ctx, entryAt(base, health.StatusHealthy))
	_ = s.Append(ctx, entryAt(base.Add(time.Hour), health.StatusHealthy))

	entries, err := s.Query(ctx, base.Add(-time.Hour), base.Add(3*time.Hour), "")
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("len(entries) = %d, want 3", len(entries))
	}
	for i := 1; i < len(entries); i++ {
		if entries[i].Timestamp.After(entries[i-1].Timestamp) {
			t.Error("entries must be ordered newest first")
		}
	}
}

func TestStore_Query_ServiceFilter(t *testing.T) {
	repo := &fakeRepo{}
	s := NewStore(repo)
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	_ = s.Append(ctx, entryAt(base, health.StatusHealthy, "database", "memory"))
	_ = s.Append(ctx, entryAt(base.Add(time.Minute), health.StatusHealthy, "memory"))

	entries, err := s.Query(ctx, base.Add(-time.Hour), base.Add(time.Hour), "database")
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("len(entries) = %d, want 1 (only entries containing the check)", len(entries))
	}
}

func TestStore_Query_PageBound(t *testing.T) {
	repo := &fakeRepo{}
	s := NewStore(repo, StoreConfig{PageSize: 2})
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		_ = s.Append(ctx, entryAt(base.Add(time.Duration(i)*time.Minute), health.StatusHealthy))
	}

	entries, _ := s.Query(ctx, base.Add(-time.Hour), base.Add(time.Hour), "")
	if len(entries) != 2 {
		t.Errorf("len(entries) = %d, want page size 2", len(entries))
	}
}

func TestStore_Cleanup(t *testing.T) {
	repo := &fakeRepo{}
	s := NewStore(repo)
	ctx := context.Background()
	cutoff := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)

	for _, offset := range []time.Duration{-72 * time.Hour, -48 * time.Hour, -24 * time.Hour} {
		_ = s.Append(ctx, entryAt(cutoff.Add(offset), health.StatusHealthy))
	}
	for _, offset := range []time.Duration{time.Hour, 2 * time.Hour} {
		_ = s.Append(ctx, entryAt(cutoff.Add(offset), health.StatusHealthy))
	}

	removed, err := s.Cleanup(ctx, cutoff)
	if err != nil {
		t.Fatalf("Cleanup() error = %v", err)
	}
	if removed != 3 {
		t.Errorf("Cleanup() removed = %d, want 3", removed)
	}

	remaining, _ := s.Query(ctx, cutoff.Add(-30*24*time.Hour), cutoff.Add(30*24*time.Hour), "")
	if len(remaining) != 2 {
		t.Errorf("remaining entries = %d, want 2", len(remaining))
	}
}

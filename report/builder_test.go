package report

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jonwraymond/healthops/alert"
	"github.com/jonwraymond/healthops/cache"
	"github.com/jonwraymond/healthops/health"
	"github.com/jonwraymond/healthops/sensors"
)

// fakeRepo captures saved reports and doubles as the alert repository.
type fakeRepo struct {
	mu      sync.Mutex
	reports []Report
	alerts  []alert.Alert
}

func (r *fakeRepo) SaveReport(_ context.Context, rep Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, rep)
	return nil
}

func (r *fakeRepo) SaveAlert(_ context.Context, a alert.Alert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts = append(r.alerts, a)
	return nil
}

func (r *fakeRepo) UpdateAlert(_ context.Context, id string, _ alert.Update) (alert.Alert, error) {
	return alert.Alert{}, alert.ErrAlertNotFound
}

func (r *fakeRepo) QueryAlerts(_ context.Context, filter alert.Filter) ([]alert.Alert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []alert.Alert
	for _, a := range r.alerts {
		if filter.Matches(a) {
			out = append(out, a)
		}
	}
	return out, nil
}

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func healthySnapshot(_ context.Context) ([]health.Result, error) {
	return []health.Result{
		{Name: "database", Status: health.StatusHealthy},
		{Name: "memory", Status: health.StatusHealthy},
	}, nil
}

func testConfig(repo *fakeRepo) Config {
	return Config{
		Sensors: &sensors.StaticSensors{
			MemorySample: sensors.MemorySample{UsagePercent: 40},
			CPUSample:    sensors.CPUSample{UsagePercent: 30},
		},
		Database:   pingerFunc(func(context.Context) error { return nil }),
		Cache:      cache.NewMemoryCache(),
		Snapshot:   healthySnapshot,
		Alerts:     alert.NewManager(repo, health.DefaultThresholds()),
		Repository: repo,
		Thresholds: health.DefaultThresholds(),
	}
}

func TestBuilder_Build_Healthy(t *testing.T) {
	repo := &fakeRepo{}
	b := NewBuilder(testConfig(repo))

	r, err := b.Build(context.Background())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if r.ID == "" {
		t.Error("report must get an ID")
	}
	if r.OverallStatus != health.StatusHealthy {
		t.Errorf("OverallStatus = %v, want healthy", r.OverallStatus)
	}
	if !r.Database.Connected {
		t.Error("Database.Connected = false, want true")
	}
	if !r.Cache.Connected {
		t.Error("Cache.Connected = false, want true")
	}
	if len(r.Checks) != 2 {
		t.Errorf("len(Checks) = %d, want 2", len(r.Checks))
	}
	if len(r.Alerts) != 0 {
		t.Errorf("len(Alerts) = %d, want 0 for a healthy system", len(r.Alerts))
	}
	if len(r.Recommendations) != 1 || !strings.Contains(r.Recommendations[0], "normally") {
		t.Errorf("Recommendations = %v, want the all-clear", r.Recommendations)
	}
	if !r.NextCheck.After(r.Timestamp) {
		t.Error("NextCheck must be after Timestamp")
	}
	if len(repo.reports) != 1 {
		t.Fatalf("saved reports = %d, want 1", len(repo.reports))
	}
}

func TestBuilder_Build_DatabaseDown(t *testing.T) {
	repo := &fakeRepo{}
	cfg := testConfig(repo)
	cfg.Database = pingerFunc(func(context.Context) error {
		return errors.New("connection refused")
	})
	b := NewBuilder(cfg)

	r, err := b.Build(context.Background())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if r.Database.Connected {
		t.Error("Database.Connected = true, want false")
	}
	if r.Database.ErrorRate != 1 {
		t.Errorf("Database.ErrorRate = %v, want 1", r.Database.ErrorRate)
	}
	if r.OverallStatus != health.StatusUnhealthy {
		t.Errorf("OverallStatus = %v, want unhealthy", r.OverallStatus)
	}

	// The breach must raise a service_down alert and surface it in the report.
	found := false
	for _, a := range r.Alerts {
		if a.Type == alert.TypeServiceDown && a.Service == "database" {
			found = true
		}
	}
	if !found {
		t.Errorf("Alerts = %+v, want a database service_down alert", r.Alerts)
	}

	found = false
	for _, rec := range r.Recommendations {
		if strings.Contains(rec, "database is unreachable") {
			found = true
		}
	}
	if !found {
		t.Errorf("Recommendations = %v, want database guidance", r.Recommendations)
	}
}

func TestBuilder_Build_MemoryPressure(t *testing.T) {
	repo := &fakeRepo{}
	cfg := testConfig(repo)
	cfg.Sensors = &sensors.StaticSensors{
		MemorySample: sensors.MemorySample{UsagePercent: 95},
		CPUSample:    sensors.CPUSample{UsagePercent: 30},
	}
	b := NewBuilder(cfg)

	r, err := b.Build(context.Background())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if r.System.MemoryStatus != health.StatusUnhealthy {
		t.Errorf("MemoryStatus = %v, want unhealthy at 95%%", r.System.MemoryStatus)
	}

	found := false
	for _, a := range r.Alerts {
		if a.Type == alert.TypePerformanceDegradation && a.Severity == alert.SeverityCritical {
			found = true
		}
	}
	if !found {
		t.Errorf("Alerts = %+v, want a critical performance_degradation alert", r.Alerts)
	}
}

func TestBuilder_Build_ExternalServices(t *testing.T) {
	repo := &fakeRepo{}
	cfg := testConfig(repo)
	cfg.ExternalServices = []health.ExternalService{
		{Name: "payments", Probe: func(context.Context) error { return nil }},
		{Name: "geocoder", Probe: func(context.Context) error { return errors.New("timeout") }},
	}
	b := NewBuilder(cfg)

	r, err := b.Build(context.Background())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if len(r.ExternalServices) != 2 {
		t.Fatalf("len(ExternalServices) = %d, want 2", len(r.ExternalServices))
	}
	byName := map[string]ExternalServiceHealth{}
	for _, svc := range r.ExternalServices {
		byName[svc.Name] = svc
	}
	if byName["payments"].Status != health.StatusHealthy || byName["payments"].Availability != 100 {
		t.Errorf("payments = %+v, want healthy at 100%%", byName["payments"])
	}
	if byName["geocoder"].Status != health.StatusUnhealthy {
		t.Errorf("geocoder = %+v, want unhealthy", byName["geocoder"])
	}
	if r.OverallStatus != health.StatusUnhealthy {
		t.Errorf("OverallStatus = %v, want unhealthy", r.OverallStatus)
	}
}

func TestBuilder_DatabaseErrorRate_Rolling(t *testing.T) {
	repo := &fakeRepo{}
	cfg := testConfig(repo)
	fail := true
	cfg.Database = pingerFunc(func(context.Context) error {
		if fail {
			return errors.New("connection reset")
		}
		return nil
	})
	b := NewBuilder(cfg)
	ctx := context.Background()

	got := b.probeDatabase(ctx)
	if got.Connected {
		t.Fatal("Connected = true, want false on a failed probe")
	}
	if got.ErrorRate != 1 {
		t.Fatalf("ErrorRate = %v, want 1 after a single failed probe", got.ErrorRate)
	}

	// One failure followed by twelve successes: the rolling error rate
	// lands between the warning and critical bounds.
	fail = false
	for i := 0; i < 12; i++ {
		got = b.probeDatabase(ctx)
	}

	if !got.Connected {
		t.Error("Connected = false, want true")
	}
	if got.ErrorRate <= 0.05 || got.ErrorRate >= 0.10 {
		t.Errorf("ErrorRate = %v, want between warning and critical", got.ErrorRate)
	}
	if got.Status != health.StatusDegraded {
		t.Errorf("Status = %v, want degraded for an elevated error rate on a reachable database", got.Status)
	}
}

func TestRecommendations_DatabaseErrorRate(t *testing.T) {
	r := Report{
		Database: DatabaseHealth{Connected: true, ErrorRate: 0.07, Status: health.StatusDegraded},
		Cache:    CacheHealth{Connected: true},
	}

	recs := recommendations(r, health.DefaultThresholds())

	found := false
	for _, rec := range recs {
		if strings.Contains(rec, "error rate is elevated") {
			found = true
		}
	}
	if !found {
		t.Errorf("Recommendations = %v, want elevated error rate guidance", recs)
	}

	r.Database.ErrorRate = 0.25
	recs = recommendations(r, health.DefaultThresholds())
	found = false
	for _, rec := range recs {
		if strings.Contains(rec, "error rate is critical") {
			found = true
		}
	}
	if !found {
		t.Errorf("Recommendations = %v, want critical error rate guidance", recs)
	}
}

func TestBuilder_ExternalAvailability_Classified(t *testing.T) {
	repo := &fakeRepo{}
	cfg := testConfig(repo)
	fail := true
	cfg.ExternalServices = []health.ExternalService{{
		Name: "payments",
		Probe: func(context.Context) error {
			if fail {
				return errors.New("timeout")
			}
			return nil
		},
	}}
	b := NewBuilder(cfg)
	ctx := context.Background()

	out := b.probeExternal(ctx)
	if out[0].Status != health.StatusUnhealthy || out[0].Availability != 0 {
		t.Fatalf("first probe = %+v, want unhealthy at 0%%", out[0])
	}

	// One failure followed by 39 successes is 97.5% availability: below
	// the warning bound but above critical.
	fail = false
	for i := 0; i < 39; i++ {
		out = b.probeExternal(ctx)
	}

	got := out[0]
	if got.Availability <= 95 || got.Availability >= 99 {
		t.Errorf("Availability = %v, want between 95 and 99", got.Availability)
	}
	if got.Status != health.StatusDegraded {
		t.Errorf("Status = %v, want degraded at %.1f%% availability", got.Status, got.Availability)
	}
}

func TestBuilder_Build_Queues(t *testing.T) {
	repo := &fakeRepo{}
	cfg := testConfig(repo)
	cfg.Queues = func(context.Context) ([]QueueHealth, error) {
		return []QueueHealth{
			{Name: "ingest", Depth: 12, Consumers: 3, Status: health.StatusHealthy},
			{Name: "deadletter", Depth: 9000, Consumers: 0, Status: health.StatusUnhealthy},
		}, nil
	}
	b := NewBuilder(cfg)

	r, err := b.Build(context.Background())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if len(r.Queues) != 2 {
		t.Fatalf("len(Queues) = %d, want 2", len(r.Queues))
	}
	found := false
	for _, rec := range r.Recommendations {
		if strings.Contains(rec, "deadletter") {
			found = true
		}
	}
	if !found {
		t.Errorf("Recommendations = %v, want queue guidance", r.Recommendations)
	}
}

func TestBuilder_Build_SnapshotError(t *testing.T) {
	repo := &fakeRepo{}
	cfg := testConfig(repo)
	sentinel := errors.New("registry wedged")
	cfg.Snapshot = func(context.Context) ([]health.Result, error) { return nil, sentinel }
	b := NewBuilder(cfg)

	if _, err := b.Build(context.Background()); !errors.Is(err, sentinel) {
		t.Errorf("Build() error = %v, want wrapped %v", err, sentinel)
	}
	if len(repo.reports) != 0 {
		t.Error("a failed build must not persist a report")
	}
}

func TestNewBuilder_DefaultInterval(t *testing.T) {
	b := NewBuilder(Config{})
	if b.config.Interval != DefaultInterval {
		t.Errorf("Interval = %v, want %v", b.config.Interval, DefaultInterval)
	}
}

func TestBuilder_NextCheckUsesInterval(t *testing.T) {
	repo := &fakeRepo{}
	cfg := testConfig(repo)
	cfg.Interval = time.Hour
	b := NewBuilder(cfg)
	fixed := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return fixed }

	r, err := b.Build(context.Background())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if !r.NextCheck.Equal(fixed.Add(time.Hour)) {
		t.Errorf("NextCheck = %v, want %v", r.NextCheck, fixed.Add(time.Hour))
	}
}

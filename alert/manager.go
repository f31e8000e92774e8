package alert

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jonwraymond/healthops/health"
)

// Facts is one evaluation pass worth of raw per-dimension health readings.
type Facts struct {
	// MemoryPercent is current memory usage, 0..100.
	MemoryPercent float64

	// CPUPercent is current CPU usage, 0..100.
	CPUPercent float64

	// DatabaseUp is false when the persistence collaborator is unreachable.
	DatabaseUp bool

	// CacheUp is false when the cache collaborator is unreachable.
	CacheUp bool
}

// Manager raises alerts from health evaluation passes and owns the
// acknowledge/resolve state transitions.
type Manager struct {
	repo       Repository
	thresholds health.Thresholds
	now        func() time.Time
}

// NewManager creates an alert manager.
func NewManager(repo Repository, thresholds health.Thresholds) *Manager {
	return &Manager{
		repo:       repo,
		thresholds: thresholds,
		now:        time.Now,
	}
}

// Evaluate applies the raising rule to one pass of facts, persists every
// raised alert, and returns them. Each breached dimension raises exactly
// one alert per pass.
func (m *Manager) Evaluate(ctx context.Context, facts Facts) ([]Alert, error) {
	var raised []Alert

	if facts.MemoryPercent >= m.thresholds.MemoryUsage.Critical {
		raised = append(raised, m.newAlert(
			TypePerformanceDegradation,
			SeverityCritical,
			"system",
			fmt.Sprintf("memory usage at %.1f%% exceeds critical threshold %.1f%%",
				facts.MemoryPercent, m.thresholds.MemoryUsage.Critical),
			map[string]any{"memory_percent": facts.MemoryPercent},
		))
	}

	if facts.CPUPercent >= m.thresholds.CPUUsage.Critical {
		raised = append(raised, m.newAlert(
			TypePerformanceDegradation,
			SeverityHigh,
			"system",
			fmt.Sprintf("cpu usage at %.1f%% exceeds critical threshold %.1f%%",
				facts.CPUPercent, m.thresholds.CPUUsage.Critical),
			map[string]any{"cpu_percent": facts.CPUPercent},
		))
	}

	if !facts.DatabaseUp {
		raised = append(raised, m.newAlert(
			TypeServiceDown,
			SeverityCritical,
			"database",
			"database is unreachable",
			nil,
		))
	}

	if !facts.CacheUp {
		raised = append(raised, m.newAlert(
			TypeServiceDown,
			SeverityHigh,
			"cache",
			"cache is unreachable",
			nil,
		))
	}

	for _, a := range raised {
		if err := m.repo.SaveAlert(ctx, a); err != nil {
			return raised, fmt.Errorf("alert: save %s: %w", a.ID, err)
		}
	}

	return raised, nil
}

// Acknowledge marks an alert acknowledged by the given actor.
//
// Re-acknowledging is not guarded: the call succeeds again and records the
// latest actor and timestamp.
func (m *Manager) Acknowledge(ctx context.Context, alertID, actor string) (Alert, error) {
	acknowledged := true
	now := m.now()

	return m.repo.UpdateAlert(ctx, alertID, Update{
		Acknowledged:   &acknowledged,
		AcknowledgedBy: &actor,
		AcknowledgedAt: &now,
	})
}

// Resolve marks an alert resolved by the given actor. Resolution is
// terminal for the condition; a recurring breach raises a fresh alert.
//
// Re-resolving is not guarded: the call succeeds again and records the
// latest actor and timestamp.
func (m *Manager) Resolve(ctx context.Context, alertID, actor string) (Alert, error) {
	resolved := true
	now := m.now()

	return m.repo.UpdateAlert(ctx, alertID, Update{
		Resolved:   &resolved,
		ResolvedBy: &actor,
		ResolvedAt: &now,
	})
}

// Query returns alerts matching the filter, newest first.
func (m *Manager) Query(ctx context.Context, filter Filter) ([]Alert, error) {
	return m.repo.QueryAlerts(ctx, filter)
}

func (m *Manager) newAlert(typ Type, severity Severity, service, message string, details map[string]any) Alert {
	return Alert{
		ID:        uuid.NewString(),
		Type:      typ,
		Severity:  severity,
		Service:   service,
		Message:   message,
		Details:   details,
		Timestamp: m.now(),
	}
}

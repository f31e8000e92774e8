package alert

import (
	"context"
	"errors"
	"time"
)

// Severity ranks how urgently an alert needs attention.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Type categorizes what kind of condition raised the alert.
type Type string

const (
	// TypeServiceDown indicates a dependency is unreachable.
	TypeServiceDown Type = "service_down"

	// TypePerformanceDegradation indicates a resource threshold breach.
	TypePerformanceDegradation Type = "performance_degradation"
)

// Alert is a durable record of a detected breach.
//
// Mutated only through Manager.Acknowledge and Manager.Resolve.
// AcknowledgedAt is only set when Acknowledged is true; ResolvedAt only
// when Resolved is true.
type Alert struct {
	ID             string         `json:"id"`
	Type           Type           `json:"type"`
	Severity       Severity       `json:"severity"`
	Service        string         `json:"service"`
	Message        string         `json:"message"`
	Details        map[string]any `json:"details,omitempty"`
	Timestamp      time.Time      `json:"timestamp"`
	Acknowledged   bool           `json:"acknowledged"`
	AcknowledgedBy string         `json:"acknowledged_by,omitempty"`
	AcknowledgedAt *time.Time     `json:"acknowledged_at,omitempty"`
	Resolved       bool           `json:"resolved"`
	ResolvedBy     string         `json:"resolved_by,omitempty"`
	ResolvedAt     *time.Time     `json:"resolved_at,omitempty"`
}

// Filter selects alerts by any combination of lifecycle flags and severity.
// Nil fields match everything.
type Filter struct {
	Acknowledged *bool
	Resolved     *bool
	Severity     *Severity
}

// Matches reports whether the alert passes the filter.
func (f Filter) Matches(a Alert) bool {
	if f.Acknowledged != nil && a.Acknowledged != *f.Acknowledged {
		return false
	}
	if f.Resolved != nil && a.Resolved != *f.Resolved {
		return false
	}
	if f.Severity != nil && a.Severity != *f.Severity {
		return false
	}
	return true
}

// Update is a partial mutation applied to a stored alert. Nil fields are
// left untouched.
type Update struct {
	Acknowledged   *bool
	AcknowledgedBy *string
	AcknowledgedAt *time.Time
	Resolved       *bool
	ResolvedBy     *string
	ResolvedAt     *time.Time
}

// ErrAlertNotFound indicates an operation referenced an unknown alert id.
var ErrAlertNotFound = errors.New("alert: alert not found")

// Repository is the persistence surface the manager writes through.
// Raise, acknowledge, and resolve are independent single-row operations;
// no multi-alert transactions are required.
type Repository interface {
	// SaveAlert stores a new alert.
	SaveAlert(ctx context.Context, a Alert) error

	// UpdateAlert applies a partial update and returns the stored alert.
	// Returns ErrAlertNotFound for an unknown id.
	UpdateAlert(ctx context.Context, id string, update Update) (Alert, error)

	// QueryAlerts returns alerts matching the filter, newest first.
	QueryAlerts(ctx context.Context, filter Filter) ([]Alert, error)
}

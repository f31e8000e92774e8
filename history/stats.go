package history

import (
	"context"
	"time"

	"github.com/jonwraymond/healthops/health"
)

// Trend describes the direction of recent health relative to the period
// before it.
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendDegrading Trend = "degrading"
	TrendStable    Trend = "stable"
)

// trendWindow is how many entries each side of the trend comparison uses.
const trendWindow = 10

// Stats aggregates a history window.
type Stats struct {
	Start          time.Time `json:"start"`
	End            time.Time `json:"end"`
	TotalEntries   int       `json:"total_entries"`
	HealthyCount   int       `json:"healthy_count"`
	DegradedCount  int       `json:"degraded_count"`
	UnhealthyCount int       `json:"unhealthy_count"`

	// Availability is the fraction of entries that were healthy, 0..1.
	Availability float64 `json:"availability"`

	// AlertCount is the total number of alerts recorded across the window.
	AlertCount int `json:"alert_count"`

	// Trend compares the most recent entries against the period before.
	Trend Trend `json:"trend"`
}

// Stats computes aggregated availability and alert counts over a period.
// The scan is unbounded: availability over a long window must count every
// entry, not the newest page.
func (s *Store) Stats(ctx context.Context, start, end time.Time) (Stats, error) {
	entries, err := s.repo.QueryHistory(ctx, start, end, "", 0)
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{
		Start:        start,
		End:          end,
		TotalEntries: len(entries),
		Trend:        TrendStable,
	}

	if len(entries) == 0 {
		return stats, nil
	}

	for _, e := range entries {
		switch e.Status {
		case health.StatusHealthy:
			stats.HealthyCount++
		case health.StatusDegraded:
			stats.DegradedCount++
		default:
			stats.UnhealthyCount++
		}
		stats.AlertCount += len(e.Alerts)
	}

	stats.Availability = float64(stats.HealthyCount) / float64(len(entries))
	stats.Trend = computeTrend(entries)

	return stats, nil
}

// computeTrend compares the healthy fraction of the most recent entries
// (newest first) against the previous window of the same size.
func computeTrend(entries []Entry) Trend {
	if len(entries) < 4 {
		return TrendStable
	}

	recentSize := trendWindow
	if recentSize > len(entries)/2 {
		recentSize = len(entries) / 2
	}

	recent := entries[:recentSize]
	previous := entries[recentSize:]
	if len(previous) > trendWindow {
		previous = previous[:trendWindow]
	}

	diff := healthyFraction(recent) - healthyFraction(previous)
	const epsilon = 0.1

	switch {
	case diff > epsilon:
		return TrendImproving
	case diff < -epsilon:
		return TrendDegrading
	default:
		return TrendStable
	}
}

func healthyFraction(entries []Entry) float64 {
	if len(entries) == 0 {
		return 0
	}
	healthy := 0
	for _, e := range entries {
		if e.Status == health.StatusHealthy {
			healthy++
		}
	}
	return float64(healthy) / float64(len(entries))
}

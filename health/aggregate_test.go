package health

import "testing"

func TestAggregate(t *testing.T) {
	tests := []struct {
		name     string
		statuses []Status
		want     Status
	}{
		{"empty", nil, StatusHealthy},
		{"all healthy", []Status{StatusHealthy, StatusHealthy}, StatusHealthy},
		{"one degraded", []Status{StatusHealthy, StatusDegraded}, StatusDegraded},
		{"one unhealthy", []Status{StatusHealthy, StatusUnhealthy}, StatusUnhealthy},
		{"unhealthy beats degraded", []Status{StatusDegraded, StatusUnhealthy}, StatusUnhealthy},
		{"single degraded", []Status{StatusDegraded}, StatusDegraded},
		{"single unhealthy", []Status{StatusUnhealthy}, StatusUnhealthy},
		{"all three", []Status{StatusHealthy, StatusDegraded, StatusUnhealthy}, StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := make([]Result, len(tt.statuses))
			for i, s := range tt.statuses {
				results[i] = Result{Status: s}
			}
			if got := Aggregate(results); got != tt.want {
				t.Errorf("Aggregate(%v) = %v, want %v", tt.statuses, got, tt.want)
			}
		})
	}
}

// Aggregate must be unhealthy iff at least one result is unhealthy, else
// degraded iff at least one is degraded. Exhaustive over 3x3 pairs.
func TestAggregate_Exhaustive(t *testing.T) {
	statuses := []Status{StatusHealthy, StatusDegraded, StatusUnhealthy}

	for _, a := range statuses {
		for _, b := range statuses {
			got := Aggregate([]Result{{Status: a}, {Status: b}})

			want := StatusHealthy
			if a == StatusUnhealthy || b == StatusUnhealthy {
				want = StatusUnhealthy
			} else if a == StatusDegraded || b == StatusDegraded {
				want = StatusDegraded
			}

			if got != want {
				t.Errorf("Aggregate(%v, %v) = %v, want %v", a, b, got, want)
			}
		}
	}
}

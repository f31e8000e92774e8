package health

// Aggregate computes the overall status from a set of check results.
//
// Precedence, highest wins: any unhealthy check makes the whole unhealthy;
// otherwise any degraded check makes it degraded; otherwise healthy. An
// empty result set aggregates to healthy: a system with zero registered
// checks is reported healthy by default.
func Aggregate(results []Result) Status {
	hasUnhealthy := false
	hasDegraded := false

	for _, result := range results {
		switch result.Status {
		case StatusUnhealthy:
			hasUnhealthy = true
		case StatusDegraded:
			hasDegraded = true
		}
	}

	if hasUnhealthy {
		return StatusUnhealthy
	}
	if hasDegraded {
		return StatusDegraded
	}
	return StatusHealthy
}

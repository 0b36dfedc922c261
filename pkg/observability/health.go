package observability

import (
	"context"
	"sort"
	"time"
)

// HealthStatus represents the health state of a component.
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
	HealthStatusDisabled  HealthStatus = "disabled"
)

// HealthCheckResult is the outcome of one check.
type HealthCheckResult struct {
	Name     string        `json:"name"`
	Status   HealthStatus  `json:"status"`
	Message  string        `json:"message,omitempty"`
	Duration time.Duration `json:"duration_ns"`
}

// HealthChecker probes one component.
type HealthChecker func(ctx context.Context) HealthCheckResult

// PingChecker reports unhealthy when ping fails. A critical=false
// component is reported degraded instead.
func PingChecker(ping func(ctx context.Context) error, critical bool) HealthChecker {
	return func(ctx context.Context) HealthCheckResult {
		if err := ping(ctx); err != nil {
			status := HealthStatusUnhealthy
			if !critical {
				status = HealthStatusDegraded
			}
			return HealthCheckResult{Status: status, Message: err.Error()}
		}
		return HealthCheckResult{Status: HealthStatusHealthy}
	}
}

// HealthRegistry runs named checks.
type HealthRegistry struct {
	checkers map[string]HealthChecker
}

func NewHealthRegistry() *HealthRegistry {
	return &HealthRegistry{checkers: make(map[string]HealthChecker)}
}

// Register adds a checker under name.
func (r *HealthRegistry) Register(name string, checker HealthChecker) {
	r.checkers[name] = checker
}

// Check runs every checker in name order, each bounded by timeout.
func (r *HealthRegistry) Check(ctx context.Context, timeout time.Duration) []HealthCheckResult {
	names := make([]string, 0, len(r.checkers))
	for name := range r.checkers {
		names = append(names, name)
	}
	sort.Strings(names)

	results := make([]HealthCheckResult, 0, len(names))
	for _, name := range names {
		checkCtx, cancel := context.WithTimeout(ctx, timeout)
		start := time.Now()
		res := r.checkers[name](checkCtx)
		cancel()
		res.Name = name
		res.Duration = time.Since(start)
		results = append(results, res)
	}
	return results
}

// Overall folds results into one status.
func Overall(results []HealthCheckResult) HealthStatus {
	status := HealthStatusHealthy
	for _, r := range results {
		switch r.Status {
		case HealthStatusUnhealthy:
			return HealthStatusUnhealthy
		case HealthStatusDegraded:
			status = HealthStatusDegraded
		}
	}
	return status
}

package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates the backend answers but the index is not usable.
	Degraded Status = "degraded"
	// Unhealthy indicates the backend cannot be reached.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
	// CheckMissing indicates the configured index does not exist.
	CheckMissing CheckResult = "missing"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	backend BackendPinger
	indexes IndexChecker
	index   string
}

// New creates a Service. indexes can be nil to skip the index check.
func New(backend BackendPinger, indexes IndexChecker, index string) *Service {
	return &Service{backend: backend, indexes: indexes, index: index}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if err := s.backend.Ping(ctx); err != nil {
		checks["backend"] = CheckError
		return Report{Status: Unhealthy, Checks: checks}
	}
	checks["backend"] = CheckOK

	status := Healthy
	if s.indexes != nil {
		exists, err := s.indexes.IndexExists(ctx, s.index)
		switch {
		case err != nil:
			checks["index"] = CheckError
			status = Degraded
		case !exists:
			checks["index"] = CheckMissing
			status = Degraded
		default:
			checks["index"] = CheckOK
		}
	}

	return Report{Status: status, Checks: checks}
}

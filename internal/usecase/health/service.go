package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks. Both dependencies are optional:
// the service runs without a cache and without a remote parser, and
// degrades only on components that are actually configured.
type Service struct {
	cache  CachePinger
	parser ParserChecker
}

// New creates a Service. cache and parser can be nil.
func New(cache CachePinger, parser ParserChecker) *Service {
	return &Service{cache: cache, parser: parser}
}

// Check runs health checks against the configured components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if s.cache != nil {
		if err := s.cache.Ping(ctx); err != nil {
			checks["cache"] = CheckError
		} else {
			checks["cache"] = CheckOK
		}
	}

	if s.parser != nil {
		if err := s.parser.HealthCheck(ctx); err != nil {
			checks["parser"] = CheckError
		} else {
			checks["parser"] = CheckOK
		}
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}

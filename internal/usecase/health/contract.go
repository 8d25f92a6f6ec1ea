package health

import "context"

// CachePinger checks parse cache availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// ParserChecker checks remote query parser availability.
type ParserChecker interface {
	HealthCheck(ctx context.Context) error
}

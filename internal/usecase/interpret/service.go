package interpret

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Prachiti-Gaikwad/creator-insight/internal/domain"
	"github.com/Prachiti-Gaikwad/creator-insight/internal/domain/query"
	"github.com/Prachiti-Gaikwad/creator-insight/internal/metrics"
)

// Service is the fallback combinator over query parsers: the remote
// model is attempted first with a bounded timeout, and any failure
// degrades to the local heuristic. Interpret never fails its caller.
type Service struct {
	remote  Parser // nil when the remote model is not configured
	local   Parser
	timeout time.Duration
	logger  *zap.Logger
}

// New creates an interpreter backed by the local heuristic only.
func New(local Parser, logger *zap.Logger) *Service {
	return &Service{local: local, logger: logger}
}

// WithRemote enables the remote model as the primary parser, invoked
// with the given per-call timeout.
func (s *Service) WithRemote(remote Parser, timeout time.Duration) *Service {
	s.remote = remote
	s.timeout = timeout
	return s
}

// Interpret resolves query text into a filter spec. The result always
// carries the branch that produced it, so the remote/fallback choice
// is observable rather than hidden.
func (s *Service) Interpret(ctx context.Context, text string) domain.ParseResult {
	if strings.TrimSpace(text) == "" {
		return domain.ParseResult{Source: query.SourceHeuristic}
	}

	if s.remote != nil {
		res, err := s.parseRemote(ctx, text)
		if err == nil {
			return res
		}

		reason := "provider_error"
		if errors.Is(err, context.DeadlineExceeded) {
			reason = "timeout"
		}
		metrics.ParseFallbackTotal.WithLabelValues(reason).Inc()
		s.logger.Warn("Remote query parsing failed, using heuristic",
			zap.String("reason", reason),
			zap.Error(err),
		)
	}

	res, err := s.local.Parse(ctx, text)
	if err != nil {
		// The heuristic cannot fail, but the contract degrades to a
		// fully permissive spec rather than surfacing an error.
		s.logger.Error("Heuristic parsing failed", zap.Error(err))
		return domain.ParseResult{Source: query.SourceHeuristic}
	}
	return res
}

func (s *Service) parseRemote(ctx context.Context, text string) (domain.ParseResult, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	return s.remote.Parse(ctx, text)
}

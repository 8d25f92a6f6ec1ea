// Package insight orchestrates one query round trip: dataset lookup,
// query interpretation, filtering, ranking, and history logging.
package insight

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Prachiti-Gaikwad/creator-insight/internal/domain/query"
	"github.com/Prachiti-Gaikwad/creator-insight/internal/usecase/rank"
)

// Result is the outcome of one query against a dataset.
type Result struct {
	// Scores holds the ranked matches, best first, truncated to the
	// configured result limit.
	Scores []rank.Score
	// Spec is the resolved filter the query text was interpreted into.
	Spec query.Spec
	// Source names the interpretation branch that produced the spec.
	Source query.Source
	// Total counts all matches before truncation.
	Total int
}

// Service runs queries against uploaded datasets.
type Service struct {
	datasets   DatasetReader
	interp     Interpreter
	history    HistoryWriter
	maxResults int
	logger     *zap.Logger
}

// New creates a query service. maxResults of 0 disables truncation.
func New(datasets DatasetReader, interp Interpreter, history HistoryWriter, maxResults int, logger *zap.Logger) *Service {
	return &Service{
		datasets:   datasets,
		interp:     interp,
		history:    history,
		maxResults: maxResults,
		logger:     logger,
	}
}

// Query interprets text against the named dataset, filters and ranks
// the matching records, and appends the resolved query to the session
// log. Interpretation itself never fails; the only errors are an
// unknown dataset and a failed history append.
func (s *Service) Query(ctx context.Context, datasetID, text string, weights query.Weights) (Result, error) {
	ds, err := s.datasets.Get(ctx, datasetID)
	if err != nil {
		return Result{}, fmt.Errorf("get dataset: %w", err)
	}

	parsed := s.interp.Interpret(ctx, text)

	matched := rank.Filter(ds.Records, parsed.Spec)
	scores := rank.Rank(matched, weights)

	total := len(scores)
	if s.maxResults > 0 && total > s.maxResults {
		scores = scores[:s.maxResults]
	}

	entry := query.HistoryEntry{
		QueryText: text,
		Spec:      parsed.Spec,
		Weights:   weights,
		Source:    parsed.Source,
		Timestamp: time.Now().UTC(),
	}
	if err := s.history.Append(ctx, entry); err != nil {
		return Result{}, fmt.Errorf("append history: %w", err)
	}

	s.logger.Debug("Query resolved",
		zap.String("dataset_id", datasetID),
		zap.String("source", string(parsed.Source)),
		zap.Int("matched", total),
	)

	return Result{
		Scores: scores,
		Spec:   parsed.Spec,
		Source: parsed.Source,
		Total:  total,
	}, nil
}

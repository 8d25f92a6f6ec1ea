package insight

import (
	"context"

	"github.com/Prachiti-Gaikwad/creator-insight/internal/domain"
	"github.com/Prachiti-Gaikwad/creator-insight/internal/domain/creator"
	"github.com/Prachiti-Gaikwad/creator-insight/internal/domain/query"
)

// DatasetReader reads uploaded datasets for querying.
type DatasetReader interface {
	Get(ctx context.Context, id string) (creator.Dataset, error)
}

// Interpreter resolves free-text query input into a filter spec.
type Interpreter interface {
	Interpret(ctx context.Context, text string) domain.ParseResult
}

// HistoryWriter records resolved queries in the session log.
type HistoryWriter interface {
	Append(ctx context.Context, entry query.HistoryEntry) error
}

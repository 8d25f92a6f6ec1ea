package interpret

import (
	"context"

	"github.com/Prachiti-Gaikwad/creator-insight/internal/domain"
)

// Parser turns free-form query text into a structured filter spec.
type Parser interface {
	Parse(ctx context.Context, text string) (domain.ParseResult, error)
}

package domain

import "github.com/Prachiti-Gaikwad/creator-insight/internal/domain/query"

// ParseResult is the outcome of interpreting a free-text query:
// the resolved filter spec plus the branch that produced it.
type ParseResult struct {
	Spec   query.Spec
	Source query.Source
}

package query

import "time"

// HistoryEntry records one submitted query and its resolved
// interpretation. Created once per query, never mutated.
type HistoryEntry struct {
	QueryText string
	Spec      Spec
	Weights   Weights
	Source    Source
	Timestamp time.Time
}

// Package history holds the append-only session query log.
package history

import (
	"context"
	"sync"

	"github.com/Prachiti-Gaikwad/creator-insight/internal/domain/query"
)

// Log is an append-only in-memory query log. Entries are never
// removed or reordered; the log lives until the process restarts.
type Log struct {
	mu      sync.RWMutex
	entries []query.HistoryEntry
}

// New creates an empty query log.
func New() *Log {
	return &Log{}
}

// Append records one query history entry.
func (l *Log) Append(_ context.Context, entry query.HistoryEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, entry)
	return nil
}

// Entries returns a copy of the log in insertion order, oldest first.
func (l *Log) Entries(_ context.Context) ([]query.HistoryEntry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]query.HistoryEntry, len(l.entries))
	copy(out, l.entries)
	return out, nil
}

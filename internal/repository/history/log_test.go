package history

import (
	"context"
	"testing"
	"time"

	"github.com/Prachiti-Gaikwad/creator-insight/internal/domain/query"
)

func TestLog_AppendAndEntries(t *testing.T) {
	l := New()

	for i, text := range []string{"first query", "second query", "third query"} {
		entry := query.HistoryEntry{
			QueryText: text,
			Source:    query.SourceHeuristic,
			Timestamp: time.Unix(int64(i), 0),
		}
		if err := l.Append(context.Background(), entry); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	entries, err := l.Entries(context.Background())
	if err != nil {
		t.Fatalf("Entries: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	for i, want := range []string{"first query", "second query", "third query"} {
		if entries[i].QueryText != want {
			t.Errorf("position %d: got %q, want %q", i, entries[i].QueryText, want)
		}
	}
}

func TestLog_EmptyLog(t *testing.T) {
	entries, err := New().Entries(context.Background())
	if err != nil {
		t.Fatalf("Entries: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty log, got %d entries", len(entries))
	}
}

func TestLog_EntriesReturnsCopy(t *testing.T) {
	l := New()
	_ = l.Append(context.Background(), query.HistoryEntry{QueryText: "original"})

	entries, _ := l.Entries(context.Background())
	entries[0].QueryText = "mutated"

	again, _ := l.Entries(context.Background())
	if again[0].QueryText != "original" {
		t.Error("mutating the returned slice must not affect the log")
	}
}

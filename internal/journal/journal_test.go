package journal

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	jnl, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { jnl.Close() })
	return jnl
}

func TestRecordAndRecent(t *testing.T) {
	jnl := openTestJournal(t)

	entries := []Entry{
		{Feed: "regional", SinkID: "chat", Title: "first", Delivered: true},
		{Feed: "global", SinkID: "chat", Title: "second", Delivered: false, Error: "chat not found"},
		{Feed: "regional", SinkID: "mirror", Title: "third", Delivered: true},
	}
	for _, e := range entries {
		if err := jnl.Record(e); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	got, err := jnl.Recent(2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("Recent(2) returned %d entries, want 2", len(got))
	}
	// Newest first.
	if got[0].Title != "third" || got[1].Title != "second" {
		t.Errorf("Recent order = [%s, %s], want [third, second]", got[0].Title, got[1].Title)
	}
	if got[1].Error != "chat not found" {
		t.Errorf("Error = %q, want recorded delivery error", got[1].Error)
	}
	if got[0].RecordedAt.IsZero() {
		t.Error("RecordedAt not defaulted on write")
	}
}

func TestRecordKeepsExplicitTimestamp(t *testing.T) {
	jnl := openTestJournal(t)

	ts := time.Date(2025, 3, 14, 15, 0, 0, 0, time.UTC)
	if err := jnl.Record(Entry{Feed: "regional", SinkID: "chat", RecordedAt: ts}); err != nil {
		t.Fatalf("Record: %v", err)
	}

	got, err := jnl.Recent(1)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if !got[0].RecordedAt.Equal(ts) {
		t.Errorf("RecordedAt = %v, want %v", got[0].RecordedAt, ts)
	}
}

func TestNilJournalIsNoOp(t *testing.T) {
	var jnl *Journal

	if err := jnl.Record(Entry{Feed: "regional"}); err != nil {
		t.Errorf("nil journal Record returned %v, want nil", err)
	}
	if err := jnl.Close(); err != nil {
		t.Errorf("nil journal Close returned %v, want nil", err)
	}
	if got, err := jnl.Recent(5); err != nil || got != nil {
		t.Errorf("nil journal Recent = (%v, %v), want (nil, nil)", got, err)
	}
}

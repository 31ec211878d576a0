package cache

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestSQLiteStore(t *testing.T, clock *fakeClock) *SQLiteStore {
	t.Helper()

	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "cache", "test.db"), Options{
		TTL: DefaultTTL,
		Now: clock.Now,
	})
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore_RoundTrip(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	store := newTestSQLiteStore(t, clock)
	ctx := context.Background()

	if err := store.Put(ctx, "abc", "Example transcription text"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	text, ok, err := store.Get(ctx, "abc")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !ok {
		t.Fatal("expected cache hit")
	}
	if text != "Example transcription text" {
		t.Errorf("expected 'Example transcription text', got '%s'", text)
	}
}

func TestSQLiteStore_Miss(t *testing.T) {
	store := newTestSQLiteStore(t, &fakeClock{now: time.Unix(1_700_000_000, 0)})

	_, ok, err := store.Get(context.Background(), "missing")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if ok {
		t.Error("expected miss for unknown id")
	}
}

func TestSQLiteStore_ExpiredEntryIsMissButRecordRemains(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	store := newTestSQLiteStore(t, clock)
	ctx := context.Background()

	if err := store.Put(ctx, "abc", "stale"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	clock.Advance(DefaultTTL - time.Second)
	if _, ok, _ := store.Get(ctx, "abc"); !ok {
		t.Fatal("expected hit just before TTL")
	}

	clock.Advance(time.Second)
	if _, ok, _ := store.Get(ctx, "abc"); ok {
		t.Fatal("expected miss once TTL elapsed")
	}

	var count int
	if err := store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM transcripts WHERE id = ?", "abc").Scan(&count); err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected expired record to remain in storage, found %d rows", count)
	}
}

func TestSQLiteStore_PutOverwrites(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	store := newTestSQLiteStore(t, clock)
	ctx := context.Background()

	store.Put(ctx, "abc", "old")
	clock.Advance(DefaultTTL + time.Hour)
	if err := store.Put(ctx, "abc", "new"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	text, ok, err := store.Get(ctx, "abc")
	if err != nil || !ok {
		t.Fatalf("expected refreshed hit, got ok=%v err=%v", ok, err)
	}
	if text != "new" {
		t.Errorf("expected 'new', got '%s'", text)
	}
}

func TestSQLiteStore_DeleteAndPurge(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	store := newTestSQLiteStore(t, clock)
	ctx := context.Background()

	store.Put(ctx, "old", "old text")
	clock.Advance(DefaultTTL)
	store.Put(ctx, "fresh", "fresh text")
	store.Put(ctx, "gone", "gone text")

	if err := store.Delete(ctx, "gone"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "gone"); ok {
		t.Error("expected deleted entry to be absent")
	}

	purged, err := store.Purge(ctx)
	if err != nil {
		t.Fatalf("Purge failed: %v", err)
	}
	if purged != 1 {
		t.Errorf("expected 1 purged row, got %d", purged)
	}

	var id string
	err = store.db.QueryRowContext(ctx, "SELECT id FROM transcripts WHERE id = ?", "old").Scan(&id)
	if err != sql.ErrNoRows {
		t.Errorf("expected old row to be purged, got err=%v", err)
	}
	if _, ok, _ := store.Get(ctx, "fresh"); !ok {
		t.Error("expected fresh entry to survive purge")
	}
}

func TestNewSQLiteStore_Error(t *testing.T) {
	if _, err := NewSQLiteStore("/dev/null/transcripts.db", Options{}); err == nil {
		t.Fatal("expected error, got nil")
	}
}

package records

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"rosview/internal/engine/filter"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "records.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_AppendAndRange(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 2, 13, 10, 0, 0, 0, time.UTC)

	recs := []filter.Record{
		{ID: "b", Stamp: base.Add(2 * time.Second), Severity: filter.SeverityError, Node: "/disk", Location: "/disk/mon.cpp:1", Message: "ERROR disk full", Topics: []string{"/rosout"}},
		{ID: "a", Stamp: base, Severity: filter.SeverityInfo, Node: "/talker", Message: "hello"},
		{Stamp: base.Add(time.Second), Severity: filter.SeverityWarn, Node: "/fan", Message: "fan slow"},
	}
	n, err := store.Append(ctx, recs)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 inserted, got %d", n)
	}
	if recs[2].ID == "" {
		t.Fatal("expected generated id to be written back")
	}

	// Duplicate ids are ignored.
	n, err = store.Append(ctx, recs[:1])
	if err != nil {
		t.Fatalf("append duplicate: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected duplicate to be skipped, got %d", n)
	}

	all, err := store.Range(ctx, time.Time{}, time.Time{}, 0)
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 records, got %d", len(all))
	}
	if all[0].ID != "a" || all[2].ID != "b" {
		t.Fatalf("expected stamp order, got %s,%s,%s", all[0].ID, all[1].ID, all[2].ID)
	}
	if !all[2].Stamp.Equal(base.Add(2*time.Second)) || all[2].Severity != filter.SeverityError {
		t.Fatalf("expected fields to roundtrip, got %+v", all[2])
	}
	if len(all[2].Topics) != 1 || all[2].Topics[0] != "/rosout" {
		t.Fatalf("expected topics to roundtrip, got %v", all[2].Topics)
	}
	if all[0].Topics != nil {
		t.Fatalf("expected empty topics as nil, got %v", all[0].Topics)
	}

	window, err := store.Range(ctx, base.Add(500*time.Millisecond), base.Add(2*time.Second), 1)
	if err != nil {
		t.Fatalf("range window: %v", err)
	}
	if len(window) != 1 || window[0].Node != "/fan" {
		t.Fatalf("expected only the fan record, got %+v", window)
	}

	latest, err := store.Latest(ctx, time.Time{}, time.Time{}, 2)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if len(latest) != 2 || latest[0].Node != "/fan" || latest[1].ID != "b" {
		t.Fatalf("expected the two newest records oldest first, got %+v", latest)
	}

	first, last, ok, err := store.Bounds(ctx)
	if err != nil || !ok {
		t.Fatalf("bounds: ok=%v err=%v", ok, err)
	}
	if !first.Equal(base) || !last.Equal(base.Add(2*time.Second)) {
		t.Fatalf("unexpected bounds %v %v", first, last)
	}

	count, err := store.Count(ctx)
	if err != nil || count != 3 {
		t.Fatalf("expected count 3, got %d err=%v", count, err)
	}
}

func TestStore_BoundsEmpty(t *testing.T) {
	store := openTestStore(t)
	_, _, ok, err := store.Bounds(context.Background())
	if err != nil {
		t.Fatalf("bounds: %v", err)
	}
	if ok {
		t.Fatal("expected no bounds for empty store")
	}
}

func TestStore_OpenRejectsDirectoryPath(t *testing.T) {
	_, err := Open(t.TempDir())
	if err == nil {
		t.Fatal("expected open error for directory path")
	}
	if !strings.Contains(err.Error(), "is a directory") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestStore_OpenCorruptDBPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.db")
	if err := os.WriteFile(path, []byte("this is not sqlite"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Open(path)
	if err == nil {
		t.Fatal("expected sqlite open error")
	}
	if !IsCorruptError(err) && !strings.Contains(strings.ToLower(err.Error()), "schema") {
		t.Fatalf("expected corrupt/schema error, got: %v", err)
	}
}

func TestEnsureSchema_DetectsNewerVersionDrift(t *testing.T) {
	store := openTestStore(t)
	if _, err := store.db.Exec(`INSERT INTO schema_migrations(version) VALUES (?)`, SchemaVersion+1); err != nil {
		t.Fatal(err)
	}
	err := EnsureSchema(store.db)
	if err == nil || !strings.Contains(err.Error(), "newer than supported") {
		t.Fatalf("expected version drift error, got %v", err)
	}
}

func TestEnsureSchema_Idempotent(t *testing.T) {
	store := openTestStore(t)
	if err := EnsureSchema(store.db); err != nil {
		t.Fatalf("second ensure schema: %v", err)
	}
}

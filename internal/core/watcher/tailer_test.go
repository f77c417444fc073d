package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"rosview/internal/engine/filter"
)

type memorySink struct {
	recs []filter.Record
	err  error
}

func (m *memorySink) Append(_ context.Context, recs []filter.Record) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.recs = append(m.recs, recs...)
	return len(recs), nil
}

func appendFile(t *testing.T, path, content string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if _, err := f.WriteString(content); err != nil {
		t.Fatal(err)
	}
}

const (
	lineA = `{"stamp":"2024-05-01T10:00:00Z","node":"/planner","location":"plan.cpp:10","message":"alpha"}` + "\n"
	lineB = `{"stamp":"2024-05-01T10:00:01Z","node":"/planner","location":"plan.cpp:11","message":"beta"}` + "\n"
)

func TestTailer_IncrementalReads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rosout.jsonl")
	sink := &memorySink{}
	var notified []filter.Record
	tl := NewTailer(sink, func(recs []filter.Record) { notified = append(notified, recs...) })

	appendFile(t, path, lineA+`{"stamp":"2024-05-01T10:00:01Z","mess`)
	recs, err := tl.Ingest(context.Background(), []string{path})
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 || recs[0].Message != "alpha" {
		t.Fatalf("expected only the complete line, got %+v", recs)
	}
	if tl.Offset(path) != int64(len(lineA)) {
		t.Fatalf("offset should stop before the partial line, got %d", tl.Offset(path))
	}

	appendFile(t, path, `age":"gamma"}`+"\n")
	recs, err = tl.Ingest(context.Background(), []string{path})
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 || recs[0].Message != "gamma" {
		t.Fatalf("expected the completed line, got %+v", recs)
	}

	recs, _ = tl.Ingest(context.Background(), []string{path})
	if len(recs) != 0 {
		t.Fatalf("expected nothing new, got %+v", recs)
	}
	if len(sink.recs) != 2 || len(notified) != 2 {
		t.Fatalf("expected 2 stored and notified records, got %d/%d", len(sink.recs), len(notified))
	}
}

func TestTailer_TruncationRereads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rosout.jsonl")
	tl := NewTailer(nil, nil)

	appendFile(t, path, lineA+lineB)
	if recs, _ := tl.Ingest(context.Background(), []string{path}); len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}

	if err := os.WriteFile(path, []byte(lineB), 0o644); err != nil {
		t.Fatal(err)
	}
	recs, err := tl.Ingest(context.Background(), []string{path})
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 || recs[0].Message != "beta" {
		t.Fatalf("expected rotated file to be reread, got %+v", recs)
	}
}

func TestTailer_SkipsMalformedAndMissing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rosout.jsonl")
	appendFile(t, path, "not json\n\n"+lineA)

	tl := NewTailer(nil, nil)
	recs, err := tl.Ingest(context.Background(), []string{filepath.Join(dir, "gone.jsonl"), path})
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected the valid line only, got %+v", recs)
	}
}

func TestTailer_SinkError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rosout.jsonl")
	appendFile(t, path, lineA)

	boom := errors.New("disk full")
	called := false
	tl := NewTailer(&memorySink{err: boom}, func([]filter.Record) { called = true })
	if _, err := tl.Ingest(context.Background(), []string{path}); !errors.Is(err, boom) {
		t.Fatalf("expected sink error, got %v", err)
	}
	if called {
		t.Fatal("ingest callback must not run when the sink fails")
	}
}

func TestTailer_SinkErrorKeepsOffset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rosout.jsonl")
	appendFile(t, path, lineA)

	sink := &memorySink{err: errors.New("database is locked")}
	tl := NewTailer(sink, nil)
	if _, err := tl.Ingest(context.Background(), []string{path}); err == nil {
		t.Fatal("expected sink error")
	}
	if got := tl.Offset(path); got != 0 {
		t.Fatalf("offset must not move past an unstored batch, got %d", got)
	}

	sink.err = nil
	recs, err := tl.Ingest(context.Background(), []string{path})
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 || len(sink.recs) != 1 || sink.recs[0].Message != "alpha" {
		t.Fatalf("expected the record to be stored after recovery, got recs=%+v stored=%+v", recs, sink.recs)
	}
	if got := tl.Offset(path); got != int64(len(lineA)) {
		t.Fatalf("expected offset %d after recovery, got %d", len(lineA), got)
	}
}

func TestTailer_StableIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rosout.jsonl")
	appendFile(t, path, lineA+lineA)

	first, err := NewTailer(nil, nil).Ingest(context.Background(), []string{path})
	if err != nil {
		t.Fatal(err)
	}
	again, err := NewTailer(nil, nil).Ingest(context.Background(), []string{path})
	if err != nil {
		t.Fatal(err)
	}
	if len(first) != 2 || len(again) != 2 {
		t.Fatalf("expected 2 records per pass, got %d and %d", len(first), len(again))
	}
	if first[0].ID == "" || first[0].ID != again[0].ID {
		t.Fatalf("ids should be stable across readers: %q vs %q", first[0].ID, again[0].ID)
	}
	if first[0].ID == first[1].ID {
		t.Fatal("identical lines at different offsets need distinct ids")
	}
}

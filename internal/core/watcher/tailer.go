package watcher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/google/uuid"

	"rosview/internal/data/records"
	"rosview/internal/engine/filter"
	"rosview/internal/shared/observability"
)

// Appender receives parsed records. *records.Store satisfies it.
type Appender interface {
	Append(ctx context.Context, recs []filter.Record) (int, error)
}

// Tailer reads the lines appended to log files since the previous call.
// Only newline-terminated lines are consumed; a trailing partial line is
// picked up once it is completed. A file that shrank is read from the start.
// Lines without an id get one derived from their path and offset.
type Tailer struct {
	sink     Appender
	onIngest func([]filter.Record)

	mu      sync.Mutex
	offsets map[string]int64
}

// NewTailer creates a tailer. sink may be nil, in which case records are only
// handed to onIngest.
func NewTailer(sink Appender, onIngest func([]filter.Record)) *Tailer {
	return &Tailer{
		sink:     sink,
		onIngest: onIngest,
		offsets:  make(map[string]int64),
	}
}

// Offset returns the byte position up to which path has been consumed.
func (t *Tailer) Offset(path string) int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.offsets[path]
}

// Ingest reads new lines from paths, stores them and reports them to the
// ingest callback. It returns the parsed records. Unreadable files and
// malformed lines are logged and skipped.
func (t *Tailer) Ingest(ctx context.Context, paths []string) ([]filter.Record, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var batch []filter.Record
	next := make(map[string]int64, len(paths))
	for _, path := range paths {
		recs, offset, err := t.readNew(path)
		if err != nil {
			slog.Warn("tail failed", "path", path, "error", err)
			continue
		}
		if offset >= 0 {
			next[path] = offset
		}
		batch = append(batch, recs...)
	}

	if t.sink != nil && len(batch) > 0 {
		inserted, err := t.sink.Append(ctx, batch)
		if err != nil {
			// Offsets stay put so the same lines are read again next time.
			return nil, err
		}
		slog.Debug("records ingested", "parsed", len(batch), "inserted", inserted)
	}
	for path, offset := range next {
		t.offsets[path] = offset
	}
	if len(batch) == 0 {
		return nil, nil
	}
	if t.onIngest != nil {
		t.onIngest(batch)
	}
	return batch, nil
}

// readNew parses the complete lines past the stored offset and returns them
// with the offset to resume from, or -1 when the file is gone. The caller
// commits the offset.
func (t *Tailer) readNew(path string) ([]filter.Record, int64, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		delete(t.offsets, path)
		return nil, -1, nil
	}
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, 0, err
	}
	offset := t.offsets[path]
	if info.Size() < offset {
		slog.Info("log file truncated, rereading", "path", path)
		offset = 0
	}
	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		return nil, 0, err
	}
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, 0, err
	}

	end := bytes.LastIndexByte(data, '\n')
	if end < 0 {
		return nil, offset, nil
	}

	var out []filter.Record
	pos := offset
	for _, raw := range bytes.Split(data[:end], []byte{'\n'}) {
		lineStart := pos
		pos += int64(len(raw)) + 1
		line := bytes.TrimSpace(raw)
		if len(line) == 0 {
			continue
		}
		rec, err := records.ParseLine(line)
		if err != nil {
			observability.RecordParseErrorsTotal.Inc()
			slog.Warn("skipping malformed record", "path", path, "offset", lineStart, "error", err)
			continue
		}
		if rec.ID == "" {
			rec.ID = lineID(path, lineStart, line)
		}
		out = append(out, rec)
	}
	return out, offset + int64(end) + 1, nil
}

// lineID derives a stable id from where a line was read, so re-reading a
// file after a restart does not store its records twice.
func lineID(path string, offset int64, line []byte) string {
	name := fmt.Sprintf("%s:%d:%s", path, offset, line)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String()
}

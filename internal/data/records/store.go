package records

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	_ "modernc.org/sqlite"

	"rosview/internal/engine/filter"
	"rosview/internal/shared/observability"
)

const (
	driverName         = "sqlite"
	maxAttempts        = 5
	defaultBusyTimeout = 2 * time.Second
)

// Store persists console records in sqlite.
type Store struct {
	path string
	db   *sql.DB
	mu   sync.Mutex
}

func Open(path string) (*Store, error) {
	return OpenWithTimeout(path, defaultBusyTimeout)
}

// OpenWithTimeout opens the store with the given sqlite busy timeout.
// Non-positive values fall back to the default.
func OpenWithTimeout(path string, busyTimeout time.Duration) (*Store, error) {
	if busyTimeout <= 0 {
		busyTimeout = defaultBusyTimeout
	}
	cleanPath := strings.TrimSpace(path)
	if cleanPath == "" {
		return nil, fmt.Errorf("record store path must not be empty")
	}
	if info, err := os.Stat(cleanPath); err == nil && info.IsDir() {
		return nil, fmt.Errorf("record store path %q is a directory, expected file", cleanPath)
	}

	dir := filepath.Dir(cleanPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create record store directory %q: %w", dir, err)
		}
	}

	// busy_timeout + WAL reduce lock conflicts while the watcher ingests.
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)", cleanPath, busyTimeout.Milliseconds())
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite record store %q: %w", cleanPath, err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite record store %q: %w", cleanPath, err)
	}
	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize sqlite schema %q: %w", cleanPath, err)
	}

	return &Store{path: cleanPath, db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Append inserts records, assigning ids to those without one. Records whose
// id already exists are skipped. It returns the number of rows inserted.
func (s *Store) Append(ctx context.Context, recs []filter.Record) (int, error) {
	if len(recs) == 0 {
		return 0, nil
	}
	ctx, span := observability.Tracer.Start(ctx, "records.Append", trace.WithAttributes(attribute.Int("records", len(recs))))
	defer span.End()
	defer observeDuration("append", time.Now())

	s.mu.Lock()
	defer s.mu.Unlock()

	inserted := 0
	err := s.withRetry("append records", func() error {
		inserted = 0
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		stmt, err := tx.PrepareContext(ctx, `
INSERT INTO records (id, stamp_ns, severity, node, location, message, topics)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO NOTHING
`)
		if err != nil {
			_ = tx.Rollback()
			return err
		}
		defer stmt.Close()

		for i := range recs {
			if recs[i].ID == "" {
				recs[i].ID = uuid.NewString()
			}
			topics, err := json.Marshal(nonNil(recs[i].Topics))
			if err != nil {
				_ = tx.Rollback()
				return err
			}
			res, err := stmt.ExecContext(ctx,
				recs[i].ID,
				recs[i].Stamp.UTC().UnixNano(),
				int(recs[i].Severity),
				recs[i].Node,
				recs[i].Location,
				recs[i].Message,
				string(topics),
			)
			if err != nil {
				_ = tx.Rollback()
				return err
			}
			if n, err := res.RowsAffected(); err == nil {
				inserted += int(n)
			}
		}
		return tx.Commit()
	})
	if err != nil {
		span.RecordError(err)
		return 0, err
	}
	observability.RecordsIngestedTotal.Add(float64(inserted))
	return inserted, nil
}

// Range returns records with since <= stamp <= until ordered by stamp. Zero
// bounds are open; limit <= 0 means no limit. With a limit the oldest
// matching records are returned.
func (s *Store) Range(ctx context.Context, since, until time.Time, limit int) ([]filter.Record, error) {
	ctx, span := observability.Tracer.Start(ctx, "records.Range")
	defer span.End()
	defer observeDuration("range", time.Now())

	recs, err := s.query(ctx, since, until, limit, "ASC")
	if err != nil {
		span.RecordError(err)
	}
	return recs, err
}

// Latest is Range keeping the newest limit records, still ordered oldest
// first.
func (s *Store) Latest(ctx context.Context, since, until time.Time, limit int) ([]filter.Record, error) {
	ctx, span := observability.Tracer.Start(ctx, "records.Latest")
	defer span.End()
	defer observeDuration("latest", time.Now())

	recs, err := s.query(ctx, since, until, limit, "DESC")
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	for i, j := 0, len(recs)-1; i < j; i, j = i+1, j-1 {
		recs[i], recs[j] = recs[j], recs[i]
	}
	return recs, nil
}

func (s *Store) query(ctx context.Context, since, until time.Time, limit int, order string) ([]filter.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `SELECT id, stamp_ns, severity, node, location, message, topics FROM records WHERE 1=1`
	args := make([]any, 0, 3)
	if !since.IsZero() {
		query += " AND stamp_ns >= ?"
		args = append(args, since.UTC().UnixNano())
	}
	if !until.IsZero() {
		query += " AND stamp_ns <= ?"
		args = append(args, until.UTC().UnixNano())
	}
	query += fmt.Sprintf(" ORDER BY stamp_ns %s, id %s", order, order)
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	var rows *sql.Rows
	err := s.withRetry("load records", func() error {
		var qErr error
		rows, qErr = s.db.QueryContext(ctx, query, args...)
		return qErr
	})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]filter.Record, 0)
	for rows.Next() {
		var (
			rec       filter.Record
			stampNS   int64
			severity  int
			topicsRaw string
		)
		if err := rows.Scan(&rec.ID, &stampNS, &severity, &rec.Node, &rec.Location, &rec.Message, &topicsRaw); err != nil {
			return nil, fmt.Errorf("scan record row: %w", err)
		}
		rec.Stamp = time.Unix(0, stampNS).UTC()
		rec.Severity = filter.Severity(severity)
		if err := json.Unmarshal([]byte(topicsRaw), &rec.Topics); err != nil {
			return nil, fmt.Errorf("decode topics of record %s: %w", rec.ID, err)
		}
		if len(rec.Topics) == 0 {
			rec.Topics = nil
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate record rows: %w", err)
	}
	return out, nil
}

// Bounds returns the oldest and newest stamps; ok is false when empty.
func (s *Store) Bounds(ctx context.Context) (first, last time.Time, ok bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var minNS, maxNS sql.NullInt64
	err = s.withRetry("record bounds", func() error {
		return s.db.QueryRowContext(ctx, `SELECT MIN(stamp_ns), MAX(stamp_ns) FROM records`).Scan(&minNS, &maxNS)
	})
	if err != nil {
		return time.Time{}, time.Time{}, false, err
	}
	if !minNS.Valid || !maxNS.Valid {
		return time.Time{}, time.Time{}, false, nil
	}
	return time.Unix(0, minNS.Int64).UTC(), time.Unix(0, maxNS.Int64).UTC(), true, nil
}

func (s *Store) Count(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int
	err := s.withRetry("count records", func() error {
		return s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM records`).Scan(&n)
	})
	return n, err
}

func (s *Store) withRetry(op string, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if !isLockError(err) || attempt == maxAttempts {
			break
		}
		time.Sleep(time.Duration(attempt*25) * time.Millisecond)
	}
	return fmt.Errorf("%s: %w", op, lastErr)
}

func isLockError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "busy")
}

func IsCorruptError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "malformed") || strings.Contains(msg, "not a database") || errors.Is(err, os.ErrInvalid)
}

func observeDuration(op string, start time.Time) {
	observability.StoreDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func nonNil(topics []string) []string {
	if topics == nil {
		return []string{}
	}
	return topics
}

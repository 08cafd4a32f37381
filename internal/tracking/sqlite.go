// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tracking persists queue records in a local SQLite database. It
// implements the queue.TrackingStore interface and is the only package
// that knows the schema.
package tracking

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/case-pipeline/internal/queue"
	"github.com/pdiddy/case-pipeline/pkg/types"
)

const schema = `
CREATE TABLE IF NOT EXISTS queue_records (
	id                 TEXT PRIMARY KEY,
	status             TEXT NOT NULL DEFAULT 'Pending',
	source_locator     TEXT NOT NULL DEFAULT '',
	started_at         TEXT NOT NULL DEFAULT '',
	completed_at       TEXT NOT NULL DEFAULT '',
	result_id          TEXT NOT NULL DEFAULT '',
	result_location    TEXT NOT NULL DEFAULT '',
	cases_found        INTEGER NOT NULL DEFAULT 0,
	processing_time_ms INTEGER NOT NULL DEFAULT 0,
	error_message      TEXT NOT NULL DEFAULT '',
	retry_count        INTEGER NOT NULL DEFAULT 0,
	last_error_time    TEXT NOT NULL DEFAULT '',
	created_at         TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_queue_records_status ON queue_records(status);
`

// updatableColumns is the allowlist for Update. Field names arriving from
// the state machine map one to one onto columns.
var updatableColumns = map[string]bool{
	queue.FieldStatus:           true,
	queue.FieldStartedAt:        true,
	queue.FieldCompletedAt:      true,
	queue.FieldResultID:         true,
	queue.FieldResultLocation:   true,
	queue.FieldCasesFound:       true,
	queue.FieldProcessingTimeMS: true,
	queue.FieldErrorMessage:     true,
	queue.FieldRetryCount:       true,
	queue.FieldLastErrorTime:    true,
}

// Store is a SQLite-backed tracking store.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the tracking database at dbPath and
// ensures the schema exists.
func Open(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating tracking dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening tracking db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating tracking schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Add registers a new instruction in the queue with status Pending. Adding
// an id that already exists is an error.
func (s *Store) Add(ctx context.Context, id, sourceLocator string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO queue_records (id, source_locator, created_at) VALUES (?, ?, ?)`,
		id, sourceLocator, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("adding queue record %s: %w", id, err)
	}
	return nil
}

// Get returns the record for id, or queue.ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (types.QueueRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, status, source_locator, started_at, completed_at,
		       result_id, result_location, cases_found, processing_time_ms,
		       error_message, retry_count, last_error_time, created_at
		FROM queue_records WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return types.QueueRecord{}, fmt.Errorf("record %s: %w", id, queue.ErrNotFound)
	}
	if err != nil {
		return types.QueueRecord{}, fmt.Errorf("reading queue record %s: %w", id, err)
	}
	return rec, nil
}

// Update writes the given fields onto an existing record. Unknown field
// names are an error; an id with no record returns queue.ErrNotFound.
func (s *Store) Update(ctx context.Context, id string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		if !updatableColumns[name] {
			return fmt.Errorf("updating queue record %s: unknown field %q", id, name)
		}
		names = append(names, name)
	}
	sort.Strings(names)

	query := "UPDATE queue_records SET "
	args := make([]any, 0, len(names)+1)
	for i, name := range names {
		if i > 0 {
			query += ", "
		}
		query += name + " = ?"
		args = append(args, fields[name])
	}
	query += " WHERE id = ?"
	args = append(args, id)

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating queue record %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating queue record %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("record %s: %w", id, queue.ErrNotFound)
	}
	return nil
}

// ListPending returns Pending records oldest first.
func (s *Store) ListPending(ctx context.Context) ([]types.PendingItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source_locator, created_at FROM queue_records
		WHERE status = ? ORDER BY created_at, id`, string(types.StatusPending))
	if err != nil {
		return nil, fmt.Errorf("listing pending records: %w", err)
	}
	defer rows.Close()

	var items []types.PendingItem
	for rows.Next() {
		var item types.PendingItem
		var created string
		if err := rows.Scan(&item.ID, &item.Locator, &created); err != nil {
			return nil, fmt.Errorf("scanning pending record: %w", err)
		}
		item.CreatedAt = parseTime(created)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing pending records: %w", err)
	}
	return items, nil
}

// List returns every record, oldest first.
func (s *Store) List(ctx context.Context) ([]types.QueueRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, status, source_locator, started_at, completed_at,
		       result_id, result_location, cases_found, processing_time_ms,
		       error_message, retry_count, last_error_time, created_at
		FROM queue_records ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("listing queue records: %w", err)
	}
	defer rows.Close()

	var records []types.QueueRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning queue record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing queue records: %w", err)
	}
	return records, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (types.QueueRecord, error) {
	var rec types.QueueRecord
	var status, started, completed, lastErr, created string
	err := row.Scan(&rec.ID, &status, &rec.SourceLocator, &started, &completed,
		&rec.ResultID, &rec.ResultLocation, &rec.CasesFound, &rec.ProcessingTimeMS,
		&rec.ErrorMessage, &rec.RetryCount, &lastErr, &created)
	if err != nil {
		return types.QueueRecord{}, err
	}
	rec.Status = types.Status(status)
	rec.StartedAt = parseTime(started)
	rec.CompletedAt = parseTime(completed)
	rec.LastErrorTime = parseTime(lastErr)
	rec.CreatedAt = parseTime(created)
	return rec, nil
}

// parseTime reads stored RFC 3339 strings, returning the zero time for
// empty or malformed values.
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store on a single SQLite file.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStore opens (creating when needed) the database at dbPath.
func NewSQLiteStore(ctx context.Context, dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite works best with single writer

	if err := InitSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStore{db: db, dbPath: dbPath}, nil
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string { return s.dbPath }

// Add inserts r.
func (s *SQLiteStore) Add(ctx context.Context, r Record) error {
	if err := r.Validate(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (
			id, started_at, source, mode, encoding, target_mask, ceiling,
			cracked, cancelled, match_mask, attempts, elapsed_ms
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.StartedAt.UnixNano(), r.Source, r.Mode, r.Encoding, r.TargetMask, r.Ceiling,
		boolToInt(r.Cracked), boolToInt(r.Cancelled), nullString(r.MatchMask), r.Attempts, r.ElapsedMillis,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run %s: %w", r.ID, err)
	}
	return nil
}

// List returns up to limit records, newest first.
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, started_at, source, mode, encoding, target_mask, ceiling,
			cracked, cancelled, match_mask, attempts, elapsed_ms
		FROM runs
		ORDER BY started_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			r                  Record
			startedAt          int64
			cracked, cancelled int
			matchMask          sql.NullString
		)
		if err := rows.Scan(&r.ID, &startedAt, &r.Source, &r.Mode, &r.Encoding, &r.TargetMask, &r.Ceiling,
			&cracked, &cancelled, &matchMask, &r.Attempts, &r.ElapsedMillis); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.StartedAt = time.Unix(0, startedAt).UTC()
		r.Cracked = cracked != 0
		r.Cancelled = cancelled != 0
		r.MatchMask = matchMask.String
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}
	return records, nil
}

// Summary aggregates every stored run in one query.
func (s *SQLiteStore) Summary(ctx context.Context) (Summary, error) {
	var sum Summary
	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(cracked), 0),
			COALESCE(SUM(CASE WHEN cracked = 0 AND cancelled = 1 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(attempts), 0)
		FROM runs`).Scan(&sum.Runs, &sum.Cracked, &sum.Cancelled, &sum.TotalAttempts)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to summarize runs: %w", err)
	}
	sum.Exhausted = sum.Runs - sum.Cracked - sum.Cancelled
	sum.finish()
	return sum, nil
}

// Clear deletes every run.
func (s *SQLiteStore) Clear(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear runs: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count cleared runs: %w", err)
	}
	return int(n), nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

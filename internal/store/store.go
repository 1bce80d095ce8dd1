// Package store persists the canonical ids of papers that were already
// reported, so repeated runs can deduplicate against a sliding window.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS papers (
    arxiv_id TEXT PRIMARY KEY,
    title TEXT,
    abstract TEXT,
    published_utc TEXT,
    created_at TEXT
);`

// Store is a SQLite-backed record store. Every operation opens its own
// connection and closes it before returning; nothing is held across calls,
// so independent stores in tests only need distinct paths.
type Store struct {
	path string
}

func New(path string) *Store {
	return &Store{path: path}
}

func (s *Store) open() (*sqlx.DB, error) {
	db, err := sqlx.Connect("sqlite3", s.path)
	if err != nil {
		return nil, fmt.Errorf("store: failed to open %s: %w", s.path, err)
	}
	return db, nil
}

// Init ensures the schema exists. Databases created before the abstract
// column was added are migrated in place; the migration is idempotent and
// preserves existing rows.
func (s *Store) Init(ctx context.Context) error {
	db, err := s.open()
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("store: failed to create schema: %w", err)
	}

	cols, err := tableColumns(ctx, db, "papers")
	if err != nil {
		return err
	}
	if !cols["abstract"] {
		if _, err := db.ExecContext(ctx, `ALTER TABLE papers ADD COLUMN abstract TEXT`); err != nil {
			return fmt.Errorf("store: failed to add abstract column: %w", err)
		}
	}

	return nil
}

// InsertIfNew atomically inserts the record unless its id is already
// present. It returns true only when the row was newly inserted.
func (s *Store) InsertIfNew(ctx context.Context, id, title, abstract, publishedUTC string) (bool, error) {
	db, err := s.open()
	if err != nil {
		return false, err
	}
	defer db.Close()

	res, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO papers (arxiv_id, title, abstract, published_utc, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		id, title, abstract, publishedUTC, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return false, fmt.Errorf("store: failed to insert %s: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("store: failed to read rows affected: %w", err)
	}
	return n > 0, nil
}

// PruneBefore deletes every record whose publish timestamp is strictly
// before cutoffUTC and returns the number of rows deleted. RFC 3339 UTC
// strings compare correctly as text, so this is a plain range delete.
func (s *Store) PruneBefore(ctx context.Context, cutoffUTC string) (int64, error) {
	db, err := s.open()
	if err != nil {
		return 0, err
	}
	defer db.Close()

	res, err := db.ExecContext(ctx, `DELETE FROM papers WHERE published_utc < ?`, cutoffUTC)
	if err != nil {
		return 0, fmt.Errorf("store: failed to prune: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("store: failed to read rows affected: %w", err)
	}
	return n, nil
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int64, error) {
	db, err := s.open()
	if err != nil {
		return 0, err
	}
	defer db.Close()

	var n int64
	if err := db.GetContext(ctx, &n, `SELECT COUNT(*) FROM papers`); err != nil {
		return 0, fmt.Errorf("store: failed to count: %w", err)
	}
	return n, nil
}

func tableColumns(ctx context.Context, db *sqlx.DB, table string) (map[string]bool, error) {
	rows, err := db.QueryxContext(ctx, fmt.Sprintf(`PRAGMA table_info(%s)`, table))
	if err != nil {
		return nil, fmt.Errorf("store: failed to inspect %s: %w", table, err)
	}
	defer rows.Close()

	cols := make(map[string]bool)
	for rows.Next() {
		var (
			cid     int
			name    string
			colType string
			notNull int
			dflt    any
			pk      int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("store: failed to scan column info: %w", err)
		}
		cols[name] = true
	}
	return cols, rows.Err()
}

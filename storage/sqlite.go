package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

// SQLiteStore is a Cache kept in a SQLite table keyed by run and id.
type SQLiteStore struct {
	db  *sql.DB
	run string
}

// NewSQLiteStore opens or creates the database at path. The store sees only
// rows of run, and Close deletes them.
func NewSQLiteStore(ctx context.Context, path, run string) (*SQLiteStore, error) {
	if path == "" {
		path = "semingest-cache.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS run_id_types (
		run TEXT NOT NULL,
		id TEXT NOT NULL,
		type TEXT NOT NULL,
		PRIMARY KEY (run, id)
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create run_id_types table: %w", err)
	}
	return &SQLiteStore{db: db, run: run}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (string, error) {
	var typ string
	err := s.db.QueryRowContext(ctx, `SELECT type FROM run_id_types WHERE run = ? AND id = ?`, s.run, id).Scan(&typ)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return "", fmt.Errorf("select %s: %w", id, err)
	}
	return typ, nil
}

func (s *SQLiteStore) SetIfAbsent(ctx context.Context, id, typ string) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO run_id_types (run, id, type) VALUES (?, ?, ?) ON CONFLICT(run, id) DO NOTHING`,
		s.run, id, typ)
	if err != nil {
		return fmt.Errorf("insert %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert %s: %w", id, err)
	}
	if n == 1 {
		return nil
	}
	existing, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	return settle(id, existing, typ)
}

func (s *SQLiteStore) Len(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM run_id_types WHERE run = ?`, s.run).Scan(&n); err != nil {
		return 0, fmt.Errorf("count ids: %w", err)
	}
	return n, nil
}

func (s *SQLiteStore) Close() error {
	_, err := s.db.Exec(`DELETE FROM run_id_types WHERE run = ?`, s.run)
	if err != nil {
		err = fmt.Errorf("delete run rows: %w", err)
	}
	if cerr := s.db.Close(); err == nil {
		err = cerr
	}
	return err
}

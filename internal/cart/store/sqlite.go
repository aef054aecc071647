package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"giftcard-store/internal/cart"

	_ "modernc.org/sqlite"
)

const cartKey = "cart"

// SQLite keeps the snapshot in a key/value table of a local database file.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
    key        TEXT PRIMARY KEY,
    body       BLOB NOT NULL,
    updated_at TEXT NOT NULL
)`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create snapshots table: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Close releases the database handle.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Save upserts the single cart row.
func (s *SQLite) Save(snap cart.Snapshot) error {
	data, err := cart.EncodeSnapshot(snap)
	if err != nil {
		return err
	}
	const q = `
INSERT INTO snapshots (key, body, updated_at) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`
	if _, err := s.db.Exec(q, cartKey, data, time.Now().UTC().Format(time.RFC3339Nano)); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (s *SQLite) Load() (cart.Snapshot, bool, error) {
	var data []byte
	err := s.db.QueryRow(`SELECT body FROM snapshots WHERE key = ?`, cartKey).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return cart.Snapshot{}, false, nil
		}
		return cart.Snapshot{}, false, fmt.Errorf("load snapshot: %w", err)
	}
	snap, err := cart.DecodeSnapshot(data)
	if err != nil {
		return cart.Snapshot{}, false, err
	}
	return snap, true, nil
}

func (s *SQLite) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM snapshots WHERE key = ?`, cartKey); err != nil {
		return fmt.Errorf("clear snapshot: %w", err)
	}
	return nil
}

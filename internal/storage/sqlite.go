package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"

	"github.com/marcus/codenotes/internal/config"
)

const kvSchema = `
CREATE TABLE IF NOT EXISTS kv (
    key TEXT PRIMARY KEY,
    value BLOB NOT NULL,
    updated_at TEXT NOT NULL
);
`

// SQLSlot keeps the collection under one key of a SQLite kv table.
type SQLSlot struct {
	db  *sql.DB
	key string
}

// OpenSQLSlot opens (creating if needed) the database at path with the named
// driver: "sqlite" for modernc.org/sqlite or "sqlite3" for mattn/go-sqlite3.
func OpenSQLSlot(driver, path, key string) (*SQLSlot, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}

	db, err := sql.Open(driver, dsn(driver, path))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One writer; keeps :memory: databases on a single connection too.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(kvSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &SQLSlot{db: db, key: key}, nil
}

func dsn(driver, path string) string {
	if path == ":memory:" {
		return path
	}
	switch driver {
	case config.DriverCgo:
		return path + "?_busy_timeout=5000&_journal_mode=WAL"
	default:
		return "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}
}

// Load returns the stored payload, or nil when the key has never been written.
func (s *SQLSlot) Load() ([]byte, error) {
	var value []byte
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, s.key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query slot: %w", err)
	}
	return value, nil
}

// Save upserts the payload.
func (s *SQLSlot) Save(data []byte) error {
	_, err := s.db.Exec(`
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		s.key, data, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("upsert slot: %w", err)
	}
	return nil
}

// Backup stores data under a new key derived from the slot key and returns that key.
func (s *SQLSlot) Backup(data []byte) (string, error) {
	now := time.Now()
	key := s.key + backupSuffix(now)
	_, err := s.db.Exec(`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)`,
		key, data, now.UTC().Format(time.RFC3339))
	if err != nil {
		return "", fmt.Errorf("insert backup: %w", err)
	}
	return key, nil
}

// Close closes the database connection.
func (s *SQLSlot) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Package database stores a per-request audit trail of predictions in an
// embedded SQLite database. A failed audit write never fails the prediction
// that caused it.
package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// DB wraps the SQLite connection with pooling configured for a single
// writer and many readers.
type DB struct {
	*sql.DB
}

// NewDB opens (creating if necessary) the audit database under dataDir.
func NewDB(dataDir string) (*DB, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "lungrisk.db")
	connStr := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000", dbPath)

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	wrapped := &DB{DB: db}
	if err := wrapped.migrate(); err != nil {
		return nil, err
	}
	return wrapped, nil
}

func (db *DB) migrate() error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS predictions (
			id TEXT PRIMARY KEY,
			created_at TIMESTAMP NOT NULL,
			inputs TEXT NOT NULL,
			raw_probability REAL NOT NULL,
			adjusted_probability REAL,
			adjusted INTEGER NOT NULL,
			pi_train REAL NOT NULL,
			pi_deploy REAL
		);
		CREATE INDEX IF NOT EXISTS idx_predictions_created_at ON predictions(created_at);
	`)
	if err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

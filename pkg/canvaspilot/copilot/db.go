// Package copilot – db.go provides the central SQLite database for
// CanvasPilot. A single canvaspilot.db file holds chat session history,
// session metadata, and the canvas snapshot each session last produced.
package copilot

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3" // SQLite driver.
)

// schema is the DDL executed on every startup (idempotent via IF NOT EXISTS).
const schema = `
-- Session conversation entries (append-only, one row per exchange).
CREATE TABLE IF NOT EXISTS session_entries (
    id                 INTEGER PRIMARY KEY AUTOINCREMENT,
    session_id         TEXT NOT NULL,
    user_message       TEXT NOT NULL,
    assistant_response TEXT NOT NULL,
    created_at         TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_session_entries_sid ON session_entries(session_id);

-- Session metadata (one row per session).
CREATE TABLE IF NOT EXISTS session_meta (
    session_id   TEXT PRIMARY KEY,
    canvas_state TEXT DEFAULT '{}',
    updated_at   TEXT NOT NULL
);
`

// OpenDatabase opens (or creates) the central canvaspilot.db at the given
// path. It enables WAL mode for concurrent read performance and creates
// all tables.
func OpenDatabase(path string) (*sql.DB, error) {
	if path == "" {
		path = "./data/canvaspilot.db"
	}

	// Ensure parent directory exists.
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create database directory %q: %w", dir, err)
	}

	dsn := path + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=ON"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database %q: %w", path, err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return db, nil
}

// Package database opens the local SQLite database that holds panelctl's
// audit trail.
package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"nathanbeddoewebdev/panelctl/internal/config"

	_ "modernc.org/sqlite"
)

const dbFile = "panelctl.db"

var pathOverride string

// SetPath overrides the default database path. Intended for testing.
func SetPath(p string) { pathOverride = p }

// ResetPath clears the path override. Intended for testing.
func ResetPath() { pathOverride = "" }

// DefaultPath returns the database path inside the config directory.
func DefaultPath() (string, error) {
	if pathOverride != "" {
		return pathOverride, nil
	}
	dir, err := config.Dir()
	if err != nil {
		return "", fmt.Errorf("database: %w", err)
	}
	return filepath.Join(dir, dbFile), nil
}

// Open opens a SQLite database at the provided path. Concurrent commands
// (such as parallel invoice downloads) share the file, so writers wait on a
// busy database instead of failing.
func Open(path string) (*sql.DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("database: failed to create directory %s: %w", dir, err)
	}

	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("database: failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database: failed to open %s: %w", path, err)
	}
	return db, nil
}

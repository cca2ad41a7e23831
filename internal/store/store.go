// Package store opens the SQLite database shared by the reminder, timetable
// and academics stores.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS reminders (
		id          TEXT    PRIMARY KEY,
		title       TEXT    NOT NULL,
		description TEXT    NOT NULL DEFAULT '',
		type        TEXT    NOT NULL DEFAULT 'assignment',
		due_date    TEXT,
		due_time    TEXT,
		completed   INTEGER NOT NULL DEFAULT 0,
		created_at  TEXT    NOT NULL,
		updated_at  TEXT    NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS classes (
		id           TEXT PRIMARY KEY,
		day          TEXT NOT NULL,
		start_time   TEXT NOT NULL,
		end_time     TEXT NOT NULL,
		subject_name TEXT NOT NULL,
		teacher_name TEXT NOT NULL DEFAULT '',
		room_number  TEXT NOT NULL DEFAULT '',
		class_type   TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_classes_day ON classes(day, start_time)`,
	`CREATE TABLE IF NOT EXISTS exams (
		id       TEXT PRIMARY KEY,
		subject  TEXT NOT NULL,
		date     TEXT NOT NULL,
		time     TEXT NOT NULL,
		session  TEXT NOT NULL DEFAULT '',
		location TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS calculations (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		kind       TEXT NOT NULL,
		result     TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_calculations_kind ON calculations(kind, created_at)`,
}

// Open opens (or creates) the SQLite database at path and applies the schema.
func Open(path string) (*sql.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func migrate(db *sql.DB) error {
	for _, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

// DefaultPath returns ~/.studydesk/studydesk.db.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "studydesk.db"
	}
	return filepath.Join(home, ".studydesk", "studydesk.db")
}

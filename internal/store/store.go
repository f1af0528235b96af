package store

import (
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

const currentVersion = 1

var ErrNotFound = errors.New("not found")

// Store is the record store: the objective collection and its task lists,
// held in an in-memory SQLite database. Nothing survives Close.
type Store struct {
	db *sql.DB
}

// NewMemory opens a private in-memory database and runs migrations.
func NewMemory() (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Every connection to :memory: is a separate database, so pin the pool
	// to a single connection that never expires.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	var version int
	err := s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version >= currentVersion {
		return nil
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	_, err = s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	return err
}

func (s *Store) migrateV1() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS objectives (
		id          TEXT PRIMARY KEY,
		position    INTEGER NOT NULL,
		title       TEXT NOT NULL,
		kpi         TEXT NOT NULL DEFAULT '',
		kpi_formula TEXT NOT NULL DEFAULT '',
		progress    INTEGER NOT NULL CHECK (progress BETWEEN 0 AND 100),
		status      TEXT NOT NULL CHECK (status IN ('not-started', 'in-progress', 'completed')),
		priority    TEXT NOT NULL DEFAULT 'medium' CHECK (priority IN ('low', 'medium', 'high')),
		due_date    TEXT NOT NULL DEFAULT '',
		assignee    TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS tasks (
		objective_id TEXT NOT NULL REFERENCES objectives(id) ON DELETE CASCADE,
		id           TEXT NOT NULL,
		position     INTEGER NOT NULL,
		title        TEXT NOT NULL,
		completed    INTEGER NOT NULL DEFAULT 0,
		updated_at   TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now')),
		PRIMARY KEY (objective_id, id)
	);

	CREATE INDEX IF NOT EXISTS idx_objectives_position ON objectives(position);
	`
	_, err := s.db.Exec(ddl)
	return err
}
